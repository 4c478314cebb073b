package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"

	"lankm/internal/autostart"
	"lankm/internal/config"
	"lankm/internal/network"
	"lankm/internal/switcher"
	"lankm/internal/tray"
)

func newTrayCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tray",
		Short: "Run the server from a system tray icon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runTray(cmd.Context(), *cfg)
			return nil
		},
	}

	cmd.Flags().IntVar(&cfg.QueueSize, "queue-size", cfg.QueueSize, "Events held for the client before the oldest is dropped")
	cmd.Flags().StringVar(&cfg.VirtualDeviceName, "virtual-device", cfg.VirtualDeviceName, "Name of the virtual keyboard used for local re-injection (Linux)")

	return cmd
}

// trayController starts and stops the server from the tray menu.
type trayController struct {
	ctx  context.Context
	cfg  config.Config
	tray *tray.Tray

	statusID    int
	toggleID    int
	autostartID int

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     *conc.WaitGroup
	mode   switcher.Mode
	peer   string
}

func runTray(ctx context.Context, cfg config.Config) {
	c := &trayController{ctx: ctx, cfg: cfg}
	c.tray = tray.New("LANKM - keyboard sharing", nil)

	ip, err := network.GetLocalIP()
	if err != nil {
		log.Warn().Err(err).Msg("Tray: could not determine local IP")
		ip = "unknown"
	}
	c.tray.AddInfoItem(fmt.Sprintf("IP: %s  Port: %d", ip, cfg.Port))
	c.statusID = c.tray.AddInfoItem("Stopped")
	c.tray.AddSeparator()
	c.toggleID = c.tray.AddMenuItem("Start", c.toggle)
	c.autostartID = c.tray.AddMenuItem(autostartTitle(autostart.IsEnabled()), c.toggleAutostart)
	c.tray.AddSeparator()
	c.tray.AddMenuItem("Quit", func() {
		c.stop()
		c.tray.Stop()
	})

	go func() {
		<-ctx.Done()
		log.Info().Msg("Tray: shutting down")
		c.stop()
		c.tray.Stop()
	}()

	log.Info().Msg("Tray: running")
	c.tray.Run()
}

func (c *trayController) toggle() {
	c.mu.Lock()
	running := c.cancel != nil
	c.mu.Unlock()

	if running {
		c.stop()
		return
	}
	c.start()
}

func (c *trayController) start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(c.ctx)
	wg := conc.NewWaitGroup()
	c.cancel = cancel
	c.wg = wg
	c.mode = switcher.Local
	c.peer = ""

	events := serverEvents{
		OnMode: func(m switcher.Mode) {
			c.mu.Lock()
			c.mode = m
			c.mu.Unlock()
			c.tray.SetActive(m == switcher.Remote)
			c.refreshStatus()
		},
		OnPeer: func(peer string) {
			c.mu.Lock()
			c.peer = peer
			c.mu.Unlock()
			c.refreshStatus()
		},
	}

	wg.Go(func() {
		err := startServer(ctx, c.cfg, events)

		c.mu.Lock()
		if c.wg == wg {
			c.cancel = nil
			c.wg = nil
		}
		c.mu.Unlock()
		cancel()

		c.tray.SetActive(false)
		c.tray.SetItemTitle(c.toggleID, "Start")
		if err != nil {
			log.Error().Err(err).Msg("Tray: server stopped")
			c.tray.SetItemTitle(c.statusID, "Error: "+err.Error())
			return
		}
		c.tray.SetItemTitle(c.statusID, "Stopped")
	})

	c.tray.SetItemTitle(c.toggleID, "Stop")
	c.tray.SetItemTitle(c.statusID, "Waiting for client")
}

func (c *trayController) stop() {
	c.mu.Lock()
	cancel, wg := c.cancel, c.wg
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	wg.Wait()
}

func (c *trayController) toggleAutostart() {
	var err error
	if autostart.IsEnabled() {
		err = autostart.Disable()
	} else {
		var l autostart.Launcher
		if l, err = autostart.TrayLauncher(); err == nil {
			l.Args = append(l.Args, trayArgs(c.cfg)...)
			err = autostart.Enable(l)
		}
	}
	if err != nil {
		log.Warn().Err(err).Msg("Tray: could not change autostart")
	}
	c.tray.SetItemTitle(c.autostartID, autostartTitle(autostart.IsEnabled()))
}

func autostartTitle(enabled bool) string {
	if enabled {
		return "Start on login: on"
	}
	return "Start on login: off"
}

func (c *trayController) refreshStatus() {
	c.mu.Lock()
	status := statusText(c.mode, c.peer)
	c.mu.Unlock()
	c.tray.SetItemTitle(c.statusID, status)
}

func statusText(mode switcher.Mode, peer string) string {
	if peer == "" {
		return fmt.Sprintf("Waiting for client (%s)", mode)
	}
	return fmt.Sprintf("Client %s (%s)", peer, mode)
}
