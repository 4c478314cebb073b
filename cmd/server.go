package main

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"

	"lankm/internal/config"
	"lankm/internal/input"
	"lankm/internal/network"
	"lankm/internal/osutils"
	"lankm/internal/switcher"
)

func newServerCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Capture this keyboard and serve it to a client",
		Long:  "Grabs every local keyboard. Ctrl+Alt+Tab toggles between typing locally and forwarding keys to the connected client.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return startServer(cmd.Context(), *cfg, serverEvents{})
		},
	}

	cmd.Flags().IntVar(&cfg.QueueSize, "queue-size", cfg.QueueSize, "Events held for the client before the oldest is dropped")
	cmd.Flags().StringVar(&cfg.VirtualDeviceName, "virtual-device", cfg.VirtualDeviceName, "Name of the virtual keyboard used for local re-injection (Linux)")

	return cmd
}

// serverEvents lets a front end follow the server. Callbacks may be nil and
// must not block.
type serverEvents struct {
	OnListen func(addr net.Addr)
	OnMode   func(switcher.Mode)
	// OnPeer receives the client address on connect and "" on disconnect.
	OnPeer func(peer string)
}

func (e serverEvents) listen(addr net.Addr) {
	if e.OnListen != nil {
		e.OnListen(addr)
	}
}

func (e serverEvents) mode(m switcher.Mode) {
	if e.OnMode != nil {
		e.OnMode(m)
	}
}

func (e serverEvents) peer(p string) {
	if e.OnPeer != nil {
		e.OnPeer(p)
	}
}

// startServer runs the server on this machine's keyboards.
func startServer(ctx context.Context, cfg config.Config, events serverEvents) error {
	if err := osutils.CheckInputAccess(); err != nil {
		return err
	}
	go func() {
		if err := osutils.EnsureFirewallRule(cfg.Port); err != nil {
			log.Warn().Err(err).Msg("Firewall: could not open port")
		}
	}()
	return runServer(ctx, cfg, input.NewTrap(cfg.VirtualDeviceName), events)
}

// runServer serves keys from capture until ctx is done or capture fails.
func runServer(ctx context.Context, cfg config.Config, capture input.Capture, events serverEvents) error {
	queue := network.NewEventQueue(cfg.QueueSize)
	sw := switcher.New(queue)
	sw.SetOnSwitch(events.mode)

	ln, err := network.Listen(cfg.Port)
	if err != nil {
		return err
	}
	srv := network.NewServer(ln, queue)
	srv.SetOnConnect(events.peer)
	srv.SetOnDisconnect(func(error) { events.peer("") })
	events.listen(srv.Addr())
	logLocalAddresses(cfg.Port)

	if err := capture.Start(sw.Handle); err != nil {
		ln.Close()
		return fmt.Errorf("start capture: %w", err)
	}
	log.Info().Msg("Server: press Ctrl+Alt+Tab to switch between local and remote")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       conc.WaitGroup
		serveErr error
		trapErr  error
	)
	wg.Go(func() {
		serveErr = srv.Serve(ctx)
		cancel()
	})
	wg.Go(func() {
		trapErr = capture.Wait()
		cancel()
	})

	<-ctx.Done()
	if err := capture.Stop(); err != nil {
		log.Warn().Err(err).Msg("Server: stopping capture failed")
	}
	wg.Wait()

	if trapErr != nil {
		trapErr = fmt.Errorf("capture: %w", trapErr)
	}
	return errors.Join(serveErr, trapErr)
}

func logLocalAddresses(port int) {
	ips, err := network.GetLocalIPs()
	if err != nil {
		log.Warn().Err(err).Msg("Server: could not list local addresses")
		return
	}
	for _, ip := range ips {
		log.Info().Str("ip", ip).Int("port", port).Msg("Server: reachable at")
	}
}
