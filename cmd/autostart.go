package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"lankm/internal/autostart"
	"lankm/internal/config"
)

func newAutostartCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autostart",
		Short: "Manage starting the tray at login",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "enable",
		Short: "Start the tray at login",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			l, err := autostart.TrayLauncher()
			if err != nil {
				return err
			}
			l.Args = append(l.Args, trayArgs(*cfg)...)
			return autostart.Enable(l)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "disable",
		Short: "Stop starting the tray at login",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return autostart.Disable()
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Report whether the tray starts at login",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			state := "disabled"
			if autostart.IsEnabled() {
				state = "enabled"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "autostart %s\n", state)
		},
	})

	return cmd
}

// trayArgs carries non-default settings into the login entry.
func trayArgs(cfg config.Config) []string {
	def := config.DefaultConfig()
	var args []string
	if cfg.Port != def.Port {
		args = append(args, "--port", strconv.Itoa(cfg.Port))
	}
	if cfg.LogLevel != def.LogLevel {
		args = append(args, "--log-level", cfg.LogLevel)
	}
	return args
}
