package main

import (
	"context"
	"errors"
	"net"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"lankm/internal/config"
	"lankm/internal/input"
	"lankm/internal/network"
)

func newClientCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client [address]",
		Short: "Replay keys received from a server",
		Long:  "Connects to a server, reconnecting as needed, and types every received key on this machine. The address may also come from LANKM_ADDRESS.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				cfg.Address = args[0]
			}
			return runClient(cmd.Context(), *cfg)
		},
	}

	cmd.Flags().DurationVar(&cfg.ConnectTimeout, "connect-timeout", cfg.ConnectTimeout, "Timeout for each connection attempt")
	cmd.Flags().DurationVar(&cfg.RetryDelay, "retry-delay", cfg.RetryDelay, "Pause between connection attempts")
	cmd.Flags().StringVar(&cfg.VirtualDeviceName, "virtual-device", cfg.VirtualDeviceName, "Name of the virtual keyboard (Linux)")

	return cmd
}

func runClient(ctx context.Context, cfg config.Config) error {
	if cfg.Address == "" {
		return errors.New("no server address given")
	}

	injector, err := input.NewInjector(cfg.VirtualDeviceName)
	if err != nil {
		return err
	}
	defer injector.Close()

	addr := net.JoinHostPort(cfg.Address, strconv.Itoa(cfg.Port))
	log.Info().Str("server", addr).Msg("Client: starting")

	client := network.NewClient(addr, injector,
		network.WithConnectTimeout(cfg.ConnectTimeout),
		network.WithRetryDelay(cfg.RetryDelay),
	)
	return client.Run(ctx)
}
