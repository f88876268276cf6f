package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"github.com/urfave/cli/v3"

	"github.com/allisson/phiguard/cmd/app/commands"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "migrate",
			Usage: "Create the audit record schema",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer()
				if err != nil {
					return err
				}
				defer closeContainer(container)

				cfg := container.Config()
				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
		{
			Name:  "metrics-server",
			Usage: "Serve Prometheus metrics and health endpoints",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer()
				if err != nil {
					return err
				}
				defer closeContainer(container)

				cfg := container.Config()
				logger := container.Logger()
				if !cfg.MetricsEnabled {
					return fmt.Errorf("metrics are disabled (METRICS_ENABLED=false)")
				}

				provider, err := container.MetricsProvider()
				if err != nil {
					return err
				}

				listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.MetricsPort))
				if err != nil {
					return fmt.Errorf("failed to listen on metrics port: %w", err)
				}

				logger.Info("phiguard metrics", slog.String("version", version))
				return commands.RunMetricsServer(
					ctx,
					provider,
					cfg.MetricsNamespace,
					container.ReadinessCheck(),
					logger,
					listener,
				)
			},
		},
	}
}
