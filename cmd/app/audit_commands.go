package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/phiguard/cmd/app/commands"
	"github.com/allisson/phiguard/internal/database"
)

func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "subject",
			Usage: "Only records of this subject (UUID)",
		},
		&cli.StringFlag{
			Name:    "event-type",
			Aliases: []string{"t"},
			Usage:   "Only records of this event type (e.g., auth.login_failed)",
		},
		&cli.StringFlag{
			Name:    "start-date",
			Aliases: []string{"s"},
			Usage:   "Start date in YYYY-MM-DD or YYYY-MM-DD HH:MM:SS format (inclusive)",
		},
		&cli.StringFlag{
			Name:    "end-date",
			Aliases: []string{"e"},
			Usage:   "End date in YYYY-MM-DD or YYYY-MM-DD HH:MM:SS format (inclusive)",
		},
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"l"},
			Usage:   "Maximum number of records (0 means no limit)",
		},
		formatFlag(),
	}
}

func filterOptions(cmd *cli.Command) commands.FilterOptions {
	return commands.FilterOptions{
		SubjectID: cmd.String("subject"),
		EventType: cmd.String("event-type"),
		From:      cmd.String("start-date"),
		To:        cmd.String("end-date"),
		Limit:     int(cmd.Int("limit")),
	}
}

func getAuditCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "list-audit-logs",
			Usage: "Decrypt and list audit records",
			Flags: filterFlags(),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer()
				if err != nil {
					return err
				}
				defer closeContainer(container)

				trail, err := container.AuditTrail()
				if err != nil {
					return err
				}

				var txManager database.TxManager
				switch container.Config().DBDriver {
				case "postgres", "mysql":
					txManager, err = container.TxManager()
					if err != nil {
						return err
					}
				}

				return commands.RunListAuditLogs(
					ctx,
					trail,
					txManager,
					container.Logger(),
					commands.DefaultIO().Writer,
					filterOptions(cmd),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "count-audit-logs",
			Usage: "Count audit records without decrypting them",
			Flags: filterFlags(),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer()
				if err != nil {
					return err
				}
				defer closeContainer(container)

				trail, err := container.AuditTrail()
				if err != nil {
					return err
				}

				return commands.RunCountAuditLogs(
					ctx,
					trail,
					commands.DefaultIO().Writer,
					filterOptions(cmd),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "verify-audit-logs",
			Usage: "Verify signatures and envelopes of audit records",
			Flags: filterFlags(),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer()
				if err != nil {
					return err
				}
				defer closeContainer(container)

				trail, err := container.AuditTrail()
				if err != nil {
					return err
				}

				return commands.RunVerifyAuditLogs(
					ctx,
					trail,
					container.Logger(),
					commands.DefaultIO().Writer,
					filterOptions(cmd),
					cmd.String("format"),
				)
			},
		},
	}
}
