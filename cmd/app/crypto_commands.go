package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/phiguard/cmd/app/commands"
)

func subjectFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "subject",
		Aliases:  []string{"s"},
		Required: true,
		Usage:    "Subject whose derived key seals the data",
	}
}

func getCryptoCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "encrypt",
			Usage: "Encrypt data for a subject and print the base64 envelope",
			Flags: []cli.Flag{
				subjectFlag(),
				&cli.StringFlag{
					Name:    "data",
					Aliases: []string{"d"},
					Usage:   "Plaintext to encrypt (omit to read one line from stdin)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer()
				if err != nil {
					return err
				}
				defer closeContainer(container)

				engine, err := container.Engine()
				if err != nil {
					return err
				}

				return commands.RunEncrypt(ctx, engine, commands.DefaultIO(), cmd.String("subject"), cmd.String("data"))
			},
		},
		{
			Name:  "decrypt",
			Usage: "Decrypt a base64 envelope for a subject",
			Flags: []cli.Flag{
				subjectFlag(),
				&cli.StringFlag{
					Name:    "envelope",
					Aliases: []string{"e"},
					Usage:   "Base64 envelope (omit to read one line from stdin)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer()
				if err != nil {
					return err
				}
				defer closeContainer(container)

				// Building the trail installs the tamper alert hook.
				if _, err := container.AuditTrail(); err != nil {
					return err
				}
				engine, err := container.Engine()
				if err != nil {
					return err
				}

				return commands.RunDecrypt(ctx, engine, commands.DefaultIO(), cmd.String("subject"), cmd.String("envelope"))
			},
		},
		{
			Name:  "hash-password",
			Usage: "Hash a password with PBKDF2-SHA256 and print the encoded hash",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "password",
					Aliases: []string{"p"},
					Usage:   "Password to hash (omit to read one line from stdin)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer()
				if err != nil {
					return err
				}
				defer closeContainer(container)

				hasher, err := container.Hasher()
				if err != nil {
					return err
				}

				return commands.RunHashPassword(
					ctx,
					hasher,
					commands.DefaultIO(),
					cmd.String("password"),
					cmd.String("format"),
				)
			},
		},
	}
}
