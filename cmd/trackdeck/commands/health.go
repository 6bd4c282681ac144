// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/trackdeck/trackdeck/cmd/trackdeck/cli"
)

// HealthCommand returns the "health" subcommand that probes the
// service's health endpoint.
func HealthCommand() *cli.Command {
	var connection ServiceConnection

	return &cli.Command{
		Name:    "health",
		Summary: "Check service health",
		Description: `Check that the agent service is reachable and healthy.

Prints "ok" and exits 0 when the service reports healthy. Prints the
failure and exits 1 otherwise, so the command can gate scripts and
deploy checks.`,
		Usage: "trackdeck health [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("health", pflag.ContinueOnError)
			connection.AddFlags(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			client, err := connection.Client()
			if err != nil {
				return err
			}
			if err := client.Health(ctx); err != nil {
				fmt.Printf("unhealthy: %v\n", err)
				return &cli.ExitError{Code: 1}
			}
			fmt.Println("ok")
			return nil
		},
	}
}
