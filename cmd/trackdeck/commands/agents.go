// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/trackdeck/trackdeck/cmd/trackdeck/cli"
	"github.com/trackdeck/trackdeck/lib/schema/chat"
)

// AgentsCommand returns the "agents" subcommand that lists the
// service's agents and models.
func AgentsCommand() *cli.Command {
	var connection ServiceConnection

	return &cli.Command{
		Name:    "agents",
		Summary: "List available agents and models",
		Description: `List the agents and models the service exposes.

The default agent and model (used when "trackdeck chat" runs without
--agent or --model) are marked with an asterisk.`,
		Usage: "trackdeck agents [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("agents", pflag.ContinueOnError)
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
			info, err := client.Info(ctx)
			if err != nil {
				return cli.Internal("query service info from %s: %w", connection.URL, err)
			}

			printServiceInfo(os.Stdout, info)
			return nil
		},
	}
}

// printServiceInfo writes the agent table and model list, marking the
// service defaults.
func printServiceInfo(w io.Writer, info *chat.ServiceInfo) {
	tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "  AGENT\tDESCRIPTION\n")
	for _, agent := range info.Agents {
		marker := ""
		if agent.Key == info.DefaultAgent {
			marker = " *"
		}
		fmt.Fprintf(tw, "  %s%s\t%s\n", agent.Key, marker, agent.Description)
	}
	tw.Flush()

	fmt.Fprintf(w, "\nModels:\n")
	for _, modelID := range info.Models {
		marker := ""
		if modelID == info.DefaultModel {
			marker = " *"
		}
		fmt.Fprintf(w, "  %s%s\n", modelID, marker)
	}
}
