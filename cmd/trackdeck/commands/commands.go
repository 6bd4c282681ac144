// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete trackdeck CLI command tree.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trackdeck/trackdeck/cmd/trackdeck/cli"
	"github.com/trackdeck/trackdeck/lib/version"
)

// Root builds and returns the complete trackdeck CLI command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "trackdeck",
		Description: `Trackdeck: LLM agents for issue trackers.

Chat with agents that operate JIRA and Azure DevOps on your behalf,
replay past conversations, and check service health.`,
		Subcommands: []*cli.Command{
			ChatCommand(),
			AgentsCommand(),
			HistoryCommand(),
			HealthCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					fmt.Printf("trackdeck %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Open an interactive chat with the default agent",
				Command:     "trackdeck chat",
			},
			{
				Description: "Chat with the Azure DevOps agent on a remote service",
				Command:     "trackdeck chat --agent azure-devops-assistant --url https://agents.example.com",
			},
			{
				Description: "List available agents and models",
				Command:     "trackdeck agents",
			},
			{
				Description: "Replay a conversation thread",
				Command:     "trackdeck history 8f14e45f-ceea-4e8b-9d2c-1f41a65e35bb",
			},
			{
				Description: "Check that the service is up before a deploy gate",
				Command:     "trackdeck health",
			},
		},
	}
}
