// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/trackdeck/trackdeck/cmd/trackdeck/cli"
	"github.com/trackdeck/trackdeck/lib/chatui"
	"github.com/trackdeck/trackdeck/lib/schema/chat"
)

// ChatCommand returns the "chat" subcommand that launches the
// interactive chat TUI.
func ChatCommand() *cli.Command {
	var connection ServiceConnection
	var agentKey string
	var modelID string
	var threadID string
	var userID string

	return &cli.Command{
		Name:    "chat",
		Summary: "Interactive chat with an agent",
		Description: `Open an interactive terminal chat with an agent.

The transcript renders assistant replies as markdown and shows tool
activity as it happens. Type /help inside the chat for slash commands
(switching agents or models, starting a new thread, rating replies).`,
		Usage: "trackdeck chat [flags]",
		Examples: []cli.Example{
			{
				Description: "Chat with the default agent",
				Command:     "trackdeck chat",
			},
			{
				Description: "Resume an earlier thread",
				Command:     "trackdeck chat --thread 8f14e45f-ceea-4e8b-9d2c-1f41a65e35bb",
			},
			{
				Description: "Pick the agent and model explicitly",
				Command:     "trackdeck chat --agent jira-assistant --model gpt-4o",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("chat", pflag.ContinueOnError)
			connection.AddFlags(flagSet)
			flagSet.StringVar(&agentKey, "agent", "", "agent to chat with (default: the service's default agent)")
			flagSet.StringVar(&modelID, "model", "", "model ID for runs (default: the service's default model)")
			flagSet.StringVar(&threadID, "thread", "", "thread ID to resume")
			flagSet.StringVar(&userID, "user", "", "user ID recorded on runs")
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

			// The info response validates flag selections up front and
			// seeds the TUI's /agent and /model completion.
			info, err := client.Info(ctx)
			if err != nil {
				return cli.Internal("query service info from %s: %w", connection.URL, err)
			}

			if agentKey != "" && !hasAgent(info.Agents, agentKey) {
				return cli.Validation("unknown agent %q (available: %s)",
					agentKey, strings.Join(agentNames(info.Agents), ", "))
			}
			if modelID != "" && !slices.Contains(info.Models, modelID) {
				return cli.Validation("unknown model %q (available: %s)",
					modelID, strings.Join(info.Models, ", "))
			}

			model := chatui.NewModel(chatui.AgentService{Client: client}, *info)
			if agentKey != "" {
				model.SetAgent(agentKey)
			}
			if modelID != "" {
				model.SetModel(modelID)
			}
			if threadID != "" {
				model.SetThread(threadID)
			}
			if userID != "" {
				model.SetUser(userID)
			}

			program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
			_, err = program.Run()
			return err
		},
	}
}

func hasAgent(agents []chat.AgentInfo, key string) bool {
	for _, agent := range agents {
		if agent.Key == key {
			return true
		}
	}
	return false
}

func agentNames(agents []chat.AgentInfo) []string {
	names := make([]string, len(agents))
	for index, agent := range agents {
		names[index] = agent.Key
	}
	return names
}
