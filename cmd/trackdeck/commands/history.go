// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/trackdeck/trackdeck/cmd/trackdeck/cli"
	"github.com/trackdeck/trackdeck/lib/schema/chat"
)

// HistoryCommand returns the "history" subcommand that replays a
// conversation thread.
func HistoryCommand() *cli.Command {
	var connection ServiceConnection

	return &cli.Command{
		Name:    "history",
		Summary: "Print a conversation thread",
		Description: `Print the messages of a conversation thread.

Each message is prefixed with its role. Tool calls and tool results
appear inline so the full run is visible, including the steps the
agent took against the tracker.`,
		Usage: "trackdeck history <thread-id> [flags]",
		Examples: []cli.Example{
			{
				Description: "Replay a thread by ID",
				Command:     "trackdeck history 8f14e45f-ceea-4e8b-9d2c-1f41a65e35bb",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("history", pflag.ContinueOnError)
			connection.AddFlags(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("expected exactly one thread ID argument")
			}

			client, err := connection.Client()
			if err != nil {
				return err
			}
			history, err := client.History(ctx, args[0])
			if err != nil {
				return cli.Internal("fetch history for thread %s: %w", args[0], err)
			}

			printHistory(os.Stdout, history.Messages)
			return nil
		},
	}
}

// printHistory writes a role-labelled rendering of a thread's messages.
func printHistory(w io.Writer, messages []chat.ChatMessage) {
	for index, message := range messages {
		if index > 0 {
			fmt.Fprintln(w)
		}
		switch message.Type {
		case chat.MessageTypeHuman:
			fmt.Fprintf(w, "you: %s\n", message.Content)
		case chat.MessageTypeAI:
			if message.Content != "" {
				fmt.Fprintf(w, "agent: %s\n", message.Content)
			}
			for _, call := range message.ToolCalls {
				args, err := json.Marshal(call.Args)
				if err != nil {
					args = []byte("{}")
				}
				fmt.Fprintf(w, "agent: [tool call] %s %s\n", call.Name, args)
			}
		case chat.MessageTypeTool:
			fmt.Fprintf(w, "tool: %s\n", message.Content)
		case chat.MessageTypeCustom:
			data, err := json.Marshal(message.CustomData)
			if err != nil {
				data = []byte("{}")
			}
			fmt.Fprintf(w, "custom: %s\n", data)
		}
	}
}
