// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"slices"
	"strings"
	"testing"

	"github.com/trackdeck/trackdeck/cmd/trackdeck/cli"
)

// TestRootTree validates the production command tree: the expected
// subcommands are present, and every command has a summary and either
// a Run function or subcommands, so help output and dispatch are
// complete.
func TestRootTree(t *testing.T) {
	root := Root()

	var names []string
	for _, sub := range root.Subcommands {
		names = append(names, sub.Name)
	}
	for _, want := range []string{"chat", "agents", "history", "health", "version"} {
		if !slices.Contains(names, want) {
			t.Errorf("root tree missing %q (have %v)", want, names)
		}
	}

	walkCommands(root, nil, func(command *cli.Command, path []string) {
		if len(path) > 1 && command.Summary == "" {
			t.Errorf("%s: missing summary", strings.Join(path, " "))
		}
		if command.Run == nil && len(command.Subcommands) == 0 {
			t.Errorf("%s: no Run function and no subcommands", strings.Join(path, " "))
		}
	})
}

// TestExamplesNameTheBinary keeps help examples copy-pasteable: every
// example command line starts with "trackdeck".
func TestExamplesNameTheBinary(t *testing.T) {
	walkCommands(Root(), nil, func(command *cli.Command, path []string) {
		for _, example := range command.Examples {
			if !strings.HasPrefix(example.Command, "trackdeck") {
				t.Errorf("%s: example %q does not start with the binary name",
					strings.Join(path, " "), example.Command)
			}
		}
	})
}

// walkCommands recursively visits every command in the tree,
// calling visit for each node with the accumulated command path.
func walkCommands(command *cli.Command, path []string, visit func(*cli.Command, []string)) {
	current := make([]string, len(path)+1)
	copy(current, path)
	current[len(path)] = command.Name
	visit(command, current)
	for _, sub := range command.Subcommands {
		walkCommands(sub, current, visit)
	}
}
