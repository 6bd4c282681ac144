// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/trackdeck/trackdeck/cmd/trackdeck/cli"
	"github.com/trackdeck/trackdeck/cmd/trackdeck/commands"
)

func main() {
	err := run()
	if err == nil {
		return
	}

	// Commands that print their own output (like health) return an
	// ExitError with the desired exit code. Don't print a redundant
	// "error:" line for those.
	if coder, ok := err.(interface{ ExitCode() int }); ok {
		os.Exit(coder.ExitCode())
	}

	fmt.Fprintf(os.Stderr, "error: %v\n", err)

	// Usage mistakes exit 2 so scripts can tell a bad invocation from
	// a failed run.
	var commandError *cli.CommandError
	if errors.As(err, &commandError) && commandError.Category == cli.CategoryValidation {
		os.Exit(2)
	}
	os.Exit(1)
}

func run() error {
	return commands.Root().Execute(os.Args[1:])
}
