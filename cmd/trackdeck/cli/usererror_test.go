// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestCommandError_Categories(t *testing.T) {
	validation := Validation("expected exactly one thread ID argument")
	if validation.Category != CategoryValidation {
		t.Errorf("Validation category = %q", validation.Category)
	}
	if validation.Error() != "expected exactly one thread ID argument" {
		t.Errorf("Error() = %q, category leaked into message", validation.Error())
	}

	internal := Internal("fetch history: %w", errors.New("connection refused"))
	if internal.Category != CategoryInternal {
		t.Errorf("Internal category = %q", internal.Category)
	}
}

func TestCommandError_UnwrapChain(t *testing.T) {
	wrapped := Internal("load config: %w", fs.ErrNotExist)
	if !errors.Is(wrapped, fs.ErrNotExist) {
		t.Error("errors.Is does not see through CommandError")
	}

	// errors.As finds the CommandError through further wrapping.
	outer := fmt.Errorf("command failed: %w", wrapped)
	var commandError *CommandError
	if !errors.As(outer, &commandError) {
		t.Fatal("errors.As did not find CommandError in chain")
	}
	if commandError.Category != CategoryInternal {
		t.Errorf("category through chain = %q", commandError.Category)
	}
}
