// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ErrorCategory classifies command errors for exit-status reporting.
type ErrorCategory string

const (
	// CategoryValidation indicates the user provided invalid input:
	// missing arguments, unknown names, unparseable values. The
	// invocation should be fixed and retried. main exits with code 2
	// for these.
	CategoryValidation ErrorCategory = "validation"

	// CategoryInternal indicates an unexpected failure while executing
	// an otherwise valid command: transport errors, service failures,
	// bugs. main exits with code 1 for these.
	CategoryInternal ErrorCategory = "internal"
)

// CommandError is a categorized error returned by command handlers.
// The category keeps usage mistakes distinguishable from runtime
// failures in scripts without parsing message text. Use the
// category-specific constructors (Validation, Internal) rather than
// constructing CommandError directly.
type CommandError struct {
	// Category classifies the error for exit-status selection.
	Category ErrorCategory

	// Err is the underlying error with the human-readable message.
	Err error
}

// Error returns the underlying error message. The category is not
// included in the string; it only selects the process exit status.
func (e *CommandError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error, allowing errors.Is and
// errors.As to walk the full chain through the CommandError wrapper.
func (e *CommandError) Unwrap() error { return e.Err }

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error: an unexpected failure, bug, or I/O error.
func Internal(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}
