// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

// Package toolkit defines the tool abstraction shared by all agents.
// A [Tool] wraps one external API call behind a name, a description,
// and a JSON Schema for its arguments; a [Set] is the ordered catalog
// of tools bound to a single agent.
//
// Tool failures are conversational, not infrastructural: a failed
// call produces an error-flagged result that flows back to the model
// as a tool result, so the model can correct its arguments or explain
// the failure to the user. Only context cancellation aborts
// execution.
//
// Input schemas are reflected from Go structs via
// github.com/invopop/jsonschema, so the struct that decodes a tool's
// arguments is also the source of its schema. Fields without
// omitempty are required; jsonschema struct tags add descriptions,
// enums, and bounds.
package toolkit
