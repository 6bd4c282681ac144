// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

// Package agent runs tool-using assistants against the LLM provider
// layer.
//
// An [Assistant] owns a system prompt and a tool catalog. [Assistant.Run]
// drives one invocation: an optional content guard screens the user
// input, the model is called (streaming token deltas to the caller when
// requested), tool calls are executed concurrently, and the loop repeats
// until the model answers in plain text or the step allowance runs out.
// Model output passes through the same guard before it is surfaced.
//
// The package also provides the assistant [Registry] the HTTP service
// serves from, and a supervisor assistant ([NewJIRASupervisor]) that
// delegates JIRA work to specialized sub-assistants.
package agent
