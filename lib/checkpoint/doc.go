// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

// Package checkpoint persists conversation state between agent runs.
//
// Each conversation thread is stored as one row keyed by thread ID,
// holding the full provider-shape transcript ([llm.Message] values) so
// a resumed thread replays with tool calls and tool results intact.
// The transcript is encoded with deterministic CBOR (lib/codec) and
// compressed with zstd before it reaches the backend; the store never
// inspects message internals and needs no schema migration when
// message shapes grow new fields.
//
// Alongside thread state the store keeps per-run usage accounting
// ([Run]: agent, model, token counts) and user feedback attached to
// runs ([Feedback]).
//
// Two backends implement [Store]: SQLite (zombiezen via lib/sqlitepool,
// the default, suitable for single-node deployments) and PostgreSQL
// (jackc/pgx, for deployments where the service runs replicated).
// [Open] selects a backend from [Config].
package checkpoint
