// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

// Package service is the HTTP surface of the agent service.
//
// [Handler] routes the agent API: POST /invoke and /stream run an
// assistant (the path prefix /{agent_id}/ selects one, otherwise the
// registry default serves), POST /feedback and /history read and write
// the checkpoint store, GET /info describes the hosted agents and
// served models, and GET /health answers unauthenticated. [HTTPServer]
// wraps the listener lifecycle around any handler.
//
// # Requests and responses
//
// Bodies on both sides are the JSON shapes of lib/schema/chat. Invalid
// input is a 422 with {"detail": ...}; an unknown agent path is a 404.
// Model API failures pass through with their upstream status code and
// message, while other failures answer 500 with a generic detail and
// the cause in the server log.
//
// /stream responds with Server-Sent Events: one "data: <json>" line
// per token or message event, flushed as produced, terminated by
// "data: [DONE]" whether the run succeeded or not.
//
// # Authentication
//
// When a secret is configured every route except /health requires
// "Authorization: Bearer <secret>". The comparison is constant-time.
// With no secret the API is open, which is only sensible behind a
// trusted proxy or in development.
package service
