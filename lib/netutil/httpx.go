// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides bounded HTTP body reads for the Trackdeck REST
// clients (JIRA, Azure DevOps, model providers, and the agent service
// client). Every response body read goes through one of these helpers so
// that a misbehaving server cannot make a client allocate without limit.
//
// These helpers are for JSON bodies read in full. SSE streams are consumed
// incrementally and never pass through here.
package netutil

import (
	"io"
)

// MaxResponseSize bounds success-path body reads: 32 MB. The largest
// legitimate payloads on this API surface are issue search pages and work
// item batches, which stay in the single-digit megabytes; the bound only
// matters when a server misbehaves.
const MaxResponseSize int64 = 32 << 20

// maxErrorSize bounds error-path body reads. Error envelopes are a few
// hundred bytes of JSON; the cap keeps a proxy's HTML error page from
// bloating error values and log lines.
const maxErrorSize int64 = 8 << 10

// ReadResponse reads a response body in full, up to MaxResponseSize bytes.
// Use it instead of io.ReadAll on any HTTP response body.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// ErrorBody reads the body of a non-2xx response for diagnostics, capped
// at 8 KB. Read errors are ignored; whatever arrived before the failure is
// still worth putting in the error value.
func ErrorBody(body io.Reader) []byte {
	data, _ := io.ReadAll(io.LimitReader(body, maxErrorSize))
	return data
}
