// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides Trackdeck's standard CBOR encoding
// configuration.
//
// Trackdeck uses two serialization formats with a clear boundary:
//
//   - JSON for external interfaces: the HTTP API, SSE payloads, and
//     upstream provider wire formats.
//   - CBOR for internal persistence: checkpoint thread-state blobs in
//     the conversation store.
//
// Every package encodes through the shared modes here so state written
// by any component decodes in any other. The encoder uses Core
// Deterministic Encoding (RFC 8949 §4.2): sorted map keys, smallest
// integer encoding, no indefinite-length items. Same logical data
// always produces identical bytes.
//
// Thread-state types carry `json` struct tags (they also serve the
// HTTP API); fxamacker/cbor v2 reads `json` tags as fallback when
// `cbor` tags are absent, so a single tag controls field naming and
// omitempty for both formats.
package codec
