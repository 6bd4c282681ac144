// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

// Package process holds the entrypoint glue shared by the Trackdeck
// binaries: stderr error reporting for the window before the
// structured logger exists, and the interrupt context that drives
// graceful shutdown.
package process
