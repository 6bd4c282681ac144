// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

// Trackdeck is the terminal client for the trackdeck agent service.
// It provides an interactive chat TUI (chat), agent and model
// discovery (agents), conversation replay (history), and a service
// health probe (health).
package main
