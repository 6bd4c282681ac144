// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

// Package chatui implements the interactive terminal chat client for
// the agent service. It is a bubbletea program: a scrollback viewport
// holding the conversation transcript, a single-line input for
// composing the next message, and a spinner shown while a run is in
// flight.
//
// The model talks to the service through the [Service] interface,
// which [AgentService] implements on top of an agentclient.Client.
// Token events stream into a pending assistant entry as they arrive;
// the finished message event replaces it and carries the run ID used
// by the /feedback slash command.
//
// Assistant replies are markdown. They are rendered for the terminal
// by renderMarkdown: a goldmark AST walk that reflows paragraphs to
// the viewport width and syntax-highlights fenced code with chroma.
package chatui
