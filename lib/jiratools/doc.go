// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

// Package jiratools binds the JIRA client to the agent tool runtime.
//
// Each toolset function (Issues, Search, Sprints, ...) returns the tools for
// one JIRA concern. Core assembles the everyday toolsets; All adds the
// administrative ones (backlog ranking, issue types, worklogs, JQL reference
// data, permissions, users). The split keeps the default catalog well under
// the tool-count caps some model providers enforce.
//
// Tool results are compact human-readable text, not JSON: they are consumed
// by a language model, and prose with one item per line costs fewer tokens
// and steers the model better than raw API payloads. API failures are
// returned as tool errors so the model can read the provider's diagnostics
// and adjust.
package jiratools
