// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package jiratools

import (
	"slices"

	"github.com/trackdeck/trackdeck/lib/jira"
	"github.com/trackdeck/trackdeck/lib/toolkit"
)

// Core returns the everyday JIRA catalog: issues, search, sprints,
// boards, projects, and comments. It stays well under the tool-count
// caps some model providers enforce.
func Core(client *jira.Client) toolkit.Set {
	return toolkit.NewSet(slices.Concat(
		Issues(client),
		Search(client),
		Sprints(client),
		Boards(client),
		Projects(client),
		Comments(client),
	)...)
}

// All returns the full JIRA catalog: the core tools plus backlog
// management, issue type administration, worklogs, JQL authoring,
// permissions, and user lookup.
func All(client *jira.Client) toolkit.Set {
	return toolkit.NewSet(slices.Concat(
		Issues(client),
		Search(client),
		Sprints(client),
		Boards(client),
		Projects(client),
		Comments(client),
		Backlog(client),
		IssueTypes(client),
		Worklogs(client),
		JQL(client),
		Permissions(client),
		Users(client),
	)...)
}
