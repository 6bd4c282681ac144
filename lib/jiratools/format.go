// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package jiratools

import (
	"fmt"
	"strings"

	"github.com/trackdeck/trackdeck/lib/jira"
)

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func statusName(status *jira.Status) string {
	if status == nil {
		return "Unknown status"
	}
	return status.Name
}

func userName(user *jira.User) string {
	if user == nil {
		return "Unassigned"
	}
	return user.DisplayName
}

func issueTypeName(issueType *jira.IssueType) string {
	if issueType == nil {
		return "Unknown type"
	}
	return issueType.Name
}

func priorityName(priority *jira.Priority) string {
	if priority == nil {
		return "None"
	}
	return priority.Name
}

// issueLine renders one issue as a single list row.
func issueLine(issue jira.Issue) string {
	return fmt.Sprintf("- %s: %s (%s)",
		issue.Key, valueOr(issue.Fields.Summary, "No summary"), statusName(issue.Fields.Status))
}

// formatIssueList renders a search result as a compact list.
func formatIssueList(result *jira.SearchResult) string {
	if len(result.Issues) == 0 {
		return "No issues found."
	}
	var builder strings.Builder
	fmt.Fprintf(&builder, "Found %d issues. Showing %d results:\n\n", result.Total, len(result.Issues))
	for _, issue := range result.Issues {
		builder.WriteString(issueLine(issue))
		builder.WriteByte('\n')
	}
	return builder.String()
}

// formatIssue renders the standard field set of a single issue.
func formatIssue(issue *jira.Issue) string {
	fields := issue.Fields
	var builder strings.Builder
	fmt.Fprintf(&builder, "Issue %s:\n", issue.Key)
	fmt.Fprintf(&builder, "Summary: %s\n", valueOr(fields.Summary, "No summary"))
	fmt.Fprintf(&builder, "Status: %s\n", statusName(fields.Status))
	fmt.Fprintf(&builder, "Assignee: %s\n", userName(fields.Assignee))
	fmt.Fprintf(&builder, "Priority: %s\n", priorityName(fields.Priority))
	fmt.Fprintf(&builder, "Type: %s\n", issueTypeName(fields.IssueType))
	if fields.Created != "" {
		fmt.Fprintf(&builder, "Created: %s\n", fields.Created)
	}
	if fields.Updated != "" {
		fmt.Fprintf(&builder, "Updated: %s\n", fields.Updated)
	}
	if description := fields.Description.PlainText(); description != "" {
		fmt.Fprintf(&builder, "Description: %s\n", description)
	}
	return builder.String()
}

// formatUserList renders users one per line with their account IDs.
func formatUserList(users []jira.User) string {
	if len(users) == 0 {
		return "No users found."
	}
	var builder strings.Builder
	fmt.Fprintf(&builder, "Found %d users:\n\n", len(users))
	for _, user := range users {
		state := ""
		if !user.Active {
			state = " [inactive]"
		}
		fmt.Fprintf(&builder, "- %s (account ID: %s)%s\n", user.DisplayName, user.AccountID, state)
	}
	return builder.String()
}
