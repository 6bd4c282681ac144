// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package jiratools

import (
	"context"
	"fmt"
	"strings"

	"github.com/trackdeck/trackdeck/lib/jira"
	"github.com/trackdeck/trackdeck/lib/toolkit"
)

// Worklogs returns the time tracking tools.
func Worklogs(client *jira.Client) []toolkit.Tool {
	return []toolkit.Tool{
		getIssueWorklogsTool(client),
		addWorklogTool(client),
		getWorklogTool(client),
		updateWorklogTool(client),
		deleteWorklogTool(client),
		getDeletedWorklogIDsTool(client),
		getUpdatedWorklogIDsTool(client),
	}
}

func worklogLine(worklog jira.Worklog) string {
	line := fmt.Sprintf("- [%s] %s logged %s", worklog.ID, userName(worklog.Author), worklog.TimeSpent)
	if worklog.Started != "" {
		line += " starting " + worklog.Started
	}
	if text := worklog.Comment.PlainText(); text != "" {
		line += ": " + text
	}
	return line
}

type getIssueWorklogsInput struct {
	IssueKey   string `json:"issue_key" jsonschema_description:"The issue key, e.g. PROJ-123"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"minimum=1,maximum=100" jsonschema_description:"Maximum number of worklogs to return. Defaults to 50"`
}

func getIssueWorklogsTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_issue_worklogs",
		"List the worklog entries recorded on a JIRA issue.",
		func(ctx context.Context, input getIssueWorklogsInput) (string, error) {
			page, err := client.ListWorklogs(ctx, input.IssueKey, jira.PageOptions{MaxResults: input.MaxResults})
			if err != nil {
				return "", err
			}
			if len(page.Worklogs) == 0 {
				return fmt.Sprintf("No worklogs on issue %s", input.IssueKey), nil
			}
			var builder strings.Builder
			fmt.Fprintf(&builder, "Found %d of %d worklogs on %s:\n\n",
				len(page.Worklogs), page.Total, input.IssueKey)
			for _, worklog := range page.Worklogs {
				builder.WriteString(worklogLine(worklog))
				builder.WriteByte('\n')
			}
			return builder.String(), nil
		})
}

type addWorklogInput struct {
	IssueKey  string `json:"issue_key" jsonschema_description:"The issue key, e.g. PROJ-123"`
	TimeSpent string `json:"time_spent" jsonschema_description:"Time spent in JIRA duration format, e.g. \"3h 30m\" or \"1d\""`
	Comment   string `json:"comment,omitempty" jsonschema_description:"Optional plain text description of the work"`
	Started   string `json:"started,omitempty" jsonschema_description:"When the work started, e.g. 2026-01-15T10:30:00.000+0000. Defaults to now"`
}

func addWorklogTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("add_worklog",
		"Record time spent on a JIRA issue.",
		func(ctx context.Context, input addWorklogInput) (string, error) {
			request := jira.WorklogRequest{
				TimeSpent: input.TimeSpent,
				Started:   input.Started,
			}
			if input.Comment != "" {
				request.Comment = jira.TextDocument(input.Comment)
			}
			worklog, err := client.AddWorklog(ctx, input.IssueKey, request)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully logged %s on issue %s (worklog %s)",
				worklog.TimeSpent, input.IssueKey, worklog.ID), nil
		})
}

type getWorklogInput struct {
	IssueKey  string `json:"issue_key" jsonschema_description:"The issue key, e.g. PROJ-123"`
	WorklogID string `json:"worklog_id" jsonschema_description:"ID of the worklog entry"`
}

func getWorklogTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_worklog",
		"Get a single worklog entry on a JIRA issue.",
		func(ctx context.Context, input getWorklogInput) (string, error) {
			worklog, err := client.GetWorklog(ctx, input.IssueKey, input.WorklogID)
			if err != nil {
				return "", err
			}
			return "Worklog " + strings.TrimPrefix(worklogLine(*worklog), "- "), nil
		})
}

type updateWorklogInput struct {
	IssueKey  string `json:"issue_key" jsonschema_description:"The issue key, e.g. PROJ-123"`
	WorklogID string `json:"worklog_id" jsonschema_description:"ID of the worklog entry to update"`
	TimeSpent string `json:"time_spent" jsonschema_description:"New time spent in JIRA duration format, e.g. \"2h\""`
	Comment   string `json:"comment,omitempty" jsonschema_description:"New plain text description of the work"`
}

func updateWorklogTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("update_worklog",
		"Update the time or comment of an existing worklog entry.",
		func(ctx context.Context, input updateWorklogInput) (string, error) {
			request := jira.WorklogRequest{TimeSpent: input.TimeSpent}
			if input.Comment != "" {
				request.Comment = jira.TextDocument(input.Comment)
			}
			worklog, err := client.UpdateWorklog(ctx, input.IssueKey, input.WorklogID, request)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully updated worklog %s on issue %s", worklog.ID, input.IssueKey), nil
		})
}

type deleteWorklogInput struct {
	IssueKey  string `json:"issue_key" jsonschema_description:"The issue key, e.g. PROJ-123"`
	WorklogID string `json:"worklog_id" jsonschema_description:"ID of the worklog entry to delete"`
}

func deleteWorklogTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("delete_worklog",
		"Delete a worklog entry from a JIRA issue.",
		func(ctx context.Context, input deleteWorklogInput) (string, error) {
			if err := client.DeleteWorklog(ctx, input.IssueKey, input.WorklogID); err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully deleted worklog %s from issue %s",
				input.WorklogID, input.IssueKey), nil
		})
}

func formatWorklogChanges(list *jira.WorklogChangeList, verb string) string {
	if len(list.Values) == 0 {
		return fmt.Sprintf("No worklogs %s in the requested window.", verb)
	}
	var builder strings.Builder
	fmt.Fprintf(&builder, "Found %d %s worklogs (window %d to %d):\n\n",
		len(list.Values), verb, list.Since, list.Until)
	for _, change := range list.Values {
		fmt.Fprintf(&builder, "- worklog %d at %d\n", change.WorklogID, change.UpdatedTime)
	}
	if !list.LastPage {
		fmt.Fprintf(&builder, "\nMore results remain. Call again with since=%d.", list.Until)
	}
	return builder.String()
}

type worklogChangesInput struct {
	Since int64 `json:"since,omitempty" jsonschema_description:"Unix millisecond timestamp to list changes after. Defaults to the beginning of time"`
}

func getDeletedWorklogIDsTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_deleted_worklog_ids",
		"List the IDs of worklogs deleted since a Unix millisecond timestamp, for incremental sync.",
		func(ctx context.Context, input worklogChangesInput) (string, error) {
			list, err := client.ListDeletedWorklogs(ctx, input.Since)
			if err != nil {
				return "", err
			}
			return formatWorklogChanges(list, "deleted"), nil
		})
}

func getUpdatedWorklogIDsTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_updated_worklog_ids",
		"List the IDs of worklogs created or updated since a Unix millisecond timestamp, for incremental sync.",
		func(ctx context.Context, input worklogChangesInput) (string, error) {
			list, err := client.ListUpdatedWorklogs(ctx, input.Since)
			if err != nil {
				return "", err
			}
			return formatWorklogChanges(list, "updated"), nil
		})
}
