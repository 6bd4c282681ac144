// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package jiratools

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/trackdeck/trackdeck/lib/jira"
	"github.com/trackdeck/trackdeck/lib/toolkit"
)

// Issues returns the issue management tools.
func Issues(client *jira.Client) []toolkit.Tool {
	return []toolkit.Tool{
		getIssueTool(client),
		createIssueTool(client),
		updateIssueTool(client),
		deleteIssueTool(client),
		assignIssueTool(client),
		getIssueTransitionsTool(client),
		transitionIssueTool(client),
		archiveIssuesTool(client),
		unarchiveIssuesTool(client),
		getEditIssueMetadataTool(client),
		getIssueChangelogTool(client),
	}
}

type getIssueInput struct {
	IssueKey string `json:"issue_key" jsonschema_description:"The issue key, e.g. PROJ-123"`
}

func getIssueTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_issue",
		"Get the details of a JIRA issue: summary, status, assignee, priority, type, and description.",
		func(ctx context.Context, input getIssueInput) (string, error) {
			issue, err := client.GetIssue(ctx, input.IssueKey)
			if err != nil {
				return "", err
			}
			return formatIssue(issue), nil
		})
}

type createIssueInput struct {
	ProjectKey  string `json:"project_key" jsonschema_description:"Key of the project to create the issue in, e.g. PROJ"`
	Summary     string `json:"summary" jsonschema_description:"Issue title"`
	Description string `json:"description,omitempty" jsonschema_description:"Plain text issue description"`
	IssueType   string `json:"issue_type,omitempty" jsonschema_description:"Issue type name such as Task, Bug, or Story. Defaults to Task"`
}

func createIssueTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("create_issue",
		"Create a new JIRA issue in a project.",
		func(ctx context.Context, input createIssueInput) (string, error) {
			created, err := client.CreateIssue(ctx, jira.CreateIssueRequest{
				ProjectKey:  input.ProjectKey,
				Summary:     input.Summary,
				Description: input.Description,
				IssueType:   input.IssueType,
			})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully created issue %s in project %s", created.Key, input.ProjectKey), nil
		})
}

type updateIssueInput struct {
	IssueKey    string `json:"issue_key" jsonschema_description:"The issue key, e.g. PROJ-123"`
	Summary     string `json:"summary,omitempty" jsonschema_description:"New issue title"`
	Description string `json:"description,omitempty" jsonschema_description:"New plain text description"`
}

func updateIssueTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("update_issue",
		"Update the summary or description of an existing JIRA issue.",
		func(ctx context.Context, input updateIssueInput) (string, error) {
			update := jira.IssueUpdate{}
			if input.Summary != "" {
				update.Summary = &input.Summary
			}
			if input.Description != "" {
				update.Description = &input.Description
			}
			if err := client.UpdateIssue(ctx, input.IssueKey, update); err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully updated issue %s", input.IssueKey), nil
		})
}

type deleteIssueInput struct {
	IssueKey string `json:"issue_key" jsonschema_description:"The issue key, e.g. PROJ-123"`
}

func deleteIssueTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("delete_issue",
		"Permanently delete a JIRA issue.",
		func(ctx context.Context, input deleteIssueInput) (string, error) {
			if err := client.DeleteIssue(ctx, input.IssueKey); err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully deleted issue %s", input.IssueKey), nil
		})
}

type assignIssueInput struct {
	IssueKey  string `json:"issue_key" jsonschema_description:"The issue key, e.g. PROJ-123"`
	AccountID string `json:"account_id,omitempty" jsonschema_description:"Account ID of the new assignee. Omit to unassign the issue"`
}

func assignIssueTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("assign_issue",
		"Assign a JIRA issue to a user by account ID, or unassign it.",
		func(ctx context.Context, input assignIssueInput) (string, error) {
			if err := client.AssignIssue(ctx, input.IssueKey, input.AccountID); err != nil {
				return "", err
			}
			if input.AccountID == "" {
				return fmt.Sprintf("Successfully unassigned issue %s", input.IssueKey), nil
			}
			return fmt.Sprintf("Successfully assigned issue %s to account %s", input.IssueKey, input.AccountID), nil
		})
}

type getIssueTransitionsInput struct {
	IssueKey string `json:"issue_key" jsonschema_description:"The issue key, e.g. PROJ-123"`
}

func getIssueTransitionsTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_issue_transitions",
		"List the workflow transitions currently available on a JIRA issue, with the transition IDs needed to move it.",
		func(ctx context.Context, input getIssueTransitionsInput) (string, error) {
			transitions, err := client.GetTransitions(ctx, input.IssueKey)
			if err != nil {
				return "", err
			}
			if len(transitions) == 0 {
				return fmt.Sprintf("No transitions available for issue %s", input.IssueKey), nil
			}
			var builder strings.Builder
			fmt.Fprintf(&builder, "Available transitions for %s:\n", input.IssueKey)
			for _, transition := range transitions {
				fmt.Fprintf(&builder, "- ID %s: %s (to %s)\n",
					transition.ID, transition.Name, statusName(transition.To))
			}
			return builder.String(), nil
		})
}

type transitionIssueInput struct {
	IssueKey     string `json:"issue_key" jsonschema_description:"The issue key, e.g. PROJ-123"`
	TransitionID string `json:"transition_id" jsonschema_description:"ID of the transition to perform, from get_issue_transitions"`
	Comment      string `json:"comment,omitempty" jsonschema_description:"Optional comment to add while transitioning"`
}

func transitionIssueTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("transition_issue",
		"Move a JIRA issue through a workflow transition, for example from To Do to In Progress.",
		func(ctx context.Context, input transitionIssueInput) (string, error) {
			if err := client.TransitionIssue(ctx, input.IssueKey, input.TransitionID, input.Comment); err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully transitioned issue %s", input.IssueKey), nil
		})
}

type archiveIssuesInput struct {
	IssueKeys []string `json:"issue_keys" jsonschema_description:"Keys of the issues to archive"`
}

func archiveIssuesTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("archive_issues",
		"Archive JIRA issues by key, hiding them from search and boards.",
		func(ctx context.Context, input archiveIssuesInput) (string, error) {
			archived, err := client.ArchiveIssues(ctx, input.IssueKeys)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully archived %d issues", archived), nil
		})
}

type unarchiveIssuesInput struct {
	IssueKeys []string `json:"issue_keys" jsonschema_description:"Keys of the issues to restore from the archive"`
}

func unarchiveIssuesTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("unarchive_issues",
		"Restore previously archived JIRA issues.",
		func(ctx context.Context, input unarchiveIssuesInput) (string, error) {
			restored, err := client.UnarchiveIssues(ctx, input.IssueKeys)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully unarchived %d issues", restored), nil
		})
}

type getEditIssueMetadataInput struct {
	IssueKey string `json:"issue_key" jsonschema_description:"The issue key, e.g. PROJ-123"`
}

func getEditIssueMetadataTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_edit_issue_metadata",
		"List the fields that can be edited on a JIRA issue, including which are required.",
		func(ctx context.Context, input getEditIssueMetadataInput) (string, error) {
			fields, err := client.GetEditMeta(ctx, input.IssueKey)
			if err != nil {
				return "", err
			}
			if len(fields) == 0 {
				return fmt.Sprintf("No editable fields on issue %s", input.IssueKey), nil
			}
			var builder strings.Builder
			fmt.Fprintf(&builder, "Editable fields for %s:\n", input.IssueKey)
			for _, fieldID := range slices.Sorted(maps.Keys(fields)) {
				field := fields[fieldID]
				required := ""
				if field.Required {
					required = " (required)"
				}
				fmt.Fprintf(&builder, "- %s [%s]%s\n", field.Name, fieldID, required)
			}
			return builder.String(), nil
		})
}

type getIssueChangelogInput struct {
	IssueKey string `json:"issue_key" jsonschema_description:"The issue key, e.g. PROJ-123"`
}

func getIssueChangelogTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_issue_changelog",
		"Get the change history of a JIRA issue: who changed which field, from what, to what.",
		func(ctx context.Context, input getIssueChangelogInput) (string, error) {
			page, err := client.GetChangelog(ctx, input.IssueKey, jira.PageOptions{})
			if err != nil {
				return "", err
			}
			if len(page.Values) == 0 {
				return fmt.Sprintf("No change history for issue %s", input.IssueKey), nil
			}
			var builder strings.Builder
			fmt.Fprintf(&builder, "Change history for %s (%d of %d entries):\n", input.IssueKey, len(page.Values), page.Total)
			for _, entry := range page.Values {
				fmt.Fprintf(&builder, "- %s by %s:\n", entry.Created, userName(entry.Author))
				for _, item := range entry.Items {
					fmt.Fprintf(&builder, "    %s: %s -> %s\n",
						item.Field, valueOr(item.From, "(none)"), valueOr(item.To, "(none)"))
				}
			}
			return builder.String(), nil
		})
}
