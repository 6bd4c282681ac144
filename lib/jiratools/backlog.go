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

// Backlog returns the backlog management tools.
func Backlog(client *jira.Client) []toolkit.Tool {
	return []toolkit.Tool{
		getBacklogItemsTool(client),
		moveIssuesToBacklogTool(client),
		moveIssuesToBoardBacklogTool(client),
		rankBacklogIssuesTool(client),
	}
}

type getBacklogItemsInput struct {
	BoardID    int    `json:"board_id" jsonschema_description:"ID of the board"`
	JQL        string `json:"jql,omitempty" jsonschema_description:"Optional JQL filter applied to the backlog"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"minimum=1,maximum=100" jsonschema_description:"Maximum number of issues to return. Defaults to 50"`
}

func getBacklogItemsTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_backlog_items",
		"List the issues in a board's backlog, optionally filtered by JQL.",
		func(ctx context.Context, input getBacklogItemsInput) (string, error) {
			result, err := client.ListBacklogIssues(ctx, input.BoardID, jira.SearchOptions{
				JQL:        input.JQL,
				MaxResults: input.MaxResults,
			})
			if err != nil {
				return "", err
			}
			return formatIssueList(result), nil
		})
}

type moveIssuesToBacklogInput struct {
	IssueKeys []string `json:"issue_keys" jsonschema_description:"Keys of the issues to move, e.g. [\"PROJ-1\", \"PROJ-2\"]. At most 50 per call"`
}

func moveIssuesToBacklogTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("move_issues_to_backlog",
		"Move issues out of their sprint back into the backlog. Only works for scrum boards.",
		func(ctx context.Context, input moveIssuesToBacklogInput) (string, error) {
			if err := client.MoveIssuesToBacklog(ctx, input.IssueKeys); err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully moved %d issues to the backlog: %s",
				len(input.IssueKeys), strings.Join(input.IssueKeys, ", ")), nil
		})
}

type moveIssuesToBoardBacklogInput struct {
	BoardID   int      `json:"board_id" jsonschema_description:"ID of the board whose backlog receives the issues"`
	IssueKeys []string `json:"issue_keys" jsonschema_description:"Keys of the issues to move. At most 50 per call"`
}

func moveIssuesToBoardBacklogTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("move_issues_to_board_backlog",
		"Move issues into the backlog of a specific board.",
		func(ctx context.Context, input moveIssuesToBoardBacklogInput) (string, error) {
			if err := client.MoveBoardIssuesToBacklog(ctx, input.BoardID, input.IssueKeys); err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully moved %d issues to the backlog of board %d",
				len(input.IssueKeys), input.BoardID), nil
		})
}

type rankBacklogIssuesInput struct {
	IssueKeys  []string `json:"issue_keys" jsonschema_description:"Keys of the issues to rank, in the desired order"`
	RankBefore string   `json:"rank_before,omitempty" jsonschema_description:"Key of the issue the ranked issues are placed above. Set exactly one of rank_before or rank_after"`
	RankAfter  string   `json:"rank_after,omitempty" jsonschema_description:"Key of the issue the ranked issues are placed below. Set exactly one of rank_before or rank_after"`
}

func rankBacklogIssuesTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("rank_backlog_issues",
		"Reorder backlog issues relative to another issue. Provide exactly one of rank_before or rank_after.",
		func(ctx context.Context, input rankBacklogIssuesInput) (string, error) {
			err := client.RankBacklogIssues(ctx, jira.RankRequest{
				Issues:     input.IssueKeys,
				RankBefore: input.RankBefore,
				RankAfter:  input.RankAfter,
			})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully ranked %d issues", len(input.IssueKeys)), nil
		})
}
