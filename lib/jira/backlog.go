// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package jira

import (
	"context"
	"fmt"
	"strconv"
)

// ListBacklogIssues returns one page of the issues in a board's backlog,
// optionally narrowed by a JQL filter.
func (client *Client) ListBacklogIssues(ctx context.Context, boardID int, options SearchOptions) (*SearchResult, error) {
	query := pageQuery(options.StartAt, options.MaxResults)
	if options.JQL != "" {
		query.Set("jql", options.JQL)
	}

	var result SearchResult
	if err := client.get(ctx, withQuery(agilePath("/board/"+strconv.Itoa(boardID)+"/backlog"), query), &result); err != nil {
		return nil, fmt.Errorf("listing backlog issues for board %d: %w", boardID, err)
	}
	return &result, nil
}

// MoveIssuesToBacklog moves issues out of their sprint into the backlog.
// Only available for scrum boards.
func (client *Client) MoveIssuesToBacklog(ctx context.Context, issueKeys []string) error {
	body := map[string][]string{"issues": issueKeys}
	if err := client.post(ctx, agilePath("/backlog/issue"), body, nil); err != nil {
		return fmt.Errorf("moving issues to backlog: %w", err)
	}
	return nil
}

// MoveBoardIssuesToBacklog moves issues into the backlog of a specific
// board.
func (client *Client) MoveBoardIssuesToBacklog(ctx context.Context, boardID int, issueKeys []string) error {
	body := map[string][]string{"issues": issueKeys}
	if err := client.post(ctx, agilePath("/backlog/"+strconv.Itoa(boardID)+"/issue"), body, nil); err != nil {
		return fmt.Errorf("moving issues to backlog of board %d: %w", boardID, err)
	}
	return nil
}

// RankBacklogIssues reorders backlog issues relative to another issue.
func (client *Client) RankBacklogIssues(ctx context.Context, request RankRequest) error {
	if (request.RankBefore == "") == (request.RankAfter == "") {
		return fmt.Errorf("jira: ranking issues: exactly one of RankBefore or RankAfter must be set")
	}

	body := map[string]any{"issues": request.Issues}
	if request.RankBefore != "" {
		body["rankBefore"] = request.RankBefore
	} else {
		body["rankAfter"] = request.RankAfter
	}
	if err := client.put(ctx, agilePath("/backlog/issue"), body, nil); err != nil {
		return fmt.Errorf("ranking backlog issues: %w", err)
	}
	return nil
}
