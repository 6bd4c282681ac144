// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package jira

import (
	"context"
	"fmt"
	"strconv"
)

// ListBoards returns one page of boards, optionally filtered by project,
// type, or name.
func (client *Client) ListBoards(ctx context.Context, options BoardListOptions) (*Page[Board], error) {
	query := pageQuery(options.StartAt, options.MaxResults)
	if options.ProjectKeyOrID != "" {
		query.Set("projectKeyOrId", options.ProjectKeyOrID)
	}
	if options.Type != "" {
		query.Set("type", options.Type)
	}
	if options.Name != "" {
		query.Set("name", options.Name)
	}

	var page Page[Board]
	if err := client.get(ctx, withQuery(agilePath("/board"), query), &page); err != nil {
		return nil, fmt.Errorf("listing boards: %w", err)
	}
	return &page, nil
}

// CreateBoard creates a board backed by an existing saved filter.
func (client *Client) CreateBoard(ctx context.Context, request CreateBoardRequest) (*Board, error) {
	var board Board
	if err := client.post(ctx, agilePath("/board"), request, &board); err != nil {
		return nil, fmt.Errorf("creating board %q: %w", request.Name, err)
	}
	return &board, nil
}

// GetBoard fetches a single board.
func (client *Client) GetBoard(ctx context.Context, boardID int) (*Board, error) {
	var board Board
	if err := client.get(ctx, agilePath("/board/"+strconv.Itoa(boardID)), &board); err != nil {
		return nil, fmt.Errorf("getting board %d: %w", boardID, err)
	}
	return &board, nil
}

// DeleteBoard deletes a board. The board's saved filter and issues are not
// affected.
func (client *Client) DeleteBoard(ctx context.Context, boardID int) error {
	if err := client.delete(ctx, agilePath("/board/"+strconv.Itoa(boardID))); err != nil {
		return fmt.Errorf("deleting board %d: %w", boardID, err)
	}
	return nil
}

// GetBoardConfiguration returns a board's filter and column configuration.
func (client *Client) GetBoardConfiguration(ctx context.Context, boardID int) (*BoardConfiguration, error) {
	var configuration BoardConfiguration
	if err := client.get(ctx, agilePath("/board/"+strconv.Itoa(boardID)+"/configuration"), &configuration); err != nil {
		return nil, fmt.Errorf("getting configuration for board %d: %w", boardID, err)
	}
	return &configuration, nil
}

// ListBoardIssues returns one page of the issues visible on a board,
// optionally narrowed by a JQL filter.
func (client *Client) ListBoardIssues(ctx context.Context, boardID int, options SearchOptions) (*SearchResult, error) {
	query := pageQuery(options.StartAt, options.MaxResults)
	if options.JQL != "" {
		query.Set("jql", options.JQL)
	}

	var result SearchResult
	if err := client.get(ctx, withQuery(agilePath("/board/"+strconv.Itoa(boardID)+"/issue"), query), &result); err != nil {
		return nil, fmt.Errorf("listing issues for board %d: %w", boardID, err)
	}
	return &result, nil
}

// ListBoardSprints returns one page of the sprints on a board. The state
// filter accepts a comma-separated list of "future", "active", and "closed";
// empty means all states.
func (client *Client) ListBoardSprints(ctx context.Context, boardID int, state string, options PageOptions) (*Page[Sprint], error) {
	query := pageQuery(options.StartAt, options.MaxResults)
	if state != "" {
		query.Set("state", state)
	}

	var page Page[Sprint]
	if err := client.get(ctx, withQuery(agilePath("/board/"+strconv.Itoa(boardID)+"/sprint"), query), &page); err != nil {
		return nil, fmt.Errorf("listing sprints for board %d: %w", boardID, err)
	}
	return &page, nil
}

// ListBoardEpics returns one page of the epics on a board.
func (client *Client) ListBoardEpics(ctx context.Context, boardID int, options PageOptions) (*Page[Epic], error) {
	query := pageQuery(options.StartAt, options.MaxResults)

	var page Page[Epic]
	if err := client.get(ctx, withQuery(agilePath("/board/"+strconv.Itoa(boardID)+"/epic"), query), &page); err != nil {
		return nil, fmt.Errorf("listing epics for board %d: %w", boardID, err)
	}
	return &page, nil
}

// ListBoardProjects returns one page of the projects a board draws issues
// from.
func (client *Client) ListBoardProjects(ctx context.Context, boardID int, options PageOptions) (*Page[Project], error) {
	query := pageQuery(options.StartAt, options.MaxResults)

	var page Page[Project]
	if err := client.get(ctx, withQuery(agilePath("/board/"+strconv.Itoa(boardID)+"/project"), query), &page); err != nil {
		return nil, fmt.Errorf("listing projects for board %d: %w", boardID, err)
	}
	return &page, nil
}

// GetBoardPropertyKeys lists the keys of the properties stored on a board.
func (client *Client) GetBoardPropertyKeys(ctx context.Context, boardID int) ([]PropertyKey, error) {
	var response struct {
		Keys []PropertyKey `json:"keys"`
	}
	if err := client.get(ctx, agilePath("/board/"+strconv.Itoa(boardID)+"/properties"), &response); err != nil {
		return nil, fmt.Errorf("getting property keys for board %d: %w", boardID, err)
	}
	return response.Keys, nil
}

// MoveIssuesToBoard moves issues onto a board. Issues can only be moved to
// boards whose filter matches them.
func (client *Client) MoveIssuesToBoard(ctx context.Context, boardID int, issueKeys []string) error {
	body := map[string][]string{"issues": issueKeys}
	if err := client.post(ctx, agilePath("/board/"+strconv.Itoa(boardID)+"/issue"), body, nil); err != nil {
		return fmt.Errorf("moving issues to board %d: %w", boardID, err)
	}
	return nil
}
