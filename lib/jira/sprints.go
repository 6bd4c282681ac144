// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package jira

import (
	"context"
	"fmt"
	"strconv"
)

// CreateSprint creates a future sprint on the given origin board.
func (client *Client) CreateSprint(ctx context.Context, request CreateSprintRequest) (*Sprint, error) {
	var sprint Sprint
	if err := client.post(ctx, agilePath("/sprint"), request, &sprint); err != nil {
		return nil, fmt.Errorf("creating sprint %q: %w", request.Name, err)
	}
	return &sprint, nil
}

// GetSprint fetches a single sprint.
func (client *Client) GetSprint(ctx context.Context, sprintID int) (*Sprint, error) {
	var sprint Sprint
	if err := client.get(ctx, agilePath("/sprint/"+strconv.Itoa(sprintID)), &sprint); err != nil {
		return nil, fmt.Errorf("getting sprint %d: %w", sprintID, err)
	}
	return &sprint, nil
}

// UpdateSprint fully replaces a sprint's fields. Empty fields in the update
// are cleared; use PartiallyUpdateSprint to change selected fields only.
// Starting a sprint is an update to state "active", closing one an update to
// state "closed".
func (client *Client) UpdateSprint(ctx context.Context, sprintID int, update SprintUpdate) (*Sprint, error) {
	var sprint Sprint
	if err := client.put(ctx, agilePath("/sprint/"+strconv.Itoa(sprintID)), update, &sprint); err != nil {
		return nil, fmt.Errorf("updating sprint %d: %w", sprintID, err)
	}
	return &sprint, nil
}

// PartiallyUpdateSprint changes only the fields set in the update, leaving
// the rest untouched.
func (client *Client) PartiallyUpdateSprint(ctx context.Context, sprintID int, update SprintUpdate) (*Sprint, error) {
	var sprint Sprint
	if err := client.post(ctx, agilePath("/sprint/"+strconv.Itoa(sprintID)), update, &sprint); err != nil {
		return nil, fmt.Errorf("updating sprint %d: %w", sprintID, err)
	}
	return &sprint, nil
}

// DeleteSprint deletes a sprint. Only future sprints can be deleted.
func (client *Client) DeleteSprint(ctx context.Context, sprintID int) error {
	if err := client.delete(ctx, agilePath("/sprint/"+strconv.Itoa(sprintID))); err != nil {
		return fmt.Errorf("deleting sprint %d: %w", sprintID, err)
	}
	return nil
}

// ListSprintIssues returns one page of the issues in a sprint, optionally
// narrowed by a JQL filter.
func (client *Client) ListSprintIssues(ctx context.Context, sprintID int, options SearchOptions) (*SearchResult, error) {
	query := pageQuery(options.StartAt, options.MaxResults)
	if options.JQL != "" {
		query.Set("jql", options.JQL)
	}

	var result SearchResult
	if err := client.get(ctx, withQuery(agilePath("/sprint/"+strconv.Itoa(sprintID)+"/issue"), query), &result); err != nil {
		return nil, fmt.Errorf("listing issues for sprint %d: %w", sprintID, err)
	}
	return &result, nil
}

// MoveIssuesToSprint moves issues into a sprint, removing them from the
// backlog or their previous sprint.
func (client *Client) MoveIssuesToSprint(ctx context.Context, sprintID int, issueKeys []string) error {
	body := map[string][]string{"issues": issueKeys}
	if err := client.post(ctx, agilePath("/sprint/"+strconv.Itoa(sprintID)+"/issue"), body, nil); err != nil {
		return fmt.Errorf("moving issues to sprint %d: %w", sprintID, err)
	}
	return nil
}

// SwapSprint swaps the position of a sprint with another sprint in the
// board's sprint order.
func (client *Client) SwapSprint(ctx context.Context, sprintID, swapWithSprintID int) error {
	body := map[string]int{"sprintToSwapWith": swapWithSprintID}
	if err := client.post(ctx, agilePath("/sprint/"+strconv.Itoa(sprintID)+"/swap"), body, nil); err != nil {
		return fmt.Errorf("swapping sprint %d with %d: %w", sprintID, swapWithSprintID, err)
	}
	return nil
}
