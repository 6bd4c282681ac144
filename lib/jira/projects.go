// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package jira

import (
	"context"
	"fmt"
)

// ListProjects returns one page of the projects visible to the
// authenticated user, optionally filtered by a text query on key and name.
func (client *Client) ListProjects(ctx context.Context, queryText string, options PageOptions) (*Page[Project], error) {
	query := pageQuery(options.StartAt, options.MaxResults)
	if queryText != "" {
		query.Set("query", queryText)
	}

	var page Page[Project]
	if err := client.get(ctx, withQuery(apiPath("/project/search"), query), &page); err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return &page, nil
}

// GetProject fetches a single project by key or ID.
func (client *Client) GetProject(ctx context.Context, keyOrID string) (*Project, error) {
	var project Project
	if err := client.get(ctx, apiPath("/project/"+keyOrID), &project); err != nil {
		return nil, fmt.Errorf("getting project %s: %w", keyOrID, err)
	}
	return &project, nil
}

// CreateProject creates a project and returns its identifiers.
func (client *Client) CreateProject(ctx context.Context, request CreateProjectRequest) (*ProjectRef, error) {
	var created ProjectRef
	if err := client.post(ctx, apiPath("/project"), request, &created); err != nil {
		return nil, fmt.Errorf("creating project %s: %w", request.Key, err)
	}
	return &created, nil
}

// UpdateProject applies a partial update to a project.
func (client *Client) UpdateProject(ctx context.Context, keyOrID string, update ProjectUpdate) (*Project, error) {
	var project Project
	if err := client.put(ctx, apiPath("/project/"+keyOrID), update, &project); err != nil {
		return nil, fmt.Errorf("updating project %s: %w", keyOrID, err)
	}
	return &project, nil
}

// DeleteProject permanently deletes a project and its issues.
func (client *Client) DeleteProject(ctx context.Context, keyOrID string) error {
	if err := client.delete(ctx, apiPath("/project/"+keyOrID)); err != nil {
		return fmt.Errorf("deleting project %s: %w", keyOrID, err)
	}
	return nil
}

// ArchiveProject archives a project, hiding it and its issues from search
// and boards until restored.
func (client *Client) ArchiveProject(ctx context.Context, keyOrID string) error {
	if err := client.post(ctx, apiPath("/project/"+keyOrID+"/archive"), nil, nil); err != nil {
		return fmt.Errorf("archiving project %s: %w", keyOrID, err)
	}
	return nil
}

// RestoreProject restores an archived or trashed project.
func (client *Client) RestoreProject(ctx context.Context, keyOrID string) (*Project, error) {
	var project Project
	if err := client.post(ctx, apiPath("/project/"+keyOrID+"/restore"), nil, &project); err != nil {
		return nil, fmt.Errorf("restoring project %s: %w", keyOrID, err)
	}
	return &project, nil
}

// GetProjectStatuses returns the valid statuses of a project, grouped by
// issue type.
func (client *Client) GetProjectStatuses(ctx context.Context, keyOrID string) ([]IssueTypeStatuses, error) {
	var statuses []IssueTypeStatuses
	if err := client.get(ctx, apiPath("/project/"+keyOrID+"/statuses"), &statuses); err != nil {
		return nil, fmt.Errorf("getting statuses for project %s: %w", keyOrID, err)
	}
	return statuses, nil
}

// ListProjectVersions lists the versions (releases) of a project.
func (client *Client) ListProjectVersions(ctx context.Context, keyOrID string) ([]Version, error) {
	var versions []Version
	if err := client.get(ctx, apiPath("/project/"+keyOrID+"/versions"), &versions); err != nil {
		return nil, fmt.Errorf("listing versions for project %s: %w", keyOrID, err)
	}
	return versions, nil
}

// ListProjectComponents lists the components of a project.
func (client *Client) ListProjectComponents(ctx context.Context, keyOrID string) ([]Component, error) {
	var components []Component
	if err := client.get(ctx, apiPath("/project/"+keyOrID+"/components"), &components); err != nil {
		return nil, fmt.Errorf("listing components for project %s: %w", keyOrID, err)
	}
	return components, nil
}
