// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package jira

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// GetCurrentUser returns the authenticated user.
func (client *Client) GetCurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := client.get(ctx, apiPath("/myself"), &user); err != nil {
		return nil, fmt.Errorf("getting current user: %w", err)
	}
	return &user, nil
}

// GetUser fetches a single user by account ID.
func (client *Client) GetUser(ctx context.Context, accountID string) (*User, error) {
	query := url.Values{}
	query.Set("accountId", accountID)

	var user User
	if err := client.get(ctx, withQuery(apiPath("/user"), query), &user); err != nil {
		return nil, fmt.Errorf("getting user %s: %w", accountID, err)
	}
	return &user, nil
}

// FindUsers searches users by display name and email address.
func (client *Client) FindUsers(ctx context.Context, queryText string, options PageOptions) ([]User, error) {
	query := pageQuery(options.StartAt, options.MaxResults)
	query.Set("query", queryText)

	var users []User
	if err := client.get(ctx, withQuery(apiPath("/user/search"), query), &users); err != nil {
		return nil, fmt.Errorf("finding users: %w", err)
	}
	return users, nil
}

// ListUsers returns one page of all users on the site, active and inactive.
func (client *Client) ListUsers(ctx context.Context, options PageOptions) ([]User, error) {
	query := pageQuery(options.StartAt, options.MaxResults)

	var users []User
	if err := client.get(ctx, withQuery(apiPath("/users/search"), query), &users); err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// FindAssignableUsers searches the users that issues in a project or a
// single issue can be assigned to. Exactly one of projectKey or issueKey
// should be set.
func (client *Client) FindAssignableUsers(ctx context.Context, queryText, projectKey, issueKey string, options PageOptions) ([]User, error) {
	query := pageQuery(options.StartAt, options.MaxResults)
	if queryText != "" {
		query.Set("query", queryText)
	}
	if projectKey != "" {
		query.Set("project", projectKey)
	}
	if issueKey != "" {
		query.Set("issueKey", issueKey)
	}

	var users []User
	if err := client.get(ctx, withQuery(apiPath("/user/assignable/search"), query), &users); err != nil {
		return nil, fmt.Errorf("finding assignable users: %w", err)
	}
	return users, nil
}

// FindUsersWithPermission searches the users holding all of the named
// permissions on an issue or project.
func (client *Client) FindUsersWithPermission(ctx context.Context, queryText string, permissions []string, issueKey string, options PageOptions) ([]User, error) {
	query := pageQuery(options.StartAt, options.MaxResults)
	query.Set("permissions", strings.Join(permissions, ","))
	if queryText != "" {
		query.Set("query", queryText)
	}
	if issueKey != "" {
		query.Set("issueKey", issueKey)
	}

	var users []User
	if err := client.get(ctx, withQuery(apiPath("/user/permission/search"), query), &users); err != nil {
		return nil, fmt.Errorf("finding users with permissions: %w", err)
	}
	return users, nil
}

// GetUserGroups lists the groups a user belongs to.
func (client *Client) GetUserGroups(ctx context.Context, accountID string) ([]Group, error) {
	query := url.Values{}
	query.Set("accountId", accountID)

	var groups []Group
	if err := client.get(ctx, withQuery(apiPath("/user/groups"), query), &groups); err != nil {
		return nil, fmt.Errorf("getting groups for user %s: %w", accountID, err)
	}
	return groups, nil
}
