// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package jira

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// GetMyPermissions reports whether the authenticated user holds each of the
// named permissions, optionally scoped to one project. The result is keyed
// by permission key.
func (client *Client) GetMyPermissions(ctx context.Context, permissions []string, projectKey string) (map[string]Permission, error) {
	query := url.Values{}
	query.Set("permissions", strings.Join(permissions, ","))
	if projectKey != "" {
		query.Set("projectKey", projectKey)
	}

	var response struct {
		Permissions map[string]Permission `json:"permissions"`
	}
	if err := client.get(ctx, withQuery(apiPath("/mypermissions"), query), &response); err != nil {
		return nil, fmt.Errorf("getting my permissions: %w", err)
	}
	return response.Permissions, nil
}

// ListPermissions lists all permissions defined on the site, keyed by
// permission key.
func (client *Client) ListPermissions(ctx context.Context) (map[string]Permission, error) {
	var response struct {
		Permissions map[string]Permission `json:"permissions"`
	}
	if err := client.get(ctx, apiPath("/permissions"), &response); err != nil {
		return nil, fmt.Errorf("listing permissions: %w", err)
	}
	return response.Permissions, nil
}

// GetPermittedProjects lists the projects in which the authenticated user
// holds all of the named project permissions.
func (client *Client) GetPermittedProjects(ctx context.Context, permissions []string) ([]ProjectRef, error) {
	body := map[string][]string{"permissions": permissions}

	var response struct {
		Projects []ProjectRef `json:"projects"`
	}
	if err := client.post(ctx, apiPath("/permissions/project"), body, &response); err != nil {
		return nil, fmt.Errorf("getting permitted projects: %w", err)
	}
	return response.Projects, nil
}
