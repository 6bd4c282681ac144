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

// Permissions returns the permission inspection tools.
func Permissions(client *jira.Client) []toolkit.Tool {
	return []toolkit.Tool{
		getMyPermissionsTool(client),
		getAllPermissionsTool(client),
		getPermittedProjectsTool(client),
	}
}

type getMyPermissionsInput struct {
	Permissions []string `json:"permissions" jsonschema_description:"Permission keys to check, e.g. [\"BROWSE_PROJECTS\", \"EDIT_ISSUES\"]"`
	ProjectKey  string   `json:"project_key,omitempty" jsonschema_description:"Optional project key to scope the check to"`
}

func getMyPermissionsTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_my_permissions",
		"Check which of the named permissions the current user holds, optionally within one project.",
		func(ctx context.Context, input getMyPermissionsInput) (string, error) {
			permissions, err := client.GetMyPermissions(ctx, input.Permissions, input.ProjectKey)
			if err != nil {
				return "", err
			}
			var builder strings.Builder
			builder.WriteString("Permission check results:\n\n")
			for _, key := range slices.Sorted(maps.Keys(permissions)) {
				verdict := "not granted"
				if permissions[key].HavePermission {
					verdict = "granted"
				}
				fmt.Fprintf(&builder, "- %s: %s\n", key, verdict)
			}
			return builder.String(), nil
		})
}

type getAllPermissionsInput struct{}

func getAllPermissionsTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_all_permissions",
		"List every permission defined on the JIRA site.",
		func(ctx context.Context, input getAllPermissionsInput) (string, error) {
			permissions, err := client.ListPermissions(ctx)
			if err != nil {
				return "", err
			}
			var builder strings.Builder
			fmt.Fprintf(&builder, "Found %d permissions:\n\n", len(permissions))
			for _, key := range slices.Sorted(maps.Keys(permissions)) {
				permission := permissions[key]
				fmt.Fprintf(&builder, "- %s (%s): %s\n", key, permission.Type, permission.Name)
			}
			return builder.String(), nil
		})
}

type getPermittedProjectsInput struct {
	Permissions []string `json:"permissions" jsonschema_description:"Project permission keys the user must hold, e.g. [\"EDIT_ISSUES\"]"`
}

func getPermittedProjectsTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_permitted_projects",
		"List the projects in which the current user holds all of the named permissions.",
		func(ctx context.Context, input getPermittedProjectsInput) (string, error) {
			projects, err := client.GetPermittedProjects(ctx, input.Permissions)
			if err != nil {
				return "", err
			}
			if len(projects) == 0 {
				return "No projects grant all of the requested permissions.", nil
			}
			var builder strings.Builder
			fmt.Fprintf(&builder, "Found %d projects granting %s:\n\n",
				len(projects), strings.Join(input.Permissions, ", "))
			for _, project := range projects {
				fmt.Fprintf(&builder, "- %s (ID %d)\n", project.Key, project.ID)
			}
			return builder.String(), nil
		})
}
