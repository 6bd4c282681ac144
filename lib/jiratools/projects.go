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

// Projects returns the project management tools.
func Projects(client *jira.Client) []toolkit.Tool {
	return []toolkit.Tool{
		getAllProjectsTool(client),
		getProjectTool(client),
		createProjectTool(client),
		updateProjectTool(client),
		deleteProjectTool(client),
		archiveProjectTool(client),
		restoreProjectTool(client),
		getProjectStatusesTool(client),
		getProjectVersionsTool(client),
		getProjectComponentsTool(client),
	}
}

type getAllProjectsInput struct {
	Query      string `json:"query,omitempty" jsonschema_description:"Filter projects by key or name"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"minimum=1,maximum=100" jsonschema_description:"Maximum number of projects to return. Defaults to 50"`
}

func getAllProjectsTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_all_projects",
		"List the JIRA projects visible to the agent, optionally filtered by key or name.",
		func(ctx context.Context, input getAllProjectsInput) (string, error) {
			page, err := client.ListProjects(ctx, input.Query, jira.PageOptions{MaxResults: input.MaxResults})
			if err != nil {
				return "", err
			}
			if len(page.Values) == 0 {
				return "No projects found.", nil
			}
			var builder strings.Builder
			fmt.Fprintf(&builder, "Found %d projects:\n\n", len(page.Values))
			for _, project := range page.Values {
				fmt.Fprintf(&builder, "- %s: %s", project.Key, project.Name)
				if project.ProjectTypeKey != "" {
					fmt.Fprintf(&builder, " (%s)", project.ProjectTypeKey)
				}
				builder.WriteByte('\n')
			}
			return builder.String(), nil
		})
}

type getProjectInput struct {
	ProjectKey string `json:"project_key" jsonschema_description:"Project key, e.g. PROJ"`
}

func getProjectTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_project",
		"Get the details of a JIRA project: name, type, lead, and description.",
		func(ctx context.Context, input getProjectInput) (string, error) {
			project, err := client.GetProject(ctx, input.ProjectKey)
			if err != nil {
				return "", err
			}
			var builder strings.Builder
			fmt.Fprintf(&builder, "Project %s: %s\n", project.Key, project.Name)
			if project.ProjectTypeKey != "" {
				fmt.Fprintf(&builder, "Type: %s\n", project.ProjectTypeKey)
			}
			fmt.Fprintf(&builder, "Lead: %s\n", userName(project.Lead))
			if project.Description != "" {
				fmt.Fprintf(&builder, "Description: %s\n", project.Description)
			}
			return builder.String(), nil
		})
}

type createProjectInput struct {
	Key            string `json:"key" jsonschema_description:"Project key, uppercase, e.g. PROJ"`
	Name           string `json:"name" jsonschema_description:"Project name"`
	ProjectTypeKey string `json:"project_type_key,omitempty" jsonschema:"enum=software,enum=business,enum=service_desk" jsonschema_description:"Project type. Defaults to software"`
	Description    string `json:"description,omitempty" jsonschema_description:"Project description"`
	LeadAccountID  string `json:"lead_account_id,omitempty" jsonschema_description:"Account ID of the project lead"`
}

func createProjectTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("create_project",
		"Create a new JIRA project.",
		func(ctx context.Context, input createProjectInput) (string, error) {
			projectType := input.ProjectTypeKey
			if projectType == "" {
				projectType = "software"
			}
			created, err := client.CreateProject(ctx, jira.CreateProjectRequest{
				Key:            input.Key,
				Name:           input.Name,
				ProjectTypeKey: projectType,
				Description:    input.Description,
				LeadAccountID:  input.LeadAccountID,
			})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully created project %s with ID %d", created.Key, created.ID), nil
		})
}

type updateProjectInput struct {
	ProjectKey    string `json:"project_key" jsonschema_description:"Project key, e.g. PROJ"`
	Name          string `json:"name,omitempty" jsonschema_description:"New project name"`
	Description   string `json:"description,omitempty" jsonschema_description:"New project description"`
	LeadAccountID string `json:"lead_account_id,omitempty" jsonschema_description:"Account ID of the new project lead"`
}

func updateProjectTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("update_project",
		"Update a project's name, description, or lead.",
		func(ctx context.Context, input updateProjectInput) (string, error) {
			project, err := client.UpdateProject(ctx, input.ProjectKey, jira.ProjectUpdate{
				Name:          input.Name,
				Description:   input.Description,
				LeadAccountID: input.LeadAccountID,
			})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully updated project %s", project.Key), nil
		})
}

type deleteProjectInput struct {
	ProjectKey string `json:"project_key" jsonschema_description:"Project key, e.g. PROJ"`
}

func deleteProjectTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("delete_project",
		"Permanently delete a JIRA project and all of its issues.",
		func(ctx context.Context, input deleteProjectInput) (string, error) {
			if err := client.DeleteProject(ctx, input.ProjectKey); err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully deleted project %s", input.ProjectKey), nil
		})
}

type archiveProjectInput struct {
	ProjectKey string `json:"project_key" jsonschema_description:"Project key, e.g. PROJ"`
}

func archiveProjectTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("archive_project",
		"Archive a JIRA project, hiding it and its issues until restored.",
		func(ctx context.Context, input archiveProjectInput) (string, error) {
			if err := client.ArchiveProject(ctx, input.ProjectKey); err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully archived project %s", input.ProjectKey), nil
		})
}

type restoreProjectInput struct {
	ProjectKey string `json:"project_key" jsonschema_description:"Project key, e.g. PROJ"`
}

func restoreProjectTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("restore_project",
		"Restore an archived or deleted JIRA project.",
		func(ctx context.Context, input restoreProjectInput) (string, error) {
			project, err := client.RestoreProject(ctx, input.ProjectKey)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully restored project %s", project.Key), nil
		})
}

type getProjectStatusesInput struct {
	ProjectKey string `json:"project_key" jsonschema_description:"Project key, e.g. PROJ"`
}

func getProjectStatusesTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_project_statuses",
		"List the valid workflow statuses of a project, grouped by issue type.",
		func(ctx context.Context, input getProjectStatusesInput) (string, error) {
			groups, err := client.GetProjectStatuses(ctx, input.ProjectKey)
			if err != nil {
				return "", err
			}
			var builder strings.Builder
			fmt.Fprintf(&builder, "Statuses for project %s:\n", input.ProjectKey)
			for _, group := range groups {
				names := make([]string, 0, len(group.Statuses))
				for _, status := range group.Statuses {
					names = append(names, status.Name)
				}
				fmt.Fprintf(&builder, "- %s: %s\n", group.Name, strings.Join(names, ", "))
			}
			return builder.String(), nil
		})
}

type getProjectVersionsInput struct {
	ProjectKey string `json:"project_key" jsonschema_description:"Project key, e.g. PROJ"`
}

func getProjectVersionsTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_project_versions",
		"List the versions (releases) of a project.",
		func(ctx context.Context, input getProjectVersionsInput) (string, error) {
			versions, err := client.ListProjectVersions(ctx, input.ProjectKey)
			if err != nil {
				return "", err
			}
			if len(versions) == 0 {
				return fmt.Sprintf("No versions found for project %s", input.ProjectKey), nil
			}
			var builder strings.Builder
			fmt.Fprintf(&builder, "Versions of project %s:\n", input.ProjectKey)
			for _, version := range versions {
				state := "unreleased"
				if version.Released {
					state = "released"
				}
				if version.Archived {
					state = "archived"
				}
				fmt.Fprintf(&builder, "- %s (%s)", version.Name, state)
				if version.ReleaseDate != "" {
					fmt.Fprintf(&builder, " release date: %s", version.ReleaseDate)
				}
				builder.WriteByte('\n')
			}
			return builder.String(), nil
		})
}

type getProjectComponentsInput struct {
	ProjectKey string `json:"project_key" jsonschema_description:"Project key, e.g. PROJ"`
}

func getProjectComponentsTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_project_components",
		"List the components of a project with their leads.",
		func(ctx context.Context, input getProjectComponentsInput) (string, error) {
			components, err := client.ListProjectComponents(ctx, input.ProjectKey)
			if err != nil {
				return "", err
			}
			if len(components) == 0 {
				return fmt.Sprintf("No components found for project %s", input.ProjectKey), nil
			}
			var builder strings.Builder
			fmt.Fprintf(&builder, "Components of project %s:\n", input.ProjectKey)
			for _, component := range components {
				fmt.Fprintf(&builder, "- %s", component.Name)
				if component.Lead != nil {
					fmt.Fprintf(&builder, " (lead: %s)", component.Lead.DisplayName)
				}
				builder.WriteByte('\n')
			}
			return builder.String(), nil
		})
}
