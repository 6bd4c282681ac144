// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package devopstools

import (
	"context"
	"fmt"
	"slices"

	"github.com/trackdeck/trackdeck/lib/azuredevops"
	"github.com/trackdeck/trackdeck/lib/toolkit"
)

// Projects returns the project and team membership tools.
func Projects(client *azuredevops.Client) []toolkit.Tool {
	return []toolkit.Tool{
		getAllProjectsTool(client),
		getProjectTool(client),
		createProjectTool(client),
		getProjectCreationStatusTool(client),
		getProjectTeamsTool(client),
		getTeamMembersTool(client),
	}
}

type getAllProjectsInput struct{}

func getAllProjectsTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_all_projects",
		"Get all projects in the Azure DevOps organization.",
		func(ctx context.Context, input getAllProjectsInput) (string, error) {
			var projects []azuredevops.Project
			options := azuredevops.ListProjectsOptions{}
			for {
				page, err := client.ListProjects(ctx, options)
				if err != nil {
					return "", err
				}
				projects = append(projects, page.Projects...)
				if page.ContinuationToken == "" {
					break
				}
				options.ContinuationToken = page.ContinuationToken
			}

			formatted := make([]map[string]any, 0, len(projects))
			for _, project := range projects {
				formatted = append(formatted, map[string]any{
					"id":               project.ID,
					"name":             project.Name,
					"description":      project.Description,
					"url":              project.URL,
					"state":            project.State,
					"visibility":       project.Visibility,
					"last_update_time": project.LastUpdateTime,
				})
			}
			return formatJSON(formatted)
		})
}

type getProjectInput struct {
	Project string `json:"project" jsonschema_description:"The name or ID of the project"`
}

func getProjectTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_project",
		"Get details for a specific project by name or ID.",
		func(ctx context.Context, input getProjectInput) (string, error) {
			project, err := client.GetProject(ctx, input.Project)
			if err != nil {
				return "", err
			}

			formatted := map[string]any{
				"id":               project.ID,
				"name":             project.Name,
				"description":      project.Description,
				"url":              project.URL,
				"state":            project.State,
				"visibility":       project.Visibility,
				"last_update_time": project.LastUpdateTime,
			}
			if project.DefaultTeam != nil {
				formatted["default_team"] = map[string]any{
					"id":   project.DefaultTeam.ID,
					"name": project.DefaultTeam.Name,
				}
			}
			return formatJSON(formatted)
		})
}

type createProjectInput struct {
	Name              string `json:"name" jsonschema_description:"The name of the project"`
	Description       string `json:"description,omitempty" jsonschema_description:"The description of the project"`
	Visibility        string `json:"visibility,omitempty" jsonschema_description:"Project visibility, 'private' or 'public'. Defaults to private" jsonschema:"enum=private,enum=public"`
	SourceControlType string `json:"source_control_type,omitempty" jsonschema_description:"Source control type, 'Git' or 'Tfvc'. Defaults to Git"`
	ProcessTemplateID string `json:"process_template_id,omitempty" jsonschema_description:"Process template ID from get_process_templates (Agile, Scrum, Basic)"`
}

func createProjectTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("create_project",
		"Create a new project in Azure DevOps. Creation is asynchronous; check progress with get_project_creation_status.",
		func(ctx context.Context, input createProjectInput) (string, error) {
			operation, err := client.CreateProject(ctx, azuredevops.CreateProjectRequest{
				Name:              input.Name,
				Description:       input.Description,
				Visibility:        input.Visibility,
				SourceControlType: input.SourceControlType,
				ProcessTemplateID: input.ProcessTemplateID,
			})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Project creation started. Operation ID: %s", operation.ID), nil
		})
}

type getProjectCreationStatusInput struct {
	OperationID string `json:"operation_id" jsonschema_description:"The operation ID returned by create_project"`
}

func getProjectCreationStatusTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_project_creation_status",
		"Check the status of a project creation operation.",
		func(ctx context.Context, input getProjectCreationStatusInput) (string, error) {
			operation, err := client.GetOperation(ctx, input.OperationID)
			if err != nil {
				return "", err
			}

			terminal := []string{"succeeded", "cancelled", "failed"}
			return formatJSON(map[string]any{
				"id":             operation.ID,
				"status":         operation.Status,
				"detail_message": operation.DetailedMessage,
				"result_message": operation.ResultMessage,
				"complete":       slices.Contains(terminal, operation.Status),
			})
		})
}

type getProjectTeamsInput struct {
	Project string `json:"project" jsonschema_description:"The name or ID of the project"`
}

func getProjectTeamsTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_project_teams",
		"Get all teams in a project.",
		func(ctx context.Context, input getProjectTeamsInput) (string, error) {
			teams, err := client.ListTeams(ctx, input.Project)
			if err != nil {
				return "", err
			}

			formatted := make([]map[string]any, 0, len(teams))
			for _, team := range teams {
				formatted = append(formatted, map[string]any{
					"id":          team.ID,
					"name":        team.Name,
					"description": team.Description,
					"url":         team.URL,
				})
			}
			return formatJSON(formatted)
		})
}

type getTeamMembersInput struct {
	Project string `json:"project" jsonschema_description:"The name or ID of the project"`
	Team    string `json:"team" jsonschema_description:"The name or ID of the team"`
}

func getTeamMembersTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_team_members",
		"Get the members of a team.",
		func(ctx context.Context, input getTeamMembersInput) (string, error) {
			members, err := client.ListTeamMembers(ctx, input.Project, input.Team)
			if err != nil {
				return "", err
			}

			formatted := make([]map[string]any, 0, len(members))
			for _, member := range members {
				formatted = append(formatted, map[string]any{
					"id":            member.Identity.ID,
					"display_name":  member.Identity.DisplayName,
					"unique_name":   member.Identity.UniqueName,
					"is_team_admin": member.IsTeamAdmin,
				})
			}
			return formatJSON(formatted)
		})
}
