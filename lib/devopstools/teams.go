// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package devopstools

import (
	"context"
	"fmt"

	"github.com/trackdeck/trackdeck/lib/azuredevops"
	"github.com/trackdeck/trackdeck/lib/toolkit"
)

// ProcessesAndTeams returns the process template, team management and
// organization tools.
func ProcessesAndTeams(client *azuredevops.Client) []toolkit.Tool {
	return []toolkit.Tool{
		getProcessTemplatesTool(client),
		getProcessTemplateTool(client),
		createTeamTool(client),
		updateTeamTool(client),
		deleteTeamTool(client),
		getProjectPropertiesTool(client),
		setProjectPropertyTool(client),
		getOrganizationInfoTool(client),
	}
}

func formatProcessTemplate(template *azuredevops.ProcessTemplate) map[string]any {
	return map[string]any{
		"id":          template.ID,
		"name":        template.Name,
		"description": template.Description,
		"type":        template.Type,
		"is_default":  template.IsDefault,
	}
}

type getProcessTemplatesInput struct{}

func getProcessTemplatesTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_process_templates",
		"Get the process templates available in the organization (Agile, Scrum, Basic, CMMI and custom processes).",
		func(ctx context.Context, input getProcessTemplatesInput) (string, error) {
			templates, err := client.ListProcessTemplates(ctx)
			if err != nil {
				return "", err
			}

			formatted := make([]map[string]any, 0, len(templates))
			for index := range templates {
				formatted = append(formatted, formatProcessTemplate(&templates[index]))
			}
			return formatJSON(formatted)
		})
}

type getProcessTemplateInput struct {
	TemplateID string `json:"template_id" jsonschema_description:"The process template ID"`
}

func getProcessTemplateTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_process_template",
		"Get details for a specific process template by ID.",
		func(ctx context.Context, input getProcessTemplateInput) (string, error) {
			template, err := client.GetProcessTemplate(ctx, input.TemplateID)
			if err != nil {
				return "", err
			}
			return formatJSON(formatProcessTemplate(template))
		})
}

func formatTeam(team *azuredevops.Team) map[string]any {
	return map[string]any{
		"id":          team.ID,
		"name":        team.Name,
		"description": team.Description,
		"url":         team.URL,
	}
}

type createTeamInput struct {
	Project     string `json:"project" jsonschema_description:"The name or ID of the project"`
	Name        string `json:"name" jsonschema_description:"The name of the new team"`
	Description string `json:"description,omitempty" jsonschema_description:"The team description"`
}

func createTeamTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("create_team",
		"Create a new team in a project.",
		func(ctx context.Context, input createTeamInput) (string, error) {
			team, err := client.CreateTeam(ctx, input.Project, input.Name, input.Description)
			if err != nil {
				return "", err
			}
			return formatJSON(formatTeam(team))
		})
}

type updateTeamInput struct {
	Project     string `json:"project" jsonschema_description:"The name or ID of the project"`
	Team        string `json:"team" jsonschema_description:"The name or ID of the team"`
	Name        string `json:"name,omitempty" jsonschema_description:"The new team name"`
	Description string `json:"description,omitempty" jsonschema_description:"The new team description"`
}

func updateTeamTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("update_team",
		"Rename a team or change its description.",
		func(ctx context.Context, input updateTeamInput) (string, error) {
			if input.Name == "" && input.Description == "" {
				return "No changes requested for team update.", nil
			}
			team, err := client.UpdateTeam(ctx, input.Project, input.Team, azuredevops.TeamUpdate{
				Name:        input.Name,
				Description: input.Description,
			})
			if err != nil {
				return "", err
			}
			return formatJSON(formatTeam(team))
		})
}

type deleteTeamInput struct {
	Project string `json:"project" jsonschema_description:"The name or ID of the project"`
	Team    string `json:"team" jsonschema_description:"The name or ID of the team"`
}

func deleteTeamTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("delete_team",
		"Delete a team from a project.",
		func(ctx context.Context, input deleteTeamInput) (string, error) {
			if err := client.DeleteTeam(ctx, input.Project, input.Team); err != nil {
				return "", err
			}
			return fmt.Sprintf("Team '%s' was successfully deleted from project '%s'.", input.Team, input.Project), nil
		})
}

type getProjectPropertiesInput struct {
	Project string `json:"project" jsonschema_description:"The name or ID of the project"`
}

func getProjectPropertiesTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_project_properties",
		"Get the properties set on a project.",
		func(ctx context.Context, input getProjectPropertiesInput) (string, error) {
			properties, err := client.GetProjectProperties(ctx, input.Project)
			if err != nil {
				return "", err
			}

			formatted := make([]map[string]any, 0, len(properties))
			for _, property := range properties {
				formatted = append(formatted, map[string]any{
					"name":  property.Name,
					"value": property.Value,
				})
			}
			return formatJSON(formatted)
		})
}

type setProjectPropertyInput struct {
	Project string `json:"project" jsonschema_description:"The ID of the project"`
	Name    string `json:"name" jsonschema_description:"The property name"`
	Value   string `json:"value" jsonschema_description:"The property value"`
}

func setProjectPropertyTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("set_project_property",
		"Set a property on a project.",
		func(ctx context.Context, input setProjectPropertyInput) (string, error) {
			if err := client.SetProjectProperty(ctx, input.Project, input.Name, input.Value); err != nil {
				return "", err
			}
			return fmt.Sprintf("Property '%s' was successfully set for project '%s'.", input.Name, input.Project), nil
		})
}

type getOrganizationInfoInput struct{}

func getOrganizationInfoTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_organization_info",
		"Get information about the Azure DevOps organization and the authenticated identity.",
		func(ctx context.Context, input getOrganizationInfoInput) (string, error) {
			connection, err := client.GetConnectionData(ctx)
			if err != nil {
				return "", err
			}

			formatted := map[string]any{
				"instance_id":     connection.InstanceID,
				"deployment_id":   connection.DeploymentID,
				"deployment_type": connection.DeploymentType,
			}
			if connection.AuthenticatedUser != nil {
				formatted["authenticated_user"] = map[string]any{
					"id":           connection.AuthenticatedUser.ID,
					"display_name": connection.AuthenticatedUser.ProviderDisplayName,
					"is_active":    connection.AuthenticatedUser.IsActive,
				}
			}
			return formatJSON(formatted)
		})
}
