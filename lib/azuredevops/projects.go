// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package azuredevops

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// continuationHeader carries the opaque token for the next page of a
// paged core API listing.
const continuationHeader = "x-ms-continuationtoken"

// ListProjectsOptions control project listing.
type ListProjectsOptions struct {
	// StateFilter restricts results to projects in the given state
	// ("wellFormed", "createPending", "deleting", "all"). Empty lists
	// well-formed projects.
	StateFilter string

	// Top caps the page size. Zero uses the server default.
	Top int

	// ContinuationToken resumes a listing from a previous page.
	ContinuationToken string
}

// ListProjects returns one page of the organization's projects. A
// non-empty ContinuationToken on the result means more pages remain.
func (client *Client) ListProjects(ctx context.Context, options ListProjectsOptions) (*ProjectList, error) {
	query := url.Values{}
	if options.StateFilter != "" {
		query.Set("stateFilter", options.StateFilter)
	}
	if options.Top > 0 {
		query.Set("$top", strconv.Itoa(options.Top))
	}
	if options.ContinuationToken != "" {
		query.Set("continuationToken", options.ContinuationToken)
	}

	body, headers, err := client.send(ctx, http.MethodGet, restURL(client.orgURL, query, "_apis", "projects"), "", nil)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	var envelope listResponse[Project]
	if err := decode(body, &envelope); err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return &ProjectList{
		Projects:          envelope.Value,
		ContinuationToken: headers.Get(continuationHeader),
	}, nil
}

// GetProject fetches a project by name or ID, including its version
// control and process template capabilities.
func (client *Client) GetProject(ctx context.Context, project string) (*Project, error) {
	query := url.Values{}
	query.Set("includeCapabilities", "true")

	var result Project
	if err := client.get(ctx, restURL(client.orgURL, query, "_apis", "projects", project), &result); err != nil {
		return nil, fmt.Errorf("getting project %s: %w", project, err)
	}
	return &result, nil
}

// CreateProject queues creation of a project and returns the queued
// operation reference. Project creation is asynchronous; poll
// GetOperation until the status is terminal.
func (client *Client) CreateProject(ctx context.Context, request CreateProjectRequest) (*OperationReference, error) {
	if request.Name == "" {
		return nil, fmt.Errorf("azuredevops: creating project: Name is required")
	}

	visibility := request.Visibility
	if visibility == "" {
		visibility = "private"
	}
	if visibility != "private" && visibility != "public" {
		return nil, fmt.Errorf("azuredevops: creating project: invalid visibility %q, must be one of 'private' or 'public'", request.Visibility)
	}

	sourceControl := request.SourceControlType
	if sourceControl == "" {
		sourceControl = "Git"
	}
	if lowered := strings.ToLower(sourceControl); lowered != "git" && lowered != "tfvc" {
		return nil, fmt.Errorf("azuredevops: creating project: invalid source control type %q, must be one of 'Git' or 'Tfvc'", request.SourceControlType)
	}

	processTemplate := map[string]string{}
	if request.ProcessTemplateID != "" {
		processTemplate["templateTypeId"] = request.ProcessTemplateID
	}
	requestBody := map[string]any{
		"name":        request.Name,
		"description": request.Description,
		"visibility":  visibility,
		"capabilities": map[string]any{
			"versioncontrol":  map[string]string{"sourceControlType": sourceControl},
			"processTemplate": processTemplate,
		},
	}

	var operation OperationReference
	if err := client.post(ctx, restURL(client.orgURL, nil, "_apis", "projects"), requestBody, &operation); err != nil {
		return nil, fmt.Errorf("creating project %s: %w", request.Name, err)
	}
	return &operation, nil
}

// GetOperation fetches the state of a long-running operation such as a
// queued project creation. The status is terminal once it reaches
// "succeeded", "cancelled", or "failed".
func (client *Client) GetOperation(ctx context.Context, operationID string) (*Operation, error) {
	var operation Operation
	if err := client.get(ctx, restURL(client.orgURL, nil, "_apis", "operations", operationID), &operation); err != nil {
		return nil, fmt.Errorf("getting operation %s: %w", operationID, err)
	}
	return &operation, nil
}

// teamsAPIVersion pins the teams endpoints, which remain preview in
// API 7.1.
const teamsAPIVersion = "7.1-preview.3"

// ListTeams returns all teams of a project.
func (client *Client) ListTeams(ctx context.Context, project string) ([]Team, error) {
	query := url.Values{}
	query.Set("api-version", teamsAPIVersion)

	var envelope listResponse[Team]
	if err := client.get(ctx, restURL(client.orgURL, query, "_apis", "projects", project, "teams"), &envelope); err != nil {
		return nil, fmt.Errorf("listing teams of project %s: %w", project, err)
	}
	return envelope.Value, nil
}

// CreateTeam creates a team in a project.
func (client *Client) CreateTeam(ctx context.Context, project, name, description string) (*Team, error) {
	query := url.Values{}
	query.Set("api-version", teamsAPIVersion)

	requestBody := map[string]string{"name": name}
	if description != "" {
		requestBody["description"] = description
	}

	var team Team
	if err := client.post(ctx, restURL(client.orgURL, query, "_apis", "projects", project, "teams"), requestBody, &team); err != nil {
		return nil, fmt.Errorf("creating team %s in project %s: %w", name, project, err)
	}
	return &team, nil
}

// UpdateTeam renames a team or changes its description. At least one
// field of the update must be set.
func (client *Client) UpdateTeam(ctx context.Context, project, team string, update TeamUpdate) (*Team, error) {
	if update.Name == "" && update.Description == "" {
		return nil, fmt.Errorf("azuredevops: updating team %s: no fields to update", team)
	}

	query := url.Values{}
	query.Set("api-version", teamsAPIVersion)

	var updated Team
	if err := client.patch(ctx, restURL(client.orgURL, query, "_apis", "projects", project, "teams", team), update, &updated); err != nil {
		return nil, fmt.Errorf("updating team %s in project %s: %w", team, project, err)
	}
	return &updated, nil
}

// DeleteTeam deletes a team from a project.
func (client *Client) DeleteTeam(ctx context.Context, project, team string) error {
	query := url.Values{}
	query.Set("api-version", teamsAPIVersion)

	if err := client.delete(ctx, restURL(client.orgURL, query, "_apis", "projects", project, "teams", team)); err != nil {
		return fmt.Errorf("deleting team %s from project %s: %w", team, project, err)
	}
	return nil
}

// ListTeamMembers returns the members of a team with their admin flag.
func (client *Client) ListTeamMembers(ctx context.Context, project, team string) ([]TeamMember, error) {
	query := url.Values{}
	query.Set("api-version", "7.1-preview.2")

	var envelope listResponse[TeamMember]
	if err := client.get(ctx, restURL(client.orgURL, query, "_apis", "projects", project, "teams", team, "members"), &envelope); err != nil {
		return nil, fmt.Errorf("listing members of team %s: %w", team, err)
	}
	return envelope.Value, nil
}

// propertiesAPIVersion pins the project properties endpoints, which
// remain preview in API 7.1.
const propertiesAPIVersion = "7.1-preview.1"

// GetProjectProperties returns a project's properties, optionally
// restricted to the named keys.
func (client *Client) GetProjectProperties(ctx context.Context, project string, keys ...string) ([]ProjectProperty, error) {
	query := url.Values{}
	query.Set("api-version", propertiesAPIVersion)
	if len(keys) > 0 {
		query.Set("keys", strings.Join(keys, ","))
	}

	var envelope listResponse[ProjectProperty]
	if err := client.get(ctx, restURL(client.orgURL, query, "_apis", "projects", project, "properties"), &envelope); err != nil {
		return nil, fmt.Errorf("getting properties of project %s: %w", project, err)
	}
	return envelope.Value, nil
}

// SetProjectProperty creates or updates one project property.
func (client *Client) SetProjectProperty(ctx context.Context, project, name string, value any) error {
	query := url.Values{}
	query.Set("api-version", propertiesAPIVersion)

	document := []PatchOperation{{Op: "add", Path: "/" + name, Value: value}}
	if err := client.submitPatchDocument(ctx, http.MethodPatch, restURL(client.orgURL, query, "_apis", "projects", project, "properties"), document, nil); err != nil {
		return fmt.Errorf("setting property %s on project %s: %w", name, project, err)
	}
	return nil
}

// ListProcessTemplates returns the process templates (Agile, Scrum,
// Basic, CMMI) available for project creation.
func (client *Client) ListProcessTemplates(ctx context.Context) ([]ProcessTemplate, error) {
	var envelope listResponse[ProcessTemplate]
	if err := client.get(ctx, restURL(client.orgURL, nil, "_apis", "process", "processes"), &envelope); err != nil {
		return nil, fmt.Errorf("listing process templates: %w", err)
	}
	return envelope.Value, nil
}

// GetProcessTemplate fetches a process template by ID.
func (client *Client) GetProcessTemplate(ctx context.Context, templateID string) (*ProcessTemplate, error) {
	var template ProcessTemplate
	if err := client.get(ctx, restURL(client.orgURL, nil, "_apis", "process", "processes", templateID), &template); err != nil {
		return nil, fmt.Errorf("getting process template %s: %w", templateID, err)
	}
	return &template, nil
}

// GetConnectionData returns organization connection details including
// the authenticated identity. The endpoint predates API versioning, so
// no api-version parameter is sent.
func (client *Client) GetConnectionData(ctx context.Context) (*ConnectionData, error) {
	var data ConnectionData
	if err := client.get(ctx, client.orgURL+"/_apis/connectionData", &data); err != nil {
		return nil, fmt.Errorf("getting connection data: %w", err)
	}
	return &data, nil
}
