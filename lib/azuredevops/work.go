// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package azuredevops

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// ListTeamIterations returns the iterations assigned to a team. Pass
// timeframe "current" to restrict to the active iteration; the service
// recognizes no other value.
func (client *Client) ListTeamIterations(ctx context.Context, project, team, timeframe string) ([]TeamIteration, error) {
	query := url.Values{}
	if timeframe != "" {
		query.Set("$timeframe", timeframe)
	}

	var envelope listResponse[TeamIteration]
	if err := client.get(ctx, restURL(client.orgURL, query, project, team, "_apis", "work", "teamsettings", "iterations"), &envelope); err != nil {
		return nil, fmt.Errorf("listing iterations of team %s: %w", team, err)
	}
	return envelope.Value, nil
}

// GetCurrentIteration returns the iteration a team is currently in.
func (client *Client) GetCurrentIteration(ctx context.Context, project, team string) (*TeamIteration, error) {
	iterations, err := client.ListTeamIterations(ctx, project, team, "current")
	if err != nil {
		return nil, err
	}
	if len(iterations) == 0 {
		return nil, fmt.Errorf("azuredevops: no current iteration for team %s", team)
	}
	return &iterations[0], nil
}

// AddTeamIteration assigns an existing project iteration to a team.
// The iteration ID is the classification node identifier GUID.
func (client *Client) AddTeamIteration(ctx context.Context, project, team, iterationID string) (*TeamIteration, error) {
	var iteration TeamIteration
	rawURL := restURL(client.orgURL, nil, project, team, "_apis", "work", "teamsettings", "iterations")
	if err := client.post(ctx, rawURL, map[string]string{"id": iterationID}, &iteration); err != nil {
		return nil, fmt.Errorf("adding iteration %s to team %s: %w", iterationID, team, err)
	}
	return &iteration, nil
}

// RemoveTeamIteration removes an iteration from a team's schedule. The
// underlying project iteration is left in place.
func (client *Client) RemoveTeamIteration(ctx context.Context, project, team, iterationID string) error {
	if err := client.delete(ctx, restURL(client.orgURL, nil, project, team, "_apis", "work", "teamsettings", "iterations", iterationID)); err != nil {
		return fmt.Errorf("removing iteration %s from team %s: %w", iterationID, team, err)
	}
	return nil
}

// CreateIterationRequest holds the fields for creating a project
// iteration. Dates are ISO 8601 ("2026-03-02T00:00:00Z").
type CreateIterationRequest struct {
	// Name is the iteration name. Required.
	Name string

	// StartDate is the first day of the iteration.
	StartDate string

	// FinishDate is the last day of the iteration.
	FinishDate string

	// ParentPath places the iteration under an existing node. Empty
	// creates it at the root of the iteration tree.
	ParentPath string
}

// CreateIteration creates an iteration in a project's iteration tree.
// Assign it to a team with AddTeamIteration.
func (client *Client) CreateIteration(ctx context.Context, project string, request CreateIterationRequest) (*ClassificationNode, error) {
	if request.Name == "" {
		return nil, fmt.Errorf("azuredevops: creating iteration: Name is required")
	}

	var attributes map[string]any
	if request.StartDate != "" || request.FinishDate != "" {
		attributes = map[string]any{}
		if request.StartDate != "" {
			attributes["startDate"] = request.StartDate
		}
		if request.FinishDate != "" {
			attributes["finishDate"] = request.FinishDate
		}
	}

	node := ClassificationNodeRequest{Name: request.Name, Attributes: attributes}
	created, err := client.CreateOrUpdateClassificationNode(ctx, project, StructureIterations, request.ParentPath, node)
	if err != nil {
		return nil, fmt.Errorf("creating iteration %s: %w", request.Name, err)
	}
	return created, nil
}

// backlogsAPIVersion pins the backlogs endpoints, which remain preview
// in API 7.1.
const backlogsAPIVersion = "7.1-preview.1"

// ListBacklogs returns the backlog levels (Epics, Features, Stories)
// visible to a team, highest rank first.
func (client *Client) ListBacklogs(ctx context.Context, project, team string) ([]BacklogLevel, error) {
	query := url.Values{}
	query.Set("api-version", backlogsAPIVersion)

	var envelope listResponse[BacklogLevel]
	if err := client.get(ctx, restURL(client.orgURL, query, project, team, "_apis", "work", "backlogs"), &envelope); err != nil {
		return nil, fmt.Errorf("listing backlogs of team %s: %w", team, err)
	}
	return envelope.Value, nil
}

// GetBacklog fetches one backlog level by ID, for example
// "Microsoft.RequirementCategory".
func (client *Client) GetBacklog(ctx context.Context, project, team, backlogID string) (*BacklogLevel, error) {
	query := url.Values{}
	query.Set("api-version", backlogsAPIVersion)

	var backlog BacklogLevel
	if err := client.get(ctx, restURL(client.orgURL, query, project, team, "_apis", "work", "backlogs", backlogID), &backlog); err != nil {
		return nil, fmt.Errorf("getting backlog %s: %w", backlogID, err)
	}
	return &backlog, nil
}

// ListBacklogWorkItems returns the work item references on one backlog
// level in backlog order. Fetch full work items with GetWorkItems.
func (client *Client) ListBacklogWorkItems(ctx context.Context, project, team, backlogID string) (*BacklogWorkItems, error) {
	query := url.Values{}
	query.Set("api-version", backlogsAPIVersion)

	var items BacklogWorkItems
	if err := client.get(ctx, restURL(client.orgURL, query, project, team, "_apis", "work", "backlogs", backlogID, "workItems"), &items); err != nil {
		return nil, fmt.Errorf("listing work items of backlog %s: %w", backlogID, err)
	}
	return &items, nil
}

// GetTeamSettings returns a team's working preferences.
func (client *Client) GetTeamSettings(ctx context.Context, project, team string) (*TeamSettings, error) {
	var settings TeamSettings
	if err := client.get(ctx, restURL(client.orgURL, nil, project, team, "_apis", "work", "teamsettings"), &settings); err != nil {
		return nil, fmt.Errorf("getting settings of team %s: %w", team, err)
	}
	return &settings, nil
}

// UpdateTeamSettings applies a partial update to a team's working
// preferences. At least one field of the patch must be set.
func (client *Client) UpdateTeamSettings(ctx context.Context, project, team string, patch TeamSettingsPatch) (*TeamSettings, error) {
	if patch.BugsBehavior == "" && len(patch.WorkingDays) == 0 && len(patch.BacklogVisibility) == 0 && patch.DefaultIteration == "" {
		return nil, fmt.Errorf("azuredevops: updating settings of team %s: no fields to update", team)
	}

	var settings TeamSettings
	if err := client.patch(ctx, restURL(client.orgURL, nil, project, team, "_apis", "work", "teamsettings"), patch, &settings); err != nil {
		return nil, fmt.Errorf("updating settings of team %s: %w", team, err)
	}
	return &settings, nil
}

// ListBoards returns a team's boards.
func (client *Client) ListBoards(ctx context.Context, project, team string) ([]BoardRef, error) {
	var envelope listResponse[BoardRef]
	if err := client.get(ctx, restURL(client.orgURL, nil, project, team, "_apis", "work", "boards"), &envelope); err != nil {
		return nil, fmt.Errorf("listing boards of team %s: %w", team, err)
	}
	return envelope.Value, nil
}

// GetBoard fetches a team board by name or ID with its columns and
// rows.
func (client *Client) GetBoard(ctx context.Context, project, team, board string) (*Board, error) {
	var result Board
	if err := client.get(ctx, restURL(client.orgURL, nil, project, team, "_apis", "work", "boards", board), &result); err != nil {
		return nil, fmt.Errorf("getting board %s: %w", board, err)
	}
	return &result, nil
}

// ListBoardColumns returns the columns of a team board with their
// limits and state mappings.
func (client *Client) ListBoardColumns(ctx context.Context, project, team, board string) ([]BoardColumn, error) {
	var envelope listResponse[BoardColumn]
	if err := client.get(ctx, restURL(client.orgURL, nil, project, team, "_apis", "work", "boards", board, "columns"), &envelope); err != nil {
		return nil, fmt.Errorf("listing columns of board %s: %w", board, err)
	}
	return envelope.Value, nil
}

// GetTeamCapacity returns per-member activity capacity for one
// iteration.
func (client *Client) GetTeamCapacity(ctx context.Context, project, team, iterationID string) (*TeamCapacity, error) {
	var capacity TeamCapacity
	if err := client.get(ctx, restURL(client.orgURL, nil, project, team, "_apis", "work", "teamsettings", "iterations", iterationID, "capacities"), &capacity); err != nil {
		return nil, fmt.Errorf("getting capacity of team %s in iteration %s: %w", team, iterationID, err)
	}
	return &capacity, nil
}

// ListIterationWorkItems returns the work item references assigned to
// one iteration. Fetch full work items with GetWorkItems.
func (client *Client) ListIterationWorkItems(ctx context.Context, project, team, iterationID string) (*IterationWorkItems, error) {
	var items IterationWorkItems
	if err := client.get(ctx, restURL(client.orgURL, nil, project, team, "_apis", "work", "teamsettings", "iterations", iterationID, "workitems"), &items); err != nil {
		return nil, fmt.Errorf("listing work items of iteration %s: %w", iterationID, err)
	}
	return &items, nil
}

// ListPlans returns the delivery plans of a project.
func (client *Client) ListPlans(ctx context.Context, project string) ([]Plan, error) {
	var envelope listResponse[Plan]
	if err := client.get(ctx, restURL(client.orgURL, nil, project, "_apis", "work", "plans"), &envelope); err != nil {
		return nil, fmt.Errorf("listing plans of project %s: %w", project, err)
	}
	return envelope.Value, nil
}

// GetPlan fetches a delivery plan by ID.
func (client *Client) GetPlan(ctx context.Context, project, planID string) (*Plan, error) {
	var plan Plan
	if err := client.get(ctx, restURL(client.orgURL, nil, project, "_apis", "work", "plans", planID), &plan); err != nil {
		return nil, fmt.Errorf("getting plan %s: %w", planID, err)
	}
	return &plan, nil
}

// CreatePlan creates a delivery plan. The request properties carry the
// team backlog mappings the timeline view renders.
func (client *Client) CreatePlan(ctx context.Context, project string, request CreatePlanRequest) (*Plan, error) {
	if request.Name == "" {
		return nil, fmt.Errorf("azuredevops: creating plan: Name is required")
	}
	if request.Type == "" {
		request.Type = "deliveryTimelineView"
	}

	var plan Plan
	if err := client.post(ctx, restURL(client.orgURL, nil, project, "_apis", "work", "plans"), request, &plan); err != nil {
		return nil, fmt.Errorf("creating plan %s: %w", request.Name, err)
	}
	return &plan, nil
}

// UpdatePlan replaces a delivery plan. The request revision must match
// the plan's current revision or the service rejects the update.
func (client *Client) UpdatePlan(ctx context.Context, project, planID string, request UpdatePlanRequest) (*Plan, error) {
	if request.Type == "" {
		request.Type = "deliveryTimelineView"
	}

	var plan Plan
	if err := client.put(ctx, restURL(client.orgURL, nil, project, "_apis", "work", "plans", planID), request, &plan); err != nil {
		return nil, fmt.Errorf("updating plan %s: %w", planID, err)
	}
	return &plan, nil
}

// DeletePlan deletes a delivery plan.
func (client *Client) DeletePlan(ctx context.Context, project, planID string) error {
	if err := client.delete(ctx, restURL(client.orgURL, nil, project, "_apis", "work", "plans", planID)); err != nil {
		return fmt.Errorf("deleting plan %s: %w", planID, err)
	}
	return nil
}

// GetDeliveryTimeline returns the rendered timeline data of a delivery
// plan. A positive revision pins a specific plan revision.
func (client *Client) GetDeliveryTimeline(ctx context.Context, project, planID string, revision int) (*DeliveryTimeline, error) {
	query := url.Values{}
	if revision > 0 {
		query.Set("revision", strconv.Itoa(revision))
	}

	var timeline DeliveryTimeline
	if err := client.get(ctx, restURL(client.orgURL, query, project, "_apis", "work", "plans", planID, "deliverytimeline"), &timeline); err != nil {
		return nil, fmt.Errorf("getting delivery timeline of plan %s: %w", planID, err)
	}
	return &timeline, nil
}
