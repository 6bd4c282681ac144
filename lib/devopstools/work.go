// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package devopstools

import (
	"context"
	"fmt"

	"github.com/trackdeck/trackdeck/lib/azuredevops"
	"github.com/trackdeck/trackdeck/lib/toolkit"
)

// Work returns the sprint, backlog, board, capacity and delivery plan
// tools.
func Work(client *azuredevops.Client) []toolkit.Tool {
	return []toolkit.Tool{
		getTeamIterationsTool(client),
		getTeamCurrentIterationTool(client),
		addTeamIterationTool(client),
		removeTeamIterationTool(client),
		getProjectIterationsTool(client),
		createIterationTool(client),
		getBacklogsTool(client),
		getSingleBacklogTool(client),
		getBacklogItemsTool(client),
		getTeamSettingsTool(client),
		updateTeamSettingsTool(client),
		getTeamBoardsTool(client),
		getTeamBoardTool(client),
		getBoardColumnsTool(client),
		getTeamCapacityTool(client),
		getIterationWorkItemsTool(client),
		getPlansTool(client),
		getPlanTool(client),
		createPlanTool(client),
		updatePlanTool(client),
		deletePlanTool(client),
		getDeliveryTimelineDataTool(client),
	}
}

type getTeamIterationsInput struct {
	Project   string `json:"project" jsonschema_description:"The name or ID of the project"`
	Team      string `json:"team" jsonschema_description:"The name or ID of the team"`
	Timeframe string `json:"timeframe,omitempty" jsonschema_description:"Filter to 'current' iterations only. Empty returns all iterations assigned to the team"`
}

func getTeamIterationsTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_team_iterations",
		"Get the iterations (sprints) assigned to a team.",
		func(ctx context.Context, input getTeamIterationsInput) (string, error) {
			iterations, err := client.ListTeamIterations(ctx, input.Project, input.Team, input.Timeframe)
			if err != nil {
				return "", err
			}

			formatted := make([]map[string]any, 0, len(iterations))
			for index := range iterations {
				formatted = append(formatted, formatIteration(&iterations[index]))
			}
			return formatJSON(formatted)
		})
}

type getTeamCurrentIterationInput struct {
	Project string `json:"project" jsonschema_description:"The name or ID of the project"`
	Team    string `json:"team" jsonschema_description:"The name or ID of the team"`
}

func getTeamCurrentIterationTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_team_current_iteration",
		"Get the team's current iteration (the sprint in progress today).",
		func(ctx context.Context, input getTeamCurrentIterationInput) (string, error) {
			iteration, err := client.GetCurrentIteration(ctx, input.Project, input.Team)
			if err != nil {
				return "", err
			}
			return formatJSON(formatIteration(iteration))
		})
}

type addTeamIterationInput struct {
	Project     string `json:"project" jsonschema_description:"The name or ID of the project"`
	Team        string `json:"team" jsonschema_description:"The name or ID of the team"`
	IterationID string `json:"iteration_id" jsonschema_description:"The iteration identifier (GUID), from get_project_iterations or create_iteration"`
}

func addTeamIterationTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("add_team_iteration",
		"Assign an existing project iteration to a team.",
		func(ctx context.Context, input addTeamIterationInput) (string, error) {
			iteration, err := client.AddTeamIteration(ctx, input.Project, input.Team, input.IterationID)
			if err != nil {
				return "", err
			}
			return formatJSON(formatIteration(iteration))
		})
}

type removeTeamIterationInput struct {
	Project     string `json:"project" jsonschema_description:"The name or ID of the project"`
	Team        string `json:"team" jsonschema_description:"The name or ID of the team"`
	IterationID string `json:"iteration_id" jsonschema_description:"The iteration identifier (GUID)"`
}

func removeTeamIterationTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("remove_team_iteration",
		"Remove an iteration from a team's sprint schedule. The iteration itself is not deleted.",
		func(ctx context.Context, input removeTeamIterationInput) (string, error) {
			if err := client.RemoveTeamIteration(ctx, input.Project, input.Team, input.IterationID); err != nil {
				return "", err
			}
			return fmt.Sprintf("Iteration %s was removed from team '%s'.", input.IterationID, input.Team), nil
		})
}

func formatClassificationNode(node *azuredevops.ClassificationNode) map[string]any {
	formatted := map[string]any{
		"id":         node.ID,
		"identifier": node.Identifier,
		"name":       node.Name,
		"path":       node.Path,
	}
	if len(node.Attributes) > 0 {
		formatted["attributes"] = node.Attributes
	}
	if len(node.Children) > 0 {
		children := make([]map[string]any, 0, len(node.Children))
		for index := range node.Children {
			children = append(children, formatClassificationNode(&node.Children[index]))
		}
		formatted["children"] = children
	}
	return formatted
}

type getProjectIterationsInput struct {
	Project string `json:"project" jsonschema_description:"The name or ID of the project"`
	Depth   int    `json:"depth,omitempty" jsonschema_description:"How many levels of the iteration tree to return. Defaults to 2"`
}

func getProjectIterationsTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_project_iterations",
		"Get the project's iteration tree, independent of any team assignment.",
		func(ctx context.Context, input getProjectIterationsInput) (string, error) {
			depth := input.Depth
			if depth == 0 {
				depth = 2
			}
			root, err := client.GetClassificationNode(ctx, input.Project, azuredevops.StructureIterations, "", depth)
			if err != nil {
				return "", err
			}
			return formatJSON(formatClassificationNode(root))
		})
}

type createIterationInput struct {
	Project    string `json:"project" jsonschema_description:"The name or ID of the project"`
	Name       string `json:"name" jsonschema_description:"The iteration name, for example 'Sprint 12'"`
	StartDate  string `json:"start_date,omitempty" jsonschema_description:"The first day of the iteration, as YYYY-MM-DD"`
	FinishDate string `json:"finish_date,omitempty" jsonschema_description:"The last day of the iteration, as YYYY-MM-DD"`
	ParentPath string `json:"parent_path,omitempty" jsonschema_description:"Path of the parent node, for example 'Release 2'. Empty creates the iteration at the root"`
}

func createIterationTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("create_iteration",
		"Create a new iteration in the project's iteration tree. Assign it to a team with add_team_iteration.",
		func(ctx context.Context, input createIterationInput) (string, error) {
			node, err := client.CreateIteration(ctx, input.Project, azuredevops.CreateIterationRequest{
				Name:       input.Name,
				StartDate:  input.StartDate,
				FinishDate: input.FinishDate,
				ParentPath: input.ParentPath,
			})
			if err != nil {
				return "", err
			}
			return formatJSON(formatClassificationNode(node))
		})
}

func formatBacklog(backlog *azuredevops.BacklogLevel) map[string]any {
	return map[string]any{
		"id":   backlog.ID,
		"name": backlog.Name,
		"rank": backlog.Rank,
		"type": backlog.Type,
	}
}

type getBacklogsInput struct {
	Project string `json:"project" jsonschema_description:"The name or ID of the project"`
	Team    string `json:"team" jsonschema_description:"The name or ID of the team"`
}

func getBacklogsTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_backlogs",
		"Get the backlog levels of a team, for example Epics, Features and Stories.",
		func(ctx context.Context, input getBacklogsInput) (string, error) {
			backlogs, err := client.ListBacklogs(ctx, input.Project, input.Team)
			if err != nil {
				return "", err
			}

			formatted := make([]map[string]any, 0, len(backlogs))
			for index := range backlogs {
				formatted = append(formatted, formatBacklog(&backlogs[index]))
			}
			return formatJSON(formatted)
		})
}

type getSingleBacklogInput struct {
	Project   string `json:"project" jsonschema_description:"The name or ID of the project"`
	Team      string `json:"team" jsonschema_description:"The name or ID of the team"`
	BacklogID string `json:"backlog_id" jsonschema_description:"The backlog level ID, for example 'Microsoft.RequirementCategory'"`
}

func getSingleBacklogTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_single_backlog",
		"Get one backlog level of a team by ID.",
		func(ctx context.Context, input getSingleBacklogInput) (string, error) {
			backlog, err := client.GetBacklog(ctx, input.Project, input.Team, input.BacklogID)
			if err != nil {
				return "", err
			}
			return formatJSON(formatBacklog(backlog))
		})
}

type getBacklogItemsInput struct {
	Project   string `json:"project" jsonschema_description:"The name or ID of the project"`
	Team      string `json:"team" jsonschema_description:"The name or ID of the team"`
	BacklogID string `json:"backlog_id" jsonschema_description:"The backlog level ID, for example 'Microsoft.RequirementCategory'"`
}

func getBacklogItemsTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_backlog_items",
		"Get the work items on a team's backlog level, with their fields.",
		func(ctx context.Context, input getBacklogItemsInput) (string, error) {
			backlogItems, err := client.ListBacklogWorkItems(ctx, input.Project, input.Team, input.BacklogID)
			if err != nil {
				return "", err
			}

			workItems, err := client.GetWorkItems(ctx, linkTargetIDs(backlogItems.WorkItems))
			if err != nil {
				return "", err
			}
			return formatWorkItemList(workItems)
		})
}

func formatTeamSettings(settings *azuredevops.TeamSettings) map[string]any {
	formatted := map[string]any{
		"bugs_behavior":        settings.BugsBehavior,
		"working_days":         settings.WorkingDays,
		"backlog_visibilities": settings.BacklogVisibility,
	}
	if settings.BacklogIteration != nil {
		formatted["backlog_iteration"] = settings.BacklogIteration.Name
	}
	if settings.DefaultIteration != nil {
		formatted["default_iteration"] = settings.DefaultIteration.Name
	} else if settings.DefaultIterationMacro != "" {
		formatted["default_iteration"] = settings.DefaultIterationMacro
	}
	return formatted
}

type getTeamSettingsInput struct {
	Project string `json:"project" jsonschema_description:"The name or ID of the project"`
	Team    string `json:"team" jsonschema_description:"The name or ID of the team"`
}

func getTeamSettingsTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_team_settings",
		"Get a team's settings: bug behavior, working days, backlog visibilities and iterations.",
		func(ctx context.Context, input getTeamSettingsInput) (string, error) {
			settings, err := client.GetTeamSettings(ctx, input.Project, input.Team)
			if err != nil {
				return "", err
			}
			return formatJSON(formatTeamSettings(settings))
		})
}

type updateTeamSettingsInput struct {
	Project             string          `json:"project" jsonschema_description:"The name or ID of the project"`
	Team                string          `json:"team" jsonschema_description:"The name or ID of the team"`
	BugsBehavior        string          `json:"bugs_behavior,omitempty" jsonschema_description:"How bugs appear on backlogs: 'off', 'asRequirements' or 'asTasks'" jsonschema:"enum=off,enum=asRequirements,enum=asTasks"`
	WorkingDays         []string        `json:"working_days,omitempty" jsonschema_description:"The team's working days, lowercase English day names"`
	BacklogVisibilities map[string]bool `json:"backlog_visibilities,omitempty" jsonschema_description:"Backlog level visibility keyed by category reference name"`
	DefaultIterationID  string          `json:"default_iteration_id,omitempty" jsonschema_description:"Identifier (GUID) of the new default iteration"`
}

func updateTeamSettingsTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("update_team_settings",
		"Change a team's settings. Only the provided settings change.",
		func(ctx context.Context, input updateTeamSettingsInput) (string, error) {
			if input.BugsBehavior == "" && len(input.WorkingDays) == 0 && len(input.BacklogVisibilities) == 0 && input.DefaultIterationID == "" {
				return "No changes requested for team settings update.", nil
			}
			settings, err := client.UpdateTeamSettings(ctx, input.Project, input.Team, azuredevops.TeamSettingsPatch{
				BugsBehavior:      input.BugsBehavior,
				WorkingDays:       input.WorkingDays,
				BacklogVisibility: input.BacklogVisibilities,
				DefaultIteration:  input.DefaultIterationID,
			})
			if err != nil {
				return "", err
			}
			return formatJSON(formatTeamSettings(settings))
		})
}

type getTeamBoardsInput struct {
	Project string `json:"project" jsonschema_description:"The name or ID of the project"`
	Team    string `json:"team" jsonschema_description:"The name or ID of the team"`
}

func getTeamBoardsTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_team_boards",
		"Get the Kanban boards of a team.",
		func(ctx context.Context, input getTeamBoardsInput) (string, error) {
			boards, err := client.ListBoards(ctx, input.Project, input.Team)
			if err != nil {
				return "", err
			}

			formatted := make([]map[string]any, 0, len(boards))
			for _, board := range boards {
				formatted = append(formatted, map[string]any{
					"id":   board.ID,
					"name": board.Name,
				})
			}
			return formatJSON(formatted)
		})
}

func formatBoardColumn(column *azuredevops.BoardColumn) map[string]any {
	formatted := map[string]any{
		"name":        column.Name,
		"item_limit":  column.ItemLimit,
		"column_type": column.ColumnType,
	}
	if len(column.StateMappings) > 0 {
		formatted["state_mappings"] = column.StateMappings
	}
	return formatted
}

type getTeamBoardInput struct {
	Project string `json:"project" jsonschema_description:"The name or ID of the project"`
	Team    string `json:"team" jsonschema_description:"The name or ID of the team"`
	Board   string `json:"board" jsonschema_description:"The board name or ID, for example 'Stories'"`
}

func getTeamBoardTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_team_board",
		"Get a team board with its columns and swimlanes.",
		func(ctx context.Context, input getTeamBoardInput) (string, error) {
			board, err := client.GetBoard(ctx, input.Project, input.Team, input.Board)
			if err != nil {
				return "", err
			}

			columns := make([]map[string]any, 0, len(board.Columns))
			for index := range board.Columns {
				columns = append(columns, formatBoardColumn(&board.Columns[index]))
			}
			rows := make([]string, 0, len(board.Rows))
			for _, row := range board.Rows {
				rows = append(rows, row.Name)
			}
			return formatJSON(map[string]any{
				"id":      board.ID,
				"name":    board.Name,
				"columns": columns,
				"rows":    rows,
			})
		})
}

type getBoardColumnsInput struct {
	Project string `json:"project" jsonschema_description:"The name or ID of the project"`
	Team    string `json:"team" jsonschema_description:"The name or ID of the team"`
	Board   string `json:"board" jsonschema_description:"The board name or ID, for example 'Stories'"`
}

func getBoardColumnsTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_board_columns",
		"Get the columns of a team board with their WIP limits and state mappings.",
		func(ctx context.Context, input getBoardColumnsInput) (string, error) {
			columns, err := client.ListBoardColumns(ctx, input.Project, input.Team, input.Board)
			if err != nil {
				return "", err
			}

			formatted := make([]map[string]any, 0, len(columns))
			for index := range columns {
				formatted = append(formatted, formatBoardColumn(&columns[index]))
			}
			return formatJSON(formatted)
		})
}

type getTeamCapacityInput struct {
	Project     string `json:"project" jsonschema_description:"The name or ID of the project"`
	Team        string `json:"team" jsonschema_description:"The name or ID of the team"`
	IterationID string `json:"iteration_id" jsonschema_description:"The iteration identifier (GUID), from get_team_iterations"`
}

func getTeamCapacityTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_team_capacity",
		"Get the per-member capacity and days off for a team in an iteration.",
		func(ctx context.Context, input getTeamCapacityInput) (string, error) {
			capacity, err := client.GetTeamCapacity(ctx, input.Project, input.Team, input.IterationID)
			if err != nil {
				return "", err
			}

			members := make([]map[string]any, 0, len(capacity.TeamMembers))
			for _, member := range capacity.TeamMembers {
				activities := make([]map[string]any, 0, len(member.Activities))
				for _, activity := range member.Activities {
					activities = append(activities, map[string]any{
						"name":             activity.Name,
						"capacity_per_day": activity.CapacityPerDay,
					})
				}
				daysOff := make([]map[string]any, 0, len(member.DaysOff))
				for _, dayRange := range member.DaysOff {
					daysOff = append(daysOff, map[string]any{
						"start": dayRange.Start,
						"end":   dayRange.End,
					})
				}
				members = append(members, map[string]any{
					"name":       member.TeamMember.DisplayName,
					"activities": activities,
					"days_off":   daysOff,
				})
			}
			return formatJSON(map[string]any{
				"team_members":           members,
				"total_capacity_per_day": capacity.TotalCapacityPerDay,
				"total_days_off":         capacity.TotalDaysOff,
			})
		})
}

type getIterationWorkItemsInput struct {
	Project     string `json:"project" jsonschema_description:"The name or ID of the project"`
	Team        string `json:"team" jsonschema_description:"The name or ID of the team"`
	IterationID string `json:"iteration_id" jsonschema_description:"The iteration identifier (GUID), from get_team_iterations"`
}

func getIterationWorkItemsTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_iteration_work_items",
		"Get the work items assigned to a team's iteration, with their fields.",
		func(ctx context.Context, input getIterationWorkItemsInput) (string, error) {
			iterationItems, err := client.ListIterationWorkItems(ctx, input.Project, input.Team, input.IterationID)
			if err != nil {
				return "", err
			}

			workItems, err := client.GetWorkItems(ctx, linkTargetIDs(iterationItems.WorkItemRelations))
			if err != nil {
				return "", err
			}
			return formatWorkItemList(workItems)
		})
}

func formatPlan(plan *azuredevops.Plan) map[string]any {
	return map[string]any{
		"id":          plan.ID,
		"name":        plan.Name,
		"type":        plan.Type,
		"description": plan.Description,
		"revision":    plan.Revision,
		"created_by":  identityName(plan.CreatedBy),
	}
}

type getPlansInput struct {
	Project string `json:"project" jsonschema_description:"The name or ID of the project"`
}

func getPlansTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_plans",
		"Get the delivery plans in a project.",
		func(ctx context.Context, input getPlansInput) (string, error) {
			plans, err := client.ListPlans(ctx, input.Project)
			if err != nil {
				return "", err
			}

			formatted := make([]map[string]any, 0, len(plans))
			for index := range plans {
				formatted = append(formatted, formatPlan(&plans[index]))
			}
			return formatJSON(formatted)
		})
}

type getPlanInput struct {
	Project string `json:"project" jsonschema_description:"The name or ID of the project"`
	PlanID  string `json:"plan_id" jsonschema_description:"The delivery plan ID"`
}

func getPlanTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_plan",
		"Get a delivery plan by ID.",
		func(ctx context.Context, input getPlanInput) (string, error) {
			plan, err := client.GetPlan(ctx, input.Project, input.PlanID)
			if err != nil {
				return "", err
			}
			return formatJSON(formatPlan(plan))
		})
}

type createPlanInput struct {
	Project     string `json:"project" jsonschema_description:"The name or ID of the project"`
	Name        string `json:"name" jsonschema_description:"The name of the delivery plan"`
	Description string `json:"description,omitempty" jsonschema_description:"The plan description"`
}

func createPlanTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("create_plan",
		"Create a delivery plan in a project.",
		func(ctx context.Context, input createPlanInput) (string, error) {
			plan, err := client.CreatePlan(ctx, input.Project, azuredevops.CreatePlanRequest{
				Name:        input.Name,
				Description: input.Description,
			})
			if err != nil {
				return "", err
			}
			return formatJSON(formatPlan(plan))
		})
}

type updatePlanInput struct {
	Project     string `json:"project" jsonschema_description:"The name or ID of the project"`
	PlanID      string `json:"plan_id" jsonschema_description:"The delivery plan ID"`
	Name        string `json:"name,omitempty" jsonschema_description:"The new plan name. Empty keeps the current name"`
	Description string `json:"description,omitempty" jsonschema_description:"The new plan description. Empty keeps the current description"`
}

func updatePlanTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("update_plan",
		"Rename a delivery plan or change its description.",
		func(ctx context.Context, input updatePlanInput) (string, error) {
			// The update endpoint replaces the plan, so read the current
			// revision and fill whatever the caller left out.
			current, err := client.GetPlan(ctx, input.Project, input.PlanID)
			if err != nil {
				return "", err
			}

			name := input.Name
			if name == "" {
				name = current.Name
			}
			description := input.Description
			if description == "" {
				description = current.Description
			}
			plan, err := client.UpdatePlan(ctx, input.Project, input.PlanID, azuredevops.UpdatePlanRequest{
				Name:        name,
				Type:        current.Type,
				Description: description,
				Revision:    current.Revision,
				Properties:  current.Properties,
			})
			if err != nil {
				return "", err
			}
			return formatJSON(formatPlan(plan))
		})
}

type deletePlanInput struct {
	Project string `json:"project" jsonschema_description:"The name or ID of the project"`
	PlanID  string `json:"plan_id" jsonschema_description:"The delivery plan ID"`
}

func deletePlanTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("delete_plan",
		"Delete a delivery plan from a project.",
		func(ctx context.Context, input deletePlanInput) (string, error) {
			if err := client.DeletePlan(ctx, input.Project, input.PlanID); err != nil {
				return "", err
			}
			return fmt.Sprintf("Plan %s was successfully deleted.", input.PlanID), nil
		})
}

type getDeliveryTimelineDataInput struct {
	Project  string `json:"project" jsonschema_description:"The name or ID of the project"`
	PlanID   string `json:"plan_id" jsonschema_description:"The delivery plan ID"`
	Revision int    `json:"revision,omitempty" jsonschema_description:"Pin a specific plan revision. Zero reads the latest"`
}

func getDeliveryTimelineDataTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_delivery_timeline_data",
		"Get the rendered timeline of a delivery plan: each team's iterations with scheduled work items.",
		func(ctx context.Context, input getDeliveryTimelineDataInput) (string, error) {
			timeline, err := client.GetDeliveryTimeline(ctx, input.Project, input.PlanID, input.Revision)
			if err != nil {
				return "", err
			}

			teams := make([]map[string]any, 0, len(timeline.Teams))
			for _, team := range timeline.Teams {
				iterations := make([]map[string]any, 0, len(team.Iterations))
				for _, iteration := range team.Iterations {
					iterations = append(iterations, map[string]any{
						"name":        iteration.Name,
						"path":        iteration.Path,
						"start_date":  iteration.StartDate,
						"finish_date": iteration.FinishDate,
						"work_items":  iteration.WorkItems,
					})
				}
				teams = append(teams, map[string]any{
					"id":         team.ID,
					"name":       team.Name,
					"iterations": iterations,
				})
			}
			return formatJSON(map[string]any{
				"start_date": timeline.StartDate,
				"end_date":   timeline.EndDate,
				"revision":   timeline.Revision,
				"teams":      teams,
			})
		})
}
