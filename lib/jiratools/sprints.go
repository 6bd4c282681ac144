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

// Sprints returns the sprint management tools.
func Sprints(client *jira.Client) []toolkit.Tool {
	return []toolkit.Tool{
		createSprintTool(client),
		getSprintTool(client),
		updateSprintTool(client),
		deleteSprintTool(client),
		getSprintIssuesTool(client),
		moveIssuesToSprintTool(client),
		swapSprintTool(client),
	}
}

// formatSprint renders one sprint with its dates and goal.
func formatSprint(sprint *jira.Sprint) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "Sprint %d: %s (%s)\n", sprint.ID, sprint.Name, sprint.State)
	if sprint.StartDate != "" {
		fmt.Fprintf(&builder, "Start: %s\n", sprint.StartDate)
	}
	if sprint.EndDate != "" {
		fmt.Fprintf(&builder, "End: %s\n", sprint.EndDate)
	}
	if sprint.Goal != "" {
		fmt.Fprintf(&builder, "Goal: %s\n", sprint.Goal)
	}
	if sprint.OriginBoardID != 0 {
		fmt.Fprintf(&builder, "Board: %d\n", sprint.OriginBoardID)
	}
	return builder.String()
}

type createSprintInput struct {
	Name          string `json:"name" jsonschema_description:"Sprint name"`
	OriginBoardID int    `json:"origin_board_id" jsonschema_description:"ID of the scrum board the sprint belongs to"`
	StartDate     string `json:"start_date,omitempty" jsonschema_description:"Planned start, ISO 8601, e.g. 2026-03-01T09:00:00.000Z"`
	EndDate       string `json:"end_date,omitempty" jsonschema_description:"Planned end, ISO 8601"`
	Goal          string `json:"goal,omitempty" jsonschema_description:"Sprint goal"`
}

func createSprintTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("create_sprint",
		"Create a future sprint on a scrum board.",
		func(ctx context.Context, input createSprintInput) (string, error) {
			sprint, err := client.CreateSprint(ctx, jira.CreateSprintRequest{
				Name:          input.Name,
				OriginBoardID: input.OriginBoardID,
				StartDate:     input.StartDate,
				EndDate:       input.EndDate,
				Goal:          input.Goal,
			})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully created sprint %q with ID %d", sprint.Name, sprint.ID), nil
		})
}

type getSprintInput struct {
	SprintID int `json:"sprint_id" jsonschema_description:"Numeric sprint ID"`
}

func getSprintTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_sprint",
		"Get the details of a sprint: state, dates, and goal.",
		func(ctx context.Context, input getSprintInput) (string, error) {
			sprint, err := client.GetSprint(ctx, input.SprintID)
			if err != nil {
				return "", err
			}
			return formatSprint(sprint), nil
		})
}

type updateSprintInput struct {
	SprintID  int    `json:"sprint_id" jsonschema_description:"Numeric sprint ID"`
	Name      string `json:"name,omitempty" jsonschema_description:"New sprint name"`
	State     string `json:"state,omitempty" jsonschema:"enum=future,enum=active,enum=closed" jsonschema_description:"New state. Set active to start the sprint, closed to complete it"`
	StartDate string `json:"start_date,omitempty" jsonschema_description:"New start date, ISO 8601"`
	EndDate   string `json:"end_date,omitempty" jsonschema_description:"New end date, ISO 8601"`
	Goal      string `json:"goal,omitempty" jsonschema_description:"New sprint goal"`
}

func updateSprintTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("update_sprint",
		"Update a sprint's name, dates, or goal, or change its state to start or complete it.",
		func(ctx context.Context, input updateSprintInput) (string, error) {
			sprint, err := client.PartiallyUpdateSprint(ctx, input.SprintID, jira.SprintUpdate{
				Name:      input.Name,
				State:     input.State,
				StartDate: input.StartDate,
				EndDate:   input.EndDate,
				Goal:      input.Goal,
			})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully updated sprint %d (%s, %s)", sprint.ID, sprint.Name, sprint.State), nil
		})
}

type deleteSprintInput struct {
	SprintID int `json:"sprint_id" jsonschema_description:"Numeric sprint ID"`
}

func deleteSprintTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("delete_sprint",
		"Delete a sprint. Only future sprints can be deleted.",
		func(ctx context.Context, input deleteSprintInput) (string, error) {
			if err := client.DeleteSprint(ctx, input.SprintID); err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully deleted sprint %d", input.SprintID), nil
		})
}

type getSprintIssuesInput struct {
	SprintID   int    `json:"sprint_id" jsonschema_description:"Numeric sprint ID"`
	JQL        string `json:"jql,omitempty" jsonschema_description:"Optional JQL filter within the sprint"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"minimum=1,maximum=100" jsonschema_description:"Maximum number of issues to return. Defaults to 50"`
}

func getSprintIssuesTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_sprint_issues",
		"List the issues in a sprint, optionally filtered by JQL.",
		func(ctx context.Context, input getSprintIssuesInput) (string, error) {
			result, err := client.ListSprintIssues(ctx, input.SprintID, jira.SearchOptions{
				JQL:        input.JQL,
				MaxResults: input.MaxResults,
			})
			if err != nil {
				return "", err
			}
			return formatIssueList(result), nil
		})
}

type moveIssuesToSprintInput struct {
	SprintID  int      `json:"sprint_id" jsonschema_description:"Numeric sprint ID"`
	IssueKeys []string `json:"issue_keys" jsonschema_description:"Keys of the issues to move into the sprint"`
}

func moveIssuesToSprintTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("move_issues_to_sprint",
		"Move issues into a sprint from the backlog or another sprint.",
		func(ctx context.Context, input moveIssuesToSprintInput) (string, error) {
			if err := client.MoveIssuesToSprint(ctx, input.SprintID, input.IssueKeys); err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully moved issues to sprint %d: %s",
				input.SprintID, strings.Join(input.IssueKeys, ", ")), nil
		})
}

type swapSprintInput struct {
	SprintID         int `json:"sprint_id" jsonschema_description:"ID of the sprint to move"`
	SprintToSwapWith int `json:"sprint_to_swap_with" jsonschema_description:"ID of the sprint to swap positions with"`
}

func swapSprintTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("swap_sprint",
		"Swap the order of two sprints on a board.",
		func(ctx context.Context, input swapSprintInput) (string, error) {
			if err := client.SwapSprint(ctx, input.SprintID, input.SprintToSwapWith); err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully swapped sprint %d with sprint %d",
				input.SprintID, input.SprintToSwapWith), nil
		})
}
