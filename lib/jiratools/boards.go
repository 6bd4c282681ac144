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

// Boards returns the board management tools.
func Boards(client *jira.Client) []toolkit.Tool {
	return []toolkit.Tool{
		getAllBoardsTool(client),
		createBoardTool(client),
		getBoardTool(client),
		deleteBoardTool(client),
		getBoardConfigurationTool(client),
		getBoardIssuesTool(client),
		getAllSprintsTool(client),
		getBoardEpicsTool(client),
		getBoardProjectsTool(client),
		getBacklogIssuesTool(client),
		moveIssuesToBoardTool(client),
		getBoardPropertyKeysTool(client),
	}
}

func boardLine(board jira.Board) string {
	location := ""
	if board.Location != nil && board.Location.ProjectKey != "" {
		location = fmt.Sprintf(" [project %s]", board.Location.ProjectKey)
	}
	return fmt.Sprintf("- Board %d: %s (%s)%s", board.ID, board.Name, board.Type, location)
}

type getAllBoardsInput struct {
	ProjectKeyOrID string `json:"project_key_or_id,omitempty" jsonschema_description:"Only boards in this project"`
	BoardType      string `json:"board_type,omitempty" jsonschema:"enum=scrum,enum=kanban,enum=simple" jsonschema_description:"Only boards of this type"`
	Name           string `json:"name,omitempty" jsonschema_description:"Only boards whose name contains this text"`
	MaxResults     int    `json:"max_results,omitempty" jsonschema:"minimum=1,maximum=100" jsonschema_description:"Maximum number of boards to return. Defaults to 50"`
}

func getAllBoardsTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_all_boards",
		"List JIRA boards, optionally filtered by project, type, or name.",
		func(ctx context.Context, input getAllBoardsInput) (string, error) {
			page, err := client.ListBoards(ctx, jira.BoardListOptions{
				ProjectKeyOrID: input.ProjectKeyOrID,
				Type:           input.BoardType,
				Name:           input.Name,
				MaxResults:     input.MaxResults,
			})
			if err != nil {
				return "", err
			}
			if len(page.Values) == 0 {
				return "No boards found.", nil
			}
			var builder strings.Builder
			fmt.Fprintf(&builder, "Found %d boards:\n\n", len(page.Values))
			for _, board := range page.Values {
				builder.WriteString(boardLine(board))
				builder.WriteByte('\n')
			}
			return builder.String(), nil
		})
}

type createBoardInput struct {
	Name     string `json:"name" jsonschema_description:"Board name"`
	Type     string `json:"type" jsonschema:"enum=scrum,enum=kanban" jsonschema_description:"Board type"`
	FilterID int64  `json:"filter_id" jsonschema_description:"ID of the saved filter that selects the board's issues"`
}

func createBoardTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("create_board",
		"Create a scrum or kanban board backed by a saved filter.",
		func(ctx context.Context, input createBoardInput) (string, error) {
			board, err := client.CreateBoard(ctx, jira.CreateBoardRequest{
				Name:     input.Name,
				Type:     input.Type,
				FilterID: input.FilterID,
			})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully created %s board %q with ID %d", board.Type, board.Name, board.ID), nil
		})
}

type getBoardInput struct {
	BoardID int `json:"board_id" jsonschema_description:"Numeric board ID"`
}

func getBoardTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_board",
		"Get the details of a single board.",
		func(ctx context.Context, input getBoardInput) (string, error) {
			board, err := client.GetBoard(ctx, input.BoardID)
			if err != nil {
				return "", err
			}
			return strings.TrimPrefix(boardLine(*board), "- "), nil
		})
}

type deleteBoardInput struct {
	BoardID int `json:"board_id" jsonschema_description:"Numeric board ID"`
}

func deleteBoardTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("delete_board",
		"Delete a board. The board's filter and issues are not affected.",
		func(ctx context.Context, input deleteBoardInput) (string, error) {
			if err := client.DeleteBoard(ctx, input.BoardID); err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully deleted board %d", input.BoardID), nil
		})
}

type getBoardConfigurationInput struct {
	BoardID int `json:"board_id" jsonschema_description:"Numeric board ID"`
}

func getBoardConfigurationTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_board_configuration",
		"Get a board's configuration: its filter and column layout.",
		func(ctx context.Context, input getBoardConfigurationInput) (string, error) {
			configuration, err := client.GetBoardConfiguration(ctx, input.BoardID)
			if err != nil {
				return "", err
			}
			var builder strings.Builder
			fmt.Fprintf(&builder, "Configuration of board %d (%s, %s):\n",
				configuration.ID, configuration.Name, configuration.Type)
			if configuration.Filter != nil {
				fmt.Fprintf(&builder, "Filter ID: %s\n", configuration.Filter.ID)
			}
			if len(configuration.ColumnConfig.Columns) > 0 {
				builder.WriteString("Columns:\n")
				for _, column := range configuration.ColumnConfig.Columns {
					fmt.Fprintf(&builder, "- %s (%d statuses)\n", column.Name, len(column.Statuses))
				}
			}
			return builder.String(), nil
		})
}

type getBoardIssuesInput struct {
	BoardID    int    `json:"board_id" jsonschema_description:"Numeric board ID"`
	JQL        string `json:"jql,omitempty" jsonschema_description:"Optional JQL filter within the board"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"minimum=1,maximum=100" jsonschema_description:"Maximum number of issues to return. Defaults to 50"`
}

func getBoardIssuesTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_board_issues",
		"List the issues visible on a board, optionally filtered by JQL.",
		func(ctx context.Context, input getBoardIssuesInput) (string, error) {
			result, err := client.ListBoardIssues(ctx, input.BoardID, jira.SearchOptions{
				JQL:        input.JQL,
				MaxResults: input.MaxResults,
			})
			if err != nil {
				return "", err
			}
			return formatIssueList(result), nil
		})
}

type getAllSprintsInput struct {
	BoardID int    `json:"board_id" jsonschema_description:"Numeric board ID"`
	State   string `json:"state,omitempty" jsonschema_description:"Filter by sprint state: future, active, closed, or a comma-separated combination"`
}

func getAllSprintsTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_all_sprints",
		"List the sprints on a board, optionally filtered by state.",
		func(ctx context.Context, input getAllSprintsInput) (string, error) {
			page, err := client.ListBoardSprints(ctx, input.BoardID, input.State, jira.PageOptions{})
			if err != nil {
				return "", err
			}
			if len(page.Values) == 0 {
				return fmt.Sprintf("No sprints found on board %d", input.BoardID), nil
			}
			var builder strings.Builder
			fmt.Fprintf(&builder, "Found %d sprints on board %d:\n\n", len(page.Values), input.BoardID)
			for _, sprint := range page.Values {
				fmt.Fprintf(&builder, "- Sprint %d: %s (%s)", sprint.ID, sprint.Name, sprint.State)
				if sprint.Goal != "" {
					fmt.Fprintf(&builder, " goal: %s", sprint.Goal)
				}
				builder.WriteByte('\n')
			}
			return builder.String(), nil
		})
}

type getBoardEpicsInput struct {
	BoardID int `json:"board_id" jsonschema_description:"Numeric board ID"`
}

func getBoardEpicsTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_board_epics",
		"List the epics associated with a board.",
		func(ctx context.Context, input getBoardEpicsInput) (string, error) {
			page, err := client.ListBoardEpics(ctx, input.BoardID, jira.PageOptions{})
			if err != nil {
				return "", err
			}
			if len(page.Values) == 0 {
				return fmt.Sprintf("No epics found on board %d", input.BoardID), nil
			}
			var builder strings.Builder
			fmt.Fprintf(&builder, "Found %d epics on board %d:\n\n", len(page.Values), input.BoardID)
			for _, epic := range page.Values {
				state := "open"
				if epic.Done {
					state = "done"
				}
				fmt.Fprintf(&builder, "- Epic %d: %s (%s)\n", epic.ID, epic.Name, state)
			}
			return builder.String(), nil
		})
}

type getBoardProjectsInput struct {
	BoardID int `json:"board_id" jsonschema_description:"Numeric board ID"`
}

func getBoardProjectsTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_board_projects",
		"List the projects a board draws issues from.",
		func(ctx context.Context, input getBoardProjectsInput) (string, error) {
			page, err := client.ListBoardProjects(ctx, input.BoardID, jira.PageOptions{})
			if err != nil {
				return "", err
			}
			if len(page.Values) == 0 {
				return fmt.Sprintf("No projects found for board %d", input.BoardID), nil
			}
			var builder strings.Builder
			fmt.Fprintf(&builder, "Projects on board %d:\n\n", input.BoardID)
			for _, project := range page.Values {
				fmt.Fprintf(&builder, "- %s: %s\n", project.Key, project.Name)
			}
			return builder.String(), nil
		})
}

type getBacklogIssuesInput struct {
	BoardID    int    `json:"board_id" jsonschema_description:"Numeric board ID"`
	JQL        string `json:"jql,omitempty" jsonschema_description:"Optional JQL filter within the backlog"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"minimum=1,maximum=100" jsonschema_description:"Maximum number of issues to return. Defaults to 50"`
}

func getBacklogIssuesTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_backlog_issues",
		"List the issues in a board's backlog.",
		func(ctx context.Context, input getBacklogIssuesInput) (string, error) {
			result, err := client.ListBacklogIssues(ctx, input.BoardID, jira.SearchOptions{
				JQL:        input.JQL,
				MaxResults: input.MaxResults,
			})
			if err != nil {
				return "", err
			}
			if len(result.Issues) == 0 {
				return fmt.Sprintf("No issues found in the backlog for board %d", input.BoardID), nil
			}
			var builder strings.Builder
			fmt.Fprintf(&builder, "Found %d of %d total issues in the backlog for board %d:\n\n",
				len(result.Issues), result.Total, input.BoardID)
			for _, issue := range result.Issues {
				fmt.Fprintf(&builder, "- %s [%s]: %s (%s)\n",
					issue.Key, issueTypeName(issue.Fields.IssueType),
					valueOr(issue.Fields.Summary, "No summary"), statusName(issue.Fields.Status))
			}
			return builder.String(), nil
		})
}

type moveIssuesToBoardInput struct {
	BoardID   int      `json:"board_id" jsonschema_description:"Numeric board ID"`
	IssueKeys []string `json:"issue_keys" jsonschema_description:"Keys of the issues to move onto the board"`
}

func moveIssuesToBoardTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("move_issues_to_board",
		"Move issues onto a board. The board's filter must match the issues.",
		func(ctx context.Context, input moveIssuesToBoardInput) (string, error) {
			if err := client.MoveIssuesToBoard(ctx, input.BoardID, input.IssueKeys); err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully moved issues to board %d: %s",
				input.BoardID, strings.Join(input.IssueKeys, ", ")), nil
		})
}

type getBoardPropertyKeysInput struct {
	BoardID int `json:"board_id" jsonschema_description:"Numeric board ID"`
}

func getBoardPropertyKeysTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_board_property_keys",
		"List the keys of the properties stored on a board.",
		func(ctx context.Context, input getBoardPropertyKeysInput) (string, error) {
			keys, err := client.GetBoardPropertyKeys(ctx, input.BoardID)
			if err != nil {
				return "", err
			}
			if len(keys) == 0 {
				return fmt.Sprintf("No properties stored on board %d", input.BoardID), nil
			}
			names := make([]string, 0, len(keys))
			for _, key := range keys {
				names = append(names, key.Key)
			}
			return fmt.Sprintf("Properties on board %d: %s", input.BoardID, strings.Join(names, ", ")), nil
		})
}
