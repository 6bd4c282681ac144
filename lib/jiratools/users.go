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

// Users returns the user lookup tools.
func Users(client *jira.Client) []toolkit.Tool {
	return []toolkit.Tool{
		getCurrentUserTool(client),
		getUserTool(client),
		findUsersTool(client),
		getAllUsersTool(client),
		getAssignableUsersTool(client),
		findUsersWithPermissionTool(client),
		getUserGroupsTool(client),
	}
}

type getCurrentUserInput struct{}

func getCurrentUserTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_current_user",
		"Get the user the client is authenticated as.",
		func(ctx context.Context, input getCurrentUserInput) (string, error) {
			user, err := client.GetCurrentUser(ctx)
			if err != nil {
				return "", err
			}
			result := fmt.Sprintf("Authenticated as %s (account ID: %s)", user.DisplayName, user.AccountID)
			if user.EmailAddress != "" {
				result += ", email " + user.EmailAddress
			}
			if user.TimeZone != "" {
				result += ", time zone " + user.TimeZone
			}
			return result, nil
		})
}

type getUserInput struct {
	AccountID string `json:"account_id" jsonschema_description:"Account ID of the user"`
}

func getUserTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_user_by_account_id",
		"Get a user by their account ID.",
		func(ctx context.Context, input getUserInput) (string, error) {
			user, err := client.GetUser(ctx, input.AccountID)
			if err != nil {
				return "", err
			}
			state := "active"
			if !user.Active {
				state = "inactive"
			}
			return fmt.Sprintf("User %s (account ID: %s) is %s", user.DisplayName, user.AccountID, state), nil
		})
}

type findUsersInput struct {
	Query      string `json:"query" jsonschema_description:"Text matched against display names and email addresses"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"minimum=1,maximum=50" jsonschema_description:"Maximum number of users to return. Defaults to 50"`
}

func findUsersTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("find_users",
		"Search users by display name or email address.",
		func(ctx context.Context, input findUsersInput) (string, error) {
			users, err := client.FindUsers(ctx, input.Query, jira.PageOptions{MaxResults: input.MaxResults})
			if err != nil {
				return "", err
			}
			return formatUserList(users), nil
		})
}

type getAllUsersInput struct {
	StartAt    int `json:"start_at,omitempty" jsonschema_description:"Index of the first user to return"`
	MaxResults int `json:"max_results,omitempty" jsonschema:"minimum=1,maximum=50" jsonschema_description:"Maximum number of users to return. Defaults to 50"`
}

func getAllUsersTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_all_users",
		"List all users on the site, active and inactive.",
		func(ctx context.Context, input getAllUsersInput) (string, error) {
			users, err := client.ListUsers(ctx, jira.PageOptions{
				StartAt:    input.StartAt,
				MaxResults: input.MaxResults,
			})
			if err != nil {
				return "", err
			}
			return formatUserList(users), nil
		})
}

type getAssignableUsersInput struct {
	ProjectKey string `json:"project_key,omitempty" jsonschema_description:"Project to find assignable users for. Set exactly one of project_key or issue_key"`
	IssueKey   string `json:"issue_key,omitempty" jsonschema_description:"Issue to find assignable users for. Set exactly one of project_key or issue_key"`
	Query      string `json:"query,omitempty" jsonschema_description:"Optional text matched against display names and email addresses"`
}

func getAssignableUsersTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_assignable_users",
		"List the users that issues in a project, or one specific issue, can be assigned to.",
		func(ctx context.Context, input getAssignableUsersInput) (string, error) {
			users, err := client.FindAssignableUsers(ctx, input.Query, input.ProjectKey, input.IssueKey, jira.PageOptions{})
			if err != nil {
				return "", err
			}
			return formatUserList(users), nil
		})
}

type findUsersWithPermissionInput struct {
	Permissions []string `json:"permissions" jsonschema_description:"Permission keys the users must hold, e.g. [\"EDIT_ISSUES\"]"`
	IssueKey    string   `json:"issue_key,omitempty" jsonschema_description:"Optional issue to scope the check to"`
	Query       string   `json:"query,omitempty" jsonschema_description:"Optional text matched against display names and email addresses"`
}

func findUsersWithPermissionTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("find_users_with_permission",
		"Search the users holding all of the named permissions, optionally scoped to one issue.",
		func(ctx context.Context, input findUsersWithPermissionInput) (string, error) {
			users, err := client.FindUsersWithPermission(ctx, input.Query, input.Permissions, input.IssueKey, jira.PageOptions{})
			if err != nil {
				return "", err
			}
			return formatUserList(users), nil
		})
}

type getUserGroupsInput struct {
	AccountID string `json:"account_id" jsonschema_description:"Account ID of the user"`
}

func getUserGroupsTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_user_groups",
		"List the groups a user belongs to.",
		func(ctx context.Context, input getUserGroupsInput) (string, error) {
			groups, err := client.GetUserGroups(ctx, input.AccountID)
			if err != nil {
				return "", err
			}
			if len(groups) == 0 {
				return fmt.Sprintf("User %s belongs to no groups", input.AccountID), nil
			}
			names := make([]string, 0, len(groups))
			for _, group := range groups {
				names = append(names, group.Name)
			}
			return fmt.Sprintf("User %s belongs to %d groups: %s",
				input.AccountID, len(groups), strings.Join(names, ", ")), nil
		})
}
