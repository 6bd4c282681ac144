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

// IssueTypes returns the issue type administration tools.
func IssueTypes(client *jira.Client) []toolkit.Tool {
	return []toolkit.Tool{
		getAllIssueTypesTool(client),
		getIssueTypeTool(client),
		createIssueTypeTool(client),
		updateIssueTypeTool(client),
		deleteIssueTypeTool(client),
		getAlternativeIssueTypesTool(client),
		getIssueTypeSchemesTool(client),
		getCreateMetadataIssueTypesTool(client),
		getCreateFieldMetadataTool(client),
	}
}

func issueTypeLine(issueType jira.IssueType) string {
	kind := "standard"
	if issueType.Subtask {
		kind = "subtask"
	}
	line := fmt.Sprintf("- %s [%s]: %s", issueType.ID, kind, issueType.Name)
	if issueType.Description != "" {
		line += " - " + issueType.Description
	}
	return line
}

func formatIssueTypeList(issueTypes []jira.IssueType) string {
	if len(issueTypes) == 0 {
		return "No issue types found."
	}
	var builder strings.Builder
	fmt.Fprintf(&builder, "Found %d issue types:\n\n", len(issueTypes))
	for _, issueType := range issueTypes {
		builder.WriteString(issueTypeLine(issueType))
		builder.WriteByte('\n')
	}
	return builder.String()
}

type getAllIssueTypesInput struct{}

func getAllIssueTypesTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_all_issue_types",
		"List all issue types visible to the current user.",
		func(ctx context.Context, input getAllIssueTypesInput) (string, error) {
			issueTypes, err := client.ListIssueTypes(ctx)
			if err != nil {
				return "", err
			}
			return formatIssueTypeList(issueTypes), nil
		})
}

type getIssueTypeInput struct {
	IssueTypeID string `json:"issue_type_id" jsonschema_description:"ID of the issue type"`
}

func getIssueTypeTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_issue_type",
		"Get a single issue type by its ID.",
		func(ctx context.Context, input getIssueTypeInput) (string, error) {
			issueType, err := client.GetIssueType(ctx, input.IssueTypeID)
			if err != nil {
				return "", err
			}
			return "Issue type " + strings.TrimPrefix(issueTypeLine(*issueType), "- "), nil
		})
}

type createIssueTypeInput struct {
	Name        string `json:"name" jsonschema_description:"Name of the new issue type"`
	Description string `json:"description,omitempty" jsonschema_description:"Description of the issue type"`
	Type        string `json:"type,omitempty" jsonschema:"enum=standard,enum=subtask" jsonschema_description:"Kind of issue type. Defaults to standard"`
}

func createIssueTypeTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("create_issue_type",
		"Create a new issue type.",
		func(ctx context.Context, input createIssueTypeInput) (string, error) {
			issueType, err := client.CreateIssueType(ctx, jira.CreateIssueTypeRequest{
				Name:        input.Name,
				Description: input.Description,
				Type:        input.Type,
			})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully created issue type %s (ID %s)", issueType.Name, issueType.ID), nil
		})
}

type updateIssueTypeInput struct {
	IssueTypeID string `json:"issue_type_id" jsonschema_description:"ID of the issue type to update"`
	Name        string `json:"name,omitempty" jsonschema_description:"New name"`
	Description string `json:"description,omitempty" jsonschema_description:"New description"`
}

func updateIssueTypeTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("update_issue_type",
		"Update the name or description of an issue type.",
		func(ctx context.Context, input updateIssueTypeInput) (string, error) {
			issueType, err := client.UpdateIssueType(ctx, input.IssueTypeID, jira.IssueTypeUpdate{
				Name:        input.Name,
				Description: input.Description,
			})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully updated issue type %s", issueType.ID), nil
		})
}

type deleteIssueTypeInput struct {
	IssueTypeID            string `json:"issue_type_id" jsonschema_description:"ID of the issue type to delete"`
	AlternativeIssueTypeID string `json:"alternative_issue_type_id,omitempty" jsonschema_description:"Issue type to migrate existing issues to"`
}

func deleteIssueTypeTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("delete_issue_type",
		"Delete an issue type, optionally migrating its issues to an alternative type.",
		func(ctx context.Context, input deleteIssueTypeInput) (string, error) {
			if err := client.DeleteIssueType(ctx, input.IssueTypeID, input.AlternativeIssueTypeID); err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully deleted issue type %s", input.IssueTypeID), nil
		})
}

type getAlternativeIssueTypesInput struct {
	IssueTypeID string `json:"issue_type_id" jsonschema_description:"ID of the issue type being replaced"`
}

func getAlternativeIssueTypesTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_alternative_issue_types",
		"List the issue types that issues can be migrated to when the given type is deleted.",
		func(ctx context.Context, input getAlternativeIssueTypesInput) (string, error) {
			issueTypes, err := client.ListIssueTypeAlternatives(ctx, input.IssueTypeID)
			if err != nil {
				return "", err
			}
			if len(issueTypes) == 0 {
				return fmt.Sprintf("No alternative issue types for issue type %s", input.IssueTypeID), nil
			}
			return formatIssueTypeList(issueTypes), nil
		})
}

type getIssueTypeSchemesInput struct {
	MaxResults int `json:"max_results,omitempty" jsonschema:"minimum=1,maximum=50" jsonschema_description:"Maximum number of schemes to return. Defaults to 50"`
}

func getIssueTypeSchemesTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_issue_type_schemes",
		"List the issue type schemes defined on the site.",
		func(ctx context.Context, input getIssueTypeSchemesInput) (string, error) {
			page, err := client.ListIssueTypeSchemes(ctx, jira.PageOptions{MaxResults: input.MaxResults})
			if err != nil {
				return "", err
			}
			if len(page.Values) == 0 {
				return "No issue type schemes found.", nil
			}
			var builder strings.Builder
			fmt.Fprintf(&builder, "Found %d issue type schemes:\n\n", page.Total)
			for _, scheme := range page.Values {
				fmt.Fprintf(&builder, "- %s: %s", scheme.ID, scheme.Name)
				if scheme.IsDefault {
					builder.WriteString(" (default)")
				}
				builder.WriteByte('\n')
			}
			return builder.String(), nil
		})
}

type getCreateMetadataIssueTypesInput struct {
	ProjectKey string `json:"project_key" jsonschema_description:"Key or ID of the project"`
}

func getCreateMetadataIssueTypesTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_create_metadata_issue_types",
		"List the issue types available when creating issues in a project.",
		func(ctx context.Context, input getCreateMetadataIssueTypesInput) (string, error) {
			issueTypes, err := client.GetCreateMetaIssueTypes(ctx, input.ProjectKey, jira.PageOptions{})
			if err != nil {
				return "", err
			}
			if len(issueTypes) == 0 {
				return fmt.Sprintf("No issue types available for project %s", input.ProjectKey), nil
			}
			return formatIssueTypeList(issueTypes), nil
		})
}

type getCreateFieldMetadataInput struct {
	ProjectKey  string `json:"project_key" jsonschema_description:"Key or ID of the project"`
	IssueTypeID string `json:"issue_type_id" jsonschema_description:"ID of the issue type"`
}

func getCreateFieldMetadataTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_create_field_metadata",
		"List the fields available when creating an issue of a given type in a project, with required fields marked.",
		func(ctx context.Context, input getCreateFieldMetadataInput) (string, error) {
			fields, err := client.GetCreateMetaFields(ctx, input.ProjectKey, input.IssueTypeID, jira.PageOptions{})
			if err != nil {
				return "", err
			}
			if len(fields) == 0 {
				return fmt.Sprintf("No fields found for issue type %s in project %s",
					input.IssueTypeID, input.ProjectKey), nil
			}
			var builder strings.Builder
			fmt.Fprintf(&builder, "Found %d fields for issue type %s in project %s:\n\n",
				len(fields), input.IssueTypeID, input.ProjectKey)
			for _, field := range fields {
				fmt.Fprintf(&builder, "- %s: %s", field.FieldID, field.Name)
				if field.Required {
					builder.WriteString(" (required)")
				}
				builder.WriteByte('\n')
			}
			return builder.String(), nil
		})
}
