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

// JQL returns the JQL authoring tools.
func JQL(client *jira.Client) []toolkit.Tool {
	return []toolkit.Tool{
		getFieldReferenceDataTool(client),
		getFieldAutocompleteSuggestionsTool(client),
		sanitizeJQLQueriesTool(client),
	}
}

type getFieldReferenceDataInput struct{}

func getFieldReferenceDataTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_field_reference_data",
		"Get the JQL reference data: searchable fields with their operators, and available JQL functions.",
		func(ctx context.Context, input getFieldReferenceDataInput) (string, error) {
			data, err := client.GetAutocompleteData(ctx)
			if err != nil {
				return "", err
			}
			var builder strings.Builder
			fmt.Fprintf(&builder, "Found %d searchable fields and %d JQL functions.\n\nFields:\n",
				len(data.VisibleFieldNames), len(data.VisibleFunctionNames))
			for _, field := range data.VisibleFieldNames {
				fmt.Fprintf(&builder, "- %s", field.Value)
				if len(field.Operators) > 0 {
					fmt.Fprintf(&builder, " (operators: %s)", strings.Join(field.Operators, ", "))
				}
				builder.WriteByte('\n')
			}
			builder.WriteString("\nFunctions:\n")
			for _, function := range data.VisibleFunctionNames {
				fmt.Fprintf(&builder, "- %s\n", function.Value)
			}
			return builder.String(), nil
		})
}

type getFieldAutocompleteSuggestionsInput struct {
	FieldName  string `json:"field_name" jsonschema_description:"Name of the JQL field, e.g. \"project\" or \"status\""`
	FieldValue string `json:"field_value,omitempty" jsonschema_description:"Partial value to complete, e.g. \"In Pro\""`
}

func getFieldAutocompleteSuggestionsTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_field_autocomplete_suggestions",
		"Get value suggestions for a JQL field, such as the status names matching a partial value.",
		func(ctx context.Context, input getFieldAutocompleteSuggestionsInput) (string, error) {
			suggestions, err := client.GetAutocompleteSuggestions(ctx, input.FieldName, input.FieldValue)
			if err != nil {
				return "", err
			}
			if len(suggestions) == 0 {
				return fmt.Sprintf("No suggestions for field %s", input.FieldName), nil
			}
			var builder strings.Builder
			fmt.Fprintf(&builder, "Found %d suggestions for field %s:\n\n", len(suggestions), input.FieldName)
			for _, suggestion := range suggestions {
				fmt.Fprintf(&builder, "- %s\n", suggestion.Value)
			}
			return builder.String(), nil
		})
}

type sanitizeJQLQueriesInput struct {
	Queries   []string `json:"queries" jsonschema_description:"JQL queries to sanitize"`
	AccountID string   `json:"account_id,omitempty" jsonschema_description:"Account ID of the user the queries are sanitized for. Omit for an anonymous user"`
}

func sanitizeJQLQueriesTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("sanitize_jql_queries",
		"Rewrite JQL queries so they can be shared without leaking project or field names the target user cannot see.",
		func(ctx context.Context, input sanitizeJQLQueriesInput) (string, error) {
			results, err := client.SanitizeJQL(ctx, input.Queries, input.AccountID)
			if err != nil {
				return "", err
			}
			var builder strings.Builder
			fmt.Fprintf(&builder, "Sanitized %d queries:\n\n", len(results))
			for _, result := range results {
				sanitized := result.SanitizedQuery
				if sanitized == "" {
					sanitized = result.InitialQuery
				}
				fmt.Fprintf(&builder, "- %s\n", sanitized)
			}
			return builder.String(), nil
		})
}
