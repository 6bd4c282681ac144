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

// Search returns the JQL search and discovery tools.
func Search(client *jira.Client) []toolkit.Tool {
	return []toolkit.Tool{
		searchIssuesTool(client),
		matchIssuesTool(client),
		issuePickerTool(client),
		countIssuesTool(client),
		parseJQLTool(client),
		advancedSearchFieldsTool(client),
	}
}

type searchIssuesInput struct {
	JQL        string `json:"jql" jsonschema_description:"JQL query, e.g. project = PROJ AND status = 'In Progress'"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"minimum=1,maximum=100" jsonschema_description:"Maximum number of results to return. Defaults to 10"`
}

func searchIssuesTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("search_issues",
		"Search for JIRA issues using JQL (JIRA Query Language).",
		func(ctx context.Context, input searchIssuesInput) (string, error) {
			maxResults := input.MaxResults
			if maxResults == 0 {
				maxResults = 10
			}
			result, err := client.SearchIssues(ctx, input.JQL, maxResults)
			if err != nil {
				return "", err
			}
			return formatIssueList(result), nil
		})
}

type matchIssuesInput struct {
	JQLQueries []string `json:"jql_queries" jsonschema_description:"JQL queries to match the issues against"`
	IssueKeys  []string `json:"issue_keys" jsonschema_description:"Keys of the issues to check"`
}

func matchIssuesTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("match_issues_with_jql",
		"Check which of the given issues match each JQL query, without fetching issue details.",
		func(ctx context.Context, input matchIssuesInput) (string, error) {
			matches, err := client.MatchIssues(ctx, input.JQLQueries, nil, input.IssueKeys)
			if err != nil {
				return "", err
			}
			var builder strings.Builder
			builder.WriteString("JQL match results:\n")
			for i, match := range matches {
				query := ""
				if i < len(input.JQLQueries) {
					query = input.JQLQueries[i]
				}
				fmt.Fprintf(&builder, "- Query %q: %d issues matched\n", query, len(match.MatchedIssues))
				for _, errorMessage := range match.Errors {
					fmt.Fprintf(&builder, "    error: %s\n", errorMessage)
				}
			}
			return builder.String(), nil
		})
}

type issuePickerInput struct {
	Query            string `json:"query" jsonschema_description:"Free text to match against issue summaries and descriptions"`
	CurrentProjectID string `json:"current_project_id,omitempty" jsonschema_description:"Restrict suggestions to this project"`
	CurrentIssueKey  string `json:"current_issue_key,omitempty" jsonschema_description:"Key of the issue being viewed, for context-aware suggestions"`
}

func issuePickerTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_issue_picker_suggestions",
		"Find issues with a simple text search instead of JQL, like the JIRA issue picker.",
		func(ctx context.Context, input issuePickerInput) (string, error) {
			sections, err := client.GetIssuePicker(ctx, input.Query, jira.PickerOptions{
				CurrentProjectID: input.CurrentProjectID,
				CurrentIssueKey:  input.CurrentIssueKey,
				ShowSubTasks:     true,
			})
			if err != nil {
				return "", err
			}
			if len(sections) == 0 {
				return "No suggestions found for the query.", nil
			}
			var builder strings.Builder
			builder.WriteString("Issue picker suggestions:\n\n")
			for _, section := range sections {
				fmt.Fprintf(&builder, "%s:\n", valueOr(section.Label, "Unnamed section"))
				if len(section.Issues) == 0 {
					fmt.Fprintf(&builder, "  %s\n", valueOr(section.Msg, "No issues found"))
					continue
				}
				for _, issue := range section.Issues {
					fmt.Fprintf(&builder, "- %s: %s\n", issue.Key, valueOr(issue.SummaryText, "No summary"))
				}
			}
			return builder.String(), nil
		})
}

type countIssuesInput struct {
	JQL string `json:"jql" jsonschema_description:"JQL query to count matches for"`
}

func countIssuesTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("count_issues_by_jql",
		"Count the issues matching a JQL query without retrieving them.",
		func(ctx context.Context, input countIssuesInput) (string, error) {
			count, err := client.CountIssues(ctx, input.JQL)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Found %d issues matching the JQL query:\n%s", count, input.JQL), nil
		})
}

type parseJQLInput struct {
	Queries []string `json:"queries" jsonschema_description:"JQL queries to parse and validate"`
}

func parseJQLTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("parse_jql_queries",
		"Parse and validate JQL queries before running them, reporting syntax errors per query.",
		func(ctx context.Context, input parseJQLInput) (string, error) {
			results, err := client.ParseJQL(ctx, input.Queries, false)
			if err != nil {
				return "", err
			}
			var builder strings.Builder
			builder.WriteString("JQL parsing results:\n\n")
			for i, parsed := range results {
				query := ""
				if i < len(input.Queries) {
					query = input.Queries[i]
				}
				fmt.Fprintf(&builder, "Query %d: %q\n", i+1, query)
				if len(parsed.Errors) == 0 {
					builder.WriteString("  Valid: yes\n")
				} else {
					builder.WriteString("  Errors:\n")
					for _, errorMessage := range parsed.Errors {
						fmt.Fprintf(&builder, "  - %s\n", errorMessage)
					}
				}
			}
			return builder.String(), nil
		})
}

type advancedSearchFieldsInput struct {
	Query string `json:"query,omitempty" jsonschema_description:"Filter fields by name, e.g. 'sprint'"`
}

func advancedSearchFieldsTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_advanced_search_fields",
		"List the issue fields that can be used in JQL queries, with their searchable clause names.",
		func(ctx context.Context, input advancedSearchFieldsInput) (string, error) {
			page, err := client.FindFields(ctx, input.Query, jira.PageOptions{})
			if err != nil {
				return "", err
			}
			if len(page.Values) == 0 {
				return "No searchable fields found.", nil
			}
			var builder strings.Builder
			fmt.Fprintf(&builder, "Found %d searchable fields:\n\n", len(page.Values))
			for _, field := range page.Values {
				fmt.Fprintf(&builder, "- %s (ID: %s)\n", field.Name, field.ID)
				if len(field.ClauseNames) > 0 {
					fmt.Fprintf(&builder, "  JQL clauses: %s\n", strings.Join(field.ClauseNames, ", "))
				}
				if field.Schema != nil {
					fmt.Fprintf(&builder, "  Type: %s\n", field.Schema.Type)
				}
			}
			return builder.String(), nil
		})
}
