// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package devopstools

import (
	"context"

	"github.com/trackdeck/trackdeck/lib/azuredevops"
	"github.com/trackdeck/trackdeck/lib/toolkit"
)

// Search returns the code, work item and wiki search tools.
func Search(client *azuredevops.Client) []toolkit.Tool {
	return []toolkit.Tool{
		searchCodeTool(client),
		searchWorkItemsTool(client),
		searchWikiTool(client),
	}
}

// searchFilters assembles the filter map, leaving out empty values.
func searchFilters(pairs map[string]string) map[string][]string {
	filters := make(map[string][]string)
	for key, value := range pairs {
		if value != "" {
			filters[key] = []string{value}
		}
	}
	if len(filters) == 0 {
		return nil
	}
	return filters
}

type searchCodeInput struct {
	SearchText string `json:"search_text" jsonschema_description:"The text to search for. Supports operators like 'ext:go' and 'def:Parse'"`
	Project    string `json:"project,omitempty" jsonschema_description:"Limit the search to one project. Empty searches the whole organization"`
	Repository string `json:"repository,omitempty" jsonschema_description:"Limit the search to one repository"`
	Path       string `json:"path,omitempty" jsonschema_description:"Limit the search to paths under this prefix"`
	Branch     string `json:"branch,omitempty" jsonschema_description:"Search this branch instead of the default branch"`
	Top        int    `json:"top,omitempty" jsonschema_description:"Maximum number of results to return. Defaults to 100"`
}

func searchCodeTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("search_code",
		"Search for code across the organization's Git repositories.",
		func(ctx context.Context, input searchCodeInput) (string, error) {
			results, err := client.SearchCode(ctx, input.Project, azuredevops.SearchRequest{
				SearchText: input.SearchText,
				Top:        input.Top,
				Filters: searchFilters(map[string]string{
					"Repository": input.Repository,
					"Path":       input.Path,
					"Branch":     input.Branch,
				}),
			})
			if err != nil {
				return "", err
			}

			formatted := make([]map[string]any, 0, len(results.Results))
			for _, result := range results.Results {
				formatted = append(formatted, map[string]any{
					"file_name":  result.FileName,
					"path":       result.Path,
					"repository": result.Repository.Name,
					"project":    result.Project.Name,
				})
			}
			return formatJSON(map[string]any{
				"count":        results.Count,
				"code_results": formatted,
			})
		})
}

type searchWorkItemsInput struct {
	SearchText   string `json:"search_text" jsonschema_description:"The text to search for in titles, descriptions and comments"`
	Project      string `json:"project,omitempty" jsonschema_description:"Limit the search to one project. Empty searches the whole organization"`
	WorkItemType string `json:"work_item_type,omitempty" jsonschema_description:"Limit the search to one work item type, for example 'Bug'"`
	State        string `json:"state,omitempty" jsonschema_description:"Limit the search to one state, for example 'Active'"`
	AssignedTo   string `json:"assigned_to,omitempty" jsonschema_description:"Limit the search to items assigned to this person"`
	Top          int    `json:"top,omitempty" jsonschema_description:"Maximum number of results to return. Defaults to 100"`
}

func searchWorkItemsTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("search_work_items",
		"Full text search across work items.",
		func(ctx context.Context, input searchWorkItemsInput) (string, error) {
			results, err := client.SearchWorkItems(ctx, input.Project, azuredevops.SearchRequest{
				SearchText: input.SearchText,
				Top:        input.Top,
				Filters: searchFilters(map[string]string{
					"System.WorkItemType": input.WorkItemType,
					"System.State":        input.State,
					"System.AssignedTo":   input.AssignedTo,
				}),
			})
			if err != nil {
				return "", err
			}

			formatted := make([]map[string]any, 0, len(results.Results))
			for _, result := range results.Results {
				formatted = append(formatted, map[string]any{
					"project": result.Project.Name,
					"fields":  result.Fields,
					"url":     result.URL,
				})
			}
			return formatJSON(map[string]any{
				"count":      results.Count,
				"work_items": formatted,
			})
		})
}

type searchWikiInput struct {
	SearchText string `json:"search_text" jsonschema_description:"The text to search for in wiki pages"`
	Project    string `json:"project,omitempty" jsonschema_description:"Limit the search to one project. Empty searches the whole organization"`
	Wiki       string `json:"wiki,omitempty" jsonschema_description:"Limit the search to one wiki by name"`
	Top        int    `json:"top,omitempty" jsonschema_description:"Maximum number of results to return. Defaults to 100"`
}

func searchWikiTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("search_wiki",
		"Full text search across wiki pages.",
		func(ctx context.Context, input searchWikiInput) (string, error) {
			results, err := client.SearchWiki(ctx, input.Project, azuredevops.SearchRequest{
				SearchText: input.SearchText,
				Top:        input.Top,
				Filters: searchFilters(map[string]string{
					"Wiki": input.Wiki,
				}),
			})
			if err != nil {
				return "", err
			}

			formatted := make([]map[string]any, 0, len(results.Results))
			for _, result := range results.Results {
				formatted = append(formatted, map[string]any{
					"file_name": result.FileName,
					"path":      result.Path,
					"wiki":      result.Wiki.Name,
					"project":   result.Project.Name,
				})
			}
			return formatJSON(map[string]any{
				"count":        results.Count,
				"wiki_results": formatted,
			})
		})
}
