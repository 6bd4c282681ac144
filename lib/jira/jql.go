// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package jira

import (
	"context"
	"fmt"
	"net/url"
)

// ParseJQL parses and validates JQL queries without running them. Results
// are returned in the same order as the queries; a query with an empty
// Errors slice is valid.
func (client *Client) ParseJQL(ctx context.Context, queries []string, validateOnly bool) ([]ParsedJQL, error) {
	body := map[string]any{
		"queries":      queries,
		"validateOnly": validateOnly,
	}

	var response struct {
		Queries []ParsedJQL `json:"queries"`
	}
	if err := client.post(ctx, apiPath("/jql/parse"), body, &response); err != nil {
		return nil, fmt.Errorf("parsing JQL queries: %w", err)
	}
	return response.Queries, nil
}

// SanitizeJQL rewrites JQL queries so they can be shared with a user
// (identified by accountID, or anonymous when empty) without leaking names
// of projects and fields that user cannot see.
func (client *Client) SanitizeJQL(ctx context.Context, queries []string, accountID string) ([]SanitizedJQL, error) {
	wireQueries := make([]map[string]string, 0, len(queries))
	for _, query := range queries {
		wireQuery := map[string]string{"query": query}
		if accountID != "" {
			wireQuery["accountId"] = accountID
		}
		wireQueries = append(wireQueries, wireQuery)
	}
	body := map[string]any{"queries": wireQueries}

	var response struct {
		Queries []SanitizedJQL `json:"queries"`
	}
	if err := client.post(ctx, apiPath("/jql/sanitize"), body, &response); err != nil {
		return nil, fmt.Errorf("sanitizing JQL queries: %w", err)
	}
	return response.Queries, nil
}

// GetAutocompleteData returns the JQL reference data: searchable fields with
// their operators, and JQL functions.
func (client *Client) GetAutocompleteData(ctx context.Context) (*AutocompleteData, error) {
	var data AutocompleteData
	if err := client.get(ctx, apiPath("/jql/autocompletedata"), &data); err != nil {
		return nil, fmt.Errorf("getting JQL autocomplete data: %w", err)
	}
	return &data, nil
}

// GetAutocompleteSuggestions returns value suggestions for a JQL field, for
// example the project names matching a partial value.
func (client *Client) GetAutocompleteSuggestions(ctx context.Context, fieldName, fieldValue string) ([]JQLSuggestion, error) {
	query := url.Values{}
	query.Set("fieldName", fieldName)
	if fieldValue != "" {
		query.Set("fieldValue", fieldValue)
	}

	var response struct {
		Results []JQLSuggestion `json:"results"`
	}
	if err := client.get(ctx, withQuery(apiPath("/jql/autocompletedata/suggestions"), query), &response); err != nil {
		return nil, fmt.Errorf("getting JQL suggestions for %s: %w", fieldName, err)
	}
	return response.Results, nil
}

// FindFields returns one page of the issue fields usable in searches,
// optionally filtered by a text query on the field name.
func (client *Client) FindFields(ctx context.Context, queryText string, options PageOptions) (*Page[Field], error) {
	query := pageQuery(options.StartAt, options.MaxResults)
	if queryText != "" {
		query.Set("query", queryText)
	}

	var page Page[Field]
	if err := client.get(ctx, withQuery(apiPath("/field/search"), query), &page); err != nil {
		return nil, fmt.Errorf("finding fields: %w", err)
	}
	return &page, nil
}
