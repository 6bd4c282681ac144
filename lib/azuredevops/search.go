// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package azuredevops

import (
	"context"
	"fmt"
)

// defaultSearchPageSize caps search results when the caller does not
// set one; the service rejects requests without a positive $top.
const defaultSearchPageSize = 100

// SearchCode searches code across the organization, or within one
// project when project is non-empty.
func (client *Client) SearchCode(ctx context.Context, project string, request SearchRequest) (*CodeSearchResults, error) {
	var results CodeSearchResults
	if err := client.searchResults(ctx, project, "codesearchresults", request, &results); err != nil {
		return nil, fmt.Errorf("searching code: %w", err)
	}
	return &results, nil
}

// SearchWorkItems searches work items across the organization, or
// within one project when project is non-empty. Filters use field
// reference names such as "System.WorkItemType".
func (client *Client) SearchWorkItems(ctx context.Context, project string, request SearchRequest) (*WorkItemSearchResults, error) {
	var results WorkItemSearchResults
	if err := client.searchResults(ctx, project, "workitemsearchresults", request, &results); err != nil {
		return nil, fmt.Errorf("searching work items: %w", err)
	}
	return &results, nil
}

// SearchWiki searches wiki pages across the organization, or within
// one project when project is non-empty.
func (client *Client) SearchWiki(ctx context.Context, project string, request SearchRequest) (*WikiSearchResults, error) {
	var results WikiSearchResults
	if err := client.searchResults(ctx, project, "wikisearchresults", request, &results); err != nil {
		return nil, fmt.Errorf("searching wiki: %w", err)
	}
	return &results, nil
}

// searchResults posts a search request to the almsearch host,
// optionally scoped to a project.
func (client *Client) searchResults(ctx context.Context, project, endpoint string, request SearchRequest, result any) error {
	if request.SearchText == "" {
		return fmt.Errorf("azuredevops: search text is required")
	}
	if request.Top <= 0 {
		request.Top = defaultSearchPageSize
	}

	var segments []string
	if project != "" {
		segments = append(segments, project)
	}
	segments = append(segments, "_apis", "search", endpoint)
	return client.post(ctx, restURL(client.searchURL, nil, segments...), request, result)
}
