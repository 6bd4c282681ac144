// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package jira

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// searchFields is the field set fetched per issue by SearchIssues.
var searchFields = []string{"key", "summary", "status", "assignee", "priority", "issuetype"}

// SearchIssues runs a JQL query and returns one page of matching issues with
// a summary field set. A maxResults of 0 requests the server default.
func (client *Client) SearchIssues(ctx context.Context, jql string, maxResults int) (*SearchResult, error) {
	body := map[string]any{
		"jql":    jql,
		"fields": searchFields,
	}
	if maxResults > 0 {
		body["maxResults"] = maxResults
	}

	var result SearchResult
	if err := client.post(ctx, apiPath("/search"), body, &result); err != nil {
		return nil, fmt.Errorf("searching issues: %w", err)
	}
	return &result, nil
}

// MatchIssues checks the given issues against one or more JQL queries and
// returns, per query, the IDs of the issues that matched. At least one of
// issueIDs or issueKeys must be provided.
func (client *Client) MatchIssues(ctx context.Context, jqls []string, issueIDs []int64, issueKeys []string) ([]JQLMatch, error) {
	if len(issueIDs) == 0 && len(issueKeys) == 0 {
		return nil, fmt.Errorf("jira: matching issues: either issue IDs or issue keys must be provided")
	}

	body := map[string]any{"jqls": jqls}
	if len(issueIDs) > 0 {
		body["issueIds"] = issueIDs
	}
	if len(issueKeys) > 0 {
		body["issueKeys"] = issueKeys
	}

	var response struct {
		Matches []JQLMatch `json:"matches"`
	}
	if err := client.post(ctx, apiPath("/jql/match"), body, &response); err != nil {
		return nil, fmt.Errorf("matching issues: %w", err)
	}
	return response.Matches, nil
}

// PickerOptions narrows issue picker suggestions to a project or issue
// context.
type PickerOptions struct {
	CurrentProjectID  string
	CurrentIssueKey   string
	ShowSubTasks      bool
	ShowSubTaskParent bool
}

// GetIssuePicker returns issue suggestions for a free text query, grouped in
// sections the way the JIRA issue picker presents them.
func (client *Client) GetIssuePicker(ctx context.Context, queryText string, options PickerOptions) ([]PickerSection, error) {
	query := url.Values{}
	query.Set("query", queryText)
	query.Set("showSubTasks", strconv.FormatBool(options.ShowSubTasks))
	query.Set("showSubTaskParent", strconv.FormatBool(options.ShowSubTaskParent))
	if options.CurrentProjectID != "" {
		query.Set("currentProjectId", options.CurrentProjectID)
	}
	if options.CurrentIssueKey != "" {
		query.Set("currentIssueKey", options.CurrentIssueKey)
	}

	var response struct {
		Sections []PickerSection `json:"sections"`
	}
	if err := client.get(ctx, withQuery(apiPath("/issue/picker"), query), &response); err != nil {
		return nil, fmt.Errorf("getting issue picker suggestions: %w", err)
	}
	return response.Sections, nil
}

// CountIssues returns the number of issues matching a JQL query without
// fetching the issues themselves.
func (client *Client) CountIssues(ctx context.Context, jql string) (int64, error) {
	body := map[string]string{"jql": jql}
	var response struct {
		IssueCount int64 `json:"issueCount"`
	}
	if err := client.post(ctx, apiPath("/issue/jqlCountForFilter"), body, &response); err != nil {
		return 0, fmt.Errorf("counting issues: %w", err)
	}
	return response.IssueCount, nil
}
