// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package jira

import (
	"context"
	"fmt"
	"net/url"
)

// issueFields is the default field set fetched for a single issue.
const issueFields = "summary,description,status,assignee,priority,issuetype,created,updated"

// GetIssue fetches a single issue by key with the standard field set.
func (client *Client) GetIssue(ctx context.Context, key string) (*Issue, error) {
	query := url.Values{}
	query.Set("fields", issueFields)

	var issue Issue
	if err := client.get(ctx, withQuery(apiPath("/issue/"+key), query), &issue); err != nil {
		return nil, fmt.Errorf("getting issue %s: %w", key, err)
	}
	return &issue, nil
}

// CreateIssue creates an issue and returns its identifiers.
func (client *Client) CreateIssue(ctx context.Context, request CreateIssueRequest) (*IssueRef, error) {
	issueType := request.IssueType
	if issueType == "" {
		issueType = "Task"
	}

	fields := map[string]any{
		"project":   map[string]string{"key": request.ProjectKey},
		"summary":   request.Summary,
		"issuetype": map[string]string{"name": issueType},
	}
	if request.Description != "" {
		fields["description"] = TextDocument(request.Description)
	}

	var created IssueRef
	body := map[string]any{"fields": fields}
	if err := client.post(ctx, apiPath("/issue"), body, &created); err != nil {
		return nil, fmt.Errorf("creating issue in %s: %w", request.ProjectKey, err)
	}
	return &created, nil
}

// UpdateIssue applies a partial update to an issue. At least one field must
// be set.
func (client *Client) UpdateIssue(ctx context.Context, key string, update IssueUpdate) error {
	fields := map[string]any{}
	if update.Summary != nil {
		fields["summary"] = *update.Summary
	}
	if update.Description != nil {
		fields["description"] = TextDocument(*update.Description)
	}
	for field, value := range update.Extra {
		fields[field] = value
	}
	if len(fields) == 0 {
		return fmt.Errorf("jira: updating issue %s: no fields to update", key)
	}

	body := map[string]any{"fields": fields}
	if err := client.put(ctx, apiPath("/issue/"+key), body, nil); err != nil {
		return fmt.Errorf("updating issue %s: %w", key, err)
	}
	return nil
}

// DeleteIssue permanently deletes an issue.
func (client *Client) DeleteIssue(ctx context.Context, key string) error {
	if err := client.delete(ctx, apiPath("/issue/"+key)); err != nil {
		return fmt.Errorf("deleting issue %s: %w", key, err)
	}
	return nil
}

// AssignIssue assigns an issue to the account with the given ID. An empty
// accountID unassigns the issue.
func (client *Client) AssignIssue(ctx context.Context, key, accountID string) error {
	var body struct {
		AccountID *string `json:"accountId"`
	}
	if accountID != "" {
		body.AccountID = &accountID
	}
	if err := client.put(ctx, apiPath("/issue/"+key+"/assignee"), body, nil); err != nil {
		return fmt.Errorf("assigning issue %s: %w", key, err)
	}
	return nil
}

// GetTransitions lists the workflow transitions currently available on an
// issue.
func (client *Client) GetTransitions(ctx context.Context, key string) ([]Transition, error) {
	var response struct {
		Transitions []Transition `json:"transitions"`
	}
	if err := client.get(ctx, apiPath("/issue/"+key+"/transitions"), &response); err != nil {
		return nil, fmt.Errorf("getting transitions for %s: %w", key, err)
	}
	return response.Transitions, nil
}

// TransitionIssue moves an issue through the workflow transition with the
// given ID, optionally adding a comment in the same operation.
func (client *Client) TransitionIssue(ctx context.Context, key, transitionID, comment string) error {
	body := map[string]any{
		"transition": map[string]string{"id": transitionID},
	}
	if comment != "" {
		body["update"] = map[string]any{
			"comment": []map[string]any{
				{"add": map[string]any{"body": TextDocument(comment)}},
			},
		}
	}
	if err := client.post(ctx, apiPath("/issue/"+key+"/transitions"), body, nil); err != nil {
		return fmt.Errorf("transitioning issue %s: %w", key, err)
	}
	return nil
}

// GetEditMeta returns the editable fields of an issue, keyed by field ID.
func (client *Client) GetEditMeta(ctx context.Context, key string) (map[string]FieldMeta, error) {
	var response struct {
		Fields map[string]FieldMeta `json:"fields"`
	}
	if err := client.get(ctx, apiPath("/issue/"+key+"/editmeta"), &response); err != nil {
		return nil, fmt.Errorf("getting edit metadata for %s: %w", key, err)
	}
	return response.Fields, nil
}

// GetChangelog returns one page of an issue's change history.
func (client *Client) GetChangelog(ctx context.Context, key string, options PageOptions) (*Page[Changelog], error) {
	query := pageQuery(options.StartAt, options.MaxResults)

	var page Page[Changelog]
	if err := client.get(ctx, withQuery(apiPath("/issue/"+key+"/changelog"), query), &page); err != nil {
		return nil, fmt.Errorf("getting changelog for %s: %w", key, err)
	}
	return &page, nil
}

// ArchiveIssues archives the given issues and returns the number of issues
// actually archived.
func (client *Client) ArchiveIssues(ctx context.Context, keys []string) (int64, error) {
	body := map[string][]string{"issueKeys": keys}
	var response struct {
		NumberOfIssuesUpdated int64 `json:"numberOfIssuesUpdated"`
	}
	if err := client.put(ctx, apiPath("/issue/archive"), body, &response); err != nil {
		return 0, fmt.Errorf("archiving issues: %w", err)
	}
	return response.NumberOfIssuesUpdated, nil
}

// UnarchiveIssues restores previously archived issues and returns the number
// of issues actually restored.
func (client *Client) UnarchiveIssues(ctx context.Context, keys []string) (int64, error) {
	body := map[string][]string{"issueKeys": keys}
	var response struct {
		NumberOfIssuesUpdated int64 `json:"numberOfIssuesUpdated"`
	}
	if err := client.put(ctx, apiPath("/issue/unarchive"), body, &response); err != nil {
		return 0, fmt.Errorf("unarchiving issues: %w", err)
	}
	return response.NumberOfIssuesUpdated, nil
}

// GetEvents lists the issue event types defined on the site.
func (client *Client) GetEvents(ctx context.Context) ([]IssueEvent, error) {
	var events []IssueEvent
	if err := client.get(ctx, apiPath("/events"), &events); err != nil {
		return nil, fmt.Errorf("getting issue events: %w", err)
	}
	return events, nil
}
