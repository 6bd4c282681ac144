// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package jira

import (
	"context"
	"fmt"
	"net/url"
)

// ListIssueTypes lists all issue types visible to the authenticated user.
func (client *Client) ListIssueTypes(ctx context.Context) ([]IssueType, error) {
	var issueTypes []IssueType
	if err := client.get(ctx, apiPath("/issuetype"), &issueTypes); err != nil {
		return nil, fmt.Errorf("listing issue types: %w", err)
	}
	return issueTypes, nil
}

// GetIssueType fetches a single issue type.
func (client *Client) GetIssueType(ctx context.Context, issueTypeID string) (*IssueType, error) {
	var issueType IssueType
	if err := client.get(ctx, apiPath("/issuetype/"+issueTypeID), &issueType); err != nil {
		return nil, fmt.Errorf("getting issue type %s: %w", issueTypeID, err)
	}
	return &issueType, nil
}

// CreateIssueType creates an issue type. The request type defaults to
// "standard" on the server.
func (client *Client) CreateIssueType(ctx context.Context, request CreateIssueTypeRequest) (*IssueType, error) {
	var issueType IssueType
	if err := client.post(ctx, apiPath("/issuetype"), request, &issueType); err != nil {
		return nil, fmt.Errorf("creating issue type %q: %w", request.Name, err)
	}
	return &issueType, nil
}

// UpdateIssueType applies a partial update to an issue type.
func (client *Client) UpdateIssueType(ctx context.Context, issueTypeID string, update IssueTypeUpdate) (*IssueType, error) {
	var issueType IssueType
	if err := client.put(ctx, apiPath("/issuetype/"+issueTypeID), update, &issueType); err != nil {
		return nil, fmt.Errorf("updating issue type %s: %w", issueTypeID, err)
	}
	return &issueType, nil
}

// DeleteIssueType deletes an issue type. If alternativeID is non-empty,
// issues of the deleted type are migrated to that type.
func (client *Client) DeleteIssueType(ctx context.Context, issueTypeID, alternativeID string) error {
	path := apiPath("/issuetype/" + issueTypeID)
	if alternativeID != "" {
		query := url.Values{}
		query.Set("alternativeIssueTypeId", alternativeID)
		path = withQuery(path, query)
	}
	if err := client.delete(ctx, path); err != nil {
		return fmt.Errorf("deleting issue type %s: %w", issueTypeID, err)
	}
	return nil
}

// ListIssueTypeAlternatives lists the issue types that issues can be
// migrated to when the given type is deleted.
func (client *Client) ListIssueTypeAlternatives(ctx context.Context, issueTypeID string) ([]IssueType, error) {
	var issueTypes []IssueType
	if err := client.get(ctx, apiPath("/issuetype/"+issueTypeID+"/alternatives"), &issueTypes); err != nil {
		return nil, fmt.Errorf("listing alternatives for issue type %s: %w", issueTypeID, err)
	}
	return issueTypes, nil
}

// ListIssueTypeSchemes returns one page of the issue type schemes defined on
// the site.
func (client *Client) ListIssueTypeSchemes(ctx context.Context, options PageOptions) (*Page[IssueTypeScheme], error) {
	query := pageQuery(options.StartAt, options.MaxResults)

	var page Page[IssueTypeScheme]
	if err := client.get(ctx, withQuery(apiPath("/issuetypescheme"), query), &page); err != nil {
		return nil, fmt.Errorf("listing issue type schemes: %w", err)
	}
	return &page, nil
}

// GetCreateMetaIssueTypes returns one page of the issue types available when
// creating issues in a project.
func (client *Client) GetCreateMetaIssueTypes(ctx context.Context, projectKeyOrID string, options PageOptions) ([]IssueType, error) {
	query := pageQuery(options.StartAt, options.MaxResults)

	var response struct {
		IssueTypes []IssueType `json:"issueTypes"`
	}
	path := apiPath("/issue/createmeta/" + projectKeyOrID + "/issuetypes")
	if err := client.get(ctx, withQuery(path, query), &response); err != nil {
		return nil, fmt.Errorf("getting create metadata for project %s: %w", projectKeyOrID, err)
	}
	return response.IssueTypes, nil
}

// GetCreateMetaFields returns the fields available when creating an issue of
// the given type in a project, required fields included.
func (client *Client) GetCreateMetaFields(ctx context.Context, projectKeyOrID, issueTypeID string, options PageOptions) ([]FieldMeta, error) {
	query := pageQuery(options.StartAt, options.MaxResults)

	var response struct {
		Fields []FieldMeta `json:"fields"`
	}
	path := apiPath("/issue/createmeta/" + projectKeyOrID + "/issuetypes/" + issueTypeID)
	if err := client.get(ctx, withQuery(path, query), &response); err != nil {
		return nil, fmt.Errorf("getting create metadata fields for project %s issue type %s: %w", projectKeyOrID, issueTypeID, err)
	}
	return response.Fields, nil
}
