// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package jira

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// ListWorklogs returns one page of an issue's worklogs.
func (client *Client) ListWorklogs(ctx context.Context, key string, options PageOptions) (*WorklogPage, error) {
	query := pageQuery(options.StartAt, options.MaxResults)

	var page WorklogPage
	if err := client.get(ctx, withQuery(apiPath("/issue/"+key+"/worklog"), query), &page); err != nil {
		return nil, fmt.Errorf("listing worklogs for %s: %w", key, err)
	}
	return &page, nil
}

// AddWorklog records time spent on an issue.
func (client *Client) AddWorklog(ctx context.Context, key string, request WorklogRequest) (*Worklog, error) {
	if request.TimeSpent == "" && request.TimeSpentSeconds == 0 {
		return nil, fmt.Errorf("jira: adding worklog to %s: either TimeSpent or TimeSpentSeconds must be set", key)
	}

	var worklog Worklog
	if err := client.post(ctx, apiPath("/issue/"+key+"/worklog"), request, &worklog); err != nil {
		return nil, fmt.Errorf("adding worklog to %s: %w", key, err)
	}
	return &worklog, nil
}

// GetWorklog fetches a single worklog entry on an issue.
func (client *Client) GetWorklog(ctx context.Context, key, worklogID string) (*Worklog, error) {
	var worklog Worklog
	if err := client.get(ctx, apiPath("/issue/"+key+"/worklog/"+worklogID), &worklog); err != nil {
		return nil, fmt.Errorf("getting worklog %s on %s: %w", worklogID, key, err)
	}
	return &worklog, nil
}

// UpdateWorklog replaces the time and comment of a worklog entry.
func (client *Client) UpdateWorklog(ctx context.Context, key, worklogID string, request WorklogRequest) (*Worklog, error) {
	var worklog Worklog
	if err := client.put(ctx, apiPath("/issue/"+key+"/worklog/"+worklogID), request, &worklog); err != nil {
		return nil, fmt.Errorf("updating worklog %s on %s: %w", worklogID, key, err)
	}
	return &worklog, nil
}

// DeleteWorklog deletes a worklog entry from an issue.
func (client *Client) DeleteWorklog(ctx context.Context, key, worklogID string) error {
	if err := client.delete(ctx, apiPath("/issue/"+key+"/worklog/"+worklogID)); err != nil {
		return fmt.Errorf("deleting worklog %s on %s: %w", worklogID, key, err)
	}
	return nil
}

// ListDeletedWorklogs returns worklogs deleted since the given Unix
// millisecond timestamp, for incremental synchronization. Pass the returned
// Until value back as since while LastPage is false.
func (client *Client) ListDeletedWorklogs(ctx context.Context, since int64) (*WorklogChangeList, error) {
	query := url.Values{}
	if since > 0 {
		query.Set("since", strconv.FormatInt(since, 10))
	}

	var list WorklogChangeList
	if err := client.get(ctx, withQuery(apiPath("/worklog/deleted"), query), &list); err != nil {
		return nil, fmt.Errorf("listing deleted worklogs: %w", err)
	}
	return &list, nil
}

// ListUpdatedWorklogs returns worklogs created or updated since the given
// Unix millisecond timestamp, for incremental synchronization.
func (client *Client) ListUpdatedWorklogs(ctx context.Context, since int64) (*WorklogChangeList, error) {
	query := url.Values{}
	if since > 0 {
		query.Set("since", strconv.FormatInt(since, 10))
	}

	var list WorklogChangeList
	if err := client.get(ctx, withQuery(apiPath("/worklog/updated"), query), &list); err != nil {
		return nil, fmt.Errorf("listing updated worklogs: %w", err)
	}
	return &list, nil
}
