// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package jira

import (
	"context"
	"fmt"
)

// ListComments returns one page of an issue's comments, oldest first.
func (client *Client) ListComments(ctx context.Context, key string, options PageOptions) (*CommentPage, error) {
	query := pageQuery(options.StartAt, options.MaxResults)

	var page CommentPage
	if err := client.get(ctx, withQuery(apiPath("/issue/"+key+"/comment"), query), &page); err != nil {
		return nil, fmt.Errorf("listing comments for %s: %w", key, err)
	}
	return &page, nil
}

// AddComment adds a plain text comment to an issue.
func (client *Client) AddComment(ctx context.Context, key, text string) (*Comment, error) {
	body := map[string]any{"body": TextDocument(text)}

	var comment Comment
	if err := client.post(ctx, apiPath("/issue/"+key+"/comment"), body, &comment); err != nil {
		return nil, fmt.Errorf("adding comment to %s: %w", key, err)
	}
	return &comment, nil
}

// GetComment fetches a single comment on an issue.
func (client *Client) GetComment(ctx context.Context, key, commentID string) (*Comment, error) {
	var comment Comment
	if err := client.get(ctx, apiPath("/issue/"+key+"/comment/"+commentID), &comment); err != nil {
		return nil, fmt.Errorf("getting comment %s on %s: %w", commentID, key, err)
	}
	return &comment, nil
}

// UpdateComment replaces a comment's body with new plain text.
func (client *Client) UpdateComment(ctx context.Context, key, commentID, text string) (*Comment, error) {
	body := map[string]any{"body": TextDocument(text)}

	var comment Comment
	if err := client.put(ctx, apiPath("/issue/"+key+"/comment/"+commentID), body, &comment); err != nil {
		return nil, fmt.Errorf("updating comment %s on %s: %w", commentID, key, err)
	}
	return &comment, nil
}

// DeleteComment deletes a comment from an issue.
func (client *Client) DeleteComment(ctx context.Context, key, commentID string) error {
	if err := client.delete(ctx, apiPath("/issue/"+key+"/comment/"+commentID)); err != nil {
		return fmt.Errorf("deleting comment %s on %s: %w", commentID, key, err)
	}
	return nil
}
