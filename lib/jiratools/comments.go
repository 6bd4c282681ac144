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

// Comments returns the issue comment tools.
func Comments(client *jira.Client) []toolkit.Tool {
	return []toolkit.Tool{
		getCommentsTool(client),
		addCommentTool(client),
		getCommentTool(client),
		updateCommentTool(client),
		deleteCommentTool(client),
	}
}

type getCommentsInput struct {
	IssueKey   string `json:"issue_key" jsonschema_description:"The issue key, e.g. PROJ-123"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"minimum=1,maximum=100" jsonschema_description:"Maximum number of comments to return. Defaults to 50"`
}

func getCommentsTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_comments",
		"List the comments on a JIRA issue, oldest first.",
		func(ctx context.Context, input getCommentsInput) (string, error) {
			page, err := client.ListComments(ctx, input.IssueKey, jira.PageOptions{MaxResults: input.MaxResults})
			if err != nil {
				return "", err
			}
			if len(page.Comments) == 0 {
				return fmt.Sprintf("No comments on issue %s", input.IssueKey), nil
			}
			var builder strings.Builder
			fmt.Fprintf(&builder, "Found %d of %d comments on %s:\n\n",
				len(page.Comments), page.Total, input.IssueKey)
			for _, comment := range page.Comments {
				fmt.Fprintf(&builder, "- [%s] %s at %s: %s\n",
					comment.ID, userName(comment.Author), comment.Created, comment.Body.PlainText())
			}
			return builder.String(), nil
		})
}

type addCommentInput struct {
	IssueKey string `json:"issue_key" jsonschema_description:"The issue key, e.g. PROJ-123"`
	Comment  string `json:"comment" jsonschema_description:"Plain text comment body"`
}

func addCommentTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("add_comment",
		"Add a comment to a JIRA issue.",
		func(ctx context.Context, input addCommentInput) (string, error) {
			comment, err := client.AddComment(ctx, input.IssueKey, input.Comment)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully added comment %s to issue %s", comment.ID, input.IssueKey), nil
		})
}

type getCommentInput struct {
	IssueKey  string `json:"issue_key" jsonschema_description:"The issue key, e.g. PROJ-123"`
	CommentID string `json:"comment_id" jsonschema_description:"ID of the comment"`
}

func getCommentTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("get_comment",
		"Get a single comment on a JIRA issue by its ID.",
		func(ctx context.Context, input getCommentInput) (string, error) {
			comment, err := client.GetComment(ctx, input.IssueKey, input.CommentID)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Comment %s by %s at %s:\n%s",
				comment.ID, userName(comment.Author), comment.Created, comment.Body.PlainText()), nil
		})
}

type updateCommentInput struct {
	IssueKey  string `json:"issue_key" jsonschema_description:"The issue key, e.g. PROJ-123"`
	CommentID string `json:"comment_id" jsonschema_description:"ID of the comment to update"`
	Comment   string `json:"comment" jsonschema_description:"New plain text comment body"`
}

func updateCommentTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("update_comment",
		"Replace the body of an existing comment on a JIRA issue.",
		func(ctx context.Context, input updateCommentInput) (string, error) {
			comment, err := client.UpdateComment(ctx, input.IssueKey, input.CommentID, input.Comment)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully updated comment %s on issue %s", comment.ID, input.IssueKey), nil
		})
}

type deleteCommentInput struct {
	IssueKey  string `json:"issue_key" jsonschema_description:"The issue key, e.g. PROJ-123"`
	CommentID string `json:"comment_id" jsonschema_description:"ID of the comment to delete"`
}

func deleteCommentTool(client *jira.Client) toolkit.Tool {
	return toolkit.New("delete_comment",
		"Delete a comment from a JIRA issue.",
		func(ctx context.Context, input deleteCommentInput) (string, error) {
			if err := client.DeleteComment(ctx, input.IssueKey, input.CommentID); err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully deleted comment %s from issue %s", input.CommentID, input.IssueKey), nil
		})
}
