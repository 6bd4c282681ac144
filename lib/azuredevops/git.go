// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package azuredevops

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ListRepositories returns the Git repositories of a project.
func (client *Client) ListRepositories(ctx context.Context, project string) ([]Repository, error) {
	var envelope listResponse[Repository]
	if err := client.get(ctx, restURL(client.orgURL, nil, project, "_apis", "git", "repositories"), &envelope); err != nil {
		return nil, fmt.Errorf("listing repositories of project %s: %w", project, err)
	}
	return envelope.Value, nil
}

// GetRepository fetches a Git repository by name or ID.
func (client *Client) GetRepository(ctx context.Context, project, repository string) (*Repository, error) {
	var result Repository
	if err := client.get(ctx, restURL(client.orgURL, nil, project, "_apis", "git", "repositories", repository), &result); err != nil {
		return nil, fmt.Errorf("getting repository %s: %w", repository, err)
	}
	return &result, nil
}

// CreateRepository creates an empty Git repository in a project.
func (client *Client) CreateRepository(ctx context.Context, project, name string) (*Repository, error) {
	var created Repository
	if err := client.post(ctx, restURL(client.orgURL, nil, project, "_apis", "git", "repositories"), map[string]string{"name": name}, &created); err != nil {
		return nil, fmt.Errorf("creating repository %s in project %s: %w", name, project, err)
	}
	return &created, nil
}

// ListBranches returns branch statistics for a repository, each branch
// with its divergence from the default branch.
func (client *Client) ListBranches(ctx context.Context, project, repository string) ([]BranchStats, error) {
	var envelope listResponse[BranchStats]
	if err := client.get(ctx, restURL(client.orgURL, nil, project, "_apis", "git", "repositories", repository, "stats", "branches"), &envelope); err != nil {
		return nil, fmt.Errorf("listing branches of repository %s: %w", repository, err)
	}
	return envelope.Value, nil
}

// CommitOptions control commit listing.
type CommitOptions struct {
	// Branch restricts results to one branch. Empty uses the default
	// branch.
	Branch string

	// Top caps the number of commits returned. Zero uses the server
	// default.
	Top int
}

// ListCommits returns the most recent commits of a repository, newest
// first.
func (client *Client) ListCommits(ctx context.Context, project, repository string, options CommitOptions) ([]Commit, error) {
	query := url.Values{}
	if options.Branch != "" {
		query.Set("searchCriteria.itemVersion.version", options.Branch)
	}
	if options.Top > 0 {
		query.Set("searchCriteria.$top", strconv.Itoa(options.Top))
	}

	var envelope listResponse[Commit]
	if err := client.get(ctx, restURL(client.orgURL, query, project, "_apis", "git", "repositories", repository, "commits"), &envelope); err != nil {
		return nil, fmt.Errorf("listing commits of repository %s: %w", repository, err)
	}
	return envelope.Value, nil
}

// pullRequestStatuses are the status filters the pull request listing
// accepts.
var pullRequestStatuses = map[string]bool{
	"active":    true,
	"abandoned": true,
	"completed": true,
	"all":       true,
}

// ListPullRequests returns a repository's pull requests filtered by
// status ("active", "abandoned", "completed", or "all"). An empty
// status lists active pull requests.
func (client *Client) ListPullRequests(ctx context.Context, project, repository, status string) ([]PullRequest, error) {
	if status == "" {
		status = "active"
	}
	if !pullRequestStatuses[status] {
		return nil, fmt.Errorf("azuredevops: invalid pull request status %q, must be one of 'active', 'abandoned', 'completed', or 'all'", status)
	}

	query := url.Values{}
	query.Set("searchCriteria.status", status)

	var envelope listResponse[PullRequest]
	if err := client.get(ctx, restURL(client.orgURL, query, project, "_apis", "git", "repositories", repository, "pullrequests"), &envelope); err != nil {
		return nil, fmt.Errorf("listing pull requests of repository %s: %w", repository, err)
	}
	return envelope.Value, nil
}

// CreatePullRequest opens a pull request. Source and target branches
// may be given as plain names; they are normalized to refs/heads/
// form.
func (client *Client) CreatePullRequest(ctx context.Context, project, repository string, request CreatePullRequestRequest) (*PullRequest, error) {
	if request.SourceBranch == "" || request.TargetBranch == "" {
		return nil, fmt.Errorf("azuredevops: creating pull request: source and target branches are required")
	}
	if request.Title == "" {
		return nil, fmt.Errorf("azuredevops: creating pull request: Title is required")
	}

	reviewers := make([]map[string]string, 0, len(request.ReviewerIDs))
	for _, id := range request.ReviewerIDs {
		reviewers = append(reviewers, map[string]string{"id": id})
	}
	requestBody := map[string]any{
		"sourceRefName": branchRef(request.SourceBranch),
		"targetRefName": branchRef(request.TargetBranch),
		"title":         request.Title,
		"description":   request.Description,
		"isDraft":       request.Draft,
	}
	if len(reviewers) > 0 {
		requestBody["reviewers"] = reviewers
	}

	var created PullRequest
	if err := client.post(ctx, restURL(client.orgURL, nil, project, "_apis", "git", "repositories", repository, "pullrequests"), requestBody, &created); err != nil {
		return nil, fmt.Errorf("creating pull request in repository %s: %w", repository, err)
	}
	return &created, nil
}

// branchRef normalizes a branch name to refs/heads/ form.
func branchRef(branch string) string {
	if strings.HasPrefix(branch, "refs/") {
		return branch
	}
	return "refs/heads/" + branch
}
