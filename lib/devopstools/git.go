// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package devopstools

import (
	"context"
	"fmt"
	"strings"

	"github.com/trackdeck/trackdeck/lib/azuredevops"
	"github.com/trackdeck/trackdeck/lib/toolkit"
)

// Git returns the Git repository tools.
func Git(client *azuredevops.Client) []toolkit.Tool {
	return []toolkit.Tool{
		getRepositoriesTool(client),
		getRepositoryTool(client),
		createRepositoryTool(client),
		getBranchesTool(client),
		getCommitsTool(client),
		getPullRequestsTool(client),
		createPullRequestTool(client),
	}
}

func formatRepository(repository *azuredevops.Repository) map[string]any {
	formatted := map[string]any{
		"id":             repository.ID,
		"name":           repository.Name,
		"default_branch": repository.DefaultBranch,
		"size":           repository.Size,
		"remote_url":     repository.RemoteURL,
		"web_url":        repository.WebURL,
	}
	if repository.Project != nil {
		formatted["project"] = repository.Project.Name
	}
	return formatted
}

type getRepositoriesInput struct {
	Project string `json:"project" jsonschema_description:"The name or ID of the project"`
}

func getRepositoriesTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_repositories",
		"Get all Git repositories in a project.",
		func(ctx context.Context, input getRepositoriesInput) (string, error) {
			repositories, err := client.ListRepositories(ctx, input.Project)
			if err != nil {
				return "", err
			}

			formatted := make([]map[string]any, 0, len(repositories))
			for index := range repositories {
				formatted = append(formatted, formatRepository(&repositories[index]))
			}
			return formatJSON(formatted)
		})
}

type getRepositoryInput struct {
	Project    string `json:"project" jsonschema_description:"The name or ID of the project"`
	Repository string `json:"repository" jsonschema_description:"The name or ID of the repository"`
}

func getRepositoryTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_repository",
		"Get details for a specific Git repository.",
		func(ctx context.Context, input getRepositoryInput) (string, error) {
			repository, err := client.GetRepository(ctx, input.Project, input.Repository)
			if err != nil {
				return "", err
			}
			return formatJSON(formatRepository(repository))
		})
}

type createRepositoryInput struct {
	Project string `json:"project" jsonschema_description:"The name or ID of the project"`
	Name    string `json:"name" jsonschema_description:"The name of the new repository"`
}

func createRepositoryTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("create_repository",
		"Create a new Git repository in a project.",
		func(ctx context.Context, input createRepositoryInput) (string, error) {
			repository, err := client.CreateRepository(ctx, input.Project, input.Name)
			if err != nil {
				return "", err
			}
			return formatJSON(map[string]any{
				"id":         repository.ID,
				"name":       repository.Name,
				"remote_url": repository.RemoteURL,
				"web_url":    repository.WebURL,
			})
		})
}

type getBranchesInput struct {
	Project    string `json:"project" jsonschema_description:"The name or ID of the project"`
	Repository string `json:"repository" jsonschema_description:"The name or ID of the repository"`
	Filter     string `json:"filter,omitempty" jsonschema_description:"Only return branches whose name contains this text"`
}

func getBranchesTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_branches",
		"Get the branches of a repository with their divergence from the default branch.",
		func(ctx context.Context, input getBranchesInput) (string, error) {
			branches, err := client.ListBranches(ctx, input.Project, input.Repository)
			if err != nil {
				return "", err
			}

			formatted := make([]map[string]any, 0, len(branches))
			for _, branch := range branches {
				if input.Filter != "" && !strings.Contains(branch.Name, input.Filter) {
					continue
				}
				entry := map[string]any{
					"name":            branch.Name,
					"ahead_count":     branch.AheadCount,
					"behind_count":    branch.BehindCount,
					"is_base_version": branch.IsBaseVersion,
				}
				if branch.Commit != nil {
					entry["commit_id"] = branch.Commit.CommitID
				}
				formatted = append(formatted, entry)
			}
			return formatJSON(formatted)
		})
}

type getCommitsInput struct {
	Project    string `json:"project" jsonschema_description:"The name or ID of the project"`
	Repository string `json:"repository" jsonschema_description:"The name or ID of the repository"`
	Branch     string `json:"branch,omitempty" jsonschema_description:"The branch to read commits from. Defaults to the default branch"`
	Top        int    `json:"top,omitempty" jsonschema_description:"Maximum number of commits to return. Defaults to 20"`
}

func getCommitsTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_commits",
		"Get recent commits from a repository branch.",
		func(ctx context.Context, input getCommitsInput) (string, error) {
			top := input.Top
			if top == 0 {
				top = 20
			}
			commits, err := client.ListCommits(ctx, input.Project, input.Repository, azuredevops.CommitOptions{
				Branch: input.Branch,
				Top:    top,
			})
			if err != nil {
				return "", err
			}

			formatted := make([]map[string]any, 0, len(commits))
			for _, commit := range commits {
				entry := map[string]any{
					"commit_id": commit.CommitID,
					"comment":   commit.Comment,
					"url":       commit.RemoteURL,
				}
				if commit.Author != nil {
					entry["author"] = map[string]any{
						"name":  commit.Author.Name,
						"email": commit.Author.Email,
						"date":  commit.Author.Date,
					}
				}
				formatted = append(formatted, entry)
			}
			return formatJSON(formatted)
		})
}

func formatPullRequest(pullRequest *azuredevops.PullRequest) map[string]any {
	return map[string]any{
		"id":            pullRequest.PullRequestID,
		"title":         pullRequest.Title,
		"description":   pullRequest.Description,
		"status":        pullRequest.Status,
		"created_by":    identityName(pullRequest.CreatedBy),
		"creation_date": pullRequest.CreationDate,
		"source_branch": strings.TrimPrefix(pullRequest.SourceRefName, "refs/heads/"),
		"target_branch": strings.TrimPrefix(pullRequest.TargetRefName, "refs/heads/"),
		"is_draft":      pullRequest.IsDraft,
		"url":           pullRequest.URL,
	}
}

type getPullRequestsInput struct {
	Project    string `json:"project" jsonschema_description:"The name or ID of the project"`
	Repository string `json:"repository" jsonschema_description:"The name or ID of the repository"`
	Status     string `json:"status,omitempty" jsonschema_description:"Filter by status: 'active', 'abandoned', 'completed' or 'all'. Defaults to active" jsonschema:"enum=active,enum=abandoned,enum=completed,enum=all"`
}

func getPullRequestsTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_pull_requests",
		"Get the pull requests in a repository, filtered by status.",
		func(ctx context.Context, input getPullRequestsInput) (string, error) {
			pullRequests, err := client.ListPullRequests(ctx, input.Project, input.Repository, input.Status)
			if err != nil {
				return "", err
			}

			formatted := make([]map[string]any, 0, len(pullRequests))
			for index := range pullRequests {
				formatted = append(formatted, formatPullRequest(&pullRequests[index]))
			}
			return formatJSON(formatted)
		})
}

type createPullRequestInput struct {
	Project      string   `json:"project" jsonschema_description:"The name or ID of the project"`
	Repository   string   `json:"repository" jsonschema_description:"The name or ID of the repository"`
	SourceBranch string   `json:"source_branch" jsonschema_description:"The branch with the changes, for example 'feature/login'"`
	TargetBranch string   `json:"target_branch" jsonschema_description:"The branch to merge into, for example 'main'"`
	Title        string   `json:"title" jsonschema_description:"The pull request title"`
	Description  string   `json:"description,omitempty" jsonschema_description:"The pull request description"`
	ReviewerIDs  []string `json:"reviewer_ids,omitempty" jsonschema_description:"Identity IDs to add as reviewers"`
	Draft        bool     `json:"draft,omitempty" jsonschema_description:"Create the pull request as a draft"`
}

func createPullRequestTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("create_pull_request",
		"Create a pull request from one branch to another.",
		func(ctx context.Context, input createPullRequestInput) (string, error) {
			pullRequest, err := client.CreatePullRequest(ctx, input.Project, input.Repository, azuredevops.CreatePullRequestRequest{
				SourceBranch: input.SourceBranch,
				TargetBranch: input.TargetBranch,
				Title:        input.Title,
				Description:  input.Description,
				ReviewerIDs:  input.ReviewerIDs,
				Draft:        input.Draft,
			})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Pull request %d created: %s", pullRequest.PullRequestID, pullRequest.Title), nil
		})
}
