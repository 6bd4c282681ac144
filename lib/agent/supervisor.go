// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/trackdeck/trackdeck/lib/clock"
	"github.com/trackdeck/trackdeck/lib/jira"
	"github.com/trackdeck/trackdeck/lib/jiratools"
	"github.com/trackdeck/trackdeck/lib/llm"
	"github.com/trackdeck/trackdeck/lib/toolkit"
)

// SupervisorConfig pins the model serving the specialist
// sub-assistants. The supervising turns themselves run on whatever
// model the request selects; delegated work always uses this one.
type SupervisorConfig struct {
	// Provider serves the sub-assistant model calls.
	Provider llm.Provider

	// Model is the provider's model identifier for sub-assistants.
	Model string

	// Clock supplies prompt dates. Nil uses the real clock.
	Clock clock.Clock

	// Logger receives sub-assistant diagnostics. Nil discards them.
	Logger *slog.Logger
}

// NewJIRASupervisor builds the supervisor assistant: a coordinating
// model holding one transfer tool per JIRA specialist. Delegation runs
// the specialist to completion on the handed-over task and returns its
// final answer; specialist tokens are never streamed to the client.
func NewJIRASupervisor(client *jira.Client, cfg SupervisorConfig) *Assistant {
	specialists := []*Assistant{
		subAssistant("issue_agent", issueAgentInstructions, cfg, slices.Concat(
			jiratools.Issues(client), jiratools.Comments(client))),
		subAssistant("sprint_agent", sprintAgentInstructions, cfg, slices.Concat(
			jiratools.Sprints(client), jiratools.Boards(client))),
		subAssistant("project_agent", projectAgentInstructions, cfg, slices.Concat(
			jiratools.Projects(client), jiratools.Boards(client))),
		subAssistant("search_agent", searchAgentInstructions, cfg, slices.Concat(
			jiratools.Search(client), jiratools.JQL(client))),
		subAssistant("backlog_agent", backlogAgentInstructions, cfg, jiratools.Backlog(client)),
		subAssistant("issue_type_agent", issueTypeAgentInstructions, cfg, jiratools.IssueTypes(client)),
		subAssistant("worklog_agent", worklogAgentInstructions, cfg, jiratools.Worklogs(client)),
		subAssistant("permissions_agent", permissionsAgentInstructions, cfg, jiratools.Permissions(client)),
		subAssistant("user_agent", userAgentInstructions, cfg, jiratools.Users(client)),
	}

	transfers := make([]toolkit.Tool, len(specialists))
	for i, specialist := range specialists {
		transfers[i] = transferTool(specialist, cfg)
	}

	return &Assistant{
		Key:          KeyJIRASupervisor,
		Description:  "A JIRA supervisor that delegates work to specialized JIRA expert agents.",
		Instructions: supervisorInstructions,
		Tools:        toolkit.NewSet(transfers...),
		Clock:        cfg.Clock,
		Logger:       cfg.Logger,
	}
}

func subAssistant(key string, instructions func(now time.Time) string, cfg SupervisorConfig, tools []toolkit.Tool) *Assistant {
	return &Assistant{
		Key:          key,
		Instructions: instructions,
		Tools:        toolkit.NewSet(tools...),
		Clock:        cfg.Clock,
		Logger:       cfg.Logger,
	}
}

// transferInput is the handoff payload the supervising model fills in.
type transferInput struct {
	Task string `json:"task" jsonschema_description:"The task for the specialist, phrased as a complete request including every identifier (issue keys, board IDs, project keys) it needs."`
}

// transferTool wraps one specialist as a supervisor tool. A failed
// delegation surfaces as an error-flagged tool result so the
// supervisor can recover or report it.
func transferTool(specialist *Assistant, cfg SupervisorConfig) toolkit.Tool {
	return toolkit.New(
		"transfer_to_"+specialist.Key,
		fmt.Sprintf("Ask %s for help.", specialist.Key),
		func(ctx context.Context, input transferInput) (string, error) {
			state := NewState([]llm.Message{llm.UserMessage(input.Task)})
			runConfig := RunConfig{Provider: cfg.Provider, Model: cfg.Model}
			if err := specialist.Run(ctx, runConfig, state, nil); err != nil {
				return "", err
			}
			return finalAssistantText(state.Messages), nil
		})
}

// finalAssistantText returns the text of the last assistant turn.
func finalAssistantText(messages []llm.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role != llm.RoleAssistant {
			continue
		}
		if text := textContent(messages[i]); text != "" {
			return text
		}
	}
	return ""
}
