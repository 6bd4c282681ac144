// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/trackdeck/trackdeck/lib/clock"
	"github.com/trackdeck/trackdeck/lib/jira"
	"github.com/trackdeck/trackdeck/lib/llm"
)

// newOfflineJIRAClient builds a client whose endpoint is never
// reached; supervisor tests script the model turns so no tool ever
// fires a real request.
func newOfflineJIRAClient(t *testing.T) *jira.Client {
	t.Helper()
	client, err := jira.NewClient(jira.Config{
		BaseURL:  "http://127.0.0.1:9",
		Email:    "bot@example.com",
		APIToken: "token",
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestSupervisorTransferCatalog(t *testing.T) {
	t.Parallel()

	supervisor := NewJIRASupervisor(newOfflineJIRAClient(t), SupervisorConfig{})

	want := []string{
		"transfer_to_issue_agent",
		"transfer_to_sprint_agent",
		"transfer_to_project_agent",
		"transfer_to_search_agent",
		"transfer_to_backlog_agent",
		"transfer_to_issue_type_agent",
		"transfer_to_worklog_agent",
		"transfer_to_permissions_agent",
		"transfer_to_user_agent",
	}
	if got := supervisor.Tools.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("transfer tools = %v, want %v", got, want)
	}
	if supervisor.Guard != nil {
		t.Error("supervisor carries a guard, want none")
	}
	if supervisor.Key != KeyJIRASupervisor {
		t.Errorf("key = %q, want %q", supervisor.Key, KeyJIRASupervisor)
	}
}

func TestSupervisorDelegatesToSpecialist(t *testing.T) {
	t.Parallel()

	specialistProvider := &scriptedProvider{responses: []llm.Response{
		textResponse("PROJ-1 is In Progress, assigned to Dana."),
	}}
	supervisorProvider := &scriptedProvider{responses: []llm.Response{
		toolUseResponse("call-1", "transfer_to_issue_agent", `{"task":"Report the status of PROJ-1."}`),
		textResponse("The issue expert reports PROJ-1 is In Progress, assigned to Dana."),
	}}

	supervisor := NewJIRASupervisor(newOfflineJIRAClient(t), SupervisorConfig{
		Provider: specialistProvider,
		Model:    "gpt-4o-mini",
		Clock:    clock.Fake(agentTestEpoch),
	})

	state := NewState([]llm.Message{llm.UserMessage("What is the status of PROJ-1?")})
	var events []Event
	err := supervisor.Run(context.Background(),
		RunConfig{Provider: supervisorProvider, Model: "gpt-4o"},
		state, collectEvents(&events))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	final := state.Messages[len(state.Messages)-1]
	if got := textContent(final); got != "The issue expert reports PROJ-1 is In Progress, assigned to Dana." {
		t.Errorf("final answer = %q", got)
	}

	// The transfer tool relays the specialist's final text.
	toolMessage := state.Messages[2]
	result := toolMessage.Content[0].ToolResult
	if result == nil || result.IsError {
		t.Fatalf("tool message = %+v, want a successful transfer result", toolMessage)
	}
	if result.Content != "PROJ-1 is In Progress, assigned to Dana." {
		t.Errorf("transfer result = %q", result.Content)
	}

	// Supervising turns run on the request's model; the specialist is
	// pinned to the supervisor config.
	if got := supervisorProvider.requests[0].Model; got != "gpt-4o" {
		t.Errorf("supervisor model = %q, want gpt-4o", got)
	}
	if len(specialistProvider.requests) != 1 {
		t.Fatalf("specialist saw %d calls, want 1", len(specialistProvider.requests))
	}
	specialistRequest := specialistProvider.requests[0]
	if specialistRequest.Model != "gpt-4o-mini" {
		t.Errorf("specialist model = %q, want pinned gpt-4o-mini", specialistRequest.Model)
	}
	if !strings.Contains(specialistRequest.System, "JIRA issue expert") {
		t.Errorf("specialist system prompt %q is not the issue expert's", specialistRequest.System)
	}
	if got := textContent(specialistRequest.Messages[0]); got != "Report the status of PROJ-1." {
		t.Errorf("handed-over task = %q", got)
	}

	// Specialist turns never stream to the client.
	for i, event := range events {
		if event.Type != EventMessage {
			t.Errorf("event %d type = %q, want message events only", i, event.Type)
		}
	}
	if len(events) != 3 {
		t.Errorf("got %d events, want supervisor turn, transfer result, final answer", len(events))
	}
}

func TestSupervisorDelegationFailure(t *testing.T) {
	t.Parallel()

	// The specialist provider has no scripted responses, so the
	// delegated run fails; the supervisor must see an error-flagged
	// result and still get to answer.
	specialistProvider := &scriptedProvider{}
	supervisorProvider := &scriptedProvider{responses: []llm.Response{
		toolUseResponse("call-1", "transfer_to_worklog_agent", `{"task":"Log 2h on PROJ-3."}`),
		textResponse("I could not reach the worklog expert. Please try again."),
	}}

	supervisor := NewJIRASupervisor(newOfflineJIRAClient(t), SupervisorConfig{
		Provider: specialistProvider,
		Model:    "gpt-4o-mini",
	})

	state := NewState([]llm.Message{llm.UserMessage("Log 2h on PROJ-3")})
	err := supervisor.Run(context.Background(),
		RunConfig{Provider: supervisorProvider, Model: "gpt-4o"}, state, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	result := state.Messages[2].Content[0].ToolResult
	if result == nil || !result.IsError {
		t.Fatalf("result = %+v, want an error-flagged transfer result", result)
	}
	final := state.Messages[len(state.Messages)-1]
	if got := textContent(final); got != "I could not reach the worklog expert. Please try again." {
		t.Errorf("final answer = %q", got)
	}
}
