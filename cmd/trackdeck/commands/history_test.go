// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/trackdeck/trackdeck/lib/schema/chat"
)

func TestPrintHistory(t *testing.T) {
	messages := []chat.ChatMessage{
		{Type: chat.MessageTypeHuman, Content: "what's blocking PROJ-7?"},
		{
			Type:  chat.MessageTypeAI,
			RunID: "run-1",
			ToolCalls: []chat.ToolCall{
				{Name: "get_issue", Args: map[string]any{"key": "PROJ-7"}, ID: "call-1"},
			},
		},
		{Type: chat.MessageTypeTool, ToolCallID: "call-1", Content: "PROJ-7 blocked by PROJ-3"},
		{Type: chat.MessageTypeAI, Content: "PROJ-7 is blocked by PROJ-3.", RunID: "run-1"},
	}

	var buffer bytes.Buffer
	printHistory(&buffer, messages)
	output := buffer.String()

	for _, want := range []string{
		"you: what's blocking PROJ-7?",
		`agent: [tool call] get_issue {"key":"PROJ-7"}`,
		"tool: PROJ-7 blocked by PROJ-3",
		"agent: PROJ-7 is blocked by PROJ-3.",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("history output missing %q\n\nFull output:\n%s", want, output)
		}
	}

	// Messages are separated by blank lines.
	if !strings.Contains(output, "\n\n") {
		t.Error("history output has no message separation")
	}
}

func TestPrintHistory_Empty(t *testing.T) {
	var buffer bytes.Buffer
	printHistory(&buffer, nil)
	if buffer.Len() != 0 {
		t.Errorf("empty thread rendered %q", buffer.String())
	}
}

func TestPrintServiceInfo(t *testing.T) {
	info := &chat.ServiceInfo{
		Agents: []chat.AgentInfo{
			{Key: "jira-assistant", Description: "Answers questions against JIRA"},
			{Key: "azure-devops-assistant", Description: "Operates Azure DevOps boards"},
		},
		Models:       []string{"gpt-4o", "claude-sonnet-4-5"},
		DefaultAgent: "jira-assistant",
		DefaultModel: "gpt-4o",
	}

	var buffer bytes.Buffer
	printServiceInfo(&buffer, info)
	output := buffer.String()

	for _, want := range []string{
		"AGENT",
		"jira-assistant *",
		"azure-devops-assistant",
		"Operates Azure DevOps boards",
		"Models:",
		"gpt-4o *",
		"claude-sonnet-4-5",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("info output missing %q\n\nFull output:\n%s", want, output)
		}
	}

	// Only the defaults carry the marker.
	if strings.Contains(output, "azure-devops-assistant *") {
		t.Error("non-default agent marked as default")
	}
	if strings.Contains(output, "claude-sonnet-4-5 *") {
		t.Error("non-default model marked as default")
	}
}
