// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package chatui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/trackdeck/trackdeck/lib/schema/chat"
)

func TestFormatToolCall(t *testing.T) {
	got := formatToolCall(chat.ToolCall{
		Name: "get_issue",
		Args: map[string]any{"key": "PROJ-1", "expand": "changelog"},
		ID:   "call-1",
	})
	// Map keys marshal in sorted order.
	want := `⚙ get_issue {"expand":"changelog","key":"PROJ-1"}`
	if got != want {
		t.Errorf("formatToolCall = %q, want %q", got, want)
	}
}

func TestFormatToolCallNoArgs(t *testing.T) {
	got := formatToolCall(chat.ToolCall{Name: "list_projects", ID: "call-2"})
	if got != "⚙ list_projects {}" {
		t.Errorf("formatToolCall = %q", got)
	}
}

func TestFormatToolResult(t *testing.T) {
	got := formatToolResult("get_issue", "Issue PROJ-1:  Fix\nlogin flow")
	want := "✔ get_issue → Issue PROJ-1: Fix login flow"
	if got != want {
		t.Errorf("formatToolResult = %q, want %q", got, want)
	}
}

func TestFormatToolResultUnknownTool(t *testing.T) {
	got := formatToolResult("", "ok")
	if !strings.HasPrefix(got, "✔ tool →") {
		t.Errorf("formatToolResult = %q", got)
	}
}

func TestSnippetTruncatesLongOutput(t *testing.T) {
	long := strings.Repeat("issue data ", 40)
	got := snippet(long)
	if !strings.HasSuffix(got, "…") {
		t.Errorf("snippet not truncated: %q", got)
	}
	if runeCount := len([]rune(got)); runeCount > toolSnippetLimit+1 {
		t.Errorf("snippet length = %d runes", runeCount)
	}
}

func TestRenderTranscriptLayout(t *testing.T) {
	entries := []entry{
		{kind: entryUser, text: "show my open issues"},
		{kind: entryTool, text: "⚙ search_issues {}"},
		{kind: entryAssistant, label: "jira-assistant", text: "You have **2** open issues."},
		{kind: entryNotice, text: "started a new thread"},
		{kind: entryError, text: "model overloaded"},
	}
	output := ansi.Strip(renderTranscript(entries, DefaultTheme, 80))

	for _, want := range []string{
		"❯ you",
		"show my open issues",
		"⚙ search_issues {}",
		"● jira-assistant",
		"You have 2 open issues.",
		"started a new thread",
		"✗ model overloaded",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("transcript missing %q:\n%s", want, output)
		}
	}

	blocks := strings.Split(output, "\n\n")
	if len(blocks) < len(entries) {
		t.Errorf("expected blank lines between %d entries, got %d blocks", len(entries), len(blocks))
	}
}

func TestRenderTranscriptStreamingCursor(t *testing.T) {
	entries := []entry{
		{kind: entryAssistant, label: "jira-assistant", text: "thinking", streaming: true},
	}
	output := ansi.Strip(renderTranscript(entries, DefaultTheme, 80))
	if !strings.Contains(output, "▌") {
		t.Errorf("streaming entry missing cursor:\n%s", output)
	}
}

func TestRenderTranscriptEmpty(t *testing.T) {
	if got := renderTranscript(nil, DefaultTheme, 80); got != "" {
		t.Errorf("empty transcript rendered %q", got)
	}
}

func TestRenderTranscriptTruncatesToolLines(t *testing.T) {
	entries := []entry{
		{kind: entryTool, text: "⚙ search_issues " + strings.Repeat("x", 200)},
	}
	output := ansi.Strip(renderTranscript(entries, DefaultTheme, 40))
	for _, line := range strings.Split(output, "\n") {
		if width := ansi.StringWidth(line); width > 40 {
			t.Errorf("tool line width = %d, want <= 40", width)
		}
	}
}
