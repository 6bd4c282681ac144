// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package jira

import (
	"encoding/json"
	"testing"
)

func TestTextDocumentWireShape(t *testing.T) {
	encoded, err := json.Marshal(TextDocument("hello world"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"type":"doc","version":1,"content":[{"type":"paragraph","content":[{"type":"text","text":"hello world"}]}]}`
	if string(encoded) != want {
		t.Fatalf("got %s\nwant %s", encoded, want)
	}
}

func TestPlainText(t *testing.T) {
	t.Run("nil document", func(t *testing.T) {
		var document *Document
		if got := document.PlainText(); got != "" {
			t.Fatalf("got %q, want empty", got)
		}
	})

	t.Run("single paragraph", func(t *testing.T) {
		if got := TextDocument("release notes").PlainText(); got != "release notes" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("paragraphs separated by newlines", func(t *testing.T) {
		document := &Document{
			Type:    "doc",
			Version: 1,
			Content: []Document{
				{Type: "paragraph", Content: []Document{{Type: "text", Text: "first"}}},
				{Type: "paragraph", Content: []Document{{Type: "text", Text: "second"}}},
			},
		}
		if got := document.PlainText(); got != "first\nsecond" {
			t.Fatalf("got %q, want %q", got, "first\nsecond")
		}
	})

	t.Run("hard break", func(t *testing.T) {
		document := &Document{
			Type:    "doc",
			Version: 1,
			Content: []Document{{
				Type: "paragraph",
				Content: []Document{
					{Type: "text", Text: "line one"},
					{Type: "hardBreak"},
					{Type: "text", Text: "line two"},
				},
			}},
		}
		if got := document.PlainText(); got != "line one\nline two" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("bullet list", func(t *testing.T) {
		raw := `{
			"type": "doc", "version": 1,
			"content": [
				{"type": "paragraph", "content": [{"type": "text", "text": "Steps:"}]},
				{"type": "bulletList", "content": [
					{"type": "listItem", "content": [{"type": "paragraph", "content": [{"type": "text", "text": "open settings"}]}]},
					{"type": "listItem", "content": [{"type": "paragraph", "content": [{"type": "text", "text": "enable SSO"}]}]}
				]}
			]
		}`
		var document Document
		if err := json.Unmarshal([]byte(raw), &document); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got := document.PlainText(); got != "Steps:\nopen settings\nenable SSO" {
			t.Fatalf("got %q", got)
		}
	})
}
