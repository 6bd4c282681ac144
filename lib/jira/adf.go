// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package jira

import "strings"

// Document is an Atlassian Document Format node. The same type represents the
// top-level document and every nested node; the Type field distinguishes
// them. Rich text fields (issue descriptions, comments, worklog comments) are
// documents on the wire.
type Document struct {
	Type    string     `json:"type"`
	Version int        `json:"version,omitempty"`
	Text    string     `json:"text,omitempty"`
	Content []Document `json:"content,omitempty"`
}

// TextDocument wraps plain text in a minimal single-paragraph document, the
// shape JIRA expects when writing rich text fields.
func TextDocument(text string) *Document {
	return &Document{
		Type:    "doc",
		Version: 1,
		Content: []Document{{
			Type: "paragraph",
			Content: []Document{{
				Type: "text",
				Text: text,
			}},
		}},
	}
}

// PlainText flattens the document to its concatenated text content. Block
// nodes (paragraphs, headings, list items) are separated by newlines;
// formatting marks are dropped. Returns "" for a nil document.
func (document *Document) PlainText() string {
	if document == nil {
		return ""
	}
	var builder strings.Builder
	document.appendText(&builder)
	return builder.String()
}

func (document *Document) appendText(builder *strings.Builder) {
	switch document.Type {
	case "text":
		builder.WriteString(document.Text)
		return
	case "hardBreak":
		builder.WriteByte('\n')
		return
	}
	for i := range document.Content {
		child := &document.Content[i]
		if i > 0 && isBlockNode(child.Type) {
			builder.WriteByte('\n')
		}
		child.appendText(builder)
	}
}

func isBlockNode(nodeType string) bool {
	switch nodeType {
	case "paragraph", "heading", "blockquote", "codeBlock",
		"bulletList", "orderedList", "listItem", "rule", "table", "tableRow":
		return true
	}
	return false
}
