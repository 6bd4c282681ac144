// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package chatui

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/trackdeck/trackdeck/lib/schema/chat"
)

// entryKind classifies a transcript entry.
type entryKind int

const (
	entryUser entryKind = iota
	entryAssistant
	entryTool
	entryNotice
	entryError
)

// entry is one block in the transcript. label identifies the speaker
// for assistant entries (the agent key at the time of the reply).
// streaming marks the assistant entry still receiving tokens.
type entry struct {
	kind      entryKind
	label     string
	text      string
	streaming bool
}

// toolSnippetLimit caps how much of a tool payload is kept in a
// transcript line. Rendering truncates further to the viewport width.
const toolSnippetLimit = 120

// formatToolCall renders a requested tool invocation as a one-line
// notice. json.Marshal sorts map keys, so the argument order is
// stable.
func formatToolCall(call chat.ToolCall) string {
	args, err := json.Marshal(call.Args)
	if err != nil || string(args) == "null" {
		args = []byte("{}")
	}
	return fmt.Sprintf("⚙ %s %s", call.Name, args)
}

// formatToolResult renders a tool's output as a one-line notice.
func formatToolResult(name, content string) string {
	if name == "" {
		name = "tool"
	}
	return fmt.Sprintf("✔ %s → %s", name, snippet(content))
}

// snippet collapses a payload to a single line of bounded length.
func snippet(content string) string {
	collapsed := strings.Join(strings.Fields(content), " ")
	runes := []rune(collapsed)
	if len(runes) > toolSnippetLimit {
		return string(runes[:toolSnippetLimit]) + "…"
	}
	return collapsed
}

// renderTranscript renders the conversation for the viewport. Each
// entry is a label line followed by an indented body; assistant
// bodies go through the markdown renderer.
func renderTranscript(entries []entry, theme Theme, width int) string {
	if width < minTextWidth {
		width = minTextWidth
	}

	// Same ANSI 256 pinning as renderMarkdown: output must not vary
	// with TTY detection.
	styles := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	styles.SetColorProfile(termenv.ANSI256)

	bodyWidth := width - 2
	if bodyWidth < minTextWidth {
		bodyWidth = minTextWidth
	}

	var blocks []string
	for _, item := range entries {
		switch item.kind {
		case entryUser:
			label := styles.NewStyle().Bold(true).Foreground(theme.UserLabel).Render("❯ you")
			body := styles.NewStyle().Foreground(theme.NormalText).Render(item.text)
			blocks = append(blocks, label+"\n"+indentBody(ansi.Wrap(body, bodyWidth, " ,.;-")))

		case entryAssistant:
			label := styles.NewStyle().Bold(true).Foreground(theme.AssistantLabel).Render("● " + item.label)
			body := renderMarkdown(item.text, theme, bodyWidth)
			if item.streaming {
				body += styles.NewStyle().Foreground(theme.AssistantLabel).Render("▌")
			}
			if body == "" {
				blocks = append(blocks, label)
			} else {
				blocks = append(blocks, label+"\n"+indentBody(body))
			}

		case entryTool:
			line := ansi.Truncate(item.text, width, "…")
			blocks = append(blocks, styles.NewStyle().Foreground(theme.ToolActivity).Render(line))

		case entryNotice:
			body := ansi.Wrap(item.text, bodyWidth, " ,.;-")
			blocks = append(blocks, styles.NewStyle().Foreground(theme.NoticeText).Render(body))

		case entryError:
			body := ansi.Wrap("✗ "+item.text, bodyWidth, " ,.;-")
			blocks = append(blocks, styles.NewStyle().Foreground(theme.ErrorText).Render(body))
		}
	}

	return strings.Join(blocks, "\n\n")
}

// indentBody prefixes every line of a block with two spaces.
func indentBody(body string) string {
	lines := strings.Split(body, "\n")
	for index, line := range lines {
		if line != "" {
			lines[index] = "  " + line
		}
	}
	return strings.Join(lines, "\n")
}
