// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package chatui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for the chat TUI. All colors use
// lipgloss ANSI 256-color codes for broad terminal compatibility.
//
// The roles mirror the transcript entry kinds: the user's own
// messages, assistant replies, tool activity, transient notices from
// slash commands, and errors. Chrome colors (header, border, help)
// style everything around the transcript.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Transcript entry labels.
	UserLabel      lipgloss.Color
	AssistantLabel lipgloss.Color
	ToolActivity   lipgloss.Color
	NoticeText     lipgloss.Color
	ErrorText      lipgloss.Color

	// Markdown rendering.
	HeaderForeground lipgloss.Color // Level 1-2 headings.
	CodeForeground   lipgloss.Color // Code spans and unhighlighted blocks.
	LinkForeground   lipgloss.Color // Link URLs.

	// UI chrome.
	BorderColor  lipgloss.Color
	HelpText     lipgloss.Color
	SpinnerColor lipgloss.Color
	InputPrompt  lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme. Designed
// for 256-color terminals with a dark background.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	UserLabel:      lipgloss.Color("114"), // green
	AssistantLabel: lipgloss.Color("75"),  // blue
	ToolActivity:   lipgloss.Color("245"), // gray
	NoticeText:     lipgloss.Color("220"), // amber
	ErrorText:      lipgloss.Color("196"), // bright red

	HeaderForeground: lipgloss.Color("255"),
	CodeForeground:   lipgloss.Color("222"), // pale yellow
	LinkForeground:   lipgloss.Color("75"),  // blue (matches assistant label)

	BorderColor:  lipgloss.Color("240"),
	HelpText:     lipgloss.Color("241"),
	SpinnerColor: lipgloss.Color("141"), // light purple
	InputPrompt:  lipgloss.Color("114"), // green (matches user label)
}
