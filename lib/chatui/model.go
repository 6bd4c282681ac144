// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package chatui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/trackdeck/trackdeck/lib/agentclient"
	"github.com/trackdeck/trackdeck/lib/schema/chat"
)

// chromeRows is the fixed vertical space around the transcript
// viewport: header, two rules, the input line, and the help line.
const chromeRows = 5

// runPhase tracks whether the user is composing or a run is in flight.
type runPhase int

const (
	phaseComposing runPhase = iota
	phaseStreaming
)

// streamStartedMsg delivers the event source of a freshly started run.
type streamStartedMsg struct {
	source EventSource
}

// streamEventMsg wraps one stream event for the bubbletea loop.
type streamEventMsg struct {
	event chat.StreamEvent
}

// streamDoneMsg signals the stream ended cleanly (done marker seen).
type streamDoneMsg struct{}

// streamFailedMsg reports a transport or service failure. The run is
// over when it arrives.
type streamFailedMsg struct {
	err error
}

// feedbackResultMsg reports the outcome of an async /feedback call.
type feedbackResultMsg struct {
	err error
}

// Model is the top-level bubbletea model for the chat client.
type Model struct {
	service Service
	theme   Theme
	keys    KeyMap

	info      chat.ServiceInfo
	agentKey  string
	modelID   string
	threadID  string
	userID    string
	lastRunID string

	// Terminal dimensions (set by WindowSizeMsg).
	width  int
	height int
	ready  bool

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	phase   runPhase
	entries []entry

	// pendingIndex is the transcript index of the assistant entry
	// currently receiving tokens, or -1.
	pendingIndex int

	stream    EventSource
	cancelRun context.CancelFunc
	cancelled bool

	// toolNames maps tool call IDs to tool names so result messages
	// (which only carry the ID) render with the tool they answer.
	toolNames map[string]string
}

// NewModel creates a chat model bound to the given service. The info
// response seeds the agent and model selection and backs the /agent
// and /model command validation.
func NewModel(service Service, info chat.ServiceInfo) Model {
	input := textinput.New()
	input.Prompt = "❯ "
	input.Placeholder = "Message the agent, or /help for commands"
	input.CharLimit = 0
	input.Focus()

	wheel := spinner.New()
	wheel.Spinner = spinner.Dot
	wheel.Style = lipgloss.NewStyle().Foreground(DefaultTheme.SpinnerColor)

	return Model{
		service:      service,
		theme:        DefaultTheme,
		keys:         DefaultKeyMap,
		info:         info,
		agentKey:     info.DefaultAgent,
		modelID:      info.DefaultModel,
		input:        input,
		spinner:      wheel,
		pendingIndex: -1,
		toolNames:    make(map[string]string),
	}
}

// SetAgent overrides the starting agent. Call before running the
// program; at runtime the /agent command switches agents.
func (model *Model) SetAgent(key string) {
	model.agentKey = key
}

// SetModel overrides the starting model ID.
func (model *Model) SetModel(id string) {
	model.modelID = id
}

// SetThread resumes an existing conversation thread.
func (model *Model) SetThread(threadID string) {
	model.threadID = threadID
}

// SetUser attributes runs to a user ID.
func (model *Model) SetUser(userID string) {
	model.userID = userID
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.viewport.Width = message.Width
		model.viewport.Height = max(message.Height-chromeRows, 1)
		model.input.Width = max(message.Width-4, minTextWidth)
		model.refreshTranscript()
		return model, nil

	case tea.KeyMsg:
		return model.handleKey(message)

	case tea.MouseMsg:
		var cmd tea.Cmd
		model.viewport, cmd = model.viewport.Update(message)
		return model, cmd

	case spinner.TickMsg:
		if model.phase != phaseStreaming {
			return model, nil
		}
		var cmd tea.Cmd
		model.spinner, cmd = model.spinner.Update(message)
		return model, cmd

	case streamStartedMsg:
		if model.phase != phaseStreaming {
			// The user cancelled before the connection came up.
			message.source.Close()
			return model, nil
		}
		model.stream = message.source
		return model, readEvent(message.source)

	case streamEventMsg:
		return model.handleStreamEvent(message.event)

	case streamDoneMsg:
		model.finishRun()
		return model, nil

	case streamFailedMsg:
		if !model.cancelled {
			model.entries = append(model.entries, entry{kind: entryError, text: runErrorText(message.err)})
		}
		model.finishRun()
		return model, nil

	case feedbackResultMsg:
		if message.err != nil {
			model.entries = append(model.entries, entry{kind: entryError, text: "feedback failed: " + message.err.Error()})
		} else {
			model.entries = append(model.entries, entry{kind: entryNotice, text: "feedback recorded for run " + model.lastRunID})
		}
		model.refreshTranscript()
		return model, nil
	}

	if model.phase == phaseComposing {
		var cmd tea.Cmd
		model.input, cmd = model.input.Update(message)
		return model, cmd
	}
	return model, nil
}

func (model Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		if model.cancelRun != nil {
			model.cancelRun()
		}
		return model, tea.Quit

	case key.Matches(message, model.keys.PageUp):
		model.viewport.HalfViewUp()
		return model, nil

	case key.Matches(message, model.keys.PageDown):
		model.viewport.HalfViewDown()
		return model, nil
	}

	if model.phase == phaseStreaming {
		// Typing is disabled while a run is in flight; esc aborts it.
		if key.Matches(message, model.keys.Cancel) && !model.cancelled {
			model.cancelled = true
			if model.cancelRun != nil {
				model.cancelRun()
			}
			model.entries = append(model.entries, entry{kind: entryNotice, text: "run cancelled"})
			model.refreshTranscript()
		}
		return model, nil
	}

	if key.Matches(message, model.keys.Submit) {
		return model.submit()
	}

	var cmd tea.Cmd
	model.input, cmd = model.input.Update(message)
	return model, cmd
}

// submit sends the composed line: slash commands run locally,
// anything else becomes a streaming run against the current agent.
func (model Model) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(model.input.Value())
	if line == "" {
		return model, nil
	}
	model.input.Reset()

	if strings.HasPrefix(line, "/") {
		return model.runSlashCommand(line)
	}

	model.entries = append(model.entries, entry{kind: entryUser, text: line})
	model.phase = phaseStreaming
	model.cancelled = false
	model.input.Blur()
	model.refreshTranscript()

	ctx, cancel := context.WithCancel(context.Background())
	model.cancelRun = cancel

	service := model.service
	agentKey := model.agentKey
	input := chat.StreamInput{UserInput: chat.UserInput{
		Message:  line,
		Model:    model.modelID,
		ThreadID: model.threadID,
		UserID:   model.userID,
	}}
	start := func() tea.Msg {
		source, err := service.Stream(ctx, agentKey, input)
		if err != nil {
			return streamFailedMsg{err: err}
		}
		return streamStartedMsg{source: source}
	}
	return model, tea.Batch(model.spinner.Tick, start)
}

// readEvent returns a command that blocks on the next stream event.
func readEvent(source EventSource) tea.Cmd {
	return func() tea.Msg {
		event, err := source.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return streamDoneMsg{}
			}
			return streamFailedMsg{err: err}
		}
		return streamEventMsg{event: event}
	}
}

func (model Model) handleStreamEvent(event chat.StreamEvent) (tea.Model, tea.Cmd) {
	switch event.Type {
	case chat.StreamEventToken:
		model.appendToken(event.Token)

	case chat.StreamEventMessage:
		if event.Message != nil {
			model.absorbMessage(*event.Message)
		}

	case chat.StreamEventError:
		model.settlePending()
		model.entries = append(model.entries, entry{kind: entryError, text: event.Error})
	}

	model.refreshTranscript()
	if model.stream == nil {
		return model, nil
	}
	return model, readEvent(model.stream)
}

// appendToken grows the streaming assistant entry, creating it on the
// first token of a model call.
func (model *Model) appendToken(token string) {
	if token == "" {
		return
	}
	if model.pendingIndex < 0 {
		model.entries = append(model.entries, entry{kind: entryAssistant, label: model.agentKey, streaming: true})
		model.pendingIndex = len(model.entries) - 1
	}
	model.entries[model.pendingIndex].text += token
}

// absorbMessage folds a complete message event into the transcript.
func (model *Model) absorbMessage(message chat.ChatMessage) {
	switch message.Type {
	case chat.MessageTypeAI:
		if message.RunID != "" {
			model.lastRunID = message.RunID
		}
		if threadID, ok := message.ResponseMetadata["thread_id"].(string); ok && threadID != "" {
			model.threadID = threadID
		}
		model.resolvePending(message.Content)
		for _, call := range message.ToolCalls {
			model.toolNames[call.ID] = call.Name
			model.entries = append(model.entries, entry{kind: entryTool, text: formatToolCall(call)})
		}

	case chat.MessageTypeTool:
		model.entries = append(model.entries, entry{
			kind: entryTool,
			text: formatToolResult(model.toolNames[message.ToolCallID], message.Content),
		})
	}
	// Human messages echo our own input; custom messages carry
	// application payloads the transcript doesn't show.
}

// resolvePending replaces the streaming entry with the finished
// message text, or drops it when the turn produced none (tool-call
// turns often stream no text).
func (model *Model) resolvePending(content string) {
	content = strings.TrimSpace(content)
	if model.pendingIndex < 0 {
		if content != "" {
			model.entries = append(model.entries, entry{kind: entryAssistant, label: model.agentKey, text: content})
		}
		return
	}
	if content == "" {
		model.settlePending()
		return
	}
	model.entries[model.pendingIndex] = entry{
		kind:  entryAssistant,
		label: model.entries[model.pendingIndex].label,
		text:  content,
	}
	model.pendingIndex = -1
}

// settlePending closes out an unfinished streaming entry: empty ones
// are removed, partial text is kept as a final entry.
func (model *Model) settlePending() {
	if model.pendingIndex < 0 {
		return
	}
	if strings.TrimSpace(model.entries[model.pendingIndex].text) == "" {
		model.entries = append(model.entries[:model.pendingIndex], model.entries[model.pendingIndex+1:]...)
	} else {
		model.entries[model.pendingIndex].streaming = false
	}
	model.pendingIndex = -1
}

// finishRun tears down stream state and returns to composing.
func (model *Model) finishRun() {
	if model.stream != nil {
		model.stream.Close()
		model.stream = nil
	}
	if model.cancelRun != nil {
		model.cancelRun()
		model.cancelRun = nil
	}
	model.settlePending()
	model.phase = phaseComposing
	model.cancelled = false
	model.input.Focus()
	model.refreshTranscript()
}

// refreshTranscript re-renders the viewport content, keeping the view
// pinned to the bottom when it was there before.
func (model *Model) refreshTranscript() {
	wasAtBottom := model.viewport.AtBottom()
	model.viewport.SetContent(renderTranscript(model.entries, model.theme, model.viewport.Width))
	if wasAtBottom {
		model.viewport.GotoBottom()
	}
}

// runErrorText prefers the service's error detail over transport
// noise when a run fails.
func runErrorText(err error) string {
	var apiError *agentclient.APIError
	if errors.As(err, &apiError) && apiError.Detail != "" {
		return apiError.Detail
	}
	return err.Error()
}

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return ""
	}

	theme := model.theme
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground).Render("trackdeck")
	meta := fmt.Sprintf(" · %s · %s · %s", model.agentKey, model.modelID, threadLabel(model.threadID))
	header := title + lipgloss.NewStyle().Foreground(theme.FaintText).Render(meta)

	rule := lipgloss.NewStyle().
		Foreground(theme.BorderColor).
		Render(strings.Repeat("─", max(model.width, 1)))

	var prompt string
	if model.phase == phaseStreaming {
		waiting := fmt.Sprintf(" %s is working… esc cancels", model.agentKey)
		prompt = model.spinner.View() + lipgloss.NewStyle().Foreground(theme.FaintText).Render(waiting)
	} else {
		prompt = model.input.View()
	}

	help := lipgloss.NewStyle().
		Foreground(theme.HelpText).
		Render("enter send · /help commands · pgup/pgdn scroll · ctrl+c quit")

	return strings.Join([]string{header, rule, model.viewport.View(), rule, prompt, help}, "\n")
}

// threadLabel shortens a thread ID for the header.
func threadLabel(threadID string) string {
	if threadID == "" {
		return "new thread"
	}
	if len(threadID) > 8 {
		return "thread " + threadID[:8]
	}
	return "thread " + threadID
}
