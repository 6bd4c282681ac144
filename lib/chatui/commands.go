// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package chatui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/trackdeck/trackdeck/lib/schema/chat"
)

// feedbackKey is the feedback key star-style ratings are recorded
// under, shared with the web UI so scores aggregate together.
const feedbackKey = "human-feedback-stars"

const feedbackTimeout = 10 * time.Second

const helpText = `slash commands:
  /new                        start a fresh thread
  /agent <key>                switch to another agent
  /model <id>                 switch to another model
  /feedback <0..1> [comment]  rate the last reply
  /help                       show this list`

// runSlashCommand executes a local /command line. Commands never
// reach the service except /feedback, which posts asynchronously.
func (model Model) runSlashCommand(line string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(line)
	command, args := fields[0], fields[1:]

	var cmd tea.Cmd
	switch command {
	case "/help":
		model.entries = append(model.entries, entry{kind: entryNotice, text: helpText})

	case "/new":
		model.threadID = ""
		model.lastRunID = ""
		model.entries = append(model.entries, entry{kind: entryNotice, text: "started a new thread"})

	case "/agent":
		model.switchAgent(args)

	case "/model":
		model.switchModel(args)

	case "/feedback":
		cmd = model.sendFeedback(args)

	default:
		model.entries = append(model.entries, entry{kind: entryError, text: fmt.Sprintf("unknown command %q (try /help)", command)})
	}

	model.refreshTranscript()
	return model, cmd
}

func (model *Model) switchAgent(args []string) {
	available := strings.Join(agentKeys(model.info), ", ")
	if len(args) != 1 {
		model.entries = append(model.entries, entry{kind: entryError, text: "usage: /agent <key> (available: " + available + ")"})
		return
	}
	for _, agent := range model.info.Agents {
		if agent.Key == args[0] {
			model.agentKey = args[0]
			model.entries = append(model.entries, entry{kind: entryNotice, text: "now talking to " + args[0]})
			return
		}
	}
	model.entries = append(model.entries, entry{kind: entryError, text: fmt.Sprintf("unknown agent %q (available: %s)", args[0], available)})
}

func (model *Model) switchModel(args []string) {
	available := strings.Join(model.info.Models, ", ")
	if len(args) != 1 {
		model.entries = append(model.entries, entry{kind: entryError, text: "usage: /model <id> (available: " + available + ")"})
		return
	}
	for _, id := range model.info.Models {
		if id == args[0] {
			model.modelID = args[0]
			model.entries = append(model.entries, entry{kind: entryNotice, text: "now using model " + args[0]})
			return
		}
	}
	model.entries = append(model.entries, entry{kind: entryError, text: fmt.Sprintf("unknown model %q (available: %s)", args[0], available)})
}

// sendFeedback validates the score locally and posts it in the
// background; the result lands as a feedbackResultMsg.
func (model *Model) sendFeedback(args []string) tea.Cmd {
	if model.lastRunID == "" {
		model.entries = append(model.entries, entry{kind: entryError, text: "no finished run to rate yet"})
		return nil
	}
	if len(args) == 0 {
		model.entries = append(model.entries, entry{kind: entryError, text: "usage: /feedback <0..1> [comment]"})
		return nil
	}
	score, err := strconv.ParseFloat(args[0], 64)
	if err != nil || score < 0 || score > 1 {
		model.entries = append(model.entries, entry{kind: entryError, text: fmt.Sprintf("feedback score must be between 0 and 1, got %q", args[0])})
		return nil
	}

	feedback := chat.Feedback{
		RunID: model.lastRunID,
		Key:   feedbackKey,
		Score: score,
	}
	if comment := strings.Join(args[1:], " "); comment != "" {
		feedback.Kwargs = map[string]any{"comment": comment}
	}

	service := model.service
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), feedbackTimeout)
		defer cancel()
		return feedbackResultMsg{err: service.SendFeedback(ctx, feedback)}
	}
}

func agentKeys(info chat.ServiceInfo) []string {
	keys := make([]string, len(info.Agents))
	for index, agent := range info.Agents {
		keys[index] = agent.Key
	}
	return keys
}
