// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/trackdeck/trackdeck/lib/clock"
	"github.com/trackdeck/trackdeck/lib/llm"
	"github.com/trackdeck/trackdeck/lib/toolkit"
)

const (
	// DefaultRemainingSteps is the step allowance for a fresh run. A
	// model turn followed by a round of tool calls consumes one step.
	DefaultRemainingSteps = 25

	// defaultMaxTokens caps a single model response.
	defaultMaxTokens = 4096
)

// outOfStepsMessage is the answer given when the model still wants
// tools but the step allowance is exhausted.
const outOfStepsMessage = "Sorry, need more steps to process this request."

// State is the mutable conversation state of one run. Run appends to
// Messages and accumulates Usage; the caller persists the result.
type State struct {
	// Messages is the transcript, oldest first.
	Messages []llm.Message

	// RemainingSteps counts down tool rounds. At fewer than two
	// remaining steps, pending tool calls are abandoned with
	// an apology instead of executed.
	RemainingSteps int

	// Usage is the token consumption accumulated across all model
	// calls of the run.
	Usage llm.Usage
}

// NewState builds a run state over an existing transcript with a full
// step allowance.
func NewState(messages []llm.Message) *State {
	return &State{
		Messages:       messages,
		RemainingSteps: DefaultRemainingSteps,
	}
}

// EventType discriminates the variants of [Event].
type EventType string

const (
	// EventToken is an incremental piece of assistant text, emitted
	// only when the run streams.
	EventToken EventType = "token"

	// EventMessage is a complete transcript message: an assistant
	// turn (possibly carrying tool calls) or a round of tool results.
	EventMessage EventType = "message"
)

// Event is one observable step of a run, delivered to the emit
// callback in order.
type Event struct {
	Type    EventType
	Token   string
	Message llm.Message
}

// RunConfig carries the per-invocation settings.
type RunConfig struct {
	// Provider serves the model calls.
	Provider llm.Provider

	// Model is the provider's model identifier.
	Model string

	// StreamTokens emits EventToken events for assistant text deltas
	// as they arrive.
	StreamTokens bool
}

// Assistant is one registered agent: a system prompt plus a tool
// catalog. Assistants are immutable after construction and safe for
// concurrent runs.
type Assistant struct {
	// Key is the registry identifier, e.g. "jira-assistant".
	Key string

	// Description is the one-line summary served by the info endpoint.
	Description string

	// Instructions renders the system prompt for the given wall-clock
	// time.
	Instructions func(now time.Time) string

	// Tools is the catalog bound to the model.
	Tools toolkit.Set

	// Guard screens user input and model output. Nil runs unguarded.
	Guard *Guard

	// MaxTokens caps each model response. Zero uses the package
	// default.
	MaxTokens int

	// Clock supplies the prompt date. Nil uses the real clock.
	Clock clock.Clock

	// Logger receives run diagnostics. Nil discards them.
	Logger *slog.Logger
}

func (assistant *Assistant) clock() clock.Clock {
	if assistant.Clock != nil {
		return assistant.Clock
	}
	return clock.Real()
}

func (assistant *Assistant) logger() *slog.Logger {
	if assistant.Logger != nil {
		return assistant.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func (assistant *Assistant) maxTokens() int {
	if assistant.MaxTokens > 0 {
		return assistant.MaxTokens
	}
	return defaultMaxTokens
}

// flaggedMessage is the assistant turn that replaces unsafe content.
func flaggedMessage(verdict Verdict) llm.Message {
	return llm.AssistantMessage(fmt.Sprintf(
		"This conversation was flagged for unsafe content: %s",
		strings.Join(verdict.Categories, ", ")))
}

// Run drives one invocation to completion. Transcript additions are
// appended to state and mirrored to emit as they happen; emit may be
// nil when the caller only wants the final state. The returned error
// is a provider or context failure; tool errors are fed back to the
// model instead.
func (assistant *Assistant) Run(ctx context.Context, config RunConfig, state *State, emit func(Event)) error {
	if emit == nil {
		emit = func(Event) {}
	}
	logger := assistant.logger()

	if assistant.Guard != nil {
		verdict := assistant.Guard.Check(ctx, GuardRoleUser, state.Messages)
		if !verdict.Safe {
			logger.Warn("user input flagged",
				"agent", assistant.Key,
				"categories", verdict.Categories,
			)
			message := flaggedMessage(verdict)
			state.Messages = append(state.Messages, message)
			emit(Event{Type: EventMessage, Message: message})
			return nil
		}
	}

	for {
		response, err := assistant.callModel(ctx, config, state, emit)
		if err != nil {
			return err
		}
		state.Usage.InputTokens += response.Usage.InputTokens
		state.Usage.OutputTokens += response.Usage.OutputTokens

		responseMessage := llm.Message{Role: llm.RoleAssistant, Content: response.Content}

		if assistant.Guard != nil {
			verdict := assistant.Guard.Check(ctx, GuardRoleAgent,
				append(append([]llm.Message{}, state.Messages...), responseMessage))
			if !verdict.Safe {
				logger.Warn("model output flagged",
					"agent", assistant.Key,
					"categories", verdict.Categories,
				)
				message := flaggedMessage(verdict)
				state.Messages = append(state.Messages, message)
				emit(Event{Type: EventMessage, Message: message})
				return nil
			}
		}

		toolUses := response.ToolUses()
		if len(toolUses) == 0 {
			state.Messages = append(state.Messages, responseMessage)
			emit(Event{Type: EventMessage, Message: responseMessage})
			return nil
		}

		if state.RemainingSteps < 2 {
			message := llm.AssistantMessage(outOfStepsMessage)
			state.Messages = append(state.Messages, message)
			emit(Event{Type: EventMessage, Message: message})
			return nil
		}

		state.Messages = append(state.Messages, responseMessage)
		emit(Event{Type: EventMessage, Message: responseMessage})

		results, err := assistant.Tools.CallAll(ctx, toolUses)
		if err != nil {
			return fmt.Errorf("agent %s: tool execution: %w", assistant.Key, err)
		}
		resultMessage := llm.ToolResultMessage(results...)
		state.Messages = append(state.Messages, resultMessage)
		emit(Event{Type: EventMessage, Message: resultMessage})

		state.RemainingSteps--
	}
}

// callModel performs one model call, streaming deltas through emit
// when configured.
func (assistant *Assistant) callModel(ctx context.Context, config RunConfig, state *State, emit func(Event)) (*llm.Response, error) {
	request := llm.Request{
		Model:     config.Model,
		System:    assistant.Instructions(assistant.clock().Now()),
		Messages:  state.Messages,
		Tools:     assistant.Tools.Definitions(),
		MaxTokens: assistant.maxTokens(),
	}

	if !config.StreamTokens {
		response, err := config.Provider.Complete(ctx, request)
		if err != nil {
			return nil, fmt.Errorf("agent %s: model call: %w", assistant.Key, err)
		}
		return response, nil
	}

	stream, err := config.Provider.Stream(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("agent %s: model call: %w", assistant.Key, err)
	}
	defer stream.Close()

	for {
		event, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("agent %s: model stream: %w", assistant.Key, err)
		}
		switch event.Type {
		case llm.EventTextDelta:
			emit(Event{Type: EventToken, Token: event.Text})
		case llm.EventError:
			return nil, fmt.Errorf("agent %s: model stream: %w", assistant.Key, event.Error)
		}
	}

	response := stream.Response()
	return &response, nil
}
