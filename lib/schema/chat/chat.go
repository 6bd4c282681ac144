// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

// Package chat defines the wire types of the Trackdeck agent API:
// request and response bodies for the invoke, stream, feedback,
// history, and info endpoints, and the SSE event payloads the stream
// endpoint emits. The JSON field names are the public contract shared
// by the service, the Go client, and the chat UI.
package chat

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MessageType identifies who produced a ChatMessage.
type MessageType string

const (
	// MessageTypeHuman is a message typed by the user.
	MessageTypeHuman MessageType = "human"

	// MessageTypeAI is a model response. AI messages may carry tool
	// calls the agent executed before its final answer.
	MessageTypeAI MessageType = "ai"

	// MessageTypeTool is the result of one tool call, linked to the
	// requesting AI message through ToolCallID.
	MessageTypeTool MessageType = "tool"

	// MessageTypeCustom carries agent-defined payloads outside the
	// normal conversation flow.
	MessageTypeCustom MessageType = "custom"
)

// ToolCall is one tool invocation requested by an AI message.
type ToolCall struct {
	// Name is the tool's registered name.
	Name string `json:"name"`

	// Args are the model-supplied arguments.
	Args map[string]any `json:"args"`

	// ID links tool result messages back to this call.
	ID string `json:"id"`
}

// ChatMessage is one entry in a conversation transcript.
type ChatMessage struct {
	// Type discriminates human, ai, tool, and custom messages.
	Type MessageType `json:"type"`

	// Content is the message text. For tool messages this is the tool
	// output the model saw.
	Content string `json:"content"`

	// ToolCalls are the tool invocations an ai message requested.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// ToolCallID is set on tool messages: the ID of the call this
	// message answers.
	ToolCallID string `json:"tool_call_id,omitempty"`

	// RunID identifies the invoke or stream run that produced this
	// message. Feedback attaches to a run through this ID.
	RunID string `json:"run_id,omitempty"`

	// ResponseMetadata carries provider details (model, stop reason)
	// for ai messages.
	ResponseMetadata map[string]any `json:"response_metadata,omitempty"`

	// CustomData is the payload of a custom message.
	CustomData map[string]any `json:"custom_data,omitempty"`
}

// UserInput is the request body for the invoke endpoints.
type UserInput struct {
	// Message is the user's chat message. Required.
	Message string `json:"message"`

	// Model overrides the service's default model for this run.
	Model string `json:"model,omitempty"`

	// ThreadID continues an existing conversation. When empty the
	// service mints a new thread ID and returns it in the response
	// metadata.
	ThreadID string `json:"thread_id,omitempty"`

	// UserID attributes the run to a caller-defined user.
	UserID string `json:"user_id,omitempty"`

	// AgentConfig passes agent-specific settings into the run. The
	// keys "model", "thread_id", and "user_id" are reserved and
	// rejected.
	AgentConfig map[string]any `json:"agent_config,omitempty"`
}

// reservedConfigKeys are UserInput fields that must not be smuggled
// through AgentConfig, where they would silently shadow the typed
// fields.
var reservedConfigKeys = []string{"model", "thread_id", "user_id"}

// Validate checks the input against the API contract.
func (input UserInput) Validate() error {
	if input.Message == "" {
		return errors.New("message is required")
	}
	for _, key := range reservedConfigKeys {
		if _, ok := input.AgentConfig[key]; ok {
			return fmt.Errorf("agent_config contains reserved key %q", key)
		}
	}
	return nil
}

// StreamInput is the request body for the stream endpoints.
type StreamInput struct {
	UserInput

	// StreamTokens controls whether token events are emitted as the
	// model generates text. Defaults to true; message events are sent
	// either way.
	StreamTokens *bool `json:"stream_tokens,omitempty"`
}

// TokensWanted reports whether token events should be emitted,
// applying the default.
func (input StreamInput) TokensWanted() bool {
	return input.StreamTokens == nil || *input.StreamTokens
}

// Feedback is the request body for the feedback endpoint. It records
// a score for one run, in the shape feedback aggregators expect.
type Feedback struct {
	// RunID is the run being scored.
	RunID string `json:"run_id"`

	// Key names the feedback metric, e.g. "human-feedback-stars".
	Key string `json:"key"`

	// Score is the metric value.
	Score float64 `json:"score"`

	// Kwargs carries additional metric fields, e.g. a comment.
	Kwargs map[string]any `json:"kwargs,omitempty"`
}

// Validate checks the feedback against the API contract.
func (feedback Feedback) Validate() error {
	if feedback.RunID == "" {
		return errors.New("run_id is required")
	}
	if feedback.Key == "" {
		return errors.New("key is required")
	}
	return nil
}

// FeedbackResponse is the feedback endpoint's response body.
type FeedbackResponse struct {
	Status string `json:"status"`
}

// ChatHistoryInput is the request body for the history endpoint.
type ChatHistoryInput struct {
	ThreadID string `json:"thread_id"`
}

// ChatHistory is the history endpoint's response body.
type ChatHistory struct {
	Messages []ChatMessage `json:"messages"`
}

// AgentInfo describes one hosted agent.
type AgentInfo struct {
	// Key is the agent identifier used in request paths.
	Key string `json:"key"`

	// Description is a one-line summary of what the agent does.
	Description string `json:"description"`
}

// ServiceInfo is the info endpoint's response body.
type ServiceInfo struct {
	// Agents lists the hosted agents.
	Agents []AgentInfo `json:"agents"`

	// Models lists the model IDs accepted in UserInput.Model.
	Models []string `json:"models"`

	// DefaultAgent is used by the agent-less invoke and stream routes.
	DefaultAgent string `json:"default_agent"`

	// DefaultModel is used when UserInput.Model is empty.
	DefaultModel string `json:"default_model"`
}

// HealthResponse is the health endpoint's response body.
type HealthResponse struct {
	Status string `json:"status"`
}

// StreamEventType discriminates SSE payloads on the stream endpoints.
type StreamEventType string

const (
	// StreamEventToken carries an incremental piece of model text.
	StreamEventToken StreamEventType = "token"

	// StreamEventMessage carries a complete ChatMessage.
	StreamEventMessage StreamEventType = "message"

	// StreamEventError reports a run failure. The stream still ends
	// with the done marker.
	StreamEventError StreamEventType = "error"
)

// StreamDone is the bare SSE data line terminating every stream.
const StreamDone = "[DONE]"

// StreamEvent is one SSE payload on the stream endpoints. On the wire
// it is `{"type": ..., "content": ...}` where content is a string for
// token and error events and a ChatMessage object for message events.
type StreamEvent struct {
	// Type discriminates the payload.
	Type StreamEventType

	// Token is the text delta of a token event.
	Token string

	// Message is the payload of a message event.
	Message *ChatMessage

	// Error is the description of an error event.
	Error string
}

// wireStreamEvent is the JSON shape of a StreamEvent.
type wireStreamEvent struct {
	Type    StreamEventType `json:"type"`
	Content json.RawMessage `json:"content"`
}

// MarshalJSON implements json.Marshaler.
func (event StreamEvent) MarshalJSON() ([]byte, error) {
	var content any
	switch event.Type {
	case StreamEventToken:
		content = event.Token
	case StreamEventMessage:
		content = event.Message
	case StreamEventError:
		content = event.Error
	default:
		return nil, fmt.Errorf("unknown stream event type %q", event.Type)
	}
	raw, err := json.Marshal(content)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireStreamEvent{Type: event.Type, Content: raw})
}

// UnmarshalJSON implements json.Unmarshaler.
func (event *StreamEvent) UnmarshalJSON(data []byte) error {
	var wire wireStreamEvent
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*event = StreamEvent{Type: wire.Type}
	switch wire.Type {
	case StreamEventToken:
		return json.Unmarshal(wire.Content, &event.Token)
	case StreamEventMessage:
		event.Message = &ChatMessage{}
		return json.Unmarshal(wire.Content, event.Message)
	case StreamEventError:
		return json.Unmarshal(wire.Content, &event.Error)
	default:
		return fmt.Errorf("unknown stream event type %q", wire.Type)
	}
}
