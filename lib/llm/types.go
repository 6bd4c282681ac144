// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package llm

import (
	"encoding/json"
	"strings"
)

// Role identifies the author of a [Message].
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn in a conversation. Content is an ordered list of
// blocks: a plain reply is a single text block, an assistant turn that
// calls tools carries text and tool_use blocks, and the user turn that
// answers it carries tool_result blocks.
type Message struct {
	Role    Role
	Content []ContentBlock
}

// ContentBlockType discriminates the variants of [ContentBlock].
type ContentBlockType string

const (
	ContentText       ContentBlockType = "text"
	ContentToolUse    ContentBlockType = "tool_use"
	ContentToolResult ContentBlockType = "tool_result"
)

// ContentBlock is one unit of message content. Exactly one of the
// variant fields is populated, selected by Type.
type ContentBlock struct {
	Type       ContentBlockType
	Text       string
	ToolUse    *ToolUse
	ToolResult *ToolResult
}

// TextBlock creates a text content block.
func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: ContentText, Text: text}
}

// ToolUseBlock creates a tool_use content block.
func ToolUseBlock(id, name string, input json.RawMessage) ContentBlock {
	return ContentBlock{
		Type: ContentToolUse,
		ToolUse: &ToolUse{
			ID:    id,
			Name:  name,
			Input: input,
		},
	}
}

// ToolUse is a model request to invoke a tool. The ID correlates the
// invocation with its [ToolResult] in the following user message.
type ToolUse struct {
	ID    string
	Name  string
	Input json.RawMessage
}

// ToolResult is the outcome of a tool invocation, sent back to the
// model. IsError marks results the model should treat as failures.
type ToolResult struct {
	ToolUseID string
	Content   string
	IsError   bool
}

// ToolDefinition describes a tool the model may invoke. InputSchema is
// a JSON Schema object for the tool's arguments.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema json.RawMessage
}

// Request is a provider-independent completion request.
type Request struct {
	// Model is the provider's model identifier.
	Model string

	// System is the system prompt, if any.
	System string

	// Messages is the conversation so far, oldest first.
	Messages []Message

	// Tools the model may invoke during this request.
	Tools []ToolDefinition

	// MaxTokens caps the response length. Required by the Anthropic
	// API; passed through to OpenAI-compatible APIs as max_tokens.
	MaxTokens int

	// Temperature overrides the provider's default sampling
	// temperature when non-nil.
	Temperature *float64

	// StopSequences stop generation when emitted by the model.
	StopSequences []string
}

// StopReason reports why the model stopped generating.
type StopReason string

const (
	StopReasonEndTurn      StopReason = "end_turn"
	StopReasonToolUse      StopReason = "tool_use"
	StopReasonMaxTokens    StopReason = "max_tokens"
	StopReasonStopSequence StopReason = "stop_sequence"
)

// Usage reports token consumption for a request.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// Response is a complete model response, either returned directly by
// [Provider.Complete] or accumulated by an [EventStream].
type Response struct {
	Content    []ContentBlock
	StopReason StopReason
	Model      string
	Usage      Usage
}

// TextContent concatenates all text blocks in the response.
func (response *Response) TextContent() string {
	var text strings.Builder
	for _, block := range response.Content {
		if block.Type == ContentText {
			text.WriteString(block.Text)
		}
	}
	return text.String()
}

// ToolUses returns the tool invocations requested by the response, in
// content order.
func (response *Response) ToolUses() []ToolUse {
	var uses []ToolUse
	for _, block := range response.Content {
		if block.Type == ContentToolUse && block.ToolUse != nil {
			uses = append(uses, *block.ToolUse)
		}
	}
	return uses
}

// StreamEventType discriminates the variants of [StreamEvent].
type StreamEventType string

const (
	// EventTextDelta carries an incremental piece of text content.
	EventTextDelta StreamEventType = "text_delta"

	// EventContentBlockDone carries a complete content block. Tool use
	// blocks are only emitted this way; their input JSON is not
	// surfaced incrementally.
	EventContentBlockDone StreamEventType = "content_block_done"

	// EventDone signals the end of the response. StopReason and Usage
	// on the accumulated [Response] are valid after this event.
	EventDone StreamEventType = "done"

	// EventPing is a provider keepalive. Callers may ignore it.
	EventPing StreamEventType = "ping"

	// EventError carries an error the provider reported mid-stream.
	EventError StreamEventType = "error"
)

// StreamEvent is one event from an [EventStream].
type StreamEvent struct {
	Type         StreamEventType
	Text         string
	ContentBlock ContentBlock
	Error        error
}

// UserMessage creates a user message with a single text block.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Content: []ContentBlock{TextBlock(text)}}
}

// AssistantMessage creates an assistant message with a single text block.
func AssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Content: []ContentBlock{TextBlock(text)}}
}

// ToolResultMessage creates the user message that answers one or more
// tool invocations from the preceding assistant turn.
func ToolResultMessage(results ...ToolResult) Message {
	message := Message{Role: RoleUser}
	for _, result := range results {
		resultCopy := result
		message.Content = append(message.Content, ContentBlock{
			Type:       ContentToolResult,
			ToolResult: &resultCopy,
		})
	}
	return message
}
