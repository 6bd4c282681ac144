// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// anthropicDefaultBaseURL is the public Anthropic API endpoint.
const anthropicDefaultBaseURL = "https://api.anthropic.com/v1"

// anthropicVersion is the API version sent with every request.
const anthropicVersion = "2023-06-01"

// Anthropic implements [Provider] for the Anthropic Messages API.
// The API key is sent in the x-api-key header together with the
// anthropic-version header.
type Anthropic struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewAnthropic creates an Anthropic provider from config.
func NewAnthropic(config Config) *Anthropic {
	baseURL := strings.TrimSuffix(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = anthropicDefaultBaseURL
	}
	return &Anthropic{
		httpClient: config.httpClient(),
		baseURL:    baseURL,
		apiKey:     config.APIKey,
	}
}

// Complete sends a non-streaming request and returns the full response.
func (provider *Anthropic) Complete(ctx context.Context, request Request) (*Response, error) {
	httpResponse, err := provider.post(ctx, request, false)
	if err != nil {
		return nil, err
	}
	return decodeResponse[anthropicResponse](httpResponse, "llm/anthropic")
}

// Stream sends a streaming request and returns an [EventStream].
func (provider *Anthropic) Stream(ctx context.Context, request Request) (*EventStream, error) {
	httpResponse, err := provider.post(ctx, request, true)
	if err != nil {
		return nil, err
	}
	return anthropicStream(httpResponse.Body), nil
}

// post converts the request to wire format and sends it. The caller
// owns the response body on success.
func (provider *Anthropic) post(ctx context.Context, request Request, streaming bool) (*http.Response, error) {
	return doProviderRequest(ctx, provider.httpClient,
		provider.endpoint(), provider.headers(),
		provider.wireRequest(request, streaming), "llm/anthropic", streaming)
}

// endpoint returns the messages URL under the configured base.
func (provider *Anthropic) endpoint() string {
	return provider.baseURL + "/messages"
}

// headers returns the authentication headers for each request.
func (provider *Anthropic) headers() map[string]string {
	headers := map[string]string{
		"anthropic-version": anthropicVersion,
	}
	if provider.apiKey != "" {
		headers["x-api-key"] = provider.apiKey
	}
	return headers
}

// wireRequest translates a Request into the Messages API JSON shape.
// Unlike chat completions, this API carries the system prompt in a
// dedicated top-level field.
func (provider *Anthropic) wireRequest(request Request, streaming bool) anthropicRequest {
	wire := anthropicRequest{
		Model:         request.Model,
		MaxTokens:     request.MaxTokens,
		System:        request.System,
		Temperature:   request.Temperature,
		StopSequences: request.StopSequences,
		Stream:        streaming,
	}

	for _, message := range request.Messages {
		wire.Messages = append(wire.Messages, anthropicWireMessage(message))
	}

	for _, tool := range request.Tools {
		wire.Tools = append(wire.Tools, anthropicTool{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.InputSchema,
		})
	}

	return wire
}

// anthropicStreamReader turns Messages API SSE events into
// [StreamEvent] values.
//
// This protocol frames content explicitly: content_block_start opens a
// block at an index, content_block_delta appends to it, and
// content_block_stop closes it. The reader keeps one partial block per
// index and emits the finished block when its stop event arrives.
type anthropicStreamReader struct {
	scanner *SSEScanner
	stream  *EventStream
	blocks  []anthropicPartialBlock
}

// anthropicStream wraps a streaming response body in an EventStream.
func anthropicStream(body io.ReadCloser) *EventStream {
	reader := &anthropicStreamReader{scanner: NewSSEScanner(body)}
	reader.stream = NewEventStream(reader.next, body)
	return reader.stream
}

func (reader *anthropicStreamReader) next() (StreamEvent, error) {
	for {
		if !reader.scanner.Next() {
			if err := reader.scanner.Err(); err != nil {
				return StreamEvent{}, fmt.Errorf("llm/anthropic: reading SSE: %w", err)
			}
			return StreamEvent{}, io.EOF
		}

		event, emitted, err := reader.handleEvent(reader.scanner.Event())
		if err != nil {
			return StreamEvent{}, err
		}
		if emitted {
			return event, nil
		}
	}
}

// handleEvent dispatches one SSE event by type. emitted is false for
// events that only update internal state, telling the caller to keep
// reading.
func (reader *anthropicStreamReader) handleEvent(sseEvent SSEEvent) (event StreamEvent, emitted bool, err error) {
	switch sseEvent.Type {
	case "message_start":
		return StreamEvent{}, false, reader.onMessageStart(sseEvent.Data)
	case "content_block_start":
		return StreamEvent{}, false, reader.onBlockStart(sseEvent.Data)
	case "content_block_delta":
		return reader.onBlockDelta(sseEvent.Data)
	case "content_block_stop":
		return reader.onBlockStop(sseEvent.Data)
	case "message_delta":
		return StreamEvent{}, false, reader.onMessageDelta(sseEvent.Data)
	case "message_stop":
		return StreamEvent{Type: EventDone}, true, nil
	case "ping":
		return StreamEvent{Type: EventPing}, true, nil
	case "error":
		return anthropicStreamError(sseEvent.Data), true, nil
	}

	// The API grows event types over time; unknown ones are skipped.
	return StreamEvent{}, false, nil
}

// onMessageStart records the model name and input token count carried
// by the opening envelope.
func (reader *anthropicStreamReader) onMessageStart(data string) error {
	var envelope struct {
		Message struct {
			Model string         `json:"model"`
			Usage anthropicUsage `json:"usage"`
		} `json:"message"`
	}
	if err := json.Unmarshal([]byte(data), &envelope); err != nil {
		return fmt.Errorf("llm/anthropic: parsing message_start: %w", err)
	}
	reader.stream.SetModel(envelope.Message.Model)
	reader.stream.SetUsage(Usage{InputTokens: envelope.Message.Usage.InputTokens})
	return nil
}

// onBlockStart opens a partial block at the event's index.
func (reader *anthropicStreamReader) onBlockStart(data string) error {
	var envelope struct {
		Index        int                   `json:"index"`
		ContentBlock anthropicContentBlock `json:"content_block"`
	}
	if err := json.Unmarshal([]byte(data), &envelope); err != nil {
		return fmt.Errorf("llm/anthropic: parsing content_block_start: %w", err)
	}

	for len(reader.blocks) <= envelope.Index {
		reader.blocks = append(reader.blocks, anthropicPartialBlock{})
	}
	reader.blocks[envelope.Index] = anthropicPartialBlock{
		kind:     envelope.ContentBlock.Type,
		toolID:   envelope.ContentBlock.ID,
		toolName: envelope.ContentBlock.Name,
	}
	return nil
}

// onBlockDelta appends a fragment to its partial block. Text deltas
// surface immediately; tool input JSON is only useful whole, so it
// stays buffered until the block's stop event.
func (reader *anthropicStreamReader) onBlockDelta(data string) (StreamEvent, bool, error) {
	var envelope struct {
		Index int `json:"index"`
		Delta struct {
			Type        string `json:"type"`
			Text        string `json:"text"`
			PartialJSON string `json:"partial_json"`
		} `json:"delta"`
	}
	if err := json.Unmarshal([]byte(data), &envelope); err != nil {
		return StreamEvent{}, false, fmt.Errorf("llm/anthropic: parsing content_block_delta: %w", err)
	}

	if envelope.Index >= len(reader.blocks) {
		// Delta for a block that never started; drop it.
		return StreamEvent{}, false, nil
	}
	block := &reader.blocks[envelope.Index]

	switch envelope.Delta.Type {
	case "text_delta":
		block.text.WriteString(envelope.Delta.Text)
		return StreamEvent{Type: EventTextDelta, Text: envelope.Delta.Text}, true, nil
	case "input_json_delta":
		block.inputJSON.WriteString(envelope.Delta.PartialJSON)
	}
	return StreamEvent{}, false, nil
}

// onBlockStop emits the finished block at the event's index.
func (reader *anthropicStreamReader) onBlockStop(data string) (StreamEvent, bool, error) {
	var envelope struct {
		Index int `json:"index"`
	}
	if err := json.Unmarshal([]byte(data), &envelope); err != nil {
		return StreamEvent{}, false, fmt.Errorf("llm/anthropic: parsing content_block_stop: %w", err)
	}

	if envelope.Index >= len(reader.blocks) {
		return StreamEvent{}, false, nil
	}
	block := reader.blocks[envelope.Index]
	return StreamEvent{
		Type:         EventContentBlockDone,
		ContentBlock: block.toContentBlock(),
	}, true, nil
}

// onMessageDelta records the stop reason and the output token count,
// which this API reports incrementally.
func (reader *anthropicStreamReader) onMessageDelta(data string) error {
	var envelope struct {
		Delta struct {
			StopReason string `json:"stop_reason"`
		} `json:"delta"`
		Usage struct {
			OutputTokens int64 `json:"output_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal([]byte(data), &envelope); err != nil {
		return fmt.Errorf("llm/anthropic: parsing message_delta: %w", err)
	}
	reader.stream.SetStopReason(anthropicStopReason(envelope.Delta.StopReason))
	reader.stream.AddOutputTokens(envelope.Usage.OutputTokens)
	return nil
}

// anthropicStreamError decodes an error event, falling back to the
// raw payload when it does not parse.
func anthropicStreamError(data string) StreamEvent {
	var envelope struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal([]byte(data), &envelope) == nil && envelope.Error.Message != "" {
		return StreamEvent{
			Type:  EventError,
			Error: fmt.Errorf("llm/anthropic: stream error: %s: %s", envelope.Error.Type, envelope.Error.Message),
		}
	}
	return StreamEvent{
		Type:  EventError,
		Error: fmt.Errorf("llm/anthropic: stream error: %s", data),
	}
}

// anthropicPartialBlock is a content block under assembly from stream
// events.
type anthropicPartialBlock struct {
	kind      string
	text      strings.Builder
	inputJSON strings.Builder
	toolID    string
	toolName  string
}

func (block *anthropicPartialBlock) toContentBlock() ContentBlock {
	switch block.kind {
	case "text":
		return TextBlock(block.text.String())
	case "tool_use":
		return ToolUseBlock(block.toolID, block.toolName, json.RawMessage(block.inputJSON.String()))
	}
	// Unknown block kinds survive as text with a type prefix.
	return TextBlock(fmt.Sprintf("[%s] %s", block.kind, block.text.String()))
}

// --- Anthropic wire types ---
//
// JSON shapes of the Messages API. Content blocks on the wire are a
// flat discriminated union keyed by "type", so one struct carries the
// superset of fields rather than mirroring the nested public types.

type anthropicRequest struct {
	Model         string             `json:"model"`
	MaxTokens     int                `json:"max_tokens"`
	System        string             `json:"system,omitempty"`
	Messages      []anthropicMessage `json:"messages"`
	Tools         []anthropicTool    `json:"tools,omitempty"`
	Stream        bool               `json:"stream,omitempty"`
	Temperature   *float64           `json:"temperature,omitempty"`
	StopSequences []string           `json:"stop_sequences,omitempty"`
}

type anthropicMessage struct {
	Role    string                  `json:"role"`
	Content []anthropicContentBlock `json:"content"`
}

type anthropicContentBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   json.RawMessage `json:"content,omitempty"`
	IsError   bool            `json:"is_error,omitempty"`
}

type anthropicTool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"input_schema,omitempty"`
}

type anthropicResponse struct {
	ID         string                  `json:"id"`
	Type       string                  `json:"type"`
	Role       string                  `json:"role"`
	Content    []anthropicContentBlock `json:"content"`
	Model      string                  `json:"model"`
	StopReason string                  `json:"stop_reason"`
	Usage      anthropicUsage          `json:"usage"`
}

type anthropicUsage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}

// anthropicWireMessage converts one Message. Roles map one to one;
// only the content blocks change shape.
func anthropicWireMessage(message Message) anthropicMessage {
	wire := anthropicMessage{Role: string(message.Role)}
	for _, block := range message.Content {
		wire.Content = append(wire.Content, anthropicWireBlock(block))
	}
	return wire
}

func anthropicWireBlock(block ContentBlock) anthropicContentBlock {
	switch block.Type {
	case ContentText:
		return anthropicContentBlock{Type: "text", Text: block.Text}

	case ContentToolUse:
		if block.ToolUse == nil {
			break
		}
		return anthropicContentBlock{
			Type:  "tool_use",
			ID:    block.ToolUse.ID,
			Name:  block.ToolUse.Name,
			Input: block.ToolUse.Input,
		}

	case ContentToolResult:
		if block.ToolResult == nil {
			break
		}
		// The wire field is json.RawMessage; encode the plain string
		// result as a JSON string value.
		resultJSON, _ := json.Marshal(block.ToolResult.Content)
		return anthropicContentBlock{
			Type:      "tool_result",
			ToolUseID: block.ToolResult.ToolUseID,
			Content:   resultJSON,
			IsError:   block.ToolResult.IsError,
		}
	}
	return anthropicContentBlock{Type: string(block.Type)}
}

func (wire *anthropicResponse) toResponse() *Response {
	response := &Response{
		Model:      wire.Model,
		StopReason: anthropicStopReason(wire.StopReason),
		Usage: Usage{
			InputTokens:  wire.Usage.InputTokens,
			OutputTokens: wire.Usage.OutputTokens,
		},
	}
	for _, block := range wire.Content {
		response.Content = append(response.Content, blockFromAnthropic(block))
	}
	return response
}

func blockFromAnthropic(wire anthropicContentBlock) ContentBlock {
	switch wire.Type {
	case "text":
		return TextBlock(wire.Text)
	case "tool_use":
		return ToolUseBlock(wire.ID, wire.Name, wire.Input)
	}
	return TextBlock(fmt.Sprintf("[%s] %s", wire.Type, wire.Text))
}

// anthropicStopReason maps stop_reason onto the common StopReason.
// Unrecognized values pass through as-is.
func anthropicStopReason(reason string) StopReason {
	switch reason {
	case "end_turn":
		return StopReasonEndTurn
	case "tool_use":
		return StopReasonToolUse
	case "max_tokens":
		return StopReasonMaxTokens
	case "stop_sequence":
		return StopReasonStopSequence
	}
	return StopReason(reason)
}
