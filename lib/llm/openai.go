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

// openaiDefaultBaseURL is the public OpenAI API endpoint.
const openaiDefaultBaseURL = "https://api.openai.com/v1"

// OpenAI implements [Provider] for the OpenAI Chat Completions API.
// The API key is sent as a bearer token. With a custom base URL this
// provider serves any API that implements the chat completions wire
// format (OpenAI, Groq, Azure OpenAI, OpenRouter, vLLM, Ollama,
// llama.cpp, etc.).
type OpenAI struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewOpenAI creates an OpenAI-compatible provider from config.
func NewOpenAI(config Config) *OpenAI {
	baseURL := strings.TrimSuffix(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = openaiDefaultBaseURL
	}
	return &OpenAI{
		httpClient: config.httpClient(),
		baseURL:    baseURL,
		apiKey:     config.APIKey,
	}
}

// Complete sends a non-streaming request and returns the full response.
func (provider *OpenAI) Complete(ctx context.Context, request Request) (*Response, error) {
	httpResponse, err := provider.post(ctx, request, false)
	if err != nil {
		return nil, err
	}
	return decodeResponse[openaiResponse](httpResponse, "llm/openai")
}

// Stream sends a streaming request and returns an [EventStream].
func (provider *OpenAI) Stream(ctx context.Context, request Request) (*EventStream, error) {
	httpResponse, err := provider.post(ctx, request, true)
	if err != nil {
		return nil, err
	}
	return openaiStream(httpResponse.Body), nil
}

// post converts the request to wire format and sends it. The caller
// owns the response body on success.
func (provider *OpenAI) post(ctx context.Context, request Request, streaming bool) (*http.Response, error) {
	return doProviderRequest(ctx, provider.httpClient,
		provider.endpoint(), provider.headers(),
		provider.wireRequest(request, streaming), "llm/openai", streaming)
}

// endpoint returns the chat completions URL under the configured base.
func (provider *OpenAI) endpoint() string {
	return provider.baseURL + "/chat/completions"
}

// headers returns the authentication headers for each request.
func (provider *OpenAI) headers() map[string]string {
	if provider.apiKey == "" {
		return nil
	}
	return map[string]string{
		"Authorization": "Bearer " + provider.apiKey,
	}
}

// wireRequest translates a Request into the chat completions JSON
// shape. The system prompt has no dedicated field in this API, so it
// travels as the leading message with role "system".
func (provider *OpenAI) wireRequest(request Request, streaming bool) openaiRequest {
	wire := openaiRequest{
		Model:       request.Model,
		MaxTokens:   request.MaxTokens,
		Temperature: request.Temperature,
		Stop:        request.StopSequences,
	}

	if streaming {
		wire.Stream = true
		// Without include_usage the stream never reports token counts.
		wire.StreamOptions = &openaiStreamOptions{IncludeUsage: true}
	}

	if request.System != "" {
		wire.Messages = append(wire.Messages, openaiMessage{
			Role:    "system",
			Content: openaiText(request.System),
		})
	}
	for _, message := range request.Messages {
		wire.Messages = appendOpenAIMessages(wire.Messages, message)
	}

	for _, tool := range request.Tools {
		wire.Tools = append(wire.Tools, openaiTool{
			Type: "function",
			Function: openaiToolDefinition{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.InputSchema,
			},
		})
	}

	return wire
}

// openaiStreamReader turns the chat completions SSE stream into
// [StreamEvent] values.
//
// The wire protocol is shaped differently from the events this package
// emits: content arrives as bare deltas with no per-block framing, and
// every accumulated block becomes final at once when a chunk carries a
// finish_reason. The reader therefore buffers text and tool-call
// fragments as they stream in, and on finish converts them into
// content_block_done events queued for delivery one per Next call.
type openaiStreamReader struct {
	scanner  *SSEScanner
	stream   *EventStream
	text     strings.Builder
	calls    []*openaiPartialToolCall
	queue    []StreamEvent
	gotModel bool
}

// openaiStream wraps a streaming response body in an EventStream.
func openaiStream(body io.ReadCloser) *EventStream {
	reader := &openaiStreamReader{scanner: NewSSEScanner(body)}
	reader.stream = NewEventStream(reader.next, body)
	return reader.stream
}

func (reader *openaiStreamReader) next() (StreamEvent, error) {
	for {
		// Deliver queued finalized blocks before touching the wire.
		if event, ok := reader.dequeue(); ok {
			return event, nil
		}

		if !reader.scanner.Next() {
			if err := reader.scanner.Err(); err != nil {
				return StreamEvent{}, fmt.Errorf("llm/openai: reading SSE: %w", err)
			}
			return StreamEvent{}, io.EOF
		}

		data := reader.scanner.Event().Data
		if data == "[DONE]" {
			return StreamEvent{Type: EventDone}, nil
		}

		event, emitted, err := reader.handleChunk(data)
		if err != nil {
			return StreamEvent{}, err
		}
		if emitted {
			return event, nil
		}
	}
}

func (reader *openaiStreamReader) dequeue() (StreamEvent, bool) {
	if len(reader.queue) == 0 {
		return StreamEvent{}, false
	}
	event := reader.queue[0]
	reader.queue = reader.queue[1:]
	return event, true
}

// handleChunk processes one SSE data line. It returns an event and
// emitted=true when the chunk produced something to surface; chunks
// that only update internal state report emitted=false so the caller
// keeps reading.
func (reader *openaiStreamReader) handleChunk(data string) (event StreamEvent, emitted bool, err error) {
	var chunk openaiStreamChunk
	if err := json.Unmarshal([]byte(data), &chunk); err != nil {
		return StreamEvent{}, false, fmt.Errorf("llm/openai: parsing stream chunk: %w", err)
	}

	// Failures mid-stream arrive as ordinary data lines carrying an
	// "error" object rather than a distinct SSE event type. A chunk
	// with no choices, usage, or model is the tell.
	if len(chunk.Choices) == 0 && chunk.Usage == nil && chunk.Model == "" {
		if event, ok := openaiStreamError(data); ok {
			return event, true, nil
		}
	}

	if !reader.gotModel && chunk.Model != "" {
		reader.stream.SetModel(chunk.Model)
		reader.gotModel = true
	}

	// With include_usage set, the token counts ride on a trailing
	// chunk whose choices array is empty.
	if chunk.Usage != nil {
		reader.stream.SetUsage(Usage{
			InputTokens:  chunk.Usage.PromptTokens,
			OutputTokens: chunk.Usage.CompletionTokens,
		})
	}

	if len(chunk.Choices) == 0 {
		return StreamEvent{}, false, nil
	}
	choice := chunk.Choices[0]

	if choice.Delta.Content != "" {
		reader.text.WriteString(choice.Delta.Content)
		return StreamEvent{Type: EventTextDelta, Text: choice.Delta.Content}, true, nil
	}

	reader.absorbToolDeltas(choice.Delta.ToolCalls)

	if choice.FinishReason != nil {
		reader.stream.SetStopReason(openaiStopReason(*choice.FinishReason))
		reader.flushBlocks()
		if event, ok := reader.dequeue(); ok {
			return event, true, nil
		}
	}

	return StreamEvent{}, false, nil
}

// absorbToolDeltas merges tool-call fragments into the partial calls,
// keyed by the wire index. The first fragment for a call carries the
// ID and name; later ones append argument JSON.
func (reader *openaiStreamReader) absorbToolDeltas(deltas []openaiStreamToolCall) {
	for _, delta := range deltas {
		for len(reader.calls) <= delta.Index {
			reader.calls = append(reader.calls, &openaiPartialToolCall{})
		}
		call := reader.calls[delta.Index]
		if delta.ID != "" {
			call.id = delta.ID
		}
		if delta.Function == nil {
			continue
		}
		if delta.Function.Name != "" {
			call.name = delta.Function.Name
		}
		call.arguments.WriteString(delta.Function.Arguments)
	}
}

// flushBlocks queues the accumulated text and tool calls as finalized
// content blocks, text first to match the order the model produced it.
func (reader *openaiStreamReader) flushBlocks() {
	if reader.text.Len() > 0 {
		reader.queue = append(reader.queue, StreamEvent{
			Type:         EventContentBlockDone,
			ContentBlock: TextBlock(reader.text.String()),
		})
	}
	for i := range reader.calls {
		reader.queue = append(reader.queue, StreamEvent{
			Type:         EventContentBlockDone,
			ContentBlock: reader.calls[i].toContentBlock(),
		})
	}
}

// openaiStreamError decodes an in-stream error payload. ok is false
// when the data line is not an error object.
func openaiStreamError(data string) (event StreamEvent, ok bool) {
	var payload struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal([]byte(data), &payload) != nil || payload.Error.Message == "" {
		return StreamEvent{}, false
	}
	return StreamEvent{
		Type:  EventError,
		Error: fmt.Errorf("llm/openai: stream error: %s: %s", payload.Error.Type, payload.Error.Message),
	}, true
}

// openaiPartialToolCall is a tool call under assembly from stream
// fragments.
type openaiPartialToolCall struct {
	id        string
	name      string
	arguments strings.Builder
}

func (call *openaiPartialToolCall) toContentBlock() ContentBlock {
	return ToolUseBlock(call.id, call.name, json.RawMessage(call.arguments.String()))
}

// --- OpenAI wire types ---
//
// JSON shapes of the Chat Completions API, kept separate from the
// public types because the field names and nesting differ.
//
// openaiMessage.Content is a json.RawMessage because the API accepts
// either a bare JSON string or an array of typed content parts in that
// position. Text-only traffic uses the string form; the raw type
// leaves room for the array form without reshaping the struct.

type openaiRequest struct {
	Model         string               `json:"model"`
	Messages      []openaiMessage      `json:"messages"`
	Tools         []openaiTool         `json:"tools,omitempty"`
	MaxTokens     int                  `json:"max_tokens"`
	Temperature   *float64             `json:"temperature,omitempty"`
	Stop          []string             `json:"stop,omitempty"`
	Stream        bool                 `json:"stream,omitempty"`
	StreamOptions *openaiStreamOptions `json:"stream_options,omitempty"`
}

type openaiStreamOptions struct {
	IncludeUsage bool `json:"include_usage"`
}

type openaiMessage struct {
	Role       string           `json:"role"`
	Content    json.RawMessage  `json:"content,omitempty"`
	ToolCalls  []openaiToolCall `json:"tool_calls,omitempty"`
	ToolCallID string           `json:"tool_call_id,omitempty"`
}

type openaiToolCall struct {
	ID       string             `json:"id"`
	Type     string             `json:"type"`
	Function openaiToolFunction `json:"function"`
}

type openaiToolFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type openaiTool struct {
	Type     string               `json:"type"`
	Function openaiToolDefinition `json:"function"`
}

type openaiToolDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

type openaiResponse struct {
	ID      string         `json:"id"`
	Model   string         `json:"model"`
	Choices []openaiChoice `json:"choices"`
	Usage   openaiUsage    `json:"usage"`
}

type openaiChoice struct {
	Index        int           `json:"index"`
	Message      openaiMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type openaiUsage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
}

// Streaming chunks reuse the response envelope but carry a "delta" in
// place of "message", an index on each tool_call fragment, and a null
// finish_reason until the closing chunk.

type openaiStreamChunk struct {
	ID      string               `json:"id"`
	Model   string               `json:"model"`
	Choices []openaiStreamChoice `json:"choices"`
	Usage   *openaiUsage         `json:"usage,omitempty"`
}

type openaiStreamChoice struct {
	Index        int               `json:"index"`
	Delta        openaiStreamDelta `json:"delta"`
	FinishReason *string           `json:"finish_reason"`
}

type openaiStreamDelta struct {
	Role      string                 `json:"role,omitempty"`
	Content   string                 `json:"content,omitempty"`
	ToolCalls []openaiStreamToolCall `json:"tool_calls,omitempty"`
}

type openaiStreamToolCall struct {
	Index    int                       `json:"index"`
	ID       string                    `json:"id,omitempty"`
	Type     string                    `json:"type,omitempty"`
	Function *openaiStreamToolFunction `json:"function,omitempty"`
}

type openaiStreamToolFunction struct {
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

// openaiText wraps plain text in the JSON string form of the content
// field.
func openaiText(text string) json.RawMessage {
	data, _ := json.Marshal(text)
	return data
}

// openaiMessageText unwraps a content field holding the JSON string
// form. Empty content, or the content-parts array form, yields "".
func openaiMessageText(content json.RawMessage) string {
	if len(content) == 0 {
		return ""
	}
	var text string
	if json.Unmarshal(content, &text) == nil {
		return text
	}
	return ""
}

// appendOpenAIMessages appends the wire form of one Message to dst.
// A single Message can expand to several wire messages: the API wants
// each tool result as its own role "tool" message instead of a content
// block inside the user turn.
func appendOpenAIMessages(dst []openaiMessage, message Message) []openaiMessage {
	switch message.Role {
	case RoleAssistant:
		return append(dst, openaiAssistantMessage(message))
	case RoleUser:
		return appendOpenAIUserMessages(dst, message)
	}

	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == ContentText {
			text.WriteString(block.Text)
		}
	}
	return append(dst, openaiMessage{
		Role:    string(message.Role),
		Content: openaiText(text.String()),
	})
}

// openaiAssistantMessage splits an assistant turn into the content
// string and the tool_calls array the wire format wants.
func openaiAssistantMessage(message Message) openaiMessage {
	wire := openaiMessage{Role: "assistant"}

	var parts []string
	for _, block := range message.Content {
		switch block.Type {
		case ContentText:
			parts = append(parts, block.Text)
		case ContentToolUse:
			if block.ToolUse == nil {
				continue
			}
			wire.ToolCalls = append(wire.ToolCalls, openaiToolCall{
				ID:   block.ToolUse.ID,
				Type: "function",
				Function: openaiToolFunction{
					Name:      block.ToolUse.Name,
					Arguments: string(block.ToolUse.Input),
				},
			})
		}
	}

	if len(parts) > 0 {
		wire.Content = openaiText(strings.Join(parts, ""))
	}
	return wire
}

// appendOpenAIUserMessages expands a user turn. Runs of text become
// role "user" messages and each tool result becomes a role "tool"
// message, preserving the original block order.
func appendOpenAIUserMessages(dst []openaiMessage, message Message) []openaiMessage {
	start := len(dst)

	var parts []string
	flush := func() {
		if len(parts) == 0 {
			return
		}
		dst = append(dst, openaiMessage{
			Role:    "user",
			Content: openaiText(strings.Join(parts, "")),
		})
		parts = nil
	}

	for _, block := range message.Content {
		switch block.Type {
		case ContentText:
			parts = append(parts, block.Text)
		case ContentToolResult:
			if block.ToolResult == nil {
				continue
			}
			flush()
			dst = append(dst, openaiMessage{
				Role:       "tool",
				Content:    openaiText(block.ToolResult.Content),
				ToolCallID: block.ToolResult.ToolUseID,
			})
		}
	}
	flush()

	// A turn with no recognized blocks still produces one wire
	// message, or the conversation would silently lose a turn.
	if len(dst) == start {
		dst = append(dst, openaiMessage{Role: "user", Content: openaiText("")})
	}

	return dst
}

func (wire *openaiResponse) toResponse() *Response {
	response := &Response{
		Model: wire.Model,
		Usage: Usage{
			InputTokens:  wire.Usage.PromptTokens,
			OutputTokens: wire.Usage.CompletionTokens,
		},
	}
	if len(wire.Choices) == 0 {
		return response
	}

	choice := wire.Choices[0]
	response.StopReason = openaiStopReason(choice.FinishReason)

	if text := openaiMessageText(choice.Message.Content); text != "" {
		response.Content = append(response.Content, TextBlock(text))
	}
	for _, call := range choice.Message.ToolCalls {
		response.Content = append(response.Content, ToolUseBlock(
			call.ID, call.Function.Name, json.RawMessage(call.Function.Arguments)))
	}

	return response
}

// openaiStopReason maps finish_reason onto the common StopReason.
// Unrecognized values (content_filter among them) pass through as-is.
func openaiStopReason(reason string) StopReason {
	switch reason {
	case "stop":
		return StopReasonEndTurn
	case "tool_calls":
		return StopReasonToolUse
	case "length":
		return StopReasonMaxTokens
	}
	return StopReason(reason)
}
