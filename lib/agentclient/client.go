// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

// Package agentclient provides a typed client for the agent service
// API.
//
// The client covers every route the service exposes: Invoke and
// Stream (with the Agent variants addressing a specific assistant),
// Feedback, History, Info, and Health. Request and response bodies are
// the shapes of lib/schema/chat, so a program using the client never
// touches wire JSON.
//
// API-level failures are returned as *APIError carrying the HTTP
// status code and the service's detail message. Streaming responses
// are consumed through [EventStream], which yields chat.StreamEvent
// values until the service's done marker.
package agentclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/trackdeck/trackdeck/lib/llm"
	"github.com/trackdeck/trackdeck/lib/netutil"
	"github.com/trackdeck/trackdeck/lib/schema/chat"
)

// Config holds the settings for constructing a Client.
type Config struct {
	// BaseURL is the service root, e.g. "http://localhost:8080".
	BaseURL string

	// AuthSecret is the bearer token expected by the service. Empty
	// sends no Authorization header.
	AuthSecret string

	// HTTPClient is the HTTP client for API requests. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client

	// Timeout bounds the non-streaming calls. Zero means no deadline
	// beyond the caller's context. Stream is never subject to it; an
	// agent run legitimately outlives any sensible request timeout.
	Timeout time.Duration
}

// Client is an agent service API client. Construct with New. The zero
// value is not usable.
type Client struct {
	baseURL    string
	authSecret string
	httpClient *http.Client
	timeout    time.Duration
}

// New validates the configuration and returns a Client.
func New(config Config) (*Client, error) {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("agentclient: BaseURL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("agentclient: invalid BaseURL %q: %w", config.BaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("agentclient: BaseURL %q must use http or https", config.BaseURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    baseURL,
		authSecret: config.AuthSecret,
		httpClient: httpClient,
		timeout:    config.Timeout,
	}, nil
}

// APIError is a non-2xx response from the service.
type APIError struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Detail is the service's error description.
	Detail string
}

func (err *APIError) Error() string {
	return fmt.Sprintf("agentclient: HTTP %d: %s", err.StatusCode, err.Detail)
}

// Invoke runs the default agent to completion and returns its final
// message.
func (client *Client) Invoke(ctx context.Context, input chat.UserInput) (*chat.ChatMessage, error) {
	return client.invoke(ctx, "/invoke", input)
}

// InvokeAgent runs the named agent to completion and returns its
// final message.
func (client *Client) InvokeAgent(ctx context.Context, agentKey string, input chat.UserInput) (*chat.ChatMessage, error) {
	if agentKey == "" {
		return nil, fmt.Errorf("agentclient: agent key is required")
	}
	return client.invoke(ctx, "/"+url.PathEscape(agentKey)+"/invoke", input)
}

func (client *Client) invoke(ctx context.Context, path string, input chat.UserInput) (*chat.ChatMessage, error) {
	var message chat.ChatMessage
	if err := client.post(ctx, path, input, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

// Stream runs the default agent, yielding events as they arrive.
// The caller must close the returned stream.
func (client *Client) Stream(ctx context.Context, input chat.StreamInput) (*EventStream, error) {
	return client.stream(ctx, "/stream", input)
}

// StreamAgent runs the named agent, yielding events as they arrive.
// The caller must close the returned stream.
func (client *Client) StreamAgent(ctx context.Context, agentKey string, input chat.StreamInput) (*EventStream, error) {
	if agentKey == "" {
		return nil, fmt.Errorf("agentclient: agent key is required")
	}
	return client.stream(ctx, "/"+url.PathEscape(agentKey)+"/stream", input)
}

// Feedback records feedback for a run.
func (client *Client) Feedback(ctx context.Context, feedback chat.Feedback) error {
	var response chat.FeedbackResponse
	return client.post(ctx, "/feedback", feedback, &response)
}

// History returns the transcript of a thread. Unknown threads come
// back empty, not as an error.
func (client *Client) History(ctx context.Context, threadID string) (*chat.ChatHistory, error) {
	var history chat.ChatHistory
	input := chat.ChatHistoryInput{ThreadID: threadID}
	if err := client.post(ctx, "/history", input, &history); err != nil {
		return nil, err
	}
	return &history, nil
}

// Info describes the service: hosted agents, served models, and the
// defaults.
func (client *Client) Info(ctx context.Context) (*chat.ServiceInfo, error) {
	var info chat.ServiceInfo
	if err := client.get(ctx, "/info", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Health checks that the service is up and reporting healthy.
func (client *Client) Health(ctx context.Context) error {
	var response chat.HealthResponse
	if err := client.get(ctx, "/health", &response); err != nil {
		return err
	}
	if response.Status != "ok" {
		return fmt.Errorf("agentclient: service unhealthy: %q", response.Status)
	}
	return nil
}

func (client *Client) get(ctx context.Context, path string, result any) error {
	return client.do(ctx, http.MethodGet, path, nil, result)
}

func (client *Client) post(ctx context.Context, path string, requestBody, result any) error {
	return client.do(ctx, http.MethodPost, path, requestBody, result)
}

// do performs one non-streaming API request: JSON in, JSON out, with
// the configured timeout applied on top of the caller's context.
func (client *Client) do(ctx context.Context, method, path string, requestBody, result any) error {
	if client.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, client.timeout)
		defer cancel()
	}

	response, err := client.send(ctx, method, path, requestBody, false)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	body, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return fmt.Errorf("agentclient: reading response body: %w", err)
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("agentclient: decoding response: %w", err)
	}
	return nil
}

func (client *Client) stream(ctx context.Context, path string, input chat.StreamInput) (*EventStream, error) {
	response, err := client.send(ctx, http.MethodPost, path, input, true)
	if err != nil {
		return nil, err
	}
	return &EventStream{
		scanner: llm.NewSSEScanner(response.Body),
		body:    response.Body,
	}, nil
}

// send issues the request and maps any non-2xx response to *APIError.
// On success the caller owns the response body.
func (client *Client) send(ctx context.Context, method, path string, requestBody any, streaming bool) (*http.Response, error) {
	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("agentclient: encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("agentclient: creating request: %w", err)
	}
	if client.authSecret != "" {
		request.Header.Set("Authorization", "Bearer "+client.authSecret)
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if streaming {
		request.Header.Set("Accept", "text/event-stream")
	} else {
		request.Header.Set("Accept", "application/json")
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("agentclient: %s %s: %w", method, path, err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		defer response.Body.Close()
		return nil, parseAPIError(response.StatusCode, netutil.ErrorBody(response.Body))
	}
	return response, nil
}

// parseAPIError decodes the service's {"detail": ...} error envelope,
// falling back to the raw body for anything else.
func parseAPIError(statusCode int, body []byte) *APIError {
	var wire struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &wire) == nil && wire.Detail != "" {
		return &APIError{StatusCode: statusCode, Detail: wire.Detail}
	}
	return &APIError{StatusCode: statusCode, Detail: strings.TrimSpace(string(body))}
}

// EventStream reads the events of one streamed run. It is not safe
// for concurrent use.
type EventStream struct {
	scanner *llm.SSEScanner
	body    io.Closer
	done    bool
}

// Next returns the next event. It returns io.EOF after the service's
// done marker; any other error means the stream broke early.
func (stream *EventStream) Next() (chat.StreamEvent, error) {
	if stream.done {
		return chat.StreamEvent{}, io.EOF
	}

	if !stream.scanner.Next() {
		stream.done = true
		if err := stream.scanner.Err(); err != nil {
			return chat.StreamEvent{}, fmt.Errorf("agentclient: reading stream: %w", err)
		}
		return chat.StreamEvent{}, fmt.Errorf("agentclient: stream ended without %q", chat.StreamDone)
	}

	data := stream.scanner.Event().Data
	if data == chat.StreamDone {
		stream.done = true
		return chat.StreamEvent{}, io.EOF
	}

	var event chat.StreamEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return chat.StreamEvent{}, fmt.Errorf("agentclient: decoding stream event %q: %w", data, err)
	}
	return event, nil
}

// Close releases the underlying connection. Always call it, even
// after Next returned an error.
func (stream *EventStream) Close() error {
	return stream.body.Close()
}
