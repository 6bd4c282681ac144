// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/trackdeck/trackdeck/lib/netutil"
)

// Provider is the interface to an LLM backend. Implementations map
// the common types in this package onto one vendor's wire format and
// back.
type Provider interface {
	// Complete sends a request and blocks until the full response
	// is available.
	Complete(ctx context.Context, request Request) (*Response, error)

	// Stream sends a request and returns an [EventStream] yielding
	// events as they arrive. The caller must call [EventStream.Close]
	// when done, even if iteration ended early.
	Stream(ctx context.Context, request Request) (*EventStream, error)
}

// Config holds the connection settings for a provider backend.
type Config struct {
	// BaseURL is the root of the vendor API without a trailing slash,
	// e.g. "https://api.openai.com/v1". Empty selects the provider's
	// public endpoint.
	BaseURL string

	// APIKey authenticates requests. [OpenAI] sends it as a bearer
	// token; [Anthropic] sends it as x-api-key. Empty omits the
	// credential entirely, which suits local inference servers.
	APIKey string

	// HTTPClient overrides the client used for requests. Nil selects
	// a client without a timeout; streaming responses stay open far
	// longer than any sensible request timeout, so cancellation is
	// the caller's context's job.
	HTTPClient *http.Client
}

func (config Config) httpClient() *http.Client {
	if config.HTTPClient != nil {
		return config.HTTPClient
	}
	return &http.Client{}
}

// nextFunc pulls the next event from a provider stream reader. It
// returns io.EOF once the stream ends.
type nextFunc func() (StreamEvent, error)

// EventStream is the consumer side of a streaming response. [Next]
// yields events one at a time while the stream builds up the complete
// [Response] behind the scenes; once Next reports [io.EOF], [Response]
// returns the assembled result.
//
// Not safe for concurrent use.
type EventStream struct {
	next      nextFunc
	closer    io.Closer
	response  Response
	mutex     sync.Mutex
	exhausted bool
}

// NewEventStream builds an EventStream around a provider-specific
// pull function and the resource to release on Close, usually the
// HTTP response body.
//
// next must yield (event, nil) per event and (zero, io.EOF) at end of
// stream. Response assembly happens here; the pull function only
// decodes.
func NewEventStream(next nextFunc, closer io.Closer) *EventStream {
	return &EventStream{
		next:   next,
		closer: closer,
	}
}

// Next returns the next event, or io.EOF once the stream is done.
// Iterate until io.EOF, then collect the result from [Response]:
//
//	for {
//	    event, err := stream.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    // handle event
//	}
//	response := stream.Response()
func (stream *EventStream) Next() (StreamEvent, error) {
	if stream.exhausted {
		return StreamEvent{}, io.EOF
	}

	event, err := stream.next()
	if err == io.EOF {
		stream.exhausted = true
	}
	if err != nil {
		return event, err
	}

	if event.Type == EventContentBlockDone {
		stream.appendBlock(event.ContentBlock)
	}
	return event, nil
}

// Response returns the response assembled so far. It is complete only
// after [Next] has reported [io.EOF].
func (stream *EventStream) Response() Response {
	stream.mutex.Lock()
	defer stream.mutex.Unlock()
	return stream.response
}

// Close releases the underlying HTTP response body. Required even
// when iteration stopped early.
func (stream *EventStream) Close() error {
	if stream.closer != nil {
		return stream.closer.Close()
	}
	return nil
}

func (stream *EventStream) appendBlock(block ContentBlock) {
	stream.mutex.Lock()
	defer stream.mutex.Unlock()
	stream.response.Content = append(stream.response.Content, block)
}

// The setters below are for provider stream readers. Each wire
// protocol reveals response metadata at different points, so readers
// record fields on the assembled response as they learn them.

// SetStopReason records the stop reason on the assembled response.
func (stream *EventStream) SetStopReason(reason StopReason) {
	stream.mutex.Lock()
	defer stream.mutex.Unlock()
	stream.response.StopReason = reason
}

// SetUsage records the token usage on the assembled response.
func (stream *EventStream) SetUsage(usage Usage) {
	stream.mutex.Lock()
	defer stream.mutex.Unlock()
	stream.response.Usage = usage
}

// SetModel records the model name on the assembled response.
func (stream *EventStream) SetModel(model string) {
	stream.mutex.Lock()
	defer stream.mutex.Unlock()
	stream.response.Model = model
}

// AddOutputTokens adds to the output token count, for protocols that
// report usage incrementally (Anthropic's message_delta carries only
// output_tokens).
func (stream *EventStream) AddOutputTokens(count int64) {
	stream.mutex.Lock()
	defer stream.mutex.Unlock()
	stream.response.Usage.OutputTokens += count
}

// ProviderError is an error response from the LLM API.
type ProviderError struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Type is the vendor's error type string, e.g.
	// "invalid_request_error" or "rate_limit_error".
	Type string

	// Message is the human-readable error description.
	Message string
}

func (err *ProviderError) Error() string {
	if err.Type != "" {
		return fmt.Sprintf("llm: HTTP %d: %s: %s", err.StatusCode, err.Type, err.Message)
	}
	return fmt.Sprintf("llm: HTTP %d: %s", err.StatusCode, err.Message)
}

// IsRateLimited reports whether the error is a rate limit response
// (HTTP 429).
func (err *ProviderError) IsRateLimited() bool {
	return err.StatusCode == 429
}

// IsOverloaded reports whether the error is a server overload
// response (HTTP 529).
func (err *ProviderError) IsOverloaded() bool {
	return err.StatusCode == 529
}

// doProviderRequest sends wireRequest as a JSON POST to endpoint and
// hands back the HTTP response. headers carries the per-provider
// authentication (bearer token, x-api-key, API version); streaming
// additionally asks for text/event-stream. Non-200 statuses come back
// as a *ProviderError with the body already closed; on success the
// caller owns the body.
func doProviderRequest(ctx context.Context, httpClient *http.Client, endpoint string, headers map[string]string, wireRequest any, prefix string, streaming bool) (*http.Response, error) {
	payload, err := json.Marshal(wireRequest)
	if err != nil {
		return nil, fmt.Errorf("%s: marshaling request: %w", prefix, err)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost,
		endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%s: creating request: %w", prefix, err)
	}
	httpRequest.Header.Set("Content-Type", "application/json")
	if streaming {
		httpRequest.Header.Set("Accept", "text/event-stream")
	}
	for name, value := range headers {
		httpRequest.Header.Set(name, value)
	}

	httpResponse, err := httpClient.Do(httpRequest)
	if err != nil {
		return nil, fmt.Errorf("%s: sending request: %w", prefix, err)
	}

	if httpResponse.StatusCode != http.StatusOK {
		defer httpResponse.Body.Close()
		return nil, readProviderError(httpResponse)
	}

	return httpResponse, nil
}

// wireResponse constrains decodeResponse to pointer-to-struct wire
// types that know how to become the common Response.
type wireResponse[T any] interface {
	*T
	toResponse() *Response
}

// decodeResponse decodes a JSON body into the provider's wire type
// and converts it. The body is closed before returning.
func decodeResponse[T any, P wireResponse[T]](httpResponse *http.Response, prefix string) (*Response, error) {
	defer httpResponse.Body.Close()

	wire := P(new(T))
	if err := json.NewDecoder(httpResponse.Body).Decode(wire); err != nil {
		return nil, fmt.Errorf("%s: decoding response: %w", prefix, err)
	}

	return wire.toResponse(), nil
}

// readProviderError parses the error body shape shared by Anthropic,
// OpenAI, and compatible APIs: {"error":{"type":...,"message":...}}.
// Extra vendor fields (OpenAI's "code", "param") are ignored, and an
// unparseable body is preserved verbatim as the message.
func readProviderError(httpResponse *http.Response) error {
	body := netutil.ErrorBody(httpResponse.Body)

	var wireError struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &wireError) == nil && wireError.Error.Message != "" {
		return &ProviderError{
			StatusCode: httpResponse.StatusCode,
			Type:       wireError.Error.Type,
			Message:    wireError.Error.Message,
		}
	}

	return &ProviderError{
		StatusCode: httpResponse.StatusCode,
		Message:    string(body),
	}
}
