// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package agentclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/trackdeck/trackdeck/lib/schema/chat"
)

// newTestClient starts a service stub on mux and returns a client
// pointed at it.
func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := New(Config{
		BaseURL:    server.URL + "/", // trailing slash must not double up paths
		AuthSecret: "test-secret",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func TestNewValidatesBaseURL(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("New with empty BaseURL did not fail")
	}
	if _, err := New(Config{BaseURL: "ftp://example.com"}); err == nil {
		t.Error("New with non-HTTP scheme did not fail")
	}
	if _, err := New(Config{BaseURL: "http://localhost:8080"}); err != nil {
		t.Errorf("New with valid BaseURL: %v", err)
	}
}

func TestInvoke(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /invoke", func(writer http.ResponseWriter, request *http.Request) {
		if got := request.Header.Get("Authorization"); got != "Bearer test-secret" {
			t.Errorf("Authorization = %q", got)
		}
		var input chat.UserInput
		if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
			t.Fatalf("decoding input: %v", err)
		}
		if input.Message != "What is in the sprint?" || input.ThreadID != "thread-1" {
			t.Errorf("input = %+v", input)
		}
		json.NewEncoder(writer).Encode(chat.ChatMessage{
			Type:    chat.MessageTypeAI,
			Content: "The sprint holds three issues.",
			RunID:   "run-1",
		})
	})
	client := newTestClient(t, mux)

	message, err := client.Invoke(context.Background(), chat.UserInput{
		Message:  "What is in the sprint?",
		ThreadID: "thread-1",
	})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if message.Content != "The sprint holds three issues." {
		t.Errorf("content = %q", message.Content)
	}
	if message.RunID != "run-1" {
		t.Errorf("run_id = %q", message.RunID)
	}
}

func TestInvokeAgentAddressesPath(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /triage-agent/invoke", func(writer http.ResponseWriter, request *http.Request) {
		json.NewEncoder(writer).Encode(chat.ChatMessage{
			Type:    chat.MessageTypeAI,
			Content: "Filed under bugs.",
		})
	})
	client := newTestClient(t, mux)

	message, err := client.InvokeAgent(context.Background(), "triage-agent",
		chat.UserInput{Message: "New crash report"})
	if err != nil {
		t.Fatalf("InvokeAgent: %v", err)
	}
	if message.Content != "Filed under bugs." {
		t.Errorf("content = %q", message.Content)
	}

	if _, err := client.InvokeAgent(context.Background(), "", chat.UserInput{Message: "Hi"}); err == nil {
		t.Error("InvokeAgent with empty key did not fail")
	}
}

func TestInvokeAPIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /invoke", func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(writer).Encode(map[string]any{"detail": "message is required"})
	})
	client := newTestClient(t, mux)

	_, err := client.Invoke(context.Background(), chat.UserInput{})
	if err == nil {
		t.Fatal("Invoke did not fail")
	}
	var apiError *APIError
	if !errors.As(err, &apiError) {
		t.Fatalf("error %T is not *APIError", err)
	}
	if apiError.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", apiError.StatusCode)
	}
	if apiError.Detail != "message is required" {
		t.Errorf("detail = %q", apiError.Detail)
	}
}

func TestStream(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /stream", func(writer http.ResponseWriter, request *http.Request) {
		if got := request.Header.Get("Accept"); got != "text/event-stream" {
			t.Errorf("Accept = %q", got)
		}
		writer.Header().Set("Content-Type", "text/event-stream")
		writeEvent := func(event chat.StreamEvent) {
			payload, err := json.Marshal(event)
			if err != nil {
				t.Fatalf("marshaling event: %v", err)
			}
			fmt.Fprintf(writer, "data: %s\n\n", payload)
		}
		writeEvent(chat.StreamEvent{Type: chat.StreamEventToken, Token: "Hel"})
		writeEvent(chat.StreamEvent{Type: chat.StreamEventToken, Token: "lo!"})
		writeEvent(chat.StreamEvent{Type: chat.StreamEventMessage, Message: &chat.ChatMessage{
			Type:    chat.MessageTypeAI,
			Content: "Hello!",
			RunID:   "run-9",
		}})
		fmt.Fprintf(writer, "data: %s\n\n", chat.StreamDone)
	})
	client := newTestClient(t, mux)

	stream, err := client.Stream(context.Background(), chat.StreamInput{
		UserInput: chat.UserInput{Message: "Hi"},
	})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	defer stream.Close()

	var tokens string
	var messages []chat.ChatMessage
	for {
		event, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		switch event.Type {
		case chat.StreamEventToken:
			tokens += event.Token
		case chat.StreamEventMessage:
			messages = append(messages, *event.Message)
		}
	}

	if tokens != "Hello!" {
		t.Errorf("tokens = %q", tokens)
	}
	if len(messages) != 1 || messages[0].RunID != "run-9" {
		t.Errorf("messages = %+v", messages)
	}

	// EOF is sticky.
	if _, err := stream.Next(); err != io.EOF {
		t.Errorf("Next after EOF = %v, want io.EOF", err)
	}
}

func TestStreamBrokenBeforeDone(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /stream", func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintf(writer, "data: {\"type\":\"token\",\"content\":\"Hel\"}\n\n")
		// Connection ends without the done marker.
	})
	client := newTestClient(t, mux)

	stream, err := client.Stream(context.Background(), chat.StreamInput{
		UserInput: chat.UserInput{Message: "Hi"},
	})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	defer stream.Close()

	if _, err := stream.Next(); err != nil {
		t.Fatalf("first Next: %v", err)
	}
	_, err = stream.Next()
	if err == nil || err == io.EOF {
		t.Fatalf("Next after broken stream = %v, want error", err)
	}
	if !strings.Contains(err.Error(), chat.StreamDone) {
		t.Errorf("error = %q, want mention of the done marker", err)
	}
}

func TestStreamAPIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /no-such-agent/stream", func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(http.StatusNotFound)
		json.NewEncoder(writer).Encode(map[string]any{"detail": "Agent not found"})
	})
	client := newTestClient(t, mux)

	_, err := client.StreamAgent(context.Background(), "no-such-agent",
		chat.StreamInput{UserInput: chat.UserInput{Message: "Hi"}})
	var apiError *APIError
	if !errors.As(err, &apiError) {
		t.Fatalf("error %T is not *APIError", err)
	}
	if apiError.StatusCode != http.StatusNotFound || apiError.Detail != "Agent not found" {
		t.Errorf("apiError = %+v", apiError)
	}
}

func TestFeedback(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /feedback", func(writer http.ResponseWriter, request *http.Request) {
		var feedback chat.Feedback
		if err := json.NewDecoder(request.Body).Decode(&feedback); err != nil {
			t.Fatalf("decoding feedback: %v", err)
		}
		if feedback.RunID != "run-1" || feedback.Score != 0.8 {
			t.Errorf("feedback = %+v", feedback)
		}
		json.NewEncoder(writer).Encode(chat.FeedbackResponse{Status: "success"})
	})
	client := newTestClient(t, mux)

	err := client.Feedback(context.Background(), chat.Feedback{
		RunID: "run-1",
		Key:   "human-feedback-stars",
		Score: 0.8,
	})
	if err != nil {
		t.Errorf("Feedback: %v", err)
	}
}

func TestHistory(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /history", func(writer http.ResponseWriter, request *http.Request) {
		var input chat.ChatHistoryInput
		if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
			t.Fatalf("decoding input: %v", err)
		}
		if input.ThreadID != "thread-4" {
			t.Errorf("thread_id = %q", input.ThreadID)
		}
		json.NewEncoder(writer).Encode(chat.ChatHistory{Messages: []chat.ChatMessage{
			{Type: chat.MessageTypeHuman, Content: "Hi"},
			{Type: chat.MessageTypeAI, Content: "Hello!"},
		}})
	})
	client := newTestClient(t, mux)

	history, err := client.History(context.Background(), "thread-4")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(history.Messages))
	}
	if history.Messages[1].Content != "Hello!" {
		t.Errorf("second message = %+v", history.Messages[1])
	}
}

func TestInfo(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /info", func(writer http.ResponseWriter, request *http.Request) {
		json.NewEncoder(writer).Encode(chat.ServiceInfo{
			Agents:       []chat.AgentInfo{{Key: "jira-assistant", Description: "A JIRA assistant."}},
			Models:       []string{"gpt-4o-mini", "gpt-4o"},
			DefaultAgent: "jira-assistant",
			DefaultModel: "gpt-4o-mini",
		})
	})
	client := newTestClient(t, mux)

	info, err := client.Info(context.Background())
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.DefaultAgent != "jira-assistant" || len(info.Models) != 2 {
		t.Errorf("info = %+v", info)
	}
}

func TestHealth(t *testing.T) {
	status := "ok"
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(writer http.ResponseWriter, request *http.Request) {
		json.NewEncoder(writer).Encode(chat.HealthResponse{Status: status})
	})
	client := newTestClient(t, mux)

	if err := client.Health(context.Background()); err != nil {
		t.Errorf("Health: %v", err)
	}

	status = "degraded"
	err := client.Health(context.Background())
	if err == nil || !strings.Contains(err.Error(), "degraded") {
		t.Errorf("Health with degraded status = %v, want error naming it", err)
	}
}
