// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package jira

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newTestClient returns a Client pointed at a test server. The server URL is
// loopback HTTP, which NewClient accepts without TLS.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		BaseURL:  server.URL,
		Email:    "agent@example.com",
		APIToken: "jira-api-token",
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func jsonResponse(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprint(w, body)
}

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name:    "missing base URL",
			config:  Config{Email: "a@example.com", APIToken: "t"},
			wantErr: "BaseURL is required",
		},
		{
			name:    "missing email",
			config:  Config{BaseURL: "https://example.atlassian.net", APIToken: "t"},
			wantErr: "Email is required",
		},
		{
			name:    "missing API token",
			config:  Config{BaseURL: "https://example.atlassian.net", Email: "a@example.com"},
			wantErr: "APIToken is required",
		},
		{
			name:    "plain HTTP to remote host",
			config:  Config{BaseURL: "http://jira.example.com", Email: "a@example.com", APIToken: "t"},
			wantErr: "must use https",
		},
		{
			name:    "unsupported scheme",
			config:  Config{BaseURL: "ftp://example.atlassian.net", Email: "a@example.com", APIToken: "t"},
			wantErr: "must use https",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewClient(test.config)
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", test.wantErr)
			}
			if !strings.Contains(err.Error(), test.wantErr) {
				t.Fatalf("error %q does not contain %q", err, test.wantErr)
			}
		})
	}
}

func TestNewClient_AcceptsHTTPSAndLoopback(t *testing.T) {
	for _, baseURL := range []string{
		"https://example.atlassian.net",
		"http://localhost:8408",
		"http://127.0.0.1:8408",
		"http://[::1]:8408",
	} {
		if _, err := NewClient(Config{BaseURL: baseURL, Email: "a@example.com", APIToken: "t"}); err != nil {
			t.Errorf("NewClient(%q): unexpected error: %v", baseURL, err)
		}
	}
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	client, err := NewClient(Config{
		BaseURL:  "https://example.atlassian.net/",
		Email:    "a@example.com",
		APIToken: "t",
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if client.baseURL != "https://example.atlassian.net" {
		t.Fatalf("baseURL: got %q, want trailing slash trimmed", client.baseURL)
	}
}

func TestClient_BasicAuth(t *testing.T) {
	var receivedAuth, receivedAccept string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedAuth = r.Header.Get("Authorization")
		receivedAccept = r.Header.Get("Accept")
		jsonResponse(w, http.StatusOK, `{"accountId":"abc123","displayName":"Agent"}`)
	}))

	if _, err := client.GetCurrentUser(context.Background()); err != nil {
		t.Fatalf("GetCurrentUser: %v", err)
	}

	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("agent@example.com:jira-api-token"))
	if receivedAuth != wantAuth {
		t.Errorf("Authorization: got %q, want %q", receivedAuth, wantAuth)
	}
	if receivedAccept != "application/json" {
		t.Errorf("Accept: got %q, want application/json", receivedAccept)
	}
}

func TestClient_ErrorParsing(t *testing.T) {
	t.Run("error message list", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			jsonResponse(w, http.StatusNotFound,
				`{"errorMessages":["Issue does not exist or you do not have permission to see it."],"errors":{}}`)
		}))

		_, err := client.GetIssue(context.Background(), "TD-999")
		if err == nil {
			t.Fatal("expected error")
		}
		var apiError *APIError
		if !errors.As(err, &apiError) {
			t.Fatalf("expected *APIError, got %T: %v", err, err)
		}
		if apiError.StatusCode != http.StatusNotFound {
			t.Errorf("StatusCode: got %d, want 404", apiError.StatusCode)
		}
		if !IsNotFound(err) {
			t.Error("IsNotFound: got false, want true")
		}
		if !strings.Contains(err.Error(), "Issue does not exist") {
			t.Errorf("error %q should carry the API message", err)
		}
	})

	t.Run("field error map", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			jsonResponse(w, http.StatusBadRequest,
				`{"errorMessages":[],"errors":{"summary":"You must specify a summary of the issue.","project":"Project is required."}}`)
		}))

		_, err := client.CreateIssue(context.Background(), CreateIssueRequest{ProjectKey: "TD"})
		var apiError *APIError
		if !errors.As(err, &apiError) {
			t.Fatalf("expected *APIError, got %T: %v", err, err)
		}
		// Field errors are sorted by field name for stable messages.
		want := []string{"project: Project is required.", "summary: You must specify a summary of the issue."}
		if len(apiError.Messages) != len(want) {
			t.Fatalf("Messages: got %v, want %v", apiError.Messages, want)
		}
		for i := range want {
			if apiError.Messages[i] != want[i] {
				t.Errorf("Messages[%d]: got %q, want %q", i, apiError.Messages[i], want[i])
			}
		}
	})

	t.Run("non-JSON body", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			fmt.Fprint(w, "upstream connect error")
		}))

		_, err := client.GetIssue(context.Background(), "TD-1")
		var apiError *APIError
		if !errors.As(err, &apiError) {
			t.Fatalf("expected *APIError, got %T: %v", err, err)
		}
		if apiError.StatusCode != http.StatusBadGateway {
			t.Errorf("StatusCode: got %d, want 502", apiError.StatusCode)
		}
		if !strings.Contains(err.Error(), "upstream connect error") {
			t.Errorf("error %q should carry the raw body", err)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))

		_, err := client.GetIssue(context.Background(), "TD-1")
		if got, want := err.Error(), "getting issue TD-1: jira: HTTP 503"; got != want {
			t.Errorf("error: got %q, want %q", got, want)
		}
	})
}

func TestClient_ErrorPredicates(t *testing.T) {
	predicates := []struct {
		name      string
		status    int
		predicate func(error) bool
	}{
		{"IsNotFound", http.StatusNotFound, IsNotFound},
		{"IsUnauthorized", http.StatusUnauthorized, IsUnauthorized},
		{"IsPermissionDenied", http.StatusForbidden, IsPermissionDenied},
		{"IsRateLimited", http.StatusTooManyRequests, IsRateLimited},
	}
	for _, test := range predicates {
		t.Run(test.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				jsonResponse(w, test.status, `{"errorMessages":["nope"]}`)
			}))

			_, err := client.GetIssue(context.Background(), "TD-1")
			if !test.predicate(err) {
				t.Errorf("%s(%v): got false, want true", test.name, err)
			}
			// Predicates see through wrapping.
			if !test.predicate(fmt.Errorf("outer: %w", err)) {
				t.Errorf("%s should match a wrapped error", test.name)
			}
		})
	}

	plain := errors.New("connection refused")
	for _, test := range predicates {
		if test.predicate(plain) {
			t.Errorf("%s(plain error): got true, want false", test.name)
		}
	}
}

func TestClient_NoContentResponse(t *testing.T) {
	var receivedMethod string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedMethod = r.Method
		w.WriteHeader(http.StatusNoContent)
	}))

	if err := client.DeleteIssue(context.Background(), "TD-7"); err != nil {
		t.Fatalf("DeleteIssue: %v", err)
	}
	if receivedMethod != http.MethodDelete {
		t.Errorf("method: got %q, want DELETE", receivedMethod)
	}
}
