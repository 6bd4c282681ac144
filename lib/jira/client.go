// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

// Package jira provides a typed client for the JIRA Cloud REST APIs.
//
// The client covers the platform API (/rest/api/3) and the software (agile)
// API (/rest/agile/1.0): issues, JQL search, boards, sprints, backlog,
// projects, comments, issue types, worklogs, permissions, and users.
// Authentication is HTTP basic with an Atlassian account email and API token.
//
// All methods take a context for cancellation and return explicit errors.
// API-level failures are returned as *APIError carrying the HTTP status code
// and the error messages from the response body; use the predicate functions
// (IsNotFound, IsUnauthorized, IsRateLimited) to classify them. The client
// never retries: callers see every failure exactly once, with the provider's
// own diagnostics intact.
//
// Rich text fields (issue descriptions, comments, worklog comments) use the
// Atlassian Document Format. TextDocument builds a document from plain text
// for writes; Document.PlainText flattens a document for display.
package jira

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/trackdeck/trackdeck/lib/netutil"
)

const (
	apiRoot   = "/rest/api/3"
	agileRoot = "/rest/agile/1.0"
)

// Config holds the settings for constructing a Client.
type Config struct {
	// BaseURL is the JIRA site URL, e.g. "https://example.atlassian.net".
	// HTTPS is required except for loopback addresses.
	BaseURL string

	// Email is the Atlassian account email used for basic authentication.
	Email string

	// APIToken is the Atlassian API token paired with Email.
	APIToken string

	// HTTPClient is the HTTP client for API requests. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client

	// Logger receives debug logs for API calls. Defaults to a discard
	// logger.
	Logger *slog.Logger
}

// Client is a JIRA REST API client. Construct with NewClient. The zero value
// is not usable.
type Client struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient validates the configuration and returns a Client.
func NewClient(config Config) (*Client, error) {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("jira: BaseURL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("jira: invalid BaseURL %q: %w", config.BaseURL, err)
	}
	switch parsed.Scheme {
	case "https":
	case "http":
		// Plain HTTP is allowed only toward loopback, for local test
		// fixtures. Credentials must never cross a network unencrypted.
		if !isLoopback(parsed.Hostname()) {
			return nil, fmt.Errorf("jira: BaseURL %q must use https", config.BaseURL)
		}
	default:
		return nil, fmt.Errorf("jira: BaseURL %q must use https", config.BaseURL)
	}
	if config.Email == "" {
		return nil, fmt.Errorf("jira: Email is required")
	}
	if config.APIToken == "" {
		return nil, fmt.Errorf("jira: APIToken is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	credentials := config.Email + ":" + config.APIToken
	return &Client{
		baseURL:    baseURL,
		authHeader: "Basic " + base64.StdEncoding.EncodeToString([]byte(credentials)),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

func isLoopback(hostname string) bool {
	if hostname == "localhost" {
		return true
	}
	ip := net.ParseIP(hostname)
	return ip != nil && ip.IsLoopback()
}

// apiPath builds a platform API path.
func apiPath(path string) string { return apiRoot + path }

// agilePath builds a software (agile) API path.
func agilePath(path string) string { return agileRoot + path }

// do performs one API request. The path must start with one of the API roots.
// A non-nil requestBody is JSON-encoded; a non-nil result receives the
// JSON-decoded response body. Responses with no body (204, or an empty 2xx)
// leave result untouched.
func (client *Client) do(ctx context.Context, method, path string, requestBody, result any) error {
	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return fmt.Errorf("jira: encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("jira: creating request: %w", err)
	}
	request.Header.Set("Authorization", client.authHeader)
	request.Header.Set("Accept", "application/json")
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("jira: %s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	client.logger.Debug("jira API call",
		"method", method,
		"path", path,
		"status", response.StatusCode)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return parseAPIError(response.StatusCode, netutil.ErrorBody(response.Body))
	}

	if result == nil || response.StatusCode == http.StatusNoContent {
		return nil
	}
	body, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return fmt.Errorf("jira: reading response body: %w", err)
	}
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("jira: decoding response: %w", err)
	}
	return nil
}

func (client *Client) get(ctx context.Context, path string, result any) error {
	return client.do(ctx, http.MethodGet, path, nil, result)
}

func (client *Client) post(ctx context.Context, path string, requestBody, result any) error {
	return client.do(ctx, http.MethodPost, path, requestBody, result)
}

func (client *Client) put(ctx context.Context, path string, requestBody, result any) error {
	return client.do(ctx, http.MethodPut, path, requestBody, result)
}

func (client *Client) delete(ctx context.Context, path string) error {
	return client.do(ctx, http.MethodDelete, path, nil, nil)
}

// withQuery appends encoded query parameters to a path. Empty query sets are
// returned unchanged.
func withQuery(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}

// pageQuery builds the startAt/maxResults parameters shared by the paged
// listing endpoints. Zero values are omitted so the server defaults apply.
func pageQuery(startAt, maxResults int) url.Values {
	query := url.Values{}
	if startAt > 0 {
		query.Set("startAt", strconv.Itoa(startAt))
	}
	if maxResults > 0 {
		query.Set("maxResults", strconv.Itoa(maxResults))
	}
	return query
}
