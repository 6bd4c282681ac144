// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

// Package azuredevops provides a typed client for the Azure DevOps
// Services REST API (api-version 7.1).
//
// A Client authenticates with a personal access token over basic auth
// and spans the three Azure DevOps hosts: the organization host for
// core, work item tracking, git, and work APIs; the almsearch host for
// code, work item, and wiki search; and the vssps host for user
// profiles. Work item mutations use JSON Patch documents
// ([]PatchOperation) as the wire API requires.
//
// API failures are returned as *APIError carrying the HTTP status and
// the server's message and type key; use IsNotFound and the other
// predicates to branch on common cases. The client never retries.
package azuredevops

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
	"strings"

	"github.com/trackdeck/trackdeck/lib/netutil"
)

// apiVersion is the Azure DevOps REST API version sent with every
// request unless an endpoint pins a preview version.
const apiVersion = "7.1"

const (
	contentTypeJSON = "application/json"

	// contentTypePatch marks JSON Patch documents; the work item
	// tracking API rejects them under application/json.
	contentTypePatch = "application/json-patch+json"
)

// defaultProfileURL is the host serving the profile API. Profiles are
// account-scoped, so the URL carries no organization segment.
const defaultProfileURL = "https://app.vssps.visualstudio.com"

// Config holds configuration for creating an Azure DevOps Client.
type Config struct {
	// OrgURL is the organization URL, for example
	// "https://dev.azure.com/fabrikam". Required. Must use HTTPS
	// unless the host is a loopback address.
	OrgURL string

	// PAT is the personal access token used for basic auth. Required.
	PAT string

	// SearchURL overrides the search API base. Defaults to the
	// almsearch mirror of OrgURL for dev.azure.com organizations, and
	// to OrgURL itself for any other host.
	SearchURL string

	// ProfileURL overrides the profile API base. Defaults to
	// "https://app.vssps.visualstudio.com".
	ProfileURL string

	// HTTPClient is used for all HTTP requests. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client

	// Logger is used for structured logging. Defaults to discarding.
	Logger *slog.Logger
}

// Client is a typed Azure DevOps REST API client.
type Client struct {
	orgURL     string
	searchURL  string
	profileURL string
	authHeader string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an Azure DevOps client from the given
// configuration. Returns an error if the configuration is incomplete
// or the organization URL is not HTTPS.
func NewClient(config Config) (*Client, error) {
	orgURL := strings.TrimRight(config.OrgURL, "/")
	if orgURL == "" {
		return nil, fmt.Errorf("azuredevops: OrgURL is required")
	}
	if config.PAT == "" {
		return nil, fmt.Errorf("azuredevops: PAT is required")
	}

	parsed, err := url.Parse(orgURL)
	if err != nil {
		return nil, fmt.Errorf("azuredevops: parsing OrgURL: %w", err)
	}
	if parsed.Scheme != "https" && !(parsed.Scheme == "http" && isLoopback(parsed.Hostname())) {
		return nil, fmt.Errorf("azuredevops: OrgURL %q must use https", config.OrgURL)
	}

	searchURL := strings.TrimRight(config.SearchURL, "/")
	if searchURL == "" {
		if parsed.Host == "dev.azure.com" {
			mirror := *parsed
			mirror.Host = "almsearch.dev.azure.com"
			searchURL = mirror.String()
		} else {
			searchURL = orgURL
		}
	}

	profileURL := strings.TrimRight(config.ProfileURL, "/")
	if profileURL == "" {
		profileURL = defaultProfileURL
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// PATs authenticate as basic auth with an empty user name.
	credentials := base64.StdEncoding.EncodeToString([]byte(":" + config.PAT))

	return &Client{
		orgURL:     orgURL,
		searchURL:  searchURL,
		profileURL: profileURL,
		authHeader: "Basic " + credentials,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// isLoopback reports whether host resolves trivially to the local
// machine, allowing plain HTTP for test servers.
func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// restURL joins escaped path segments onto base and appends the query,
// defaulting api-version when the caller has not pinned one. Project
// and team names may contain spaces, so every segment is escaped.
func restURL(base string, query url.Values, segments ...string) string {
	var builder strings.Builder
	builder.WriteString(base)
	for _, segment := range segments {
		builder.WriteByte('/')
		builder.WriteString(url.PathEscape(segment))
	}
	if query == nil {
		query = url.Values{}
	}
	if query.Get("api-version") == "" {
		query.Set("api-version", apiVersion)
	}
	builder.WriteByte('?')
	builder.WriteString(query.Encode())
	return builder.String()
}

// send executes one authenticated request and returns the response
// body and headers. Non-2xx responses are returned as *APIError.
func (client *Client) send(ctx context.Context, method, rawURL, contentType string, requestBody any) ([]byte, http.Header, error) {
	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, nil, fmt.Errorf("azuredevops: encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, rawURL, bodyReader)
	if err != nil {
		return nil, nil, fmt.Errorf("azuredevops: creating request: %w", err)
	}
	request.Header.Set("Authorization", client.authHeader)
	request.Header.Set("Accept", "application/json")
	if requestBody != nil {
		request.Header.Set("Content-Type", contentType)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, nil, fmt.Errorf("azuredevops: %s %s: %w", method, request.URL.Path, err)
	}
	defer response.Body.Close()

	client.logger.Debug("azure devops API call",
		"method", method,
		"path", request.URL.Path,
		"status", response.StatusCode,
	)

	body, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("azuredevops: reading response: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, nil, parseAPIError(response.StatusCode, body)
	}
	return body, response.Header, nil
}

// do executes a request and decodes the JSON response into result.
// Pass a nil result to discard the response body.
func (client *Client) do(ctx context.Context, method, rawURL, contentType string, requestBody, result any) error {
	body, _, err := client.send(ctx, method, rawURL, contentType, requestBody)
	if err != nil {
		return err
	}
	if result == nil || len(body) == 0 {
		return nil
	}
	return decode(body, result)
}

// decode unmarshals a JSON response body into result.
func decode(body []byte, result any) error {
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("azuredevops: decoding response: %w", err)
	}
	return nil
}

func (client *Client) get(ctx context.Context, rawURL string, result any) error {
	return client.do(ctx, http.MethodGet, rawURL, "", nil, result)
}

func (client *Client) post(ctx context.Context, rawURL string, requestBody, result any) error {
	return client.do(ctx, http.MethodPost, rawURL, contentTypeJSON, requestBody, result)
}

func (client *Client) put(ctx context.Context, rawURL string, requestBody, result any) error {
	return client.do(ctx, http.MethodPut, rawURL, contentTypeJSON, requestBody, result)
}

func (client *Client) patch(ctx context.Context, rawURL string, requestBody, result any) error {
	return client.do(ctx, http.MethodPatch, rawURL, contentTypeJSON, requestBody, result)
}

func (client *Client) delete(ctx context.Context, rawURL string) error {
	return client.do(ctx, http.MethodDelete, rawURL, "", nil, nil)
}

// submitPatchDocument sends a JSON Patch document with the content
// type the work item tracking API requires.
func (client *Client) submitPatchDocument(ctx context.Context, method, rawURL string, document []PatchOperation, result any) error {
	return client.do(ctx, method, rawURL, contentTypePatch, document, result)
}

// listResponse is the {count, value} envelope Azure DevOps wraps
// collections in.
type listResponse[T any] struct {
	Count int `json:"count"`
	Value []T `json:"value"`
}
