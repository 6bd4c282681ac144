// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package azuredevops

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is an error response from the Azure DevOps API.
type APIError struct {
	// StatusCode is the HTTP status of the failed request.
	StatusCode int

	// TypeKey identifies the server-side exception class, for example
	// "ProjectDoesNotExistWithNameException".
	TypeKey string

	// Message is the human-readable error message.
	Message string
}

func (e *APIError) Error() string {
	switch {
	case e.Message != "" && e.TypeKey != "":
		return fmt.Sprintf("azuredevops: HTTP %d: %s (%s)", e.StatusCode, e.Message, e.TypeKey)
	case e.Message != "":
		return fmt.Sprintf("azuredevops: HTTP %d: %s", e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("azuredevops: HTTP %d", e.StatusCode)
	}
}

// parseAPIError builds an *APIError from a non-2xx response body.
// Azure DevOps errors carry {"message": ..., "typeKey": ...}; anything
// else (HTML from a proxy, an empty body) falls back to the raw text.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiError := &APIError{StatusCode: statusCode}

	var wire struct {
		Message string `json:"message"`
		TypeKey string `json:"typeKey"`
	}
	if err := json.Unmarshal(body, &wire); err == nil && wire.Message != "" {
		apiError.Message = wire.Message
		apiError.TypeKey = wire.TypeKey
		return apiError
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		apiError.Message = text
	}
	return apiError
}

// IsNotFound reports whether err is an API error with status 404.
func IsNotFound(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err is an API error with status 401.
func IsUnauthorized(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusUnauthorized
}

// IsPermissionDenied reports whether err is an API error with status 403.
func IsPermissionDenied(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusForbidden
}

// IsRateLimited reports whether err is an API error with status 429.
func IsRateLimited(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusTooManyRequests
}
