// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package jira

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"
)

// APIError is an error response from the JIRA API.
type APIError struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int

	// Messages holds the error messages from the response body. JIRA
	// reports errors both as a flat list (errorMessages) and as a
	// per-field map (errors); both are collected here, field errors as
	// "field: message". When the body is not recognizable JSON the raw
	// body text is kept as a single message.
	Messages []string
}

func (apiError *APIError) Error() string {
	if len(apiError.Messages) == 0 {
		return fmt.Sprintf("jira: HTTP %d", apiError.StatusCode)
	}
	return fmt.Sprintf("jira: HTTP %d: %s", apiError.StatusCode, strings.Join(apiError.Messages, "; "))
}

// parseAPIError builds an *APIError from an error response body.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiError := &APIError{StatusCode: statusCode}

	var wireError struct {
		ErrorMessages []string          `json:"errorMessages"`
		Errors        map[string]string `json:"errors"`
	}
	if json.Unmarshal(body, &wireError) == nil &&
		(len(wireError.ErrorMessages) > 0 || len(wireError.Errors) > 0) {
		apiError.Messages = wireError.ErrorMessages
		for _, field := range slices.Sorted(maps.Keys(wireError.Errors)) {
			apiError.Messages = append(apiError.Messages, field+": "+wireError.Errors[field])
		}
		return apiError
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		apiError.Messages = []string{text}
	}
	return apiError
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err is an APIError with status 401,
// indicating missing or invalid credentials.
func IsUnauthorized(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusUnauthorized
}

// IsPermissionDenied reports whether err is an APIError with status 403.
func IsPermissionDenied(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusForbidden
}

// IsRateLimited reports whether err is an APIError with status 429.
func IsRateLimited(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusTooManyRequests
}
