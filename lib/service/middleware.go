// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// errorBody is the JSON error envelope: {"detail": "..."}.
type errorBody struct {
	Detail string `json:"detail"`
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(writer http.ResponseWriter, status int, v any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	// Encoding a value we built cannot fail; a broken connection is
	// the client's problem.
	_ = json.NewEncoder(writer).Encode(v)
}

// writeError writes the error envelope with the given status.
func writeError(writer http.ResponseWriter, status int, detail string) {
	writeJSON(writer, status, errorBody{Detail: detail})
}

// requireBearer rejects requests that do not present secret as a
// bearer token. An empty secret disables the check.
func requireBearer(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			header := request.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				writeError(writer, http.StatusUnauthorized, "Not authenticated")
				return
			}
			if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				writeError(writer, http.StatusUnauthorized, "Invalid token")
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// requestLogger logs one line per request: method, path, status, and
// duration. The wrapped writer keeps http.Flusher intact for the SSE
// endpoints.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			wrapped := middleware.NewWrapResponseWriter(writer, request.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(wrapped, request)
			logger.Info("request",
				"method", request.Method,
				"path", request.URL.Path,
				"status", wrapped.Status(),
				"duration", time.Since(start),
			)
		})
	}
}
