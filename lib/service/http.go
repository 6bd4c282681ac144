// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// HTTPServer runs the agent API on a TCP listener. It owns listener
// lifecycle and shutdown; routing, auth, and the endpoint handlers
// come in through the http.Handler.
//
// Shutdown has to account for the stream endpoints: an SSE response
// stays open for as long as a model run takes, so a graceful drain
// can time out with streams still attached. When that happens the
// remaining connections are closed outright rather than holding the
// process hostage.
//
// Serve(ctx) blocks until the context is cancelled and shutdown
// completes.
type HTTPServer struct {
	address string
	handler http.Handler
	logger  *slog.Logger

	// drainTimeout bounds the graceful phase of shutdown. Requests
	// still running when it expires are cut.
	drainTimeout time.Duration

	// ready is closed once the listener is bound and accepting.
	ready chan struct{}

	// addr is the resolved listen address, valid after ready closes.
	addr net.Addr
}

// HTTPServerConfig configures an HTTPServer.
type HTTPServerConfig struct {
	// Address is the TCP listen address (e.g., ":8080",
	// "127.0.0.1:9000"). Required.
	Address string

	// Handler is the HTTP handler for incoming requests. Required.
	Handler http.Handler

	// ShutdownTimeout bounds the graceful drain; streams still open
	// when it expires are closed. Defaults to 10 seconds if zero.
	ShutdownTimeout time.Duration

	// Logger is the structured logger. Required.
	Logger *slog.Logger
}

// NewHTTPServer creates a server that will listen on the configured
// TCP address. Call Serve to start accepting connections.
func NewHTTPServer(config HTTPServerConfig) *HTTPServer {
	if config.Address == "" {
		panic("service.HTTPServer: Address is required")
	}
	if config.Handler == nil {
		panic("service.HTTPServer: Handler is required")
	}
	if config.Logger == nil {
		panic("service.HTTPServer: Logger is required")
	}

	timeout := config.ShutdownTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &HTTPServer{
		address:      config.Address,
		handler:      config.Handler,
		logger:       config.Logger,
		drainTimeout: timeout,
		ready:        make(chan struct{}),
	}
}

// Ready returns a channel that is closed once the server is bound
// and accepting connections.
func (server *HTTPServer) Ready() <-chan struct{} {
	return server.ready
}

// Addr returns the resolved listen address. Only valid after Ready()
// is closed. When the configured address uses port 0, the resolved
// address carries the port the OS picked.
func (server *HTTPServer) Addr() net.Addr {
	return server.addr
}

// Serve accepts HTTP connections until ctx is cancelled, then drains:
// new connections are refused, in-flight requests get ShutdownTimeout
// to finish, and whatever is still open after that (typically SSE
// streams mid-run) is closed.
func (server *HTTPServer) Serve(ctx context.Context) error {
	// Bind before signalling readiness so Addr is resolved by the
	// time the ready channel closes.
	listener, err := net.Listen("tcp", server.address)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", server.address, err)
	}
	server.addr = listener.Addr()
	close(server.ready)

	inner := &http.Server{
		Handler: server.handler,

		// Header and read timeouts protect against slow clients.
		// WriteTimeout stays zero: a server-wide write deadline
		// would cut SSE responses off mid-run. Non-streaming
		// handlers finish fast; the stream handlers flush per event.
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	server.logger.Info("http server listening", "address", server.addr.String())

	serveDone := make(chan error, 1)
	go func() {
		if err := inner.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveDone <- err
		}
		close(serveDone)
	}()

	select {
	case <-ctx.Done():
		server.logger.Info("http server shutting down")
	case err := <-serveDone:
		return err
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), server.drainTimeout)
	defer cancel()

	err = inner.Shutdown(drainCtx)
	switch {
	case err == nil:
		server.logger.Info("http server stopped")
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		// Streams can outlive the drain window. Close the remaining
		// connections; their handlers observe the cancelled request
		// contexts and unwind.
		server.logger.Warn("drain timeout expired, closing open connections")
		if closeErr := inner.Close(); closeErr != nil {
			return fmt.Errorf("http server close: %w", closeErr)
		}
		return nil
	default:
		server.logger.Error("http server shutdown error", "error", err)
		return fmt.Errorf("http server shutdown: %w", err)
	}
}
