// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/trackdeck/trackdeck/lib/agent"
	"github.com/trackdeck/trackdeck/lib/checkpoint"
	"github.com/trackdeck/trackdeck/lib/llm"
	"github.com/trackdeck/trackdeck/lib/schema/chat"
)

// unexpectedErrorDetail is the client-facing text for failures whose
// cause stays in the server log.
const unexpectedErrorDetail = "An unexpected error occurred"

// HandlerConfig configures the API handler.
type HandlerConfig struct {
	// Registry holds the hosted assistants. Required.
	Registry *agent.Registry

	// Store persists threads, runs, and feedback. Required.
	Store checkpoint.Store

	// Providers maps each configured vendor to its backend. Required,
	// at least one entry. Catalog models without an entry here are
	// rejected as unavailable.
	Providers map[llm.Vendor]llm.Provider

	// DefaultModel serves requests that do not name a model. Required;
	// its vendor must be in Providers.
	DefaultModel string

	// AuthSecret, when set, protects every route except /health with
	// bearer auth.
	AuthSecret string

	// Logger is the structured logger. Required.
	Logger *slog.Logger

	// NewID mints run and thread IDs. Defaults to uuid.NewString.
	NewID func() string
}

// Handler is the agent API: invoke, stream, feedback, history, info,
// and health, routed with chi. Safe for concurrent use.
type Handler struct {
	registry     *agent.Registry
	store        checkpoint.Store
	providers    map[llm.Vendor]llm.Provider
	models       []string
	defaultModel string
	logger       *slog.Logger
	newID        func() string
	router       chi.Router
}

// NewHandler builds the API handler. Configuration mistakes are
// programmer errors and panic.
func NewHandler(config HandlerConfig) *Handler {
	if config.Registry == nil {
		panic("service.Handler: Registry is required")
	}
	if config.Store == nil {
		panic("service.Handler: Store is required")
	}
	if len(config.Providers) == 0 {
		panic("service.Handler: at least one provider is required")
	}
	if config.Logger == nil {
		panic("service.Handler: Logger is required")
	}

	// The served model list is the catalog filtered to configured
	// vendors, in catalog order.
	var models []string
	for _, entry := range llm.Catalog() {
		if _, ok := config.Providers[entry.Vendor]; ok {
			models = append(models, entry.Model)
		}
	}
	if !slices.Contains(models, config.DefaultModel) {
		panic(fmt.Sprintf("service.Handler: default model %q is not served by any configured provider", config.DefaultModel))
	}

	newID := config.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	handler := &Handler{
		registry:     config.Registry,
		store:        config.Store,
		providers:    config.Providers,
		models:       models,
		defaultModel: config.DefaultModel,
		logger:       config.Logger,
		newID:        newID,
	}

	router := chi.NewRouter()
	router.Use(requestLogger(config.Logger))
	router.Use(chimiddleware.Recoverer)

	router.Get("/health", handler.health)

	router.Group(func(router chi.Router) {
		router.Use(requireBearer(config.AuthSecret))

		router.Post("/invoke", handler.invoke)
		router.Post("/{agent_id}/invoke", handler.invoke)
		router.Post("/stream", handler.stream)
		router.Post("/{agent_id}/stream", handler.stream)
		router.Post("/feedback", handler.feedback)
		router.Post("/history", handler.history)
		router.Get("/info", handler.info)
	})

	handler.router = router
	return handler
}

// ServeHTTP implements http.Handler.
func (handler *Handler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	handler.router.ServeHTTP(writer, request)
}

// runSetup is everything resolved before a run starts.
type runSetup struct {
	assistant *agent.Assistant
	provider  llm.Provider
	model     string
	threadID  string
	runID     string
	state     *agent.State
}

// prepareRun resolves the agent, validates the input, selects the
// model, and loads the thread. On failure the response has already
// been written and nil is returned.
func (handler *Handler) prepareRun(writer http.ResponseWriter, request *http.Request, input chat.UserInput) *runSetup {
	assistant, err := handler.resolveAgent(request)
	if err != nil {
		writeError(writer, http.StatusNotFound, "Agent not found")
		return nil
	}

	if err := input.Validate(); err != nil {
		writeError(writer, http.StatusUnprocessableEntity, err.Error())
		return nil
	}

	model := input.Model
	if model == "" {
		model = handler.defaultModel
	}
	provider, ok := handler.providerFor(model)
	if !ok {
		writeError(writer, http.StatusUnprocessableEntity, fmt.Sprintf("Model %q is not available", model))
		return nil
	}

	threadID := input.ThreadID
	if threadID == "" {
		threadID = handler.newID()
	}

	state, err := handler.loadThread(request.Context(), threadID, input.Message)
	if err != nil {
		handler.logger.Error("loading thread failed", "thread_id", threadID, "error", err)
		writeError(writer, http.StatusInternalServerError, unexpectedErrorDetail)
		return nil
	}

	return &runSetup{
		assistant: assistant,
		provider:  provider,
		model:     model,
		threadID:  threadID,
		runID:     handler.newID(),
		state:     state,
	}
}

func (handler *Handler) resolveAgent(request *http.Request) (*agent.Assistant, error) {
	key := chi.URLParam(request, "agent_id")
	if key == "" {
		return handler.registry.Default()
	}
	return handler.registry.Get(key)
}

func (handler *Handler) providerFor(model string) (llm.Provider, bool) {
	vendor, ok := llm.VendorOf(model)
	if !ok {
		return nil, false
	}
	provider, ok := handler.providers[vendor]
	return provider, ok
}

// loadThread returns the stored transcript with the new user message
// appended, or a fresh one for unknown threads.
func (handler *Handler) loadThread(ctx context.Context, threadID, message string) (*agent.State, error) {
	var messages []llm.Message
	stored, err := handler.store.GetThread(ctx, threadID)
	switch {
	case err == nil:
		messages = stored.Messages
	case errors.Is(err, checkpoint.ErrNotFound):
	default:
		return nil, err
	}
	return agent.NewState(append(messages, llm.UserMessage(message))), nil
}

// persistRun saves the thread transcript and the run's usage.
func (handler *Handler) persistRun(ctx context.Context, setup *runSetup) error {
	err := handler.store.PutThread(ctx, checkpoint.ThreadState{
		ThreadID: setup.threadID,
		Messages: setup.state.Messages,
	})
	if err != nil {
		return err
	}
	return handler.store.RecordRun(ctx, checkpoint.Run{
		RunID:        setup.runID,
		ThreadID:     setup.threadID,
		AgentKey:     setup.assistant.Key,
		Model:        setup.model,
		InputTokens:  setup.state.Usage.InputTokens,
		OutputTokens: setup.state.Usage.OutputTokens,
	})
}

// annotate stamps run identity onto converted messages: every message
// carries the run ID, and ai messages carry the thread and model in
// their response metadata so clients can continue the conversation.
func (setup *runSetup) annotate(messages []chat.ChatMessage) []chat.ChatMessage {
	for i := range messages {
		messages[i].RunID = setup.runID
		if messages[i].Type == chat.MessageTypeAI {
			messages[i].ResponseMetadata = map[string]any{
				"thread_id": setup.threadID,
				"model":     setup.model,
			}
		}
	}
	return messages
}

// writeRunError maps a run failure to a response. Provider API errors
// keep their upstream status code and message; everything else is a
// 500 with the cause logged.
func (handler *Handler) writeRunError(writer http.ResponseWriter, setup *runSetup, err error) {
	handler.logger.Error("run failed",
		"agent", setup.assistant.Key,
		"run_id", setup.runID,
		"error", err,
	)
	var providerError *llm.ProviderError
	if errors.As(err, &providerError) {
		writeError(writer, providerError.StatusCode, providerError.Message)
		return
	}
	writeError(writer, http.StatusInternalServerError, unexpectedErrorDetail)
}

func (handler *Handler) invoke(writer http.ResponseWriter, request *http.Request) {
	var input chat.UserInput
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		writeError(writer, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}

	setup := handler.prepareRun(writer, request, input)
	if setup == nil {
		return
	}

	ctx := request.Context()
	runConfig := agent.RunConfig{Provider: setup.provider, Model: setup.model}
	if err := setup.assistant.Run(ctx, runConfig, setup.state, nil); err != nil {
		handler.writeRunError(writer, setup, err)
		return
	}

	if err := handler.persistRun(ctx, setup); err != nil {
		handler.logger.Error("persisting run failed", "run_id", setup.runID, "error", err)
		writeError(writer, http.StatusInternalServerError, unexpectedErrorDetail)
		return
	}

	final := setup.state.Messages[len(setup.state.Messages)-1]
	converted := setup.annotate(agent.MessageToChat(final))
	if len(converted) == 0 {
		handler.logger.Error("run produced no convertible answer", "run_id", setup.runID)
		writeError(writer, http.StatusInternalServerError, unexpectedErrorDetail)
		return
	}
	writeJSON(writer, http.StatusOK, converted[len(converted)-1])
}

func (handler *Handler) stream(writer http.ResponseWriter, request *http.Request) {
	var input chat.StreamInput
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		writeError(writer, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}

	setup := handler.prepareRun(writer, request, input.UserInput)
	if setup == nil {
		return
	}

	flusher, ok := writer.(http.Flusher)
	if !ok {
		handler.logger.Error("response writer does not support flushing")
		writeError(writer, http.StatusInternalServerError, unexpectedErrorDetail)
		return
	}

	header := writer.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	writer.WriteHeader(http.StatusOK)
	flusher.Flush()

	sendEvent := func(event chat.StreamEvent) {
		payload, err := json.Marshal(event)
		if err != nil {
			handler.logger.Error("encoding stream event failed", "run_id", setup.runID, "error", err)
			return
		}
		// A write failure means the client went away; the run is
		// cancelled through the request context.
		if _, err := fmt.Fprintf(writer, "data: %s\n\n", payload); err != nil {
			return
		}
		flusher.Flush()
	}

	tokensWanted := input.TokensWanted()
	emit := func(event agent.Event) {
		switch event.Type {
		case agent.EventToken:
			if tokensWanted {
				sendEvent(chat.StreamEvent{Type: chat.StreamEventToken, Token: event.Token})
			}
		case agent.EventMessage:
			for _, message := range setup.annotate(agent.MessageToChat(event.Message)) {
				messageCopy := message
				sendEvent(chat.StreamEvent{Type: chat.StreamEventMessage, Message: &messageCopy})
			}
		}
	}

	ctx := request.Context()
	runConfig := agent.RunConfig{
		Provider:     setup.provider,
		Model:        setup.model,
		StreamTokens: tokensWanted,
	}
	runErr := setup.assistant.Run(ctx, runConfig, setup.state, emit)
	if runErr != nil {
		handler.logger.Error("run failed",
			"agent", setup.assistant.Key,
			"run_id", setup.runID,
			"error", runErr,
		)
		sendEvent(chat.StreamEvent{Type: chat.StreamEventError, Error: streamErrorDetail(runErr)})
	} else if err := handler.persistRun(ctx, setup); err != nil {
		handler.logger.Error("persisting run failed", "run_id", setup.runID, "error", err)
		sendEvent(chat.StreamEvent{Type: chat.StreamEventError, Error: unexpectedErrorDetail})
	}

	// The done marker terminates every stream, including failed ones.
	if _, err := fmt.Fprintf(writer, "data: %s\n\n", chat.StreamDone); err == nil {
		flusher.Flush()
	}
}

// streamErrorDetail is the client-facing text of a mid-stream
// failure. Provider API errors keep their upstream message.
func streamErrorDetail(err error) string {
	var providerError *llm.ProviderError
	if errors.As(err, &providerError) {
		return providerError.Message
	}
	return unexpectedErrorDetail
}

func (handler *Handler) feedback(writer http.ResponseWriter, request *http.Request) {
	var feedback chat.Feedback
	if err := json.NewDecoder(request.Body).Decode(&feedback); err != nil {
		writeError(writer, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	if err := feedback.Validate(); err != nil {
		writeError(writer, http.StatusUnprocessableEntity, err.Error())
		return
	}

	err := handler.store.RecordFeedback(request.Context(), checkpoint.Feedback{
		RunID:  feedback.RunID,
		Key:    feedback.Key,
		Score:  feedback.Score,
		Kwargs: feedback.Kwargs,
	})
	if err != nil {
		handler.logger.Error("recording feedback failed", "run_id", feedback.RunID, "error", err)
		writeError(writer, http.StatusInternalServerError, unexpectedErrorDetail)
		return
	}
	writeJSON(writer, http.StatusOK, chat.FeedbackResponse{Status: "success"})
}

func (handler *Handler) history(writer http.ResponseWriter, request *http.Request) {
	var input chat.ChatHistoryInput
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		writeError(writer, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	if input.ThreadID == "" {
		writeError(writer, http.StatusUnprocessableEntity, "thread_id is required")
		return
	}

	history := chat.ChatHistory{Messages: []chat.ChatMessage{}}
	stored, err := handler.store.GetThread(request.Context(), input.ThreadID)
	switch {
	case err == nil:
		history.Messages = append(history.Messages, agent.ToChatMessages(stored.Messages)...)
	case errors.Is(err, checkpoint.ErrNotFound):
		// Unknown threads read as empty history.
	default:
		handler.logger.Error("loading history failed", "thread_id", input.ThreadID, "error", err)
		writeError(writer, http.StatusInternalServerError, unexpectedErrorDetail)
		return
	}
	writeJSON(writer, http.StatusOK, history)
}

func (handler *Handler) info(writer http.ResponseWriter, request *http.Request) {
	writeJSON(writer, http.StatusOK, chat.ServiceInfo{
		Agents:       handler.registry.Info(),
		Models:       handler.models,
		DefaultAgent: handler.registry.DefaultKey(),
		DefaultModel: handler.defaultModel,
	})
}

func (handler *Handler) health(writer http.ResponseWriter, request *http.Request) {
	writeJSON(writer, http.StatusOK, chat.HealthResponse{Status: "ok"})
}
