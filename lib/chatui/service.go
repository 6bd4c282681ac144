// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package chatui

import (
	"context"

	"github.com/trackdeck/trackdeck/lib/agentclient"
	"github.com/trackdeck/trackdeck/lib/schema/chat"
)

// EventSource yields the events of one streaming run. Next blocks
// until an event arrives and returns io.EOF after the done marker.
// agentclient.EventStream satisfies this.
type EventSource interface {
	Next() (chat.StreamEvent, error)
	Close() error
}

// Service is the slice of the agent service API the chat model uses.
// Keeping it an interface lets tests drive the model with scripted
// streams instead of a live server.
type Service interface {
	// Stream starts a run against the named agent and returns its
	// event source.
	Stream(ctx context.Context, agentKey string, input chat.StreamInput) (EventSource, error)

	// SendFeedback records a score against a finished run.
	SendFeedback(ctx context.Context, feedback chat.Feedback) error

	// Info describes the hosted agents and served models.
	Info(ctx context.Context) (*chat.ServiceInfo, error)
}

// AgentService adapts an agentclient.Client to the Service interface.
type AgentService struct {
	Client *agentclient.Client
}

func (service AgentService) Stream(ctx context.Context, agentKey string, input chat.StreamInput) (EventSource, error) {
	stream, err := service.Client.StreamAgent(ctx, agentKey, input)
	if err != nil {
		return nil, err
	}
	return stream, nil
}

func (service AgentService) SendFeedback(ctx context.Context, feedback chat.Feedback) error {
	return service.Client.Feedback(ctx, feedback)
}

func (service AgentService) Info(ctx context.Context) (*chat.ServiceInfo, error) {
	return service.Client.Info(ctx)
}
