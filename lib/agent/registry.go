// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"errors"
	"fmt"

	"github.com/trackdeck/trackdeck/lib/schema/chat"
)

// ErrUnknownAgent is returned by [Registry.Get] for keys that were
// never registered. The service maps it to a 404.
var ErrUnknownAgent = errors.New("agent not registered")

// Registry holds the assistants the service hosts. It is populated
// during startup and read-only afterwards; registration is gated on
// each platform's credentials, so a deployment without Azure DevOps
// configured simply never registers that assistant.
type Registry struct {
	assistants map[string]*Assistant
	order      []string
	defaultKey string
}

// NewRegistry creates an empty registry. defaultKey names the
// assistant serving the agent-less routes; it must be registered
// before the first [Registry.Default] call.
func NewRegistry(defaultKey string) *Registry {
	return &Registry{
		assistants: make(map[string]*Assistant),
		defaultKey: defaultKey,
	}
}

// Register adds an assistant under its key.
func (registry *Registry) Register(assistant *Assistant) error {
	if assistant.Key == "" {
		return fmt.Errorf("agent: registering assistant without a key")
	}
	if _, exists := registry.assistants[assistant.Key]; exists {
		return fmt.Errorf("agent: %q is already registered", assistant.Key)
	}
	registry.assistants[assistant.Key] = assistant
	registry.order = append(registry.order, assistant.Key)
	return nil
}

// Get returns the assistant registered under key.
func (registry *Registry) Get(key string) (*Assistant, error) {
	assistant, ok := registry.assistants[key]
	if !ok {
		return nil, fmt.Errorf("agent: %q: %w", key, ErrUnknownAgent)
	}
	return assistant, nil
}

// Default returns the assistant serving the agent-less routes.
func (registry *Registry) Default() (*Assistant, error) {
	return registry.Get(registry.defaultKey)
}

// DefaultKey returns the configured default assistant key.
func (registry *Registry) DefaultKey() string {
	return registry.defaultKey
}

// Len returns the number of registered assistants.
func (registry *Registry) Len() int {
	return len(registry.assistants)
}

// Info describes the registered assistants in registration order.
func (registry *Registry) Info() []chat.AgentInfo {
	info := make([]chat.AgentInfo, 0, len(registry.order))
	for _, key := range registry.order {
		info = append(info, chat.AgentInfo{
			Key:         key,
			Description: registry.assistants[key].Description,
		})
	}
	return info
}
