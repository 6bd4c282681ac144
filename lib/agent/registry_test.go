// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"errors"
	"strings"
	"testing"
)

func TestRegistryLookup(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(KeyJIRAAssistant)
	jiraAssistant := &Assistant{Key: KeyJIRAAssistant, Description: "A JIRA assistant to manage JIRA board."}
	devopsAssistant := &Assistant{Key: KeyAzureDevOpsAssistant, Description: "An Azure DevOps assistant to manage Azure DevOps resources."}

	if err := registry.Register(jiraAssistant); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := registry.Register(devopsAssistant); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if registry.Len() != 2 {
		t.Errorf("Len = %d, want 2", registry.Len())
	}

	got, err := registry.Get(KeyAzureDevOpsAssistant)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != devopsAssistant {
		t.Error("Get returned a different assistant")
	}

	fallback, err := registry.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if fallback != jiraAssistant {
		t.Error("Default did not return the configured assistant")
	}
	if registry.DefaultKey() != KeyJIRAAssistant {
		t.Errorf("DefaultKey = %q", registry.DefaultKey())
	}
}

func TestRegistryUnknownAgent(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(KeyJIRAAssistant)
	_, err := registry.Get("no-such-agent")
	if !errors.Is(err, ErrUnknownAgent) {
		t.Errorf("Get error = %v, want ErrUnknownAgent", err)
	}
	if !strings.Contains(err.Error(), "no-such-agent") {
		t.Errorf("error %q does not name the missing key", err)
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(KeyJIRAAssistant)
	if err := registry.Register(&Assistant{Key: KeyJIRAAssistant}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := registry.Register(&Assistant{Key: KeyJIRAAssistant}); err == nil {
		t.Error("duplicate registration succeeded")
	}
	if err := registry.Register(&Assistant{}); err == nil {
		t.Error("registration without a key succeeded")
	}
}

func TestRegistryInfoOrder(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(KeyJIRAAssistant)
	for _, assistant := range []*Assistant{
		{Key: KeyJIRAAssistant, Description: "A JIRA assistant to manage JIRA board."},
		{Key: KeyJIRASupervisor, Description: "A JIRA supervisor that delegates work to specialized JIRA expert agents."},
		{Key: KeyAzureDevOpsAssistant, Description: "An Azure DevOps assistant to manage Azure DevOps resources."},
	} {
		if err := registry.Register(assistant); err != nil {
			t.Fatalf("Register %s: %v", assistant.Key, err)
		}
	}

	info := registry.Info()
	wantKeys := []string{KeyJIRAAssistant, KeyJIRASupervisor, KeyAzureDevOpsAssistant}
	if len(info) != len(wantKeys) {
		t.Fatalf("Info returned %d entries, want %d", len(info), len(wantKeys))
	}
	for i, want := range wantKeys {
		if info[i].Key != want {
			t.Errorf("info[%d].Key = %q, want %q", i, info[i].Key, want)
		}
		if info[i].Description == "" {
			t.Errorf("info[%d] has an empty description", i)
		}
	}
}
