// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"github.com/trackdeck/trackdeck/lib/azuredevops"
	"github.com/trackdeck/trackdeck/lib/devopstools"
	"github.com/trackdeck/trackdeck/lib/jira"
	"github.com/trackdeck/trackdeck/lib/jiratools"
)

// Registry keys of the built-in assistants.
const (
	KeyJIRAAssistant        = "jira-assistant"
	KeyAzureDevOpsAssistant = "azure-devops-assistant"
	KeyJIRASupervisor       = "jira-supervisor-assistant"
)

// NewJIRAAssistant builds the single-graph JIRA assistant. It binds
// the core tool catalog; the secondary groups (backlog, issue types,
// worklogs, JQL authoring, permissions, users) stay off the request to
// keep the tool count under provider limits, and are reachable through
// the supervisor instead.
func NewJIRAAssistant(client *jira.Client, guard *Guard) *Assistant {
	return &Assistant{
		Key:          KeyJIRAAssistant,
		Description:  "A JIRA assistant to manage JIRA board.",
		Instructions: jiraInstructions,
		Tools:        jiratools.Core(client),
		Guard:        guard,
	}
}

// NewAzureDevOpsAssistant builds the Azure DevOps assistant over the
// full organization catalog.
func NewAzureDevOpsAssistant(client *azuredevops.Client, guard *Guard) *Assistant {
	return &Assistant{
		Key:          KeyAzureDevOpsAssistant,
		Description:  "An Azure DevOps assistant to manage Azure DevOps resources.",
		Instructions: azureDevOpsInstructions,
		Tools:        devopstools.All(client),
		Guard:        guard,
	}
}
