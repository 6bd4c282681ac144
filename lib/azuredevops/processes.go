// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package azuredevops

import (
	"context"
	"fmt"
)

// ListProcesses returns the organization's work item tracking
// processes. These are the inheritable processes behind
// ListProcessTemplates; customization happens here.
func (client *Client) ListProcesses(ctx context.Context) ([]Process, error) {
	var envelope listResponse[Process]
	if err := client.get(ctx, restURL(client.orgURL, nil, "_apis", "work", "processes"), &envelope); err != nil {
		return nil, fmt.Errorf("listing processes: %w", err)
	}
	return envelope.Value, nil
}

// GetProcess fetches a work item tracking process by type ID.
func (client *Client) GetProcess(ctx context.Context, processTypeID string) (*Process, error) {
	var process Process
	if err := client.get(ctx, restURL(client.orgURL, nil, "_apis", "work", "processes", processTypeID), &process); err != nil {
		return nil, fmt.Errorf("getting process %s: %w", processTypeID, err)
	}
	return &process, nil
}

// ListProcessWorkItemTypes returns the work item types a process
// defines.
func (client *Client) ListProcessWorkItemTypes(ctx context.Context, processTypeID string) ([]ProcessWorkItemType, error) {
	var envelope listResponse[ProcessWorkItemType]
	if err := client.get(ctx, restURL(client.orgURL, nil, "_apis", "work", "processes", processTypeID, "workitemtypes"), &envelope); err != nil {
		return nil, fmt.Errorf("listing work item types of process %s: %w", processTypeID, err)
	}
	return envelope.Value, nil
}

// GetProcessWorkItemType fetches one work item type of a process by
// reference name, for example "Agile.UserStory".
func (client *Client) GetProcessWorkItemType(ctx context.Context, processTypeID, witRefName string) (*ProcessWorkItemType, error) {
	var workItemType ProcessWorkItemType
	if err := client.get(ctx, restURL(client.orgURL, nil, "_apis", "work", "processes", processTypeID, "workitemtypes", witRefName), &workItemType); err != nil {
		return nil, fmt.Errorf("getting work item type %s of process %s: %w", witRefName, processTypeID, err)
	}
	return &workItemType, nil
}

// ListProcessStates returns the workflow states of a process work item
// type in board order.
func (client *Client) ListProcessStates(ctx context.Context, processTypeID, witRefName string) ([]ProcessState, error) {
	var envelope listResponse[ProcessState]
	if err := client.get(ctx, restURL(client.orgURL, nil, "_apis", "work", "processes", processTypeID, "workitemtypes", witRefName, "states"), &envelope); err != nil {
		return nil, fmt.Errorf("listing states of work item type %s: %w", witRefName, err)
	}
	return envelope.Value, nil
}

// GetProcessState fetches one workflow state by ID.
func (client *Client) GetProcessState(ctx context.Context, processTypeID, witRefName, stateID string) (*ProcessState, error) {
	var state ProcessState
	if err := client.get(ctx, restURL(client.orgURL, nil, "_apis", "work", "processes", processTypeID, "workitemtypes", witRefName, "states", stateID), &state); err != nil {
		return nil, fmt.Errorf("getting state %s of work item type %s: %w", stateID, witRefName, err)
	}
	return &state, nil
}

// CreateProcessState adds a workflow state to an inherited work item
// type. System work item types must be inherited before their states
// can change.
func (client *Client) CreateProcessState(ctx context.Context, processTypeID, witRefName string, request CreateStateRequest) (*ProcessState, error) {
	if request.Name == "" {
		return nil, fmt.Errorf("azuredevops: creating state: Name is required")
	}

	var state ProcessState
	if err := client.post(ctx, restURL(client.orgURL, nil, "_apis", "work", "processes", processTypeID, "workitemtypes", witRefName, "states"), request, &state); err != nil {
		return nil, fmt.Errorf("creating state %s on work item type %s: %w", request.Name, witRefName, err)
	}
	return &state, nil
}

// UpdateProcessState renames a workflow state or changes its color or
// order. The state category cannot change after creation.
func (client *Client) UpdateProcessState(ctx context.Context, processTypeID, witRefName, stateID string, request UpdateStateRequest) (*ProcessState, error) {
	if request.Name == "" && request.Color == "" && request.Order == 0 {
		return nil, fmt.Errorf("azuredevops: updating state %s: no fields to update", stateID)
	}

	var state ProcessState
	if err := client.patch(ctx, restURL(client.orgURL, nil, "_apis", "work", "processes", processTypeID, "workitemtypes", witRefName, "states", stateID), request, &state); err != nil {
		return nil, fmt.Errorf("updating state %s of work item type %s: %w", stateID, witRefName, err)
	}
	return &state, nil
}

// DeleteProcessState removes a workflow state from an inherited work
// item type.
func (client *Client) DeleteProcessState(ctx context.Context, processTypeID, witRefName, stateID string) error {
	if err := client.delete(ctx, restURL(client.orgURL, nil, "_apis", "work", "processes", processTypeID, "workitemtypes", witRefName, "states", stateID)); err != nil {
		return fmt.Errorf("deleting state %s from work item type %s: %w", stateID, witRefName, err)
	}
	return nil
}

// ListProcessFields returns the fields of a process work item type.
func (client *Client) ListProcessFields(ctx context.Context, processTypeID, witRefName string) ([]ProcessField, error) {
	var envelope listResponse[ProcessField]
	if err := client.get(ctx, restURL(client.orgURL, nil, "_apis", "work", "processes", processTypeID, "workitemtypes", witRefName, "fields"), &envelope); err != nil {
		return nil, fmt.Errorf("listing fields of work item type %s: %w", witRefName, err)
	}
	return envelope.Value, nil
}
