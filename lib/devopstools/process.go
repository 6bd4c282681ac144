// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package devopstools

import (
	"context"
	"fmt"

	"github.com/trackdeck/trackdeck/lib/azuredevops"
	"github.com/trackdeck/trackdeck/lib/toolkit"
)

// WorkItemTrackingProcess returns the process customization tools for
// inherited processes: work item types, their states and fields.
func WorkItemTrackingProcess(client *azuredevops.Client) []toolkit.Tool {
	return []toolkit.Tool{
		getProcessesTool(client),
		getProcessTool(client),
		getProcessWorkItemTypesTool(client),
		getProcessWorkItemTypeTool(client),
		getStatesTool(client),
		getStateTool(client),
		createStateTool(client),
		updateStateTool(client),
		deleteStateTool(client),
		getWorkItemTypeStatesTool(client),
		getProcessWorkItemTypeFieldsTool(client),
	}
}

func formatProcess(process *azuredevops.Process) map[string]any {
	return map[string]any{
		"type_id":            process.TypeID,
		"name":               process.Name,
		"reference_name":     process.ReferenceName,
		"description":        process.Description,
		"is_enabled":         process.IsEnabled,
		"is_default":         process.IsDefault,
		"customization_type": process.CustomizationType,
	}
}

type getProcessesInput struct{}

func getProcessesTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_processes",
		"Get all processes in the organization with their customization type.",
		func(ctx context.Context, input getProcessesInput) (string, error) {
			processes, err := client.ListProcesses(ctx)
			if err != nil {
				return "", err
			}

			formatted := make([]map[string]any, 0, len(processes))
			for index := range processes {
				formatted = append(formatted, formatProcess(&processes[index]))
			}
			return formatJSON(formatted)
		})
}

type getProcessInput struct {
	ProcessID string `json:"process_id" jsonschema_description:"The process type ID, from get_processes"`
}

func getProcessTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_process",
		"Get a process by its type ID.",
		func(ctx context.Context, input getProcessInput) (string, error) {
			process, err := client.GetProcess(ctx, input.ProcessID)
			if err != nil {
				return "", err
			}
			return formatJSON(formatProcess(process))
		})
}

func formatProcessWorkItemType(workItemType *azuredevops.ProcessWorkItemType) map[string]any {
	return map[string]any{
		"reference_name": workItemType.ReferenceName,
		"name":           workItemType.Name,
		"description":    workItemType.Description,
		"color":          workItemType.Color,
		"customization":  workItemType.Customization,
		"is_disabled":    workItemType.IsDisabled,
	}
}

type getProcessWorkItemTypesInput struct {
	ProcessID string `json:"process_id" jsonschema_description:"The process type ID, from get_processes"`
}

func getProcessWorkItemTypesTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_process_work_item_types",
		"Get the work item types defined by a process.",
		func(ctx context.Context, input getProcessWorkItemTypesInput) (string, error) {
			types, err := client.ListProcessWorkItemTypes(ctx, input.ProcessID)
			if err != nil {
				return "", err
			}

			formatted := make([]map[string]any, 0, len(types))
			for index := range types {
				formatted = append(formatted, formatProcessWorkItemType(&types[index]))
			}
			return formatJSON(formatted)
		})
}

type getProcessWorkItemTypeInput struct {
	ProcessID       string `json:"process_id" jsonschema_description:"The process type ID, from get_processes"`
	WorkItemTypeRef string `json:"work_item_type_ref" jsonschema_description:"The work item type reference name, for example 'Microsoft.VSTS.WorkItemTypes.Bug' or 'MyProcess.Incident'"`
}

func getProcessWorkItemTypeTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_process_work_item_type",
		"Get one work item type of a process by reference name.",
		func(ctx context.Context, input getProcessWorkItemTypeInput) (string, error) {
			workItemType, err := client.GetProcessWorkItemType(ctx, input.ProcessID, input.WorkItemTypeRef)
			if err != nil {
				return "", err
			}
			return formatJSON(formatProcessWorkItemType(workItemType))
		})
}

func formatProcessState(state *azuredevops.ProcessState) map[string]any {
	return map[string]any{
		"id":                 state.ID,
		"name":               state.Name,
		"color":              state.Color,
		"state_category":     state.StateCategory,
		"order":              state.Order,
		"customization_type": state.CustomizationType,
	}
}

type getStatesInput struct {
	ProcessID       string `json:"process_id" jsonschema_description:"The process type ID, from get_processes"`
	WorkItemTypeRef string `json:"work_item_type_ref" jsonschema_description:"The work item type reference name"`
}

func getStatesTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_states",
		"Get the state definitions of a work item type in a process.",
		func(ctx context.Context, input getStatesInput) (string, error) {
			states, err := client.ListProcessStates(ctx, input.ProcessID, input.WorkItemTypeRef)
			if err != nil {
				return "", err
			}

			formatted := make([]map[string]any, 0, len(states))
			for index := range states {
				formatted = append(formatted, formatProcessState(&states[index]))
			}
			return formatJSON(map[string]any{
				"count":  len(states),
				"states": formatted,
			})
		})
}

type getStateInput struct {
	ProcessID       string `json:"process_id" jsonschema_description:"The process type ID, from get_processes"`
	WorkItemTypeRef string `json:"work_item_type_ref" jsonschema_description:"The work item type reference name"`
	StateID         string `json:"state_id" jsonschema_description:"The state definition ID, from get_states"`
}

func getStateTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_state",
		"Get one state definition of a work item type.",
		func(ctx context.Context, input getStateInput) (string, error) {
			state, err := client.GetProcessState(ctx, input.ProcessID, input.WorkItemTypeRef, input.StateID)
			if err != nil {
				return "", err
			}
			return formatJSON(formatProcessState(state))
		})
}

type createStateInput struct {
	ProcessID       string `json:"process_id" jsonschema_description:"The process type ID, from get_processes"`
	WorkItemTypeRef string `json:"work_item_type_ref" jsonschema_description:"The work item type reference name"`
	Name            string `json:"name" jsonschema_description:"The name of the new state"`
	Color           string `json:"color,omitempty" jsonschema_description:"The state color as a hex code without '#', for example 'E87025'"`
	StateCategory   string `json:"state_category,omitempty" jsonschema_description:"The category: 'Proposed', 'InProgress', 'Resolved', 'Completed' or 'Removed'"`
	Order           int    `json:"order,omitempty" jsonschema_description:"Position of the state within its category"`
}

func createStateTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("create_state",
		"Add a state to a work item type in an inherited process. System processes cannot be changed.",
		func(ctx context.Context, input createStateInput) (string, error) {
			state, err := client.CreateProcessState(ctx, input.ProcessID, input.WorkItemTypeRef, azuredevops.CreateStateRequest{
				Name:          input.Name,
				Color:         input.Color,
				StateCategory: input.StateCategory,
				Order:         input.Order,
			})
			if err != nil {
				return "", err
			}
			return formatJSON(formatProcessState(state))
		})
}

type updateStateInput struct {
	ProcessID       string `json:"process_id" jsonschema_description:"The process type ID, from get_processes"`
	WorkItemTypeRef string `json:"work_item_type_ref" jsonschema_description:"The work item type reference name"`
	StateID         string `json:"state_id" jsonschema_description:"The state definition ID, from get_states"`
	Name            string `json:"name,omitempty" jsonschema_description:"The new state name"`
	Color           string `json:"color,omitempty" jsonschema_description:"The new state color as a hex code without '#'"`
	Order           int    `json:"order,omitempty" jsonschema_description:"The new position of the state within its category"`
}

func updateStateTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("update_state",
		"Change the name, color or order of a state definition. Only the provided fields change.",
		func(ctx context.Context, input updateStateInput) (string, error) {
			if input.Name == "" && input.Color == "" && input.Order == 0 {
				return "Error: No update parameters provided.", nil
			}
			state, err := client.UpdateProcessState(ctx, input.ProcessID, input.WorkItemTypeRef, input.StateID, azuredevops.UpdateStateRequest{
				Name:  input.Name,
				Color: input.Color,
				Order: input.Order,
			})
			if err != nil {
				return "", err
			}
			return formatJSON(formatProcessState(state))
		})
}

type deleteStateInput struct {
	ProcessID       string `json:"process_id" jsonschema_description:"The process type ID, from get_processes"`
	WorkItemTypeRef string `json:"work_item_type_ref" jsonschema_description:"The work item type reference name"`
	StateID         string `json:"state_id" jsonschema_description:"The state definition ID, from get_states"`
}

func deleteStateTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("delete_state",
		"Delete a state definition from a work item type in an inherited process.",
		func(ctx context.Context, input deleteStateInput) (string, error) {
			if err := client.DeleteProcessState(ctx, input.ProcessID, input.WorkItemTypeRef, input.StateID); err != nil {
				return "", err
			}
			return formatJSON(map[string]any{
				"message": fmt.Sprintf("State with ID %s has been deleted successfully.", input.StateID),
			})
		})
}

type getWorkItemTypeStatesInput struct {
	Project      string `json:"project" jsonschema_description:"The name or ID of the project"`
	WorkItemType string `json:"work_item_type" jsonschema_description:"The work item type name, for example 'Bug'"`
}

func getWorkItemTypeStatesTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_work_item_type_states",
		"Get the effective states of a work item type as seen inside a project.",
		func(ctx context.Context, input getWorkItemTypeStatesInput) (string, error) {
			states, err := client.ListWorkItemStates(ctx, input.Project, input.WorkItemType)
			if err != nil {
				return "", err
			}

			formatted := make([]map[string]any, 0, len(states))
			for _, state := range states {
				formatted = append(formatted, map[string]any{
					"name":           state.Name,
					"color":          state.Color,
					"state_category": state.Category,
				})
			}
			return formatJSON(map[string]any{
				"count":  len(states),
				"states": formatted,
			})
		})
}

type getProcessWorkItemTypeFieldsInput struct {
	ProcessID       string `json:"process_id" jsonschema_description:"The process type ID, from get_processes"`
	WorkItemTypeRef string `json:"work_item_type_ref" jsonschema_description:"The work item type reference name"`
}

func getProcessWorkItemTypeFieldsTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_process_work_item_type_fields",
		"Get the fields of a work item type in a process, with type and required flags.",
		func(ctx context.Context, input getProcessWorkItemTypeFieldsInput) (string, error) {
			fields, err := client.ListProcessFields(ctx, input.ProcessID, input.WorkItemTypeRef)
			if err != nil {
				return "", err
			}

			formatted := make([]map[string]any, 0, len(fields))
			for _, field := range fields {
				formatted = append(formatted, map[string]any{
					"reference_name": field.ReferenceName,
					"name":           field.Name,
					"type":           field.Type,
					"required":       field.Required,
					"read_only":      field.ReadOnly,
				})
			}
			return formatJSON(map[string]any{
				"count":  len(fields),
				"fields": formatted,
			})
		})
}
