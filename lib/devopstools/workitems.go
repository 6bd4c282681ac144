// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package devopstools

import (
	"context"
	"fmt"
	"sort"

	"github.com/trackdeck/trackdeck/lib/azuredevops"
	"github.com/trackdeck/trackdeck/lib/toolkit"
)

// WorkItems returns the work item tracking tools.
func WorkItems(client *azuredevops.Client) []toolkit.Tool {
	return []toolkit.Tool{
		getWorkItemTool(client),
		createWorkItemTool(client),
		updateWorkItemTool(client),
		deleteWorkItemTool(client),
		getWorkItemsByWiqlTool(client),
		getWorkItemTypesTool(client),
		getWorkItemStatesTool(client),
		addCommentToWorkItemTool(client),
		getWorkItemCommentsTool(client),
		getWorkItemUpdatesTool(client),
		getQueriesTool(client),
		runQueryTool(client),
		getWorkItemTagsTool(client),
		renameWorkItemTagTool(client),
		deleteWorkItemTagTool(client),
	}
}

type getWorkItemInput struct {
	ID int `json:"id" jsonschema_description:"The work item ID"`
}

func getWorkItemTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_work_item",
		"Get a work item by ID, including all fields and relations.",
		func(ctx context.Context, input getWorkItemInput) (string, error) {
			workItem, err := client.GetWorkItem(ctx, input.ID)
			if err != nil {
				return "", err
			}
			return formatJSON(formatWorkItem(workItem))
		})
}

// workItemFieldDocument maps the common edit inputs onto a JSON Patch
// document. Fields from additionalFields are appended in sorted order so
// the document is deterministic.
func workItemFieldDocument(title, description, assignedTo, state string, priority int, additionalFields map[string]any) []azuredevops.PatchOperation {
	var document []azuredevops.PatchOperation
	if title != "" {
		document = append(document, azuredevops.SetField("System.Title", title))
	}
	if description != "" {
		document = append(document, azuredevops.SetField("System.Description", description))
	}
	if assignedTo != "" {
		document = append(document, azuredevops.SetField("System.AssignedTo", assignedTo))
	}
	if state != "" {
		document = append(document, azuredevops.SetField("System.State", state))
	}
	if priority != 0 {
		document = append(document, azuredevops.SetField("Microsoft.VSTS.Common.Priority", priority))
	}
	fields := make([]string, 0, len(additionalFields))
	for field := range additionalFields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		document = append(document, azuredevops.SetField(field, additionalFields[field]))
	}
	return document
}

type createWorkItemInput struct {
	Project          string         `json:"project" jsonschema_description:"The name or ID of the project"`
	WorkItemType     string         `json:"work_item_type" jsonschema_description:"The work item type, for example 'Bug', 'Task', 'User Story' or 'Epic'"`
	Title            string         `json:"title" jsonschema_description:"The work item title"`
	Description      string         `json:"description,omitempty" jsonschema_description:"The work item description"`
	AssignedTo       string         `json:"assigned_to,omitempty" jsonschema_description:"The display name or email of the assignee"`
	State            string         `json:"state,omitempty" jsonschema_description:"The initial state, for example 'New' or 'Active'"`
	Priority         int            `json:"priority,omitempty" jsonschema_description:"The priority from 1 (highest) to 4 (lowest)"`
	AdditionalFields map[string]any `json:"additional_fields,omitempty" jsonschema_description:"Extra fields keyed by reference name, for example 'Microsoft.VSTS.Scheduling.StoryPoints'"`
}

func createWorkItemTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("create_work_item",
		"Create a new work item in a project.",
		func(ctx context.Context, input createWorkItemInput) (string, error) {
			document := workItemFieldDocument(input.Title, input.Description, input.AssignedTo, input.State, input.Priority, input.AdditionalFields)
			workItem, err := client.CreateWorkItem(ctx, input.Project, input.WorkItemType, document)
			if err != nil {
				return "", err
			}
			return formatJSON(map[string]any{
				"id":     workItem.ID,
				"url":    workItem.URL,
				"fields": workItem.Fields,
			})
		})
}

type updateWorkItemInput struct {
	ID               int            `json:"id" jsonschema_description:"The work item ID"`
	Title            string         `json:"title,omitempty" jsonschema_description:"The new title"`
	Description      string         `json:"description,omitempty" jsonschema_description:"The new description"`
	AssignedTo       string         `json:"assigned_to,omitempty" jsonschema_description:"The display name or email of the new assignee"`
	State            string         `json:"state,omitempty" jsonschema_description:"The new state, for example 'Active', 'Resolved' or 'Closed'"`
	Priority         int            `json:"priority,omitempty" jsonschema_description:"The new priority from 1 (highest) to 4 (lowest)"`
	AdditionalFields map[string]any `json:"additional_fields,omitempty" jsonschema_description:"Extra fields keyed by reference name"`
}

func updateWorkItemTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("update_work_item",
		"Update fields on an existing work item. Only the provided fields change.",
		func(ctx context.Context, input updateWorkItemInput) (string, error) {
			document := workItemFieldDocument(input.Title, input.Description, input.AssignedTo, input.State, input.Priority, input.AdditionalFields)
			workItem, err := client.UpdateWorkItem(ctx, input.ID, document)
			if err != nil {
				return "", err
			}
			return formatJSON(map[string]any{
				"id":     workItem.ID,
				"rev":    workItem.Rev,
				"fields": workItem.Fields,
				"url":    workItem.URL,
			})
		})
}

type deleteWorkItemInput struct {
	ID      int  `json:"id" jsonschema_description:"The work item ID"`
	Destroy bool `json:"destroy,omitempty" jsonschema_description:"Permanently destroy the work item instead of moving it to the recycle bin"`
}

func deleteWorkItemTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("delete_work_item",
		"Delete a work item. By default it moves to the recycle bin; pass destroy to remove it permanently.",
		func(ctx context.Context, input deleteWorkItemInput) (string, error) {
			if err := client.DeleteWorkItem(ctx, input.ID, input.Destroy); err != nil {
				return "", err
			}
			if input.Destroy {
				return fmt.Sprintf("Work item %d was permanently destroyed.", input.ID), nil
			}
			return fmt.Sprintf("Work item %d was deleted and moved to the recycle bin.", input.ID), nil
		})
}

type getWorkItemsByWiqlInput struct {
	Project string `json:"project" jsonschema_description:"The name or ID of the project"`
	Query   string `json:"query" jsonschema_description:"The WIQL query, for example \"SELECT [System.Id] FROM WorkItems WHERE [System.State] = 'Active'\""`
	Top     int    `json:"top,omitempty" jsonschema_description:"Maximum number of results to return. Defaults to 100"`
}

func getWorkItemsByWiqlTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_work_items_by_wiql",
		"Run a WIQL query and return the matching work items with their fields.",
		func(ctx context.Context, input getWorkItemsByWiqlInput) (string, error) {
			top := input.Top
			if top == 0 {
				top = 100
			}
			result, err := client.QueryByWiql(ctx, input.Project, input.Query, top)
			if err != nil {
				return "", err
			}

			ids := make([]int, 0, len(result.WorkItems))
			for _, reference := range result.WorkItems {
				ids = append(ids, reference.ID)
			}
			workItems, err := client.GetWorkItems(ctx, ids)
			if err != nil {
				return "", err
			}
			return formatWorkItemList(workItems)
		})
}

type getWorkItemTypesInput struct {
	Project string `json:"project" jsonschema_description:"The name or ID of the project"`
}

func getWorkItemTypesTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_work_item_types",
		"Get the work item types available in a project.",
		func(ctx context.Context, input getWorkItemTypesInput) (string, error) {
			types, err := client.ListWorkItemTypes(ctx, input.Project)
			if err != nil {
				return "", err
			}

			formatted := make([]map[string]any, 0, len(types))
			for _, workItemType := range types {
				entry := map[string]any{
					"name":           workItemType.Name,
					"reference_name": workItemType.ReferenceName,
					"description":    workItemType.Description,
					"color":          workItemType.Color,
				}
				if workItemType.Icon != nil {
					entry["icon"] = workItemType.Icon.URL
				}
				formatted = append(formatted, entry)
			}
			return formatJSON(formatted)
		})
}

type getWorkItemStatesInput struct {
	Project      string `json:"project" jsonschema_description:"The name or ID of the project"`
	WorkItemType string `json:"work_item_type" jsonschema_description:"The work item type name, for example 'Bug'"`
}

func getWorkItemStatesTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_work_item_states",
		"Get the states a work item type can be in, with their categories.",
		func(ctx context.Context, input getWorkItemStatesInput) (string, error) {
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
			return formatJSON(formatted)
		})
}

type addCommentInput struct {
	Project    string `json:"project" jsonschema_description:"The name or ID of the project"`
	WorkItemID int    `json:"work_item_id" jsonschema_description:"The work item ID"`
	Text       string `json:"text" jsonschema_description:"The comment text"`
}

func addCommentToWorkItemTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("add_comment_to_work_item",
		"Add a comment to a work item.",
		func(ctx context.Context, input addCommentInput) (string, error) {
			comment, err := client.AddComment(ctx, input.Project, input.WorkItemID, input.Text)
			if err != nil {
				return "", err
			}
			return formatJSON(formatComment(comment))
		})
}

type getCommentsInput struct {
	Project    string `json:"project" jsonschema_description:"The name or ID of the project"`
	WorkItemID int    `json:"work_item_id" jsonschema_description:"The work item ID"`
}

func getWorkItemCommentsTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_work_item_comments",
		"Get all comments on a work item.",
		func(ctx context.Context, input getCommentsInput) (string, error) {
			comments, err := client.ListComments(ctx, input.Project, input.WorkItemID)
			if err != nil {
				return "", err
			}

			formatted := make([]map[string]any, 0, len(comments.Comments))
			for index := range comments.Comments {
				formatted = append(formatted, formatComment(&comments.Comments[index]))
			}
			return formatJSON(map[string]any{
				"count":    comments.TotalCount,
				"comments": formatted,
			})
		})
}

func formatComment(comment *azuredevops.WorkItemComment) map[string]any {
	formatted := map[string]any{
		"id":           comment.ID,
		"text":         comment.Text,
		"created_date": comment.CreatedDate,
		"url":          comment.URL,
	}
	if comment.CreatedBy != nil {
		formatted["created_by"] = map[string]any{
			"id":           comment.CreatedBy.ID,
			"display_name": comment.CreatedBy.DisplayName,
		}
	} else {
		formatted["created_by"] = nil
	}
	return formatted
}

type getWorkItemUpdatesInput struct {
	ID int `json:"id" jsonschema_description:"The work item ID"`
}

func getWorkItemUpdatesTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_work_item_updates",
		"Get the revision history of a work item, showing which fields changed in each update.",
		func(ctx context.Context, input getWorkItemUpdatesInput) (string, error) {
			updates, err := client.GetUpdates(ctx, input.ID)
			if err != nil {
				return "", err
			}

			formatted := make([]map[string]any, 0, len(updates))
			for _, update := range updates {
				entry := map[string]any{
					"id":           update.ID,
					"rev":          update.Rev,
					"revised_by":   identityName(update.RevisedBy),
					"revised_date": update.RevisedDate,
				}
				if len(update.Fields) > 0 {
					changes := make(map[string]any, len(update.Fields))
					for field, change := range update.Fields {
						changes[field] = map[string]any{
							"old_value": change.OldValue,
							"new_value": change.NewValue,
						}
					}
					entry["fields"] = changes
				}
				formatted = append(formatted, entry)
			}
			return formatJSON(formatted)
		})
}

type getQueriesInput struct {
	Project string `json:"project" jsonschema_description:"The name or ID of the project"`
	Depth   int    `json:"depth,omitempty" jsonschema_description:"How many folder levels to expand, 1 or 2. Defaults to 1"`
}

func getQueriesTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_queries",
		"Get the saved work item queries in a project, including shared query folders.",
		func(ctx context.Context, input getQueriesInput) (string, error) {
			depth := input.Depth
			if depth == 0 {
				depth = 1
			}
			queries, err := client.ListQueries(ctx, input.Project, depth)
			if err != nil {
				return "", err
			}
			return formatJSON(formatQueryItems(queries))
		})
}

func formatQueryItems(items []azuredevops.QueryItem) []map[string]any {
	formatted := make([]map[string]any, 0, len(items))
	for _, item := range items {
		entry := map[string]any{
			"id":        item.ID,
			"name":      item.Name,
			"path":      item.Path,
			"is_folder": item.IsFolder,
		}
		if item.WIQL != "" {
			entry["wiql"] = item.WIQL
		}
		if len(item.Children) > 0 {
			entry["children"] = formatQueryItems(item.Children)
		}
		formatted = append(formatted, entry)
	}
	return formatted
}

type runQueryInput struct {
	Project string `json:"project" jsonschema_description:"The name or ID of the project"`
	QueryID string `json:"query_id" jsonschema_description:"The ID of the saved query, from get_queries"`
	Top     int    `json:"top,omitempty" jsonschema_description:"Maximum number of results to return. Defaults to 100"`
}

func runQueryTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("run_query",
		"Run a saved work item query by ID and return the matching work items.",
		func(ctx context.Context, input runQueryInput) (string, error) {
			top := input.Top
			if top == 0 {
				top = 100
			}
			result, err := client.RunQueryByID(ctx, input.Project, input.QueryID, top)
			if err != nil {
				return "", err
			}

			ids := make([]int, 0, len(result.WorkItems))
			for _, reference := range result.WorkItems {
				ids = append(ids, reference.ID)
			}
			if len(ids) == 0 && len(result.WorkItemRelations) > 0 {
				ids = linkTargetIDs(result.WorkItemRelations)
			}
			workItems, err := client.GetWorkItems(ctx, ids)
			if err != nil {
				return "", err
			}
			return formatWorkItemList(workItems)
		})
}

type getTagsInput struct {
	Project string `json:"project" jsonschema_description:"The name or ID of the project"`
}

func getWorkItemTagsTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_work_item_tags",
		"Get the work item tags defined in a project.",
		func(ctx context.Context, input getTagsInput) (string, error) {
			tags, err := client.ListTags(ctx, input.Project)
			if err != nil {
				return "", err
			}

			formatted := make([]map[string]any, 0, len(tags))
			for _, tag := range tags {
				formatted = append(formatted, map[string]any{
					"id":   tag.ID,
					"name": tag.Name,
				})
			}
			return formatJSON(formatted)
		})
}

type renameTagInput struct {
	Project string `json:"project" jsonschema_description:"The name or ID of the project"`
	Tag     string `json:"tag" jsonschema_description:"The ID or current name of the tag"`
	NewName string `json:"new_name" jsonschema_description:"The new tag name"`
}

func renameWorkItemTagTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("rename_work_item_tag",
		"Rename a work item tag. Work items carrying the tag pick up the new name.",
		func(ctx context.Context, input renameTagInput) (string, error) {
			tag, err := client.UpdateTag(ctx, input.Project, input.Tag, input.NewName)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Tag was renamed to '%s'.", tag.Name), nil
		})
}

type deleteTagInput struct {
	Project string `json:"project" jsonschema_description:"The name or ID of the project"`
	Tag     string `json:"tag" jsonschema_description:"The ID or name of the tag"`
}

func deleteWorkItemTagTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("delete_work_item_tag",
		"Delete a work item tag from a project. The tag is removed from all work items.",
		func(ctx context.Context, input deleteTagInput) (string, error) {
			if err := client.DeleteTag(ctx, input.Project, input.Tag); err != nil {
				return "", err
			}
			return fmt.Sprintf("Tag '%s' was deleted from project '%s'.", input.Tag, input.Project), nil
		})
}
