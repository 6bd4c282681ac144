// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package devopstools

import (
	"encoding/json"
	"fmt"

	"github.com/trackdeck/trackdeck/lib/azuredevops"
)

// formatJSON renders a tool result as indented JSON. Map keys marshal
// in sorted order, so outputs are deterministic.
func formatJSON(value any) (string, error) {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "", fmt.Errorf("devopstools: encoding result: %w", err)
	}
	return string(encoded), nil
}

// identityName returns the display name of an identity, or empty when
// the reference is absent.
func identityName(identity *azuredevops.IdentityRef) string {
	if identity == nil {
		return ""
	}
	return identity.DisplayName
}

// formatWorkItem is the standard work item rendering: identifiers plus
// the full field map, with relations when present.
func formatWorkItem(workItem *azuredevops.WorkItem) map[string]any {
	formatted := map[string]any{
		"id":     workItem.ID,
		"rev":    workItem.Rev,
		"fields": workItem.Fields,
		"url":    workItem.URL,
	}
	if len(workItem.Relations) > 0 {
		relations := make([]map[string]any, 0, len(workItem.Relations))
		for _, relation := range workItem.Relations {
			relations = append(relations, map[string]any{
				"rel":        relation.Rel,
				"url":        relation.URL,
				"attributes": relation.Attributes,
			})
		}
		formatted["relations"] = relations
	}
	return formatted
}

// formatWorkItemList renders a batch of work items under a count, the
// shape query tools answer with.
func formatWorkItemList(workItems []azuredevops.WorkItem) (string, error) {
	formatted := make([]map[string]any, 0, len(workItems))
	for i := range workItems {
		formatted = append(formatted, formatWorkItem(&workItems[i]))
	}
	return formatJSON(map[string]any{"count": len(formatted), "work_items": formatted})
}

// formatIteration renders a team iteration with its dates and time
// frame.
func formatIteration(iteration *azuredevops.TeamIteration) map[string]any {
	formatted := map[string]any{
		"id":   iteration.ID,
		"name": iteration.Name,
		"path": iteration.Path,
	}
	if iteration.Attributes != nil {
		formatted["start_date"] = iteration.Attributes.StartDate
		formatted["finish_date"] = iteration.Attributes.FinishDate
		formatted["time_frame"] = iteration.Attributes.TimeFrame
	}
	return formatted
}

// linkTargetIDs extracts the target work item IDs from relation edges,
// dropping the synthetic nil entries backlog listings pad with.
func linkTargetIDs(links []azuredevops.WorkItemLink) []int {
	ids := make([]int, 0, len(links))
	for _, link := range links {
		if link.Target != nil && link.Target.ID != 0 {
			ids = append(ids, link.Target.ID)
		}
	}
	return ids
}
