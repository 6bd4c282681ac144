// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package devopstools

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/trackdeck/trackdeck/lib/azuredevops"
	"github.com/trackdeck/trackdeck/lib/llm"
	"github.com/trackdeck/trackdeck/lib/toolkit"
)

// newTestClient starts a stub Azure DevOps server and returns a client
// with all three API hosts pointed at it.
func newTestClient(t *testing.T, handler http.HandlerFunc) *azuredevops.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := azuredevops.NewClient(azuredevops.Config{
		OrgURL:     server.URL,
		PAT:        "devops-pat",
		SearchURL:  server.URL,
		ProfileURL: server.URL,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func callTool(t *testing.T, set toolkit.Set, name, arguments string) llm.ToolResult {
	t.Helper()
	return set.Call(context.Background(), llm.ToolUse{
		ID:    "call_1",
		Name:  name,
		Input: json.RawMessage(arguments),
	})
}

func expectSuccess(t *testing.T, result llm.ToolResult) string {
	t.Helper()
	if result.IsError {
		t.Fatalf("tool call failed: %s", result.Content)
	}
	return result.Content
}

func TestCatalogMembership(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
	})

	names := All(client).Names()
	for _, name := range []string{
		"get_all_projects", "create_project", "get_team_members",
		"get_work_item", "create_work_item", "get_work_items_by_wiql",
		"get_repositories", "create_pull_request",
		"get_process_templates", "delete_team", "get_organization_info",
		"get_team_iterations", "get_backlog_items", "get_team_settings",
		"get_team_capacity", "get_delivery_timeline_data",
		"search_code", "search_work_items", "search_wiki",
		"get_processes", "create_state", "get_process_work_item_type_fields",
	} {
		if !slices.Contains(names, name) {
			t.Errorf("catalog missing %s", name)
		}
	}

	// Profile tools talk to the platform-wide profile service, not the
	// organization, and bind separately.
	for _, name := range []string{"get_my_profile", "get_profile"} {
		if slices.Contains(names, name) {
			t.Errorf("catalog unexpectedly contains %s", name)
		}
	}
	for _, tool := range Profile(client) {
		if tool.Name == "" || tool.Description == "" {
			t.Errorf("profile tool %q has no description", tool.Name)
		}
	}
}

func TestCatalogDefinitionsComplete(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
	})

	for _, definition := range All(client).Definitions() {
		if definition.Description == "" {
			t.Errorf("tool %s has no description", definition.Name)
		}
		var schema struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(definition.InputSchema, &schema); err != nil {
			t.Errorf("tool %s schema: %v", definition.Name, err)
			continue
		}
		if schema.Type != "object" {
			t.Errorf("tool %s schema type = %q, want object", definition.Name, schema.Type)
		}
	}
}

func TestGetAllProjectsFollowsContinuation(t *testing.T) {
	t.Parallel()

	var requests int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("continuationToken") == "" {
			w.Header().Set("X-MS-ContinuationToken", "page-2")
			io.WriteString(w, `{"count": 1, "value": [
				{"id": "p1", "name": "Fabrikam", "state": "wellFormed", "visibility": "private"}
			]}`)
			return
		}
		io.WriteString(w, `{"count": 1, "value": [
			{"id": "p2", "name": "Contoso", "state": "wellFormed", "visibility": "public"}
		]}`)
	})

	output := expectSuccess(t, callTool(t, All(client), "get_all_projects", `{}`))

	if requests != 2 {
		t.Errorf("requests = %d, want 2", requests)
	}
	var projects []map[string]any
	if err := json.Unmarshal([]byte(output), &projects); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, output)
	}
	if len(projects) != 2 {
		t.Fatalf("projects = %d, want 2", len(projects))
	}
	if projects[0]["name"] != "Fabrikam" || projects[1]["name"] != "Contoso" {
		t.Errorf("project names = %v, %v", projects[0]["name"], projects[1]["name"])
	}
}

func TestGetWorkItemTool(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/_apis/wit/workitems/42") {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": 42, "rev": 3,
			"fields": {
				"System.Title": "Login page broken",
				"System.State": "Active",
				"System.WorkItemType": "Bug"
			},
			"url": "https://dev.azure.com/fabrikam/_apis/wit/workItems/42"
		}`)
	})

	output := expectSuccess(t, callTool(t, All(client), "get_work_item", `{"id":42}`))

	var formatted map[string]any
	if err := json.Unmarshal([]byte(output), &formatted); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, output)
	}
	if formatted["id"] != float64(42) || formatted["rev"] != float64(3) {
		t.Errorf("id/rev = %v/%v", formatted["id"], formatted["rev"])
	}
	fields, ok := formatted["fields"].(map[string]any)
	if !ok || fields["System.Title"] != "Login page broken" {
		t.Errorf("fields = %v", formatted["fields"])
	}
}

func TestCreateWorkItemDocument(t *testing.T) {
	t.Parallel()

	var document []map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&document); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id": 99, "rev": 1, "fields": {"System.Title": "New bug"}, "url": "u"}`)
	})

	expectSuccess(t, callTool(t, All(client), "create_work_item", `{
		"project": "Fabrikam",
		"work_item_type": "Bug",
		"title": "New bug",
		"assigned_to": "ada@example.com",
		"priority": 1,
		"additional_fields": {
			"System.Tags": "regression",
			"Microsoft.VSTS.Scheduling.StoryPoints": 5
		}
	}`))

	paths := make([]string, 0, len(document))
	for _, operation := range document {
		if operation["op"] != "add" {
			t.Errorf("op = %v, want add", operation["op"])
		}
		paths = append(paths, operation["path"].(string))
	}
	want := []string{
		"/fields/System.Title",
		"/fields/System.AssignedTo",
		"/fields/Microsoft.VSTS.Common.Priority",
		"/fields/Microsoft.VSTS.Scheduling.StoryPoints",
		"/fields/System.Tags",
	}
	if !slices.Equal(paths, want) {
		t.Errorf("document paths = %v, want %v", paths, want)
	}
}

func TestUpdateWorkItemWithoutFields(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
	})

	result := callTool(t, All(client), "update_work_item", `{"id":42}`)

	if !result.IsError {
		t.Fatal("expected error result for empty update")
	}
	if !strings.Contains(result.Content, "no fields to update") {
		t.Errorf("Content = %q", result.Content)
	}
}

func TestGetWorkItemsByWiqlFetchesFields(t *testing.T) {
	t.Parallel()

	var wiqlBody map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/_apis/wit/wiql"):
			if err := json.NewDecoder(r.Body).Decode(&wiqlBody); err != nil {
				t.Errorf("decode body: %v", err)
			}
			io.WriteString(w, `{"queryType": "flat", "workItems": [{"id": 1}, {"id": 2}]}`)
		case strings.HasSuffix(r.URL.Path, "/_apis/wit/workitems"):
			if got := r.URL.Query().Get("ids"); got != "1,2" {
				t.Errorf("ids = %q, want 1,2", got)
			}
			io.WriteString(w, `{"count": 2, "value": [
				{"id": 1, "fields": {"System.Title": "First"}},
				{"id": 2, "fields": {"System.Title": "Second"}}
			]}`)
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	})

	output := expectSuccess(t, callTool(t, All(client), "get_work_items_by_wiql",
		`{"project":"Fabrikam","query":"SELECT [System.Id] FROM WorkItems"}`))

	if got := wiqlBody["query"]; got != "SELECT [System.Id] FROM WorkItems" {
		t.Errorf("query = %v", got)
	}
	var listing struct {
		Count     int              `json:"count"`
		WorkItems []map[string]any `json:"work_items"`
	}
	if err := json.Unmarshal([]byte(output), &listing); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, output)
	}
	if listing.Count != 2 || len(listing.WorkItems) != 2 {
		t.Errorf("count = %d, items = %d", listing.Count, len(listing.WorkItems))
	}
}

func TestGetWorkItemsByWiqlEmptyResult(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/_apis/wit/wiql") {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"queryType": "flat", "workItems": []}`)
	})

	output := expectSuccess(t, callTool(t, All(client), "get_work_items_by_wiql",
		`{"project":"Fabrikam","query":"SELECT [System.Id] FROM WorkItems"}`))

	var listing struct {
		Count     int              `json:"count"`
		WorkItems []map[string]any `json:"work_items"`
	}
	if err := json.Unmarshal([]byte(output), &listing); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, output)
	}
	if listing.Count != 0 || listing.WorkItems == nil {
		t.Errorf("want empty listing with a work_items array, got %s", output)
	}
}

func TestDeleteWorkItemMessages(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	output := expectSuccess(t, callTool(t, All(client), "delete_work_item", `{"id":42}`))
	if output != "Work item 42 was deleted and moved to the recycle bin." {
		t.Errorf("output = %q", output)
	}

	output = expectSuccess(t, callTool(t, All(client), "delete_work_item", `{"id":43,"destroy":true}`))
	if output != "Work item 43 was permanently destroyed." {
		t.Errorf("output = %q", output)
	}
}

func TestUpdateTeamWithoutChanges(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
	})

	output := expectSuccess(t, callTool(t, All(client), "update_team",
		`{"project":"Fabrikam","team":"Web"}`))

	if output != "No changes requested for team update." {
		t.Errorf("output = %q", output)
	}
}

func TestDeleteTeamTool(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	output := expectSuccess(t, callTool(t, All(client), "delete_team",
		`{"project":"Fabrikam","team":"Web"}`))

	if output != "Team 'Web' was successfully deleted from project 'Fabrikam'." {
		t.Errorf("output = %q", output)
	}
}

func TestGetBranchesClientSideFilter(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"count": 3, "value": [
			{"name": "main", "aheadCount": 0, "behindCount": 0, "isBaseVersion": true},
			{"name": "feature/login", "aheadCount": 2, "behindCount": 1},
			{"name": "feature/search", "aheadCount": 5, "behindCount": 0}
		]}`)
	})

	output := expectSuccess(t, callTool(t, All(client), "get_branches",
		`{"project":"Fabrikam","repository":"web","filter":"feature/"}`))

	var branches []map[string]any
	if err := json.Unmarshal([]byte(output), &branches); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, output)
	}
	if len(branches) != 2 {
		t.Fatalf("branches = %d, want 2:\n%s", len(branches), output)
	}
	for _, branch := range branches {
		if !strings.HasPrefix(branch["name"].(string), "feature/") {
			t.Errorf("unfiltered branch %v", branch["name"])
		}
	}
}

func TestSearchWorkItemsFilterKeys(t *testing.T) {
	t.Parallel()

	var body map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/_apis/search/workitemsearchresults") {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"count": 1, "results": [
			{"project": {"name": "Fabrikam"}, "fields": {"system.id": "42", "system.title": "Login page broken"}}
		]}`)
	})

	output := expectSuccess(t, callTool(t, All(client), "search_work_items",
		`{"search_text":"login","work_item_type":"Bug","state":"Active"}`))

	filters, ok := body["filters"].(map[string]any)
	if !ok {
		t.Fatalf("filters missing from request: %v", body)
	}
	for _, key := range []string{"System.WorkItemType", "System.State"} {
		if _, present := filters[key]; !present {
			t.Errorf("filters missing %s: %v", key, filters)
		}
	}
	if !strings.Contains(output, `"count": 1`) {
		t.Errorf("output = %s", output)
	}
}

func TestUpdateStateWithoutParameters(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
	})

	output := expectSuccess(t, callTool(t, All(client), "update_state",
		`{"process_id":"proc-1","work_item_type_ref":"MyProcess.Bug","state_id":"state-1"}`))

	if output != "Error: No update parameters provided." {
		t.Errorf("output = %q", output)
	}
}

func TestUpdatePlanPreservesRevision(t *testing.T) {
	t.Parallel()

	var update map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			io.WriteString(w, `{
				"id": "plan-1", "name": "Q3 Delivery", "type": "deliveryTimelineView",
				"description": "old", "revision": 7
			}`)
		case http.MethodPut:
			if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
				t.Errorf("decode body: %v", err)
			}
			io.WriteString(w, `{
				"id": "plan-1", "name": "Q3 Delivery", "type": "deliveryTimelineView",
				"description": "Scope for the Q3 release", "revision": 8
			}`)
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	})

	expectSuccess(t, callTool(t, All(client), "update_plan",
		`{"project":"Fabrikam","plan_id":"plan-1","description":"Scope for the Q3 release"}`))

	if update["name"] != "Q3 Delivery" {
		t.Errorf("name = %v, want the current name preserved", update["name"])
	}
	if update["revision"] != float64(7) {
		t.Errorf("revision = %v, want 7", update["revision"])
	}
	if update["description"] != "Scope for the Q3 release" {
		t.Errorf("description = %v", update["description"])
	}
}

func TestAPIFailureBecomesToolError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"message": "TF401232: Work item 404 does not exist.", "typeKey": "WorkItemNotFoundException"}`)
	})

	result := callTool(t, All(client), "get_work_item", `{"id":404}`)

	if !result.IsError {
		t.Fatal("expected error result for API failure")
	}
	if !strings.Contains(result.Content, "TF401232") {
		t.Errorf("Content = %q, want the server's error message", result.Content)
	}
	if !strings.Contains(result.Content, "HTTP 404") {
		t.Errorf("Content = %q, want the HTTP status", result.Content)
	}
}

func TestGetMyProfileTool(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/_apis/profile/profiles/me") {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": "user-1", "displayName": "Ada Lovelace",
			"emailAddress": "ada@example.com", "coreRevision": 412
		}`)
	})

	set := toolkit.NewSet(Profile(client)...)
	output := expectSuccess(t, callTool(t, set, "get_my_profile", `{}`))

	var profile map[string]any
	if err := json.Unmarshal([]byte(output), &profile); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, output)
	}
	if profile["display_name"] != "Ada Lovelace" || profile["email_address"] != "ada@example.com" {
		t.Errorf("profile = %v", profile)
	}
}
