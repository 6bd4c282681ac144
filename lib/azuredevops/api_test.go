// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package azuredevops

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

// decodeBody decodes a captured request body into a generic map for
// structural assertions.
func decodeBody(t *testing.T, body string) map[string]any {
	t.Helper()
	var decoded map[string]any
	if err := json.Unmarshal([]byte(body), &decoded); err != nil {
		t.Fatalf("request body is not valid JSON: %v\nbody: %s", err, body)
	}
	return decoded
}

func TestListProjectsContinuation(t *testing.T) {
	var receivedTokens []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/_apis/projects" {
			t.Errorf("path: got %q", r.URL.Path)
		}
		token := r.URL.Query().Get("continuationToken")
		receivedTokens = append(receivedTokens, token)
		if token == "" {
			w.Header().Set("x-ms-continuationtoken", "page-2")
			jsonResponse(w, http.StatusOK, `{"count":1,"value":[{"id":"p1","name":"Fabrikam","state":"wellFormed"}]}`)
			return
		}
		jsonResponse(w, http.StatusOK, `{"count":1,"value":[{"id":"p2","name":"Tailspin","state":"wellFormed"}]}`)
	}))

	first, err := client.ListProjects(context.Background(), ListProjectsOptions{})
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if first.ContinuationToken != "page-2" {
		t.Fatalf("ContinuationToken: got %q, want page-2", first.ContinuationToken)
	}
	if len(first.Projects) != 1 || first.Projects[0].Name != "Fabrikam" {
		t.Fatalf("Projects: got %+v", first.Projects)
	}

	second, err := client.ListProjects(context.Background(), ListProjectsOptions{ContinuationToken: first.ContinuationToken})
	if err != nil {
		t.Fatalf("ListProjects page 2: %v", err)
	}
	if second.ContinuationToken != "" {
		t.Errorf("ContinuationToken on last page: got %q, want empty", second.ContinuationToken)
	}
	if len(second.Projects) != 1 || second.Projects[0].Name != "Tailspin" {
		t.Errorf("Projects page 2: got %+v", second.Projects)
	}
	if len(receivedTokens) != 2 || receivedTokens[1] != "page-2" {
		t.Errorf("continuation tokens sent: got %v", receivedTokens)
	}
}

func TestGetProjectEscapesName(t *testing.T) {
	var receivedPath, receivedQuery string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedPath = r.URL.EscapedPath()
		receivedQuery = r.URL.RawQuery
		jsonResponse(w, http.StatusOK, `{"id":"p1","name":"Fabrikam Web","visibility":"private","defaultTeam":{"id":"t1","name":"Fabrikam Web Team"}}`)
	}))

	project, err := client.GetProject(context.Background(), "Fabrikam Web")
	if err != nil {
		t.Fatalf("GetProject: %v", err)
	}
	if receivedPath != "/_apis/projects/Fabrikam%20Web" {
		t.Errorf("path: got %q, want escaped project name", receivedPath)
	}
	if !strings.Contains(receivedQuery, "includeCapabilities=true") {
		t.Errorf("query %q should request capabilities", receivedQuery)
	}
	if project.DefaultTeam == nil || project.DefaultTeam.Name != "Fabrikam Web Team" {
		t.Errorf("DefaultTeam: got %+v", project.DefaultTeam)
	}
}

func TestCreateProject(t *testing.T) {
	var receivedBody string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		receivedBody = string(raw)
		jsonResponse(w, http.StatusAccepted, `{"id":"op-123","status":"queued"}`)
	}))

	operation, err := client.CreateProject(context.Background(), CreateProjectRequest{
		Name:              "Tailspin",
		Description:       "Flight tracker",
		ProcessTemplateID: "adcc42ab-9882-485e-a3ed-7678f01f66bc",
	})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if operation.ID != "op-123" || operation.Status != "queued" {
		t.Errorf("operation: got %+v", operation)
	}

	body := decodeBody(t, receivedBody)
	if body["name"] != "Tailspin" {
		t.Errorf("name: got %v", body["name"])
	}
	if body["visibility"] != "private" {
		t.Errorf("visibility: got %v, want private default", body["visibility"])
	}
	capabilities, _ := body["capabilities"].(map[string]any)
	versionControl, _ := capabilities["versioncontrol"].(map[string]any)
	if versionControl["sourceControlType"] != "Git" {
		t.Errorf("sourceControlType: got %v, want Git default", versionControl["sourceControlType"])
	}
	template, _ := capabilities["processTemplate"].(map[string]any)
	if template["templateTypeId"] != "adcc42ab-9882-485e-a3ed-7678f01f66bc" {
		t.Errorf("templateTypeId: got %v", template["templateTypeId"])
	}
}

func TestCreateProjectValidation(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	}))

	tests := []struct {
		name    string
		request CreateProjectRequest
		wantErr string
	}{
		{"missing name", CreateProjectRequest{}, "Name is required"},
		{"bad visibility", CreateProjectRequest{Name: "P", Visibility: "internal"}, "invalid visibility"},
		{"bad source control", CreateProjectRequest{Name: "P", SourceControlType: "svn"}, "invalid source control type"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := client.CreateProject(context.Background(), test.request)
			if err == nil || !strings.Contains(err.Error(), test.wantErr) {
				t.Fatalf("error: got %v, want containing %q", err, test.wantErr)
			}
		})
	}
}

func TestUpdateTeamRequiresFields(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	}))

	_, err := client.UpdateTeam(context.Background(), "Fabrikam", "Web Team", TeamUpdate{})
	if err == nil || !strings.Contains(err.Error(), "no fields to update") {
		t.Fatalf("error: got %v, want no fields to update", err)
	}
}

func TestSetProjectProperty(t *testing.T) {
	var receivedMethod, receivedContentType, receivedVersion, receivedBody string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedMethod = r.Method
		receivedContentType = r.Header.Get("Content-Type")
		receivedVersion = r.URL.Query().Get("api-version")
		raw, _ := io.ReadAll(r.Body)
		receivedBody = string(raw)
		w.WriteHeader(http.StatusOK)
	}))

	if err := client.SetProjectProperty(context.Background(), "Fabrikam", "Alias", "fbk"); err != nil {
		t.Fatalf("SetProjectProperty: %v", err)
	}

	if receivedMethod != http.MethodPatch {
		t.Errorf("method: got %q, want PATCH", receivedMethod)
	}
	if receivedContentType != contentTypePatch {
		t.Errorf("Content-Type: got %q, want %q", receivedContentType, contentTypePatch)
	}
	if receivedVersion != propertiesAPIVersion {
		t.Errorf("api-version: got %q, want %q", receivedVersion, propertiesAPIVersion)
	}

	var document []map[string]any
	if err := json.Unmarshal([]byte(receivedBody), &document); err != nil {
		t.Fatalf("body is not a patch document: %v", err)
	}
	if len(document) != 1 || document[0]["op"] != "add" || document[0]["path"] != "/Alias" || document[0]["value"] != "fbk" {
		t.Errorf("document: got %+v", document)
	}
}

func TestCreateWorkItem(t *testing.T) {
	var receivedMethod, receivedPath, receivedContentType, receivedBody string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedMethod = r.Method
		receivedPath = r.URL.EscapedPath()
		receivedContentType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		receivedBody = string(raw)
		jsonResponse(w, http.StatusOK, `{
			"id": 101,
			"rev": 1,
			"fields": {
				"System.Title": "Fix login page",
				"System.State": "New",
				"System.WorkItemType": "Bug"
			},
			"url": "https://dev.azure.com/fabrikam/_apis/wit/workItems/101"
		}`)
	}))

	workItem, err := client.CreateWorkItem(context.Background(), "Fabrikam", "Bug", []PatchOperation{
		SetField("System.Title", "Fix login page"),
		SetField("Microsoft.VSTS.Common.Priority", 1),
	})
	if err != nil {
		t.Fatalf("CreateWorkItem: %v", err)
	}

	if receivedMethod != http.MethodPost {
		t.Errorf("method: got %q, want POST", receivedMethod)
	}
	if receivedPath != "/Fabrikam/_apis/wit/workitems/$Bug" {
		t.Errorf("path: got %q", receivedPath)
	}
	if receivedContentType != contentTypePatch {
		t.Errorf("Content-Type: got %q, want %q", receivedContentType, contentTypePatch)
	}

	var document []map[string]any
	if err := json.Unmarshal([]byte(receivedBody), &document); err != nil {
		t.Fatalf("body is not a patch document: %v", err)
	}
	if len(document) != 2 {
		t.Fatalf("document length: got %d, want 2", len(document))
	}
	if document[0]["op"] != "add" || document[0]["path"] != "/fields/System.Title" || document[0]["value"] != "Fix login page" {
		t.Errorf("document[0]: got %+v", document[0])
	}
	if document[1]["path"] != "/fields/Microsoft.VSTS.Common.Priority" || document[1]["value"] != float64(1) {
		t.Errorf("document[1]: got %+v", document[1])
	}

	if workItem.ID != 101 || workItem.Title() != "Fix login page" || workItem.Type() != "Bug" {
		t.Errorf("work item: got %+v", workItem)
	}
}

func TestUpdateWorkItemRequiresOperations(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	}))

	_, err := client.UpdateWorkItem(context.Background(), 42, nil)
	if err == nil || !strings.Contains(err.Error(), "empty patch document") {
		t.Fatalf("error: got %v, want empty patch document", err)
	}
}

func TestGetWorkItemsBatch(t *testing.T) {
	var receivedQuery string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedQuery = r.URL.RawQuery
		jsonResponse(w, http.StatusOK, `{"count":2,"value":[
			{"id":1,"fields":{"System.Title":"First"}},
			{"id":2,"fields":{"System.Title":"Second"}}
		]}`)
	}))

	items, err := client.GetWorkItems(context.Background(), []int{1, 2})
	if err != nil {
		t.Fatalf("GetWorkItems: %v", err)
	}
	if len(items) != 2 || items[1].Title() != "Second" {
		t.Fatalf("items: got %+v", items)
	}
	if !strings.Contains(receivedQuery, "ids=1%2C2") {
		t.Errorf("query %q should carry the id list", receivedQuery)
	}
	if !strings.Contains(receivedQuery, "%24expand=all") {
		t.Errorf("query %q should expand relations", receivedQuery)
	}

	if items, err := client.GetWorkItems(context.Background(), nil); err != nil || items != nil {
		t.Errorf("empty id list: got (%v, %v), want (nil, nil)", items, err)
	}
}

func TestQueryByWiql(t *testing.T) {
	var receivedPath, receivedBody string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		receivedBody = string(raw)
		jsonResponse(w, http.StatusOK, `{"queryType":"flat","workItems":[{"id":7},{"id":9}]}`)
	}))

	wiql := "SELECT [System.Id] FROM WorkItems WHERE [System.State] = 'Active'"
	result, err := client.QueryByWiql(context.Background(), "Fabrikam", wiql, 50)
	if err != nil {
		t.Fatalf("QueryByWiql: %v", err)
	}
	if receivedPath != "/Fabrikam/_apis/wit/wiql" {
		t.Errorf("path: got %q", receivedPath)
	}
	if body := decodeBody(t, receivedBody); body["query"] != wiql {
		t.Errorf("query body: got %v", body["query"])
	}
	if len(result.WorkItems) != 2 || result.WorkItems[1].ID != 9 {
		t.Errorf("work items: got %+v", result.WorkItems)
	}
}

func TestQueryByWiqlRequiresSelect(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	}))

	for _, wiql := range []string{"DELETE FROM WorkItems", "  drop table x"} {
		if _, err := client.QueryByWiql(context.Background(), "Fabrikam", wiql, 0); err == nil ||
			!strings.Contains(err.Error(), "must start with SELECT") {
			t.Errorf("QueryByWiql(%q): got %v, want SELECT validation error", wiql, err)
		}
	}

	// Leading whitespace and lowercase keywords are still SELECT.
	client = newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, `{"workItems":[]}`)
	}))
	if _, err := client.QueryByWiql(context.Background(), "Fabrikam", "  select [System.Id] from WorkItems", 0); err != nil {
		t.Errorf("lowercase select: unexpected error %v", err)
	}
}

func TestWorkItemComments(t *testing.T) {
	var receivedVersion, receivedBody string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedVersion = r.URL.Query().Get("api-version")
		raw, _ := io.ReadAll(r.Body)
		receivedBody = string(raw)
		jsonResponse(w, http.StatusOK, `{"id":55,"text":"Deployed to staging.","createdBy":{"id":"u1","displayName":"Ada Lovelace"}}`)
	}))

	comment, err := client.AddComment(context.Background(), "Fabrikam", 101, "Deployed to staging.")
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if receivedVersion != commentsAPIVersion {
		t.Errorf("api-version: got %q, want %q", receivedVersion, commentsAPIVersion)
	}
	if body := decodeBody(t, receivedBody); body["text"] != "Deployed to staging." {
		t.Errorf("body: got %v", body)
	}
	if comment.ID != 55 || comment.CreatedBy == nil || comment.CreatedBy.DisplayName != "Ada Lovelace" {
		t.Errorf("comment: got %+v", comment)
	}
}

func TestDeleteWorkItemDestroy(t *testing.T) {
	var receivedMethod, receivedQuery string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedMethod = r.Method
		receivedQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusNoContent)
	}))

	if err := client.DeleteWorkItem(context.Background(), 42, true); err != nil {
		t.Fatalf("DeleteWorkItem: %v", err)
	}
	if receivedMethod != http.MethodDelete {
		t.Errorf("method: got %q, want DELETE", receivedMethod)
	}
	if !strings.Contains(receivedQuery, "destroy=true") {
		t.Errorf("query %q should request permanent destruction", receivedQuery)
	}
}

func TestClassificationNodePathSegments(t *testing.T) {
	var receivedPath, receivedQuery string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedPath = r.URL.EscapedPath()
		receivedQuery = r.URL.RawQuery
		jsonResponse(w, http.StatusOK, `{"id":12,"name":"Sprint 9","structureType":"iteration"}`)
	}))

	node, err := client.GetClassificationNode(context.Background(), "Fabrikam", StructureIterations, "Release 1/Sprint 9", 2)
	if err != nil {
		t.Fatalf("GetClassificationNode: %v", err)
	}
	if receivedPath != "/Fabrikam/_apis/wit/classificationnodes/iterations/Release%201/Sprint%209" {
		t.Errorf("path: got %q, want tree separators preserved", receivedPath)
	}
	if !strings.Contains(receivedQuery, "%24depth=2") {
		t.Errorf("query %q should carry depth", receivedQuery)
	}
	if node.Name != "Sprint 9" {
		t.Errorf("node: got %+v", node)
	}
}

func TestCreateIteration(t *testing.T) {
	var receivedPath, receivedBody string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		receivedBody = string(raw)
		jsonResponse(w, http.StatusOK, `{"id":31,"identifier":"c3b6f0d1","name":"Sprint 10","structureType":"iteration"}`)
	}))

	node, err := client.CreateIteration(context.Background(), "Fabrikam", CreateIterationRequest{
		Name:       "Sprint 10",
		StartDate:  "2026-03-02T00:00:00Z",
		FinishDate: "2026-03-13T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("CreateIteration: %v", err)
	}
	if receivedPath != "/Fabrikam/_apis/wit/classificationnodes/iterations" {
		t.Errorf("path: got %q", receivedPath)
	}
	body := decodeBody(t, receivedBody)
	if body["name"] != "Sprint 10" {
		t.Errorf("name: got %v", body["name"])
	}
	attributes, _ := body["attributes"].(map[string]any)
	if attributes["startDate"] != "2026-03-02T00:00:00Z" || attributes["finishDate"] != "2026-03-13T00:00:00Z" {
		t.Errorf("attributes: got %v", attributes)
	}
	if node.Identifier != "c3b6f0d1" {
		t.Errorf("node: got %+v", node)
	}
}

func TestGetCurrentIteration(t *testing.T) {
	t.Run("returns the active iteration", func(t *testing.T) {
		var receivedQuery string
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			receivedQuery = r.URL.RawQuery
			jsonResponse(w, http.StatusOK, `{"count":1,"value":[{"id":"it-1","name":"Sprint 9","attributes":{"timeFrame":"current"}}]}`)
		}))

		iteration, err := client.GetCurrentIteration(context.Background(), "Fabrikam", "Web Team")
		if err != nil {
			t.Fatalf("GetCurrentIteration: %v", err)
		}
		if !strings.Contains(receivedQuery, "%24timeframe=current") {
			t.Errorf("query %q should restrict to the current timeframe", receivedQuery)
		}
		if iteration.Name != "Sprint 9" {
			t.Errorf("iteration: got %+v", iteration)
		}
	})

	t.Run("no active iteration", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			jsonResponse(w, http.StatusOK, `{"count":0,"value":[]}`)
		}))

		_, err := client.GetCurrentIteration(context.Background(), "Fabrikam", "Web Team")
		if err == nil || !strings.Contains(err.Error(), "no current iteration for team Web Team") {
			t.Fatalf("error: got %v", err)
		}
	})
}

func TestUpdateTeamSettingsRequiresFields(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	}))

	_, err := client.UpdateTeamSettings(context.Background(), "Fabrikam", "Web Team", TeamSettingsPatch{})
	if err == nil || !strings.Contains(err.Error(), "no fields to update") {
		t.Fatalf("error: got %v, want no fields to update", err)
	}
}

func TestListCommits(t *testing.T) {
	var receivedQuery string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedQuery = r.URL.RawQuery
		jsonResponse(w, http.StatusOK, `{"count":1,"value":[
			{"commitId":"abc123","comment":"Fix redirect","author":{"name":"Ada Lovelace","date":"2026-02-01T09:00:00Z"}}
		]}`)
	}))

	commits, err := client.ListCommits(context.Background(), "Fabrikam", "web", CommitOptions{Branch: "main", Top: 20})
	if err != nil {
		t.Fatalf("ListCommits: %v", err)
	}
	if !strings.Contains(receivedQuery, "searchCriteria.itemVersion.version=main") {
		t.Errorf("query %q should pin the branch", receivedQuery)
	}
	if !strings.Contains(receivedQuery, "searchCriteria.%24top=20") {
		t.Errorf("query %q should cap the page", receivedQuery)
	}
	if len(commits) != 1 || commits[0].CommitID != "abc123" {
		t.Errorf("commits: got %+v", commits)
	}
}

func TestListPullRequestsStatusValidation(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	}))

	_, err := client.ListPullRequests(context.Background(), "Fabrikam", "web", "merged")
	if err == nil || !strings.Contains(err.Error(), `invalid pull request status "merged"`) {
		t.Fatalf("error: got %v, want status validation error", err)
	}
}

func TestListPullRequestsDefaultsToActive(t *testing.T) {
	var receivedQuery string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedQuery = r.URL.RawQuery
		jsonResponse(w, http.StatusOK, `{"count":0,"value":[]}`)
	}))

	if _, err := client.ListPullRequests(context.Background(), "Fabrikam", "web", ""); err != nil {
		t.Fatalf("ListPullRequests: %v", err)
	}
	if !strings.Contains(receivedQuery, "searchCriteria.status=active") {
		t.Errorf("query %q should default to active", receivedQuery)
	}
}

func TestCreatePullRequest(t *testing.T) {
	var receivedBody string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		receivedBody = string(raw)
		jsonResponse(w, http.StatusCreated, `{
			"pullRequestId": 88,
			"title": "Add retry to uploader",
			"status": "active",
			"sourceRefName": "refs/heads/feature/uploader",
			"targetRefName": "refs/heads/main",
			"isDraft": true
		}`)
	}))

	pullRequest, err := client.CreatePullRequest(context.Background(), "Fabrikam", "web", CreatePullRequestRequest{
		SourceBranch: "feature/uploader",
		TargetBranch: "refs/heads/main",
		Title:        "Add retry to uploader",
		ReviewerIDs:  []string{"u1", "u2"},
		Draft:        true,
	})
	if err != nil {
		t.Fatalf("CreatePullRequest: %v", err)
	}

	body := decodeBody(t, receivedBody)
	if body["sourceRefName"] != "refs/heads/feature/uploader" {
		t.Errorf("sourceRefName: got %v, want plain name normalized", body["sourceRefName"])
	}
	if body["targetRefName"] != "refs/heads/main" {
		t.Errorf("targetRefName: got %v, want prefixed name kept", body["targetRefName"])
	}
	if body["isDraft"] != true {
		t.Errorf("isDraft: got %v", body["isDraft"])
	}
	reviewers, _ := body["reviewers"].([]any)
	if len(reviewers) != 2 {
		t.Fatalf("reviewers: got %v", body["reviewers"])
	}
	if first, _ := reviewers[0].(map[string]any); first["id"] != "u1" {
		t.Errorf("reviewers[0]: got %v", reviewers[0])
	}
	if pullRequest.PullRequestID != 88 || !pullRequest.IsDraft {
		t.Errorf("pull request: got %+v", pullRequest)
	}
}

func TestSearchWorkItems(t *testing.T) {
	var receivedPath, receivedBody string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		receivedBody = string(raw)
		jsonResponse(w, http.StatusOK, `{"count":1,"results":[
			{"project":{"name":"Fabrikam"},"fields":{"system.id":"101","system.title":"Fix login page","system.state":"Active"}}
		]}`)
	}))

	results, err := client.SearchWorkItems(context.Background(), "Fabrikam", SearchRequest{
		SearchText: "login",
		Filters:    map[string][]string{"System.WorkItemType": {"Bug"}},
	})
	if err != nil {
		t.Fatalf("SearchWorkItems: %v", err)
	}
	if receivedPath != "/Fabrikam/_apis/search/workitemsearchresults" {
		t.Errorf("path: got %q", receivedPath)
	}

	body := decodeBody(t, receivedBody)
	if body["searchText"] != "login" {
		t.Errorf("searchText: got %v", body["searchText"])
	}
	if body["$top"] != float64(defaultSearchPageSize) {
		t.Errorf("$top: got %v, want default %d", body["$top"], defaultSearchPageSize)
	}
	filters, _ := body["filters"].(map[string]any)
	if types, _ := filters["System.WorkItemType"].([]any); len(types) != 1 || types[0] != "Bug" {
		t.Errorf("filters: got %v", body["filters"])
	}

	if results.Count != 1 || results.Results[0].Fields["system.title"] != "Fix login page" {
		t.Errorf("results: got %+v", results)
	}
}

func TestSearchRequiresText(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	}))

	if _, err := client.SearchCode(context.Background(), "", SearchRequest{}); err == nil ||
		!strings.Contains(err.Error(), "search text is required") {
		t.Fatalf("error: got %v, want search text validation", err)
	}
}

func TestSearchCodeOrgWide(t *testing.T) {
	var receivedPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedPath = r.URL.Path
		jsonResponse(w, http.StatusOK, `{"count":1,"results":[
			{"fileName":"uploader.go","path":"/lib/uploader.go","repository":{"name":"web"},"project":{"name":"Fabrikam"}}
		]}`)
	}))

	results, err := client.SearchCode(context.Background(), "", SearchRequest{SearchText: "retry"})
	if err != nil {
		t.Fatalf("SearchCode: %v", err)
	}
	if receivedPath != "/_apis/search/codesearchresults" {
		t.Errorf("path: got %q, want org-wide scope", receivedPath)
	}
	if results.Results[0].Repository.Name != "web" {
		t.Errorf("results: got %+v", results.Results)
	}
}

func TestGetMyProfile(t *testing.T) {
	var receivedPath, receivedVersion string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedPath = r.URL.Path
		receivedVersion = r.URL.Query().Get("api-version")
		jsonResponse(w, http.StatusOK, `{"id":"u1","displayName":"Ada Lovelace","emailAddress":"ada@example.com","coreRevision":42}`)
	}))

	profile, err := client.GetMyProfile(context.Background())
	if err != nil {
		t.Fatalf("GetMyProfile: %v", err)
	}
	if receivedPath != "/_apis/profile/profiles/me" {
		t.Errorf("path: got %q", receivedPath)
	}
	if receivedVersion != profileAPIVersion {
		t.Errorf("api-version: got %q, want %q", receivedVersion, profileAPIVersion)
	}
	if profile.DisplayName != "Ada Lovelace" || profile.EmailAddress != "ada@example.com" {
		t.Errorf("profile: got %+v", profile)
	}
}

func TestListProcessStates(t *testing.T) {
	var receivedPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedPath = r.URL.Path
		jsonResponse(w, http.StatusOK, `{"count":2,"value":[
			{"id":"s1","name":"New","color":"b2b2b2","stateCategory":"Proposed","order":1},
			{"id":"s2","name":"Active","color":"007acc","stateCategory":"InProgress","order":2}
		]}`)
	}))

	states, err := client.ListProcessStates(context.Background(), "proc-1", "Agile.UserStory")
	if err != nil {
		t.Fatalf("ListProcessStates: %v", err)
	}
	if receivedPath != "/_apis/work/processes/proc-1/workitemtypes/Agile.UserStory/states" {
		t.Errorf("path: got %q", receivedPath)
	}
	if len(states) != 2 || states[1].StateCategory != "InProgress" {
		t.Errorf("states: got %+v", states)
	}
}
