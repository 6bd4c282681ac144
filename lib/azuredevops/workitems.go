// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package azuredevops

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// GetWorkItem fetches a work item by ID with its fields and relations.
func (client *Client) GetWorkItem(ctx context.Context, id int) (*WorkItem, error) {
	query := url.Values{}
	query.Set("$expand", "all")

	var workItem WorkItem
	if err := client.get(ctx, restURL(client.orgURL, query, "_apis", "wit", "workitems", strconv.Itoa(id)), &workItem); err != nil {
		return nil, fmt.Errorf("getting work item %d: %w", id, err)
	}
	return &workItem, nil
}

// GetWorkItems fetches a batch of work items by ID with their fields
// and relations.
func (client *Client) GetWorkItems(ctx context.Context, ids []int) ([]WorkItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	encoded := make([]string, len(ids))
	for i, id := range ids {
		encoded[i] = strconv.Itoa(id)
	}
	query := url.Values{}
	query.Set("ids", strings.Join(encoded, ","))
	query.Set("$expand", "all")

	var envelope listResponse[WorkItem]
	if err := client.get(ctx, restURL(client.orgURL, query, "_apis", "wit", "workitems"), &envelope); err != nil {
		return nil, fmt.Errorf("getting %d work items: %w", len(ids), err)
	}
	return envelope.Value, nil
}

// CreateWorkItem creates a work item of the given type from a JSON
// Patch document. The document must set at least System.Title.
func (client *Client) CreateWorkItem(ctx context.Context, project, workItemType string, document []PatchOperation) (*WorkItem, error) {
	if len(document) == 0 {
		return nil, fmt.Errorf("azuredevops: creating work item: empty patch document")
	}

	rawURL := restURL(client.orgURL, nil, project, "_apis", "wit", "workitems", "$"+workItemType)
	var workItem WorkItem
	if err := client.submitPatchDocument(ctx, http.MethodPost, rawURL, document, &workItem); err != nil {
		return nil, fmt.Errorf("creating %s work item in project %s: %w", workItemType, project, err)
	}
	return &workItem, nil
}

// UpdateWorkItem applies a JSON Patch document to a work item.
func (client *Client) UpdateWorkItem(ctx context.Context, id int, document []PatchOperation) (*WorkItem, error) {
	if len(document) == 0 {
		return nil, fmt.Errorf("azuredevops: updating work item %d: empty patch document", id)
	}

	rawURL := restURL(client.orgURL, nil, "_apis", "wit", "workitems", strconv.Itoa(id))
	var workItem WorkItem
	if err := client.submitPatchDocument(ctx, http.MethodPatch, rawURL, document, &workItem); err != nil {
		return nil, fmt.Errorf("updating work item %d: %w", id, err)
	}
	return &workItem, nil
}

// DeleteWorkItem moves a work item to the recycle bin, or permanently
// destroys it when destroy is set.
func (client *Client) DeleteWorkItem(ctx context.Context, id int, destroy bool) error {
	query := url.Values{}
	if destroy {
		query.Set("destroy", "true")
	}

	if err := client.delete(ctx, restURL(client.orgURL, query, "_apis", "wit", "workitems", strconv.Itoa(id))); err != nil {
		return fmt.Errorf("deleting work item %d: %w", id, err)
	}
	return nil
}

// QueryByWiql runs a WIQL query scoped to a project and returns the
// matching work item references. Fetch full work items with
// GetWorkItems. The query must start with SELECT.
func (client *Client) QueryByWiql(ctx context.Context, project, wiql string, top int) (*WiqlResult, error) {
	if !strings.HasPrefix(strings.ToUpper(strings.TrimSpace(wiql)), "SELECT") {
		return nil, fmt.Errorf("azuredevops: WIQL query must start with SELECT")
	}

	query := url.Values{}
	if top > 0 {
		query.Set("$top", strconv.Itoa(top))
	}

	var result WiqlResult
	if err := client.post(ctx, restURL(client.orgURL, query, project, "_apis", "wit", "wiql"), map[string]string{"query": wiql}, &result); err != nil {
		return nil, fmt.Errorf("running WIQL query in project %s: %w", project, err)
	}
	return &result, nil
}

// ListWorkItemTypes returns the work item types of a project.
func (client *Client) ListWorkItemTypes(ctx context.Context, project string) ([]WorkItemType, error) {
	var envelope listResponse[WorkItemType]
	if err := client.get(ctx, restURL(client.orgURL, nil, project, "_apis", "wit", "workitemtypes"), &envelope); err != nil {
		return nil, fmt.Errorf("listing work item types of project %s: %w", project, err)
	}
	return envelope.Value, nil
}

// ListWorkItemStates returns the states of a work item type with their
// colors and categories.
func (client *Client) ListWorkItemStates(ctx context.Context, project, workItemType string) ([]WorkItemStateColor, error) {
	query := url.Values{}
	query.Set("api-version", "7.1-preview.1")

	var envelope listResponse[WorkItemStateColor]
	if err := client.get(ctx, restURL(client.orgURL, query, project, "_apis", "wit", "workitemtypes", workItemType, "states"), &envelope); err != nil {
		return nil, fmt.Errorf("listing states of work item type %s: %w", workItemType, err)
	}
	return envelope.Value, nil
}

// commentsAPIVersion pins the work item comments endpoints, which
// remain preview in API 7.1.
const commentsAPIVersion = "7.1-preview.3"

// ListComments returns the comments on a work item.
func (client *Client) ListComments(ctx context.Context, project string, workItemID int) (*CommentList, error) {
	query := url.Values{}
	query.Set("api-version", commentsAPIVersion)

	var comments CommentList
	if err := client.get(ctx, restURL(client.orgURL, query, project, "_apis", "wit", "workitems", strconv.Itoa(workItemID), "comments"), &comments); err != nil {
		return nil, fmt.Errorf("listing comments on work item %d: %w", workItemID, err)
	}
	return &comments, nil
}

// AddComment adds a comment to a work item.
func (client *Client) AddComment(ctx context.Context, project string, workItemID int, text string) (*WorkItemComment, error) {
	query := url.Values{}
	query.Set("api-version", commentsAPIVersion)

	var comment WorkItemComment
	rawURL := restURL(client.orgURL, query, project, "_apis", "wit", "workitems", strconv.Itoa(workItemID), "comments")
	if err := client.post(ctx, rawURL, map[string]string{"text": text}, &comment); err != nil {
		return nil, fmt.Errorf("adding comment to work item %d: %w", workItemID, err)
	}
	return &comment, nil
}

// UpdateComment replaces the text of a work item comment.
func (client *Client) UpdateComment(ctx context.Context, project string, workItemID, commentID int, text string) (*WorkItemComment, error) {
	query := url.Values{}
	query.Set("api-version", commentsAPIVersion)

	var comment WorkItemComment
	rawURL := restURL(client.orgURL, query, project, "_apis", "wit", "workitems", strconv.Itoa(workItemID), "comments", strconv.Itoa(commentID))
	if err := client.patch(ctx, rawURL, map[string]string{"text": text}, &comment); err != nil {
		return nil, fmt.Errorf("updating comment %d on work item %d: %w", commentID, workItemID, err)
	}
	return &comment, nil
}

// DeleteComment deletes a work item comment.
func (client *Client) DeleteComment(ctx context.Context, project string, workItemID, commentID int) error {
	query := url.Values{}
	query.Set("api-version", commentsAPIVersion)

	rawURL := restURL(client.orgURL, query, project, "_apis", "wit", "workitems", strconv.Itoa(workItemID), "comments", strconv.Itoa(commentID))
	if err := client.delete(ctx, rawURL); err != nil {
		return fmt.Errorf("deleting comment %d from work item %d: %w", commentID, workItemID, err)
	}
	return nil
}

// GetUpdates returns the update history of a work item, one entry per
// revision with the field transitions.
func (client *Client) GetUpdates(ctx context.Context, id int) ([]WorkItemUpdate, error) {
	var envelope listResponse[WorkItemUpdate]
	if err := client.get(ctx, restURL(client.orgURL, nil, "_apis", "wit", "workitems", strconv.Itoa(id), "updates"), &envelope); err != nil {
		return nil, fmt.Errorf("getting updates of work item %d: %w", id, err)
	}
	return envelope.Value, nil
}

// GetRevisions returns the full historical revisions of a work item.
func (client *Client) GetRevisions(ctx context.Context, id int) ([]WorkItem, error) {
	var envelope listResponse[WorkItem]
	if err := client.get(ctx, restURL(client.orgURL, nil, "_apis", "wit", "workitems", strconv.Itoa(id), "revisions"), &envelope); err != nil {
		return nil, fmt.Errorf("getting revisions of work item %d: %w", id, err)
	}
	return envelope.Value, nil
}

// ListQueries returns a project's stored query folders and queries to
// the given depth.
func (client *Client) ListQueries(ctx context.Context, project string, depth int) ([]QueryItem, error) {
	query := url.Values{}
	query.Set("$expand", "all")
	if depth > 0 {
		query.Set("$depth", strconv.Itoa(depth))
	}

	var envelope listResponse[QueryItem]
	if err := client.get(ctx, restURL(client.orgURL, query, project, "_apis", "wit", "queries"), &envelope); err != nil {
		return nil, fmt.Errorf("listing queries of project %s: %w", project, err)
	}
	return envelope.Value, nil
}

// GetQuery fetches a stored query by ID or path.
func (client *Client) GetQuery(ctx context.Context, project, idOrPath string) (*QueryItem, error) {
	query := url.Values{}
	query.Set("$expand", "all")

	var item QueryItem
	if err := client.get(ctx, restURL(client.orgURL, query, querySegments(project, idOrPath)...), &item); err != nil {
		return nil, fmt.Errorf("getting query %s: %w", idOrPath, err)
	}
	return &item, nil
}

// CreateQuery creates a stored query or folder under the given parent
// folder ID or path.
func (client *Client) CreateQuery(ctx context.Context, project, parent string, create QueryCreate) (*QueryItem, error) {
	var item QueryItem
	if err := client.post(ctx, restURL(client.orgURL, nil, querySegments(project, parent)...), create, &item); err != nil {
		return nil, fmt.Errorf("creating query %s: %w", create.Name, err)
	}
	return &item, nil
}

// DeleteQuery deletes a stored query or folder, including any children.
func (client *Client) DeleteQuery(ctx context.Context, project, idOrPath string) error {
	if err := client.delete(ctx, restURL(client.orgURL, nil, querySegments(project, idOrPath)...)); err != nil {
		return fmt.Errorf("deleting query %s: %w", idOrPath, err)
	}
	return nil
}

// RunQueryByID runs a stored query and returns the matching work item
// references.
func (client *Client) RunQueryByID(ctx context.Context, project, queryID string, top int) (*WiqlResult, error) {
	query := url.Values{}
	if top > 0 {
		query.Set("$top", strconv.Itoa(top))
	}

	var result WiqlResult
	if err := client.get(ctx, restURL(client.orgURL, query, project, "_apis", "wit", "wiql", queryID), &result); err != nil {
		return nil, fmt.Errorf("running query %s: %w", queryID, err)
	}
	return &result, nil
}

// querySegments splits a stored query path into URL segments so that
// folder separators survive escaping. GUIDs pass through unchanged.
func querySegments(project, idOrPath string) []string {
	segments := []string{project, "_apis", "wit", "queries"}
	for _, part := range strings.Split(idOrPath, "/") {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

// tagsAPIVersion pins the work item tags endpoints, which remain
// preview in API 7.1.
const tagsAPIVersion = "7.1-preview.1"

// ListTags returns the work item tags defined in a project.
func (client *Client) ListTags(ctx context.Context, project string) ([]WorkItemTag, error) {
	query := url.Values{}
	query.Set("api-version", tagsAPIVersion)

	var envelope listResponse[WorkItemTag]
	if err := client.get(ctx, restURL(client.orgURL, query, project, "_apis", "wit", "tags"), &envelope); err != nil {
		return nil, fmt.Errorf("listing tags of project %s: %w", project, err)
	}
	return envelope.Value, nil
}

// UpdateTag renames a work item tag across every work item carrying it.
func (client *Client) UpdateTag(ctx context.Context, project, tagIDOrName, newName string) (*WorkItemTag, error) {
	query := url.Values{}
	query.Set("api-version", tagsAPIVersion)

	var tag WorkItemTag
	if err := client.patch(ctx, restURL(client.orgURL, query, project, "_apis", "wit", "tags", tagIDOrName), map[string]string{"name": newName}, &tag); err != nil {
		return nil, fmt.Errorf("renaming tag %s: %w", tagIDOrName, err)
	}
	return &tag, nil
}

// DeleteTag removes a work item tag from the project and from every
// work item carrying it.
func (client *Client) DeleteTag(ctx context.Context, project, tagIDOrName string) error {
	query := url.Values{}
	query.Set("api-version", tagsAPIVersion)

	if err := client.delete(ctx, restURL(client.orgURL, query, project, "_apis", "wit", "tags", tagIDOrName)); err != nil {
		return fmt.Errorf("deleting tag %s: %w", tagIDOrName, err)
	}
	return nil
}

// StructureGroup selects a project's area or iteration tree.
type StructureGroup string

const (
	StructureAreas      StructureGroup = "areas"
	StructureIterations StructureGroup = "iterations"
)

// GetClassificationNode fetches a node of a project's area or
// iteration tree. An empty path addresses the root node; depth
// controls how many levels of children are included.
func (client *Client) GetClassificationNode(ctx context.Context, project string, group StructureGroup, path string, depth int) (*ClassificationNode, error) {
	query := url.Values{}
	if depth > 0 {
		query.Set("$depth", strconv.Itoa(depth))
	}

	var node ClassificationNode
	if err := client.get(ctx, restURL(client.orgURL, query, nodeSegments(project, group, path)...), &node); err != nil {
		return nil, fmt.Errorf("getting %s node %q in project %s: %w", group, path, project, err)
	}
	return &node, nil
}

// CreateOrUpdateClassificationNode creates a child node under the
// given path, or updates the node when it already exists. For
// iterations the request attributes may carry "startDate" and
// "finishDate".
func (client *Client) CreateOrUpdateClassificationNode(ctx context.Context, project string, group StructureGroup, path string, request ClassificationNodeRequest) (*ClassificationNode, error) {
	var node ClassificationNode
	if err := client.post(ctx, restURL(client.orgURL, nil, nodeSegments(project, group, path)...), request, &node); err != nil {
		return nil, fmt.Errorf("creating %s node %q in project %s: %w", group, request.Name, project, err)
	}
	return &node, nil
}

// DeleteClassificationNode deletes a node of the area or iteration
// tree. Work items classified under it are moved to the node with the
// given reclassify ID.
func (client *Client) DeleteClassificationNode(ctx context.Context, project string, group StructureGroup, path string, reclassifyID int) error {
	query := url.Values{}
	if reclassifyID > 0 {
		query.Set("$reclassifyId", strconv.Itoa(reclassifyID))
	}

	if err := client.delete(ctx, restURL(client.orgURL, query, nodeSegments(project, group, path)...)); err != nil {
		return fmt.Errorf("deleting %s node %q in project %s: %w", group, path, project, err)
	}
	return nil
}

// nodeSegments splits a classification path into URL segments so that
// tree separators survive escaping.
func nodeSegments(project string, group StructureGroup, path string) []string {
	segments := []string{project, "_apis", "wit", "classificationnodes", string(group)}
	for _, part := range strings.Split(path, "/") {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}
