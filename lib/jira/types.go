// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package jira

// Timestamps in JIRA responses (Issue created/updated, Comment created, and
// so on) are kept as strings: JIRA Cloud renders them as
// "2026-01-15T10:30:00.000+0000", which is not RFC 3339 and does not decode
// into time.Time. Callers that need a time value can parse with the layout
// "2006-01-02T15:04:05.000-0700".

// User is a JIRA account.
type User struct {
	AccountID    string `json:"accountId"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress,omitempty"`
	Active       bool   `json:"active,omitempty"`
	TimeZone     string `json:"timeZone,omitempty"`
}

// Group is a JIRA user group.
type Group struct {
	GroupID string `json:"groupId"`
	Name    string `json:"name"`
}

// Status is a workflow status.
type Status struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Priority is an issue priority level.
type Priority struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// IssueType describes a type of issue (Task, Bug, Story, ...).
type IssueType struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	Subtask        bool   `json:"subtask,omitempty"`
	HierarchyLevel int    `json:"hierarchyLevel,omitempty"`
}

// IssueTypeScheme groups issue types for assignment to projects.
type IssueTypeScheme struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Description        string `json:"description,omitempty"`
	DefaultIssueTypeID string `json:"defaultIssueTypeId,omitempty"`
	IsDefault          bool   `json:"isDefault,omitempty"`
}

// Project is a JIRA project. IDs are strings on read paths.
type Project struct {
	ID             string `json:"id"`
	Key            string `json:"key"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	ProjectTypeKey string `json:"projectTypeKey,omitempty"` // "software", "business", "service_desk"
	Lead           *User  `json:"lead,omitempty"`
}

// ProjectRef identifies a project in responses that carry numeric IDs
// (project creation, permission lookups).
type ProjectRef struct {
	ID  int64  `json:"id"`
	Key string `json:"key"`
}

// Version is a project version (release).
type Version struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Released    bool   `json:"released,omitempty"`
	Archived    bool   `json:"archived,omitempty"`
	ReleaseDate string `json:"releaseDate,omitempty"`
}

// Component is a project component.
type Component struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Lead        *User  `json:"lead,omitempty"`
}

// Fields holds the standard fields of an issue.
type Fields struct {
	Summary     string     `json:"summary,omitempty"`
	Description *Document  `json:"description,omitempty"`
	Status      *Status    `json:"status,omitempty"`
	Assignee    *User      `json:"assignee,omitempty"`
	Reporter    *User      `json:"reporter,omitempty"`
	Priority    *Priority  `json:"priority,omitempty"`
	IssueType   *IssueType `json:"issuetype,omitempty"`
	Project     *Project   `json:"project,omitempty"`
	Labels      []string   `json:"labels,omitempty"`
	Created     string     `json:"created,omitempty"`
	Updated     string     `json:"updated,omitempty"`
}

// Issue is a JIRA issue.
type Issue struct {
	ID     string `json:"id"`
	Key    string `json:"key"`
	Self   string `json:"self,omitempty"`
	Fields Fields `json:"fields"`
}

// IssueRef identifies a freshly created issue.
type IssueRef struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self,omitempty"`
}

// IssueEvent is an issue event type (created, updated, resolved, ...).
type IssueEvent struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Transition is a workflow transition available on an issue.
type Transition struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	To   *Status `json:"to,omitempty"`
}

// FieldMeta describes a field in issue create or edit metadata.
type FieldMeta struct {
	FieldID    string   `json:"fieldId,omitempty"`
	Key        string   `json:"key,omitempty"`
	Name       string   `json:"name"`
	Required   bool     `json:"required"`
	Operations []string `json:"operations,omitempty"`
}

// Changelog is one entry in an issue's change history.
type Changelog struct {
	ID      string          `json:"id"`
	Author  *User           `json:"author,omitempty"`
	Created string          `json:"created,omitempty"`
	Items   []ChangelogItem `json:"items,omitempty"`
}

// ChangelogItem is a single field change within a changelog entry.
type ChangelogItem struct {
	Field string `json:"field"`
	From  string `json:"fromString,omitempty"`
	To    string `json:"toString,omitempty"`
}

// Comment is an issue comment. The body is rich text.
type Comment struct {
	ID      string    `json:"id"`
	Author  *User     `json:"author,omitempty"`
	Body    *Document `json:"body,omitempty"`
	Created string    `json:"created,omitempty"`
	Updated string    `json:"updated,omitempty"`
}

// CommentPage is one page of issue comments.
type CommentPage struct {
	StartAt    int       `json:"startAt"`
	MaxResults int       `json:"maxResults"`
	Total      int       `json:"total"`
	Comments   []Comment `json:"comments"`
}

// Worklog is a work log entry on an issue.
type Worklog struct {
	ID               string    `json:"id"`
	IssueID          string    `json:"issueId,omitempty"`
	Author           *User     `json:"author,omitempty"`
	Comment          *Document `json:"comment,omitempty"`
	TimeSpent        string    `json:"timeSpent,omitempty"`
	TimeSpentSeconds int64     `json:"timeSpentSeconds,omitempty"`
	Started          string    `json:"started,omitempty"`
	Created          string    `json:"created,omitempty"`
	Updated          string    `json:"updated,omitempty"`
}

// WorklogPage is one page of an issue's worklogs.
type WorklogPage struct {
	StartAt    int       `json:"startAt"`
	MaxResults int       `json:"maxResults"`
	Total      int       `json:"total"`
	Worklogs   []Worklog `json:"worklogs"`
}

// WorklogChange records a worklog deleted or updated since a sync point.
type WorklogChange struct {
	WorklogID   int64 `json:"worklogId"`
	UpdatedTime int64 `json:"updatedTime"`
}

// WorklogChangeList is a page of worklog change records. Since and Until are
// Unix milliseconds; pass Until back as since to fetch the next page when
// LastPage is false.
type WorklogChangeList struct {
	Values   []WorklogChange `json:"values"`
	Since    int64           `json:"since"`
	Until    int64           `json:"until"`
	LastPage bool            `json:"lastPage"`
}

// Board is a JIRA software board.
type Board struct {
	ID       int            `json:"id"`
	Name     string         `json:"name"`
	Type     string         `json:"type"` // "scrum", "kanban", "simple"
	Location *BoardLocation `json:"location,omitempty"`
}

// BoardLocation is the project or user a board belongs to.
type BoardLocation struct {
	ProjectID   int64  `json:"projectId,omitempty"`
	ProjectKey  string `json:"projectKey,omitempty"`
	ProjectName string `json:"projectName,omitempty"`
	Name        string `json:"name,omitempty"`
}

// BoardConfiguration describes a board's filter and column layout.
type BoardConfiguration struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Type         string       `json:"type"`
	Filter       *FilterRef   `json:"filter,omitempty"`
	ColumnConfig ColumnConfig `json:"columnConfig"`
}

// FilterRef identifies the saved filter backing a board.
type FilterRef struct {
	ID string `json:"id"`
}

// ColumnConfig is a board's column layout.
type ColumnConfig struct {
	Columns []BoardColumn `json:"columns"`
}

// BoardColumn is a single board column and the statuses mapped to it.
type BoardColumn struct {
	Name     string      `json:"name"`
	Statuses []StatusRef `json:"statuses,omitempty"`
}

// StatusRef identifies a status by ID.
type StatusRef struct {
	ID string `json:"id"`
}

// PropertyKey names a stored board property.
type PropertyKey struct {
	Key string `json:"key"`
}

// Sprint is a scrum sprint.
type Sprint struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	State         string `json:"state"` // "future", "active", "closed"
	OriginBoardID int    `json:"originBoardId,omitempty"`
	StartDate     string `json:"startDate,omitempty"`
	EndDate       string `json:"endDate,omitempty"`
	CompleteDate  string `json:"completeDate,omitempty"`
	Goal          string `json:"goal,omitempty"`
}

// Epic is an agile epic as reported by the board API.
type Epic struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Summary string `json:"summary,omitempty"`
	Done    bool   `json:"done,omitempty"`
}

// Page is the paged envelope used by the agile API and the paginated
// platform endpoints.
type Page[T any] struct {
	StartAt    int  `json:"startAt"`
	MaxResults int  `json:"maxResults"`
	Total      int  `json:"total,omitempty"`
	IsLast     bool `json:"isLast,omitempty"`
	Values     []T  `json:"values"`
}

// SearchResult is the issue-list envelope returned by JQL search and the
// board, sprint, and backlog issue endpoints.
type SearchResult struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

// PageOptions selects a page of a listing. Zero values request the server
// defaults.
type PageOptions struct {
	StartAt    int
	MaxResults int
}

// SearchOptions filters and pages an issue listing.
type SearchOptions struct {
	// JQL optionally filters the listing.
	JQL        string
	StartAt    int
	MaxResults int
}

// CreateIssueRequest holds the fields for creating an issue.
type CreateIssueRequest struct {
	// ProjectKey is the key of the project to create the issue in.
	ProjectKey string

	// Summary is the issue title.
	Summary string

	// Description is an optional plain text description; it is wrapped in
	// a rich text document on the wire.
	Description string

	// IssueType is the issue type name. Defaults to "Task".
	IssueType string
}

// IssueUpdate holds a partial issue update. Nil fields are left unchanged.
type IssueUpdate struct {
	Summary     *string
	Description *string

	// Extra sets additional fields by raw field ID, for fields not
	// covered above (labels, priority, custom fields).
	Extra map[string]any
}

// CreateSprintRequest holds the fields for creating a sprint.
type CreateSprintRequest struct {
	Name          string `json:"name"`
	OriginBoardID int    `json:"originBoardId"`
	StartDate     string `json:"startDate,omitempty"`
	EndDate       string `json:"endDate,omitempty"`
	Goal          string `json:"goal,omitempty"`
}

// SprintUpdate holds sprint fields for full or partial updates. For partial
// updates empty fields are left unchanged; for full updates they are cleared.
type SprintUpdate struct {
	Name         string `json:"name,omitempty"`
	State        string `json:"state,omitempty"` // "future", "active", "closed"
	StartDate    string `json:"startDate,omitempty"`
	EndDate      string `json:"endDate,omitempty"`
	CompleteDate string `json:"completeDate,omitempty"`
	Goal         string `json:"goal,omitempty"`
}

// CreateBoardRequest holds the fields for creating a board.
type CreateBoardRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"` // "scrum" or "kanban"
	FilterID int64  `json:"filterId"`
}

// BoardListOptions filters a board listing.
type BoardListOptions struct {
	// ProjectKeyOrID restricts the listing to boards in one project.
	ProjectKeyOrID string

	// Type restricts by board type ("scrum", "kanban", "simple").
	Type string

	// Name matches boards whose name contains this text.
	Name string

	StartAt    int
	MaxResults int
}

// CreateProjectRequest holds the fields for creating a project.
type CreateProjectRequest struct {
	Key                string `json:"key"`
	Name               string `json:"name"`
	ProjectTypeKey     string `json:"projectTypeKey"` // "software", "business", "service_desk"
	ProjectTemplateKey string `json:"projectTemplateKey,omitempty"`
	Description        string `json:"description,omitempty"`
	LeadAccountID      string `json:"leadAccountId,omitempty"`
	AssigneeType       string `json:"assigneeType,omitempty"` // "PROJECT_LEAD" or "UNASSIGNED"
}

// ProjectUpdate holds a partial project update. Empty fields are left
// unchanged.
type ProjectUpdate struct {
	Name          string `json:"name,omitempty"`
	Description   string `json:"description,omitempty"`
	LeadAccountID string `json:"leadAccountId,omitempty"`
}

// IssueTypeStatuses lists the valid statuses for one issue type in a
// project.
type IssueTypeStatuses struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Statuses []Status `json:"statuses"`
}

// CreateIssueTypeRequest holds the fields for creating an issue type.
type CreateIssueTypeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"` // "standard" or "subtask"
}

// IssueTypeUpdate holds a partial issue type update.
type IssueTypeUpdate struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// WorklogRequest holds the fields for adding or updating a worklog entry.
// Either TimeSpent (e.g. "3h 30m") or TimeSpentSeconds must be set.
type WorklogRequest struct {
	TimeSpent        string    `json:"timeSpent,omitempty"`
	TimeSpentSeconds int64     `json:"timeSpentSeconds,omitempty"`
	Comment          *Document `json:"comment,omitempty"`
	Started          string    `json:"started,omitempty"`
}

// RankRequest positions issues relative to another issue in the backlog.
// Exactly one of RankBefore or RankAfter must be set.
type RankRequest struct {
	Issues     []string
	RankBefore string
	RankAfter  string
}

// ParsedJQL is the parse result for one JQL query.
type ParsedJQL struct {
	Query          string   `json:"query,omitempty"`
	Errors         []string `json:"errors,omitempty"`
	ConvertedQuery string   `json:"convertedQuery,omitempty"`
}

// SanitizedJQL is the sanitize result for one JQL query.
type SanitizedJQL struct {
	InitialQuery   string `json:"initialQuery"`
	SanitizedQuery string `json:"sanitizedQuery,omitempty"`
}

// JQLField is a field usable in JQL, from autocomplete reference data.
type JQLField struct {
	Value       string   `json:"value"`
	DisplayName string   `json:"displayName"`
	Orderable   string   `json:"orderable,omitempty"`
	Searchable  string   `json:"searchable,omitempty"`
	Operators   []string `json:"operators,omitempty"`
	Types       []string `json:"types,omitempty"`
}

// JQLFunction is a function usable in JQL, from autocomplete reference data.
type JQLFunction struct {
	Value       string   `json:"value"`
	DisplayName string   `json:"displayName"`
	Types       []string `json:"types,omitempty"`
}

// AutocompleteData is the JQL reference data for building queries.
type AutocompleteData struct {
	VisibleFieldNames    []JQLField    `json:"visibleFieldNames"`
	VisibleFunctionNames []JQLFunction `json:"visibleFunctionNames"`
	ReservedWords        []string      `json:"jqlReservedWords,omitempty"`
}

// JQLSuggestion is one autocomplete suggestion for a field value.
type JQLSuggestion struct {
	Value       string `json:"value"`
	DisplayName string `json:"displayName"`
}

// Field describes a searchable issue field.
type Field struct {
	ID          string       `json:"id"`
	Key         string       `json:"key,omitempty"`
	Name        string       `json:"name"`
	Custom      bool         `json:"custom,omitempty"`
	ClauseNames []string     `json:"clauseNames,omitempty"`
	Schema      *FieldSchema `json:"schema,omitempty"`
}

// FieldSchema is the data type of a field.
type FieldSchema struct {
	Type   string `json:"type"`
	Items  string `json:"items,omitempty"`
	Custom string `json:"custom,omitempty"`
}

// Permission describes a JIRA permission, optionally with whether the
// current user holds it.
type Permission struct {
	ID             string `json:"id,omitempty"`
	Key            string `json:"key"`
	Name           string `json:"name"`
	Type           string `json:"type,omitempty"` // "GLOBAL" or "PROJECT"
	Description    string `json:"description,omitempty"`
	HavePermission bool   `json:"havePermission,omitempty"`
}

// JQLMatch reports which of the requested issues matched one JQL query.
type JQLMatch struct {
	MatchedIssues []int64  `json:"matchedIssues"`
	Errors        []string `json:"errors,omitempty"`
}

// PickerSection is one section of issue picker suggestions.
type PickerSection struct {
	Label  string        `json:"label"`
	Sub    string        `json:"sub,omitempty"`
	ID     string        `json:"id,omitempty"`
	Msg    string        `json:"msg,omitempty"`
	Issues []PickerIssue `json:"issues"`
}

// PickerIssue is a single issue picker suggestion.
type PickerIssue struct {
	ID          int64  `json:"id,omitempty"`
	Key         string `json:"key"`
	SummaryText string `json:"summaryText,omitempty"`
}
