// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package azuredevops

// Wire types for the Azure DevOps REST API. Timestamps are kept as the
// ISO 8601 strings the API serves ("2026-01-15T10:30:00.000Z"); they
// parse with time.RFC3339 when needed.

// IdentityRef identifies a user in API responses.
type IdentityRef struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	UniqueName  string `json:"uniqueName,omitempty"`
}

// TeamRef is a minimal team reference embedded in other resources.
type TeamRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Project is an Azure DevOps team project.
type Project struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	URL            string   `json:"url,omitempty"`
	State          string   `json:"state,omitempty"`      // "wellFormed", "createPending", "deleting"
	Visibility     string   `json:"visibility,omitempty"` // "private" or "public"
	LastUpdateTime string   `json:"lastUpdateTime,omitempty"`
	DefaultTeam    *TeamRef `json:"defaultTeam,omitempty"`
}

// ProjectList is one page of projects with the continuation token for
// the next page, empty on the last page.
type ProjectList struct {
	Projects          []Project
	ContinuationToken string
}

// CreateProjectRequest holds the fields for queueing project creation.
type CreateProjectRequest struct {
	// Name is the project name. Required.
	Name string

	// Description is the project description.
	Description string

	// Visibility is "private" (default) or "public".
	Visibility string

	// SourceControlType is "Git" (default) or "Tfvc".
	SourceControlType string

	// ProcessTemplateID selects the process (Agile, Scrum, Basic) the
	// project is created with.
	ProcessTemplateID string
}

// OperationReference points at a queued long-running operation.
type OperationReference struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	URL    string `json:"url,omitempty"`
}

// Operation is the state of a long-running operation such as project
// creation. Status is terminal once it reaches "succeeded",
// "cancelled", or "failed".
type Operation struct {
	ID              string `json:"id"`
	Status          string `json:"status"`
	DetailedMessage string `json:"detailedMessage,omitempty"`
	ResultMessage   string `json:"resultMessage,omitempty"`
}

// Team is a project team.
type Team struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	ProjectID   string `json:"projectId,omitempty"`
	ProjectName string `json:"projectName,omitempty"`
}

// TeamUpdate holds a partial team update.
type TeamUpdate struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// TeamMember is a team membership record.
type TeamMember struct {
	Identity    IdentityRef `json:"identity"`
	IsTeamAdmin bool        `json:"isTeamAdmin,omitempty"`
}

// ProjectProperty is one project property name/value pair.
type ProjectProperty struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// ProcessTemplate is a core process template (Agile, Scrum, CMMI,
// Basic) usable when creating projects.
type ProcessTemplate struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsDefault   bool   `json:"isDefault,omitempty"`
	Type        string `json:"type,omitempty"` // "system", "custom", "inherited"
}

// ConnectedUser is the identity attached to an organization
// connection.
type ConnectedUser struct {
	ID                  string `json:"id"`
	ProviderDisplayName string `json:"providerDisplayName"`
	IsActive            bool   `json:"isActive,omitempty"`
}

// ConnectionData describes the organization and the authenticated
// identity.
type ConnectionData struct {
	AuthenticatedUser *ConnectedUser `json:"authenticatedUser,omitempty"`
	AuthorizedUser    *ConnectedUser `json:"authorizedUser,omitempty"`
	InstanceID        string         `json:"instanceId,omitempty"`
	DeploymentID      string         `json:"deploymentId,omitempty"`
	DeploymentType    string         `json:"deploymentType,omitempty"`
}

// PatchOperation is one JSON Patch operation in a work item mutation
// document.
type PatchOperation struct {
	Op    string `json:"op"` // "add", "replace", "remove", "test"
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

// SetField builds the patch operation that sets a work item field,
// for example SetField("System.Title", "Fix login").
func SetField(field string, value any) PatchOperation {
	return PatchOperation{Op: "add", Path: "/fields/" + field, Value: value}
}

// WorkItem is a work item with its fields keyed by reference name
// ("System.Title", "Microsoft.VSTS.Common.Priority").
type WorkItem struct {
	ID        int                `json:"id"`
	Rev       int                `json:"rev,omitempty"`
	Fields    map[string]any     `json:"fields"`
	URL       string             `json:"url,omitempty"`
	Relations []WorkItemRelation `json:"relations,omitempty"`
}

// Title returns the System.Title field, empty when unset.
func (workItem *WorkItem) Title() string {
	title, _ := workItem.Fields["System.Title"].(string)
	return title
}

// State returns the System.State field, empty when unset.
func (workItem *WorkItem) State() string {
	state, _ := workItem.Fields["System.State"].(string)
	return state
}

// Type returns the System.WorkItemType field, empty when unset.
func (workItem *WorkItem) Type() string {
	workItemType, _ := workItem.Fields["System.WorkItemType"].(string)
	return workItemType
}

// WorkItemRelation links a work item to another resource.
type WorkItemRelation struct {
	Rel        string         `json:"rel"`
	URL        string         `json:"url"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// WorkItemReference identifies a work item in query results.
type WorkItemReference struct {
	ID  int    `json:"id"`
	URL string `json:"url,omitempty"`
}

// WorkItemLink is one relation edge in backlog and iteration listings.
type WorkItemLink struct {
	Rel    string             `json:"rel,omitempty"`
	Source *WorkItemReference `json:"source,omitempty"`
	Target *WorkItemReference `json:"target,omitempty"`
}

// WiqlColumn is one column of a WIQL result.
type WiqlColumn struct {
	ReferenceName string `json:"referenceName"`
	Name          string `json:"name"`
}

// WiqlResult is the outcome of a WIQL query: references only, fetch
// full work items with GetWorkItems.
type WiqlResult struct {
	QueryType string              `json:"queryType,omitempty"` // "flat", "tree", "oneHop"
	AsOf      string              `json:"asOf,omitempty"`
	Columns   []WiqlColumn        `json:"columns,omitempty"`
	WorkItems []WorkItemReference `json:"workItems"`
	// WorkItemRelations carries the results of tree and oneHop queries,
	// which return links instead of flat references.
	WorkItemRelations []WorkItemLink `json:"workItemRelations,omitempty"`
}

// WorkItemIcon is a work item type's icon.
type WorkItemIcon struct {
	ID  string `json:"id"`
	URL string `json:"url,omitempty"`
}

// WorkItemType describes a work item type within a project.
type WorkItemType struct {
	Name          string        `json:"name"`
	ReferenceName string        `json:"referenceName"`
	Description   string        `json:"description,omitempty"`
	Color         string        `json:"color,omitempty"`
	Icon          *WorkItemIcon `json:"icon,omitempty"`
}

// WorkItemStateColor is one state of a work item type.
type WorkItemStateColor struct {
	Name     string `json:"name"`
	Color    string `json:"color,omitempty"`
	Category string `json:"category,omitempty"` // "Proposed", "InProgress", "Resolved", "Completed", "Removed"
}

// WorkItemComment is a comment on a work item.
type WorkItemComment struct {
	ID          int          `json:"id"`
	Text        string       `json:"text"`
	CreatedBy   *IdentityRef `json:"createdBy,omitempty"`
	CreatedDate string       `json:"createdDate,omitempty"`
	URL         string       `json:"url,omitempty"`
}

// CommentList is one page of the comments on a work item.
type CommentList struct {
	TotalCount int               `json:"totalCount"`
	Count      int               `json:"count"`
	Comments   []WorkItemComment `json:"comments"`
}

// FieldChange records one field's transition in a work item update.
type FieldChange struct {
	OldValue any `json:"oldValue,omitempty"`
	NewValue any `json:"newValue,omitempty"`
}

// WorkItemUpdate is one entry in a work item's update history.
type WorkItemUpdate struct {
	ID          int                    `json:"id"`
	Rev         int                    `json:"rev,omitempty"`
	RevisedBy   *IdentityRef           `json:"revisedBy,omitempty"`
	RevisedDate string                 `json:"revisedDate,omitempty"`
	Fields      map[string]FieldChange `json:"fields,omitempty"`
}

// QueryItem is a stored work item query or query folder.
type QueryItem struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Path     string      `json:"path,omitempty"`
	IsFolder bool        `json:"isFolder,omitempty"`
	WIQL     string      `json:"wiql,omitempty"`
	Children []QueryItem `json:"children,omitempty"`
}

// QueryCreate holds the fields for creating a stored query or folder.
type QueryCreate struct {
	Name     string `json:"name"`
	WIQL     string `json:"wiql,omitempty"`
	IsFolder bool   `json:"isFolder,omitempty"`
}

// WorkItemTag is a tag defined in a project.
type WorkItemTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ClassificationNode is a node of a project's area or iteration tree.
type ClassificationNode struct {
	ID            int                  `json:"id"`
	Identifier    string               `json:"identifier,omitempty"`
	Name          string               `json:"name"`
	StructureType string               `json:"structureType,omitempty"` // "area" or "iteration"
	HasChildren   bool                 `json:"hasChildren,omitempty"`
	Path          string               `json:"path,omitempty"`
	Attributes    map[string]any       `json:"attributes,omitempty"`
	Children      []ClassificationNode `json:"children,omitempty"`
}

// ClassificationNodeRequest holds the fields for creating or renaming
// a classification node. Iteration dates go in Attributes as
// "startDate" and "finishDate".
type ClassificationNodeRequest struct {
	Name       string         `json:"name"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Repository is a Git repository.
type Repository struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	URL           string   `json:"url,omitempty"`
	Project       *Project `json:"project,omitempty"`
	DefaultBranch string   `json:"defaultBranch,omitempty"`
	Size          int64    `json:"size,omitempty"`
	RemoteURL     string   `json:"remoteUrl,omitempty"`
	WebURL        string   `json:"webUrl,omitempty"`
	IsFork        bool     `json:"isFork,omitempty"`
}

// GitUser is the author or committer stamp on a commit.
type GitUser struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Date  string `json:"date,omitempty"`
}

// Commit is a Git commit.
type Commit struct {
	CommitID  string   `json:"commitId"`
	Author    *GitUser `json:"author,omitempty"`
	Committer *GitUser `json:"committer,omitempty"`
	Comment   string   `json:"comment,omitempty"`
	URL       string   `json:"url,omitempty"`
	RemoteURL string   `json:"remoteUrl,omitempty"`
}

// BranchStats is one branch with its divergence from the default
// branch.
type BranchStats struct {
	Name          string  `json:"name"`
	AheadCount    int     `json:"aheadCount,omitempty"`
	BehindCount   int     `json:"behindCount,omitempty"`
	IsBaseVersion bool    `json:"isBaseVersion,omitempty"`
	Commit        *Commit `json:"commit,omitempty"`
}

// PullRequest is a Git pull request.
type PullRequest struct {
	PullRequestID int          `json:"pullRequestId"`
	Title         string       `json:"title"`
	Description   string       `json:"description,omitempty"`
	Status        string       `json:"status,omitempty"` // "active", "abandoned", "completed"
	CreatedBy     *IdentityRef `json:"createdBy,omitempty"`
	CreationDate  string       `json:"creationDate,omitempty"`
	SourceRefName string       `json:"sourceRefName"`
	TargetRefName string       `json:"targetRefName"`
	IsDraft       bool         `json:"isDraft,omitempty"`
	URL           string       `json:"url,omitempty"`
}

// CreatePullRequestRequest holds the fields for opening a pull
// request. Branch names are normalized to refs/heads/ form.
type CreatePullRequestRequest struct {
	// SourceBranch is the branch being merged. Required.
	SourceBranch string

	// TargetBranch is the branch merged into. Required.
	TargetBranch string

	// Title is the pull request title. Required.
	Title string

	// Description is the pull request description.
	Description string

	// ReviewerIDs are identity IDs added as reviewers.
	ReviewerIDs []string

	// Draft opens the pull request in draft state.
	Draft bool
}

// IterationAttributes are a sprint's dates and time frame.
type IterationAttributes struct {
	StartDate  string `json:"startDate,omitempty"`
	FinishDate string `json:"finishDate,omitempty"`
	TimeFrame  string `json:"timeFrame,omitempty"` // "past", "current", "future"
}

// TeamIteration is a sprint assigned to a team.
type TeamIteration struct {
	ID         string               `json:"id"`
	Name       string               `json:"name"`
	Path       string               `json:"path,omitempty"`
	Attributes *IterationAttributes `json:"attributes,omitempty"`
	URL        string               `json:"url,omitempty"`
}

// TeamSettings are a team's working preferences.
type TeamSettings struct {
	BugsBehavior          string          `json:"bugsBehavior,omitempty"` // "off", "asRequirements", "asTasks"
	WorkingDays           []string        `json:"workingDays,omitempty"`
	BacklogVisibility     map[string]bool `json:"backlogVisibilities,omitempty"`
	DefaultIteration      *TeamIteration  `json:"defaultIteration,omitempty"`
	DefaultIterationMacro string          `json:"defaultIterationMacro,omitempty"`
	BacklogIteration      *TeamIteration  `json:"backlogIteration,omitempty"`
}

// TeamSettingsPatch holds a partial team settings update. Nil and
// empty fields are left unchanged.
type TeamSettingsPatch struct {
	BugsBehavior      string          `json:"bugsBehavior,omitempty"`
	WorkingDays       []string        `json:"workingDays,omitempty"`
	BacklogVisibility map[string]bool `json:"backlogVisibilities,omitempty"`
	DefaultIteration  string          `json:"defaultIteration,omitempty"`
}

// BacklogLevel is one backlog level (Epics, Features, Stories)
// configured for a team.
type BacklogLevel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Rank int    `json:"rank,omitempty"`
	Type string `json:"type,omitempty"` // "portfolio", "requirement", "task"
}

// BacklogWorkItems are the work item edges of one backlog level.
type BacklogWorkItems struct {
	WorkItems []WorkItemLink `json:"workItems"`
}

// BoardRef identifies a team board.
type BoardRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// BoardColumn is one column of a team board.
type BoardColumn struct {
	ID            string            `json:"id,omitempty"`
	Name          string            `json:"name"`
	ItemLimit     int               `json:"itemLimit,omitempty"`
	ColumnType    string            `json:"columnType,omitempty"` // "incoming", "inProgress", "outgoing"
	StateMappings map[string]string `json:"stateMappings,omitempty"`
}

// BoardRow is one swimlane of a team board.
type BoardRow struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Board is a team board with its columns and rows.
type Board struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	URL     string        `json:"url,omitempty"`
	Columns []BoardColumn `json:"columns,omitempty"`
	Rows    []BoardRow    `json:"rows,omitempty"`
}

// Activity is one activity's daily capacity for a team member.
type Activity struct {
	Name           string  `json:"name"`
	CapacityPerDay float64 `json:"capacityPerDay"`
}

// DateRange is a days-off interval in a capacity record.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// TeamMemberCapacity is one member's capacity within an iteration.
type TeamMemberCapacity struct {
	TeamMember IdentityRef `json:"teamMember"`
	Activities []Activity  `json:"activities,omitempty"`
	DaysOff    []DateRange `json:"daysOff,omitempty"`
}

// TeamCapacity is a team's full capacity within an iteration.
type TeamCapacity struct {
	TeamMembers         []TeamMemberCapacity `json:"teamMembers"`
	TotalCapacityPerDay float64              `json:"totalCapacityPerDay,omitempty"`
	TotalDaysOff        int                  `json:"totalDaysOff,omitempty"`
}

// IterationWorkItems are the work item edges of one iteration.
type IterationWorkItems struct {
	WorkItemRelations []WorkItemLink `json:"workItemRelations"`
}

// Plan is a delivery plan.
type Plan struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Type        string         `json:"type,omitempty"` // "deliveryTimelineView"
	Description string         `json:"description,omitempty"`
	Revision    int            `json:"revision,omitempty"`
	CreatedBy   *IdentityRef   `json:"createdByIdentity,omitempty"`
	Properties  map[string]any `json:"properties,omitempty"`
}

// CreatePlanRequest holds the fields for creating a delivery plan.
// Properties carries the teamBacklogMappings and criteria the timeline
// view needs.
type CreatePlanRequest struct {
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	Description string         `json:"description,omitempty"`
	Properties  map[string]any `json:"properties,omitempty"`
}

// UpdatePlanRequest holds a full plan update. Revision must match the
// current plan revision or the API rejects the update.
type UpdatePlanRequest struct {
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	Description string         `json:"description,omitempty"`
	Revision    int            `json:"revision"`
	Properties  map[string]any `json:"properties,omitempty"`
}

// TimelineIteration is one sprint lane of a delivery timeline.
type TimelineIteration struct {
	Name       string  `json:"name"`
	Path       string  `json:"path,omitempty"`
	StartDate  string  `json:"startDate,omitempty"`
	FinishDate string  `json:"finishDate,omitempty"`
	WorkItems  [][]any `json:"workItems,omitempty"`
}

// TimelineTeam is one team lane of a delivery timeline.
type TimelineTeam struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Iterations []TimelineIteration `json:"iterations,omitempty"`
}

// DeliveryTimeline is the rendered data of a delivery plan.
type DeliveryTimeline struct {
	StartDate string         `json:"startDate,omitempty"`
	EndDate   string         `json:"endDate,omitempty"`
	Revision  int            `json:"revision,omitempty"`
	Teams     []TimelineTeam `json:"teams"`
}

// SearchRequest is the body of a search call. Code and wiki searches
// filter on display keys ("Project", "Repository", "Path", "Branch",
// "Wiki"); work item searches filter on field reference names
// ("System.TeamProject", "System.WorkItemType", "System.State",
// "System.AssignedTo").
type SearchRequest struct {
	SearchText string              `json:"searchText"`
	Skip       int                 `json:"$skip"`
	Top        int                 `json:"$top"`
	Filters    map[string][]string `json:"filters,omitempty"`
}

// NamedRef is a name-only reference in search results.
type NamedRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// CodeHit is one match location within a code search result.
type CodeHit struct {
	CharOffset int `json:"charOffset"`
	Length     int `json:"length"`
}

// CodeResult is one code search hit. Matches is keyed by the field the
// hits landed in ("content", "fileName").
type CodeResult struct {
	FileName   string               `json:"fileName"`
	Path       string               `json:"path"`
	Repository NamedRef             `json:"repository"`
	Project    NamedRef             `json:"project"`
	ContentID  string               `json:"contentId,omitempty"`
	Matches    map[string][]CodeHit `json:"matches,omitempty"`
}

// CodeSearchResults is the outcome of a code search.
type CodeSearchResults struct {
	Count   int          `json:"count"`
	Results []CodeResult `json:"results"`
}

// WorkItemSearchHit is one work item search hit; Fields carries the
// indexed fields ("system.id", "system.title", "system.state").
type WorkItemSearchHit struct {
	Project NamedRef          `json:"project"`
	Fields  map[string]string `json:"fields"`
	URL     string            `json:"url,omitempty"`
}

// WorkItemSearchResults is the outcome of a work item search.
type WorkItemSearchResults struct {
	Count   int                 `json:"count"`
	Results []WorkItemSearchHit `json:"results"`
}

// WikiResult is one wiki page search hit.
type WikiResult struct {
	FileName string   `json:"fileName"`
	Path     string   `json:"path"`
	Wiki     NamedRef `json:"wiki"`
	Project  NamedRef `json:"project"`
}

// WikiSearchResults is the outcome of a wiki search.
type WikiSearchResults struct {
	Count   int          `json:"count"`
	Results []WikiResult `json:"results"`
}

// Profile is an account profile from the vssps host.
type Profile struct {
	ID           string `json:"id"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress,omitempty"`
	CoreRevision int    `json:"coreRevision,omitempty"`
	TimeStamp    string `json:"timeStamp,omitempty"`
}

// Process is an inheritable work item tracking process.
type Process struct {
	TypeID            string `json:"typeId"`
	Name              string `json:"name"`
	ReferenceName     string `json:"referenceName,omitempty"`
	Description       string `json:"description,omitempty"`
	IsEnabled         bool   `json:"isEnabled,omitempty"`
	IsDefault         bool   `json:"isDefault,omitempty"`
	CustomizationType string `json:"customizationType,omitempty"` // "system", "inherited", "custom"
}

// ProcessWorkItemType is a work item type defined by a process.
type ProcessWorkItemType struct {
	ReferenceName string `json:"referenceName"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	Color         string `json:"color,omitempty"`
	Icon          string `json:"icon,omitempty"`
	Customization string `json:"customization,omitempty"`
	IsDisabled    bool   `json:"isDisabled,omitempty"`
}

// ProcessState is one state of a process work item type.
type ProcessState struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Color             string `json:"color,omitempty"`
	StateCategory     string `json:"stateCategory,omitempty"` // "Proposed", "InProgress", "Resolved", "Completed", "Removed"
	Order             int    `json:"order,omitempty"`
	CustomizationType string `json:"customizationType,omitempty"`
}

// CreateStateRequest holds the fields for adding a state to a process
// work item type.
type CreateStateRequest struct {
	Name          string `json:"name"`
	Color         string `json:"color,omitempty"`
	StateCategory string `json:"stateCategory,omitempty"`
	Order         int    `json:"order,omitempty"`
}

// UpdateStateRequest holds a partial state update.
type UpdateStateRequest struct {
	Name  string `json:"name,omitempty"`
	Color string `json:"color,omitempty"`
	Order int    `json:"order,omitempty"`
}

// ProcessField is one field of a process work item type.
type ProcessField struct {
	ReferenceName string `json:"referenceName"`
	Name          string `json:"name"`
	Type          string `json:"type,omitempty"`
	Required      bool   `json:"required,omitempty"`
	ReadOnly      bool   `json:"readOnly,omitempty"`
}
