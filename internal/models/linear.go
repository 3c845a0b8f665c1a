package models

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a Linear entity id does not resolve
var ErrNotFound = errors.New("entity not found")

// Team represents a Linear team
type Team struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Key         string `json:"key"`
	Description string `json:"description,omitempty"`
}

// Project represents a Linear project
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color,omitempty"`
	URL         string `json:"url,omitempty"`
}

// Issue represents a Linear issue
type Issue struct {
	ID          string           `json:"id"`
	Identifier  string           `json:"identifier,omitempty"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Priority    int              `json:"priority"`
	URL         string           `json:"url,omitempty"`
	DueDate     string           `json:"dueDate,omitempty"`
	Team        *Team            `json:"team,omitempty"`
	Project     *Project         `json:"project,omitempty"`
	Assignee    *User            `json:"assignee,omitempty"`
	Labels      *LabelConnection `json:"labels,omitempty"`
}

// LabelNames returns the names of the labels attached to the issue
func (i *Issue) LabelNames() []string {
	if i.Labels == nil {
		return nil
	}
	names := make([]string, 0, len(i.Labels.Nodes))
	for _, l := range i.Labels.Nodes {
		names = append(names, l.Name)
	}
	return names
}

// User represents a Linear user
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Label represents a Linear issue label. Team is nil for workspace labels.
type Label struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Team *Team  `json:"team,omitempty"`
}

// LabelConnection is the paginated label list attached to an issue
type LabelConnection struct {
	Nodes []Label `json:"nodes"`
}

// TeamSpec holds the parameters for creating a team
type TeamSpec struct {
	Name        string
	Key         string
	Description string
}

// ProjectSpec holds the parameters for creating a project under a single team
type ProjectSpec struct {
	Name        string
	TeamID      string
	Description string
	Icon        string
	Color       string
}

// IssueSpec holds the parameters for creating an issue.
// Priority follows Linear's convention: lower is more urgent, 0 means unset.
type IssueSpec struct {
	Title       string
	Description string
	TeamID      string
	ProjectID   string
	Priority    int
	AssigneeID  string
	DueDate     *time.Time
	Labels      []string
}

// IssueUpdate is a partial IssueSpec. Nil fields are left unchanged.
type IssueUpdate struct {
	Title       *string
	Description *string
	TeamID      *string
	ProjectID   *string
	Priority    *int
	AssigneeID  *string
	DueDate     *time.Time
	Labels      []string
}

// IDComparator is an equality clause on an entity id
type IDComparator struct {
	Eq string `json:"eq"`
}

// IDFilter matches a related entity by id
type IDFilter struct {
	ID IDComparator `json:"id"`
}

// IssueFilter narrows an issue listing. A clause is sent only when set.
type IssueFilter struct {
	Team    *IDFilter `json:"team,omitempty"`
	Project *IDFilter `json:"project,omitempty"`
}

// NewIssueFilter builds a filter on team, and on project when projectID is not empty
func NewIssueFilter(teamID, projectID string) IssueFilter {
	filter := IssueFilter{
		Team: &IDFilter{ID: IDComparator{Eq: teamID}},
	}
	if projectID != "" {
		filter.Project = &IDFilter{ID: IDComparator{Eq: projectID}}
	}
	return filter
}
