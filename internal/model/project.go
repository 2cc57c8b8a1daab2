package model

import "time"

// ProjectStatus is the workflow state of a project. The string values are
// the wire values.
type ProjectStatus string

const (
	StatusBacklog    ProjectStatus = "Backlog"
	StatusTodo       ProjectStatus = "To Do"
	StatusInProgress ProjectStatus = "In Progress"
	StatusCompleted  ProjectStatus = "Completed"
)

// ProjectStatuses lists every status in board order.
var ProjectStatuses = []ProjectStatus{StatusBacklog, StatusTodo, StatusInProgress, StatusCompleted}

// IsValid reports whether s is one of the known statuses.
func (s ProjectStatus) IsValid() bool {
	switch s {
	case StatusBacklog, StatusTodo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Project is a tracked project. Assignee is embedded by value when read.
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Status      ProjectStatus `json:"status"`
	Assignee    *User         `json:"assignee,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// AssigneeID returns the assignee's id, or "" when unassigned.
func (p *Project) AssigneeID() string {
	if p.Assignee == nil {
		return ""
	}
	return p.Assignee.ID
}

// CreateProjectInput is the body of POST /api/projects.
type CreateProjectInput struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Status      ProjectStatus `json:"status,omitempty"`
	AssigneeID  string        `json:"assignee_id,omitempty"`
}

// UpdateProjectInput is the body of PUT /api/projects/{id}. All fields are
// replaced; an empty AssigneeID unassigns the project.
type UpdateProjectInput struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Status      ProjectStatus `json:"status"`
	AssigneeID  string        `json:"assignee_id"`
}

// UpdateInput builds the full-replace body for p.
func (p *Project) UpdateInput() UpdateProjectInput {
	return UpdateProjectInput{
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		AssigneeID:  p.AssigneeID(),
	}
}
