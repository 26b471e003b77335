package planner

import (
	"context"
	"time"

	"cloud.google.com/go/civil"
)

// Store persists tasks and projects. Implementations return ErrNotFound
// (wrapped) for missing records and must not retain pointers passed to Put or
// returned from Get.
type Store interface {
	GetTask(ctx context.Context, id string) (*Task, error)
	PutTask(ctx context.Context, t *Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context, filter TaskFilter) ([]*Task, error)

	GetProject(ctx context.Context, id string) (*Project, error)
	PutProject(ctx context.Context, p *Project) error
	ListProjects(ctx context.Context) ([]*Project, error)
}

// TaskFilter selects tasks. Criteria compose with AND; the zero value matches
// every task.
type TaskFilter struct {
	DateFrom     *civil.Date
	DateTo       *civil.Date
	ProjectID    string
	Status       Status
	ExcludeInbox bool
	InboxOnly    bool
}

// Validate rejects filters that can never be satisfied by construction.
func (f TaskFilter) Validate() error {
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		return invalidInput("date_from %s is after date_to %s", f.DateFrom, f.DateTo)
	}
	if f.Status != "" && !f.Status.IsValid() {
		return invalidInput("unknown status %q", f.Status)
	}
	if f.InboxOnly && (f.ExcludeInbox || f.DateFrom != nil || f.DateTo != nil) {
		return invalidInput("inbox filter cannot be combined with date bounds")
	}
	return nil
}

// Match reports whether t satisfies the filter. A date bound excludes inbox
// tasks since they have no date to compare.
func (f TaskFilter) Match(t *Task) bool {
	if t.Date == nil {
		if f.ExcludeInbox || f.DateFrom != nil || f.DateTo != nil {
			return false
		}
	} else {
		if f.InboxOnly {
			return false
		}
		if f.DateFrom != nil && t.Date.Before(*f.DateFrom) {
			return false
		}
		if f.DateTo != nil && t.Date.After(*f.DateTo) {
			return false
		}
	}
	if f.ProjectID != "" && t.ProjectID != f.ProjectID {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	return true
}

// Project groups tasks.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	BgColor     string    `json:"bg_color"`
	Icon        string    `json:"icon"`
	Description *string   `json:"description"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Clone returns a deep copy of p.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	c := *p
	c.Description = clonePtr(p.Description)
	return &c
}

// NewProject is the payload for creating a project.
type NewProject struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name"`
	Color       string  `json:"color,omitempty"`
	BgColor     string  `json:"bg_color,omitempty"`
	Icon        string  `json:"icon,omitempty"`
	Description *string `json:"description,omitempty"`
}

const (
	DefaultProjectColor   = "#3b82f6"
	DefaultProjectBgColor = "#dbeafe"
	DefaultProjectIcon    = "folder"
)
