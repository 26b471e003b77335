package planner

import (
	"encoding/json"
	"slices"
	"sort"
	"time"

	"cloud.google.com/go/civil"
)

// Subtask is a checklist item owned by a single task.
type Subtask struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Task is a unit of planned work.
//
// The dependency edges are kept on both endpoints: dependsOn lists the tasks
// that block this one and dependents lists the tasks this one blocks. They are
// unexported so that only the graph maintainer in this package can change them.
type Task struct {
	ID               string
	Title            string
	Description      *string
	ProjectID        string
	Date             *civil.Date // nil means inbox
	TimeBlock        TimeBlock
	EstimatedMinutes int
	ActualMinutes    *int
	Priority         Priority
	EnergyLevel      EnergyLevel
	Icon             string
	RecurrenceType   RecurrenceType
	RecurrenceDays   []int
	Status           Status
	Subtasks         []Subtask
	CarriedOverFrom  *civil.Date
	Notes            *string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	dependsOn  []string
	dependents []string
}

// DependsOn returns the ids of the tasks blocking t.
func (t *Task) DependsOn() []string {
	return cloneIDs(t.dependsOn)
}

// Dependents returns the ids of the tasks t blocks.
func (t *Task) Dependents() []string {
	return cloneIDs(t.dependents)
}

// IsInbox reports whether the task has no scheduled date.
func (t *Task) IsInbox() bool {
	return t.Date == nil
}

// Clone returns a deep copy of t.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	c.Description = clonePtr(t.Description)
	c.Date = clonePtr(t.Date)
	c.ActualMinutes = clonePtr(t.ActualMinutes)
	c.CarriedOverFrom = clonePtr(t.CarriedOverFrom)
	c.Notes = clonePtr(t.Notes)
	c.RecurrenceDays = slices.Clone(t.RecurrenceDays)
	c.Subtasks = slices.Clone(t.Subtasks)
	c.dependsOn = slices.Clone(t.dependsOn)
	c.dependents = slices.Clone(t.dependents)
	return &c
}

// taskJSON is the wire and storage shape of a Task.
type taskJSON struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	Description      *string        `json:"description"`
	ProjectID        string         `json:"project_id"`
	Date             *civil.Date    `json:"date"`
	TimeBlock        TimeBlock      `json:"time_block"`
	EstimatedMinutes int            `json:"estimated_minutes"`
	ActualMinutes    *int           `json:"actual_minutes"`
	Priority         Priority       `json:"priority"`
	EnergyLevel      EnergyLevel    `json:"energy_level"`
	Icon             string         `json:"icon"`
	RecurrenceType   RecurrenceType `json:"recurrence_type"`
	RecurrenceDays   []int          `json:"recurrence_days"`
	Status           Status         `json:"status"`
	Subtasks         []Subtask      `json:"subtasks"`
	DependsOn        []string       `json:"depends_on"`
	Dependents       []string       `json:"dependents"`
	CarriedOverFrom  *civil.Date    `json:"carried_over_from"`
	Notes            *string        `json:"notes"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func (t *Task) MarshalJSON() ([]byte, error) {
	return json.Marshal(taskJSON{
		ID:               t.ID,
		Title:            t.Title,
		Description:      t.Description,
		ProjectID:        t.ProjectID,
		Date:             t.Date,
		TimeBlock:        t.TimeBlock,
		EstimatedMinutes: t.EstimatedMinutes,
		ActualMinutes:    t.ActualMinutes,
		Priority:         t.Priority,
		EnergyLevel:      t.EnergyLevel,
		Icon:             t.Icon,
		RecurrenceType:   t.RecurrenceType,
		RecurrenceDays:   t.RecurrenceDays,
		Status:           t.Status,
		Subtasks:         nonNil(t.Subtasks),
		DependsOn:        nonNil(t.dependsOn),
		Dependents:       nonNil(t.dependents),
		CarriedOverFrom:  t.CarriedOverFrom,
		Notes:            t.Notes,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	})
}

// UnmarshalJSON restores a task from its stored form, edges included. Storage
// adapters rely on it; request payloads decode into NewTask or TaskPatch instead.
func (t *Task) UnmarshalJSON(data []byte) error {
	var w taskJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*t = Task{
		ID:               w.ID,
		Title:            w.Title,
		Description:      w.Description,
		ProjectID:        w.ProjectID,
		Date:             w.Date,
		TimeBlock:        w.TimeBlock,
		EstimatedMinutes: w.EstimatedMinutes,
		ActualMinutes:    w.ActualMinutes,
		Priority:         w.Priority,
		EnergyLevel:      w.EnergyLevel,
		Icon:             w.Icon,
		RecurrenceType:   w.RecurrenceType,
		RecurrenceDays:   w.RecurrenceDays,
		Status:           w.Status,
		Subtasks:         w.Subtasks,
		CarriedOverFrom:  w.CarriedOverFrom,
		Notes:            w.Notes,
		CreatedAt:        w.CreatedAt,
		UpdatedAt:        w.UpdatedAt,
		dependsOn:        w.DependsOn,
		dependents:       w.Dependents,
	}
	return nil
}

// NewSubtask is a subtask in a creation request.
type NewSubtask struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// NewTask is the payload for creating a task. Zero values take the defaults.
type NewTask struct {
	ID               string         `json:"id,omitempty"`
	Title            string         `json:"title"`
	Description      *string        `json:"description,omitempty"`
	ProjectID        string         `json:"project_id"`
	Date             *civil.Date    `json:"date,omitempty"`
	TimeBlock        TimeBlock      `json:"time_block,omitempty"`
	EstimatedMinutes *int           `json:"estimated_minutes,omitempty"`
	Priority         Priority       `json:"priority,omitempty"`
	EnergyLevel      EnergyLevel    `json:"energy_level,omitempty"`
	Icon             string         `json:"icon,omitempty"`
	RecurrenceType   RecurrenceType `json:"recurrence_type,omitempty"`
	RecurrenceDays   []int          `json:"recurrence_days,omitempty"`
	Status           Status         `json:"status,omitempty"`
	Notes            *string        `json:"notes,omitempty"`
	Subtasks         []NewSubtask   `json:"subtasks,omitempty"`
	DependsOn        []string       `json:"depends_on,omitempty"`
}

const (
	DefaultEstimatedMinutes = 30
	DefaultTaskIcon         = "target"
)

// SortTasks orders tasks by creation time, then id.
func SortTasks(tasks []*Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		}
		return tasks[i].ID < tasks[j].ID
	})
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneIDs(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return slices.Clone(ids)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
