package types

import (
	"time"

	"clementus360/focusflow/planner"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// MoveTaskRequest reassigns a task. target_date accepts YYYY-MM-DD or a
// natural-language expression such as "tomorrow".
type MoveTaskRequest struct {
	TaskID          string             `json:"task_id"`
	TargetDate      *string            `json:"target_date,omitempty"`
	TargetTimeBlock *planner.TimeBlock `json:"target_time_block,omitempty"`
}

type LinkTasksRequest struct {
	ParentTaskID    string `json:"parent_task_id"`
	DependentTaskID string `json:"dependent_task_id"`
}

type LinkResponse struct {
	Status    string `json:"status"`
	Parent    string `json:"parent,omitempty"`
	Dependent string `json:"dependent,omitempty"`
}

type ScheduleSuggestionRequest struct {
	Tasks []planner.SuggestionInput `json:"tasks"`
	Date  string                    `json:"date"`
	// Preferences is accepted for compatibility and currently unused.
	Preferences map[string]any `json:"preferences,omitempty"`
}

// HistoryResponse reports an undo ("undone") or redo ("redone").
type HistoryResponse struct {
	Undone  string `json:"undone,omitempty"`
	Redone  string `json:"redone,omitempty"`
	TaskID  string `json:"task_id"`
	Applied bool   `json:"applied"`
}
