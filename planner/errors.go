package planner

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced task, subtask or project does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState is returned when undo or redo has nothing to replay.
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidInput is returned for malformed filters, ranges, enum values and payloads.
	ErrInvalidInput = errors.New("invalid input")
)

// TaskNotFound wraps ErrNotFound for a missing task. Stores use it so every
// backend reports the same message.
func TaskNotFound(id string) error {
	return fmt.Errorf("%w: task %q", ErrNotFound, id)
}

func ProjectNotFound(id string) error {
	return fmt.Errorf("%w: project %q", ErrNotFound, id)
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
