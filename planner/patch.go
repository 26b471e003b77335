package planner

import (
	"bytes"
	"encoding/json"
	"slices"

	"cloud.google.com/go/civil"
)

// Field is an optional patch value. A Field that was absent from the request
// is the zero value; an explicit JSON null sets both Set and Null.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns a Field carrying v.
func Some[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Null returns a Field that clears a nullable attribute.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

func (f Field[T]) IsZero() bool {
	return !f.Set
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if f.Null || !f.Set {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// ptr returns the value as a pointer, nil when cleared.
func (f Field[T]) ptr() *T {
	if f.Null {
		return nil
	}
	v := f.Value
	return &v
}

func fieldOf[T any](p *T) Field[T] {
	if p == nil {
		return Null[T]()
	}
	return Some(*p)
}

// TaskPatch is a partial task update. Only fields that are Set are applied.
type TaskPatch struct {
	Title            Field[string]         `json:"title,omitzero"`
	Description      Field[string]         `json:"description,omitzero"`
	ProjectID        Field[string]         `json:"project_id,omitzero"`
	Date             Field[civil.Date]     `json:"date,omitzero"`
	TimeBlock        Field[TimeBlock]      `json:"time_block,omitzero"`
	EstimatedMinutes Field[int]            `json:"estimated_minutes,omitzero"`
	ActualMinutes    Field[int]            `json:"actual_minutes,omitzero"`
	Priority         Field[Priority]       `json:"priority,omitzero"`
	EnergyLevel      Field[EnergyLevel]    `json:"energy_level,omitzero"`
	Icon             Field[string]         `json:"icon,omitzero"`
	Status           Field[Status]         `json:"status,omitzero"`
	Subtasks         Field[[]Subtask]      `json:"subtasks,omitzero"`
	DependsOn        Field[[]string]       `json:"depends_on,omitzero"`
	Notes            Field[string]         `json:"notes,omitzero"`
	RecurrenceType   Field[RecurrenceType] `json:"recurrence_type,omitzero"`
	RecurrenceDays   Field[[]int]          `json:"recurrence_days,omitzero"`
}

// IsEmpty reports whether the patch touches nothing.
func (p TaskPatch) IsEmpty() bool {
	return !p.Title.Set && !p.Description.Set && !p.ProjectID.Set && !p.Date.Set &&
		!p.TimeBlock.Set && !p.EstimatedMinutes.Set && !p.ActualMinutes.Set &&
		!p.Priority.Set && !p.EnergyLevel.Set && !p.Icon.Set && !p.Status.Set &&
		!p.Subtasks.Set && !p.DependsOn.Set && !p.Notes.Set &&
		!p.RecurrenceType.Set && !p.RecurrenceDays.Set
}

func (p TaskPatch) validate() error {
	nonNullable := []struct {
		name string
		null bool
	}{
		{"title", p.Title.Null},
		{"project_id", p.ProjectID.Null},
		{"time_block", p.TimeBlock.Null},
		{"estimated_minutes", p.EstimatedMinutes.Null},
		{"priority", p.Priority.Null},
		{"energy_level", p.EnergyLevel.Null},
		{"icon", p.Icon.Null},
		{"status", p.Status.Null},
		{"recurrence_type", p.RecurrenceType.Null},
	}
	for _, f := range nonNullable {
		if f.null {
			return invalidInput("%s cannot be null", f.name)
		}
	}
	if p.Title.Set && p.Title.Value == "" {
		return invalidInput("title cannot be empty")
	}
	if p.ProjectID.Set && p.ProjectID.Value == "" {
		return invalidInput("project_id cannot be empty")
	}
	if p.EstimatedMinutes.Set && p.EstimatedMinutes.Value < 0 {
		return invalidInput("estimated_minutes must not be negative")
	}
	if p.ActualMinutes.Set && !p.ActualMinutes.Null && p.ActualMinutes.Value < 0 {
		return invalidInput("actual_minutes must not be negative")
	}
	// Enum fields decoded from JSON are already checked by UnmarshalText;
	// patches built in code are checked here.
	if p.TimeBlock.Set && !p.TimeBlock.Value.IsValid() {
		return invalidInput("unknown time_block %q", p.TimeBlock.Value)
	}
	if p.Priority.Set && !p.Priority.Value.IsValid() {
		return invalidInput("unknown priority %q", p.Priority.Value)
	}
	if p.EnergyLevel.Set && !p.EnergyLevel.Value.IsValid() {
		return invalidInput("unknown energy_level %q", p.EnergyLevel.Value)
	}
	if p.Status.Set && !p.Status.Value.IsValid() {
		return invalidInput("unknown status %q", p.Status.Value)
	}
	if p.RecurrenceType.Set && !p.RecurrenceType.Value.IsValid() {
		return invalidInput("unknown recurrence_type %q", p.RecurrenceType.Value)
	}
	for _, st := range p.Subtasks.Value {
		if st.Title == "" {
			return invalidInput("subtask title cannot be empty")
		}
	}
	return nil
}

// normalize assigns ids to new subtasks so that replaying the patch yields the
// same subtask ids.
func (p *TaskPatch) normalize(newID func() string) {
	if !p.Subtasks.Set {
		return
	}
	subtasks := slices.Clone(p.Subtasks.Value)
	for i := range subtasks {
		if subtasks[i].ID == "" {
			subtasks[i].ID = newID()
		}
	}
	p.Subtasks.Value = subtasks
	p.Subtasks.Null = false
}

// capture returns a patch holding t's current values for every field p sets.
func capture(t *Task, p TaskPatch) TaskPatch {
	var prev TaskPatch
	if p.Title.Set {
		prev.Title = Some(t.Title)
	}
	if p.Description.Set {
		prev.Description = fieldOf(t.Description)
	}
	if p.ProjectID.Set {
		prev.ProjectID = Some(t.ProjectID)
	}
	if p.Date.Set {
		prev.Date = fieldOf(t.Date)
	}
	if p.TimeBlock.Set {
		prev.TimeBlock = Some(t.TimeBlock)
	}
	if p.EstimatedMinutes.Set {
		prev.EstimatedMinutes = Some(t.EstimatedMinutes)
	}
	if p.ActualMinutes.Set {
		prev.ActualMinutes = fieldOf(t.ActualMinutes)
	}
	if p.Priority.Set {
		prev.Priority = Some(t.Priority)
	}
	if p.EnergyLevel.Set {
		prev.EnergyLevel = Some(t.EnergyLevel)
	}
	if p.Icon.Set {
		prev.Icon = Some(t.Icon)
	}
	if p.Status.Set {
		prev.Status = Some(t.Status)
	}
	if p.Subtasks.Set {
		prev.Subtasks = Some(slices.Clone(nonNil(t.Subtasks)))
	}
	if p.DependsOn.Set {
		prev.DependsOn = Some(t.DependsOn())
	}
	if p.Notes.Set {
		prev.Notes = fieldOf(t.Notes)
	}
	if p.RecurrenceType.Set {
		prev.RecurrenceType = Some(t.RecurrenceType)
	}
	if p.RecurrenceDays.Set {
		prev.RecurrenceDays = Some(slices.Clone(t.RecurrenceDays))
	}
	return prev
}

// applyFields writes every set field except depends_on, which belongs to the
// graph maintainer.
func applyFields(t *Task, p TaskPatch) {
	if p.Title.Set {
		t.Title = p.Title.Value
	}
	if p.Description.Set {
		t.Description = p.Description.ptr()
	}
	if p.ProjectID.Set {
		t.ProjectID = p.ProjectID.Value
	}
	if p.Date.Set {
		t.Date = p.Date.ptr()
	}
	if p.TimeBlock.Set {
		t.TimeBlock = p.TimeBlock.Value
	}
	if p.EstimatedMinutes.Set {
		t.EstimatedMinutes = p.EstimatedMinutes.Value
	}
	if p.ActualMinutes.Set {
		t.ActualMinutes = p.ActualMinutes.ptr()
	}
	if p.Priority.Set {
		t.Priority = p.Priority.Value
	}
	if p.EnergyLevel.Set {
		t.EnergyLevel = p.EnergyLevel.Value
	}
	if p.Icon.Set {
		t.Icon = p.Icon.Value
	}
	if p.Status.Set {
		t.Status = p.Status.Value
	}
	if p.Subtasks.Set {
		t.Subtasks = slices.Clone(p.Subtasks.Value)
	}
	if p.Notes.Set {
		t.Notes = p.Notes.ptr()
	}
	if p.RecurrenceType.Set {
		t.RecurrenceType = p.RecurrenceType.Value
	}
	if p.RecurrenceDays.Set {
		t.RecurrenceDays = slices.Clone(p.RecurrenceDays.Value)
	}
}
