package planner

import "fmt"

// TimeBlock is the part of the day a task is scheduled into.
type TimeBlock string

const (
	TimeBlockAnytime   TimeBlock = "anytime"
	TimeBlockMorning   TimeBlock = "morning"
	TimeBlockAfternoon TimeBlock = "afternoon"
	TimeBlockEvening   TimeBlock = "evening"
)

func (b TimeBlock) IsValid() bool {
	switch b {
	case TimeBlockAnytime, TimeBlockMorning, TimeBlockAfternoon, TimeBlockEvening:
		return true
	}
	return false
}

func (b *TimeBlock) UnmarshalText(text []byte) error {
	v := TimeBlock(text)
	if !v.IsValid() {
		return fmt.Errorf("%w: unknown time_block %q", ErrInvalidInput, text)
	}
	*b = v
	return nil
}

// Status is the lifecycle state of a task.
type Status string

const (
	StatusPending     Status = "pending"
	StatusInProgress  Status = "in-progress"
	StatusCompleted   Status = "completed"
	StatusSkipped     Status = "skipped"
	StatusCarriedOver Status = "carried-over"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusSkipped, StatusCarriedOver:
		return true
	}
	return false
}

// IsDone reports whether the task no longer needs work on its day.
func (s Status) IsDone() bool {
	return s == StatusCompleted || s == StatusSkipped
}

func (s *Status) UnmarshalText(text []byte) error {
	v := Status(text)
	if !v.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, text)
	}
	*s = v
	return nil
}

// Priority ranks how important a task is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

func (p *Priority) UnmarshalText(text []byte) error {
	v := Priority(text)
	if !v.IsValid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, text)
	}
	*p = v
	return nil
}

// EnergyLevel is how much focus a task demands.
type EnergyLevel string

const (
	EnergyLow    EnergyLevel = "low"
	EnergyMedium EnergyLevel = "medium"
	EnergyHigh   EnergyLevel = "high"
)

func (e EnergyLevel) IsValid() bool {
	switch e {
	case EnergyLow, EnergyMedium, EnergyHigh:
		return true
	}
	return false
}

func (e *EnergyLevel) UnmarshalText(text []byte) error {
	v := EnergyLevel(text)
	if !v.IsValid() {
		return fmt.Errorf("%w: unknown energy_level %q", ErrInvalidInput, text)
	}
	*e = v
	return nil
}

// RecurrenceType describes how a task repeats.
type RecurrenceType string

const (
	RecurrenceNone     RecurrenceType = "none"
	RecurrenceDaily    RecurrenceType = "daily"
	RecurrenceWeekdays RecurrenceType = "weekdays"
	RecurrenceWeekly   RecurrenceType = "weekly"
	RecurrenceMonthly  RecurrenceType = "monthly"
	RecurrenceCustom   RecurrenceType = "custom"
)

func (r RecurrenceType) IsValid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekdays, RecurrenceWeekly, RecurrenceMonthly, RecurrenceCustom:
		return true
	}
	return false
}

func (r *RecurrenceType) UnmarshalText(text []byte) error {
	v := RecurrenceType(text)
	if !v.IsValid() {
		return fmt.Errorf("%w: unknown recurrence_type %q", ErrInvalidInput, text)
	}
	*r = v
	return nil
}
