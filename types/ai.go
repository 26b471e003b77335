package types

// BreakdownSource says where a breakdown came from.
type BreakdownSource string

const (
	SourceAI       BreakdownSource = "ai"
	SourceMock     BreakdownSource = "mock"
	SourceFallback BreakdownSource = "fallback"
)

type BreakdownRequest struct {
	TaskTitle        string  `json:"task_title"`
	TaskDescription  *string `json:"task_description,omitempty"`
	EstimatedMinutes *int    `json:"estimated_minutes,omitempty"`
	Context          *string `json:"context,omitempty"`
}

type BreakdownStep struct {
	Title            string `json:"title"`
	EstimatedMinutes int    `json:"estimated_minutes"`
	EnergyLevel      string `json:"energy_level"`
	Tips             string `json:"tips"`
}

type BreakdownResponse struct {
	Subtasks              []BreakdownStep `json:"subtasks"`
	TotalEstimatedMinutes int             `json:"total_estimated_minutes"`
	SuggestedApproach     string          `json:"suggested_approach"`
	MotivationTip         string          `json:"motivation_tip"`
	Source                BreakdownSource `json:"source"`
}
