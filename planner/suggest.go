package planner

import "cloud.google.com/go/civil"

// SuggestionInput is the minimal task shape the suggester looks at.
type SuggestionInput struct {
	ID          string      `json:"id"`
	EnergyLevel EnergyLevel `json:"energy_level,omitempty"`
	Priority    Priority    `json:"priority,omitempty"`
}

type Suggestion struct {
	TaskID             string    `json:"task_id"`
	SuggestedTimeBlock TimeBlock `json:"suggested_time_block"`
	Reason             string    `json:"reason"`
}

type ScheduleSuggestions struct {
	Date        civil.Date   `json:"date"`
	Suggestions []Suggestion `json:"suggestions"`
	Tips        []string     `json:"tips"`
}

var scheduleTips = []string{
	"🌅 Schedule your most important task for morning when willpower is highest",
	"☕ Take a short break between time blocks",
	"🌙 Keep evening tasks light and enjoyable",
}

// SuggestSchedule maps tasks onto time blocks by energy and priority. High
// energy or high/urgent priority goes to the morning, medium energy to the
// afternoon and low energy to the evening. Each task is placed at most once,
// by the first rule it matches; tasks matching no rule are left out.
// Suggestions are grouped morning, afternoon, evening.
func SuggestSchedule(date civil.Date, tasks []SuggestionInput) *ScheduleSuggestions {
	out := &ScheduleSuggestions{
		Date:        date,
		Suggestions: []Suggestion{},
		Tips:        append([]string(nil), scheduleTips...),
	}
	var morning, afternoon, evening []Suggestion
	for _, t := range tasks {
		switch {
		case t.EnergyLevel == EnergyHigh || t.Priority == PriorityHigh || t.Priority == PriorityUrgent:
			morning = append(morning, Suggestion{
				TaskID:             t.ID,
				SuggestedTimeBlock: TimeBlockMorning,
				Reason:             "High-energy task best suited for peak morning focus",
			})
		case t.EnergyLevel == EnergyMedium:
			afternoon = append(afternoon, Suggestion{
				TaskID:             t.ID,
				SuggestedTimeBlock: TimeBlockAfternoon,
				Reason:             "Medium-energy task fits well in afternoon",
			})
		case t.EnergyLevel == EnergyLow:
			evening = append(evening, Suggestion{
				TaskID:             t.ID,
				SuggestedTimeBlock: TimeBlockEvening,
				Reason:             "Low-energy task ideal for wind-down time",
			})
		}
	}
	out.Suggestions = append(out.Suggestions, morning...)
	out.Suggestions = append(out.Suggestions, afternoon...)
	out.Suggestions = append(out.Suggestions, evening...)
	return out
}
