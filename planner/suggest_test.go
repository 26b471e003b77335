package planner_test

import (
	"testing"

	"clementus360/focusflow/planner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestSchedule(t *testing.T) {
	out := planner.SuggestSchedule(testToday, []planner.SuggestionInput{
		{ID: "low", EnergyLevel: planner.EnergyLow},
		{ID: "urgent-low", EnergyLevel: planner.EnergyLow, Priority: planner.PriorityUrgent},
		{ID: "medium", EnergyLevel: planner.EnergyMedium},
		{ID: "high", EnergyLevel: planner.EnergyHigh},
		{ID: "blank"},
	})

	assert.Equal(t, testToday, out.Date)
	assert.Len(t, out.Tips, 3)

	var got []string
	for _, s := range out.Suggestions {
		got = append(got, s.TaskID+":"+string(s.SuggestedTimeBlock))
	}
	assert.Equal(t, []string{
		"urgent-low:morning",
		"high:morning",
		"medium:afternoon",
		"low:evening",
	}, got)
}

func TestSuggestScheduleEmpty(t *testing.T) {
	out := planner.SuggestSchedule(testToday, nil)
	require.NotNil(t, out.Suggestions)
	assert.Empty(t, out.Suggestions)
	assert.Len(t, out.Tips, 3)
}
