package planner_test

import (
	"context"
	"testing"

	"clementus360/focusflow/planner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaySchedule(t *testing.T) {
	p, _ := newTestPlanner(t, planner.Options{})
	ctx := context.Background()
	mustCreate(t, p, planner.NewTask{ID: "m", Title: "M", Date: datePtr(testToday), TimeBlock: planner.TimeBlockMorning})
	mustCreate(t, p, planner.NewTask{ID: "e", Title: "E", Date: datePtr(testToday), TimeBlock: planner.TimeBlockEvening})
	mustCreate(t, p, planner.NewTask{ID: "x", Title: "X", Date: datePtr(testToday)})
	mustCreate(t, p, planner.NewTask{ID: "other", Title: "O", Date: datePtr(testToday.AddDays(1))})
	mustCreate(t, p, planner.NewTask{ID: "inbox", Title: "I"})
	_, err := p.CompleteTask(ctx, "m")
	require.NoError(t, err)

	day, err := p.DaySchedule(ctx, testToday)
	require.NoError(t, err)

	assert.Equal(t, testToday, day.Date)
	require.Len(t, day.Morning, 1)
	assert.Equal(t, "m", day.Morning[0].ID)
	assert.Empty(t, day.Afternoon)
	assert.NotNil(t, day.Afternoon)
	require.Len(t, day.Evening, 1)
	require.Len(t, day.Anytime, 1)
	assert.Equal(t, "x", day.Anytime[0].ID)

	assert.Equal(t, 3, day.Stats.Total)
	assert.Equal(t, 1, day.Stats.Completed)
	assert.InDelta(t, 1.0/3.0, day.Stats.Progress, 1e-9)

	empty, err := p.DaySchedule(ctx, testToday.AddDays(30))
	require.NoError(t, err)
	assert.Zero(t, empty.Stats.Total)
	assert.Zero(t, empty.Stats.Progress)
}

func TestRangeSchedule(t *testing.T) {
	p, _ := newTestPlanner(t, planner.Options{})
	ctx := context.Background()
	mustCreate(t, p, planner.NewTask{ID: "a", Title: "A", Date: datePtr(testToday)})
	mustCreate(t, p, planner.NewTask{ID: "b", Title: "B", Date: datePtr(testToday.AddDays(2))})
	mustCreate(t, p, planner.NewTask{ID: "c", Title: "C", Date: datePtr(testToday.AddDays(2))})
	mustCreate(t, p, planner.NewTask{ID: "inbox", Title: "I"})
	_, err := p.CompleteTask(ctx, "c")
	require.NoError(t, err)

	days, err := p.RangeSchedule(ctx, testToday, testToday.AddDays(2))
	require.NoError(t, err)
	require.Len(t, days, 3)

	assert.Equal(t, 1, days["2025-01-15"].Total)
	assert.Equal(t, 0, days["2025-01-16"].Total)
	assert.NotNil(t, days["2025-01-16"].Tasks)
	assert.Equal(t, 2, days["2025-01-17"].Total)
	assert.Equal(t, 1, days["2025-01-17"].Completed)

	single, err := p.RangeSchedule(ctx, testToday, testToday)
	require.NoError(t, err)
	assert.Len(t, single, 1)

	_, err = p.RangeSchedule(ctx, testToday.AddDays(1), testToday)
	assert.ErrorIs(t, err, planner.ErrInvalidInput)
	_, err = p.RangeSchedule(ctx, testToday, testToday.AddDays(planner.MaxRangeDays))
	assert.ErrorIs(t, err, planner.ErrInvalidInput)
}

func TestProjectStats(t *testing.T) {
	p, _ := newTestPlanner(t, planner.Options{})
	ctx := context.Background()
	_, err := p.CreateProject(ctx, planner.NewProject{ID: "work", Name: "Work"}, "demo")
	require.NoError(t, err)
	_, err = p.CreateProject(ctx, planner.NewProject{ID: "empty", Name: "Empty"}, "demo")
	require.NoError(t, err)

	mustCreate(t, p, planner.NewTask{ID: "a", Title: "A", ProjectID: "work"})
	mustCreate(t, p, planner.NewTask{ID: "b", Title: "B", ProjectID: "work"})
	mustCreate(t, p, planner.NewTask{ID: "c", Title: "C", ProjectID: "home"})
	_, err = p.CompleteTask(ctx, "a")
	require.NoError(t, err)

	stats, err := p.ProjectStats(ctx, "work")
	require.NoError(t, err)
	assert.Equal(t, &planner.ProjectStats{
		ProjectID:      "work",
		TotalTasks:     2,
		CompletedTasks: 1,
		PendingTasks:   1,
		CompletionRate: 0.5,
	}, stats)

	stats, err = p.ProjectStats(ctx, "empty")
	require.NoError(t, err)
	assert.Zero(t, stats.CompletionRate)

	_, err = p.ProjectStats(ctx, "home")
	assert.ErrorIs(t, err, planner.ErrNotFound)
}
