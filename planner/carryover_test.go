package planner_test

import (
	"context"
	"testing"

	"clementus360/focusflow/planner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCarryOver(t *testing.T) {
	p, _ := newTestPlanner(t, planner.Options{})
	ctx := context.Background()
	tomorrow := testToday.AddDays(1)

	mustCreate(t, p, planner.NewTask{ID: "done", Title: "Done", Date: datePtr(testToday), Status: planner.StatusCompleted})
	mustCreate(t, p, planner.NewTask{ID: "skipped", Title: "Skipped", Date: datePtr(testToday), Status: planner.StatusSkipped})
	mustCreate(t, p, planner.NewTask{ID: "pending", Title: "Pending", Date: datePtr(testToday), TimeBlock: planner.TimeBlockEvening})
	mustCreate(t, p, planner.NewTask{ID: "started", Title: "Started", Date: datePtr(testToday), Status: planner.StatusInProgress})
	mustCreate(t, p, planner.NewTask{ID: "later", Title: "Later", Date: datePtr(tomorrow)})
	mustCreate(t, p, planner.NewTask{ID: "inbox", Title: "Inbox"})

	res, err := p.CarryOver(ctx, testToday, tomorrow)
	require.NoError(t, err)
	assert.Equal(t, 2, res.CarriedOver)
	assert.ElementsMatch(t, []string{"pending", "started"}, res.TaskIDs)

	for _, id := range res.TaskIDs {
		task := mustGet(t, p, id)
		assert.Equal(t, planner.StatusCarriedOver, task.Status)
		assert.Equal(t, tomorrow, *task.Date)
		require.NotNil(t, task.CarriedOverFrom)
		assert.Equal(t, testToday, *task.CarriedOverFrom)
	}
	assert.Equal(t, planner.TimeBlockEvening, mustGet(t, p, "pending").TimeBlock)

	assert.Equal(t, planner.StatusCompleted, mustGet(t, p, "done").Status)
	assert.Equal(t, testToday, *mustGet(t, p, "skipped").Date)
	assert.Nil(t, mustGet(t, p, "later").CarriedOverFrom)
	assert.True(t, mustGet(t, p, "inbox").IsInbox())

	// Nothing left to carry.
	res, err = p.CarryOver(ctx, testToday, tomorrow)
	require.NoError(t, err)
	assert.Zero(t, res.CarriedOver)
	assert.NotNil(t, res.TaskIDs)
}

func TestCarryOverIsNotUndoable(t *testing.T) {
	p, _ := newTestPlanner(t, planner.Options{})
	ctx := context.Background()
	mustCreate(t, p, planner.NewTask{ID: "a", Title: "A", Date: datePtr(testToday)})

	_, err := p.CarryOver(ctx, testToday, testToday.AddDays(1))
	require.NoError(t, err)

	undo, _ := p.History().Len()
	assert.Zero(t, undo)
}
