package planner_test

import (
	"context"
	"testing"

	"clementus360/focusflow/memstore"
	"clementus360/focusflow/planner"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUndoRedoStatusChange(t *testing.T) {
	p, _ := newTestPlanner(t, planner.Options{})
	ctx := context.Background()
	mustCreate(t, p, planner.NewTask{ID: "a", Title: "A"})

	_, err := p.CompleteTask(ctx, "a")
	require.NoError(t, err)

	res, err := p.Undo(ctx)
	require.NoError(t, err)
	assert.Equal(t, &planner.ReplayResult{Type: planner.ActionUpdateTask, TaskID: "a", Applied: true}, res)
	assert.Equal(t, planner.StatusPending, mustGet(t, p, "a").Status)

	res, err = p.Redo(ctx)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, planner.StatusCompleted, mustGet(t, p, "a").Status)
}

func TestUndoEmptyHistory(t *testing.T) {
	p, _ := newTestPlanner(t, planner.Options{})
	ctx := context.Background()

	_, err := p.Undo(ctx)
	assert.ErrorIs(t, err, planner.ErrInvalidState)
	_, err = p.Redo(ctx)
	assert.ErrorIs(t, err, planner.ErrInvalidState)
}

func TestUndoRestoresClearedFields(t *testing.T) {
	p, _ := newTestPlanner(t, planner.Options{})
	ctx := context.Background()
	mustCreate(t, p, planner.NewTask{ID: "a", Title: "A", Date: datePtr(testToday), Notes: strPtr("n")})

	_, err := p.UpdateTask(ctx, "a", planner.TaskPatch{
		Date:  planner.Null[civil.Date](),
		Notes: planner.Null[string](),
		Title: planner.Some("renamed"),
	})
	require.NoError(t, err)

	_, err = p.Undo(ctx)
	require.NoError(t, err)
	got := mustGet(t, p, "a")
	assert.Equal(t, "A", got.Title)
	require.NotNil(t, got.Date)
	assert.Equal(t, testToday, *got.Date)
	require.NotNil(t, got.Notes)
	assert.Equal(t, "n", *got.Notes)
}

func TestUndoDependencyReplacementRestoresBothSides(t *testing.T) {
	p, _ := newTestPlanner(t, planner.Options{})
	ctx := context.Background()
	mustCreate(t, p, planner.NewTask{ID: "a", Title: "A"})
	mustCreate(t, p, planner.NewTask{ID: "b", Title: "B"})
	mustCreate(t, p, planner.NewTask{ID: "c", Title: "C", DependsOn: []string{"a"}})

	_, err := p.UpdateTask(ctx, "c", planner.TaskPatch{DependsOn: planner.Some([]string{"b"})})
	require.NoError(t, err)

	_, err = p.Undo(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, mustGet(t, p, "c").DependsOn())
	assert.Equal(t, []string{"c"}, mustGet(t, p, "a").Dependents())
	assert.Empty(t, mustGet(t, p, "b").Dependents())
	requireConsistentGraph(t, p)
}

func TestUndoSkipsDeletedTask(t *testing.T) {
	p, _ := newTestPlanner(t, planner.Options{})
	ctx := context.Background()
	mustCreate(t, p, planner.NewTask{ID: "a", Title: "A"})
	_, err := p.StartTask(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, p.DeleteTask(ctx, "a"))

	res, err := p.Undo(ctx)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, "a", res.TaskID)

	undo, redo := p.History().Len()
	assert.Equal(t, 0, undo)
	assert.Equal(t, 1, redo)

	_, err = p.GetTask(ctx, "a")
	assert.ErrorIs(t, err, planner.ErrNotFound)
}

func TestRedoSurvivesNewActionsByDefault(t *testing.T) {
	p, _ := newTestPlanner(t, planner.Options{})
	ctx := context.Background()
	mustCreate(t, p, planner.NewTask{ID: "a", Title: "A"})

	_, err := p.CompleteTask(ctx, "a")
	require.NoError(t, err)
	_, err = p.Undo(ctx)
	require.NoError(t, err)
	_, err = p.StartTask(ctx, "a")
	require.NoError(t, err)

	_, redo := p.History().Len()
	assert.Equal(t, 1, redo)
}

func TestClearRedoOnNewAction(t *testing.T) {
	p, _ := newTestPlanner(t, planner.Options{ClearRedoOnNewAction: true})
	ctx := context.Background()
	mustCreate(t, p, planner.NewTask{ID: "a", Title: "A"})

	_, err := p.CompleteTask(ctx, "a")
	require.NoError(t, err)
	_, err = p.Undo(ctx)
	require.NoError(t, err)
	_, err = p.StartTask(ctx, "a")
	require.NoError(t, err)

	_, redo := p.History().Len()
	assert.Zero(t, redo)
	_, err = p.Redo(ctx)
	assert.ErrorIs(t, err, planner.ErrInvalidState)
}

func TestHistoryIsBounded(t *testing.T) {
	h := planner.NewHistory(2, false)
	for _, id := range []string{"a", "b", "c"} {
		h.Push(planner.Action{Type: planner.ActionUpdateTask, TaskID: id})
	}
	undo, _ := h.Len()
	assert.Equal(t, 2, undo)

	a, err := h.PopUndo()
	require.NoError(t, err)
	assert.Equal(t, "c", a.TaskID)
	a, err = h.PopUndo()
	require.NoError(t, err)
	assert.Equal(t, "b", a.TaskID)
	_, err = h.PopUndo()
	assert.ErrorIs(t, err, planner.ErrInvalidState)
}

func TestCreateAndLinkAreNotRecorded(t *testing.T) {
	p, _ := newTestPlanner(t, planner.Options{})
	ctx := context.Background()
	mustCreate(t, p, planner.NewTask{ID: "a", Title: "A"})
	mustCreate(t, p, planner.NewTask{ID: "b", Title: "B"})
	_, _, err := p.Link(ctx, "a", "b")
	require.NoError(t, err)

	undo, redo := p.History().Len()
	assert.Zero(t, undo)
	assert.Zero(t, redo)
}

func TestUndoWriteFailureMovesActionToRedo(t *testing.T) {
	store := &flakyStore{Store: memstore.New()}
	p := planner.New(store, planner.Options{Now: testClock(), NewID: sequentialIDs()})
	ctx := context.Background()
	mustCreate(t, p, planner.NewTask{ID: "a", Title: "A"})

	_, err := p.CompleteTask(ctx, "a")
	require.NoError(t, err)

	store.failID = "a"
	_, err = p.Undo(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, planner.ErrNotFound)

	undo, redo := p.History().Len()
	assert.Equal(t, 0, undo)
	assert.Equal(t, 1, redo)
	assert.Equal(t, planner.StatusCompleted, mustGet(t, p, "a").Status)

	store.failID = ""
	res, err := p.Redo(ctx)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, planner.StatusCompleted, mustGet(t, p, "a").Status)
}
