package seed

import (
	"context"
	"testing"
	"time"

	"clementus360/focusflow/memstore"
	"clementus360/focusflow/planner"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = civil.Date{Year: 2025, Month: time.January, Day: 15}

func TestDemoFixture(t *testing.T) {
	f, err := Demo()
	require.NoError(t, err)
	assert.Len(t, f.Projects, 5)
	assert.Len(t, f.Tasks, 12)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("tasks:\n  - id: x\n    colour: red\n"))
	assert.Error(t, err)
}

func TestLoadDemo(t *testing.T) {
	ctx := context.Background()
	p := planner.New(memstore.New(), planner.Options{})
	f, err := Demo()
	require.NoError(t, err)

	n, err := EnsureProjects(ctx, p, f, "demo")
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	// Projects are only seeded into an empty store.
	n, err = EnsureProjects(ctx, p, f, "demo")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = LoadTasks(ctx, p, f, today)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	t1, err := p.GetTask(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, today, *t1.Date)
	assert.Equal(t, planner.StatusCompleted, t1.Status)
	assert.Equal(t, []string{"t2"}, t1.Dependents())

	t2, err := p.GetTask(ctx, "t2")
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, t2.DependsOn())
	assert.Equal(t, []string{"t5"}, t2.Dependents())
	assert.Equal(t, planner.StatusInProgress, t2.Status)
	require.Len(t, t2.Subtasks, 3)
	assert.True(t, t2.Subtasks[0].Completed)

	t9, err := p.GetTask(ctx, "t9")
	require.NoError(t, err)
	assert.Equal(t, today.AddDays(2), *t9.Date)
	assert.Equal(t, []string{"t7"}, t9.DependsOn())

	inbox, err := p.Inbox(ctx)
	require.NoError(t, err)
	assert.Len(t, inbox, 3)

	// Reloading skips existing tasks.
	n, err = LoadTasks(ctx, p, f, today)
	require.NoError(t, err)
	assert.Zero(t, n)

	stats, err := p.ProjectStats(ctx, "work")
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalTasks)
}
