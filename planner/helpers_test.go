package planner_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"clementus360/focusflow/memstore"
	"clementus360/focusflow/planner"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/require"
)

var testToday = civil.Date{Year: 2025, Month: time.January, Day: 15}

// testClock starts on testToday and advances a millisecond per reading so
// creation order is stable.
func testClock() func() time.Time {
	now := time.Date(2025, time.January, 15, 9, 0, 0, 0, time.Local)
	return func() time.Time {
		now = now.Add(time.Millisecond)
		return now
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("gen-%03d", n)
	}
}

func newTestPlanner(t *testing.T, opts planner.Options) (*planner.Planner, *memstore.Store) {
	t.Helper()
	if opts.Now == nil {
		opts.Now = testClock()
	}
	if opts.NewID == nil {
		opts.NewID = sequentialIDs()
	}
	store := memstore.New()
	return planner.New(store, opts), store
}

func mustCreate(t *testing.T, p *planner.Planner, in planner.NewTask) *planner.Task {
	t.Helper()
	if in.ProjectID == "" {
		in.ProjectID = "work"
	}
	task, err := p.CreateTask(context.Background(), in)
	require.NoError(t, err)
	return task
}

func mustGet(t *testing.T, p *planner.Planner, id string) *planner.Task {
	t.Helper()
	task, err := p.GetTask(context.Background(), id)
	require.NoError(t, err)
	return task
}

func datePtr(d civil.Date) *civil.Date {
	return &d
}

func intPtr(n int) *int {
	return &n
}

func strPtr(s string) *string {
	return &s
}

// requireConsistentGraph checks that every edge is recorded on both
// endpoints, that no task depends on itself and that no edge points at a
// missing task.
func requireConsistentGraph(t *testing.T, p *planner.Planner) {
	t.Helper()
	tasks, err := p.ListTasks(context.Background(), planner.TaskFilter{})
	require.NoError(t, err)

	byID := make(map[string]*planner.Task, len(tasks))
	for _, task := range tasks {
		byID[task.ID] = task
	}
	for _, task := range tasks {
		for _, parentID := range task.DependsOn() {
			require.NotEqual(t, task.ID, parentID, "self edge on %s", task.ID)
			parent, ok := byID[parentID]
			require.True(t, ok, "%s depends on missing %s", task.ID, parentID)
			require.Contains(t, parent.Dependents(), task.ID, "%s missing reverse edge to %s", parentID, task.ID)
		}
		for _, childID := range task.Dependents() {
			require.NotEqual(t, task.ID, childID, "self edge on %s", task.ID)
			child, ok := byID[childID]
			require.True(t, ok, "%s lists missing dependent %s", task.ID, childID)
			require.Contains(t, child.DependsOn(), task.ID, "%s missing forward edge to %s", childID, task.ID)
		}
	}
}
