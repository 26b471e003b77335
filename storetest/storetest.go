// Package storetest is a conformance suite for planner.Store implementations.
package storetest

import (
	"context"
	"testing"
	"time"

	"clementus360/focusflow/planner"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = civil.Date{Year: 2025, Month: time.March, Day: 10}

func task(id, project string, date *civil.Date, status planner.Status, created time.Time) *planner.Task {
	return &planner.Task{
		ID:               id,
		Title:            "task " + id,
		ProjectID:        project,
		Date:             date,
		TimeBlock:        planner.TimeBlockAnytime,
		EstimatedMinutes: planner.DefaultEstimatedMinutes,
		Priority:         planner.PriorityMedium,
		EnergyLevel:      planner.EnergyMedium,
		Icon:             planner.DefaultTaskIcon,
		RecurrenceType:   planner.RecurrenceNone,
		Status:           status,
		CreatedAt:        created,
		UpdatedAt:        created,
	}
}

func ptr(d civil.Date) *civil.Date {
	return &d
}

func ids(tasks []*planner.Task) []string {
	out := []string{}
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

// Run exercises newStore's CRUD, filter and ordering behavior.
func Run(t *testing.T, newStore func(t *testing.T) planner.Store) {
	t.Run("TaskRoundTrip", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		created := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

		in := task("a", "work", ptr(day), planner.StatusPending, created)
		desc := "details"
		in.Description = &desc
		in.Subtasks = []planner.Subtask{{ID: "s1", Title: "one", Completed: true}}
		require.NoError(t, s.PutTask(ctx, in))

		got, err := s.GetTask(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, in.Title, got.Title)
		require.NotNil(t, got.Description)
		assert.Equal(t, desc, *got.Description)
		require.NotNil(t, got.Date)
		assert.Equal(t, day, *got.Date)
		assert.Equal(t, in.Subtasks, got.Subtasks)
		assert.True(t, in.CreatedAt.Equal(got.CreatedAt))

		// Mutating the returned copy does not change the stored task.
		got.Title = "changed"
		again, err := s.GetTask(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, in.Title, again.Title)

		in.Title = "updated"
		require.NoError(t, s.PutTask(ctx, in))
		got, err = s.GetTask(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "updated", got.Title)
	})

	t.Run("MissingTask", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.GetTask(ctx, "nope")
		assert.ErrorIs(t, err, planner.ErrNotFound)
		assert.ErrorIs(t, s.DeleteTask(ctx, "nope"), planner.ErrNotFound)
		_, err = s.GetProject(ctx, "nope")
		assert.ErrorIs(t, err, planner.ErrNotFound)
	})

	t.Run("DeleteTask", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.PutTask(ctx, task("a", "work", nil, planner.StatusPending, time.Now())))

		require.NoError(t, s.DeleteTask(ctx, "a"))
		_, err := s.GetTask(ctx, "a")
		assert.ErrorIs(t, err, planner.ErrNotFound)
	})

	t.Run("ListTasksFilters", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

		for _, tk := range []*planner.Task{
			task("c", "work", ptr(day), planner.StatusCompleted, base.Add(3*time.Minute)),
			task("a", "work", ptr(day.AddDays(-1)), planner.StatusPending, base.Add(time.Minute)),
			task("b", "home", ptr(day.AddDays(1)), planner.StatusPending, base.Add(2*time.Minute)),
			task("inbox", "home", nil, planner.StatusPending, base.Add(4*time.Minute)),
			// Same creation time as a; id breaks the tie.
			task("a2", "work", ptr(day), planner.StatusPending, base.Add(time.Minute)),
		} {
			require.NoError(t, s.PutTask(ctx, tk))
		}

		list := func(f planner.TaskFilter) []string {
			tasks, err := s.ListTasks(ctx, f)
			require.NoError(t, err)
			return ids(tasks)
		}

		assert.Equal(t, []string{"a", "a2", "b", "c", "inbox"}, list(planner.TaskFilter{}))
		assert.Equal(t, []string{"a2", "c"}, list(planner.TaskFilter{DateFrom: ptr(day), DateTo: ptr(day)}))
		assert.Equal(t, []string{"a2", "b", "c"}, list(planner.TaskFilter{DateFrom: ptr(day)}))
		assert.Equal(t, []string{"a", "a2", "c"}, list(planner.TaskFilter{DateTo: ptr(day)}))
		assert.Equal(t, []string{"a", "a2", "b", "c"}, list(planner.TaskFilter{ExcludeInbox: true}))
		assert.Equal(t, []string{"inbox"}, list(planner.TaskFilter{InboxOnly: true}))
		assert.Equal(t, []string{"b", "inbox"}, list(planner.TaskFilter{ProjectID: "home"}))
		assert.Equal(t, []string{"c"}, list(planner.TaskFilter{Status: planner.StatusCompleted}))
		assert.Equal(t, []string{"a2"}, list(planner.TaskFilter{ProjectID: "work", Status: planner.StatusPending, DateFrom: ptr(day)}))
		assert.Equal(t, []string{}, list(planner.TaskFilter{ProjectID: "none"}))
	})

	t.Run("Projects", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

		require.NoError(t, s.PutProject(ctx, &planner.Project{ID: "b", Name: "B", CreatedAt: base.Add(time.Minute)}))
		require.NoError(t, s.PutProject(ctx, &planner.Project{ID: "a", Name: "A", CreatedAt: base}))

		got, err := s.GetProject(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, "B", got.Name)

		all, err := s.ListProjects(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "a", all[0].ID)
		assert.Equal(t, "b", all[1].ID)
	})

	t.Run("PlannerOnTop", func(t *testing.T) {
		p := planner.New(newStore(t), planner.Options{})
		ctx := context.Background()

		_, err := p.CreateTask(ctx, planner.NewTask{ID: "a", Title: "A", ProjectID: "work"})
		require.NoError(t, err)
		_, err = p.CreateTask(ctx, planner.NewTask{ID: "b", Title: "B", ProjectID: "work", DependsOn: []string{"a"}})
		require.NoError(t, err)

		a, err := p.GetTask(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, []string{"b"}, a.Dependents())

		require.NoError(t, p.DeleteTask(ctx, "a"))
		b, err := p.GetTask(ctx, "b")
		require.NoError(t, err)
		assert.Empty(t, b.DependsOn())
	})
}
