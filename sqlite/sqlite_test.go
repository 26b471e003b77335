package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"clementus360/focusflow/planner"
	"clementus360/focusflow/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) planner.Store {
		return newTestStore(t)
	})
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}

func TestEdgesSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focusflow.db")
	ctx := context.Background()

	store, err := Open(path)
	require.NoError(t, err)
	p := planner.New(store, planner.Options{})
	_, err = p.CreateTask(ctx, planner.NewTask{ID: "a", Title: "A", ProjectID: "work"})
	require.NoError(t, err)
	_, err = p.CreateTask(ctx, planner.NewTask{ID: "b", Title: "B", ProjectID: "work", DependsOn: []string{"a"}})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	a, err := store.GetTask(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, a.Dependents())
	b, err := store.GetTask(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, b.DependsOn())
	assert.WithinDuration(t, time.Now(), b.CreatedAt, time.Minute)
}
