package planner

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// graph keeps depends_on and dependents mutually consistent. It is the only
// code that writes those fields. Methods never persist anything: they return
// the tasks they changed and the caller commits them.
type graph struct {
	store        Store
	forbidCycles bool
}

// onCreate records the reverse edge on every declared parent of t. Parents
// that do not exist are dropped from t.dependsOn and duplicates collapse.
func (g *graph) onCreate(ctx context.Context, t *Task) ([]*Task, error) {
	declared := dedupe(t.dependsOn)
	t.dependsOn = nil
	var touched []*Task
	for _, id := range declared {
		if id == t.ID {
			continue
		}
		parent, err := g.lookup(ctx, id)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			continue
		}
		parent.dependents = addID(parent.dependents, t.ID)
		t.dependsOn = append(t.dependsOn, id)
		touched = append(touched, parent)
	}
	return touched, nil
}

// link makes dependentID depend on parentID. Both tasks are loaded before
// either is changed.
func (g *graph) link(ctx context.Context, parentID, dependentID string) (*Task, *Task, error) {
	parent, dependent, err := g.pair(ctx, parentID, dependentID)
	if err != nil {
		return nil, nil, err
	}
	if parentID == dependentID {
		return nil, nil, invalidInput("task %q cannot depend on itself", parentID)
	}
	if g.forbidCycles && !slices.Contains(dependent.dependsOn, parentID) {
		cyclic, err := g.reaches(ctx, parentID, dependentID)
		if err != nil {
			return nil, nil, err
		}
		if cyclic {
			return nil, nil, invalidInput("linking %q -> %q would create a cycle", parentID, dependentID)
		}
	}
	parent.dependents = addID(parent.dependents, dependentID)
	dependent.dependsOn = addID(dependent.dependsOn, parentID)
	return parent, dependent, nil
}

// unlink removes the edge in both directions. A missing edge is not an error.
func (g *graph) unlink(ctx context.Context, parentID, dependentID string) (*Task, *Task, error) {
	parent, dependent, err := g.pair(ctx, parentID, dependentID)
	if err != nil {
		return nil, nil, err
	}
	parent.dependents = removeID(parent.dependents, dependentID)
	dependent.dependsOn = removeID(dependent.dependsOn, parentID)
	return parent, dependent, nil
}

// deleteCleanup strips id from every other task's edges.
func (g *graph) deleteCleanup(ctx context.Context, id string) ([]*Task, error) {
	all, err := g.store.ListTasks(ctx, TaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	var touched []*Task
	for _, t := range all {
		if t.ID == id {
			continue
		}
		if !slices.Contains(t.dependsOn, id) && !slices.Contains(t.dependents, id) {
			continue
		}
		t.dependsOn = removeID(t.dependsOn, id)
		t.dependents = removeID(t.dependents, id)
		touched = append(touched, t)
	}
	return touched, nil
}

// replaceDependencies sets t's parents to the given ids, linking and
// unlinking only the difference. Unknown parents are dropped.
func (g *graph) replaceDependencies(ctx context.Context, t *Task, parents []string) ([]*Task, error) {
	var want []string
	loaded := make(map[string]*Task)
	for _, id := range dedupe(parents) {
		if id == t.ID {
			continue
		}
		parent, err := g.lookup(ctx, id)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			continue
		}
		want = append(want, id)
		loaded[id] = parent
	}

	var touched []*Task
	for _, id := range t.dependsOn {
		if slices.Contains(want, id) {
			continue
		}
		parent, err := g.lookup(ctx, id)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			continue
		}
		parent.dependents = removeID(parent.dependents, t.ID)
		touched = append(touched, parent)
	}
	for _, id := range want {
		if slices.Contains(t.dependsOn, id) {
			continue
		}
		if g.forbidCycles {
			cyclic, err := g.reaches(ctx, id, t.ID)
			if err != nil {
				return nil, err
			}
			if cyclic {
				return nil, invalidInput("depending on %q would create a cycle", id)
			}
		}
		parent := loaded[id]
		parent.dependents = addID(parent.dependents, t.ID)
		touched = append(touched, parent)
	}
	t.dependsOn = want
	return touched, nil
}

// reaches reports whether from transitively depends on target.
func (g *graph) reaches(ctx context.Context, from, target string) (bool, error) {
	seen := map[string]bool{from: true}
	queue := []string{from}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if id == target {
			return true, nil
		}
		t, err := g.lookup(ctx, id)
		if err != nil {
			return false, err
		}
		if t == nil {
			continue
		}
		for _, next := range t.dependsOn {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false, nil
}

func (g *graph) pair(ctx context.Context, parentID, dependentID string) (*Task, *Task, error) {
	parent, err := g.store.GetTask(ctx, parentID)
	if err != nil {
		return nil, nil, err
	}
	dependent, err := g.store.GetTask(ctx, dependentID)
	if err != nil {
		return nil, nil, err
	}
	return parent, dependent, nil
}

// lookup returns nil without error when the task does not exist.
func (g *graph) lookup(ctx context.Context, id string) (*Task, error) {
	t, err := g.store.GetTask(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func dedupe(ids []string) []string {
	var out []string
	for _, id := range ids {
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func addID(ids []string, id string) []string {
	if slices.Contains(ids, id) {
		return ids
	}
	return append(ids, id)
}

func removeID(ids []string, id string) []string {
	return slices.DeleteFunc(ids, func(v string) bool { return v == id })
}
