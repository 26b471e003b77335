// Package memstore is the in-process planner.Store used by default and in tests.
package memstore

import (
	"context"
	"sort"
	"sync"

	"clementus360/focusflow/planner"
)

type Store struct {
	mu       sync.RWMutex
	tasks    map[string]*planner.Task
	projects map[string]*planner.Project
}

func New() *Store {
	return &Store{
		tasks:    make(map[string]*planner.Task),
		projects: make(map[string]*planner.Project),
	}
}

func (s *Store) GetTask(_ context.Context, id string) (*planner.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, planner.TaskNotFound(id)
	}
	return t.Clone(), nil
}

func (s *Store) PutTask(_ context.Context, t *planner.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[t.ID] = t.Clone()
	return nil
}

func (s *Store) DeleteTask(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return planner.TaskNotFound(id)
	}
	delete(s.tasks, id)
	return nil
}

func (s *Store) ListTasks(_ context.Context, filter planner.TaskFilter) ([]*planner.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*planner.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if filter.Match(t) {
			out = append(out, t.Clone())
		}
	}
	planner.SortTasks(out)
	return out, nil
}

func (s *Store) GetProject(_ context.Context, id string) (*planner.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, planner.ProjectNotFound(id)
	}
	return p.Clone(), nil
}

func (s *Store) PutProject(_ context.Context, p *planner.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[p.ID] = p.Clone()
	return nil
}

func (s *Store) ListProjects(_ context.Context) ([]*planner.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*planner.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
