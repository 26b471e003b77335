package supabase

import (
	"context"
	"encoding/json"
	"fmt"

	"clementus360/focusflow/planner"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
)

const (
	tasksTable    = "tasks"
	projectsTable = "projects"
)

// Store is a planner.Store over Supabase's PostgREST API. The tasks table has
// one column per task JSON field, depends_on/dependents/subtasks as jsonb.
type Store struct {
	client *supabase.Client
}

func NewClient(apiURL, apiKey string) (*supabase.Client, error) {
	if apiURL == "" || apiKey == "" {
		return nil, fmt.Errorf("supabase url and key are required")
	}
	client, err := supabase.NewClient(apiURL, apiKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}
	return client, nil
}

func NewStore(client *supabase.Client) *Store {
	return &Store{client: client}
}

// PostgREST calls carry no context; ctx is checked before each request so a
// cancelled request does not start new writes.

func (s *Store) GetTask(ctx context.Context, id string) (*planner.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, _, err := s.client.From(tasksTable).
		Select("*", "", false).
		Eq("id", id).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	var tasks []*planner.Task
	if err := json.Unmarshal(resp, &tasks); err != nil {
		return nil, fmt.Errorf("decode task %s: %w", id, err)
	}
	if len(tasks) == 0 {
		return nil, planner.TaskNotFound(id)
	}
	return tasks[0], nil
}

func (s *Store) PutTask(ctx context.Context, t *planner.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, _, err := s.client.From(tasksTable).
		Upsert(t, "id", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("put task %s: %w", t.ID, err)
	}
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	resp, _, err := s.client.From(tasksTable).
		Delete("representation", "").
		Eq("id", id).
		Execute()
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	var deleted []json.RawMessage
	if err := json.Unmarshal(resp, &deleted); err != nil {
		return fmt.Errorf("decode deleted task %s: %w", id, err)
	}
	if len(deleted) == 0 {
		return planner.TaskNotFound(id)
	}
	return nil
}

func (s *Store) ListTasks(ctx context.Context, filter planner.TaskFilter) ([]*planner.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	query := s.client.From(tasksTable).Select("*", "", false)
	if filter.DateFrom != nil {
		query = query.Gte("date", filter.DateFrom.String())
	}
	if filter.DateTo != nil {
		query = query.Lte("date", filter.DateTo.String())
	}
	if filter.ExcludeInbox {
		query = query.Not("date", "is", "null")
	}
	if filter.InboxOnly {
		query = query.Is("date", "null")
	}
	if filter.ProjectID != "" {
		query = query.Eq("project_id", filter.ProjectID)
	}
	if filter.Status != "" {
		query = query.Eq("status", string(filter.Status))
	}
	resp, _, err := query.
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		Order("id", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	tasks := []*planner.Task{}
	if err := json.Unmarshal(resp, &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	return tasks, nil
}

func (s *Store) GetProject(ctx context.Context, id string) (*planner.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, _, err := s.client.From(projectsTable).
		Select("*", "", false).
		Eq("id", id).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	var projects []*planner.Project
	if err := json.Unmarshal(resp, &projects); err != nil {
		return nil, fmt.Errorf("decode project %s: %w", id, err)
	}
	if len(projects) == 0 {
		return nil, planner.ProjectNotFound(id)
	}
	return projects[0], nil
}

func (s *Store) PutProject(ctx context.Context, p *planner.Project) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, _, err := s.client.From(projectsTable).
		Upsert(p, "id", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("put project %s: %w", p.ID, err)
	}
	return nil
}

func (s *Store) ListProjects(ctx context.Context) ([]*planner.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, _, err := s.client.From(projectsTable).
		Select("*", "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	projects := []*planner.Project{}
	if err := json.Unmarshal(resp, &projects); err != nil {
		return nil, fmt.Errorf("decode projects: %w", err)
	}
	return projects, nil
}
