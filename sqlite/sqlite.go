// Package sqlite is a planner.Store backed by a local SQLite file.
//
// Each record is stored as its JSON document; the columns used for filtering
// and ordering are duplicated next to it.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"clementus360/focusflow/planner"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaFS embed.FS

type Store struct {
	DB *sql.DB
}

// Open opens (creating if needed) the database at path and applies the schema.
// ":memory:" gives a private in-memory database.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("db path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases shared across calls and
	// serializes writers.
	db.SetMaxOpenConns(1)

	if err := applySchema(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{DB: db}, nil
}

func applySchema(ctx context.Context, db *sql.DB) error {
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}

	if _, err := db.ExecContext(ctx, string(schemaSQL)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	return nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

func (s *Store) GetTask(ctx context.Context, id string) (*planner.Task, error) {
	var body []byte
	err := s.DB.QueryRowContext(ctx, "SELECT body FROM tasks WHERE id = ?", id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, planner.TaskNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	return decodeTask(body)
}

func (s *Store) PutTask(ctx context.Context, t *planner.Task) error {
	body, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode task %s: %w", t.ID, err)
	}
	var date sql.NullString
	if t.Date != nil {
		date = sql.NullString{String: t.Date.String(), Valid: true}
	}
	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO tasks (id, project_id, date, status, created_ns, body)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project_id = excluded.project_id,
			date = excluded.date,
			status = excluded.status,
			created_ns = excluded.created_ns,
			body = excluded.body`,
		t.ID, t.ProjectID, date, string(t.Status), t.CreatedAt.UnixNano(), string(body))
	if err != nil {
		return fmt.Errorf("put task %s: %w", t.ID, err)
	}
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	res, err := s.DB.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	if n == 0 {
		return planner.TaskNotFound(id)
	}
	return nil
}

func (s *Store) ListTasks(ctx context.Context, filter planner.TaskFilter) ([]*planner.Task, error) {
	var (
		where []string
		args  []any
	)
	if filter.DateFrom != nil {
		where = append(where, "date >= ?")
		args = append(args, filter.DateFrom.String())
	}
	if filter.DateTo != nil {
		where = append(where, "date <= ?")
		args = append(args, filter.DateTo.String())
	}
	if filter.ExcludeInbox {
		where = append(where, "date IS NOT NULL")
	}
	if filter.InboxOnly {
		where = append(where, "date IS NULL")
	}
	if filter.ProjectID != "" {
		where = append(where, "project_id = ?")
		args = append(args, filter.ProjectID)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}

	query := "SELECT body FROM tasks"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_ns, id"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*planner.Task{}
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t, err := decodeTask(body)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) GetProject(ctx context.Context, id string) (*planner.Project, error) {
	var body []byte
	err := s.DB.QueryRowContext(ctx, "SELECT body FROM projects WHERE id = ?", id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, planner.ProjectNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	var p planner.Project
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode project %s: %w", id, err)
	}
	return &p, nil
}

func (s *Store) PutProject(ctx context.Context, p *planner.Project) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode project %s: %w", p.ID, err)
	}
	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO projects (id, created_ns, body) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET created_ns = excluded.created_ns, body = excluded.body`,
		p.ID, p.CreatedAt.UnixNano(), string(body))
	if err != nil {
		return fmt.Errorf("put project %s: %w", p.ID, err)
	}
	return nil
}

func (s *Store) ListProjects(ctx context.Context) ([]*planner.Project, error) {
	rows, err := s.DB.QueryContext(ctx, "SELECT body FROM projects ORDER BY created_ns, id")
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := []*planner.Project{}
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		var p planner.Project
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, fmt.Errorf("decode project: %w", err)
		}
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

func decodeTask(body []byte) (*planner.Task, error) {
	var t planner.Task
	if err := json.Unmarshal(body, &t); err != nil {
		return nil, fmt.Errorf("decode task: %w", err)
	}
	return &t, nil
}
