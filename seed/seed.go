// Package seed loads the default projects and the demo workspace.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"

	"clementus360/focusflow/planner"

	"cloud.google.com/go/civil"
	"gopkg.in/yaml.v3"
)

//go:embed demo.yaml
var demoYAML []byte

type Fixture struct {
	Projects []ProjectSeed `yaml:"projects"`
	Tasks    []TaskSeed    `yaml:"tasks"`
}

type ProjectSeed struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Color   string `yaml:"color"`
	BgColor string `yaml:"bg_color"`
	Icon    string `yaml:"icon"`
}

type SubtaskSeed struct {
	Title     string `yaml:"title"`
	Completed bool   `yaml:"completed"`
}

type TaskSeed struct {
	ID               string        `yaml:"id"`
	Title            string        `yaml:"title"`
	Description      string        `yaml:"description,omitempty"`
	ProjectID        string        `yaml:"project_id"`
	Day              *int          `yaml:"day,omitempty"`
	TimeBlock        string        `yaml:"time_block,omitempty"`
	EstimatedMinutes int           `yaml:"estimated_minutes,omitempty"`
	Status           string        `yaml:"status,omitempty"`
	Priority         string        `yaml:"priority,omitempty"`
	EnergyLevel      string        `yaml:"energy_level,omitempty"`
	Icon             string        `yaml:"icon,omitempty"`
	Subtasks         []SubtaskSeed `yaml:"subtasks,omitempty"`
	DependsOn        []string      `yaml:"depends_on,omitempty"`
}

// DemoYAML returns the embedded demo fixture.
func DemoYAML() []byte {
	return bytes.Clone(demoYAML)
}

// Demo parses the embedded demo fixture.
func Demo() (*Fixture, error) {
	return Parse(demoYAML)
}

func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &f, nil
}

// NewTask converts a seed into a creation request dated relative to today.
func (s TaskSeed) NewTask(today civil.Date) planner.NewTask {
	in := planner.NewTask{
		ID:          s.ID,
		Title:       s.Title,
		ProjectID:   s.ProjectID,
		TimeBlock:   planner.TimeBlock(s.TimeBlock),
		Status:      planner.Status(s.Status),
		Priority:    planner.Priority(s.Priority),
		EnergyLevel: planner.EnergyLevel(s.EnergyLevel),
		Icon:        s.Icon,
		DependsOn:   s.DependsOn,
	}
	if s.Description != "" {
		desc := s.Description
		in.Description = &desc
	}
	if s.Day != nil {
		d := today.AddDays(*s.Day)
		in.Date = &d
	}
	if s.EstimatedMinutes > 0 {
		est := s.EstimatedMinutes
		in.EstimatedMinutes = &est
	}
	for _, st := range s.Subtasks {
		in.Subtasks = append(in.Subtasks, planner.NewSubtask{Title: st.Title, Completed: st.Completed})
	}
	return in
}

// EnsureProjects creates the fixture's projects when the store has none.
// It returns the number created.
func EnsureProjects(ctx context.Context, p *planner.Planner, f *Fixture, userID string) (int, error) {
	existing, err := p.ListProjects(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for i, ps := range f.Projects {
		_, err := p.CreateProject(ctx, planner.NewProject{
			ID:      ps.ID,
			Name:    ps.Name,
			Color:   ps.Color,
			BgColor: ps.BgColor,
			Icon:    ps.Icon,
		}, userID)
		if err != nil {
			return i, fmt.Errorf("seed project %s: %w", ps.ID, err)
		}
	}
	return len(f.Projects), nil
}

// LoadTasks creates the fixture's tasks in order through the planner so edges
// go through the graph maintainer. Tasks that already exist are skipped.
func LoadTasks(ctx context.Context, p *planner.Planner, f *Fixture, today civil.Date) (int, error) {
	created := 0
	for _, ts := range f.Tasks {
		if ts.ID != "" {
			if _, err := p.GetTask(ctx, ts.ID); err == nil {
				continue
			} else if !errors.Is(err, planner.ErrNotFound) {
				return created, err
			}
		}
		if _, err := p.CreateTask(ctx, ts.NewTask(today)); err != nil {
			return created, fmt.Errorf("seed task %s: %w", ts.ID, err)
		}
		created++
	}
	return created, nil
}
