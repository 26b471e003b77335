// Package planner holds the task model, the dependency graph maintainer, the
// scheduler, carry-over and the undo/redo log.
package planner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Options configures a Planner. Zero values take sensible defaults.
type Options struct {
	// ForbidCycles makes link and dependency replacement reject edges that
	// would close a cycle.
	ForbidCycles bool
	// ClearRedoOnNewAction drops the redo stack whenever a new action is
	// recorded.
	ClearRedoOnNewAction bool
	// HistoryDepth bounds the undo stack. Defaults to 100.
	HistoryDepth int

	Now    func() time.Time
	NewID  func() string
	Logger logrus.FieldLogger
}

// Planner is the single writer over a Store. Every public method holds mu from
// its first read to its last write.
type Planner struct {
	mu      sync.Mutex
	store   Store
	graph   *graph
	history *History
	now     func() time.Time
	newID   func() string
	log     logrus.FieldLogger
}

const DefaultHistoryDepth = 100

func New(store Store, opts Options) *Planner {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.HistoryDepth <= 0 {
		opts.HistoryDepth = DefaultHistoryDepth
	}
	if opts.Logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		opts.Logger = l
	}
	return &Planner{
		store:   store,
		graph:   &graph{store: store, forbidCycles: opts.ForbidCycles},
		history: NewHistory(opts.HistoryDepth, opts.ClearRedoOnNewAction),
		now:     opts.Now,
		newID:   opts.NewID,
		log:     opts.Logger,
	}
}

// History exposes the action log, mainly for inspection in tests.
func (p *Planner) History() *History {
	return p.history
}

// Today returns the current local calendar date.
func (p *Planner) Today() civil.Date {
	return civil.DateOf(p.now())
}

func (p *Planner) CreateTask(ctx context.Context, in NewTask) (*Task, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	t, err := p.buildTask(in)
	if err != nil {
		return nil, err
	}
	if _, err := p.store.GetTask(ctx, t.ID); err == nil {
		return nil, invalidInput("task %q already exists", t.ID)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	touched, err := p.graph.onCreate(ctx, t)
	if err != nil {
		return nil, err
	}
	if err := p.commit(ctx, append([]*Task{t}, touched...)...); err != nil {
		return nil, err
	}
	p.log.WithFields(logrus.Fields{"task_id": t.ID, "depends_on": t.dependsOn}).Debug("task created")
	return t.Clone(), nil
}

func (p *Planner) buildTask(in NewTask) (*Task, error) {
	if in.Title == "" {
		return nil, invalidInput("title is required")
	}
	if in.ProjectID == "" {
		return nil, invalidInput("project_id is required")
	}
	now := p.now()
	t := &Task{
		ID:               in.ID,
		Title:            in.Title,
		Description:      clonePtr(in.Description),
		ProjectID:        in.ProjectID,
		Date:             clonePtr(in.Date),
		TimeBlock:        in.TimeBlock,
		EstimatedMinutes: DefaultEstimatedMinutes,
		Priority:         in.Priority,
		EnergyLevel:      in.EnergyLevel,
		Icon:             in.Icon,
		RecurrenceType:   in.RecurrenceType,
		RecurrenceDays:   append([]int(nil), in.RecurrenceDays...),
		Status:           in.Status,
		Notes:            clonePtr(in.Notes),
		CreatedAt:        now,
		UpdatedAt:        now,
		dependsOn:        append([]string(nil), in.DependsOn...),
	}
	if t.ID == "" {
		t.ID = p.newID()
	}
	if in.EstimatedMinutes != nil {
		if *in.EstimatedMinutes < 0 {
			return nil, invalidInput("estimated_minutes must not be negative")
		}
		t.EstimatedMinutes = *in.EstimatedMinutes
	}
	if t.TimeBlock == "" {
		t.TimeBlock = TimeBlockAnytime
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.EnergyLevel == "" {
		t.EnergyLevel = EnergyMedium
	}
	if t.Icon == "" {
		t.Icon = DefaultTaskIcon
	}
	if t.RecurrenceType == "" {
		t.RecurrenceType = RecurrenceNone
	}
	if t.Status == "" {
		t.Status = StatusPending
	}
	if !t.TimeBlock.IsValid() || !t.Priority.IsValid() || !t.EnergyLevel.IsValid() ||
		!t.RecurrenceType.IsValid() || !t.Status.IsValid() {
		return nil, invalidInput("task %q has an unknown enum value", in.Title)
	}
	for _, st := range in.Subtasks {
		if st.Title == "" {
			return nil, invalidInput("subtask title cannot be empty")
		}
		t.Subtasks = append(t.Subtasks, Subtask{ID: p.newID(), Title: st.Title, Completed: st.Completed})
	}
	return t, nil
}

func (p *Planner) GetTask(ctx context.Context, id string) (*Task, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.store.GetTask(ctx, id)
}

// ListTasks returns the tasks matching filter ordered by creation time.
func (p *Planner) ListTasks(ctx context.Context, filter TaskFilter) ([]*Task, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.list(ctx, filter)
}

// Inbox returns the tasks without a date.
func (p *Planner) Inbox(ctx context.Context) ([]*Task, error) {
	return p.ListTasks(ctx, TaskFilter{InboxOnly: true})
}

func (p *Planner) list(ctx context.Context, filter TaskFilter) ([]*Task, error) {
	tasks, err := p.store.ListTasks(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	SortTasks(tasks)
	return tasks, nil
}

// UpdateTask applies the fields set in patch and records the change for undo.
func (p *Planner) UpdateTask(ctx context.Context, id string, patch TaskPatch) (*Task, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.applyUpdate(ctx, id, patch, true)
}

// CompleteTask marks a task completed.
func (p *Planner) CompleteTask(ctx context.Context, id string) (*Task, error) {
	return p.UpdateTask(ctx, id, TaskPatch{Status: Some(StatusCompleted)})
}

// StartTask marks a task in progress.
func (p *Planner) StartTask(ctx context.Context, id string) (*Task, error) {
	return p.UpdateTask(ctx, id, TaskPatch{Status: Some(StatusInProgress)})
}

// MoveTask reassigns a task's date and/or time block. A nil argument leaves
// that attribute unchanged.
func (p *Planner) MoveTask(ctx context.Context, id string, date *civil.Date, block *TimeBlock) (*Task, error) {
	var patch TaskPatch
	if date != nil {
		patch.Date = Some(*date)
	}
	if block != nil {
		patch.TimeBlock = Some(*block)
	}
	return p.UpdateTask(ctx, id, patch)
}

// applyUpdate is the single update path shared by updates, status shortcuts,
// moves and history replays. Callers hold mu.
func (p *Planner) applyUpdate(ctx context.Context, id string, patch TaskPatch, record bool) (*Task, error) {
	if err := patch.validate(); err != nil {
		return nil, err
	}
	t, err := p.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.normalize(p.newID)

	var prev TaskPatch
	if record {
		prev = capture(t, patch)
	}

	applyFields(t, patch)
	var touched []*Task
	if patch.DependsOn.Set {
		touched, err = p.graph.replaceDependencies(ctx, t, patch.DependsOn.Value)
		if err != nil {
			return nil, err
		}
	}
	t.UpdatedAt = p.now()

	if err := p.commit(ctx, append([]*Task{t}, touched...)...); err != nil {
		return nil, err
	}
	if record {
		p.history.Push(Action{Type: ActionUpdateTask, TaskID: id, Previous: prev, Next: patch})
	}
	return t.Clone(), nil
}

// DeleteTask removes a task after stripping it from every other task's edges.
func (p *Planner) DeleteTask(ctx context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := p.store.GetTask(ctx, id); err != nil {
		return err
	}
	touched, err := p.graph.deleteCleanup(ctx, id)
	if err != nil {
		return err
	}
	originals, err := p.snapshot(ctx, touched)
	if err != nil {
		return err
	}
	if err := p.commit(ctx, touched...); err != nil {
		return err
	}
	if err := p.store.DeleteTask(ctx, id); err != nil {
		p.restore(ctx, originals)
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	p.log.WithFields(logrus.Fields{"task_id": id, "edges_cleaned": len(touched)}).Debug("task deleted")
	return nil
}

// Link makes dependentID depend on parentID. Linking twice is a no-op.
func (p *Planner) Link(ctx context.Context, parentID, dependentID string) (*Task, *Task, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	parent, dependent, err := p.graph.link(ctx, parentID, dependentID)
	if err != nil {
		return nil, nil, err
	}
	if err := p.commit(ctx, parent, dependent); err != nil {
		return nil, nil, err
	}
	return parent.Clone(), dependent.Clone(), nil
}

// Unlink removes the edge between two existing tasks. A missing edge is a no-op.
func (p *Planner) Unlink(ctx context.Context, parentID, dependentID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	parent, dependent, err := p.graph.unlink(ctx, parentID, dependentID)
	if err != nil {
		return err
	}
	return p.commit(ctx, parent, dependent)
}

// ToggleSubtask flips a subtask's completed flag.
func (p *Planner) ToggleSubtask(ctx context.Context, taskID, subtaskID string) (*Task, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	t, err := p.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	found := false
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == subtaskID {
			t.Subtasks[i].Completed = !t.Subtasks[i].Completed
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: subtask %q of task %q", ErrNotFound, subtaskID, taskID)
	}
	t.UpdatedAt = p.now()
	if err := p.commit(ctx, t); err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

func (p *Planner) CreateProject(ctx context.Context, in NewProject, userID string) (*Project, error) {
	if in.Name == "" {
		return nil, invalidInput("name is required")
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	proj := &Project{
		ID:          in.ID,
		Name:        in.Name,
		Color:       in.Color,
		BgColor:     in.BgColor,
		Icon:        in.Icon,
		Description: clonePtr(in.Description),
		UserID:      userID,
		CreatedAt:   p.now(),
	}
	if proj.ID == "" {
		proj.ID = p.newID()
	} else if _, err := p.store.GetProject(ctx, proj.ID); err == nil {
		return nil, invalidInput("project %q already exists", proj.ID)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if proj.Color == "" {
		proj.Color = DefaultProjectColor
	}
	if proj.BgColor == "" {
		proj.BgColor = DefaultProjectBgColor
	}
	if proj.Icon == "" {
		proj.Icon = DefaultProjectIcon
	}
	if err := p.store.PutProject(ctx, proj); err != nil {
		return nil, fmt.Errorf("save project %s: %w", proj.ID, err)
	}
	return proj, nil
}

func (p *Planner) GetProject(ctx context.Context, id string) (*Project, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.store.GetProject(ctx, id)
}

func (p *Planner) ListProjects(ctx context.Context) ([]*Project, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	projects, err := p.store.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// commit writes tasks in order. If a write fails, the tasks already written
// are put back to their stored state so no edge is left one-sided.
func (p *Planner) commit(ctx context.Context, tasks ...*Task) error {
	originals, err := p.snapshot(ctx, tasks)
	if err != nil {
		return err
	}
	for i, t := range tasks {
		if err := p.store.PutTask(ctx, t); err != nil {
			p.restore(ctx, originals[:i])
			return fmt.Errorf("save task %s: %w", t.ID, err)
		}
	}
	return nil
}

// stored is a task id with its persisted state; nil means it did not exist.
type stored struct {
	id   string
	task *Task
}

func (p *Planner) snapshot(ctx context.Context, tasks []*Task) ([]stored, error) {
	out := make([]stored, 0, len(tasks))
	for _, t := range tasks {
		prev, err := p.store.GetTask(ctx, t.ID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		out = append(out, stored{id: t.ID, task: prev})
	}
	return out, nil
}

func (p *Planner) restore(ctx context.Context, originals []stored) {
	for i := len(originals) - 1; i >= 0; i-- {
		o := originals[i]
		var err error
		if o.task == nil {
			err = p.store.DeleteTask(ctx, o.id)
		} else {
			err = p.store.PutTask(ctx, o.task)
		}
		if err != nil {
			p.log.WithError(err).WithField("task_id", o.id).Error("rollback failed")
		}
	}
}
