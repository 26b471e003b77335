package planner

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// ActionUpdateTask is the only restorable action kind: a field-level update.
const ActionUpdateTask = "update_task"

// Action is one undoable mutation. Previous holds the values the update
// replaced and Next the values it wrote.
type Action struct {
	Type     string    `json:"type"`
	TaskID   string    `json:"task_id"`
	Previous TaskPatch `json:"previous_state"`
	Next     TaskPatch `json:"new_state"`
}

// History is a bounded two-stack action log.
type History struct {
	mu        sync.Mutex
	undo      []Action
	redo      []Action
	maxDepth  int
	clearRedo bool
}

func NewHistory(maxDepth int, clearRedoOnPush bool) *History {
	if maxDepth <= 0 {
		maxDepth = DefaultHistoryDepth
	}
	return &History{maxDepth: maxDepth, clearRedo: clearRedoOnPush}
}

// Push records a new action, dropping the oldest when full.
func (h *History) Push(a Action) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undo = pushBounded(h.undo, a, h.maxDepth)
	if h.clearRedo {
		h.redo = nil
	}
}

// PopUndo moves the newest action to the redo stack and returns it.
func (h *History) PopUndo() (Action, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.undo) == 0 {
		return Action{}, fmt.Errorf("%w: nothing to undo", ErrInvalidState)
	}
	a := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = pushBounded(h.redo, a, h.maxDepth)
	return a, nil
}

// PopRedo moves the newest undone action back to the undo stack and returns it.
func (h *History) PopRedo() (Action, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.redo) == 0 {
		return Action{}, fmt.Errorf("%w: nothing to redo", ErrInvalidState)
	}
	a := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = pushBounded(h.undo, a, h.maxDepth)
	return a, nil
}

// Len returns the sizes of the undo and redo stacks.
func (h *History) Len() (undo, redo int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo), len(h.redo)
}

func pushBounded(stack []Action, a Action, limit int) []Action {
	stack = append(stack, a)
	if len(stack) > limit {
		stack = append(stack[:0:0], stack[len(stack)-limit:]...)
	}
	return stack
}

// ReplayResult reports what an undo or redo did.
type ReplayResult struct {
	Type    string `json:"type"`
	TaskID  string `json:"task_id"`
	Applied bool   `json:"applied"`
}

// Undo restores the fields changed by the most recent action. If the task has
// since been deleted the restore is skipped but the action still moves to the
// redo stack.
func (p *Planner) Undo(ctx context.Context) (*ReplayResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	a, err := p.history.PopUndo()
	if err != nil {
		return nil, err
	}
	return p.replay(ctx, a, a.Previous)
}

// Redo reapplies the most recently undone action.
func (p *Planner) Redo(ctx context.Context) (*ReplayResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	a, err := p.history.PopRedo()
	if err != nil {
		return nil, err
	}
	return p.replay(ctx, a, a.Next)
}

func (p *Planner) replay(ctx context.Context, a Action, patch TaskPatch) (*ReplayResult, error) {
	res := &ReplayResult{Type: a.Type, TaskID: a.TaskID}
	_, err := p.applyUpdate(ctx, a.TaskID, patch, false)
	switch {
	case errors.Is(err, ErrNotFound):
		p.log.WithField("task_id", a.TaskID).Debug("history replay skipped, task no longer exists")
		return res, nil
	case err != nil:
		p.log.WithFields(logrus.Fields{"task_id": a.TaskID, "type": a.Type}).WithError(err).Warn("history replay failed")
		return nil, err
	}
	res.Applied = true
	return res, nil
}
