package planner

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/sirupsen/logrus"
)

type CarryOverResult struct {
	CarriedOver int      `json:"carried_over"`
	TaskIDs     []string `json:"task_ids"`
}

// CarryOver moves every unfinished task dated from onto to. In-progress tasks
// are carried too and end up carried-over, which records where they came from.
// Tasks already on to are not checked.
func (p *Planner) CarryOver(ctx context.Context, from, to civil.Date) (*CarryOverResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tasks, err := p.list(ctx, TaskFilter{DateFrom: &from, DateTo: &from})
	if err != nil {
		return nil, err
	}
	now := p.now()
	var moved []*Task
	res := &CarryOverResult{TaskIDs: []string{}}
	for _, t := range tasks {
		if t.Status.IsDone() {
			continue
		}
		origin := from
		target := to
		t.CarriedOverFrom = &origin
		t.Date = &target
		t.Status = StatusCarriedOver
		t.UpdatedAt = now
		moved = append(moved, t)
		res.TaskIDs = append(res.TaskIDs, t.ID)
	}
	if err := p.commit(ctx, moved...); err != nil {
		return nil, err
	}
	res.CarriedOver = len(moved)
	p.log.WithFields(logrus.Fields{"from": from.String(), "to": to.String(), "count": res.CarriedOver}).Info("tasks carried over")
	return res, nil
}
