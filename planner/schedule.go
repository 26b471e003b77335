package planner

import (
	"context"

	"cloud.google.com/go/civil"
)

// MaxRangeDays bounds a range schedule request.
const MaxRangeDays = 366

type DayStats struct {
	Total     int     `json:"total"`
	Completed int     `json:"completed"`
	Progress  float64 `json:"progress"`
}

// DaySchedule is one date's tasks bucketed by time block.
type DaySchedule struct {
	Date      civil.Date `json:"date"`
	Morning   []*Task    `json:"morning"`
	Afternoon []*Task    `json:"afternoon"`
	Evening   []*Task    `json:"evening"`
	Anytime   []*Task    `json:"anytime"`
	Stats     DayStats   `json:"stats"`
}

// DaySummary is one entry of a range schedule.
type DaySummary struct {
	Tasks     []*Task `json:"tasks"`
	Total     int     `json:"total"`
	Completed int     `json:"completed"`
}

type ProjectStats struct {
	ProjectID      string  `json:"project_id"`
	TotalTasks     int     `json:"total_tasks"`
	CompletedTasks int     `json:"completed_tasks"`
	PendingTasks   int     `json:"pending_tasks"`
	CompletionRate float64 `json:"completion_rate"`
}

func (p *Planner) DaySchedule(ctx context.Context, date civil.Date) (*DaySchedule, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tasks, err := p.list(ctx, TaskFilter{DateFrom: &date, DateTo: &date})
	if err != nil {
		return nil, err
	}
	day := &DaySchedule{
		Date:      date,
		Morning:   []*Task{},
		Afternoon: []*Task{},
		Evening:   []*Task{},
		Anytime:   []*Task{},
	}
	for _, t := range tasks {
		switch t.TimeBlock {
		case TimeBlockMorning:
			day.Morning = append(day.Morning, t)
		case TimeBlockAfternoon:
			day.Afternoon = append(day.Afternoon, t)
		case TimeBlockEvening:
			day.Evening = append(day.Evening, t)
		default:
			day.Anytime = append(day.Anytime, t)
		}
	}
	completed := countCompleted(tasks)
	day.Stats = DayStats{Total: len(tasks), Completed: completed, Progress: ratio(completed, len(tasks))}
	return day, nil
}

// RangeSchedule returns a summary for every date from start to end inclusive,
// empty days included, keyed by YYYY-MM-DD.
func (p *Planner) RangeSchedule(ctx context.Context, start, end civil.Date) (map[string]DaySummary, error) {
	if start.After(end) {
		return nil, invalidInput("start_date %s is after end_date %s", start, end)
	}
	if end.DaysSince(start) >= MaxRangeDays {
		return nil, invalidInput("range %s..%s exceeds %d days", start, end, MaxRangeDays)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	tasks, err := p.list(ctx, TaskFilter{DateFrom: &start, DateTo: &end})
	if err != nil {
		return nil, err
	}
	byDate := make(map[civil.Date][]*Task)
	for _, t := range tasks {
		byDate[*t.Date] = append(byDate[*t.Date], t)
	}

	out := make(map[string]DaySummary, end.DaysSince(start)+1)
	for d := start; !d.After(end); d = d.AddDays(1) {
		dayTasks := byDate[d]
		if dayTasks == nil {
			dayTasks = []*Task{}
		}
		out[d.String()] = DaySummary{Tasks: dayTasks, Total: len(dayTasks), Completed: countCompleted(dayTasks)}
	}
	return out, nil
}

func (p *Planner) ProjectStats(ctx context.Context, projectID string) (*ProjectStats, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := p.store.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	tasks, err := p.list(ctx, TaskFilter{ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	completed := countCompleted(tasks)
	return &ProjectStats{
		ProjectID:      projectID,
		TotalTasks:     len(tasks),
		CompletedTasks: completed,
		PendingTasks:   len(tasks) - completed,
		CompletionRate: ratio(completed, len(tasks)),
	}, nil
}

func countCompleted(tasks []*Task) int {
	n := 0
	for _, t := range tasks {
		if t.Status == StatusCompleted {
			n++
		}
	}
	return n
}

func ratio(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}
