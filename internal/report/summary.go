// Package report summarizes a viewer's cached tasks.
package report

import (
	"time"

	"taskdash/internal/model"
)

// Summary counts tasks by column and priority and tracks deadlines.
// Overdue tasks are open tasks whose expected closure day is before today.
type Summary struct {
	Total           int                    `json:"total"`
	ByStatus        map[model.Status]int   `json:"by_status"`
	ByPriority      map[model.Priority]int `json:"by_priority"`
	Overdue         []string               `json:"overdue"`
	CompletedOnTime int                    `json:"completed_on_time"`
	CompletedLate   int                    `json:"completed_late"`
	GeneratedAt     time.Time              `json:"generated_at"`
}

func Summarize(tasks []model.Task, now time.Time) Summary {
	s := Summary{
		Total:       len(tasks),
		ByStatus:    make(map[model.Status]int, 4),
		ByPriority:  make(map[model.Priority]int, 3),
		Overdue:     []string{},
		GeneratedAt: now,
	}
	for _, st := range model.Statuses() {
		s.ByStatus[st] = 0
	}

	today := day(now)
	for _, t := range tasks {
		s.ByStatus[t.Status]++
		if t.Priority.Valid() {
			s.ByPriority[t.Priority]++
		}
		if t.ExpectedClosure == nil {
			continue
		}

		due := day(*t.ExpectedClosure)
		if t.Status != model.StatusDone {
			if due.Before(today) {
				s.Overdue = append(s.Overdue, t.ID)
			}
			continue
		}
		if t.ActualClosure == nil {
			continue
		}
		if day(*t.ActualClosure).After(due) {
			s.CompletedLate++
		} else {
			s.CompletedOnTime++
		}
	}
	return s
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
