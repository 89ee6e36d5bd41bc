package store

import (
	"strings"

	"taskdash/internal/model"
)

// Normalize converts a backend record into a cached Task. Statuses
// outside the canonical set are filed under TO_DO so the board never
// holds a task without a column.
func Normalize(rec model.TaskRecord) model.Task {
	status := model.ToCanonical(rec.Status)
	if !status.Valid() {
		status = model.StatusToDo
	}

	task := model.Task{
		ID:          rec.ID.String(),
		Title:       rec.Title,
		Description: rec.Description,
		Priority:    model.Priority(strings.ToLower(rec.Priority)),
		Status:      status,
		CreatedBy:   rec.CreatedBy.String(),
		AssignedTo:  rec.AssignedTo.String(),
		AssignedBy:  rec.AssignedBy.String(),
		Reviewer:    rec.Reviewer.String(),
	}
	if d, ok := model.ParseDate(rec.ExpectedClosure); ok {
		task.ExpectedClosure = &d
	}
	if rec.ActualClosure != nil {
		if d, ok := model.ParseDate(*rec.ActualClosure); ok {
			task.ActualClosure = &d
		}
	}
	if d, ok := model.ParseDate(rec.UpdatedAt); ok {
		task.UpdatedAt = d
	}
	return task
}
