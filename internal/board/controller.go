// Package board orchestrates drag-and-drop status changes on the
// Kanban board.
package board

import (
	"context"
	"fmt"
	"log/slog"

	"taskdash/internal/backend"
	"taskdash/internal/model"
	"taskdash/internal/notify"
	"taskdash/internal/policy"
	"taskdash/internal/store"
)

const opMove = "Move task"

// Patcher sends a status change to the backend.
type Patcher interface {
	PatchStatus(ctx context.Context, token string, role model.Role, taskID string, status model.Status) error
}

// Actor is the viewer performing a drag.
type Actor struct {
	UserID  string
	Token   string
	Role    model.Role
	Tasks   *store.TaskStore
	Notices *notify.Center
}

type Result string

const (
	ResultNoop   Result = "noop"
	ResultDenied Result = "denied"
	ResultMoved  Result = "moved"
	ResultFailed Result = "failed"
)

// Outcome reports what a drag-end did. Task is the cached task after the
// operation, nil when the task was unknown.
type Outcome struct {
	Result     Result          `json:"result"`
	Decision   policy.Decision `json:"decision"`
	Task       *model.Task     `json:"task,omitempty"`
	Notices    []notify.Notice `json:"notices,omitempty"`
	RolledBack bool            `json:"rolled_back,omitempty"`
	Err        error           `json:"-"`
}

type Controller struct {
	patcher Patcher
	logger  *slog.Logger
}

func NewController(patcher Patcher, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{patcher: patcher, logger: logger}
}

// OnDragEnd handles a task dropped from one status column onto another.
//
// Denied moves never reach the backend. Allowed moves are written to the
// cache first; if the backend then rejects the patch, the optimistic
// write is rolled back unless something newer has replaced it.
func (c *Controller) OnDragEnd(ctx context.Context, actor Actor, taskID string, from, to model.Status) Outcome {
	if from == to {
		return Outcome{Result: ResultNoop}
	}

	task, ok := actor.Tasks.Get(taskID)
	if !ok {
		return Outcome{Result: ResultNoop}
	}

	out := Outcome{}
	decision := policy.CanTransition(actor.Role, actor.UserID, task, from, to)
	out.Decision = decision

	if !decision.Allowed {
		out.Result = ResultDenied
		out.Task = &task
		out.Notices = append(out.Notices, actor.Notices.Error(opMove, decision.Reason))
		return out
	}
	if decision.Advisory != "" {
		out.Notices = append(out.Notices, actor.Notices.Info(opMove, decision.Advisory))
	}

	change, err := actor.Tasks.ApplyStatusChange(taskID, to)
	if err != nil {
		// Removed by a concurrent reload between Get and here.
		return Outcome{Result: ResultNoop, Decision: decision, Notices: out.Notices}
	}

	if err := c.patcher.PatchStatus(ctx, actor.Token, actor.Role, taskID, to); err != nil {
		c.logger.Error("task status patch failed",
			"task_id", taskID,
			"from", from,
			"to", to,
			"role", actor.Role,
			"error", err,
		)
		out.Result = ResultFailed
		out.Err = err
		out.RolledBack = actor.Tasks.Revert(change)
		msg := fmt.Sprintf("Could not move %q to %s: %s", task.Title, to.Label(), backend.Message(err))
		out.Notices = append(out.Notices, actor.Notices.Error(opMove, msg))
		if current, ok := actor.Tasks.Get(taskID); ok {
			out.Task = &current
		}
		return out
	}

	out.Result = ResultMoved
	if current, ok := actor.Tasks.Get(taskID); ok {
		out.Task = &current
	}
	msg := fmt.Sprintf("Task %q moved to %s.", task.Title, to.Label())
	out.Notices = append(out.Notices, actor.Notices.Success(opMove, msg))
	return out
}
