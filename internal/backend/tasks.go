package backend

import (
	"context"
	"fmt"
	"net/http"

	"taskdash/internal/model"
)

// taskEnvelope is the create and update answer: a message plus the
// stored task.
type taskEnvelope struct {
	Detail string           `json:"detail"`
	Task   model.TaskRecord `json:"task"`
}

// ListTasks returns every task visible to role. The backend answers 404
// when there are none; that is an empty board, not a failure.
func (c *Client) ListTasks(ctx context.Context, token string, role model.Role) ([]model.TaskRecord, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/Task/getall", token, roleQuery(role), nil)
	if err != nil {
		if emptyCollection(err) {
			return []model.TaskRecord{}, nil
		}
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return decode[[]model.TaskRecord](body, "task list")
}

// PatchStatus moves a task to status. The backend takes no body.
func (c *Client) PatchStatus(ctx context.Context, token string, role model.Role, taskID string, status model.Status) error {
	q := roleQuery(role, "id", taskID, "status", model.ToBackend(status))
	if _, err := c.doRequest(ctx, http.MethodPatch, "/Task/patch", token, q, nil); err != nil {
		return fmt.Errorf("patch task %s status: %w", taskID, err)
	}
	return nil
}

func (c *Client) CreateTask(ctx context.Context, token string, role model.Role, input model.TaskInput) (model.TaskRecord, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/Task/create", token, roleQuery(role), input)
	if err != nil {
		return model.TaskRecord{}, fmt.Errorf("create task: %w", err)
	}
	env, err := decode[taskEnvelope](body, "create task")
	if err != nil {
		return model.TaskRecord{}, err
	}
	return env.Task, nil
}

// UpdateTask sends the changed fields. A success body that cannot be
// parsed yields the zero record and the caller reloads.
func (c *Client) UpdateTask(ctx context.Context, token string, role model.Role, taskID string, input model.TaskInput) (model.TaskRecord, error) {
	body, err := c.doRequest(ctx, http.MethodPut, "/Task/update", token, roleQuery(role, "id", taskID), input)
	if err != nil {
		return model.TaskRecord{}, fmt.Errorf("update task %s: %w", taskID, err)
	}
	env, err := decode[taskEnvelope](body, "update task")
	if err != nil {
		c.logger.Warn("unparsed update response", "task_id", taskID, "error", err)
		return model.TaskRecord{}, nil
	}
	return env.Task, nil
}

func (c *Client) DeleteTask(ctx context.Context, token string, role model.Role, taskID string) error {
	if _, err := c.doRequest(ctx, http.MethodDelete, "/Task/delete", token, roleQuery(role, "id", taskID), nil); err != nil {
		return fmt.Errorf("delete task %s: %w", taskID, err)
	}
	return nil
}
