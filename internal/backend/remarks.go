package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"taskdash/internal/model"
)

func (c *Client) ListRemarks(ctx context.Context, token, taskID string) ([]model.Remark, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/remarks/task/"+url.PathEscape(taskID), token, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("list remarks of task %s: %w", taskID, err)
	}
	return decode[[]model.Remark](body, "remark list")
}

// CreateRemark adds a comment to a task. Task id and comment travel in
// the query and the file in the form. The author goes in the e-id
// header, the hyphenated spelling of the backend's e_id parameter.
func (c *Client) CreateRemark(ctx context.Context, token, authorID, taskID, comment string, file *Upload) (model.Remark, error) {
	contentType, form, err := multipartForm(file)
	if err != nil {
		return model.Remark{}, err
	}
	q := url.Values{"task_id": {taskID}, "comment": {comment}}
	header := http.Header{}
	header.Set("E-Id", authorID)

	body, err := c.do(ctx, http.MethodPost, "/api/remarks/create", token, q, contentType, form, header)
	if err != nil {
		return model.Remark{}, fmt.Errorf("create remark on task %s: %w", taskID, err)
	}
	return decode[model.Remark](body, "create remark")
}

// UpdateRemark replaces the comment and/or the file. Only the author or
// an admin may do so; the backend checks the x-user-id and x-role headers.
func (c *Client) UpdateRemark(ctx context.Context, token string, role model.Role, actorID, remarkID, comment string, file *Upload) (model.Remark, error) {
	contentType, form, err := multipartForm(file, "comment", comment)
	if err != nil {
		return model.Remark{}, err
	}
	header := http.Header{}
	header.Set("X-User-Id", actorID)
	header.Set("X-Role", strings.ToUpper(role.Backend()))

	body, err := c.do(ctx, http.MethodPut, "/api/remarks/"+url.PathEscape(remarkID), token, nil, contentType, form, header)
	if err != nil {
		return model.Remark{}, fmt.Errorf("update remark %s: %w", remarkID, err)
	}
	return decode[model.Remark](body, "update remark")
}

func (c *Client) DeleteRemark(ctx context.Context, token, remarkID string) error {
	if _, err := c.doRequest(ctx, http.MethodDelete, "/api/remarks/"+url.PathEscape(remarkID), token, nil, nil); err != nil {
		return fmt.Errorf("delete remark %s: %w", remarkID, err)
	}
	return nil
}

// ListNotifications reads the viewer's unread remark notifications.
func (c *Client) ListNotifications(ctx context.Context, token string) ([]model.Notification, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/Remark/notifications", token, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return decode[[]model.Notification](body, "notification list")
}

// MarkNotificationRead acknowledges one notification, keyed by the
// remark it was raised for.
func (c *Client) MarkNotificationRead(ctx context.Context, token, remarkID string) error {
	contentType, form, err := multipartForm(nil, "remark_id", remarkID)
	if err != nil {
		return err
	}
	if _, err := c.do(ctx, http.MethodPost, "/Remark/notifications/markread", token, nil, contentType, form, nil); err != nil {
		return fmt.Errorf("mark notification %s read: %w", remarkID, err)
	}
	return nil
}
