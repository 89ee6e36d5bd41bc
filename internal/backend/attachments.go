package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"taskdash/internal/model"
)

func (c *Client) ListAttachments(ctx context.Context, token string, role model.Role, taskID string) ([]model.Attachment, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/Task/attachments", token, roleQuery(role, "id", taskID), nil)
	if err != nil {
		return nil, fmt.Errorf("list attachments of task %s: %w", taskID, err)
	}
	return decode[[]model.Attachment](body, "attachment list")
}

// UploadAttachment posts a multipart form with the file and an optional
// remark. The backend's attach endpoint takes only the task id.
func (c *Client) UploadAttachment(ctx context.Context, token, taskID, filename string, content io.Reader, remark string) (model.Attachment, error) {
	contentType, form, err := multipartForm(&Upload{Filename: filename, Content: content}, "remark", remark)
	if err != nil {
		return model.Attachment{}, err
	}

	q := url.Values{"id": {taskID}}
	body, err := c.do(ctx, http.MethodPost, "/Task/attach", token, q, contentType, form, nil)
	if err != nil {
		return model.Attachment{}, fmt.Errorf("upload attachment to task %s: %w", taskID, err)
	}
	att, err := decode[model.Attachment](body, "upload")
	if err != nil {
		return model.Attachment{}, err
	}
	if att.Filename == "" {
		att.Filename = filename
	}
	if att.TaskID == "" {
		att.TaskID = model.FlexID(taskID)
	}
	return att, nil
}

func (c *Client) DeleteAttachment(ctx context.Context, token string, role model.Role, attachmentID string) error {
	if _, err := c.doRequest(ctx, http.MethodDelete, "/Task/attachment", token, roleQuery(role, "id", attachmentID), nil); err != nil {
		return fmt.Errorf("delete attachment %s: %w", attachmentID, err)
	}
	return nil
}
