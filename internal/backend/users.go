package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"taskdash/internal/model"
)

type userEnvelope struct {
	Detail string     `json:"detail"`
	User   model.User `json:"user"`
}

// ListUsers returns every login account. Like the task list, an empty
// table comes back as 404.
func (c *Client) ListUsers(ctx context.Context, token string) ([]model.User, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/Users/getall", token, nil, nil)
	if err != nil {
		if emptyCollection(err) {
			return []model.User{}, nil
		}
		return nil, fmt.Errorf("list users: %w", err)
	}
	return decode[[]model.User](body, "user list")
}

func (c *Client) UpdateUser(ctx context.Context, token, id string, update model.UserUpdate) (model.User, error) {
	body, err := c.doRequest(ctx, http.MethodPut, "/Users/update", token, url.Values{"id": {id}}, update)
	if err != nil {
		return model.User{}, fmt.Errorf("update user %s: %w", id, err)
	}
	env, err := decode[userEnvelope](body, "update user")
	if err != nil {
		return model.User{}, err
	}
	return env.User, nil
}

func (c *Client) DeleteUser(ctx context.Context, token, id string) error {
	if _, err := c.doRequest(ctx, http.MethodDelete, "/Users/delete", token, url.Values{"id": {id}}, nil); err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	return nil
}
