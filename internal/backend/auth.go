package backend

import (
	"context"
	"fmt"
	"net/http"

	"taskdash/internal/model"
)

// Credentials for the backend login endpoint. Accounts are keyed by
// employee id.
type Credentials struct {
	EID      model.FlexID `json:"e_id"`
	Password string       `json:"password"`
}

// LoginUser is the account returned by a successful login.
type LoginUser struct {
	EID    model.FlexID `json:"e_id"`
	Roles  []string     `json:"roles"`
	Status string       `json:"status"`
}

// LoginResult carries the backend bearer token.
type LoginResult struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	User        LoginUser `json:"user"`
}

// GrantedRoles maps the backend role names in their original order,
// dropping unknown ones.
func (u LoginUser) GrantedRoles() []model.Role {
	seen := map[model.Role]bool{}
	var roles []model.Role
	for _, raw := range u.Roles {
		if r, ok := model.ParseRole(raw); ok && !seen[r] {
			seen[r] = true
			roles = append(roles, r)
		}
	}
	return roles
}

func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/auth/login", "", nil, creds)
	if err != nil {
		return LoginResult{}, fmt.Errorf("login: %w", err)
	}
	res, err := decode[LoginResult](body, "login")
	if err != nil {
		return LoginResult{}, err
	}
	if res.AccessToken == "" {
		return LoginResult{}, fmt.Errorf("backend: login response carries no access token")
	}
	return res, nil
}
