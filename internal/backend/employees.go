package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"taskdash/internal/model"
)

// EmployeeFilter narrows the employee list. Zero fields are not sent.
type EmployeeFilter struct {
	ManagerID   string
	Designation string
}

type employeeEnvelope struct {
	Detail   string         `json:"detail"`
	Employee model.Employee `json:"employee"`
}

// ListEmployees returns the directory. The backend answers an empty
// array when nothing matches.
func (c *Client) ListEmployees(ctx context.Context, token string, filter EmployeeFilter) ([]model.Employee, error) {
	q := url.Values{}
	if filter.ManagerID != "" {
		q.Set("mgr_id", filter.ManagerID)
	}
	if filter.Designation != "" {
		q.Set("designation", filter.Designation)
	}
	body, err := c.doRequest(ctx, http.MethodGet, "/Employee/getall", token, q, nil)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return decode[[]model.Employee](body, "employee list")
}

func (c *Client) GetEmployee(ctx context.Context, token, id string) (model.Employee, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/Employee/get", token, url.Values{"id": {id}}, nil)
	if err != nil {
		return model.Employee{}, fmt.Errorf("get employee %s: %w", id, err)
	}
	return decode[model.Employee](body, "employee")
}

func (c *Client) CreateEmployee(ctx context.Context, token string, input model.EmployeeInput) (model.Employee, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/Employee/create", token, nil, input)
	if err != nil {
		return model.Employee{}, fmt.Errorf("create employee: %w", err)
	}
	env, err := decode[employeeEnvelope](body, "create employee")
	if err != nil {
		return model.Employee{}, err
	}
	return env.Employee, nil
}

func (c *Client) UpdateEmployee(ctx context.Context, token, id string, input model.EmployeeInput) (model.Employee, error) {
	body, err := c.doRequest(ctx, http.MethodPut, "/Employee/update", token, url.Values{"id": {id}}, input)
	if err != nil {
		return model.Employee{}, fmt.Errorf("update employee %s: %w", id, err)
	}
	env, err := decode[employeeEnvelope](body, "update employee")
	if err != nil {
		return model.Employee{}, err
	}
	return env.Employee, nil
}

func (c *Client) DeleteEmployee(ctx context.Context, token, id string) error {
	if _, err := c.doRequest(ctx, http.MethodDelete, "/Employee/delete", token, url.Values{"id": {id}}, nil); err != nil {
		return fmt.Errorf("delete employee %s: %w", id, err)
	}
	return nil
}
