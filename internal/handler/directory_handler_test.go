package handler_test

import (
	"net/http"
	"testing"

	"taskdash/internal/backend"
	"taskdash/internal/handler"
	"taskdash/internal/model"
	"taskdash/internal/policy"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupDirectory(t *testing.T, userID string, roles ...string) (*gin.Engine, *fixture) {
	f := newFixture(t, userID, roles...)
	h := handler.NewDirectoryHandler(f.backend)

	r := f.router()
	r.GET("/employees", h.Employees)
	r.POST("/employees", h.CreateEmployee)
	r.GET("/employees/:id", h.Employee)
	r.PUT("/employees/:id", h.UpdateEmployee)
	r.DELETE("/employees/:id", h.DeleteEmployee)
	return r, f
}

var validEmployee = handler.EmployeeRequest{
	Name:        " Dana ",
	Email:       "dana@ust.com",
	Designation: "Developer",
	ManagerID:   "3",
}

func TestEmployees_AdminSeesEveryone(t *testing.T) {
	router, f := setupDirectory(t, "1", "Admin")
	f.backend.On("ListEmployees", mock.Anything, "backend-token", backend.EmployeeFilter{}).
		Return(nil, nil)

	resp := doJSON(router, "GET", "/employees", nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `[]`, resp.Body.String())
}

func TestEmployees_DeveloperDenied(t *testing.T) {
	router, f := setupDirectory(t, "12", "Developer")

	resp := doJSON(router, "GET", "/employees", nil)

	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Contains(t, resp.Body.String(), policy.ReasonEmployeeList)
	f.backend.AssertNotCalled(t, "ListEmployees", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetEmployee(t *testing.T) {
	router, f := setupDirectory(t, "3", "Manager")
	f.backend.On("GetEmployee", mock.Anything, "backend-token", "12").
		Return(model.Employee{ID: "12", Name: "Dana", Email: "dana@ust.com"}, nil)

	resp := doJSON(router, "GET", "/employees/12", nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"e_id":12`)
}

func TestCreateEmployee_Admin(t *testing.T) {
	// Arrange
	router, f := setupDirectory(t, "1", "Admin")
	want := model.EmployeeInput{Name: "Dana", Email: "dana@ust.com", Designation: "Developer", ManagerID: "3"}
	f.backend.On("CreateEmployee", mock.Anything, "backend-token", want).
		Return(model.Employee{ID: "14", Name: "Dana"}, nil)

	// Act
	resp := doJSON(router, "POST", "/employees", validEmployee)

	// Assert
	assert.Equal(t, http.StatusCreated, resp.Code)
	notices := f.viewer.Notices().List()
	if assert.Len(t, notices, 1) {
		assert.Equal(t, "Employee created successfully.", notices[0].Message)
	}
	f.backend.AssertExpectations(t)
}

func TestCreateEmployee_RequiresCompanyEmail(t *testing.T) {
	router, f := setupDirectory(t, "1", "Admin")
	req := validEmployee
	req.Email = "dana@gmail.com"
	req.ManagerID = "boss"

	resp := doJSON(router, "POST", "/employees", req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	var body struct {
		Fields map[string]string `json:"fields"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "Email must end with @ust.com", body.Fields["email"])
	assert.Equal(t, "Must be a number.", body.Fields["mgr_id"])
	f.backend.AssertNotCalled(t, "CreateEmployee", mock.Anything, mock.Anything, mock.Anything)
}

func TestEmployeeWrites_ManagerDenied(t *testing.T) {
	router, f := setupDirectory(t, "3", "Manager")

	created := doJSON(router, "POST", "/employees", validEmployee)
	updated := doJSON(router, "PUT", "/employees/12", validEmployee)
	deleted := doJSON(router, "DELETE", "/employees/12", nil)

	for _, resp := range []int{created.Code, updated.Code, deleted.Code} {
		assert.Equal(t, http.StatusForbidden, resp)
	}
	assert.Len(t, f.viewer.Notices().List(), 3)
}

func TestUpdateEmployee_Admin(t *testing.T) {
	router, f := setupDirectory(t, "1", "Admin")
	f.backend.On("UpdateEmployee", mock.Anything, "backend-token", "12", mock.AnythingOfType("model.EmployeeInput")).
		Return(model.Employee{ID: "12", Name: "Dana"}, nil)

	resp := doJSON(router, "PUT", "/employees/12", validEmployee)

	assert.Equal(t, http.StatusOK, resp.Code)
	f.backend.AssertExpectations(t)
}

func TestDeleteEmployee_BackendRejects(t *testing.T) {
	router, f := setupDirectory(t, "1", "Admin")
	f.backend.On("DeleteEmployee", mock.Anything, "backend-token", "99").
		Return(&backend.APIError{StatusCode: http.StatusNotFound, Detail: "Employee not found"})

	resp := doJSON(router, "DELETE", "/employees/99", nil)

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "Employee not found")
}
