package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"taskdash/internal/backend"
	"taskdash/internal/model"
	"taskdash/internal/policy"
	"taskdash/internal/report"

	"github.com/gin-gonic/gin"
)

const (
	opEmployees      = "Load employees"
	opCreateEmployee = "Create employee"
	opUpdateEmployee = "Update employee"
	opDeleteEmployee = "Delete employee"
)

// DirectoryService - справочник сотрудников
type DirectoryService interface {
	ListEmployees(ctx context.Context, token string, filter backend.EmployeeFilter) ([]model.Employee, error)
	GetEmployee(ctx context.Context, token, id string) (model.Employee, error)
	CreateEmployee(ctx context.Context, token string, input model.EmployeeInput) (model.Employee, error)
	UpdateEmployee(ctx context.Context, token, id string, input model.EmployeeInput) (model.Employee, error)
	DeleteEmployee(ctx context.Context, token, id string) error
}

type DirectoryHandler struct {
	directory DirectoryService
	now       func() time.Time
}

func NewDirectoryHandler(directory DirectoryService) *DirectoryHandler {
	RegisterValidators()
	return &DirectoryHandler{directory: directory, now: time.Now}
}

// EmployeeRequest представляет карточку сотрудника; все поля обязательны
type EmployeeRequest struct {
	Name        string       `json:"name" binding:"required,max=100"`
	Email       string       `json:"email" binding:"required,email,ustmail"`
	Designation string       `json:"designation" binding:"required,max=50"`
	ManagerID   model.FlexID `json:"mgr_id" binding:"required,numeric"`
}

func (r EmployeeRequest) input() model.EmployeeInput {
	return model.EmployeeInput{
		Name:        strings.TrimSpace(r.Name),
		Email:       strings.TrimSpace(r.Email),
		Designation: strings.TrimSpace(r.Designation),
		ManagerID:   r.ManagerID,
	}
}

// Employees возвращает сотрудников; менеджер видит только своих подчиненных
func (h *DirectoryHandler) Employees(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	if d := policy.CanListEmployees(viewer.Role()); !d.Allowed {
		deny(c, viewer, opEmployees, d)
		return
	}

	filter := backend.EmployeeFilter{Designation: c.Query("designation")}
	if viewer.Role() == model.RoleManager {
		filter.ManagerID = viewer.UserID()
	}

	list, err := h.directory.ListEmployees(c.Request.Context(), viewer.Token(), filter)
	if err != nil {
		failed(c, viewer, opEmployees, err)
		return
	}
	if list == nil {
		list = []model.Employee{}
	}
	c.JSON(http.StatusOK, list)
}

// Employee возвращает одного сотрудника
func (h *DirectoryHandler) Employee(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	if d := policy.CanListEmployees(viewer.Role()); !d.Allowed {
		deny(c, viewer, opEmployees, d)
		return
	}

	emp, err := h.directory.GetEmployee(c.Request.Context(), viewer.Token(), c.Param("id"))
	if err != nil {
		failed(c, viewer, opEmployees, err)
		return
	}
	c.JSON(http.StatusOK, emp)
}

// CreateEmployee добавляет сотрудника, только для администратора
func (h *DirectoryHandler) CreateEmployee(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	if d := policy.CanEditEmployees(viewer.Role()); !d.Allowed {
		deny(c, viewer, opCreateEmployee, d)
		return
	}

	var req EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	emp, err := h.directory.CreateEmployee(c.Request.Context(), viewer.Token(), req.input())
	if err != nil {
		failed(c, viewer, opCreateEmployee, err)
		return
	}

	viewer.Notices().Success(opCreateEmployee, "Employee created successfully.")
	c.JSON(http.StatusCreated, emp)
}

func (h *DirectoryHandler) UpdateEmployee(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	if d := policy.CanEditEmployees(viewer.Role()); !d.Allowed {
		deny(c, viewer, opUpdateEmployee, d)
		return
	}

	var req EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	emp, err := h.directory.UpdateEmployee(c.Request.Context(), viewer.Token(), c.Param("id"), req.input())
	if err != nil {
		failed(c, viewer, opUpdateEmployee, err)
		return
	}

	viewer.Notices().Success(opUpdateEmployee, "Employee updated successfully.")
	c.JSON(http.StatusOK, emp)
}

func (h *DirectoryHandler) DeleteEmployee(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	if d := policy.CanEditEmployees(viewer.Role()); !d.Allowed {
		deny(c, viewer, opDeleteEmployee, d)
		return
	}

	if err := h.directory.DeleteEmployee(c.Request.Context(), viewer.Token(), c.Param("id")); err != nil {
		failed(c, viewer, opDeleteEmployee, err)
		return
	}

	viewer.Notices().Success(opDeleteEmployee, "Employee deleted.")
	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted"})
}

// TaskReport считает сводку по задачам из кэша зрителя
func (h *DirectoryHandler) TaskReport(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}

	if viewer.Tasks().LoadedAt().IsZero() && !load(c, viewer) {
		return
	}
	c.JSON(http.StatusOK, report.Summarize(viewer.Tasks().Tasks(), h.now()))
}
