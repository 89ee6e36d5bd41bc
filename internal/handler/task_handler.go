package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"taskdash/internal/backend"
	"taskdash/internal/model"
	"taskdash/internal/policy"
	"taskdash/internal/session"
	"taskdash/internal/store"

	"github.com/gin-gonic/gin"
)

const (
	opCreate = "Create task"
	opUpdate = "Update task"
	opDelete = "Delete task"
)

// TaskService - операции с задачами на сервере задач
type TaskService interface {
	CreateTask(ctx context.Context, token string, role model.Role, input model.TaskInput) (model.TaskRecord, error)
	UpdateTask(ctx context.Context, token string, role model.Role, taskID string, input model.TaskInput) (model.TaskRecord, error)
	DeleteTask(ctx context.Context, token string, role model.Role, taskID string) error
}

type TaskHandler struct {
	tasks TaskService
}

func NewTaskHandler(tasks TaskService) *TaskHandler {
	RegisterValidators()
	return &TaskHandler{tasks: tasks}
}

// TaskRequest представляет запрос на создание задачи
type TaskRequest struct {
	Title           string `json:"title" binding:"required,max=100"`
	Description     string `json:"description" binding:"max=250"`
	Priority        string `json:"priority" binding:"required,oneof=high medium low"`
	ExpectedClosure string `json:"expected_closure" binding:"required,taskdate"`
	AssignedTo      string `json:"assigned_to"`
	Reviewer        string `json:"reviewer"`
}

// TaskUpdateRequest представляет частичное обновление задачи
type TaskUpdateRequest struct {
	Title           string `json:"title" binding:"omitempty,max=100"`
	Description     string `json:"description" binding:"omitempty,max=250"`
	Priority        string `json:"priority" binding:"omitempty,oneof=high medium low"`
	ExpectedClosure string `json:"expected_closure" binding:"omitempty,taskdate"`
	AssignedTo      string `json:"assigned_to"`
	Reviewer        string `json:"reviewer"`
}

// input собирает тело создания: новая задача всегда в to_do, автор и
// назначивший - текущий зритель
func (r TaskRequest) input(viewerID string) model.TaskInput {
	in := model.TaskInput{
		Title:           r.Title,
		Description:     r.Description,
		Priority:        r.Priority,
		Status:          model.ToBackend(model.StatusToDo),
		ExpectedClosure: r.ExpectedClosure,
		CreatedBy:       model.FlexID(viewerID),
		AssignedTo:      model.FlexID(r.AssignedTo),
		Reviewer:        model.FlexID(r.Reviewer),
	}
	if r.AssignedTo != "" {
		in.AssignedBy = model.FlexID(viewerID)
	}
	return in
}

func (r TaskUpdateRequest) input() model.TaskInput {
	return model.TaskInput{
		Title:           r.Title,
		Description:     r.Description,
		Priority:        r.Priority,
		ExpectedClosure: r.ExpectedClosure,
		AssignedTo:      model.FlexID(r.AssignedTo),
		Reviewer:        model.FlexID(r.Reviewer),
	}
}

// deny отвечает 403 и показывает зрителю причину отказа
func deny(c *gin.Context, viewer *session.Viewer, op string, d policy.Decision) {
	viewer.Notices().Error(op, d.Reason)
	c.JSON(http.StatusForbidden, gin.H{"error": d.Reason})
}

// failed показывает ошибку сервера задач зрителю и отвечает ею же
func failed(c *gin.Context, viewer *session.Viewer, op string, err error) {
	viewer.Notices().Error(op, backend.Message(err))
	backendError(c, err)
}

// remember кладет ответ сервера в кэш; если тело ответа не разобрано, кэш перечитывается.
// Изменение уже сохранено, поэтому сбой перечитывания только показывается зрителю.
func remember(c *gin.Context, viewer *session.Viewer, op string, rec model.TaskRecord) *model.Task {
	if rec.ID.String() != "" {
		task := store.Normalize(rec)
		viewer.Tasks().Upsert(task)
		return &task
	}
	_, err := viewer.Tasks().Load(c.Request.Context())
	switch {
	case err == nil, errors.Is(err, store.ErrStaleLoad), errors.Is(err, store.ErrClosed):
	default:
		viewer.Notices().Error(op, "Saved, but the board could not be refreshed: "+backend.Message(err))
	}
	return nil
}

// Create создает новую задачу
func (h *TaskHandler) Create(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}

	// Разработчик получает отказ без обращения к серверу
	if d := policy.CanCreateTask(viewer.Role()); !d.Allowed {
		deny(c, viewer, opCreate, d)
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	rec, err := h.tasks.CreateTask(c.Request.Context(), viewer.Token(), viewer.Role(), req.input(viewer.UserID()))
	if err != nil {
		failed(c, viewer, opCreate, err)
		return
	}

	task := remember(c, viewer, opCreate, rec)
	viewer.Notices().Success(opCreate, fmt.Sprintf("Task %q created.", req.Title))
	c.JSON(http.StatusCreated, gin.H{"task": task})
}

// Update изменяет задачу; права проверяет сервер задач
func (h *TaskHandler) Update(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}

	taskID := c.Param("id")
	var req TaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	rec, err := h.tasks.UpdateTask(c.Request.Context(), viewer.Token(), viewer.Role(), taskID, req.input())
	if err != nil {
		failed(c, viewer, opUpdate, err)
		return
	}

	task := remember(c, viewer, opUpdate, rec)
	viewer.Notices().Success(opUpdate, "Task updated.")
	c.JSON(http.StatusOK, gin.H{"task": task})
}

// Delete удаляет задачу
func (h *TaskHandler) Delete(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}

	if d := policy.CanDeleteTask(viewer.Role()); !d.Allowed {
		deny(c, viewer, opDelete, d)
		return
	}

	taskID := c.Param("id")
	if err := h.tasks.DeleteTask(c.Request.Context(), viewer.Token(), viewer.Role(), taskID); err != nil {
		failed(c, viewer, opDelete, err)
		return
	}

	viewer.Tasks().Remove(taskID)
	viewer.Notices().Success(opDelete, "Task deleted.")
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}
