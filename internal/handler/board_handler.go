package handler

import (
	"errors"
	"net/http"
	"time"

	"taskdash/internal/backend"
	"taskdash/internal/board"
	"taskdash/internal/model"
	"taskdash/internal/session"
	"taskdash/internal/store"

	"github.com/gin-gonic/gin"
)

const opLoad = "Load tasks"

type BoardHandler struct {
	controller *board.Controller
}

func NewBoardHandler(controller *board.Controller) *BoardHandler {
	RegisterValidators()
	return &BoardHandler{controller: controller}
}

// MoveRequest представляет перетаскивание задачи между колонками
type MoveRequest struct {
	TaskID string `json:"task_id" binding:"required"`
	From   string `json:"from" binding:"required"`
	To     string `json:"to" binding:"required"`
}

// ColumnResponse представляет колонку доски
type ColumnResponse struct {
	Status model.Status `json:"status"`
	Label  string       `json:"label"`
	Tasks  []model.Task `json:"tasks"`
}

// BoardResponse представляет доску в порядке статусов
type BoardResponse struct {
	Role     model.Role       `json:"role"`
	LoadedAt *time.Time       `json:"loaded_at,omitempty"`
	Columns  []ColumnResponse `json:"columns"`
}

func boardOf(tasks *store.TaskStore) BoardResponse {
	statuses := model.Statuses()
	byStatus := make(map[model.Status][]model.Task, len(statuses))
	for _, t := range tasks.Tasks() {
		byStatus[t.Status] = append(byStatus[t.Status], t)
	}

	resp := BoardResponse{Role: tasks.Role(), Columns: make([]ColumnResponse, 0, len(statuses))}
	if at := tasks.LoadedAt(); !at.IsZero() {
		resp.LoadedAt = &at
	}
	for _, s := range statuses {
		column := byStatus[s]
		if column == nil {
			column = []model.Task{}
		}
		resp.Columns = append(resp.Columns, ColumnResponse{Status: s, Label: s.Label(), Tasks: column})
	}
	return resp
}

// load перечитывает задачи зрителя; ответ false означает, что ответ уже отправлен
func load(c *gin.Context, viewer *session.Viewer) bool {
	_, err := viewer.Tasks().Load(c.Request.Context())
	switch {
	case err == nil, errors.Is(err, store.ErrStaleLoad):
		// Устаревший ответ отброшен, отдаем текущий кэш
		return true
	case errors.Is(err, store.ErrClosed):
		c.JSON(http.StatusConflict, gin.H{"error": "Role changed while loading, please retry"})
		return false
	default:
		viewer.Notices().Error(opLoad, backend.Message(err))
		backendError(c, err)
		return false
	}
}

// Get возвращает доску; при первом обращении задачи загружаются с сервера
func (h *BoardHandler) Get(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}

	if viewer.Tasks().LoadedAt().IsZero() && !load(c, viewer) {
		return
	}
	c.JSON(http.StatusOK, boardOf(viewer.Tasks()))
}

// Refresh принудительно перечитывает задачи
func (h *BoardHandler) Refresh(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}

	if !load(c, viewer) {
		return
	}
	c.JSON(http.StatusOK, boardOf(viewer.Tasks()))
}

// Move обрабатывает окончание перетаскивания карточки
func (h *BoardHandler) Move(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}

	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	from, to := model.ToCanonical(req.From), model.ToCanonical(req.To)
	if !from.Valid() || !to.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status column"})
		return
	}

	if viewer.Tasks().LoadedAt().IsZero() && !load(c, viewer) {
		return
	}

	out := h.controller.OnDragEnd(c.Request.Context(), viewer.Actor(), req.TaskID, from, to)
	switch out.Result {
	case board.ResultDenied:
		c.JSON(http.StatusForbidden, gin.H{"error": out.Decision.Reason, "outcome": out})
	case board.ResultFailed:
		status := http.StatusBadGateway
		if code := backend.StatusCode(out.Err); code >= 400 && code < 500 {
			status = code
		}
		c.JSON(status, gin.H{"error": backend.Message(out.Err), "outcome": out})
	default:
		c.JSON(http.StatusOK, out)
	}
}
