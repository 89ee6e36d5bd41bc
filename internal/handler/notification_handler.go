package handler

import (
	"context"
	"net/http"
	"time"

	"taskdash/internal/model"

	"github.com/gin-gonic/gin"
)

const opMarkRead = "Open notification"

// NotificationService подтверждает прочтение уведомлений
type NotificationService interface {
	MarkNotificationRead(ctx context.Context, token, remarkID string) error
}

type NotificationHandler struct {
	notifications NotificationService
}

func NewNotificationHandler(notifications NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// FeedResponse - последний снимок ленты уведомлений
type FeedResponse struct {
	Notifications []model.Notification `json:"notifications"`
	FetchedAt     *time.Time           `json:"fetched_at,omitempty"`
}

// Feed возвращает ленту уведомлений, которую опрашивает фоновый поллер
func (h *NotificationHandler) Feed(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}

	poller := viewer.Poller()
	feed, at := poller.Feed()
	if at.IsZero() {
		// Первый опрос еще не завершился; ошибки ленты молча игнорируются
		_, _ = poller.Poll(c.Request.Context())
		feed, at = poller.Feed()
	}

	resp := FeedResponse{Notifications: feed}
	if resp.Notifications == nil {
		resp.Notifications = []model.Notification{}
	}
	if !at.IsZero() {
		resp.FetchedAt = &at
	}
	c.JSON(http.StatusOK, resp)
}

// MarkRead отмечает уведомление прочитанным и убирает его из ленты
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}

	id := c.Param("id")
	var opened *model.Notification
	feed, _ := viewer.Poller().Feed()
	for i := range feed {
		if feed[i].ID.String() == id {
			opened = &feed[i]
			break
		}
	}

	if err := h.notifications.MarkNotificationRead(c.Request.Context(), viewer.Token(), id); err != nil {
		failed(c, viewer, opMarkRead, err)
		return
	}
	viewer.Poller().Drop(id)

	resp := gin.H{"message": "Notification marked as read"}
	if opened != nil {
		label := opened.TaskTitle
		if label == "" {
			label = opened.TaskID.String()
		}
		viewer.Notices().Info(opMarkRead, "Notification opened for task "+label)
		resp["task_id"] = opened.TaskID
	}
	c.JSON(http.StatusOK, resp)
}

// Notices возвращает сообщения об операциях зрителя
func (h *NotificationHandler) Notices(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, viewer.Notices().List())
}

// DismissNotice скрывает одно сообщение
func (h *NotificationHandler) DismissNotice(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}

	if !viewer.Notices().Dismiss(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notice not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
