package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"taskdash/internal/model"
	"taskdash/internal/policy"

	"github.com/gin-gonic/gin"
)

const (
	opUpload           = "Upload attachment"
	opDeleteAttachment = "Delete attachment"
	opListAttachments  = "Load attachments"
)

// AttachmentService - вложения задач на сервере задач
type AttachmentService interface {
	ListAttachments(ctx context.Context, token string, role model.Role, taskID string) ([]model.Attachment, error)
	UploadAttachment(ctx context.Context, token, taskID, filename string, content io.Reader, remark string) (model.Attachment, error)
	DeleteAttachment(ctx context.Context, token string, role model.Role, attachmentID string) error
}

type AttachmentHandler struct {
	attachments AttachmentService
}

func NewAttachmentHandler(attachments AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachments: attachments}
}

// List возвращает вложения задачи
func (h *AttachmentHandler) List(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}

	list, err := h.attachments.ListAttachments(c.Request.Context(), viewer.Token(), viewer.Role(), c.Param("id"))
	if err != nil {
		failed(c, viewer, opListAttachments, err)
		return
	}
	if list == nil {
		list = []model.Attachment{}
	}
	c.JSON(http.StatusOK, list)
}

// Upload загружает файл с необязательным комментарием
func (h *AttachmentHandler) Upload(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}

	if d := policy.CanUploadAttachment(viewer.Role()); !d.Allowed {
		deny(c, viewer, opUpload, d)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": gin.H{"file": "This field is required."}})
		return
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	att, err := h.attachments.UploadAttachment(c.Request.Context(), viewer.Token(), c.Param("id"), header.Filename, file, c.PostForm("remark"))
	if err != nil {
		failed(c, viewer, opUpload, err)
		return
	}

	viewer.Notices().Success(opUpload, fmt.Sprintf("Attachment %q uploaded.", att.Filename))
	c.JSON(http.StatusCreated, att)
}

// Delete удаляет вложение
func (h *AttachmentHandler) Delete(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}

	if d := policy.CanDeleteAttachment(viewer.Role()); !d.Allowed {
		deny(c, viewer, opDeleteAttachment, d)
		return
	}

	if err := h.attachments.DeleteAttachment(c.Request.Context(), viewer.Token(), viewer.Role(), c.Param("id")); err != nil {
		failed(c, viewer, opDeleteAttachment, err)
		return
	}

	viewer.Notices().Success(opDeleteAttachment, "Attachment deleted.")
	c.JSON(http.StatusOK, gin.H{"message": "Attachment deleted"})
}
