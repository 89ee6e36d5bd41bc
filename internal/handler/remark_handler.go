package handler

import (
	"context"
	"net/http"

	"taskdash/internal/backend"
	"taskdash/internal/model"
	"taskdash/internal/policy"

	"github.com/gin-gonic/gin"
)

const (
	opListRemarks  = "Load remarks"
	opCreateRemark = "Add remark"
	opUpdateRemark = "Edit remark"
	opDeleteRemark = "Delete remark"
)

// RemarkService - комментарии к задачам на сервере задач
type RemarkService interface {
	ListRemarks(ctx context.Context, token, taskID string) ([]model.Remark, error)
	CreateRemark(ctx context.Context, token, authorID, taskID, comment string, file *backend.Upload) (model.Remark, error)
	UpdateRemark(ctx context.Context, token string, role model.Role, actorID, remarkID, comment string, file *backend.Upload) (model.Remark, error)
	DeleteRemark(ctx context.Context, token, remarkID string) error
}

type RemarkHandler struct {
	remarks RemarkService
}

func NewRemarkHandler(remarks RemarkService) *RemarkHandler {
	RegisterValidators()
	return &RemarkHandler{remarks: remarks}
}

type remarkForm struct {
	Comment string `form:"comment" json:"comment" binding:"required,max=1000"`
}

type remarkEditForm struct {
	Comment string `form:"comment" json:"comment" binding:"omitempty,max=1000"`
}

// formUpload открывает необязательный файл из формы
func formUpload(c *gin.Context) (*backend.Upload, func(), error) {
	header, err := c.FormFile("file")
	if err != nil {
		return nil, func() {}, nil
	}
	file, err := header.Open()
	if err != nil {
		return nil, func() {}, err
	}
	return &backend.Upload{Filename: header.Filename, Content: file}, func() { file.Close() }, nil
}

// List возвращает комментарии задачи
func (h *RemarkHandler) List(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}

	list, err := h.remarks.ListRemarks(c.Request.Context(), viewer.Token(), c.Param("id"))
	if err != nil {
		failed(c, viewer, opListRemarks, err)
		return
	}
	if list == nil {
		list = []model.Remark{}
	}
	c.JSON(http.StatusOK, list)
}

// Create добавляет комментарий от имени зрителя, файл необязателен
func (h *RemarkHandler) Create(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}

	var form remarkForm
	if err := c.ShouldBind(&form); err != nil {
		bindError(c, err)
		return
	}
	file, closeFile, err := formUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer closeFile()

	remark, err := h.remarks.CreateRemark(c.Request.Context(), viewer.Token(), viewer.UserID(), c.Param("id"), form.Comment, file)
	if err != nil {
		failed(c, viewer, opCreateRemark, err)
		return
	}

	viewer.Notices().Success(opCreateRemark, "Remark added.")
	c.JSON(http.StatusCreated, remark)
}

// owned находит комментарий задачи и проверяет, что зритель может его менять
func (h *RemarkHandler) owned(c *gin.Context, op string) (model.Remark, bool) {
	viewer, ok := currentViewer(c)
	if !ok {
		return model.Remark{}, false
	}

	list, err := h.remarks.ListRemarks(c.Request.Context(), viewer.Token(), c.Param("id"))
	if err != nil {
		failed(c, viewer, op, err)
		return model.Remark{}, false
	}
	remarkID := c.Param("remarkId")
	for _, r := range list {
		if r.ID.String() != remarkID {
			continue
		}
		if d := policy.CanChangeRemark(viewer.Role(), viewer.UserID(), r.AuthorID.String()); !d.Allowed {
			deny(c, viewer, op, d)
			return model.Remark{}, false
		}
		return r, true
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Remark not found"})
	return model.Remark{}, false
}

// Update меняет текст и/или файл комментария
func (h *RemarkHandler) Update(c *gin.Context) {
	var form remarkEditForm
	if err := c.ShouldBind(&form); err != nil {
		bindError(c, err)
		return
	}
	file, closeFile, err := formUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer closeFile()
	if form.Comment == "" && file == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	remark, ok := h.owned(c, opUpdateRemark)
	if !ok {
		return
	}
	viewer, _ := currentViewer(c)

	updated, err := h.remarks.UpdateRemark(c.Request.Context(), viewer.Token(), viewer.Role(), viewer.UserID(), remark.ID.String(), form.Comment, file)
	if err != nil {
		failed(c, viewer, opUpdateRemark, err)
		return
	}

	viewer.Notices().Success(opUpdateRemark, "Remark updated.")
	c.JSON(http.StatusOK, updated)
}

// Delete удаляет комментарий вместе с его файлом
func (h *RemarkHandler) Delete(c *gin.Context) {
	remark, ok := h.owned(c, opDeleteRemark)
	if !ok {
		return
	}
	viewer, _ := currentViewer(c)

	if err := h.remarks.DeleteRemark(c.Request.Context(), viewer.Token(), remark.ID.String()); err != nil {
		failed(c, viewer, opDeleteRemark, err)
		return
	}

	viewer.Notices().Success(opDeleteRemark, "Remark deleted.")
	c.JSON(http.StatusOK, gin.H{"message": "Remark deleted"})
}
