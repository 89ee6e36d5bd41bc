package handler

import (
	"context"
	"net/http"

	"taskdash/internal/model"
	"taskdash/internal/policy"

	"github.com/gin-gonic/gin"
)

const (
	opUsers      = "Load users"
	opUpdateUser = "Update user"
	opDeleteUser = "Delete user"
)

// UserService - учетные записи на сервере задач
type UserService interface {
	ListUsers(ctx context.Context, token string) ([]model.User, error)
	UpdateUser(ctx context.Context, token, id string, update model.UserUpdate) (model.User, error)
	DeleteUser(ctx context.Context, token, id string) error
}

type UserHandler struct {
	users UserService
}

func NewUserHandler(users UserService) *UserHandler {
	RegisterValidators()
	return &UserHandler{users: users}
}

type updateUserRequest struct {
	Role   string `json:"role" binding:"required,oneof=Admin Manager Developer"`
	Status string `json:"status" binding:"required,oneof=active inactive"`
}

// admin проверяет активную роль; маршрут дополнительно закрыт RoleMiddleware
func (h *UserHandler) admin(c *gin.Context, op string) bool {
	viewer, ok := currentViewer(c)
	if !ok {
		return false
	}
	if d := policy.CanManageUsers(viewer.Role()); !d.Allowed {
		deny(c, viewer, op, d)
		return false
	}
	return true
}

func (h *UserHandler) List(c *gin.Context) {
	if !h.admin(c, opUsers) {
		return
	}
	viewer, _ := currentViewer(c)

	users, err := h.users.ListUsers(c.Request.Context(), viewer.Token())
	if err != nil {
		failed(c, viewer, opUsers, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}
	c.JSON(http.StatusOK, users)
}

// Update назначает учетной записи одну роль и статус
func (h *UserHandler) Update(c *gin.Context) {
	if !h.admin(c, opUpdateUser) {
		return
	}
	viewer, _ := currentViewer(c)

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.users.UpdateUser(c.Request.Context(), viewer.Token(), c.Param("id"), model.UserUpdate{
		Roles:  []string{req.Role},
		Status: req.Status,
	})
	if err != nil {
		failed(c, viewer, opUpdateUser, err)
		return
	}

	viewer.Notices().Success(opUpdateUser, "User updated successfully.")
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	if !h.admin(c, opDeleteUser) {
		return
	}
	viewer, _ := currentViewer(c)

	if err := h.users.DeleteUser(c.Request.Context(), viewer.Token(), c.Param("id")); err != nil {
		failed(c, viewer, opDeleteUser, err)
		return
	}

	viewer.Notices().Success(opDeleteUser, "User deleted.")
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
