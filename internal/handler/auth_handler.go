package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"taskdash/internal/auth"
	"taskdash/internal/backend"
	"taskdash/internal/model"
	"taskdash/internal/repository"
	"taskdash/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionService управляет сессиями зрителей
type SessionService interface {
	Login(ctx context.Context, creds backend.Credentials) (*session.Viewer, error)
	Logout(ctx context.Context, id uuid.UUID) error
	SwitchRole(ctx context.Context, id uuid.UUID, role model.Role) (*session.Viewer, error)
}

type AuthHandler struct {
	sessions SessionService
	issuer   *auth.Issuer
}

func NewAuthHandler(sessions SessionService, issuer *auth.Issuer) *AuthHandler {
	RegisterValidators()
	return &AuthHandler{sessions: sessions, issuer: issuer}
}

// LoginRequest представляет запрос на вход по табельному номеру
type LoginRequest struct {
	EID      model.FlexID `json:"e_id" binding:"required,numeric"`
	Password string       `json:"password" binding:"required"`
}

// SwitchRoleRequest представляет запрос на смену активной роли
type SwitchRoleRequest struct {
	Role string `json:"role" binding:"required,role"`
}

// ProfileResponse описывает текущего зрителя
type ProfileResponse struct {
	UserID     string   `json:"user_id"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Roles      []string `json:"roles"`
	ViewRoles  []string `json:"view_roles"`
	ActiveRole string   `json:"active_role"`
}

// AuthResponse представляет ответ на успешный вход
type AuthResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Profile   ProfileResponse `json:"profile"`
}

func roleNames(roles []model.Role) []string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, string(r))
	}
	return names
}

func profileOf(v *session.Viewer) ProfileResponse {
	sess := v.Session()
	return ProfileResponse{
		UserID:     sess.UserID,
		Name:       sess.Name,
		Email:      sess.Email,
		Roles:      roleNames(sess.GrantedRoles()),
		ViewRoles:  roleNames(sess.ViewRoles()),
		ActiveRole: string(sess.Role()),
	}
}

// Login аутентифицирует пользователя через сервер задач и выдает токен панели
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	viewer, err := h.sessions.Login(c.Request.Context(), backend.Credentials{EID: req.EID, Password: req.Password})
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNoRoles):
			c.JSON(http.StatusForbidden, gin.H{"error": "Your account has no dashboard role"})
		case backend.StatusCode(err) == http.StatusUnauthorized, backend.StatusCode(err) == http.StatusForbidden:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid e_id or password"})
		default:
			backendError(c, err)
		}
		return
	}

	token, expiresAt, err := h.issuer.GenerateToken(viewer.ID().String(), viewer.UserID())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Profile:   profileOf(viewer),
	})
}

// Logout завершает сессию и останавливает ее фоновые задачи
func (h *AuthHandler) Logout(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}

	if err := h.sessions.Logout(c.Request.Context(), viewer.ID()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log out"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me возвращает профиль текущего зрителя
func (h *AuthHandler) Me(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, profileOf(viewer))
}

// SwitchRole меняет активную роль; кэш задач прежней роли отбрасывается
func (h *AuthHandler) SwitchRole(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}

	var req SwitchRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	role, _ := model.ParseRole(req.Role)

	viewer, err := h.sessions.SwitchRole(c.Request.Context(), viewer.ID(), role)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrRoleNotGranted):
			c.JSON(http.StatusForbidden, gin.H{"error": "Role not granted to this account"})
		case errors.Is(err, repository.ErrSessionNotFound), errors.Is(err, session.ErrExpired):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired or not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to switch role"})
		}
		return
	}
	c.JSON(http.StatusOK, profileOf(viewer))
}
