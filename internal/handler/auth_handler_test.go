package handler_test

import (
	"net/http"
	"testing"
	"time"

	"taskdash/internal/auth"
	"taskdash/internal/backend"
	"taskdash/internal/handler"
	"taskdash/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuth(t *testing.T, roles ...string) (*gin.Engine, *fixture, *auth.Issuer) {
	f := newFixture(t, "3", roles...)
	issuer := auth.NewIssuer("test-secret", time.Hour)
	h := handler.NewAuthHandler(f.sessions, issuer)

	r := f.router()
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)
	r.GET("/me", h.Me)
	r.POST("/me/role", h.SwitchRole)
	return r, f, issuer
}

func TestLogin_Success(t *testing.T) {
	// Arrange
	router, f, issuer := setupAuth(t, "Manager", "Developer")
	f.source.User = backend.LoginUser{EID: "101", Roles: []string{"Manager", "Developer"}, Status: "active"}

	// Act
	resp := doJSON(router, "POST", "/login", map[string]any{"e_id": 101, "password": "pw"})

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var body handler.AuthResponse
	decodeBody(t, resp, &body)
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, "101", body.Profile.UserID)
	assert.Equal(t, "101", body.Profile.Name, "name comes from the employee record")
	assert.Equal(t, "manager", body.Profile.ActiveRole)
	assert.Equal(t, []string{"manager", "developer"}, body.Profile.Roles)

	// Токен указывает на созданную сессию
	claims, err := issuer.ParseToken(body.Token)
	require.NoError(t, err)
	assert.Equal(t, "101", claims.UserID)
}

func TestLogin_ValidationError(t *testing.T) {
	// Arrange
	router, _, _ := setupAuth(t, "Manager")

	// Act
	resp := doJSON(router, "POST", "/login", map[string]string{"e_id": "dana"})

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "Validation failed", body.Error)
	assert.Equal(t, "Must be a number.", body.Fields["e_id"])
	assert.Equal(t, "This field is required.", body.Fields["password"])
}

func TestMe(t *testing.T) {
	router, _, _ := setupAuth(t, "Manager")

	resp := doJSON(router, "GET", "/me", nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	var body handler.ProfileResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "3", body.UserID)
	assert.Equal(t, "manager", body.ActiveRole)
}

func TestSwitchRole_Success(t *testing.T) {
	// Arrange
	router, f, _ := setupAuth(t, "Manager", "Developer")

	// Act
	resp := doJSON(router, "POST", "/me/role", handler.SwitchRoleRequest{Role: "Developer"})

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, model.RoleDeveloper, f.viewer.Role())
	assert.Equal(t, model.RoleDeveloper, f.viewer.Tasks().Role())
}

func TestSwitchRole_NotGranted(t *testing.T) {
	router, f, _ := setupAuth(t, "Developer")

	resp := doJSON(router, "POST", "/me/role", handler.SwitchRoleRequest{Role: "admin"})

	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, model.RoleDeveloper, f.viewer.Role())
}

func TestSwitchRole_AdminViewsAsManager(t *testing.T) {
	// Arrange
	router, f, _ := setupAuth(t, "Admin")

	// Act
	me := doJSON(router, "GET", "/me", nil)
	resp := doJSON(router, "POST", "/me/role", handler.SwitchRoleRequest{Role: "manager"})
	asDeveloper := doJSON(router, "POST", "/me/role", handler.SwitchRoleRequest{Role: "developer"})

	// Assert
	var profile handler.ProfileResponse
	decodeBody(t, me, &profile)
	assert.Equal(t, []string{"admin"}, profile.Roles)
	assert.Equal(t, []string{"admin", "manager"}, profile.ViewRoles)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, http.StatusForbidden, asDeveloper.Code)
	assert.Equal(t, model.RoleManager, f.viewer.Role())
}

func TestSwitchRole_UnknownRole(t *testing.T) {
	router, _, _ := setupAuth(t, "Developer")

	resp := doJSON(router, "POST", "/me/role", handler.SwitchRoleRequest{Role: "owner"})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "Unknown role.")
}

func TestLogout(t *testing.T) {
	router, f, _ := setupAuth(t, "Manager")
	tasks := f.viewer.Tasks()

	resp := doJSON(router, "POST", "/logout", nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 0, f.sessions.Count())
	assert.True(t, tasks.Closed())
}
