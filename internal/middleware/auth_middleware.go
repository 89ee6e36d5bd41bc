package middleware

import (
	"context"
	"net/http"
	"strings"

	"taskdash/internal/auth"
	"taskdash/internal/model"
	"taskdash/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionIDKey = "session_id"
	UserIDKey    = "user_id"
	ViewerKey    = "viewer"
)

// SessionResolver finds the live viewer behind a session ID.
type SessionResolver interface {
	Get(ctx context.Context, id uuid.UUID) (*session.Viewer, error)
}

// JWTAuthMiddleware validates the dashboard token and puts the session's
// viewer into the request context.
func JWTAuthMiddleware(issuer *auth.Issuer, sessions SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		claims, err := issuer.ParseToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		sessionID, err := uuid.Parse(claims.SessionID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid session ID in token"})
			return
		}

		viewer, err := sessions.Get(c.Request.Context(), sessionID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired or not found"})
			return
		}

		c.Set(SessionIDKey, sessionID)
		c.Set(UserIDKey, viewer.UserID())
		c.Set(ViewerKey, viewer)
		c.Next()
	}
}

// RoleMiddleware lets the request through only when the viewer's active
// role is one of allowedRoles.
func RoleMiddleware(allowedRoles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer, ok := ViewerFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Role not found in context"})
			return
		}

		role := viewer.Role()
		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
	}
}

// ViewerFrom returns the viewer set by JWTAuthMiddleware.
func ViewerFrom(c *gin.Context) (*session.Viewer, bool) {
	v, exists := c.Get(ViewerKey)
	if !exists {
		return nil, false
	}
	viewer, ok := v.(*session.Viewer)
	return viewer, ok && viewer != nil
}
