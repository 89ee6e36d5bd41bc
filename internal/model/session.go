package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Session is a logged-in viewer as persisted between restarts.
type Session struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	UserID       string    `gorm:"not null;index"`
	Name         string    `gorm:"not null"`
	Email        string    `gorm:"not null"`
	Roles        string    `gorm:"not null"`
	ActiveRole   string    `gorm:"not null"`
	BackendToken string
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time
	ExpiresAt    time.Time `gorm:"not null;index"`
}

// GrantedRoles decodes the comma separated role list.
func (s *Session) GrantedRoles() []Role {
	var roles []Role
	for _, part := range strings.Split(s.Roles, ",") {
		if r, ok := ParseRole(part); ok {
			roles = append(roles, r)
		}
	}
	return roles
}

// SetRoles encodes roles into the comma separated column.
func (s *Session) SetRoles(roles []Role) {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	s.Roles = strings.Join(parts, ",")
}

// HasRole reports whether r is among the granted roles.
func (s *Session) HasRole(r Role) bool {
	for _, granted := range s.GrantedRoles() {
		if granted == r {
			return true
		}
	}
	return false
}

// ViewRoles lists the roles the viewer may switch to. An admin may
// also view as manager, never as developer.
func (s *Session) ViewRoles() []Role {
	roles := s.GrantedRoles()
	if s.HasRole(RoleAdmin) && !s.HasRole(RoleManager) {
		roles = append(roles, RoleManager)
	}
	return roles
}

// CanView reports whether r is among ViewRoles.
func (s *Session) CanView(r Role) bool {
	for _, v := range s.ViewRoles() {
		if v == r {
			return true
		}
	}
	return false
}

// Role returns the active role.
func (s *Session) Role() Role {
	r, _ := ParseRole(s.ActiveRole)
	return r
}
