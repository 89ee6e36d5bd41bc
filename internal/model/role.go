package model

import "strings"

// Role is the capability set a viewer is currently operating under.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleManager   Role = "manager"
	RoleDeveloper Role = "developer"
)

// ParseRole accepts both the internal tag and the backend spelling.
// "employee" is an alias for developer.
func ParseRole(raw string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin":
		return RoleAdmin, true
	case "manager":
		return RoleManager, true
	case "developer", "employee":
		return RoleDeveloper, true
	}
	return "", false
}

// Backend returns the capitalized role string the REST backend expects
// in its role query parameter.
func (r Role) Backend() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleManager:
		return "Manager"
	case RoleDeveloper:
		return "Developer"
	}
	if r == "" {
		return ""
	}
	s := string(r)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Priority of a task.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}
