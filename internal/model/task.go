package model

import (
	"time"
)

// Task is a normalized task record as held in a viewer's cache.
// Identifier fields are always strings regardless of the backend's
// wire type.
type Task struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Priority        Priority   `json:"priority"`
	Status          Status     `json:"status"`
	CreatedBy       string     `json:"created_by,omitempty"`
	AssignedTo      string     `json:"assigned_to,omitempty"`
	AssignedBy      string     `json:"assigned_by,omitempty"`
	Reviewer        string     `json:"reviewer,omitempty"`
	ExpectedClosure *time.Time `json:"expected_closure,omitempty"`
	ActualClosure   *time.Time `json:"actual_closure,omitempty"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TaskInput is the body sent to the backend on create and update.
// Person references go out as numbers when they are numeric.
type TaskInput struct {
	Title           string `json:"title,omitempty"`
	Description     string `json:"description,omitempty"`
	Priority        string `json:"priority,omitempty"`
	Status          string `json:"status,omitempty"`
	ExpectedClosure string `json:"expected_closure,omitempty"`
	CreatedBy       FlexID `json:"created_by,omitempty"`
	AssignedTo      FlexID `json:"assigned_to,omitempty"`
	AssignedBy      FlexID `json:"assigned_by,omitempty"`
	Reviewer        FlexID `json:"reviewer,omitempty"`
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate parses the date spellings the backend is known to emit.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
