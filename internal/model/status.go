package model

import "strings"

// Status is the canonical task status used on the board.
type Status string

const (
	StatusToDo       Status = "TO_DO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusReview     Status = "REVIEW"
	StatusDone       Status = "DONE"
)

// Statuses returns the canonical statuses in board column order.
func Statuses() []Status {
	return []Status{StatusToDo, StatusInProgress, StatusReview, StatusDone}
}

// Valid reports whether s is one of the four canonical statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusReview, StatusDone:
		return true
	default:
		return false
	}
}

// Label returns the human-readable column title.
func (s Status) Label() string {
	switch s {
	case StatusToDo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusReview:
		return "Review"
	case StatusDone:
		return "Done"
	default:
		return string(s)
	}
}

// ToCanonical maps a backend status spelling to the canonical status.
// Unknown values are upper-cased and returned as is.
func ToCanonical(raw string) Status {
	key := strings.ToLower(strings.TrimSpace(raw))
	switch key {
	case "to_do", "todo", "to do", "to-do":
		return StatusToDo
	case "in_progress", "inprogress", "in progress", "in-progress":
		return StatusInProgress
	case "review", "in_review", "in review":
		return StatusReview
	case "done", "completed":
		return StatusDone
	}
	return Status(strings.ToUpper(raw))
}

// ToBackend maps a canonical status to the backend's lower snake case
// vocabulary. Unknown values are lower-cased.
func ToBackend(s Status) string {
	switch s {
	case StatusToDo:
		return "to_do"
	case StatusInProgress:
		return "in_progress"
	case StatusReview:
		return "review"
	case StatusDone:
		return "done"
	}
	return strings.ToLower(string(s))
}
