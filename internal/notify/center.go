// Package notify holds the user-facing notices of a viewer and the
// background poller for the backend notification feed.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind of a notice.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// DefaultCapacity is how many notices a Center keeps.
const DefaultCapacity = 50

// Notice is one discrete, dismissable message naming an operation.
type Notice struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Operation string    `json:"operation"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Center collects notices for one viewer, newest last.
type Center struct {
	mu       sync.Mutex
	notices  []Notice
	capacity int
	now      func() time.Time
}

func NewCenter(capacity int) *Center {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Center{capacity: capacity, now: time.Now}
}

func (c *Center) Success(op, msg string) Notice { return c.push(KindSuccess, op, msg) }
func (c *Center) Error(op, msg string) Notice   { return c.push(KindError, op, msg) }
func (c *Center) Info(op, msg string) Notice    { return c.push(KindInfo, op, msg) }

func (c *Center) push(kind Kind, op, msg string) Notice {
	n := Notice{
		ID:        uuid.NewString(),
		Kind:      kind,
		Operation: op,
		Message:   msg,
		CreatedAt: c.now(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = append(c.notices, n)
	if over := len(c.notices) - c.capacity; over > 0 {
		c.notices = append([]Notice(nil), c.notices[over:]...)
	}
	return n
}

// List returns the pending notices, oldest first.
func (c *Center) List() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notice, len(c.notices))
	copy(out, c.notices)
	return out
}

// Dismiss removes a notice; it reports whether one was found.
func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, n := range c.notices {
		if n.ID == id {
			c.notices = append(c.notices[:i:i], c.notices[i+1:]...)
			return true
		}
	}
	return false
}

// Clear drops every notice.
func (c *Center) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = nil
}
