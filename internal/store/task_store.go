// Package store keeps the in-memory task cache of a single viewer.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"taskdash/internal/model"
)

var (
	// ErrStaleLoad is returned when a reload finished after a newer load
	// was started or after a local mutation; its result was discarded.
	ErrStaleLoad = errors.New("task list reload superseded")

	// ErrClosed is returned when a reload finished after the store was
	// detached from its viewer.
	ErrClosed = errors.New("task store closed")

	ErrTaskNotFound = errors.New("task not found in cache")
)

// Source fetches the role-scoped task list from the backend.
type Source interface {
	ListTasks(ctx context.Context, token string, role model.Role) ([]model.TaskRecord, error)
}

// TaskStore is the viewer's task cache. Every write replaces the whole
// snapshot so readers never observe a partially updated list.
type TaskStore struct {
	source Source
	token  string
	role   model.Role
	now    func() time.Time

	mu      sync.RWMutex
	tasks   []model.Task
	version uint64 // bumped by every write, including committed loads
	loadSeq uint64 // last load started
	loaded  time.Time
	closed  bool
}

func NewTaskStore(source Source, token string, role model.Role) *TaskStore {
	return &TaskStore{
		source: source,
		token:  token,
		role:   role,
		now:    time.Now,
	}
}

// SetClock overrides the clock used for UpdatedAt.
func (s *TaskStore) SetClock(now func() time.Time) {
	s.now = now
}

func (s *TaskStore) Role() model.Role {
	return s.role
}

// Load fetches the full task list for the store's role and replaces the
// cache. A response is committed only if no later load has been started
// and no local mutation happened while it was in flight; otherwise the
// current cache is returned together with ErrStaleLoad.
func (s *TaskStore) Load(ctx context.Context) ([]model.Task, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	s.loadSeq++
	seq := s.loadSeq
	startVersion := s.version
	s.mu.Unlock()

	records, err := s.source.ListTasks(ctx, s.token, s.role)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	loaded := make([]model.Task, 0, len(records))
	for _, rec := range records {
		loaded = append(loaded, Normalize(rec))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	if seq != s.loadSeq || s.version != startVersion {
		return cloneTasks(s.tasks), ErrStaleLoad
	}
	s.version++
	s.tasks = loaded
	s.loaded = s.now()
	return cloneTasks(loaded), nil
}

// LoadedAt is when the last load was committed; zero if never.
func (s *TaskStore) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Tasks returns a copy of the cached list.
func (s *TaskStore) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTasks(s.tasks)
}

// Get returns the cached task with id.
func (s *TaskStore) Get(id string) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// Change identifies one optimistic status write so it can be reverted.
type Change struct {
	TaskID   string
	Previous model.Status
	Version  uint64
}

// ApplyStatusChange optimistically rewrites a task's status without
// waiting for the backend.
func (s *TaskStore) ApplyStatusChange(taskID string, status model.Status) (Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(taskID)
	if idx < 0 {
		return Change{}, ErrTaskNotFound
	}

	next := cloneTasks(s.tasks)
	prev := next[idx].Status
	next[idx].Status = status
	next[idx].UpdatedAt = s.now()
	if status == model.StatusDone && next[idx].ActualClosure == nil {
		closed := next[idx].UpdatedAt
		next[idx].ActualClosure = &closed
	}

	s.version++
	s.tasks = next
	return Change{TaskID: taskID, Previous: prev, Version: s.version}, nil
}

// Revert undoes change if nothing has written to the cache since. It
// reports whether the rollback was applied.
func (s *TaskStore) Revert(change Change) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.version != change.Version {
		return false
	}
	idx := s.indexOf(change.TaskID)
	if idx < 0 {
		return false
	}

	next := cloneTasks(s.tasks)
	if next[idx].Status == model.StatusDone && change.Previous != model.StatusDone {
		next[idx].ActualClosure = nil
	}
	next[idx].Status = change.Previous
	next[idx].UpdatedAt = s.now()

	s.version++
	s.tasks = next
	return true
}

// Upsert inserts or replaces a single task, e.g. after create or edit.
func (s *TaskStore) Upsert(task model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := cloneTasks(s.tasks)
	if idx := s.indexOf(task.ID); idx >= 0 {
		next[idx] = task
	} else {
		next = append(next, task)
	}
	s.version++
	s.tasks = next
}

// Remove drops a task from the cache.
func (s *TaskStore) Remove(taskID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(taskID)
	if idx < 0 {
		return false
	}
	next := make([]model.Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:idx]...)
	next = append(next, s.tasks[idx+1:]...)
	s.version++
	s.tasks = next
	return true
}

// Close detaches the store. Loads still in flight are discarded.
func (s *TaskStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.tasks = nil
}

func (s *TaskStore) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// indexOf must be called with mu held.
func (s *TaskStore) indexOf(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func cloneTasks(in []model.Task) []model.Task {
	if in == nil {
		return []model.Task{}
	}
	out := make([]model.Task, len(in))
	copy(out, in)
	return out
}
