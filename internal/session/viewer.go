package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"taskdash/internal/board"
	"taskdash/internal/model"
	"taskdash/internal/notify"
	"taskdash/internal/store"

	"github.com/google/uuid"
)

// Viewer is one logged-in session with its role-scoped state.
type Viewer struct {
	backend      Backend
	pollInterval time.Duration
	logger       *slog.Logger

	mu      sync.RWMutex
	session model.Session
	tasks   *store.TaskStore
	poller  *notify.Poller
	notices *notify.Center
}

func newViewer(sess model.Session, b Backend, pollInterval time.Duration, logger *slog.Logger) *Viewer {
	v := &Viewer{
		backend:      b,
		pollInterval: pollInterval,
		logger:       logger,
		session:      sess,
		notices:      notify.NewCenter(notify.DefaultCapacity),
	}
	v.tasks, v.poller = v.build(sess.Role())
	return v
}

func (v *Viewer) build(role model.Role) (*store.TaskStore, *notify.Poller) {
	tasks := store.NewTaskStore(v.backend, v.session.BackendToken, role)
	poller := notify.NewPoller(notify.PollerConfig{
		Source:   v.backend,
		Token:    v.session.BackendToken,
		Role:     role,
		Interval: v.pollInterval,
		Logger:   v.logger.With("session_id", v.session.ID),
	})
	return tasks, poller
}

func (v *Viewer) start(ctx context.Context) {
	v.mu.RLock()
	poller := v.poller
	v.mu.RUnlock()
	poller.Start(ctx)
}

func (v *Viewer) switchRole(ctx context.Context, role model.Role) {
	v.mu.Lock()
	oldTasks, oldPoller := v.tasks, v.poller
	v.session.ActiveRole = string(role)
	v.session.UpdatedAt = time.Now()
	v.tasks, v.poller = v.build(role)
	poller := v.poller
	v.mu.Unlock()

	oldTasks.Close()
	oldPoller.Stop()
	poller.Start(ctx)
}

func (v *Viewer) close() {
	v.mu.RLock()
	tasks, poller := v.tasks, v.poller
	v.mu.RUnlock()
	tasks.Close()
	poller.Stop()
}

func (v *Viewer) ID() uuid.UUID {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.session.ID
}

// Session returns a copy of the stored session.
func (v *Viewer) Session() model.Session {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.session
}

func (v *Viewer) Role() model.Role {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.session.Role()
}

func (v *Viewer) UserID() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.session.UserID
}

func (v *Viewer) Token() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.session.BackendToken
}

func (v *Viewer) Tasks() *store.TaskStore {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.tasks
}

func (v *Viewer) Poller() *notify.Poller {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.poller
}

func (v *Viewer) Notices() *notify.Center {
	return v.notices
}

// Actor snapshots the viewer for a board operation.
func (v *Viewer) Actor() board.Actor {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return board.Actor{
		UserID:  v.session.UserID,
		Token:   v.session.BackendToken,
		Role:    v.session.Role(),
		Tasks:   v.tasks,
		Notices: v.notices,
	}
}
