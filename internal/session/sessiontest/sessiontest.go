// Package sessiontest provides in-memory collaborators for building live
// viewers in tests of packages that sit on top of sessions.
package sessiontest

import (
	"context"
	"sync"
	"testing"
	"time"

	"taskdash/internal/backend"
	"taskdash/internal/model"
	"taskdash/internal/repository"
	"taskdash/internal/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Repository keeps sessions in a map.
type Repository struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]model.Session
}

var _ repository.SessionRepositoryInterface = (*Repository)(nil)

func NewRepository() *Repository {
	return &Repository{sessions: make(map[uuid.UUID]model.Session)}
}

func (r *Repository) Create(_ context.Context, s *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = *s
	return nil
}

func (r *Repository) GetByID(_ context.Context, id uuid.UUID) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	return &s, nil
}

func (r *Repository) ListActive(_ context.Context, now time.Time) ([]model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Session
	for _, s := range r.sessions {
		if s.ExpiresAt.After(now) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *Repository) UpdateActiveRole(_ context.Context, id uuid.UUID, role model.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return repository.ErrSessionNotFound
	}
	s.ActiveRole = string(role)
	r.sessions[id] = s
	return nil
}

func (r *Repository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return repository.ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

func (r *Repository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, s := range r.sessions {
		if !s.ExpiresAt.After(now) {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}

// Backend serves a fixed task list and feed, a fixed login and
// employee records named after their id.
type Backend struct {
	mu            sync.Mutex
	Records       []model.TaskRecord
	Notifications []model.Notification
	Err           error
	User          backend.LoginUser
}

func (b *Backend) ListTasks(context.Context, string, model.Role) ([]model.TaskRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return nil, b.Err
	}
	return append([]model.TaskRecord(nil), b.Records...), nil
}

func (b *Backend) SetRecords(records []model.TaskRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Records = records
}

func (b *Backend) SetNotifications(feed []model.Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Notifications = feed
}

func (b *Backend) ListNotifications(context.Context, string) ([]model.Notification, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Notification{}, b.Notifications...), nil
}

func (b *Backend) Login(context.Context, backend.Credentials) (backend.LoginResult, error) {
	return backend.LoginResult{AccessToken: "backend-token", TokenType: "bearer", User: b.User}, nil
}

func (b *Backend) GetEmployee(_ context.Context, _, id string) (model.Employee, error) {
	return model.Employee{ID: model.FlexID(id), Name: id, Email: id + "@ust.com"}, nil
}

// NewManager builds a manager over an in-memory repository. It is shut
// down when the test ends.
func NewManager(t *testing.T, b *Backend) *session.Manager {
	t.Helper()
	m := session.NewManager(session.ManagerConfig{
		Repo:         NewRepository(),
		Backend:      b,
		TTL:          time.Hour,
		PollInterval: time.Hour,
	})
	t.Cleanup(m.Shutdown)
	return m
}

// Login opens a session for employee userID holding roles, first role
// active.
func Login(t *testing.T, m *session.Manager, b *Backend, userID string, roles ...string) *session.Viewer {
	t.Helper()
	b.User = backend.LoginUser{EID: model.FlexID(userID), Roles: roles, Status: "active"}
	v, err := m.Login(context.Background(), backend.Credentials{EID: model.FlexID(userID), Password: "pw"})
	require.NoError(t, err)
	return v
}
