// Package session owns the lifecycle of logged-in viewers: hydrate on
// startup, create on login, rebuild on role switch, tear down on logout.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"taskdash/internal/backend"
	"taskdash/internal/model"
	"taskdash/internal/notify"
	"taskdash/internal/repository"
	"taskdash/internal/store"

	"github.com/google/uuid"
)

var (
	ErrNoRoles        = errors.New("account has no dashboard role")
	ErrRoleNotGranted = errors.New("role not granted to this account")
	ErrExpired        = errors.New("session expired")
)

// Backend is what viewers need from the remote service.
type Backend interface {
	store.Source
	notify.FeedSource
	Login(ctx context.Context, creds backend.Credentials) (backend.LoginResult, error)
	GetEmployee(ctx context.Context, token, id string) (model.Employee, error)
}

type ManagerConfig struct {
	Repo         repository.SessionRepositoryInterface
	Backend      Backend
	TTL          time.Duration
	PollInterval time.Duration
	Logger       *slog.Logger
}

// Manager keeps the live viewers of this process, backed by the
// session repository.
type Manager struct {
	repo         repository.SessionRepositoryInterface
	backend      Backend
	ttl          time.Duration
	pollInterval time.Duration
	logger       *slog.Logger
	now          func() time.Time

	baseCtx context.Context
	cancel  context.CancelFunc

	mu      sync.RWMutex
	viewers map[uuid.UUID]*Viewer
}

func NewManager(cfg ManagerConfig) *Manager {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		repo:         cfg.Repo,
		backend:      cfg.Backend,
		ttl:          ttl,
		pollInterval: cfg.PollInterval,
		logger:       logger,
		now:          time.Now,
		baseCtx:      ctx,
		cancel:       cancel,
		viewers:      make(map[uuid.UUID]*Viewer),
	}
}

// Hydrate restores unexpired sessions from the repository. Expired ones
// are purged first.
func (m *Manager) Hydrate(ctx context.Context) (int, error) {
	now := m.now()
	if purged, err := m.repo.DeleteExpired(ctx, now); err != nil {
		m.logger.Warn("purging expired sessions failed", "error", err)
	} else if purged > 0 {
		m.logger.Info("purged expired sessions", "count", purged)
	}

	sessions, err := m.repo.ListActive(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("hydrate sessions: %w", err)
	}
	for i := range sessions {
		m.attach(sessions[i])
	}
	return len(sessions), nil
}

// Login authenticates against the backend and opens a session under the
// first role the account holds. The session is keyed by the employee id
// the backend echoes back; the display name comes from the employee
// record when it can be read.
func (m *Manager) Login(ctx context.Context, creds backend.Credentials) (*Viewer, error) {
	res, err := m.backend.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	roles := res.User.GrantedRoles()
	if len(roles) == 0 {
		return nil, ErrNoRoles
	}
	userID := res.User.EID.String()
	if userID == "" {
		userID = creds.EID.String()
	}

	var name, email string
	if emp, err := m.backend.GetEmployee(ctx, res.AccessToken, userID); err != nil {
		m.logger.Debug("employee record unavailable at login", "user_id", userID, "error", err)
	} else {
		name, email = emp.DisplayName(), emp.Email
	}

	now := m.now()
	sess := model.Session{
		ID:           uuid.New(),
		UserID:       userID,
		Name:         name,
		Email:        email,
		ActiveRole:   string(roles[0]),
		BackendToken: res.AccessToken,
		CreatedAt:    now,
		UpdatedAt:    now,
		ExpiresAt:    now.Add(m.ttl),
	}
	sess.SetRoles(roles)

	if err := m.repo.Create(ctx, &sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	m.logger.Info("viewer logged in", "session_id", sess.ID, "user_id", sess.UserID, "role", sess.ActiveRole)
	return m.attach(sess), nil
}

// Get returns the live viewer for id, loading it from the repository if
// another process created it.
func (m *Manager) Get(ctx context.Context, id uuid.UUID) (*Viewer, error) {
	m.mu.RLock()
	v, ok := m.viewers[id]
	m.mu.RUnlock()

	if ok {
		if v.Session().ExpiresAt.After(m.now()) {
			return v, nil
		}
		m.detach(id)
		return nil, ErrExpired
	}

	sess, err := m.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.ExpiresAt.After(m.now()) {
		return nil, ErrExpired
	}
	return m.attach(*sess), nil
}

// SwitchRole changes the active role to one of the session's view
// roles. The viewer's cache and poller are rebuilt so no data fetched
// under the old role survives.
func (m *Manager) SwitchRole(ctx context.Context, id uuid.UUID, role model.Role) (*Viewer, error) {
	v, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	sess := v.Session()
	if !sess.CanView(role) {
		return nil, ErrRoleNotGranted
	}
	if sess.Role() == role {
		return v, nil
	}

	if err := m.repo.UpdateActiveRole(ctx, id, role); err != nil {
		return nil, fmt.Errorf("switch role: %w", err)
	}
	v.switchRole(m.baseCtx, role)
	v.Notices().Info("Switch role", fmt.Sprintf("Now viewing as %s.", role.Backend()))
	m.logger.Info("viewer switched role", "session_id", id, "role", role)
	return v, nil
}

// Logout tears the viewer down and forgets the session.
func (m *Manager) Logout(ctx context.Context, id uuid.UUID) error {
	m.detach(id)
	if err := m.repo.Delete(ctx, id); err != nil && !errors.Is(err, repository.ErrSessionNotFound) {
		return fmt.Errorf("logout: %w", err)
	}
	m.logger.Info("viewer logged out", "session_id", id)
	return nil
}

// Shutdown stops every viewer's background work. Sessions stay stored.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	viewers := m.viewers
	m.viewers = make(map[uuid.UUID]*Viewer)
	m.mu.Unlock()

	for _, v := range viewers {
		v.close()
	}
	m.cancel()
}

// Count reports the number of live viewers.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.viewers)
}

func (m *Manager) attach(sess model.Session) *Viewer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.viewers[sess.ID]; ok {
		return existing
	}
	v := newViewer(sess, m.backend, m.pollInterval, m.logger)
	v.start(m.baseCtx)
	m.viewers[sess.ID] = v
	return v
}

func (m *Manager) detach(id uuid.UUID) {
	m.mu.Lock()
	v, ok := m.viewers[id]
	delete(m.viewers, id)
	m.mu.Unlock()
	if ok {
		v.close()
	}
}
