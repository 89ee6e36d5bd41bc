package session_test

import (
	"context"
	"testing"
	"time"

	"taskdash/internal/backend"
	"taskdash/internal/model"
	"taskdash/internal/repository"
	"taskdash/internal/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, s *model.Session) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	args := m.Called(ctx, id)
	s := args.Get(0)
	if s == nil {
		return nil, args.Error(1)
	}
	return s.(*model.Session), args.Error(1)
}

func (m *MockSessionRepository) ListActive(ctx context.Context, now time.Time) ([]model.Session, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]model.Session), args.Error(1)
}

func (m *MockSessionRepository) UpdateActiveRole(ctx context.Context, id uuid.UUID, role model.Role) error {
	return m.Called(ctx, id, role).Error(0)
}

func (m *MockSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type fakeBackend struct {
	login    backend.LoginResult
	err      error
	employee model.Employee
	empErr   error
	empToken string
}

func (f *fakeBackend) ListTasks(ctx context.Context, token string, role model.Role) ([]model.TaskRecord, error) {
	return []model.TaskRecord{{ID: "1", Title: "A", Status: "to_do"}}, nil
}

func (f *fakeBackend) ListNotifications(ctx context.Context, token string) ([]model.Notification, error) {
	return nil, nil
}

func (f *fakeBackend) Login(ctx context.Context, creds backend.Credentials) (backend.LoginResult, error) {
	return f.login, f.err
}

func (f *fakeBackend) GetEmployee(ctx context.Context, token, id string) (model.Employee, error) {
	f.empToken = token
	return f.employee, f.empErr
}

func newManager(t *testing.T, repo *MockSessionRepository, b *fakeBackend) *session.Manager {
	t.Helper()
	m := session.NewManager(session.ManagerConfig{
		Repo:         repo,
		Backend:      b,
		TTL:          time.Hour,
		PollInterval: time.Hour,
	})
	t.Cleanup(m.Shutdown)
	return m
}

func loginResult(roles ...string) backend.LoginResult {
	return backend.LoginResult{
		AccessToken: "backend-token",
		TokenType:   "bearer",
		User: backend.LoginUser{
			EID:    "101",
			Roles:  roles,
			Status: "active",
		},
	}
}

func creds(eid string) backend.Credentials {
	return backend.Credentials{EID: model.FlexID(eid), Password: "pw"}
}

func TestLogin_CreatesSessionWithFirstRole(t *testing.T) {
	// Arrange
	repo := new(MockSessionRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Session")).Return(nil)
	m := newManager(t, repo, &fakeBackend{login: loginResult("Manager", "Developer")})

	// Act
	v, err := m.Login(context.Background(), creds("101"))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, model.RoleManager, v.Role())
	assert.Equal(t, "101", v.UserID())
	assert.Equal(t, "backend-token", v.Token())
	assert.Equal(t, 1, m.Count())
	repo.AssertExpectations(t)
}

func TestLogin_NameFromEmployeeRecord(t *testing.T) {
	// Arrange
	repo := new(MockSessionRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	b := &fakeBackend{
		login:    loginResult("Developer"),
		employee: model.Employee{ID: "101", FullName: "Mia Wong", Email: "mia@ust.com"},
	}
	m := newManager(t, repo, b)

	// Act
	v, err := m.Login(context.Background(), creds("101"))

	// Assert
	require.NoError(t, err)
	sess := v.Session()
	assert.Equal(t, "Mia Wong", sess.Name)
	assert.Equal(t, "mia@ust.com", sess.Email)
	assert.Equal(t, "backend-token", b.empToken, "the lookup uses the fresh backend token")
}

func TestLogin_MissingEmployeeRecordIsIgnored(t *testing.T) {
	repo := new(MockSessionRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	b := &fakeBackend{
		login:  loginResult("Developer"),
		empErr: &backend.APIError{StatusCode: 404, Detail: "Employee Not Found"},
	}
	m := newManager(t, repo, b)

	v, err := m.Login(context.Background(), creds("101"))

	require.NoError(t, err)
	assert.Empty(t, v.Session().Name)
	assert.Equal(t, "101", v.UserID())
}

func TestLogin_BackendRejection(t *testing.T) {
	repo := new(MockSessionRepository)
	b := &fakeBackend{err: &backend.APIError{StatusCode: 401, Detail: "Invalid e_id or password"}}
	m := newManager(t, repo, b)

	_, err := m.Login(context.Background(), creds("101"))

	assert.Equal(t, 401, backend.StatusCode(err))
	assert.Equal(t, 0, m.Count())
}

func TestLogin_NoRoles(t *testing.T) {
	repo := new(MockSessionRepository)
	m := newManager(t, repo, &fakeBackend{login: loginResult("Auditor")})

	_, err := m.Login(context.Background(), creds("101"))

	assert.ErrorIs(t, err, session.ErrNoRoles)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSwitchRole(t *testing.T) {
	// Arrange
	repo := new(MockSessionRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	repo.On("UpdateActiveRole", mock.Anything, mock.Anything, model.RoleDeveloper).Return(nil)
	m := newManager(t, repo, &fakeBackend{login: loginResult("Manager", "Developer")})
	v, err := m.Login(context.Background(), creds("101"))
	require.NoError(t, err)
	oldTasks := v.Tasks()

	// Act
	v, err = m.SwitchRole(context.Background(), v.ID(), model.RoleDeveloper)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, model.RoleDeveloper, v.Role())
	assert.True(t, oldTasks.Closed(), "cache of the previous role is discarded")
	assert.Equal(t, model.RoleDeveloper, v.Tasks().Role())
	repo.AssertExpectations(t)
}

func TestSwitchRole_NotGranted(t *testing.T) {
	repo := new(MockSessionRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m := newManager(t, repo, &fakeBackend{login: loginResult("Developer")})
	v, err := m.Login(context.Background(), creds("101"))
	require.NoError(t, err)

	_, err = m.SwitchRole(context.Background(), v.ID(), model.RoleAdmin)

	assert.ErrorIs(t, err, session.ErrRoleNotGranted)
	repo.AssertNotCalled(t, "UpdateActiveRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestSwitchRole_AdminMayViewAsManager(t *testing.T) {
	// Arrange
	repo := new(MockSessionRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	repo.On("UpdateActiveRole", mock.Anything, mock.Anything, model.RoleManager).Return(nil)
	m := newManager(t, repo, &fakeBackend{login: loginResult("Admin")})
	v, err := m.Login(context.Background(), creds("101"))
	require.NoError(t, err)

	// Act
	v, err = m.SwitchRole(context.Background(), v.ID(), model.RoleManager)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, model.RoleManager, v.Role())
	assert.Equal(t, model.RoleManager, v.Tasks().Role())

	_, err = m.SwitchRole(context.Background(), v.ID(), model.RoleDeveloper)
	assert.ErrorIs(t, err, session.ErrRoleNotGranted, "admins never act as developer")
}

func TestLogout(t *testing.T) {
	repo := new(MockSessionRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m := newManager(t, repo, &fakeBackend{login: loginResult("Admin")})
	v, err := m.Login(context.Background(), creds("101"))
	require.NoError(t, err)
	repo.On("Delete", mock.Anything, v.ID()).Return(nil)
	tasks := v.Tasks()

	err = m.Logout(context.Background(), v.ID())

	assert.NoError(t, err)
	assert.Equal(t, 0, m.Count())
	assert.True(t, tasks.Closed())
	repo.AssertExpectations(t)
}

func TestHydrate(t *testing.T) {
	// Arrange
	repo := new(MockSessionRepository)
	now := time.Now()
	stored := []model.Session{
		{ID: uuid.New(), UserID: "a", Roles: "admin", ActiveRole: "admin", ExpiresAt: now.Add(time.Hour)},
		{ID: uuid.New(), UserID: "b", Roles: "developer", ActiveRole: "developer", ExpiresAt: now.Add(time.Hour)},
	}
	repo.On("DeleteExpired", mock.Anything, mock.Anything).Return(int64(1), nil)
	repo.On("ListActive", mock.Anything, mock.Anything).Return(stored, nil)
	m := newManager(t, repo, &fakeBackend{})

	// Act
	n, err := m.Hydrate(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, m.Count())
	v, err := m.Get(context.Background(), stored[1].ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleDeveloper, v.Role())
}

func TestGet_FallsBackToRepository(t *testing.T) {
	repo := new(MockSessionRepository)
	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(&model.Session{
		ID: id, UserID: "mgr001", Roles: "manager", ActiveRole: "manager", ExpiresAt: time.Now().Add(time.Hour),
	}, nil).Once()
	m := newManager(t, repo, &fakeBackend{})

	v, err := m.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "mgr001", v.UserID())

	// Второй вызов обслуживается из памяти
	_, err = m.Get(context.Background(), id)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestGet_Expired(t *testing.T) {
	repo := new(MockSessionRepository)
	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(&model.Session{
		ID: id, Roles: "manager", ActiveRole: "manager", ExpiresAt: time.Now().Add(-time.Minute),
	}, nil)
	m := newManager(t, repo, &fakeBackend{})

	_, err := m.Get(context.Background(), id)

	assert.ErrorIs(t, err, session.ErrExpired)
}

func TestGet_Unknown(t *testing.T) {
	repo := new(MockSessionRepository)
	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, repository.ErrSessionNotFound)
	m := newManager(t, repo, &fakeBackend{})

	_, err := m.Get(context.Background(), id)

	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
}
