package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskdash/internal/backend"
	"taskdash/internal/middleware"
	"taskdash/internal/model"
	"taskdash/internal/session"
	"taskdash/internal/session/sessiontest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Мок сервера задач
type MockTaskBackend struct {
	mock.Mock
}

func (m *MockTaskBackend) CreateTask(ctx context.Context, token string, role model.Role, input model.TaskInput) (model.TaskRecord, error) {
	args := m.Called(ctx, token, role, input)
	return args.Get(0).(model.TaskRecord), args.Error(1)
}

func (m *MockTaskBackend) UpdateTask(ctx context.Context, token string, role model.Role, taskID string, input model.TaskInput) (model.TaskRecord, error) {
	args := m.Called(ctx, token, role, taskID, input)
	return args.Get(0).(model.TaskRecord), args.Error(1)
}

func (m *MockTaskBackend) DeleteTask(ctx context.Context, token string, role model.Role, taskID string) error {
	return m.Called(ctx, token, role, taskID).Error(0)
}

func (m *MockTaskBackend) PatchStatus(ctx context.Context, token string, role model.Role, taskID string, status model.Status) error {
	return m.Called(ctx, token, role, taskID, status).Error(0)
}

func (m *MockTaskBackend) ListAttachments(ctx context.Context, token string, role model.Role, taskID string) ([]model.Attachment, error) {
	args := m.Called(ctx, token, role, taskID)
	list := args.Get(0)
	if list == nil {
		return nil, args.Error(1)
	}
	return list.([]model.Attachment), args.Error(1)
}

func (m *MockTaskBackend) UploadAttachment(ctx context.Context, token, taskID, filename string, content io.Reader, remark string) (model.Attachment, error) {
	data, _ := io.ReadAll(content)
	args := m.Called(ctx, token, taskID, filename, string(data), remark)
	return args.Get(0).(model.Attachment), args.Error(1)
}

func (m *MockTaskBackend) DeleteAttachment(ctx context.Context, token string, role model.Role, attachmentID string) error {
	return m.Called(ctx, token, role, attachmentID).Error(0)
}

func (m *MockTaskBackend) ListEmployees(ctx context.Context, token string, filter backend.EmployeeFilter) ([]model.Employee, error) {
	args := m.Called(ctx, token, filter)
	list := args.Get(0)
	if list == nil {
		return nil, args.Error(1)
	}
	return list.([]model.Employee), args.Error(1)
}

func (m *MockTaskBackend) GetEmployee(ctx context.Context, token, id string) (model.Employee, error) {
	args := m.Called(ctx, token, id)
	return args.Get(0).(model.Employee), args.Error(1)
}

func (m *MockTaskBackend) CreateEmployee(ctx context.Context, token string, input model.EmployeeInput) (model.Employee, error) {
	args := m.Called(ctx, token, input)
	return args.Get(0).(model.Employee), args.Error(1)
}

func (m *MockTaskBackend) UpdateEmployee(ctx context.Context, token, id string, input model.EmployeeInput) (model.Employee, error) {
	args := m.Called(ctx, token, id, input)
	return args.Get(0).(model.Employee), args.Error(1)
}

func (m *MockTaskBackend) DeleteEmployee(ctx context.Context, token, id string) error {
	return m.Called(ctx, token, id).Error(0)
}

func (m *MockTaskBackend) ListUsers(ctx context.Context, token string) ([]model.User, error) {
	args := m.Called(ctx, token)
	list := args.Get(0)
	if list == nil {
		return nil, args.Error(1)
	}
	return list.([]model.User), args.Error(1)
}

func (m *MockTaskBackend) UpdateUser(ctx context.Context, token, id string, update model.UserUpdate) (model.User, error) {
	args := m.Called(ctx, token, id, update)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockTaskBackend) DeleteUser(ctx context.Context, token, id string) error {
	return m.Called(ctx, token, id).Error(0)
}

func (m *MockTaskBackend) ListRemarks(ctx context.Context, token, taskID string) ([]model.Remark, error) {
	args := m.Called(ctx, token, taskID)
	list := args.Get(0)
	if list == nil {
		return nil, args.Error(1)
	}
	return list.([]model.Remark), args.Error(1)
}

// Содержимое файла передается в мок строкой, без файла - пустая строка
func uploadText(file *backend.Upload) string {
	if file == nil {
		return ""
	}
	data, _ := io.ReadAll(file.Content)
	return file.Filename + ":" + string(data)
}

func (m *MockTaskBackend) CreateRemark(ctx context.Context, token, authorID, taskID, comment string, file *backend.Upload) (model.Remark, error) {
	args := m.Called(ctx, token, authorID, taskID, comment, uploadText(file))
	return args.Get(0).(model.Remark), args.Error(1)
}

func (m *MockTaskBackend) UpdateRemark(ctx context.Context, token string, role model.Role, actorID, remarkID, comment string, file *backend.Upload) (model.Remark, error) {
	args := m.Called(ctx, token, role, actorID, remarkID, comment, uploadText(file))
	return args.Get(0).(model.Remark), args.Error(1)
}

func (m *MockTaskBackend) DeleteRemark(ctx context.Context, token, remarkID string) error {
	return m.Called(ctx, token, remarkID).Error(0)
}

func (m *MockTaskBackend) MarkNotificationRead(ctx context.Context, token, remarkID string) error {
	return m.Called(ctx, token, remarkID).Error(0)
}

// fixture - зритель с живой сессией и кэшем задач
type fixture struct {
	sessions *session.Manager
	source   *sessiontest.Backend
	viewer   *session.Viewer
	backend  *MockTaskBackend
}

func newFixture(t *testing.T, userID string, roles ...string) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	source := &sessiontest.Backend{Records: []model.TaskRecord{
		{ID: "1", Title: "Write docs", Priority: "high", Status: "to_do", AssignedTo: "12"},
		{ID: "2", Title: "Fix login", Priority: "low", Status: "in_progress", AssignedTo: "12"},
		{ID: "3", Title: "Review API", Priority: "medium", Status: "review", AssignedTo: "13", ExpectedClosure: "2020-01-01"},
	}}
	sessions := sessiontest.NewManager(t, source)
	viewer := sessiontest.Login(t, sessions, source, userID, roles...)
	return &fixture{sessions: sessions, source: source, viewer: viewer, backend: new(MockTaskBackend)}
}

// router подставляет зрителя вместо JWT middleware
func (f *fixture) router() *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ViewerKey, f.viewer)
		c.Set(middleware.UserIDKey, f.viewer.UserID())
		c.Next()
	})
	return r
}

func (f *fixture) load(t *testing.T) {
	t.Helper()
	_, err := f.viewer.Tasks().Load(context.Background())
	require.NoError(t, err)
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		buf = bytes.NewBuffer(data)
	}
	req, _ := http.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), v))
}
