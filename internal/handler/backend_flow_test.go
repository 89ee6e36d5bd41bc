package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskdash/internal/backend"
	"taskdash/internal/board"
	"taskdash/internal/handler"
	"taskdash/internal/middleware"
	"taskdash/internal/model"
	"taskdash/internal/session"
	"taskdash/internal/session/sessiontest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTaskServer отвечает так же, как сервер задач: вход по e_id,
// задачи с t_id и числовыми исполнителями
func fakeTaskServer(t *testing.T, tasks string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"access_token":"jwt-12","token_type":"bearer","user":{"e_id":12,"roles":["Developer"],"status":"active"}}`)
	})
	mux.HandleFunc("GET /Employee/get", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"e_id":12,"name":"Dana","email":"dana@ust.com","designation":"Developer","mgr_id":3}`)
	})
	mux.HandleFunc("GET /Task/getall", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Developer", r.URL.Query().Get("role"))
		if tasks == "" {
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"detail":"No tasks found"}`)
			return
		}
		io.WriteString(w, tasks)
	})
	mux.HandleFunc("PATCH /Task/patch", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", r.URL.Query().Get("id"))
		assert.Equal(t, "in_progress", r.URL.Query().Get("status"))
		io.WriteString(w, `{"detail":"Task Status Updated Successfully"}`)
	})
	mux.HandleFunc("GET /Remark/notifications", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func loginThroughBackend(t *testing.T, srv *httptest.Server) (*backend.Client, *session.Viewer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	client, err := backend.NewClient(backend.ClientConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	sessions := session.NewManager(session.ManagerConfig{
		Repo:         sessiontest.NewRepository(),
		Backend:      client,
		TTL:          time.Hour,
		PollInterval: time.Hour,
	})
	t.Cleanup(sessions.Shutdown)

	viewer, err := sessions.Login(context.Background(), backend.Credentials{EID: "12", Password: "pw"})
	require.NoError(t, err)
	return client, viewer
}

func boardRouter(client *backend.Client, viewer *session.Viewer) *gin.Engine {
	h := handler.NewBoardHandler(board.NewController(client, nil))
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ViewerKey, viewer)
		c.Next()
	})
	r.GET("/board", h.Get)
	r.POST("/board/move", h.Move)
	return r
}

func TestMove_DeveloperLoggedInByEIDMovesOwnTask(t *testing.T) {
	// Arrange
	srv := fakeTaskServer(t, `[
		{"t_id": 7, "title": "Wire login", "status": "to_do", "assigned_to": 12, "priority": "high"},
		{"t_id": 8, "title": "Someone else's", "status": "to_do", "assigned_to": 13}
	]`)
	client, viewer := loginThroughBackend(t, srv)
	router := boardRouter(client, viewer)

	// Act
	resp := doJSON(router, "POST", "/board/move", handler.MoveRequest{TaskID: "7", From: "TO_DO", To: "IN_PROGRESS"})

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	var out board.Outcome
	decodeBody(t, resp, &out)
	assert.True(t, out.Decision.Allowed)
	assert.Equal(t, board.ResultMoved, out.Result)

	assert.Equal(t, "12", viewer.UserID())
	assert.Equal(t, "Dana", viewer.Session().Name)
	task, ok := viewer.Tasks().Get("7")
	require.True(t, ok)
	assert.Equal(t, model.StatusInProgress, task.Status)
}

func TestMove_DeveloperLoggedInByEIDDeniedOnOthersTask(t *testing.T) {
	srv := fakeTaskServer(t, `[{"t_id": 8, "title": "Someone else's", "status": "to_do", "assigned_to": 13}]`)
	client, viewer := loginThroughBackend(t, srv)
	router := boardRouter(client, viewer)

	resp := doJSON(router, "POST", "/board/move", handler.MoveRequest{TaskID: "8", From: "TO_DO", To: "IN_PROGRESS"})

	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestGetBoard_NoTasksIsEmptyBoard(t *testing.T) {
	// Arrange
	srv := fakeTaskServer(t, "")
	client, viewer := loginThroughBackend(t, srv)
	router := boardRouter(client, viewer)

	// Act
	resp := doJSON(router, "GET", "/board", nil)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	var body handler.BoardResponse
	decodeBody(t, resp, &body)
	assert.NotNil(t, body.LoadedAt)
	for _, col := range body.Columns {
		assert.Empty(t, col.Tasks)
	}
	assert.Empty(t, viewer.Notices().List(), "an empty board is not an error")
}
