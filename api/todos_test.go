package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xiaoyuanzhu-com/todo-app/db"
	"github.com/xiaoyuanzhu-com/todo-app/models"
)

const todosPath = "/api/todos"

func newTestRouter(store db.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupRoutes(r, NewHandlers(store))
	return r
}

func doRequest(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeTodo(t *testing.T, w *httptest.ResponseRecorder) models.Todo {
	t.Helper()
	var todo models.Todo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &todo), "body: %s", w.Body.String())
	return todo
}

func decodeTodos(t *testing.T, w *httptest.ResponseRecorder) []models.Todo {
	t.Helper()
	var todos []models.Todo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &todos), "body: %s", w.Body.String())
	return todos
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var msg MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msg), "body: %s", w.Body.String())
	return msg.Message
}

func TestCreateTodo_ThenList(t *testing.T) {
	r := newTestRouter(db.NewMemoryStore())

	w := doRequest(t, r, http.MethodPost, todosPath, `{"title":"buy milk"}`)
	require.Equal(t, http.StatusOK, w.Code)
	created := decodeTodo(t, w)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "buy milk", created.Title)
	assert.False(t, created.Completed)

	w = doRequest(t, r, http.MethodGet, todosPath, "")
	require.Equal(t, http.StatusOK, w.Code)
	todos := decodeTodos(t, w)
	require.Len(t, todos, 1)
	assert.Equal(t, created, todos[0])
}

func TestCreateTodo_RecordShape(t *testing.T) {
	r := newTestRouter(db.NewMemoryStore())

	w := doRequest(t, r, http.MethodPost, todosPath, `{"title":"shape","completed":true}`)
	require.Equal(t, http.StatusOK, w.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.IsType(t, "", raw["id"])
	assert.Equal(t, "shape", raw["title"])
	assert.Equal(t, true, raw["completed"])
}

func TestCreateTodo_RejectsMissingTitle(t *testing.T) {
	r := newTestRouter(db.NewMemoryStore())

	for _, body := range []string{``, `{}`, `{"title":""}`, `{"title":"   "}`, `{"title":42}`, `not json`} {
		w := doRequest(t, r, http.MethodPost, todosPath, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
		assert.Equal(t, MsgCreateFailed, decodeMessage(t, w), "body %q", body)
	}

	w := doRequest(t, r, http.MethodGet, todosPath, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestUpdateTodo_ToggleTwice(t *testing.T) {
	r := newTestRouter(db.NewMemoryStore())
	created := decodeTodo(t, doRequest(t, r, http.MethodPost, todosPath, `{"title":"walk dog"}`))

	w := doRequest(t, r, http.MethodPut, todosPath+"/"+created.ID, `{"completed":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	first := decodeTodo(t, w)
	assert.True(t, first.Completed)
	assert.Equal(t, created.ID, first.ID)

	w = doRequest(t, r, http.MethodPut, todosPath+"/"+created.ID, `{"completed":false}`)
	require.Equal(t, http.StatusOK, w.Code)
	second := decodeTodo(t, w)
	assert.False(t, second.Completed)
	assert.Equal(t, created.ID, second.ID)
}

func TestUpdateTodo_MissingIDReturnsNull(t *testing.T) {
	r := newTestRouter(db.NewMemoryStore())

	w := doRequest(t, r, http.MethodPut, todosPath+"/nope", `{"completed":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", strings.TrimSpace(w.Body.String()))

	todos := decodeTodos(t, doRequest(t, r, http.MethodGet, todosPath, ""))
	assert.Empty(t, todos)
}

func TestUpdateTodo_InvalidBody(t *testing.T) {
	r := newTestRouter(db.NewMemoryStore())
	created := decodeTodo(t, doRequest(t, r, http.MethodPost, todosPath, `{"title":"x"}`))

	w := doRequest(t, r, http.MethodPut, todosPath+"/"+created.ID, `{"completed":"yes"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, MsgInvalidBody, decodeMessage(t, w))

	w = doRequest(t, r, http.MethodPut, todosPath+"/"+created.ID, `{"completed":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateTodo_EmptyBodyReturnsRecord(t *testing.T) {
	r := newTestRouter(db.NewMemoryStore())
	created := decodeTodo(t, doRequest(t, r, http.MethodPost, todosPath, `{"title":"x"}`))

	w := doRequest(t, r, http.MethodPut, todosPath+"/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeTodo(t, w)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "x", got.Title)
	assert.False(t, got.Completed)

	w = doRequest(t, r, http.MethodPut, todosPath+"/never-existed", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", strings.TrimSpace(w.Body.String()))
}

func TestDeleteTodo_Idempotent(t *testing.T) {
	r := newTestRouter(db.NewMemoryStore())
	created := decodeTodo(t, doRequest(t, r, http.MethodPost, todosPath, `{"title":"call mom"}`))

	for i := 0; i < 2; i++ {
		w := doRequest(t, r, http.MethodDelete, todosPath+"/"+created.ID, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, MsgTodoDeleted, decodeMessage(t, w))
	}

	w := doRequest(t, r, http.MethodDelete, todosPath+"/never-existed", "")
	assert.Equal(t, http.StatusOK, w.Code)

	todos := decodeTodos(t, doRequest(t, r, http.MethodGet, todosPath, ""))
	assert.Empty(t, todos)
}

func TestTodos_EndToEnd(t *testing.T) {
	r := newTestRouter(db.NewMemoryStore())

	created := decodeTodo(t, doRequest(t, r, http.MethodPost, todosPath, `{"title":"buy milk"}`))

	todos := decodeTodos(t, doRequest(t, r, http.MethodGet, todosPath, ""))
	require.Len(t, todos, 1)
	assert.Equal(t, "buy milk", todos[0].Title)
	assert.False(t, todos[0].Completed)

	doRequest(t, r, http.MethodPut, todosPath+"/"+created.ID, `{"completed":true}`)
	todos = decodeTodos(t, doRequest(t, r, http.MethodGet, todosPath, ""))
	require.Len(t, todos, 1)
	assert.True(t, todos[0].Completed)

	doRequest(t, r, http.MethodDelete, todosPath+"/"+created.ID, "")
	todos = decodeTodos(t, doRequest(t, r, http.MethodGet, todosPath, ""))
	assert.Empty(t, todos)
}

// failingStore fails every operation with a non-validation error
type failingStore struct{ err error }

func (f failingStore) Create(context.Context, models.CreateTodoInput) (*models.Todo, error) {
	return nil, f.err
}

func (f failingStore) List(context.Context) ([]models.Todo, error) {
	return nil, f.err
}

func (f failingStore) Update(context.Context, string, models.UpdateTodoInput) (*models.Todo, error) {
	return nil, f.err
}

func (f failingStore) Delete(context.Context, string) error {
	return f.err
}

func (f failingStore) Ping(context.Context) error {
	return f.err
}

func (f failingStore) Close(context.Context) error {
	return nil
}

func TestTodos_StoreFailuresAreServerErrors(t *testing.T) {
	r := newTestRouter(failingStore{err: errors.New("connection refused")})

	cases := []struct {
		method, path, body, message string
	}{
		{http.MethodPost, todosPath, `{"title":"x"}`, MsgCreateFailed},
		{http.MethodGet, todosPath, "", MsgListFailed},
		{http.MethodPut, todosPath + "/1", `{"completed":true}`, MsgUpdateFailed},
		{http.MethodDelete, todosPath + "/1", "", MsgDeleteFailed},
	}
	for _, tc := range cases {
		w := doRequest(t, r, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusInternalServerError, w.Code, "%s %s", tc.method, tc.path)
		assert.Equal(t, tc.message, decodeMessage(t, w))
	}
}

func TestHealth(t *testing.T) {
	w := doRequest(t, newTestRouter(db.NewMemoryStore()), http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, newTestRouter(failingStore{err: errors.New("down")}), http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
