package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xiaoyuanzhu-com/todo-app/api"
	"github.com/xiaoyuanzhu-com/todo-app/db"
	"github.com/xiaoyuanzhu-com/todo-app/models"
)

// newAPIClient runs the real API over an in-memory store
func newAPIClient(t *testing.T) *Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api.SetupRoutes(r, api.NewHandlers(db.NewMemoryStore()))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return New(NewHTTPTransport(srv.URL+"/api/todos", srv.Client()))
}

func TestClient_EndToEnd(t *testing.T) {
	c := newAPIClient(t)
	ctx := context.Background()

	assert.Equal(t, StateStale, c.State())
	require.NoError(t, c.Refresh(ctx))
	assert.Equal(t, StateFresh, c.State())
	assert.Empty(t, c.Todos())

	require.NoError(t, c.Add(ctx, "buy milk"))
	todos := c.Todos()
	require.Len(t, todos, 1)
	assert.Equal(t, "buy milk", todos[0].Title)
	assert.False(t, todos[0].Completed)
	assert.Equal(t, StateFresh, c.State())

	id := todos[0].ID
	require.NoError(t, c.Toggle(ctx, id, todos[0].Completed))
	todos = c.Todos()
	require.Len(t, todos, 1)
	assert.True(t, todos[0].Completed)
	assert.Equal(t, id, todos[0].ID)

	require.NoError(t, c.Toggle(ctx, id, todos[0].Completed))
	todos = c.Todos()
	require.Len(t, todos, 1)
	assert.False(t, todos[0].Completed)

	require.NoError(t, c.Remove(ctx, id))
	assert.Empty(t, c.Todos())

	// Removing again is not an error
	require.NoError(t, c.Remove(ctx, id))
}

func TestClient_ToggleMissingIDIsNoop(t *testing.T) {
	c := newAPIClient(t)
	ctx := context.Background()

	require.NoError(t, c.Toggle(ctx, "missing", false))
	assert.Empty(t, c.Todos())
	assert.Equal(t, StateFresh, c.State())
}

func TestClient_AddBlankTitleSendsNothing(t *testing.T) {
	ft := &fakeTransport{}
	c := New(ft)

	err := c.Add(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyTitle)
	assert.Empty(t, ft.calls)
}

func TestHTTPTransport_StatusError(t *testing.T) {
	c := newAPIClient(t)

	var todo models.Todo
	err := c.transport.Do(context.Background(), http.MethodPost, "", map[string]string{"title": ""}, &todo)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.Equal(t, api.MsgCreateFailed, se.Message)
}

// fakeTransport records calls and serves scripted results
type fakeTransport struct {
	mu       sync.Mutex
	calls    []string
	list     []models.Todo
	listErr  error
	mutErr   error
	onMutate func()
}

func (f *fakeTransport) Do(ctx context.Context, method, path string, in, out any) error {
	f.mu.Lock()
	f.calls = append(f.calls, method+" "+path)
	list, listErr, mutErr, onMutate := f.list, f.listErr, f.mutErr, f.onMutate
	f.mu.Unlock()

	if method == http.MethodGet {
		if listErr != nil {
			return listErr
		}
		if out != nil {
			*out.(*[]models.Todo) = append([]models.Todo(nil), list...)
		}
		return nil
	}

	if onMutate != nil {
		onMutate()
	}
	return mutErr
}

func TestClient_MutationIsFollowedByOneFetch(t *testing.T) {
	ft := &fakeTransport{list: []models.Todo{{ID: "1", Title: "a"}}}
	c := New(ft)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "a"))
	require.NoError(t, c.Toggle(ctx, "1", false))
	require.NoError(t, c.Remove(ctx, "1"))

	assert.Equal(t, []string{
		"POST ", "GET ",
		"PUT /1", "GET ",
		"DELETE /1", "GET ",
	}, ft.calls)
}

func TestClient_NoOptimisticUpdate(t *testing.T) {
	ft := &fakeTransport{list: []models.Todo{{ID: "1", Title: "before"}}}
	c := New(ft)
	ctx := context.Background()
	require.NoError(t, c.Refresh(ctx))

	var seenDuringMutation []models.Todo
	var stateDuringMutation State
	ft.onMutate = func() {
		seenDuringMutation = c.Todos()
		stateDuringMutation = c.State()
	}

	require.NoError(t, c.Toggle(ctx, "1", false))

	require.Len(t, seenDuringMutation, 1)
	assert.False(t, seenDuringMutation[0].Completed, "cache must not change before the round trip completes")
	assert.Equal(t, StateStale, stateDuringMutation)
	assert.Equal(t, StateFresh, c.State())
}

func TestClient_FailedMutationStillRefetches(t *testing.T) {
	ft := &fakeTransport{
		list:   []models.Todo{{ID: "1", Title: "server copy"}},
		mutErr: errors.New("connection reset"),
	}
	c := New(ft)

	err := c.Remove(context.Background(), "1")
	require.Error(t, err)
	assert.Equal(t, []string{"DELETE /1", "GET "}, ft.calls)

	todos := c.Todos()
	require.Len(t, todos, 1)
	assert.Equal(t, "server copy", todos[0].Title)
	assert.Equal(t, StateFresh, c.State())
}

func TestClient_FailedFetchKeepsCache(t *testing.T) {
	ft := &fakeTransport{list: []models.Todo{{ID: "1", Title: "cached"}}}
	c := New(ft)
	ctx := context.Background()
	require.NoError(t, c.Refresh(ctx))

	ft.mu.Lock()
	ft.listErr = errors.New("timeout")
	ft.list = nil
	ft.mu.Unlock()

	// The fetch failure after a mutation is swallowed
	require.NoError(t, c.Toggle(ctx, "1", false))
	todos := c.Todos()
	require.Len(t, todos, 1)
	assert.Equal(t, "cached", todos[0].Title)
	assert.Equal(t, StateStale, c.State())

	// A direct refresh reports it, still without blanking the cache
	require.Error(t, c.Refresh(ctx))
	assert.Len(t, c.Todos(), 1)
}

func TestClient_TodosReturnsCopy(t *testing.T) {
	ft := &fakeTransport{list: []models.Todo{{ID: "1", Title: "original"}}}
	c := New(ft)
	require.NoError(t, c.Refresh(context.Background()))

	todos := c.Todos()
	todos[0].Title = "mutated"
	assert.Equal(t, "original", c.Todos()[0].Title)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "stale", StateStale.String())
	assert.Equal(t, "fresh", StateFresh.String())
}
