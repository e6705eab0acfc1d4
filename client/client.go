// Package client keeps a local copy of the todo list in sync with the API.
//
// Every mutation is followed by a full re-fetch of the list; the cache is
// only ever replaced wholesale by a successful fetch, never patched.
package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/xiaoyuanzhu-com/todo-app/log"
	"github.com/xiaoyuanzhu-com/todo-app/models"
)

var logger = log.GetLogger("TaskClient")

// ErrEmptyTitle is returned by Add for a blank title; no request is sent
var ErrEmptyTitle = errors.New("title is empty")

// State tells whether the cached list reflects the last successful fetch
type State int

const (
	// StateStale means a mutation was sent and the list has not been re-fetched
	// (or nothing has been fetched yet)
	StateStale State = iota
	// StateFresh means the cache holds the result of the last successful fetch
	StateFresh
)

func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	default:
		return "stale"
	}
}

// Client caches the todo list and drives mutations through a Transport
type Client struct {
	transport Transport

	// opMu serializes whole operations so a mutation and its re-fetch never
	// interleave with another operation's stages.
	opMu sync.Mutex

	mu    sync.RWMutex
	todos []models.Todo
	state State
}

// New creates a client with an empty, stale cache
func New(transport Transport) *Client {
	return &Client{
		transport: transport,
		todos:     []models.Todo{},
		state:     StateStale,
	}
}

// Todos returns a copy of the cached list
func (c *Client) Todos() []models.Todo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Todo, len(c.todos))
	copy(out, c.todos)
	return out
}

// State returns whether the cache is fresh or stale
func (c *Client) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Refresh fetches the full list and replaces the cache. On failure the
// previous cache is kept and the error returned.
func (c *Client) Refresh(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	return c.fetch(ctx)
}

// Add creates a task with the given title, then re-fetches the list.
// The mutation error, if any, is returned after the re-fetch.
func (c *Client) Add(ctx context.Context, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	return c.mutate(ctx, http.MethodPost, "", models.CreateTodoInput{Title: &title})
}

// Toggle flips the completed flag of the task, given its currently displayed value
func (c *Client) Toggle(ctx context.Context, id string, currentCompleted bool) error {
	completed := !currentCompleted
	return c.mutate(ctx, http.MethodPut, "/"+url.PathEscape(id), models.UpdateTodoInput{Completed: &completed})
}

// Remove deletes the task, then re-fetches the list
func (c *Client) Remove(ctx context.Context, id string) error {
	return c.mutate(ctx, http.MethodDelete, "/"+url.PathEscape(id), nil)
}

// mutate sends one mutation request and then one list fetch, whatever the
// mutation's outcome. A failed fetch leaves the cache as it was.
func (c *Client) mutate(ctx context.Context, method, path string, body any) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	c.state = StateStale
	c.mu.Unlock()

	mutErr := c.transport.Do(ctx, method, path, body, nil)
	if mutErr != nil {
		logger.Warn().Err(mutErr).Str("method", method).Str("path", path).Msg("mutation failed")
	}

	if err := c.fetch(ctx); err != nil {
		logger.Warn().Err(err).Msg("refetch after mutation failed, keeping cached list")
	}

	return mutErr
}

// fetch must be called with opMu held
func (c *Client) fetch(ctx context.Context) error {
	var todos []models.Todo
	if err := c.transport.Do(ctx, http.MethodGet, "", nil, &todos); err != nil {
		return err
	}
	if todos == nil {
		todos = []models.Todo{}
	}

	c.mu.Lock()
	c.todos = todos
	c.state = StateFresh
	c.mu.Unlock()

	logger.Debug().Int("count", len(todos)).Msg("todo list refreshed")
	return nil
}
