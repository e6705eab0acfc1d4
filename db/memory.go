package db

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/xiaoyuanzhu-com/todo-app/models"
)

// MemoryStore keeps records in process memory, in insertion order.
// Nothing survives a restart.
type MemoryStore struct {
	mu    sync.RWMutex
	order []string
	todos map[string]models.Todo
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{todos: make(map[string]models.Todo)}
}

func (m *MemoryStore) Create(ctx context.Context, in models.CreateTodoInput) (*models.Todo, error) {
	title, err := validateCreate(in)
	if err != nil {
		return nil, err
	}

	now := NowMs()
	todo := models.Todo{
		ID:        uuid.New().String(),
		Title:     title,
		Completed: in.IsCompleted(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	m.mu.Lock()
	m.todos[todo.ID] = todo
	m.order = append(m.order, todo.ID)
	m.mu.Unlock()

	return &todo, nil
}

func (m *MemoryStore) List(ctx context.Context) ([]models.Todo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	todos := make([]models.Todo, 0, len(m.order))
	for _, id := range m.order {
		todos = append(todos, m.todos[id])
	}
	return todos, nil
}

func (m *MemoryStore) Update(ctx context.Context, id string, in models.UpdateTodoInput) (*models.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	todo, ok := m.todos[id]
	if !ok {
		return nil, nil
	}
	if in.Apply(&todo) {
		todo.UpdatedAt = NowMs()
		m.todos[id] = todo
	}
	return &todo, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.todos[id]; !ok {
		return nil
	}
	delete(m.todos, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (m *MemoryStore) Close(ctx context.Context) error {
	return nil
}
