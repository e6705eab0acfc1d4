package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/xiaoyuanzhu-com/todo-app/models"
)

const todoColumns = "id, title, completed, created_at, updated_at"

func scanTodo(row interface{ Scan(...any) error }) (models.Todo, error) {
	var t models.Todo
	var completed int
	if err := row.Scan(&t.ID, &t.Title, &completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return t, err
	}
	t.Completed = completed != 0
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s *sqlStore) Create(ctx context.Context, in models.CreateTodoInput) (*models.Todo, error) {
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

	query := "INSERT INTO todos (" + todoColumns + ") VALUES (?, ?, ?, ?, ?)"
	if _, err := s.exec(ctx, s.db, query, todo.ID, todo.Title, boolToInt(todo.Completed), todo.CreatedAt, todo.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert todo: %w", err)
	}
	return &todo, nil
}

func (s *sqlStore) List(ctx context.Context) ([]models.Todo, error) {
	query := "SELECT " + todoColumns + " FROM todos ORDER BY " + s.orderBy
	todos, err := selectRows(ctx, s, query, nil, func(rows *sql.Rows) (models.Todo, error) {
		return scanTodo(rows)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	if todos == nil {
		todos = []models.Todo{}
	}
	return todos, nil
}

func (s *sqlStore) Update(ctx context.Context, id string, in models.UpdateTodoInput) (*models.Todo, error) {
	var updated *models.Todo
	err := s.Transaction(ctx, func(tx *sql.Tx) error {
		query := "SELECT " + todoColumns + " FROM todos WHERE id = ?" + s.lockClause
		s.logQuery("get", query, []any{id})
		todo, err := scanTodo(tx.QueryRowContext(ctx, query, id))
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		if in.Apply(&todo) {
			todo.UpdatedAt = NowMs()
			_, err = s.exec(ctx, tx,
				"UPDATE todos SET title = ?, completed = ?, updated_at = ? WHERE id = ?",
				todo.Title, boolToInt(todo.Completed), todo.UpdatedAt, id)
			if err != nil {
				return err
			}
		}
		updated = &todo
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update todo %s: %w", id, err)
	}
	return updated, nil
}

func (s *sqlStore) Delete(ctx context.Context, id string) error {
	if _, err := s.exec(ctx, s.db, "DELETE FROM todos WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete todo %s: %w", id, err)
	}
	return nil
}
