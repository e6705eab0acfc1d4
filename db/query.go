package db

import (
	"context"
	"database/sql"
)

// sqlStore holds what the SQL engines share: the connection pool, query
// logging, and the todo CRUD in sql_todos.go.
type sqlStore struct {
	db         *sql.DB
	logQueries bool

	// orderBy is the insertion-order column of the todos table
	orderBy string
	// lockClause is appended to the row read inside Update
	lockClause string
}

// execer is satisfied by both *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *sqlStore) logQuery(kind string, query string, params []any) {
	if !s.logQueries {
		return
	}
	logger.Debug().
		Str("kind", kind).
		Str("sql", query).
		Interface("params", params).
		Msg("db query")
}

// exec runs an INSERT/UPDATE/DELETE query
func (s *sqlStore) exec(ctx context.Context, e execer, query string, params ...any) (sql.Result, error) {
	s.logQuery("run", query, params)
	return e.ExecContext(ctx, query, params...)
}

// selectRows runs a SELECT query returning multiple rows.
// The scanner function is called for each row to map results.
func selectRows[T any](ctx context.Context, s *sqlStore, query string, params []any, scanner func(*sql.Rows) (T, error)) ([]T, error) {
	s.logQuery("select", query, params)

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []T
	for rows.Next() {
		item, err := scanner(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// Transaction executes a function within a database transaction
func (s *sqlStore) Transaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (s *sqlStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *sqlStore) Close(ctx context.Context) error {
	return s.db.Close()
}
