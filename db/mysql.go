package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLStore persists records in a MySQL table
type MySQLStore struct {
	sqlStore
}

// seq only exists to give List a stable insertion order; ids are UUIDs
const mysqlSchema = `CREATE TABLE IF NOT EXISTS todos (
    id VARCHAR(36) PRIMARY KEY,
    seq BIGINT NOT NULL AUTO_INCREMENT UNIQUE,
    title VARCHAR(1024) NOT NULL,
    completed TINYINT(1) NOT NULL DEFAULT 0,
    created_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL
)`

// OpenMySQL connects with the go-sql-driver DSN in cfg.URI
// (user:pass@tcp(host:3306)/dbname) and creates the todos table if needed.
func OpenMySQL(ctx context.Context, cfg Config) (*MySQLStore, error) {
	conn, err := sql.Open("mysql", cfg.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping mysql: %w", err)
	}
	if _, err := conn.ExecContext(ctx, mysqlSchema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create todos table: %w", err)
	}

	logger.Info().Msg("mysql store initialized")
	return &MySQLStore{
		sqlStore: sqlStore{
			db:         conn,
			logQueries: cfg.LogQueries,
			orderBy:    "seq",
			lockClause: " FOR UPDATE",
		},
	}, nil
}
