package db

import "time"

// Config holds database configuration
type Config struct {
	URI             string // engine connection string, see Open
	Database        string // MongoDB database name
	Collection      string // MongoDB collection name
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Timeout         time.Duration // MongoDB connect/ping timeout
	LogQueries      bool
}
