package server

import (
	"time"

	"github.com/xiaoyuanzhu-com/todo-app/config"
	"github.com/xiaoyuanzhu-com/todo-app/db"
)

// Config holds server configuration
type Config struct {
	// Server infrastructure (immutable, requires restart)
	Port int
	Host string
	Env  string // "development" or "production"

	// Persistence
	StoreURI       string
	MongoDatabase  string
	TodoCollection string

	// Debug settings
	DBLogQueries bool
}

// FromAppConfig builds the server configuration from the process configuration
func FromAppConfig(c *config.Config) *Config {
	return &Config{
		Port:           c.Port,
		Host:           c.Host,
		Env:            c.Env,
		StoreURI:       c.StoreURI,
		MongoDatabase:  c.MongoDatabase,
		TodoCollection: c.TodoCollection,
		DBLogQueries:   c.DBLogQueries,
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env != "production"
}

// ToDBConfig converts server config to database config
func (c *Config) ToDBConfig() db.Config {
	return db.Config{
		URI:             c.StoreURI,
		Database:        c.MongoDatabase,
		Collection:      c.TodoCollection,
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: 0, // Never expire
		Timeout:         10 * time.Second,
		LogQueries:      c.DBLogQueries,
	}
}
