package config

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port int
	Host string
	Env  string // "development" or "production"

	// Persistence
	StoreURI       string // mongodb://, sqlite://, memory://
	MongoDatabase  string
	TodoCollection string

	// Client settings
	APIURL    string
	PrefsPath string
	LogFile   string

	// Debug settings
	LogLevel     string
	DBLogQueries bool
}

var (
	cfg  *Config
	once sync.Once
)

// Get returns the global configuration (singleton)
func Get() *Config {
	once.Do(func() {
		cfg = Load()
	})
	return cfg
}

// Load reads configuration from the environment, after merging a .env file
// from the working directory when one exists. Variables already set in the
// environment win over the file.
func Load() *Config {
	_ = godotenv.Load()

	appDir := defaultAppDir()

	return &Config{
		// Server
		Port: getEnvInt("PORT", 5000),
		Host: getEnv("HOST", "0.0.0.0"),
		Env:  getEnv("ENV", "development"),

		// Persistence
		StoreURI:       getEnv("MONGO_URI", "sqlite://./data/todos.sqlite"),
		MongoDatabase:  getEnv("MONGO_DB", "todo"),
		TodoCollection: getEnv("TODO_COLLECTION", "todos"),

		// Client
		APIURL:    getEnv("TODO_API_URL", "http://localhost:5000/api/todos"),
		PrefsPath: getEnv("TODO_PREFS_PATH", filepath.Join(appDir, "prefs.sqlite")),
		LogFile:   getEnv("TODO_LOG_FILE", filepath.Join(appDir, "todo.log")),

		// Debug
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DBLogQueries: getEnv("DB_LOG_QUERIES", "") == "1",
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env != "production"
}

// defaultAppDir is where the client keeps its local state.
func defaultAppDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "todo")
	}
	return filepath.Join(".", ".todo")
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
