package theme

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
)

// OpenKV opens local storage at path. A .toml path is a plain TOML file;
// anything else is a SQLite database.
func OpenKV(path string) (KV, error) {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return NewTOMLFileKV(path), nil
	}
	return OpenSQLiteKV(path)
}

// MemoryKV is a KV that lives only as long as the process
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryKV creates an empty MemoryKV
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (m *MemoryKV) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
