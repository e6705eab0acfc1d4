// Package theme holds the client's accent color and persists it locally.
package theme

import (
	"context"
	"sync"

	"github.com/xiaoyuanzhu-com/todo-app/log"
)

var logger = log.GetLogger("Theme")

const (
	// StorageKey is the single key the accent color is stored under
	StorageKey = "themeColor"
	// DefaultColor is used until the user picks one
	DefaultColor = "#000000ff"
)

// Palette is the set of accent colors offered to the user
var Palette = []string{
	"#095995",
	"#e63946",
	"#ffb703",
	"#06d6a0",
	"#8338ec",
	"#3a86ff",
	"#ff006e",
	"#2ec4b6",
	"#ff9f1c",
	"#1d3557",
}

// KV is local key/value storage with string values
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Store holds the current accent color. Pass it by reference to whatever
// needs the color; there is no package-level instance.
type Store struct {
	kv KV

	mu    sync.RWMutex
	color string
}

// Open reads the persisted color, falling back to DefaultColor when nothing
// (or an empty value) is stored or the storage cannot be read.
func Open(ctx context.Context, kv KV) *Store {
	s := &Store{kv: kv, color: DefaultColor}

	saved, ok, err := kv.Get(ctx, StorageKey)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to read theme color, using default")
		return s
	}
	if ok && saved != "" {
		s.color = saved
	}
	return s
}

// Color returns the current accent color
func (s *Store) Color() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.color
}

// Write sets the accent color and persists it before returning. The in-memory
// value changes even if persisting fails.
func (s *Store) Write(ctx context.Context, color string) error {
	s.mu.Lock()
	s.color = color
	s.mu.Unlock()

	if err := s.kv.Set(ctx, StorageKey, color); err != nil {
		logger.Error().Err(err).Str("color", color).Msg("failed to persist theme color")
		return err
	}
	return nil
}
