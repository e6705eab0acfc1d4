package theme

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
)

// TOMLFileKV stores values as top-level string keys of a TOML file.
// The file is re-read on every Get and rewritten in full on every Set.
type TOMLFileKV struct {
	path string
	mu   sync.Mutex
}

// NewTOMLFileKV uses the file at path, which need not exist yet
func NewTOMLFileKV(path string) *TOMLFileKV {
	return &TOMLFileKV{path: path}
}

func (f *TOMLFileKV) load() (map[string]string, error) {
	values := make(map[string]string)
	if _, err := toml.DecodeFile(f.path, &values); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return values, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}
	return values, nil
}

func (f *TOMLFileKV) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (f *TOMLFileKV) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return err
	}
	values[key] = value

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(values); err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
