package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// FileBackend stores each key as a file under a directory. Writes go to a
// temporary file that is renamed into place, so readers never see a partial
// document.
type FileBackend struct {
	dir string
}

// NewFileBackend creates dir if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if dir == "" {
		dir = filepath.Join(".cache", "underwriting")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir %s: %w", dir, err)
	}
	return &FileBackend{dir: dir}, nil
}

func (f *FileBackend) path(key string) string {
	return filepath.Join(f.dir, unsafeKeyChars.ReplaceAllString(key, "_")+".json")
}

func (f *FileBackend) Read(_ context.Context, key string) (string, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return string(data), true, nil
}

func (f *FileBackend) Write(_ context.Context, key, value string) error {
	tmp, err := os.CreateTemp(f.dir, ".write-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), f.path(key)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
