package credentials

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore persists the token in a single file, the console analog of the
// one browser-local key. The file holds the raw token and nothing else.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store backed by the file at path. The file is
// created on first Set; a missing file reads as an empty slot.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("credentials: file path required")
	}
	return &FileStore{path: path}, nil
}

// Get reads the stored token. A missing file is an empty slot, not an error.
func (s *FileStore) Get(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("credentials: read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Set writes token to the backing file, creating parent directories as
// needed. The file is owner-readable only.
func (s *FileStore) Set(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("credentials: create token dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("credentials: write token file: %w", err)
	}
	return nil
}

// Clear removes the backing file. Clearing an already-empty slot is a no-op.
func (s *FileStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("credentials: remove token file: %w", err)
	}
	return nil
}
