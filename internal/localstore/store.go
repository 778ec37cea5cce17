// Package localstore provides a durable key-value store backed by a JSON
// file. It stands in for the browser-profile local storage that holds
// guest-mode session state: a handful of small string values, written
// rarely, read at startup.
package localstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store is a process-wide key-value store persisted to a single file.
// Writes go through a temp-file rename so a crash mid-write never leaves
// a half-written store behind.
type Store struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

// Open loads the store at path, creating parent directories as needed.
// A missing file yields an empty store. A corrupted file is discarded and
// replaced on the next write; local state is never fatal.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	s := &Store{path: path, data: make(map[string]string)}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	if err := json.Unmarshal(raw, &s.data); err != nil {
		// Corrupted store: start fresh rather than failing startup.
		s.data = make(map[string]string)
	}

	return s, nil
}

// Get returns the value for key and whether it was present.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.data[key]
	return v, ok
}

// Set stores value under key and persists the store.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return s.flushLocked()
}

// Delete removes key and persists the store. Deleting an absent key is a
// no-op.
func (s *Store) Delete(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for _, key := range keys {
		if _, ok := s.data[key]; ok {
			delete(s.data, key)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.flushLocked()
}

func (s *Store) flushLocked() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}
