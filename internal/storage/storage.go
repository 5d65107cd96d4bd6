// Package storage provides opaque key-value persistence of serialized state.
// Each partition is one JSON document under the state directory; partitions
// are loaded at session start and rewritten whole on change.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Partition names used by the stores.
const (
	ChatPartition     = "chat"
	SettingsPartition = "settings"
)

// Store persists named partitions as JSON files under a directory.
type Store struct {
	mu  sync.Mutex
	dir string
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the state directory backing the store.
func (s *Store) Dir() string {
	return s.dir
}

// Save serializes v into the named partition. The write is atomic: data is
// written to a temp file and renamed into place, so a crash mid-write never
// leaves a truncated partition.
func (s *Store) Save(partition string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize partition '%s': %w", partition, err)
	}

	target := s.path(partition)
	tmp, err := os.CreateTemp(s.dir, partition+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for partition '%s': %w", partition, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write partition '%s': %w", partition, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close partition '%s': %w", partition, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace partition '%s': %w", partition, err)
	}
	return nil
}

// Load deserializes the named partition into v. Returns false with no error
// when the partition has never been saved.
func (s *Store) Load(partition string, v any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(partition))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read partition '%s': %w", partition, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to parse partition '%s': %w", partition, err)
	}
	return true, nil
}

// Delete removes the named partition. Missing partitions are not an error.
func (s *Store) Delete(partition string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(partition))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete partition '%s': %w", partition, err)
	}
	return nil
}

func (s *Store) path(partition string) string {
	return filepath.Join(s.dir, partition+".json")
}
