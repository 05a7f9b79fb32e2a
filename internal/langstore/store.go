// Package langstore persists each visitor's language preference. It is
// the only state that survives the widget session: one key-value slot
// per visitor, read at session start and written on every change.
package langstore

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Store reads and writes a visitor's preferred language code.
// Get returns an empty string when no preference has been saved.
type Store interface {
	Get(visitorID string) (string, error)
	Set(visitorID, language string) error
}

// MemoryStore keeps preferences in memory. Used in tests and when no
// store path is configured.
type MemoryStore struct {
	mu        sync.RWMutex
	languages map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{languages: make(map[string]string)}
}

func (s *MemoryStore) Get(visitorID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.languages[visitorID], nil
}

func (s *MemoryStore) Set(visitorID, language string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.languages[visitorID] = language
	return nil
}

// FileStore persists preferences as a JSON object on disk.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Get(visitorID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	languages, err := s.read()
	if err != nil {
		return "", err
	}
	return languages[visitorID], nil
}

func (s *FileStore) Set(visitorID, language string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	languages, err := s.read()
	if err != nil {
		return err
	}
	languages[visitorID] = language

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(languages, "", "  ")
	if err != nil {
		return err
	}

	// Write-and-rename so a crash never leaves a half-written file
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) read() (map[string]string, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	languages := make(map[string]string)
	if err := json.Unmarshal(b, &languages); err != nil {
		return nil, err
	}
	return languages, nil
}
