package storage

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MemoryStorage keeps artifacts in process memory. Used for local runs
// without Azure credentials and for tests.
type MemoryStorage struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

var _ StorageInterface = (*MemoryStorage)(nil)

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{blobs: make(map[string][]byte)}
}

// Store saves an artifact in memory
func (s *MemoryStorage) Store(filename string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]byte, len(data))
	copy(copied, data)
	s.blobs[filename] = copied
	return nil
}

// Retrieve gets an artifact from memory
func (s *MemoryStorage) Retrieve(filename string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[filename]
	if !ok {
		return nil, fmt.Errorf("artifact %s not found", filename)
	}
	return data, nil
}

// List returns stored artifact names matching prefix, sorted
func (s *MemoryStorage) List(prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var names []string
	for name := range s.blobs {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes an artifact from memory
func (s *MemoryStorage) Delete(filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.blobs, filename)
	return nil
}
