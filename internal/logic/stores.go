package logic

import (
	"sync"
)

// MemorySelectionStore is an in-memory implementation of SelectionStore
type MemorySelectionStore struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewMemorySelectionStore creates a new memory-based selection store
func NewMemorySelectionStore() *MemorySelectionStore {
	return &MemorySelectionStore{
		values: make(map[string]any),
	}
}

func (s *MemorySelectionStore) GetSelection(name string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[name]
	return v, ok
}

func (s *MemorySelectionStore) GetAllSelections() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Return a copy to prevent external modification
	result := make(map[string]any, len(s.values))
	for k, v := range s.values {
		result[k] = v
	}
	return result
}

func (s *MemorySelectionStore) SetSelection(name string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[name] = value
}

func (s *MemorySelectionStore) RemoveSelection(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, name)
}
