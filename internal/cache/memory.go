package cache

import (
	"context"
	"sync"

	"github.com/villagambera/channelbridge/internal/availability/domain"
)

// MemoryStore is the default process-local availability store.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]domain.CacheEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]domain.CacheEntry)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (domain.CacheEntry, bool, error) {
	if s == nil || key == "" {
		return domain.CacheEntry{}, false, nil
	}
	s.mu.RLock()
	entry, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return domain.CacheEntry{}, false, nil
	}
	entry.Result = entry.Result.Clone()
	return entry, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, entry domain.CacheEntry) error {
	if s == nil || key == "" {
		return nil
	}
	entry.Result = entry.Result.Clone()
	s.mu.Lock()
	s.items[key] = entry
	s.mu.Unlock()
	return nil
}
