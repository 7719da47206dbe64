package cache

import (
	"sync"
	"time"
)

type memoryItem struct {
	value   []byte
	expires time.Time
}

type memoryStore struct {
	mu         sync.RWMutex
	items      map[string]memoryItem
	maxEntries int
	ver        int64
	now        func() time.Time
}

func newMemoryStore(maxEntries int) *memoryStore {
	return &memoryStore{
		items:      make(map[string]memoryItem),
		maxEntries: maxEntries,
		ver:        1,
		now:        time.Now,
	}
}

func (s *memoryStore) get(key string) ([]byte, bool) {
	s.mu.RLock()
	item, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.now().After(item.expires) {
		s.mu.Lock()
		delete(s.items, key)
		s.mu.Unlock()
		return nil, false
	}
	return item.value, true
}

func (s *memoryStore) set(key string, value []byte, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if _, exists := s.items[key]; !exists && len(s.items) >= s.maxEntries {
		s.evictLocked(now)
	}
	s.items[key] = memoryItem{value: value, expires: now.Add(ttl)}
}

// evictLocked drops expired items, or the item closest to expiry when none
// have expired.
func (s *memoryStore) evictLocked(now time.Time) {
	var (
		oldestKey string
		oldest    time.Time
	)
	for key, item := range s.items {
		if now.After(item.expires) {
			delete(s.items, key)
			continue
		}
		if oldestKey == "" || item.expires.Before(oldest) {
			oldestKey, oldest = key, item.expires
		}
	}
	if len(s.items) >= s.maxEntries && oldestKey != "" {
		delete(s.items, oldestKey)
	}
}

func (s *memoryStore) version() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ver
}

func (s *memoryStore) bump() {
	s.mu.Lock()
	s.ver++
	s.items = make(map[string]memoryItem)
	s.mu.Unlock()
}

func (s *memoryStore) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
