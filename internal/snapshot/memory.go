package snapshot

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	access  int
	expires time.Time
}

// MemoryStore keeps snapshots in process memory. It only correlates
// events delivered to the same instance.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[Key]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates a MemoryStore whose entries expire after ttl
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[Key]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Put records a snapshot and drops any expired ones
func (s *MemoryStore) Put(ctx context.Context, key Key, access int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, e := range s.entries {
		if now.After(e.expires) {
			delete(s.entries, k)
		}
	}
	s.entries[key] = memoryEntry{access: access, expires: now.Add(s.ttl)}
	return nil
}

// Take returns and deletes a snapshot
func (s *MemoryStore) Take(ctx context.Context, key Key) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return 0, false, nil
	}
	delete(s.entries, key)
	if s.now().After(e.expires) {
		return 0, false, nil
	}
	return e.access, true, nil
}

// Len returns the number of stored snapshots, expired ones included
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
