package ledger

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	rec       Record
	expiresAt time.Time
}

// MemoryStore is a mutex-guarded Store for single-instance deployments and
// tests. Eviction is lazy: expired entries are dropped on access, which
// matches the NotFound semantics of TTL eviction on the Redis backend.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore builds an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// NewMemoryStoreWithClock builds a store with an injected clock for tests.
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     now,
	}
}

func (s *MemoryStore) Put(_ context.Context, credentialID string, rec Record, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[credentialID]; ok && s.now().Before(entry.expiresAt) {
		return ErrAlreadyExists
	}
	s.entries[credentialID] = memoryEntry{rec: rec, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, credentialID string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[credentialID]
	if !ok {
		return Record{}, ErrNotFound
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, credentialID)
		return Record{}, ErrNotFound
	}
	return entry.rec, nil
}

func (s *MemoryStore) MarkUsedIfUnused(_ context.Context, credentialID string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[credentialID]
	if !ok {
		return false, ErrNotFound
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, credentialID)
		return false, ErrNotFound
	}
	if entry.rec.Used {
		return false, nil
	}

	usedAt := at
	entry.rec.Used = true
	entry.rec.UsedAt = &usedAt
	s.entries[credentialID] = entry
	return true, nil
}
