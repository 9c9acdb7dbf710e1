package handoff

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store for development and tests.
type MemoryStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	record    Record
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[uuid.UUID]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Put(ctx context.Context, record Record, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweepLocked(now)
	entry := memoryEntry{record: record}
	if ttl > 0 {
		entry.expiresAt = now.Add(ttl)
	}
	s.records[record.ID] = entry
	return nil
}

// Len reports how many records are held, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// sweepLocked drops expired records; unread handoffs would otherwise pile up.
func (s *MemoryStore) sweepLocked(now time.Time) {
	for id, entry := range s.records {
		if !entry.expiresAt.IsZero() && !now.Before(entry.expiresAt) {
			delete(s.records, id)
		}
	}
}

func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		delete(s.records, id)
		return Record{}, ErrNotFound
	}
	return entry.record, nil
}
