package stats

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Compile-time check that MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-memory Store for tests and single-node development.
// A single mutex serializes increments, matching the atomicity contract.
type MemoryStore struct {
	mu     sync.Mutex
	counts map[uuid.UUID]int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counts: make(map[uuid.UUID]int64)}
}

// Increment bumps the counter under the lock and returns the new value.
func (s *MemoryStore) Increment(_ context.Context, ruleID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[ruleID]++
	return s.counts[ruleID], nil
}

// Count reads the counter without creating a record.
func (s *MemoryStore) Count(_ context.Context, ruleID uuid.UUID) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count, ok := s.counts[ruleID]
	return count, ok, nil
}
