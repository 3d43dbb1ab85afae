package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/projectteamwork/finrec/internal/rules"
)

// Compile-time check that MemoryStore implements Repository.
var _ Repository = (*MemoryStore)(nil)

// MemoryStore is an in-memory Repository for tests and single-node
// development. Rules are cloned on the way in and out so callers never share
// mutable state with the store.
type MemoryStore struct {
	mu    sync.RWMutex
	rules map[uuid.UUID]rules.Rule
}

// NewMemoryStore creates an empty in-memory repository.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rules: make(map[uuid.UUID]rules.Rule)}
}

// Create assigns an id and stores a clone of the rule.
func (s *MemoryStore) Create(_ context.Context, rule *rules.Rule) error {
	rule.Normalize()
	rule.ID = uuid.New()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules[rule.ID] = rule.Clone()
	return nil
}

// List returns clones of all rules, ordered by id for determinism.
func (s *MemoryStore) List(_ context.Context) ([]rules.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]rules.Rule, 0, len(s.rules))
	for _, r := range s.rules {
		out = append(out, r.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// DeleteByProductID drops every rule for the product.
func (s *MemoryStore) DeleteByProductID(_ context.Context, productID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, r := range s.rules {
		if r.ProductID == productID {
			delete(s.rules, id)
		}
	}
	return nil
}
