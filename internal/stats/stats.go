// Package stats tracks how often each dynamic rule has matched (its fire
// count). The persisted counter lives in PostgreSQL; a fast-lookup in-memory
// cache and an optional Redis mirror keep reads cheap. Increments are atomic
// at the storage layer, so concurrent matches for the same rule never lose
// updates.
package stats

import (
	"context"

	"github.com/google/uuid"
)

// Store persists fire counters. Implementations must make Increment atomic:
// two concurrent increments for the same rule id must both be reflected in
// the final count.
type Store interface {
	// Increment bumps the counter for the rule, creating the record lazily
	// at 1 if unseen, and returns the new value.
	Increment(ctx context.Context, ruleID uuid.UUID) (int64, error)

	// Count returns the persisted counter and whether a record exists.
	// Reading an unseen rule must not create a record.
	Count(ctx context.Context, ruleID uuid.UUID) (int64, bool, error)
}
