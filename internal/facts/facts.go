// Package facts provides the aggregation facts provider: the three queries
// over a user's transaction history that predicates are evaluated against.
// Lookups are expensive (SQL aggregates over the transactions store), so the
// package also ships a caching decorator that keeps results close to the
// engine.
package facts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrDataAccess marks failures of the underlying transactions store. It is
// deliberately distinct from the rule-definition errors in the rules package:
// a data-access failure means the source is unavailable, not that a rule is
// broken.
var ErrDataAccess = errors.New("transactions store unavailable")

// Transaction directions recognized by the aggregation queries.
const (
	DirectionDeposit  = "DEPOSIT"
	DirectionWithdraw = "WITHDRAW"
)

// Provider answers aggregation queries about one user's transactions. All
// operations are idempotent and side-effect-free; results reflect some
// consistent point-in-time snapshot, possibly up to the cache TTL stale.
type Provider interface {
	// HasProductType reports whether the user has at least one transaction
	// against a product of the given type.
	HasProductType(ctx context.Context, userID uuid.UUID, productType string) (bool, error)

	// CountTransactions returns the number of the user's transactions
	// against the given product type.
	CountTransactions(ctx context.Context, userID uuid.UUID, productType string) (int, error)

	// SumAmount returns the summed amount of the user's transactions for a
	// product type and direction. It returns 0 when there are none.
	SumAmount(ctx context.Context, userID uuid.UUID, productType, direction string) (int64, error)
}

func wrapDataAccess(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrDataAccess, op, err)
}
