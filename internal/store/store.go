// Package store provides the data access layer for dynamic rule
// definitions. Rules own their predicates exclusively: creating a rule
// persists its predicate list, deleting by product id cascades to the
// predicates.
package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/projectteamwork/finrec/internal/rules"
)

// Repository defines rule persistence operations. Implementations must be
// safe for concurrent use.
type Repository interface {
	// Create persists the rule and its predicates, assigning the rule id
	// and normalizing predicate positions. The rule is stored as given:
	// predicate argument shapes are deliberately not validated here.
	Create(ctx context.Context, rule *rules.Rule) error

	// List returns all rules with their predicates in position order.
	List(ctx context.Context) ([]rules.Rule, error)

	// DeleteByProductID removes every rule for the product along with its
	// predicates. Deleting a product with no rules is not an error.
	DeleteByProductID(ctx context.Context, productID uuid.UUID) error
}
