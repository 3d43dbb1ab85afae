// Package engine implements the dynamic rule engine: a single
// parse-and-validate step compiles each predicate's untyped string arguments
// into a typed condition, and the evaluator AND-combines the conditions over
// the aggregation facts provider with short-circuiting and per-predicate
// negation.
package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/projectteamwork/finrec/internal/facts"
	"github.com/projectteamwork/finrec/internal/rules"
)

// activeUserThreshold is the minimum transaction count for ACTIVE_USER_OF.
const activeUserThreshold = 5

// operator is a validated comparison operator over summed amounts.
type operator string

const (
	opGT  operator = ">"
	opLT  operator = "<"
	opEQ  operator = "="
	opGTE operator = ">="
	opLTE operator = "<="
)

// parseOperator validates an operator token. Anything outside the supported
// set fails with ErrUnsupportedOperator.
func parseOperator(token string) (operator, error) {
	switch op := operator(token); op {
	case opGT, opLT, opEQ, opGTE, opLTE:
		return op, nil
	default:
		return "", fmt.Errorf("%w: %q", rules.ErrUnsupportedOperator, token)
	}
}

// compare applies the operator to two amounts.
func (op operator) compare(left, right int64) bool {
	switch op {
	case opGT:
		return left > right
	case opLT:
		return left < right
	case opEQ:
		return left == right
	case opGTE:
		return left >= right
	default:
		return left <= right
	}
}

// condition is a compiled predicate: kind dispatch has already happened and
// the arguments are strongly typed, so eval can only fail on data access.
type condition interface {
	eval(ctx context.Context, provider facts.Provider, userID uuid.UUID) (bool, error)
}

// userOf: the user has at least one transaction against the product type.
type userOf struct {
	productType string
}

func (c userOf) eval(ctx context.Context, provider facts.Provider, userID uuid.UUID) (bool, error) {
	return provider.HasProductType(ctx, userID, c.productType)
}

// activeUserOf: the user has at least activeUserThreshold transactions
// against the product type.
type activeUserOf struct {
	productType string
}

func (c activeUserOf) eval(ctx context.Context, provider facts.Provider, userID uuid.UUID) (bool, error) {
	count, err := provider.CountTransactions(ctx, userID, c.productType)
	if err != nil {
		return false, err
	}
	return count >= activeUserThreshold, nil
}

// sumCompare: sum(productType, direction) OP constant.
type sumCompare struct {
	productType string
	direction   string
	op          operator
	constant    int64
}

func (c sumCompare) eval(ctx context.Context, provider facts.Provider, userID uuid.UUID) (bool, error) {
	sum, err := provider.SumAmount(ctx, userID, c.productType, c.direction)
	if err != nil {
		return false, err
	}
	return c.op.compare(sum, c.constant), nil
}

// sumCompareDual: sum(A) OP sum(B) across two product type/direction pairs.
type sumCompareDual struct {
	leftProductType  string
	leftDirection    string
	op               operator
	rightProductType string
	rightDirection   string
}

func (c sumCompareDual) eval(ctx context.Context, provider facts.Provider, userID uuid.UUID) (bool, error) {
	left, err := provider.SumAmount(ctx, userID, c.leftProductType, c.leftDirection)
	if err != nil {
		return false, err
	}
	right, err := provider.SumAmount(ctx, userID, c.rightProductType, c.rightDirection)
	if err != nil {
		return false, err
	}
	return c.op.compare(left, right), nil
}
