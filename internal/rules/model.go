// Package rules defines the dynamic recommendation rule data model: a rule
// ties a recommendable product to an ordered conjunction of predicates, each
// an enumerated boolean check over a user's aggregated transaction facts.
package rules

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Kind enumerates the supported predicate checks. The wire and storage
// representation is the upper-case token.
type Kind string

const (
	// KindUserOf is true when the user has at least one transaction against
	// a product of the given type. Arguments: [productType].
	KindUserOf Kind = "USER_OF"

	// KindActiveUserOf is true when the user has at least five transactions
	// against the product type. Arguments: [productType].
	KindActiveUserOf Kind = "ACTIVE_USER_OF"

	// KindSumCompare compares the summed transaction amount for a product
	// type and direction against an integer constant.
	// Arguments: [productType, direction, operator, constant].
	KindSumCompare Kind = "TRANSACTION_SUM_COMPARE"

	// KindSumCompareDual compares two summed amounts against each other.
	// Arguments: [productTypeA, directionA, operator, productTypeB, directionB].
	KindSumCompareDual Kind = "TRANSACTION_SUM_COMPARE_DEPOSIT_WITHDRAW"
)

// ParseKind normalizes a wire token into a Kind. Unrecognized tokens fail
// with ErrUnknownPredicateKind; they are never silently dropped.
func ParseKind(token string) (Kind, error) {
	switch k := Kind(strings.ToUpper(strings.TrimSpace(token))); k {
	case KindUserOf, KindActiveUserOf, KindSumCompare, KindSumCompareDual:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPredicateKind, token)
	}
}

// Predicate is a single parameterized boolean check belonging to exactly one
// rule. Arguments are transported and persisted as a serialized list of
// strings; their shape is validated at evaluation time, not at creation time.
type Predicate struct {
	// Position is the 0-based ordinal within the owning rule. It determines
	// evaluation (and therefore short-circuit) order, not correctness.
	Position int `json:"position"`

	// Kind selects the check to perform.
	Kind Kind `json:"query"`

	// Arguments is the raw serialized string-list blob.
	Arguments json.RawMessage `json:"arguments"`

	// Negate flips the predicate result before conjunction.
	Negate bool `json:"negate"`
}

// DecodeArguments parses the argument blob into its string list.
// A blob that is not a valid string-list encoding fails with
// ErrMalformedArgumentBlob.
func (p Predicate) DecodeArguments() ([]string, error) {
	var args []string
	if err := json.Unmarshal(p.Arguments, &args); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedArgumentBlob, string(p.Arguments))
	}
	return args, nil
}

// EncodeArguments serializes a string list into the storage blob form.
func EncodeArguments(args []string) (json.RawMessage, error) {
	if args == nil {
		args = []string{}
	}
	blob, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to encode arguments: %w", err)
	}
	return blob, nil
}

// Rule ties a product to the predicates that decide whether it should be
// recommended to a user. Predicates are AND-combined; an empty list is a
// vacuous conjunction and always matches.
type Rule struct {
	ID          uuid.UUID   `json:"id"`
	ProductID   uuid.UUID   `json:"product_id"`
	ProductName string      `json:"product_name"`
	ProductText string      `json:"product_text"`
	Predicates  []Predicate `json:"rule"`
}

// Normalize rewrites predicate positions to the contiguous 0-based sequence
// matching list order, restoring the ownership invariant after transport.
func (r *Rule) Normalize() {
	for i := range r.Predicates {
		r.Predicates[i].Position = i
	}
}

// Clone returns a deep copy. Stores hand out clones so callers can never
// mutate shared cached state.
func (r Rule) Clone() Rule {
	out := r
	out.Predicates = make([]Predicate, len(r.Predicates))
	for i, p := range r.Predicates {
		out.Predicates[i] = p
		out.Predicates[i].Arguments = append(json.RawMessage(nil), p.Arguments...)
	}
	return out
}
