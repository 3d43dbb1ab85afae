package rules

import (
	"errors"
	"fmt"
)

// Rule-definition errors. All of them are evaluation-time failures: a rule
// carrying a malformed predicate is accepted at creation and fails only when
// evaluated, aborting that rule's evaluation for that user. They are distinct
// from data-access failures (see the facts package) so callers can tell
// "this rule is broken" from "the data source is unavailable".
var (
	// ErrInvalidIdentifier marks a malformed user identifier.
	ErrInvalidIdentifier = errors.New("invalid user identifier")

	// ErrUnknownPredicateKind marks an unrecognized predicate kind token.
	ErrUnknownPredicateKind = errors.New("unknown predicate kind")

	// ErrMalformedArgumentBlob marks an argument blob that is not a valid
	// string-list encoding.
	ErrMalformedArgumentBlob = errors.New("malformed argument blob")

	// ErrMalformedArgument marks an argument that is present but
	// semantically invalid (e.g. a non-numeric comparison constant).
	ErrMalformedArgument = errors.New("malformed argument")

	// ErrUnsupportedOperator marks a comparison operator outside the
	// supported set (>, <, =, >=, <=).
	ErrUnsupportedOperator = errors.New("unsupported comparison operator")
)

// ArityError reports a predicate invoked with fewer arguments than its kind
// requires. Extra arguments are ignored.
type ArityError struct {
	Kind Kind
	Want int
	Got  int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("predicate %s requires %d arguments, got %d", e.Kind, e.Want, e.Got)
}

// IsDefinitionError reports whether err belongs to the rule-definition error
// taxonomy, i.e. the containing rule is broken but other rules and the data
// source are unaffected.
func IsDefinitionError(err error) bool {
	var arity *ArityError
	return errors.Is(err, ErrUnknownPredicateKind) ||
		errors.Is(err, ErrMalformedArgumentBlob) ||
		errors.Is(err, ErrMalformedArgument) ||
		errors.Is(err, ErrUnsupportedOperator) ||
		errors.As(err, &arity)
}
