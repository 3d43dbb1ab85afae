package engine

import (
	"fmt"
	"strconv"

	"github.com/projectteamwork/finrec/internal/rules"
)

// compile turns one predicate into a typed condition. This is the single
// place where rule-definition errors surface: blob decoding, kind dispatch,
// arity, operator, and numeric-constant validation all happen here, at
// evaluation time. Extra arguments beyond a kind's arity are ignored.
func compile(p rules.Predicate) (condition, error) {
	kind, err := rules.ParseKind(string(p.Kind))
	if err != nil {
		return nil, err
	}

	args, err := p.DecodeArguments()
	if err != nil {
		return nil, err
	}

	switch kind {
	case rules.KindUserOf:
		if err := requireArgs(kind, args, 1); err != nil {
			return nil, err
		}
		return userOf{productType: args[0]}, nil

	case rules.KindActiveUserOf:
		if err := requireArgs(kind, args, 1); err != nil {
			return nil, err
		}
		return activeUserOf{productType: args[0]}, nil

	case rules.KindSumCompare:
		if err := requireArgs(kind, args, 4); err != nil {
			return nil, err
		}
		op, err := parseOperator(args[2])
		if err != nil {
			return nil, err
		}
		constant, err := strconv.ParseInt(args[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: comparison constant %q is not a base-10 integer", rules.ErrMalformedArgument, args[3])
		}
		return sumCompare{
			productType: args[0],
			direction:   args[1],
			op:          op,
			constant:    constant,
		}, nil

	default: // rules.KindSumCompareDual
		if err := requireArgs(kind, args, 5); err != nil {
			return nil, err
		}
		op, err := parseOperator(args[2])
		if err != nil {
			return nil, err
		}
		return sumCompareDual{
			leftProductType:  args[0],
			leftDirection:    args[1],
			op:               op,
			rightProductType: args[3],
			rightDirection:   args[4],
		}, nil
	}
}

func requireArgs(kind rules.Kind, args []string, want int) error {
	if len(args) < want {
		return &rules.ArityError{Kind: kind, Want: want, Got: len(args)}
	}
	return nil
}
