package rules

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		token   string
		want    Kind
		wantErr bool
	}{
		{name: "canonical user_of", token: "USER_OF", want: KindUserOf},
		{name: "lower case normalized", token: "user_of", want: KindUserOf},
		{name: "mixed case normalized", token: "Active_User_Of", want: KindActiveUserOf},
		{name: "surrounding whitespace trimmed", token: "  TRANSACTION_SUM_COMPARE  ", want: KindSumCompare},
		{name: "dual sum compare", token: "transaction_sum_compare_deposit_withdraw", want: KindSumCompareDual},
		{name: "unknown token", token: "SOMETHING_ELSE", wantErr: true},
		{name: "empty token", token: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseKind(tt.token)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnknownPredicateKind, "unknown tokens must map to the sentinel")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPredicate_DecodeArguments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		blob    json.RawMessage
		want    []string
		wantErr bool
	}{
		{name: "valid list", blob: json.RawMessage(`["DEBIT", ">", "100"]`), want: []string{"DEBIT", ">", "100"}},
		{name: "empty list", blob: json.RawMessage(`[]`), want: []string{}},
		{name: "not a list", blob: json.RawMessage(`{"a": 1}`), wantErr: true},
		{name: "numeric elements", blob: json.RawMessage(`[1, 2]`), wantErr: true},
		{name: "invalid json", blob: json.RawMessage(`[`), wantErr: true},
		{name: "nil blob", blob: nil, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := Predicate{Kind: KindUserOf, Arguments: tt.blob}
			got, err := p.DecodeArguments()

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedArgumentBlob)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeArguments_RoundTrip(t *testing.T) {
	t.Parallel()

	blob, err := EncodeArguments([]string{"SAVING", "DEPOSIT", ">", "1000"})
	require.NoError(t, err)

	p := Predicate{Kind: KindSumCompare, Arguments: blob}
	got, err := p.DecodeArguments()
	require.NoError(t, err)
	assert.Equal(t, []string{"SAVING", "DEPOSIT", ">", "1000"}, got)
}

func TestEncodeArguments_NilBecomesEmptyList(t *testing.T) {
	t.Parallel()

	blob, err := EncodeArguments(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(blob), "nil arguments must encode as an empty list, not null")
}

func TestRule_Normalize(t *testing.T) {
	t.Parallel()

	r := Rule{
		Predicates: []Predicate{
			{Position: 7, Kind: KindUserOf},
			{Position: 3, Kind: KindActiveUserOf},
			{Position: 11, Kind: KindSumCompare},
		},
	}

	r.Normalize()

	for i, p := range r.Predicates {
		assert.Equal(t, i, p.Position, "positions must be rewritten to list order")
	}
}

func TestRule_Clone_IsDeep(t *testing.T) {
	t.Parallel()

	original := Rule{
		ID:          uuid.New(),
		ProductID:   uuid.New(),
		ProductName: "Invest 500",
		Predicates: []Predicate{
			{Position: 0, Kind: KindUserOf, Arguments: json.RawMessage(`["DEBIT"]`)},
		},
	}

	clone := original.Clone()
	clone.Predicates[0].Kind = KindActiveUserOf
	clone.Predicates[0].Arguments[2] = 'X'

	assert.Equal(t, KindUserOf, original.Predicates[0].Kind, "mutating the clone must not touch the original")
	assert.Equal(t, json.RawMessage(`["DEBIT"]`), original.Predicates[0].Arguments)
}

func TestIsDefinitionError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "unknown kind", err: ErrUnknownPredicateKind, want: true},
		{name: "malformed blob", err: ErrMalformedArgumentBlob, want: true},
		{name: "malformed argument", err: ErrMalformedArgument, want: true},
		{name: "unsupported operator", err: ErrUnsupportedOperator, want: true},
		{name: "arity error", err: &ArityError{Kind: KindUserOf, Want: 1, Got: 0}, want: true},
		{name: "wrapped arity error", err: fmt.Errorf("rule x: %w", &ArityError{Kind: KindSumCompare, Want: 4, Got: 2}), want: true},
		{name: "wrapped sentinel", err: fmt.Errorf("predicate 2: %w", ErrUnsupportedOperator), want: true},
		{name: "invalid identifier is not a definition error", err: ErrInvalidIdentifier, want: false},
		{name: "arbitrary error", err: errors.New("connection refused"), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsDefinitionError(tt.err))
		})
	}
}
