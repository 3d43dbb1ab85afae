//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectteamwork/finrec/internal/rules"
	"github.com/projectteamwork/finrec/internal/store"
	"github.com/projectteamwork/finrec/internal/testsupport"
)

// TestPostgresStore_Integration validates rule persistence against a real
// database: transactional create, listing with predicates stitched back in
// stored order, and cascade delete by product.
func TestPostgresStore_Integration(t *testing.T) {
	ctx := context.Background()

	pgContainer, err := testsupport.StartPostgresContainer(ctx, "../../migrations/rules")
	require.NoError(t, err, "failed to start postgres container")
	defer func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}()

	repo := store.NewPostgresStore(pgContainer.DB)

	productID := uuid.New()
	rule := &rules.Rule{
		ProductID:   productID,
		ProductName: "Top Saving",
		ProductText: "Open a savings product",
		Predicates: []rules.Predicate{
			{Kind: rules.KindUserOf, Arguments: mustArgs(t, "DEBIT")},
			{Kind: rules.KindSumCompare, Arguments: mustArgs(t, "SAVING", "DEPOSIT", ">", "50000"), Negate: true},
		},
	}

	t.Run("Should create a rule and assign an id", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, rule))
		assert.NotEqual(t, uuid.Nil, rule.ID)
	})

	t.Run("Should list the rule with predicates in stored order", func(t *testing.T) {
		listed, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, listed, 1)

		got := listed[0]
		assert.Equal(t, rule.ID, got.ID)
		assert.Equal(t, "Top Saving", got.ProductName)
		require.Len(t, got.Predicates, 2)
		assert.Equal(t, rules.KindUserOf, got.Predicates[0].Kind)
		assert.Equal(t, 0, got.Predicates[0].Position)
		assert.Equal(t, rules.KindSumCompare, got.Predicates[1].Kind)
		assert.True(t, got.Predicates[1].Negate)

		args, err := got.Predicates[1].DecodeArguments()
		require.NoError(t, err)
		assert.Equal(t, []string{"SAVING", "DEPOSIT", ">", "50000"}, args)
	})

	t.Run("Should delete all rules of a product including predicates", func(t *testing.T) {
		require.NoError(t, repo.DeleteByProductID(ctx, productID))

		listed, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, listed)
	})

	t.Run("Should succeed deleting a product with no rules", func(t *testing.T) {
		assert.NoError(t, repo.DeleteByProductID(ctx, uuid.New()))
	})
}

func mustArgs(t *testing.T, args ...string) []byte {
	t.Helper()

	blob, err := rules.EncodeArguments(args)
	require.NoError(t, err)
	return blob
}
