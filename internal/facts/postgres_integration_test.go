//go:build integration

package facts_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectteamwork/finrec/internal/facts"
	"github.com/projectteamwork/finrec/internal/testsupport"
)

// TestPostgresProvider_Integration validates the fact aggregates against a
// real transactions schema.
func TestPostgresProvider_Integration(t *testing.T) {
	ctx := context.Background()

	pgContainer, err := testsupport.StartPostgresContainer(ctx, "../../migrations/transactions")
	require.NoError(t, err, "failed to start postgres container")
	defer func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}()

	userID := uuid.New()
	otherUserID := uuid.New()
	seedTransactions(ctx, t, pgContainer.DB, userID, otherUserID)

	provider := facts.NewPostgresProvider(pgContainer.DB)

	t.Run("Should detect product usage", func(t *testing.T) {
		has, err := provider.HasProductType(ctx, userID, "DEBIT")
		require.NoError(t, err)
		assert.True(t, has)

		has, err = provider.HasProductType(ctx, userID, "INVEST")
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("Should count transactions per product type", func(t *testing.T) {
		count, err := provider.CountTransactions(ctx, userID, "DEBIT")
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("Should sum amounts per product type and direction", func(t *testing.T) {
		deposits, err := provider.SumAmount(ctx, userID, "DEBIT", facts.DirectionDeposit)
		require.NoError(t, err)
		assert.Equal(t, int64(60_000), deposits)

		withdraws, err := provider.SumAmount(ctx, userID, "DEBIT", facts.DirectionWithdraw)
		require.NoError(t, err)
		assert.Equal(t, int64(15_000), withdraws)
	})

	t.Run("Should return zero sum when the user has no matching rows", func(t *testing.T) {
		sum, err := provider.SumAmount(ctx, userID, "SAVING", facts.DirectionDeposit)
		require.NoError(t, err)
		assert.Zero(t, sum)
	})

	t.Run("Should isolate users from each other", func(t *testing.T) {
		count, err := provider.CountTransactions(ctx, otherUserID, "DEBIT")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

// seedTransactions inserts two users sharing one DEBIT product. The first
// user gets two deposits (50k + 10k) and one withdrawal (15k); the second
// gets a single deposit.
func seedTransactions(ctx context.Context, t *testing.T, db *pgxpool.Pool, userID, otherUserID uuid.UUID) {
	t.Helper()

	debitProduct := uuid.New()

	_, err := db.Exec(ctx,
		`INSERT INTO users (id, username, first_name, last_name) VALUES
			($1, 'ivan', 'Ivan', 'Ivanov'),
			($2, 'maria', 'Maria', 'Petrova')`,
		userID, otherUserID,
	)
	require.NoError(t, err)

	_, err = db.Exec(ctx,
		`INSERT INTO products (id, type, name) VALUES ($1, 'DEBIT', 'Everyday Debit')`,
		debitProduct,
	)
	require.NoError(t, err)

	for _, tx := range []struct {
		user      uuid.UUID
		direction string
		amount    int64
	}{
		{userID, facts.DirectionDeposit, 50_000},
		{userID, facts.DirectionDeposit, 10_000},
		{userID, facts.DirectionWithdraw, 15_000},
		{otherUserID, facts.DirectionDeposit, 5_000},
	} {
		_, err = db.Exec(ctx,
			`INSERT INTO transactions (id, user_id, product_id, type, amount)
			 VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), tx.user, debitProduct, tx.direction, tx.amount,
		)
		require.NoError(t, err)
	}
}
