//go:build integration

package stats_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectteamwork/finrec/internal/stats"
	"github.com/projectteamwork/finrec/internal/testsupport"
)

// TestPostgresStore_Integration validates the fire-count upsert against a
// real database, including exactness under concurrent increments.
func TestPostgresStore_Integration(t *testing.T) {
	ctx := context.Background()

	pgContainer, err := testsupport.StartPostgresContainer(ctx, "../../migrations/rules")
	require.NoError(t, err, "failed to start postgres container")
	defer func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}()

	store := stats.NewPostgresStore(pgContainer.DB)

	t.Run("Should report zero and not-found for an unseen rule", func(t *testing.T) {
		count, found, err := store.Count(ctx, uuid.New())
		require.NoError(t, err)
		assert.False(t, found)
		assert.Zero(t, count)
	})

	t.Run("Should create the record lazily on first increment", func(t *testing.T) {
		ruleID := uuid.New()

		got, err := store.Increment(ctx, ruleID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got)

		count, found, err := store.Count(ctx, ruleID)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Should count exactly under concurrent increments", func(t *testing.T) {
		const (
			workers   = 8
			perWorker = 25
			wantTotal = int64(workers * perWorker)
		)
		ruleID := uuid.New()

		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < perWorker; j++ {
					if _, err := store.Increment(ctx, ruleID); err != nil {
						t.Error(err)
						return
					}
				}
			}()
		}
		wg.Wait()

		count, found, err := store.Count(ctx, ruleID)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, wantTotal, count)
	})
}
