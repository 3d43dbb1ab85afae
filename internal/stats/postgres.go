package stats

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Compile-time check that PostgresStore implements Store.
var _ Store = (*PostgresStore)(nil)

// PostgresStore persists fire counters in the rule_stats table.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a store backed by the given pool.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	if db == nil {
		panic("stats: database pool cannot be nil")
	}
	return &PostgresStore{db: db}
}

// Increment bumps the counter with a single upsert statement. The
// ON CONFLICT arithmetic runs inside the database, so concurrent increments
// for the same rule id serialize on the row and none are lost.
func (s *PostgresStore) Increment(ctx context.Context, ruleID uuid.UUID) (int64, error) {
	query := `
		INSERT INTO rule_stats (rule_id, fire_count)
		VALUES ($1, 1)
		ON CONFLICT (rule_id)
		DO UPDATE SET fire_count = rule_stats.fire_count + 1
		RETURNING fire_count
	`

	var count int64
	if err := s.db.QueryRow(ctx, query, ruleID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to increment fire count for rule %s: %w", ruleID, err)
	}
	return count, nil
}

// Count reads the persisted counter. A missing record reports (0, false)
// without creating anything.
func (s *PostgresStore) Count(ctx context.Context, ruleID uuid.UUID) (int64, bool, error) {
	query := `SELECT fire_count FROM rule_stats WHERE rule_id = $1`

	var count int64
	err := s.db.QueryRow(ctx, query, ruleID).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read fire count for rule %s: %w", ruleID, err)
	}
	return count, true, nil
}
