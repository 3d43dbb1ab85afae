package facts

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Compile-time check that PostgresProvider implements Provider.
var _ Provider = (*PostgresProvider)(nil)

// PostgresProvider answers fact queries with SQL aggregates over the
// read-only transactions database (transactions JOIN products).
type PostgresProvider struct {
	db *pgxpool.Pool
}

// NewPostgresProvider creates a provider backed by the given pool.
func NewPostgresProvider(db *pgxpool.Pool) *PostgresProvider {
	if db == nil {
		panic("facts: database pool cannot be nil")
	}
	return &PostgresProvider{db: db}
}

// HasProductType checks for the existence of any transaction against a
// product of the given type.
func (p *PostgresProvider) HasProductType(ctx context.Context, userID uuid.UUID, productType string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM transactions t
			INNER JOIN products p ON t.product_id = p.id
			WHERE t.user_id = $1 AND p.type = $2
		)
	`

	var exists bool
	if err := p.db.QueryRow(ctx, query, userID, productType).Scan(&exists); err != nil {
		return false, wrapDataAccess("has product type", err)
	}
	return exists, nil
}

// CountTransactions counts the user's transactions against the product type.
func (p *PostgresProvider) CountTransactions(ctx context.Context, userID uuid.UUID, productType string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM transactions t
		INNER JOIN products p ON t.product_id = p.id
		WHERE t.user_id = $1 AND p.type = $2
	`

	var count int
	if err := p.db.QueryRow(ctx, query, userID, productType).Scan(&count); err != nil {
		return 0, wrapDataAccess("count transactions", err)
	}
	return count, nil
}

// SumAmount sums the user's transaction amounts for a product type and
// direction. COALESCE keeps the no-rows case at 0 instead of NULL.
func (p *PostgresProvider) SumAmount(ctx context.Context, userID uuid.UUID, productType, direction string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(t.amount), 0)
		FROM transactions t
		INNER JOIN products p ON t.product_id = p.id
		WHERE t.user_id = $1 AND t.type = $2 AND p.type = $3
	`

	var sum int64
	if err := p.db.QueryRow(ctx, query, userID, direction, productType).Scan(&sum); err != nil {
		return 0, wrapDataAccess("sum amount", err)
	}
	return sum, nil
}
