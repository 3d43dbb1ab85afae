package userlookup

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Compile-time check that PostgresResolver implements Resolver.
var _ Resolver = (*PostgresResolver)(nil)

// PostgresResolver resolves names against the users table of the transaction
// database. The pool is read-only from this service's point of view.
type PostgresResolver struct {
	pool *pgxpool.Pool
}

// NewPostgresResolver creates a resolver backed by the given pool.
func NewPostgresResolver(pool *pgxpool.Pool) *PostgresResolver {
	if pool == nil {
		panic("userlookup: pool cannot be nil")
	}
	return &PostgresResolver{pool: pool}
}

const resolveQuery = `
	SELECT u.id
	FROM users u
	WHERE UPPER(u.first_name) = UPPER($1)
	  AND UPPER(u.last_name) = UPPER($2)`

// Resolve finds the single user with the given first and last name. Names
// matching zero or several users report not found without error.
func (r *PostgresResolver) Resolve(ctx context.Context, fullName string) (uuid.UUID, bool, error) {
	first, last, ok := SplitName(fullName)
	if !ok {
		return uuid.Nil, false, nil
	}

	rows, err := r.pool.Query(ctx, resolveQuery, first, last)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to query users by name: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return uuid.Nil, false, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to read user rows: %w", err)
	}

	if len(ids) != 1 {
		return uuid.Nil, false, nil
	}
	return ids[0], true, nil
}
