package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// HealthChecker reports connectivity of one PostgreSQL pool. The service
// runs two pools (rules, transactions), so the name is injected.
type HealthChecker struct {
	name string
	pool *pgxpool.Pool
}

// NewHealthChecker creates a named health checker for the given pool.
func NewHealthChecker(name string, pool *pgxpool.Pool) *HealthChecker {
	return &HealthChecker{name: name, pool: pool}
}

// Name returns the component name.
func (h *HealthChecker) Name() string {
	return h.name
}

// Check verifies the connection with a ping.
func (h *HealthChecker) Check(ctx context.Context) error {
	if h.pool == nil {
		return fmt.Errorf("database connection is nil")
	}
	return h.pool.Ping(ctx)
}
