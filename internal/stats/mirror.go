package stats

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// mirrorKeyPrefix namespaces fire-count keys in Redis.
// Example: "rulestat:7d0e3f..."
const mirrorKeyPrefix = "rulestat:"

// Mirror is the optional Redis L2 for fire counts. It is a lookup
// accelerator shared across instances, never the source of truth: writes are
// best-effort and a Redis outage only degrades reads back to PostgreSQL.
type Mirror struct {
	client *redis.Client
}

// NewMirror wraps an established Redis client.
func NewMirror(client *redis.Client) *Mirror {
	if client == nil {
		panic("stats: redis client cannot be nil")
	}
	return &Mirror{client: client}
}

// Name identifies the mirror in clear-all logging.
func (m *Mirror) Name() string {
	return "rulestat_mirror"
}

// Get reads a mirrored count. A missing or unparsable key reports not-found,
// which sends the caller to the persisted counter.
func (m *Mirror) Get(ctx context.Context, ruleID uuid.UUID) (int64, bool, error) {
	raw, err := m.client.Get(ctx, mirrorKeyPrefix+ruleID.String()).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read mirrored fire count: %w", err)
	}

	count, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return count, true, nil
}

// Set writes a mirrored count without expiry; the value is refreshed on
// every increment and swept by the cache administration boundary.
func (m *Mirror) Set(ctx context.Context, ruleID uuid.UUID, count int64) error {
	if err := m.client.Set(ctx, mirrorKeyPrefix+ruleID.String(), count, 0).Err(); err != nil {
		return fmt.Errorf("failed to mirror fire count: %w", err)
	}
	return nil
}

// Clear removes every mirrored counter. It scans instead of KEYS to avoid
// blocking Redis on large keyspaces.
func (m *Mirror) Clear(ctx context.Context) error {
	iter := m.client.Scan(ctx, 0, mirrorKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := m.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete mirrored key %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan mirrored keys: %w", err)
	}
	return nil
}
