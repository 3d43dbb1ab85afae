package cache

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// HealthChecker probes the optional fire-count mirror. It only exists when
// Redis is configured; an unconfigured deployment registers no checker.
type HealthChecker struct {
	client *redis.Client
}

// NewHealthChecker wraps the given Redis client.
func NewHealthChecker(client *redis.Client) *HealthChecker {
	return &HealthChecker{client: client}
}

// Name identifies the component on the readiness probe.
func (h *HealthChecker) Name() string { return "redis" }

// Check pings the mirror.
func (h *HealthChecker) Check(ctx context.Context) error {
	if h.client == nil {
		return errors.New("redis client is nil")
	}
	return h.client.Ping(ctx).Err()
}
