package userlookup

import (
	"context"

	"github.com/google/uuid"

	"github.com/projectteamwork/finrec/internal/cache"
	"github.com/projectteamwork/finrec/internal/observability"
)

// Compile-time check that CachedResolver implements Resolver.
var _ Resolver = (*CachedResolver)(nil)

// CachedResolver is a read-through caching decorator around a Resolver.
// Only successful single-match resolutions are cached; misses and failures
// are retried on the next call.
type CachedResolver struct {
	source Resolver
	ids    *cache.Memory[string, uuid.UUID]
}

// NewCachedResolver wraps source with the given cache handle.
func NewCachedResolver(source Resolver, ids *cache.Memory[string, uuid.UUID]) *CachedResolver {
	if source == nil {
		panic("userlookup: source resolver cannot be nil")
	}
	if ids == nil {
		panic("userlookup: cache handle is required")
	}
	return &CachedResolver{source: source, ids: ids}
}

// Resolve serves from the cache on a normalized-name key when possible.
func (c *CachedResolver) Resolve(ctx context.Context, fullName string) (uuid.UUID, bool, error) {
	key := NormalizeName(fullName)
	if id, ok := c.ids.Get(key); ok {
		observability.CacheHits.WithLabelValues(c.ids.Name()).Inc()
		return id, true, nil
	}
	observability.CacheMisses.WithLabelValues(c.ids.Name()).Inc()

	id, found, err := c.source.Resolve(ctx, fullName)
	if err != nil || !found {
		return uuid.Nil, false, err
	}
	c.ids.Set(key, id)
	return id, true, nil
}
