package facts

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/projectteamwork/finrec/internal/cache"
	"github.com/projectteamwork/finrec/internal/observability"
)

// Compile-time check that CachedProvider implements Provider.
var _ Provider = (*CachedProvider)(nil)

// Caches bundles the three fact cache handles. Each fact kind gets its own
// handle so they can be sized, cleared, and observed independently.
type Caches struct {
	Exists *cache.Memory[string, bool]
	Count  *cache.Memory[string, int]
	Sum    *cache.Memory[string, int64]
}

// CachedProvider is a read-through caching decorator around a Provider.
// Errors are never cached: a failed lookup is retried on the next call.
type CachedProvider struct {
	source Provider
	caches Caches
}

// NewCachedProvider wraps source with the given cache handles.
func NewCachedProvider(source Provider, caches Caches) *CachedProvider {
	if source == nil {
		panic("facts: source provider cannot be nil")
	}
	if caches.Exists == nil || caches.Count == nil || caches.Sum == nil {
		panic("facts: all fact cache handles are required")
	}
	return &CachedProvider{source: source, caches: caches}
}

// HasProductType serves from the exists cache when possible.
func (c *CachedProvider) HasProductType(ctx context.Context, userID uuid.UUID, productType string) (bool, error) {
	key := factKey(userID, productType)
	if v, ok := c.caches.Exists.Get(key); ok {
		observability.CacheHits.WithLabelValues(c.caches.Exists.Name()).Inc()
		return v, nil
	}
	observability.CacheMisses.WithLabelValues(c.caches.Exists.Name()).Inc()

	v, err := c.source.HasProductType(ctx, userID, productType)
	if err != nil {
		return false, err
	}
	observability.FactQueriesTotal.WithLabelValues("exists").Inc()
	c.caches.Exists.Set(key, v)
	return v, nil
}

// CountTransactions serves from the count cache when possible.
func (c *CachedProvider) CountTransactions(ctx context.Context, userID uuid.UUID, productType string) (int, error) {
	key := factKey(userID, productType)
	if v, ok := c.caches.Count.Get(key); ok {
		observability.CacheHits.WithLabelValues(c.caches.Count.Name()).Inc()
		return v, nil
	}
	observability.CacheMisses.WithLabelValues(c.caches.Count.Name()).Inc()

	v, err := c.source.CountTransactions(ctx, userID, productType)
	if err != nil {
		return 0, err
	}
	observability.FactQueriesTotal.WithLabelValues("count").Inc()
	c.caches.Count.Set(key, v)
	return v, nil
}

// SumAmount serves from the sum cache when possible.
func (c *CachedProvider) SumAmount(ctx context.Context, userID uuid.UUID, productType, direction string) (int64, error) {
	key := factKey(userID, productType, direction)
	if v, ok := c.caches.Sum.Get(key); ok {
		observability.CacheHits.WithLabelValues(c.caches.Sum.Name()).Inc()
		return v, nil
	}
	observability.CacheMisses.WithLabelValues(c.caches.Sum.Name()).Inc()

	v, err := c.source.SumAmount(ctx, userID, productType, direction)
	if err != nil {
		return 0, err
	}
	observability.FactQueriesTotal.WithLabelValues("sum").Inc()
	c.caches.Sum.Set(key, v)
	return v, nil
}

// factKey builds a composite cache key from the exact query arguments.
// Product type comparison in the source is case-sensitive, so the key must
// not fold case: "debit" and "DEBIT" are different questions with possibly
// different answers.
func factKey(userID uuid.UUID, parts ...string) string {
	b := strings.Builder{}
	b.WriteString(userID.String())
	for _, p := range parts {
		b.WriteByte(':')
		b.WriteString(p)
	}
	return b.String()
}
