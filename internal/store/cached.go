package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/projectteamwork/finrec/internal/cache"
	"github.com/projectteamwork/finrec/internal/observability"
	"github.com/projectteamwork/finrec/internal/rules"
)

// Compile-time check that CachedRepository implements Repository.
var _ Repository = (*CachedRepository)(nil)

// listingKey is the single entry key of the rule listing cache. The listing
// is cached as one unit because evaluation always needs the full set.
const listingKey = "all"

// CachedRepository is a read-through caching decorator around a Repository.
// Writes invalidate the listing so a subsequent read repopulates it from the
// source of truth.
type CachedRepository struct {
	source  Repository
	listing *cache.Memory[string, []rules.Rule]
}

// NewCachedRepository wraps source with the listing cache handle.
func NewCachedRepository(source Repository, listing *cache.Memory[string, []rules.Rule]) *CachedRepository {
	if source == nil {
		panic("store: source repository cannot be nil")
	}
	if listing == nil {
		panic("store: listing cache handle is required")
	}
	return &CachedRepository{source: source, listing: listing}
}

// Create writes through to the source and drops the cached listing.
func (c *CachedRepository) Create(ctx context.Context, rule *rules.Rule) error {
	if err := c.source.Create(ctx, rule); err != nil {
		return err
	}
	c.listing.Delete(listingKey)
	return nil
}

// List serves the cached listing when present. Callers receive clones so the
// cached slice is never mutated through a returned rule.
func (c *CachedRepository) List(ctx context.Context) ([]rules.Rule, error) {
	if cached, ok := c.listing.Get(listingKey); ok {
		observability.CacheHits.WithLabelValues(c.listing.Name()).Inc()
		return cloneAll(cached), nil
	}
	observability.CacheMisses.WithLabelValues(c.listing.Name()).Inc()

	listed, err := c.source.List(ctx)
	if err != nil {
		return nil, err
	}
	c.listing.Set(listingKey, cloneAll(listed))
	return listed, nil
}

// DeleteByProductID writes through to the source and drops the cached listing.
func (c *CachedRepository) DeleteByProductID(ctx context.Context, productID uuid.UUID) error {
	if err := c.source.DeleteByProductID(ctx, productID); err != nil {
		return err
	}
	c.listing.Delete(listingKey)
	return nil
}

func cloneAll(in []rules.Rule) []rules.Rule {
	out := make([]rules.Rule, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}
