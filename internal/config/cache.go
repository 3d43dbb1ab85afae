package config

import (
	"fmt"
	"time"
)

// CacheConfig sizes the in-memory caches. One capacity/TTL pair applies to
// the fact caches (sum, exists, count); the remaining caches have their own
// knobs since their entry counts differ by orders of magnitude.
type CacheConfig struct {
	// Fact caches: keyed by user + product type (+ direction).
	FactCapacity int           `envconfig:"FACT_CAPACITY" default:"10000" validate:"min=1"`
	FactTTL      time.Duration `envconfig:"FACT_TTL" default:"10m"`

	// Rule evaluation results: keyed by rule id + user id.
	EvalCapacity int           `envconfig:"EVAL_CAPACITY" default:"10000" validate:"min=1"`
	EvalTTL      time.Duration `envconfig:"EVAL_TTL" default:"10m"`

	// Fire-count stats: keyed by rule id.
	StatCapacity int           `envconfig:"STAT_CAPACITY" default:"1000" validate:"min=1"`
	StatTTL      time.Duration `envconfig:"STAT_TTL" default:"10m"`

	// Rule listing: a single entry, but otter needs a minimum capacity.
	ListingCapacity int           `envconfig:"LISTING_CAPACITY" default:"16" validate:"min=1"`
	ListingTTL      time.Duration `envconfig:"LISTING_TTL" default:"5m"`

	// Assembled recommendations: keyed by user id.
	RecommendationCapacity int           `envconfig:"RECOMMENDATION_CAPACITY" default:"5000" validate:"min=1"`
	RecommendationTTL      time.Duration `envconfig:"RECOMMENDATION_TTL" default:"5m"`

	// User id lookup: keyed by normalized full name.
	UserLookupCapacity int           `envconfig:"USER_LOOKUP_CAPACITY" default:"5000" validate:"min=1"`
	UserLookupTTL      time.Duration `envconfig:"USER_LOOKUP_TTL" default:"30m"`
}

// Validate checks the cache TTLs are sane.
func (c *CacheConfig) Validate() error {
	for name, ttl := range map[string]time.Duration{
		"fact":           c.FactTTL,
		"eval":           c.EvalTTL,
		"stat":           c.StatTTL,
		"listing":        c.ListingTTL,
		"recommendation": c.RecommendationTTL,
		"user_lookup":    c.UserLookupTTL,
	} {
		if ttl < time.Second {
			return fmt.Errorf("%s cache TTL must be at least 1s, got %s", name, ttl)
		}
	}
	return nil
}
