package stats

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/projectteamwork/finrec/internal/cache"
	"github.com/projectteamwork/finrec/internal/observability"
)

// Tracker is the fire-count subsystem facade. Lookup order is L1 (memory) →
// L2 (Redis mirror, optional) → persisted counter; increments go to the
// persisted counter first and then refresh both cache tiers with the value
// the store returned.
type Tracker struct {
	store  Store
	l1     *cache.Memory[string, int64]
	mirror *Mirror // nil when Redis is not configured
	logger *slog.Logger

	refreshMu sync.Mutex
}

// NewTracker creates a Tracker. The mirror may be nil.
func NewTracker(store Store, l1 *cache.Memory[string, int64], mirror *Mirror, logger *slog.Logger) *Tracker {
	if store == nil {
		panic("stats: store cannot be nil")
	}
	if l1 == nil {
		panic("stats: l1 cache cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{store: store, l1: l1, mirror: mirror, logger: logger}
}

// Increment records one match for the rule. The persisted counter is the
// source of truth; cache tiers are refreshed to the returned value so a
// subsequent Count sees the new number immediately. Mirror failures degrade
// to a warning: losing the accelerator must not fail the recommendation.
func (t *Tracker) Increment(ctx context.Context, ruleID uuid.UUID) error {
	count, err := t.store.Increment(ctx, ruleID)
	if err != nil {
		return err
	}
	observability.FireCountIncrements.Inc()

	t.refreshL1(ruleID.String(), count)

	if t.mirror != nil {
		if err := t.mirror.Set(ctx, ruleID, count); err != nil {
			t.logger.Warn("fire-count mirror update failed",
				slog.String("rule_id", ruleID.String()),
				slog.String("error", err.Error()),
			)
		}
	}
	return nil
}

// Count reports the current fire count for the rule, 0 if it has never
// matched. Reading never creates a record.
func (t *Tracker) Count(ctx context.Context, ruleID uuid.UUID) (int64, error) {
	key := ruleID.String()

	if v, ok := t.l1.Get(key); ok {
		observability.CacheHits.WithLabelValues(t.l1.Name()).Inc()
		return v, nil
	}
	observability.CacheMisses.WithLabelValues(t.l1.Name()).Inc()

	if t.mirror != nil {
		v, ok, err := t.mirror.Get(ctx, ruleID)
		if err != nil {
			t.logger.Warn("fire-count mirror read failed",
				slog.String("rule_id", ruleID.String()),
				slog.String("error", err.Error()),
			)
		} else if ok {
			t.refreshL1(key, v)
			return v, nil
		}
	}

	count, found, err := t.store.Count(ctx, ruleID)
	if err != nil {
		return 0, err
	}
	if !found {
		// Unseen rules report 0; the record appears on first match only,
		// so the zero is not cached as if it were persisted state.
		return 0, nil
	}

	t.refreshL1(key, count)
	return count, nil
}

// refreshL1 advances the cached count without ever regressing it. Counts
// returned by the store can arrive out of order under concurrent
// increments, and the persisted counter only grows, so a lower value is
// always stale.
func (t *Tracker) refreshL1(key string, count int64) {
	t.refreshMu.Lock()
	defer t.refreshMu.Unlock()

	if cur, ok := t.l1.Get(key); ok && cur >= count {
		return
	}
	t.l1.Set(key, count)
}
