package cache

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Clearable is any cache that can evict all of its entries.
type Clearable interface {
	Name() string
	Clear(ctx context.Context) error
}

// Registry coordinates eviction across every cache in the service so the
// administrative "clear all caches" operation is a single call. A mutex
// serializes sweeps: callers never observe a partially cleared set being
// repopulated by a concurrent sweep of the same operation.
type Registry struct {
	mu     sync.Mutex
	caches []Clearable
	logger *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{logger: logger}
}

// Register adds caches to the sweep set. Not safe for use concurrently with
// ClearAll; registration happens once at boot.
func (r *Registry) Register(caches ...Clearable) {
	r.caches = append(r.caches, caches...)
}

// ClearAll evicts every registered cache. All caches are attempted even if
// one fails; the joined error reports every failure so the caller knows the
// eviction was partial.
func (r *Registry) ClearAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, c := range r.caches {
		if err := c.Clear(ctx); err != nil {
			r.logger.Error("cache clear failed",
				slog.String("cache", c.Name()),
				slog.String("error", err.Error()),
			)
			errs = append(errs, err)
			continue
		}
		r.logger.Info("cache cleared", slog.String("cache", c.Name()))
	}

	return errors.Join(errs...)
}
