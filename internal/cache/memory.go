// Package cache provides the injected in-memory cache handles used across
// the service, plus the registry that coordinates the "clear all caches"
// administrative operation. There is no ambient cache state: every handle is
// constructed at boot and passed to its consumer explicitly.
package cache

import (
	"context"
	"time"

	"github.com/maypok86/otter"
)

// Memory is a bounded in-memory cache backed by the contention-free S3-FIFO
// implementation from the otter library. Capacity is a hard item cap and the
// TTL is a safety net against stale aggregates.
type Memory[K comparable, V any] struct {
	name  string
	store otter.Cache[K, V]
}

// NewMemory builds a named cache with the given capacity and TTL.
// The name identifies the cache in metrics and clear-all logging.
func NewMemory[K comparable, V any](name string, capacity int, ttl time.Duration) (*Memory[K, V], error) {
	store, err := otter.MustBuilder[K, V](capacity).
		WithTTL(ttl).
		Build()
	if err != nil {
		return nil, err
	}

	return &Memory[K, V]{name: name, store: store}, nil
}

// Name returns the cache identifier.
func (c *Memory[K, V]) Name() string {
	return c.name
}

// Get retrieves a value. The second return reports whether it was present.
func (c *Memory[K, V]) Get(key K) (V, bool) {
	return c.store.Get(key)
}

// Set adds or updates an entry. The configured TTL applies automatically.
func (c *Memory[K, V]) Set(key K, value V) {
	c.store.Set(key, value)
}

// Delete removes a single entry.
func (c *Memory[K, V]) Delete(key K) {
	c.store.Delete(key)
}

// Size returns the current number of entries.
func (c *Memory[K, V]) Size() int {
	return c.store.Size()
}

// Clear evicts every entry. It satisfies the Clearable interface; the
// context is unused since the operation is purely in-memory.
func (c *Memory[K, V]) Clear(_ context.Context) error {
	c.store.Clear()
	return nil
}

// Close shuts down the cache and its background cleanup goroutines.
func (c *Memory[K, V]) Close() {
	c.store.Close()
}
