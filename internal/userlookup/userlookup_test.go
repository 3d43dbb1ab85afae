package userlookup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectteamwork/finrec/internal/cache"
)

func TestSplitName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantFirst string
		wantLast  string
		wantOK    bool
	}{
		{name: "simple", input: "Ivan Ivanov", wantFirst: "Ivan", wantLast: "Ivanov", wantOK: true},
		{name: "extra whitespace collapsed", input: "  Ivan   Ivanov  ", wantFirst: "Ivan", wantLast: "Ivanov", wantOK: true},
		{name: "single token", input: "Ivan", wantOK: false},
		{name: "three tokens", input: "Ivan Ivanovich Ivanov", wantOK: false},
		{name: "empty", input: "", wantOK: false},
		{name: "only spaces", input: "   ", wantOK: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			first, last, ok := SplitName(tt.input)

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantFirst, first)
				assert.Equal(t, tt.wantLast, last)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "IVAN IVANOV", NormalizeName("ivan ivanov"))
	assert.Equal(t, "IVAN IVANOV", NormalizeName("  Ivan   Ivanov "))
	assert.Equal(t, NormalizeName("Ivan Ivanov"), NormalizeName("IVAN  IVANOV"),
		"case and spacing variants must share a cache key")
}

// stubResolver answers from a fixed map and counts calls.
type stubResolver struct {
	users map[string]uuid.UUID
	calls int
	err   error
}

func (s *stubResolver) Resolve(_ context.Context, fullName string) (uuid.UUID, bool, error) {
	s.calls++
	if s.err != nil {
		return uuid.Nil, false, s.err
	}
	id, ok := s.users[fullName]
	return id, ok, nil
}

func newCached(t *testing.T, source Resolver) *CachedResolver {
	t.Helper()

	ids, err := cache.NewMemory[string, uuid.UUID]("user_id_lookup_test", 100, time.Minute)
	require.NoError(t, err)
	t.Cleanup(ids.Close)

	return NewCachedResolver(source, ids)
}

func TestCachedResolver_SuccessfulLookupIsCached(t *testing.T) {
	t.Parallel()

	// Arrange
	want := uuid.New()
	source := &stubResolver{users: map[string]uuid.UUID{"Ivan Ivanov": want}}
	resolver := newCached(t, source)
	ctx := context.Background()

	// Act
	id1, found1, err := resolver.Resolve(ctx, "Ivan Ivanov")
	require.NoError(t, err)
	id2, found2, err := resolver.Resolve(ctx, "ivan   ivanov")
	require.NoError(t, err)

	// Assert: the second call hits the cache through the normalized key.
	assert.True(t, found1)
	assert.True(t, found2)
	assert.Equal(t, want, id1)
	assert.Equal(t, want, id2)
	assert.Equal(t, 1, source.calls)
}

func TestCachedResolver_MissIsNotCached(t *testing.T) {
	t.Parallel()

	source := &stubResolver{users: map[string]uuid.UUID{}}
	resolver := newCached(t, source)
	ctx := context.Background()

	_, found, err := resolver.Resolve(ctx, "Ghost User")
	require.NoError(t, err)
	assert.False(t, found)

	// The user appears later; a cached miss would hide them.
	want := uuid.New()
	source.users["Ghost User"] = want

	id, found, err := resolver.Resolve(ctx, "Ghost User")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, id)
}

func TestCachedResolver_ErrorsPropagate(t *testing.T) {
	t.Parallel()

	failure := errors.New("db down")
	resolver := newCached(t, &stubResolver{err: failure})

	_, found, err := resolver.Resolve(context.Background(), "Ivan Ivanov")

	require.Error(t, err)
	assert.ErrorIs(t, err, failure)
	assert.False(t, found)
}
