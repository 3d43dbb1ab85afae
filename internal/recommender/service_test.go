package recommender

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectteamwork/finrec/internal/cache"
	"github.com/projectteamwork/finrec/internal/engine"
	"github.com/projectteamwork/finrec/internal/facts"
	"github.com/projectteamwork/finrec/internal/rules"
	"github.com/projectteamwork/finrec/internal/stats"
	"github.com/projectteamwork/finrec/internal/store"
)

// alwaysRule is a static rule with a fixed answer, for wiring tests.
type alwaysRule struct {
	rec     Recommendation
	matched bool
	err     error
}

func (a alwaysRule) Check(context.Context, facts.Provider, uuid.UUID) (Recommendation, bool, error) {
	return a.rec, a.matched, a.err
}

type serviceFixture struct {
	service *Service
	repo    store.Repository
	stats   *stats.MemoryStore
}

func newFixture(t *testing.T, staticRules []StaticRule, provider facts.Provider) *serviceFixture {
	t.Helper()

	evalCache, err := cache.NewMemory[string, bool]("rule_evaluation_test", 100, time.Minute)
	require.NoError(t, err)
	t.Cleanup(evalCache.Close)

	statCache, err := cache.NewMemory[string, int64]("rule_stat_test", 100, time.Minute)
	require.NoError(t, err)
	t.Cleanup(statCache.Close)

	recCache, err := cache.NewMemory[string, []Recommendation]("recommendations_test", 100, time.Minute)
	require.NoError(t, err)
	t.Cleanup(recCache.Close)

	repo := store.NewMemoryStore()
	statStore := stats.NewMemoryStore()
	tracker := stats.NewTracker(statStore, statCache, nil, nil)
	evaluator := engine.New(provider, evalCache, nil)

	return &serviceFixture{
		service: NewService(staticRules, provider, repo, evaluator, tracker, recCache, nil),
		repo:    repo,
		stats:   statStore,
	}
}

func addDynamicRule(t *testing.T, repo store.Repository, productID uuid.UUID, name string, preds ...rules.Predicate) uuid.UUID {
	t.Helper()

	rule := &rules.Rule{
		ProductID:   productID,
		ProductName: name,
		ProductText: "text for " + name,
		Predicates:  preds,
	}
	require.NoError(t, repo.Create(context.Background(), rule))
	return rule.ID
}

func pred(t *testing.T, kind rules.Kind, negate bool, args ...string) rules.Predicate {
	t.Helper()

	blob, err := rules.EncodeArguments(args)
	require.NoError(t, err)
	return rules.Predicate{Kind: kind, Arguments: blob, Negate: negate}
}

func TestRecommend_InvalidUserID(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil, &fakeProvider{})

	_, err := f.service.Recommend(context.Background(), "not-a-uuid")

	require.Error(t, err)
	assert.ErrorIs(t, err, rules.ErrInvalidIdentifier)
}

func TestRecommend_StaticThenDynamicOrder(t *testing.T) {
	t.Parallel()

	// Arrange: one always-matching static rule, one vacuous dynamic rule.
	staticProduct := uuid.New()
	dynamicProduct := uuid.New()

	f := newFixture(t, []StaticRule{
		alwaysRule{rec: Recommendation{Name: "Static", ProductID: staticProduct}, matched: true},
	}, &fakeProvider{})
	addDynamicRule(t, f.repo, dynamicProduct, "Dynamic")

	// Act
	recs, err := f.service.Recommend(context.Background(), uuid.New().String())

	// Assert
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, staticProduct, recs[0].ProductID, "static matches come first")
	assert.Equal(t, dynamicProduct, recs[1].ProductID)
}

func TestRecommend_DeduplicatesByProduct(t *testing.T) {
	t.Parallel()

	// Arrange: static and dynamic rule recommend the same product.
	productID := uuid.New()

	f := newFixture(t, []StaticRule{
		alwaysRule{rec: Recommendation{Name: "Static", ProductID: productID, Text: "static text"}, matched: true},
	}, &fakeProvider{})
	addDynamicRule(t, f.repo, productID, "Dynamic")

	// Act
	recs, err := f.service.Recommend(context.Background(), uuid.New().String())

	// Assert: first match wins.
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Static", recs[0].Name)
}

func TestRecommend_BrokenDynamicRuleIsSkipped(t *testing.T) {
	t.Parallel()

	// Arrange: one broken rule, one healthy vacuous rule.
	f := newFixture(t, nil, &fakeProvider{})
	addDynamicRule(t, f.repo, uuid.New(), "Broken",
		pred(t, rules.KindSumCompare, false, "DEBIT", "DEPOSIT", "!=", "100"))
	healthyProduct := uuid.New()
	addDynamicRule(t, f.repo, healthyProduct, "Healthy")

	// Act
	recs, err := f.service.Recommend(context.Background(), uuid.New().String())

	// Assert: the broken rule never hides the healthy one.
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, healthyProduct, recs[0].ProductID)
}

func TestRecommend_DataAccessFailureAborts(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{err: facts.ErrDataAccess}
	f := newFixture(t, nil, provider)
	addDynamicRule(t, f.repo, uuid.New(), "NeedsFacts",
		pred(t, rules.KindUserOf, false, "DEBIT"))

	_, err := f.service.Recommend(context.Background(), uuid.New().String())

	require.Error(t, err, "a partial recommendation set would be silently wrong")
	assert.ErrorIs(t, err, facts.ErrDataAccess)
}

func TestRecommend_MatchIncrementsFireCount(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil, &fakeProvider{hasProduct: map[string]bool{"DEBIT": true}})
	matchingID := addDynamicRule(t, f.repo, uuid.New(), "Matching",
		pred(t, rules.KindUserOf, false, "DEBIT"))
	missingID := addDynamicRule(t, f.repo, uuid.New(), "NotMatching",
		pred(t, rules.KindUserOf, false, "INVEST"))

	_, err := f.service.Recommend(context.Background(), uuid.New().String())
	require.NoError(t, err)

	count, found, err := f.stats.Count(context.Background(), matchingID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(1), count)

	_, found, err = f.stats.Count(context.Background(), missingID)
	require.NoError(t, err)
	assert.False(t, found, "non-matching rules must not get a stat record")
}

func TestRecommend_ResultIsCachedPerUser(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil, &fakeProvider{hasProduct: map[string]bool{"DEBIT": true}})
	ruleID := addDynamicRule(t, f.repo, uuid.New(), "Matching",
		pred(t, rules.KindUserOf, false, "DEBIT"))
	userID := uuid.New().String()

	first, err := f.service.Recommend(context.Background(), userID)
	require.NoError(t, err)
	second, err := f.service.Recommend(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	// The cached second pass must not re-run the rule and double-count it.
	count, _, err := f.stats.Count(context.Background(), ruleID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRecommend_StaticRuleErrorAborts(t *testing.T) {
	t.Parallel()

	f := newFixture(t, []StaticRule{
		alwaysRule{err: facts.ErrDataAccess},
	}, &fakeProvider{})

	_, err := f.service.Recommend(context.Background(), uuid.New().String())

	require.Error(t, err)
}

func TestRecommend_NoMatchesReturnsEmpty(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil, &fakeProvider{})
	addDynamicRule(t, f.repo, uuid.New(), "NotMatching",
		pred(t, rules.KindUserOf, false, "DEBIT"))

	recs, err := f.service.Recommend(context.Background(), uuid.New().String())

	require.NoError(t, err)
	assert.Empty(t, recs)
}
