package recommender

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/projectteamwork/finrec/internal/cache"
	"github.com/projectteamwork/finrec/internal/engine"
	"github.com/projectteamwork/finrec/internal/facts"
	"github.com/projectteamwork/finrec/internal/observability"
	"github.com/projectteamwork/finrec/internal/rules"
	"github.com/projectteamwork/finrec/internal/stats"
	"github.com/projectteamwork/finrec/internal/store"
)

// Service builds the recommendation list for a user. Static rules run first,
// then every dynamic rule from the store. Matches are deduplicated by
// product id with earlier matches winning.
type Service struct {
	staticRules []StaticRule
	provider    facts.Provider
	repo        store.Repository
	evaluator   *engine.Evaluator
	tracker     *stats.Tracker
	results     *cache.Memory[string, []Recommendation]
	logger      *slog.Logger
}

// NewService wires the recommendation pipeline together. All handles except
// the logger are required.
func NewService(
	staticRules []StaticRule,
	provider facts.Provider,
	repo store.Repository,
	evaluator *engine.Evaluator,
	tracker *stats.Tracker,
	results *cache.Memory[string, []Recommendation],
	logger *slog.Logger,
) *Service {
	if provider == nil {
		panic("recommender: facts provider cannot be nil")
	}
	if repo == nil {
		panic("recommender: rule repository cannot be nil")
	}
	if evaluator == nil {
		panic("recommender: evaluator cannot be nil")
	}
	if tracker == nil {
		panic("recommender: stats tracker cannot be nil")
	}
	if results == nil {
		panic("recommender: results cache handle is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		staticRules: staticRules,
		provider:    provider,
		repo:        repo,
		evaluator:   evaluator,
		tracker:     tracker,
		results:     results,
		logger:      logger,
	}
}

// Recommend returns every product recommendation that currently applies to
// the user.
//
// A dynamic rule whose definition cannot be evaluated is logged and skipped
// so one broken rule never hides the rest; a data access failure aborts the
// whole request because a partial answer would be silently wrong. Matching
// dynamic rules have their fire count incremented. The assembled list is
// cached per user until the caches are cleared.
func (s *Service) Recommend(ctx context.Context, userID string) ([]Recommendation, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", rules.ErrInvalidIdentifier, userID)
	}

	key := uid.String()
	if cached, ok := s.results.Get(key); ok {
		observability.CacheHits.WithLabelValues(s.results.Name()).Inc()
		return append([]Recommendation(nil), cached...), nil
	}
	observability.CacheMisses.WithLabelValues(s.results.Name()).Inc()

	var (
		out  []Recommendation
		seen = make(map[uuid.UUID]struct{})
	)
	add := func(rec Recommendation) {
		if _, dup := seen[rec.ProductID]; dup {
			return
		}
		seen[rec.ProductID] = struct{}{}
		out = append(out, rec)
	}

	for _, rule := range s.staticRules {
		rec, matched, err := rule.Check(ctx, s.provider, uid)
		if err != nil {
			return nil, fmt.Errorf("static rule check for user %s: %w", uid, err)
		}
		if matched {
			add(rec)
		}
	}

	dynamic, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list dynamic rules: %w", err)
	}

	for i := range dynamic {
		rule := &dynamic[i]

		matched, err := s.evaluator.Evaluate(ctx, rule, key)
		switch {
		case err == nil:
		case rules.IsDefinitionError(err):
			s.logger.Warn("skipping broken dynamic rule",
				slog.String("rule_id", rule.ID.String()),
				slog.String("error", err.Error()),
			)
			continue
		case errors.Is(err, facts.ErrDataAccess):
			return nil, fmt.Errorf("evaluating rule %s for user %s: %w", rule.ID, uid, err)
		default:
			return nil, fmt.Errorf("evaluating rule %s for user %s: %w", rule.ID, uid, err)
		}

		if !matched {
			continue
		}

		if err := s.tracker.Increment(ctx, rule.ID); err != nil {
			s.logger.Error("failed to record rule firing",
				slog.String("rule_id", rule.ID.String()),
				slog.String("error", err.Error()),
			)
		}
		add(Recommendation{
			Name:      rule.ProductName,
			ProductID: rule.ProductID,
			Text:      rule.ProductText,
		})
	}

	s.results.Set(key, append([]Recommendation(nil), out...))
	return out, nil
}
