package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/projectteamwork/finrec/internal/cache"
	"github.com/projectteamwork/finrec/internal/facts"
	"github.com/projectteamwork/finrec/internal/observability"
	"github.com/projectteamwork/finrec/internal/rules"
)

// Evaluator decides whether a dynamic rule matches a user. It is
// side-effect-free: fire-count bookkeeping belongs to the caller, which keeps
// the evaluator deterministic and independently testable. Results are cached
// per (rule id, user id) in the injected handle; the evaluator is a pure
// function of its inputs and the facts snapshot, so a cached result is as
// good as a recomputed one until the caches are cleared.
type Evaluator struct {
	provider facts.Provider
	results  *cache.Memory[string, bool]
	logger   *slog.Logger
}

// New creates an Evaluator. The results cache is required; passing the same
// handle to the cache registry is the caller's responsibility.
func New(provider facts.Provider, results *cache.Memory[string, bool], logger *slog.Logger) *Evaluator {
	if provider == nil {
		panic("engine: facts provider cannot be nil")
	}
	if results == nil {
		panic("engine: results cache cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{provider: provider, results: results, logger: logger}
}

// Evaluate checks the rule's predicate conjunction for the user.
//
// Predicates run in stored position order; each result is flipped by its
// negate flag before combining; the first false stops the loop. An empty
// predicate list is a vacuous conjunction and evaluates true.
//
// A malformed user id fails with rules.ErrInvalidIdentifier. A malformed
// predicate fails with the corresponding rule-definition error and aborts
// this rule's evaluation; nothing partial is cached.
func (e *Evaluator) Evaluate(ctx context.Context, rule *rules.Rule, userID string) (bool, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return false, fmt.Errorf("%w: %q", rules.ErrInvalidIdentifier, userID)
	}

	key := rule.ID.String() + "-" + uid.String()
	if v, ok := e.results.Get(key); ok {
		observability.CacheHits.WithLabelValues(e.results.Name()).Inc()
		observability.RuleEvaluationsTotal.WithLabelValues("cached").Inc()
		return v, nil
	}
	observability.CacheMisses.WithLabelValues(e.results.Name()).Inc()

	result, err := e.evaluate(ctx, rule, uid)
	if err != nil {
		observability.RuleEvaluationsTotal.WithLabelValues("error").Inc()
		if rules.IsDefinitionError(err) {
			observability.BrokenRulesTotal.Inc()
		}
		return false, err
	}

	if result {
		observability.RuleEvaluationsTotal.WithLabelValues("match").Inc()
	} else {
		observability.RuleEvaluationsTotal.WithLabelValues("no_match").Inc()
	}

	e.results.Set(key, result)
	return result, nil
}

func (e *Evaluator) evaluate(ctx context.Context, rule *rules.Rule, userID uuid.UUID) (bool, error) {
	for _, p := range rule.Predicates {
		cond, err := compile(p)
		if err != nil {
			return false, fmt.Errorf("rule %s predicate %d: %w", rule.ID, p.Position, err)
		}

		result, err := cond.eval(ctx, e.provider, userID)
		if err != nil {
			return false, fmt.Errorf("rule %s predicate %d: %w", rule.ID, p.Position, err)
		}

		if p.Negate {
			result = !result
		}
		if !result {
			e.logger.Debug("predicate rejected rule",
				slog.String("rule_id", rule.ID.String()),
				slog.Int("position", p.Position),
				slog.String("kind", string(p.Kind)),
			)
			return false, nil
		}
	}
	return true, nil
}
