package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/projectteamwork/finrec/internal/rules"
)

// Compile-time check that PostgresStore implements Repository.
var _ Repository = (*PostgresStore)(nil)

// PostgresStore persists rules in the dynamic_rules and rule_predicates
// tables.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a repository backed by the given pool.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	if db == nil {
		panic("store: database pool cannot be nil")
	}
	return &PostgresStore{db: db}
}

// Create inserts the rule and its predicates in one transaction so a
// half-written rule is never observable.
func (s *PostgresStore) Create(ctx context.Context, rule *rules.Rule) error {
	rule.Normalize()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ruleQuery := `
		INSERT INTO dynamic_rules (product_id, product_name, product_text)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	if err := tx.QueryRow(ctx, ruleQuery,
		rule.ProductID,
		rule.ProductName,
		rule.ProductText,
	).Scan(&rule.ID); err != nil {
		return fmt.Errorf("failed to insert rule: %w", err)
	}

	predicateQuery := `
		INSERT INTO rule_predicates (rule_id, position, query, arguments, negate)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, p := range rule.Predicates {
		args := p.Arguments
		if args == nil {
			args = []byte("[]")
		}
		if _, err := tx.Exec(ctx, predicateQuery,
			rule.ID,
			p.Position,
			string(p.Kind),
			string(args),
			p.Negate,
		); err != nil {
			return fmt.Errorf("failed to insert predicate %d: %w", p.Position, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit rule: %w", err)
	}
	return nil
}

// List loads every rule and then its predicates in a second query, stitching
// them together by rule id. Predicate order follows the persisted position.
func (s *PostgresStore) List(ctx context.Context) ([]rules.Rule, error) {
	ruleRows, err := s.db.Query(ctx, `
		SELECT id, product_id, product_name, product_text
		FROM dynamic_rules
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	defer ruleRows.Close()

	var list []rules.Rule
	index := make(map[uuid.UUID]int)

	for ruleRows.Next() {
		var r rules.Rule
		if err := ruleRows.Scan(&r.ID, &r.ProductID, &r.ProductName, &r.ProductText); err != nil {
			return nil, fmt.Errorf("failed to scan rule row: %w", err)
		}
		index[r.ID] = len(list)
		list = append(list, r)
	}
	if err := ruleRows.Err(); err != nil {
		return nil, fmt.Errorf("rule rows iteration error: %w", err)
	}

	if len(list) == 0 {
		return []rules.Rule{}, nil
	}

	predRows, err := s.db.Query(ctx, `
		SELECT rule_id, position, query, arguments, negate
		FROM rule_predicates
		ORDER BY rule_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list predicates: %w", err)
	}
	defer predRows.Close()

	for predRows.Next() {
		var (
			ruleID    uuid.UUID
			p         rules.Predicate
			kind      string
			arguments string
		)
		if err := predRows.Scan(&ruleID, &p.Position, &kind, &arguments, &p.Negate); err != nil {
			return nil, fmt.Errorf("failed to scan predicate row: %w", err)
		}
		p.Kind = rules.Kind(kind)
		p.Arguments = []byte(arguments)

		if i, ok := index[ruleID]; ok {
			list[i].Predicates = append(list[i].Predicates, p)
		}
	}
	if err := predRows.Err(); err != nil {
		return nil, fmt.Errorf("predicate rows iteration error: %w", err)
	}

	return list, nil
}

// DeleteByProductID removes the product's rules; the predicate rows go with
// them via the ON DELETE CASCADE foreign key.
func (s *PostgresStore) DeleteByProductID(ctx context.Context, productID uuid.UUID) error {
	_, err := s.db.Exec(ctx, `DELETE FROM dynamic_rules WHERE product_id = $1`, productID)
	if err != nil {
		return fmt.Errorf("failed to delete rules for product %s: %w", productID, err)
	}
	return nil
}
