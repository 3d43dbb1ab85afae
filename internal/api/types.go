package api

import (
	"github.com/google/uuid"

	"github.com/projectteamwork/finrec/internal/recommender"
	"github.com/projectteamwork/finrec/internal/rules"
)

// QueryItem is the wire form of a single rule predicate. Position is
// implicit: list order is evaluation order.
type QueryItem struct {
	Query     string   `json:"query"`
	Arguments []string `json:"arguments"`
	Negate    bool     `json:"negate"`
}

// CreateRuleRequest is the POST /rule payload.
type CreateRuleRequest struct {
	ProductName string      `json:"product_name"`
	ProductID   uuid.UUID   `json:"product_id"`
	ProductText string      `json:"product_text"`
	Rule        []QueryItem `json:"rule"`
}

// RuleResponse is the wire form of a stored rule.
type RuleResponse struct {
	ID          uuid.UUID   `json:"id"`
	ProductName string      `json:"product_name"`
	ProductID   uuid.UUID   `json:"product_id"`
	ProductText string      `json:"product_text"`
	Rule        []QueryItem `json:"rule"`
}

// RuleListResponse wraps the stored rule listing.
type RuleListResponse struct {
	Data []RuleResponse `json:"data"`
}

// RuleStat is one rule's fire count.
type RuleStat struct {
	RuleID uuid.UUID `json:"rule_id"`
	Count  int64     `json:"count"`
}

// RuleStatsResponse wraps the per-rule fire counts.
type RuleStatsResponse struct {
	Stats []RuleStat `json:"stats"`
}

// RecommendationsResponse is the per-user recommendation payload.
type RecommendationsResponse struct {
	UserID          string                       `json:"user_id"`
	Recommendations []recommender.Recommendation `json:"recommendations"`
}

// UserLookupResponse is the full-name resolution payload.
type UserLookupResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	FullName string    `json:"full_name"`
}

// InfoResponse identifies the running service build.
type InfoResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// mapRuleToResponse converts the domain rule to its wire form. Predicates are
// emitted in position order, which List already guarantees.
func mapRuleToResponse(r *rules.Rule) (RuleResponse, error) {
	items := make([]QueryItem, len(r.Predicates))
	for i, p := range r.Predicates {
		args, err := p.DecodeArguments()
		if err != nil {
			return RuleResponse{}, err
		}
		items[i] = QueryItem{
			Query:     string(p.Kind),
			Arguments: args,
			Negate:    p.Negate,
		}
	}
	return RuleResponse{
		ID:          r.ID,
		ProductName: r.ProductName,
		ProductID:   r.ProductID,
		ProductText: r.ProductText,
		Rule:        items,
	}, nil
}

// mapRequestToRule converts a creation payload to the domain rule. Kind
// tokens are normalized and rejected here; argument shapes are deliberately
// not checked, evaluation validates them.
func mapRequestToRule(req *CreateRuleRequest) (*rules.Rule, error) {
	preds := make([]rules.Predicate, len(req.Rule))
	for i, item := range req.Rule {
		kind, err := rules.ParseKind(item.Query)
		if err != nil {
			return nil, err
		}
		blob, err := rules.EncodeArguments(item.Arguments)
		if err != nil {
			return nil, err
		}
		preds[i] = rules.Predicate{
			Position:  i,
			Kind:      kind,
			Arguments: blob,
			Negate:    item.Negate,
		}
	}
	return &rules.Rule{
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
		ProductText: req.ProductText,
		Predicates:  preds,
	}, nil
}
