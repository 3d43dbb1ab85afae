// Package recommender assembles the per-user recommendation set: the fixed
// product rules evaluated in code, followed by the dynamic rules loaded from
// the rule store and run through the predicate engine.
package recommender

import "github.com/google/uuid"

// Recommendation is a single product suggestion returned to the client.
type Recommendation struct {
	Name      string    `json:"name"`
	ProductID uuid.UUID `json:"id"`
	Text      string    `json:"text"`
}
