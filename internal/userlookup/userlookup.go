// Package userlookup resolves a user's id from their full name against the
// read-only transaction database. Lookups are intentionally strict: a name
// that matches zero or several users resolves to "not found" rather than
// guessing.
package userlookup

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Resolver maps a "First Last" full name to a user id. The boolean reports
// whether exactly one matching user exists; errors are reserved for data
// access failures.
type Resolver interface {
	Resolve(ctx context.Context, fullName string) (uuid.UUID, bool, error)
}

// SplitName breaks a full name into its first and last components on the
// first whitespace run. A name without both components cannot match anyone.
func SplitName(fullName string) (first, last string, ok bool) {
	fields := strings.Fields(fullName)
	if len(fields) != 2 {
		return "", "", false
	}
	return fields[0], fields[1], true
}

// NormalizeName produces the canonical cache key form of a full name:
// collapsed whitespace, upper-cased.
func NormalizeName(fullName string) string {
	return strings.ToUpper(strings.Join(strings.Fields(fullName), " "))
}
