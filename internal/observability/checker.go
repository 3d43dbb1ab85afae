package observability

import "context"

// Checker is any dependency that can report its health. Implementations
// must be safe for concurrent use and must respect the context deadline.
type Checker interface {
	// Name identifies the component ("rules_db", "transactions_db", "redis").
	Name() string
	// Check returns nil when healthy.
	Check(ctx context.Context) error
}
