// Package tx provides the unit-of-work abstraction used by domain services.
// The implementation lives in infrastructure/storage/postgres.
package tx

import (
	"context"
)

// Manager runs a function inside one database transaction.
type Manager interface {
	// RunInTransaction executes fn within a transaction.
	// If fn returns an error or panics, the transaction is rolled back.
	// Otherwise it is committed. Nested calls reuse the transaction in ctx.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager extends Manager with read-only transactions for reports.
type ReadOnlyManager interface {
	Manager

	// ReadOnly executes fn in a read-only transaction.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
