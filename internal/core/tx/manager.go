// Package tx declares the transaction boundary the domain layer runs
// inside. The posting orchestrator and services depend on these
// interfaces; the pgx-backed implementation lives under
// infrastructure/storage/postgres.
package tx

import (
	"context"
)

// Manager runs a function inside a database transaction.
type Manager interface {
	// RunInTransaction commits when fn returns nil and rolls back
	// otherwise. A call made inside an open transaction joins it via a
	// savepoint instead of opening a second one.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager adds read-only transactions for query paths that
// must see a consistent snapshot without taking write locks.
type ReadOnlyManager interface {
	Manager

	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
