// Package tx defines the unit-of-work abstraction used by the domain layer.
// Implementations live in infrastructure/storage (postgres and memory).
package tx

import (
	"context"
)

// Manager runs a function as a single unit of work.
//
// If fn returns an error every change made through ctx is discarded,
// otherwise all changes become visible together. Nested calls with a
// context that already carries a unit of work join it instead of
// opening a new one.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager extends Manager with read-only units of work.
type ReadOnlyManager interface {
	Manager

	// ReadOnly executes fn in a read-only unit of work.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
