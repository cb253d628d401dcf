package warehouse

import (
	"context"
	"time"
)

// Store persists warehouse records.
type Store interface {
	// GetAll returns every record, archived ones included.
	GetAll(ctx context.Context) ([]*Warehouse, error)

	// Create inserts a new record.
	Create(ctx context.Context, w *Warehouse) error

	// Update overwrites the active record with w.BusinessUnitCode.
	// It is a no-op when there is no active record for that code.
	Update(ctx context.Context, w *Warehouse) error

	// Remove hard-deletes the active record with w.BusinessUnitCode.
	Remove(ctx context.Context, w *Warehouse) error

	// FindByBusinessUnitCode returns the active record for code, or an
	// apperror with code NOT_FOUND.
	FindByBusinessUnitCode(ctx context.Context, code string) (*Warehouse, error)
}

// EventPublisher receives lifecycle events inside the unit of work that
// produced them. Implementations must make events visible only on commit.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// Recorder observes use case outcomes, e.g. for metrics.
type Recorder interface {
	ObserveOperation(operation, outcome string, d time.Duration)
}
