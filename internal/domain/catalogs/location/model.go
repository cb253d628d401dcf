// Package location provides the read-only Location reference catalog.
// A location caps how many warehouses it may host and their combined capacity.
package location

import (
	"context"
)

// Location is a physical site that hosts warehouses.
type Location struct {
	Identification        string `db:"identification" json:"identification"`
	MaxNumberOfWarehouses int    `db:"max_number_of_warehouses" json:"maxNumberOfWarehouses"`
	MaxCapacity           int    `db:"max_capacity" json:"maxCapacity"`
}

// Resolver looks up a location by its identifier.
//
// Implementations return an apperror with code NOT_FOUND when the
// identifier is unknown.
type Resolver interface {
	ResolveByIdentifier(ctx context.Context, identifier string) (*Location, error)
}
