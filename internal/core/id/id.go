// Package id provides UUIDv7 generation for physical record identifiers.
// Warehouses are addressed by business unit code; the UUID only names a row.
package id

import (
	"github.com/google/uuid"
)

// ID is a type alias for UUID.
type ID = uuid.UUID

// New generates a new time-ordered UUIDv7.
func New() ID {
	v, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return v
}
