package location

import (
	"context"
	"sort"
	"strings"

	"fulfilment/internal/core/apperror"
)

// Catalog is an in-process Resolver over a fixed set of locations.
type Catalog struct {
	byID map[string]Location
}

var _ Resolver = (*Catalog)(nil)

// NewCatalog builds a Catalog. Later entries win on duplicate identifiers.
func NewCatalog(locations ...Location) *Catalog {
	c := &Catalog{byID: make(map[string]Location, len(locations))}
	for _, l := range locations {
		c.byID[l.Identification] = l
	}
	return c
}

// DefaultLocations is the reference data the service ships with.
// The postgres seed migration inserts the same rows.
func DefaultLocations() []Location {
	return []Location{
		{Identification: "ZWOLLE-001", MaxNumberOfWarehouses: 1, MaxCapacity: 40},
		{Identification: "ZWOLLE-002", MaxNumberOfWarehouses: 2, MaxCapacity: 50},
		{Identification: "AMSTERDAM-001", MaxNumberOfWarehouses: 5, MaxCapacity: 100},
		{Identification: "AMSTERDAM-002", MaxNumberOfWarehouses: 3, MaxCapacity: 75},
		{Identification: "TILBURG-001", MaxNumberOfWarehouses: 1, MaxCapacity: 40},
		{Identification: "HELMOND-001", MaxNumberOfWarehouses: 1, MaxCapacity: 45},
		{Identification: "EINDHOVEN-001", MaxNumberOfWarehouses: 2, MaxCapacity: 70},
		{Identification: "VETSBY-001", MaxNumberOfWarehouses: 1, MaxCapacity: 90},
	}
}

// DefaultCatalog returns a Catalog over DefaultLocations.
func DefaultCatalog() *Catalog {
	return NewCatalog(DefaultLocations()...)
}

// ResolveByIdentifier implements Resolver. Matching is exact.
func (c *Catalog) ResolveByIdentifier(_ context.Context, identifier string) (*Location, error) {
	if strings.TrimSpace(identifier) == "" {
		return nil, apperror.NewNotFound("location", identifier)
	}
	l, ok := c.byID[identifier]
	if !ok {
		return nil, apperror.NewNotFound("location", identifier)
	}
	return &l, nil
}

// All returns every location ordered by identifier.
func (c *Catalog) All() []Location {
	out := make([]Location, 0, len(c.byID))
	for _, l := range c.byID {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identification < out[j].Identification })
	return out
}
