package warehouse

import (
	"context"
	"fmt"

	"fulfilment/internal/core/apperror"
	"fulfilment/internal/domain/catalogs/location"
)

// Rule identifiers reported in the "rule" detail of invalid request errors.
const (
	RuleMandatoryFields     = "mandatory_fields"
	RulePositiveCapacity    = "positive_capacity"
	RuleNonNegativeStock    = "non_negative_stock"
	RuleUniqueActiveCode    = "unique_active_code"
	RuleKnownLocation       = "known_location"
	RuleStockWithinCapacity = "stock_within_capacity"
	RuleLocationOccupancy   = "location_occupancy"
	RuleLocationCapacity    = "location_capacity"
	RuleStockContinuity     = "stock_continuity"
)

func invalid(rule, message string) *apperror.AppError {
	return apperror.NewValidation(message).WithDetail("rule", rule)
}

// checkCapacityAndStock enforces capacity > 0 and stock >= 0.
func checkCapacityAndStock(capacity, stock int) error {
	if capacity <= 0 {
		return invalid(RulePositiveCapacity, "capacity must be greater than zero").
			WithDetail("capacity", capacity)
	}
	if stock < 0 {
		return invalid(RuleNonNegativeStock, "stock must not be negative").
			WithDetail("stock", stock)
	}
	return nil
}

// resolveLocation turns an unknown location into an invalid request.
func resolveLocation(ctx context.Context, resolver location.Resolver, identifier string) (*location.Location, error) {
	loc, err := resolver.ResolveByIdentifier(ctx, identifier)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, invalid(RuleKnownLocation, "location does not exist").
				WithDetail("location", identifier)
		}
		return nil, fmt.Errorf("resolve location %q: %w", identifier, err)
	}
	return loc, nil
}

// occupancy summarises the active warehouses at one location.
type occupancy struct {
	Count    int
	Capacity int
}

// occupancyAt counts active warehouses at loc, skipping the active record
// for excludeCode (empty excludes nothing).
func occupancyAt(all []*Warehouse, loc, excludeCode string) occupancy {
	var o occupancy
	for _, w := range all {
		if !w.IsActive() || w.Location != loc {
			continue
		}
		if excludeCode != "" && w.BusinessUnitCode == excludeCode {
			continue
		}
		o.Count++
		o.Capacity += w.CapacityValue()
	}
	return o
}

// checkLocationLimits enforces the location's warehouse count and aggregate
// capacity for a newcomer of the given capacity.
func checkLocationLimits(loc *location.Location, current occupancy, capacity int) error {
	if current.Count >= loc.MaxNumberOfWarehouses {
		return invalid(RuleLocationOccupancy, "location has reached its maximum number of warehouses").
			WithDetail("location", loc.Identification).
			WithDetail("maxNumberOfWarehouses", loc.MaxNumberOfWarehouses)
	}
	if capacity > loc.MaxCapacity || capacity > loc.MaxCapacity-current.Capacity {
		return invalid(RuleLocationCapacity, "location capacity would be exceeded").
			WithDetail("location", loc.Identification).
			WithDetail("maxCapacity", loc.MaxCapacity).
			WithDetail("usedCapacity", current.Capacity).
			WithDetail("requestedCapacity", capacity)
	}
	return nil
}
