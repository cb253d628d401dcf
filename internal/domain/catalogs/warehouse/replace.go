package warehouse

import (
	"context"
	"fmt"

	"fulfilment/internal/core/apperror"
)

// ReplaceUseCase swaps the active warehouse for a business unit code with
// a new record. The old record is archived and the new one activated in
// the same unit of work, so either both changes commit or neither does.
type ReplaceUseCase struct {
	deps
}

// NewReplaceUseCase creates the use case.
func NewReplaceUseCase(cfg UseCaseConfig) *ReplaceUseCase {
	return &ReplaceUseCase{deps: newDeps(cfg)}
}

// Replace validates candidate against the current active warehouse with the
// same business unit code and its target location, then performs the swap.
//
// A missing current warehouse yields NOT_FOUND. Every other violation is an
// invalid request and leaves the current warehouse untouched.
func (uc *ReplaceUseCase) Replace(ctx context.Context, candidate *Warehouse) error {
	if candidate == nil {
		return invalid(RuleMandatoryFields, "warehouse is required")
	}
	if err := candidate.validateMandatory(); err != nil {
		return err
	}

	var replacement *Warehouse
	err := uc.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := uc.store.FindByBusinessUnitCode(ctx, candidate.BusinessUnitCode)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("warehouse", candidate.BusinessUnitCode)
			}
			return fmt.Errorf("find warehouse: %w", err)
		}

		loc, err := resolveLocation(ctx, uc.locations, candidate.Location)
		if err != nil {
			return err
		}

		capacity, stock := *candidate.Capacity, *candidate.Stock
		currentStock := current.StockValue()

		if stock != currentStock {
			return invalid(RuleStockContinuity, "replacement stock must match the current warehouse stock").
				WithDetail("stock", stock).
				WithDetail("currentStock", currentStock)
		}
		if err := checkCapacityAndStock(capacity, stock); err != nil {
			return err
		}
		if capacity < currentStock {
			return invalid(RuleStockWithinCapacity, "replacement capacity cannot hold the current stock").
				WithDetail("capacity", capacity).
				WithDetail("currentStock", currentStock)
		}

		all, err := uc.store.GetAll(ctx)
		if err != nil {
			return fmt.Errorf("list warehouses: %w", err)
		}
		used := occupancyAt(all, loc.Identification, current.BusinessUnitCode)
		if err := checkLocationLimits(loc, used, capacity); err != nil {
			return err
		}

		now := uc.clock.Now()
		if err := uc.store.Update(ctx, current.archived(now)); err != nil {
			return fmt.Errorf("archive current warehouse: %w", err)
		}

		replacement = candidate.Clone()
		replacement.activate(now)
		if err := uc.store.Create(ctx, replacement); err != nil {
			return fmt.Errorf("create replacement warehouse: %w", err)
		}

		event := newEvent(EventReplaced, replacement, now)
		previousCapacity := current.CapacityValue()
		event.PreviousLocation = current.Location
		event.PreviousCapacity = &previousCapacity
		return uc.events.Publish(ctx, event)
	})
	if err != nil {
		return err
	}

	*candidate = *replacement
	return nil
}
