package warehouse

import (
	"context"
	"fmt"

	"fulfilment/internal/core/apperror"
)

// CreateUseCase activates a brand-new warehouse.
type CreateUseCase struct {
	deps
}

// NewCreateUseCase creates the use case.
func NewCreateUseCase(cfg UseCaseConfig) *CreateUseCase {
	return &CreateUseCase{deps: newDeps(cfg)}
}

// Create validates candidate against its location and persists it.
// On success candidate is Active with CreatedAt set. Nothing is written
// when any check fails.
func (uc *CreateUseCase) Create(ctx context.Context, candidate *Warehouse) error {
	if candidate == nil {
		return invalid(RuleMandatoryFields, "warehouse is required")
	}
	if err := candidate.validateMandatory(); err != nil {
		return err
	}
	capacity, stock := *candidate.Capacity, *candidate.Stock
	if err := checkCapacityAndStock(capacity, stock); err != nil {
		return err
	}

	var created *Warehouse
	err := uc.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		_, err := uc.store.FindByBusinessUnitCode(ctx, candidate.BusinessUnitCode)
		switch {
		case err == nil:
			return invalid(RuleUniqueActiveCode, "an active warehouse with this business unit code already exists").
				WithDetail("businessUnitCode", candidate.BusinessUnitCode)
		case !apperror.IsNotFound(err):
			return fmt.Errorf("find warehouse: %w", err)
		}

		loc, err := resolveLocation(ctx, uc.locations, candidate.Location)
		if err != nil {
			return err
		}

		if stock > capacity {
			return invalid(RuleStockWithinCapacity, "stock exceeds capacity").
				WithDetail("stock", stock).
				WithDetail("capacity", capacity)
		}

		all, err := uc.store.GetAll(ctx)
		if err != nil {
			return fmt.Errorf("list warehouses: %w", err)
		}
		if err := checkLocationLimits(loc, occupancyAt(all, loc.Identification, ""), capacity); err != nil {
			return err
		}

		created = candidate.Clone()
		created.activate(uc.clock.Now())

		if err := uc.store.Create(ctx, created); err != nil {
			return fmt.Errorf("create warehouse: %w", err)
		}
		return uc.events.Publish(ctx, newEvent(EventCreated, created, created.CreatedAt))
	})
	if err != nil {
		return err
	}

	*candidate = *created
	return nil
}
