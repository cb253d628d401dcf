package warehouse

import (
	"context"
	"fmt"
	"strings"
)

// ArchiveUseCase retires an active warehouse.
type ArchiveUseCase struct {
	deps
}

// NewArchiveUseCase creates the use case.
func NewArchiveUseCase(cfg UseCaseConfig) *ArchiveUseCase {
	return &ArchiveUseCase{deps: newDeps(cfg)}
}

// Archive marks target archived and persists it through Store.Update.
//
// Archiving an already archived target returns nil without touching the
// store. The caller is responsible for having loaded target from the store.
func (uc *ArchiveUseCase) Archive(ctx context.Context, target *Warehouse) error {
	if target == nil || strings.TrimSpace(target.BusinessUnitCode) == "" {
		return invalid(RuleMandatoryFields, "business unit code is required to archive a warehouse")
	}
	if target.IsArchived() {
		return nil
	}

	var archived *Warehouse
	err := uc.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		now := uc.clock.Now()
		archived = target.archived(now)

		if err := uc.store.Update(ctx, archived); err != nil {
			return fmt.Errorf("archive warehouse: %w", err)
		}
		return uc.events.Publish(ctx, newEvent(EventArchived, archived, now))
	})
	if err != nil {
		return err
	}

	target.State = archived.State
	return nil
}
