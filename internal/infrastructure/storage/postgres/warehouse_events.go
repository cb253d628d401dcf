package postgres

import (
	"context"

	"fulfilment/internal/domain/catalogs/warehouse"
)

// WarehouseEventPublisher writes warehouse lifecycle events to the outbox,
// keyed by business unit code.
type WarehouseEventPublisher struct {
	outbox *OutboxPublisher
}

var _ warehouse.EventPublisher = (*WarehouseEventPublisher)(nil)

// NewWarehouseEventPublisher creates a publisher over outbox.
func NewWarehouseEventPublisher(outbox *OutboxPublisher) *WarehouseEventPublisher {
	return &WarehouseEventPublisher{outbox: outbox}
}

// Publish implements warehouse.EventPublisher.
func (p *WarehouseEventPublisher) Publish(ctx context.Context, event warehouse.Event) error {
	return p.outbox.Publish(ctx, DomainEvent{
		AggregateType: warehouse.AggregateType,
		AggregateID:   event.BusinessUnitCode,
		EventType:     string(event.Type),
		Payload:       event,
	})
}
