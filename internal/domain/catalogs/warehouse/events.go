package warehouse

import (
	"context"
	"time"
)

// EventType names a lifecycle transition.
type EventType string

const (
	EventCreated  EventType = "WarehouseCreated"
	EventArchived EventType = "WarehouseArchived"
	EventReplaced EventType = "WarehouseReplaced"
)

// AggregateType is the outbox aggregate name for warehouse events.
const AggregateType = "Warehouse"

// Event describes one committed lifecycle transition.
type Event struct {
	Type             EventType `json:"type"`
	BusinessUnitCode string    `json:"businessUnitCode"`
	Location         string    `json:"location"`
	Capacity         int       `json:"capacity"`
	Stock            int       `json:"stock"`
	OccurredAt       time.Time `json:"occurredAt"`

	// Set on EventReplaced only.
	PreviousLocation string `json:"previousLocation,omitempty"`
	PreviousCapacity *int   `json:"previousCapacity,omitempty"`
}

func newEvent(t EventType, w *Warehouse, at time.Time) Event {
	return Event{
		Type:             t,
		BusinessUnitCode: w.BusinessUnitCode,
		Location:         w.Location,
		Capacity:         w.CapacityValue(),
		Stock:            w.StockValue(),
		OccurredAt:       at,
	}
}

// NopPublisher discards events.
type NopPublisher struct{}

// Publish implements EventPublisher.
func (NopPublisher) Publish(context.Context, Event) error { return nil }
