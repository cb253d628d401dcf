package memory

import (
	"context"

	"fulfilment/internal/domain/catalogs/warehouse"
)

// EventLog is a warehouse.EventPublisher that keeps events in the DB, so
// events published inside a rolled back transaction disappear with it.
type EventLog struct {
	db *DB
}

var _ warehouse.EventPublisher = (*EventLog)(nil)

// NewEventLog creates an event log over db.
func NewEventLog(db *DB) *EventLog {
	return &EventLog{db: db}
}

// Publish appends event.
func (l *EventLog) Publish(ctx context.Context, event warehouse.Event) error {
	return l.db.write(ctx, func(st *state) error {
		st.events = append(st.events, event)
		return nil
	})
}

// Events returns the committed events in publication order.
func (l *EventLog) Events(ctx context.Context) []warehouse.Event {
	var out []warehouse.Event
	_ = l.db.read(ctx, func(st *state) error {
		out = make([]warehouse.Event, len(st.events))
		copy(out, st.events)
		return nil
	})
	return out
}
