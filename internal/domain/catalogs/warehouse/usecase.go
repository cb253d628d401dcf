package warehouse

import (
	"fulfilment/internal/core/clock"
	"fulfilment/internal/core/tx"
	"fulfilment/internal/domain/catalogs/location"
)

// UseCaseConfig carries the collaborators shared by the lifecycle use cases.
type UseCaseConfig struct {
	Store     Store
	Locations location.Resolver
	TxManager tx.Manager

	// Optional. Defaults to clock.System().
	Clock clock.Clock

	// Optional. Defaults to NopPublisher.
	Events EventPublisher
}

type deps struct {
	store     Store
	locations location.Resolver
	txm       tx.Manager
	clock     clock.Clock
	events    EventPublisher
}

func newDeps(cfg UseCaseConfig) deps {
	d := deps{
		store:     cfg.Store,
		locations: cfg.Locations,
		txm:       cfg.TxManager,
		clock:     cfg.Clock,
		events:    cfg.Events,
	}
	if d.clock == nil {
		d.clock = clock.System()
	}
	if d.events == nil {
		d.events = NopPublisher{}
	}
	return d
}
