// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector and implements the observer interfaces of
// the warehouse service, the outbox relay and the location cache.
type Metrics struct {
	registry *prometheus.Registry

	WarehouseOperations *prometheus.CounterVec
	WarehouseDuration   *prometheus.HistogramVec
	OutboxMessages      *prometheus.CounterVec
	LocationCache       *prometheus.CounterVec
}

// New creates the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		WarehouseOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fulfilment_warehouse_operations_total",
			Help: "Warehouse lifecycle operations by operation and outcome",
		}, []string{"operation", "outcome"}),
		WarehouseDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fulfilment_warehouse_operation_duration_seconds",
			Help:    "Latency of warehouse lifecycle operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		OutboxMessages: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fulfilment_outbox_messages_total",
			Help: "Outbox delivery attempts by outcome",
		}, []string{"outcome"}),
		LocationCache: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fulfilment_location_cache_requests_total",
			Help: "Location cache lookups by result",
		}, []string{"result"}),
	}
}

// ObserveOperation records a warehouse lifecycle operation.
func (m *Metrics) ObserveOperation(operation, outcome string, d time.Duration) {
	m.WarehouseOperations.WithLabelValues(operation, outcome).Inc()
	m.WarehouseDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// ObserveOutbox records an outbox delivery attempt.
func (m *Metrics) ObserveOutbox(outcome string) {
	m.OutboxMessages.WithLabelValues(outcome).Inc()
}

// ObserveCache records a location cache lookup.
func (m *Metrics) ObserveCache(result string) {
	m.LocationCache.WithLabelValues(result).Inc()
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
