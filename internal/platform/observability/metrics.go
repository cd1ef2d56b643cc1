package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records machine operations in Prometheus. Each instance owns its
// registry so tests and multiple containers never collide on registration.
type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	levels     *prometheus.GaugeVec
}

var _ Recorder = (*Metrics)(nil)

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coffee_machine_operations_total",
				Help: "Machine operations by name and outcome.",
			},
			[]string{"operation", "outcome"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coffee_machine_operation_duration_seconds",
				Help:    "Time spent in a machine operation, storage included.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		levels: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "coffee_machine_container_level",
				Help: "Current container levels after the last successful operation.",
			},
			[]string{"container", "unit"},
		),
	}
}

// ObserveOperation counts one operation. outcome is "ok" or an error kind.
func (m *Metrics) ObserveOperation(operation, outcome string, elapsedSeconds float64) {
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.latency.WithLabelValues(operation).Observe(elapsedSeconds)
}

func (m *Metrics) SetLevels(waterML, coffeeG int) {
	m.levels.WithLabelValues("water", "ml").Set(float64(waterML))
	m.levels.WithLabelValues("coffee", "g").Set(float64(coffeeG))
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
