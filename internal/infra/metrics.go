package infra

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the Prometheus collectors exposed on the ops endpoint.
type Metrics struct {
	registry *prometheus.Registry

	Compositions      *prometheus.CounterVec
	GenerationSeconds prometheus.Histogram
	ActiveSessions    prometheus.Gauge
}

// NewMetrics registers the bot's collectors on a private registry so the ops
// endpoint only exposes what this process owns.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		Compositions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "avatarbot",
			Name:      "compositions_total",
			Help:      "Completed avatar compositions by mode and status.",
		}, []string{"mode", "status"}),
		GenerationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "avatarbot",
			Name:      "generation_seconds",
			Help:      "Wall-clock duration of background generation calls.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "avatarbot",
			Name:      "active_sessions",
			Help:      "Sessions currently waiting for user input.",
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Compositions,
		m.GenerationSeconds,
		m.ActiveSessions,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
