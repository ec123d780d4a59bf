package server

import (
	"github.com/huangsam/trendbox/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const metricsNamespace = "trendbox"

// Metrics holds the collectors exported on /metrics. Each Server owns its
// registry, so several servers can live in one process.
type Metrics struct {
	registry    *prometheus.Registry
	summaries   *prometheus.CounterVec
	diagnostics *prometheus.CounterVec
	rowsRead    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewMetrics registers the summary collectors plus the Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		summaries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "summaries_total",
			Help:      "Summaries rendered, by chart variant and status.",
		}, []string{"variant", "status"}),
		diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "row_diagnostics_total",
			Help:      "Rows or cells that were skipped or coerced while parsing.",
		}, []string{"variant"}),
		rowsRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rows_read_total",
			Help:      "Input rows handed to the pipeline.",
		}, []string{"variant"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "summary_duration_seconds",
			Help:      "Time spent rendering a summary.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"variant"}),
	}

	m.registry.MustRegister(
		m.summaries,
		m.diagnostics,
		m.rowsRead,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry served on /metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe records one rendered summary.
func (m *Metrics) Observe(summary schema.Summary, seconds float64) {
	variant := string(summary.Variant)
	m.summaries.WithLabelValues(variant, string(summary.Status)).Inc()
	m.diagnostics.WithLabelValues(variant).Add(float64(len(summary.Diagnostics)))
	m.rowsRead.WithLabelValues(variant).Add(float64(summary.RowsRead))
	m.duration.WithLabelValues(variant).Observe(seconds)
}
