// Package metrics defines the prometheus collectors exported by pdfsearch.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Query outcomes used as the "status" label.
const (
	StatusOK      = "ok"
	StatusInvalid = "invalid"
	StatusError   = "error"
)

// Metrics groups the search collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	Queries          *prometheus.CounterVec
	QueryDuration    prometheus.Histogram
	IndexedDocuments prometheus.Gauge
	SkippedDocuments prometheus.Counter
	IndexDuration    prometheus.Histogram
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pdfsearch_queries_total",
				Help: "Search queries by outcome",
			},
			[]string{"status"},
		),
		QueryDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pdfsearch_query_duration_seconds",
				Help:    "Query duration including embedding",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
		),
		IndexedDocuments: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "pdfsearch_indexed_documents",
				Help: "Documents in the vector index",
			},
		),
		SkippedDocuments: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pdfsearch_skipped_documents_total",
				Help: "Sources skipped during corpus loading",
			},
		),
		IndexDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pdfsearch_index_build_duration_seconds",
				Help:    "Corpus embedding and index build duration",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Queries, m.QueryDuration, m.IndexedDocuments, m.SkippedDocuments, m.IndexDuration)
	}
	return m
}

// ObserveQuery records one query outcome and its latency.
func (m *Metrics) ObserveQuery(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.Queries.WithLabelValues(status).Inc()
	m.QueryDuration.Observe(d.Seconds())
}

// ObserveIndex records a completed index build.
func (m *Metrics) ObserveIndex(docs int, d time.Duration) {
	if m == nil {
		return
	}
	m.IndexedDocuments.Set(float64(docs))
	m.IndexDuration.Observe(d.Seconds())
}

// AddSkipped counts sources dropped by the loader.
func (m *Metrics) AddSkipped(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.SkippedDocuments.Add(float64(n))
}
