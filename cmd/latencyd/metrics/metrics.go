// Package metrics provides Prometheus instrumentation for latencyd.
//
// Metrics exposed:
//   - latencyd_query_requests_total: Counter of metric queries by outcome
//   - latencyd_query_seconds: Histogram of query handling duration
//   - latencyd_query_regions: Histogram of regions requested per query
//   - latencyd_dataset_observations: Gauge of loaded observations
//   - latencyd_cache_requests_total: Counter of cache lookups by result
//
// All metrics are exposed via the /metrics HTTP endpoint for Prometheus
// scraping.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for latencyd.
type Metrics struct {
	QueryRequestsTotal  *prometheus.CounterVec
	QuerySeconds        prometheus.Histogram
	QueryRegions        prometheus.Histogram
	DatasetObservations prometheus.Gauge
	CacheRequestsTotal  *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		QueryRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "latencyd_query_requests_total",
			Help: "Total number of metric queries by outcome",
		}, []string{"outcome"}),

		QuerySeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "latencyd_query_seconds",
			Help:    "Time spent handling a metric query",
			Buckets: prometheus.DefBuckets,
		}),

		QueryRegions: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "latencyd_query_regions",
			Help:    "Number of regions requested per query",
			Buckets: []float64{1, 2, 5, 10, 20, 50},
		}),

		DatasetObservations: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "latencyd_dataset_observations",
			Help: "Number of observations loaded from the dataset file",
		}),

		CacheRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "latencyd_cache_requests_total",
			Help: "Total number of result cache lookups by result",
		}, []string{"result"}),
	}
}

// RecordQuery records one handled query with its outcome and duration.
// Outcome is "ok" or "invalid".
func (m *Metrics) RecordQuery(outcome string, seconds float64) {
	m.QueryRequestsTotal.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		m.QuerySeconds.Observe(seconds)
	}
}

// RecordRegions records the number of regions requested by a query.
func (m *Metrics) RecordRegions(n int) {
	m.QueryRegions.Observe(float64(n))
}

// SetDatasetSize sets the loaded observation count.
func (m *Metrics) SetDatasetSize(n int) {
	m.DatasetObservations.Set(float64(n))
}

// RecordCache records a cache lookup result: "hit", "miss", or "error".
func (m *Metrics) RecordCache(result string) {
	m.CacheRequestsTotal.WithLabelValues(result).Inc()
}
