// Package stats computes per-region latency and uptime metrics.
//
// The calculator is a pure function over a slice of observations: it never
// touches shared state, so it is safe to call from concurrent request
// handlers. An empty input always yields the zero-valued RegionMetrics
// rather than an error or NaN.
package stats

import (
	"math"
	"sort"

	"github.com/HatiCode/latencyd/pkg/dataset"
)

// DefaultThreshold is the breach threshold in milliseconds applied when a
// query does not specify one.
const DefaultThreshold = 180.0

// RegionMetrics summarizes the observations of a single region.
//
// AvgLatency and P95Latency are rounded to 2 decimal places, AvgUptime to 3.
// Breaches counts observations with latency at or above the query threshold.
type RegionMetrics struct {
	AvgLatency float64 `json:"avg_latency"`
	P95Latency float64 `json:"p95_latency"`
	AvgUptime  float64 `json:"avg_uptime"`
	Breaches   int     `json:"breaches"`
}

// Compute calculates metrics for one region's observations.
//
// All observations are expected to belong to the same region; the function
// does not check this. An empty slice returns the zero record without
// computing anything.
func Compute(obs []dataset.Observation, threshold float64) RegionMetrics {
	if len(obs) == 0 {
		return RegionMetrics{}
	}

	latencies := make([]float64, len(obs))
	var latencySum, uptimeSum float64
	breaches := 0

	for i, o := range obs {
		latencies[i] = o.LatencyMS
		latencySum += o.LatencyMS
		uptimeSum += o.UptimePct
		if o.LatencyMS >= threshold {
			breaches++
		}
	}

	n := float64(len(obs))
	return RegionMetrics{
		AvgLatency: round(latencySum/n, 2),
		P95Latency: round(Percentile(latencies, 0.95), 2),
		AvgUptime:  round(uptimeSum/n, 3),
		Breaches:   breaches,
	}
}

// Percentile returns the value at the given level using the higher-rank
// rule: the smallest observed value such that at least level*100 percent of
// values are less than or equal to it. No interpolation between ranks.
//
// Returns 0 for an empty slice. The input is not modified.
func Percentile(values []float64, level float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	rank := int(math.Ceil(level * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return sorted[rank-1]
}

// round rounds v to the given number of decimal places.
func round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
