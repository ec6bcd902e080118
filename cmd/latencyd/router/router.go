// Package router configures HTTP routes for the latencyd API.
//
// Routes configured:
//   - POST / - Compute per-region latency/uptime metrics
//   - GET / - Informational message for browser checks
//   - GET /healthz - Health check endpoint (returns 200 OK)
//   - GET /metrics - Prometheus metrics endpoint
//
// The POST / endpoint accepts {"regions": [...], "threshold_ms": n} and
// returns the computed metrics wrapped under a top-level "regions" key.
// Requested regions with no observations are included with the zero-valued
// record rather than omitted.
package router

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/HatiCode/latencyd/cmd/latencyd/metrics"
	"github.com/HatiCode/latencyd/pkg/cache"
	"github.com/HatiCode/latencyd/pkg/dataset"
	"github.com/HatiCode/latencyd/pkg/httpx"
	"github.com/HatiCode/latencyd/pkg/stats"
)

// queryRequest is the POST / request body.
//
// ThresholdMS is a pointer so that an omitted field can be distinguished
// from an explicit zero; omitted falls back to the configured default.
type queryRequest struct {
	Regions     []string `json:"regions"`
	ThresholdMS *float64 `json:"threshold_ms"`
}

// queryResponse wraps the per-region results under a "regions" key.
type queryResponse struct {
	Regions map[string]stats.RegionMetrics `json:"regions"`
}

// SetupRoutes configures HTTP endpoints for latencyd.
//
// The result cache may be nil to disable caching. The dataset is read-only
// and shared across requests without locking.
func SetupRoutes(ds *dataset.Dataset, resultCache cache.Cache, defaultThreshold float64, m *metrics.Metrics, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	// Metric query endpoint
	mux.HandleFunc("POST /{$}", handleQuery(ds, resultCache, defaultThreshold, m, logger))

	// Informational message for browser checks
	mux.HandleFunc("GET /{$}", handleInfo)

	// Health check endpoint
	mux.Handle("GET /healthz", httpx.HealthHandler())

	// Prometheus metrics endpoint
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}

// handleInfo serves a static hint for anyone opening the API in a browser.
func handleInfo(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{
		"message": "POST request required with JSON body to retrieve metrics.",
	}
	if err := httpx.WriteJSON(w, http.StatusOK, resp); err != nil {
		slog.Error("failed to write info response", "error", err)
	}
}

// handleQuery returns the handler for POST /.
func handleQuery(ds *dataset.Dataset, resultCache cache.Cache, defaultThreshold float64, m *metrics.Metrics, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		var req queryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			m.RecordQuery("invalid", 0)
			httpx.WriteErrorMessage(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
			return
		}

		if req.Regions == nil {
			m.RecordQuery("invalid", 0)
			httpx.WriteErrorMessage(w, http.StatusUnprocessableEntity, "regions field is required and must be an array of strings")
			return
		}

		threshold := defaultThreshold
		if req.ThresholdMS != nil {
			threshold = *req.ThresholdMS
		}

		m.RecordRegions(len(req.Regions))

		key := cache.Key(req.Regions, threshold)
		if resultCache != nil {
			entry, found, err := resultCache.Get(r.Context(), key)
			if err != nil {
				// Cache trouble never fails the request.
				logger.Warn("cache get failed", "key", key, "error", err)
				m.RecordCache("error")
			} else if found {
				m.RecordCache("hit")
				m.RecordQuery("ok", time.Since(start).Seconds())
				writeQueryResponse(w, entry.Regions, logger)
				return
			} else {
				m.RecordCache("miss")
			}
		}

		results := make(map[string]stats.RegionMetrics, len(req.Regions))
		for _, region := range req.Regions {
			results[region] = stats.Compute(ds.Region(region), threshold)
		}

		if resultCache != nil {
			entry := cache.Entry{Regions: results, ComputedAt: time.Now().UTC()}
			if err := resultCache.Put(r.Context(), key, entry); err != nil {
				logger.Warn("cache put failed", "key", key, "error", err)
			}
		}

		logger.Debug("query computed",
			"regions", len(req.Regions),
			"threshold_ms", threshold,
		)

		m.RecordQuery("ok", time.Since(start).Seconds())
		writeQueryResponse(w, results, logger)
	}
}

func writeQueryResponse(w http.ResponseWriter, results map[string]stats.RegionMetrics, logger *slog.Logger) {
	if err := httpx.WriteJSON(w, http.StatusOK, queryResponse{Regions: results}); err != nil {
		logger.Error("failed to write JSON response", "error", err)
	}
}
