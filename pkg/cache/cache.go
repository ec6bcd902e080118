// Package cache provides query result caching for computed region metrics.
//
// The dataset is immutable after startup, so a query's result is fully
// determined by its regions and threshold. Caching is therefore safe for
// any TTL; the TTL only bounds memory growth and redis key lifetime.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/HatiCode/latencyd/pkg/stats"
)

// Entry is a cached query result.
type Entry struct {
	Regions    map[string]stats.RegionMetrics `json:"regions"`
	ComputedAt time.Time                      `json:"computed_at"`
}

// Cache stores computed query results keyed by query.
//
// Implementations must be safe for concurrent use. A failed Get or Put is
// reported as an error so the caller can log it, but callers treat cache
// failures as misses and never fail the request.
type Cache interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Put(ctx context.Context, key string, entry Entry) error
}

// Key derives the cache key for a query from its requested regions (in
// request order) and threshold.
//
// Region names are quoted before joining so that element boundaries stay
// unambiguous: a single region containing a comma must never share a key
// with a multi-region query.
func Key(regions []string, threshold float64) string {
	quoted := make([]string, len(regions))
	for i, region := range regions {
		quoted[i] = strconv.Quote(region)
	}
	return fmt.Sprintf("%s|%g", strings.Join(quoted, ","), threshold)
}
