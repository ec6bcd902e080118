// Package dataset loads the static latency observation file and indexes it
// by region for querying.
//
// The dataset is read once at process startup and never mutated afterwards,
// so a *Dataset can be shared across request handlers without locking.
package dataset

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// Observation is a single latency/uptime measurement for a region.
type Observation struct {
	Region    string  `json:"region"`
	LatencyMS float64 `json:"latency_ms"`
	UptimePct float64 `json:"uptime_pct"`
}

// Dataset is an immutable, ordered collection of observations with a
// by-region index built at load time.
type Dataset struct {
	observations []Observation
	byRegion     map[string][]Observation
}

// New builds a Dataset from a slice of observations, preserving order.
func New(observations []Observation) *Dataset {
	byRegion := make(map[string][]Observation)
	for _, o := range observations {
		byRegion[o.Region] = append(byRegion[o.Region], o)
	}
	return &Dataset{
		observations: observations,
		byRegion:     byRegion,
	}
}

// Load reads a JSON array of observations from path.
//
// A missing file is not an error: the service must be able to start without
// data, so Load returns an empty Dataset. Any other read failure, invalid
// JSON, a non-array root, or a record with missing or mistyped fields is
// returned as an error; callers should treat that as fatal rather than
// serve a partial dataset.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(nil), nil
		}
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}

	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("dataset %s: invalid JSON", path)
	}

	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("dataset %s: expected a JSON array, got %s", path, root.Type)
	}

	records := root.Array()
	observations := make([]Observation, 0, len(records))
	for i, rec := range records {
		obs, err := parseObservation(rec)
		if err != nil {
			return nil, fmt.Errorf("dataset %s: record[%d]: %w", path, i, err)
		}
		observations = append(observations, obs)
	}

	return New(observations), nil
}

// parseObservation extracts and type-checks one record.
func parseObservation(rec gjson.Result) (Observation, error) {
	region := rec.Get("region")
	if region.Type != gjson.String {
		return Observation{}, fmt.Errorf("field %q must be a string", "region")
	}

	latency := rec.Get("latency_ms")
	if latency.Type != gjson.Number {
		return Observation{}, fmt.Errorf("field %q must be a number", "latency_ms")
	}

	uptime := rec.Get("uptime_pct")
	if uptime.Type != gjson.Number {
		return Observation{}, fmt.Errorf("field %q must be a number", "uptime_pct")
	}

	return Observation{
		Region:    region.String(),
		LatencyMS: latency.Float(),
		UptimePct: uptime.Float(),
	}, nil
}

// Len returns the total number of observations.
func (d *Dataset) Len() int {
	return len(d.observations)
}

// Region returns the observations for an exact, case-sensitive region name.
// Unknown regions return nil.
func (d *Dataset) Region(name string) []Observation {
	return d.byRegion[name]
}

// Regions returns the number of distinct regions in the dataset.
func (d *Dataset) Regions() int {
	return len(d.byRegion)
}
