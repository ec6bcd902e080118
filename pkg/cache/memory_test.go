package cache

import (
	"context"
	"testing"
	"time"

	"github.com/HatiCode/latencyd/pkg/stats"
)

func testEntry() Entry {
	return Entry{
		Regions: map[string]stats.RegionMetrics{
			"us-east": {AvgLatency: 153.33, P95Latency: 200, AvgUptime: 99.2, Breaches: 2},
		},
		ComputedAt: time.Now(),
	}
}

func TestMemoryCache_PutGet(t *testing.T) {
	c := NewMemoryCache(0)
	ctx := context.Background()

	key := Key([]string{"us-east"}, 180)
	if err := c.Put(ctx, key, testEntry()); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, found, err := c.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found {
		t.Fatal("Get() found = false, want true")
	}
	if got.Regions["us-east"].Breaches != 2 {
		t.Errorf("Breaches = %d, want 2", got.Regions["us-east"].Breaches)
	}
}

func TestMemoryCache_Miss(t *testing.T) {
	c := NewMemoryCache(0)

	_, found, err := c.Get(context.Background(), Key([]string{"eu-west"}, 180))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("Get() found = true for key never stored")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(10 * time.Millisecond)
	ctx := context.Background()

	key := Key([]string{"us-east"}, 180)
	if err := c.Put(ctx, key, testEntry()); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	_, found, err := c.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("Get() found = true after TTL elapsed")
	}
}

func TestMemoryCache_EmptyKey(t *testing.T) {
	c := NewMemoryCache(0)

	if err := c.Put(context.Background(), "", testEntry()); err == nil {
		t.Error("Put() with empty key should error")
	}
}

func TestMemoryCache_CanceledContext(t *testing.T) {
	c := NewMemoryCache(0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := c.Put(ctx, "k", testEntry()); err == nil {
		t.Error("Put() with canceled context should error")
	}
	if _, _, err := c.Get(ctx, "k"); err == nil {
		t.Error("Get() with canceled context should error")
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		name      string
		regions   []string
		threshold float64
		want      string
	}{
		{"single region", []string{"us-east"}, 180, `"us-east"|180`},
		{"two regions preserve order", []string{"eu-west", "us-east"}, 150, `"eu-west","us-east"|150`},
		{"fractional threshold", []string{"ap-south"}, 180.5, `"ap-south"|180.5`},
		{"no regions", nil, 180, "|180"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Key(tt.regions, tt.threshold); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKey_RegionBoundariesUnambiguous(t *testing.T) {
	// Region names are arbitrary strings; separators occurring inside a
	// name must not make two different queries share a key.
	tests := []struct {
		name string
		a    []string
		b    []string
	}{
		{"comma inside region name", []string{"us-east,ap-south"}, []string{"us-east", "ap-south"}},
		{"pipe inside region name", []string{"us-east|180"}, []string{"us-east"}},
		{"quote inside region name", []string{`us-east","ap-south`}, []string{"us-east", "ap-south"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keyA := Key(tt.a, 180)
			keyB := Key(tt.b, 180)
			if keyA == keyB {
				t.Errorf("Key(%q) and Key(%q) both = %q, want distinct keys", tt.a, tt.b, keyA)
			}
		})
	}
}
