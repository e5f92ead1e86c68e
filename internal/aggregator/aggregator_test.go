package aggregator

import (
	"errors"
	"math"
	"testing"

	"github.com/shaiso/latency/internal/domain"
)

// fakeLookup группирует samples по региону с сохранением порядка.
type fakeLookup struct {
	byRegion map[string][]domain.Sample
	calls    map[string]int
}

func newFakeLookup(samples ...domain.Sample) *fakeLookup {
	f := &fakeLookup{
		byRegion: make(map[string][]domain.Sample),
		calls:    make(map[string]int),
	}
	for _, s := range samples {
		f.byRegion[s.Region] = append(f.byRegion[s.Region], s)
	}
	return f
}

func (f *fakeLookup) Lookup(region string) []domain.Sample {
	f.calls[region]++
	return f.byRegion[region]
}

func fixture() *fakeLookup {
	return newFakeLookup(
		domain.Sample{Region: "us-east", LatencyMs: 100, UptimePct: 99.0},
		domain.Sample{Region: "eu-west", LatencyMs: 120, UptimePct: 99.5},
		domain.Sample{Region: "us-east", LatencyMs: 200, UptimePct: 98.0},
		domain.Sample{Region: "us-east", LatencyMs: 300, UptimePct: 97.0},
		domain.Sample{Region: "eu-west", LatencyMs: 240, UptimePct: 98.5},
	)
}

func TestSummarize_Example(t *testing.T) {
	samples := []domain.Sample{
		{Region: "us-east", LatencyMs: 100, UptimePct: 99.0},
		{Region: "us-east", LatencyMs: 200, UptimePct: 98.0},
		{Region: "us-east", LatencyMs: 300, UptimePct: 97.0},
	}

	got, err := Summarize(samples, 150)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := domain.RegionSummary{AvgLatency: 200, P95Latency: 290, AvgUptime: 98, Breaches: 2}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestSummarize_SingleSample(t *testing.T) {
	got, err := Summarize([]domain.Sample{{Region: "apac", LatencyMs: 181.456, UptimePct: 99.999}}, domain.DefaultThresholdMs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.P95Latency != 181.46 {
		t.Errorf("p95 of single sample should be the sample itself, got %v", got.P95Latency)
	}
	if got.AvgLatency != 181.46 {
		t.Errorf("expected avg 181.46, got %v", got.AvgLatency)
	}
	if got.AvgUptime != 100 {
		t.Errorf("expected uptime 100, got %v", got.AvgUptime)
	}
	if got.Breaches != 1 {
		t.Errorf("expected 1 breach, got %d", got.Breaches)
	}
}

func TestSummarize_ThresholdIsStrict(t *testing.T) {
	samples := []domain.Sample{
		{LatencyMs: 180}, {LatencyMs: 180}, {LatencyMs: 180.01},
	}
	got, err := Summarize(samples, 180)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Breaches != 1 {
		t.Errorf("samples equal to threshold are not breaches, got %d", got.Breaches)
	}
}

func TestSummarize_P95BetweenTopTwo(t *testing.T) {
	samples := []domain.Sample{
		{LatencyMs: 10}, {LatencyMs: 20}, {LatencyMs: 30}, {LatencyMs: 40}, {LatencyMs: 500},
	}
	got, err := Summarize(samples, domain.DefaultThresholdMs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.P95Latency < 40 || got.P95Latency > 500 {
		t.Errorf("p95 should be between 40 and 500, got %v", got.P95Latency)
	}
	// rank = 0.95 * 4 = 3.8 -> 40 + 460*0.8
	if math.Abs(got.P95Latency-408) > 1e-9 {
		t.Errorf("expected 408, got %v", got.P95Latency)
	}
}

func TestSummarize_Empty(t *testing.T) {
	_, err := Summarize(nil, 180)
	if !errors.Is(err, ErrNoSamples) {
		t.Errorf("expected ErrNoSamples, got %v", err)
	}
}

func TestAggregate(t *testing.T) {
	a := New(fixture())

	report, err := a.Aggregate(domain.Query{
		Regions:     []string{"us-east", "unknown", "eu-west"},
		ThresholdMs: 150,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(report))
	}
	if _, ok := report["unknown"]; ok {
		t.Error("unknown region should be omitted")
	}

	us := report["us-east"]
	if us.AvgLatency != 200 || us.P95Latency != 290 || us.AvgUptime != 98 || us.Breaches != 2 {
		t.Errorf("unexpected us-east summary: %+v", us)
	}

	eu := report["eu-west"]
	if eu.AvgLatency != 180 || eu.Breaches != 1 || eu.AvgUptime != 99 {
		t.Errorf("unexpected eu-west summary: %+v", eu)
	}

	if report.TotalBreaches() != 3 {
		t.Errorf("expected 3 total breaches, got %d", report.TotalBreaches())
	}
}

func TestAggregate_EmptyRegions(t *testing.T) {
	a := New(fixture())

	report, err := a.Aggregate(domain.NewQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report) != 0 {
		t.Errorf("expected empty report, got %v", report)
	}
}

func TestAggregate_DuplicateRegions(t *testing.T) {
	lookup := fixture()
	a := New(lookup)

	q := domain.NewQuery("eu-west", "us-east", "eu-west")
	report, err := a.Aggregate(q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report) != 2 {
		t.Errorf("expected 2 regions, got %d", len(report))
	}
	if lookup.calls["eu-west"] != 1 {
		t.Errorf("duplicate region should be looked up once, got %d", lookup.calls["eu-west"])
	}

	regions := report.Regions(q)
	if len(regions) != 2 || regions[0] != "eu-west" || regions[1] != "us-east" {
		t.Errorf("unexpected region order: %v", regions)
	}
}
