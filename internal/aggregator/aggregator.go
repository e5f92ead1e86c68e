// Package aggregator считает сводную статистику задержек по регионам.
package aggregator

import (
	"errors"
	"fmt"

	"github.com/shaiso/latency/internal/domain"
	"github.com/shaiso/latency/internal/stats"
)

// P95 задаёт перцентиль, который попадает в p95_latency.
const P95 = 95.0

// ErrNoSamples возвращается Summarize для пустого набора samples.
var ErrNoSamples = errors.New("no samples")

// Lookup отдаёт samples региона. Реализуется store.Store.
type Lookup interface {
	Lookup(region string) []domain.Sample
}

// Report отображает регион в его сводку.
type Report map[string]domain.RegionSummary

// Aggregator считает Report по Query поверх неизменяемого хранилища.
type Aggregator struct {
	source Lookup
}

// New создаёт Aggregator.
func New(source Lookup) *Aggregator {
	return &Aggregator{source: source}
}

// Aggregate обходит регионы в порядке запроса. Регионы без samples
// в Report не попадают; повторный регион даёт тот же ключ.
func (a *Aggregator) Aggregate(q domain.Query) (Report, error) {
	report := make(Report, len(q.Regions))

	for _, region := range q.Regions {
		if _, done := report[region]; done {
			continue
		}

		samples := a.source.Lookup(region)
		if len(samples) == 0 {
			continue
		}

		summary, err := Summarize(samples, q.ThresholdMs)
		if err != nil {
			return nil, fmt.Errorf("summarize %s: %w", region, err)
		}
		report[region] = summary
	}

	return report, nil
}

// Summarize считает сводку по samples одного региона.
func Summarize(samples []domain.Sample, thresholdMs float64) (domain.RegionSummary, error) {
	if len(samples) == 0 {
		return domain.RegionSummary{}, ErrNoSamples
	}

	latencies := make([]float64, len(samples))
	uptimes := make([]float64, len(samples))
	for i, s := range samples {
		latencies[i] = s.LatencyMs
		uptimes[i] = s.UptimePct
	}

	avgLatency, err := stats.Mean(latencies)
	if err != nil {
		return domain.RegionSummary{}, fmt.Errorf("avg latency: %w", err)
	}
	p95, err := stats.Percentile(latencies, P95)
	if err != nil {
		return domain.RegionSummary{}, fmt.Errorf("p95 latency: %w", err)
	}
	avgUptime, err := stats.Mean(uptimes)
	if err != nil {
		return domain.RegionSummary{}, fmt.Errorf("avg uptime: %w", err)
	}

	return domain.RegionSummary{
		AvgLatency: stats.Round(avgLatency),
		P95Latency: stats.Round(p95),
		AvgUptime:  stats.Round(avgUptime),
		Breaches:   stats.CountAbove(latencies, thresholdMs),
	}, nil
}

// Regions возвращает ключи Report в порядке q.Regions, без дублей.
func (r Report) Regions(q domain.Query) []string {
	out := make([]string, 0, len(r))
	seen := make(map[string]bool, len(r))
	for _, region := range q.Regions {
		if _, ok := r[region]; !ok || seen[region] {
			continue
		}
		seen[region] = true
		out = append(out, region)
	}
	return out
}

// TotalBreaches суммирует breaches по всем регионам.
func (r Report) TotalBreaches() int {
	total := 0
	for _, s := range r {
		total += s.Breaches
	}
	return total
}
