package api

import "github.com/shaiso/latency/internal/domain"

// LatencyRequest задаёт тело POST /api/latency. Оба поля необязательны.
type LatencyRequest struct {
	Regions     []string `json:"regions"`
	ThresholdMs *float64 `json:"threshold_ms"`
}

// Query переводит запрос в domain.Query, подставляя порог по умолчанию.
func (r LatencyRequest) Query(defaultThreshold float64) domain.Query {
	q := domain.Query{
		Regions:     r.Regions,
		ThresholdMs: defaultThreshold,
	}
	if r.ThresholdMs != nil {
		q.ThresholdMs = *r.ThresholdMs
	}
	if q.Regions == nil {
		q.Regions = []string{}
	}
	return q
}

// LatencyResponse отображает регион в сводку. Сериализуется без обёртки.
type LatencyResponse map[string]RegionSummaryResponse

// RegionSummaryResponse описывает сводку одного региона в ответе.
type RegionSummaryResponse struct {
	AvgLatency float64 `json:"avg_latency"`
	P95Latency float64 `json:"p95_latency"`
	AvgUptime  float64 `json:"avg_uptime"`
	Breaches   int     `json:"breaches"`
}

// SummaryFromDomain конвертирует domain.RegionSummary в RegionSummaryResponse.
func SummaryFromDomain(s domain.RegionSummary) RegionSummaryResponse {
	return RegionSummaryResponse{
		AvgLatency: s.AvgLatency,
		P95Latency: s.P95Latency,
		AvgUptime:  s.AvgUptime,
		Breaches:   s.Breaches,
	}
}
