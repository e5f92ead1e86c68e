package domain

// DefaultThresholdMs используется, когда запрос не задаёт threshold_ms.
const DefaultThresholdMs = 180.0

// Sample описывает одно измерение телеметрии для региона.
//
// Samples загружаются один раз при старте сервиса и дальше не изменяются.
type Sample struct {
	// Region задаёт идентификатор региона (например, "us-east", "apac").
	Region string `json:"region"`

	// LatencyMs хранит задержку в миллисекундах, неотрицательная.
	LatencyMs float64 `json:"latency_ms"`

	// UptimePct хранит доступность в процентах, обычно 0..100.
	UptimePct float64 `json:"uptime_pct"`
}

// Query описывает запрос на агрегацию.
type Query struct {
	// Regions перечисляет регионы в порядке запроса. Дубли допустимы.
	Regions []string

	// ThresholdMs задаёт порог задержки, выше которого sample считается breach.
	ThresholdMs float64
}

// NewQuery создаёт Query с порогом по умолчанию.
func NewQuery(regions ...string) Query {
	return Query{Regions: regions, ThresholdMs: DefaultThresholdMs}
}

// RegionSummary содержит агрегированную статистику по одному региону.
type RegionSummary struct {
	AvgLatency float64 `json:"avg_latency"`
	P95Latency float64 `json:"p95_latency"`
	AvgUptime  float64 `json:"avg_uptime"`

	// Breaches считает samples с LatencyMs строго больше порога.
	Breaches int `json:"breaches"`
}
