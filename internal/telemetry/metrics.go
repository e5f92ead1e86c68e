package telemetry

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics содержит метрики latency-api.
type Metrics struct {
	requests        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	regionsReported prometheus.Counter
	breaches        prometheus.Counter
	published       *prometheus.CounterVec
}

// NewMetrics регистрирует метрики в reg. В main передаётся
// prometheus.DefaultRegisterer, в тестах отдельный registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "latency_api_http_requests_total",
			Help: "Total HTTP requests handled by latency_api",
		}, []string{"method", "status"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "latency_api_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		regionsReported: f.NewCounter(prometheus.CounterOpts{
			Name: "latency_api_regions_reported_total",
			Help: "Region summaries returned to clients",
		}),
		breaches: f.NewCounter(prometheus.CounterOpts{
			Name: "latency_api_breaches_total",
			Help: "Threshold breaches counted across all responses",
		}),
		published: f.NewCounterVec(prometheus.CounterOpts{
			Name: "latency_api_breach_events_total",
			Help: "Breach events published to RabbitMQ",
		}, []string{"result"}),
	}
}

// ObserveRequest учитывает один HTTP запрос.
func (m *Metrics) ObserveRequest(method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method).Observe(d.Seconds())
}

// ObserveReport учитывает результат агрегации.
func (m *Metrics) ObserveReport(regions, breaches int) {
	if m == nil {
		return
	}
	m.regionsReported.Add(float64(regions))
	m.breaches.Add(float64(breaches))
}

// ObservePublish учитывает попытку публикации breach события.
func (m *Metrics) ObservePublish(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.published.WithLabelValues(result).Inc()
}
