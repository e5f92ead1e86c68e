package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/shaiso/latency/internal/aggregator"
	"github.com/shaiso/latency/internal/domain"
	"github.com/shaiso/latency/internal/telemetry"
)

// notifyTimeout ограничивает фоновую публикацию breach событий.
const notifyTimeout = 5 * time.Second

// Aggregator считает отчёт по запросу.
type Aggregator interface {
	Aggregate(q domain.Query) (aggregator.Report, error)
}

// BreachNotifier получает регионы с превышениями. Реализуется mq.Publisher.
type BreachNotifier interface {
	NotifyBreaches(ctx context.Context, requestID string, thresholdMs float64, regions []string, summaries map[string]domain.RegionSummary) error
}

// Handler объединяет зависимости API.
type Handler struct {
	aggregator       Aggregator
	notifier         BreachNotifier
	logger           *slog.Logger
	metrics          *telemetry.Metrics
	cors             CORSConfig
	defaultThreshold float64
}

// Config задаёт зависимости для NewHandler. Notifier и Metrics
// необязательны.
type Config struct {
	Aggregator Aggregator
	Notifier   BreachNotifier
	Logger     *slog.Logger
	Metrics    *telemetry.Metrics

	// AllowOrigin попадает в Access-Control-Allow-Origin. По умолчанию "*".
	AllowOrigin string

	// DefaultThresholdMs используется, если threshold_ms не передан.
	// nil означает domain.DefaultThresholdMs; ноль допустим.
	DefaultThresholdMs *float64
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	threshold := domain.DefaultThresholdMs
	if cfg.DefaultThresholdMs != nil {
		threshold = *cfg.DefaultThresholdMs
	}

	return &Handler{
		aggregator:       cfg.Aggregator,
		notifier:         cfg.Notifier,
		logger:           logger,
		metrics:          cfg.Metrics,
		cors:             DefaultCORS(cfg.AllowOrigin),
		defaultThreshold: threshold,
	}
}
