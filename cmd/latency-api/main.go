package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shaiso/latency/internal/aggregator"
	"github.com/shaiso/latency/internal/api"
	"github.com/shaiso/latency/internal/config"
	"github.com/shaiso/latency/internal/mq"
	"github.com/shaiso/latency/internal/repo"
	"github.com/shaiso/latency/internal/store"
	"github.com/shaiso/latency/internal/telemetry"
)

var startTime = time.Now()

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "latency-api:", err)
		os.Exit(1)
	}
}

// run поднимает сервис и блокируется до сигнала или ошибки listener.
// Все defer выполняются до выхода из процесса.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := telemetry.SetupLogger(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting latency-api", "data_source", cfg.DataSource)

	// Телеметрия загружается один раз; без неё сервис не стартует
	telemetryStore, err := loadStore(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to load telemetry", "error", err)
		return err
	}
	logger.Info("telemetry loaded",
		"samples", telemetryStore.Len(),
		"regions", len(telemetryStore.Regions()),
	)

	metrics := telemetry.NewMetrics(prometheus.DefaultRegisterer)

	var notifier api.BreachNotifier
	if cfg.NotifierEnabled() {
		conn, err := mq.NewConnection(cfg.AMQPURL, logger)
		if err != nil {
			logger.Error("failed to connect to RabbitMQ", "error", err)
			return err
		}
		defer conn.Close()

		if err := mq.SetupTopology(context.Background(), conn); err != nil {
			logger.Error("failed to setup topology", "error", err)
			return err
		}
		notifier = mq.NewPublisher(conn, logger)
		logger.Info("breach notifier enabled", "exchange", mq.ExchangeEvents)
	}

	handler := api.NewHandler(api.Config{
		Aggregator:         aggregator.New(telemetryStore),
		Notifier:           notifier,
		Logger:             logger,
		Metrics:            metrics,
		AllowOrigin:        cfg.CORSAllowOrigin,
		DefaultThresholdMs: &cfg.DefaultThresholdMs,
	})

	mux := http.NewServeMux()

	// Health и metrics
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %s samples=%d", time.Since(startTime), telemetryStore.Len())
	})
	mux.Handle("/healthz", api.AllowOnly("GET"))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("/metrics", api.AllowOnly("GET"))

	handler.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler.Wrap(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logger.Error("server error", "error", err)
			return err
		}
	case <-ctx.Done():
	}
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		return err
	}

	logger.Info("stopped")
	return nil
}

// loadStore читает все samples из настроенного источника. Пул БД нужен
// только на время загрузки.
func loadStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	src := store.Source{Kind: cfg.DataSource, Path: cfg.DataPath}

	if cfg.DataSource == store.SourcePostgres {
		pool, err := repo.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()
		src.Lister = repo.NewSampleRepo(pool)
	}

	return store.Load(ctx, src)
}
