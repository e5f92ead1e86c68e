package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shaiso/latency/internal/domain"
)

// Querier покрывает методы пула, которые нужны репозиторию.
// *pgxpool.Pool и pgx.Tx удовлетворяют ему.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// SampleRepo читает телеметрию из таблицы telemetry_samples.
//
// Схема:
//
//	CREATE TABLE telemetry_samples (
//	    id         BIGSERIAL PRIMARY KEY,
//	    region     TEXT             NOT NULL,
//	    latency_ms DOUBLE PRECISION NOT NULL,
//	    uptime_pct DOUBLE PRECISION NOT NULL
//	);
type SampleRepo struct {
	db Querier
}

// NewSampleRepo создаёт новый SampleRepo.
func NewSampleRepo(db Querier) *SampleRepo {
	return &SampleRepo{db: db}
}

// List возвращает все samples в порядке вставки.
func (r *SampleRepo) List(ctx context.Context) ([]domain.Sample, error) {
	query := `
		SELECT region, latency_ms, uptime_pct
		FROM telemetry_samples
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list samples: %w", err)
	}

	samples, err := pgx.CollectRows(rows, scanSample)
	if err != nil {
		return nil, fmt.Errorf("scan samples: %w", err)
	}
	return samples, nil
}

func scanSample(row pgx.CollectableRow) (domain.Sample, error) {
	var s domain.Sample
	err := row.Scan(&s.Region, &s.LatencyMs, &s.UptimePct)
	return s, err
}
