package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/shaiso/latency/internal/aggregator"
	"github.com/shaiso/latency/internal/domain"
	"github.com/shaiso/latency/internal/telemetry"
)

// maxBodyBytes ограничивает размер тела запроса.
const maxBodyBytes = 1 << 20

// Latency возвращает сводку задержек по запрошенным регионам.
// POST /api/latency
func (h *Handler) Latency(w http.ResponseWriter, r *http.Request) {
	logger := telemetry.FromContext(r.Context())

	req, err := decodeLatencyRequest(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			TooLarge(w, "request body too large")
			return
		}
		BadRequest(w, "invalid request body")
		return
	}

	q := req.Query(h.defaultThreshold)

	report, err := h.aggregator.Aggregate(q)
	if err != nil {
		InternalError(w, logger, err)
		return
	}

	resp := make(LatencyResponse, len(report))
	for region, s := range report {
		resp[region] = SummaryFromDomain(s)
	}

	h.metrics.ObserveReport(len(report), report.TotalBreaches())
	logger.Debug("latency report",
		"regions_requested", len(q.Regions),
		"regions_reported", len(report),
		"threshold_ms", q.ThresholdMs,
	)

	h.notify(w.Header().Get(HeaderRequestID), q, report)

	JSON(w, http.StatusOK, resp)
}

// decodeLatencyRequest читает ровно один JSON объект. null на верхнем
// уровне и данные после объекта считаются ошибкой.
func decodeLatencyRequest(body io.Reader) (LatencyRequest, error) {
	dec := json.NewDecoder(body)

	var req *LatencyRequest
	if err := dec.Decode(&req); err != nil {
		return LatencyRequest{}, err
	}
	if req == nil {
		return LatencyRequest{}, errors.New("request body is null")
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after request body")
		}
		return LatencyRequest{}, err
	}
	return *req, nil
}

// notify публикует breach события в фоне. Ошибка только логируется,
// ответ клиенту от неё не зависит.
func (h *Handler) notify(requestID string, q domain.Query, report aggregator.Report) {
	if h.notifier == nil || report.TotalBreaches() == 0 {
		return
	}

	regions := report.Regions(q)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		err := h.notifier.NotifyBreaches(ctx, requestID, q.ThresholdMs, regions, report)
		h.metrics.ObservePublish(err)
		if err != nil {
			h.logger.Warn("publish breaches failed", "error", err, "request_id", requestID)
		}
	}()
}
