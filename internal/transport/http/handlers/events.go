package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/pribylovaa/photo-tournament/internal/metrics"
	"github.com/pribylovaa/photo-tournament/internal/models"
	"github.com/pribylovaa/photo-tournament/internal/pkg/log"
	"github.com/pribylovaa/photo-tournament/internal/service"
	"github.com/pribylovaa/photo-tournament/internal/transport/http/middleware"
)

const (
	// HeaderAttempt — необязательный номер доставки от источника webhook.
	HeaderAttempt = "X-Delivery-Attempt"

	maxEventBody = 1 << 20
	transport    = "http"
)

// EventResult — итог одной записи конверта.
type EventResult struct {
	Key     string `json:"key"`
	Outcome string `json:"outcome"`
	Reason  string `json:"reason,omitempty"`
	State   string `json:"state,omitempty"`
}

// EventsResponse — ответ POST /events.
type EventsResponse struct {
	Results []EventResult `json:"results"`
}

// PostEvents — webhook-приёмник уведомлений S3/MinIO.
//
// Каждая запись конверта обрабатывается воркером. Если хотя бы одна получила
// retry — 503, источник повторит доставку целиком (повтор идемпотентен).
// dead_letter уходит в sink. Не разбирающийся конверт — 400.
func (h *Handlers) PostEvents(w http.ResponseWriter, r *http.Request) {
	const op = "transport/http/handlers/PostEvents"

	ctx, lg := log.With(r.Context(), "op", op)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxEventBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "payload_too_large", "event envelope too large")
			return
		}
		writeError(w, r, http.StatusBadRequest, "invalid_argument", "cannot read body")
		return
	}

	events, err := models.DecodeS3Event(body)
	if err != nil {
		lg.Warn("malformed_envelope", "err", err)
		metrics.Deliveries.WithLabelValues(transport, "rejected").Inc()
		writeError(w, r, http.StatusBadRequest, "invalid_argument", "malformed event envelope")
		return
	}

	attempt, _ := strconv.Atoi(r.Header.Get(HeaderAttempt))

	keys := make([]string, 0, len(events))
	for _, ev := range events {
		keys = append(keys, ev.Key)
	}
	middleware.AddLogAttrs(ctx, slog.Int("records", len(events)), slog.Any("keys", keys), slog.Int("attempt", attempt))

	resp := EventsResponse{Results: make([]EventResult, 0, len(events))}
	retry := false

	for _, ev := range events {
		ev.Attempt = attempt
		res := h.proc.Ingest(ctx, ev)

		if res.Outcome == service.OutcomeDeadLetter {
			if err := h.sink.Send(ctx, ev, res.Reason); err != nil {
				lg.Warn("dead_letter_failed", "key", ev.Key, "err", err)
				res.Outcome = service.OutcomeRetry
			} else {
				metrics.Deliveries.WithLabelValues(transport, "dead_letter").Inc()
			}
		}

		if res.Outcome == service.OutcomeRetry {
			retry = true
		}

		item := EventResult{Key: ev.Key, Outcome: string(res.Outcome), Reason: res.Reason}
		if res.PhotoID != uuid.Nil {
			item.State = res.State.String()
		}
		resp.Results = append(resp.Results, item)
	}

	if retry {
		metrics.Deliveries.WithLabelValues(transport, "pending").Inc()
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	metrics.Deliveries.WithLabelValues(transport, "ack").Inc()
	writeJSON(w, http.StatusOK, resp)
}
