package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"

	"github.com/pribylovaa/photo-tournament/internal/models"
	"github.com/pribylovaa/photo-tournament/internal/pkg/log"
	"github.com/pribylovaa/photo-tournament/internal/service"
)

// Processor — обработчик одного события (service.Service).
type Processor interface {
	Ingest(ctx context.Context, ev models.Event) service.Result
}

// DeadLetterSink принимает события с исходом dead_letter.
type DeadLetterSink interface {
	Send(ctx context.Context, ev models.Event, reason string) error
}

// Handlers агрегирует зависимости HTTP-слоя.
type Handlers struct {
	proc  Processor
	sink  DeadLetterSink
	ready *atomic.Bool

	feed   FeedReader
	counts LeaderboardCounter
}

// New собирает обработчики. sink == nil — dead-letter только пишется в лог.
func New(proc Processor, sink DeadLetterSink, ready *atomic.Bool) *Handlers {
	if sink == nil {
		sink = LogSink{}
	}
	if ready == nil {
		ready = &atomic.Bool{}
	}

	return &Handlers{proc: proc, sink: sink, ready: ready}
}

// LogSink — dead-letter без хранилища: событие остаётся только в логе.
type LogSink struct{}

func (LogSink) Send(ctx context.Context, ev models.Event, reason string) error {
	log.From(ctx).Error("dead_letter", "key", ev.Key, "bucket", ev.Bucket, "reason", reason)
	return nil
}

type apiError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type errorResponse struct {
	Error apiError `json:"error"`
}

// writeJSON — единый ответ JSON с нужным Content-Type.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: apiError{
		Code:      code,
		Message:   msg,
		RequestID: r.Header.Get("X-Request-Id"),
	}})
}
