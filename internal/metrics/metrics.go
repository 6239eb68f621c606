// metrics — Prometheus-метрики ingest-worker.
// Регистрируются в default registry и отдаются через /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsTotal — исходы обработки событий.
	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_events_total",
			Help: "Количество обработанных событий загрузки по исходу",
		},
		[]string{"outcome", "reason"},
	)

	// StageDuration — длительность шагов state machine.
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ingest_stage_duration_seconds",
			Help:    "Длительность шагов обработки события в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	// StageFailures — отказы шагов по виду (transient/permanent).
	StageFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_stage_failures_total",
			Help: "Количество отказов шагов обработки по виду",
		},
		[]string{"stage", "kind", "reason"},
	)

	// Deliveries — сообщения канала доставки по результату.
	Deliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_deliveries_total",
			Help: "Сообщения канала доставки: ack, pending, dead_letter, reclaimed",
		},
		[]string{"transport", "result"},
	)

	// InFlight — события в обработке.
	InFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ingest_in_flight",
			Help: "Количество событий в обработке",
		},
	)
)

// ObserveStage фиксирует длительность шага от start.
func ObserveStage(stage string, start time.Time) {
	StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
