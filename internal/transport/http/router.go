package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/photo-tournament/internal/transport/http/handlers"
	"github.com/pribylovaa/photo-tournament/internal/transport/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger *slog.Logger
	// Metrics — отдавать ли /metrics (promhttp, default registry).
	Metrics bool
	// Timeout — дедлайн POST /events и ручек чтения; <=0 — без дедлайна.
	Timeout time.Duration
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(h *handlers.Handlers, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),
		middleware.RequestID(), // до логирования
		middleware.Logging(opts.Logger),
		middleware.Metrics(),
	)

	root.Get("/livez", h.Livez)
	root.Get("/healthz", h.Healthz)
	if opts.Metrics {
		root.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}

	root.With(middleware.Timeout(opts.Timeout)).Post("/events", h.PostEvents)

	if h.ServesReads() {
		root.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(opts.Timeout))
			r.Get("/feed/{owner}", h.GetFeed)
			r.Get("/leaderboards/{window}/count", h.GetLeaderboardCount)
		})
	}

	return root
}
