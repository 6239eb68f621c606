package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/pribylovaa/photo-tournament/internal/pkg/log"
)

// Recover перехватывает panic обработчика и отвечает 500/internal.
// Стек пишется в лог, клиенту уходит только request_id.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.From(r.Context()).LogAttrs(r.Context(), slog.LevelError, "http_panic",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("request_id", r.Header.Get(HeaderRequestID)),
					slog.Any("reason", rec),
					slog.String("stack", string(debug.Stack())),
				)
				writeInternal(w, r)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
