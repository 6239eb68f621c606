package handlers

import (
	"net/http"
	"time"
)

// Livez — процесс жив. Зависимости не проверяются.
func (h *Handlers) Livez(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Healthz — готовность: хранилища подключены, consumer запущен.
func (h *Handlers) Healthz(w http.ResponseWriter, _ *http.Request) {
	if !h.ready.Load() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "fail"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
