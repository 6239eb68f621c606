package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/pribylovaa/photo-tournament/internal/pkg/log"
	"github.com/stretchr/testify/require"
)

// capHandler — тестовый slog.Handler: копит базовые attrs и attrs последней записи.
type capHandler struct {
	mu      sync.Mutex
	base    []slog.Attr
	lastMsg string
	lastLvl slog.Level
	attrs   map[string]any
	count   int
}

func (h *capHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *capHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make(map[string]any, len(h.base)+8)
	for _, a := range h.base {
		out[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		out[a.Key] = a.Value.Any()
		return true
	})

	h.count++
	h.lastMsg = r.Message
	h.lastLvl = r.Level
	h.attrs = out

	return nil
}

func (h *capHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.base = append(h.base, attrs...)
	return h
}

func (h *capHandler) WithGroup(string) slog.Handler { return h }

func TestChain_Order(t *testing.T) {
	var order []string

	mk := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mk("m1"), mk("m2"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"m1", "m2", "handler"}, order)
}

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	var fromCtx string
	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = RequestIDFrom(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	id := rec.Header().Get(HeaderRequestID)
	require.Len(t, id, 32)
	require.Equal(t, id, fromCtx)
}

func TestRequestID_KeepsIncoming(t *testing.T) {
	h := RequestID()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, "abc", rec.Header().Get(HeaderRequestID))
}

func TestRecover_PanicTo500(t *testing.T) {
	capt := &capHandler{}
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), RequestID(), Logging(slog.New(capt)), Recover())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "internal", body.Error.Code)
	require.NotContains(t, rec.Body.String(), "boom")
	require.Equal(t, rec.Header().Get(HeaderRequestID), body.Error.RequestID)
}

func TestLogging_RequestScopedLogger(t *testing.T) {
	capt := &capHandler{}

	var inner *slog.Logger
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner = log.From(r.Context())
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("ok"))
	}), RequestID(), Logging(slog.New(capt)))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/events", nil))

	require.NotNil(t, inner)
	require.Equal(t, 1, capt.count)
	require.Equal(t, "http", capt.lastMsg)
	require.Equal(t, slog.LevelInfo, capt.lastLvl)
	require.Equal(t, "POST", capt.attrs["method"])
	require.Equal(t, int64(http.StatusAccepted), capt.attrs["status"])
	require.Equal(t, int64(2), capt.attrs["bytes"])
	require.Equal(t, rec.Header().Get(HeaderRequestID), capt.attrs["request_id"])
}

func TestLogging_HandlerAttrsAndServerErrorLevel(t *testing.T) {
	capt := &capHandler{}

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		AddLogAttrs(r.Context(), slog.Int("records", 2), slog.String("key", "uploads/a"))
		w.WriteHeader(http.StatusServiceUnavailable)
	}), RequestID(), Logging(slog.New(capt)))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/events", nil))

	require.Equal(t, "http", capt.lastMsg)
	require.Equal(t, slog.LevelWarn, capt.lastLvl)
	require.Equal(t, int64(2), capt.attrs["records"])
	require.Equal(t, "uploads/a", capt.attrs["key"])
	require.Equal(t, int64(http.StatusServiceUnavailable), capt.attrs["status"])
}

func TestAddLogAttrs_OutsideLoggingIsNoop(t *testing.T) {
	require.NotPanics(t, func() {
		AddLogAttrs(context.Background(), slog.String("key", "x"))
	})
}

func TestTimeout_KeepsEarlierParentDeadline(t *testing.T) {
	var got time.Time
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got, _ = r.Context().Deadline()
	})

	parent, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	want, _ := parent.Deadline()

	req := httptest.NewRequest(http.MethodPost, "/events", nil).WithContext(parent)
	Timeout(time.Hour)(next).ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, want, got)
}

func TestNormalizePath(t *testing.T) {
	require.Equal(t, "/events", normalizePath("/events"))
	require.Equal(t, "other", normalizePath("/events/123"))
	require.Equal(t, "/feed/{owner}", normalizePath("/feed/6f1c0a52-9a57-4b7e-a1d2-2a9bb2d3c001"))
	require.Equal(t, "other", normalizePath("/feed/"))
	require.Equal(t, "/leaderboards/{window}/count", normalizePath("/leaderboards/week/count"))
	require.Equal(t, "other", normalizePath("/leaderboards/week"))
}

func TestTimeout(t *testing.T) {
	var hasDeadline bool
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		_, hasDeadline = r.Context().Deadline()
	})

	Timeout(0)(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/events", nil))
	require.False(t, hasDeadline)

	Timeout(time.Second)(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/events", nil))
	require.True(t, hasDeadline)
}
