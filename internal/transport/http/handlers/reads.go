package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pribylovaa/photo-tournament/internal/models"
	"github.com/pribylovaa/photo-tournament/internal/pkg/log"
)

const (
	defaultFeedLimit = 50
	maxFeedLimit     = 500
)

// FeedReader читает ленту владельца без дубликатов (feed.Publisher).
type FeedReader interface {
	List(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.FeedItem, error)
}

// LeaderboardCounter отдаёт размер окна лидерборда из таблицы счётчиков.
type LeaderboardCounter interface {
	Count(ctx context.Context, window models.Window) (int64, error)
}

// WithReaders подключает обработчики чтения ленты и счётчиков лидербордов.
func (h *Handlers) WithReaders(feed FeedReader, counts LeaderboardCounter) *Handlers {
	h.feed = feed
	h.counts = counts
	return h
}

// ServesReads сообщает, подключены ли обработчики чтения.
func (h *Handlers) ServesReads() bool {
	return h.feed != nil && h.counts != nil
}

// FeedItemResponse — элемент ленты в ответе GET /feed/{owner}.
type FeedItemResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	OwnerID   string    `json:"owner_id"`
	PhotoID   string    `json:"photo_id"`
	PostDate  time.Time `json:"post_date"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedResponse — ответ GET /feed/{owner}.
type FeedResponse struct {
	Items []FeedItemResponse `json:"items"`
}

// GetFeed — лента владельца. Чтение удаляет устаревшие дубликаты.
func (h *Handlers) GetFeed(w http.ResponseWriter, r *http.Request) {
	const op = "transport/http/handlers/GetFeed"

	ctx, lg := log.With(r.Context(), "op", op)

	owner, err := uuid.Parse(chi.URLParam(r, "owner"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_argument", "owner must be a uuid")
		return
	}

	limit := defaultFeedLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxFeedLimit {
			writeError(w, r, http.StatusBadRequest, "invalid_argument", "limit must be in [1..500]")
			return
		}
		limit = n
	}

	items, err := h.feed.List(ctx, owner, limit)
	if err != nil {
		lg.Error("feed_list_failed", "owner_id", owner.String(), "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	resp := FeedResponse{Items: make([]FeedItemResponse, 0, len(items))}
	for _, it := range items {
		resp.Items = append(resp.Items, FeedItemResponse{
			ID:        it.ID,
			Kind:      it.Kind,
			OwnerID:   it.OwnerID.String(),
			PhotoID:   it.PhotoID.String(),
			PostDate:  it.PostDate,
			CreatedAt: it.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// CountResponse — ответ GET /leaderboards/{window}/count.
type CountResponse struct {
	Window string `json:"window"`
	Count  int64  `json:"count"`
}

// GetLeaderboardCount — число записей окна.
func (h *Handlers) GetLeaderboardCount(w http.ResponseWriter, r *http.Request) {
	const op = "transport/http/handlers/GetLeaderboardCount"

	ctx, lg := log.With(r.Context(), "op", op)

	window := models.Window(chi.URLParam(r, "window"))
	if !window.Valid() {
		writeError(w, r, http.StatusBadRequest, "invalid_argument", "unknown leaderboard window")
		return
	}

	n, err := h.counts.Count(ctx, window)
	if err != nil {
		lg.Error("leaderboard_count_failed", "window", string(window), "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, CountResponse{Window: string(window), Count: n})
}
