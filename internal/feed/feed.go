// feed публикует элементы ленты "новое фото" и дедуплицирует их при чтении.
//
// Идентичность элемента — UUIDv5 от (owner, photo), поэтому повторная публикация
// воркером не создаёт новый элемент. Legacy-продюсеры пишут случайные ID:
// такие дубликаты схлопываются на чтении, а лишние копии удаляются.
package feed

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/photo-tournament/internal/models"
	"github.com/pribylovaa/photo-tournament/internal/pkg/log"
	"github.com/pribylovaa/photo-tournament/internal/storage"
)

// namespace — пространство имён UUIDv5 для элементов ленты.
var namespace = uuid.MustParse("6f1b7c2e-3d4a-5b8c-9e0f-a1b2c3d4e5f6")

// Fingerprint — детерминированный ID элемента ленты для пары (owner, photo).
func Fingerprint(ownerID, photoID uuid.UUID) string {
	name := make([]byte, 0, 32)
	name = append(name, ownerID[:]...)
	name = append(name, photoID[:]...)

	return uuid.NewSHA1(namespace, name).String()
}

type pairKey struct {
	owner uuid.UUID
	photo uuid.UUID
}

// Dedup оставляет по одному элементу на (owner, photo).
// Предпочтение отдаётся элементу с ID == Fingerprint, иначе самому раннему
// (по CreatedAt, затем по ID). Порядок keep совпадает с порядком items.
func Dedup(items []models.FeedItem) (keep []models.FeedItem, stale []models.FeedItem) {
	best := make(map[pairKey]models.FeedItem, len(items))

	for _, it := range items {
		k := pairKey{owner: it.OwnerID, photo: it.PhotoID}
		cur, ok := best[k]
		if !ok || better(it, cur) {
			best[k] = it
		}
	}

	for _, it := range items {
		k := pairKey{owner: it.OwnerID, photo: it.PhotoID}
		if best[k].ID == it.ID {
			keep = append(keep, it)
			continue
		}
		stale = append(stale, it)
	}

	return keep, stale
}

func better(a, b models.FeedItem) bool {
	fp := Fingerprint(a.OwnerID, a.PhotoID)
	if a.ID == fp || b.ID == fp {
		return a.ID == fp
	}

	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}

	return a.ID < b.ID
}

// Publisher — запись и чтение ленты поверх storage.Feed.
type Publisher struct {
	store storage.Feed
	now   func() time.Time
}

// New создаёт Publisher.
func New(store storage.Feed) *Publisher {
	return &Publisher{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// PublishNewPhoto пишет элемент "new_photo". Повтор с теми же (owner, photo) — no-op.
func (p *Publisher) PublishNewPhoto(ctx context.Context, ownerID, photoID uuid.UUID, postDate time.Time) error {
	const op = "feed/PublishNewPhoto"

	item := models.FeedItem{
		ID:        Fingerprint(ownerID, photoID),
		Kind:      models.FeedKindNewPhoto,
		OwnerID:   ownerID,
		PhotoID:   photoID,
		PostDate:  postDate.UTC(),
		CreatedAt: p.now(),
	}

	inserted, err := p.store.UpsertFeedItem(ctx, item)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if !inserted {
		log.From(ctx).Debug("feed item already exists", "op", op, "feed_id", item.ID)
	}

	return nil
}

// List возвращает ленту владельца без дубликатов и удаляет устаревшие копии.
// Ошибка удаления не мешает отдать результат: дубликаты отфильтрованы и будут
// удалены при следующем чтении.
func (p *Publisher) List(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.FeedItem, error) {
	const op = "feed/List"

	items, err := p.store.FeedByOwner(ctx, ownerID, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	keep, stale := Dedup(items)

	if len(stale) > 0 {
		ids := make([]string, 0, len(stale))
		for _, it := range stale {
			ids = append(ids, it.ID)
		}
		sort.Strings(ids)

		if err := p.store.DeleteFeedItems(ctx, ids); err != nil {
			log.From(ctx).Warn("compensating delete failed", "op", op, "stale", len(ids), "err", err)
		}
	}

	if limit > 0 && len(keep) > limit {
		keep = keep[:limit]
	}

	return keep, nil
}
