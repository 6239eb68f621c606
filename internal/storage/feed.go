package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/pribylovaa/photo-tournament/internal/models"
)

// Feed — контракт хранилища элементов ленты.
type Feed interface {
	// UpsertFeedItem вставляет элемент, если элемента с тем же ID ещё нет.
	// inserted=false означает, что элемент уже был (повторная публикация).
	UpsertFeedItem(ctx context.Context, item models.FeedItem) (inserted bool, err error)
	// FeedByOwner возвращает элементы владельца, новые первыми.
	FeedByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.FeedItem, error)
	// DeleteFeedItems удаляет элементы по ID (компенсирующее удаление дубликатов).
	DeleteFeedItems(ctx context.Context, ids []string) error
}
