package storage

import (
	"context"

	"github.com/pribylovaa/photo-tournament/internal/models"
)

// Leaderboards — контракт оконных лидербордов.
type Leaderboards interface {
	// InsertEntry — upsert по (category, photo_id) в таблицу окна.
	// Повторная вставка того же ключа не меняет состояние.
	InsertEntry(ctx context.Context, window models.Window, entry models.LeaderboardEntry) error
	// Count возвращает число записей окна из таблицы счётчиков (без сканирования).
	Count(ctx context.Context, window models.Window) (int64, error)
}
