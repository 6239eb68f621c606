package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pribylovaa/photo-tournament/internal/models"
	"github.com/pribylovaa/photo-tournament/internal/storage"
)

// insertQueries — по запросу на окно. Имя таблицы берётся только из models.Windows.
//
// Запись и счётчик меняются одним statement: счётчик растёт,
// только если INSERT действительно добавил строку.
var insertQueries = func() map[models.Window]string {
	out := make(map[models.Window]string, len(models.Windows))
	for _, w := range models.Windows {
		out[w] = `
		WITH ins AS (
			INSERT INTO leaderboard_` + string(w) + ` (category, photo_id, post_date)
			VALUES ($1, $2, $3)
			ON CONFLICT (category, photo_id) DO NOTHING
			RETURNING 1
		)
		UPDATE leaderboard_counters
		SET entries = entries + 1
		WHERE window_name = $4 AND EXISTS (SELECT 1 FROM ins)
		`
	}
	return out
}()

// InsertEntry — upsert по (category, photo_id); повтор не меняет ни таблицу, ни счётчик.
func (s *Storage) InsertEntry(ctx context.Context, window models.Window, entry models.LeaderboardEntry) error {
	const op = "storage/postgres/leaderboards/InsertEntry"

	q, ok := insertQueries[window]
	if !ok {
		return fmt.Errorf("%s: unknown window %q: %w", op, window, storage.ErrInvalidArgument)
	}

	if _, err := s.db.Exec(ctx, q, entry.Category, entry.PhotoID, entry.PostDate.UTC(), string(window)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Count читает счётчик окна из leaderboard_counters. Таблица окна не сканируется.
func (s *Storage) Count(ctx context.Context, window models.Window) (int64, error) {
	const op = "storage/postgres/leaderboards/Count"

	if !window.Valid() {
		return 0, fmt.Errorf("%s: unknown window %q: %w", op, window, storage.ErrInvalidArgument)
	}

	var n int64
	err := s.db.QueryRow(ctx, `SELECT entries FROM leaderboard_counters WHERE window_name = $1`, string(window)).Scan(&n)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}

		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}
