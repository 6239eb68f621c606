package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/pribylovaa/photo-tournament/internal/models"
)

// UpsertFeedItem вставляет элемент, если ID ещё не занят.
func (s *Store) UpsertFeedItem(ctx context.Context, item models.FeedItem) (bool, error) {
	const op = "storage/memory/UpsertFeedItem"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enter(OpFeedUpsert); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if _, ok := s.feed[item.ID]; ok {
		return false, nil
	}
	s.feed[item.ID] = item

	return true, nil
}

// FeedByOwner возвращает элементы владельца: новые первыми, при равенстве — по ID.
func (s *Store) FeedByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.FeedItem, error) {
	const op = "storage/memory/FeedByOwner"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enter(OpFeedList); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var out []models.FeedItem
	for _, it := range s.feed {
		if it.OwnerID == ownerID {
			out = append(out, it)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

// DeleteFeedItems удаляет элементы по ID; отсутствующие пропускаются.
func (s *Store) DeleteFeedItems(ctx context.Context, ids []string) error {
	const op = "storage/memory/DeleteFeedItems"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enter(OpFeedDelete); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, id := range ids {
		delete(s.feed, id)
	}

	return nil
}
