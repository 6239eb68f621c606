package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/photo-tournament/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// feedDoc — документ коллекции feed_items. UUID хранятся строками.
type feedDoc struct {
	ID        string    `bson:"_id"`
	Kind      string    `bson:"kind"`
	OwnerID   string    `bson:"owner_id"`
	PhotoID   string    `bson:"photo_id"`
	PostDate  time.Time `bson:"post_date"`
	CreatedAt time.Time `bson:"created_at"`
}

// MongoDB DateTime хранит миллисекунды.
func toMS(t time.Time) time.Time { return t.UTC().Truncate(time.Millisecond) }

func toDoc(item models.FeedItem) feedDoc {
	return feedDoc{
		ID:        item.ID,
		Kind:      item.Kind,
		OwnerID:   item.OwnerID.String(),
		PhotoID:   item.PhotoID.String(),
		PostDate:  toMS(item.PostDate),
		CreatedAt: toMS(item.CreatedAt),
	}
}

func fromDoc(d feedDoc) (models.FeedItem, error) {
	owner, err := uuid.Parse(d.OwnerID)
	if err != nil {
		return models.FeedItem{}, fmt.Errorf("owner_id: %w", err)
	}

	photo, err := uuid.Parse(d.PhotoID)
	if err != nil {
		return models.FeedItem{}, fmt.Errorf("photo_id: %w", err)
	}

	return models.FeedItem{
		ID:        d.ID,
		Kind:      d.Kind,
		OwnerID:   owner,
		PhotoID:   photo,
		PostDate:  d.PostDate.UTC(),
		CreatedAt: d.CreatedAt.UTC(),
	}, nil
}

// UpsertFeedItem вставляет документ через $setOnInsert: существующий _id не трогается.
func (m *Mongo) UpsertFeedItem(ctx context.Context, item models.FeedItem) (bool, error) {
	const op = "storage/mongo/UpsertFeedItem"

	doc := toDoc(item)

	res, err := m.feed.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: doc.ID}},
		bson.D{{Key: "$setOnInsert", Value: bson.D{
			{Key: "kind", Value: doc.Kind},
			{Key: "owner_id", Value: doc.OwnerID},
			{Key: "photo_id", Value: doc.PhotoID},
			{Key: "post_date", Value: doc.PostDate},
			{Key: "created_at", Value: doc.CreatedAt},
		}}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return res.UpsertedCount > 0, nil
}

// FeedByOwner возвращает элементы владельца: новые первыми, при равенстве — по _id.
// limit <= 0 — без ограничения.
func (m *Mongo) FeedByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.FeedItem, error) {
	const op = "storage/mongo/FeedByOwner"

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := m.feed.Find(ctx, bson.D{{Key: "owner_id", Value: ownerID.String()}}, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cur.Close(ctx)

	var out []models.FeedItem
	for cur.Next(ctx) {
		var d feedDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}

		item, err := fromDoc(d)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, item)
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// DeleteFeedItems удаляет документы по _id. Отсутствующие id пропускаются.
func (m *Mongo) DeleteFeedItems(ctx context.Context, ids []string) error {
	const op = "storage/mongo/DeleteFeedItems"

	if len(ids) == 0 {
		return nil
	}

	if _, err := m.feed.DeleteMany(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
