package models

import (
	"time"

	"github.com/google/uuid"
)

// FeedKindNewPhoto — тип элемента ленты "новое фото".
const FeedKindNewPhoto = "new_photo"

// FeedItem — элемент пользовательской ленты.
// ID детерминирован от (OwnerID, PhotoID) у новых продюсеров;
// у legacy-продюсеров ID произвольный, дубликаты чистит читатель.
type FeedItem struct {
	ID        string
	Kind      string
	OwnerID   uuid.UUID
	PhotoID   uuid.UUID
	PostDate  time.Time
	CreatedAt time.Time
}
