package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/pribylovaa/photo-tournament/internal/models"
)

// Photos — контракт хранилища записей фото.
type Photos interface {
	// PhotoByID возвращает запись фото; ErrPhotoNotFound при отсутствии.
	PhotoByID(ctx context.Context, id uuid.UUID) (*models.Photo, error)
	// MarkUploaded выставляет uploaded=true. Повтор — no-op.
	MarkUploaded(ctx context.Context, id uuid.UUID) error
	// MarkCopyComplete выставляет copy_complete=true (вместе с uploaded=true,
	// чтобы сохранялось copy_complete => uploaded). Повтор — no-op.
	MarkCopyComplete(ctx context.Context, id uuid.UUID) error
}

// PhotosStorage — хранилище фото с операцией создания (upload-эндпоинт, тесты, тулинг).
type PhotosStorage interface {
	Photos
	// CreatePhoto создаёт запись; ErrAlreadyExists при конфликте PK.
	CreatePhoto(ctx context.Context, photo *models.Photo) error
}
