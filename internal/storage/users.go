package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/pribylovaa/photo-tournament/internal/models"
)

// Users — контракт хранилища пользователей в части, которую трогает воркер.
type Users interface {
	// UserByID возвращает пользователя; ErrUserNotFound при отсутствии.
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// SetProfilePhoto — last-writer-wins, без CAS.
	SetProfilePhoto(ctx context.Context, userID, photoID uuid.UUID) error
	// UpdateRegistrationStatus пересчитывает статус через models.ComputeRegistrationStatus
	// и записывает его, только если он изменился.
	UpdateRegistrationStatus(ctx context.Context, userID uuid.UUID) (models.RegistrationStatus, error)
}
