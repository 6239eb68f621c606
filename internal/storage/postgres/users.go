package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pribylovaa/photo-tournament/internal/models"
	"github.com/pribylovaa/photo-tournament/internal/storage"
)

const userColumns = `
id, username, gender, region, profile_photo_id, registration_status, updated_at
`

func scanUser(row pgx.Row) (*models.User, error) {
	var (
		u      models.User
		gender int16
		photo  pgtype.UUID
		status string
	)

	if err := row.Scan(
		&u.ID,
		&u.Username,
		&gender,
		&u.Region,
		&photo,
		&status,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}

	u.Gender = models.Gender(gender)
	u.RegistrationStatus = models.RegistrationStatus(status)
	u.UpdatedAt = u.UpdatedAt.UTC()

	if photo.Valid {
		id := uuid.UUID(photo.Bytes)
		u.ProfilePhotoID = &id
	}

	return &u, nil
}

// UserByID возвращает пользователя.
// Ошибки: storage.ErrUserNotFound, либо ошибка выполнения запроса.
func (s *Storage) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "storage/postgres/users/UserByID"

	result, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

// SetProfilePhoto перезаписывает указатель на фото профиля (last-writer-wins).
func (s *Storage) SetProfilePhoto(ctx context.Context, userID, photoID uuid.UUID) error {
	const op = "storage/postgres/users/SetProfilePhoto"

	q := `UPDATE users SET profile_photo_id = $2, updated_at = now() WHERE id = $1`

	tag, err := s.db.Exec(ctx, q, userID, photoID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}

	return nil
}

// UpdateRegistrationStatus пересчитывает статус регистрации и пишет его,
// только если он отличается от сохранённого.
func (s *Storage) UpdateRegistrationStatus(ctx context.Context, userID uuid.UUID) (models.RegistrationStatus, error) {
	const op = "storage/postgres/users/UpdateRegistrationStatus"

	user, err := s.UserByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	status := models.ComputeRegistrationStatus(*user)
	if status == user.RegistrationStatus {
		return status, nil
	}

	q := `
	UPDATE users SET registration_status = $2, updated_at = now()
	WHERE id = $1 AND registration_status <> $2
	`

	if _, err := s.db.Exec(ctx, q, userID, string(status)); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return status, nil
}
