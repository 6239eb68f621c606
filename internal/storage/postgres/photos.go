package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pribylovaa/photo-tournament/internal/models"
	"github.com/pribylovaa/photo-tournament/internal/storage"
)

// photoColumns — порядок колонок для SELECT/RETURNING и scanPhoto.
const photoColumns = `
id, category, user_id, post_date, file_name, set_as_profile_photo, uploaded, copy_complete
`

func scanPhoto(row pgx.Row) (*models.Photo, error) {
	var p models.Photo

	if err := row.Scan(
		&p.ID,
		&p.Category,
		&p.UserID,
		&p.PostDate,
		&p.FileName,
		&p.SetAsProfilePhoto,
		&p.Uploaded,
		&p.CopyComplete,
	); err != nil {
		return nil, err
	}

	p.PostDate = p.PostDate.UTC()

	return &p, nil
}

// CreatePhoto вставляет запись фото (upload-эндпоинт, тулинг, тесты).
// Ошибки: storage.ErrAlreadyExists при конфликте PK, storage.ErrInvalidArgument
// при нарушении CHECK (формат категории).
func (s *Storage) CreatePhoto(ctx context.Context, photo *models.Photo) error {
	const op = "storage/postgres/photos/CreatePhoto"

	q := `
	INSERT INTO photos (id, category, user_id, post_date, file_name, set_as_profile_photo, uploaded, copy_complete)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.db.Exec(ctx, q,
		photo.ID,
		photo.Category,
		photo.UserID,
		photo.PostDate.UTC(),
		photo.FileName,
		photo.SetAsProfilePhoto,
		photo.Uploaded,
		photo.CopyComplete,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
			case pgerrcode.CheckViolation:
				return fmt.Errorf("%s: %w: %s", op, storage.ErrInvalidArgument, pgErr.ConstraintName)
			}
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// PhotoByID возвращает запись фото.
// Ошибки: storage.ErrPhotoNotFound, либо ошибка выполнения запроса.
func (s *Storage) PhotoByID(ctx context.Context, id uuid.UUID) (*models.Photo, error) {
	const op = "storage/postgres/photos/PhotoByID"

	q := `SELECT ` + photoColumns + ` FROM photos WHERE id = $1`

	result, err := scanPhoto(s.db.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrPhotoNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

// MarkUploaded выставляет uploaded = true. Статемент никогда не пишет false.
func (s *Storage) MarkUploaded(ctx context.Context, id uuid.UUID) error {
	const op = "storage/postgres/photos/MarkUploaded"

	tag, err := s.db.Exec(ctx, `UPDATE photos SET uploaded = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrPhotoNotFound)
	}

	return nil
}

// MarkCopyComplete выставляет copy_complete = true вместе с uploaded = true.
func (s *Storage) MarkCopyComplete(ctx context.Context, id uuid.UUID) error {
	const op = "storage/postgres/photos/MarkCopyComplete"

	tag, err := s.db.Exec(ctx, `UPDATE photos SET uploaded = true, copy_complete = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrPhotoNotFound)
	}

	return nil
}
