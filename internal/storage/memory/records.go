package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/photo-tournament/internal/models"
	"github.com/pribylovaa/photo-tournament/internal/storage"
)

// CreatePhoto создаёт запись фото; storage.ErrAlreadyExists при повторе id.
func (s *Store) CreatePhoto(ctx context.Context, photo *models.Photo) error {
	const op = "storage/memory/CreatePhoto"

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.photos[photo.ID]; ok {
		return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
	}
	s.photos[photo.ID] = *photo

	return nil
}

// PhotoByID возвращает копию записи фото.
func (s *Store) PhotoByID(ctx context.Context, id uuid.UUID) (*models.Photo, error) {
	const op = "storage/memory/PhotoByID"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enter(OpPhotoGet); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p, ok := s.photos[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrPhotoNotFound)
	}

	return &p, nil
}

// MarkUploaded выставляет uploaded=true.
func (s *Store) MarkUploaded(ctx context.Context, id uuid.UUID) error {
	const op = "storage/memory/MarkUploaded"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enter(OpPhotoMarkUploaded); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	p, ok := s.photos[id]
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrPhotoNotFound)
	}
	p.Uploaded = true
	s.photos[id] = p

	return nil
}

// MarkCopyComplete выставляет copy_complete=true и uploaded=true.
func (s *Store) MarkCopyComplete(ctx context.Context, id uuid.UUID) error {
	const op = "storage/memory/MarkCopyComplete"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enter(OpPhotoMarkCopy); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	p, ok := s.photos[id]
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrPhotoNotFound)
	}
	p.Uploaded = true
	p.CopyComplete = true
	s.photos[id] = p

	return nil
}

// InsertEntry — upsert по (category, photo_id); счётчик растёт только при реальной вставке.
func (s *Store) InsertEntry(ctx context.Context, window models.Window, entry models.LeaderboardEntry) error {
	const op = "storage/memory/InsertEntry"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enter(OpLeaderboardInsert + string(window)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	table, ok := s.leaderboards[window]
	if !ok {
		return fmt.Errorf("%s: unknown window %q: %w", op, window, storage.ErrInvalidArgument)
	}

	key := leaderboardKey{category: entry.Category, photoID: entry.PhotoID}
	if _, exists := table[key]; exists {
		return nil
	}

	entry.PostDate = entry.PostDate.UTC()
	table[key] = entry
	s.counters[window]++

	return nil
}

// Count возвращает значение счётчика окна.
func (s *Store) Count(ctx context.Context, window models.Window) (int64, error) {
	const op = "storage/memory/Count"

	s.mu.Lock()
	defer s.mu.Unlock()

	if !window.Valid() {
		return 0, fmt.Errorf("%s: unknown window %q: %w", op, window, storage.ErrInvalidArgument)
	}

	return s.counters[window], nil
}

// UserByID возвращает копию пользователя.
func (s *Store) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "storage/memory/UserByID"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enter(OpUserGet); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}

	return copyUser(u), nil
}

// SetProfilePhoto — last-writer-wins.
func (s *Store) SetProfilePhoto(ctx context.Context, userID, photoID uuid.UUID) error {
	const op = "storage/memory/SetProfilePhoto"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enter(OpUserSetProfilePhoto); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	u, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}

	id := photoID
	u.ProfilePhotoID = &id
	u.UpdatedAt = time.Now().UTC()
	s.users[userID] = u

	return nil
}

// UpdateRegistrationStatus пересчитывает и сохраняет статус регистрации.
func (s *Store) UpdateRegistrationStatus(ctx context.Context, userID uuid.UUID) (models.RegistrationStatus, error) {
	const op = "storage/memory/UpdateRegistrationStatus"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enter(OpUserUpdateRegStatus); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	u, ok := s.users[userID]
	if !ok {
		return "", fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}

	status := models.ComputeRegistrationStatus(u)
	if u.RegistrationStatus != status {
		u.RegistrationStatus = status
		u.UpdatedAt = time.Now().UTC()
		s.users[userID] = u
	}

	return status, nil
}

// copyUser отвязывает указатель ProfilePhotoID от внутреннего состояния.
func copyUser(u models.User) *models.User {
	out := u
	if u.ProfilePhotoID != nil {
		id := *u.ProfilePhotoID
		out.ProfilePhotoID = &id
	}

	return &out
}
