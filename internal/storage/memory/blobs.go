package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/pribylovaa/photo-tournament/internal/storage"
)

// OpenIncoming отдаёт копию объекта incoming-бакета.
func (s *Store) OpenIncoming(ctx context.Context, key string) (io.ReadCloser, error) {
	const op = "storage/memory/OpenIncoming"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enter(OpBlobOpenIncoming); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	b, ok := s.incoming[key]
	if !ok {
		return nil, fmt.Errorf("%s: %q: %w", op, key, storage.ErrSourceMissing)
	}

	return io.NopCloser(bytes.NewReader(append([]byte(nil), b...))), nil
}

// PutServed перезаписывает объект served-бакета.
func (s *Store) PutServed(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	const op = "storage/memory/PutServed"

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if size >= 0 && int64(len(data)) != size {
		return fmt.Errorf("%s: size mismatch %d != %d: %w", op, len(data), size, storage.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enter(OpBlobPutServed); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.served[key] = data

	return nil
}

// ServedURL возвращает условный URL объекта.
func (s *Store) ServedURL(key string) string {
	return defaultServedURLPrefix + key
}
