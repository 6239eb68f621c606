package storage

import (
	"context"
	"io"
)

// Blobs — примитивы объектного хранилища над двумя бакетами.
type Blobs interface {
	// OpenIncoming открывает объект incoming-бакета; ErrSourceMissing при отсутствии.
	OpenIncoming(ctx context.Context, key string) (io.ReadCloser, error)
	// PutServed публикует объект в served-бакет, публично читаемым. Идемпотентно по key.
	PutServed(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// ServedURL возвращает публичный URL объекта served-бакета.
	ServedURL(key string) string
}
