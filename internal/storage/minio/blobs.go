package minio

import (
	"context"
	"fmt"
	"io"
	"net/http"

	mclient "github.com/minio/minio-go/v7"
	"github.com/pribylovaa/photo-tournament/internal/storage"
)

// OpenIncoming открывает объект incoming-бакета на чтение.
// Ошибки: storage.ErrSourceMissing, если объекта нет (уведомление могло обогнать
// видимость объекта), иначе — ошибка minio как есть.
func (s *BlobsStorage) OpenIncoming(ctx context.Context, key string) (io.ReadCloser, error) {
	const op = "storage/minio/blobs/OpenIncoming"

	obj, err := s.client.GetObject(ctx, s.cfg.IncomingBucket, key, mclient.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapNotFound(err))
	}

	// GetObject ленивый: ошибки доступа видны только после первого запроса.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, fmt.Errorf("%s: %w", op, mapNotFound(err))
	}

	return obj, nil
}

// PutServed публикует объект в served-бакет с public-read ACL.
// Один и тот же key перезаписывается, поэтому повтор безопасен.
func (s *BlobsStorage) PutServed(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	const op = "storage/minio/blobs/PutServed"

	_, err := s.client.PutObject(ctx, s.cfg.ServedBucket, key, r, size, mclient.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=31536000, immutable",
		UserMetadata: map[string]string{"x-amz-acl": "public-read"},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ServedURL — <public_base_url>/<served_bucket>/<key>.
func (s *BlobsStorage) ServedURL(key string) string {
	return s.baseURL + "/" + s.cfg.ServedBucket + "/" + key
}

func mapNotFound(err error) error {
	errResp := mclient.ToErrorResponse(err)
	if errResp.Code == "NoSuchKey" || errResp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %v", storage.ErrSourceMissing, err)
	}

	return err
}
