// minio предоставляет реализацию storage.Blobs на базе MinIO/S3.
// minio.go - конструктор клиента: нормализует endpoint, проверяет оба бакета
// и ставит public-read политику на served-бакет.
// blobs.go - чтение исходников из incoming и публикация превью в served.
package minio

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pribylovaa/photo-tournament/internal/config"
	"github.com/pribylovaa/photo-tournament/internal/storage"
)

// BlobsStorage — адаптер MinIO для двух бакетов воркера.
type BlobsStorage struct {
	cfg     config.S3Config
	client  *mclient.Client
	baseURL string
}

// New создает клиент MinIO и выполняет fail-fast-проверку бакетов.
// Повторы внутри minio-go отключены: ретраи принадлежат воркеру.
func New(ctx context.Context, cfg config.S3Config) (*BlobsStorage, error) {
	const op = "storage/minio/New"

	mclient.MaxRetry = 1

	endpoint := cfg.Endpoint
	secure := strings.HasPrefix(endpoint, "https://")

	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" {
		endpoint = u.Host
		secure = u.Scheme == "https"
	}

	client, err := mclient.New(endpoint, &mclient.Options{
		Creds:  credentials.NewStaticV4(cfg.RootUser, cfg.RootPassword, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, bucket := range []string{cfg.IncomingBucket, cfg.ServedBucket} {
		exists, err := client.BucketExists(ctx, bucket)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if !exists {
			return nil, fmt.Errorf("%s: bucket %q does not exist", op, bucket)
		}
	}

	if !cfg.SkipPublicPolicy {
		if err := client.SetBucketPolicy(ctx, cfg.ServedBucket, publicReadPolicy(cfg.ServedBucket)); err != nil {
			return nil, fmt.Errorf("%s: set public policy: %w", op, err)
		}
	}

	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		scheme := "http"
		if secure {
			scheme = "https"
		}
		base = scheme + "://" + endpoint
	}

	return &BlobsStorage{cfg: cfg, client: client, baseURL: base}, nil
}

// publicReadPolicy — анонимный s3:GetObject на все объекты бакета.
func publicReadPolicy(bucket string) string {
	type statement struct {
		Effect    string              `json:"Effect"`
		Principal map[string][]string `json:"Principal"`
		Action    []string            `json:"Action"`
		Resource  []string            `json:"Resource"`
	}

	policy := struct {
		Version   string      `json:"Version"`
		Statement []statement `json:"Statement"`
	}{
		Version: "2012-10-17",
		Statement: []statement{{
			Effect:    "Allow",
			Principal: map[string][]string{"AWS": {"*"}},
			Action:    []string{"s3:GetObject"},
			Resource:  []string{"arn:aws:s3:::" + bucket + "/*"},
		}},
	}

	b, _ := json.Marshal(policy)

	return string(b)
}

var _ storage.Blobs = (*BlobsStorage)(nil)
