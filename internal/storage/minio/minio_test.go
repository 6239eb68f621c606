package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pribylovaa/photo-tournament/internal/config"
	"github.com/pribylovaa/photo-tournament/internal/storage"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Интеграционные тесты для пакета minio:
// — поднимают MinIO через testcontainers-go и создают incoming/served;
// — проверяют:
//    New: ошибку при отсутствии бакета;
//    OpenIncoming: чтение объекта и ErrSourceMissing на отсутствующий ключ;
//    PutServed: перезапись по ключу и анонимное чтение по ServedURL.
//
// Запуск:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/minio -v -race -count=1

const (
	rootUser     = "root"
	rootPassword = "rootpass"
)

func startMinio(t *testing.T, createBuckets bool) (*BlobsStorage, *mclient.Client, func()) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	const image = "docker.io/minio/minio:latest"
	req := tc.ContainerRequest{
		Image: image,
		Env: map[string]string{
			"MINIO_ROOT_USER":     rootUser,
			"MINIO_ROOT_PASSWORD": rootPassword,
		},
		Cmd:          []string{"server", "/data"},
		ExposedPorts: []string{"9000/tcp"},
		WaitingFor:   wait.ForHTTP("/minio/health/ready").WithPort("9000/tcp").WithStartupTimeout(60 * time.Second),
	}
	t.Logf("starting minio container with image=%q", image)
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "9000/tcp")
	endpoint := fmt.Sprintf("http://%s:%s", host, port.Port())

	admin, err := mclient.New(host+":"+port.Port(), &mclient.Options{
		Creds:  credentials.NewStaticV4(rootUser, rootPassword, ""),
		Secure: false,
	})
	require.NoError(t, err)

	if createBuckets {
		for _, b := range []string{"incoming", "served"} {
			require.NoError(t, admin.MakeBucket(ctx, b, mclient.MakeBucketOptions{Region: "us-east-1"}))
		}
	}

	cfg := config.S3Config{
		Endpoint:       endpoint,
		RootUser:       rootUser,
		RootPassword:   rootPassword,
		IncomingBucket: "incoming",
		ServedBucket:   "served",
	}

	st, err := New(ctx, cfg)
	if !createBuckets {
		require.Error(t, err)
		_ = c.Terminate(context.Background())
		return nil, nil, func() {}
	}
	require.NoError(t, err)

	return st, admin, func() { _ = c.Terminate(context.Background()) }
}

func TestIntegration_New_BucketsMustExist(t *testing.T) {
	_, _, _ = startMinio(t, false)
}

func TestIntegration_OpenIncoming(t *testing.T) {
	st, admin, cleanup := startMinio(t, true)
	defer cleanup()
	ctx := context.Background()

	body := []byte("source-bytes")
	_, err := admin.PutObject(ctx, "incoming", "uploads/abc", bytes.NewReader(body), int64(len(body)), mclient.PutObjectOptions{})
	require.NoError(t, err)

	rc, err := st.OpenIncoming(ctx, "uploads/abc")
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	require.Equal(t, body, got)

	_, err = st.OpenIncoming(ctx, "uploads/missing")
	require.ErrorIs(t, err, storage.ErrSourceMissing)
}

func TestIntegration_PutServed_PublicAndIdempotent(t *testing.T) {
	st, _, cleanup := startMinio(t, true)
	defer cleanup()
	ctx := context.Background()

	data := []byte("thumb")
	for i := 0; i < 2; i++ {
		require.NoError(t, st.PutServed(ctx, "id_240.jpg", bytes.NewReader(data), int64(len(data)), "image/jpeg"))
	}

	resp, err := http.Get(st.ServedURL("id_240.jpg"))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
	got, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, data, got)
}
