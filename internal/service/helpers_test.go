package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/photo-tournament/internal/blobstore"
	"github.com/pribylovaa/photo-tournament/internal/classify"
	"github.com/pribylovaa/photo-tournament/internal/config"
	"github.com/pribylovaa/photo-tournament/internal/feed"
	"github.com/pribylovaa/photo-tournament/internal/models"
	"github.com/pribylovaa/photo-tournament/internal/storage"
	"github.com/pribylovaa/photo-tournament/internal/storage/memory"
	"github.com/pribylovaa/photo-tournament/internal/thumbnail"
	"github.com/stretchr/testify/require"
)

// uploadKey — ключ загрузки: последние 32 hex-символа — id фото.
const uploadKey = "uploads/abcdef0123456789abcdef0123456789"

var uploadPhotoID = uuid.MustParse("abcdef01-2345-6789-abcd-ef0123456789")

// harness — воркер поверх in-memory хранилищ с инжектором отказов.
type harness struct {
	t     *testing.T
	cfg   *config.Config
	mem   *memory.Store
	blobs *blobstore.Adapter
	svc   *Service
	owner models.User
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		Env:     "local",
		Storage: config.StorageConfig{Driver: config.DriverMemory},
		S3: config.S3Config{
			IncomingBucket: "incoming",
			ServedBucket:   "served",
		},
		Scratch:    config.ScratchConfig{Dir: t.TempDir()},
		Thumbnails: config.ThumbnailsConfig{Widths: []int{240, 480, 960}, JPEGQuality: 85},
		Ingest: config.IngestConfig{
			Concurrency:          1,
			CallTimeout:          5 * time.Second,
			MissingSourceRetries: 2,
		},
		Classifier: config.ClassifierConfig{
			PostgresCodes: []string{"40001", "40P01"},
			S3Codes:       []string{"SlowDown"},
			MongoLabels:   []string{"RetryableWriteError"},
		},
	}
}

func newHarness(t *testing.T, mutate ...func(*config.Config)) *harness {
	t.Helper()

	cfg := testConfig(t)
	for _, m := range mutate {
		m(cfg)
	}

	mem := memory.New()
	blobs, err := blobstore.New(mem, cfg.Scratch.Dir)
	require.NoError(t, err)

	h := &harness{t: t, cfg: cfg, mem: mem, blobs: blobs}
	h.svc = New(cfg, Deps{
		Photos:       mem,
		Leaderboards: mem,
		Users:        mem,
		Blobs:        blobs,
		Renderer:     thumbnail.New(cfg.Thumbnails.JPEGQuality),
		Feed:         feed.New(mem),
		Classifier:   classify.New(cfg.Classifier),
	})

	h.owner = models.User{
		ID:       uuid.New(),
		Username: "alice",
		Gender:   models.GenderMale,
		Region:   "310",
	}
	mem.PutUser(h.owner)

	return h
}

// seed кладёт запись фото и исходник в incoming.
func (h *harness) seed(key string, id uuid.UUID, fileName string, setProfile bool) models.Photo {
	h.t.Helper()

	p := models.Photo{
		ID:                id,
		Category:          "m310",
		UserID:            h.owner.ID,
		PostDate:          time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC),
		FileName:          fileName,
		SetAsProfilePhoto: setProfile,
	}
	h.mem.PutPhoto(p)
	h.mem.PutIncoming(key, testJPEG(h.t, 1200, 800))

	return p
}

func (h *harness) ingest(key string, attempt int) Result {
	h.t.Helper()

	return h.svc.Ingest(context.Background(), models.Event{Key: key, Bucket: "incoming", Attempt: attempt})
}

// failOnce — транзиентный отказ при n-м по счёту вызове операции op (n с 1).
func failOnce(op string, n int) memory.FaultFunc {
	var (
		mu   sync.Mutex
		seen int
	)

	return func(got string) error {
		if got != op {
			return nil
		}

		mu.Lock()
		defer mu.Unlock()

		seen++
		if seen == n {
			return storage.ErrTransient
		}
		return nil
	}
}

// failNth — транзиентный отказ при n-м вызове любой операции.
func failNth(n int) memory.FaultFunc {
	var (
		mu   sync.Mutex
		seen int
	)

	return func(string) error {
		mu.Lock()
		defer mu.Unlock()

		seen++
		if seen == n {
			return storage.ErrTransient
		}
		return nil
	}
}

// snapshot — наблюдаемое терминальное состояние хранилищ.
type snapshot struct {
	Uploaded     bool
	CopyComplete bool
	Served       map[string][]byte
	Entries      map[models.Window][]models.LeaderboardEntry
	Counts       map[models.Window]int64
	FeedIDs      []string
	ProfilePhoto *uuid.UUID
	RegStatus    models.RegistrationStatus
}

func (h *harness) snapshot(photoID uuid.UUID) snapshot {
	h.t.Helper()
	h.mem.SetFault(nil)
	ctx := context.Background()

	s := snapshot{
		Served:  make(map[string][]byte),
		Entries: make(map[models.Window][]models.LeaderboardEntry),
		Counts:  make(map[models.Window]int64),
	}

	if p, err := h.mem.PhotoByID(ctx, photoID); err == nil {
		s.Uploaded, s.CopyComplete = p.Uploaded, p.CopyComplete
	}

	for _, k := range h.mem.ServedKeys() {
		b, _ := h.mem.Served(k)
		s.Served[k] = b
	}

	for _, w := range models.Windows {
		s.Entries[w] = h.mem.Entries(w)
		n, err := h.mem.Count(ctx, w)
		require.NoError(h.t, err)
		s.Counts[w] = n
	}

	for _, it := range h.mem.FeedItems() {
		s.FeedIDs = append(s.FeedIDs, it.ID)
	}

	u, err := h.mem.UserByID(ctx, h.owner.ID)
	require.NoError(h.t, err)
	s.ProfilePhoto = u.ProfilePhotoID
	s.RegStatus = u.RegistrationStatus

	return s
}

func testJPEG(t *testing.T, w, hgt int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, hgt))
	for x := 0; x < w; x += 4 {
		for y := 0; y < hgt; y += 4 {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))

	return buf.Bytes()
}

// capHandler — slog.Handler, запоминающий уровни и сообщения записей.
type capHandler struct {
	mu      sync.Mutex
	records []capRecord
}

type capRecord struct {
	level slog.Level
	msg   string
}

func (h *capHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *capHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, capRecord{level: r.Level, msg: r.Message})
	return nil
}

func (h *capHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *capHandler) WithGroup(string) slog.Handler { return h }

func (h *capHandler) count(level slog.Level) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for _, r := range h.records {
		if r.level == level {
			n++
		}
	}
	return n
}

func (h *capHandler) has(level slog.Level, msg string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, r := range h.records {
		if r.level == level && r.msg == msg {
			return true
		}
	}
	return false
}
