// service содержит воркер приёма фото: по событию загрузки доводит запись фото,
// превью, лидерборды, профиль владельца и ленту до согласованного состояния.
//
// Воркер не держит своего состояния между доставками: текущее состояние
// выводится из монотонных флагов записи фото и наличия scratch-файла,
// а все последующие эффекты идемпотентны, поэтому повторная доставка
// продолжает с первого невыполненного шага.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/photo-tournament/internal/classify"
	"github.com/pribylovaa/photo-tournament/internal/config"
	"github.com/pribylovaa/photo-tournament/internal/models"
	"github.com/pribylovaa/photo-tournament/internal/storage"
	"github.com/pribylovaa/photo-tournament/internal/thumbnail"
)

// Outcome — итог обработки события для канала доставки.
type Outcome string

const (
	// OutcomeOK — событие обработано, его можно подтвердить.
	OutcomeOK Outcome = "ok"
	// OutcomeRetry — транзиентный отказ, событие нужно доставить повторно.
	OutcomeRetry Outcome = "retry"
	// OutcomeDeadLetter — постоянный отказ, событие уходит в dead-letter.
	OutcomeDeadLetter Outcome = "dead_letter"
)

// ReasonIgnoredBucket — событие пришло не из incoming-бакета.
const ReasonIgnoredBucket = "ignored_bucket"

// State — шаг конвейера, до которого дошла обработка.
type State int

const (
	StateNew State = iota
	StateCached
	StateUploaded
	StateThumbed
	StateCopied
	StateProfiled
	StateListed
	StateRegistered
	StateFed
)

var stateNames = [...]string{
	StateNew:        "NEW",
	StateCached:     "CACHED",
	StateUploaded:   "UPLOADED",
	StateThumbed:    "THUMBED",
	StateCopied:     "COPIED",
	StateProfiled:   "PROFILED",
	StateListed:     "LISTED",
	StateRegistered: "REGISTERED",
	StateFed:        "FED",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "UNKNOWN"
	}
	return stateNames[s]
}

// DeriveState вычисляет состояние по флагам записи и наличию scratch-файла.
// Шаги после COPIED идемпотентны и выполняются всегда, поэтому максимум — COPIED.
func DeriveState(photo *models.Photo, cached bool) State {
	switch {
	case photo.CopyComplete:
		return StateCopied
	case photo.Uploaded && cached:
		return StateUploaded
	case cached:
		return StateCached
	default:
		return StateNew
	}
}

// Result — итог Ingest.
type Result struct {
	Outcome Outcome
	// Reason — причина retry/dead_letter (ограниченный набор classify.Reason*).
	Reason string
	// State — последнее достигнутое состояние.
	State   State
	PhotoID uuid.UUID
	Err     error
}

// Blobs — адаптер объектного хранилища со scratch-кэшем (см. blobstore.Adapter).
type Blobs interface {
	Cached(photoID uuid.UUID) (string, bool)
	Fetch(ctx context.Context, key string, photoID uuid.UUID) (string, error)
	Publish(ctx context.Context, key string, data []byte, contentType string) error
	RemoveLocal(path string) error
}

// Renderer строит превью из локального файла.
type Renderer interface {
	Render(ctx context.Context, src string, photoID uuid.UUID, widths []int) ([]thumbnail.Thumbnail, error)
}

// FeedPublisher публикует элемент ленты "новое фото".
type FeedPublisher interface {
	PublishNewPhoto(ctx context.Context, ownerID, photoID uuid.UUID, postDate time.Time) error
}

// Classifier решает transient/permanent для ошибки шага.
type Classifier interface {
	Classify(err error) classify.Decision
}

// Deps — внешние компоненты воркера.
type Deps struct {
	Photos       storage.Photos
	Leaderboards storage.Leaderboards
	Users        storage.Users
	Blobs        Blobs
	Renderer     Renderer
	Feed         FeedPublisher
	Classifier   Classifier
}

// Service — воркер приёма фото.
type Service struct {
	cfg  *config.Config
	deps Deps
}

// New создает новый экземпляр Service.
func New(cfg *config.Config, deps Deps) *Service {
	return &Service{cfg: cfg, deps: deps}
}
