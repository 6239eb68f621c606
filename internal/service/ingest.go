package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pribylovaa/photo-tournament/internal/classify"
	"github.com/pribylovaa/photo-tournament/internal/metrics"
	"github.com/pribylovaa/photo-tournament/internal/models"
	"github.com/pribylovaa/photo-tournament/internal/pkg/log"
	"github.com/pribylovaa/photo-tournament/internal/storage"
	"github.com/pribylovaa/photo-tournament/internal/thumbnail"
)

// Имена шагов (label метрик и поле stage в логах).
const (
	stageGetPhoto      = "get_photo"
	stageFetch         = "fetch"
	stageMarkUploaded  = "mark_uploaded"
	stageRender        = "render"
	stagePublish       = "publish"
	stageRemoveScratch = "remove_scratch"
	stageMarkCopy      = "mark_copy_complete"
	stageProfilePhoto  = "set_profile_photo"
	stageLeaderboard   = "leaderboard_"
	stageRegistration  = "registration_status"
	stageFeed          = "feed"
	defaultCallTimeout = 10 * time.Second
)

// Ingest обрабатывает одно событие загрузки.
//
// Порядок шагов:
//
//	NEW -> fetch -> CACHED -> uploaded=true -> UPLOADED -> превью -> THUMBED
//	-> copy_complete=true -> COPIED -> фото профиля -> PROFILED
//	-> лидерборды (кроме pop) -> LISTED -> статус регистрации -> REGISTERED
//	-> лента -> FED
//
// Уже выполненный префикс (по флагам и scratch-файлу) пропускается.
// Транзиентный отказ любого шага возвращает OutcomeRetry сразу,
// постоянный — OutcomeDeadLetter. Откатывать ничего не нужно.
func (s *Service) Ingest(ctx context.Context, ev models.Event) (res Result) {
	const op = "service/ingest/Ingest"

	attempt := ev.Attempt
	if attempt < 1 {
		attempt = 1
	}

	ctx, lg := log.With(ctx, "op", op, "key", ev.Key, "attempt", attempt)

	metrics.InFlight.Inc()
	defer func() {
		metrics.InFlight.Dec()
		metrics.EventsTotal.WithLabelValues(string(res.Outcome), res.Reason).Inc()
	}()

	if ev.Bucket != "" && s.cfg.S3.IncomingBucket != "" && ev.Bucket != s.cfg.S3.IncomingBucket {
		lg.Debug("event from foreign bucket ignored", "bucket", ev.Bucket)

		return Result{Outcome: OutcomeOK, Reason: ReasonIgnoredBucket}
	}

	photoID, err := models.ParsePhotoID(ev.Key)
	if err != nil {
		lg.Error("malformed object key", "err", err)

		return Result{Outcome: OutcomeDeadLetter, Reason: classify.ReasonMalformedKey, Err: err}
	}

	ctx, lg = log.With(ctx, "photo_id", photoID.String())
	res.PhotoID = photoID

	var photo *models.Photo
	err = s.call(ctx, stageGetPhoto, func(ctx context.Context) error {
		var err error
		photo, err = s.deps.Photos.PhotoByID(ctx, photoID)
		return err
	})
	if err != nil {
		if errors.Is(err, storage.ErrPhotoNotFound) {
			lg.Error("photo not found", "err", err)
			metrics.StageFailures.WithLabelValues(stageGetPhoto, classify.Permanent.String(), classify.ReasonPhotoNotFound).Inc()

			return Result{Outcome: OutcomeDeadLetter, Reason: classify.ReasonPhotoNotFound, PhotoID: photoID, Err: err}
		}

		return s.fail(ctx, stageGetPhoto, StateNew, res, err)
	}

	if !photo.IsPromo() && !models.ValidCategory(photo.Category) {
		err := fmt.Errorf("%s: category %q: %w", op, photo.Category, storage.ErrInvalidArgument)

		return s.fail(ctx, stageGetPhoto, StateNew, res, err)
	}

	srcPath, cached := s.deps.Blobs.Cached(photoID)
	state := DeriveState(photo, cached)

	if photo.Uploaded {
		lg.Info("photo already uploaded, likely retry", "state", state.String())
	}

	if !photo.CopyComplete {
		if !cached {
			err := s.call(ctx, stageFetch, func(ctx context.Context) error {
				var err error
				srcPath, err = s.deps.Blobs.Fetch(ctx, ev.Key, photoID)
				return err
			})
			if err != nil {
				if errors.Is(err, storage.ErrSourceMissing) {
					return s.sourceMissing(ctx, attempt, state, res, err)
				}

				return s.fail(ctx, stageFetch, state, res, err)
			}
			state = StateCached
		}

		if !photo.Uploaded {
			if err := s.call(ctx, stageMarkUploaded, func(ctx context.Context) error {
				return s.deps.Photos.MarkUploaded(ctx, photoID)
			}); err != nil {
				return s.fail(ctx, stageMarkUploaded, state, res, err)
			}
		}
		state = StateUploaded

		var thumbs []thumbnail.Thumbnail
		if err := s.call(ctx, stageRender, func(ctx context.Context) error {
			var err error
			thumbs, err = s.deps.Renderer.Render(ctx, srcPath, photoID, s.widths())
			return err
		}); err != nil {
			return s.fail(ctx, stageRender, state, res, err)
		}

		for _, th := range thumbs {
			th := th
			if err := s.call(ctx, stagePublish, func(ctx context.Context) error {
				return s.deps.Blobs.Publish(ctx, th.Key, th.Data, thumbnail.ContentType)
			}); err != nil {
				return s.fail(ctx, stagePublish, state, res, err)
			}
		}
		state = StateThumbed

		if s.cfg.Scratch.DeleteAfterCrop() {
			if err := s.deps.Blobs.RemoveLocal(srcPath); err != nil {
				lg.Warn("scratch delete failed", "stage", stageRemoveScratch, "path", srcPath, "err", err)
			}
		}

		if err := s.call(ctx, stageMarkCopy, func(ctx context.Context) error {
			return s.deps.Photos.MarkCopyComplete(ctx, photoID)
		}); err != nil {
			return s.fail(ctx, stageMarkCopy, state, res, err)
		}
	}
	state = StateCopied

	if photo.WantsProfile() {
		if err := s.call(ctx, stageProfilePhoto, func(ctx context.Context) error {
			return s.deps.Users.SetProfilePhoto(ctx, photo.UserID, photoID)
		}); err != nil {
			return s.fail(ctx, stageProfilePhoto, state, res, err)
		}
	}
	state = StateProfiled

	if !photo.IsPromo() {
		entry := models.LeaderboardEntry{
			Category: photo.Category,
			PhotoID:  photoID,
			PostDate: photo.PostDate,
		}

		for _, w := range models.Windows {
			w := w
			stage := stageLeaderboard + string(w)
			if err := s.call(ctx, stage, func(ctx context.Context) error {
				return s.deps.Leaderboards.InsertEntry(ctx, w, entry)
			}); err != nil {
				return s.fail(ctx, stage, state, res, err)
			}
		}
	}
	state = StateListed

	var status models.RegistrationStatus
	if err := s.call(ctx, stageRegistration, func(ctx context.Context) error {
		var err error
		status, err = s.deps.Users.UpdateRegistrationStatus(ctx, photo.UserID)
		return err
	}); err != nil {
		return s.fail(ctx, stageRegistration, state, res, err)
	}
	state = StateRegistered

	if err := s.call(ctx, stageFeed, func(ctx context.Context) error {
		return s.deps.Feed.PublishNewPhoto(ctx, photo.UserID, photoID, photo.PostDate)
	}); err != nil {
		return s.fail(ctx, stageFeed, state, res, err)
	}

	lg.Info("photo ingested",
		slog.String("category", photo.Category),
		slog.Bool("promo", photo.IsPromo()),
		slog.String("registration_status", string(status)),
	)

	return Result{Outcome: OutcomeOK, State: StateFed, PhotoID: photoID}
}

// call выполняет один вызов во внешний компонент с дедлайном ingest.call_timeout.
func (s *Service) call(ctx context.Context, stage string, fn func(ctx context.Context) error) error {
	start := time.Now()
	defer metrics.ObserveStage(stage, start)

	timeout := s.cfg.Ingest.CallTimeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := fn(cctx); err != nil {
		return fmt.Errorf("%s: %w", stage, err)
	}

	return nil
}

// fail классифицирует отказ шага и собирает Result.
// Транзиентные отказы пишутся на Warn, постоянные — на Error.
func (s *Service) fail(ctx context.Context, stage string, state State, res Result, err error) Result {
	d := s.deps.Classifier.Classify(err)
	metrics.StageFailures.WithLabelValues(stage, d.Kind.String(), d.Reason).Inc()

	res.State = state
	res.Reason = d.Reason
	res.Err = err

	lg := log.From(ctx)

	if d.Transient() {
		lg.Warn("transient failure, event will be redelivered",
			"stage", stage, "state", state.String(), "reason", d.Reason, "err", err)
		res.Outcome = OutcomeRetry

		return res
	}

	lg.Error("permanent failure, event dead-lettered",
		"stage", stage, "state", state.String(), "reason", d.Reason, "err", err)
	res.Outcome = OutcomeDeadLetter

	return res
}

// sourceMissing — уведомление может обогнать видимость объекта: повторяем,
// пока номер доставки не превысит ingest.missing_source_retries.
func (s *Service) sourceMissing(ctx context.Context, attempt int, state State, res Result, err error) Result {
	lg := log.From(ctx)
	limit := s.cfg.Ingest.MissingSourceRetries

	res.State = state
	res.Reason = classify.ReasonSourceMissing
	res.Err = err

	if attempt > limit {
		metrics.StageFailures.WithLabelValues(stageFetch, classify.Permanent.String(), classify.ReasonSourceMissing).Inc()
		lg.Error("source object missing, retries exhausted", "limit", limit, "err", err)
		res.Outcome = OutcomeDeadLetter

		return res
	}

	metrics.StageFailures.WithLabelValues(stageFetch, classify.Transient.String(), classify.ReasonSourceMissing).Inc()
	lg.Warn("source object missing, event will be redelivered", "limit", limit, "err", err)
	res.Outcome = OutcomeRetry

	return res
}

func (s *Service) widths() []int {
	if len(s.cfg.Thumbnails.Widths) == 0 {
		return []int{240, 480, 960}
	}

	return s.cfg.Thumbnails.Widths
}
