// classify решает, стоит ли повторять событие после ошибки хранилища.
//
// Хранилища возвращают ошибки как есть (с обёрткой op), решение
// retry/dead_letter принимает только воркер через Classifier.
package classify

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"syscall"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/minio/minio-go/v7"
	"github.com/pribylovaa/photo-tournament/internal/config"
	"github.com/pribylovaa/photo-tournament/internal/models"
	"github.com/pribylovaa/photo-tournament/internal/storage"
	"github.com/pribylovaa/photo-tournament/internal/thumbnail"
	"go.mongodb.org/mongo-driver/mongo"
)

// Kind — вид отказа.
type Kind int

const (
	Transient Kind = iota
	Permanent
)

func (k Kind) String() string {
	if k == Permanent {
		return "permanent"
	}
	return "transient"
}

// Причины. Набор ограничен: используется как label метрик.
const (
	ReasonTimeout       = "timeout"
	ReasonCanceled      = "canceled"
	ReasonNetwork       = "network"
	ReasonPostgres      = "postgres"
	ReasonS3            = "s3"
	ReasonMongo         = "mongo"
	ReasonThrottled     = "throttled"
	ReasonUnknown       = "unknown"
	ReasonMalformedKey  = "malformed_key"
	ReasonPhotoNotFound = "photo_not_found"
	ReasonUserNotFound  = "user_not_found"
	ReasonInvalid       = "invalid_argument"
	ReasonDecode        = "image_decode_failed"
	ReasonSourceMissing = "source_missing"
)

// Decision — результат классификации.
type Decision struct {
	Kind   Kind
	Reason string
}

// Transient сообщает, что событие стоит повторить.
func (d Decision) Transient() bool { return d.Kind == Transient }

// permanentSentinels — известные постоянные отказы доменного уровня.
// ErrSourceMissing здесь постоянный: лимит повторов по нему ведёт воркер.
var permanentSentinels = []struct {
	err    error
	reason string
}{
	{models.ErrMalformedKey, ReasonMalformedKey},
	{models.ErrMalformedEvent, ReasonMalformedKey},
	{storage.ErrPhotoNotFound, ReasonPhotoNotFound},
	{storage.ErrUserNotFound, ReasonUserNotFound},
	{storage.ErrInvalidArgument, ReasonInvalid},
	{thumbnail.ErrDecode, ReasonDecode},
	{storage.ErrSourceMissing, ReasonSourceMissing},
}

// Classifier — набор правил transient/permanent из конфигурации.
type Classifier struct {
	pgCodes            map[string]struct{}
	s3Codes            map[string]struct{}
	mongoLabels        []string
	unknownAsPermanent bool
}

// New собирает классификатор по правилам из cfg.
func New(cfg config.ClassifierConfig) *Classifier {
	return &Classifier{
		pgCodes:            toSet(cfg.PostgresCodes),
		s3Codes:            toSet(cfg.S3Codes),
		mongoLabels:        append([]string(nil), cfg.MongoLabels...),
		unknownAsPermanent: cfg.UnknownAsPermanent,
	}
}

// Classify возвращает решение для err. nil классифицировать нельзя — вызывающий
// код проверяет ошибку сам.
func (c *Classifier) Classify(err error) Decision {
	for _, s := range permanentSentinels {
		if errors.Is(err, s.err) {
			return Decision{Kind: Permanent, Reason: s.reason}
		}
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return Decision{Kind: Transient, Reason: ReasonTimeout}
	case errors.Is(err, context.Canceled):
		return Decision{Kind: Transient, Reason: ReasonCanceled}
	case errors.Is(err, storage.ErrTransient):
		return Decision{Kind: Transient, Reason: ReasonThrottled}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if _, ok := c.pgCodes[pgErr.Code]; ok || pgerrcode.IsConnectionException(pgErr.Code) {
			return Decision{Kind: Transient, Reason: ReasonPostgres}
		}
		return Decision{Kind: Permanent, Reason: ReasonPostgres}
	}

	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return Decision{Kind: Transient, Reason: ReasonPostgres}
	}

	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		if _, ok := c.s3Codes[resp.Code]; ok {
			return Decision{Kind: Transient, Reason: ReasonS3}
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return Decision{Kind: Transient, Reason: ReasonS3}
		}
		if resp.Code != "" {
			return Decision{Kind: Permanent, Reason: ReasonS3}
		}
	}

	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return Decision{Kind: Transient, Reason: ReasonMongo}
	}

	var srvErr mongo.ServerError
	if errors.As(err, &srvErr) {
		for _, label := range c.mongoLabels {
			if srvErr.HasErrorLabel(label) {
				return Decision{Kind: Transient, Reason: ReasonMongo}
			}
		}
		return Decision{Kind: Permanent, Reason: ReasonMongo}
	}

	if isNetwork(err) {
		return Decision{Kind: Transient, Reason: ReasonNetwork}
	}

	if c.unknownAsPermanent {
		return Decision{Kind: Permanent, Reason: ReasonUnknown}
	}

	return Decision{Kind: Transient, Reason: ReasonUnknown}
}

func isNetwork(err error) bool {
	if errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

func toSet(items []string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it != "" {
			out[it] = struct{}{}
		}
	}
	return out
}
