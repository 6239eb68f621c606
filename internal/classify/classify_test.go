package classify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/minio/minio-go/v7"
	"github.com/pribylovaa/photo-tournament/internal/config"
	"github.com/pribylovaa/photo-tournament/internal/models"
	"github.com/pribylovaa/photo-tournament/internal/storage"
	"github.com/pribylovaa/photo-tournament/internal/thumbnail"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func defaultRules() config.ClassifierConfig {
	return config.ClassifierConfig{
		PostgresCodes: []string{
			pgerrcode.SerializationFailure,
			pgerrcode.DeadlockDetected,
			pgerrcode.TooManyConnections,
			pgerrcode.AdminShutdown,
			pgerrcode.CannotConnectNow,
			pgerrcode.QueryCanceled,
		},
		S3Codes:     []string{"SlowDown", "RequestTimeout", "InternalError", "ServiceUnavailable"},
		MongoLabels: []string{"RetryableWriteError", "TransientTransactionError"},
	}
}

func wrap(err error) error {
	return fmt.Errorf("storage/postgres/InsertEntry: %w", err)
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantKind   Kind
		wantReason string
	}{
		{"malformed key", wrap(models.ErrMalformedKey), Permanent, ReasonMalformedKey},
		{"photo not found", wrap(storage.ErrPhotoNotFound), Permanent, ReasonPhotoNotFound},
		{"user not found", wrap(storage.ErrUserNotFound), Permanent, ReasonUserNotFound},
		{"decode", wrap(thumbnail.ErrDecode), Permanent, ReasonDecode},
		{"source missing", wrap(storage.ErrSourceMissing), Permanent, ReasonSourceMissing},
		{"deadline", wrap(context.DeadlineExceeded), Transient, ReasonTimeout},
		{"canceled", wrap(context.Canceled), Transient, ReasonCanceled},
		{"injected", wrap(storage.ErrTransient), Transient, ReasonThrottled},
		{"pg serialization", wrap(&pgconn.PgError{Code: pgerrcode.SerializationFailure}), Transient, ReasonPostgres},
		{"pg connection class", wrap(&pgconn.PgError{Code: pgerrcode.ConnectionFailure}), Transient, ReasonPostgres},
		{"pg unique violation", wrap(&pgconn.PgError{Code: pgerrcode.UniqueViolation}), Permanent, ReasonPostgres},
		{"s3 slow down", wrap(minio.ErrorResponse{Code: "SlowDown", StatusCode: 503}), Transient, ReasonS3},
		{"s3 5xx", wrap(minio.ErrorResponse{Code: "Whatever", StatusCode: 502}), Transient, ReasonS3},
		{"s3 429", wrap(minio.ErrorResponse{Code: "TooMany", StatusCode: 429}), Transient, ReasonS3},
		{"s3 access denied", wrap(minio.ErrorResponse{Code: "AccessDenied", StatusCode: 403}), Permanent, ReasonS3},
		{"mongo labelled", wrap(mongo.CommandError{Code: 112, Labels: []string{"TransientTransactionError"}}), Transient, ReasonMongo},
		{"mongo duplicate", wrap(mongo.CommandError{Code: 11000, Name: "DuplicateKey"}), Permanent, ReasonMongo},
		{"conn reset", wrap(syscall.ECONNRESET), Transient, ReasonNetwork},
		{"net op error", wrap(&net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}), Transient, ReasonNetwork},
		{"unexpected eof", wrap(io.ErrUnexpectedEOF), Transient, ReasonNetwork},
		{"unknown", errors.New("boom"), Transient, ReasonUnknown},
	}

	c := New(defaultRules())

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := c.Classify(tt.err)
			require.Equal(t, tt.wantKind, d.Kind, d.Kind.String())
			require.Equal(t, tt.wantReason, d.Reason)
		})
	}
}

func TestClassify_UnknownAsPermanent(t *testing.T) {
	t.Parallel()

	rules := defaultRules()
	rules.UnknownAsPermanent = true

	d := New(rules).Classify(errors.New("boom"))
	require.False(t, d.Transient())
	require.Equal(t, ReasonUnknown, d.Reason)

	// Известные транзиентные остаются транзиентными.
	require.True(t, New(rules).Classify(wrap(storage.ErrTransient)).Transient())
}

func TestClassify_ConfigurableCodes(t *testing.T) {
	t.Parallel()

	rules := defaultRules()
	rules.PostgresCodes = []string{pgerrcode.UniqueViolation}

	c := New(rules)
	require.True(t, c.Classify(&pgconn.PgError{Code: pgerrcode.UniqueViolation}).Transient())
	require.False(t, c.Classify(&pgconn.PgError{Code: pgerrcode.SerializationFailure}).Transient())
}
