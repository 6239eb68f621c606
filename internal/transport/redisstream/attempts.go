package redisstream

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultAttemptsPrefix = "ingest:attempts:"

// AttemptTracker считает доставки сообщения: INCR с TTL на ключе по id сообщения.
// Ключ живёт attempts_ttl, после ACK удаляется.
type AttemptTracker struct {
	rdb    redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewAttemptTracker создаёт счётчик. Пустой prefix заменяется на "ingest:attempts:".
func NewAttemptTracker(rdb redis.Cmdable, prefix string, ttl time.Duration) *AttemptTracker {
	if prefix == "" {
		prefix = defaultAttemptsPrefix
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &AttemptTracker{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (a *AttemptTracker) key(msgID string) string { return a.prefix + msgID }

// Next увеличивает счётчик и возвращает номер текущей доставки (с 1).
func (a *AttemptTracker) Next(ctx context.Context, msgID string) (int, error) {
	const op = "transport/redisstream/AttemptTracker.Next"

	pipe := a.rdb.TxPipeline()
	incr := pipe.Incr(ctx, a.key(msgID))
	pipe.Expire(ctx, a.key(msgID), a.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return int(incr.Val()), nil
}

// Clear удаляет счётчик подтверждённого сообщения.
func (a *AttemptTracker) Clear(ctx context.Context, msgID string) error {
	if err := a.rdb.Del(ctx, a.key(msgID)).Err(); err != nil {
		return fmt.Errorf("transport/redisstream/AttemptTracker.Clear: %w", err)
	}

	return nil
}
