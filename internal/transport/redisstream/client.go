// redisstream — канал доставки уведомлений о загрузке поверх Redis Streams:
// consumer group с XREADGROUP, подбор зависших сообщений через XAUTOCLAIM,
// dead-letter стрим и счётчик попыток доставки.
//
// Гарантия — at-least-once: сообщение подтверждается (XACK) только после
// исхода ok или записи в dead-letter. Исход retry оставляет его в pending.
package redisstream

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// NewClient создаёт клиент Redis из URL (например, redis://:pass@host:6379/0)
// и проверяет соединение.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	const op = "transport/redisstream/NewClient"

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: parse url: %w", op, err)
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	return rdb, nil
}
