package redisstream

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/pribylovaa/photo-tournament/internal/models"
	"github.com/redis/go-redis/v9"
)

// ReasonMaxDeliveries — сообщение исчерпало redis.max_deliveries.
const ReasonMaxDeliveries = "max_deliveries_exceeded"

// ReasonMalformedEnvelope — конверт сообщения не разбирается.
const ReasonMalformedEnvelope = "malformed_envelope"

// DeadLetter — стрим, куда уходят события с исходом dead_letter.
type DeadLetter struct {
	rdb    redis.Cmdable
	stream string
	now    func() time.Time
}

// NewDeadLetter создаёт sink поверх стрима stream.
func NewDeadLetter(rdb redis.Cmdable, stream string) *DeadLetter {
	return &DeadLetter{rdb: rdb, stream: stream, now: time.Now}
}

// Send записывает событие с причиной.
func (d *DeadLetter) Send(ctx context.Context, ev models.Event, reason string) error {
	const op = "transport/redisstream/DeadLetter.Send"

	values := map[string]any{
		"key":       ev.Key,
		"bucket":    ev.Bucket,
		"sequencer": ev.Sequencer,
		"attempt":   strconv.Itoa(ev.Attempt),
		"reason":    reason,
		"failed_at": d.now().UTC().Format(time.RFC3339Nano),
	}

	if err := d.rdb.XAdd(ctx, &redis.XAddArgs{Stream: d.stream, Values: values}).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SendRaw записывает нераспознанный конверт как есть.
func (d *DeadLetter) SendRaw(ctx context.Context, payload, reason string) error {
	const op = "transport/redisstream/DeadLetter.SendRaw"

	values := map[string]any{
		"payload":   payload,
		"reason":    reason,
		"failed_at": d.now().UTC().Format(time.RFC3339Nano),
	}

	if err := d.rdb.XAdd(ctx, &redis.XAddArgs{Stream: d.stream, Values: values}).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
