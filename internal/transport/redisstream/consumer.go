package redisstream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pribylovaa/photo-tournament/internal/config"
	"github.com/pribylovaa/photo-tournament/internal/metrics"
	"github.com/pribylovaa/photo-tournament/internal/models"
	"github.com/pribylovaa/photo-tournament/internal/pkg/log"
	"github.com/pribylovaa/photo-tournament/internal/service"
	"github.com/redis/go-redis/v9"
)

// FieldEvent — поле сообщения стрима с JSON конверта уведомления S3.
const FieldEvent = "event"

const transportName = "redis"

// settleTimeout — дедлайн ACK и записи в dead-letter после отмены контекста Run.
const settleTimeout = 5 * time.Second

// Processor — обработчик одного события (service.Service).
type Processor interface {
	Ingest(ctx context.Context, ev models.Event) service.Result
}

// Consumer читает стрим в consumer group и передаёт события воркеру.
type Consumer struct {
	rdb      redis.Cmdable
	proc     Processor
	dl       *DeadLetter
	attempts *AttemptTracker
	cfg      config.RedisConfig
	workers  int

	// inflight — ID сообщений, отданных обработчикам и ещё не завершённых.
	inflight sync.Map
}

// NewConsumer создаёт consumer. workers < 1 заменяется на 1.
func NewConsumer(rdb redis.Cmdable, proc Processor, dl *DeadLetter, attempts *AttemptTracker, cfg config.RedisConfig, workers int) *Consumer {
	if workers < 1 {
		workers = 1
	}

	return &Consumer{
		rdb:      rdb,
		proc:     proc,
		dl:       dl,
		attempts: attempts,
		cfg:      cfg,
		workers:  workers,
	}
}

// EnsureGroup создаёт consumer group (и стрим). Существующая группа — не ошибка.
func (c *Consumer) EnsureGroup(ctx context.Context) error {
	const op = "transport/redisstream/EnsureGroup"

	err := c.rdb.XGroupCreateMkStream(ctx, c.cfg.Stream, c.cfg.Group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Run запускает чтение, подбор зависших сообщений и пул обработчиков.
// Возвращает nil после отмены ctx, когда все обработчики завершились.
func (c *Consumer) Run(ctx context.Context) error {
	const op = "transport/redisstream/Run"

	if err := c.EnsureGroup(ctx); err != nil {
		return err
	}

	lg := log.From(ctx)
	lg.Info("consumer_start",
		slog.String("op", op),
		slog.String("stream", c.cfg.Stream),
		slog.String("group", c.cfg.Group),
		slog.String("consumer", c.cfg.Consumer),
		slog.Int("workers", c.workers),
	)

	jobs := make(chan redis.XMessage)

	var wg sync.WaitGroup
	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for msg := range jobs {
				c.handle(ctx, msg)
				c.inflight.Delete(msg.ID)
			}
		}()
	}

	var loops sync.WaitGroup
	loops.Add(2)
	go func() {
		defer loops.Done()
		c.readLoop(ctx, jobs)
	}()
	go func() {
		defer loops.Done()
		c.reclaimLoop(ctx, jobs)
	}()

	loops.Wait()
	close(jobs)
	wg.Wait()

	lg.Info("consumer_stop", slog.String("op", op))

	return nil
}

func (c *Consumer) readLoop(ctx context.Context, jobs chan<- redis.XMessage) {
	const op = "transport/redisstream/readLoop"

	lg := log.From(ctx)

	for ctx.Err() == nil {
		msgs, err := c.fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			lg.Warn("stream_read_error", slog.String("op", op), slog.String("err", err.Error()))
			if !sleep(ctx, time.Second) {
				return
			}
			continue
		}

		if !c.dispatch(ctx, jobs, msgs) {
			return
		}
	}
}

func (c *Consumer) reclaimLoop(ctx context.Context, jobs chan<- redis.XMessage) {
	const op = "transport/redisstream/reclaimLoop"

	lg := log.From(ctx)

	interval := c.cfg.ClaimMinIdle / 2
	if interval <= 0 {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.touch(ctx); err != nil && ctx.Err() == nil {
				lg.Warn("stream_touch_error", slog.String("op", op), slog.String("err", err.Error()))
			}

			msgs, err := c.claim(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				lg.Warn("stream_reclaim_error", slog.String("op", op), slog.String("err", err.Error()))
				continue
			}

			if len(msgs) > 0 {
				metrics.Deliveries.WithLabelValues(transportName, "reclaimed").Add(float64(len(msgs)))
				lg.Debug("stream_reclaimed", slog.String("op", op), slog.Int("count", len(msgs)))
			}

			if !c.dispatch(ctx, jobs, msgs) {
				return
			}
		}
	}
}

// fetch читает новые сообщения группы. Пустой результат по таймауту BLOCK — не ошибка.
func (c *Consumer) fetch(ctx context.Context) ([]redis.XMessage, error) {
	streams, err := c.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.cfg.Group,
		Consumer: c.cfg.Consumer,
		Streams:  []string{c.cfg.Stream, ">"},
		Count:    int64(c.workers),
		Block:    c.cfg.Block,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var out []redis.XMessage
	for _, s := range streams {
		out = append(out, s.Messages...)
	}

	return out, nil
}

// touch сбрасывает idle-время сообщений в обработке (XCLAIM JUSTID на себя),
// чтобы их не подобрали другие экземпляры группы.
func (c *Consumer) touch(ctx context.Context) error {
	var ids []string
	c.inflight.Range(func(k, _ any) bool {
		ids = append(ids, k.(string))
		return true
	})
	if len(ids) == 0 {
		return nil
	}

	return c.rdb.XClaimJustID(ctx, &redis.XClaimArgs{
		Stream:   c.cfg.Stream,
		Group:    c.cfg.Group,
		Consumer: c.cfg.Consumer,
		MinIdle:  0,
		Messages: ids,
	}).Err()
}

// claim забирает сообщения, висящие в pending дольше claim_min_idle.
// Сообщения, которые этот consumer ещё обрабатывает, пропускаются.
func (c *Consumer) claim(ctx context.Context) ([]redis.XMessage, error) {
	var out []redis.XMessage
	start := "0-0"

	for {
		msgs, next, err := c.rdb.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   c.cfg.Stream,
			Group:    c.cfg.Group,
			Consumer: c.cfg.Consumer,
			MinIdle:  c.cfg.ClaimMinIdle,
			Start:    start,
			Count:    int64(c.workers),
		}).Result()
		if err != nil {
			return out, err
		}

		for _, m := range msgs {
			if _, busy := c.inflight.Load(m.ID); busy {
				continue
			}
			out = append(out, m)
		}
		if next == "" || next == "0-0" {
			return out, nil
		}
		start = next
	}
}

// handle доводит одно сообщение стрима до ACK, dead-letter или pending.
func (c *Consumer) handle(ctx context.Context, msg redis.XMessage) {
	const op = "transport/redisstream/handle"

	ctx, lg := log.With(ctx, "op", op, "msg_id", msg.ID)

	attempt, err := c.attempts.Next(ctx, msg.ID)
	if err != nil {
		lg.Warn("attempt_count_failed", slog.String("err", err.Error()))
		metrics.Deliveries.WithLabelValues(transportName, "pending").Inc()
		return
	}

	payload, _ := msg.Values[FieldEvent].(string)
	events, err := models.DecodeS3Event([]byte(payload))
	if err != nil {
		lg.Error("malformed_envelope", slog.String("err", err.Error()))
		if err := c.deadLetterRaw(ctx, payload); err != nil {
			lg.Warn("dead_letter_failed", slog.String("err", err.Error()))
			metrics.Deliveries.WithLabelValues(transportName, "pending").Inc()
			return
		}
		metrics.Deliveries.WithLabelValues(transportName, "dead_letter").Inc()
		c.ack(ctx, msg.ID)
		return
	}

	if c.cfg.MaxDeliveries > 0 && attempt > c.cfg.MaxDeliveries {
		lg.Error("max_deliveries_exceeded", slog.Int("attempt", attempt), slog.Int("max", c.cfg.MaxDeliveries))
		for _, ev := range events {
			ev.Attempt = attempt
			if err := c.deadLetter(ctx, ev, ReasonMaxDeliveries); err != nil {
				lg.Warn("dead_letter_failed", slog.String("err", err.Error()))
				metrics.Deliveries.WithLabelValues(transportName, "pending").Inc()
				return
			}
		}
		metrics.Deliveries.WithLabelValues(transportName, "dead_letter").Inc()
		c.ack(ctx, msg.ID)
		return
	}

	pending := false
	for _, ev := range events {
		ev.Attempt = attempt
		res := c.proc.Ingest(ctx, ev)

		switch res.Outcome {
		case service.OutcomeOK:
		case service.OutcomeDeadLetter:
			if err := c.deadLetter(ctx, ev, res.Reason); err != nil {
				lg.Warn("dead_letter_failed", slog.String("key", ev.Key), slog.String("err", err.Error()))
				pending = true
				continue
			}
			metrics.Deliveries.WithLabelValues(transportName, "dead_letter").Inc()
		default:
			pending = true
		}
	}

	if pending {
		// Без ACK: сообщение подберёт reclaimLoop.
		metrics.Deliveries.WithLabelValues(transportName, "pending").Inc()
		return
	}

	metrics.Deliveries.WithLabelValues(transportName, "ack").Inc()
	c.ack(ctx, msg.ID)
}

// ack подтверждает сообщение. Отмена ctx (shutdown) не прерывает ACK уже
// обработанного сообщения.
func (c *Consumer) ack(ctx context.Context, id string) {
	lg := log.From(ctx)

	ctx, cancel := settle(ctx)
	defer cancel()

	if err := c.rdb.XAck(ctx, c.cfg.Stream, c.cfg.Group, id).Err(); err != nil {
		lg.Warn("stream_ack_failed", slog.String("err", err.Error()))
		return
	}

	if err := c.attempts.Clear(ctx, id); err != nil {
		lg.Warn("attempt_clear_failed", slog.String("err", err.Error()))
	}
}

func (c *Consumer) deadLetter(ctx context.Context, ev models.Event, reason string) error {
	ctx, cancel := settle(ctx)
	defer cancel()

	return c.dl.Send(ctx, ev, reason)
}

func (c *Consumer) deadLetterRaw(ctx context.Context, payload string) error {
	ctx, cancel := settle(ctx)
	defer cancel()

	return c.dl.SendRaw(ctx, payload, ReasonMalformedEnvelope)
}

func settle(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), settleTimeout)
}

// dispatch отдаёт сообщения обработчикам. Сообщение, которое уже в работе, не
// отдаётся повторно.
func (c *Consumer) dispatch(ctx context.Context, jobs chan<- redis.XMessage, msgs []redis.XMessage) bool {
	for _, m := range msgs {
		if _, busy := c.inflight.LoadOrStore(m.ID, struct{}{}); busy {
			continue
		}

		select {
		case <-ctx.Done():
			c.inflight.Delete(m.ID)
			return false
		case jobs <- m:
		}
	}

	return true
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
