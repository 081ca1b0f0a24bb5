package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SUMMERxKx/Review/internal/application"
)

const (
	DefaultStream = "review-analysis"
	DefaultGroup  = "analysis-workers"

	payloadField = "task"
	readBlock    = 5 * time.Second
	readCount    = 10
	claimIdle    = time.Minute
)

// RedisStreamQueue stores tasks in a Redis stream read through a consumer group.
type RedisStreamQueue struct {
	client *redis.Client
	stream string
	group  string
	logger *zap.Logger

	// consumer 名は "<host>-<slot>"。終了したスロットは再利用する。
	prefix string
	mu     sync.Mutex
	slots  map[int]bool
}

// NewRedisStreamQueue does not touch Redis; call EnsureGroup before consuming.
func NewRedisStreamQueue(client *redis.Client, stream, group string, logger *zap.Logger) *RedisStreamQueue {
	if stream == "" {
		stream = DefaultStream
	}
	if group == "" {
		group = DefaultGroup
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = uuid.NewString()
	}
	return &RedisStreamQueue{
		client: client,
		stream: stream,
		group:  group,
		logger: logger,
		prefix: host,
		slots:  make(map[int]bool),
	}
}

// acquireConsumer returns the lowest free consumer name so a restarted worker rejoins as itself.
func (q *RedisStreamQueue) acquireConsumer() (string, func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	slot := 0
	for q.slots[slot] {
		slot++
	}
	q.slots[slot] = true
	release := func() {
		q.mu.Lock()
		delete(q.slots, slot)
		q.mu.Unlock()
	}
	return q.prefix + "-" + strconv.Itoa(slot), release
}

// EnsureGroup creates the stream and consumer group when missing.
func (q *RedisStreamQueue) EnsureGroup(ctx context.Context) error {
	err := q.client.XGroupCreateMkStream(ctx, q.stream, q.group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("create consumer group %s/%s: %w", q.stream, q.group, err)
	}
	return nil
}

func (q *RedisStreamQueue) Enqueue(ctx context.Context, task application.AnalysisTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("encode task: %w", err)
	}
	return q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: q.stream,
		Values: map[string]interface{}{payloadField: string(payload)},
	}).Err()
}

// Consume reads under a stable consumer name, first reclaiming entries other
// consumers left pending, and acknowledges each message after handler returns.
func (q *RedisStreamQueue) Consume(ctx context.Context, handler application.TaskHandler) error {
	consumer, release := q.acquireConsumer()
	defer release()
	logger := q.logger.With(zap.String("stream", q.stream), zap.String("consumer", consumer))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		q.reclaim(ctx, logger, consumer, handler)
		streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    q.group,
			Consumer: consumer,
			Streams:  []string{q.stream, ">"},
			Count:    readCount,
			Block:    readBlock,
		}).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read stream %s: %w", q.stream, err)
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				q.dispatch(ctx, logger, msg, handler)
			}
		}
	}
}

// reclaim takes over entries idle longer than claimIdle, e.g. from a crashed process.
func (q *RedisStreamQueue) reclaim(ctx context.Context, logger *zap.Logger, consumer string, handler application.TaskHandler) {
	msgs, _, err := q.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   q.stream,
		Group:    q.group,
		Consumer: consumer,
		MinIdle:  claimIdle,
		Start:    "0-0",
		Count:    readCount,
	}).Result()
	if err != nil {
		if ctx.Err() == nil && !errors.Is(err, redis.Nil) {
			logger.Warn("reclaim pending analysis messages failed", zap.Error(err))
		}
		return
	}
	for _, msg := range msgs {
		q.dispatch(ctx, logger, msg, handler)
	}
}

func (q *RedisStreamQueue) dispatch(ctx context.Context, logger *zap.Logger, msg redis.XMessage, handler application.TaskHandler) {
	task, err := decodeTask(msg)
	if err != nil {
		logger.Warn("dropping malformed analysis message", zap.String("messageId", msg.ID), zap.Error(err))
	} else if err := handler(ctx, task); err != nil {
		logger.Warn("analysis handler failed", zap.String("messageId", msg.ID), zap.Error(err))
	}
	// 失敗時もスイーパーが拾うため ACK する。
	ackCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := q.client.XAck(ackCtx, q.stream, q.group, msg.ID).Err(); err != nil {
		logger.Warn("ack analysis message failed", zap.String("messageId", msg.ID), zap.Error(err))
	}
}

func decodeTask(msg redis.XMessage) (application.AnalysisTask, error) {
	raw, ok := msg.Values[payloadField].(string)
	if !ok {
		return application.AnalysisTask{}, fmt.Errorf("field %q missing", payloadField)
	}
	var task application.AnalysisTask
	if err := json.Unmarshal([]byte(raw), &task); err != nil {
		return application.AnalysisTask{}, fmt.Errorf("decode task: %w", err)
	}
	if task.ReviewID == "" {
		return application.AnalysisTask{}, errors.New("task has no reviewId")
	}
	return task, nil
}
