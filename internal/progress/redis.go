package progress

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"content-generator/internal/model"
)

var _ Tracker = (*RedisTracker)(nil)

// DefaultTTL - время жизни прогресса пакета в Redis.
const DefaultTTL = 24 * time.Hour

const (
	fieldSchema    = "schema_id"
	fieldStatus    = "status"
	fieldRequested = "requested"
	fieldCreated   = "created"
	fieldFailed    = "failed"
	fieldSkipped   = "skipped"
	fieldError     = "error"
)

// RedisTracker хранит прогресс в хеше batch:<id>. Счетчики меняются только через HINCRBY.
type RedisTracker struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisTracker(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisTracker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisTracker{client: client, ttl: ttl, logger: logger.Named("RedisProgressTracker")}
}

func batchKey(batchID string) string {
	return "batch:" + batchID
}

func (t *RedisTracker) Start(ctx context.Context, batchID, schemaID string, requested int) error {
	key := batchKey(batchID)
	pipe := t.client.TxPipeline()
	pipe.HSet(ctx, key,
		fieldSchema, schemaID,
		fieldStatus, string(model.BatchStatusRunning),
		fieldRequested, requested,
		fieldCreated, 0,
		fieldFailed, 0,
		fieldSkipped, 0,
	)
	pipe.Expire(ctx, key, t.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		t.logger.Error("Failed to start batch progress", zap.String("batch_id", batchID), zap.Error(err))
		return fmt.Errorf("failed to start batch progress: %w", err)
	}
	return nil
}

func (t *RedisTracker) Created(ctx context.Context, batchID string) error {
	return t.incr(ctx, batchID, fieldCreated)
}

func (t *RedisTracker) Failed(ctx context.Context, batchID string) error {
	return t.incr(ctx, batchID, fieldFailed)
}

func (t *RedisTracker) Skipped(ctx context.Context, batchID string) error {
	return t.incr(ctx, batchID, fieldSkipped)
}

func (t *RedisTracker) Finish(ctx context.Context, batchID string) error {
	if err := t.client.HSet(ctx, batchKey(batchID), fieldStatus, string(model.BatchStatusFinished)).Err(); err != nil {
		t.logger.Error("Failed to finish batch progress", zap.String("batch_id", batchID), zap.Error(err))
		return fmt.Errorf("failed to finish batch progress: %w", err)
	}
	return nil
}

func (t *RedisTracker) Fail(ctx context.Context, batchID, reason string) error {
	err := t.client.HSet(ctx, batchKey(batchID),
		fieldStatus, string(model.BatchStatusFailed),
		fieldError, reason,
	).Err()
	if err != nil {
		t.logger.Error("Failed to mark batch as failed", zap.String("batch_id", batchID), zap.Error(err))
		return fmt.Errorf("failed to mark batch as failed: %w", err)
	}
	return nil
}

func (t *RedisTracker) Get(ctx context.Context, batchID string) (*model.BatchProgress, error) {
	values, err := t.client.HGetAll(ctx, batchKey(batchID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrBatchNotFound
		}
		return nil, fmt.Errorf("failed to read batch progress: %w", err)
	}
	if len(values) == 0 {
		return nil, model.ErrBatchNotFound
	}
	return &model.BatchProgress{
		BatchID:   batchID,
		SchemaID:  values[fieldSchema],
		Status:    model.BatchStatus(values[fieldStatus]),
		Requested: atoi(values[fieldRequested]),
		Created:   atoi(values[fieldCreated]),
		Failed:    atoi(values[fieldFailed]),
		Skipped:   atoi(values[fieldSkipped]),
		Error:     values[fieldError],
	}, nil
}

func (t *RedisTracker) incr(ctx context.Context, batchID, field string) error {
	if err := t.client.HIncrBy(ctx, batchKey(batchID), field, 1).Err(); err != nil {
		t.logger.Warn("Failed to update batch progress",
			zap.String("batch_id", batchID),
			zap.String("counter", field),
			zap.Error(err),
		)
		return fmt.Errorf("failed to update batch progress: %w", err)
	}
	return nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
