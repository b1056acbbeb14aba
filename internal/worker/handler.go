package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"content-generator/internal/metrics"
	"content-generator/internal/model"
)

// BatchGenerator запускает пакетную генерацию.
type BatchGenerator interface {
	GenerateBatch(ctx context.Context, req model.BatchRequest) (model.BatchResult, error)
}

// SchemaLookup проверяет существование схемы до запуска пакета.
type SchemaLookup interface {
	GetSchema(ctx context.Context, id string) (*model.ContentSchema, error)
}

// Handler обрабатывает задачи пакетной генерации из очереди.
type Handler struct {
	generator BatchGenerator
	schemas   SchemaLookup
	publisher Publisher
	pusher    *metrics.Pusher
	logger    *zap.Logger
}

func NewHandler(generator BatchGenerator, schemas SchemaLookup, publisher Publisher, pusher *metrics.Pusher, logger *zap.Logger) *Handler {
	return &Handler{
		generator: generator,
		schemas:   schemas,
		publisher: publisher,
		pusher:    pusher,
		logger:    logger.Named("BatchTaskHandler"),
	}
}

// HandleDelivery возвращает true, если сообщение нужно подтвердить (ack).
// Невалидные задачи подтверждаются сразу с ошибкой в очереди результатов;
// прочие ошибки возвращают задачу в очередь один раз.
func (h *Handler) HandleDelivery(ctx context.Context, msg amqp091.Delivery) bool {
	defer h.pusher.Push()

	var task BatchTaskPayload
	if err := json.Unmarshal(msg.Body, &task); err != nil {
		h.logger.Error("Failed to unmarshal batch task, dropping message",
			zap.Error(err),
			zap.String("correlation_id", msg.CorrelationId),
		)
		return true
	}
	log := h.logger.With(zap.String("task_id", task.TaskID), zap.String("correlation_id", msg.CorrelationId))
	log.Info("Received batch task", zap.Int("count", task.Count), zap.String("content_type", task.ContentSchemaID))

	result, err := h.run(ctx, task)
	if err != nil {
		retry := !msg.Redelivered &&
			!errors.Is(err, model.ErrInvalidBatchRequest) &&
			!errors.Is(err, model.ErrSchemaNotFound)
		if retry {
			log.Warn("Batch task failed, requeueing", zap.Error(err))
			return false
		}
		log.Error("Batch task failed", zap.Error(err))
		errMsg := err.Error()
		h.publish(ctx, log, BatchResultPayload{TaskID: task.TaskID, ErrorMessage: &errMsg}, msg.CorrelationId)
		return true
	}

	h.publish(ctx, log, BatchResultPayload{TaskID: task.TaskID, Success: true, Result: &result}, msg.CorrelationId)
	return true
}

// run проверяет схему так же, как HTTP API: задача с неизвестной схемой
// завершается ошибкой, а не пустым успешным результатом.
func (h *Handler) run(ctx context.Context, task BatchTaskPayload) (model.BatchResult, error) {
	if _, err := h.schemas.GetSchema(ctx, task.ContentSchemaID); err != nil {
		return model.BatchResult{}, err
	}
	return h.generator.GenerateBatch(ctx, model.BatchRequest{
		Count:           task.Count,
		ContentSchemaID: task.ContentSchemaID,
		GenerateImages:  task.GenerateImages,
		BatchID:         task.TaskID,
	})
}

func (h *Handler) publish(ctx context.Context, log *zap.Logger, payload BatchResultPayload, correlationID string) {
	if err := h.publisher.Publish(ctx, payload, correlationID); err != nil {
		log.Error("Failed to publish batch result", zap.Error(err))
	}
}
