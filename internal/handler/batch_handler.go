package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"content-generator/internal/model"
	"content-generator/internal/progress"
	"content-generator/internal/repository"
)

// BatchGenerator запускает пакетную генерацию.
type BatchGenerator interface {
	GenerateBatch(ctx context.Context, req model.BatchRequest) (model.BatchResult, error)
}

// BatchHandler - HTTP API пакетной генерации.
type BatchHandler struct {
	generator BatchGenerator
	tracker   progress.Tracker
	schemas   repository.SchemaRepository
	maxCount  int
	// baseCtx живет дольше запроса: асинхронные пакеты не отменяются с закрытием соединения.
	baseCtx context.Context
	newID   func() string
	logger  *zap.Logger
}

// NewBatchHandler создает обработчик. maxCount <= 0 снимает верхнюю границу count.
func NewBatchHandler(baseCtx context.Context, generator BatchGenerator, tracker progress.Tracker, schemas repository.SchemaRepository, maxCount int, logger *zap.Logger) *BatchHandler {
	return &BatchHandler{
		generator: generator,
		tracker:   tracker,
		schemas:   schemas,
		maxCount:  maxCount,
		baseCtx:   baseCtx,
		newID:     uuid.NewString,
		logger:    logger.Named("BatchHandler"),
	}
}

// RegisterRoutes регистрирует маршруты API.
func (h *BatchHandler) RegisterRoutes(router gin.IRouter) {
	api := router.Group("/api/v1")
	api.POST("/batches", h.createBatch)
	api.GET("/batches/:id", h.getBatch)
	api.GET("/schemas", h.listSchemas)
}

type createBatchRequest struct {
	Count           int    `json:"count" binding:"required,min=1"`
	ContentSchemaID string `json:"contentSchemaId" binding:"required"`
	GenerateImages  bool   `json:"generateImages"`
}

type batchAcceptedResponse struct {
	BatchID string `json:"batchId"`
	Status  string `json:"status"`
}

// createBatch: ?wait=true выполняет пакет синхронно и возвращает BatchResult,
// иначе пакет запускается в фоне и возвращается 202 с batchId.
func (h *BatchHandler) createBatch(c *gin.Context) {
	var body createBatchRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		handleServiceError(c, fmt.Errorf("%w: %v", model.ErrInvalidBatchRequest, err))
		return
	}

	req := model.BatchRequest{
		Count:           body.Count,
		ContentSchemaID: body.ContentSchemaID,
		GenerateImages:  body.GenerateImages,
		BatchID:         h.newID(),
	}
	// Асинхронный пакет после 202 уже не может вернуть ошибку клиенту.
	if err := req.Validate(h.maxCount); err != nil {
		handleServiceError(c, err)
		return
	}

	// Проверяем схему заранее, чтобы не принимать заведомо пустой пакет.
	if _, err := h.schemas.GetSchema(c.Request.Context(), req.ContentSchemaID); err != nil {
		handleServiceError(c, err)
		return
	}

	if c.Query("wait") == "true" {
		result, err := h.generator.GenerateBatch(c.Request.Context(), req)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
		return
	}

	log := h.logger.With(zap.String("batch_id", req.BatchID))
	go func() {
		if _, err := h.generator.GenerateBatch(h.baseCtx, req); err != nil {
			log.Error("Background batch failed", zap.Error(err))
		}
	}()
	c.JSON(http.StatusAccepted, batchAcceptedResponse{BatchID: req.BatchID, Status: string(model.BatchStatusRunning)})
}

func (h *BatchHandler) getBatch(c *gin.Context) {
	p, err := h.tracker.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *BatchHandler) listSchemas(c *gin.Context) {
	schemas, err := h.schemas.ListSchemas(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, schemas)
}
