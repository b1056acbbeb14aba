package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"content-generator/internal/config"
	"content-generator/internal/metrics"
	"content-generator/internal/model"
)

// ImageClient - клиент Image Service.
// Ответ без inline данных - нормальный результат, а не ошибка.
type ImageClient interface {
	GenerateImage(ctx context.Context, prompt string) (*model.ImageResponse, error)
}

// NewImageClient возвращает nil, если ключ не задан.
func NewImageClient(cfg config.ImageServiceConfig, m *metrics.Metrics, logger *zap.Logger) ImageClient {
	log := logger.Named("ImageClient")
	if cfg.APIKey == "" {
		log.Warn("Image service API key is not configured, placeholders will be used")
		return nil
	}
	modelName := valueOr(cfg.Model, defaultGeminiImageModel)
	log.Info("Image client created", zap.String("model", modelName))
	return &geminiImageClient{
		gemini:  newGeminiClient(cfg.BaseURL, modelName, cfg.APIKey, cfg.Timeout, log),
		metrics: m,
	}
}

type geminiImageClient struct {
	gemini  *geminiClient
	metrics *metrics.Metrics
}

func (c *geminiImageClient) GenerateImage(ctx context.Context, prompt string) (resp *model.ImageResponse, err error) {
	started := time.Now()
	defer func() { c.metrics.ObserveServiceCall("image", config.ProviderGemini, started, err) }()

	parts, err := c.gemini.generateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrServiceFailure, err)
	}
	resp = &model.ImageResponse{Parts: make([]model.ImagePart, 0, len(parts))}
	for _, p := range parts {
		resp.Parts = append(resp.Parts, model.ImagePart{Text: p.Text, InlineData: p.InlineData})
	}
	return resp, nil
}
