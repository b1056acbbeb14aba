package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"content-generator/internal/config"
)

// BinaryStore сохраняет бинарные данные и возвращает их URI.
type BinaryStore interface {
	SaveBinary(ctx context.Context, name string, data []byte, mimeType string) (string, error)
}

// New выбирает реализацию по STORAGE_BACKEND.
func New(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (BinaryStore, error) {
	switch cfg.Backend {
	case config.StorageGCS:
		return NewGCSStore(ctx, cfg.GCSBucket, cfg.GCSPrefix, logger)
	case config.StorageLocal, "":
		return NewLocalStore(cfg.SavePath, cfg.PublicBaseURL, logger)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}
