package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"content-generator/internal/model"
)

var _ BinaryStore = (*LocalStore)(nil)

// LocalStore пишет файлы в каталог, смонтированный для раздачи статики.
type LocalStore struct {
	dir     string
	baseURL string
	logger  *zap.Logger
}

// NewLocalStore создает каталог при необходимости.
func NewLocalStore(dir, publicBaseURL string, logger *zap.Logger) (*LocalStore, error) {
	if dir == "" {
		return nil, errors.New("image save path (IMAGE_SAVE_PATH) is not configured")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory %s: %w", dir, err)
	}
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:  logger.Named("LocalStore"),
	}, nil
}

// SaveBinary записывает файл и возвращает публичный URL.
func (s *LocalStore) SaveBinary(ctx context.Context, name string, data []byte, mimeType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrStorage, err)
	}
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("%w: invalid file name %q", model.ErrStorage, name)
	}

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.logger.Error("Failed to save binary", zap.String("path", path), zap.Error(err))
		return "", fmt.Errorf("%w: %v", model.ErrStorage, err)
	}
	s.logger.Debug("Binary saved",
		zap.String("path", path),
		zap.String("mime_type", mimeType),
		zap.Int("size_bytes", len(data)),
	)
	return s.baseURL + "/" + name, nil
}
