package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"content-generator/internal/model"
)

var _ BinaryStore = (*GCSStore)(nil)

const gcsUploadTimeout = 2 * time.Minute

// GCSStore загружает бинарники в бакет Google Cloud Storage.
type GCSStore struct {
	client *storage.Client
	bucket string
	prefix string
	logger *zap.Logger
}

// NewGCSStore создает клиент GCS. Учетные данные берутся из окружения (ADC).
func NewGCSStore(ctx context.Context, bucket, prefix string, logger *zap.Logger, opts ...option.ClientOption) (*GCSStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("GCS bucket is not configured")
	}
	opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSStore{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		logger: logger.Named("GCSStore"),
	}, nil
}

// SaveBinary загружает объект и возвращает gs:// URI.
func (s *GCSStore) SaveBinary(ctx context.Context, name string, data []byte, mimeType string) (string, error) {
	key := s.objectKey(name)
	ctx, cancel := context.WithTimeout(ctx, gcsUploadTimeout)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = mimeType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		s.logger.Error("Failed to write object", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("%w: write gcs object: %v", model.ErrStorage, err)
	}
	if err := w.Close(); err != nil {
		s.logger.Error("Failed to close object writer", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("%w: close gcs writer: %v", model.ErrStorage, err)
	}
	s.logger.Debug("Object uploaded", zap.String("bucket", s.bucket), zap.String("key", key), zap.Int("size_bytes", len(data)))
	return fmt.Sprintf("gs://%s/%s", s.bucket, key), nil
}

// Close закрывает клиент GCS.
func (s *GCSStore) Close() error {
	return s.client.Close()
}

func (s *GCSStore) objectKey(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}
