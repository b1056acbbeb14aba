package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"content-generator/internal/metrics"
	"content-generator/internal/model"
	"content-generator/internal/repository"
	"content-generator/internal/storage"
)

// ImageGenerator - генерация ассета изображения по ключевому слову.
type ImageGenerator interface {
	Generate(ctx context.Context, keyword string, owner model.SystemActor) (uuid.UUID, error)
}

var _ ImageGenerator = (*ImageSynthesizer)(nil)

const (
	defaultImageTimeout = 60 * time.Second
	defaultImageMime    = "image/png"
)

// ImageSynthesizer вызывает Image Service и сохраняет результат как ассет.
// Любой сбой до создания ассета переводит генерацию на плейсхолдер.
type ImageSynthesizer struct {
	client  ImageClient
	store   storage.BinaryStore
	assets  repository.AssetRepository
	clock   Clock
	newID   func() string
	timeout time.Duration
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// ImageSynthesizerOption настраивает ImageSynthesizer.
type ImageSynthesizerOption func(*ImageSynthesizer)

// WithClock задает часы для имен файлов.
func WithClock(c Clock) ImageSynthesizerOption {
	return func(s *ImageSynthesizer) { s.clock = c }
}

// WithIDGenerator задает генератор уникальной части имени файла.
func WithIDGenerator(f func() string) ImageSynthesizerOption {
	return func(s *ImageSynthesizer) { s.newID = f }
}

// WithImageTimeout задает таймаут вызова Image Service.
func WithImageTimeout(d time.Duration) ImageSynthesizerOption {
	return func(s *ImageSynthesizer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithMetrics подключает счетчики исходов.
func WithMetrics(m *metrics.Metrics) ImageSynthesizerOption {
	return func(s *ImageSynthesizer) { s.metrics = m }
}

// NewImageSynthesizer. client может быть nil (ключ не настроен).
func NewImageSynthesizer(client ImageClient, store storage.BinaryStore, assets repository.AssetRepository, logger *zap.Logger, opts ...ImageSynthesizerOption) *ImageSynthesizer {
	s := &ImageSynthesizer{
		client:  client,
		store:   store,
		assets:  assets,
		clock:   SystemClock(),
		newID:   uuid.NewString,
		timeout: defaultImageTimeout,
		logger:  logger.Named("ImageSynthesizer"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate всегда возвращает ID ассета (настоящего или плейсхолдера),
// кроме случая, когда не удалось сохранить даже плейсхолдер: тогда model.ErrNoAsset.
func (s *ImageSynthesizer) Generate(ctx context.Context, keyword string, owner model.SystemActor) (uuid.UUID, error) {
	log := s.logger.With(zap.String("keyword", keyword))

	if s.client == nil {
		log.Warn("Image service credential is not configured, using placeholder")
		return s.placeholder(ctx, owner, log)
	}

	id, err := s.generate(ctx, keyword, owner)
	if err == nil {
		s.metrics.ObserveImageOutcome(metrics.ImageOutcomeGenerated)
		log.Info("Image asset created", zap.String("asset_id", id.String()))
		return id, nil
	}

	if errors.Is(err, model.ErrEmptyGeneration) {
		log.Warn("No usable image in service response, using placeholder", zap.Error(err))
	} else {
		log.Error("Image generation failed, using placeholder", zap.Error(err), zap.String("error_kind", model.ErrorKind(err)))
	}
	return s.placeholder(ctx, owner, log)
}

// generate выполняет шаги от вызова сервиса до создания ассета.
// Паника внутри превращается в ошибку.
func (s *ImageSynthesizer) generate(ctx context.Context, keyword string, owner model.SystemActor) (id uuid.UUID, err error) {
	defer func() {
		if r := recover(); r != nil {
			id = uuid.Nil
			err = fmt.Errorf("%w: panic during image generation: %v", model.ErrServiceFailure, r)
		}
	}()

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	resp, err := s.client.GenerateImage(callCtx, keyword)
	cancel()
	if err != nil {
		return uuid.Nil, err
	}

	inline := resp.FirstInlineData()
	if inline == nil {
		return uuid.Nil, fmt.Errorf("%w: no inline image data", model.ErrEmptyGeneration)
	}
	data, err := base64.StdEncoding.Strict().DecodeString(inline.Data)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed base64 payload: %v", model.ErrEmptyGeneration, err)
	}

	mimeType := inline.MimeType
	if mimeType == "" {
		mimeType = defaultImageMime
	}
	ext := ExtensionForMime(mimeType)
	name := fmt.Sprintf("ai_image_%d_%s.%s", s.clock.Now().Unix(), s.newID(), ext)

	return s.persist(ctx, &model.GeneratedAsset{
		Name:      name,
		MimeType:  mimeType,
		Extension: ext,
		OwnerID:   owner.ID,
		Binary:    data,
	})
}

func (s *ImageSynthesizer) placeholder(ctx context.Context, owner model.SystemActor, log *zap.Logger) (uuid.UUID, error) {
	name := fmt.Sprintf("ai_placeholder_image_%d_%s.png", s.clock.Now().Unix(), s.newID())
	id, err := s.persist(ctx, &model.GeneratedAsset{
		Name:          name,
		MimeType:      defaultImageMime,
		Extension:     "png",
		OwnerID:       owner.ID,
		IsPlaceholder: true,
		Binary:        placeholderPNG,
	})
	if err != nil {
		s.metrics.ObserveImageOutcome(metrics.ImageOutcomeNoAsset)
		log.Error("Failed to store placeholder image", zap.Error(err))
		return uuid.Nil, fmt.Errorf("%w: %v", model.ErrNoAsset, err)
	}
	s.metrics.ObserveImageOutcome(metrics.ImageOutcomePlaceholder)
	log.Info("Placeholder image asset created", zap.String("asset_id", id.String()))
	return id, nil
}

// persist сохраняет бинарник и создает запись ассета.
func (s *ImageSynthesizer) persist(ctx context.Context, asset *model.GeneratedAsset) (uuid.UUID, error) {
	uri, err := s.store.SaveBinary(ctx, asset.Name, asset.Binary, asset.MimeType)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: save %s: %v", model.ErrStorage, asset.Name, err)
	}
	asset.StorageURI = uri
	asset.SizeBytes = int64(len(asset.Binary))
	asset.CreatedAt = s.clock.Now().UTC()

	id, err := s.assets.Create(ctx, asset)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: create asset record: %v", model.ErrStorage, err)
	}
	return id, nil
}
