package model

import (
	"context"
	"errors"
)

// Стандартные ошибки генерации контента.
var (
	// ErrMissingCredential - ключ внешнего сервиса не настроен (ConfigurationError).
	ErrMissingCredential = errors.New("service credential is not configured")
	// ErrServiceFailure - транспортная ошибка или неуспешный ответ сервиса (ServiceError).
	ErrServiceFailure = errors.New("generation service failure")
	// ErrEmptyGeneration - сервис ответил, но полезного контента нет.
	ErrEmptyGeneration = errors.New("generation service returned no usable content")
	// ErrStorage - не удалось сохранить бинарник или запись.
	ErrStorage = errors.New("storage failure")
	// ErrNoAsset - не удалось получить даже placeholder.
	ErrNoAsset = errors.New("no asset could be produced")

	ErrSchemaNotFound     = errors.New("content schema not found")
	ErrRecordNotFound     = errors.New("content record not found")
	ErrAssetNotFound      = errors.New("asset not found")
	ErrActorNotFound      = errors.New("system actor not found")
	ErrActorAlreadyExists = errors.New("system actor already exists")

	ErrInvalidBatchRequest = errors.New("invalid batch request")
	ErrBatchNotFound       = errors.New("batch not found")
)

// ErrorKind возвращает короткое имя класса ошибки.
// Используется как метка метрик и поле логов.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrMissingCredential):
		return "configuration"
	case errors.Is(err, ErrEmptyGeneration):
		return "empty_generation"
	case errors.Is(err, ErrServiceFailure):
		return "service"
	case errors.Is(err, ErrNoAsset), errors.Is(err, ErrStorage):
		return "storage"
	case errors.Is(err, ErrSchemaNotFound):
		return "schema_not_found"
	case errors.Is(err, ErrInvalidBatchRequest):
		return "invalid_request"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "unknown"
	}
}
