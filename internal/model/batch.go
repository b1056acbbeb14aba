package model

import (
	"fmt"
	"strings"
)

// BatchRequest - входные данные пакетной генерации.
type BatchRequest struct {
	Count           int    `json:"count"`
	ContentSchemaID string `json:"contentSchemaId"`
	GenerateImages  bool   `json:"generateImages"`
	// BatchID опционален, генерируется оркестратором, если пуст.
	BatchID string `json:"batchId,omitempty"`
}

// Validate проверяет запрос. maxCount <= 0 означает отсутствие верхней границы.
func (r BatchRequest) Validate(maxCount int) error {
	if r.Count < 1 {
		return fmt.Errorf("%w: count must be >= 1, got %d", ErrInvalidBatchRequest, r.Count)
	}
	if maxCount > 0 && r.Count > maxCount {
		return fmt.Errorf("%w: count must be <= %d, got %d", ErrInvalidBatchRequest, maxCount, r.Count)
	}
	if strings.TrimSpace(r.ContentSchemaID) == "" {
		return fmt.Errorf("%w: content schema id is required", ErrInvalidBatchRequest)
	}
	return nil
}

// BatchResult - итог пакетной генерации. Created <= Requested всегда.
type BatchResult struct {
	BatchID   string `json:"batchId"`
	SchemaID  string `json:"contentSchemaId"`
	Requested int    `json:"requested"`
	Created   int    `json:"createdCount"`
	Failed    int    `json:"failed"`
	Skipped   int    `json:"skipped"`
	Message   string `json:"message"`
}

// Summary формирует человекочитаемое сообщение о результате.
func (r BatchResult) Summary() string {
	return fmt.Sprintf("%d %s records generated successfully.", r.Created, r.SchemaID)
}

// BatchStatus - статус пакета в трекере прогресса.
type BatchStatus string

const (
	BatchStatusRunning  BatchStatus = "running"
	BatchStatusFinished BatchStatus = "finished"
	// BatchStatusFailed - пакет не начал генерацию (например, не получен автор).
	BatchStatusFailed BatchStatus = "failed"
)

// BatchProgress - снимок прогресса пакета.
type BatchProgress struct {
	BatchID   string      `json:"batchId"`
	SchemaID  string      `json:"contentSchemaId"`
	Status    BatchStatus `json:"status"`
	Requested int         `json:"requested"`
	Created   int         `json:"created"`
	Failed    int         `json:"failed"`
	Skipped   int         `json:"skipped"`
	Error     string      `json:"error,omitempty"`
}
