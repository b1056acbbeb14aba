package worker

import "content-generator/internal/model"

// BatchTaskPayload - задача пакетной генерации из очереди.
type BatchTaskPayload struct {
	TaskID          string `json:"taskId"`
	Count           int    `json:"count"`
	ContentSchemaID string `json:"contentSchemaId"`
	GenerateImages  bool   `json:"generateImages"`
}

// BatchResultPayload - результат, публикуемый в очередь результатов.
type BatchResultPayload struct {
	TaskID       string             `json:"taskId"`
	Success      bool               `json:"success"`
	Result       *model.BatchResult `json:"result,omitempty"`
	ErrorMessage *string            `json:"errorMessage,omitempty"`
}
