package model

import (
	"time"

	"github.com/google/uuid"
)

// GeneratedAsset - сохраненный бинарник изображения и его метаданные.
// Сам бинарник в БД не хранится, только StorageURI.
type GeneratedAsset struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	MimeType      string    `json:"mimeType" db:"mime_type"`
	Extension     string    `json:"extension" db:"extension"`
	StorageURI    string    `json:"storageUri" db:"storage_uri"`
	SizeBytes     int64     `json:"sizeBytes" db:"size_bytes"`
	OwnerID       uuid.UUID `json:"ownerId" db:"owner_id"`
	IsPlaceholder bool      `json:"isPlaceholder" db:"is_placeholder"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`

	Binary []byte `json:"-" db:"-"`
}

// InlineData - бинарные данные части ответа Image Service (base64).
type InlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// ImagePart - одна часть ответа Image Service.
type ImagePart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// ImageResponse - ответ Image Service.
type ImageResponse struct {
	Parts []ImagePart `json:"parts"`
}

// FirstInlineData возвращает первую часть с непустым payload.
func (r *ImageResponse) FirstInlineData() *InlineData {
	if r == nil {
		return nil
	}
	for _, part := range r.Parts {
		if part.InlineData != nil && part.InlineData.Data != "" {
			return part.InlineData
		}
	}
	return nil
}
