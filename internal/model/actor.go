package model

import (
	"time"

	"github.com/google/uuid"
)

// Данные синтетического автора сгенерированного контента.
const (
	SystemActorName  = "AI Content Generator"
	SystemActorEmail = "ai@example.com"
)

// SystemActor - синтетическая учетная запись, владелец всех записей и ассетов запуска.
type SystemActor struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
