package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"content-generator/internal/model"
)

// DBTX - общий интерфейс для *pgxpool.Pool и pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SchemaRepository отдает схемы контента. Схемы только читаются.
type SchemaRepository interface {
	// GetSchema возвращает схему с полями в порядке position.
	// model.ErrSchemaNotFound, если схемы нет.
	GetSchema(ctx context.Context, id string) (*model.ContentSchema, error)
	ListSchemas(ctx context.Context) ([]model.ContentSchema, error)
}

// RecordRepository хранит записи контента.
type RecordRepository interface {
	// Save сохраняет запись. draft.ID заполняется, как только строка записи создана,
	// поэтому при ошибке вызывающий код может удалить неполную запись.
	Save(ctx context.Context, draft *model.DraftRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.ContentRecord, error)
	ListBySchema(ctx context.Context, schemaID string, limit int) ([]model.ContentRecord, error)
}

// AssetRepository хранит метаданные сгенерированных ассетов.
type AssetRepository interface {
	Create(ctx context.Context, asset *model.GeneratedAsset) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.GeneratedAsset, error)
}

// ActorRepository хранит синтетических авторов.
type ActorRepository interface {
	// GetByName возвращает model.ErrActorNotFound, если автора нет.
	GetByName(ctx context.Context, name string) (*model.SystemActor, error)
	// Create возвращает model.ErrActorAlreadyExists при конфликте имени.
	Create(ctx context.Context, actor *model.SystemActor) error
}

// uniqueViolation - код ошибки PostgreSQL unique_violation.
const uniqueViolation = "23505"
