package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"content-generator/internal/model"
)

var _ SchemaRepository = (*pgSchemaRepository)(nil)

const (
	getSchemaQuery    = `SELECT id, label FROM content_schemas WHERE id = $1`
	listSchemasQuery  = `SELECT id, label FROM content_schemas ORDER BY id`
	schemaFieldsQuery = `
        SELECT name, label, kind, asset_target_kind
        FROM schema_fields
        WHERE schema_id = $1
        ORDER BY position`
)

type schemaRow struct {
	ID    string `db:"id"`
	Label string `db:"label"`
}

type fieldRow struct {
	Name            string `db:"name"`
	Label           string `db:"label"`
	Kind            string `db:"kind"`
	AssetTargetKind string `db:"asset_target_kind"`
}

type pgSchemaRepository struct {
	db     DBTX
	logger *zap.Logger
}

// NewPgSchemaRepository создает репозиторий схем на PostgreSQL.
func NewPgSchemaRepository(db DBTX, logger *zap.Logger) SchemaRepository {
	return &pgSchemaRepository{db: db, logger: logger.Named("PgSchemaRepo")}
}

func (r *pgSchemaRepository) GetSchema(ctx context.Context, id string) (*model.ContentSchema, error) {
	var row schemaRow
	if err := pgxscan.Get(ctx, r.db, &row, getSchemaQuery, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("Content schema not found", zap.String("schema_id", id))
			return nil, fmt.Errorf("%w: %s", model.ErrSchemaNotFound, id)
		}
		r.logger.Error("Failed to get content schema", zap.String("schema_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get content schema %s: %w", id, err)
	}

	fields, err := r.fields(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.ContentSchema{ID: row.ID, Label: row.Label, Fields: fields}, nil
}

func (r *pgSchemaRepository) ListSchemas(ctx context.Context) ([]model.ContentSchema, error) {
	var rows []schemaRow
	if err := pgxscan.Select(ctx, r.db, &rows, listSchemasQuery); err != nil {
		r.logger.Error("Failed to list content schemas", zap.Error(err))
		return nil, fmt.Errorf("failed to list content schemas: %w", err)
	}

	schemas := make([]model.ContentSchema, 0, len(rows))
	for _, row := range rows {
		fields, err := r.fields(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, model.ContentSchema{ID: row.ID, Label: row.Label, Fields: fields})
	}
	return schemas, nil
}

func (r *pgSchemaRepository) fields(ctx context.Context, schemaID string) ([]model.FieldSpec, error) {
	var rows []fieldRow
	if err := pgxscan.Select(ctx, r.db, &rows, schemaFieldsQuery, schemaID); err != nil {
		r.logger.Error("Failed to load schema fields", zap.String("schema_id", schemaID), zap.Error(err))
		return nil, fmt.Errorf("failed to load fields of schema %s: %w", schemaID, err)
	}
	fields := make([]model.FieldSpec, 0, len(rows))
	for _, row := range rows {
		fields = append(fields, model.FieldSpec{
			Name:            row.Name,
			Label:           row.Label,
			Kind:            model.ParseFieldKind(row.Kind),
			AssetTargetKind: row.AssetTargetKind,
		})
	}
	return fields, nil
}
