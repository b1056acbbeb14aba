package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"content-generator/internal/model"
)

var _ RecordRepository = (*pgRecordRepository)(nil)

const (
	insertRecordQuery = `
        INSERT INTO content_records (id, schema_id, title, owner_id, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`
	insertRecordFieldQuery = `
        INSERT INTO record_fields (record_id, name, value, format, asset_id, alt)
        VALUES ($1, $2, $3, $4, $5, $6)`
	commitRecordQuery = `UPDATE content_records SET status = $2 WHERE id = $1`
	deleteRecordQuery = `DELETE FROM content_records WHERE id = $1`
	getRecordQuery    = `
        SELECT id, schema_id, title, owner_id, status, created_at
        FROM content_records WHERE id = $1`
	listRecordsQuery = `
        SELECT id, schema_id, title, owner_id, status, created_at
        FROM content_records
        WHERE schema_id = $1 AND status = $2
        ORDER BY created_at DESC
        LIMIT $3`
	recordFieldsQuery = `
        SELECT name, value, format, asset_id, alt
        FROM record_fields WHERE record_id = $1`
)

type recordFieldRow struct {
	Name    string     `db:"name"`
	Value   string     `db:"value"`
	Format  string     `db:"format"`
	AssetID *uuid.UUID `db:"asset_id"`
	Alt     string     `db:"alt"`
}

type pgRecordRepository struct {
	db     DBTX
	logger *zap.Logger
	newID  func() uuid.UUID
	now    func() time.Time
}

// NewPgRecordRepository создает репозиторий записей на PostgreSQL.
// Запись и ее поля пишутся отдельными запросами без общей транзакции.
func NewPgRecordRepository(db DBTX, logger *zap.Logger) RecordRepository {
	return &pgRecordRepository{
		db:     db,
		logger: logger.Named("PgRecordRepo"),
		newID:  uuid.New,
		now:    time.Now,
	}
}

func (r *pgRecordRepository) Save(ctx context.Context, draft *model.DraftRecord) error {
	id := r.newID()
	createdAt := r.now().UTC()
	log := r.logger.With(zap.String("record_id", id.String()), zap.String("content_type", draft.SchemaID))

	if _, err := r.db.Exec(ctx, insertRecordQuery, id, draft.SchemaID, draft.Title, draft.OwnerID, string(model.RecordStatePopulating), createdAt); err != nil {
		log.Error("Failed to insert content record", zap.Error(err))
		return fmt.Errorf("%w: insert content record: %v", model.ErrStorage, err)
	}
	// С этого момента запись существует в хранилище.
	draft.ID = id
	draft.CreatedAt = createdAt

	for name, value := range draft.Fields {
		if _, err := r.db.Exec(ctx, insertRecordFieldQuery, id, name, value.Value, value.Format, value.AssetID, value.Alt); err != nil {
			log.Error("Failed to insert record field", zap.String("field", name), zap.Error(err))
			return fmt.Errorf("%w: insert field %s: %v", model.ErrStorage, name, err)
		}
	}

	if _, err := r.db.Exec(ctx, commitRecordQuery, id, string(model.RecordStateCommitted)); err != nil {
		log.Error("Failed to commit content record", zap.Error(err))
		return fmt.Errorf("%w: commit content record: %v", model.ErrStorage, err)
	}
	log.Debug("Content record saved", zap.Int("fields", len(draft.Fields)))
	return nil
}

func (r *pgRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, deleteRecordQuery, id)
	if err != nil {
		r.logger.Error("Failed to delete content record", zap.String("record_id", id.String()), zap.Error(err))
		return fmt.Errorf("%w: delete content record: %v", model.ErrStorage, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrRecordNotFound
	}
	r.logger.Info("Content record deleted", zap.String("record_id", id.String()))
	return nil
}

func (r *pgRecordRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ContentRecord, error) {
	var record model.ContentRecord
	if err := pgxscan.Get(ctx, r.db, &record, getRecordQuery, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrRecordNotFound
		}
		r.logger.Error("Failed to get content record", zap.String("record_id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get content record %s: %w", id, err)
	}
	fields, err := r.loadFields(ctx, id)
	if err != nil {
		return nil, err
	}
	record.Fields = fields
	return &record, nil
}

func (r *pgRecordRepository) ListBySchema(ctx context.Context, schemaID string, limit int) ([]model.ContentRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []model.ContentRecord
	if err := pgxscan.Select(ctx, r.db, &records, listRecordsQuery, schemaID, string(model.RecordStateCommitted), limit); err != nil {
		r.logger.Error("Failed to list content records", zap.String("content_type", schemaID), zap.Error(err))
		return nil, fmt.Errorf("failed to list content records: %w", err)
	}
	for i := range records {
		fields, err := r.loadFields(ctx, records[i].ID)
		if err != nil {
			return nil, err
		}
		records[i].Fields = fields
	}
	return records, nil
}

func (r *pgRecordRepository) loadFields(ctx context.Context, id uuid.UUID) (map[string]model.FieldValue, error) {
	var rows []recordFieldRow
	if err := pgxscan.Select(ctx, r.db, &rows, recordFieldsQuery, id); err != nil {
		return nil, fmt.Errorf("failed to load fields of record %s: %w", id, err)
	}
	fields := make(map[string]model.FieldValue, len(rows))
	for _, row := range rows {
		fields[row.Name] = model.FieldValue{Value: row.Value, Format: row.Format, AssetID: row.AssetID, Alt: row.Alt}
	}
	return fields, nil
}
