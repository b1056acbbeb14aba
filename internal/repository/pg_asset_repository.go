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

var _ AssetRepository = (*pgAssetRepository)(nil)

const (
	insertAssetQuery = `
        INSERT INTO assets (id, name, mime_type, extension, storage_uri, size_bytes, owner_id, is_placeholder, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	getAssetQuery = `
        SELECT id, name, mime_type, extension, storage_uri, size_bytes, owner_id, is_placeholder, created_at
        FROM assets WHERE id = $1`
)

type pgAssetRepository struct {
	db     DBTX
	logger *zap.Logger
}

// NewPgAssetRepository создает репозиторий ассетов на PostgreSQL.
func NewPgAssetRepository(db DBTX, logger *zap.Logger) AssetRepository {
	return &pgAssetRepository{db: db, logger: logger.Named("PgAssetRepo")}
}

func (r *pgAssetRepository) Create(ctx context.Context, asset *model.GeneratedAsset) (uuid.UUID, error) {
	if asset.ID == uuid.Nil {
		asset.ID = uuid.New()
	}
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.Exec(ctx, insertAssetQuery,
		asset.ID, asset.Name, asset.MimeType, asset.Extension, asset.StorageURI,
		asset.SizeBytes, asset.OwnerID, asset.IsPlaceholder, asset.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to insert asset", zap.String("name", asset.Name), zap.Error(err))
		return uuid.Nil, fmt.Errorf("%w: insert asset: %v", model.ErrStorage, err)
	}
	r.logger.Debug("Asset created",
		zap.String("asset_id", asset.ID.String()),
		zap.String("name", asset.Name),
		zap.Bool("placeholder", asset.IsPlaceholder),
	)
	return asset.ID, nil
}

func (r *pgAssetRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.GeneratedAsset, error) {
	var asset model.GeneratedAsset
	if err := pgxscan.Get(ctx, r.db, &asset, getAssetQuery, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAssetNotFound
		}
		return nil, fmt.Errorf("failed to get asset %s: %w", id, err)
	}
	return &asset, nil
}
