package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"content-generator/internal/model"
)

var _ ActorRepository = (*pgActorRepository)(nil)

const (
	getActorByNameQuery = `
        SELECT id, name, email, password_hash, active, created_at
        FROM system_actors WHERE name = $1`
	insertActorQuery = `
        INSERT INTO system_actors (id, name, email, password_hash, active, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`
)

type pgActorRepository struct {
	db     DBTX
	logger *zap.Logger
}

// NewPgActorRepository создает репозиторий синтетических авторов на PostgreSQL.
func NewPgActorRepository(db DBTX, logger *zap.Logger) ActorRepository {
	return &pgActorRepository{db: db, logger: logger.Named("PgActorRepo")}
}

func (r *pgActorRepository) GetByName(ctx context.Context, name string) (*model.SystemActor, error) {
	var actor model.SystemActor
	if err := pgxscan.Get(ctx, r.db, &actor, getActorByNameQuery, name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrActorNotFound
		}
		r.logger.Error("Failed to get system actor", zap.String("name", name), zap.Error(err))
		return nil, fmt.Errorf("failed to get system actor %q: %w", name, err)
	}
	return &actor, nil
}

func (r *pgActorRepository) Create(ctx context.Context, actor *model.SystemActor) error {
	if actor.ID == uuid.Nil {
		actor.ID = uuid.New()
	}
	if actor.CreatedAt.IsZero() {
		actor.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.Exec(ctx, insertActorQuery, actor.ID, actor.Name, actor.Email, actor.PasswordHash, actor.Active, actor.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			r.logger.Warn("System actor already exists", zap.String("name", actor.Name), zap.String("constraint", pgErr.ConstraintName))
			return model.ErrActorAlreadyExists
		}
		r.logger.Error("Failed to create system actor", zap.String("name", actor.Name), zap.Error(err))
		return fmt.Errorf("failed to create system actor: %w", err)
	}
	r.logger.Info("System actor created", zap.String("actor_id", actor.ID.String()), zap.String("name", actor.Name))
	return nil
}
