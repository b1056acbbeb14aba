//go:build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"content-generator/internal/database"
	"content-generator/internal/model"
	"content-generator/internal/repository"
)

type PgRepositorySuite struct {
	suite.Suite
	ctx         context.Context
	pgContainer *postgres.PostgresContainer
	pool        *pgxpool.Pool

	schemas repository.SchemaRepository
	records repository.RecordRepository
	assets  repository.AssetRepository
	actors  repository.ActorRepository
}

func (s *PgRepositorySuite) SetupSuite() {
	s.ctx = context.Background()

	pgContainer, err := postgres.Run(s.ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("content_test"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
	)
	require.NoError(s.T(), err, "Failed to start postgres container")
	s.pgContainer = pgContainer

	connStr, err := pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err)
	s.pool, err = pgxpool.New(s.ctx, connStr)
	require.NoError(s.T(), err)

	require.NoError(s.T(), database.NewMigrator(s.pool, zap.NewNop()).Up(), "Failed to run migrations")

	logger := zap.NewNop()
	s.schemas = repository.NewPgSchemaRepository(s.pool, logger)
	s.records = repository.NewPgRecordRepository(s.pool, logger)
	s.assets = repository.NewPgAssetRepository(s.pool, logger)
	s.actors = repository.NewPgActorRepository(s.pool, logger)
}

func (s *PgRepositorySuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(s.ctx); err != nil {
			s.T().Logf("Failed to terminate postgres container: %v", err)
		}
	}
}

func (s *PgRepositorySuite) SetupTest() {
	_, err := s.pool.Exec(s.ctx, `TRUNCATE record_fields, content_records, assets, system_actors CASCADE`)
	require.NoError(s.T(), err)
}

func (s *PgRepositorySuite) createActor() *model.SystemActor {
	actor := &model.SystemActor{Name: model.SystemActorName, Email: model.SystemActorEmail, PasswordHash: "hash", Active: true}
	s.Require().NoError(s.actors.Create(s.ctx, actor))
	return actor
}

func (s *PgRepositorySuite) TestSeededSchemas() {
	article, err := s.schemas.GetSchema(s.ctx, "article")
	s.Require().NoError(err)
	s.Require().Len(article.Fields, 3)
	s.Equal("title", article.Fields[0].Name)
	s.Equal(model.FieldKindTitle, article.Fields[0].Kind)
	s.Equal(model.FieldKindRichText, article.Fields[1].Kind)
	s.Equal(model.FieldKindAssetReference, article.Fields[2].Kind)
	s.True(article.Fields[2].IsImageReference())

	_, err = s.schemas.GetSchema(s.ctx, "missing")
	s.ErrorIs(err, model.ErrSchemaNotFound)

	all, err := s.schemas.ListSchemas(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 2)
}

func (s *PgRepositorySuite) TestActorUniqueName() {
	_, err := s.actors.GetByName(s.ctx, model.SystemActorName)
	s.ErrorIs(err, model.ErrActorNotFound)

	actor := s.createActor()
	s.NotEqual(uuid.Nil, actor.ID)

	dup := &model.SystemActor{Name: model.SystemActorName, Email: "other@example.com", PasswordHash: "x"}
	s.ErrorIs(s.actors.Create(s.ctx, dup), model.ErrActorAlreadyExists)

	got, err := s.actors.GetByName(s.ctx, model.SystemActorName)
	s.Require().NoError(err)
	s.Equal(actor.ID, got.ID)
}

func (s *PgRepositorySuite) TestAssetRoundTrip() {
	actor := s.createActor()
	id, err := s.assets.Create(s.ctx, &model.GeneratedAsset{
		Name:          "ai_placeholder_image_1_x.png",
		MimeType:      "image/png",
		Extension:     "png",
		StorageURI:    "/images/ai_placeholder_image_1_x.png",
		SizeBytes:     95,
		OwnerID:       actor.ID,
		IsPlaceholder: true,
	})
	s.Require().NoError(err)

	got, err := s.assets.GetByID(s.ctx, id)
	s.Require().NoError(err)
	s.True(got.IsPlaceholder)
	s.Equal(int64(95), got.SizeBytes)

	_, err = s.assets.GetByID(s.ctx, uuid.New())
	s.ErrorIs(err, model.ErrAssetNotFound)
}

func (s *PgRepositorySuite) TestRecordLifecycle() {
	actor := s.createActor()
	assetID, err := s.assets.Create(s.ctx, &model.GeneratedAsset{
		Name: "ai_image_1_x.jpg", MimeType: "image/jpeg", Extension: "jpg", StorageURI: "/images/ai_image_1_x.jpg", OwnerID: actor.ID,
	})
	s.Require().NoError(err)

	draft := model.NewDraftRecord("article", actor.ID)
	draft.Title = "Generated"
	draft.SetField("body", model.FieldValue{Value: "<p>Body</p>", Format: model.FormatFullHTML})
	draft.SetField("field_image", model.FieldValue{AssetID: &assetID, Alt: "Alt"})
	s.Require().NoError(s.records.Save(s.ctx, draft))
	s.True(draft.Persisted())

	got, err := s.records.GetByID(s.ctx, draft.ID)
	s.Require().NoError(err)
	s.Equal("Generated", got.Title)
	s.Equal(model.RecordStateCommitted, got.Status)
	s.Equal(draft.Fields["body"], got.Fields["body"])
	s.Require().NotNil(got.Fields["field_image"].AssetID)
	s.Equal(assetID, *got.Fields["field_image"].AssetID)

	list, err := s.records.ListBySchema(s.ctx, "article", 10)
	s.Require().NoError(err)
	s.Len(list, 1)

	s.Require().NoError(s.records.Delete(s.ctx, draft.ID))
	_, err = s.records.GetByID(s.ctx, draft.ID)
	s.ErrorIs(err, model.ErrRecordNotFound)
	s.ErrorIs(s.records.Delete(s.ctx, draft.ID), model.ErrRecordNotFound)
}

func (s *PgRepositorySuite) TestSaveUnknownSchemaFails() {
	actor := s.createActor()
	draft := model.NewDraftRecord("missing", actor.ID)

	err := s.records.Save(s.ctx, draft)
	s.ErrorIs(err, model.ErrStorage)
	s.False(draft.Persisted())
}

func TestPgRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(PgRepositorySuite))
}
