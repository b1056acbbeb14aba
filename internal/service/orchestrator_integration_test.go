//go:build integration

package service_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"content-generator/internal/database"
	"content-generator/internal/mocks"
	"content-generator/internal/model"
	"content-generator/internal/repository"
	"content-generator/internal/service"
	"content-generator/internal/storage"
)

// Полный пакет на настоящем PostgreSQL: Image Service не настроен, все изображения - плейсхолдеры.
func TestContentOrchestrator_EndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
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
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, database.NewMigrator(pool, zap.NewNop()).Up())

	logger := zap.NewNop()
	dir := t.TempDir()
	store, err := storage.NewLocalStore(dir, "/images", logger)
	require.NoError(t, err)

	schemas := repository.NewPgSchemaRepository(pool, logger)
	records := repository.NewPgRecordRepository(pool, logger)
	assets := repository.NewPgAssetRepository(pool, logger)
	actors := repository.NewPgActorRepository(pool, logger)

	textClient := mocks.NewMockTextClient(t)
	textClient.On("GenerateText", mock.Anything, mock.Anything).Return("Generated title\nGenerated body", nil)

	random := service.NewLockedRandom(1)
	text := service.NewTextSynthesizer(textClient, testSiteContext, random, time.Second, logger)
	images := service.NewImageSynthesizer(nil, store, assets, logger)

	orchestrator := service.NewContentOrchestrator(service.OrchestratorConfig{Workers: 2, MaxCount: 10}, service.OrchestratorDeps{
		Schemas:     schemas,
		Records:     records,
		Actors:      service.NewSystemActorResolver(actors, logger),
		Planner:     service.NewPromptPlanner(random),
		Populator:   service.NewFieldPopulator(text, images, logger),
		SiteContext: testSiteContext,
	}, logger)

	result, err := orchestrator.GenerateBatch(ctx, model.BatchRequest{Count: 2, ContentSchemaID: "article", GenerateImages: true})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, "2 article records generated successfully.", result.Message)

	list, err := records.ListBySchema(ctx, "article", 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, rec := range list {
		assert.Equal(t, "Generated title", rec.Title)
		assert.Equal(t, "<p>Generated body</p>", rec.Fields["body"].Value)

		image := rec.Fields["field_image"]
		require.NotNil(t, image.AssetID)
		asset, err := assets.GetByID(ctx, *image.AssetID)
		require.NoError(t, err)
		assert.True(t, asset.IsPlaceholder)
		_, err = os.Stat(filepath.Join(dir, asset.Name))
		assert.NoError(t, err)
	}

	// Повторный запуск использует того же автора.
	_, err = orchestrator.GenerateBatch(ctx, model.BatchRequest{Count: 1, ContentSchemaID: "page"})
	require.NoError(t, err)
	var actorCount int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM system_actors`).Scan(&actorCount))
	assert.Equal(t, 1, actorCount)
}
