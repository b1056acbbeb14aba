package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"content-generator/internal/config"
	"content-generator/internal/database"
	"content-generator/internal/handler"
	"content-generator/internal/logger"
	"content-generator/internal/metrics"
	"content-generator/internal/model"
	"content-generator/internal/progress"
	"content-generator/internal/repository"
	"content-generator/internal/service"
	"content-generator/internal/sitecontext"
	"content-generator/internal/storage"
	"content-generator/internal/worker"
)

func main() {
	count := flag.Int("count", 1, "number of records to generate")
	contentType := flag.String("type", "article", "content schema id")
	images := flag.Bool("images", false, "generate images for asset reference fields")
	serve := flag.Bool("serve", false, "run the HTTP API")
	runWorker := flag.Bool("worker", false, "consume batch tasks from RabbitMQ")
	flag.Parse()

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("Configuration loaded",
		zap.String("env", cfg.AppEnv),
		zap.String("text_provider", cfg.Text.Provider),
		zap.String("storage_backend", cfg.Storage.Backend),
		zap.Int("batch_workers", cfg.Batch.Workers),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := newApp(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer application.Close()

	switch {
	case *serve:
		err = application.runServer(ctx)
	case *runWorker:
		err = application.runWorker(ctx)
	default:
		err = application.runOnce(ctx, model.BatchRequest{Count: *count, ContentSchemaID: *contentType, GenerateImages: *images})
	}
	if err != nil {
		log.Error("Generator stopped with error", zap.Error(err))
		application.Close()
		log.Sync()
		os.Exit(1)
	}
}

// app - собранные зависимости процесса.
type app struct {
	cfg          *config.Config
	logger       *zap.Logger
	pool         *pgxpool.Pool
	redis        *redis.Client
	store        storage.BinaryStore
	schemas      repository.SchemaRepository
	tracker      progress.Tracker
	metrics      *metrics.Metrics
	pusher       *metrics.Pusher
	orchestrator *service.ContentOrchestrator
	closed       bool
}

func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: log}

	// --- External Connections ---
	pool, err := database.NewPool(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}
	a.pool = pool

	if err := database.NewMigrator(pool, log).Up(); err != nil {
		a.Close()
		return nil, err
	}

	store, err := storage.New(ctx, cfg.Storage, log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize binary storage: %w", err)
	}
	a.store = store

	siteContext, err := sitecontext.Load(cfg.SiteContextPath, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.metrics = metrics.New()
	a.pusher = metrics.NewPusher(cfg.PushGatewayURL, a.metrics, log)

	a.tracker = progress.NewMemoryTracker()
	if cfg.RedisAddr != "" {
		a.redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := a.redis.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		a.tracker = progress.NewRedisTracker(a.redis, progress.DefaultTTL, log)
		log.Info("Connected to Redis", zap.String("addr", cfg.RedisAddr))
	}

	// --- Dependency Injection ---
	a.schemas = repository.NewPgSchemaRepository(pool, log)
	records := repository.NewPgRecordRepository(pool, log)
	assets := repository.NewPgAssetRepository(pool, log)
	actors := repository.NewPgActorRepository(pool, log)

	textClient, err := service.NewTextClient(cfg.Text, a.metrics, log)
	if err != nil {
		a.Close()
		return nil, err
	}
	imageClient := service.NewImageClient(cfg.Image, a.metrics, log)

	random := service.NewLockedRandom(time.Now().UnixNano())
	text := service.NewTextSynthesizer(textClient, siteContext, random, cfg.Text.Timeout, log)
	imgs := service.NewImageSynthesizer(imageClient, store, assets, log,
		service.WithImageTimeout(cfg.Image.Timeout),
		service.WithMetrics(a.metrics),
	)

	a.orchestrator = service.NewContentOrchestrator(service.OrchestratorConfig{
		Workers:  cfg.Batch.Workers,
		Timeout:  cfg.Batch.Timeout,
		MaxCount: cfg.Batch.MaxCount,
	}, service.OrchestratorDeps{
		Schemas:     a.schemas,
		Records:     records,
		Actors:      service.NewSystemActorResolver(actors, log),
		Planner:     service.NewPromptPlanner(random),
		Populator:   service.NewFieldPopulator(text, imgs, log),
		SiteContext: siteContext,
		Tracker:     a.tracker,
		Metrics:     a.metrics,
	}, log)

	return a, nil
}

// Close освобождает соединения. Повторный вызов ничего не делает.
func (a *app) Close() {
	if a.closed {
		return
	}
	a.closed = true
	if closer, ok := a.store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			a.logger.Warn("Failed to close binary storage", zap.Error(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("Failed to close Redis client", zap.Error(err))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}

// runOnce выполняет один пакет и печатает итоговое сообщение.
func (a *app) runOnce(ctx context.Context, req model.BatchRequest) error {
	result, err := a.orchestrator.GenerateBatch(ctx, req)
	a.pusher.Push()
	if err != nil {
		return err
	}
	fmt.Println(result.Message)
	return nil
}

func (a *app) runServer(ctx context.Context) error {
	if a.cfg.AppEnv == "development" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	batches := handler.NewBatchHandler(ctx, pushingGenerator{a.orchestrator, a.pusher}, a.tracker, a.schemas, a.cfg.Batch.MaxCount, a.logger)
	router := handler.NewRouter(batches, a.metrics.Handler(), a.logger)

	srv := &http.Server{
		Addr:         ":" + a.cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 10 * time.Minute, // ?wait=true держит соединение до конца пакета
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("port", a.cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server listen error: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	a.logger.Info("Server exiting")
	return nil
}

func (a *app) runWorker(ctx context.Context) error {
	consumer := worker.NewConsumer(a.cfg.RabbitMQ, func(p worker.Publisher) *worker.Handler {
		return worker.NewHandler(a.orchestrator, a.schemas, p, a.pusher, a.logger)
	}, a.logger)
	return consumer.Run(ctx)
}

// pushingGenerator отправляет метрики в Pushgateway после каждого пакета HTTP API.
type pushingGenerator struct {
	generator handler.BatchGenerator
	pusher    *metrics.Pusher
}

func (g pushingGenerator) GenerateBatch(ctx context.Context, req model.BatchRequest) (model.BatchResult, error) {
	defer g.pusher.Push()
	return g.generator.GenerateBatch(ctx, req)
}
