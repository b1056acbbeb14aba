package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"content-generator/internal/metrics"
	"content-generator/internal/model"
	"content-generator/internal/progress"
	"content-generator/internal/repository"
)

// ActorResolver возвращает синтетического автора для пакета.
type ActorResolver interface {
	Resolve(ctx context.Context) (model.SystemActor, error)
}

// OrchestratorConfig - ограничения пакетной генерации.
type OrchestratorConfig struct {
	// Workers - число записей, генерируемых одновременно. 1 = строго последовательно.
	Workers int
	// Timeout ограничивает весь пакет. 0 = без ограничения.
	Timeout time.Duration
	// MaxCount - верхняя граница count в запросе. 0 = без ограничения.
	MaxCount int
}

// ContentOrchestrator ведет жизненный цикл записей пакета:
// черновик -> заполнение -> коммит или откат.
type ContentOrchestrator struct {
	cfg         OrchestratorConfig
	schemas     repository.SchemaRepository
	records     repository.RecordRepository
	actors      ActorResolver
	planner     *PromptPlanner
	populator   *FieldPopulator
	siteContext model.SiteContext
	tracker     progress.Tracker
	metrics     *metrics.Metrics
	newBatchID  func() string
	logger      *zap.Logger
}

// OrchestratorDeps - зависимости оркестратора.
type OrchestratorDeps struct {
	Schemas     repository.SchemaRepository
	Records     repository.RecordRepository
	Actors      ActorResolver
	Planner     *PromptPlanner
	Populator   *FieldPopulator
	SiteContext model.SiteContext
	Tracker     progress.Tracker // nil = MemoryTracker
	Metrics     *metrics.Metrics // nil = без метрик
	NewBatchID  func() string    // nil = uuid.NewString
}

func NewContentOrchestrator(cfg OrchestratorConfig, deps OrchestratorDeps, logger *zap.Logger) *ContentOrchestrator {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	o := &ContentOrchestrator{
		cfg:         cfg,
		schemas:     deps.Schemas,
		records:     deps.Records,
		actors:      deps.Actors,
		planner:     deps.Planner,
		populator:   deps.Populator,
		siteContext: deps.SiteContext.WithDefaults(),
		tracker:     deps.Tracker,
		metrics:     deps.Metrics,
		newBatchID:  deps.NewBatchID,
		logger:      logger.Named("ContentOrchestrator"),
	}
	if o.tracker == nil {
		o.tracker = progress.NewMemoryTracker()
	}
	if o.newBatchID == nil {
		o.newBatchID = uuid.NewString
	}
	return o
}

// Tracker возвращает трекер прогресса пакетов.
func (o *ContentOrchestrator) Tracker() progress.Tracker {
	return o.tracker
}

type recordOutcome int

const (
	outcomeCreated recordOutcome = iota
	outcomeFailed
	outcomeSkipped
)

// GenerateBatch создает до req.Count записей. Ошибка возвращается только
// при невалидном запросе или если не удалось получить автора: сбои отдельных
// записей видны лишь как Created < Requested.
func (o *ContentOrchestrator) GenerateBatch(ctx context.Context, req model.BatchRequest) (model.BatchResult, error) {
	if err := req.Validate(o.cfg.MaxCount); err != nil {
		return model.BatchResult{}, err
	}
	batchID := req.BatchID
	if batchID == "" {
		batchID = o.newBatchID()
	}
	result := model.BatchResult{BatchID: batchID, SchemaID: req.ContentSchemaID, Requested: req.Count}
	log := o.logger.With(zap.String("batch_id", batchID), zap.String("content_type", req.ContentSchemaID))

	if o.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.Timeout)
		defer cancel()
	}

	// Пакет виден в трекере до первого обращения к хранилищу.
	o.trackerCall(log, "start", o.tracker.Start(ctx, batchID, req.ContentSchemaID, req.Count))

	actor, err := o.actors.Resolve(ctx)
	if err != nil {
		log.Error("Failed to resolve system actor", zap.Error(err))
		err = fmt.Errorf("failed to resolve system actor: %w", err)
		failCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		o.trackerCall(log, "fail", o.tracker.Fail(failCtx, batchID, err.Error()))
		return result, err
	}
	assignments := o.planner.Plan(req.Count, o.siteContext)

	log.Info("Batch started",
		zap.Int("count", req.Count),
		zap.Bool("generate_images", req.GenerateImages),
		zap.Int("workers", o.cfg.Workers),
	)

	var created, failed, skipped atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Workers)

	for i := 0; i < req.Count; i++ {
		if gctx.Err() != nil {
			// Индексы, которые не успели начаться, считаются пропущенными.
			skipped.Add(1)
			o.recordOutcome(log, batchID, outcomeSkipped, "cancelled")
			continue
		}
		index := i
		params := PopulateParams{
			Index:          index,
			Assignment:     assignments[index],
			ImageKeyword:   o.siteContext.ImageKeyword(index),
			GenerateImages: req.GenerateImages,
			Owner:          actor,
		}
		g.Go(func() error {
			outcome, reason := o.generateRecord(gctx, req.ContentSchemaID, params, log)
			switch outcome {
			case outcomeCreated:
				created.Add(1)
			case outcomeFailed:
				failed.Add(1)
			case outcomeSkipped:
				skipped.Add(1)
			}
			o.recordOutcome(log, batchID, outcome, reason)
			return nil
		})
	}
	_ = g.Wait()

	result.Created = int(created.Load())
	result.Failed = int(failed.Load())
	result.Skipped = int(skipped.Load())
	result.Message = result.Summary()

	// Контекст пакета мог истечь, финальный статус пишем отдельным контекстом.
	finishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	o.trackerCall(log, "finish", o.tracker.Finish(finishCtx, batchID))
	if o.metrics != nil {
		o.metrics.BatchesCompleted.Inc()
	}

	log.Info("Batch finished",
		zap.Int("requested", result.Requested),
		zap.Int("created", result.Created),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

// generateRecord проводит одну запись через Draft -> Populating -> Committed | RolledBack.
func (o *ContentOrchestrator) generateRecord(ctx context.Context, schemaID string, params PopulateParams, batchLog *zap.Logger) (outcome recordOutcome, reason string) {
	log := batchLog.With(zap.Int("record_index", params.Index))
	started := time.Now()
	defer func() {
		if o.metrics != nil && outcome != outcomeSkipped {
			o.metrics.RecordDuration.Observe(time.Since(started).Seconds())
		}
	}()

	// Схема могла быть удалена во время пакета.
	schema, err := o.schemas.GetSchema(ctx, schemaID)
	if err != nil {
		if errors.Is(err, model.ErrSchemaNotFound) {
			log.Warn("Content schema no longer exists, skipping record")
			return outcomeSkipped, model.ErrorKind(err)
		}
		if ctx.Err() != nil {
			return outcomeSkipped, "cancelled"
		}
		log.Error("Failed to load content schema", zap.Error(err))
		return outcomeFailed, model.ErrorKind(err)
	}

	draft := model.NewDraftRecord(schema.ID, params.Owner.ID)
	if err := draft.Transition(model.RecordStatePopulating); err != nil {
		return outcomeFailed, "unknown"
	}

	if err := o.populator.Populate(ctx, draft, schema, params); err != nil {
		o.rollback(draft, log, err)
		return outcomeFailed, model.ErrorKind(err)
	}

	if err := o.records.Save(ctx, draft); err != nil {
		o.rollback(draft, log, err)
		return outcomeFailed, model.ErrorKind(err)
	}
	if err := draft.Transition(model.RecordStateCommitted); err != nil {
		return outcomeFailed, "unknown"
	}

	log.Info("Record committed", zap.String("record_id", draft.ID.String()), zap.String("title", draft.Title))
	return outcomeCreated, ""
}

// rollback удаляет запись, если она успела появиться в хранилище.
func (o *ContentOrchestrator) rollback(draft *model.DraftRecord, log *zap.Logger, cause error) {
	log = log.With(zap.String("error_kind", model.ErrorKind(cause)))
	if draft.Persisted() {
		log = log.With(zap.String("record_id", draft.ID.String()))
		// Откат выполняется даже после отмены контекста пакета.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := o.records.Delete(ctx, draft.ID); err != nil && !errors.Is(err, model.ErrRecordNotFound) {
			log.Error("Failed to delete incomplete record", zap.Error(err))
		}
	}
	_ = draft.Transition(model.RecordStateRolledBack)
	log.Error("Record generation failed, rolled back", zap.Error(cause))
}

func (o *ContentOrchestrator) recordOutcome(log *zap.Logger, batchID string, outcome recordOutcome, reason string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	switch outcome {
	case outcomeCreated:
		if o.metrics != nil {
			o.metrics.RecordsCreated.Inc()
		}
		o.trackerCall(log, "created", o.tracker.Created(ctx, batchID))
	case outcomeFailed:
		if o.metrics != nil {
			o.metrics.RecordsFailed.WithLabelValues(reason).Inc()
		}
		o.trackerCall(log, "failed", o.tracker.Failed(ctx, batchID))
	case outcomeSkipped:
		if o.metrics != nil {
			o.metrics.RecordsSkipped.Inc()
		}
		o.trackerCall(log, "skipped", o.tracker.Skipped(ctx, batchID))
	}
}

// trackerCall логирует сбой трекера; генерация от него не зависит.
func (o *ContentOrchestrator) trackerCall(log *zap.Logger, op string, err error) {
	if err != nil {
		log.Warn("Progress tracker update failed", zap.String("op", op), zap.Error(err))
	}
}
