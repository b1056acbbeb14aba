// Package progress хранит счетчики выполнения пакетов генерации.
// Счетчики только растут, поэтому прогресс пакета монотонен при частичных сбоях.
package progress

import (
	"context"
	"sync"

	"content-generator/internal/model"
)

// Tracker - хранилище прогресса пакетов.
type Tracker interface {
	Start(ctx context.Context, batchID, schemaID string, requested int) error
	Created(ctx context.Context, batchID string) error
	Failed(ctx context.Context, batchID string) error
	Skipped(ctx context.Context, batchID string) error
	Finish(ctx context.Context, batchID string) error
	// Fail завершает пакет, который не смог начать генерацию.
	Fail(ctx context.Context, batchID, reason string) error
	// Get возвращает model.ErrBatchNotFound для неизвестного пакета.
	Get(ctx context.Context, batchID string) (*model.BatchProgress, error)
}

var _ Tracker = (*MemoryTracker)(nil)

// MemoryTracker держит прогресс в памяти процесса. Используется, когда Redis не настроен.
type MemoryTracker struct {
	mu      sync.RWMutex
	batches map[string]*model.BatchProgress
}

func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{batches: make(map[string]*model.BatchProgress)}
}

func (t *MemoryTracker) Start(_ context.Context, batchID, schemaID string, requested int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.batches[batchID] = &model.BatchProgress{
		BatchID:   batchID,
		SchemaID:  schemaID,
		Status:    model.BatchStatusRunning,
		Requested: requested,
	}
	return nil
}

func (t *MemoryTracker) Created(_ context.Context, batchID string) error {
	return t.update(batchID, func(p *model.BatchProgress) { p.Created++ })
}

func (t *MemoryTracker) Failed(_ context.Context, batchID string) error {
	return t.update(batchID, func(p *model.BatchProgress) { p.Failed++ })
}

func (t *MemoryTracker) Skipped(_ context.Context, batchID string) error {
	return t.update(batchID, func(p *model.BatchProgress) { p.Skipped++ })
}

func (t *MemoryTracker) Finish(_ context.Context, batchID string) error {
	return t.update(batchID, func(p *model.BatchProgress) { p.Status = model.BatchStatusFinished })
}

func (t *MemoryTracker) Fail(_ context.Context, batchID, reason string) error {
	return t.update(batchID, func(p *model.BatchProgress) {
		p.Status = model.BatchStatusFailed
		p.Error = reason
	})
}

func (t *MemoryTracker) Get(_ context.Context, batchID string) (*model.BatchProgress, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.batches[batchID]
	if !ok {
		return nil, model.ErrBatchNotFound
	}
	snapshot := *p
	return &snapshot, nil
}

func (t *MemoryTracker) update(batchID string, fn func(*model.BatchProgress)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.batches[batchID]
	if !ok {
		return model.ErrBatchNotFound
	}
	fn(p)
	return nil
}
