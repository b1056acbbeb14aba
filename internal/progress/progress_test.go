package progress

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content-generator/internal/model"
)

func TestMemoryTracker(t *testing.T) {
	ctx := context.Background()
	tr := NewMemoryTracker()

	_, err := tr.Get(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrBatchNotFound)
	assert.ErrorIs(t, tr.Created(ctx, "missing"), model.ErrBatchNotFound)

	require.NoError(t, tr.Start(ctx, "b1", "article", 5))

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = tr.Created(ctx, "b1")
		}()
	}
	wg.Wait()
	require.NoError(t, tr.Failed(ctx, "b1"))
	require.NoError(t, tr.Skipped(ctx, "b1"))
	require.NoError(t, tr.Finish(ctx, "b1"))

	p, err := tr.Get(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, model.BatchProgress{
		BatchID:   "b1",
		SchemaID:  "article",
		Status:    model.BatchStatusFinished,
		Requested: 5,
		Created:   3,
		Failed:    1,
		Skipped:   1,
	}, *p)
}

func TestMemoryTrackerGetReturnsSnapshot(t *testing.T) {
	ctx := context.Background()
	tr := NewMemoryTracker()
	require.NoError(t, tr.Start(ctx, "b1", "page", 1))

	p, err := tr.Get(ctx, "b1")
	require.NoError(t, err)
	p.Created = 100

	again, err := tr.Get(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, 0, again.Created)
}

func TestMemoryTrackerFail(t *testing.T) {
	ctx := context.Background()
	tr := NewMemoryTracker()

	assert.ErrorIs(t, tr.Fail(ctx, "missing", "boom"), model.ErrBatchNotFound)

	require.NoError(t, tr.Start(ctx, "b1", "page", 4))
	require.NoError(t, tr.Fail(ctx, "b1", "failed to resolve system actor"))

	p, err := tr.Get(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, model.BatchStatusFailed, p.Status)
	assert.Equal(t, "failed to resolve system actor", p.Error)
	assert.Equal(t, 4, p.Requested)
	assert.Zero(t, p.Created)
}
