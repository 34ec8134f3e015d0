package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"Spotmap-App/internal/domain/model"
)

func TestImportCoordinator_ConcurrentResultsNeverExceedTotal(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.createJob(t, model.ImportJob{ID: "imp", ChunkCountTotal: 10})

	trigger := &mockClusterTrigger{}
	trigger.On("Signal", mock.Anything, "imp").Return(nil).Once()
	coordinator := NewImportCoordinator(env.imports, trigger, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 15; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := coordinator.RecordChunkResult(ctx, "imp", 2, nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	job := env.job(t, "imp")
	assert.Equal(t, 10, job.ProcessedChunks)
	assert.Equal(t, 30, job.SpotCountImported)
	assert.Equal(t, model.ImportStatusCompleted, job.Status)
	trigger.AssertNumberOfCalls(t, "Signal", 1)
}

func TestImportCoordinator_TriggerFailureIsNotReturned(t *testing.T) {
	env := newTestEnv(t)
	env.createJob(t, model.ImportJob{ID: "imp", ChunkCountTotal: 1})

	trigger := &mockClusterTrigger{}
	trigger.On("Signal", mock.Anything, "imp").Return(errors.New("unavailable"))
	coordinator := NewImportCoordinator(env.imports, trigger, zap.NewNop())

	job, err := coordinator.RecordChunkResult(context.Background(), "imp", 1, nil)
	require.NoError(t, err)
	assert.Equal(t, model.ImportStatusCompleted, job.Status)
	trigger.AssertExpectations(t)
}

func TestImportCoordinator_UnknownTotalStaysProcessing(t *testing.T) {
	env := newTestEnv(t)
	env.createJob(t, model.ImportJob{ID: "imp"})

	job, err := env.coordinator.RecordChunkResult(context.Background(), "imp", 4, nil)
	require.NoError(t, err)
	assert.Equal(t, model.ImportStatusProcessing, job.Status)
	assert.Equal(t, 1, job.ProcessedChunks)
}

func TestImportCoordinator_FailureAfterCompletionMarksPartial(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.createJob(t, model.ImportJob{ID: "imp", ChunkCountTotal: 1})

	_, err := env.coordinator.RecordChunkResult(ctx, "imp", 1, nil)
	require.NoError(t, err)

	job, err := env.coordinator.RecordChunkResult(ctx, "imp", 0, errors.New("late failure"))
	require.NoError(t, err)
	assert.Equal(t, model.ImportStatusPartial, job.Status)
	assert.Equal(t, "late failure", job.ErrorMessage)
	assert.Equal(t, 1, job.ProcessedChunks)
}

func TestImportCoordinator_RetryAlwaysDeletesControlDocument(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.createJob(t, model.ImportJob{ID: "imp", ChunkCountTotal: 2})
	env.createChunk(t, "imp", "c1", record("a", 1, 1))
	env.createChunk(t, "imp", "c2", record("b", 2, 2))
	require.NoError(t, env.imports.UpdateChunk(ctx, "imp", "c1", []model.FieldChange{model.SetField(model.ChunkStatusFailed, "status")}))
	require.NoError(t, env.imports.UpdateChunk(ctx, "imp", "c2", []model.FieldChange{model.SetField(model.ChunkStatusFailed, "status")}))
	env.createChunk(t, "imp", model.RetryChunkID)
	require.NoError(t, env.imports.UpdateChunk(ctx, "imp", model.RetryChunkID, []model.FieldChange{model.SetField(model.ChunkStatusFailed, "status")}))

	runner := &failingRunner{fail: map[string]bool{"c2": true}}
	result, err := env.coordinator.RetryFailedChunks(ctx, "imp", runner)
	require.NoError(t, err)

	assert.Equal(t, []string{"c1", "c2"}, runner.calls, "制御ドキュメント自体は再処理しない")
	assert.Equal(t, 2, result.Attempted)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)

	_, err = env.imports.GetChunk(ctx, "imp", model.RetryChunkID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

// failingRunner 指定チャンクだけ失敗する ChunkRunner
type failingRunner struct {
	fail  map[string]bool
	calls []string
}

func (r *failingRunner) ProcessChunk(_ context.Context, importID, chunkID string) (*model.ChunkResult, error) {
	r.calls = append(r.calls, chunkID)
	if r.fail[chunkID] {
		return nil, errors.New("still broken")
	}
	return &model.ChunkResult{ImportID: importID, ChunkID: chunkID}, nil
}
