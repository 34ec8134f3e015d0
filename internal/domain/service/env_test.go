package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"Spotmap-App/internal/domain/model"
	"Spotmap-App/internal/infrastructure/docstore"
	repoImpl "Spotmap-App/internal/repository"
)

// mockBlobStore BlobStore のモック
type mockBlobStore struct {
	mock.Mock
}

func (m *mockBlobStore) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

// mockClusterTrigger ClusterTrigger のモック
type mockClusterTrigger struct {
	mock.Mock
}

func (m *mockClusterTrigger) Signal(ctx context.Context, importID string) error {
	args := m.Called(ctx, importID)
	return args.Error(0)
}

type testEnv struct {
	store        *docstore.Store
	imports      *repoImpl.MemoryImportsRepository
	spots        *repoImpl.MemorySpotsRepository
	edits        *repoImpl.MemoryEditsRepository
	contributors *repoImpl.MemoryContributorsRepository
	leaderboards *repoImpl.MemoryLeaderboardsRepository
	blobs        *mockBlobStore

	coordinator *ImportCoordinator
	processor   *ChunkProcessor
	ledger      *ContributionLedger
	reconciler  *EditReconciler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := docstore.New(
		docstore.WithMaxAttempts(1000),
		docstore.WithBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} }),
	)
	env := &testEnv{
		store:        store,
		imports:      repoImpl.NewMemoryImportsRepository(store),
		spots:        repoImpl.NewMemorySpotsRepository(store),
		edits:        repoImpl.NewMemoryEditsRepository(store),
		contributors: repoImpl.NewMemoryContributorsRepository(store),
		leaderboards: repoImpl.NewMemoryLeaderboardsRepository(store),
		blobs:        &mockBlobStore{},
	}
	logger := zap.NewNop()
	env.coordinator = NewImportCoordinator(env.imports, repoImpl.NewMemoryClusterTrigger(store), logger)
	env.processor = NewChunkProcessor(env.imports, env.spots, env.coordinator, time.Minute, logger)
	env.ledger = NewContributionLedger(env.contributors, env.leaderboards, logger)
	env.reconciler = NewEditReconciler(env.spots, env.edits, env.blobs, env.ledger, logger)
	return env
}

func (e *testEnv) createJob(t *testing.T, job model.ImportJob) {
	t.Helper()
	if job.Status == "" {
		job.Status = model.ImportStatusPending
	}
	require.NoError(t, e.imports.CreateJob(context.Background(), &job))
}

func (e *testEnv) createChunk(t *testing.T, importID, chunkID string, records ...model.RawRecord) {
	t.Helper()
	require.NoError(t, e.imports.CreateChunk(context.Background(), importID, &model.ImportChunk{
		ID:        chunkID,
		Status:    model.ChunkStatusPending,
		Spots:     records,
		SpotCount: len(records),
	}))
}

func (e *testEnv) job(t *testing.T, importID string) *model.ImportJob {
	t.Helper()
	job, err := e.imports.GetJob(context.Background(), importID)
	require.NoError(t, err)
	return job
}

func (e *testEnv) chunk(t *testing.T, importID, chunkID string) *model.ImportChunk {
	t.Helper()
	chunk, err := e.imports.GetChunk(context.Background(), importID, chunkID)
	require.NoError(t, err)
	return chunk
}

func (e *testEnv) spot(t *testing.T, spotID string) *model.Spot {
	t.Helper()
	spot, err := e.spots.GetByID(context.Background(), spotID)
	require.NoError(t, err)
	return spot
}

func (e *testEnv) createSpot(t *testing.T, spot *model.Spot) {
	t.Helper()
	require.NoError(t, e.spots.BulkCreate(context.Background(), []*model.Spot{spot}))
}

func (e *testEnv) createEdit(t *testing.T, spotID, editID string, raw map[string]interface{}) {
	t.Helper()
	require.NoError(t, e.edits.Create(context.Background(), spotID, editID, raw))
}

func (e *testEnv) leaderboard(t *testing.T, metric model.LeaderboardMetric) []model.LeaderboardEntry {
	t.Helper()
	board, err := e.leaderboards.Get(context.Background(), metric)
	require.NoError(t, err)
	return board.Entries
}

func record(id string, lat, lng float64) model.RawRecord {
	return model.RawRecord{
		"id":       id,
		"name":     "Spot " + id,
		"location": map[string]interface{}{"lat": lat, "lng": lng},
	}
}

func records(prefix string, n int) []model.RawRecord {
	out := make([]model.RawRecord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, record(fmt.Sprintf("%s-%d", prefix, i), 35+float64(i)*0.0001, 139))
	}
	return out
}
