package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"Spotmap-App/internal/domain/model"
	"Spotmap-App/internal/domain/service"
	"Spotmap-App/internal/infrastructure/docstore"
	repoImpl "Spotmap-App/internal/repository"
	"Spotmap-App/internal/usecase"
)

type mockLeaderboardUseCase struct {
	mock.Mock
}

func (m *mockLeaderboardUseCase) GetLeaderboard(ctx context.Context, metric string) (*model.Leaderboard, error) {
	args := m.Called(ctx, metric)
	r, _ := args.Get(0).(*model.Leaderboard)
	return r, args.Error(1)
}

func newLeaderboardRouter(ledger *service.ContributionLedger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(
		NewTriggerHandler(&mockTriggerUseCase{}, &mockRunnerUseCase{}, zap.NewNop()),
		NewLeaderboardHandler(usecase.NewLeaderboardUseCase(ledger), zap.NewNop()),
	)
}

func TestGetLeaderboard(t *testing.T) {
	store := docstore.New()
	ledger := service.NewContributionLedger(
		repoImpl.NewMemoryContributorsRepository(store),
		repoImpl.NewMemoryLeaderboardsRepository(store),
		zap.NewNop(),
	)
	ledger.Record(context.Background(), "alice", model.EditTypeCreate, 2)
	r := newLeaderboardRouter(ledger)

	w := doRequest(r, http.MethodGet, "/leaderboards/media_added")
	require.Equal(t, http.StatusOK, w.Code)

	var board model.Leaderboard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &board))
	require.Len(t, board.Entries, 1)
	assert.Equal(t, "alice", board.Entries[0].UserID)
	assert.Equal(t, 2, board.Entries[0].Count)
}

func TestGetLeaderboard_EmptyAndUnknown(t *testing.T) {
	store := docstore.New()
	ledger := service.NewContributionLedger(
		repoImpl.NewMemoryContributorsRepository(store),
		repoImpl.NewMemoryLeaderboardsRepository(store),
		zap.NewNop(),
	)
	r := newLeaderboardRouter(ledger)

	w := doRequest(r, http.MethodGet, "/leaderboards/spots_edited")
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []interface{}{}, body["entries"])

	w = doRequest(r, http.MethodGet, "/leaderboards/likes")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
