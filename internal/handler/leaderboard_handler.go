package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"Spotmap-App/internal/usecase"
)

// LeaderboardHandler はランキング参照のハンドラー
type LeaderboardHandler struct {
	leaderboardUseCase usecase.LeaderboardUseCase
	logger             *zap.Logger
}

// NewLeaderboardHandler は新しいLeaderboardHandlerインスタンスを作成
func NewLeaderboardHandler(leaderboardUseCase usecase.LeaderboardUseCase, logger *zap.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardUseCase: leaderboardUseCase,
		logger:             logger,
	}
}

// GetLeaderboard GET /leaderboards/:metric
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	metric := c.Param("metric")

	board, err := h.leaderboardUseCase.GetLeaderboard(c.Request.Context(), metric)
	if err != nil {
		h.logger.Warn("ランキング取得エラー", zap.String("metric", metric), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}
