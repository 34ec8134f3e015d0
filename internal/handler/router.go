package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"Spotmap-App/internal/metrics"
)

// NewRouter ルーティングを設定したginエンジンを返す
func NewRouter(triggerHandler *TriggerHandler, leaderboardHandler *LeaderboardHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "Spotmap-App"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	triggers := r.Group("/triggers")
	{
		triggers.POST("/imports/:importId/chunks/:chunkId", triggerHandler.PostChunkCreated)
		triggers.POST("/spots/:spotId/edits/:editId", triggerHandler.PostEditCreated)
	}
	r.POST("/imports/:importId/run", triggerHandler.PostRunImport)
	r.GET("/leaderboards/:metric", leaderboardHandler.GetLeaderboard)

	return r
}
