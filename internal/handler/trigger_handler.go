package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"Spotmap-App/internal/domain/model"
	"Spotmap-App/internal/usecase"
)

// TriggerHandler はドキュメント作成イベントとインポート実行のハンドラー
type TriggerHandler struct {
	triggerUseCase usecase.TriggerUseCase
	runnerUseCase  usecase.ImportRunnerUseCase
	logger         *zap.Logger
}

// NewTriggerHandler は新しいTriggerHandlerインスタンスを作成
func NewTriggerHandler(triggerUseCase usecase.TriggerUseCase, runnerUseCase usecase.ImportRunnerUseCase, logger *zap.Logger) *TriggerHandler {
	return &TriggerHandler{
		triggerUseCase: triggerUseCase,
		runnerUseCase:  runnerUseCase,
		logger:         logger,
	}
}

// PostChunkCreated チャンク作成イベント
// POST /triggers/imports/:importId/chunks/:chunkId
func (h *TriggerHandler) PostChunkCreated(c *gin.Context) {
	importID := c.Param("importId")
	chunkID := c.Param("chunkId")

	result, err := h.triggerUseCase.OnChunkCreated(c.Request.Context(), importID, chunkID)
	if err != nil {
		h.logger.Error("❌ チャンク処理エラー", zap.String("import_id", importID), zap.String("chunk_id", chunkID), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PostEditCreated 編集作成イベント
// POST /triggers/spots/:spotId/edits/:editId
func (h *TriggerHandler) PostEditCreated(c *gin.Context) {
	spotID := c.Param("spotId")
	editID := c.Param("editId")

	result, err := h.triggerUseCase.OnEditCreated(c.Request.Context(), spotID, editID)
	if err != nil {
		h.logger.Error("❌ 編集反映エラー", zap.String("spot_id", spotID), zap.String("edit_id", editID), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PostRunImport PENDING チャンクを並列に処理する
// POST /imports/:importId/run
func (h *TriggerHandler) PostRunImport(c *gin.Context) {
	importID := c.Param("importId")

	summary, err := h.runnerUseCase.RunPending(c.Request.Context(), importID)
	if err != nil {
		h.logger.Error("❌ インポート実行エラー", zap.String("import_id", importID), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// respondError ドメインエラーをHTTPステータスに変換する
func respondError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, model.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, model.ErrReservedChunkID):
		status, code = http.StatusBadRequest, "reserved_chunk_id"
	case errors.Is(err, model.ErrInvalidLocation):
		status, code = http.StatusUnprocessableEntity, "invalid_location"
	case errors.Is(err, model.ErrInvalidEdit):
		status, code = http.StatusUnprocessableEntity, "invalid_edit"
	case errors.Is(err, model.ErrBatchTooLarge):
		status, code = http.StatusUnprocessableEntity, "batch_too_large"
	}
	c.JSON(status, gin.H{
		"error":   code,
		"message": err.Error(),
	})
}
