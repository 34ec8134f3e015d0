package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"Spotmap-App/internal/domain/model"
	"Spotmap-App/internal/domain/service"
)

// ChunkTriggerResult チャンク作成イベントの処理結果。再試行経路では Retry のみが設定される
type ChunkTriggerResult struct {
	Chunk *model.ChunkResult `json:"chunk,omitempty"`
	Retry *model.RetryResult `json:"retry,omitempty"`
}

type TriggerUseCase interface {
	// OnChunkCreated imports/{importId}/chunks/{chunkId} の作成イベント
	OnChunkCreated(ctx context.Context, importID, chunkID string) (*ChunkTriggerResult, error)

	// OnEditCreated spots/{spotId}/edits/{editId} の作成イベント
	OnEditCreated(ctx context.Context, spotID, editID string) (*model.ReconcileResult, error)
}

// triggerUseCaseImpl はTriggerUseCaseの実装
type triggerUseCaseImpl struct {
	processor   *service.ChunkProcessor
	coordinator *service.ImportCoordinator
	reconciler  *service.EditReconciler
	logger      *zap.Logger
}

// NewTriggerUseCase は新しいTriggerUseCaseインスタンスを作成
func NewTriggerUseCase(
	processor *service.ChunkProcessor,
	coordinator *service.ImportCoordinator,
	reconciler *service.EditReconciler,
	logger *zap.Logger,
) TriggerUseCase {
	return &triggerUseCaseImpl{
		processor:   processor,
		coordinator: coordinator,
		reconciler:  reconciler,
		logger:      logger,
	}
}

func (u *triggerUseCaseImpl) OnChunkCreated(ctx context.Context, importID, chunkID string) (*ChunkTriggerResult, error) {
	if chunkID == model.RetryChunkID {
		u.logger.Info("🔁 失敗チャンクの再試行を開始", zap.String("import_id", importID))
		retry, err := u.coordinator.RetryFailedChunks(ctx, importID, u.processor)
		if err != nil {
			return nil, fmt.Errorf("再試行に失敗: %w", err)
		}
		return &ChunkTriggerResult{Retry: retry}, nil
	}

	result, err := u.processor.ProcessChunk(ctx, importID, chunkID)
	if err != nil {
		return nil, err
	}
	return &ChunkTriggerResult{Chunk: result}, nil
}

func (u *triggerUseCaseImpl) OnEditCreated(ctx context.Context, spotID, editID string) (*model.ReconcileResult, error) {
	return u.reconciler.ApplyEdit(ctx, spotID, editID)
}
