package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"Spotmap-App/internal/domain/model"
	"Spotmap-App/internal/domain/repository"
	"Spotmap-App/internal/metrics"
)

// ChunkRunner 1チャンクを処理できるもの（再試行経路で使用）
type ChunkRunner interface {
	ProcessChunk(ctx context.Context, importID, chunkID string) (*model.ChunkResult, error)
}

// ImportCoordinator インポートジョブ全体の進捗集計・完了判定・再試行を担当する
type ImportCoordinator struct {
	importsRepo    repository.ImportsRepository
	clusterTrigger repository.ClusterTrigger
	logger         *zap.Logger
	now            func() time.Time
}

// NewImportCoordinator ImportCoordinatorの新しいインスタンスを作成
func NewImportCoordinator(importsRepo repository.ImportsRepository, clusterTrigger repository.ClusterTrigger, logger *zap.Logger) *ImportCoordinator {
	return &ImportCoordinator{
		importsRepo:    importsRepo,
		clusterTrigger: clusterTrigger,
		logger:         logger,
		now:            time.Now,
	}
}

// RecordChunkResult チャンク完了（成功・失敗とも）をジョブの進捗にトランザクションで反映する
// chunkErr が nil でなければジョブは PARTIAL になり、エラーメッセージがコピーされる
func (c *ImportCoordinator) RecordChunkResult(ctx context.Context, importID string, imported int, chunkErr error) (*model.ImportJob, error) {
	var firstCompletion bool

	job, err := c.importsRepo.UpdateJobInTransaction(ctx, importID, func(job *model.ImportJob) ([]model.FieldChange, error) {
		// 競合による再実行ごとに判定し直す
		firstCompletion = false
		now := c.now()

		processed := job.ProcessedChunks + 1
		if job.ChunkCountTotal > 0 && processed > job.ChunkCountTotal {
			processed = job.ChunkCountTotal
		}
		job.ProcessedChunks = processed
		job.SpotCountImported += imported

		changes := []model.FieldChange{
			model.SetField(job.ProcessedChunks, "processed_chunks"),
			model.SetField(job.SpotCountImported, "spot_count_imported"),
		}
		if job.StartedAt.IsZero() {
			job.StartedAt = now
			changes = append(changes, model.SetField(now, "started_at"))
		}

		if chunkErr != nil {
			job.Status = model.ImportStatusPartial
			job.ErrorMessage = chunkErr.Error()
			return append(changes,
				model.SetField(job.Status, "status"),
				model.SetField(job.ErrorMessage, "error_message"),
			), nil
		}

		switch job.Status {
		case model.ImportStatusPartial, model.ImportStatusCompleted:
			// PARTIAL から COMPLETED へは戻さない。COMPLETED は再通知しない
		default:
			if job.Completed() {
				job.Status = model.ImportStatusCompleted
				job.CompletedAt = now
				firstCompletion = true
				changes = append(changes, model.SetField(now, "completed_at"))
			} else {
				job.Status = model.ImportStatusProcessing
			}
			changes = append(changes, model.SetField(job.Status, "status"))
		}
		return changes, nil
	})
	if err != nil {
		return nil, fmt.Errorf("インポート %s の進捗更新失敗: %w", importID, err)
	}

	c.logger.Info("インポート進捗を更新",
		zap.String("import_id", importID),
		zap.Int("processed_chunks", job.ProcessedChunks),
		zap.Int("chunk_count_total", job.ChunkCountTotal),
		zap.Int("spot_count_imported", job.SpotCountImported),
		zap.String("status", string(job.Status)),
	)

	if firstCompletion {
		metrics.ImportsCompletedTotal.Inc()
		c.triggerClusterRebuild(ctx, importID)
	}
	return job, nil
}

// triggerClusterRebuild クラスタ再構築のシグナルを送る。失敗してもジョブには影響させない
func (c *ImportCoordinator) triggerClusterRebuild(ctx context.Context, importID string) {
	if err := c.clusterTrigger.Signal(ctx, importID); err != nil {
		c.logger.Warn("クラスタ再構築トリガーの作成に失敗", zap.String("import_id", importID), zap.Error(err))
		return
	}
	c.logger.Info("✅ インポート完了、クラスタ再構築をトリガー", zap.String("import_id", importID))
}

// RetryFailedChunks FAILED のチャンクを順に再処理する
// 再試行トリガードキュメントは結果に関わらず必ず削除する
func (c *ImportCoordinator) RetryFailedChunks(ctx context.Context, importID string, runner ChunkRunner) (result *model.RetryResult, err error) {
	defer func() {
		if delErr := c.importsRepo.DeleteChunk(context.WithoutCancel(ctx), importID, model.RetryChunkID); delErr != nil && !errors.Is(delErr, model.ErrNotFound) {
			c.logger.Error("再試行トリガーの削除に失敗", zap.String("import_id", importID), zap.Error(delErr))
		}
	}()

	chunks, err := c.importsRepo.ListChunksByStatus(ctx, importID, model.ChunkStatusFailed)
	if err != nil {
		return nil, fmt.Errorf("失敗チャンクの取得失敗: %w", err)
	}

	result = &model.RetryResult{ImportID: importID}
	for _, chunk := range chunks {
		if chunk.ID == model.RetryChunkID {
			continue
		}
		result.Attempted++
		if _, err := runner.ProcessChunk(ctx, importID, chunk.ID); err != nil {
			result.Failed++
			c.logger.Warn("チャンクの再試行に失敗", zap.String("import_id", importID), zap.String("chunk_id", chunk.ID), zap.Error(err))
			continue
		}
		result.Succeeded++
	}

	c.logger.Info("失敗チャンクの再試行完了",
		zap.String("import_id", importID),
		zap.Int("attempted", result.Attempted),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}
