package usecase

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"Spotmap-App/internal/domain/model"
	"Spotmap-App/internal/domain/repository"
	"Spotmap-App/internal/domain/service"
)

// RunSummary 並列実行したチャンクの集計
type RunSummary struct {
	ImportID  string           `json:"import_id"`
	Attempted int              `json:"attempted"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Job       *model.ImportJob `json:"job,omitempty"`
}

type ImportRunnerUseCase interface {
	// RunPending PENDING のチャンクをワーカープールで並列に処理する
	RunPending(ctx context.Context, importID string) (*RunSummary, error)
}

type importRunnerImpl struct {
	importsRepo repository.ImportsRepository
	runner      service.ChunkRunner
	concurrency int
	logger      *zap.Logger
}

// NewImportRunnerUseCase は新しいImportRunnerUseCaseインスタンスを作成
func NewImportRunnerUseCase(importsRepo repository.ImportsRepository, runner service.ChunkRunner, concurrency int, logger *zap.Logger) ImportRunnerUseCase {
	if concurrency < 1 {
		concurrency = 1
	}
	return &importRunnerImpl{
		importsRepo: importsRepo,
		runner:      runner,
		concurrency: concurrency,
		logger:      logger,
	}
}

func (u *importRunnerImpl) RunPending(ctx context.Context, importID string) (*RunSummary, error) {
	chunks, err := u.importsRepo.ListChunksByStatus(ctx, importID, model.ChunkStatusPending)
	if err != nil {
		return nil, fmt.Errorf("PENDINGチャンクの取得に失敗: %w", err)
	}

	summary := &RunSummary{ImportID: importID}
	var mu sync.Mutex

	// チャンクの失敗で兄弟タスクを止めないため、タスクはエラーを返さない
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.concurrency)
	for _, chunk := range chunks {
		if chunk.ID == model.RetryChunkID {
			continue
		}
		chunkID := chunk.ID
		g.Go(func() error {
			_, err := u.runner.ProcessChunk(gctx, importID, chunkID)

			mu.Lock()
			defer mu.Unlock()
			summary.Attempted++
			if err != nil {
				summary.Failed++
				u.logger.Warn("❌ チャンク処理失敗",
					zap.String("import_id", importID),
					zap.String("chunk_id", chunkID),
					zap.Error(err),
				)
				return nil
			}
			summary.Succeeded++
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	job, err := u.importsRepo.GetJob(ctx, importID)
	if err != nil {
		return nil, fmt.Errorf("インポートジョブの取得に失敗: %w", err)
	}
	summary.Job = job

	u.logger.Info("✅ インポート並列実行完了",
		zap.String("import_id", importID),
		zap.Int("attempted", summary.Attempted),
		zap.Int("failed", summary.Failed),
		zap.String("status", string(job.Status)),
	)
	return summary, nil
}
