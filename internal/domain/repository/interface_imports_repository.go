package repository

import (
	"context"

	"Spotmap-App/internal/domain/model"
)

// JobMutation トランザクション内で最新のジョブを受け取り、適用する変更を返す
type JobMutation func(job *model.ImportJob) ([]model.FieldChange, error)

// ImportsRepository インポートジョブとチャンクの永続化
type ImportsRepository interface {
	GetJob(ctx context.Context, importID string) (*model.ImportJob, error)
	// UpdateJobInTransaction ジョブを再読込してから変更を適用する。競合時はストアが自動で再試行する
	UpdateJobInTransaction(ctx context.Context, importID string, mutate JobMutation) (*model.ImportJob, error)

	GetChunk(ctx context.Context, importID, chunkID string) (*model.ImportChunk, error)
	UpdateChunk(ctx context.Context, importID, chunkID string, changes []model.FieldChange) error
	ListChunksByStatus(ctx context.Context, importID string, status model.ChunkStatus) ([]*model.ImportChunk, error)
	DeleteChunk(ctx context.Context, importID, chunkID string) error
}
