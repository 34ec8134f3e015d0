package repository

import (
	"context"
	"fmt"

	"Spotmap-App/internal/domain/model"
	"Spotmap-App/internal/domain/repository"
	"Spotmap-App/internal/infrastructure/docstore"
)

// MemoryImportsRepository メモリストアを使用したインポートリポジトリ
type MemoryImportsRepository struct {
	store *docstore.Store
}

// NewMemoryImportsRepository 新しいMemoryImportsRepositoryインスタンスを作成
func NewMemoryImportsRepository(store *docstore.Store) *MemoryImportsRepository {
	return &MemoryImportsRepository{store: store}
}

var _ repository.ImportsRepository = (*MemoryImportsRepository)(nil)

// CreateJob ジョブを登録する（ローカル実行・テスト用のローダー）
func (r *MemoryImportsRepository) CreateJob(ctx context.Context, job *model.ImportJob) error {
	return mapDocstoreError(r.store.Set(ctx, importPath(job.ID), job))
}

// CreateChunk チャンクを登録する（ローカル実行・テスト用のローダー）
func (r *MemoryImportsRepository) CreateChunk(ctx context.Context, importID string, chunk *model.ImportChunk) error {
	return mapDocstoreError(r.store.Set(ctx, chunkPath(importID, chunk.ID), chunk))
}

func (r *MemoryImportsRepository) GetJob(ctx context.Context, importID string) (*model.ImportJob, error) {
	doc, err := r.store.Get(ctx, importPath(importID))
	if err != nil {
		return nil, mapDocstoreError(err)
	}
	return decodeJob(importID, doc.Data)
}

func (r *MemoryImportsRepository) UpdateJobInTransaction(ctx context.Context, importID string, mutate repository.JobMutation) (*model.ImportJob, error) {
	var result *model.ImportJob
	err := r.store.RunTransaction(ctx, func(ctx context.Context, tx *docstore.Transaction) error {
		doc, err := tx.Get(importPath(importID))
		if err != nil {
			return err
		}
		job, err := decodeJob(importID, doc.Data)
		if err != nil {
			return err
		}
		changes, err := mutate(job)
		if err != nil {
			return err
		}
		tx.Update(importPath(importID), toDocstoreUpdates(changes))
		result = job
		return nil
	})
	if err != nil {
		return nil, mapDocstoreError(err)
	}
	return result, nil
}

func (r *MemoryImportsRepository) GetChunk(ctx context.Context, importID, chunkID string) (*model.ImportChunk, error) {
	doc, err := r.store.Get(ctx, chunkPath(importID, chunkID))
	if err != nil {
		return nil, mapDocstoreError(err)
	}
	return decodeChunk(importID, chunkID, doc.Data)
}

func (r *MemoryImportsRepository) UpdateChunk(ctx context.Context, importID, chunkID string, changes []model.FieldChange) error {
	return mapDocstoreError(r.store.Update(ctx, chunkPath(importID, chunkID), toDocstoreUpdates(changes)))
}

func (r *MemoryImportsRepository) ListChunksByStatus(ctx context.Context, importID string, status model.ChunkStatus) ([]*model.ImportChunk, error) {
	docs, err := r.store.Query(ctx, chunksPath(importID), "status", string(status))
	if err != nil {
		return nil, mapDocstoreError(err)
	}
	chunks := make([]*model.ImportChunk, 0, len(docs))
	for _, doc := range docs {
		chunk, err := decodeChunk(importID, doc.ID, doc.Data)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

func (r *MemoryImportsRepository) DeleteChunk(ctx context.Context, importID, chunkID string) error {
	return mapDocstoreError(r.store.Delete(ctx, chunkPath(importID, chunkID)))
}

func decodeJob(importID string, data map[string]interface{}) (*model.ImportJob, error) {
	var job model.ImportJob
	if err := docstore.Decode(data, &job); err != nil {
		return nil, fmt.Errorf("インポートジョブ %s の変換失敗: %w", importID, err)
	}
	job.ID = importID
	return &job, nil
}

func decodeChunk(importID, chunkID string, data map[string]interface{}) (*model.ImportChunk, error) {
	var chunk model.ImportChunk
	if err := docstore.Decode(data, &chunk); err != nil {
		return nil, fmt.Errorf("チャンク %s の変換失敗: %w", chunkID, err)
	}
	chunk.ID = chunkID
	chunk.ImportID = importID
	return &chunk, nil
}
