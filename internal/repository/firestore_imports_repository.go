package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"Spotmap-App/internal/domain/model"
	"Spotmap-App/internal/domain/repository"
)

// FirestoreImportsRepository Firestoreを使用したインポートジョブ・チャンクリポジトリ
type FirestoreImportsRepository struct {
	client      *firestore.Client
	maxAttempts int
}

// NewFirestoreImportsRepository 新しいFirestoreImportsRepositoryインスタンスを作成
func NewFirestoreImportsRepository(client *firestore.Client, maxAttempts int) *FirestoreImportsRepository {
	return &FirestoreImportsRepository{client: client, maxAttempts: maxAttempts}
}

var _ repository.ImportsRepository = (*FirestoreImportsRepository)(nil)

func (r *FirestoreImportsRepository) jobRef(importID string) *firestore.DocumentRef {
	return r.client.Collection(model.CollectionImports).Doc(importID)
}

func (r *FirestoreImportsRepository) chunkRef(importID, chunkID string) *firestore.DocumentRef {
	return r.jobRef(importID).Collection(model.CollectionChunks).Doc(chunkID)
}

// GetJob インポートジョブを取得
func (r *FirestoreImportsRepository) GetJob(ctx context.Context, importID string) (*model.ImportJob, error) {
	doc, err := r.jobRef(importID).Get(ctx)
	if err != nil {
		return nil, mapFirestoreError(err, importPath(importID))
	}
	var job model.ImportJob
	if err := doc.DataTo(&job); err != nil {
		return nil, fmt.Errorf("インポートジョブの変換に失敗しました: %w", err)
	}
	job.ID = importID
	return &job, nil
}

// UpdateJobInTransaction ジョブを再読込して変更を適用する。競合時は Firestore が再実行する
func (r *FirestoreImportsRepository) UpdateJobInTransaction(ctx context.Context, importID string, mutate repository.JobMutation) (*model.ImportJob, error) {
	ref := r.jobRef(importID)
	var result *model.ImportJob
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			return err
		}
		var job model.ImportJob
		if err := doc.DataTo(&job); err != nil {
			return fmt.Errorf("インポートジョブの変換に失敗しました: %w", err)
		}
		job.ID = importID

		changes, err := mutate(&job)
		if err != nil {
			return err
		}
		result = &job
		return tx.Update(ref, toFirestoreUpdates(changes))
	}, firestore.MaxAttempts(r.maxAttempts))
	if err != nil {
		return nil, mapFirestoreError(err, importPath(importID))
	}
	return result, nil
}

// GetChunk チャンクを取得
func (r *FirestoreImportsRepository) GetChunk(ctx context.Context, importID, chunkID string) (*model.ImportChunk, error) {
	doc, err := r.chunkRef(importID, chunkID).Get(ctx)
	if err != nil {
		return nil, mapFirestoreError(err, chunkPath(importID, chunkID))
	}
	return decodeFirestoreChunk(importID, doc)
}

// UpdateChunk チャンクのフィールドを更新
func (r *FirestoreImportsRepository) UpdateChunk(ctx context.Context, importID, chunkID string, changes []model.FieldChange) error {
	_, err := r.chunkRef(importID, chunkID).Update(ctx, toFirestoreUpdates(changes))
	return mapFirestoreError(err, chunkPath(importID, chunkID))
}

// ListChunksByStatus 指定状態のチャンク一覧を取得
func (r *FirestoreImportsRepository) ListChunksByStatus(ctx context.Context, importID string, status model.ChunkStatus) ([]*model.ImportChunk, error) {
	docs, err := r.jobRef(importID).Collection(model.CollectionChunks).
		Where("status", "==", string(status)).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("チャンク一覧の取得に失敗しました: %w", err)
	}
	chunks := make([]*model.ImportChunk, 0, len(docs))
	for _, doc := range docs {
		chunk, err := decodeFirestoreChunk(importID, doc)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

// DeleteChunk チャンク（再試行トリガー）を削除
func (r *FirestoreImportsRepository) DeleteChunk(ctx context.Context, importID, chunkID string) error {
	_, err := r.chunkRef(importID, chunkID).Delete(ctx)
	return mapFirestoreError(err, chunkPath(importID, chunkID))
}

func decodeFirestoreChunk(importID string, doc *firestore.DocumentSnapshot) (*model.ImportChunk, error) {
	var chunk model.ImportChunk
	if err := doc.DataTo(&chunk); err != nil {
		return nil, fmt.Errorf("チャンク %s の変換に失敗しました: %w", doc.Ref.ID, err)
	}
	chunk.ID = doc.Ref.ID
	chunk.ImportID = importID
	return &chunk, nil
}
