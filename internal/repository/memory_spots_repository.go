package repository

import (
	"context"
	"fmt"

	"Spotmap-App/internal/domain/model"
	"Spotmap-App/internal/domain/repository"
	"Spotmap-App/internal/infrastructure/docstore"
)

// MemorySpotsRepository メモリストアを使用したスポットリポジトリ
type MemorySpotsRepository struct {
	store *docstore.Store
}

// NewMemorySpotsRepository 新しいMemorySpotsRepositoryインスタンスを作成
func NewMemorySpotsRepository(store *docstore.Store) *MemorySpotsRepository {
	return &MemorySpotsRepository{store: store}
}

var _ repository.SpotsRepository = (*MemorySpotsRepository)(nil)

func (r *MemorySpotsRepository) GetByID(ctx context.Context, spotID string) (*model.Spot, error) {
	doc, err := r.store.Get(ctx, spotPath(spotID))
	if err != nil {
		return nil, mapDocstoreError(err)
	}
	var spot model.Spot
	if err := docstore.Decode(doc.Data, &spot); err != nil {
		return nil, fmt.Errorf("スポット %s の変換失敗: %w", spotID, err)
	}
	spot.ID = spotID
	return &spot, nil
}

func (r *MemorySpotsRepository) BulkCreate(ctx context.Context, spots []*model.Spot) error {
	if len(spots) > repository.MaxBatchWrites {
		return fmt.Errorf("%d件: %w", len(spots), model.ErrBatchTooLarge)
	}
	batch := r.store.Batch()
	for _, s := range spots {
		batch.Set(spotPath(s.ID), s)
	}
	return mapDocstoreError(batch.Commit(ctx))
}

func (r *MemorySpotsRepository) Update(ctx context.Context, spotID string, changes []model.FieldChange) error {
	return mapDocstoreError(r.store.Update(ctx, spotPath(spotID), toDocstoreUpdates(changes)))
}

// CreatePlaceholder 投稿前の空のスポットドキュメントを作成する
func (r *MemorySpotsRepository) CreatePlaceholder(ctx context.Context, spotID string) error {
	return mapDocstoreError(r.store.Set(ctx, spotPath(spotID), map[string]interface{}{}))
}
