package repository

import (
	"context"
	"time"

	"Spotmap-App/internal/domain/model"
	"Spotmap-App/internal/domain/repository"
	"Spotmap-App/internal/infrastructure/docstore"
)

// MemoryEditsRepository メモリストアを使用した編集リポジトリ
type MemoryEditsRepository struct {
	store *docstore.Store
}

// NewMemoryEditsRepository 新しいMemoryEditsRepositoryインスタンスを作成
func NewMemoryEditsRepository(store *docstore.Store) *MemoryEditsRepository {
	return &MemoryEditsRepository{store: store}
}

var _ repository.EditsRepository = (*MemoryEditsRepository)(nil)

// Create 生の編集ドキュメントを登録する
func (r *MemoryEditsRepository) Create(ctx context.Context, spotID, editID string, raw map[string]interface{}) error {
	return mapDocstoreError(r.store.Set(ctx, editPath(spotID, editID), raw))
}

func (r *MemoryEditsRepository) GetByID(ctx context.Context, spotID, editID string) (*model.Edit, error) {
	doc, err := r.store.Get(ctx, editPath(spotID, editID))
	if err != nil {
		return nil, mapDocstoreError(err)
	}
	return model.DecodeEdit(spotID, editID, doc.Data)
}

func (r *MemoryEditsRepository) MarkApproved(ctx context.Context, spotID, editID string) error {
	return mapDocstoreError(r.store.Update(ctx, editPath(spotID, editID), []docstore.Update{
		{Path: []string{"approved"}, Value: true},
		{Path: []string{"applied_at"}, Value: time.Now().UTC()},
	}))
}
