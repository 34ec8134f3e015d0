package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"Spotmap-App/internal/domain/model"
	"Spotmap-App/internal/domain/repository"
)

// FirestoreSpotsRepository Firestoreを使用したスポットリポジトリ
type FirestoreSpotsRepository struct {
	client *firestore.Client
}

// NewFirestoreSpotsRepository 新しいFirestoreSpotsRepositoryインスタンスを作成
func NewFirestoreSpotsRepository(client *firestore.Client) *FirestoreSpotsRepository {
	return &FirestoreSpotsRepository{client: client}
}

var _ repository.SpotsRepository = (*FirestoreSpotsRepository)(nil)

func (r *FirestoreSpotsRepository) GetByID(ctx context.Context, spotID string) (*model.Spot, error) {
	doc, err := r.client.Collection(model.CollectionSpots).Doc(spotID).Get(ctx)
	if err != nil {
		return nil, mapFirestoreError(err, spotPath(spotID))
	}
	var fs firestoreSpot
	if err := doc.DataTo(&fs); err != nil {
		return nil, fmt.Errorf("スポット %s の変換失敗: %w", spotID, err)
	}
	return fs.toModel(spotID), nil
}

// BulkCreate 1チャンク分のスポットを1つのバッチでコミットする
func (r *FirestoreSpotsRepository) BulkCreate(ctx context.Context, spots []*model.Spot) error {
	if len(spots) > repository.MaxBatchWrites {
		return fmt.Errorf("%d件: %w", len(spots), model.ErrBatchTooLarge)
	}
	if len(spots) == 0 {
		return nil
	}
	batch := r.client.Batch()
	for _, s := range spots {
		batch.Set(r.client.Collection(model.CollectionSpots).Doc(s.ID), toFirestoreSpot(s))
	}
	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("スポットの一括書き込みに失敗しました: %w", err)
	}
	return nil
}

func (r *FirestoreSpotsRepository) Update(ctx context.Context, spotID string, changes []model.FieldChange) error {
	_, err := r.client.Collection(model.CollectionSpots).Doc(spotID).Update(ctx, toFirestoreUpdates(changes))
	return mapFirestoreError(err, spotPath(spotID))
}
