package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"Spotmap-App/internal/domain/model"
	"Spotmap-App/internal/domain/repository"
)

// FirestoreEditsRepository Firestoreを使用した編集リポジトリ
type FirestoreEditsRepository struct {
	client *firestore.Client
	now    func() time.Time
}

// NewFirestoreEditsRepository 新しいFirestoreEditsRepositoryインスタンスを作成
func NewFirestoreEditsRepository(client *firestore.Client) *FirestoreEditsRepository {
	return &FirestoreEditsRepository{client: client, now: time.Now}
}

var _ repository.EditsRepository = (*FirestoreEditsRepository)(nil)

func (r *FirestoreEditsRepository) ref(spotID, editID string) *firestore.DocumentRef {
	return r.client.Collection(model.CollectionSpots).Doc(spotID).Collection(model.CollectionEdits).Doc(editID)
}

// GetByID 編集ドキュメントを取得し、型付きの編集に変換する
func (r *FirestoreEditsRepository) GetByID(ctx context.Context, spotID, editID string) (*model.Edit, error) {
	doc, err := r.ref(spotID, editID).Get(ctx)
	if err != nil {
		return nil, mapFirestoreError(err, editPath(spotID, editID))
	}
	raw, _ := fromFirestoreValue(doc.Data()).(map[string]interface{})
	return model.DecodeEdit(spotID, editID, raw)
}

// MarkApproved 編集を承認済みにする
func (r *FirestoreEditsRepository) MarkApproved(ctx context.Context, spotID, editID string) error {
	_, err := r.ref(spotID, editID).Update(ctx, []firestore.Update{
		{Path: "approved", Value: true},
		{Path: "applied_at", Value: r.now().UTC()},
	})
	return mapFirestoreError(err, editPath(spotID, editID))
}
