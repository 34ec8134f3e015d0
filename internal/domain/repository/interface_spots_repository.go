package repository

import (
	"context"

	"Spotmap-App/internal/domain/model"
)

// MaxBatchWrites 1回の一括書き込みに含められる最大ドキュメント数
const MaxBatchWrites = 500

type SpotsRepository interface {
	GetByID(ctx context.Context, spotID string) (*model.Spot, error)
	// BulkCreate 全スポットを1つのアトミックなバッチで書き込む
	BulkCreate(ctx context.Context, spots []*model.Spot) error
	// Update フィールド単位の更新を1回のドキュメント更新として適用する
	Update(ctx context.Context, spotID string, changes []model.FieldChange) error
}
