package repository

import (
	"context"

	"Spotmap-App/internal/domain/model"
)

type EditsRepository interface {
	GetByID(ctx context.Context, spotID, editID string) (*model.Edit, error)
	MarkApproved(ctx context.Context, spotID, editID string) error
}
