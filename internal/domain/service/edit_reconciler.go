package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"Spotmap-App/internal/domain/helper"
	"Spotmap-App/internal/domain/model"
	"Spotmap-App/internal/domain/repository"
	"Spotmap-App/internal/metrics"
)

// EditReconciler 投稿された編集をスポットにマージする
type EditReconciler struct {
	spotsRepo repository.SpotsRepository
	editsRepo repository.EditsRepository
	blobStore repository.BlobStore
	ledger    *ContributionLedger
	logger    *zap.Logger
	now       func() time.Time
}

// NewEditReconciler EditReconcilerの新しいインスタンスを作成
func NewEditReconciler(
	spotsRepo repository.SpotsRepository,
	editsRepo repository.EditsRepository,
	blobStore repository.BlobStore,
	ledger *ContributionLedger,
	logger *zap.Logger,
) *EditReconciler {
	return &EditReconciler{
		spotsRepo: spotsRepo,
		editsRepo: editsRepo,
		blobStore: blobStore,
		ledger:    ledger,
		logger:    logger,
		now:       time.Now,
	}
}

// ApplyEdit 編集1件をスポットに適用し、承認済みにして貢献を記録する
func (r *EditReconciler) ApplyEdit(ctx context.Context, spotID, editID string) (*model.ReconcileResult, error) {
	edit, err := r.editsRepo.GetByID(ctx, spotID, editID)
	if err != nil {
		metrics.EditsAppliedTotal.WithLabelValues("unknown", "error").Inc()
		return nil, fmt.Errorf("編集の取得失敗: %w", err)
	}
	if len(edit.DroppedFields) > 0 {
		r.logger.Warn("書き込み禁止フィールドを無視", zap.String("edit_id", editID), zap.Strings("fields", edit.DroppedFields))
	}

	result := &model.ReconcileResult{SpotID: spotID, EditID: editID, Type: edit.Type}
	if edit.Approved {
		r.logger.Info("適用済みの編集をスキップ", zap.String("spot_id", spotID), zap.String("edit_id", editID))
		return result, nil
	}

	spot, err := r.spotsRepo.GetByID(ctx, spotID)
	if err != nil {
		metrics.EditsAppliedTotal.WithLabelValues(string(edit.Type), "error").Inc()
		return nil, fmt.Errorf("スポットの取得失敗: %w", err)
	}

	switch edit.Type {
	case model.EditTypeCreate:
		err = r.reconcileCreate(edit, spot, result)
	default:
		err = r.reconcileUpdate(edit, spot, result)
	}
	if err != nil {
		metrics.EditsAppliedTotal.WithLabelValues(string(edit.Type), "rejected").Inc()
		return nil, fmt.Errorf("編集 %s の適用失敗: %w", editID, err)
	}

	if err := r.spotsRepo.Update(ctx, spotID, result.Changes); err != nil {
		metrics.EditsAppliedTotal.WithLabelValues(string(edit.Type), "error").Inc()
		return nil, fmt.Errorf("スポット %s の更新失敗: %w", spotID, err)
	}

	result.DeleteFailures = r.deleteOrphanedMedia(ctx, spotID, result.MediaRemoved)

	if err := r.editsRepo.MarkApproved(ctx, spotID, editID); err != nil {
		metrics.EditsAppliedTotal.WithLabelValues(string(edit.Type), "error").Inc()
		return nil, fmt.Errorf("編集の承認フラグ更新失敗: %w", err)
	}
	metrics.EditsAppliedTotal.WithLabelValues(string(edit.Type), "applied").Inc()

	r.ledger.Record(ctx, edit.UserID, edit.Type, result.MediaAdded)

	r.logger.Info("✅ 編集を適用",
		zap.String("spot_id", spotID),
		zap.String("edit_id", editID),
		zap.String("type", string(edit.Type)),
		zap.Int("changes", len(result.Changes)),
		zap.Int("media_added", result.MediaAdded),
		zap.Int("media_removed", len(result.MediaRemoved)),
	)
	return result, nil
}

// reconcileCreate CREATE 編集: ペイロードを写し、出典と位置を正規化する
func (r *EditReconciler) reconcileCreate(edit *model.Edit, spot *model.Spot, result *model.ReconcileResult) error {
	data := edit.Data
	if data.Location == nil {
		return fmt.Errorf("%w: CREATE には位置情報が必要です", model.ErrInvalidLocation)
	}
	now := r.now()

	changes := locationChanges(data.Location)
	changes = append(changes, fieldChanges(data.Fields)...)
	if bounds := helper.FilterGeoPoints(data.Bounds); len(bounds) > 0 {
		changes = append(changes, model.SetField(bounds, "bounds"))
	}
	if data.HasMedia {
		merged := AppendMedia(nil, data.Media)
		changes = append(changes, model.SetField(merged.Media, "media"))
		result.MediaAdded = merged.Added
	}
	if len(data.Amenities) > 0 {
		changes = append(changes, model.SetField(model.Amenities(presentValues(data.Amenities)), "amenities"))
	}
	if len(data.ExternalReferences) > 0 {
		changes = append(changes, model.SetField(presentValues(data.ExternalReferences), "external_references"))
	}

	changes = append(changes,
		model.SetField(model.SpotSourceUser, "source"),
		model.SetField(false, "is_iconic"),
		model.SetField(now, "updated_at"),
	)
	// 2回目以降の CREATE は最初の作成者・作成日時を保持する
	if !spot.Created() {
		changes = append(changes,
			model.SetField(edit.UserID, "created_by"),
			model.SetField(now, "created_at"),
		)
	} else {
		r.logger.Warn("作成済みスポットへの CREATE 編集", zap.String("spot_id", spot.ID), zap.String("edit_id", edit.ID))
	}

	result.Changes = changes
	return nil
}

// reconcileUpdate UPDATE 編集: 通常フィールドはキーごとに上書き、メディア・外部参照・設備はマージする
func (r *EditReconciler) reconcileUpdate(edit *model.Edit, spot *model.Spot, result *model.ReconcileResult) error {
	data := edit.Data

	var changes []model.FieldChange
	if data.Location != nil {
		changes = append(changes, locationChanges(data.Location)...)
	}
	changes = append(changes, fieldChanges(data.Fields)...)
	if bounds := helper.FilterGeoPoints(data.Bounds); len(bounds) > 0 {
		changes = append(changes, model.SetField(bounds, "bounds"))
	}

	if data.HasMedia {
		var merged MediaMergeResult
		if edit.ModificationType == model.MediaModificationOverwrite {
			merged = OverwriteMedia(spot.Media, data.Media)
		} else {
			merged = AppendMedia(spot.Media, data.Media)
		}
		changes = append(changes, model.SetField(merged.Media, "media"))
		result.MediaAdded = merged.Added
		result.MediaRemoved = merged.Removed
	}

	changes = append(changes, mergeChanges("external_references", data.ExternalReferences)...)
	changes = append(changes, mergeChanges("amenities", data.Amenities)...)

	changes = append(changes,
		model.SetField(r.now(), "updated_at"),
		model.SetField(edit.UserID, "updated_by"),
	)
	result.Changes = changes
	return nil
}

// deleteOrphanedMedia 上書きで外れたストレージ上のメディアを削除する（ベストエフォート）
func (r *EditReconciler) deleteOrphanedMedia(ctx context.Context, spotID string, removed []model.MediaItem) int {
	failures := 0
	for _, item := range removed {
		if !item.IsInStorage {
			continue
		}
		path := helper.StoragePath(item)
		if path == "" {
			r.logger.Warn("ストレージパスを導出できません", zap.String("spot_id", spotID), zap.String("url", item.URL))
			metrics.MediaDeletionsTotal.WithLabelValues("skipped").Inc()
			continue
		}
		if err := r.blobStore.Delete(ctx, path); err != nil {
			failures++
			metrics.MediaDeletionsTotal.WithLabelValues("failed").Inc()
			r.logger.Warn("メディアの削除に失敗（編集は継続）", zap.String("spot_id", spotID), zap.String("path", path), zap.Error(err))
			continue
		}
		metrics.MediaDeletionsTotal.WithLabelValues("deleted").Inc()
	}
	return failures
}

// locationChanges 位置・生座標ミラー・タイル座標を常にまとめて更新する
func locationChanges(loc model.Location) []model.FieldChange {
	p := loc.GeoPoint()
	tiles := helper.TileSet(p.Latitude, p.Longitude)
	return []model.FieldChange{
		model.SetField(p, "location"),
		model.SetField(p.Latitude, "lat"),
		model.SetField(p.Longitude, "lng"),
		model.SetField(tiles, "tile_coordinates"),
	}
}

// fieldChanges 型付きで扱わないフィールドをキーごとにそのまま写す
func fieldChanges(fields map[string]interface{}) []model.FieldChange {
	changes := make([]model.FieldChange, 0, len(fields))
	for _, key := range sortedKeys(fields) {
		changes = append(changes, model.SetField(fields[key], key))
	}
	return changes
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
