package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"Spotmap-App/internal/domain/helper"
	"Spotmap-App/internal/domain/model"
	"Spotmap-App/internal/domain/repository"
	"Spotmap-App/internal/metrics"
)

// ChunkProcessor インポートチャンク1件を正規化し、スポットを1回のバッチで書き込む
type ChunkProcessor struct {
	importsRepo repository.ImportsRepository
	spotsRepo   repository.SpotsRepository
	coordinator *ImportCoordinator
	jobCache    *cache.Cache
	logger      *zap.Logger
	now         func() time.Time
}

// NewChunkProcessor ChunkProcessorの新しいインスタンスを作成
// jobCacheTTL はジョブの帰属情報をキャッシュする期間
func NewChunkProcessor(
	importsRepo repository.ImportsRepository,
	spotsRepo repository.SpotsRepository,
	coordinator *ImportCoordinator,
	jobCacheTTL time.Duration,
	logger *zap.Logger,
) *ChunkProcessor {
	return &ChunkProcessor{
		importsRepo: importsRepo,
		spotsRepo:   spotsRepo,
		coordinator: coordinator,
		jobCache:    cache.New(jobCacheTTL, 2*jobCacheTTL),
		logger:      logger,
		now:         time.Now,
	}
}

// ProcessChunk チャンクを処理し、結果をジョブ進捗に反映する
// 失敗時はチャンクを FAILED にしてから呼び出し元にエラーを返す
func (p *ChunkProcessor) ProcessChunk(ctx context.Context, importID, chunkID string) (*model.ChunkResult, error) {
	if chunkID == model.RetryChunkID {
		return nil, fmt.Errorf("チャンクID %q: %w", chunkID, model.ErrReservedChunkID)
	}

	chunk, err := p.importsRepo.GetChunk(ctx, importID, chunkID)
	if err != nil {
		return nil, fmt.Errorf("チャンクの取得失敗: %w", err)
	}

	if chunk.Status != model.ChunkStatusPending && chunk.Status != model.ChunkStatusFailed {
		p.logger.Info("処理対象外のチャンクをスキップ",
			zap.String("import_id", importID),
			zap.String("chunk_id", chunkID),
			zap.String("status", string(chunk.Status)),
		)
		return &model.ChunkResult{ImportID: importID, ChunkID: chunkID, ImportedCount: chunk.ImportedCount, AlreadyHandled: true}, nil
	}

	start := time.Now()
	defer func() {
		metrics.ChunkDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	if err := p.importsRepo.UpdateChunk(ctx, importID, chunkID, []model.FieldChange{
		model.SetField(model.ChunkStatusProcessing, "status"),
		model.DeleteField("error_message"),
	}); err != nil {
		return nil, fmt.Errorf("チャンク状態の更新失敗: %w", err)
	}

	result, err := p.importChunk(ctx, importID, chunk)
	if err == nil {
		err = p.importsRepo.UpdateChunk(ctx, importID, chunkID, []model.FieldChange{
			model.SetField(model.ChunkStatusCompleted, "status"),
			model.SetField(result.ImportedCount, "imported_count"),
			model.SetField(p.now(), "processed_at"),
		})
	}
	if err != nil {
		return nil, p.fail(ctx, importID, chunkID, err)
	}

	metrics.ChunksProcessedTotal.WithLabelValues(string(model.ChunkStatusCompleted)).Inc()
	metrics.SpotsImportedTotal.Add(float64(result.ImportedCount))
	metrics.RecordsSkippedTotal.Add(float64(result.SkippedCount))

	job, err := p.coordinator.RecordChunkResult(ctx, importID, result.ImportedCount, nil)
	if err != nil {
		return nil, err
	}
	result.Job = job

	p.logger.Info("✅ チャンク処理完了",
		zap.String("import_id", importID),
		zap.String("chunk_id", chunkID),
		zap.Int("imported", result.ImportedCount),
		zap.Int("skipped", result.SkippedCount),
	)
	return result, nil
}

// fail チャンクを FAILED にしてジョブへ反映し、元のエラーを返す
func (p *ChunkProcessor) fail(ctx context.Context, importID, chunkID string, cause error) error {
	metrics.ChunksProcessedTotal.WithLabelValues(string(model.ChunkStatusFailed)).Inc()
	p.logger.Error("❌ チャンク処理失敗", zap.String("import_id", importID), zap.String("chunk_id", chunkID), zap.Error(cause))

	// 呼び出し元がキャンセルされても失敗状態は残す
	persistCtx := context.WithoutCancel(ctx)
	if err := p.importsRepo.UpdateChunk(persistCtx, importID, chunkID, []model.FieldChange{
		model.SetField(model.ChunkStatusFailed, "status"),
		model.SetField(cause.Error(), "error_message"),
		model.SetField(p.now(), "processed_at"),
	}); err != nil {
		p.logger.Error("チャンクの失敗状態を保存できません", zap.String("chunk_id", chunkID), zap.Error(err))
	}
	if _, err := p.coordinator.RecordChunkResult(persistCtx, importID, 0, cause); err != nil {
		p.logger.Error("ジョブへの失敗反映に失敗", zap.String("import_id", importID), zap.Error(err))
	}
	return fmt.Errorf("チャンク %s の処理失敗: %w", chunkID, cause)
}

// importChunk レコードを正規化して一括書き込みする
func (p *ChunkProcessor) importChunk(ctx context.Context, importID string, chunk *model.ImportChunk) (*model.ChunkResult, error) {
	job, err := p.lookupJob(ctx, importID)
	if err != nil {
		return nil, err
	}

	result := &model.ChunkResult{ImportID: importID, ChunkID: chunk.ID}
	spots := make([]*model.Spot, 0, len(chunk.Spots))
	for i, raw := range chunk.Spots {
		rec, ok := model.ParseRawRecord(i, raw)
		if !ok {
			result.SkippedCount++
			continue
		}
		spots = append(spots, p.buildSpot(job, chunk.ID, rec))
	}

	if len(spots) > 0 {
		if err := p.spotsRepo.BulkCreate(ctx, spots); err != nil {
			return nil, fmt.Errorf("スポットの一括書き込み失敗: %w", err)
		}
	}
	result.ImportedCount = len(spots)
	return result, nil
}

// lookupJob 帰属情報の参照用にジョブを取得する（TTL付きキャッシュ経由）
func (p *ChunkProcessor) lookupJob(ctx context.Context, importID string) (*model.ImportJob, error) {
	if cached, ok := p.jobCache.Get(importID); ok {
		return cached.(*model.ImportJob), nil
	}
	job, err := p.importsRepo.GetJob(ctx, importID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, fmt.Errorf("インポートジョブ %s が見つかりません: %w", importID, err)
		}
		return nil, fmt.Errorf("インポートジョブの取得失敗: %w", err)
	}
	p.jobCache.Set(importID, job, cache.DefaultExpiration)
	return job, nil
}

// buildSpot 検証済みレコードから正規スポットを組み立てる
func (p *ChunkProcessor) buildSpot(job *model.ImportJob, chunkID string, rec *model.ImportRecord) *model.Spot {
	tiles := helper.TileSet(rec.Lat, rec.Lng)
	spot := &model.Spot{
		ID:              spotIDFor(job.ID, chunkID, rec),
		Location:        &model.GeoPoint{Latitude: rec.Lat, Longitude: rec.Lng},
		Lat:             rec.Lat,
		Lng:             rec.Lng,
		TileCoordinates: &tiles,
		Category:        rec.Category,
		Tags:            rec.Tags,
		Website:         rec.Website,
		Source:          model.SpotSourceImport,
		ImportID:        job.ID,
		Attribution: &model.SpotAttribution{
			Text:    attributionText(job, rec),
			URL:     job.AttributionURL(),
			License: job.Attribution.License,
		},
		IsIconic:  false,
		CreatedBy: job.UserID,
		CreatedAt: p.now(),
	}
	if rec.Name != "" {
		spot.Name = model.LocalizedText{rec.Lang: rec.Name}
	}
	if len(rec.ExternalReferences) > 0 {
		spot.ExternalReferences = rec.ExternalReferences
	}
	if bounds := helper.FilterBounds(rec.Bounds); len(bounds) > 0 {
		spot.Bounds = bounds
	}

	// 権利が限定された出典では説明文とメディアを複製しない
	if job.Stripping() {
		return spot
	}
	if rec.Description != "" {
		spot.Description = model.LocalizedText{rec.Lang: rec.Description}
	}
	if media := helper.FilterImportMedia(rec.Media); len(media) > 0 {
		spot.Media = media
	}
	return spot
}

// attributionText 帰属テキストを優先順位 (明示 → 出典名 → "Import {id}") で決定
func attributionText(job *model.ImportJob, rec *model.ImportRecord) string {
	switch {
	case rec.AttributionText != "":
		return rec.AttributionText
	case rec.SourceName != "":
		return rec.SourceName
	case job.Attribution.SourceName != "":
		return job.Attribution.SourceName
	default:
		return fmt.Sprintf("Import %s", job.ID)
	}
}

// spotIDFor 再試行で同じドキュメントを書き直せるよう決定的なIDを生成する
func spotIDFor(importID, chunkID string, rec *model.ImportRecord) string {
	key := fmt.Sprintf("spotmap://imports/%s/chunks/%s/%d", importID, chunkID, rec.Index)
	if rec.ExternalID != "" {
		key = fmt.Sprintf("spotmap://imports/%s/records/%s", importID, rec.ExternalID)
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}
