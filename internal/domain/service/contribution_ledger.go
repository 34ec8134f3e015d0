package service

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"Spotmap-App/internal/domain/model"
	"Spotmap-App/internal/domain/repository"
	"Spotmap-App/internal/metrics"
)

// ContributionLedger 投稿者カウンターとランキングを更新する
// ここでの失敗はログに残すだけで、元の編集を失敗させない
type ContributionLedger struct {
	contributorsRepo repository.ContributorsRepository
	leaderboardsRepo repository.LeaderboardsRepository
	logger           *zap.Logger
}

// NewContributionLedger ContributionLedgerの新しいインスタンスを作成
func NewContributionLedger(contributorsRepo repository.ContributorsRepository, leaderboardsRepo repository.LeaderboardsRepository, logger *zap.Logger) *ContributionLedger {
	return &ContributionLedger{
		contributorsRepo: contributorsRepo,
		leaderboardsRepo: leaderboardsRepo,
		logger:           logger,
	}
}

// Record 編集1件分の貢献を記録する
func (l *ContributionLedger) Record(ctx context.Context, userID string, editType model.EditType, mediaAdded int) {
	if userID == "" {
		l.logger.Warn("投稿者IDのない編集のため貢献を記録しません")
		return
	}

	delta := model.ContributionDelta{Edits: 1, MediaAdded: mediaAdded}
	if editType == model.EditTypeCreate {
		delta.SpotsCreated = 1
	}

	contributor, err := l.contributorsRepo.IncrementStats(ctx, userID, delta)
	if err != nil {
		metrics.LeaderboardFailuresTotal.WithLabelValues("stats").Inc()
		l.logger.Error("投稿者カウンターの更新失敗", zap.String("user_id", userID), zap.Error(err))
		return
	}

	for _, metric := range leaderboardsFor(editType, mediaAdded) {
		entry := model.LeaderboardEntry{
			UserID:      userID,
			DisplayName: contributor.DisplayName,
			PhotoURL:    contributor.PhotoURL,
			Count:       contributor.Stats.Count(metric),
		}
		err := l.leaderboardsRepo.UpdateInTransaction(ctx, metric, func(entries []model.LeaderboardEntry) []model.LeaderboardEntry {
			return UpsertLeaderboardEntry(entries, entry)
		})
		if err != nil {
			metrics.LeaderboardFailuresTotal.WithLabelValues(string(metric)).Inc()
			l.logger.Error("ランキングの更新失敗", zap.String("metric", string(metric)), zap.String("user_id", userID), zap.Error(err))
		}
	}
}

// Leaderboard 指標のランキングを取得する。未作成なら空のランキングを返す
func (l *ContributionLedger) Leaderboard(ctx context.Context, metric model.LeaderboardMetric) (*model.Leaderboard, error) {
	if !metric.Valid() {
		return nil, fmt.Errorf("ランキング %q: %w", metric, model.ErrNotFound)
	}
	board, err := l.leaderboardsRepo.Get(ctx, metric)
	if err != nil {
		return nil, fmt.Errorf("ランキングの取得失敗: %w", err)
	}
	if board.Entries == nil {
		board.Entries = []model.LeaderboardEntry{}
	}
	return board, nil
}

// leaderboardsFor 編集内容に応じて更新するランキング
func leaderboardsFor(editType model.EditType, mediaAdded int) []model.LeaderboardMetric {
	boards := make([]model.LeaderboardMetric, 0, 3)
	if editType == model.EditTypeCreate {
		boards = append(boards, model.LeaderboardSpotsCreated)
	}
	boards = append(boards, model.LeaderboardSpotsEdited)
	if mediaAdded > 0 {
		boards = append(boards, model.LeaderboardMediaAdded)
	}
	return boards
}

// UpsertLeaderboardEntry 同一投稿者のエントリを置き換え（無ければ追加）、件数の降順に並べて上位だけ残す
// 同数の場合は既存の並び順を保つ
func UpsertLeaderboardEntry(entries []model.LeaderboardEntry, entry model.LeaderboardEntry) []model.LeaderboardEntry {
	out := make([]model.LeaderboardEntry, 0, len(entries)+1)
	replaced := false
	for _, e := range entries {
		if e.UserID == entry.UserID {
			if !replaced {
				out = append(out, entry)
				replaced = true
			}
			continue
		}
		out = append(out, e)
	}
	if !replaced {
		out = append(out, entry)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if len(out) > model.LeaderboardSize {
		out = out[:model.LeaderboardSize]
	}
	return out
}
