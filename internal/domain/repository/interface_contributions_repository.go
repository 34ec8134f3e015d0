package repository

import (
	"context"

	"Spotmap-App/internal/domain/model"
)

// LeaderboardMutation 最新のエントリを受け取り、書き戻すエントリを返す
type LeaderboardMutation func(entries []model.LeaderboardEntry) []model.LeaderboardEntry

// ContributorsRepository 投稿者カウンター (users/{uid})
type ContributorsRepository interface {
	// IncrementStats トランザクション内でカウンターを加算し、更新後の投稿者を返す
	IncrementStats(ctx context.Context, userID string, delta model.ContributionDelta) (*model.Contributor, error)
}

// LeaderboardsRepository 指標別ランキング (leaderboards/{metric})
type LeaderboardsRepository interface {
	Get(ctx context.Context, metric model.LeaderboardMetric) (*model.Leaderboard, error)
	// UpdateInTransaction エントリを再読込してから書き換える
	UpdateInTransaction(ctx context.Context, metric model.LeaderboardMetric, mutate LeaderboardMutation) error
}
