package usecase

import (
	"context"

	"Spotmap-App/internal/domain/model"
	"Spotmap-App/internal/domain/service"
)

type LeaderboardUseCase interface {
	// GetLeaderboard 指標ごとの上位投稿者
	GetLeaderboard(ctx context.Context, metric string) (*model.Leaderboard, error)
}

// leaderboardUseCaseImpl はLeaderboardUseCaseの実装
type leaderboardUseCaseImpl struct {
	ledger *service.ContributionLedger
}

// NewLeaderboardUseCase は新しいLeaderboardUseCaseインスタンスを作成
func NewLeaderboardUseCase(ledger *service.ContributionLedger) LeaderboardUseCase {
	return &leaderboardUseCaseImpl{ledger: ledger}
}

func (u *leaderboardUseCaseImpl) GetLeaderboard(ctx context.Context, metric string) (*model.Leaderboard, error) {
	return u.ledger.Leaderboard(ctx, model.LeaderboardMetric(metric))
}
