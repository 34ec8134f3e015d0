package repository

import (
	"context"
	"errors"
	"time"

	"Spotmap-App/internal/domain/model"
	"Spotmap-App/internal/domain/repository"
	"Spotmap-App/internal/infrastructure/docstore"
)

// MemoryContributorsRepository メモリストアを使用した投稿者カウンター
type MemoryContributorsRepository struct {
	store *docstore.Store
}

// NewMemoryContributorsRepository 新しいMemoryContributorsRepositoryインスタンスを作成
func NewMemoryContributorsRepository(store *docstore.Store) *MemoryContributorsRepository {
	return &MemoryContributorsRepository{store: store}
}

var _ repository.ContributorsRepository = (*MemoryContributorsRepository)(nil)

// Save 投稿者プロフィールを登録する
func (r *MemoryContributorsRepository) Save(ctx context.Context, c *model.Contributor) error {
	return mapDocstoreError(r.store.Set(ctx, userPath(c.UserID), c))
}

func (r *MemoryContributorsRepository) IncrementStats(ctx context.Context, userID string, delta model.ContributionDelta) (*model.Contributor, error) {
	var result *model.Contributor
	err := r.store.RunTransaction(ctx, func(ctx context.Context, tx *docstore.Transaction) error {
		contributor := &model.Contributor{}
		doc, err := tx.Get(userPath(userID))
		switch {
		case errors.Is(err, docstore.ErrNotFound):
		case err != nil:
			return err
		default:
			if err := docstore.Decode(doc.Data, contributor); err != nil {
				return err
			}
		}
		contributor.UserID = userID
		contributor.Stats = addDelta(contributor.Stats, delta)

		if doc == nil {
			tx.Set(userPath(userID), contributor)
		} else {
			tx.Update(userPath(userID), []docstore.Update{{Path: []string{"stats"}, Value: contributor.Stats}})
		}
		result = contributor
		return nil
	})
	if err != nil {
		return nil, mapDocstoreError(err)
	}
	return result, nil
}

// MemoryLeaderboardsRepository メモリストアを使用したランキング
type MemoryLeaderboardsRepository struct {
	store *docstore.Store
	now   func() time.Time
}

// NewMemoryLeaderboardsRepository 新しいMemoryLeaderboardsRepositoryインスタンスを作成
func NewMemoryLeaderboardsRepository(store *docstore.Store) *MemoryLeaderboardsRepository {
	return &MemoryLeaderboardsRepository{store: store, now: time.Now}
}

var _ repository.LeaderboardsRepository = (*MemoryLeaderboardsRepository)(nil)

func (r *MemoryLeaderboardsRepository) Get(ctx context.Context, metric model.LeaderboardMetric) (*model.Leaderboard, error) {
	doc, err := r.store.Get(ctx, leaderboardPath(metric))
	if errors.Is(err, docstore.ErrNotFound) {
		return &model.Leaderboard{}, nil
	}
	if err != nil {
		return nil, mapDocstoreError(err)
	}
	var board model.Leaderboard
	if err := docstore.Decode(doc.Data, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

func (r *MemoryLeaderboardsRepository) UpdateInTransaction(ctx context.Context, metric model.LeaderboardMetric, mutate repository.LeaderboardMutation) error {
	err := r.store.RunTransaction(ctx, func(ctx context.Context, tx *docstore.Transaction) error {
		var board model.Leaderboard
		doc, err := tx.Get(leaderboardPath(metric))
		switch {
		case errors.Is(err, docstore.ErrNotFound):
		case err != nil:
			return err
		default:
			if err := docstore.Decode(doc.Data, &board); err != nil {
				return err
			}
		}
		tx.Set(leaderboardPath(metric), model.Leaderboard{
			Entries:   mutate(board.Entries),
			UpdatedAt: r.now().UTC(),
		})
		return nil
	})
	return mapDocstoreError(err)
}

// MemoryClusterTrigger メモリストアを使用したクラスタ再構築トリガー
type MemoryClusterTrigger struct {
	store *docstore.Store
}

// NewMemoryClusterTrigger 新しいMemoryClusterTriggerインスタンスを作成
func NewMemoryClusterTrigger(store *docstore.Store) *MemoryClusterTrigger {
	return &MemoryClusterTrigger{store: store}
}

var _ repository.ClusterTrigger = (*MemoryClusterTrigger)(nil)

func (t *MemoryClusterTrigger) Signal(ctx context.Context, importID string) error {
	if err := t.store.Delete(ctx, clusterRunPath()); err != nil {
		return mapDocstoreError(err)
	}
	return mapDocstoreError(t.store.Set(ctx, clusterRunPath(), map[string]interface{}{
		"triggered_by": "import",
		"import_id":    importID,
		"created_at":   time.Now().UTC(),
	}))
}

func addDelta(s model.ContributorStats, d model.ContributionDelta) model.ContributorStats {
	s.Edits += d.Edits
	s.SpotsCreated += d.SpotsCreated
	s.MediaAdded += d.MediaAdded
	return s
}
