package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"Spotmap-App/internal/domain/model"
	"Spotmap-App/internal/domain/repository"
)

// FirestoreContributorsRepository Firestoreを使用した投稿者カウンター
type FirestoreContributorsRepository struct {
	client      *firestore.Client
	maxAttempts int
}

// NewFirestoreContributorsRepository 新しいFirestoreContributorsRepositoryインスタンスを作成
func NewFirestoreContributorsRepository(client *firestore.Client, maxAttempts int) *FirestoreContributorsRepository {
	return &FirestoreContributorsRepository{client: client, maxAttempts: maxAttempts}
}

var _ repository.ContributorsRepository = (*FirestoreContributorsRepository)(nil)

func (r *FirestoreContributorsRepository) IncrementStats(ctx context.Context, userID string, delta model.ContributionDelta) (*model.Contributor, error) {
	ref := r.client.Collection(model.CollectionUsers).Doc(userID)
	var result *model.Contributor
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		contributor := &model.Contributor{}
		doc, err := tx.Get(ref)
		switch {
		case isNotFound(err):
		case err != nil:
			return err
		default:
			if err := doc.DataTo(contributor); err != nil {
				return fmt.Errorf("投稿者の変換に失敗しました: %w", err)
			}
		}
		contributor.UserID = userID
		contributor.Stats = addDelta(contributor.Stats, delta)
		result = contributor

		return tx.Set(ref, map[string]interface{}{
			"stats": map[string]interface{}{
				"edits":         contributor.Stats.Edits,
				"spots_created": contributor.Stats.SpotsCreated,
				"media_added":   contributor.Stats.MediaAdded,
			},
		}, firestore.MergeAll)
	}, firestore.MaxAttempts(r.maxAttempts))
	if err != nil {
		return nil, mapFirestoreError(err, userPath(userID))
	}
	return result, nil
}

// FirestoreLeaderboardsRepository Firestoreを使用したランキング
type FirestoreLeaderboardsRepository struct {
	client      *firestore.Client
	maxAttempts int
}

// NewFirestoreLeaderboardsRepository 新しいFirestoreLeaderboardsRepositoryインスタンスを作成
func NewFirestoreLeaderboardsRepository(client *firestore.Client, maxAttempts int) *FirestoreLeaderboardsRepository {
	return &FirestoreLeaderboardsRepository{client: client, maxAttempts: maxAttempts}
}

var _ repository.LeaderboardsRepository = (*FirestoreLeaderboardsRepository)(nil)

func (r *FirestoreLeaderboardsRepository) Get(ctx context.Context, metric model.LeaderboardMetric) (*model.Leaderboard, error) {
	doc, err := r.client.Collection(model.CollectionLeaderboards).Doc(string(metric)).Get(ctx)
	if isNotFound(err) {
		return &model.Leaderboard{}, nil
	}
	if err != nil {
		return nil, mapFirestoreError(err, leaderboardPath(metric))
	}
	var board model.Leaderboard
	if err := doc.DataTo(&board); err != nil {
		return nil, fmt.Errorf("ランキングの変換に失敗しました: %w", err)
	}
	return &board, nil
}

func (r *FirestoreLeaderboardsRepository) UpdateInTransaction(ctx context.Context, metric model.LeaderboardMetric, mutate repository.LeaderboardMutation) error {
	ref := r.client.Collection(model.CollectionLeaderboards).Doc(string(metric))
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var board model.Leaderboard
		doc, err := tx.Get(ref)
		switch {
		case isNotFound(err):
		case err != nil:
			return err
		default:
			if err := doc.DataTo(&board); err != nil {
				return fmt.Errorf("ランキングの変換に失敗しました: %w", err)
			}
		}
		return tx.Set(ref, map[string]interface{}{
			"entries":    mutate(board.Entries),
			"updated_at": firestore.ServerTimestamp,
		})
	}, firestore.MaxAttempts(r.maxAttempts))
	return mapFirestoreError(err, leaderboardPath(metric))
}

// FirestoreClusterTrigger spot_clusters/run を作り直してクラスタ再構築を起動する
type FirestoreClusterTrigger struct {
	client *firestore.Client
}

// NewFirestoreClusterTrigger 新しいFirestoreClusterTriggerインスタンスを作成
func NewFirestoreClusterTrigger(client *firestore.Client) *FirestoreClusterTrigger {
	return &FirestoreClusterTrigger{client: client}
}

var _ repository.ClusterTrigger = (*FirestoreClusterTrigger)(nil)

// Signal 作成イベントを確実に発火させるため、削除してから作成する
func (t *FirestoreClusterTrigger) Signal(ctx context.Context, importID string) error {
	ref := t.client.Collection(model.CollectionSpotClusters).Doc(model.ClusterRunDocumentID)
	if _, err := ref.Delete(ctx); err != nil {
		return mapFirestoreError(err, clusterRunPath())
	}
	_, err := ref.Set(ctx, map[string]interface{}{
		"triggered_by": "import",
		"import_id":    importID,
		"created_at":   firestore.ServerTimestamp,
	})
	return mapFirestoreError(err, clusterRunPath())
}

