package repository

import "context"

// ClusterTrigger 空間クラスタキャッシュ再構築のシグナル (spot_clusters/run)
type ClusterTrigger interface {
	// Signal シングルトンのトリガードキュメントを削除してから作り直す
	Signal(ctx context.Context, importID string) error
}
