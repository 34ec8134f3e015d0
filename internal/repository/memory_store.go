package repository

import (
	"errors"
	"fmt"

	"Spotmap-App/internal/domain/model"
	"Spotmap-App/internal/infrastructure/docstore"
)

func importPath(importID string) string {
	return model.CollectionImports + "/" + importID
}

func chunksPath(importID string) string {
	return importPath(importID) + "/" + model.CollectionChunks
}

func chunkPath(importID, chunkID string) string {
	return chunksPath(importID) + "/" + chunkID
}

func spotPath(spotID string) string {
	return model.CollectionSpots + "/" + spotID
}

func editPath(spotID, editID string) string {
	return spotPath(spotID) + "/" + model.CollectionEdits + "/" + editID
}

func userPath(userID string) string {
	return model.CollectionUsers + "/" + userID
}

func leaderboardPath(metric model.LeaderboardMetric) string {
	return model.CollectionLeaderboards + "/" + string(metric)
}

func clusterRunPath() string {
	return model.CollectionSpotClusters + "/" + model.ClusterRunDocumentID
}

// toDocstoreUpdates ドメインのフィールド変更をメモリストアの更新に変換
func toDocstoreUpdates(changes []model.FieldChange) []docstore.Update {
	updates := make([]docstore.Update, 0, len(changes))
	for _, c := range changes {
		updates = append(updates, docstore.Update{Path: c.Path, Value: c.Value, Delete: c.Delete})
	}
	return updates
}

// mapDocstoreError メモリストアのエラーをドメインのエラーに変換
func mapDocstoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, docstore.ErrNotFound):
		return fmt.Errorf("%v: %w", err, model.ErrNotFound)
	case errors.Is(err, docstore.ErrConflict):
		return fmt.Errorf("%v: %w", err, model.ErrConflict)
	default:
		return err
	}
}
