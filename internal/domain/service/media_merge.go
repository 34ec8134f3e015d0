package service

import "Spotmap-App/internal/domain/model"

// MediaMergeResult メディアマージの結果
type MediaMergeResult struct {
	Media   []model.MediaItem
	Added   int
	Removed []model.MediaItem
}

// AppendMedia URL による和集合。既存の順序を保ち、新規分を末尾に追加する
func AppendMedia(existing, incoming []model.MediaItem) MediaMergeResult {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	merged := make([]model.MediaItem, 0, len(existing)+len(incoming))
	for _, m := range existing {
		if _, dup := seen[m.URL]; dup {
			continue
		}
		seen[m.URL] = struct{}{}
		merged = append(merged, m)
	}

	added := 0
	for _, m := range incoming {
		if _, dup := seen[m.URL]; dup {
			continue
		}
		seen[m.URL] = struct{}{}
		merged = append(merged, m)
		added++
	}
	return MediaMergeResult{Media: merged, Added: added}
}

// OverwriteMedia 新しい一覧で置き換え、新しい一覧に無い既存メディアを削除対象として返す
func OverwriteMedia(existing, incoming []model.MediaItem) MediaMergeResult {
	existingURLs := make(map[string]struct{}, len(existing))
	for _, m := range existing {
		existingURLs[m.URL] = struct{}{}
	}

	seen := make(map[string]struct{}, len(incoming))
	media := make([]model.MediaItem, 0, len(incoming))
	added := 0
	for _, m := range incoming {
		if _, dup := seen[m.URL]; dup {
			continue
		}
		seen[m.URL] = struct{}{}
		media = append(media, m)
		if _, had := existingURLs[m.URL]; !had {
			added++
		}
	}

	var removed []model.MediaItem
	removedURLs := make(map[string]struct{})
	for _, m := range existing {
		if _, kept := seen[m.URL]; kept {
			continue
		}
		if _, dup := removedURLs[m.URL]; dup {
			continue
		}
		removedURLs[m.URL] = struct{}{}
		removed = append(removed, m)
	}
	return MediaMergeResult{Media: media, Added: added, Removed: removed}
}

// mergeChanges null をキー削除として扱うマップのシャローマージをフィールド変更に変換する
func mergeChanges[T any](field string, patch map[string]model.Nullable[T]) []model.FieldChange {
	changes := make([]model.FieldChange, 0, len(patch))
	for _, key := range sortedKeys(patch) {
		v := patch[key]
		if v.Null {
			changes = append(changes, model.DeleteField(field, key))
			continue
		}
		changes = append(changes, model.SetField(v.Value, field, key))
	}
	return changes
}

// presentValues null を除いた値だけのマップ（CREATE 用）
func presentValues[T any](patch map[string]model.Nullable[T]) map[string]T {
	out := make(map[string]T, len(patch))
	for k, v := range patch {
		if !v.Null {
			out[k] = v.Value
		}
	}
	return out
}
