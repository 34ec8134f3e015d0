package repository

import "context"

// BlobStore メディアファイルの外部ストレージ
type BlobStore interface {
	Delete(ctx context.Context, path string) error
}
