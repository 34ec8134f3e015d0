package storage

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"Spotmap-App/internal/database"
	"Spotmap-App/internal/domain/repository"
)

// SupabaseBlobStore Supabase Storage 上のメディアファイルを削除する
type SupabaseBlobStore struct {
	client *database.SupabaseClient
	bucket string
	logger *zap.Logger
}

// NewSupabaseBlobStore 新しいSupabaseBlobStoreインスタンスを作成
func NewSupabaseBlobStore(client *database.SupabaseClient, bucket string, logger *zap.Logger) (*SupabaseBlobStore, error) {
	if err := client.HealthCheck(); err != nil {
		return nil, err
	}
	return &SupabaseBlobStore{client: client, bucket: bucket, logger: logger}, nil
}

var _ repository.BlobStore = (*SupabaseBlobStore)(nil)

// Delete 指定パスのファイルを削除する。パスにバケット名が含まれていれば取り除く
func (s *SupabaseBlobStore) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	objectPath := strings.TrimPrefix(strings.TrimPrefix(path, "/"), s.bucket+"/")
	if objectPath == "" {
		return fmt.Errorf("削除対象のパスが空です")
	}
	if _, err := s.client.GetClient().Storage.RemoveFile(s.bucket, []string{objectPath}); err != nil {
		return fmt.Errorf("ストレージからの削除に失敗しました (%s): %w", objectPath, err)
	}
	s.logger.Debug("🗑️ ストレージからメディアを削除", zap.String("bucket", s.bucket), zap.String("path", objectPath))
	return nil
}

// DiscardBlobStore 外部ストレージを持たないローカル実行用。削除要求を記録するだけ
type DiscardBlobStore struct {
	logger *zap.Logger
}

// NewDiscardBlobStore 新しいDiscardBlobStoreインスタンスを作成
func NewDiscardBlobStore(logger *zap.Logger) *DiscardBlobStore {
	return &DiscardBlobStore{logger: logger}
}

var _ repository.BlobStore = (*DiscardBlobStore)(nil)

func (s *DiscardBlobStore) Delete(_ context.Context, path string) error {
	s.logger.Info("ストレージ未設定のため削除をスキップ", zap.String("path", path))
	return nil
}
