package database

import (
	"fmt"

	"github.com/supabase-community/supabase-go"
)

// SupabaseClient Supabaseクライアントのラッパー
type SupabaseClient struct {
	Client *supabase.Client
}

// NewSupabaseClient 新しいSupabaseクライアントを作成（ストレージ削除のためサービスキーを使用）
func NewSupabaseClient(supabaseURL, serviceKey string) (*SupabaseClient, error) {
	if supabaseURL == "" {
		return nil, fmt.Errorf("SUPABASE_URL環境変数が設定されていません")
	}
	if serviceKey == "" {
		return nil, fmt.Errorf("SUPABASE_SERVICE_KEY環境変数が設定されていません")
	}

	client, err := supabase.NewClient(supabaseURL, serviceKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("Supabaseクライアントの初期化に失敗: %w", err)
	}

	return &SupabaseClient{
		Client: client,
	}, nil
}

// GetClient Supabaseクライアントを取得
func (sc *SupabaseClient) GetClient() *supabase.Client {
	return sc.Client
}

// HealthCheck クライアントが初期化済みかを確認
func (sc *SupabaseClient) HealthCheck() error {
	if sc.Client == nil || sc.Client.Storage == nil {
		return fmt.Errorf("Supabaseクライアントが初期化されていません")
	}
	return nil
}
