package firestore

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
)

func TestNewFirestoreClient_RequiresProjectID(t *testing.T) {
	_, err := NewFirestoreClient(context.Background(), "", "", zap.NewNop())
	assert.Error(t, err)
}

// 実プロジェクトへの接続確認。環境変数が無い場合はスキップする
func TestFirestoreConnection(t *testing.T) {
	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	credentialsPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	if projectID == "" || credentialsPath == "" {
		t.Skip("FIRESTORE_PROJECT_ID / GOOGLE_APPLICATION_CREDENTIALS が未設定")
	}

	ctx := context.Background()
	client, err := NewFirestoreClient(ctx, projectID, credentialsPath, zap.NewNop())
	require.NoError(t, err)
	defer client.Close()

	collections := client.GetClient().Collections(ctx)
	var ids []string
	for {
		ref, err := collections.Next()
		if err == iterator.Done {
			break
		}
		require.NoError(t, err)
		ids = append(ids, ref.ID)
	}
	t.Logf("📚 コレクション数: %d %v", len(ids), ids)
}
