package model

import "strings"

// ImportStatus インポートジョブのライフサイクル状態
type ImportStatus string

const (
	ImportStatusPending    ImportStatus = "PENDING"
	ImportStatusProcessing ImportStatus = "PROCESSING"
	ImportStatusCompleted  ImportStatus = "COMPLETED"
	ImportStatusPartial    ImportStatus = "PARTIAL"
	ImportStatusFailed     ImportStatus = "FAILED"
)

// ChunkStatus インポートチャンクの処理状態
type ChunkStatus string

const (
	ChunkStatusPending    ChunkStatus = "PENDING"
	ChunkStatusProcessing ChunkStatus = "PROCESSING"
	ChunkStatusCompleted  ChunkStatus = "COMPLETED"
	ChunkStatusFailed     ChunkStatus = "FAILED"
)

// EditType 編集の種類
type EditType string

const (
	EditTypeCreate EditType = "CREATE"
	EditTypeUpdate EditType = "UPDATE"
)

// MediaModification メディア配列の更新モード
type MediaModification string

const (
	MediaModificationAppend    MediaModification = "APPEND"
	MediaModificationOverwrite MediaModification = "OVERWRITE"
)

// LeaderboardMetric ランキングの指標
type LeaderboardMetric string

const (
	LeaderboardSpotsCreated LeaderboardMetric = "spots_created"
	LeaderboardSpotsEdited  LeaderboardMetric = "spots_edited"
	LeaderboardMediaAdded   LeaderboardMetric = "media_added"
)

// LeaderboardMetrics 全ランキング指標
var LeaderboardMetrics = []LeaderboardMetric{LeaderboardSpotsCreated, LeaderboardSpotsEdited, LeaderboardMediaAdded}

// Valid 既知の指標か
func (m LeaderboardMetric) Valid() bool {
	for _, known := range LeaderboardMetrics {
		if m == known {
			return true
		}
	}
	return false
}

// RetryChunkID チャンクコレクション内で再試行トリガーとして予約されたID
const RetryChunkID = "retry"

// LeaderboardSize 各ランキングに保持する最大件数
const LeaderboardSize = 50

// スポットの出典
const (
	SpotSourceUser   = "user"
	SpotSourceImport = "import"
)

// DefaultLanguage 言語指定のないレコードの既定言語
const DefaultLanguage = "en"

// コレクション名
const (
	CollectionImports      = "imports"
	CollectionChunks       = "chunks"
	CollectionSpots        = "spots"
	CollectionEdits        = "edits"
	CollectionLeaderboards = "leaderboards"
	CollectionUsers        = "users"
	CollectionSpotClusters = "spot_clusters"
	ClusterRunDocumentID   = "run"
)

// ForbiddenEditFields 編集から書き込めないフィールド（人気度・システム管理）
var ForbiddenEditFields = map[string]struct{}{
	"id":               {},
	"source":           {},
	"import_id":        {},
	"is_iconic":        {},
	"likes_count":      {},
	"views_count":      {},
	"reported":         {},
	"tile_coordinates": {},
	"lat":              {},
	"lng":              {},
	"created_at":       {},
	"created_by":       {},
	"updated_at":       {},
	"updated_by":       {},
}

// ForbiddenEditFieldPrefixes この接頭辞で始まるフィールドは評価・人気度・モデレーション用で編集不可
var ForbiddenEditFieldPrefixes = []string{"rating", "popularity", "moderation"}

// IsForbiddenEditField 編集ペイロードから除外すべきフィールドか判定
func IsForbiddenEditField(name string) bool {
	if _, ok := ForbiddenEditFields[name]; ok {
		return true
	}
	for _, prefix := range ForbiddenEditFieldPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
