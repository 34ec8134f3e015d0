package model

import "time"

// 法的条項: 出典がパブリック／放棄されたものはストリッピング対象
const (
	LegalClausePublic    = "public"
	LegalClauseAbandoned = "abandoned"
)

// ImportAttribution インポート元の帰属情報
type ImportAttribution struct {
	SourceName    string `json:"source_name,omitempty" firestore:"source_name,omitempty"`
	License       string `json:"license,omitempty" firestore:"license,omitempty"`
	Website       string `json:"website,omitempty" firestore:"website,omitempty"`
	ViewerURL     string `json:"viewer_url,omitempty" firestore:"viewer_url,omitempty"`
	SourceURL     string `json:"source_url,omitempty" firestore:"source_url,omitempty"`
	StrippingMode bool   `json:"stripping_mode,omitempty" firestore:"stripping_mode,omitempty"`
}

// ImportLegal 出典の法的ステータス
type ImportLegal struct {
	Clause string `json:"clause,omitempty" firestore:"clause,omitempty"`
	Notes  string `json:"notes,omitempty" firestore:"notes,omitempty"`
}

// ImportJob 一括インポート1回分を表すジョブ (imports/{importId})
type ImportJob struct {
	ID                string            `json:"-" firestore:"-"`
	Status            ImportStatus      `json:"status" firestore:"status"`
	UserID            string            `json:"user_id,omitempty" firestore:"user_id,omitempty"`
	Attribution       ImportAttribution `json:"attribution" firestore:"attribution"`
	Legal             ImportLegal       `json:"legal" firestore:"legal"`
	ChunkCountTotal   int               `json:"chunk_count_total" firestore:"chunk_count_total"`
	ProcessedChunks   int               `json:"processed_chunks" firestore:"processed_chunks"`
	SpotCountTotal    int               `json:"spot_count_total" firestore:"spot_count_total"`
	SpotCountImported int               `json:"spot_count_imported" firestore:"spot_count_imported"`
	ErrorMessage      string            `json:"error_message,omitempty" firestore:"error_message,omitempty"`
	CreatedAt         time.Time         `json:"created_at,omitempty" firestore:"created_at,omitempty"`
	StartedAt         time.Time         `json:"started_at,omitempty" firestore:"started_at,omitempty"`
	CompletedAt       time.Time         `json:"completed_at,omitempty" firestore:"completed_at,omitempty"`
}

// Stripping 説明文とメディアを複製しないモードか
func (j *ImportJob) Stripping() bool {
	if j.Attribution.StrippingMode {
		return true
	}
	return j.Legal.Clause == LegalClausePublic || j.Legal.Clause == LegalClauseAbandoned
}

// AttributionURL 帰属URLを優先順位 (viewer → website → source) で決定
func (j *ImportJob) AttributionURL() string {
	switch {
	case j.Attribution.ViewerURL != "":
		return j.Attribution.ViewerURL
	case j.Attribution.Website != "":
		return j.Attribution.Website
	default:
		return j.Attribution.SourceURL
	}
}

// Completed 全チャンクの処理が終わったか
func (j *ImportJob) Completed() bool {
	return j.ChunkCountTotal > 0 && j.ProcessedChunks >= j.ChunkCountTotal
}

// ImportChunk ジョブに属する生レコードの束 (imports/{importId}/chunks/{chunkId})
type ImportChunk struct {
	ID            string      `json:"-" firestore:"-"`
	ImportID      string      `json:"-" firestore:"-"`
	Status        ChunkStatus `json:"status" firestore:"status"`
	Spots         []RawRecord `json:"spots" firestore:"spots"`
	SpotCount     int         `json:"spot_count" firestore:"spot_count"`
	ImportedCount int         `json:"imported_count" firestore:"imported_count"`
	ErrorMessage  string      `json:"error_message,omitempty" firestore:"error_message,omitempty"`
	ProcessedAt   time.Time   `json:"processed_at,omitempty" firestore:"processed_at,omitempty"`
}

// ChunkResult チャンク処理の結果
type ChunkResult struct {
	ImportID      string `json:"import_id"`
	ChunkID       string `json:"chunk_id"`
	ImportedCount int    `json:"imported_count"`
	SkippedCount  int    `json:"skipped_count"`
	// AlreadyHandled PENDING/FAILED 以外のチャンクだったため何もしなかった
	AlreadyHandled bool       `json:"already_handled,omitempty"`
	Job            *ImportJob `json:"job,omitempty"`
}

// RetryResult 失敗チャンク再処理の集計
type RetryResult struct {
	ImportID  string `json:"import_id"`
	Attempted int    `json:"attempted"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
}
