package model

import "time"

// LocalizedText 言語コードごとのテキスト
type LocalizedText map[string]string

// MediaItem スポットに添付された写真・動画
type MediaItem struct {
	URL         string `json:"url" firestore:"url"`
	Type        string `json:"type,omitempty" firestore:"type,omitempty"`
	IsInStorage bool   `json:"is_in_storage" firestore:"is_in_storage"`
	StoragePath string `json:"storage_path,omitempty" firestore:"storage_path,omitempty"`
	UploadedBy  string `json:"uploaded_by,omitempty" firestore:"uploaded_by,omitempty"`
	Attribution string `json:"attribution,omitempty" firestore:"attribution,omitempty"`
}

// SpotAttribution インポート元の帰属表示
type SpotAttribution struct {
	Text    string `json:"text" firestore:"text"`
	URL     string `json:"url,omitempty" firestore:"url,omitempty"`
	License string `json:"license,omitempty" firestore:"license,omitempty"`
}

// Spot 正規化されたスポット（POI）ドキュメント
type Spot struct {
	ID                 string            `json:"-" firestore:"-"`
	Name               LocalizedText     `json:"name,omitempty" firestore:"name,omitempty"`
	Description        LocalizedText     `json:"description,omitempty" firestore:"description,omitempty"`
	Location           *GeoPoint         `json:"location,omitempty" firestore:"location,omitempty"`
	Lat                float64           `json:"lat" firestore:"lat"`
	Lng                float64           `json:"lng" firestore:"lng"`
	TileCoordinates    *TileSet          `json:"tile_coordinates,omitempty" firestore:"tile_coordinates,omitempty"`
	Bounds             []GeoPoint        `json:"bounds,omitempty" firestore:"bounds,omitempty"`
	Media              []MediaItem       `json:"media,omitempty" firestore:"media,omitempty"`
	Amenities          Amenities         `json:"amenities,omitempty" firestore:"amenities,omitempty"`
	ExternalReferences map[string]string `json:"external_references,omitempty" firestore:"external_references,omitempty"`
	Category           string            `json:"category,omitempty" firestore:"category,omitempty"`
	Tags               []string          `json:"tags,omitempty" firestore:"tags,omitempty"`
	Website            string            `json:"website,omitempty" firestore:"website,omitempty"`
	Phone              string            `json:"phone,omitempty" firestore:"phone,omitempty"`
	Address            interface{}       `json:"address,omitempty" firestore:"address,omitempty"`
	OpeningHours       string            `json:"opening_hours,omitempty" firestore:"opening_hours,omitempty"`
	Source             string            `json:"source,omitempty" firestore:"source,omitempty"`
	ImportID           string            `json:"import_id,omitempty" firestore:"import_id,omitempty"`
	Attribution        *SpotAttribution  `json:"attribution,omitempty" firestore:"attribution,omitempty"`
	IsIconic           bool              `json:"is_iconic" firestore:"is_iconic"`
	CreatedBy          string            `json:"created_by,omitempty" firestore:"created_by,omitempty"`
	CreatedAt          time.Time         `json:"created_at,omitempty" firestore:"created_at,omitempty"`
	UpdatedBy          string            `json:"updated_by,omitempty" firestore:"updated_by,omitempty"`
	UpdatedAt          time.Time         `json:"updated_at,omitempty" firestore:"updated_at,omitempty"`

	// 以下は他サブシステムが計算するフィールド（編集不可）
	Rating          float64 `json:"rating,omitempty" firestore:"rating,omitempty"`
	RatingCount     int     `json:"rating_count,omitempty" firestore:"rating_count,omitempty"`
	PopularityScore float64 `json:"popularity_score,omitempty" firestore:"popularity_score,omitempty"`
	LikesCount      int     `json:"likes_count,omitempty" firestore:"likes_count,omitempty"`
}

// Created CREATE 編集で内容が設定済みか
func (s *Spot) Created() bool {
	return s.Location != nil && !s.CreatedAt.IsZero()
}
