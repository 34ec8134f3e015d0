package model

import "time"

// LeaderboardEntry ランキングの1行
type LeaderboardEntry struct {
	UserID      string `json:"user_id" firestore:"user_id"`
	DisplayName string `json:"display_name" firestore:"display_name"`
	PhotoURL    string `json:"photo_url,omitempty" firestore:"photo_url,omitempty"`
	Count       int    `json:"count" firestore:"count"`
}

// Leaderboard 指標ごとのランキングドキュメント (leaderboards/{metric})
type Leaderboard struct {
	Entries   []LeaderboardEntry `json:"entries" firestore:"entries"`
	UpdatedAt time.Time          `json:"updated_at" firestore:"updated_at"`
}

// ContributorStats 投稿者ごとの貢献カウンター
type ContributorStats struct {
	Edits        int `json:"edits" firestore:"edits"`
	SpotsCreated int `json:"spots_created" firestore:"spots_created"`
	MediaAdded   int `json:"media_added" firestore:"media_added"`
}

// Count 指標に対応するカウンター値
func (s ContributorStats) Count(metric LeaderboardMetric) int {
	switch metric {
	case LeaderboardSpotsCreated:
		return s.SpotsCreated
	case LeaderboardMediaAdded:
		return s.MediaAdded
	default:
		return s.Edits
	}
}

// Contributor 投稿者プロフィール (users/{uid}) のうち本サブシステムが扱う部分
type Contributor struct {
	UserID      string           `json:"-" firestore:"-"`
	DisplayName string           `json:"display_name,omitempty" firestore:"display_name,omitempty"`
	PhotoURL    string           `json:"photo_url,omitempty" firestore:"photo_url,omitempty"`
	Stats       ContributorStats `json:"stats" firestore:"stats"`
}

// ContributionDelta カウンターの増分
type ContributionDelta struct {
	Edits        int
	SpotsCreated int
	MediaAdded   int
}
