package helper

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"Spotmap-App/internal/domain/model"
)

func TestFilterBounds(t *testing.T) {
	t.Run("不正な頂点を除外する", func(t *testing.T) {
		raw := []model.RawRecord{
			{"lat": 35.0, "lng": 135.0},
			{"lat": "35.1", "lng": 135.1},
			{"lat": 35.1, "lng": 135.0},
			{"lat": math.NaN(), "lng": 135.0},
			{"lat": 35.1, "lng": 135.1},
			{"lng": 135.2},
		}
		got := FilterBounds(raw)
		assert.Equal(t, []model.GeoPoint{
			{Latitude: 35.0, Longitude: 135.0},
			{Latitude: 35.1, Longitude: 135.0},
			{Latitude: 35.1, Longitude: 135.1},
		}, got)
	})

	t.Run("3点未満はnil", func(t *testing.T) {
		assert.Nil(t, FilterBounds([]model.RawRecord{{"lat": 1.0, "lng": 1.0}, {"lat": 2.0, "lng": 2.0}}))
	})

	t.Run("面積を持たない境界はnil", func(t *testing.T) {
		assert.Nil(t, FilterBounds([]model.RawRecord{
			{"lat": 1.0, "lng": 1.0},
			{"lat": 1.0, "lng": 2.0},
			{"lat": 1.0, "lng": 3.0},
		}))
	})
}

func TestFilterImportMedia(t *testing.T) {
	raw := []model.RawRecord{
		{"url": "https://example.com/a.jpg"},
		{"url": "ftp://example.com/b.jpg"},
		{"url": "https://example.com/a.jpg", "type": "video"},
		{"url": "http://example.com/c.mp4", "type": "video", "attribution": "CC-BY"},
		{"url": 42},
	}
	got := FilterImportMedia(raw)
	assert.Equal(t, []model.MediaItem{
		{URL: "https://example.com/a.jpg", Type: "photo"},
		{URL: "http://example.com/c.mp4", Type: "video", Attribution: "CC-BY"},
	}, got)
}

func TestStoragePath(t *testing.T) {
	tests := []struct {
		name string
		item model.MediaItem
		want string
	}{
		{
			name: "明示的なパス",
			item: model.MediaItem{URL: "https://cdn.example.com/x.jpg", StoragePath: "spots/abc/x.jpg"},
			want: "spots/abc/x.jpg",
		},
		{
			name: "Firebase形式",
			item: model.MediaItem{URL: "https://firebasestorage.googleapis.com/v0/b/app.appspot.com/o/spots%2Fabc%2Fphoto%201.jpg?alt=media&token=t"},
			want: "spots/abc/photo 1.jpg",
		},
		{
			name: "Supabase形式",
			item: model.MediaItem{URL: "https://proj.supabase.co/storage/v1/object/public/spot-media/spots/abc/p.jpg"},
			want: "spots/abc/p.jpg",
		},
		{
			name: "その他のURL",
			item: model.MediaItem{URL: "https://cdn.example.com/spots/abc/p.jpg"},
			want: "spots/abc/p.jpg",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StoragePath(tt.item))
		})
	}
}
