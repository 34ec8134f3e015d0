package helper

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Spotmap-App/internal/domain/model"
)

func TestTileSet_KnownPoints(t *testing.T) {
	tests := []struct {
		name     string
		lat, lng float64
		z16      model.TileCoord
	}{
		{name: "東京駅", lat: 35.6812, lng: 139.7671, z16: model.TileCoord{X: 58211, Y: 25806}},
		{name: "ロンドン", lat: 51.5007, lng: -0.1246, z16: model.TileCoord{X: 32745, Y: 21794}},
		{name: "シドニー", lat: -33.8568, lng: 151.2153, z16: model.TileCoord{X: 60295, Y: 39325}},
		{name: "原点", lat: 0, lng: 0, z16: model.TileCoord{X: 32768, Y: 32768}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := TileSet(tt.lat, tt.lng)
			assert.Equal(t, tt.z16, ts.Z16)

			// 標準のWebメルカトル実装と一致すること
			want := maptile.At(orb.Point{tt.lng, tt.lat}, 16)
			assert.Equal(t, int(want.X), ts.Z16.X)
			assert.Equal(t, int(want.Y), ts.Z16.Y)
		})
	}
}

func TestTileSet_CoarserZoomsAreRightShifts(t *testing.T) {
	ts := TileSet(35.6812, 139.7671)

	for _, z := range model.TileZooms {
		c, ok := ts.At(z)
		require.True(t, ok)
		shift := uint(model.MaxTileZoom - z)
		assert.Equal(t, ts.Z16.X>>shift, c.X, "zoom %d", z)
		assert.Equal(t, ts.Z16.Y>>shift, c.Y, "zoom %d", z)
	}
	assert.Equal(t, model.TileCoord{X: 3, Y: 1}, ts.Z2)
	assert.Equal(t, model.TileCoord{X: 14552, Y: 6451}, ts.Z14)
}

func mapTile(t *testing.T, ts model.TileSet, zoom int) maptile.Tile {
	t.Helper()
	c, ok := ts.At(zoom)
	require.True(t, ok)
	return maptile.New(uint32(c.X), uint32(c.Y), maptile.Zoom(zoom))
}

func TestTileSet_ContainmentAcrossZooms(t *testing.T) {
	ts := TileSet(-33.8568, 151.2153)

	fine := mapTile(t, ts, 16)
	for _, z := range model.TileZooms {
		coarse := mapTile(t, ts, z)
		assert.True(t, coarse.Bound().Contains(fine.Center()), "zoom %d", z)
	}
	assert.Equal(t, mapTile(t, ts, 14), fine.Parent().Parent())
}

func TestTileSet_PolarClamp(t *testing.T) {
	north := TileSet(90, 0)
	south := TileSet(-90, 0)

	// sin(緯度) を 0.9999 で打ち切るため有限の値になる
	assert.Equal(t, TileSet(89.9999, 0).Z16.Y, north.Z16.Y)
	assert.Less(t, north.Z16.Y, 0)
	assert.Greater(t, south.Z16.Y, 1<<16)
}

func TestTileSet_UnknownZoom(t *testing.T) {
	_, ok := TileSet(0, 0).At(3)
	assert.False(t, ok)
}
