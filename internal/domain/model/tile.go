package model

// TileZooms タイル座標を保持するズームレベル（粗い順）
var TileZooms = []int{2, 4, 6, 8, 10, 12, 14, 16}

// MaxTileZoom 基準となる最も細かいズームレベル
const MaxTileZoom = 16

// TileCoord 1ズームレベルのタイル座標
type TileCoord struct {
	X int `json:"x" firestore:"x"`
	Y int `json:"y" firestore:"y"`
}

// TileSet マップクラスタリング用の8段階タイル座標
type TileSet struct {
	Z2  TileCoord `json:"z2" firestore:"z2"`
	Z4  TileCoord `json:"z4" firestore:"z4"`
	Z6  TileCoord `json:"z6" firestore:"z6"`
	Z8  TileCoord `json:"z8" firestore:"z8"`
	Z10 TileCoord `json:"z10" firestore:"z10"`
	Z12 TileCoord `json:"z12" firestore:"z12"`
	Z14 TileCoord `json:"z14" firestore:"z14"`
	Z16 TileCoord `json:"z16" firestore:"z16"`
}

// At 指定ズームのタイル座標を返す
func (t TileSet) At(zoom int) (TileCoord, bool) {
	switch zoom {
	case 2:
		return t.Z2, true
	case 4:
		return t.Z4, true
	case 6:
		return t.Z6, true
	case 8:
		return t.Z8, true
	case 10:
		return t.Z10, true
	case 12:
		return t.Z12, true
	case 14:
		return t.Z14, true
	case 16:
		return t.Z16, true
	}
	return TileCoord{}, false
}

// set 指定ズームのタイル座標を設定
func (t *TileSet) set(zoom int, c TileCoord) {
	switch zoom {
	case 2:
		t.Z2 = c
	case 4:
		t.Z4 = c
	case 6:
		t.Z6 = c
	case 8:
		t.Z8 = c
	case 10:
		t.Z10 = c
	case 12:
		t.Z12 = c
	case 14:
		t.Z14 = c
	case 16:
		t.Z16 = c
	}
}

// NewTileSetFromZ16 ズーム16の座標から右シフトで全レベルを導出する
func NewTileSetFromZ16(x, y int) TileSet {
	var ts TileSet
	for _, z := range TileZooms {
		shift := uint(MaxTileZoom - z)
		ts.set(z, TileCoord{X: x >> shift, Y: y >> shift})
	}
	return ts
}
