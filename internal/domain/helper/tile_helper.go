package helper

import (
	"math"

	"Spotmap-App/internal/domain/model"
)

// tileSize ワールドピクセル座標系のタイル一辺
const tileSize = 256.0

// sinLatLimit 極付近の発散を避けるための sin(緯度) の上限
const sinLatLimit = 0.9999

// TileSet 緯度経度から8段階のタイル座標を求める（球面メルカトル）
// ズーム16のみ投影から計算し、粗いレベルはそのインデックスを右シフトして導出する
func TileSet(lat, lng float64) model.TileSet {
	siny := math.Sin(lat * math.Pi / 180)
	siny = math.Min(math.Max(siny, -sinLatLimit), sinLatLimit)

	worldX := tileSize * (0.5 + lng/360)
	worldY := tileSize * (0.5 - math.Log((1+siny)/(1-siny))/(4*math.Pi))

	scale := float64(int(1) << model.MaxTileZoom)
	x := int(math.Floor(worldX * scale / tileSize))
	y := int(math.Floor(worldY * scale / tileSize))

	return model.NewTileSetFromZ16(x, y)
}
