package model

import (
	"encoding/json"
	"fmt"
	"math"
)

// GeoPoint 投影済みのジオポイント（Firestore GeoPoint に対応）
type GeoPoint struct {
	Latitude  float64 `json:"latitude" firestore:"latitude"`
	Longitude float64 `json:"longitude" firestore:"longitude"`
}

// Valid 緯度経度が有限かつ範囲内か判定
func (p GeoPoint) Valid() bool {
	return ValidCoordinates(p.Latitude, p.Longitude)
}

// ValidCoordinates 緯度経度の妥当性チェック
func ValidCoordinates(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Location 編集で受け取る位置情報。境界で一度だけ判定されるタグ付きユニオン
type Location interface {
	GeoPoint() GeoPoint
	isLocation()
}

// RawLocation 生の {lat, lng} ペア
type RawLocation struct {
	Lat float64
	Lng float64
}

func (l RawLocation) GeoPoint() GeoPoint {
	return GeoPoint{Latitude: l.Lat, Longitude: l.Lng}
}

func (RawLocation) isLocation() {}

// ProjectedLocation 既にジオポイントとして投影された位置
type ProjectedLocation struct {
	Point GeoPoint
}

func (l ProjectedLocation) GeoPoint() GeoPoint {
	return l.Point
}

func (ProjectedLocation) isLocation() {}

// ParseLocation JSON表現から位置情報を判定する
// {"lat","lng"} は RawLocation、{"latitude","longitude"} は ProjectedLocation
func ParseLocation(data json.RawMessage) (Location, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: オブジェクトではありません", ErrInvalidLocation)
	}

	_, hasLat := probe["latitude"]
	_, hasLng := probe["longitude"]
	if hasLat && hasLng {
		var p GeoPoint
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidLocation, err)
		}
		if !p.Valid() {
			return nil, fmt.Errorf("%w: 範囲外の座標 (%f, %f)", ErrInvalidLocation, p.Latitude, p.Longitude)
		}
		return ProjectedLocation{Point: p}, nil
	}

	_, hasLat = probe["lat"]
	_, hasLng = probe["lng"]
	if hasLat && hasLng {
		var raw struct {
			Lat *float64 `json:"lat"`
			Lng *float64 `json:"lng"`
		}
		if err := json.Unmarshal(data, &raw); err != nil || raw.Lat == nil || raw.Lng == nil {
			return nil, fmt.Errorf("%w: 数値でない緯度経度", ErrInvalidLocation)
		}
		if !ValidCoordinates(*raw.Lat, *raw.Lng) {
			return nil, fmt.Errorf("%w: 範囲外の座標 (%f, %f)", ErrInvalidLocation, *raw.Lat, *raw.Lng)
		}
		return RawLocation{Lat: *raw.Lat, Lng: *raw.Lng}, nil
	}

	return nil, fmt.Errorf("%w: lat/lng もジオポイントも含まれていません", ErrInvalidLocation)
}
