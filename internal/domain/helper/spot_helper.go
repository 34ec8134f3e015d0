package helper

import (
	"net/url"
	"strings"

	"github.com/paulmach/orb"

	"Spotmap-App/internal/domain/model"
)

// minRingPoints 境界ポリゴンとして扱う最小頂点数
const minRingPoints = 3

// FilterBounds 境界の生レコードから有効な頂点だけを取り出す
// 有効な頂点が3点未満、または面積を持たない場合は nil を返す
func FilterBounds(raw []model.RawRecord) []model.GeoPoint {
	var points []model.GeoPoint
	ring := orb.Ring{}
	for _, r := range raw {
		lat, latOK := model.ToFloat(r["lat"])
		lng, lngOK := model.ToFloat(r["lng"])
		if !latOK || !lngOK || !model.ValidCoordinates(lat, lng) {
			continue
		}
		points = append(points, model.GeoPoint{Latitude: lat, Longitude: lng})
		ring = append(ring, orb.Point{lng, lat})
	}
	if !wellFormedRing(ring) {
		return nil
	}
	return points
}

// FilterGeoPoints ジオポイント配列版の FilterBounds
func FilterGeoPoints(points []model.GeoPoint) []model.GeoPoint {
	ring := orb.Ring{}
	var valid []model.GeoPoint
	for _, p := range points {
		if !p.Valid() {
			continue
		}
		valid = append(valid, p)
		ring = append(ring, orb.Point{p.Longitude, p.Latitude})
	}
	if !wellFormedRing(ring) {
		return nil
	}
	return valid
}

func wellFormedRing(ring orb.Ring) bool {
	if len(ring) < minRingPoints {
		return false
	}
	b := ring.Bound()
	return b.Left() != b.Right() && b.Bottom() != b.Top()
}

// FilterImportMedia インポートレコードのメディアから http(s) URL を持つものだけを取り出す
func FilterImportMedia(raw []model.RawRecord) []model.MediaItem {
	var items []model.MediaItem
	seen := make(map[string]struct{})
	for _, r := range raw {
		u, _ := r["url"].(string)
		u = strings.TrimSpace(u)
		if !isHTTPURL(u) {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}

		item := model.MediaItem{URL: u, Type: "photo"}
		if t, ok := r["type"].(string); ok && t != "" {
			item.Type = t
		}
		if a, ok := r["attribution"].(string); ok {
			item.Attribution = a
		}
		items = append(items, item)
	}
	return items
}

func isHTTPURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// StoragePath メディアのURLからストレージ上のオブジェクトパスを導出する
// Firebase 形式 (/o/<escaped path>) と Supabase 形式 (/object/public/<bucket>/<path>) に対応
func StoragePath(item model.MediaItem) string {
	if item.StoragePath != "" {
		return item.StoragePath
	}
	u, err := url.Parse(item.URL)
	if err != nil {
		return ""
	}

	if idx := strings.Index(u.EscapedPath(), "/o/"); idx >= 0 {
		escaped := u.EscapedPath()[idx+len("/o/"):]
		path, err := url.PathUnescape(escaped)
		if err != nil {
			return ""
		}
		return path
	}

	const publicPrefix = "/storage/v1/object/public/"
	if strings.HasPrefix(u.Path, publicPrefix) {
		rest := strings.TrimPrefix(u.Path, publicPrefix)
		if slash := strings.Index(rest, "/"); slash >= 0 {
			return rest[slash+1:]
		}
		return ""
	}

	return strings.TrimPrefix(u.Path, "/")
}
