package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRawRecord(t *testing.T) {
	raw := RawRecord{
		"id":          " osm-42 ",
		"name":        "清水寺",
		"lang":        "ja",
		"description": "京都の寺院",
		"category":    "temple",
		"tags":        []interface{}{"history", "", 3, "view"},
		"location":    map[string]interface{}{"lat": 34.9949, "lng": int64(135)},
		"attribution": "© OpenStreetMap contributors",
		"external_references": map[string]interface{}{
			"osm":      "node/42",
			"wikidata": 123,
			"missing":  nil,
		},
		"media": []interface{}{map[string]interface{}{"url": "https://example.com/a.jpg"}, "bogus"},
	}

	rec, ok := ParseRawRecord(7, raw)
	require.True(t, ok)
	assert.Equal(t, 7, rec.Index)
	assert.Equal(t, "osm-42", rec.ExternalID)
	assert.Equal(t, "ja", rec.Lang)
	assert.Equal(t, 34.9949, rec.Lat)
	assert.Equal(t, 135.0, rec.Lng)
	assert.Equal(t, []string{"history", "view"}, rec.Tags)
	assert.Equal(t, map[string]string{"osm": "node/42", "wikidata": "123"}, rec.ExternalReferences)
	assert.Len(t, rec.Media, 1)
}

func TestParseRawRecord_DefaultLanguage(t *testing.T) {
	rec, ok := ParseRawRecord(0, RawRecord{"name": "Park", "location": map[string]interface{}{"lat": 1.0, "lng": 2.0}})
	require.True(t, ok)
	assert.Equal(t, DefaultLanguage, rec.Lang)
}

func TestParseRawRecord_RejectsInvalidLocation(t *testing.T) {
	tests := map[string]RawRecord{
		"位置なし":     {"name": "x"},
		"文字列の座標":   {"location": map[string]interface{}{"lat": "35.0", "lng": "135.0"}},
		"経度なし":     {"location": map[string]interface{}{"lat": 35.0}},
		"NaN":      {"location": map[string]interface{}{"lat": math.NaN(), "lng": 1.0}},
		"範囲外":      {"location": map[string]interface{}{"lat": 95.0, "lng": 1.0}},
		"オブジェクト以外": {"location": []interface{}{35.0, 135.0}},
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, ok := ParseRawRecord(0, raw)
			assert.False(t, ok)
		})
	}
}

func TestToFloat(t *testing.T) {
	f, ok := ToFloat(json.Number("12.5"))
	assert.True(t, ok)
	assert.Equal(t, 12.5, f)

	_, ok = ToFloat(math.Inf(1))
	assert.False(t, ok)

	_, ok = ToFloat("1")
	assert.False(t, ok)

	f, ok = ToFloat(int32(-3))
	assert.True(t, ok)
	assert.Equal(t, -3.0, f)
}
