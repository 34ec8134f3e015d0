package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// RawRecord 外部データセットの1レコード（形式は未検証）
type RawRecord map[string]interface{}

// ImportRecord 検証済みのインポートレコード
type ImportRecord struct {
	Index              int
	ExternalID         string
	Name               string
	Lang               string
	Description        string
	Category           string
	Tags               []string
	Lat                float64
	Lng                float64
	AttributionText    string
	SourceName         string
	Website            string
	Bounds             []RawRecord
	Media              []RawRecord
	ExternalReferences map[string]string
}

// ParseRawRecord 生レコードを検証する。有限の数値 {lat, lng} が無い場合は false
func ParseRawRecord(index int, raw RawRecord) (*ImportRecord, bool) {
	loc, ok := raw["location"].(map[string]interface{})
	if !ok {
		if rr, isRaw := raw["location"].(RawRecord); isRaw {
			loc = rr
		} else {
			return nil, false
		}
	}
	lat, latOK := ToFloat(loc["lat"])
	lng, lngOK := ToFloat(loc["lng"])
	if !latOK || !lngOK || !ValidCoordinates(lat, lng) {
		return nil, false
	}

	rec := &ImportRecord{
		Index:           index,
		ExternalID:      stringField(raw, "id"),
		Name:            stringField(raw, "name"),
		Lang:            stringField(raw, "lang"),
		Description:     stringField(raw, "description"),
		Category:        stringField(raw, "category"),
		Lat:             lat,
		Lng:             lng,
		AttributionText: stringField(raw, "attribution"),
		SourceName:      stringField(raw, "source_name"),
		Website:         stringField(raw, "website"),
		Bounds:          recordList(raw["bounds"]),
		Media:           recordList(raw["media"]),
	}
	if rec.Lang == "" {
		rec.Lang = DefaultLanguage
	}
	if tags, ok := raw["tags"].([]interface{}); ok {
		for _, t := range tags {
			if s, ok := t.(string); ok && strings.TrimSpace(s) != "" {
				rec.Tags = append(rec.Tags, s)
			}
		}
	}
	if ext, ok := raw["external_references"].(map[string]interface{}); ok {
		rec.ExternalReferences = make(map[string]string, len(ext))
		for k, v := range ext {
			if v == nil {
				continue
			}
			rec.ExternalReferences[k] = fmt.Sprint(v)
		}
	}
	return rec, true
}

// ToFloat ストア由来の数値型を float64 に変換する。文字列等は数値とみなさない
func ToFloat(v interface{}) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func stringField(raw RawRecord, key string) string {
	s, _ := raw[key].(string)
	return strings.TrimSpace(s)
}

func recordList(v interface{}) []RawRecord {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]RawRecord, 0, len(items))
	for _, item := range items {
		switch m := item.(type) {
		case map[string]interface{}:
			out = append(out, m)
		case RawRecord:
			out = append(out, m)
		}
	}
	return out
}
