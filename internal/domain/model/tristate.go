package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TriState 設備フラグの三値 (true / false / unknown)
type TriState string

const (
	TriStateTrue    TriState = "true"
	TriStateFalse   TriState = "false"
	TriStateUnknown TriState = "unknown"
)

// UnmarshalJSON 真偽値と文字列表現の両方を受け付ける
func (t *TriState) UnmarshalJSON(data []byte) error {
	if strings.TrimSpace(string(data)) == "null" {
		*t = TriStateUnknown
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		if b {
			*t = TriStateTrue
		} else {
			*t = TriStateFalse
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("三値フラグとして解釈できません: %s", string(data))
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes":
		*t = TriStateTrue
	case "false", "no":
		*t = TriStateFalse
	case "unknown", "":
		*t = TriStateUnknown
	default:
		return fmt.Errorf("未知の三値フラグ: %q", s)
	}
	return nil
}

// AmenityGroup 設備カテゴリ内のフラグ群（例: accessibility → wheelchair）
type AmenityGroup map[string]TriState

// Amenities スポットの設備マップ
type Amenities map[string]AmenityGroup
