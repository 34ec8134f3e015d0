package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Edit スポットに追記される不変の編集レコード (spots/{spotId}/edits/{editId})
type Edit struct {
	ID               string
	SpotID           string
	Type             EditType
	UserID           string
	Data             EditPayload
	ModificationType MediaModification
	Approved         bool
	CreatedAt        time.Time
	// DroppedFields 書き込み禁止のため無視されたフィールド
	DroppedFields []string
}

// EditPayload 型付けされた編集内容。nil のフィールドは「変更なし」を表す
type EditPayload struct {
	Location           Location
	Bounds             []GeoPoint
	Media              []MediaItem
	HasMedia           bool
	Amenities          map[string]Nullable[AmenityGroup]
	ExternalReferences map[string]Nullable[string]
	// Fields 上記以外のフィールド。値はそのままスポットの同名フィールドに写す
	Fields map[string]interface{}
}

// editPayloadJSON 型付きで解釈するフィールドのストア上の表現
type editPayloadJSON struct {
	Location           json.RawMessage                   `json:"location"`
	Bounds             []GeoPoint                        `json:"bounds"`
	Media              *[]MediaItem                      `json:"media"`
	Amenities          map[string]Nullable[AmenityGroup] `json:"amenities"`
	ExternalReferences map[string]Nullable[string]       `json:"external_references"`
}

// typedEditFields editPayloadJSON で扱うフィールド
var typedEditFields = map[string]struct{}{
	"location":            {},
	"bounds":              {},
	"media":               {},
	"amenities":           {},
	"external_references": {},
}

// DecodeEdit ストアから読み出した生ドキュメントを型付きの Edit に変換する
// 位置情報の形式判定と null 削除センチネルの解釈はここで一度だけ行う
func DecodeEdit(spotID, editID string, raw map[string]interface{}) (*Edit, error) {
	edit := &Edit{
		ID:     editID,
		SpotID: spotID,
	}

	typ, _ := raw["type"].(string)
	switch EditType(typ) {
	case EditTypeCreate, EditTypeUpdate:
		edit.Type = EditType(typ)
	default:
		return nil, fmt.Errorf("%w: 未知の編集タイプ %q", ErrInvalidEdit, typ)
	}

	edit.UserID, _ = raw["user_id"].(string)
	edit.Approved, _ = raw["approved"].(bool)
	if t, ok := raw["created_at"].(time.Time); ok {
		edit.CreatedAt = t
	}

	edit.ModificationType = MediaModificationAppend
	if mode, ok := raw["modification_type"].(string); ok && MediaModification(mode) == MediaModificationOverwrite {
		edit.ModificationType = MediaModificationOverwrite
	}

	data, _ := raw["data"].(map[string]interface{})
	allowed := make(map[string]interface{}, len(data))
	for k, v := range data {
		if IsForbiddenEditField(k) {
			edit.DroppedFields = append(edit.DroppedFields, k)
			continue
		}
		allowed[k] = v
	}
	sort.Strings(edit.DroppedFields)

	payload, err := decodePayload(allowed)
	if err != nil {
		return nil, err
	}
	edit.Data = *payload
	return edit, nil
}

func decodePayload(data map[string]interface{}) (*EditPayload, error) {
	typed := make(map[string]interface{}, len(typedEditFields))
	fields := make(map[string]interface{}, len(data))
	for k, v := range data {
		if k == "" {
			continue
		}
		if _, ok := typedEditFields[k]; ok {
			typed[k] = v
			continue
		}
		fields[k] = v
	}

	encoded, err := json.Marshal(typed)
	if err != nil {
		return nil, fmt.Errorf("%w: 編集データのエンコード失敗: %v", ErrInvalidEdit, err)
	}
	var pj editPayloadJSON
	if err := json.Unmarshal(encoded, &pj); err != nil {
		return nil, fmt.Errorf("%w: 編集データのデコード失敗: %v", ErrInvalidEdit, err)
	}
	if err := checkSpotShape(fields); err != nil {
		return nil, err
	}

	payload := &EditPayload{
		Amenities:          pj.Amenities,
		ExternalReferences: pj.ExternalReferences,
	}
	if len(fields) > 0 {
		payload.Fields = fields
	}
	for _, p := range pj.Bounds {
		if p.Valid() {
			payload.Bounds = append(payload.Bounds, p)
		}
	}
	if pj.Media != nil {
		payload.HasMedia = true
		for _, m := range *pj.Media {
			if m.URL != "" {
				payload.Media = append(payload.Media, m)
			}
		}
	}
	if len(pj.Location) > 0 && string(pj.Location) != "null" {
		loc, err := ParseLocation(pj.Location)
		if err != nil {
			return nil, err
		}
		payload.Location = loc
	}
	return payload, nil
}

// checkSpotShape 汎用フィールドのうちスポットで型が決まっているもの（name, tags など）の形を検証する
// 型の合わない値を書くと以後スポットを読み出せなくなるため、編集ごと拒否する
func checkSpotShape(fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	encoded, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("%w: 編集データのエンコード失敗: %v", ErrInvalidEdit, err)
	}
	var spot Spot
	if err := json.Unmarshal(encoded, &spot); err != nil {
		return fmt.Errorf("%w: スポットのフィールドと型が一致しません: %v", ErrInvalidEdit, err)
	}
	return nil
}

// ReconcileResult 編集適用の結果
type ReconcileResult struct {
	SpotID         string        `json:"spot_id"`
	EditID         string        `json:"edit_id"`
	Type           EditType      `json:"type"`
	Changes        []FieldChange `json:"-"`
	MediaAdded     int           `json:"media_added"`
	MediaRemoved   []MediaItem   `json:"media_removed,omitempty"`
	DeleteFailures int           `json:"delete_failures,omitempty"`
}
