package docstore

import (
	"encoding/json"
	"fmt"
)

// normalize 値をJSON互換の汎用表現（map/slice/float64/string/bool/nil）に変換する
func normalize(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("docstore: 値のエンコード失敗: %w", err)
	}
	var out interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("docstore: 値のデコード失敗: %w", err)
	}
	return out, nil
}

func toMap(v interface{}) (map[string]interface{}, error) {
	n, err := normalize(v)
	if err != nil {
		return nil, err
	}
	m, ok := n.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("docstore: ドキュメントはオブジェクトである必要があります (%T)", v)
	}
	return m, nil
}

func copyMap(m map[string]interface{}) (map[string]interface{}, error) {
	if m == nil {
		return map[string]interface{}{}, nil
	}
	return toMap(m)
}

// Decode ドキュメントのデータを構造体に変換する
func Decode(data map[string]interface{}, out interface{}) error {
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("docstore: ドキュメントのエンコード失敗: %w", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("docstore: ドキュメントのデコード失敗: %w", err)
	}
	return nil
}

// applyUpdate ネストしたパスに値を設定、または削除する。途中のマップは必要に応じて作成する
func applyUpdate(data map[string]interface{}, u Update) error {
	if len(u.Path) == 0 {
		return fmt.Errorf("docstore: 空のフィールドパス")
	}
	parent := data
	for _, key := range u.Path[:len(u.Path)-1] {
		next, ok := parent[key].(map[string]interface{})
		if !ok {
			if u.Delete {
				return nil
			}
			next = make(map[string]interface{})
			parent[key] = next
		}
		parent = next
	}

	last := u.Path[len(u.Path)-1]
	if u.Delete {
		delete(parent, last)
		return nil
	}
	v, err := normalize(u.Value)
	if err != nil {
		return err
	}
	parent[last] = v
	return nil
}
