package model

import (
	"bytes"
	"encoding/json"
)

// Nullable マージペイロード内の値。キー不在（マップに無い）/ null（削除）/ 値あり の三状態を表す
type Nullable[T any] struct {
	Value T
	Null  bool
}

// Present 値ありの Nullable を作成
func Present[T any](v T) Nullable[T] {
	return Nullable[T]{Value: v}
}

// Deleted 削除を意味する Nullable を作成
func Deleted[T any]() Nullable[T] {
	return Nullable[T]{Null: true}
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		n.Value = zero
		n.Null = true
		return nil
	}
	n.Null = false
	return json.Unmarshal(data, &n.Value)
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if n.Null {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}
