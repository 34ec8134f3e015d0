package model

import "strings"

// FieldChange ドキュメントに対するフィールド単位の変更
// Delete が true の場合、Path のキーをドキュメントから取り除く
type FieldChange struct {
	Path   []string
	Value  interface{}
	Delete bool
}

// SetField フィールドに値を設定する変更を作成
func SetField(value interface{}, path ...string) FieldChange {
	return FieldChange{Path: path, Value: value}
}

// DeleteField フィールドを削除する変更を作成
func DeleteField(path ...string) FieldChange {
	return FieldChange{Path: path, Delete: true}
}

// Key ドット区切りのパス表現
func (c FieldChange) Key() string {
	return strings.Join(c.Path, ".")
}
