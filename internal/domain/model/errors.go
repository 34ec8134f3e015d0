package model

import "errors"

var (
	// ErrNotFound ドキュメントが存在しない
	ErrNotFound = errors.New("document not found")
	// ErrInvalidLocation 位置情報が緯度経度ペアでもジオポイントでもない
	ErrInvalidLocation = errors.New("invalid location")
	// ErrReservedChunkID 予約済みのチャンクIDをデータとして処理しようとした
	ErrReservedChunkID = errors.New("chunk id is reserved")
	// ErrConflict 楽観的トランザクションの競合
	ErrConflict = errors.New("transaction conflict")
	// ErrBatchTooLarge 一括書き込みの上限超過
	ErrBatchTooLarge = errors.New("batch exceeds write limit")
	// ErrInvalidEdit 編集ドキュメントの形式不正
	ErrInvalidEdit = errors.New("invalid edit")
)
