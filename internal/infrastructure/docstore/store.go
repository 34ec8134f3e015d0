package docstore

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
)

var (
	// ErrNotFound ドキュメントが存在しない
	ErrNotFound = errors.New("docstore: document not found")
	// ErrConflict トランザクションで読んだドキュメントが他の書き込みで変わった
	ErrConflict = errors.New("docstore: transaction conflict")
)

// Document パスで識別される1ドキュメント
type Document struct {
	Path    string
	ID      string
	Data    map[string]interface{}
	Version int64
}

// Update フィールドパス単位の変更
type Update struct {
	Path   []string
	Value  interface{}
	Delete bool
}

type record struct {
	data    map[string]interface{}
	version int64
}

// Store メモリ上のドキュメントストア
// 書き込みごとにバージョンを進め、トランザクションは楽観的に検証して競合時に再試行する
type Store struct {
	mu          sync.RWMutex
	docs        map[string]*record
	maxAttempts uint
	newBackOff  func() backoff.BackOff
}

// Option Store の設定
type Option func(*Store)

// WithMaxAttempts トランザクションの最大試行回数
func WithMaxAttempts(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxAttempts = uint(n)
		}
	}
}

// WithBackOff 再試行間隔の生成方法を差し替える
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(s *Store) {
		s.newBackOff = newBackOff
	}
}

// New 空のストアを作成
func New(opts ...Option) *Store {
	s := &Store{
		docs:        make(map[string]*record),
		maxAttempts: 5,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 10 * time.Millisecond
			b.MaxInterval = 500 * time.Millisecond
			return b
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get ドキュメントを取得（返り値はコピー）
func (s *Store) Get(ctx context.Context, path string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(path)
}

func (s *Store) snapshot(path string) (*Document, error) {
	rec, ok := s.docs[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	data, err := copyMap(rec.data)
	if err != nil {
		return nil, err
	}
	return &Document{Path: path, ID: docID(path), Data: data, Version: rec.version}, nil
}

// Set ドキュメント全体を書き込む
func (s *Store) Set(ctx context.Context, path string, data interface{}) error {
	b := s.Batch()
	b.Set(path, data)
	return b.Commit(ctx)
}

// Update 既存ドキュメントのフィールドを更新する。存在しなければ ErrNotFound
func (s *Store) Update(ctx context.Context, path string, updates []Update) error {
	b := s.Batch()
	b.Update(path, updates)
	return b.Commit(ctx)
}

// Delete ドキュメントを削除する。存在しなくてもエラーにしない
func (s *Store) Delete(ctx context.Context, path string) error {
	b := s.Batch()
	b.Delete(path)
	return b.Commit(ctx)
}

// Query コレクション直下で field == value のドキュメントをID順に返す
func (s *Store) Query(ctx context.Context, collectionPath, field string, value interface{}) ([]*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	want, err := normalize(value)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := strings.TrimSuffix(collectionPath, "/") + "/"
	var docs []*Document
	for path, rec := range s.docs {
		if !strings.HasPrefix(path, prefix) || strings.Contains(strings.TrimPrefix(path, prefix), "/") {
			continue
		}
		if !reflect.DeepEqual(rec.data[field], want) {
			continue
		}
		doc, err := s.snapshot(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}

// List コレクション直下の全ドキュメントをID順に返す
func (s *Store) List(ctx context.Context, collectionPath string) ([]*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := strings.TrimSuffix(collectionPath, "/") + "/"
	var docs []*Document
	for path := range s.docs {
		if !strings.HasPrefix(path, prefix) || strings.Contains(strings.TrimPrefix(path, prefix), "/") {
			continue
		}
		doc, err := s.snapshot(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}

func docID(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
