package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/cenkalti/backoff/v5"
)

// Transaction 読み取ったバージョンを記録し、書き込みをコミットまで保留する
type Transaction struct {
	store        *Store
	readVersions map[string]int64
	writes       []write
}

// Get ドキュメントを読み、バージョンを記録する。存在しない場合もバージョン0として記録する
func (tx *Transaction) Get(path string) (*Document, error) {
	if len(tx.writes) > 0 {
		return nil, errors.New("docstore: reads must precede writes in a transaction")
	}
	tx.store.mu.RLock()
	defer tx.store.mu.RUnlock()

	doc, err := tx.store.snapshot(path)
	if errors.Is(err, ErrNotFound) {
		tx.readVersions[path] = 0
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	tx.readVersions[path] = doc.Version
	return doc, nil
}

func (tx *Transaction) Set(path string, data interface{}) {
	tx.writes = append(tx.writes, write{kind: writeSet, path: path, data: data})
}

func (tx *Transaction) Update(path string, updates []Update) {
	tx.writes = append(tx.writes, write{kind: writeUpdate, path: path, updates: updates})
}

func (tx *Transaction) Delete(path string) {
	tx.writes = append(tx.writes, write{kind: writeDelete, path: path})
}

// RunTransaction 読み取り→変更→書き込みを楽観的に実行する
// 読んだドキュメントがコミット前に変わっていれば、指数バックオフを挟んで fn を最初からやり直す
func (s *Store) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx *Transaction) error) error {
	operation := func() (struct{}, error) {
		tx := &Transaction{store: s, readVersions: make(map[string]int64)}
		if err := fn(ctx, tx); err != nil {
			return struct{}{}, backoff.Permanent(err)
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if err := s.apply(tx.writes, tx.readVersions); err != nil {
			if errors.Is(err, ErrConflict) {
				return struct{}{}, err
			}
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, nil
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(s.newBackOff()),
		backoff.WithMaxTries(s.maxAttempts),
	)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return fmt.Errorf("%d回試行しても競合が解消しません: %w", s.maxAttempts, err)
		}
		return err
	}
	return nil
}
