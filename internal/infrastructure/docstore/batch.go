package docstore

import (
	"context"
	"fmt"
)

type writeKind int

const (
	writeSet writeKind = iota
	writeUpdate
	writeDelete
)

type write struct {
	kind    writeKind
	path    string
	data    interface{}
	updates []Update
}

// WriteBatch 全件成功か全件失敗かのどちらかになる書き込みの束
type WriteBatch struct {
	store  *Store
	writes []write
}

// Batch 新しいバッチを作成
func (s *Store) Batch() *WriteBatch {
	return &WriteBatch{store: s}
}

func (b *WriteBatch) Set(path string, data interface{}) *WriteBatch {
	b.writes = append(b.writes, write{kind: writeSet, path: path, data: data})
	return b
}

func (b *WriteBatch) Update(path string, updates []Update) *WriteBatch {
	b.writes = append(b.writes, write{kind: writeUpdate, path: path, updates: updates})
	return b
}

func (b *WriteBatch) Delete(path string) *WriteBatch {
	b.writes = append(b.writes, write{kind: writeDelete, path: path})
	return b
}

// Len バッチ内の書き込み数
func (b *WriteBatch) Len() int {
	return len(b.writes)
}

// Commit バッチを適用する
func (b *WriteBatch) Commit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	return b.store.apply(b.writes, nil)
}

// apply ロック保持中に呼ぶ。readVersions が与えられた場合は先に全件を検証する
// 途中で失敗した場合はどの書き込みも反映しない
func (s *Store) apply(writes []write, readVersions map[string]int64) error {
	for path, version := range readVersions {
		current := int64(0)
		if rec, ok := s.docs[path]; ok {
			current = rec.version
		}
		if current != version {
			return fmt.Errorf("%s: %w", path, ErrConflict)
		}
	}

	staged := make(map[string]*record)
	lookup := func(path string) (*record, bool) {
		if rec, ok := staged[path]; ok {
			return rec, rec != nil
		}
		rec, ok := s.docs[path]
		return rec, ok
	}

	for _, w := range writes {
		switch w.kind {
		case writeSet:
			data, err := toMap(w.data)
			if err != nil {
				return fmt.Errorf("%s: %w", w.path, err)
			}
			staged[w.path] = &record{data: data}
		case writeUpdate:
			rec, ok := lookup(w.path)
			if !ok {
				return fmt.Errorf("%s: %w", w.path, ErrNotFound)
			}
			data, err := copyMap(rec.data)
			if err != nil {
				return err
			}
			for _, u := range w.updates {
				if err := applyUpdate(data, u); err != nil {
					return fmt.Errorf("%s: %w", w.path, err)
				}
			}
			staged[w.path] = &record{data: data}
		case writeDelete:
			staged[w.path] = nil
		}
	}

	for path, rec := range staged {
		if rec == nil {
			delete(s.docs, path)
			continue
		}
		version := int64(1)
		if prev, ok := s.docs[path]; ok {
			version = prev.version + 1
		}
		rec.version = version
		s.docs[path] = rec
	}
	return nil
}
