package docstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/cenkalti/backoff/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(attempts int) *Store {
	return New(
		WithMaxAttempts(attempts),
		WithBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} }),
	)
}

type counter struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestStore_SetGetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(5)

	require.NoError(t, s.Set(ctx, "things/a", counter{Name: "a", Count: 1}))

	doc, err := s.Get(ctx, "things/a")
	require.NoError(t, err)
	assert.Equal(t, "a", doc.ID)
	assert.Equal(t, int64(1), doc.Version)

	var c counter
	require.NoError(t, Decode(doc.Data, &c))
	assert.Equal(t, counter{Name: "a", Count: 1}, c)

	require.NoError(t, s.Update(ctx, "things/a", []Update{
		{Path: []string{"count"}, Value: 2},
		{Path: []string{"meta", "owner"}, Value: "u1"},
		{Path: []string{"name"}, Delete: true},
		{Path: []string{"missing", "key"}, Delete: true},
	}))
	doc, err = s.Get(ctx, "things/a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), doc.Version)
	assert.Equal(t, float64(2), doc.Data["count"])
	assert.Equal(t, map[string]interface{}{"owner": "u1"}, doc.Data["meta"])
	assert.NotContains(t, doc.Data, "name")
	assert.NotContains(t, doc.Data, "missing")

	require.NoError(t, s.Delete(ctx, "things/a"))
	_, err = s.Get(ctx, "things/a")
	assert.ErrorIs(t, err, ErrNotFound)

	// 存在しないドキュメントの削除はエラーにならない
	assert.NoError(t, s.Delete(ctx, "things/a"))
	assert.ErrorIs(t, s.Update(ctx, "things/a", []Update{{Path: []string{"count"}, Value: 1}}), ErrNotFound)
}

func TestStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(5)
	require.NoError(t, s.Set(ctx, "things/a", map[string]interface{}{"nested": map[string]interface{}{"k": "v"}}))

	doc, err := s.Get(ctx, "things/a")
	require.NoError(t, err)
	doc.Data["nested"].(map[string]interface{})["k"] = "changed"

	doc, err = s.Get(ctx, "things/a")
	require.NoError(t, err)
	assert.Equal(t, "v", doc.Data["nested"].(map[string]interface{})["k"])
}

func TestStore_QueryDirectChildrenOnly(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(5)
	require.NoError(t, s.Set(ctx, "jobs/j1/chunks/b", map[string]interface{}{"status": "FAILED"}))
	require.NoError(t, s.Set(ctx, "jobs/j1/chunks/a", map[string]interface{}{"status": "FAILED"}))
	require.NoError(t, s.Set(ctx, "jobs/j1/chunks/c", map[string]interface{}{"status": "COMPLETED"}))
	require.NoError(t, s.Set(ctx, "jobs/j1/chunks/a/nested/x", map[string]interface{}{"status": "FAILED"}))
	require.NoError(t, s.Set(ctx, "jobs/j2/chunks/a", map[string]interface{}{"status": "FAILED"}))

	docs, err := s.Query(ctx, "jobs/j1/chunks", "status", "FAILED")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].ID)
	assert.Equal(t, "b", docs[1].ID)

	all, err := s.List(ctx, "jobs/j1/chunks")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestBatch_IsAtomic(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(5)

	err := s.Batch().
		Set("things/a", map[string]interface{}{"n": 1}).
		Update("things/missing", []Update{{Path: []string{"n"}, Value: 2}}).
		Commit(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Get(ctx, "things/a")
	assert.ErrorIs(t, err, ErrNotFound, "失敗したバッチの書き込みは反映されない")

	b := s.Batch().
		Set("things/a", map[string]interface{}{"n": 1}).
		Update("things/a", []Update{{Path: []string{"n"}, Value: 2}})
	assert.Equal(t, 2, b.Len())
	require.NoError(t, b.Commit(ctx))

	doc, err := s.Get(ctx, "things/a")
	require.NoError(t, err)
	assert.Equal(t, float64(2), doc.Data["n"])
}

func TestRunTransaction_RetriesOnConflict(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(5)
	require.NoError(t, s.Set(ctx, "counters/c", counter{Count: 0}))

	attempts := 0
	err := s.RunTransaction(ctx, func(ctx context.Context, tx *Transaction) error {
		attempts++
		doc, err := tx.Get("counters/c")
		if err != nil {
			return err
		}
		var c counter
		if err := Decode(doc.Data, &c); err != nil {
			return err
		}
		if attempts == 1 {
			// 読み取り後に別の書き込みが割り込む
			require.NoError(t, s.Update(ctx, "counters/c", []Update{{Path: []string{"count"}, Value: 10}}))
		}
		tx.Update("counters/c", []Update{{Path: []string{"count"}, Value: c.Count + 1}})
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)

	doc, err := s.Get(ctx, "counters/c")
	require.NoError(t, err)
	assert.Equal(t, float64(11), doc.Data["count"])
}

func TestRunTransaction_GivesUpAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(3)
	require.NoError(t, s.Set(ctx, "counters/c", counter{}))

	attempts := 0
	err := s.RunTransaction(ctx, func(ctx context.Context, tx *Transaction) error {
		attempts++
		if _, err := tx.Get("counters/c"); err != nil {
			return err
		}
		require.NoError(t, s.Update(ctx, "counters/c", []Update{{Path: []string{"count"}, Value: attempts}}))
		tx.Update("counters/c", []Update{{Path: []string{"name"}, Value: "tx"}})
		return nil
	})
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 3, attempts)
}

func TestRunTransaction_FunctionErrorIsNotRetried(t *testing.T) {
	s := newTestStore(5)
	boom := errors.New("boom")

	attempts := 0
	err := s.RunTransaction(context.Background(), func(ctx context.Context, tx *Transaction) error {
		attempts++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, attempts)
}

func TestRunTransaction_MissingDocumentConflictsWithCreate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(5)

	attempts := 0
	err := s.RunTransaction(ctx, func(ctx context.Context, tx *Transaction) error {
		attempts++
		_, err := tx.Get("users/u1")
		if !errors.Is(err, ErrNotFound) && err != nil {
			return err
		}
		if attempts == 1 {
			require.NoError(t, s.Set(ctx, "users/u1", counter{Count: 5}))
		}
		tx.Set("users/u1", counter{Count: 1})
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestRunTransaction_ConcurrentIncrements(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(1000)
	require.NoError(t, s.Set(ctx, "counters/c", counter{}))

	const workers, perWorker = 8, 25
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				err := s.RunTransaction(ctx, func(ctx context.Context, tx *Transaction) error {
					doc, err := tx.Get("counters/c")
					if err != nil {
						return err
					}
					var c counter
					if err := Decode(doc.Data, &c); err != nil {
						return err
					}
					tx.Update("counters/c", []Update{{Path: []string{"count"}, Value: c.Count + 1}})
					return nil
				})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	doc, err := s.Get(ctx, "counters/c")
	require.NoError(t, err)
	assert.Equal(t, float64(workers*perWorker), doc.Data["count"])
}
