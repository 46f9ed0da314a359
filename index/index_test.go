package index

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/poiesic/hirex/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(id core.ID) core.IndexEntry {
	return core.IndexEntry{CandidateID: id, Name: "candidate"}
}

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := New(2)
	require.NoError(t, err)
	require.NoError(t, ix.Add(
		[][]float32{{1, 0}, {0, 1}, {0.6, 0.8}, {1, 0}},
		[]core.IndexEntry{entry(1), entry(2), entry(3), entry(4)},
	))
	return ix
}

func TestNew(t *testing.T) {
	_, err := New(0)
	assert.ErrorIs(t, err, ErrInvalidDimension)

	ix, err := New(384)
	require.NoError(t, err)
	assert.Equal(t, 384, ix.Dim())
	assert.Equal(t, 0, ix.Len())
}

func TestAdd(t *testing.T) {
	t.Run("length mismatch", func(t *testing.T) {
		ix, _ := New(2)
		err := ix.Add([][]float32{{1, 0}}, nil)
		assert.ErrorIs(t, err, ErrLengthMismatch)
	})

	t.Run("dimension mismatch leaves index unchanged", func(t *testing.T) {
		ix := newTestIndex(t)
		err := ix.Add([][]float32{{1, 0}, {1, 0, 0}}, []core.IndexEntry{entry(5), entry(6)})
		assert.ErrorIs(t, err, ErrDimensionMismatch)
		assert.Equal(t, 4, ix.Len())
	})

	t.Run("empty input is a no-op", func(t *testing.T) {
		ix := newTestIndex(t)
		require.NoError(t, ix.Add(nil, nil))
		assert.Equal(t, 4, ix.Len())
	})

	t.Run("duplicates are kept", func(t *testing.T) {
		ix := newTestIndex(t)
		require.NoError(t, ix.Add([][]float32{{1, 0}}, []core.IndexEntry{entry(1)}))
		assert.Equal(t, 5, ix.Len())
	})
}

func TestSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("ordered by score with insertion tie-break", func(t *testing.T) {
		ix := newTestIndex(t)
		rows, err := ix.Search(ctx, [][]float32{{1, 0}}, 3)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		require.Len(t, rows[0], 3)

		assert.Equal(t, core.ID(1), rows[0][0].Entry.CandidateID)
		assert.Equal(t, core.ID(4), rows[0][1].Entry.CandidateID)
		assert.Equal(t, core.ID(3), rows[0][2].Entry.CandidateID)
		assert.InDelta(t, 0.6, rows[0][2].Score, 1e-6)
	})

	t.Run("k larger than index returns everything", func(t *testing.T) {
		ix := newTestIndex(t)
		rows, err := ix.Search(ctx, [][]float32{{0, 1}}, 50)
		require.NoError(t, err)
		assert.Len(t, rows[0], 4)
		assert.Equal(t, core.ID(2), rows[0][0].Entry.CandidateID)
	})

	t.Run("multiple queries keep query order", func(t *testing.T) {
		ix := newTestIndex(t)
		rows, err := ix.Search(ctx, [][]float32{{0, 1}, {1, 0}}, 1)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, core.ID(2), rows[0][0].Entry.CandidateID)
		assert.Equal(t, core.ID(1), rows[1][0].Entry.CandidateID)
	})

	t.Run("empty index returns empty rows", func(t *testing.T) {
		ix, _ := New(2)
		rows, err := ix.Search(ctx, [][]float32{{1, 0}}, 5)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.NotNil(t, rows[0])
		assert.Empty(t, rows[0])
	})

	t.Run("query dimension mismatch", func(t *testing.T) {
		ix := newTestIndex(t)
		_, err := ix.Search(ctx, [][]float32{{1, 0, 0}}, 1)
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ix := newTestIndex(t)
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := ix.Search(cctx, [][]float32{{1, 0}}, 1)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestConcurrentAddAndSearch(t *testing.T) {
	ix, _ := New(2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			_ = ix.Add([][]float32{{1, 0}, {0, 1}}, []core.IndexEntry{entry(core.ID(2*i + 1)), entry(core.ID(2*i + 2))})
		}
	}()

	for i := 0; i < 50; i++ {
		rows, err := ix.Search(context.Background(), [][]float32{{1, 0}}, 1000)
		require.NoError(t, err)
		assert.Equal(t, 0, len(rows[0])%2, "search observed a partial add")
	}
	wg.Wait()
	assert.Equal(t, 200, ix.Len())
}

func TestSwap(t *testing.T) {
	live := newTestIndex(t)
	next, _ := New(2)
	require.NoError(t, next.Add([][]float32{{0, 1}}, []core.IndexEntry{entry(42)}))

	require.NoError(t, live.Swap(next))
	assert.Equal(t, 1, live.Len())
	assert.Equal(t, core.ID(42), live.Entries()[0].CandidateID)
	assert.Equal(t, 0, next.Len())

	other, _ := New(3)
	assert.ErrorIs(t, live.Swap(other), ErrDimensionMismatch)
}

func TestStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	ix := newTestIndex(t)
	require.NoError(t, store.Save(ix))

	loaded, err := store.Load(2)
	require.NoError(t, err)
	assert.Equal(t, ix.Entries(), loaded.Entries())

	q := [][]float32{{0.8, 0.6}}
	want, err := ix.Search(context.Background(), q, 3)
	require.NoError(t, err)
	got, err := loaded.Search(context.Background(), q, 3)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStoreLoadMissing(t *testing.T) {
	ix, err := NewStore(t.TempDir()).Load(8)
	require.NoError(t, err)
	assert.Equal(t, 0, ix.Len())
	assert.Equal(t, 8, ix.Dim())
}

func TestStoreLoadFailures(t *testing.T) {
	t.Run("dimension differs", func(t *testing.T) {
		store := NewStore(t.TempDir())
		require.NoError(t, store.Save(newTestIndex(t)))
		_, err := store.Load(3)
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})

	t.Run("metadata truncated", func(t *testing.T) {
		store := NewStore(t.TempDir())
		require.NoError(t, store.Save(newTestIndex(t)))

		data, err := os.ReadFile(store.MetaPath)
		require.NoError(t, err)
		lines := 0
		cut := 0
		for i, b := range data {
			if b == '\n' {
				lines++
				if lines == 2 {
					cut = i + 1
					break
				}
			}
		}
		require.NoError(t, os.WriteFile(store.MetaPath, data[:cut], 0o644))

		_, err = store.Load(2)
		assert.ErrorIs(t, err, ErrCorruptIndex)
	})

	t.Run("metadata missing", func(t *testing.T) {
		store := NewStore(t.TempDir())
		require.NoError(t, store.Save(newTestIndex(t)))
		require.NoError(t, os.Remove(store.MetaPath))

		_, err := store.Load(2)
		assert.ErrorIs(t, err, ErrCorruptIndex)
	})

	t.Run("vectors missing", func(t *testing.T) {
		store := NewStore(t.TempDir())
		require.NoError(t, store.Save(newTestIndex(t)))
		require.NoError(t, os.Remove(store.VectorPath))

		_, err := store.Load(2)
		assert.ErrorIs(t, err, ErrCorruptIndex)
	})

	t.Run("vectors missing with empty metadata", func(t *testing.T) {
		store := NewStore(t.TempDir())
		require.NoError(t, os.WriteFile(store.MetaPath, nil, 0o644))

		ix, err := store.Load(2)
		require.NoError(t, err)
		assert.Equal(t, 0, ix.Len())
	})

	t.Run("vector file truncated", func(t *testing.T) {
		store := NewStore(t.TempDir())
		require.NoError(t, store.Save(newTestIndex(t)))

		data, err := os.ReadFile(store.VectorPath)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(store.VectorPath, data[:len(data)-3], 0o644))

		_, err = store.Load(2)
		assert.ErrorIs(t, err, ErrCorruptIndex)
	})

	t.Run("bad header", func(t *testing.T) {
		dir := t.TempDir()
		store := NewStore(dir)
		require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultVectorFile), []byte("junk"), 0o644))
		_, err := store.Load(2)
		assert.ErrorIs(t, err, ErrCorruptIndex)
	})
}
