// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package index

import (
	"container/heap"
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/poiesic/hirex/core"
	"golang.org/x/sync/errgroup"
)

// Hit is a single search result.
type Hit struct {
	Entry    core.IndexEntry
	Score    float32
	Position int // Insertion position of the vector
}

// Index is an append-only, exact inner-product index over fixed-dimension
// vectors. Vectors live in a single arena; the i-th vector and the i-th
// entry share position i for the life of the index.
//
// Search may run concurrently with Add; a search sees either all or none
// of an Add. Callers serialize Add with Save.
type Index struct {
	mu      sync.RWMutex
	dim     int
	arena   []float32
	entries []core.IndexEntry
}

// New creates an empty index of dimension dim.
func New(dim int) (*Index, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDimension, dim)
	}
	return &Index{dim: dim}, nil
}

// Dim returns the vector dimension.
func (ix *Index) Dim() int {
	return ix.dim
}

// Len returns the number of stored vectors.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// Entries returns a copy of the stored metadata in insertion order.
func (ix *Index) Entries() []core.IndexEntry {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	out := make([]core.IndexEntry, len(ix.entries))
	copy(out, ix.entries)
	return out
}

// Add appends vectors and their parallel entries. Every vector is checked
// before anything is stored, so a failed Add leaves the index unchanged.
// Duplicate vectors or entries are not detected.
func (ix *Index) Add(vectors [][]float32, entries []core.IndexEntry) error {
	if len(vectors) != len(entries) {
		return fmt.Errorf("%w: %d vectors, %d entries", ErrLengthMismatch, len(vectors), len(entries))
	}
	if len(vectors) == 0 {
		return nil
	}
	for i, v := range vectors {
		if len(v) != ix.dim {
			return fmt.Errorf("%w: vector %d has %d dimensions, index has %d", ErrDimensionMismatch, i, len(v), ix.dim)
		}
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	for _, v := range vectors {
		ix.arena = append(ix.arena, v...)
	}
	ix.entries = append(ix.entries, entries...)
	return nil
}

// Swap replaces the contents of ix with those of next, which must have the
// same dimension. next should not be used afterwards.
func (ix *Index) Swap(next *Index) error {
	if next.dim != ix.dim {
		return fmt.Errorf("%w: replacement has %d dimensions, index has %d", ErrDimensionMismatch, next.dim, ix.dim)
	}
	next.mu.Lock()
	arena, entries := next.arena, next.entries
	next.arena, next.entries = nil, nil
	next.mu.Unlock()

	ix.mu.Lock()
	ix.arena, ix.entries = arena, entries
	ix.mu.Unlock()
	return nil
}

// Search returns, for each query vector, up to k hits ordered by
// descending inner product. Equal scores keep insertion order. An empty
// index yields one empty row per query.
func (ix *Index) Search(ctx context.Context, queries [][]float32, k int) ([][]Hit, error) {
	for i, q := range queries {
		if len(q) != ix.dim {
			return nil, fmt.Errorf("%w: query %d has %d dimensions, index has %d", ErrDimensionMismatch, i, len(q), ix.dim)
		}
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	rows := make([][]Hit, len(queries))
	if len(ix.entries) == 0 || k <= 0 {
		for i := range rows {
			rows[i] = []Hit{}
		}
		return rows, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, q := range queries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows[i] = ix.topK(q, k)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

// topK scans the arena and keeps the k best hits. Callers hold the read lock.
func (ix *Index) topK(q []float32, k int) []Hit {
	n := len(ix.entries)
	if k > n {
		k = n
	}
	h := make(hitHeap, 0, k)
	for pos := 0; pos < n; pos++ {
		row := ix.arena[pos*ix.dim : (pos+1)*ix.dim]
		var score float32
		for j, x := range row {
			score += x * q[j]
		}
		hit := Hit{Entry: ix.entries[pos], Score: score, Position: pos}
		if len(h) < k {
			heap.Push(&h, hit)
		} else if better(hit, h[0]) {
			h[0] = hit
			heap.Fix(&h, 0)
		}
	}
	out := []Hit(h)
	sort.Slice(out, func(a, b int) bool { return better(out[a], out[b]) })
	return out
}

// better orders hits by score, then by earlier insertion.
func better(a, b Hit) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Position < b.Position
}

// hitHeap is a min-heap with the worst kept hit at the root.
type hitHeap []Hit

func (h hitHeap) Len() int           { return len(h) }
func (h hitHeap) Less(i, j int) bool { return better(h[j], h[i]) }
func (h hitHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *hitHeap) Push(x any)        { *h = append(*h, x.(Hit)) }
func (h *hitHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
