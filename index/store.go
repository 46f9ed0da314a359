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
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/hirex/core"
)

const (
	vectorMagic   = "HRXV"
	vectorVersion = 1

	// DefaultVectorFile is the vector store file name inside a data directory.
	DefaultVectorFile = "vectors.bin"
	// DefaultMetaFile is the metadata file name inside a data directory.
	DefaultMetaFile = "vectors.meta.jsonl"
)

// Store persists an Index as a binary vector file plus a metadata file
// holding one JSON entry per line, both in insertion order.
type Store struct {
	VectorPath string
	MetaPath   string
	logger     *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used by the store.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates a Store using the default file names inside dir.
func NewStore(dir string, opts ...StoreOption) *Store {
	s := &Store{
		VectorPath: filepath.Join(dir, DefaultVectorFile),
		MetaPath:   filepath.Join(dir, DefaultMetaFile),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "index-store")
	return s
}

// Save writes a snapshot of ix. Each file is written to a temporary file
// and renamed into place, metadata first.
func (s *Store) Save(ix *Index) error {
	ix.mu.RLock()
	dim := ix.dim
	arena := append([]float32(nil), ix.arena...)
	entries := append([]core.IndexEntry(nil), ix.entries...)
	ix.mu.RUnlock()

	var meta bytes.Buffer
	enc := json.NewEncoder(&meta)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("failed to encode index entry %d: %w", e.CandidateID, err)
		}
	}

	if err := writeAtomic(s.MetaPath, meta.Bytes()); err != nil {
		return fmt.Errorf("failed to write index metadata: %w", err)
	}
	if err := writeAtomic(s.VectorPath, encodeVectors(dim, len(entries), arena)); err != nil {
		return fmt.Errorf("failed to write index vectors: %w", err)
	}
	s.logger.Debug("saved index", "vectors", len(entries), "dim", dim)
	return nil
}

// Load reads a persisted index. Missing storage, or a missing vector file
// next to empty metadata, yields a fresh empty index of dimension dim. A stored dimension other than dim fails with
// ErrDimensionMismatch; misaligned files fail with ErrCorruptIndex.
func (s *Store) Load(dim int) (*Index, error) {
	ix, err := New(dim)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.VectorPath)
	if errors.Is(err, fs.ErrNotExist) {
		entries, err := s.readMeta()
		if err != nil {
			return nil, err
		}
		if len(entries) > 0 {
			return nil, fmt.Errorf("%w: 0 vectors but %d metadata entries", ErrCorruptIndex, len(entries))
		}
		s.logger.Info("no stored index found, starting empty", "path", s.VectorPath)
		return ix, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read index vectors: %w", err)
	}

	storedDim, count, arena, err := decodeVectors(data)
	if err != nil {
		return nil, err
	}
	if storedDim != dim {
		return nil, fmt.Errorf("%w: stored index has %d dimensions, expected %d", ErrDimensionMismatch, storedDim, dim)
	}

	entries, err := s.readMeta()
	if err != nil {
		return nil, err
	}
	if len(entries) != count {
		return nil, fmt.Errorf("%w: %d vectors but %d metadata entries", ErrCorruptIndex, count, len(entries))
	}

	ix.arena = arena
	ix.entries = entries
	s.logger.Debug("loaded index", "vectors", count, "dim", dim)
	return ix, nil
}

func (s *Store) readMeta() ([]core.IndexEntry, error) {
	f, err := os.Open(s.MetaPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open index metadata: %w", err)
	}
	defer f.Close()

	var entries []core.IndexEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for line := 1; scanner.Scan(); line++ {
		if len(bytes.TrimSpace(scanner.Bytes())) == 0 {
			continue
		}
		var e core.IndexEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("%w: metadata line %d: %w", ErrCorruptIndex, line, err)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read index metadata: %w", err)
	}
	return entries, nil
}

func encodeVectors(dim, count int, arena []float32) []byte {
	size := ord.String.Size(vectorMagic) + varint.Uint64.Size(vectorVersion) +
		varint.Int.Size(dim) + varint.Int.Size(count)
	for _, x := range arena {
		size += raw.Float32.Size(x)
	}

	buf := make([]byte, size)
	n := ord.String.Marshal(vectorMagic, buf)
	n += varint.Uint64.Marshal(vectorVersion, buf[n:])
	n += varint.Int.Marshal(dim, buf[n:])
	n += varint.Int.Marshal(count, buf[n:])
	for _, x := range arena {
		n += raw.Float32.Marshal(x, buf[n:])
	}
	return buf[:n]
}

func decodeVectors(data []byte) (dim, count int, arena []float32, err error) {
	magic, n, err := ord.String.Unmarshal(data)
	if err != nil || magic != vectorMagic {
		return 0, 0, nil, fmt.Errorf("%w: bad vector file header", ErrCorruptIndex)
	}
	version, m, err := varint.Uint64.Unmarshal(data[n:])
	if err != nil || version != vectorVersion {
		return 0, 0, nil, fmt.Errorf("%w: unsupported vector file version", ErrCorruptIndex)
	}
	n += m
	dim, m, err = varint.Int.Unmarshal(data[n:])
	if err != nil || dim <= 0 {
		return 0, 0, nil, fmt.Errorf("%w: bad vector dimension", ErrCorruptIndex)
	}
	n += m
	count, m, err = varint.Int.Unmarshal(data[n:])
	if err != nil || count < 0 {
		return 0, 0, nil, fmt.Errorf("%w: bad vector count", ErrCorruptIndex)
	}
	n += m

	want := dim * count
	if len(data)-n != want*4 {
		return 0, 0, nil, fmt.Errorf("%w: expected %d floats, file holds %d bytes", ErrCorruptIndex, want, len(data)-n)
	}
	arena = make([]float32, want)
	for i := range arena {
		arena[i], m, err = raw.Float32.Unmarshal(data[n:])
		if err != nil {
			return 0, 0, nil, fmt.Errorf("%w: %w", ErrCorruptIndex, err)
		}
		n += m
	}
	return dim, count, arena, nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
