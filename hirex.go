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

// Package hirex ranks stored resumes against natural-language recruiter
// prompts. Engine ties together the candidate store, the vector index,
// and the embedding provider that the ingestion, search and reembed
// packages operate on.
package hirex

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/poiesic/hirex/ai"
	"github.com/poiesic/hirex/ai/openai"
	"github.com/poiesic/hirex/index"
	"github.com/poiesic/hirex/ingestion"
	"github.com/poiesic/hirex/reembed"
	"github.com/poiesic/hirex/search"
	"github.com/poiesic/hirex/storage"
	"github.com/poiesic/hirex/storage/badger"
)

// CandidatesDir is the badger directory inside the data directory.
const CandidatesDir = "candidates"

// Engine owns the stores of one data directory.
type Engine struct {
	backend  *badger.Backend
	repo     storage.CandidateRepository
	ix       *index.Index
	store    *index.Store
	embedder ai.Embedder
	lock     sync.Mutex // serializes index writers
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	aiConfig  *ai.Config
	embedder  ai.Embedder
	dimension int
	logger    *slog.Logger
}

// WithAIConfig sets the embedding provider configuration.
func WithAIConfig(config *ai.Config) Option {
	return func(o *engineOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithEmbedder uses embedder instead of building one from the AI config.
func WithEmbedder(embedder ai.Embedder) Option {
	return func(o *engineOptions) {
		o.embedder = embedder
	}
}

// WithDimension sets the index dimension, overriding the AI config.
func WithDimension(dim int) Option {
	return func(o *engineOptions) {
		o.dimension = dim
	}
}

// WithLogger sets the logger. A nil logger uses slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// Open opens or creates the data directory: candidates in badger under
// <dataDir>/candidates and the vector index in <dataDir>/vectors.bin and
// <dataDir>/vectors.meta.jsonl.
func Open(dataDir string, opts ...Option) (*Engine, error) {
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	dim := options.dimension
	if dim <= 0 {
		dim = options.aiConfig.Dimension
	}

	embedder := options.embedder
	if embedder == nil {
		cfg := *options.aiConfig
		cfg.Dimension = dim
		var err error
		embedder, err = openai.NewEmbedder(&cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create embedder: %w", err)
		}
	}

	backend, err := badger.OpenBackend(filepath.Join(dataDir, CandidatesDir), false, badger.WithLogger(options.logger))
	if err != nil {
		return nil, err
	}

	repo, err := badger.NewCandidateRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	store := index.NewStore(dataDir, index.WithLogger(options.logger))
	ix, err := store.Load(dim)
	if err != nil {
		repo.Close()
		backend.Close()
		return nil, err
	}

	logger := options.logger.With("component", "engine")
	logger.Debug("opened data directory", "path", dataDir, "vectors", ix.Len(), "dim", dim)

	return &Engine{
		backend:  backend,
		repo:     repo,
		ix:       ix,
		store:    store,
		embedder: embedder,
		logger:   logger,
	}, nil
}

func (e *Engine) Close() error {
	var errs []error
	if err := e.repo.Close(); err != nil {
		e.logger.Error("error closing candidate repository", "err", err)
		errs = append(errs, err)
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (e *Engine) CandidateRepository() storage.CandidateRepository {
	return e.repo
}

func (e *Engine) Index() *index.Index {
	return e.ix
}

func (e *Engine) Embedder() ai.Embedder {
	return e.embedder
}

// NewIngestionPipeline returns a pipeline that persists the index after
// every ingest. Options given here override the engine defaults.
func (e *Engine) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	base := []ingestion.Option{
		ingestion.WithStore(e.store),
		ingestion.WithLocker(&e.lock),
	}
	return ingestion.NewPipeline(e.repo, e.ix, e.embedder, append(base, opts...)...)
}

func (e *Engine) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(e.repo, e.ix, e.embedder, opts...)
}

// NewReembedder returns a reembedder that rebuilds the engine's index and
// saves it. A nil config uses reembed.DefaultConfig().
func (e *Engine) NewReembedder(config *reembed.Config, opts ...reembed.Option) (*reembed.Reembedder, error) {
	base := []reembed.Option{
		reembed.WithStore(e.store),
		reembed.WithLocker(&e.lock),
	}
	return reembed.NewReembedder(e.repo, e.embedder, e.ix, config, append(base, opts...)...)
}
