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

package reembed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/poiesic/hirex/ai"
	"github.com/poiesic/hirex/core"
	"github.com/poiesic/hirex/index"
	"github.com/poiesic/hirex/storage"
	"golang.org/x/time/rate"
)

// Config holds configuration for a rebuild.
type Config struct {
	// BatchSize is the number of candidates embedded per request
	BatchSize int

	// ReportInterval is how often to report progress (number of candidates)
	ReportInterval int

	// MaxRetries is the maximum number of attempts per batch
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// MaxRetryDelay caps the backoff delay. Zero means uncapped.
	MaxRetryDelay time.Duration

	// RequestsPerSecond limits embedding requests. Zero means unlimited.
	RequestsPerSecond float64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
		MaxRetryDelay:  30 * time.Second,
	}
}

// Validate reports the first out-of-range field.
func (c *Config) Validate() error {
	switch {
	case c.BatchSize < 1:
		return fmt.Errorf("%w: BatchSize must be positive", ErrInvalidConfig)
	case c.ReportInterval < 1:
		return fmt.Errorf("%w: ReportInterval must be positive", ErrInvalidConfig)
	case c.MaxRetries < 1:
		return fmt.Errorf("%w: %w", ErrInvalidConfig, ErrInvalidMaxAttempts)
	case c.RetryDelay < 0 || c.MaxRetryDelay < 0:
		return fmt.Errorf("%w: retry delays must not be negative", ErrInvalidConfig)
	case c.RequestsPerSecond < 0:
		return fmt.Errorf("%w: RequestsPerSecond must not be negative", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) backoff() Backoff {
	return Backoff{Attempts: c.MaxRetries, BaseDelay: c.RetryDelay, MaxDelay: c.MaxRetryDelay}
}

func (c *Config) limiter() *rate.Limiter {
	if c.RequestsPerSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(c.RequestsPerSecond), 1)
}

// Option configures a Reembedder.
type Option func(*Reembedder) error

// WithLogger sets the logger. A nil logger uses slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reembedder) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger.With("component", "reembedder")
		return nil
	}
}

// WithStore persists the rebuilt index.
func WithStore(store *index.Store) Option {
	return func(r *Reembedder) error {
		r.store = store
		return nil
	}
}

// WithLocker sets the lock shared with ingestion. The final catch-up and
// swap run while it is held.
func WithLocker(lock sync.Locker) Option {
	return func(r *Reembedder) error {
		if lock != nil {
			r.lock = lock
		}
		return nil
	}
}

// WithProgress sets where progress lines are written.
func WithProgress(w io.Writer) Option {
	return func(r *Reembedder) error {
		r.progress = w
		return nil
	}
}

// Result summarizes a completed rebuild.
type Result struct {
	Indexed int
	Elapsed time.Duration
}

// Reembedder rebuilds the live index from every stored candidate.
type Reembedder struct {
	repo     storage.CandidateRepository
	embedder ai.Embedder
	live     *index.Index
	store    *index.Store
	lock     sync.Locker
	config   *Config
	progress io.Writer
	logger   *slog.Logger
}

// NewReembedder creates a reembedder that replaces live when Run
// succeeds. A nil config uses DefaultConfig().
func NewReembedder(repo storage.CandidateRepository, embedder ai.Embedder, live *index.Index, config *Config, opts ...Option) (*Reembedder, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if live == nil {
		return nil, ErrIndexRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	r := &Reembedder{
		repo:     repo,
		embedder: embedder,
		live:     live,
		lock:     &sync.Mutex{},
		config:   config,
		progress: io.Discard,
		logger:   slog.Default().With("component", "reembedder"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Run embeds every candidate into a fresh index, then swaps it into the
// live index and saves it. Candidates stored while the bulk pass runs are
// picked up under the shared lock before the swap. On error the live
// index is left untouched.
func (r *Reembedder) Run(ctx context.Context) (Result, error) {
	total, err := r.repo.CountCandidates(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to count candidates: %w", err)
	}

	fresh, err := index.New(r.live.Dim())
	if err != nil {
		return Result{}, err
	}

	if total == 0 {
		fmt.Fprintf(r.progress, "No candidates found (0 candidates)\n")
	} else {
		fmt.Fprintf(r.progress, "Rebuilding index for %d candidates (batch size: %d)\n",
			total, r.config.BatchSize)
	}

	processor := NewBatchProcessor(r.embedder, r.live.Dim(), r.config.backoff(), r.config.limiter(), r.logger)
	iter := NewCandidateIterator(r.repo, r.config.BatchSize)
	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	add := func(batch []*core.Candidate) error {
		vectors, entries, err := processor.Process(ctx, batch)
		if err != nil {
			return err
		}
		if err := fresh.Add(vectors, entries); err != nil {
			return err
		}
		tracker.Increment(len(batch))
		return nil
	}

	if err := iter.ForEach(ctx, add); err != nil {
		return Result{}, err
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	before := fresh.Len()
	err = iter.ForEach(ctx, func(batch []*core.Candidate) error {
		tracker.Grow(len(batch))
		return add(batch)
	})
	if err != nil {
		return Result{}, err
	}
	if late := fresh.Len() - before; late > 0 {
		r.logger.Debug("indexed candidates added during rebuild", "count", late)
	}

	if err := r.live.Swap(fresh); err != nil {
		return Result{}, err
	}
	if r.store != nil {
		if err := r.store.Save(r.live); err != nil {
			return Result{}, fmt.Errorf("failed to save index: %w", err)
		}
	}

	result := Result{Indexed: r.live.Len(), Elapsed: tracker.Elapsed()}
	if total > 0 {
		tracker.Finish()
		fmt.Fprintf(r.progress, "Rebuild complete. Indexed %d candidates in %v\n",
			result.Indexed, result.Elapsed.Round(time.Millisecond))
	}
	r.logger.Info("index rebuilt", "candidates", result.Indexed, "elapsed", result.Elapsed)
	return result, nil
}
