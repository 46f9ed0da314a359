package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/hirex/ai"
	"github.com/poiesic/hirex/core"
	"github.com/poiesic/hirex/index"
	"github.com/poiesic/hirex/storage"
)

// DefaultBatchSize is the number of texts sent to the embedder per request.
const DefaultBatchSize = 32

// Pipeline turns resume documents into stored candidates and index vectors.
type Pipeline struct {
	repo      storage.CandidateRepository
	ix        *index.Index
	store     *index.Store
	extractor *Extractor
	batches   *batchEmbedder
	lock      sync.Locker
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if p.batches.pool != nil {
			p.batches.pool.Release()
		}
		p.batches.pool = pool
		return nil
	}
}

// WithBatchSize sets how many texts go to the embedder per request.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.batches.batchSize = size
		return nil
	}
}

// WithStore persists the index after every successful ingest.
func WithStore(store *index.Store) Option {
	return func(p *Pipeline) error {
		p.store = store
		return nil
	}
}

// WithExtractor replaces the default resume extractor.
func WithExtractor(e *Extractor) Option {
	return func(p *Pipeline) error {
		if e != nil {
			p.extractor = e
		}
		return nil
	}
}

// WithLocker sets the lock held while candidates are stored and the index
// is updated and saved. Share it with anything else that writes the index.
func WithLocker(l sync.Locker) Option {
	return func(p *Pipeline) error {
		if l != nil {
			p.lock = l
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(repo storage.CandidateRepository, ix *index.Index, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if ix == nil {
		return nil, ErrIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repo:      repo,
		ix:        ix,
		extractor: defaultExtractor,
		batches: &batchEmbedder{
			embedder:  embedder,
			pool:      pool,
			batchSize: DefaultBatchSize,
		},
		lock:   &sync.Mutex{},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	p.logger = p.logger.With("component", "ingestion")
	p.batches.logger = p.logger

	return p, nil
}

// Failure records a document that could not be ingested.
type Failure struct {
	Source string
	Err    error
}

// Report summarizes an Ingest call.
type Report struct {
	Added      []*core.Candidate
	Duplicates int
	Failures   []Failure
}

// Failed returns the number of documents that could not be ingested.
func (r *Report) Failed() int {
	return len(r.Failures)
}

func (r *Report) fail(source string, err error) {
	r.Failures = append(r.Failures, Failure{Source: source, Err: err})
}

// Ingest extracts, stores, embeds and indexes docs. Empty or invalid
// documents are reported as failures and skipped; documents whose text
// is already stored are counted as duplicates. An embedding failure
// aborts the call before anything is stored. On success the index is
// saved when a store is configured. Candidates are committed before the
// index is saved, so a failed save leaves them stored but missing from
// the persisted index until the index is rebuilt with hirex reindex.
func (p *Pipeline) Ingest(ctx context.Context, docs ...Document) (*Report, error) {
	report := &Report{}

	var accepted []*core.Candidate
	seen := make(map[core.ID]struct{}, len(docs))
	for _, doc := range docs {
		if strings.TrimSpace(doc.Text) == "" {
			report.fail(doc.Source, core.ErrEmptyText)
			continue
		}
		c := p.extractor.Extract(doc.Text, doc.Source)
		if err := core.ValidateCandidate(c); err != nil {
			p.logger.Warn("rejecting resume", "source", doc.Source, "err", err)
			report.fail(doc.Source, err)
			continue
		}
		if _, dup := seen[c.Fingerprint]; dup {
			report.Duplicates++
			continue
		}
		seen[c.Fingerprint] = struct{}{}

		existing, err := p.repo.FindByFingerprint(ctx, c.Fingerprint)
		if err != nil {
			return report, err
		}
		if existing != nil {
			p.logger.Debug("skipping duplicate resume", "source", doc.Source, "id", existing.Id)
			report.Duplicates++
			continue
		}
		accepted = append(accepted, c)
	}
	if len(accepted) == 0 {
		return report, nil
	}

	texts := make([]string, len(accepted))
	for i, c := range accepted {
		texts[i] = c.Text
	}
	vectors, err := p.batches.embed(ctx, texts)
	if err != nil {
		return report, fmt.Errorf("%w: %w", ErrEmbeddingFailed, err)
	}
	for i, v := range vectors {
		if len(v) != p.ix.Dim() {
			return report, fmt.Errorf("%w: embedding for %s has %d dimensions, index has %d",
				index.ErrDimensionMismatch, accepted[i].Source, len(v), p.ix.Dim())
		}
	}

	p.lock.Lock()
	defer p.lock.Unlock()

	// Another ingest may have stored the same text while this one was embedding.
	keep := accepted[:0]
	keepVecs := vectors[:0]
	for i, c := range accepted {
		existing, err := p.repo.FindByFingerprint(ctx, c.Fingerprint)
		if err != nil {
			return report, err
		}
		if existing != nil {
			report.Duplicates++
			continue
		}
		keep = append(keep, c)
		keepVecs = append(keepVecs, vectors[i])
	}
	if len(keep) == 0 {
		return report, nil
	}

	added, err := p.repo.AddCandidates(ctx, keep...)
	if err != nil {
		return report, err
	}

	entries := make([]core.IndexEntry, len(added))
	for i, c := range added {
		entries[i] = core.IndexEntry{CandidateID: c.Id, Name: c.Name}
	}
	if err := p.ix.Add(keepVecs, entries); err != nil {
		return report, err
	}
	report.Added = added

	if p.store != nil {
		if err := p.store.Save(p.ix); err != nil {
			p.logger.Warn("candidates stored but index not persisted, run hirex reindex to recover",
				"added", len(added), "err", err)
			return report, err
		}
	}

	p.logger.Info("ingested resumes",
		"added", len(report.Added),
		"duplicates", report.Duplicates,
		"failed", report.Failed())
	return report, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.batches.pool != nil {
		p.batches.pool.Release()
	}
}
