package reembed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/hirex/ai"
	"github.com/poiesic/hirex/core"
	"github.com/poiesic/hirex/index"
	"golang.org/x/time/rate"
)

// BatchProcessor embeds batches of candidates for a new index.
type BatchProcessor struct {
	embedder ai.Embedder
	backoff  Backoff
	limiter  *rate.Limiter
	dim      int
	logger   *slog.Logger
}

// NewBatchProcessor creates a processor producing vectors of dimension
// dim. A nil limiter leaves requests unthrottled.
func NewBatchProcessor(embedder ai.Embedder, dim int, backoff Backoff, limiter *rate.Limiter, logger *slog.Logger) *BatchProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchProcessor{
		embedder: embedder,
		backoff:  backoff,
		limiter:  limiter,
		dim:      dim,
		logger:   logger,
	}
}

// Process embeds the resume text of each candidate and returns normalized
// vectors with their index entries, aligned with the batch. Provider
// errors are retried; a wrong vector count or dimension is not.
func (b *BatchProcessor) Process(ctx context.Context, batch []*core.Candidate) ([][]float32, []core.IndexEntry, error) {
	if len(batch) == 0 {
		return nil, nil, nil
	}

	texts := make([]string, len(batch))
	entries := make([]core.IndexEntry, len(batch))
	for i, c := range batch {
		texts[i] = c.Text
		entries[i] = core.IndexEntry{CandidateID: c.Id, Name: c.Name}
	}

	var vectors [][]float32
	err := b.backoff.Do(ctx, func(ctx context.Context) error {
		if b.limiter != nil {
			if err := b.limiter.Wait(ctx); err != nil {
				return err
			}
		}
		var err error
		vectors, err = b.embedder.EmbedTexts(ctx, texts)
		return err
	}, b.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to embed candidates %d..%d: %w", batch[0].Id, batch[len(batch)-1].Id, err)
	}

	if len(vectors) != len(batch) {
		return nil, nil, fmt.Errorf("%w: got %d embeddings for %d candidates", ai.ErrEmptyEmbedding, len(vectors), len(batch))
	}
	for i, v := range vectors {
		if len(v) != b.dim {
			return nil, nil, fmt.Errorf("%w: candidate %d has %d dimensions, index has %d",
				index.ErrDimensionMismatch, batch[i].Id, len(v), b.dim)
		}
	}
	ai.NormalizeVectors(vectors)

	return vectors, entries, nil
}
