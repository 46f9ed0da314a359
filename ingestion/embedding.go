package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/hirex/ai"
)

// batchEmbedder embeds texts in fixed-size batches on a worker pool and
// reassembles the vectors in input order.
type batchEmbedder struct {
	embedder  ai.Embedder
	pool      *ants.Pool
	batchSize int
	logger    *slog.Logger
}

// embed returns one normalized vector per text. The first failing batch
// fails the whole call.
func (be *batchEmbedder) embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	batches := (len(texts) + be.batchSize - 1) / be.batchSize
	errs := make([]error, batches)

	be.logger.Debug("embedding texts", "texts", len(texts), "batches", batches)

	var wg sync.WaitGroup
	for b := 0; b < batches; b++ {
		start := b * be.batchSize
		end := min(start+be.batchSize, len(texts))

		wg.Add(1)
		err := be.pool.Submit(func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs[b] = err
				return
			}
			vectors, err := be.embedder.EmbedTexts(ctx, texts[start:end])
			if err != nil {
				be.logger.Error("error generating embeddings", "batch", b, "err", err)
				errs[b] = err
				return
			}
			if len(vectors) != end-start {
				errs[b] = fmt.Errorf("embedding result mismatch. expected %d, received %d", end-start, len(vectors))
				return
			}
			for i, v := range vectors {
				out[start+i] = ai.NormalizeVector(v)
			}
		})
		if err != nil {
			wg.Done()
			errs[b] = err
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
