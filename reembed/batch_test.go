package reembed

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/poiesic/hirex/ai"
	"github.com/poiesic/hirex/ai/mock"
	"github.com/poiesic/hirex/core"
	"github.com/poiesic/hirex/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func testBatch() []*core.Candidate {
	return []*core.Candidate{
		{Id: 1, Name: "Alice", Text: "alice go"},
		{Id: 2, Name: "Bob", Text: "bob react"},
	}
}

func TestBatchProcessor_Process(t *testing.T) {
	embedder := mock.NewMockEmbedder(3)
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i := range texts {
			out[i] = []float32{1.0, 2.0, 2.0}
		}
		return out, nil
	}

	processor := NewBatchProcessor(embedder, 3, Backoff{Attempts: 1}, nil, nil)
	vectors, entries, err := processor.Process(context.Background(), testBatch())
	require.NoError(t, err)

	require.Len(t, vectors, 2)
	for _, v := range vectors {
		assert.InDelta(t, 1.0, norm(v), 1e-6)
		assert.InDelta(t, 1.0/3.0, v[0], 1e-6)
	}
	assert.Equal(t, []core.IndexEntry{{CandidateID: 1, Name: "Alice"}, {CandidateID: 2, Name: "Bob"}}, entries)
}

func TestBatchProcessor_Empty(t *testing.T) {
	embedder := mock.NewMockEmbedder(3)
	processor := NewBatchProcessor(embedder, 3, Backoff{Attempts: 1}, nil, nil)

	vectors, entries, err := processor.Process(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
	assert.Empty(t, entries)
	assert.Equal(t, 0, embedder.CallCount())
}

func TestBatchProcessor_RetriesTransientErrors(t *testing.T) {
	embedder := mock.NewMockEmbedder(8)
	calls := 0
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("connection reset")
		}
		out := make([][]float32, len(texts))
		for i, text := range texts {
			out[i] = mock.Vector(text, 8)
		}
		return out, nil
	}

	processor := NewBatchProcessor(embedder, 8, Backoff{Attempts: 3, BaseDelay: time.Millisecond}, nil, nil)
	vectors, _, err := processor.Process(context.Background(), testBatch())
	require.NoError(t, err)
	assert.Len(t, vectors, 2)
	assert.Equal(t, 3, calls)
}

func TestBatchProcessor_GivesUp(t *testing.T) {
	embedder := mock.NewMockEmbedder(8)
	failure := errors.New("provider down")
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, failure
	}

	processor := NewBatchProcessor(embedder, 8, Backoff{Attempts: 2, BaseDelay: time.Millisecond}, nil, nil)
	_, _, err := processor.Process(context.Background(), testBatch())
	assert.ErrorIs(t, err, failure)
}

func TestBatchProcessor_WrongShape(t *testing.T) {
	t.Run("count", func(t *testing.T) {
		embedder := mock.NewMockEmbedder(4)
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return [][]float32{{1, 0, 0, 0}}, nil
		}
		processor := NewBatchProcessor(embedder, 4, Backoff{Attempts: 1}, nil, nil)
		_, _, err := processor.Process(context.Background(), testBatch())
		assert.ErrorIs(t, err, ai.ErrEmptyEmbedding)
	})

	t.Run("dimension", func(t *testing.T) {
		embedder := mock.NewMockEmbedder(4)
		processor := NewBatchProcessor(embedder, 8, Backoff{Attempts: 3, BaseDelay: time.Millisecond}, nil, nil)
		_, _, err := processor.Process(context.Background(), testBatch())
		assert.ErrorIs(t, err, index.ErrDimensionMismatch)
		assert.Equal(t, 1, embedder.CallCount(), "dimension errors are not retried")
	})
}

func TestBatchProcessor_RateLimited(t *testing.T) {
	embedder := mock.NewMockEmbedder(4)
	limiter := rate.NewLimiter(rate.Every(20*time.Millisecond), 1)
	processor := NewBatchProcessor(embedder, 4, Backoff{Attempts: 1}, limiter, nil)

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, _, err := processor.Process(context.Background(), testBatch())
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 35*time.Millisecond)
}

func TestBatchProcessor_RateLimitHonorsContext(t *testing.T) {
	embedder := mock.NewMockEmbedder(4)
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	processor := NewBatchProcessor(embedder, 4, Backoff{Attempts: 3, BaseDelay: time.Millisecond}, limiter, nil)

	_, _, err := processor.Process(context.Background(), testBatch())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, _, err = processor.Process(ctx, testBatch())
	require.Error(t, err)
	assert.Equal(t, 1, embedder.CallCount())
}
