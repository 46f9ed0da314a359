package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/poiesic/hirex/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer answers OpenAI embedding requests with vectors of the given
// dimension whose first component encodes the input position.
func fakeServer(t *testing.T, dim int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		type datum struct {
			Object    string    `json:"object"`
			Embedding []float32 `json:"embedding"`
			Index     int       `json:"index"`
		}
		data := make([]datum, len(req.Input))
		for i := range req.Input {
			vec := make([]float32, dim)
			vec[0] = float32(i + 1)
			vec[1] = 1
			data[i] = datum{Object: "embedding", Embedding: vec, Index: i}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   data,
			"model":  "test",
		})
	}))
}

func TestEmbedder(t *testing.T) {
	srv := fakeServer(t, 4)
	defer srv.Close()

	emb, err := NewEmbedder(ai.NewConfig(
		ai.WithEmbeddingHost(srv.URL),
		ai.WithEmbeddingModel("test"),
		ai.WithDimension(4),
	))
	require.NoError(t, err)

	t.Run("batch is normalized and ordered", func(t *testing.T) {
		vecs, err := emb.EmbedTexts(context.Background(), []string{"go developer", "react developer"})
		require.NoError(t, err)
		require.Len(t, vecs, 2)
		assert.InDelta(t, 1/1.41421356, vecs[0][0], 1e-5)
		assert.InDelta(t, 2/2.23606798, vecs[1][0], 1e-5)
	})

	t.Run("single text", func(t *testing.T) {
		vec, err := emb.EmbedText(context.Background(), "kafka")
		require.NoError(t, err)
		assert.Len(t, vec, 4)
	})

	t.Run("empty batch makes no request", func(t *testing.T) {
		vecs, err := emb.EmbedTexts(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, vecs)
	})
}

func TestEmbedderDimensionMismatch(t *testing.T) {
	srv := fakeServer(t, 3)
	defer srv.Close()

	emb, err := NewEmbedder(ai.NewConfig(
		ai.WithEmbeddingHost(srv.URL),
		ai.WithDimension(8),
	))
	require.NoError(t, err)

	_, err = emb.EmbedText(context.Background(), "python")
	assert.ErrorIs(t, err, ai.ErrUnexpectedDimension)
}

func TestNewEmbedderInvalidConfig(t *testing.T) {
	_, err := NewEmbedder(&ai.Config{EmbeddingHost: "http://localhost:1"})
	assert.Error(t, err)
}
