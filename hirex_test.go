package hirex

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/hirex/ai"
	"github.com/poiesic/hirex/ai/mock"
	"github.com/poiesic/hirex/index"
	"github.com/poiesic/hirex/ingestion"
	"github.com/poiesic/hirex/reembed"
	"github.com/poiesic/hirex/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDim = 64

var resumes = []ingestion.Document{
	{Source: "alice.txt", Text: "Alice Sharma\nalice@example.com\nBackend engineer, 5 years of experience with Go, Kafka and Docker.\nB.Tech, IIT Delhi. CGPA: 8.9\n"},
	{Source: "bob.txt", Text: "Bob Rao\nbob@example.com\nFrontend developer with 2 years of React and TypeScript.\n"},
}

func openTest(t *testing.T, dir string) *Engine {
	t.Helper()
	e, err := Open(dir, WithEmbedder(mock.NewMockEmbedder(testDim)), WithDimension(testDim))
	require.NoError(t, err)
	return e
}

func TestOpen(t *testing.T) {
	t.Run("create new data directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "data")
		e := openTest(t, dir)
		defer e.Close()

		assert.NotNil(t, e.CandidateRepository())
		assert.NotNil(t, e.Embedder())
		assert.Equal(t, testDim, e.Index().Dim())
		assert.Equal(t, 0, e.Index().Len())
		assert.DirExists(t, filepath.Join(dir, CandidatesDir))
	})

	t.Run("default embedder from ai config", func(t *testing.T) {
		e, err := Open(t.TempDir())
		require.NoError(t, err)
		defer e.Close()
		assert.Equal(t, ai.DefaultDimension, e.Index().Dim())
	})

	t.Run("invalid ai config", func(t *testing.T) {
		cfg := ai.DefaultConfig()
		cfg.EmbeddingModel = ""
		e, err := Open(t.TempDir(), WithAIConfig(cfg))
		assert.Error(t, err)
		assert.Nil(t, e)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0644))

		e, err := Open(tmpFile, WithEmbedder(mock.NewMockEmbedder(testDim)), WithDimension(testDim))
		assert.Error(t, err)
		assert.Nil(t, e)
	})
}

func TestEngine_Close(t *testing.T) {
	e := openTest(t, t.TempDir())
	assert.NoError(t, e.Close())
}

func TestEngine_EndToEnd(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	e := openTest(t, dir)

	pipeline, err := e.NewIngestionPipeline()
	require.NoError(t, err)
	report, err := pipeline.Ingest(ctx, resumes...)
	pipeline.Release()
	require.NoError(t, err)
	require.Len(t, report.Added, 2)
	assert.Equal(t, 2, e.Index().Len())

	searcher, err := e.NewSearcher()
	require.NoError(t, err)
	resp, err := searcher.Search(ctx, search.Request{Prompt: "Go and Kafka backend engineer"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Items)
	assert.True(t, resp.Semantic)
	assert.Equal(t, "Alice Sharma", resp.Items[0].Name)

	r, err := e.NewReembedder(&reembed.Config{BatchSize: 1, ReportInterval: 1, MaxRetries: 1})
	require.NoError(t, err)
	result, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Indexed)
	require.NoError(t, e.Close())

	reopened := openTest(t, dir)
	defer reopened.Close()
	assert.Equal(t, 2, reopened.Index().Len())
	n, err := reopened.CandidateRepository().CountCandidates(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestEngine_DimensionMismatchOnReopen(t *testing.T) {
	dir := t.TempDir()
	e := openTest(t, dir)
	pipeline, err := e.NewIngestionPipeline()
	require.NoError(t, err)
	_, err = pipeline.Ingest(context.Background(), resumes[0])
	pipeline.Release()
	require.NoError(t, err)
	require.NoError(t, e.Close())

	_, err = Open(dir, WithEmbedder(mock.NewMockEmbedder(32)), WithDimension(32))
	assert.ErrorIs(t, err, index.ErrDimensionMismatch)
}
