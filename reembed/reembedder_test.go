package reembed

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/hirex/ai/mock"
	"github.com/poiesic/hirex/core"
	"github.com/poiesic/hirex/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDim = 32

func testConfig() *Config {
	return &Config{
		BatchSize:      2,
		ReportInterval: 1,
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
	}
}

func TestNewReembedder_Required(t *testing.T) {
	repo := setupTestDB(t)
	emb := mock.NewMockEmbedder(testDim)
	ix, err := index.New(testDim)
	require.NoError(t, err)

	_, err = NewReembedder(nil, emb, ix, nil)
	assert.ErrorIs(t, err, ErrRepositoryRequired)
	_, err = NewReembedder(repo, nil, ix, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
	_, err = NewReembedder(repo, emb, nil, nil)
	assert.ErrorIs(t, err, ErrIndexRequired)

	r, err := NewReembedder(repo, emb, ix, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), r.config)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"batch size", func(c *Config) { c.BatchSize = 0 }},
		{"report interval", func(c *Config) { c.ReportInterval = 0 }},
		{"retries", func(c *Config) { c.MaxRetries = 0 }},
		{"delay", func(c *Config) { c.RetryDelay = -time.Second }},
		{"rate", func(c *Config) { c.RequestsPerSecond = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
		})
	}

	c := DefaultConfig()
	c.MaxRetries = -1
	assert.ErrorIs(t, c.Validate(), ErrInvalidMaxAttempts)
}

func TestReembedder_Run(t *testing.T) {
	repo := setupTestDB(t)
	added := addCandidates(t, repo, 5)
	emb := mock.NewMockEmbedder(testDim)

	live, err := index.New(testDim)
	require.NoError(t, err)
	stale := make([]float32, testDim)
	stale[0] = 1
	require.NoError(t, live.Add([][]float32{stale}, []core.IndexEntry{{CandidateID: 999, Name: "Gone"}}))

	store := index.NewStore(t.TempDir())
	var out bytes.Buffer
	r, err := NewReembedder(repo, emb, live, testConfig(), WithStore(store), WithProgress(&out))
	require.NoError(t, err)

	result, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, result.Indexed)
	assert.Equal(t, 3, emb.CallCount(), "5 candidates in batches of 2")

	entries := live.Entries()
	require.Len(t, entries, 5)
	for i, c := range added {
		assert.Equal(t, c.Id, entries[i].CandidateID)
		assert.Equal(t, c.Name, entries[i].Name)
	}

	hits, err := live.Search(context.Background(), [][]float32{mock.Vector(added[2].Text, testDim)}, 1)
	require.NoError(t, err)
	require.Len(t, hits[0], 1)
	assert.Equal(t, added[2].Id, hits[0][0].Entry.CandidateID)
	assert.InDelta(t, 1.0, hits[0][0].Score, 1e-5)

	loaded, err := store.Load(testDim)
	require.NoError(t, err)
	assert.Equal(t, entries, loaded.Entries())

	assert.Contains(t, out.String(), "Rebuilding index for 5 candidates")
	assert.Contains(t, out.String(), "5/5")
	assert.Contains(t, out.String(), "Rebuild complete")
}

func TestReembedder_EmptyRepositoryClearsIndex(t *testing.T) {
	repo := setupTestDB(t)
	emb := mock.NewMockEmbedder(testDim)
	live, err := index.New(testDim)
	require.NoError(t, err)
	require.NoError(t, live.Add([][]float32{mock.Vector("x", testDim)}, []core.IndexEntry{{CandidateID: 7}}))

	var out bytes.Buffer
	r, err := NewReembedder(repo, emb, live, testConfig(), WithProgress(&out))
	require.NoError(t, err)

	result, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Indexed)
	assert.Equal(t, 0, live.Len())
	assert.Equal(t, 0, emb.CallCount())
	assert.Contains(t, out.String(), "No candidates found")
}

func TestReembedder_FailureKeepsLiveIndex(t *testing.T) {
	repo := setupTestDB(t)
	addCandidates(t, repo, 4)

	emb := mock.NewMockEmbedder(testDim)
	calls := 0
	failure := errors.New("quota exceeded")
	emb.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		calls++
		if calls > 1 {
			return nil, failure
		}
		out := make([][]float32, len(texts))
		for i, text := range texts {
			out[i] = mock.Vector(text, testDim)
		}
		return out, nil
	}

	live, err := index.New(testDim)
	require.NoError(t, err)
	require.NoError(t, live.Add([][]float32{mock.Vector("old", testDim)}, []core.IndexEntry{{CandidateID: 42, Name: "Old"}}))

	dir := t.TempDir()
	store := index.NewStore(dir)
	r, err := NewReembedder(repo, emb, live, testConfig(), WithStore(store))
	require.NoError(t, err)

	_, err = r.Run(context.Background())
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, []core.IndexEntry{{CandidateID: 42, Name: "Old"}}, live.Entries())
	assert.NoFileExists(t, store.VectorPath)
}

func TestReembedder_PicksUpLateCandidates(t *testing.T) {
	repo := setupTestDB(t)
	addCandidates(t, repo, 3)

	emb := mock.NewMockEmbedder(testDim)
	var late []*core.Candidate
	emb.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		if late == nil {
			var err error
			late, err = repo.AddCandidates(ctx, &core.Candidate{Name: "Late", Text: "Late\nRust systems engineer"})
			if err != nil {
				return nil, err
			}
		}
		out := make([][]float32, len(texts))
		for i, text := range texts {
			out[i] = mock.Vector(text, testDim)
		}
		return out, nil
	}

	live, err := index.New(testDim)
	require.NoError(t, err)
	cfg := testConfig()
	cfg.BatchSize = 10
	r, err := NewReembedder(repo, emb, live, cfg)
	require.NoError(t, err)

	result, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, result.Indexed)
	entries := live.Entries()
	require.Len(t, entries, 4)
	assert.Equal(t, late[0].Id, entries[3].CandidateID)
}

func TestReembedder_Canceled(t *testing.T) {
	repo := setupTestDB(t)
	addCandidates(t, repo, 2)
	live, err := index.New(testDim)
	require.NoError(t, err)

	r, err := NewReembedder(repo, mock.NewMockEmbedder(testDim), live, testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
