package badger

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/hirex/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "db")
	backend, err := OpenBackend(dir, false)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOpenBackend_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := OpenBackend(file, false)
	assert.Error(t, err)
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)

	assert.False(t, backend.IsClosed())
	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())
}

func TestOpenBackend_ReadOnly(t *testing.T) {
	dir := t.TempDir()
	backend, err := OpenBackend(dir, false)
	require.NoError(t, err)
	repo, err := NewCandidateRepository(backend)
	require.NoError(t, err)
	_, err = repo.AddCandidates(context.Background(), &core.Candidate{Text: "Go developer"})
	require.NoError(t, err)
	require.NoError(t, repo.Close())
	require.NoError(t, backend.Close())

	ro, err := OpenBackend(dir, false, WithReadOnly(), WithLogger(slog.Default()))
	require.NoError(t, err)
	defer ro.Close()

	roRepo := &CandidateRepository{backend: ro}
	n, err := roRepo.CountCandidates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestOpenBackend_ReadOnlyMissing(t *testing.T) {
	_, err := OpenBackend(filepath.Join(t.TempDir(), "missing"), false, WithReadOnly())
	assert.Error(t, err)
}

func TestOpenBackend_SyncWrites(t *testing.T) {
	backend, err := OpenBackend(t.TempDir(), false, WithSyncWrites(true))
	require.NoError(t, err)
	defer backend.Close()
	assert.False(t, backend.IsClosed())
}
