package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/observability"
)

type stubIndexer struct {
	calls int
	docs  []Document
	err   error
}

func (s *stubIndexer) Index(_ context.Context, docs []Document) error {
	s.calls++
	s.docs = docs
	return s.err
}

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestManager_Reload(t *testing.T) {
	path := writeCatalog(t, sampleCatalog)
	store := NewStore()
	indexer := &stubIndexer{}
	mgr := NewManager(observability.Nop(), store, indexer, path)

	gen, err := mgr.Reload(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint64(1), gen.Seq)
	assert.Same(t, gen, store.Current())
	assert.Equal(t, 1, indexer.calls)
	assert.Equal(t, gen.Documents, indexer.docs)
}

func TestManager_Reload_NilIndexer(t *testing.T) {
	path := writeCatalog(t, sampleCatalog)
	store := NewStore()
	mgr := NewManager(observability.Nop(), store, nil, path)

	_, err := mgr.Reload(context.Background())
	require.NoError(t, err)
	require.NotNil(t, store.Current())
}

func TestManager_Reload_FailureLeavesGeneration(t *testing.T) {
	path := writeCatalog(t, sampleCatalog)
	store := NewStore()
	indexer := &stubIndexer{}
	mgr := NewManager(observability.Nop(), store, indexer, path)

	first, err := mgr.Reload(context.Background())
	require.NoError(t, err)

	// Corrupt the file: the reload must fail and the serving generation
	// must remain the first one.
	require.NoError(t, os.WriteFile(path, []byte("root: [broken"), 0o644))
	_, err = mgr.Reload(context.Background())
	require.Error(t, err)
	assert.Same(t, first, store.Current())

	// Indexer failures also block the publish.
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o644))
	indexer.err = errors.New("embedding service down")
	_, err = mgr.Reload(context.Background())
	require.Error(t, err)
	assert.Same(t, first, store.Current())
}

func TestManager_Reload_MissingFile(t *testing.T) {
	store := NewStore()
	mgr := NewManager(observability.Nop(), store, nil, filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := mgr.Reload(context.Background())
	require.Error(t, err)
	assert.Nil(t, store.Current())
}
