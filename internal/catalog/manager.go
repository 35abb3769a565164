package catalog

import (
	"context"
	"fmt"

	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/observability"
)

// DocumentIndexer receives the document corpus of a new generation.
// Satisfied by the retrieval collaborator.
type DocumentIndexer interface {
	Index(ctx context.Context, docs []Document) error
}

// Manager owns the load/reload lifecycle: parse the catalog file, walk it,
// build the trigger index, hand documents to the retrieval collaborator,
// and only then publish the new generation. Any failure along the way
// leaves the currently-serving generation untouched.
type Manager struct {
	logger  *observability.Logger
	store   *Store
	indexer DocumentIndexer
	path    string
}

// NewManager creates a catalog manager for the given file path. indexer may
// be nil when retrieval is disabled.
func NewManager(logger *observability.Logger, store *Store, indexer DocumentIndexer, path string) *Manager {
	return &Manager{
		logger:  logger.WithComponent("catalog"),
		store:   store,
		indexer: indexer,
		path:    path,
	}
}

// Store returns the generation store the manager publishes into.
func (m *Manager) Store() *Store { return m.store }

// Reload builds a new catalog generation from the source file and swaps it
// in atomically. In-flight requests keep serving from the generation they
// started with.
func (m *Manager) Reload(ctx context.Context) (*Generation, error) {
	root, err := LoadFile(m.path)
	if err != nil {
		return nil, err
	}

	gen, err := NewGeneration(root)
	if err != nil {
		return nil, err
	}

	for _, w := range gen.Warnings {
		m.logger.Warn().
			Str("node_id", w.NodeID).
			Msg(w.Message)
	}
	if shared := gen.Index.SharedKeywords(); len(shared) > 0 {
		m.logger.Warn().
			Strs("keywords", shared).
			Msg("Keywords claimed by multiple triggers; insertion order decides")
	}

	if m.indexer != nil {
		if err := m.indexer.Index(ctx, gen.Documents); err != nil {
			return nil, fmt.Errorf("index documents: %w", err)
		}
	}

	seq := m.store.Publish(gen)
	m.logger.Info().
		Uint64("generation", seq).
		Int("documents", len(gen.Documents)).
		Int("triggers", gen.Index.Records()).
		Int("keywords", gen.Index.Keywords()).
		Msg("Catalog generation published")

	return gen, nil
}
