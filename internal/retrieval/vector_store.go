package retrieval

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/catalog"
)

// ErrDimensionMismatch indicates a query vector with a different dimension
// than the indexed corpus.
var ErrDimensionMismatch = errors.New("retrieval: vector dimension mismatch")

// Embedder generates embedding vectors for a batch of texts.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorStore is an in-memory cosine-similarity retriever over the document
// corpus of the current catalog generation. The corpus is small (every
// human-readable string in one service catalog), so brute-force scoring is
// fine and keeps the store dependency-free.
type VectorStore struct {
	mu       sync.RWMutex
	embedder Embedder
	entries  []storedDoc

	batchSize int
	minScore  float32
	progress  func(done, total int)
}

type storedDoc struct {
	doc    catalog.Document
	vector []float32
}

// VectorStoreConfig holds vector store options.
type VectorStoreConfig struct {
	// BatchSize caps how many documents are embedded per upstream call.
	BatchSize int
	// MinScore drops results scoring below the cutoff. Zero disables it.
	MinScore float32
	// Progress, if set, is invoked after each embedded batch.
	Progress func(done, total int)
}

// NewVectorStore creates a vector store backed by the given embedder.
func NewVectorStore(embedder Embedder, cfg VectorStoreConfig) *VectorStore {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 64
	}
	return &VectorStore{
		embedder:  embedder,
		batchSize: cfg.BatchSize,
		minScore:  cfg.MinScore,
		progress:  cfg.Progress,
	}
}

// Index embeds the documents and replaces the previously indexed corpus.
// The new corpus is built completely before the swap, so concurrent queries
// see either the old corpus or the new one.
func (s *VectorStore) Index(ctx context.Context, docs []catalog.Document) error {
	entries := make([]storedDoc, 0, len(docs))

	for start := 0; start < len(docs); start += s.batchSize {
		end := start + s.batchSize
		if end > len(docs) {
			end = len(docs)
		}
		batch := docs[start:end]

		texts := make([]string, len(batch))
		for i, d := range batch {
			texts[i] = d.Content
		}

		vectors, err := s.embedder.Embed(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed documents: %w", err)
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("embedder returned %d vectors for %d documents", len(vectors), len(batch))
		}

		for i, d := range batch {
			entries = append(entries, storedDoc{doc: d, vector: vectors[i]})
		}
		if s.progress != nil {
			s.progress(end, len(docs))
		}
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	return nil
}

// Query embeds the query text and returns the top-k documents by cosine
// similarity, best first.
func (s *VectorStore) Query(ctx context.Context, text string, k int) ([]ScoredDocument, error) {
	if k <= 0 {
		k = 5
	}

	vectors, err := s.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for one query", len(vectors))
	}
	query := vectors[0]

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]ScoredDocument, 0, len(s.entries))
	for _, e := range s.entries {
		if len(e.vector) != len(query) {
			return nil, ErrDimensionMismatch
		}
		score := cosineSimilarity(query, e.vector)
		if s.minScore > 0 && score < s.minScore {
			continue
		}
		results = append(results, ScoredDocument{Document: e.doc, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Size returns the number of indexed documents.
func (s *VectorStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func cosineSimilarity(a, b []float32) float32 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
