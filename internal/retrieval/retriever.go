// Package retrieval provides the nearest-neighbour collaborator the routing
// engine falls back to when no trigger keyword matches.
package retrieval

import (
	"context"

	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/catalog"
)

// ScoredDocument pairs a catalog document with its similarity score.
type ScoredDocument struct {
	Document catalog.Document `json:"document"`
	Score    float32          `json:"score"`
}

// Retriever is the retrieval collaborator contract. Embedding and
// similarity search are opaque to callers.
type Retriever interface {
	// Index replaces the indexed corpus with the documents of a new
	// catalog generation.
	Index(ctx context.Context, docs []catalog.Document) error

	// Query returns the top-k most similar documents, best first. An
	// empty result is a valid answer, not an error.
	Query(ctx context.Context, text string, k int) ([]ScoredDocument, error)
}
