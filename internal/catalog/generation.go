package catalog

import (
	"sync/atomic"
	"time"

	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/trigger"
)

// Generation is one immutable, fully-built snapshot of the catalog: the
// document corpus plus the trigger index derived from one load. It is built
// completely before it is published and never mutated afterwards, so
// concurrent readers need no locking.
type Generation struct {
	Seq       uint64
	LoadedAt  time.Time
	Documents []Document
	Index     *trigger.Index
	Warnings  []Warning
}

// NewGeneration walks the tree and builds an unpublished generation.
// The sequence number is assigned when the generation is published.
func NewGeneration(root *Node) (*Generation, error) {
	res, err := Walk(root)
	if err != nil {
		return nil, err
	}
	return &Generation{
		LoadedAt:  time.Now(),
		Documents: res.Documents,
		Index:     trigger.NewIndex(res.Triggers),
		Warnings:  res.Warnings,
	}, nil
}

// Store holds the currently-serving generation behind a single atomic
// pointer. Readers always see either the previous complete generation or
// the new complete one, never a partially-built index. In-flight requests
// keep the pointer they loaded and finish against that generation.
type Store struct {
	cur atomic.Pointer[Generation]
	seq atomic.Uint64
}

// NewStore returns an empty store. Current returns nil until the first
// successful Publish.
func NewStore() *Store { return &Store{} }

// Current returns the serving generation, or nil if none has been published.
func (s *Store) Current() *Generation {
	return s.cur.Load()
}

// Publish assigns the next sequence number and atomically swaps the
// generation in. The caller must not mutate g after publishing.
func (s *Store) Publish(g *Generation) uint64 {
	g.Seq = s.seq.Add(1)
	s.cur.Store(g)
	return g.Seq
}
