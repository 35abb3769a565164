// Package routing implements the per-query routing decision: trigger a
// predefined flow by keyword match, fall back to semantic retrieval, or
// report that nothing relevant was found.
package routing

import (
	"context"
	"encoding/json"
	"time"

	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/cache"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/catalog"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/observability"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/retrieval"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/textnorm"
)

// ResultKind tags the terminal state of one routing decision.
type ResultKind string

const (
	// ResultTriggered means a flow trigger matched; the caller should
	// invoke the workflow API with TriggerID.
	ResultTriggered ResultKind = "triggered"
	// ResultRetrieved means no trigger matched but relevant passages were
	// found; the caller should generate an answer from Documents.
	ResultRetrieved ResultKind = "retrieved"
	// ResultNoAnswer means neither path produced anything; the caller
	// should return its static cannot-help response. Content is never
	// fabricated.
	ResultNoAnswer ResultKind = "no_answer"
)

// Result is the tagged outcome of one query's routing decision.
type Result struct {
	Kind            ResultKind                 `json:"kind"`
	TriggerID       string                     `json:"triggerId,omitempty"`
	MatchedKeyword  string                     `json:"matchedKeyword,omitempty"`
	Documents       []retrieval.ScoredDocument `json:"documents,omitempty"`
	NormalizedQuery string                     `json:"normalizedQuery"`
	GenerationSeq   uint64                     `json:"generationSeq"`
	LatencyMs       int64                      `json:"latencyMs"`
}

// Config holds routing engine settings.
type Config struct {
	TopK             int
	RetrievalTimeout time.Duration
	CacheResults     bool
	CacheTTL         time.Duration
}

// Engine decides, per query, between flow triggering and retrieval. It is
// stateless across requests: each call loads the current catalog generation
// once and serves the whole decision from it.
type Engine struct {
	logger    *observability.Logger
	store     *catalog.Store
	retriever retrieval.Retriever
	cache     cache.Client
	cfg       Config
}

// NewEngine creates a routing engine. retriever and cache may be nil; a nil
// retriever turns every fallback into no_answer, a nil cache disables
// result caching.
func NewEngine(logger *observability.Logger, store *catalog.Store, retriever retrieval.Retriever, cacheClient cache.Client, cfg Config) *Engine {
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if cfg.RetrievalTimeout <= 0 {
		cfg.RetrievalTimeout = 10 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &Engine{
		logger:    logger.WithComponent("routing"),
		store:     store,
		retriever: retriever,
		cache:     cacheClient,
		cfg:       cfg,
	}
}

// Route runs the decision pipeline for one query. It never returns an
// error: every failure mode resolves to one of the three terminal result
// kinds. For a fixed catalog generation and query string the decision is
// deterministic.
func (e *Engine) Route(ctx context.Context, query string) Result {
	start := time.Now()

	gen := e.store.Current()
	if gen == nil {
		e.logger.Warn().Msg("Routing before any catalog generation is published")
		return Result{Kind: ResultNoAnswer, LatencyMs: time.Since(start).Milliseconds()}
	}

	res := Result{
		Kind:          ResultNoAnswer,
		GenerationSeq: gen.Seq,
	}

	normalized := textnorm.Normalize(query)
	res.NormalizedQuery = normalized
	if normalized == "" {
		// Empty queries short-circuit: neither the index nor the
		// retrieval collaborator is consulted.
		res.LatencyMs = time.Since(start).Milliseconds()
		return res
	}

	if match, ok := gen.Index.Lookup(normalized); ok {
		res.Kind = ResultTriggered
		res.TriggerID = match.TriggerID
		res.MatchedKeyword = match.Keyword
		res.LatencyMs = time.Since(start).Milliseconds()

		e.logger.Debug().
			Uint64("generation", gen.Seq).
			Str("trigger_id", match.TriggerID).
			Str("keyword", match.Keyword).
			Msg("Keyword match")
		return res
	}

	docs, ok := e.retrieve(ctx, gen.Seq, normalized)
	if ok && len(docs) > 0 {
		res.Kind = ResultRetrieved
		res.Documents = docs
	}
	res.LatencyMs = time.Since(start).Milliseconds()

	e.logger.Debug().
		Uint64("generation", gen.Seq).
		Str("decision", string(res.Kind)).
		Int("documents", len(res.Documents)).
		Int64("latency_ms", res.LatencyMs).
		Msg("Routing decision")
	return res
}

// retrieve delegates to the retrieval collaborator with the configured
// timeout. Failures and timeouts are recovered locally; the second return
// value reports whether a usable answer came back.
func (e *Engine) retrieve(ctx context.Context, genSeq uint64, normalized string) ([]retrieval.ScoredDocument, bool) {
	if e.retriever == nil {
		return nil, false
	}

	cacheKey := cache.GenerationKey(genSeq, "q", normalized)
	if e.cacheEnabled() {
		if docs, err := e.checkCache(ctx, cacheKey); err == nil {
			return docs, true
		}
	}

	rctx, cancel := context.WithTimeout(ctx, e.cfg.RetrievalTimeout)
	defer cancel()

	docs, err := e.retriever.Query(rctx, normalized, e.cfg.TopK)
	if err != nil {
		e.logger.Warn().Err(err).Msg("Retrieval failed; resolving to no_answer")
		return nil, false
	}

	if e.cacheEnabled() && len(docs) > 0 {
		if data, err := json.Marshal(docs); err == nil {
			if err := e.cache.Set(ctx, cacheKey, data, e.cfg.CacheTTL); err != nil {
				e.logger.Warn().Err(err).Msg("Caching retrieval result failed")
			}
		}
	}
	return docs, true
}

func (e *Engine) cacheEnabled() bool {
	return e.cfg.CacheResults && e.cache != nil
}

func (e *Engine) checkCache(ctx context.Context, key string) ([]retrieval.ScoredDocument, error) {
	data, err := e.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var docs []retrieval.ScoredDocument
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
