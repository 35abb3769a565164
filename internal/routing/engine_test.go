package routing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/cache"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/catalog"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/observability"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/retrieval"
)

// fakeRetriever counts calls and replays canned results.
type fakeRetriever struct {
	queries []string
	docs    []retrieval.ScoredDocument
	err     error
}

func (f *fakeRetriever) Index(_ context.Context, _ []catalog.Document) error { return nil }

func (f *fakeRetriever) Query(_ context.Context, text string, _ int) ([]retrieval.ScoredDocument, error) {
	f.queries = append(f.queries, text)
	return f.docs, f.err
}

func publishedStore(t *testing.T) *catalog.Store {
	t.Helper()
	gen, err := catalog.NewGeneration(&catalog.Node{
		ID:   "main_menu",
		Kind: catalog.KindMenu,
		Text: catalog.LocalizedText{EN: "Welcome"},
		Children: []*catalog.Node{
			{
				ID:      "balance_check",
				Kind:    catalog.KindOption,
				Trigger: "flow_balance_check",
				Text:    catalog.LocalizedText{EN: "Check balance"},
				Keywords: catalog.KeywordSet{
					EN:       []string{"balance", "check balance"},
					BN:       []string{"ব্যালেন্স"},
					Banglish: []string{"balance koto"},
				},
			},
			{
				ID:      "package_upgrade",
				Kind:    catalog.KindOption,
				Trigger: "flow_package_upgrade",
				Text:    catalog.LocalizedText{EN: "Upgrade package"},
				Keywords: catalog.KeywordSet{
					EN: []string{"package upgrade"},
				},
			},
			{
				ID:      "package_list",
				Kind:    catalog.KindOption,
				Trigger: "flow_package_list",
				Text:    catalog.LocalizedText{EN: "Browse packages"},
				Keywords: catalog.KeywordSet{
					EN: []string{"package"},
				},
			},
		},
	})
	require.NoError(t, err)

	store := catalog.NewStore()
	store.Publish(gen)
	return store
}

func newTestEngine(t *testing.T, retriever retrieval.Retriever, cacheClient cache.Client) *Engine {
	t.Helper()
	return NewEngine(observability.Nop(), publishedStore(t), retriever, cacheClient, Config{
		CacheResults: cacheClient != nil,
	})
}

func TestEngine_Route_Triggered(t *testing.T) {
	retriever := &fakeRetriever{}
	engine := newTestEngine(t, retriever, nil)

	tests := []struct {
		name    string
		query   string
		trigger string
		keyword string
	}{
		{"english", "I want to CHECK my Balance!", "flow_balance_check", "balance"},
		{"bengali", "আমার ব্যালেন্স দেখাও", "flow_balance_check", "ব্যালেন্স"},
		{"banglish", "amar balance koto?", "flow_balance_check", "balance koto"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := engine.Route(context.Background(), tc.query)
			assert.Equal(t, ResultTriggered, res.Kind)
			assert.Equal(t, tc.trigger, res.TriggerID)
			assert.Equal(t, tc.keyword, res.MatchedKeyword)
			assert.Equal(t, uint64(1), res.GenerationSeq)
		})
	}

	// A keyword match never consults the retrieval collaborator.
	assert.Empty(t, retriever.queries)
}

func TestEngine_Route_LongestKeywordWins(t *testing.T) {
	engine := newTestEngine(t, nil, nil)

	res := engine.Route(context.Background(), "package upgrade korbo")
	assert.Equal(t, ResultTriggered, res.Kind)
	assert.Equal(t, "flow_package_upgrade", res.TriggerID)
	assert.Equal(t, "package upgrade", res.MatchedKeyword)
}

func TestEngine_Route_Retrieved(t *testing.T) {
	retriever := &fakeRetriever{
		docs: []retrieval.ScoredDocument{
			{Document: catalog.Document{NodeID: "offer_card", Label: "card-title", Content: "10GB for 149 taka"}, Score: 0.91},
		},
	}
	engine := newTestEngine(t, retriever, nil)

	res := engine.Route(context.Background(), "how much data do the offers include?")
	assert.Equal(t, ResultRetrieved, res.Kind)
	require.Len(t, res.Documents, 1)
	assert.Equal(t, "offer_card", res.Documents[0].Document.NodeID)

	// The retriever sees the normalized query, not the raw one.
	require.Len(t, retriever.queries, 1)
	assert.Equal(t, "how much data do the offers include", retriever.queries[0])
}

func TestEngine_Route_NoAnswer(t *testing.T) {
	t.Run("retriever returns nothing", func(t *testing.T) {
		engine := newTestEngine(t, &fakeRetriever{}, nil)
		res := engine.Route(context.Background(), "unrelated question")
		assert.Equal(t, ResultNoAnswer, res.Kind)
		assert.Empty(t, res.Documents)
	})

	t.Run("retriever fails", func(t *testing.T) {
		engine := newTestEngine(t, &fakeRetriever{err: errors.New("upstream down")}, nil)
		res := engine.Route(context.Background(), "unrelated question")
		assert.Equal(t, ResultNoAnswer, res.Kind)
	})

	t.Run("no retriever configured", func(t *testing.T) {
		engine := newTestEngine(t, nil, nil)
		res := engine.Route(context.Background(), "unrelated question")
		assert.Equal(t, ResultNoAnswer, res.Kind)
	})
}

func TestEngine_Route_EmptyQueryShortCircuits(t *testing.T) {
	retriever := &fakeRetriever{
		docs: []retrieval.ScoredDocument{{Score: 0.9}},
	}
	engine := newTestEngine(t, retriever, nil)

	for _, query := range []string{"", "   ", "?!.", " \t\n "} {
		res := engine.Route(context.Background(), query)
		assert.Equal(t, ResultNoAnswer, res.Kind)
		assert.Empty(t, res.NormalizedQuery)
	}
	assert.Empty(t, retriever.queries, "empty queries must never reach the retriever")
}

func TestEngine_Route_NoGeneration(t *testing.T) {
	engine := NewEngine(observability.Nop(), catalog.NewStore(), &fakeRetriever{}, nil, Config{})

	res := engine.Route(context.Background(), "balance")
	assert.Equal(t, ResultNoAnswer, res.Kind)
	assert.Zero(t, res.GenerationSeq)
}

func TestEngine_Route_Deterministic(t *testing.T) {
	engine := newTestEngine(t, nil, nil)

	first := engine.Route(context.Background(), "Package Upgrade korbo!")
	for i := 0; i < 50; i++ {
		res := engine.Route(context.Background(), "Package Upgrade korbo!")
		assert.Equal(t, first.Kind, res.Kind)
		assert.Equal(t, first.TriggerID, res.TriggerID)
		assert.Equal(t, first.MatchedKeyword, res.MatchedKeyword)
	}
}

func TestEngine_Route_EveryQueryResolves(t *testing.T) {
	engine := newTestEngine(t, &fakeRetriever{}, nil)

	// Whatever comes in, Route lands on one of the three terminal kinds.
	queries := []string{
		"balance", "package", "recharge now", "", "!!!",
		"আমার ব্যালেন্স", "totally unrelated gibberish xyzzy",
	}
	for _, q := range queries {
		res := engine.Route(context.Background(), q)
		assert.Contains(t, []ResultKind{ResultTriggered, ResultRetrieved, ResultNoAnswer}, res.Kind, "query %q", q)
	}
}

func TestEngine_Route_CachesRetrievalResults(t *testing.T) {
	retriever := &fakeRetriever{
		docs: []retrieval.ScoredDocument{
			{Document: catalog.Document{NodeID: "offer_card", Label: "card-title", Content: "10GB for 149 taka"}, Score: 0.91},
		},
	}
	engine := newTestEngine(t, retriever, cache.NewMemoryClient(100))

	first := engine.Route(context.Background(), "data offers?")
	require.Equal(t, ResultRetrieved, first.Kind)
	require.Len(t, retriever.queries, 1)

	second := engine.Route(context.Background(), "Data Offers")
	assert.Equal(t, ResultRetrieved, second.Kind)
	assert.Equal(t, first.Documents, second.Documents)
	assert.Len(t, retriever.queries, 1, "second identical query must be served from cache")
}

func TestEngine_Route_RetrievalTimeout(t *testing.T) {
	engine := NewEngine(observability.Nop(), publishedStore(t), &slowRetriever{}, nil, Config{
		RetrievalTimeout: 10 * time.Millisecond,
	})

	res := engine.Route(context.Background(), "unrelated question")
	assert.Equal(t, ResultNoAnswer, res.Kind)
}

type slowRetriever struct{}

func (s *slowRetriever) Index(_ context.Context, _ []catalog.Document) error { return nil }

func (s *slowRetriever) Query(ctx context.Context, _ string, _ int) ([]retrieval.ScoredDocument, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(time.Second):
		return nil, nil
	}
}
