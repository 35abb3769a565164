package commands

import (
	"context"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/cmd/assistant-cli/ui"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/cache"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/catalog"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/embedding"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/genai"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/observability"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/retrieval"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/routing"
)

var queryAnswer bool

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Route one query through the trigger index and retrieval fallback",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().BoolVar(&queryAnswer, "answer", false, "generate a prose answer for retrieved passages")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	out := ui.New(noColor)
	question := strings.Join(args, " ")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:  logLevel(),
		Format: "console",
	})

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	var retriever retrieval.Retriever
	if cfg.Embedding.APIKey != "" {
		embedder, err := embedding.NewClient(embedding.Config{
			APIKey:  cfg.Embedding.APIKey,
			Model:   cfg.Embedding.Model,
			BaseURL: cfg.Embedding.BaseURL,
		})
		if err != nil {
			return err
		}
		var bar *progressbar.ProgressBar
		retriever = retrieval.NewVectorStore(embedder, retrieval.VectorStoreConfig{
			BatchSize: cfg.Embedding.BatchSize,
			MinScore:  cfg.Retrieval.MinScore,
			Progress: func(done, total int) {
				if bar == nil {
					bar = out.ProgressBar(total, "Embedding documents")
				}
				_ = bar.Set(done)
			},
		})
	} else {
		out.Warn("OPENROUTER_API_KEY not set; retrieval fallback disabled")
	}

	spin := out.Spinner("Loading catalog " + cfg.Catalog.Path)
	store := catalog.NewStore()
	var indexer catalog.DocumentIndexer
	if retriever != nil {
		indexer = retriever
	}
	manager := catalog.NewManager(logger, store, indexer, cfg.Catalog.Path)
	gen, err := manager.Reload(ctx)
	spin.Stop()
	if err != nil {
		out.Error("Catalog load failed: %v", err)
		return err
	}
	out.Info("Catalog generation %d: %d documents, %d triggers", gen.Seq, len(gen.Documents), gen.Index.Records())

	engine := routing.NewEngine(logger, store, retriever, cache.NewMemoryClient(cfg.Cache.MaxEntries), routing.Config{
		TopK:             cfg.Retrieval.TopK,
		RetrievalTimeout: cfg.Retrieval.Timeout,
	})

	result := engine.Route(ctx, question)

	switch result.Kind {
	case routing.ResultTriggered:
		out.Success("Flow triggered: %s", result.TriggerID)
		out.Plain("  matched keyword: %q", result.MatchedKeyword)

	case routing.ResultRetrieved:
		out.Success("Retrieved %d passage(s)", len(result.Documents))
		for _, d := range result.Documents {
			out.Plain("  [%.3f] (%s %s) %s", d.Score, d.Document.Label, d.Document.NodeID, d.Document.Content)
		}
		if queryAnswer && cfg.Generation.APIKey != "" {
			answerer, err := genai.NewClient(genai.Config{
				APIKey:    cfg.Generation.APIKey,
				Model:     cfg.Generation.Model,
				BaseURL:   cfg.Generation.BaseURL,
				MaxTokens: cfg.Generation.MaxTokens,
			})
			if err != nil {
				return err
			}
			passages := make([]string, len(result.Documents))
			for i, d := range result.Documents {
				passages[i] = d.Document.Content
			}
			spin = out.Spinner("Generating answer")
			answer, err := answerer.Answer(ctx, question, passages)
			spin.Stop()
			if err != nil {
				out.Error("Answer generation failed: %v", err)
			} else {
				out.Plain("\n%s", answer)
			}
		}

	default:
		out.Warn("No relevant content found")
	}

	out.Plain("decision=%s generation=%d latency=%dms", result.Kind, result.GenerationSeq, result.LatencyMs)
	return nil
}
