// Package main provides the assistant API server entrypoint.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/audit"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/cache"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/catalog"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/config"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/embedding"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/flowapi"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/genai"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/observability"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/retrieval"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/routing"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if len(os.Args) > 2 && os.Args[1] == "--config" {
		cfgPath = os.Args[2]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
	})

	logger.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("catalog", cfg.Catalog.Path).
		Str("cache", cfg.Cache.Driver).
		Msg("Starting catalog assistant API")

	svc, cleanup, err := buildServices(logger, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Service initialization failed")
	}
	defer cleanup()

	router := NewRouter(logger, cfg, svc)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("HTTP server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error().Err(err).Msg("Server error")
	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
		_ = srv.Close()
	}

	logger.Info().Msg("Server stopped")
}

// buildServices wires the engine and its collaborators from config. The
// returned cleanup closes everything that holds a connection.
func buildServices(logger *observability.Logger, cfg *config.Config) (Services, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var cacheClient cache.Client
	if cfg.Cache.Driver == "redis" {
		redisClient, err := cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			PoolSize: cfg.Cache.Redis.PoolSize,
		})
		if err != nil {
			return Services{}, cleanup, fmt.Errorf("connect redis: %w", err)
		}
		cacheClient = redisClient
	} else {
		cacheClient = cache.NewMemoryClient(cfg.Cache.MaxEntries)
	}
	closers = append(closers, func() { _ = cacheClient.Close() })

	var retriever retrieval.Retriever
	if cfg.Embedding.APIKey != "" {
		embedder, err := embedding.NewClient(embedding.Config{
			APIKey:  cfg.Embedding.APIKey,
			Model:   cfg.Embedding.Model,
			BaseURL: cfg.Embedding.BaseURL,
		})
		if err != nil {
			return Services{}, cleanup, fmt.Errorf("create embedder: %w", err)
		}
		retriever = retrieval.NewVectorStore(embedder, retrieval.VectorStoreConfig{
			BatchSize: cfg.Embedding.BatchSize,
			MinScore:  cfg.Retrieval.MinScore,
		})
	} else {
		logger.Warn().Msg("OPENROUTER_API_KEY not set; retrieval fallback disabled")
	}

	store := catalog.NewStore()
	var indexer catalog.DocumentIndexer
	if retriever != nil {
		indexer = retriever
	}
	manager := catalog.NewManager(logger, store, indexer, cfg.Catalog.Path)

	// The first load must succeed: with no previous generation there is
	// nothing to keep serving.
	if _, err := manager.Reload(context.Background()); err != nil {
		return Services{}, cleanup, fmt.Errorf("initial catalog load: %w", err)
	}

	engine := routing.NewEngine(logger, store, retriever, cacheClient, routing.Config{
		TopK:             cfg.Retrieval.TopK,
		RetrievalTimeout: cfg.Retrieval.Timeout,
		CacheResults:     cfg.Retrieval.CacheResults,
		CacheTTL:         cfg.Cache.TTL,
	})

	var flowClient *flowapi.Client
	if cfg.FlowAPI.BaseURL != "" {
		var err error
		flowClient, err = flowapi.NewClient(flowapi.Config{
			BaseURL: cfg.FlowAPI.BaseURL,
			APIKey:  cfg.FlowAPI.APIKey,
			Timeout: cfg.FlowAPI.Timeout,
		})
		if err != nil {
			return Services{}, cleanup, fmt.Errorf("create flow client: %w", err)
		}
	} else {
		logger.Warn().Msg("FLOW_API_URL not set; triggered flows will not be executed")
	}

	var answerer *genai.Client
	if cfg.Generation.APIKey != "" {
		var err error
		answerer, err = genai.NewClient(genai.Config{
			APIKey:    cfg.Generation.APIKey,
			Model:     cfg.Generation.Model,
			BaseURL:   cfg.Generation.BaseURL,
			MaxTokens: cfg.Generation.MaxTokens,
		})
		if err != nil {
			return Services{}, cleanup, fmt.Errorf("create answer client: %w", err)
		}
	}

	var auditStore *audit.Store
	if cfg.Audit.Enabled {
		db, err := audit.Open(cfg.Audit.Driver, cfg.AuditDSN())
		if err != nil {
			return Services{}, cleanup, err
		}
		closers = append(closers, func() { _ = db.Close() })
		auditStore = audit.NewStore(db)
		if err := auditStore.Migrate(context.Background()); err != nil {
			return Services{}, cleanup, err
		}
	}

	return Services{
		Engine:     engine,
		Manager:    manager,
		Flow:       flowClient,
		Answerer:   answerer,
		AuditLog:   audit.NewLogger(logger, auditStore),
		AuditStore: auditStore,
	}, cleanup, nil
}
