// Package main provides the assistant API server.
package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/cmd/assistant-api/handlers"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/cmd/assistant-api/middleware"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/audit"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/catalog"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/config"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/flowapi"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/genai"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/observability"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/routing"
)

// Services holds the wired collaborators the router serves from.
type Services struct {
	Engine     *routing.Engine
	Manager    *catalog.Manager
	Flow       *flowapi.Client // nil when FLOW_API_URL is unset
	Answerer   *genai.Client   // nil when OPENROUTER_API_KEY is unset
	AuditLog   *audit.Logger
	AuditStore *audit.Store // nil when auditing is disabled
}

// NewRouter builds the API router with all routes configured.
func NewRouter(logger *observability.Logger, cfg *config.Config, svc Services) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(chimiddleware.Timeout(cfg.Server.WriteTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"catalog-assistant"}`))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if svc.Manager.Store().Current() == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"no catalog generation published"}`))
			return
		}
		w.Write([]byte(`{"status":"ready"}`))
	})

	chatHandler := handlers.NewChatHandler(logger, svc.Engine, svc.Flow, svc.Answerer, svc.AuditLog)
	catalogHandler := handlers.NewCatalogHandler(logger, svc.Manager)
	auditHandler := handlers.NewAuditHandler(logger, svc.AuditStore)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.APIKey(cfg.Server.APIKey))

		r.Post("/chat/query", chatHandler.Query)

		r.Route("/catalog", func(r chi.Router) {
			r.Post("/reload", catalogHandler.Reload)
			r.Get("/info", catalogHandler.Info)
		})

		r.Route("/audit", func(r chi.Router) {
			r.Get("/recent", auditHandler.Recent)
			r.Get("/stats", auditHandler.Stats)
		})
	})

	return r
}
