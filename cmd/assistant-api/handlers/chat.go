// Package handlers provides HTTP handlers for the assistant API.
package handlers

import (
	"encoding/json"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/audit"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/flowapi"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/genai"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/observability"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/routing"
)

// cannotHelpMessage is the static response for no_answer results, one line
// per supported script variant.
const cannotHelpMessage = "Sorry, I could not find anything about that. / দুঃখিত, এ বিষয়ে কিছু খুঁজে পাইনি। / Dukkhito, e bishoye kichu khuje paini."

// ChatHandler serves the per-query routing endpoint.
type ChatHandler struct {
	logger   *observability.Logger
	engine   *routing.Engine
	flow     *flowapi.Client
	answerer *genai.Client
	audit    *audit.Logger
}

// NewChatHandler creates a chat handler. flow and answerer may be nil when
// the respective collaborator is not configured.
func NewChatHandler(logger *observability.Logger, engine *routing.Engine, flow *flowapi.Client, answerer *genai.Client, auditLog *audit.Logger) *ChatHandler {
	return &ChatHandler{
		logger:   logger,
		engine:   engine,
		flow:     flow,
		answerer: answerer,
		audit:    auditLog,
	}
}

// ChatRequestDTO is the query endpoint request body.
type ChatRequestDTO struct {
	SessionID string `json:"sessionId,omitempty"`
	Message   string `json:"message"`
}

// ChatResponseDTO is the query endpoint response.
type ChatResponseDTO struct {
	Type      string      `json:"type"` // flow_triggered, answer, or no_answer
	TriggerID string      `json:"triggerId,omitempty"`
	FlowRunID string      `json:"flowRunId,omitempty"`
	Answer    string      `json:"answer,omitempty"`
	Sources   []SourceDTO `json:"sources,omitempty"`
	LatencyMs int64       `json:"latencyMs"`
}

// SourceDTO cites one retrieved passage.
type SourceDTO struct {
	NodeID  string  `json:"nodeId"`
	Label   string  `json:"label"`
	Content string  `json:"content"`
	Score   float32 `json:"score"`
}

// Query routes one user message and acts on the decision: fires the flow
// API on a trigger match, generates a grounded answer from retrieved
// passages, or returns the static cannot-help response.
func (h *ChatHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req ChatRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := observability.ContextWithTraceID(r.Context(), chimiddleware.GetReqID(r.Context()))
	result := h.engine.Route(ctx, req.Message)

	resp := ChatResponseDTO{LatencyMs: result.LatencyMs}

	switch result.Kind {
	case routing.ResultTriggered:
		resp.Type = "flow_triggered"
		resp.TriggerID = result.TriggerID
		if h.flow != nil {
			flowResp, err := h.flow.Trigger(ctx, flowapi.TriggerRequest{
				TriggerID: result.TriggerID,
				SessionID: req.SessionID,
			})
			if err != nil {
				h.logger.WithContext(ctx).Warn().Err(err).
					Str("trigger_id", result.TriggerID).
					Msg("Flow API call failed")
			} else {
				resp.FlowRunID = flowResp.FlowRunID
			}
		}

	case routing.ResultRetrieved:
		resp.Type = "answer"
		passages := make([]string, len(result.Documents))
		for i, d := range result.Documents {
			passages[i] = d.Document.Content
			resp.Sources = append(resp.Sources, SourceDTO{
				NodeID:  d.Document.NodeID,
				Label:   d.Document.Label,
				Content: d.Document.Content,
				Score:   d.Score,
			})
		}
		if h.answerer != nil {
			answer, err := h.answerer.Answer(ctx, req.Message, passages)
			if err != nil {
				h.logger.WithContext(ctx).Warn().Err(err).Msg("Answer generation failed")
			} else {
				resp.Answer = answer
			}
		}

	default:
		resp.Type = "no_answer"
		resp.Answer = cannotHelpMessage
	}

	h.audit.Record(ctx, audit.Event{
		SessionID:       req.SessionID,
		Query:           req.Message,
		NormalizedQuery: result.NormalizedQuery,
		Decision:        string(result.Kind),
		TriggerID:       result.TriggerID,
		DocumentCount:   len(result.Documents),
		GenerationSeq:   result.GenerationSeq,
		LatencyMs:       result.LatencyMs,
	})

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
