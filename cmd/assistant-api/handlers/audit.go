package handlers

import (
	"net/http"
	"strconv"

	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/audit"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/observability"
)

// AuditHandler serves routing-decision history.
type AuditHandler struct {
	logger *observability.Logger
	store  *audit.Store
}

// NewAuditHandler creates an audit handler. store may be nil when auditing
// is disabled; endpoints then report 404.
func NewAuditHandler(logger *observability.Logger, store *audit.Store) *AuditHandler {
	return &AuditHandler{logger: logger, store: store}
}

// Recent returns the latest routing events.
func (h *AuditHandler) Recent(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusNotFound, "audit store disabled")
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	events, err := h.store.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Reading routing events failed")
		writeError(w, http.StatusInternalServerError, "reading routing events failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}

// Stats returns decision counts.
func (h *AuditHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusNotFound, "audit store disabled")
		return
	}

	counts, err := h.store.CountByDecision(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Counting routing events failed")
		writeError(w, http.StatusInternalServerError, "counting routing events failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"decisions": counts})
}
