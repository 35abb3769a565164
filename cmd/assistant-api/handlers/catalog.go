package handlers

import (
	"net/http"
	"time"

	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/catalog"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/observability"
)

// CatalogHandler serves catalog lifecycle endpoints.
type CatalogHandler struct {
	logger  *observability.Logger
	manager *catalog.Manager
}

// NewCatalogHandler creates a catalog handler.
func NewCatalogHandler(logger *observability.Logger, manager *catalog.Manager) *CatalogHandler {
	return &CatalogHandler{logger: logger, manager: manager}
}

// GenerationDTO describes one catalog generation.
type GenerationDTO struct {
	Generation uint64            `json:"generation"`
	LoadedAt   time.Time         `json:"loadedAt"`
	Documents  int               `json:"documents"`
	Triggers   int               `json:"triggers"`
	Keywords   int               `json:"keywords"`
	Warnings   []catalog.Warning `json:"warnings,omitempty"`
}

// Reload rebuilds the catalog generation from the source file. A failed
// reload reports the error and leaves the serving generation unchanged.
func (h *CatalogHandler) Reload(w http.ResponseWriter, r *http.Request) {
	gen, err := h.manager.Reload(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Catalog reload failed; previous generation keeps serving")
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, generationDTO(gen))
}

// Info reports the currently-serving generation.
func (h *CatalogHandler) Info(w http.ResponseWriter, r *http.Request) {
	gen := h.manager.Store().Current()
	if gen == nil {
		writeError(w, http.StatusNotFound, "no catalog generation published")
		return
	}
	writeJSON(w, http.StatusOK, generationDTO(gen))
}

func generationDTO(gen *catalog.Generation) GenerationDTO {
	return GenerationDTO{
		Generation: gen.Seq,
		LoadedAt:   gen.LoadedAt,
		Documents:  len(gen.Documents),
		Triggers:   gen.Index.Records(),
		Keywords:   gen.Index.Keywords(),
		Warnings:   gen.Warnings,
	}
}
