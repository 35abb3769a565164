package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/catalog"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/observability"
)

const testCatalogYAML = `
version: 1
root:
  id: main_menu
  kind: menu
  text:
    en: "Welcome"
  children:
    - id: balance_check
      kind: option
      trigger: flow_balance_check
      keywords:
        en: ["balance"]
`

func newCatalogHandler(t *testing.T) (*CatalogHandler, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalogYAML), 0o644))

	manager := catalog.NewManager(observability.Nop(), catalog.NewStore(), nil, path)
	return NewCatalogHandler(observability.Nop(), manager), path
}

func TestCatalogHandler_ReloadAndInfo(t *testing.T) {
	h, _ := newCatalogHandler(t)

	rec := httptest.NewRecorder()
	h.Reload(rec, httptest.NewRequest(http.MethodPost, "/api/v1/catalog/reload", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var dto GenerationDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, uint64(1), dto.Generation)
	assert.Equal(t, 1, dto.Documents)
	assert.Equal(t, 1, dto.Triggers)

	rec = httptest.NewRecorder()
	h.Info(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/info", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, uint64(1), dto.Generation)
}

func TestCatalogHandler_Info_NoGeneration(t *testing.T) {
	h, _ := newCatalogHandler(t)

	rec := httptest.NewRecorder()
	h.Info(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/info", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogHandler_Reload_FailureKeepsGeneration(t *testing.T) {
	h, path := newCatalogHandler(t)

	rec := httptest.NewRecorder()
	h.Reload(rec, httptest.NewRequest(http.MethodPost, "/api/v1/catalog/reload", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, os.WriteFile(path, []byte("root: [broken"), 0o644))
	rec = httptest.NewRecorder()
	h.Reload(rec, httptest.NewRequest(http.MethodPost, "/api/v1/catalog/reload", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// The first generation keeps serving.
	rec = httptest.NewRecorder()
	h.Info(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/info", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var dto GenerationDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, uint64(1), dto.Generation)
}
