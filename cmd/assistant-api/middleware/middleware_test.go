package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestAPIKey(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		provided   string
		wantStatus int
	}{
		{"empty key disables check", "", "", http.StatusOK},
		{"matching key", "secret", "secret", http.StatusOK},
		{"wrong key", "secret", "wrong", http.StatusUnauthorized},
		{"missing header", "secret", "", http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := APIKey(tc.configured)(okHandler)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.provided != "" {
				req.Header.Set("X-API-Key", tc.provided)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestCORS(t *testing.T) {
	t.Run("allow all when unconfigured", func(t *testing.T) {
		handler := CORS(nil)(okHandler)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("specific origin", func(t *testing.T) {
		handler := CORS([]string{"https://chat.example.com"})(okHandler)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://chat.example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, "https://chat.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

		req.Header.Set("Origin", "https://evil.example.com")
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		handler := CORS(nil)(okHandler)

		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "https://example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
