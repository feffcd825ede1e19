package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newHandler(origins ...string) http.Handler {
	cfg := DefaultConfig()
	cfg.AllowedOrigins = origins
	return NewMiddleware(cfg).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestAllowsOrigin(t *testing.T) {
	m := NewMiddleware(Config{AllowedOrigins: []string{"http://localhost:3000", "https://app.example.com/"}})

	assert.True(t, m.AllowsOrigin("http://localhost:3000"))
	// Trailing slash in config is normalized away
	assert.True(t, m.AllowsOrigin("https://app.example.com"))
	assert.False(t, m.AllowsOrigin("http://evil.example"))
}

func TestAllowedOriginHeaders(t *testing.T) {
	handler := newHandler("http://localhost:3000")

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))
}

func TestDisallowedOriginGetsNoGrant(t *testing.T) {
	handler := newHandler("http://localhost:3000")

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	// The request still runs, it just gets no CORS headers
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestPreflight(t *testing.T) {
	handler := newHandler("http://localhost:3000")

	req := httptest.NewRequest(http.MethodOptions, "/api/expenses", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
}

func TestNoOriginPassesThrough(t *testing.T) {
	handler := newHandler("http://localhost:3000")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
