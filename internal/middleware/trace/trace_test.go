package trace

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRequestID(t *testing.T) {
	a := GenerateRequestID()
	b := GenerateRequestID()

	assert.True(t, strings.HasPrefix(a, "req_"))
	assert.Len(t, a, 4+16)
	assert.NotEqual(t, a, b)
}

func TestGetRequestID(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))

	ctx := context.WithValue(context.Background(), RequestIDKey, "req_abc")
	assert.Equal(t, "req_abc", GetRequestID(ctx))
}

func TestMiddlewareAttachesRequestID(t *testing.T) {
	m := NewMiddleware(nil)

	var seen string
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.True(t, strings.HasPrefix(seen, "req_"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), m.TotalRequests())
}
