package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORSMiddleware(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	assertHeaders := func(t *testing.T, w *httptest.ResponseRecorder) {
		assert.Equal(t, "GET, POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization", w.Header().Get("Access-Control-Allow-Headers"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	}

	t.Run("with default origin", func(t *testing.T) {
		called = false
		w := httptest.NewRecorder()
		NewCORSMiddleware("")(next).ServeHTTP(w, httptest.NewRequest("GET", "/api/documents.list", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, called)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assertHeaders(t, w)
	})

	t.Run("with custom origin", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewCORSMiddleware("https://example.com")(next).ServeHTTP(w, httptest.NewRequest("GET", "/api/documents.list", nil))

		assert.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assertHeaders(t, w)
	})

	t.Run("preflight does not reach the handler", func(t *testing.T) {
		called = false
		w := httptest.NewRecorder()
		NewCORSMiddleware("*")(next).ServeHTTP(w, httptest.NewRequest("OPTIONS", "/api/blocks.move", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, called)
		assertHeaders(t, w)
	})
}
