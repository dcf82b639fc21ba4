package middleware

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("generates when missing", func(t *testing.T) {
		rec := perform(r, http.MethodGet, "/", nil)
		id := rec.Header().Get(RequestIDKey)
		assert.Len(t, id, 36)
		assert.Equal(t, id, rec.Body.String())
	})

	t.Run("reuses caller id", func(t *testing.T) {
		rec := perform(r, http.MethodGet, "/", map[string]string{RequestIDKey: "req-42"})
		assert.Equal(t, "req-42", rec.Header().Get(RequestIDKey))
	})

	t.Run("replaces oversized id", func(t *testing.T) {
		long := strings.Repeat("x", maxRequestIDLength+1)
		rec := perform(r, http.MethodGet, "/", map[string]string{RequestIDKey: long})
		assert.NotEqual(t, long, rec.Header().Get(RequestIDKey))
	})
}

func TestCORS(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"https://admin.example.com"}
	r := gin.New()
	r.Use(CORS(cfg))
	r.GET("/", okHandler)

	t.Run("allowed origin", func(t *testing.T) {
		rec := perform(r, http.MethodGet, "/", map[string]string{"Origin": "https://admin.example.com"})
		assert.Equal(t, "https://admin.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), OrganizationHeaderKey)
	})

	t.Run("unknown origin", func(t *testing.T) {
		rec := perform(r, http.MethodGet, "/", map[string]string{"Origin": "https://evil.example.com"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		rec := perform(r, http.MethodOptions, "/", map[string]string{"Origin": "https://admin.example.com"})
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "43200", rec.Header().Get("Access-Control-Max-Age"))
	})
}

func TestSecureHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecureHeaders(true))
	r.GET("/", okHandler)

	rec := perform(r, http.MethodGet, "/", nil)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}
