package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/negocio/backoffice/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_RecordsMatchedRoute(t *testing.T) {
	m := telemetry.NewMetrics()
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/products/:id", okHandler)

	perform(r, http.MethodGet, "/products/7f3c", nil)
	perform(r, http.MethodGet, "/products/8a1d", nil)
	perform(r, http.MethodGet, "/nowhere", nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	assert.Contains(t, body, `backoffice_http_requests_total{method="GET",route="/products/:id",status="200"} 2`)
	assert.Contains(t, body, `backoffice_http_requests_total{method="GET",route="unmatched",status="404"} 1`)
	assert.Contains(t, body, `backoffice_http_requests_in_flight 0`)
}
