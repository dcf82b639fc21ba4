package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSystemHandler_Ready(t *testing.T) {
	healthy := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("dial tcp: connection refused") }

	t.Run("all dependencies up", func(t *testing.T) {
		h := NewSystemHandler("backoffice", "test", map[string]HealthCheck{"database": healthy, "redis": healthy})
		r := gin.New()
		r.GET("/health/ready", h.Ready)

		rec := doJSON(r, "GET", "/health/ready", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true,"data":{"status":"ok","checks":{"database":"ok","redis":"ok"}}}`, rec.Body.String())
	})

	t.Run("one dependency down", func(t *testing.T) {
		h := NewSystemHandler("backoffice", "test", map[string]HealthCheck{"database": healthy, "redis": down})
		r := gin.New()
		r.GET("/health/ready", h.Ready)

		rec := doJSON(r, "GET", "/health/ready", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), `"redis":"unavailable"`)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})
}

func TestSystemHandler_HealthAndInfo(t *testing.T) {
	h := NewSystemHandler("backoffice", "1.2.3", nil)
	r := gin.New()
	r.GET("/health", h.Health)
	r.GET("/info", h.Info)

	assert.Equal(t, http.StatusOK, doJSON(r, "GET", "/health", nil).Code)
	rec := doJSON(r, "GET", "/info", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version":"1.2.3"`)
}
