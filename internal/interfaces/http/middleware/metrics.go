package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/negocio/backoffice/internal/infrastructure/telemetry"
)

// Metrics records request counts and latency by matched route
func Metrics(m *telemetry.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.RequestStarted()

		c.Next()

		m.RequestFinished(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
