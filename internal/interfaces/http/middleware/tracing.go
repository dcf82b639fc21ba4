package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Tracing starts a server span per request with otelgin. The span is named
// after the matched route and marked as failed on 5xx responses. When
// tracing is disabled the returned handler only calls the next one.
func Tracing(serviceName string, enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return otelgin.Middleware(serviceName)
}

// SpanAttributes tags the active span with the request, user and
// organization ids. It runs after JWTAuth and OrganizationScope.
func SpanAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			attrs := []attribute.KeyValue{attribute.String("request_id", GetRequestID(c))}
			if userID := GetUserID(c); userID != uuid.Nil {
				attrs = append(attrs, attribute.String("user_id", userID.String()))
			}
			if access := GetAccess(c); access != nil {
				attrs = append(attrs,
					attribute.String("organization_id", GetOrganizationID(c).String()),
					attribute.Bool("superadmin", access.IsSuperadmin),
				)
			}
			span.SetAttributes(attrs...)
		}
		c.Next()
	}
}
