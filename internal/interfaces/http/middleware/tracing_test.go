package middleware

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracing_Disabled(t *testing.T) {
	r := gin.New()
	r.Use(Tracing("backoffice", false))
	r.GET("/", okHandler)

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/", nil).Code)
}

func TestSpanAttributes(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	userID, orgID := uuid.New(), uuid.New()

	r := gin.New()
	r.Use(RequestID(), func(c *gin.Context) {
		ctx, span := tp.Tracer("test").Start(c.Request.Context(), "request")
		defer span.End()
		c.Request = c.Request.WithContext(ctx)
		c.Set(AccessKey, &identity.Access{UserID: userID, OrganizationID: orgID})
		c.Set(OrganizationIDKey, orgID)
		c.Next()
	}, SpanAttributes())
	r.GET("/", okHandler)

	perform(r, http.MethodGet, "/", map[string]string{RequestIDKey: "req-7"})

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "req-7", attrs["request_id"].AsString())
	assert.Equal(t, userID.String(), attrs["user_id"].AsString())
	assert.Equal(t, orgID.String(), attrs["organization_id"].AsString())
}
