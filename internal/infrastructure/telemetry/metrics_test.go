package telemetry

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Requests(t *testing.T) {
	m := NewMetrics()

	m.RequestStarted()
	assert.Equal(t, float64(1), testutil.ToFloat64(m.inFlight))
	m.RequestFinished(http.MethodGet, "/api/v1/products/:id", http.StatusOK, 20*time.Millisecond)
	m.RequestStarted()
	m.RequestFinished(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	assert.Equal(t, float64(0), testutil.ToFloat64(m.inFlight))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/api/v1/products/:id", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestMetrics_Operations(t *testing.T) {
	m := NewMetrics()
	m.RecordOperation("sale_created", nil)
	m.RecordOperation("sale_created", errors.New("no stock"))
	m.RecordOperation("sale_created", nil)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.operations.WithLabelValues("sale_created", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.operations.WithLabelValues("sale_created", "error")))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, m.RegisterDBStats(db, "backoffice"))
	m.RecordOperation("purchase_created", nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "backoffice_business_operations_total")
	assert.Contains(t, body, "go_sql_max_open_connections")
	assert.Contains(t, body, "go_goroutines")
}

func TestSampler(t *testing.T) {
	assert.Contains(t, Sampler(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, Sampler(0).Description(), "AlwaysOffSampler")
	assert.Contains(t, Sampler(0.25).Description(), "TraceIDRatioBased")
}
