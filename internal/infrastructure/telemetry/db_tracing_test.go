package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type row struct {
	ID   uint
	Name string
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&row{}))
	return db
}

func TestRegisterDBTracing_Disabled(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, RegisterDBTracing(db, DBTracingConfig{}, zap.NewNop()))
	assert.Nil(t, db.Callback().Query().Get("slow_query:after_query"))
}

func TestRegisterDBTracing_Enabled(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, RegisterDBTracing(db, DBTracingConfig{
		Enabled:            true,
		SlowQueryThreshold: time.Second,
	}, zap.NewNop()))
	assert.NotNil(t, db.Callback().Query().Get("slow_query:after_query"))
	assert.NotNil(t, db.Callback().Create().Get("slow_query:before_create"))
}

func TestSlowQueryHooks_FlagSpan(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, registerSlowQueryHooks(db, flagSlow(time.Nanosecond)))

	recorder := tracetest.NewSpanRecorder()
	tp := trace.NewTracerProvider(trace.WithSpanProcessor(recorder))
	ctx, span := tp.Tracer("test").Start(context.Background(), "request")

	var rows []row
	require.NoError(t, db.WithContext(ctx).Find(&rows).Error)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	attrs := map[string]any{}
	for _, attr := range ended[0].Attributes() {
		attrs[string(attr.Key)] = attr.Value.AsInterface()
	}
	assert.Equal(t, true, attrs["db.slow_query"])
	assert.Equal(t, "rows", attrs["db.sql.table"])
}
