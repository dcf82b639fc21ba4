package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func traceFn(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestGormLogger_Trace(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info, 100*time.Millisecond)
	ctx := WithRequestID(context.Background(), "req-9")

	gl.Trace(ctx, time.Now(), traceFn("SELECT 1", 1), nil)
	gl.Trace(ctx, time.Now().Add(-time.Second), traceFn("SELECT pg_sleep(1)", 1), nil)
	gl.Trace(ctx, time.Now(), traceFn("SELECT * FROM users", 0), gormlogger.ErrRecordNotFound)
	gl.Trace(ctx, time.Now(), traceFn("INSERT", 0), errors.New("duplicate key"))

	assert.Equal(t, 2, recorded.FilterMessage("sql").Len())
	assert.Equal(t, 1, recorded.FilterMessage("slow sql").Len())
	assert.Equal(t, 1, recorded.FilterMessage("sql error").Len())
	assert.Equal(t, "req-9", recorded.FilterMessage("sql error").All()[0].ContextMap()["request_id"])
}

func TestGormLogger_Silent(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info, 0).LogMode(gormlogger.Silent)

	gl.Trace(context.Background(), time.Now(), traceFn("SELECT 1", 1), errors.New("x"))
	assert.Equal(t, 0, recorded.Len())
}

func TestGormLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Info, GormLevel("debug"))
	assert.Equal(t, gormlogger.Error, GormLevel("error"))
	assert.Equal(t, gormlogger.Warn, GormLevel("info"))
}
