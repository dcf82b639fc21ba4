package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type DBTracingConfig struct {
	Enabled bool
	// SlowQueryThreshold marks spans of slower statements; zero disables it.
	SlowQueryThreshold time.Duration
	// IncludeQueryVariables exports bound parameters. Off outside development.
	IncludeQueryVariables bool
}

type startKey struct{}

// RegisterDBTracing installs otelgorm plus hooks that flag slow statements on
// the active span.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}
	opts := []otelgorm.Option{otelgorm.WithDBName(db.Dialector.Name())}
	if !cfg.IncludeQueryVariables {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	if cfg.SlowQueryThreshold > 0 {
		if err := registerSlowQueryHooks(db, flagSlow(cfg.SlowQueryThreshold)); err != nil {
			return err
		}
	}

	logger.Info("database tracing enabled", zap.Duration("slow_query_threshold", cfg.SlowQueryThreshold))
	return nil
}

func registerSlowQueryHooks(db *gorm.DB, after func(*gorm.DB)) error {
	cb := db.Callback()
	steps := []func() error{
		func() error { return cb.Create().Before("gorm:create").Register("slow_query:before_create", markStart) },
		func() error { return cb.Create().After("gorm:create").Register("slow_query:after_create", after) },
		func() error { return cb.Query().Before("gorm:query").Register("slow_query:before_query", markStart) },
		func() error { return cb.Query().After("gorm:query").Register("slow_query:after_query", after) },
		func() error { return cb.Update().Before("gorm:update").Register("slow_query:before_update", markStart) },
		func() error { return cb.Update().After("gorm:update").Register("slow_query:after_update", after) },
		func() error { return cb.Delete().Before("gorm:delete").Register("slow_query:before_delete", markStart) },
		func() error { return cb.Delete().After("gorm:delete").Register("slow_query:after_delete", after) },
		func() error { return cb.Row().Before("gorm:row").Register("slow_query:before_row", markStart) },
		func() error { return cb.Row().After("gorm:row").Register("slow_query:after_row", after) },
		func() error { return cb.Raw().Before("gorm:raw").Register("slow_query:before_raw", markStart) },
		func() error { return cb.Raw().After("gorm:raw").Register("slow_query:after_raw", after) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func markStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, startKey{}, time.Now())
	}
}

func flagSlow(threshold time.Duration) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			return
		}
		span := trace.SpanFromContext(ctx)
		if !span.IsRecording() {
			return
		}
		if db.Statement.Table != "" {
			span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
		}
		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			span.RecordError(db.Error)
		}
		start, ok := ctx.Value(startKey{}).(time.Time)
		if !ok {
			return
		}
		if elapsed := time.Since(start); elapsed > threshold {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
		}
	}
}
