package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/negocio/backoffice/internal/domain/identity"
	"github.com/negocio/backoffice/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient connects to redis and verifies the connection.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr(), err)
	}
	return client, nil
}

// NewAccessCache returns a redis backed cache when client is set and an
// in-process one otherwise.
func NewAccessCache(client redis.UniversalClient, ttl time.Duration, logger *zap.Logger) identity.AccessCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if client == nil {
		logger.Warn("redis disabled, permission cache is local to this process")
		return NewInMemoryAccessCache(ttl)
	}
	return NewRedisAccessCache(client, ttl)
}
