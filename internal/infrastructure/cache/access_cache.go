package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/identity"
	"github.com/redis/go-redis/v9"
)

const (
	accessKeyPrefix  = "backoffice:access:"
	defaultAccessTTL = 10 * time.Minute
)

func accessKey(userID uuid.UUID) string {
	return accessKeyPrefix + userID.String()
}

// RedisAccessCache shares resolved access between instances.
type RedisAccessCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisAccessCache creates a RedisAccessCache. A non-positive ttl uses
// the ten minute default.
func NewRedisAccessCache(client redis.UniversalClient, ttl time.Duration) *RedisAccessCache {
	if ttl <= 0 {
		ttl = defaultAccessTTL
	}
	return &RedisAccessCache{client: client, ttl: ttl}
}

// Get returns the cached access of userID, or nil on a miss
func (c *RedisAccessCache) Get(ctx context.Context, userID uuid.UUID) (*identity.Access, error) {
	raw, err := c.client.Get(ctx, accessKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read access cache: %w", err)
	}
	var access identity.Access
	if err := json.Unmarshal(raw, &access); err != nil {
		return nil, fmt.Errorf("decode access cache: %w", err)
	}
	return &access, nil
}

// Set stores access under its user id until the ttl runs out
func (c *RedisAccessCache) Set(ctx context.Context, access *identity.Access) error {
	raw, err := json.Marshal(access)
	if err != nil {
		return fmt.Errorf("encode access cache: %w", err)
	}
	if err := c.client.Set(ctx, accessKey(access.UserID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("write access cache: %w", err)
	}
	return nil
}

// Invalidate deletes the entries of userIDs in one round trip
func (c *RedisAccessCache) Invalidate(ctx context.Context, userIDs ...uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = accessKey(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidate access cache: %w", err)
	}
	return nil
}

var _ identity.AccessCache = (*RedisAccessCache)(nil)

type accessEntry struct {
	access    identity.Access
	expiresAt time.Time
}

// InMemoryAccessCache is used when redis is disabled and in tests.
type InMemoryAccessCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]accessEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewInMemoryAccessCache creates an empty InMemoryAccessCache
func NewInMemoryAccessCache(ttl time.Duration) *InMemoryAccessCache {
	if ttl <= 0 {
		ttl = defaultAccessTTL
	}
	return &InMemoryAccessCache{
		entries: make(map[uuid.UUID]accessEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns a copy of the cached access of userID. Expired entries miss.
func (c *InMemoryAccessCache) Get(_ context.Context, userID uuid.UUID) (*identity.Access, error) {
	c.mu.RLock()
	entry, ok := c.entries[userID]
	c.mu.RUnlock()
	if !ok || c.now().After(entry.expiresAt) {
		return nil, nil
	}
	access := entry.access
	access.Permissions = append([]string(nil), entry.access.Permissions...)
	return &access, nil
}

// Set stores a copy of access
func (c *InMemoryAccessCache) Set(_ context.Context, access *identity.Access) error {
	entry := accessEntry{access: *access, expiresAt: c.now().Add(c.ttl)}
	entry.access.Permissions = append([]string(nil), access.Permissions...)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[access.UserID] = entry
	return nil
}

// Invalidate drops the entries of userIDs
func (c *InMemoryAccessCache) Invalidate(_ context.Context, userIDs ...uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range userIDs {
		delete(c.entries, id)
	}
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (c *InMemoryAccessCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

var _ identity.AccessCache = (*InMemoryAccessCache)(nil)
