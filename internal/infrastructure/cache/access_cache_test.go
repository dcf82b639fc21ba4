package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/identity"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAccess() *identity.Access {
	roleID := uuid.New()
	return &identity.Access{
		UserID:         uuid.New(),
		OrganizationID: uuid.New(),
		ActiveRoleID:   &roleID,
		ActiveRoleCode: "SELLER",
		Permissions:    []string{"sale:read", "sale:create"},
	}
}

func TestInMemoryAccessCache_SetGet(t *testing.T) {
	c := NewInMemoryAccessCache(time.Minute)
	ctx := context.Background()
	access := newAccess()

	got, err := c.Get(ctx, access.UserID)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, access))
	got, err = c.Get(ctx, access.UserID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, access.Permissions, got.Permissions)
	assert.Equal(t, "SELLER", got.ActiveRoleCode)

	// Stored entries are isolated from caller mutation.
	access.Permissions[0] = "tampered"
	got, err = c.Get(ctx, access.UserID)
	require.NoError(t, err)
	assert.Equal(t, "sale:read", got.Permissions[0])
}

func TestInMemoryAccessCache_Expiry(t *testing.T) {
	c := NewInMemoryAccessCache(time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }
	ctx := context.Background()
	access := newAccess()

	require.NoError(t, c.Set(ctx, access))
	c.now = func() time.Time { return now.Add(2 * time.Minute) }

	got, err := c.Get(ctx, access.UserID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestInMemoryAccessCache_Invalidate(t *testing.T) {
	c := NewInMemoryAccessCache(0)
	ctx := context.Background()
	a, b := newAccess(), newAccess()
	require.NoError(t, c.Set(ctx, a))
	require.NoError(t, c.Set(ctx, b))
	assert.Equal(t, 2, c.Len())

	require.NoError(t, c.Invalidate(ctx, a.UserID))
	assert.Equal(t, 1, c.Len())

	got, err := c.Get(ctx, b.UserID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestNewAccessCache(t *testing.T) {
	assert.IsType(t, &InMemoryAccessCache{}, NewAccessCache(nil, time.Minute, zap.NewNop()))

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = client.Close() })
	assert.IsType(t, &RedisAccessCache{}, NewAccessCache(client, time.Minute, nil))
}

func TestRedisAccessCache_Errors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	c := NewRedisAccessCache(client, time.Minute)
	ctx := context.Background()

	_, err := c.Get(ctx, uuid.New())
	assert.ErrorContains(t, err, "read access cache")
	assert.ErrorContains(t, c.Set(ctx, newAccess()), "write access cache")
	assert.NoError(t, c.Invalidate(ctx))
}
