//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfilment/internal/domain/catalogs/location"
	"fulfilment/internal/infrastructure/cache"
	"fulfilment/internal/testutil/containers"
)

func TestLocationCache_Redis(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()
	require.NoError(t, rc.FlushAll(ctx))

	c := cache.NewLocationCache(rc.Client, location.DefaultCatalog(), time.Minute)

	loc, err := c.ResolveByIdentifier(ctx, "EINDHOVEN-001")
	require.NoError(t, err)
	assert.Equal(t, 2, loc.MaxNumberOfWarehouses)

	ttl, err := rc.Client.TTL(ctx, "fulfilment:location:EINDHOVEN-001").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, c.Invalidate(ctx, "EINDHOVEN-001"))
	n, err := rc.Client.Exists(ctx, "fulfilment:location:EINDHOVEN-001").Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}
