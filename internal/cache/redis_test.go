package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"cosmic-blueprint/internal/blueprint"
	"cosmic-blueprint/internal/domain"
	"cosmic-blueprint/internal/instant"
)

// setupRedis starts a Redis container and returns its connection URL.
func setupRedis(t *testing.T) (string, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err, "failed to start redis container")

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err, "failed to get redis connection string")

	return url, func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}
}

func TestRedisCache_RoundTrip(t *testing.T) {
	url, cleanup := setupRedis(t)
	defer cleanup()

	ctx := context.Background()
	c, err := Connect(ctx, url, time.Hour)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Health(ctx))

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	bp, err := blueprint.New(blueprint.Options{Resolver: instant.NewResolver(nil, nil)}).Compute(domain.BirthInput{
		Date: "1990-09-04", Time: "12:45", Latitude: -25.7479, Longitude: 28.2293, Timezone: "Africa/Johannesburg",
	})
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, "fp", bp))

	got, ok, err := c.Get(ctx, "fp")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, bp.Planets, got.Planets)
	assert.Equal(t, bp.Aspects, got.Aspects)
	assert.Equal(t, bp.HouseCusps, got.HouseCusps)
	assert.True(t, bp.InstantUTC.Equal(got.InstantUTC))

	ttl, err := c.client.TTL(ctx, Key("fp")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)
}

func TestConnect_InvalidURL(t *testing.T) {
	_, err := Connect(context.Background(), "not a url", time.Hour)
	assert.Error(t, err)
}
