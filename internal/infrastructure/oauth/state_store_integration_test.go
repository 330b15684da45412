//go:build integration

package oauth_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/farmacia-api/internal/infrastructure/oauth"
)

// setupRedis levanta Redis en un contenedor y devuelve un cliente conectado.
func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(ctx).Err())
	return rdb
}

func TestRedisStateStore(t *testing.T) {
	rdb := setupRedis(t)
	store := oauth.NewRedisStateStore(rdb)
	ctx := context.Background()

	t.Run("consume es de un solo uso", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "st-1", "google", time.Minute))

		provider, ok, err := store.Consume(ctx, "st-1")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "google", provider)

		_, ok, err = store.Consume(ctx, "st-1")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("state desconocido", func(t *testing.T) {
		_, ok, err := store.Consume(ctx, "no-existe")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("expira con el ttl", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "st-2", "facebook", time.Minute))
		ttl, err := rdb.TTL(ctx, "oauth:state:st-2").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, time.Minute)
	})
}
