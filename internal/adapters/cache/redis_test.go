package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func connect(t *testing.T) *redis.Client {
	t.Helper()
	_ = godotenv.Load("../../../.env")

	rdb, err := NewRedisClient(
		getEnv("REDIS_HOST", "localhost"),
		getEnv("REDIS_PORT", "6379"),
		getEnv("REDIS_PASSWORD", ""),
		1,
	)
	if err != nil {
		t.Skipf("Skipping Redis integration test: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })

	require.NoError(t, rdb.FlushDB(context.Background()).Err(), "Failed to flush test DB")
	return rdb
}

func TestRedisClient_Integration(t *testing.T) {
	rdb := connect(t)
	ctx := context.Background()

	t.Run("Connection Ping", func(t *testing.T) {
		pong, err := rdb.Ping(ctx).Result()
		assert.NoError(t, err)
		assert.Equal(t, "PONG", pong)
	})

	t.Run("Expire Check", func(t *testing.T) {
		key := "test_expire"
		err := rdb.Set(ctx, key, "expire_me", 1*time.Second).Err()
		require.NoError(t, err)

		time.Sleep(1100 * time.Millisecond)

		_, err = rdb.Get(ctx, key).Result()
		assert.ErrorIs(t, err, redis.Nil, "Errors need to be of type 'redis.Nil'")
	})

	t.Run("Concurrent Access", func(t *testing.T) {
		concurrency := 20
		done := make(chan bool)

		for i := 0; i < concurrency; i++ {
			go func(id int) {
				key := fmt.Sprintf("concurrent_key_%d", id)
				assert.NoError(t, rdb.Set(ctx, key, "val", 10*time.Second).Err())
				_, err := rdb.Get(ctx, key).Result()
				assert.NoError(t, err)
				done <- true
			}(i)
		}

		for i := 0; i < concurrency; i++ {
			<-done
		}
	})
}

func TestJSONCache_Integration(t *testing.T) {
	rdb := connect(t)
	ctx := context.Background()
	c := NewJSONCache(rdb, "test", time.Minute)

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	var got payload
	hit, err := c.Get(ctx, &got, "u1")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, payload{Name: "streak", Count: 3}, "u1"))
	hit, err = c.Get(ctx, &got, "u1")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, payload{Name: "streak", Count: 3}, got)

	require.NoError(t, rdb.Set(ctx, "test:broken", "{oops", time.Minute).Err())
	_, err = c.Get(ctx, &got, "broken")
	assert.ErrorIs(t, err, ErrCorrupted)
	assert.Zero(t, rdb.Exists(ctx, "test:broken").Val(), "corrupted key is dropped")

	require.NoError(t, c.Delete(ctx, "u1"))
	hit, err = c.Get(ctx, &got, "u1")
	require.NoError(t, err)
	assert.False(t, hit)
}
