package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

func NewRedisClient(host, port, password string, dbIndex int) (*redis.Client, error) {
	addr := fmt.Sprintf("%s:%s", host, port)

	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           dbIndex,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return rdb, nil
}

// ErrCorrupted reports a cached value that no longer decodes. The key has
// already been removed when it is returned.
var ErrCorrupted = errors.New("cached value is corrupted")

// JSONCache stores JSON encoded values under a common key prefix.
type JSONCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewJSONCache(client *redis.Client, prefix string, ttl time.Duration) *JSONCache {
	return &JSONCache{client: client, prefix: prefix, ttl: ttl}
}

// Key is the full Redis key for parts.
func (c *JSONCache) Key(parts ...string) string {
	k := c.prefix
	for _, p := range parts {
		k += ":" + p
	}
	return k
}

// Get decodes the value into dst. It reports false on a miss.
func (c *JSONCache) Get(ctx context.Context, dst any, parts ...string) (bool, error) {
	key := c.Key(parts...)

	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(val, dst); err != nil {
		c.client.Del(ctx, key)
		return false, fmt.Errorf("%w: %s", ErrCorrupted, key)
	}
	return true, nil
}

func (c *JSONCache) Set(ctx context.Context, value any, parts ...string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.Key(parts...), data, c.ttl).Err()
}

func (c *JSONCache) Delete(ctx context.Context, parts ...string) error {
	return c.client.Del(ctx, c.Key(parts...)).Err()
}
