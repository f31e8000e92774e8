package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/jonwraymond/healthops/secret"
)

// RedisConfig configures the Redis-backed cache.
type RedisConfig struct {
	// Address is the host:port of the Redis server.
	// Default: "localhost:6379"
	Address string

	// Password is the optional server password.
	Password string

	// Database is the Redis database index.
	Database int

	// KeyPrefix is prepended to every key to namespace the engine's
	// entries on a shared instance.
	// Default: "healthops:"
	KeyPrefix string

	// DialTimeout bounds connection establishment.
	// Default: 5s
	DialTimeout time.Duration

	// ReadTimeout bounds individual reads.
	// Default: 3s
	ReadTimeout time.Duration

	// WriteTimeout bounds individual writes.
	// Default: 3s
	WriteTimeout time.Duration
}

// ResolvePassword resolves environment and secretref references in the
// configured password. Call before NewRedisCache so the literal reference
// never reaches the client.
func (c *RedisConfig) ResolvePassword(ctx context.Context, resolver *secret.Resolver) error {
	if c.Password == "" {
		return nil
	}
	resolved, err := resolver.ResolveValue(ctx, c.Password)
	if err != nil {
		return fmt.Errorf("cache: resolve redis password: %w", err)
	}
	c.Password = resolved
	return nil
}

// RedisCache backs the Cache interface with a Redis instance.
type RedisCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisCache creates a Redis-backed cache.
func NewRedisCache(config RedisConfig) *RedisCache {
	if config.Address == "" {
		config.Address = "localhost:6379"
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = "healthops:"
	}
	if config.DialTimeout <= 0 {
		config.DialTimeout = 5 * time.Second
	}
	if config.ReadTimeout <= 0 {
		config.ReadTimeout = 3 * time.Second
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 3 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:         config.Address,
		Password:     config.Password,
		DB:           config.Database,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	return &RedisCache{
		client:    client,
		keyPrefix: config.KeyPrefix,
	}
}

// NewRedisCacheWithClient wraps an existing client. The caller retains
// ownership of the client's lifecycle.
func NewRedisCacheWithClient(client *redis.Client, keyPrefix string) *RedisCache {
	if keyPrefix == "" {
		keyPrefix = "healthops:"
	}
	return &RedisCache{client: client, keyPrefix: keyPrefix}
}

// Get retrieves a cached value. Backend failures count as misses.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if err != nil {
		return nil, false
	}
	return value, true
}

// Set stores a value with the given TTL. TTL<=0 means no caching.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.keyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache: redis set %q: %w", key, err)
	}
	return nil
}

// Delete removes a cached value. Idempotent - no error on miss.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("cache: redis delete %q: %w", key, err)
	}
	return nil
}

// Ping verifies connectivity to the Redis server.
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ensure RedisCache implements Cache
var _ Cache = (*RedisCache)(nil)
