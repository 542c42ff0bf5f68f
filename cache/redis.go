package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultKeyPrefix namespaces srctl keys in a shared Redis database.
const DefaultKeyPrefix = "srctl:"

// RedisCache is a Redis-backed translation cache shared between runs and machines.
type RedisCache struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	timeout   time.Duration
	logger    zerolog.Logger
}

// RedisConfig holds configuration for the Redis cache.
type RedisConfig struct {
	URL       string         // Redis connection URL (e.g., "redis://localhost:6379/0")
	TTL       int            // TTL in seconds (0 = no expiration)
	KeyPrefix string         // Prefix for all keys (default: "srctl:")
	Timeout   time.Duration  // Per-operation timeout (default: 2s)
	Logger    zerolog.Logger // Receives lookup failures, which are treated as misses
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	c := NewRedisCacheFromClient(redis.NewClient(opts), cfg.TTL, cfg.KeyPrefix)
	c.logger = cfg.Logger
	if cfg.Timeout > 0 {
		c.timeout = cfg.Timeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.client.Ping(ctx).Err(); err != nil {
		c.client.Close()
		return nil, err
	}

	return c, nil
}

// NewRedisCacheFromClient creates a RedisCache from an existing Redis client.
func NewRedisCacheFromClient(client *redis.Client, ttlSeconds int, keyPrefix string) *RedisCache {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}

	var ttl time.Duration
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}

	return &RedisCache{
		client:    client,
		ttl:       ttl,
		keyPrefix: keyPrefix,
		timeout:   2 * time.Second,
		logger:    zerolog.Nop(),
	}
}

// Get retrieves a value from Redis. Connection errors are logged and reported as a miss.
func (c *RedisCache) Get(key string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	val, err := c.client.Get(ctx, c.keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Redis lookup failed")
		return "", false
	}
	return val, true
}

// Set stores a value in Redis.
func (c *RedisCache) Set(key string, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	return c.client.Set(ctx, c.keyPrefix+key, value, c.ttl).Err()
}

// ListEntries walks the key space under the prefix with SCAN and fetches
// the values in batches. Keys are returned without the prefix.
func (c *RedisCache) ListEntries(ctx context.Context) (map[string]string, error) {
	result := make(map[string]string)
	var cursor uint64

	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.keyPrefix+"*", 100).Result()
		if err != nil {
			return nil, err
		}

		if len(keys) > 0 {
			values, err := c.client.MGet(ctx, keys...).Result()
			if err != nil {
				return nil, err
			}
			for i, v := range values {
				// Keys may expire between SCAN and MGET.
				if s, ok := v.(string); ok {
					result[keys[i][len(c.keyPrefix):]] = s
				}
			}
		}

		cursor = next
		if cursor == 0 {
			return result, nil
		}
	}
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ping tests the Redis connection.
func (c *RedisCache) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	return c.client.Ping(ctx).Err()
}

var _ Enumerable = (*RedisCache)(nil)
