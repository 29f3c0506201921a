package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	appinventory "github.com/stockledger/backend/internal/application/inventory"
	"github.com/redis/go-redis/v9"
)

// RedisLevelCache caches projected stock levels in Redis. Suitable for
// distributed deployments where several instances serve level reads
// from a shared cache.
type RedisLevelCache struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisLevelCache creates a Redis-backed level cache and verifies
// the connection before returning.
func NewRedisLevelCache(cfg RedisConfig) (*RedisLevelCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisLevelCache{
		client:    client,
		keyPrefix: "level:",
	}, nil
}

// NewRedisLevelCacheWithClient creates a cache with an existing Redis
// client, useful for testing or sharing a client across components.
func NewRedisLevelCacheWithClient(client *redis.Client, keyPrefix string) *RedisLevelCache {
	if keyPrefix == "" {
		keyPrefix = "level:"
	}
	return &RedisLevelCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// setIfNewer stores "version:level" only when the existing entry is
// absent or carries an older version, as one atomic redis operation.
var setIfNewer = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
if cur then
	local ver = tonumber(string.match(cur, '^(%d+):'))
	if ver and ver >= tonumber(ARGV[1]) then
		return 0
	end
end
redis.call('SET', KEYS[1], ARGV[1] .. ':' .. ARGV[2], 'PX', ARGV[3])
return 1
`)

// Get returns the cached level for a key and whether it was present
func (c *RedisLevelCache) Get(ctx context.Context, storeID, productID uuid.UUID) (int64, bool, error) {
	value, err := c.client.Get(ctx, c.key(storeID, productID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read cached level: %w", err)
	}

	_, rawLevel, ok := strings.Cut(value, ":")
	if !ok {
		// Corrupt entry, treat as a miss
		return 0, false, nil
	}
	level, err := strconv.ParseInt(rawLevel, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return level, true, nil
}

// Set populates the entry for a key with a bounded time-to-live. An
// entry stamped with an equal or newer version is left untouched.
func (c *RedisLevelCache) Set(ctx context.Context, storeID, productID uuid.UUID, level, version int64, ttl time.Duration) error {
	err := setIfNewer.Run(ctx, c.client, []string{c.key(storeID, productID)},
		version, level, ttl.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("failed to cache level: %w", err)
	}
	return nil
}

// Invalidate drops the entry for a key
func (c *RedisLevelCache) Invalidate(ctx context.Context, storeID, productID uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(storeID, productID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached level: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisLevelCache) Close() error {
	return c.client.Close()
}

func (c *RedisLevelCache) key(storeID, productID uuid.UUID) string {
	return c.keyPrefix + storeID.String() + ":" + productID.String()
}

var _ appinventory.LevelCache = (*RedisLevelCache)(nil)
