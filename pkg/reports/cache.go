package reports

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kart-io/uapush/pkg/config"
	uaerrors "github.com/kart-io/uapush/pkg/errors"
	"github.com/kart-io/uapush/pkg/logger"
)

const redisKeyPrefix = "uapush:responses:"

// Cache stores encoded report responses by push id.
type Cache interface {
	// Get returns the cached value; ok is false on a miss.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set stores value for ttl. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error

	// Backend names the implementation, e.g. "memory" or "redis".
	Backend() string
}

// NewCache builds the cache selected by cfg. It returns nil when caching is
// disabled, a MemoryCache when no redis URL is configured, and a RedisCache
// otherwise.
func NewCache(ctx context.Context, cfg config.CacheConfig, log logger.Logger) (Cache, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.RedisURL == "" {
		return NewMemoryCache(), nil
	}
	c, err := NewRedisCache(ctx, cfg.RedisURL, log)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// MemoryCache implements in-process caching
type MemoryCache struct {
	items map[string]cacheItem
	mutex sync.RWMutex
	now   func() time.Time
}

type cacheItem struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryCache creates a new memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		items: make(map[string]cacheItem),
		now:   time.Now,
	}
}

// Get retrieves a cached value
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mutex.RLock()
	item, exists := c.items[key]
	c.mutex.RUnlock()
	if !exists {
		return nil, false, nil
	}

	if !item.expiresAt.IsZero() && c.now().After(item.expiresAt) {
		c.mutex.Lock()
		delete(c.items, key)
		c.mutex.Unlock()
		return nil, false, nil
	}
	return item.value, true, nil
}

// Set stores a value in cache
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = c.now().Add(ttl)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.items[key] = cacheItem{value: append([]byte(nil), value...), expiresAt: expiresAt}
	return nil
}

// Delete removes a value from cache
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.items, key)
	return nil
}

// Size returns the number of cached entries, expired or not
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.items)
}

// Close is a no-op
func (c *MemoryCache) Close() error { return nil }

// Backend returns "memory"
func (c *MemoryCache) Backend() string { return "memory" }

// RedisCache implements Cache using Redis
type RedisCache struct {
	logger logger.Logger
	client *redis.Client
}

// NewRedisCache connects to the redis server at redisURL
// (redis://[:password@]host:port/db) and verifies it with PING.
func NewRedisCache(ctx context.Context, redisURL string, log logger.Logger) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, uaerrors.Wrap(err, uaerrors.ErrInvalidConfig, "invalid redis URL")
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, uaerrors.Wrap(err, uaerrors.ErrCacheFailed, "failed to connect to Redis")
	}

	if log == nil {
		log = logger.Discard
	}
	log.Debug("Redis cache initialized", "addr", opts.Addr, "db", opts.DB)
	return &RedisCache{logger: log, client: rdb}, nil
}

// Get retrieves a cached value from Redis
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	result, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		c.logger.Error("Redis GET failed", "key", key, "error", err)
		return nil, false, uaerrors.Wrap(err, uaerrors.ErrCacheFailed, "redis get failed")
	}

	c.logger.Debug("Redis cache hit", "key", key, "size", len(result))
	return result, true, nil
}

// Set stores a value in Redis with TTL
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, redisKeyPrefix+key, value, ttl).Err(); err != nil {
		c.logger.Error("Redis SET failed", "key", key, "error", err)
		return uaerrors.Wrap(err, uaerrors.ErrCacheFailed, "redis set failed")
	}

	c.logger.Debug("Redis cache set", "key", key, "ttl", ttl, "size", len(value))
	return nil
}

// Delete removes a cached value from Redis
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		c.logger.Error("Redis DEL failed", "key", key, "error", err)
		return uaerrors.Wrap(err, uaerrors.ErrCacheFailed, "redis delete failed")
	}
	return nil
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	if err := c.client.Close(); err != nil {
		return uaerrors.Wrap(err, uaerrors.ErrCacheFailed, "redis close failed")
	}
	return nil
}

// Backend returns "redis"
func (c *RedisCache) Backend() string { return "redis" }
