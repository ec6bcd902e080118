package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "latencyd:query:"

// RedisCache is a Redis-backed Cache for multi-instance deployments.
// Entries are stored as JSON under "latencyd:query:{key}" with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis and verifies the connection.
//
// A ttl of 0 uses a default of 5 minutes; unlike MemoryCache, redis entries
// always expire so a restarted dataset file cannot leave stale results
// behind across deployments.
func NewRedisCache(addr, password string, db int, ttl time.Duration) (*RedisCache, error) {
	if addr == "" {
		return nil, errors.New("redis address cannot be empty")
	}
	if db < 0 {
		return nil, errors.New("redis database number must be >= 0")
	}
	if ttl == 0 {
		ttl = 5 * time.Minute
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

// Get retrieves a cached entry. A missing key is (Entry{}, false, nil).
func (c *RedisCache) Get(ctx context.Context, key string) (Entry, bool, error) {
	if key == "" {
		return Entry{}, false, errors.New("cache key cannot be empty")
	}

	data, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("failed to get entry from redis: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return Entry{}, false, fmt.Errorf("failed to unmarshal cache entry: %w", err)
	}
	return entry, true, nil
}

// Put stores an entry with the configured TTL.
func (c *RedisCache) Put(ctx context.Context, key string, entry Entry) error {
	if key == "" {
		return errors.New("cache key cannot be empty")
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	if err := c.client.Set(ctx, redisKeyPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store entry in redis: %w", err)
	}
	return nil
}

// Close closes the Redis client connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ping checks the Redis connection health.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
