package iocache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/huangsam/commitpulse/internal/contract"
	"github.com/huangsam/commitpulse/schema"
	"github.com/redis/go-redis/v9"
)

// redisKeyPrefix namespaces every cache entry in a shared Redis database.
const redisKeyPrefix = "commitpulse:" + commitTable + ":"

// RedisStore keeps cache entries as Redis hashes with a server side expiry.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ contract.CacheStore = &RedisStore{} // Compile-time check

// NewRedisStore connects to the Redis URL (redis:// or rediss://). A zero ttl keeps entries forever.
func NewRedisStore(connStr string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(connStr)
	if err != nil {
		return nil, fmt.Errorf("invalid redis connection string: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis. Check that the server is running and connection parameters are valid: %w", err)
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

// Get retrieves a value by key from the store.
func (rs *RedisStore) Get(key string) ([]byte, int, int64, error) {
	fields, err := rs.client.HGetAll(context.Background(), redisKeyPrefix+key).Result()
	if err != nil {
		return nil, 0, 0, err
	}
	if len(fields) == 0 {
		return nil, 0, 0, ErrNotFound
	}

	version, err := strconv.Atoi(fields["version"])
	if err != nil {
		return nil, 0, 0, fmt.Errorf("corrupt cache version for %s: %w", key, err)
	}
	ts, err := strconv.ParseInt(fields["timestamp"], 10, 64)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("corrupt cache timestamp for %s: %w", key, err)
	}
	return []byte(fields["value"]), version, ts, nil
}

// Set inserts or replaces a key/value pair in the store.
func (rs *RedisStore) Set(key string, value []byte, version int, timestamp int64) error {
	ctx := context.Background()
	fullKey := redisKeyPrefix + key
	_, err := rs.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, fullKey)
		pipe.HSet(ctx, fullKey, "value", value, "version", version, "timestamp", timestamp)
		if rs.ttl > 0 {
			pipe.Expire(ctx, fullKey, rs.ttl)
		}
		return nil
	})
	return err
}

// Close closes the Redis client.
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}

// GetStatus returns status information about the cache store.
func (rs *RedisStore) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{Backend: string(schema.RedisBackend), Connected: true}
	ctx := context.Background()

	var oldest, last int64
	err := rs.scan(ctx, func(key string) error {
		ts, err := rs.client.HGet(ctx, key, "timestamp").Int64()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}
		if size, err := rs.client.MemoryUsage(ctx, key).Result(); err == nil {
			status.TableSizeBytes += size
		}
		status.TotalEntries++
		if oldest == 0 || ts < oldest {
			oldest = ts
		}
		last = max(last, ts)
		return nil
	})
	if err != nil {
		return status, fmt.Errorf("failed to scan cache entries: %w", err)
	}
	if status.TotalEntries > 0 {
		status.LastEntryTime = time.Unix(last, 0)
		status.OldestEntryTime = time.Unix(oldest, 0)
	}
	return status, nil
}

// clear deletes every key written by this store.
func (rs *RedisStore) clear() error {
	ctx := context.Background()
	return rs.scan(ctx, func(key string) error {
		return rs.client.Del(ctx, key).Err()
	})
}

// scan visits every cache key.
func (rs *RedisStore) scan(ctx context.Context, visit func(key string) error) error {
	iter := rs.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := visit(iter.Val()); err != nil {
			return err
		}
	}
	return iter.Err()
}
