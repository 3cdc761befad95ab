package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"bookswap/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

const (
	filterOptionsKey     = "bookswap:books:filter_options"
	filterOptionsVersion = filterOptionsKey + ":version"
)

func ConnectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("could not connect to redis: %w", err)
	}
	return rdb, nil
}

// RedisCache keeps one JSON entry per version under
// bookswap:books:filter_options:<version>. Invalidate increments the
// version counter, so a write racing with an invalidation lands on a key
// that is never read again and expires with the TTL.
type RedisCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisCache(rdb redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func optionsKey(version int64) string {
	return filterOptionsKey + ":" + strconv.FormatInt(version, 10)
}

func (c *RedisCache) version(ctx context.Context) (int64, error) {
	v, err := c.rdb.Get(ctx, filterOptionsVersion).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get filter options version: %w", err)
	}
	return v, nil
}

func (c *RedisCache) Get(ctx context.Context) (*model.FilterOptions, int64, error) {
	version, err := c.version(ctx)
	if err != nil {
		return nil, 0, err
	}
	raw, err := c.rdb.Get(ctx, optionsKey(version)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, version, nil
		}
		return nil, version, fmt.Errorf("redis get filter options: %w", err)
	}
	var opts model.FilterOptions
	if err := json.Unmarshal(raw, &opts); err != nil {
		return nil, version, fmt.Errorf("decode cached filter options: %w", err)
	}
	return &opts, version, nil
}

func (c *RedisCache) Set(ctx context.Context, version int64, opts model.FilterOptions) error {
	raw, err := json.Marshal(opts)
	if err != nil {
		return fmt.Errorf("encode filter options: %w", err)
	}
	if err := c.rdb.Set(ctx, optionsKey(version), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set filter options: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Incr(ctx, filterOptionsVersion).Err(); err != nil {
		return fmt.Errorf("redis incr filter options version: %w", err)
	}
	return nil
}
