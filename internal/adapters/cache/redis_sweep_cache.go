package cache

import (
	"context"
	"courier-route-service/internal/domain"
	"courier-route-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	SweepKeyPrefix  = "pareto:"
	DefaultSweepTTL = 30 * time.Minute
)

// RedisSweepCache stores Pareto fronts as JSON values with a TTL.
type RedisSweepCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSweepCache(client *redis.Client, ttl time.Duration) *RedisSweepCache {
	if ttl <= 0 {
		ttl = DefaultSweepTTL
	}
	return &RedisSweepCache{client: client, ttl: ttl}
}

// DialRedis parses a redis:// URL and verifies the connection.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("dial redis: parse url: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("dial redis: ping: %w", err)
	}
	return client, nil
}

func (c *RedisSweepCache) Get(ctx context.Context, key string) (_ *domain.ParetoFront, err error) {
	defer obs.Time(ctx, "sweep.cache.redis.Get")(&err)

	data, err := c.client.Get(ctx, SweepKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("sweep cache get: %w", err)
	}

	var front domain.ParetoFront
	if err := json.Unmarshal(data, &front); err != nil {
		return nil, fmt.Errorf("sweep cache get: decode %q: %w", key, err)
	}
	return &front, nil
}

func (c *RedisSweepCache) Put(ctx context.Context, key string, front *domain.ParetoFront) (err error) {
	defer obs.Time(ctx, "sweep.cache.redis.Put")(&err)

	if front == nil {
		return errors.New("sweep cache put: front is nil")
	}

	data, err := json.Marshal(front)
	if err != nil {
		return fmt.Errorf("sweep cache put: encode: %w", err)
	}

	if err := c.client.Set(ctx, SweepKeyPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("sweep cache put: %w", err)
	}
	return nil
}
