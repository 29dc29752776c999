package cache

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"client-registry/internal/config"
	"client-registry/internal/metrics"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores raw values in Redis. A zero ttl keeps entries until deleted.
type RedisCache struct {
	cli *redis.Client
	ttl time.Duration
}

func NewRedisCache(cli *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{cli: cli, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.cli.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CacheLookups.WithLabelValues("miss").Inc()
			return nil, false, nil
		}
		metrics.CacheLookups.WithLabelValues("error").Inc()
		return nil, false, err
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return val, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	return c.cli.Set(ctx, key, value, c.ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.cli.Del(ctx, key).Err()
}

// NewRedisClient builds a client from cfg and pings it.
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	var tlsConfig *tls.Config
	if cfg.RedisTLS {
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	cli := redis.NewClient(&redis.Options{
		Addr:      fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Username:  cfg.RedisUser,
		Password:  cfg.RedisPass,
		DB:        cfg.RedisDB,
		TLSConfig: tlsConfig,
	})
	if err := cli.Ping(ctx).Err(); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	return cli, nil
}
