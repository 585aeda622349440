package redis

import (
	"fmt"

	"github.com/go-redis/redis/v8"

	config "github.com/kaspazof/kaspazof-api/configs"
)

// NewRedisClient builds a Redis client from config. It does not dial: connectivity is checked
// by the cache service so that an unreachable Redis never blocks startup.
func NewRedisClient(cfg *config.RedisConfig) (*redis.Client, error) {
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout
	opts.PoolTimeout = cfg.PoolTimeout
	opts.IdleTimeout = cfg.IdleTimeout

	return redis.NewClient(opts), nil
}
