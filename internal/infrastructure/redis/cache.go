package redis

import (
	"bufio"
	"context"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisCache implements ports.Cache using a Redis client.
type RedisCache struct {
	r redis.UniversalClient
	// optional key prefix to namespace entries
	prefix string
}

// NewRedisCache creates a new Redis-backed cache.
func NewRedisCache(r redis.UniversalClient, prefix string) *RedisCache {
	return &RedisCache{r: r, prefix: prefix}
}

// Namespace joins a key prefix and a key the way every key this package writes is built.
func Namespace(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + ":" + key
}

func (c *RedisCache) namespaced(key string) string {
	return Namespace(c.prefix, key)
}

// Get implements Cache.Get.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.r.Get(ctx, c.namespaced(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Set implements Cache.Set.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.r.Set(ctx, c.namespaced(key), value, ttl).Err()
}

// Delete implements Cache.Delete.
func (c *RedisCache) Delete(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	ns := make([]string, len(keys))
	for i, k := range keys {
		ns[i] = c.namespaced(k)
	}
	return c.r.Del(ctx, ns...).Result()
}

// Exists implements Cache.Exists.
func (c *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.r.Exists(ctx, c.namespaced(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Keys implements Cache.Keys. Returned keys have the namespace stripped.
func (c *RedisCache) Keys(ctx context.Context, pattern string) ([]string, error) {
	keys, err := c.r.Keys(ctx, c.namespaced(pattern)).Result()
	if err != nil {
		return nil, err
	}
	if c.prefix == "" {
		return keys, nil
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, strings.TrimPrefix(k, c.prefix+":"))
	}
	return out, nil
}

// Ping implements Cache.Ping.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.r.Ping(ctx).Err()
}

// Info implements Cache.Info by flattening the INFO reply.
func (c *RedisCache) Info(ctx context.Context) (map[string]string, error) {
	raw, err := c.r.Info(ctx).Result()
	if err != nil {
		return nil, err
	}
	return ParseInfo(raw), nil
}

// Close implements Cache.Close.
func (c *RedisCache) Close() error {
	return c.r.Close()
}

// ParseInfo turns "key:value" lines of an INFO reply into a map, skipping section headers.
func ParseInfo(raw string) map[string]string {
	out := make(map[string]string)
	sc := bufio.NewScanner(strings.NewReader(raw))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		out[k] = v
	}
	return out
}
