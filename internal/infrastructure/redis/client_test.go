package redis_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/kaspazof/kaspazof-api/configs"
	"github.com/kaspazof/kaspazof-api/internal/infrastructure/redis"
)

func TestNewRedisClient_URLTakesPrecedence(t *testing.T) {
	c, err := redis.NewRedisClient(&config.RedisConfig{
		URL:         "redis://:secret@cache.internal:6380/2",
		Host:        "ignored",
		Port:        "1",
		PoolSize:    7,
		DialTimeout: 2 * time.Second,
	})
	require.NoError(t, err)
	defer c.Close()

	opts := c.Options()
	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 7, opts.PoolSize)
	assert.Equal(t, 2*time.Second, opts.DialTimeout)
}

func TestNewRedisClient_HostPort(t *testing.T) {
	c, err := redis.NewRedisClient(&config.RedisConfig{Host: "localhost", Port: "6379", DB: 1})
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, "localhost:6379", c.Options().Addr)
	assert.Equal(t, 1, c.Options().DB)
}

func TestNewRedisClient_BadURL(t *testing.T) {
	_, err := redis.NewRedisClient(&config.RedisConfig{URL: "http://nope"})
	assert.Error(t, err)
}
