package redis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kaspazof/kaspazof-api/internal/infrastructure/redis"
)

func TestParseInfo(t *testing.T) {
	raw := "# Server\r\nredis_version:7.2.4\r\nuptime_in_seconds:3600\r\n\r\n# Memory\r\nused_memory_human:1.05M\r\n# Stats\r\nkeyspace_hits:42\r\nkeyspace_misses:7\r\ndb0:keys=3,expires=1,avg_ttl=0\r\n"
	info := redis.ParseInfo(raw)
	assert.Equal(t, "7.2.4", info["redis_version"])
	assert.Equal(t, "3600", info["uptime_in_seconds"])
	assert.Equal(t, "1.05M", info["used_memory_human"])
	assert.Equal(t, "42", info["keyspace_hits"])
	assert.Equal(t, "keys=3,expires=1,avg_ttl=0", info["db0"])
	_, hasHeader := info["# Server"]
	assert.False(t, hasHeader)
}

func TestNamespace(t *testing.T) {
	assert.Equal(t, "kz:ratelimit:ip", redis.Namespace("kz", "ratelimit:ip"))
	assert.Equal(t, "kz:kaspa_price_data", redis.Namespace("kz", "kaspa_price_data"))
	assert.Equal(t, "ratelimit:ip", redis.Namespace("", "ratelimit:ip"))
}
