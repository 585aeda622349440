package configs_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/kaspazof/kaspazof-api/configs"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("KASPA_RPC_URL", "")
	t.Setenv("PRICE_CACHE_TTL", "")
	t.Setenv("BACKEND_CORS_ORIGINS", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:16210", cfg.Kaspa.RPCURL)
	assert.Equal(t, 10*time.Second, cfg.Kaspa.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.Price.CacheTTL)
	assert.Equal(t, []string{"http://localhost:8081", "http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.WS.PushInterval)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("KASPA_RPC_URL", "http://node:16110")
	t.Setenv("KASPA_RPC_TIMEOUT", "3s")
	t.Setenv("COINGECKO_API_URL", "http://prices.local/api/v3/")
	t.Setenv("BACKEND_CORS_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("DEBUG", "false")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "http://node:16110", cfg.Kaspa.RPCURL)
	assert.Equal(t, 3*time.Second, cfg.Kaspa.Timeout)
	assert.Equal(t, "http://prices.local/api/v3", cfg.Price.APIURL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
	assert.False(t, cfg.App.Debug)
}

func TestLoad_RejectsNonPositiveCacheTTL(t *testing.T) {
	t.Setenv("PRICE_CACHE_TTL", "-1s")
	_, err := config.Load()
	require.Error(t, err)
}
