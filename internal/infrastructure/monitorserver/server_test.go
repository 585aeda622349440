package monitorserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	impl "github.com/kaspazof/kaspazof-api/internal/application/services"
	"github.com/kaspazof/kaspazof-api/internal/core/domain/apperr"
	"github.com/kaspazof/kaspazof-api/internal/core/domain/mining"
	"github.com/kaspazof/kaspazof-api/internal/core/domain/node"
	"github.com/kaspazof/kaspazof-api/internal/infrastructure/metrics"
	"github.com/kaspazof/kaspazof-api/internal/infrastructure/monitorserver"
	"github.com/kaspazof/kaspazof-api/internal/mocks"
)

func healthyNode() *mocks.NodeServiceMock {
	return &mocks.NodeServiceMock{
		GetRawInfoFn: func(ctx context.Context) (*node.RawInfo, json.RawMessage, error) {
			return &node.RawInfo{BlockCount: 1234, PeerCount: 8}, json.RawMessage(`{"blockCount":1234,"peerCount":8}`), nil
		},
		GetMiningInfoFn: func(ctx context.Context) (*mining.Info, json.RawMessage, error) {
			return &mining.Info{Difficulty: 5e12}, json.RawMessage(`{"difficulty":5e12}`), nil
		},
		GetPoolStatsFn: func(ctx context.Context) (*mining.PoolStats, error) {
			return &mining.PoolStats{Hashrate: 1.5e9}, nil
		},
	}
}

func newServer(t *testing.T, nodeSvc *mocks.NodeServiceMock) (*monitorserver.Server, *impl.MiningMonitor) {
	t.Helper()
	reg := prometheus.NewRegistry()
	mon := impl.NewMiningMonitor(nodeSvc, metrics.NewMining(reg), nil, nil)
	srv := monitorserver.NewServer(&monitorserver.Config{Host: "127.0.0.1", Port: "0", Version: "1.0.0"}, nodeSvc, mon, reg, nil)
	return srv, mon
}

func get(srv *monitorserver.Server, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestMonitor_Root(t *testing.T) {
	srv, _ := newServer(t, healthyNode())
	rec := get(srv, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"service":"KaspaZof Mining Monitor"`)
	assert.Contains(t, rec.Body.String(), `"mining_info":"/mining/info"`)
}

func TestMonitor_HealthAndStats(t *testing.T) {
	nodeSvc := healthyNode()
	srv, mon := newServer(t, nodeSvc)
	require.NoError(t, mon.Collect(context.Background()))

	rec := get(srv, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kaspa_node":"connected"`)

	rec = get(srv, "/stats")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats mining.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 5e12, stats.Difficulty)
	assert.Equal(t, 1.5e9, stats.Hashrate)

	rec = get(srv, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "kaspa_node_block_height 1234")
	assert.Contains(t, rec.Body.String(), "kaspa_node_peer_count 8")
}

func TestMonitor_NodeDown(t *testing.T) {
	down := apperr.NewNodeError("Cannot connect to Kaspa node", errors.New("refused"))
	nodeSvc := &mocks.NodeServiceMock{
		GetRawInfoFn: func(ctx context.Context) (*node.RawInfo, json.RawMessage, error) { return nil, nil, down },
		GetMiningInfoFn: func(ctx context.Context) (*mining.Info, json.RawMessage, error) {
			return nil, nil, down
		},
	}
	srv, _ := newServer(t, nodeSvc)

	rec := get(srv, "/health")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "Service unhealthy")

	for _, path := range []string{"/node/info", "/mining/info"} {
		rec = get(srv, path)
		require.Equal(t, http.StatusInternalServerError, rec.Code, path)
		var env struct {
			Success bool `json:"success"`
			Error   struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		assert.False(t, env.Success)
		assert.Equal(t, "HTTP_500", env.Error.Code)
		assert.Contains(t, env.Error.Message, "RPC error")
	}
}

func TestMonitor_RawPassthrough(t *testing.T) {
	srv, _ := newServer(t, healthyNode())

	rec := get(srv, "/node/info")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"blockCount":1234,"peerCount":8}`, rec.Body.String())

	rec = get(srv, "/mining/info")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"difficulty":5e12}`, rec.Body.String())
}

func TestMonitor_StatsUptimeGrows(t *testing.T) {
	srv, _ := newServer(t, healthyNode())
	time.Sleep(10 * time.Millisecond)
	rec := get(srv, "/health")
	var body struct {
		Uptime float64 `json:"uptime"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Greater(t, body.Uptime, 0.0)
}
