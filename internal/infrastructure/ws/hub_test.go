package ws_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaspazof/kaspazof-api/internal/core/domain/node"
	"github.com/kaspazof/kaspazof-api/internal/core/domain/price"
	"github.com/kaspazof/kaspazof-api/internal/infrastructure/ws"
	"github.com/kaspazof/kaspazof-api/internal/mocks"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) ws.Message {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var m ws.Message
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestHub_SendsSnapshotOnConnect(t *testing.T) {
	prices := &mocks.PriceServiceMock{GetPriceFn: func(ctx context.Context) (*price.Record, error) {
		return &price.Record{USD: 0.15, EUR: 0.14, FetchedAt: time.Now()}, nil
	}}
	nodes := &mocks.NodeServiceMock{GetNodeInfoFn: func(ctx context.Context) (*node.Info, error) {
		return &node.Info{IsSynced: true, BlockCount: 99}, nil
	}}
	hub := ws.NewHub(prices, nodes, time.Hour, nil, nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	m := readMessage(t, dial(t, srv))
	assert.Equal(t, "status_update", m.Type)
	require.NotNil(t, m.Data.KaspaPrice)
	assert.Equal(t, 0.15, *m.Data.KaspaPrice)
	require.NotNil(t, m.Data.NodeStatus)
	assert.Equal(t, "synced", *m.Data.NodeStatus)
	require.NotNil(t, m.Data.BlockCount)
	assert.Equal(t, uint64(99), *m.Data.BlockCount)
}

func TestHub_SnapshotLeavesFailedSourcesNull(t *testing.T) {
	prices := &mocks.PriceServiceMock{GetPriceFn: func(ctx context.Context) (*price.Record, error) { return nil, errors.New("down") }}
	nodes := &mocks.NodeServiceMock{GetNodeInfoFn: func(ctx context.Context) (*node.Info, error) { return nil, errors.New("down") }}
	m := ws.NewHub(prices, nodes, time.Hour, nil, nil).Snapshot(context.Background())
	assert.Nil(t, m.Data.KaspaPrice)
	assert.Nil(t, m.Data.NodeStatus)
	assert.Nil(t, m.Data.BlockCount)
	assert.False(t, m.Data.Timestamp.IsZero())
}

func TestHub_BroadcastAndDisconnect(t *testing.T) {
	hub := ws.NewHub(&mocks.PriceServiceMock{}, &mocks.NodeServiceMock{}, time.Hour, nil, nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	a := dial(t, srv)
	b := dial(t, srv)
	readMessage(t, a)
	readMessage(t, b)
	require.Eventually(t, func() bool { return hub.Len() == 2 }, 2*time.Second, 10*time.Millisecond)

	hub.Broadcast([]byte(`{"type":"status_update","data":{"timestamp":"2024-01-01T00:00:00Z"}}`))
	assert.Equal(t, "status_update", readMessage(t, a).Type)
	assert.Equal(t, "status_update", readMessage(t, b).Type)

	require.NoError(t, a.Close())
	require.Eventually(t, func() bool { return hub.Len() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_RejectsUnknownOrigin(t *testing.T) {
	hub := ws.NewHub(nil, nil, time.Hour, []string{"http://allowed.test"}, nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"http://evil.test"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
