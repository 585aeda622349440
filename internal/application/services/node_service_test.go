package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	impl "github.com/kaspazof/kaspazof-api/internal/application/services"
	"github.com/kaspazof/kaspazof-api/internal/core/domain/apperr"
	"github.com/kaspazof/kaspazof-api/internal/core/domain/node"
	"github.com/kaspazof/kaspazof-api/internal/mocks"
)

func TestGetNodeInfo_Synced(t *testing.T) {
	rpc := &mocks.NodeRPCMock{Results: map[string]any{
		impl.MethodGetInfo: map[string]any{
			"isSynced": true, "blockCount": 1000, "headerCount": 1000,
			"network": "kaspa-testnet", "serverVersion": "0.13.4",
		},
		impl.MethodGetPeerInfo: map[string]any{"peers": []any{map[string]any{"id": "a"}, map[string]any{"id": "b"}}},
	}}

	info, err := impl.NewNodeService(rpc, nil).GetNodeInfo(context.Background())
	require.NoError(t, err)
	assert.True(t, info.IsSynced)
	assert.Equal(t, uint64(1000), info.BlockCount)
	assert.Equal(t, uint64(2), info.PeerCount)
	assert.Equal(t, node.NetworkTestnet, info.Network)
	assert.Equal(t, "0.13.4", info.Version)
	require.NotNil(t, info.SyncProgress)
	assert.Equal(t, 100.0, *info.SyncProgress)
}

func TestGetNodeInfo_PeerFailureDegradesToZero(t *testing.T) {
	rpc := &mocks.NodeRPCMock{
		Results: map[string]any{
			impl.MethodGetInfo: map[string]any{"isSynced": false, "blockCount": 50, "headerCount": 200},
		},
		Errors: map[string]error{impl.MethodGetPeerInfo: apperr.NewNodeError("Request timeout", nil)},
	}

	info, err := impl.NewNodeService(rpc, nil).GetNodeInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(0), info.PeerCount)
	assert.Equal(t, "unknown", info.Version)
	assert.Equal(t, node.NetworkMainnet, info.Network)
	require.NotNil(t, info.SyncProgress)
	assert.InDelta(t, 25.0, *info.SyncProgress, 1e-9)
}

func TestGetNodeInfo_InfoFailurePropagates(t *testing.T) {
	rpc := &mocks.NodeRPCMock{
		Results: map[string]any{impl.MethodGetPeerInfo: map[string]any{"peers": []any{}}},
		Errors:  map[string]error{impl.MethodGetInfo: apperr.NewNodeError("Cannot connect to Kaspa node", errors.New("refused"))},
	}
	_, err := impl.NewNodeService(rpc, nil).GetNodeInfo(context.Background())
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNode))
}

func TestGetBlockInfo_UsesTipWhenHashEmpty(t *testing.T) {
	var gotParams any
	rpc := &mocks.NodeRPCMock{CallFn: func(ctx context.Context, method string, params any) (json.RawMessage, error) {
		switch method {
		case impl.MethodGetBlockDagInfo:
			return json.RawMessage(`{"tipHashes":["abc","def"]}`), nil
		case impl.MethodGetBlock:
			gotParams = params
			return json.RawMessage(`{"header":{"hash":"abc"}}`), nil
		}
		return nil, errors.New("unexpected")
	}}

	out, err := impl.NewNodeService(rpc, nil).GetBlockInfo(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"hash": "abc"}, gotParams)
	assert.JSONEq(t, `{"header":{"hash":"abc"}}`, string(out))
}

func TestGetBlockInfo_ExplicitHashSkipsDagInfo(t *testing.T) {
	rpc := &mocks.NodeRPCMock{Results: map[string]any{impl.MethodGetBlock: map[string]any{"hash": "ff"}}}
	_, err := impl.NewNodeService(rpc, nil).GetBlockInfo(context.Background(), "ff")
	require.NoError(t, err)
	assert.Equal(t, 0, rpc.CallCount(impl.MethodGetBlockDagInfo))
}

func TestGetBlockInfo_NoTip(t *testing.T) {
	rpc := &mocks.NodeRPCMock{Results: map[string]any{impl.MethodGetBlockDagInfo: map[string]any{"tipHashes": []string{}}}}
	_, err := impl.NewNodeService(rpc, nil).GetBlockInfo(context.Background(), "")
	require.Error(t, err)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "no tip block found", e.Message)
	assert.Equal(t, 0, rpc.CallCount(impl.MethodGetBlock))
}

func TestNodeService_HealthCheck(t *testing.T) {
	ok := &mocks.NodeRPCMock{Results: map[string]any{impl.MethodGetInfo: map[string]any{}}}
	assert.True(t, impl.NewNodeService(ok, nil).HealthCheck(context.Background()))

	down := &mocks.NodeRPCMock{Errors: map[string]error{impl.MethodGetInfo: errors.New("down")}}
	assert.False(t, impl.NewNodeService(down, nil).HealthCheck(context.Background()))
}

func TestGetMiningInfo(t *testing.T) {
	rpc := &mocks.NodeRPCMock{Results: map[string]any{impl.MethodGetMiningInfo: map[string]any{"difficulty": 1.5e12, "extra": 1}}}
	info, raw, err := impl.NewNodeService(rpc, nil).GetMiningInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1.5e12, info.Difficulty)
	assert.Contains(t, string(raw), "extra")
}
