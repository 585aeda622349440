package node_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaspazof/kaspazof-api/internal/core/domain/node"
)

func TestSyncProgress(t *testing.T) {
	p := node.SyncProgress(false, 50, 100)
	require.NotNil(t, p)
	assert.InDelta(t, 50.0, *p, 1e-9)

	p = node.SyncProgress(true, 50, 100)
	require.NotNil(t, p)
	assert.Equal(t, 100.0, *p)

	assert.Nil(t, node.SyncProgress(false, 50, 0))

	p = node.SyncProgress(false, 150, 100)
	require.NotNil(t, p)
	assert.Equal(t, 100.0, *p)
}

func TestParseNetwork(t *testing.T) {
	assert.Equal(t, node.NetworkTestnet, node.ParseNetwork("Kaspa-Testnet"))
	assert.Equal(t, node.NetworkDevnet, node.ParseNetwork("kaspa-devnet"))
	assert.Equal(t, node.NetworkMainnet, node.ParseNetwork("kaspa-mainnet"))
	assert.Equal(t, node.NetworkMainnet, node.ParseNetwork("simnet"))
	assert.Equal(t, node.NetworkMainnet, node.ParseNetwork(""))
}

func TestNewInfo(t *testing.T) {
	info := node.NewInfo(node.RawInfo{BlockCount: 10, HeaderCount: 40, Network: "kaspa-testnet"}, 3)
	assert.Equal(t, uint64(3), info.PeerCount)
	assert.Equal(t, "unknown", info.Version)
	assert.Equal(t, node.NetworkTestnet, info.Network)
	require.NotNil(t, info.SyncProgress)
	assert.InDelta(t, 25.0, *info.SyncProgress, 1e-9)
}
