package node

import (
	"encoding/json"
	"strings"
)

type NetworkType string

const (
	NetworkMainnet NetworkType = "mainnet"
	NetworkTestnet NetworkType = "testnet"
	NetworkDevnet  NetworkType = "devnet"
)

var networkNames = map[string]NetworkType{
	"kaspa-mainnet": NetworkMainnet,
	"kaspa-testnet": NetworkTestnet,
	"kaspa-devnet":  NetworkDevnet,
	"mainnet":       NetworkMainnet,
	"testnet":       NetworkTestnet,
	"devnet":        NetworkDevnet,
}

// ParseNetwork maps a node-reported network name, defaulting to mainnet.
func ParseNetwork(name string) NetworkType {
	if n, ok := networkNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return n
	}
	return NetworkMainnet
}

// Info is the node status exposed by GET /node/status.
type Info struct {
	IsSynced     bool        `json:"is_synced"`
	BlockCount   uint64      `json:"block_count"`
	PeerCount    uint64      `json:"peer_count"`
	Network      NetworkType `json:"network"`
	Version      string      `json:"version"`
	Uptime       *int64      `json:"uptime,omitempty"`
	SyncProgress *float64    `json:"sync_progress"`
}

// RawInfo is the subset of the getInfo result this service reads.
type RawInfo struct {
	IsSynced      bool   `json:"isSynced"`
	BlockCount    uint64 `json:"blockCount"`
	HeaderCount   uint64 `json:"headerCount"`
	PeerCount     uint64 `json:"peerCount"`
	Network       string `json:"network"`
	ServerVersion string `json:"serverVersion"`
	Uptime        *int64 `json:"uptime,omitempty"`
}

// PeerInfo is the getPeerInfo result.
type PeerInfo struct {
	Peers []json.RawMessage `json:"peers"`
}

// DagInfo is the subset of getBlockDagInfo used to locate the tip.
type DagInfo struct {
	TipHashes []string `json:"tipHashes"`
}

// SyncProgress returns 100 when synced, the block/header ratio (capped at 100) when headers are known,
// and nil otherwise.
func SyncProgress(synced bool, blockCount, headerCount uint64) *float64 {
	if synced {
		v := 100.0
		return &v
	}
	if headerCount == 0 {
		return nil
	}
	v := float64(blockCount) / float64(headerCount) * 100
	if v > 100 {
		v = 100
	}
	return &v
}

// NewInfo assembles Info from the two RPC results.
func NewInfo(raw RawInfo, peerCount int) *Info {
	version := raw.ServerVersion
	if version == "" {
		version = "unknown"
	}
	return &Info{
		IsSynced:     raw.IsSynced,
		BlockCount:   raw.BlockCount,
		PeerCount:    uint64(peerCount),
		Network:      ParseNetwork(raw.Network),
		Version:      version,
		Uptime:       raw.Uptime,
		SyncProgress: SyncProgress(raw.IsSynced, raw.BlockCount, raw.HeaderCount),
	}
}
