package ports

import (
	"context"
	"encoding/json"

	"github.com/kaspazof/kaspazof-api/internal/core/domain/mining"
	"github.com/kaspazof/kaspazof-api/internal/core/domain/node"
)

// NodeRPC issues JSON-RPC calls against a single node endpoint.
type NodeRPC interface {
	Call(ctx context.Context, method string, params any) (json.RawMessage, error)
}

type NodeService interface {
	GetNodeInfo(ctx context.Context) (*node.Info, error)
	// GetBlockInfo returns the raw getBlock result; an empty hash selects the current tip.
	GetBlockInfo(ctx context.Context, hash string) (json.RawMessage, error)
	GetRawInfo(ctx context.Context) (*node.RawInfo, json.RawMessage, error)
	GetMiningInfo(ctx context.Context) (*mining.Info, json.RawMessage, error)
	GetPoolStats(ctx context.Context) (*mining.PoolStats, error)
	HealthCheck(ctx context.Context) bool
}
