package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/kaspazof/kaspazof-api/internal/core/domain/apperr"
	"github.com/kaspazof/kaspazof-api/internal/core/domain/mining"
	"github.com/kaspazof/kaspazof-api/internal/core/domain/node"
	"github.com/kaspazof/kaspazof-api/internal/core/ports"
)

// Node RPC method names.
const (
	MethodGetInfo         = "getInfo"
	MethodGetPeerInfo     = "getPeerInfo"
	MethodGetBlockDagInfo = "getBlockDagInfo"
	MethodGetBlock        = "getBlock"
	MethodGetMiningInfo   = "getMiningInfo"
	MethodGetPoolStats    = "getPoolStats"
)

// NodeService reads node state through JSON-RPC. Results are never cached: node state moves
// faster than any useful TTL.
type NodeService struct {
	rpc    ports.NodeRPC
	logger *logrus.Logger
}

func NewNodeService(rpc ports.NodeRPC, logger *logrus.Logger) *NodeService {
	return &NodeService{rpc: rpc, logger: logger}
}

// GetNodeInfo issues getInfo and getPeerInfo concurrently. A getPeerInfo failure degrades to
// zero peers; a getInfo failure fails the call.
func (s *NodeService) GetNodeInfo(ctx context.Context) (*node.Info, error) {
	var (
		raw      node.RawInfo
		peers    node.PeerInfo
		infoErr  error
		peersErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		res, err := s.rpc.Call(ctx, MethodGetInfo, nil)
		if err != nil {
			infoErr = err
			return nil
		}
		if err := json.Unmarshal(res, &raw); err != nil {
			infoErr = apperr.NewNodeError("invalid getInfo result", err)
		}
		return nil
	})
	g.Go(func() error {
		res, err := s.rpc.Call(ctx, MethodGetPeerInfo, nil)
		if err != nil {
			peersErr = err
			return nil
		}
		if err := json.Unmarshal(res, &peers); err != nil {
			peersErr = err
		}
		return nil
	})
	_ = g.Wait()

	if infoErr != nil {
		return nil, fmt.Errorf("get node info: %w", infoErr)
	}
	if peersErr != nil {
		if s.logger != nil {
			s.logger.WithError(peersErr).Warn("failed to get peer info; reporting zero peers")
		}
		peers = node.PeerInfo{}
	}

	return node.NewInfo(raw, len(peers.Peers)), nil
}

// GetBlockInfo fetches a block by hash, or the first DAG tip when hash is empty.
func (s *NodeService) GetBlockInfo(ctx context.Context, hash string) (json.RawMessage, error) {
	if hash == "" {
		res, err := s.rpc.Call(ctx, MethodGetBlockDagInfo, nil)
		if err != nil {
			return nil, fmt.Errorf("get block dag info: %w", err)
		}
		var dag node.DagInfo
		if err := json.Unmarshal(res, &dag); err != nil {
			return nil, apperr.NewNodeError("invalid getBlockDagInfo result", err)
		}
		if len(dag.TipHashes) == 0 || dag.TipHashes[0] == "" {
			return nil, apperr.NewNodeError("no tip block found", nil)
		}
		hash = dag.TipHashes[0]
	}

	res, err := s.rpc.Call(ctx, MethodGetBlock, map[string]string{"hash": hash})
	if err != nil {
		if s.logger != nil {
			s.logger.WithField("hash", hash).WithError(err).Error("failed to get block")
		}
		return nil, fmt.Errorf("get block %s: %w", hash, err)
	}
	return res, nil
}

// GetRawInfo returns getInfo both decoded and verbatim.
func (s *NodeService) GetRawInfo(ctx context.Context) (*node.RawInfo, json.RawMessage, error) {
	res, err := s.rpc.Call(ctx, MethodGetInfo, nil)
	if err != nil {
		return nil, nil, err
	}
	var raw node.RawInfo
	if err := json.Unmarshal(res, &raw); err != nil {
		return nil, nil, apperr.NewNodeError("invalid getInfo result", err)
	}
	return &raw, res, nil
}

func (s *NodeService) GetMiningInfo(ctx context.Context) (*mining.Info, json.RawMessage, error) {
	res, err := s.rpc.Call(ctx, MethodGetMiningInfo, nil)
	if err != nil {
		return nil, nil, err
	}
	var info mining.Info
	if err := json.Unmarshal(res, &info); err != nil {
		return nil, nil, apperr.NewNodeError("invalid getMiningInfo result", err)
	}
	return &info, res, nil
}

func (s *NodeService) GetPoolStats(ctx context.Context) (*mining.PoolStats, error) {
	res, err := s.rpc.Call(ctx, MethodGetPoolStats, nil)
	if err != nil {
		return nil, err
	}
	var stats mining.PoolStats
	if err := json.Unmarshal(res, &stats); err != nil {
		return nil, apperr.NewNodeError("invalid getPoolStats result", err)
	}
	return &stats, nil
}

// HealthCheck reduces a getInfo call to reachability.
func (s *NodeService) HealthCheck(ctx context.Context) bool {
	_, err := s.rpc.Call(ctx, MethodGetInfo, nil)
	return err == nil
}
