// Package mocks holds hand-written test doubles for the core ports.
package mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/kaspazof/kaspazof-api/internal/core/domain/mining"
	"github.com/kaspazof/kaspazof-api/internal/core/domain/node"
	"github.com/kaspazof/kaspazof-api/internal/core/domain/price"
	"github.com/kaspazof/kaspazof-api/internal/core/domain/system"
	"github.com/kaspazof/kaspazof-api/internal/core/domain/wallet"
)

// MemoryCache is an in-memory ports.Cache with a controllable clock.
// Setting Err makes every call fail with it.
type MemoryCache struct {
	mu      sync.Mutex
	items   map[string]memItem
	now     time.Time
	Err     error
	InfoMap map[string]string
	Closed  bool
}

type memItem struct {
	value     []byte
	expiresAt time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]memItem), now: time.Unix(1700000000, 0)}
}

// Advance moves the cache clock forward.
func (m *MemoryCache) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// Put stores raw bytes without expiry, bypassing the envelope.
func (m *MemoryCache) Put(key string, raw []byte) {
	m.mu.Lock()
	m.items[key] = memItem{value: raw}
	m.mu.Unlock()
}

// Raw returns the stored bytes for key, ignoring expiry.
func (m *MemoryCache) Raw(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[key]
	return it.value, ok
}

func (m *MemoryCache) live(key string) (memItem, bool) {
	it, ok := m.items[key]
	if !ok {
		return memItem{}, false
	}
	if !it.expiresAt.IsZero() && !m.now.Before(it.expiresAt) {
		delete(m.items, key)
		return memItem{}, false
	}
	return it, true
}

func (m *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, false, m.Err
	}
	it, ok := m.live(key)
	return it.value, ok, nil
}

func (m *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	it := memItem{value: value}
	if ttl > 0 {
		it.expiresAt = m.now.Add(ttl)
	}
	m.items[key] = it
	return nil
}

func (m *MemoryCache) Delete(ctx context.Context, keys ...string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	var n int64
	for _, k := range keys {
		if _, ok := m.live(k); ok {
			delete(m.items, k)
			n++
		}
	}
	return n, nil
}

func (m *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	_, ok := m.live(key)
	return ok, nil
}

func (m *MemoryCache) Keys(ctx context.Context, pattern string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []string
	for k := range m.items {
		if _, ok := m.live(k); !ok {
			continue
		}
		if ok, _ := path.Match(pattern, k); ok {
			out = append(out, k)
		}
	}
	return out, nil
}

func (m *MemoryCache) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Err
}

func (m *MemoryCache) Info(ctx context.Context) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.InfoMap, nil
}

func (m *MemoryCache) Close() error {
	m.mu.Lock()
	m.Closed = true
	m.mu.Unlock()
	return nil
}

// NodeRPCMock answers by method name. Results maps a method to a value marshalled as the result;
// Errors maps a method to a failure. CallFn overrides both.
type NodeRPCMock struct {
	CallFn  func(ctx context.Context, method string, params any) (json.RawMessage, error)
	Results map[string]any
	Errors  map[string]error

	mu    sync.Mutex
	Calls []string
}

func (m *NodeRPCMock) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, method)
	m.mu.Unlock()
	if m.CallFn != nil {
		return m.CallFn(ctx, method, params)
	}
	if err, ok := m.Errors[method]; ok {
		return nil, err
	}
	if res, ok := m.Results[method]; ok {
		return json.Marshal(res)
	}
	return nil, fmt.Errorf("unexpected method %s", method)
}

// CallCount returns how many times method was called.
func (m *NodeRPCMock) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c == method {
			n++
		}
	}
	return n
}

type PriceAPIMock struct {
	FetchPriceFn   func(ctx context.Context) (*price.Record, error)
	FetchHistoryFn func(ctx context.Context, days int) (json.RawMessage, error)
	PingFn         func(ctx context.Context) error

	mu           sync.Mutex
	PriceCalls   int
	HistoryCalls int
}

func (m *PriceAPIMock) FetchPrice(ctx context.Context) (*price.Record, error) {
	m.mu.Lock()
	m.PriceCalls++
	m.mu.Unlock()
	if m.FetchPriceFn != nil {
		return m.FetchPriceFn(ctx)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *PriceAPIMock) FetchHistory(ctx context.Context, days int) (json.RawMessage, error) {
	m.mu.Lock()
	m.HistoryCalls++
	m.mu.Unlock()
	if m.FetchHistoryFn != nil {
		return m.FetchHistoryFn(ctx, days)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *PriceAPIMock) Ping(ctx context.Context) error {
	if m.PingFn != nil {
		return m.PingFn(ctx)
	}
	return nil
}

type NodeServiceMock struct {
	GetNodeInfoFn   func(ctx context.Context) (*node.Info, error)
	GetBlockInfoFn  func(ctx context.Context, hash string) (json.RawMessage, error)
	GetRawInfoFn    func(ctx context.Context) (*node.RawInfo, json.RawMessage, error)
	GetMiningInfoFn func(ctx context.Context) (*mining.Info, json.RawMessage, error)
	GetPoolStatsFn  func(ctx context.Context) (*mining.PoolStats, error)
	HealthCheckFn   func(ctx context.Context) bool
}

func (m *NodeServiceMock) GetNodeInfo(ctx context.Context) (*node.Info, error) {
	if m.GetNodeInfoFn != nil {
		return m.GetNodeInfoFn(ctx)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *NodeServiceMock) GetBlockInfo(ctx context.Context, hash string) (json.RawMessage, error) {
	if m.GetBlockInfoFn != nil {
		return m.GetBlockInfoFn(ctx, hash)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *NodeServiceMock) GetRawInfo(ctx context.Context) (*node.RawInfo, json.RawMessage, error) {
	if m.GetRawInfoFn != nil {
		return m.GetRawInfoFn(ctx)
	}
	return nil, nil, fmt.Errorf("not configured")
}

func (m *NodeServiceMock) GetMiningInfo(ctx context.Context) (*mining.Info, json.RawMessage, error) {
	if m.GetMiningInfoFn != nil {
		return m.GetMiningInfoFn(ctx)
	}
	return nil, nil, fmt.Errorf("not configured")
}

func (m *NodeServiceMock) GetPoolStats(ctx context.Context) (*mining.PoolStats, error) {
	if m.GetPoolStatsFn != nil {
		return m.GetPoolStatsFn(ctx)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *NodeServiceMock) HealthCheck(ctx context.Context) bool {
	if m.HealthCheckFn != nil {
		return m.HealthCheckFn(ctx)
	}
	return true
}

type PriceServiceMock struct {
	GetPriceFn        func(ctx context.Context) (*price.Record, error)
	GetPriceHistoryFn func(ctx context.Context, days int) (json.RawMessage, error)
	HealthCheckFn     func(ctx context.Context) bool
}

func (m *PriceServiceMock) GetPrice(ctx context.Context) (*price.Record, error) {
	if m.GetPriceFn != nil {
		return m.GetPriceFn(ctx)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *PriceServiceMock) GetPriceHistory(ctx context.Context, days int) (json.RawMessage, error) {
	if m.GetPriceHistoryFn != nil {
		return m.GetPriceHistoryFn(ctx, days)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *PriceServiceMock) HealthCheck(ctx context.Context) bool {
	if m.HealthCheckFn != nil {
		return m.HealthCheckFn(ctx)
	}
	return true
}

type WalletServiceMock struct {
	CreateWalletFn func(ctx context.Context, req *wallet.CreateWalletRequest) (*wallet.Wallet, error)
	ListWalletsFn  func(ctx context.Context) (*wallet.List, error)
	GetWalletFn    func(ctx context.Context, id string) (*wallet.Wallet, error)
}

func (m *WalletServiceMock) CreateWallet(ctx context.Context, req *wallet.CreateWalletRequest) (*wallet.Wallet, error) {
	if m.CreateWalletFn != nil {
		return m.CreateWalletFn(ctx, req)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *WalletServiceMock) ListWallets(ctx context.Context) (*wallet.List, error) {
	if m.ListWalletsFn != nil {
		return m.ListWalletsFn(ctx)
	}
	return &wallet.List{Wallets: []*wallet.Wallet{}}, nil
}

func (m *WalletServiceMock) GetWallet(ctx context.Context, id string) (*wallet.Wallet, error) {
	if m.GetWalletFn != nil {
		return m.GetWalletFn(ctx, id)
	}
	return nil, fmt.Errorf("not configured")
}

type SystemServiceMock struct {
	GetSystemInfoFn func(ctx context.Context) *system.Info
}

func (m *SystemServiceMock) GetSystemInfo(ctx context.Context) *system.Info {
	if m.GetSystemInfoFn != nil {
		return m.GetSystemInfoFn(ctx)
	}
	return &system.Info{Services: []system.ServiceStatus{}}
}

// CacheServiceMock is a ports.CacheService whose lookups always miss unless overridden.
type CacheServiceMock struct {
	GetFn         func(ctx context.Context, key string, dest any) bool
	SetFn         func(ctx context.Context, key string, value any, ttl time.Duration) bool
	HealthCheckFn func(ctx context.Context) bool
	StatsFn       func(ctx context.Context) map[string]any
	IsConnected   bool
}

func (m *CacheServiceMock) Get(ctx context.Context, key string, dest any) bool {
	if m.GetFn != nil {
		return m.GetFn(ctx, key, dest)
	}
	return false
}

func (m *CacheServiceMock) Set(ctx context.Context, key string, value any, ttl time.Duration) bool {
	if m.SetFn != nil {
		return m.SetFn(ctx, key, value, ttl)
	}
	return false
}

func (m *CacheServiceMock) Delete(ctx context.Context, key string) bool          { return false }
func (m *CacheServiceMock) Exists(ctx context.Context, key string) bool          { return false }
func (m *CacheServiceMock) ClearPattern(ctx context.Context, pattern string) int { return 0 }
func (m *CacheServiceMock) Connected() bool                                      { return m.IsConnected }

func (m *CacheServiceMock) HealthCheck(ctx context.Context) bool {
	if m.HealthCheckFn != nil {
		return m.HealthCheckFn(ctx)
	}
	return m.IsConnected
}

func (m *CacheServiceMock) Stats(ctx context.Context) map[string]any {
	if m.StatsFn != nil {
		return m.StatsFn(ctx)
	}
	return map[string]any{"connected": m.IsConnected}
}

// HealthCheckerMock reports Err from Check.
type HealthCheckerMock struct {
	CheckName string
	Err       error
	Delay     time.Duration
}

func (m *HealthCheckerMock) Name() string { return m.CheckName }

func (m *HealthCheckerMock) Check(ctx context.Context) error {
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return m.Err
}

// MiningMetricsRecorder captures the last value of each gauge.
type MiningMetricsRecorder struct {
	mu          sync.Mutex
	BlockHeight float64
	PeerCount   float64
	Difficulty  float64
	Hashrate    float64
	Uptime      float64
	HashrateSet bool
}

func (r *MiningMetricsRecorder) SetBlockHeight(v float64) {
	r.mu.Lock()
	r.BlockHeight = v
	r.mu.Unlock()
}

func (r *MiningMetricsRecorder) SetPeerCount(v float64) {
	r.mu.Lock()
	r.PeerCount = v
	r.mu.Unlock()
}

func (r *MiningMetricsRecorder) SetDifficulty(v float64) {
	r.mu.Lock()
	r.Difficulty = v
	r.mu.Unlock()
}

func (r *MiningMetricsRecorder) SetUptime(v float64) {
	r.mu.Lock()
	r.Uptime = v
	r.mu.Unlock()
}

func (r *MiningMetricsRecorder) SetHashrate(v float64) {
	r.mu.Lock()
	r.Hashrate = v
	r.HashrateSet = true
	r.mu.Unlock()
}

// RateLimiterServiceMock allows everything unless AllowFn is set.
type RateLimiterServiceMock struct {
	AllowFn func(ctx context.Context, subject string) (bool, int, int, time.Time, error)
}

func (m *RateLimiterServiceMock) Allow(ctx context.Context, subject string) (bool, int, int, time.Time, error) {
	if m.AllowFn != nil {
		return m.AllowFn(ctx, subject)
	}
	return true, 1, 1, time.Now(), nil
}
