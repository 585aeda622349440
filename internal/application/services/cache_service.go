package services

import (
	"context"
	"encoding/json"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kaspazof/kaspazof-api/internal/core/ports"
)

const (
	// DefaultCacheTTL applies when Set is called without a positive TTL.
	DefaultCacheTTL = 5 * time.Minute

	connectTimeout = 5 * time.Second
)

// Cache lookup outcomes reported to the observer.
const (
	CacheHit     = "hit"
	CacheMiss    = "miss"
	CacheError   = "error"
	CacheCorrupt = "corrupt"
)

// cacheEnvelope is the stored form of every cached value.
type cacheEnvelope struct {
	Data     json.RawMessage `json:"data"`
	CachedAt time.Time       `json:"cached_at"`
	TTL      int64           `json:"ttl"`
}

// CacheService wraps a store so that every operation is total: store failures become
// misses, false or zero, never errors. Until Connect succeeds every operation is a no-op.
type CacheService struct {
	store     ports.Cache
	logger    *logrus.Logger
	observer  ports.CacheObserver
	connected atomic.Bool
	now       func() time.Time
}

func NewCacheService(store ports.Cache, observer ports.CacheObserver, logger *logrus.Logger) *CacheService {
	return &CacheService{store: store, observer: observer, logger: logger, now: time.Now}
}

// Connect pings the store once. On failure the service stays disconnected and logs a warning.
func (s *CacheService) Connect(ctx context.Context) bool {
	if s.store == nil {
		s.connected.Store(false)
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		if s.logger != nil {
			s.logger.WithError(err).Warn("cache store unavailable; continuing without cache")
		}
		s.connected.Store(false)
		return false
	}
	s.connected.Store(true)
	if s.logger != nil {
		s.logger.Info("cache store connected")
	}
	return true
}

// Disconnect closes the store handle.
func (s *CacheService) Disconnect() {
	if s.store == nil {
		return
	}
	wasConnected := s.connected.Swap(false)
	if err := s.store.Close(); err != nil && s.logger != nil {
		s.logger.WithError(err).Warn("failed to close cache store")
	}
	if wasConnected && s.logger != nil {
		s.logger.Info("cache store disconnected")
	}
}

func (s *CacheService) Connected() bool {
	return s.store != nil && s.connected.Load()
}

// Get decodes the cached value for key into dest. A payload that cannot be decoded is deleted.
func (s *CacheService) Get(ctx context.Context, key string, dest any) bool {
	if !s.Connected() {
		return false
	}
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.observe(CacheError)
		s.logError(err, key, "cache get failed")
		return false
	}
	if !ok {
		s.observe(CacheMiss)
		return false
	}
	var env cacheEnvelope
	if err := json.Unmarshal(raw, &env); err != nil || len(env.Data) == 0 || string(env.Data) == "null" {
		s.dropCorrupt(ctx, key, err)
		return false
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		s.dropCorrupt(ctx, key, err)
		return false
	}
	s.observe(CacheHit)
	return true
}

// Set stores value under key for ttl inside the cache envelope.
func (s *CacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) bool {
	if !s.Connected() {
		return false
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	data, err := json.Marshal(value)
	if err != nil {
		s.logError(err, key, "cache value not serializable")
		return false
	}
	payload, err := json.Marshal(cacheEnvelope{
		Data:     data,
		CachedAt: s.now().UTC(),
		TTL:      int64(ttl / time.Second),
	})
	if err != nil {
		s.logError(err, key, "cache envelope not serializable")
		return false
	}
	if err := s.store.Set(ctx, key, payload, ttl); err != nil {
		s.logError(err, key, "cache set failed")
		return false
	}
	return true
}

// Delete reports whether key existed and was removed.
func (s *CacheService) Delete(ctx context.Context, key string) bool {
	if !s.Connected() {
		return false
	}
	n, err := s.store.Delete(ctx, key)
	if err != nil {
		s.logError(err, key, "cache delete failed")
		return false
	}
	return n > 0
}

func (s *CacheService) Exists(ctx context.Context, key string) bool {
	if !s.Connected() {
		return false
	}
	ok, err := s.store.Exists(ctx, key)
	if err != nil {
		s.logError(err, key, "cache exists failed")
		return false
	}
	return ok
}

// ClearPattern removes every key matching pattern and returns how many were removed.
func (s *CacheService) ClearPattern(ctx context.Context, pattern string) int {
	if !s.Connected() {
		return 0
	}
	keys, err := s.store.Keys(ctx, pattern)
	if err != nil {
		s.logError(err, pattern, "cache key scan failed")
		return 0
	}
	if len(keys) == 0 {
		return 0
	}
	n, err := s.store.Delete(ctx, keys...)
	if err != nil {
		s.logError(err, pattern, "cache clear failed")
		return 0
	}
	return int(n)
}

// HealthCheck pings the store regardless of the connection flag. A successful ping
// marks a disconnected service as connected again.
func (s *CacheService) HealthCheck(ctx context.Context) bool {
	if s.store == nil {
		return false
	}
	if err := s.store.Ping(ctx); err != nil {
		return false
	}
	if !s.connected.Swap(true) && s.logger != nil {
		s.logger.Info("cache store reconnected")
	}
	return true
}

// Stats is best-effort introspection of the store.
func (s *CacheService) Stats(ctx context.Context) map[string]any {
	if !s.Connected() {
		return map[string]any{"connected": false}
	}
	info, err := s.store.Info(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.WithError(err).Error("cache stats failed")
		}
		return map[string]any{"connected": false, "error": err.Error()}
	}
	used := info["used_memory_human"]
	if used == "" {
		used = "unknown"
	}
	return map[string]any{
		"connected":                true,
		"used_memory":              used,
		"connected_clients":        infoInt(info, "connected_clients"),
		"total_commands_processed": infoInt(info, "total_commands_processed"),
		"keyspace_hits":            infoInt(info, "keyspace_hits"),
		"keyspace_misses":          infoInt(info, "keyspace_misses"),
		"uptime_in_seconds":        infoInt(info, "uptime_in_seconds"),
	}
}

func (s *CacheService) dropCorrupt(ctx context.Context, key string, err error) {
	s.observe(CacheCorrupt)
	if s.logger != nil {
		entry := s.logger.WithField("key", key)
		if err != nil {
			entry = entry.WithError(err)
		}
		entry.Error("cache payload undecodable; deleting key")
	}
	if _, derr := s.store.Delete(ctx, key); derr != nil {
		s.logError(derr, key, "cache delete of corrupt key failed")
	}
}

func (s *CacheService) observe(result string) {
	if s.observer != nil {
		s.observer.ObserveCacheLookup(result)
	}
}

func (s *CacheService) logError(err error, key, msg string) {
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"key": key}).WithError(err).Error(msg)
	}
}

func infoInt(info map[string]string, key string) int64 {
	v, err := strconv.ParseInt(info[key], 10, 64)
	if err != nil {
		return 0
	}
	return v
}
