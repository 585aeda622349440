package health

import (
	"context"
	"errors"
	"time"

	"github.com/shirou/gopsutil/v3/host"

	"github.com/kaspazof/kaspazof-api/internal/core/ports"
	infraDB "github.com/kaspazof/kaspazof-api/internal/infrastructure/db"
)

// Names reported in /health and /api/v1/system/info.
const (
	NameRedis    = "redis_cache"
	NameNode     = "kaspa_node"
	NamePriceAPI = "price_api"
	NameDatabase = "database"
)

var (
	errCacheUnreachable = errors.New("cache store unreachable")
	errNodeUnreachable  = errors.New("kaspa node unreachable")
	errPriceUnreachable = errors.New("price API unreachable")
)

// probe adapts a boolean health function to ports.HealthChecker.
type probe struct {
	name  string
	fn    func(ctx context.Context) bool
	onErr error
}

func (p *probe) Name() string { return p.name }

func (p *probe) Check(ctx context.Context) error {
	if p.fn(ctx) {
		return nil
	}
	return p.onErr
}

// dbHealthChecker wraps the database for health checks.
type dbHealthChecker struct{ db *infraDB.Database }

func (d *dbHealthChecker) Name() string                    { return NameDatabase }
func (d *dbHealthChecker) Check(ctx context.Context) error { return d.db.Ping(ctx) }

// NewCacheHealthChecker probes the cache store. It reports the store itself, not the
// connected flag; a store that came back after startup is reconnected by the probe.
func NewCacheHealthChecker(cache ports.CacheService) ports.HealthChecker {
	return &probe{name: NameRedis, fn: cache.HealthCheck, onErr: errCacheUnreachable}
}

func NewNodeHealthChecker(node ports.NodeService) ports.HealthChecker {
	return &probe{name: NameNode, fn: node.HealthCheck, onErr: errNodeUnreachable}
}

func NewPriceHealthChecker(prices ports.PriceService) ports.HealthChecker {
	return &probe{name: NamePriceAPI, fn: prices.HealthCheck, onErr: errPriceUnreachable}
}

// NewDBHealthChecker creates a health checker for the database.
func NewDBHealthChecker(db *infraDB.Database) ports.HealthChecker { return &dbHealthChecker{db: db} }

// HostUptime returns seconds since the host booted.
func HostUptime(ctx context.Context) (int64, error) {
	boot, err := host.BootTimeWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return time.Now().Unix() - int64(boot), nil
}
