package ports

import (
	"context"
	"encoding/json"

	"github.com/kaspazof/kaspazof-api/internal/core/domain/price"
)

// PriceAPI is the market-data upstream.
type PriceAPI interface {
	FetchPrice(ctx context.Context) (*price.Record, error)
	FetchHistory(ctx context.Context, days int) (json.RawMessage, error)
	Ping(ctx context.Context) error
}

type PriceService interface {
	GetPrice(ctx context.Context) (*price.Record, error)
	GetPriceHistory(ctx context.Context, days int) (json.RawMessage, error)
	HealthCheck(ctx context.Context) bool
}
