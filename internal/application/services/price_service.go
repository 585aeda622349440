package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kaspazof/kaspazof-api/internal/core/domain/apperr"
	"github.com/kaspazof/kaspazof-api/internal/core/domain/price"
	"github.com/kaspazof/kaspazof-api/internal/core/ports"
)

// PriceCacheKey is the single cache slot holding the current price.
const PriceCacheKey = "kaspa_price_data"

// PriceService serves the current price read-through the cache and proxies history.
type PriceService struct {
	api      ports.PriceAPI
	cache    ports.CacheService
	cacheTTL time.Duration
	logger   *logrus.Logger
}

// NewPriceService creates the service. cache may be nil, in which case every call is a live fetch.
func NewPriceService(api ports.PriceAPI, cache ports.CacheService, cacheTTL time.Duration, logger *logrus.Logger) *PriceService {
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &PriceService{api: api, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// GetPrice returns the cached price when present and well-formed, otherwise fetches and caches it.
func (s *PriceService) GetPrice(ctx context.Context) (*price.Record, error) {
	if s.cache != nil {
		var cached price.Record
		if s.cache.Get(ctx, PriceCacheKey, &cached) {
			if err := cached.Validate(); err == nil {
				return &cached, nil
			} else if s.logger != nil {
				s.logger.WithError(err).Warn("invalid cached price data; refetching")
			}
		}
	}

	rec, err := s.api.FetchPrice(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.WithError(err).Error("failed to get Kaspa price")
		}
		if _, ok := apperr.As(err); ok {
			return nil, err
		}
		return nil, apperr.NewPriceError("Unable to fetch current price data", err)
	}

	if s.cache != nil {
		s.cache.Set(ctx, PriceCacheKey, rec, s.cacheTTL)
	}
	return rec, nil
}

// GetPriceHistory proxies chart data for the last days. Bounds are checked before any network call.
func (s *PriceService) GetPriceHistory(ctx context.Context, days int) (json.RawMessage, error) {
	if days > price.MaxHistoryDays {
		return nil, apperr.NewPriceError(fmt.Sprintf("Maximum %d days of history allowed", price.MaxHistoryDays), nil)
	}
	if days < 1 {
		return nil, apperr.NewValidationError("days must be at least 1", "days")
	}
	history, err := s.api.FetchHistory(ctx, days)
	if err != nil {
		if s.logger != nil {
			s.logger.WithField("days", days).WithError(err).Error("failed to get price history")
		}
		if _, ok := apperr.As(err); ok {
			return nil, err
		}
		return nil, apperr.NewPriceError("Unable to fetch price history", err)
	}
	return history, nil
}

func (s *PriceService) HealthCheck(ctx context.Context) bool {
	return s.api.Ping(ctx) == nil
}
