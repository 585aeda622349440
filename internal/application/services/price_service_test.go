package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	impl "github.com/kaspazof/kaspazof-api/internal/application/services"
	"github.com/kaspazof/kaspazof-api/internal/core/domain/apperr"
	"github.com/kaspazof/kaspazof-api/internal/core/domain/price"
	"github.com/kaspazof/kaspazof-api/internal/mocks"
)

func livePrice() *price.Record {
	return &price.Record{USD: 0.12, EUR: 0.11, Change24h: -1.5, FetchedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func TestGetPrice_FetchesOncePerTTLWindow(t *testing.T) {
	svc, store, _ := connectedCache(t)
	api := &mocks.PriceAPIMock{FetchPriceFn: func(ctx context.Context) (*price.Record, error) { return livePrice(), nil }}
	ps := impl.NewPriceService(api, svc, 5*time.Minute, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		rec, err := ps.GetPrice(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0.12, rec.USD)
	}
	assert.Equal(t, 1, api.PriceCalls)

	store.Advance(5 * time.Minute)
	_, err := ps.GetPrice(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, api.PriceCalls)
}

func TestGetPrice_InvalidCachedRecordIsRefetched(t *testing.T) {
	svc, _, _ := connectedCache(t)
	ctx := context.Background()
	require.True(t, svc.Set(ctx, impl.PriceCacheKey, price.Record{USD: 0, EUR: 1, FetchedAt: time.Now()}, time.Minute))

	api := &mocks.PriceAPIMock{FetchPriceFn: func(ctx context.Context) (*price.Record, error) { return livePrice(), nil }}
	rec, err := impl.NewPriceService(api, svc, time.Minute, nil).GetPrice(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.12, rec.USD)
	assert.Equal(t, 1, api.PriceCalls)
}

func TestGetPrice_WorksWithoutCache(t *testing.T) {
	api := &mocks.PriceAPIMock{FetchPriceFn: func(ctx context.Context) (*price.Record, error) { return livePrice(), nil }}
	ps := impl.NewPriceService(api, nil, time.Minute, nil)
	_, err := ps.GetPrice(context.Background())
	require.NoError(t, err)
	_, err = ps.GetPrice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, api.PriceCalls)
}

func TestGetPrice_ErrorsAreTyped(t *testing.T) {
	t.Run("rate limited passes through", func(t *testing.T) {
		api := &mocks.PriceAPIMock{FetchPriceFn: func(ctx context.Context) (*price.Record, error) {
			return nil, apperr.NewRateLimitedError("Rate limited by price API")
		}}
		_, err := impl.NewPriceService(api, nil, time.Minute, nil).GetPrice(context.Background())
		require.Error(t, err)
		assert.True(t, apperr.IsRateLimited(err))
	})
	t.Run("unknown failure wrapped", func(t *testing.T) {
		cause := errors.New("boom")
		api := &mocks.PriceAPIMock{FetchPriceFn: func(ctx context.Context) (*price.Record, error) { return nil, cause }}
		_, err := impl.NewPriceService(api, nil, time.Minute, nil).GetPrice(context.Background())
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindPrice))
		assert.ErrorIs(t, err, cause)
	})
}

func TestGetPrice_FailureIsNotCached(t *testing.T) {
	svc, _, _ := connectedCache(t)
	calls := 0
	api := &mocks.PriceAPIMock{FetchPriceFn: func(ctx context.Context) (*price.Record, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("timeout")
		}
		return livePrice(), nil
	}}
	ps := impl.NewPriceService(api, svc, time.Minute, nil)
	_, err := ps.GetPrice(context.Background())
	require.Error(t, err)
	rec, err := ps.GetPrice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.11, rec.EUR)
}

func TestGetPriceHistory_Bounds(t *testing.T) {
	api := &mocks.PriceAPIMock{}
	ps := impl.NewPriceService(api, nil, time.Minute, nil)

	_, err := ps.GetPriceHistory(context.Background(), 400)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindPrice))
	assert.Contains(t, err.Error(), "365")

	_, err = ps.GetPriceHistory(context.Background(), 0)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	assert.Equal(t, 0, api.HistoryCalls)
}

func TestGetPriceHistory_Proxies(t *testing.T) {
	var gotDays int
	api := &mocks.PriceAPIMock{FetchHistoryFn: func(ctx context.Context, days int) (json.RawMessage, error) {
		gotDays = days
		return json.RawMessage(`{"prices":[[1,0.1]]}`), nil
	}}
	out, err := impl.NewPriceService(api, nil, time.Minute, nil).GetPriceHistory(context.Background(), 365)
	require.NoError(t, err)
	assert.Equal(t, 365, gotDays)
	assert.JSONEq(t, `{"prices":[[1,0.1]]}`, string(out))
}

func TestPriceService_HealthCheck(t *testing.T) {
	api := &mocks.PriceAPIMock{PingFn: func(ctx context.Context) error { return errors.New("down") }}
	assert.False(t, impl.NewPriceService(api, nil, time.Minute, nil).HealthCheck(context.Background()))
	api.PingFn = nil
	assert.True(t, impl.NewPriceService(api, nil, time.Minute, nil).HealthCheck(context.Background()))
}
