package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	impl "github.com/kaspazof/kaspazof-api/internal/application/services"
)

type counterRepo struct {
	counts map[string]int
	err    error
}

func (r *counterRepo) IncrementWindow(ctx context.Context, subject string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
	start := time.Now().Truncate(window)
	if r.err != nil {
		return 0, start, r.err
	}
	r.counts[keyPrefix+subject]++
	return r.counts[keyPrefix+subject], start, nil
}

func TestRateLimiter_AllowsUpToBurst(t *testing.T) {
	repo := &counterRepo{counts: map[string]int{}}
	rl := impl.NewRateLimiterService(repo, &impl.RateLimiterConfig{RequestsPerMinute: 2, BurstMultiplier: 1.5}, nil)

	for i := 0; i < 3; i++ {
		ok, remaining, limit, _, err := rl.Allow(context.Background(), "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 2, limit)
		assert.Equal(t, 2-i, remaining)
	}
	ok, remaining, _, reset, err := rl.Allow(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, remaining)
	assert.True(t, reset.After(time.Now().Add(-time.Minute)))

	ok, _, _, _, _ = rl.Allow(context.Background(), "10.0.0.2")
	assert.True(t, ok)
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	rl := impl.NewRateLimiterService(&counterRepo{err: errors.New("redis down")}, nil, nil)
	ok, _, limit, _, err := rl.Allow(context.Background(), "10.0.0.1")
	assert.Error(t, err)
	assert.True(t, ok)
	assert.Equal(t, 120, limit)
}
