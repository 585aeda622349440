package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RateLimitRepository stores fixed-window request counters in Redis.
type RateLimitRepository struct {
	r redis.Cmdable
}

func NewRateLimitRepository(r redis.Cmdable) *RateLimitRepository {
	return &RateLimitRepository{r: r}
}

// IncrementWindow increments the subject's counter for the current window.
func (repo *RateLimitRepository) IncrementWindow(ctx context.Context, subject string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
	windowStart := time.Now().Truncate(window)
	key := fmt.Sprintf("%s:%s:%d", keyPrefix, subject, windowStart.Unix())
	pipe := repo.r.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, windowStart, err
	}
	return int(incr.Val()), windowStart, nil
}
