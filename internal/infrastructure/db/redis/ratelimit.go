package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AttemptLimiter counts attempts per key in a fixed window.
// Key format: ratelimit:<scope>:<subject>
type AttemptLimiter struct {
	client *redis.Client
	max    int64
	window time.Duration
}

// NewAttemptLimiter allows max attempts per window for each subject.
func NewAttemptLimiter(client *redis.Client, max int, window time.Duration) *AttemptLimiter {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &AttemptLimiter{client: client, max: int64(max), window: window}
}

// Allow records one attempt and reports whether it is within the limit. When
// it is not, retryAfter is the remaining lifetime of the window.
//
// INCR and TTL run in one MULTI so the counter and its expiry are read
// together; a counter found without an expiry gets the window applied, which
// also heals keys whose first EXPIRE was lost.
func (l *AttemptLimiter) Allow(ctx context.Context, scope, subject string) (allowed bool, retryAfter time.Duration, err error) {
	key := l.key(scope, subject)

	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	if _, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.TTL(ctx, key)
		return nil
	}); err != nil {
		return false, 0, fmt.Errorf("rate limit incr: %w", err)
	}

	remaining := ttl.Val()
	if remaining < 0 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return false, 0, fmt.Errorf("rate limit expire: %w", err)
		}
		remaining = l.window
	}

	if incr.Val() > l.max {
		return false, remaining, nil
	}
	return true, 0, nil
}

// Reset forgets all attempts of subject in scope.
func (l *AttemptLimiter) Reset(ctx context.Context, scope, subject string) error {
	return l.client.Del(ctx, l.key(scope, subject)).Err()
}

func (l *AttemptLimiter) key(scope, subject string) string {
	return fmt.Sprintf("ratelimit:%s:%s", scope, subject)
}
