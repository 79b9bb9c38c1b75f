package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kunal592/MD-BlogApp/pkg/apperror"
)

const (
	ScopeGlobal  = "global"
	ScopeBlog    = "blog"
	ScopeComment = "comment"
	ScopeReport  = "report"
)

// RateLimitError reports a cooldown that is still running.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return e.Message
}

func (e *RateLimitError) Unwrap() error {
	return apperror.ErrRateLimitExceeded
}

func key(userID uuid.UUID, action string) string {
	return fmt.Sprintf("rate_limit:user:%s:%s", userID.String(), action)
}

// CheckAndSetRateLimit claims the cooldown slot for action. A nil client
// disables limiting.
func CheckAndSetRateLimit(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string, limit time.Duration) (bool, error) {
	if rdb == nil || limit <= 0 {
		return true, nil
	}

	wasSet, err := rdb.SetNX(ctx, key(userID, action), "locked", limit).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

func GetRateLimitTTL(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string) (time.Duration, error) {
	if rdb == nil {
		return 0, nil
	}
	return rdb.TTL(ctx, key(userID, action)).Result()
}

func ClearRateLimit(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string) error {
	if rdb == nil {
		return nil
	}
	return rdb.Del(ctx, key(userID, action)).Err()
}

// Limiter applies a global cooldown plus a per-action cooldown.
type Limiter struct {
	rdb    *redis.Client
	global time.Duration
	scopes map[string]time.Duration
}

func New(rdb *redis.Client, global time.Duration, scopes map[string]time.Duration) *Limiter {
	return &Limiter{rdb: rdb, global: global, scopes: scopes}
}

// Acquire claims both cooldowns for action. The returned release func
// clears them again, for callers whose write subsequently fails.
func (l *Limiter) Acquire(ctx context.Context, userID uuid.UUID, action string) (func(), error) {
	noop := func() {}
	if l == nil || l.rdb == nil {
		return noop, nil
	}

	allowed, err := CheckAndSetRateLimit(ctx, l.rdb, userID, ScopeGlobal, l.global)
	if err != nil {
		return nil, err
	}
	if !allowed {
		ttl, _ := GetRateLimitTTL(ctx, l.rdb, userID, ScopeGlobal)
		return nil, &RateLimitError{
			Message:    fmt.Sprintf("you are doing that too fast. Please wait %.0f seconds", ttl.Seconds()),
			RetryAfter: ttl,
		}
	}

	limit := l.scopes[action]
	allowed, err = CheckAndSetRateLimit(ctx, l.rdb, userID, action, limit)
	if err != nil {
		_ = ClearRateLimit(ctx, l.rdb, userID, ScopeGlobal)
		return nil, err
	}
	if !allowed {
		_ = ClearRateLimit(ctx, l.rdb, userID, ScopeGlobal)
		ttl, _ := GetRateLimitTTL(ctx, l.rdb, userID, action)
		return nil, &RateLimitError{
			Message:    fmt.Sprintf("you can only create one %s every %s. Please wait %.0f seconds", action, limit, ttl.Seconds()),
			RetryAfter: ttl,
		}
	}

	return func() {
		_ = ClearRateLimit(context.Background(), l.rdb, userID, ScopeGlobal)
		_ = ClearRateLimit(context.Background(), l.rdb, userID, action)
	}, nil
}
