package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrTooManyAttempts signals that login attempts for a username exceeded the
// configured window budget.
var ErrTooManyAttempts = errors.New("too many login attempts")

// LoginLimiter throttles failed login attempts per username using a Redis
// counter with a rolling expiry. A nil client disables limiting.
type LoginLimiter struct {
	redis       *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewLoginLimiter builds a limiter.
func NewLoginLimiter(client *redis.Client, maxAttempts, windowSeconds int) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = 10
	}
	if windowSeconds <= 0 {
		windowSeconds = 300
	}
	return &LoginLimiter{
		redis:       client,
		maxAttempts: maxAttempts,
		window:      time.Duration(windowSeconds) * time.Second,
	}
}

// Allow returns ErrTooManyAttempts when the username is over budget. Redis
// unavailability does not block logins.
func (l *LoginLimiter) Allow(ctx context.Context, username string) error {
	if l == nil || l.redis == nil {
		return nil
	}
	count, err := l.redis.Get(ctx, loginAttemptKey(username)).Int64()
	if err != nil {
		return nil
	}
	if count >= int64(l.maxAttempts) {
		return ErrTooManyAttempts
	}
	return nil
}

// RecordFailure increments the failed-attempt counter for the username.
func (l *LoginLimiter) RecordFailure(ctx context.Context, username string) {
	if l == nil || l.redis == nil {
		return
	}
	key := loginAttemptKey(username)
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return
	}
	if count == 1 {
		_ = l.redis.Expire(ctx, key, l.window).Err()
	}
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, username string) {
	if l == nil || l.redis == nil {
		return
	}
	_ = l.redis.Del(ctx, loginAttemptKey(username)).Err()
}

func loginAttemptKey(username string) string {
	return "login_attempts:" + username
}
