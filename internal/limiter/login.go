// Package limiter throttles repeated failed logins per account using Redis.
package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/ArturPrzybyloo/testingforge-auth/pkg/errors"
)

// Config holds the login limiter settings.
type Config struct {
	// MaxAttempts is the number of failed attempts tolerated within Window
	// before logins for the account are rejected.
	MaxAttempts int
	Window      time.Duration
}

// DefaultConfig returns production defaults: 5 failures per 15 minutes.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 5,
		Window:      15 * time.Minute,
	}
}

// LoginLimiter counts failed login attempts per account in Redis. The counter
// key carries a TTL, so the window slides forward from the first failure and
// the state cleans itself up.
type LoginLimiter struct {
	client *redis.Client
	cfg    Config
}

// NewLoginLimiter creates a Redis-backed login limiter.
func NewLoginLimiter(client *redis.Client, cfg Config) *LoginLimiter {
	if cfg.MaxAttempts == 0 {
		cfg = DefaultConfig()
	}
	return &LoginLimiter{client: client, cfg: cfg}
}

func attemptKey(key string) string {
	return "auth:login_attempts:" + key
}

// Allow returns a rate-limited error when the account has exhausted its
// failed-attempt budget. Redis unavailability fails open: a broken cache must
// not lock everyone out.
func (l *LoginLimiter) Allow(ctx context.Context, key string) error {
	count, err := l.client.Get(ctx, attemptKey(key)).Int()
	if err != nil {
		// redis.Nil means no recorded failures; any other error fails open.
		return nil
	}

	if count >= l.cfg.MaxAttempts {
		return apperrors.RateLimited("too many failed login attempts, try again later")
	}

	return nil
}

// RecordFailure increments the failed-attempt counter, starting the window on
// the first failure.
func (l *LoginLimiter) RecordFailure(ctx context.Context, key string) error {
	k := attemptKey(key)

	pipe := l.client.TxPipeline()
	pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, l.cfg.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record login failure: %w", err)
	}

	return nil
}

// Reset clears the failed-attempt counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, attemptKey(key)).Err(); err != nil {
		return fmt.Errorf("reset login attempts: %w", err)
	}
	return nil
}
