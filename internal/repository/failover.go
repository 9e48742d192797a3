package repository

import (
	"context"
	"sync"
	"time"

	"lendit/internal/domain"

	"github.com/rs/zerolog"
)

// FailoverRateLimiter serves from the primary limiter until it errors, then
// falls back to the secondary and probes the primary again after a minute.
type FailoverRateLimiter struct {
	primary  domain.RateLimiter
	fallback domain.RateLimiter
	logger   *zerolog.Logger

	mu        sync.Mutex
	isDown    bool
	lastCheck time.Time
}

func NewFailoverRateLimiter(primary, fallback domain.RateLimiter, logger *zerolog.Logger) *FailoverRateLimiter {
	return &FailoverRateLimiter{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverRateLimiter) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	if r.tryPrimary() {
		allowed, err := r.primary.CheckRateLimit(ctx, userID, limit, window)
		if err == nil {
			r.markUp()
			return allowed, nil
		}
		r.logger.Error().Err(err).Msg("Primary rate limiter failed, falling back to memory")
		r.markDown()
	}

	return r.fallback.CheckRateLimit(ctx, userID, limit, window)
}

// tryPrimary reports whether the primary should be attempted: either it is
// healthy, or it has been down for over a minute and is due a probe.
func (r *FailoverRateLimiter) tryPrimary() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.isDown {
		return true
	}
	if time.Since(r.lastCheck) > time.Minute {
		r.lastCheck = time.Now()
		return true
	}
	return false
}

func (r *FailoverRateLimiter) markDown() {
	r.mu.Lock()
	r.isDown = true
	r.lastCheck = time.Now()
	r.mu.Unlock()
}

func (r *FailoverRateLimiter) markUp() {
	r.mu.Lock()
	r.isDown = false
	r.mu.Unlock()
}
