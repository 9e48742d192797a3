package repository

import (
	"context"
	"sync"
	"time"
)

// MemoryRateLimiter is the in-process fallback counter. Windows are only
// per instance, which is acceptable while Redis is unreachable.
type MemoryRateLimiter struct {
	mu      sync.Mutex
	windows map[int64]*rateLimitEntry
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

func NewMemoryRateLimiter() *MemoryRateLimiter {
	return &MemoryRateLimiter{windows: make(map[int64]*rateLimitEntry)}
}

func (r *MemoryRateLimiter) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.windows[userID]
	if !ok || now.After(entry.expiresAt) {
		entry = &rateLimitEntry{count: 1, expiresAt: now.Add(window)}
		r.windows[userID] = entry
	} else {
		entry.count++
	}

	return entry.count <= limit, nil
}
