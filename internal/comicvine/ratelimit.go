package comicvine

import (
	"context"
	"sync"
	"time"
)

// Pacing and retry defaults for Comic Vine calls.
const (
	DefaultMinInterval      = 2 * time.Second
	DefaultMaxAttempts      = 3
	DefaultRateLimitBackoff = 5 * time.Second
	DefaultNetworkBackoff   = time.Second

	// StatusRateLimited is the HTTP status Comic Vine answers with when the
	// caller exceeds its request allowance.
	StatusRateLimited = 420
)

// SleepWithContext blocks for the given duration, returning early if the
// context is cancelled.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// limiter spaces out request starts. The lock is held across the wait so
// concurrent callers queue instead of racing on lastCall.
type limiter struct {
	mu       sync.Mutex
	interval time.Duration
	lastCall time.Time
	now      func() time.Time
	sleep    func(context.Context, time.Duration) error
}

func newLimiter(interval time.Duration) *limiter {
	return &limiter{interval: interval, now: time.Now, sleep: SleepWithContext}
}

// wait blocks until the minimum interval since the previous request start has
// elapsed, then records the new start time.
func (l *limiter) wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.lastCall.IsZero() {
		if remaining := l.interval - l.now().Sub(l.lastCall); remaining > 0 {
			if err := l.sleep(ctx, remaining); err != nil {
				return err
			}
		}
	}
	l.lastCall = l.now()
	return nil
}
