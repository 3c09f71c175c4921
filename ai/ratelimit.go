package ai

import (
	"context"
	"sync"
	"time"
)

// SlidingWindowLimiter caps calls per minute with a mutex-guarded sliding
// window. Providers enforce per-minute quotas, so a token bucket alone is
// not enough: a burst early in the window must block the remainder.
type SlidingWindowLimiter struct {
	maxPerMinute int

	mu    sync.Mutex
	calls []time.Time

	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

// NewSlidingWindowLimiter creates a limiter allowing maxPerMinute calls in
// any 60 second window.
func NewSlidingWindowLimiter(maxPerMinute int) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		maxPerMinute: maxPerMinute,
		now:          time.Now,
		sleep:        sleepCtx,
	}
}

// Wait blocks until a call slot is available or the context is done. The
// slot is recorded before returning.
func (l *SlidingWindowLimiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	if len(l.calls) >= l.maxPerMinute {
		wait := 60*time.Second - now.Sub(l.calls[0]) + 100*time.Millisecond
		if wait > 0 {
			if err := l.sleep(ctx, wait); err != nil {
				return err
			}
			now = l.now()
			l.prune(now)
		}
	}

	l.calls = append(l.calls, now)
	return nil
}

// prune drops timestamps older than the window. Caller holds the lock.
func (l *SlidingWindowLimiter) prune(now time.Time) {
	cutoff := now.Add(-60 * time.Second)
	kept := l.calls[:0]
	for _, t := range l.calls {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.calls = kept
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
