package requests

import (
	"context"
	"sync"
	"time"

	"hoopstats/pkg/config"
)

// Single rate limit window of the stats provider.
type StatsLimit struct {
	limit         int
	resetInterval time.Duration
	count         int
	lastReset     time.Time
}

// Full rate limit, containing all the constraints.
type RateLimiter struct {
	windows []*StatsLimit

	// Fixed interval between background requests.
	// On demand requests skip it and are only bound by the windows.
	fetchInterval time.Duration

	// Last background fetch and the mutex.
	lastFetch time.Time
	mu        sync.Mutex
}

// NewRateLimiter creates a limiter with the lower and higher windows.
func NewRateLimiter(limits config.LimitsConfiguration) *RateLimiter {
	now := time.Now()
	return &RateLimiter{
		windows: []*StatsLimit{
			{
				limit:         limits.Lower.Count,
				resetInterval: limits.Lower.ResetInterval,
				lastReset:     now,
			},
			{
				limit:         limits.Higher.Count,
				resetInterval: limits.Higher.ResetInterval,
				lastReset:     now,
			},
		},
		fetchInterval: limits.SlowInterval,
	}
}

// Wait blocks until a request of the given priority can run.
func (r *RateLimiter) Wait(ctx context.Context, onDemand bool) error {
	if onDemand {
		return r.WaitApi(ctx)
	}
	return r.WaitJob(ctx)
}

// WaitApi waits until the windows allow an on demand request.
func (r *RateLimiter) WaitApi(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if r.canRunApi() {
			return nil
		}

		if err := sleep(ctx, r.windowsWait()); err != nil {
			return err
		}
	}
}

// WaitJob waits until a background request can run.
// Besides the windows, background requests are spaced by the fetch interval.
func (r *RateLimiter) WaitJob(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if r.canRunJob() {
			return nil
		}

		wait := r.windowsWait()
		if early := r.jobWait(); early > wait {
			wait = early
		}

		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// Reset the count of the windows whose interval passed.
func (r *RateLimiter) resetCounts(now time.Time) {
	for _, window := range r.windows {
		if now.Sub(window.lastReset) >= window.resetInterval {
			window.count = 0
			window.lastReset = now
		}
	}
}

// Check if every window is below its limit.
func (r *RateLimiter) checkLimits() bool {
	for _, window := range r.windows {
		if window.count >= window.limit {
			return false
		}
	}
	return true
}

func (r *RateLimiter) incrementCounts() {
	for _, window := range r.windows {
		window.count++
	}
}

// windowsWait returns how long until every exhausted window resets.
func (r *RateLimiter) windowsWait() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	var waitTime time.Duration
	for _, window := range r.windows {
		// If it's not this window that is limited, just continue.
		if window.count < window.limit {
			continue
		}

		waitTill := window.resetInterval - time.Since(window.lastReset)
		if waitTill > waitTime {
			waitTime = waitTill
		}
	}
	return waitTime
}

// jobWait returns how long until the fetch interval has elapsed.
func (r *RateLimiter) jobWait() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.fetchInterval - time.Since(r.lastFetch)
}

// Verify if can run the background request.
func (r *RateLimiter) canRunJob() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.resetCounts(now)

	// Verify if it's not too early.
	if now.Sub(r.lastFetch) < r.fetchInterval {
		return false
	}

	if !r.checkLimits() {
		return false
	}

	r.incrementCounts()
	r.lastFetch = now
	return true
}

// Verify if can run the on demand request.
func (r *RateLimiter) canRunApi() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.resetCounts(time.Now())

	if !r.checkLimits() {
		return false
	}

	r.incrementCounts()
	return true
}

// sleep waits for the duration or until the context is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
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
