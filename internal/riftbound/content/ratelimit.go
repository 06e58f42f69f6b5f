package content

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Riot application limits for the content endpoint.
const (
	shortWindow = time.Second
	shortLimit  = 20
	shortWait   = 1 * time.Second

	longWindow = 2 * time.Minute
	longLimit  = 100
	longWait   = 5 * time.Second
)

// RateLimiter self-throttles requests against the two Riot rate windows.
// It is advisory: the server may still answer 429.
type RateLimiter struct {
	mu       sync.Mutex
	requests []time.Time

	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration) error
	logger *slog.Logger
	notice rate.Sometimes
}

// NewRateLimiter creates a limiter using the wall clock.
func NewRateLimiter(logger *slog.Logger) *RateLimiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &RateLimiter{
		now:    time.Now,
		sleep:  sleepContext,
		logger: logger,
		notice: rate.Sometimes{Interval: 10 * time.Second},
	}
}

// Wait blocks until a request slot is available and records it. When the
// 1s window is full it waits 1s; when the 2min window is full it waits 5s.
func (l *RateLimiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	now := l.now()
	l.prune(now)

	var wait time.Duration
	switch {
	case l.countSince(now.Add(-shortWindow)) >= shortLimit:
		wait = shortWait
	case len(l.requests) >= longLimit:
		wait = longWait
	}
	l.mu.Unlock()

	if wait > 0 {
		l.notice.Do(func() {
			l.logger.Info("Rate limit reached, waiting", "wait", wait)
		})
		if err := l.sleep(ctx, wait); err != nil {
			return err
		}
	}

	l.mu.Lock()
	l.requests = append(l.requests, l.now())
	l.mu.Unlock()
	return nil
}

// InFlight returns the number of requests recorded in the long window.
func (l *RateLimiter) InFlight() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(l.now())
	return len(l.requests)
}

// prune drops timestamps older than the long window. Caller holds mu.
func (l *RateLimiter) prune(now time.Time) {
	cutoff := now.Add(-longWindow)
	i := 0
	for i < len(l.requests) && !l.requests[i].After(cutoff) {
		i++
	}
	l.requests = l.requests[i:]
}

func (l *RateLimiter) countSince(t time.Time) int {
	n := 0
	for i := len(l.requests) - 1; i >= 0 && l.requests[i].After(t); i-- {
		n++
	}
	return n
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
