package content

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeClock drives a RateLimiter without real sleeping.
type fakeClock struct {
	now   time.Time
	waits []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(_ context.Context, d time.Duration) error {
	c.waits = append(c.waits, d)
	c.now = c.now.Add(d)
	return nil
}

func newFakeLimiter() (*RateLimiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewRateLimiter(nil)
	l.now = clock.Now
	l.sleep = clock.Sleep
	return l, clock
}

func TestRateLimiter_UnderLimitDoesNotWait(t *testing.T) {
	l, clock := newFakeLimiter()
	ctx := context.Background()

	for i := 0; i < shortLimit; i++ {
		if err := l.Wait(ctx); err != nil {
			t.Fatalf("Wait failed: %v", err)
		}
	}
	if len(clock.waits) != 0 {
		t.Errorf("Expected no waits under the short limit, got %v", clock.waits)
	}
	if l.InFlight() != shortLimit {
		t.Errorf("Expected %d recorded requests, got %d", shortLimit, l.InFlight())
	}
}

func TestRateLimiter_ShortWindowSaturatedWaitsOneSecond(t *testing.T) {
	l, clock := newFakeLimiter()
	ctx := context.Background()

	for i := 0; i <= shortLimit; i++ {
		if err := l.Wait(ctx); err != nil {
			t.Fatalf("Wait failed: %v", err)
		}
	}
	if len(clock.waits) != 1 || clock.waits[0] != time.Second {
		t.Errorf("Expected a single 1s wait, got %v", clock.waits)
	}
}

func TestRateLimiter_LongWindowSaturatedWaitsFiveSeconds(t *testing.T) {
	l, clock := newFakeLimiter()
	ctx := context.Background()

	// Spread requests so the short window never fills.
	for i := 0; i < longLimit; i++ {
		if err := l.Wait(ctx); err != nil {
			t.Fatalf("Wait failed: %v", err)
		}
		clock.now = clock.now.Add(100 * time.Millisecond)
	}
	if len(clock.waits) != 0 {
		t.Fatalf("Expected no waits before the long limit, got %v", clock.waits)
	}

	if err := l.Wait(ctx); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if len(clock.waits) != 1 || clock.waits[0] != 5*time.Second {
		t.Errorf("Expected a single 5s wait, got %v", clock.waits)
	}
}

func TestRateLimiter_OldRequestsExpire(t *testing.T) {
	l, clock := newFakeLimiter()
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_ = l.Wait(ctx)
	}
	clock.now = clock.now.Add(longWindow)

	if got := l.InFlight(); got != 0 {
		t.Errorf("Expected requests to expire after the long window, got %d", got)
	}
}

func TestRateLimiter_CancelledWhileWaiting(t *testing.T) {
	l, _ := newFakeLimiter()
	l.sleep = sleepContext

	for i := 0; i < shortLimit; i++ {
		_ = l.Wait(context.Background())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
