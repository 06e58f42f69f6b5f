package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ramonehamilton/riftbound-companion/internal/events"
	"github.com/ramonehamilton/riftbound-companion/internal/storage"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type eventLog struct {
	mu     sync.Mutex
	events []events.Event
}

func (l *eventLog) Dispatch(e events.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) types() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.events))
	for i, e := range l.events {
		out[i] = e.Type
	}
	return out
}

type fixture struct {
	gateway *storage.MemoryGateway
	clock   *testClock
	events  *eventLog
	deps    Deps
}

func newFixture() *fixture {
	f := &fixture{
		gateway: storage.NewMemoryGateway(),
		clock:   newTestClock(),
		events:  &eventLog{},
	}
	f.deps = Deps{Gateway: f.gateway, Events: f.events, Clock: f.clock.Now}
	return f
}

func mustNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

var ctx = context.Background()
