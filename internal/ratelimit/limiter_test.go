package ratelimit

import (
	"context"
	"testing"
	"time"
)

// fakeClock drives the limiter deterministically: sleeping advances time.
type fakeClock struct {
	current time.Time
	slept   []time.Duration
}

func (c *fakeClock) now() time.Time {
	return c.current
}

func (c *fakeClock) sleep(ctx context.Context, d time.Duration) error {
	c.slept = append(c.slept, d)
	c.current = c.current.Add(d)
	return nil
}

func newTestLimiter(rates map[string]int) (*Limiter, *fakeClock) {
	clock := &fakeClock{current: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := New(rates)
	l.now = clock.now
	l.sleep = clock.sleep
	return l, clock
}

func TestWaitAllowsBurstUpToLimit(t *testing.T) {
	l, clock := newTestLimiter(map[string]int{"imdb": 2})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := l.Wait(ctx, "imdb"); err != nil {
			t.Fatalf("Wait %d: %v", i, err)
		}
		l.Record("imdb")
	}
	if len(clock.slept) != 0 {
		t.Fatalf("expected no sleep within burst, slept %v", clock.slept)
	}
}

func TestThirdCallWaitsForWindow(t *testing.T) {
	l, clock := newTestLimiter(map[string]int{"imdb": 2})
	ctx := context.Background()

	start := clock.current
	for i := 0; i < 3; i++ {
		if err := l.Wait(ctx, "imdb"); err != nil {
			t.Fatalf("Wait %d: %v", i, err)
		}
		l.Record("imdb")
		// Calls are 250ms apart, so two fit in the window but the third
		// must be pushed out to a full second after the first.
		clock.current = clock.current.Add(250 * time.Millisecond)
	}

	elapsed := clock.current.Sub(start) - 750*time.Millisecond
	if elapsed < 500*time.Millisecond {
		t.Fatalf("third call proceeded after %v, want >= 500ms of throttling", elapsed)
	}
	if len(clock.slept) == 0 {
		t.Fatal("expected the limiter to sleep before the third call")
	}
}

func TestUnknownProviderNeverThrottled(t *testing.T) {
	l, clock := newTestLimiter(map[string]int{"imdb": 1})
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if err := l.Wait(ctx, "trakt"); err != nil {
			t.Fatalf("Wait: %v", err)
		}
		l.Record("trakt")
	}
	if len(clock.slept) != 0 {
		t.Fatalf("unexpected sleeps: %v", clock.slept)
	}
}

func TestOldTimestampsExpire(t *testing.T) {
	l, clock := newTestLimiter(map[string]int{"imdb": 1})
	ctx := context.Background()

	if err := l.Wait(ctx, "imdb"); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	l.Record("imdb")

	clock.current = clock.current.Add(2 * time.Second)
	if err := l.Wait(ctx, "imdb"); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if len(clock.slept) != 0 {
		t.Fatalf("expected no sleep after window expired, slept %v", clock.slept)
	}
}

func TestWaitHonorsContextCancellation(t *testing.T) {
	l, _ := newTestLimiter(map[string]int{"imdb": 1})
	l.sleep = sleepContext

	ctx, cancel := context.WithCancel(context.Background())
	if err := l.Wait(ctx, "imdb"); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	l.Record("imdb")

	cancel()
	if err := l.Wait(ctx, "imdb"); err == nil {
		t.Fatal("expected context error while throttled")
	}
}
