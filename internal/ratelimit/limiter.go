package ratelimit

import (
	"context"
	"sync"
	"time"
)

const window = time.Second

// Limiter throttles outbound provider calls using a sliding one-second
// window of recorded call timestamps per provider.
//
// Calls are recorded on every attempt, before the request is issued, not
// only after a successful parse. Remote APIs throttle on requests received,
// so counting attempts keeps the local window aligned with what the server
// observes.
type Limiter struct {
	mu    sync.Mutex
	rates map[string]int
	calls map[string][]time.Time

	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

// New constructs a limiter from a provider name to calls-per-second map.
// Providers absent from the map are not throttled.
func New(rates map[string]int) *Limiter {
	copied := make(map[string]int, len(rates))
	for name, perSecond := range rates {
		copied[name] = perSecond
	}
	return &Limiter{
		rates: copied,
		calls: make(map[string][]time.Time),
		now:   time.Now,
		sleep: sleepContext,
	}
}

// Wait blocks until a call for the named provider fits inside the window.
// It only fails when the context is cancelled while waiting.
func (l *Limiter) Wait(ctx context.Context, provider string) error {
	for {
		delay := l.nextDelay(provider)
		if delay <= 0 {
			return nil
		}
		if err := l.sleep(ctx, delay); err != nil {
			return err
		}
	}
}

// Record registers that a call for the named provider was issued.
func (l *Limiter) Record(provider string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	limit, ok := l.rates[provider]
	if !ok || limit <= 0 {
		return
	}
	now := l.now()
	recent := l.prune(provider, now)
	recent = append(recent, now)
	if len(recent) > limit {
		recent = recent[len(recent)-limit:]
	}
	l.calls[provider] = recent
}

func (l *Limiter) nextDelay(provider string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	limit, ok := l.rates[provider]
	if !ok || limit <= 0 {
		return 0
	}
	now := l.now()
	recent := l.prune(provider, now)
	l.calls[provider] = recent
	if len(recent) < limit {
		return 0
	}
	return window - now.Sub(recent[0])
}

// prune drops timestamps older than the window. Caller holds the mutex.
func (l *Limiter) prune(provider string, now time.Time) []time.Time {
	recent := l.calls[provider]
	cut := 0
	for cut < len(recent) && now.Sub(recent[cut]) > window {
		cut++
	}
	return recent[cut:]
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
