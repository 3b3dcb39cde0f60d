// Package ratelimit implements fixed-window admission control keyed by
// caller identity. It is process-local: deployments with more than one
// server process need a shared store behind the same Check contract.
package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

// DefaultPurgeInterval is how often expired windows are swept out of memory.
const DefaultPurgeInterval = 5 * time.Minute

// Result reports the outcome of a single admission check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

type record struct {
	count int
	reset time.Time
}

// Limiter is a shared fixed-window counter store. All methods are safe for
// concurrent use.
type Limiter struct {
	mu    sync.Mutex
	store map[string]*record
	stop  chan struct{}
	once  sync.Once
}

// NewLimiter creates a limiter and starts its background purge loop.
func NewLimiter() *Limiter {
	return newLimiter(DefaultPurgeInterval)
}

func newLimiter(purgeEvery time.Duration) *Limiter {
	l := &Limiter{
		store: make(map[string]*record),
		stop:  make(chan struct{}),
	}
	go l.purgeLoop(purgeEvery)
	return l
}

// Check admits or rejects one request for identifier under the given rule.
// A fresh window starts on the first request or when the previous window has
// expired. Rejected requests do not consume budget: once the count reaches
// maxRequests every further request in the window is rejected without
// mutating the counter.
func (l *Limiter) Check(identifier string, maxRequests int, window time.Duration) Result {
	now := time.Now()
	key := fmt.Sprintf("%s:%d:%d", identifier, maxRequests, window.Milliseconds())

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.store[key]
	if !ok || rec.reset.Before(now) {
		rec = &record{count: 0, reset: now.Add(window)}
		l.store[key] = rec
	}

	if rec.count >= maxRequests {
		return Result{
			Allowed:   false,
			Limit:     maxRequests,
			Remaining: 0,
			Reset:     rec.reset,
		}
	}

	rec.count++
	return Result{
		Allowed:   true,
		Limit:     maxRequests,
		Remaining: maxRequests - rec.count,
		Reset:     rec.reset,
	}
}

// Reset clears all rate limit state. Useful for tests.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.store = make(map[string]*record)
}

// Stop terminates the purge loop.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

func (l *Limiter) purgeLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.purge()
		}
	}
}

// purge removes expired windows. It holds the same mutex as Check, so a
// live window can never be swept out from under a concurrent caller.
func (l *Limiter) purge() {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, rec := range l.store {
		if rec.reset.Before(now) {
			delete(l.store, key)
		}
	}
}
