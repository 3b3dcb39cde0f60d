package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T) *Limiter {
	t.Helper()
	l := newLimiter(time.Hour)
	t.Cleanup(l.Stop)
	return l
}

func TestCheckAllowsUpToLimit(t *testing.T) {
	l := newTestLimiter(t)

	for i := 0; i < 5; i++ {
		res := l.Check("user:a", 5, time.Minute)
		require.True(t, res.Allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 5, res.Limit)
		assert.Equal(t, 5-(i+1), res.Remaining)
	}

	res := l.Check("user:a", 5, time.Minute)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.True(t, res.Reset.After(time.Now()))
}

func TestRejectionDoesNotConsumeBudget(t *testing.T) {
	l := newTestLimiter(t)

	for i := 0; i < 3; i++ {
		require.True(t, l.Check("user:b", 3, time.Minute).Allowed)
	}

	// The (N+1)-th and every later request in the window must be rejected;
	// rejections must not push the reset time or grow the counter, so the
	// outcome is stable no matter how many rejected retries arrive.
	first := l.Check("user:b", 3, time.Minute)
	require.False(t, first.Allowed)
	for i := 0; i < 10; i++ {
		res := l.Check("user:b", 3, time.Minute)
		assert.False(t, res.Allowed)
		assert.Equal(t, first.Reset, res.Reset)
	}
}

func TestWindowExpiryStartsFreshWindow(t *testing.T) {
	l := newTestLimiter(t)

	require.True(t, l.Check("user:c", 1, 30*time.Millisecond).Allowed)
	require.False(t, l.Check("user:c", 1, 30*time.Millisecond).Allowed)

	time.Sleep(40 * time.Millisecond)

	res := l.Check("user:c", 1, 30*time.Millisecond)
	assert.True(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
}

func TestDistinctRulesUseDistinctWindows(t *testing.T) {
	l := newTestLimiter(t)

	// Same identifier under two rules: exhausting one must not touch the other.
	for i := 0; i < 2; i++ {
		require.True(t, l.Check("user:d", 2, time.Minute).Allowed)
	}
	require.False(t, l.Check("user:d", 2, time.Minute).Allowed)

	assert.True(t, l.Check("user:d", 10, time.Minute).Allowed)
}

func TestConcurrentChecksAdmitExactlyLimit(t *testing.T) {
	l := newTestLimiter(t)

	const workers = 50
	const limit = 10

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Check("user:e", limit, time.Minute).Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, limit, allowed)
}

func TestPurgeRemovesOnlyExpiredWindows(t *testing.T) {
	l := newTestLimiter(t)

	l.Check("stale", 5, 10*time.Millisecond)
	l.Check("live", 5, time.Hour)

	time.Sleep(20 * time.Millisecond)
	l.purge()

	l.mu.Lock()
	size := len(l.store)
	l.mu.Unlock()
	require.Equal(t, 1, size)

	// The surviving window still carries its count.
	res := l.Check("live", 5, time.Hour)
	assert.Equal(t, 3, res.Remaining)
}

func TestResetClearsState(t *testing.T) {
	l := newTestLimiter(t)

	require.True(t, l.Check("user:f", 1, time.Minute).Allowed)
	require.False(t, l.Check("user:f", 1, time.Minute).Allowed)

	l.Reset()

	assert.True(t, l.Check("user:f", 1, time.Minute).Allowed)
}
