// Package ratelimit provides a per-caller sliding-window admission limiter.
// State is process-local; a restart clears all windows.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter admits up to max requests per caller within a sliding window.
type Limiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	callers map[int64][]time.Time
	now     func() time.Time
}

// New creates a limiter allowing max admissions per window per caller.
func New(max int, window time.Duration) *Limiter {
	return &Limiter{
		max:     max,
		window:  window,
		callers: make(map[int64][]time.Time),
		now:     time.Now,
	}
}

// Admit records an attempt for the caller and reports whether it is within
// the limit. Rejected attempts are not recorded, so a caller hammering the
// limiter does not push their reset time further out.
func (l *Limiter) Admit(callerID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	recent := l.prune(callerID, now)

	if len(recent) >= l.max {
		l.callers[callerID] = recent
		return false
	}

	l.callers[callerID] = append(recent, now)
	return true
}

// TimeUntilReset returns how long until the caller's oldest admission leaves
// the window. The second result is false when the caller has no in-window
// admissions at all.
func (l *Limiter) TimeUntilReset(callerID int64) (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	recent := l.prune(callerID, now)
	if recent == nil {
		return 0, false
	}
	l.callers[callerID] = recent

	return recent[0].Add(l.window).Sub(now), true
}

// prune drops timestamps older than the window. Caller holds the lock.
func (l *Limiter) prune(callerID int64, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	recent := l.callers[callerID][:0]
	for _, ts := range l.callers[callerID] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}
	if len(recent) == 0 {
		delete(l.callers, callerID)
		return nil
	}
	return recent
}
