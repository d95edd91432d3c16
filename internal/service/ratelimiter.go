package service

import (
	"sync"
	"time"

	"github.com/brightside-platform/alert-service/internal/data"
)

// Default rate-limit guardrails, matching the platform's alert policy.
const (
	DefaultRateWindow   = time.Hour
	DefaultMaxPerWindow = 5
)

// alertEvent is one rate-limit ledger entry: a subject and when an alert for
// it was successfully delivered. Entries are appended on success and dropped
// once older than the window, never mutated.
type alertEvent struct {
	subjectID string
	at        time.Time
}

// RateLimiterOptions configures a RateLimiter.
type RateLimiterOptions struct {
	// Window is the sliding interval alerts are counted over.
	Window time.Duration
	// MaxPerWindow bounds successful dispatches per subject per window.
	// Zero or negative means every subject is always rate limited.
	MaxPerWindow int
	// TimeProvider supplies the clock; defaults to real time.
	TimeProvider data.TimeProvider
}

// RateLimiter bounds alert frequency per subject over a sliding window.
// The ledger is the only shared mutable state in the dispatch pipeline; every
// operation purges stale entries and then reads or appends inside a single
// critical section. Callers must not hold a dispatch-long lock around it:
// Check and Record are short local operations, and two concurrent dispatches
// for the same subject may both pass Check while quota remains. That race is
// accepted; only each ledger operation is atomic, not the whole dispatch.
type RateLimiter struct {
	mu           sync.Mutex
	ledger       []alertEvent
	window       time.Duration
	maxPerWindow int
	clock        data.TimeProvider
}

// NewRateLimiter creates a RateLimiter. A non-positive window falls back to
// the default; a non-positive MaxPerWindow is kept as configured because it
// means "always limited".
func NewRateLimiter(opts RateLimiterOptions) *RateLimiter {
	window := opts.Window
	if window <= 0 {
		window = DefaultRateWindow
	}
	clock := opts.TimeProvider
	if clock == nil {
		clock = &data.RealTimeProvider{}
	}
	return &RateLimiter{
		window:       window,
		maxPerWindow: opts.MaxPerWindow,
		clock:        clock,
	}
}

// purgeLocked drops every entry older than the window. A negative age, which
// appears when the clock jumps backwards, counts as not expired. Callers must
// hold the mutex.
func (l *RateLimiter) purgeLocked(now time.Time) {
	kept := l.ledger[:0]
	for _, e := range l.ledger {
		if now.Sub(e.at) <= l.window {
			kept = append(kept, e)
		}
	}
	l.ledger = kept
}

// Check reports whether the subject is still within its alert quota. It
// purges stale entries but never appends one; quota is only consumed by
// Record after a confirmed delivery.
func (l *RateLimiter) Check(subjectID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.purgeLocked(l.clock.Now())

	if l.maxPerWindow <= 0 {
		return false
	}

	count := 0
	for _, e := range l.ledger {
		if e.subjectID == subjectID {
			count++
		}
	}
	return count < l.maxPerWindow
}

// Record appends one ledger entry for the subject at the current time.
// Called only after a confirmed successful delivery so failed transport
// attempts never consume quota.
func (l *RateLimiter) Record(subjectID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	l.purgeLocked(now)
	l.ledger = append(l.ledger, alertEvent{subjectID: subjectID, at: now})
}

// PendingCount returns how many ledger entries the subject currently has in
// the window. Used by the quota inspection command.
func (l *RateLimiter) PendingCount(subjectID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.purgeLocked(l.clock.Now())

	count := 0
	for _, e := range l.ledger {
		if e.subjectID == subjectID {
			count++
		}
	}
	return count
}
