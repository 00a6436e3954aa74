// Package ratelimit provides the per-identity sliding-window limiter that
// guards the lead intake endpoint.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter admits or rejects a request from the given identity at the given
// instant. Implementations must be safe for concurrent use.
type Limiter interface {
	Allow(identity string, now time.Time) bool
}

// SlidingWindow admits at most maxRequests events per identity within any
// trailing window. The prune/count/append sequence runs under a single lock so
// concurrent requests from one identity cannot overrun the limit.
type SlidingWindow struct {
	mu          sync.Mutex
	window      time.Duration
	maxRequests int
	buckets     map[string][]time.Time
}

// NewSlidingWindow creates a limiter with the given window length and
// per-identity maximum.
func NewSlidingWindow(window time.Duration, maxRequests int) *SlidingWindow {
	return &SlidingWindow{
		window:      window,
		maxRequests: maxRequests,
		buckets:     make(map[string][]time.Time),
	}
}

// Allow prunes timestamps older than the window, then admits the request if
// fewer than maxRequests remain, recording now on admission. Rejected requests
// are not recorded.
func (l *SlidingWindow) Allow(identity string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := now.Add(-l.window)

	kept := l.buckets[identity][:0]
	for _, ts := range l.buckets[identity] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.maxRequests {
		l.buckets[identity] = kept
		return false
	}

	kept = append(kept, now)
	l.buckets[identity] = kept
	return true
}

// Prune drops identities whose every timestamp has aged out of the window.
// The bucket map otherwise grows with each distinct identity seen; callers
// running long-lived processes can invoke this periodically.
func (l *SlidingWindow) Prune(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := now.Add(-l.window)
	for identity, bucket := range l.buckets {
		live := false
		for _, ts := range bucket {
			if ts.After(cutoff) {
				live = true
				break
			}
		}
		if !live {
			delete(l.buckets, identity)
		}
	}
}
