// Package ratelimit implements the fixed-window request counters that gate
// generation calls before they reach the AI provider. The store is injected
// into the orchestrator so tests can construct a fresh one per case.
package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

// Tier names for the three quota levels checked on every generation call.
const (
	TierGeneral    = "general"    // broad ceiling on all API requests per caller
	TierCommentary = "commentary" // tighter ceiling for timer-driven commentary
	TierAI         = "ai"         // tightest ceiling, bounds provider spend across all modes
)

// LimitError reports a rejected request. It is surfaced to the caller as a
// distinct outcome rather than masked by a fallback artifact: the right
// remedy is to slow down, not to accept degraded content.
type LimitError struct {
	Tier       string
	RetryAfter time.Duration
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded on %s tier, retry after %s", e.Tier, e.RetryAfter.Round(time.Second))
}

// Store holds per-caller window counters for each configured tier. All
// mutation happens under a single mutex so concurrent Allow calls from
// in-flight requests stay consistent.
type Store struct {
	mu    sync.Mutex
	tiers map[string]*tier
}

type tier struct {
	maxRequests int
	window      time.Duration
	buckets     map[string]*bucket
}

type bucket struct {
	count       int
	windowStart time.Time
}

// NewStore creates an empty store. Tiers must be registered with AddTier
// before use; Allow on an unknown tier admits the request.
func NewStore() *Store {
	return &Store{tiers: make(map[string]*tier)}
}

// AddTier registers a named tier allowing maxRequests per window.
func (s *Store) AddTier(name string, maxRequests int, window time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tiers[name] = &tier{
		maxRequests: maxRequests,
		window:      window,
		buckets:     make(map[string]*bucket),
	}
}

// Allow checks whether callerID may proceed on the named tier, consuming
// one unit of quota when admitted. Rejected calls consume nothing. The
// window resets once its interval has elapsed.
func (s *Store) Allow(tierName, callerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tiers[tierName]
	if !ok {
		return true
	}

	now := time.Now()
	b, ok := t.buckets[callerID]
	if !ok || now.Sub(b.windowStart) >= t.window {
		t.buckets[callerID] = &bucket{count: 1, windowStart: now}
		return true
	}

	if b.count < t.maxRequests {
		b.count++
		return true
	}
	return false
}

// RetryAfter returns how long until the window resets for callerID on the
// named tier. Zero when no active window exists.
func (s *Store) RetryAfter(tierName, callerID string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tiers[tierName]
	if !ok {
		return 0
	}

	b, ok := t.buckets[callerID]
	if !ok {
		return 0
	}

	remaining := t.window - time.Since(b.windowStart)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Cleanup drops buckets whose window expired more than one full window ago.
// Called periodically so long-gone callers do not accumulate.
func (s *Store) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, t := range s.tiers {
		for caller, b := range t.buckets {
			if now.Sub(b.windowStart) > 2*t.window {
				delete(t.buckets, caller)
			}
		}
	}
}
