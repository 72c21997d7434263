package store

import (
	"context"
	"sync"
	"time"
)

// RateLimitMemoryStore is an in-memory implementation of ratelimit.Store.
type RateLimitMemoryStore struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	now      func() time.Time
	calls    int
	longest  time.Duration
}

// compactEvery is how many recorded requests pass between sweeps of idle keys.
const compactEvery = 1024

// NewRateLimitMemoryStore creates a new in-memory rate limit store. Idle keys are
// dropped once they are older than retention or the longest window recorded, whichever is larger.
func NewRateLimitMemoryStore(retention time.Duration) *RateLimitMemoryStore {
	return &RateLimitMemoryStore{
		requests: make(map[string][]time.Time),
		now:      time.Now,
		longest:  retention,
	}
}

func (s *RateLimitMemoryStore) Record(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	valid := prune(s.requests[key], now.Add(-window))

	valid = append(valid, now)
	s.requests[key] = valid

	s.longest = max(s.longest, window)

	s.calls++
	if s.calls%compactEvery == 0 {
		s.compact(s.longest)
	}

	return int64(len(valid)), nil
}

// compact drops keys whose every entry is older than maxWindow, bounding memory for idle clients.
func (s *RateLimitMemoryStore) compact(maxWindow time.Duration) int {
	cutoff := s.now().Add(-maxWindow)
	dropped := 0

	for key, timestamps := range s.requests {
		if len(prune(timestamps, cutoff)) == 0 {
			delete(s.requests, key)
			dropped++
		}
	}

	return dropped
}

func prune(timestamps []time.Time, cutoff time.Time) []time.Time {
	valid := make([]time.Time, 0, len(timestamps)+1)

	for _, ts := range timestamps {
		if ts.After(cutoff) {
			valid = append(valid, ts)
		}
	}

	return valid
}
