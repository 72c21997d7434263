package ratelimit

import (
	"context"
	"time"
)

// Store defines the interface for rate limit data storage.
type Store interface {
	// Record records a request under key and returns how many requests the key made
	// within the trailing window, including this one.
	Record(ctx context.Context, key string, window time.Duration) (count int64, err error)
}
