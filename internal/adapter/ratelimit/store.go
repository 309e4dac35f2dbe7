// Package ratelimit counts requests per key in fixed windows.
package ratelimit

import (
	"context"
	"time"
)

// Result describes one counted hit.
type Result struct {
	Count   int
	ResetAt time.Time
}

// Store increments the counter for key in the current window of the given
// length and reports the new count.
type Store interface {
	Hit(ctx context.Context, key string, window time.Duration) (Result, error)
}
