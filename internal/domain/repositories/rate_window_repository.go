package repositories

import (
	"context"
	"time"
)

// RateWindowRepository stores the sliding log of request starts per resource key.
type RateWindowRepository interface {
	// Reserve records a start for key when fewer than limit starts happened in
	// the trailing window and returns zero. Otherwise it records nothing and
	// returns how long to wait before the oldest start leaves the window.
	Reserve(ctx context.Context, key string, limit int, window time.Duration) (time.Duration, error)
}
