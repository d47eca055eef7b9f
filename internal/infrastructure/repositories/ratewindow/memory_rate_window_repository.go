package ratewindow

import (
	"context"
	"sync"
	"time"
)

// MemoryRateWindowRepository keeps the start log in process memory. Each
// instance is independent, so schedulers built on different instances never
// throttle one another.
type MemoryRateWindowRepository struct {
	mu     sync.Mutex
	now    func() time.Time
	starts map[string][]time.Time
}

// NewMemoryRateWindowRepository creates an empty in-process window store.
func NewMemoryRateWindowRepository() *MemoryRateWindowRepository {
	return &MemoryRateWindowRepository{
		now:    time.Now,
		starts: make(map[string][]time.Time),
	}
}

func (it *MemoryRateWindowRepository) Reserve(
	ctx context.Context,
	key string,
	limit int,
	window time.Duration,
) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	it.mu.Lock()
	defer it.mu.Unlock()

	now := it.now()
	cutoff := now.Add(-window)

	starts := it.starts[key]
	expired := 0
	for expired < len(starts) && !starts[expired].After(cutoff) {
		expired++
	}
	starts = starts[expired:]

	if len(starts) < limit {
		it.starts[key] = append(starts, now)
		return 0, nil
	}

	it.starts[key] = starts
	return starts[len(starts)-limit].Add(window).Sub(now), nil
}
