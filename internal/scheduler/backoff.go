package scheduler

import (
	"time"

	"github.com/cenkalti/backoff/v5"
)

// hintedBackOff is exponential backoff that yields to a Retry-After hint
// from the last failure. Delays never exceed max.
type hintedBackOff struct {
	backoff.BackOff
	max  time.Duration
	hint time.Duration
}

func (s *Scheduler) newBackOff() *hintedBackOff {
	exponential := backoff.NewExponentialBackOff()
	exponential.InitialInterval = s.config.InitialBackoff
	exponential.MaxInterval = s.config.MaxBackoff
	return &hintedBackOff{BackOff: exponential, max: s.config.MaxBackoff}
}

func (b *hintedBackOff) NextBackOff() time.Duration {
	next := b.BackOff.NextBackOff()
	if next == backoff.Stop {
		return next
	}
	if b.hint > 0 {
		next = b.hint
		b.hint = 0
	}
	return min(next, b.max)
}
