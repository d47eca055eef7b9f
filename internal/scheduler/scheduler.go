// Package scheduler runs remote operations under a per-resource concurrency
// limit, a rolling request-rate limit and a bounded retry policy.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	logger "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/semaphore"

	"github.com/rios0rios0/repofetch/internal/domain/entities"
	"github.com/rios0rios0/repofetch/internal/domain/repositories"
)

// Scheduler admits operations per resource key. Two schedulers only share
// rate state when they are given the same shared window store and key.
type Scheduler struct {
	config  Config
	window  repositories.RateWindowRepository
	metrics *instruments

	mu      sync.Mutex
	budgets map[string]*budget
}

// budget is the rate state of one resource key. Both semaphores queue
// waiters in arrival order.
type budget struct {
	slots     *semaphore.Weighted
	admission *semaphore.Weighted
}

// Option customizes a Scheduler.
type Option func(*options)

type options struct {
	meterProvider metric.MeterProvider
}

// WithMeterProvider records scheduler metrics on provider instead of the
// global one.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(o *options) {
		o.meterProvider = provider
	}
}

// New validates config and returns a Scheduler that keeps its start log in window.
func New(config Config, window repositories.RateWindowRepository, opts ...Option) (*Scheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scheduler config: %w", err)
	}
	if window == nil {
		return nil, errors.New("scheduler requires a rate window store")
	}

	o := options{meterProvider: otel.GetMeterProvider()}
	for _, opt := range opts {
		opt(&o)
	}

	metrics, err := newInstruments(o.meterProvider)
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		config:  config.withBackoffDefaults(),
		window:  window,
		metrics: metrics,
		budgets: make(map[string]*budget),
	}, nil
}

// Config returns the effective configuration.
func (s *Scheduler) Config() Config {
	return s.config
}

// Execute runs op under the limits of key. See Do.
func (s *Scheduler) Execute(ctx context.Context, key string, op func(context.Context) error) error {
	_, err := Do(ctx, s, key, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// Do runs op once a concurrency slot for key is free and the rolling window
// admits another start. The slot is held across retries; every attempt,
// retries included, passes the rate gate again. Only
// *entities.TransientRequestError is retried, at most Retries times, and the
// last error is returned when they run out.
func Do[T any](ctx context.Context, s *Scheduler, key string, op func(context.Context) (T, error)) (T, error) {
	var zero T
	b := s.budget(key)

	if err := b.slots.Acquire(ctx, 1); err != nil {
		return zero, err
	}
	defer b.slots.Release(1)

	s.metrics.enter(ctx, key)
	defer s.metrics.leave(context.WithoutCancel(ctx), key)

	policy := s.newBackOff()
	attempt := 0
	operation := func() (T, error) {
		if err := s.admit(ctx, key, b); err != nil {
			return zero, backoff.Permanent(err)
		}
		attempt++
		s.metrics.started(ctx, key, attempt)

		value, err := op(ctx)
		if err == nil {
			return value, nil
		}

		var transient *entities.TransientRequestError
		if !errors.As(err, &transient) {
			return zero, backoff.Permanent(err)
		}
		policy.hint = transient.RetryAfter
		return zero, err
	}

	value, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(s.config.Retries+1)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.Debugf("Retrying %q request in %s after: %v", key, next, err)
		}),
	)
	if err != nil {
		// Retry hands back the wrapped error when the last attempt is permanent.
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			err = permanent.Unwrap()
		}
		s.metrics.failed(context.WithoutCancel(ctx), key)
		return zero, err
	}
	return value, nil
}

func (s *Scheduler) budget(key string) *budget {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.budgets[key]
	if !ok {
		b = &budget{
			slots:     semaphore.NewWeighted(int64(s.config.Concurrency)),
			admission: semaphore.NewWeighted(1),
		}
		s.budgets[key] = b
	}
	return b
}

// admit blocks until the window records a start for key. Waiters are
// served one at a time in arrival order.
func (s *Scheduler) admit(ctx context.Context, key string, b *budget) error {
	if err := b.admission.Acquire(ctx, 1); err != nil {
		return err
	}
	defer b.admission.Release(1)

	for {
		wait, err := s.window.Reserve(ctx, key, s.config.RequestsPerInterval, s.config.Interval)
		if err != nil {
			return fmt.Errorf("failed to reserve a request start for %q: %w", key, err)
		}
		if wait <= 0 {
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
