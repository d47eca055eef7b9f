package scheduler

import (
	"fmt"
	"time"
)

// Config bounds how operations run against one remote resource.
type Config struct {
	// Concurrency is the maximum number of operations in flight per resource key.
	Concurrency int
	// Interval is the rolling window RequestsPerInterval applies to.
	Interval time.Duration
	// RequestsPerInterval is the maximum number of starts within any Interval.
	RequestsPerInterval int
	// Retries is the number of extra attempts after a transient failure.
	Retries int

	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		Concurrency:         10,
		Interval:            time.Second,
		RequestsPerInterval: 10,
		Retries:             3,
		InitialBackoff:      500 * time.Millisecond,
		MaxBackoff:          30 * time.Second,
	}
}

// Validate rejects limits that could never admit an operation.
func (c Config) Validate() error {
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", c.Concurrency)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", c.Interval)
	}
	if c.RequestsPerInterval <= 0 {
		return fmt.Errorf("requests per interval must be positive, got %d", c.RequestsPerInterval)
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries must not be negative, got %d", c.Retries)
	}
	if c.InitialBackoff < 0 || c.MaxBackoff < 0 {
		return fmt.Errorf("backoff durations must not be negative")
	}
	return nil
}

func (c Config) withBackoffDefaults() Config {
	defaults := DefaultConfig()
	if c.InitialBackoff == 0 {
		c.InitialBackoff = defaults.InitialBackoff
	}
	if c.MaxBackoff == 0 {
		c.MaxBackoff = defaults.MaxBackoff
	}
	if c.MaxBackoff < c.InitialBackoff {
		c.MaxBackoff = c.InitialBackoff
	}
	return c
}
