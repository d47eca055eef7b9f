//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"time"

	"github.com/rios0rios0/repofetch/internal/domain/repositories"
)

// StubRateWindowRepository admits every start, or fails with Err.
type StubRateWindowRepository struct {
	Err error
}

var _ repositories.RateWindowRepository = (*StubRateWindowRepository)(nil)

func (s *StubRateWindowRepository) Reserve(
	_ context.Context,
	_ string,
	_ int,
	_ time.Duration,
) (time.Duration, error) {
	return 0, s.Err
}
