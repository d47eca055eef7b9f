//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/repofetch/internal/domain/commands"
	"github.com/rios0rios0/repofetch/internal/domain/entities"
)

// StubQuotaCommand is a stub implementation of commands.Quota.
type StubQuotaCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	Quota            entities.QuotaSnapshot
	LastSettings     *entities.Settings
}

var _ commands.Quota = (*StubQuotaCommand)(nil)

func (s *StubQuotaCommand) Execute(_ context.Context, settings *entities.Settings) (entities.QuotaSnapshot, error) {
	s.ExecuteCallCount++
	s.LastSettings = settings
	return s.Quota, s.ExecuteErr
}
