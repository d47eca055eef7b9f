//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/repofetch/internal/domain/commands"
	"github.com/rios0rios0/repofetch/internal/domain/entities"
)

// StubFetchCommand is a stub implementation of commands.Fetch.
type StubFetchCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	Output           entities.Output
	LastSettings     *entities.Settings
	LastOpts         commands.FetchOptions
}

var _ commands.Fetch = (*StubFetchCommand)(nil)

func (s *StubFetchCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.FetchOptions,
) (entities.Output, error) {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastOpts = opts
	return s.Output, s.ExecuteErr
}
