//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/repofetch/internal/domain/commands"
	"github.com/rios0rios0/repofetch/internal/domain/entities"
)

// StubStreamCommand is a stub implementation of commands.Stream that hands
// Outputs to emit in order before returning ExecuteErr.
type StubStreamCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	Outputs          []entities.Output
	LastSettings     *entities.Settings
	LastOpts         commands.FetchOptions
}

var _ commands.Stream = (*StubStreamCommand)(nil)

func (s *StubStreamCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.FetchOptions,
	emit func(entities.Output) error,
) error {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastOpts = opts
	for _, out := range s.Outputs {
		if err := emit(out); err != nil {
			return err
		}
	}
	return s.ExecuteErr
}
