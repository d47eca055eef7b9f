package commands

import (
	"context"

	"github.com/rios0rios0/repofetch/internal/domain/entities"
)

// Quota is the interface for the quota command.
type Quota interface {
	Execute(ctx context.Context, settings *entities.Settings) (entities.QuotaSnapshot, error)
}

// QuotaCommand reports the remaining request quota of the configured provider.
type QuotaCommand struct {
	factory *RepoFetcherFactory
}

// NewQuotaCommand creates a new QuotaCommand.
func NewQuotaCommand(factory *RepoFetcherFactory) *QuotaCommand {
	return &QuotaCommand{factory: factory}
}

func (it *QuotaCommand) Execute(ctx context.Context, settings *entities.Settings) (entities.QuotaSnapshot, error) {
	fetcher, cleanup, err := it.factory.Build(settings)
	if err != nil {
		return entities.QuotaSnapshot{}, err
	}
	defer cleanup()

	return fetcher.CheckQuota(ctx)
}
