package commands

import (
	"go.uber.org/dig"
)

// RegisterProviders registers all command providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	if err := container.Provide(NewRepoFetcherFactory); err != nil {
		return err
	}

	// Register command constructors
	if err := container.Provide(NewFetchCommand); err != nil {
		return err
	}
	if err := container.Provide(NewStreamCommand); err != nil {
		return err
	}
	if err := container.Provide(NewQuotaCommand); err != nil {
		return err
	}

	// Bind interfaces to implementations
	if err := container.Provide(func(impl *FetchCommand) Fetch {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *StreamCommand) Stream {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *QuotaCommand) Quota {
		return impl
	}); err != nil {
		return err
	}

	return nil
}
