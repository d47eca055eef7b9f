package commands

import (
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/repofetch/internal/domain/entities"
	infraRepos "github.com/rios0rios0/repofetch/internal/infrastructure/repositories"
	"github.com/rios0rios0/repofetch/internal/scheduler"
)

// RepoFetcherFactory builds a RepoFetcher from settings: provider, rate
// window store and scheduler.
type RepoFetcherFactory struct {
	providerRegistry  *infraRepos.ProviderRegistry
	rateStoreRegistry *infraRepos.RateStoreRegistry
	schedulerOptions  []scheduler.Option
}

// NewRepoFetcherFactory creates a new RepoFetcherFactory with the given registries.
func NewRepoFetcherFactory(
	providerRegistry *infraRepos.ProviderRegistry,
	rateStoreRegistry *infraRepos.RateStoreRegistry,
) *RepoFetcherFactory {
	return &RepoFetcherFactory{
		providerRegistry:  providerRegistry,
		rateStoreRegistry: rateStoreRegistry,
	}
}

// WithSchedulerOptions returns a copy of the factory passing opts to every
// scheduler it creates.
func (it *RepoFetcherFactory) WithSchedulerOptions(opts ...scheduler.Option) *RepoFetcherFactory {
	clone := *it
	clone.schedulerOptions = append(append([]scheduler.Option{}, it.schedulerOptions...), opts...)
	return &clone
}

// Build returns a fetcher and the cleanup releasing its rate window store.
func (it *RepoFetcherFactory) Build(settings *entities.Settings) (*RepoFetcher, func(), error) {
	provider, err := it.providerRegistry.Get(settings.Provider)
	if err != nil {
		return nil, nil, err
	}

	window, closeWindow, err := it.rateStoreRegistry.Get(settings.RateStore)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create rate store: %w", err)
	}
	cleanup := func() {
		if closeErr := closeWindow(); closeErr != nil {
			logger.Warnf("Failed to close %s rate store: %v", settings.RateStore.Type, closeErr)
		}
	}

	defaults := scheduler.DefaultConfig()
	config := scheduler.Config{
		Concurrency:         settings.Scheduler.Concurrency,
		Interval:            settings.Scheduler.Interval(),
		RequestsPerInterval: settings.Scheduler.RequestsPerInterval,
		Retries:             settings.Scheduler.RetriesOr(defaults.Retries),
		InitialBackoff:      settings.Scheduler.InitialBackoff(),
		MaxBackoff:          settings.Scheduler.MaxBackoff(),
	}
	sched, err := scheduler.New(config, window, it.schedulerOptions...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	logger.Debugf(
		"Scheduler for %q: concurrency %d, %d requests per %s, %d retries, %s rate store",
		settings.Scheduler.ResourceKey, config.Concurrency, config.RequestsPerInterval,
		config.Interval, config.Retries, settings.RateStore.Type,
	)

	fetcher := NewRepoFetcher(provider, sched,
		WithResourceKey(settings.Scheduler.ResourceKey),
		WithIgnoreFile(settings.Exclusions.File),
		WithExclusionMode(settings.Exclusions.Mode),
	)
	return fetcher, cleanup, nil
}
