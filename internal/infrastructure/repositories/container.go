package repositories

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/repofetch/internal/domain/entities"
	domainRepos "github.com/rios0rios0/repofetch/internal/domain/repositories"
	ghRepo "github.com/rios0rios0/repofetch/internal/infrastructure/repositories/github"
	glRepo "github.com/rios0rios0/repofetch/internal/infrastructure/repositories/gitlab"
	"github.com/rios0rios0/repofetch/internal/infrastructure/repositories/ratewindow"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	if err := container.Provide(NewDefaultProviderRegistry); err != nil {
		return err
	}
	if err := container.Provide(NewDefaultRateStoreRegistry); err != nil {
		return err
	}

	return nil
}

// NewDefaultProviderRegistry registers every supported Git provider.
func NewDefaultProviderRegistry() *ProviderRegistry {
	reg := NewProviderRegistry()
	reg.Register(entities.ProviderGitHub, ghRepo.NewGitHubProviderRepositoryFromSettings)
	reg.Register(entities.ProviderGitLab, glRepo.NewGitLabProviderRepositoryFromSettings)
	return reg
}

// NewDefaultRateStoreRegistry registers the in-process and redis stores.
func NewDefaultRateStoreRegistry() *RateStoreRegistry {
	reg := NewRateStoreRegistry()
	reg.Register(entities.RateStoreMemory, func(
		_ entities.RateStoreSettings,
	) (domainRepos.RateWindowRepository, func() error, error) {
		return ratewindow.NewMemoryRateWindowRepository(), func() error { return nil }, nil
	})
	reg.Register(entities.RateStoreRedis, func(
		settings entities.RateStoreSettings,
	) (domainRepos.RateWindowRepository, func() error, error) {
		store := ratewindow.NewRedisRateWindowRepositoryFromSettings(settings)
		return store, store.Close, nil
	})
	return reg
}
