package repositories

import (
	"fmt"
	"sort"

	"github.com/rios0rios0/repofetch/internal/domain/entities"
	domainRepos "github.com/rios0rios0/repofetch/internal/domain/repositories"
)

// RateStoreFactory creates a RateWindowRepository and the function releasing it.
type RateStoreFactory func(settings entities.RateStoreSettings) (domainRepos.RateWindowRepository, func() error, error)

// RateStoreRegistry manages the places a scheduler can keep its start log.
type RateStoreRegistry struct {
	stores map[string]RateStoreFactory
}

// NewRateStoreRegistry creates an empty rate store registry.
func NewRateStoreRegistry() *RateStoreRegistry {
	return &RateStoreRegistry{
		stores: make(map[string]RateStoreFactory),
	}
}

// Register adds a store factory under the given name (e.g. "redis").
func (r *RateStoreRegistry) Register(name string, factory RateStoreFactory) {
	r.stores[name] = factory
}

// Get builds the store named by settings.Type.
func (r *RateStoreRegistry) Get(
	settings entities.RateStoreSettings,
) (domainRepos.RateWindowRepository, func() error, error) {
	factory, ok := r.stores[settings.Type]
	if !ok {
		return nil, nil, fmt.Errorf("unknown rate store type: %q", settings.Type)
	}
	return factory(settings)
}

// Names returns the sorted list of registered store names.
func (r *RateStoreRegistry) Names() []string {
	names := make([]string, 0, len(r.stores))
	for name := range r.stores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
