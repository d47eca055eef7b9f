//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/repofetch/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// SettingsBuilder helps create settings with a fluent interface. The
// defaults are fast: no backoff to speak of and a generous rate.
type SettingsBuilder struct {
	*testkit.BaseBuilder
	provider   entities.ProviderSettings
	scheduler  entities.SchedulerSettings
	exclusions entities.ExclusionSettings
	rateStore  entities.RateStoreSettings
}

// NewSettingsBuilder creates a new settings builder with sensible defaults.
func NewSettingsBuilder() *SettingsBuilder {
	b := &SettingsBuilder{BaseBuilder: testkit.NewBaseBuilder()}
	b.applyDefaults()
	return b
}

func (b *SettingsBuilder) applyDefaults() {
	retries := 3
	b.provider = entities.ProviderSettings{Type: "spy", Token: "test-token"}
	b.scheduler = entities.SchedulerSettings{
		Concurrency:         4,
		IntervalMs:          1000,
		RequestsPerInterval: 1000,
		Retries:             &retries,
		InitialBackoffMs:    1,
		MaxBackoffMs:        5,
		ResourceKey:         "spy",
	}
	b.exclusions = entities.ExclusionSettings{
		File: entities.DefaultIgnoreFile,
		Mode: entities.ExclusionModeExact,
	}
	b.rateStore = entities.RateStoreSettings{Type: entities.RateStoreMemory}
}

// WithProviderType sets the provider registry key.
func (b *SettingsBuilder) WithProviderType(providerType string) *SettingsBuilder {
	b.provider.Type = providerType
	b.scheduler.ResourceKey = providerType
	return b
}

// WithConcurrency sets the scheduler concurrency.
func (b *SettingsBuilder) WithConcurrency(concurrency int) *SettingsBuilder {
	b.scheduler.Concurrency = concurrency
	return b
}

// WithRetries sets the scheduler retry count.
func (b *SettingsBuilder) WithRetries(retries int) *SettingsBuilder {
	b.scheduler.Retries = &retries
	return b
}

// WithIgnoreFile sets the ignore file path.
func (b *SettingsBuilder) WithIgnoreFile(path string) *SettingsBuilder {
	b.exclusions.File = path
	return b
}

// WithExclusionMode sets how ignore-file lines are matched.
func (b *SettingsBuilder) WithExclusionMode(mode entities.ExclusionMode) *SettingsBuilder {
	b.exclusions.Mode = mode
	return b
}

// WithRateStore sets the rate store type.
func (b *SettingsBuilder) WithRateStore(storeType string) *SettingsBuilder {
	b.rateStore.Type = storeType
	return b
}

// Build creates the settings (satisfies testkit.Builder interface).
func (b *SettingsBuilder) Build() interface{} {
	return b.BuildSettings()
}

// BuildSettings creates the settings with a concrete return type.
func (b *SettingsBuilder) BuildSettings() *entities.Settings {
	scheduler := b.scheduler
	if b.scheduler.Retries != nil {
		retries := *b.scheduler.Retries
		scheduler.Retries = &retries
	}
	return &entities.Settings{
		Provider:   b.provider,
		Scheduler:  scheduler,
		Exclusions: b.exclusions,
		RateStore:  b.rateStore,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *SettingsBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.applyDefaults()
	return b
}

// Clone creates a deep copy of the SettingsBuilder.
func (b *SettingsBuilder) Clone() testkit.Builder {
	clone := &SettingsBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		provider:    b.provider,
		scheduler:   b.scheduler,
		exclusions:  b.exclusions,
		rateStore:   b.rateStore,
	}
	if b.scheduler.Retries != nil {
		retries := *b.scheduler.Retries
		clone.scheduler.Retries = &retries
	}
	return clone
}
