//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/rios0rios0/repofetch/internal/domain/commands"
	"github.com/rios0rios0/repofetch/internal/domain/entities"
	"github.com/rios0rios0/repofetch/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/repofetch/internal/infrastructure/repositories"
	"github.com/rios0rios0/repofetch/internal/scheduler"
	builders "github.com/rios0rios0/repofetch/test/domain/entitybuilders"
	doubles "github.com/rios0rios0/repofetch/test/infrastructure/repositorydoubles"
)

func newFactory(spy *doubles.SpyProviderRepository) *commands.RepoFetcherFactory {
	providers := infraRepos.NewProviderRegistry()
	providers.Register("spy", func(_ entities.ProviderSettings) (repositories.ProviderRepository, error) {
		return spy, nil
	})
	return commands.NewRepoFetcherFactory(providers, infraRepos.NewDefaultRateStoreRegistry())
}

func fetchOptions(format entities.OutputFormat) commands.FetchOptions {
	return commands.FetchOptions{
		Owner:           "octo",
		Repo:            "hello",
		Branch:          "main",
		Format:          format,
		Decode:          true,
		ApplyExclusions: true,
	}
}

func TestFetchCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should fetch the repository with the configured provider", func(t *testing.T) {
		t.Parallel()

		// given
		spy := newSpy(builders.Blobs("README.md", "src/a.ts", "dist/bundle.js"), map[string]string{
			".gitignore":     "dist/bundle.js",
			"README.md":      "# hello",
			"src/a.ts":       "a",
			"dist/bundle.js": "b",
		})
		cmd := commands.NewFetchCommand(newFactory(spy))
		settings := builders.NewSettingsBuilder().BuildSettings()

		// when
		out, err := cmd.Execute(context.Background(), settings, fetchOptions(entities.FormatJSON))

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"README.md", "src/a.ts"}, paths(out.Files))
	})

	t.Run("should read exclusions from the configured ignore file", func(t *testing.T) {
		t.Parallel()

		// given
		spy := newSpy(builders.Blobs("a.txt", "b.txt"), map[string]string{
			".fetchignore": "a.txt",
			"a.txt":        "a",
			"b.txt":        "b",
		})
		cmd := commands.NewFetchCommand(newFactory(spy))
		settings := builders.NewSettingsBuilder().WithIgnoreFile(".fetchignore").BuildSettings()

		// when
		out, err := cmd.Execute(context.Background(), settings, fetchOptions(entities.FormatJSON))

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"b.txt"}, paths(out.Files))
	})

	t.Run("should apply match patterns", func(t *testing.T) {
		t.Parallel()

		// given
		spy := newSpy(builders.Blobs("a.go", "b.ts"), map[string]string{"a.go": "a", "b.ts": "b"})
		cmd := commands.NewFetchCommand(newFactory(spy))
		opts := fetchOptions(entities.FormatJSON)
		opts.Match = []string{"*.go"}

		// when
		out, err := cmd.Execute(context.Background(), builders.NewSettingsBuilder().BuildSettings(), opts)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"a.go"}, paths(out.Files))
	})

	t.Run("should fail for an unknown provider", func(t *testing.T) {
		t.Parallel()

		// given
		cmd := commands.NewFetchCommand(newFactory(newSpy(nil, nil)))
		settings := builders.NewSettingsBuilder().WithProviderType("bitbucket").BuildSettings()

		// when
		_, err := cmd.Execute(context.Background(), settings, fetchOptions(entities.FormatJSON))

		// then
		assert.ErrorContains(t, err, "unknown provider type")
	})

	t.Run("should fail for an invalid scheduler config", func(t *testing.T) {
		t.Parallel()

		// given
		cmd := commands.NewFetchCommand(newFactory(newSpy(nil, nil)))
		settings := builders.NewSettingsBuilder().WithConcurrency(0).BuildSettings()

		// when
		_, err := cmd.Execute(context.Background(), settings, fetchOptions(entities.FormatJSON))

		// then
		assert.ErrorContains(t, err, "invalid scheduler config")
	})
}

func TestStreamCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should emit one output per file", func(t *testing.T) {
		t.Parallel()

		// given
		spy := newSpy(builders.Blobs("a.txt", "b.txt"), map[string]string{"a.txt": "a", "b.txt": "b"})
		cmd := commands.NewStreamCommand(newFactory(spy))
		var emitted []string

		// when
		err := cmd.Execute(context.Background(), builders.NewSettingsBuilder().BuildSettings(),
			fetchOptions(entities.FormatJSON),
			func(out entities.Output) error {
				emitted = append(emitted, paths(out.Files)...)
				return nil
			},
		)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"a.txt", "b.txt"}, emitted)
	})

	t.Run("should stop at the first emit failure", func(t *testing.T) {
		t.Parallel()

		// given
		spy := newSpy(builders.Blobs("a.txt", "b.txt"), map[string]string{"a.txt": "a", "b.txt": "b"})
		cmd := commands.NewStreamCommand(newFactory(spy))
		opts := fetchOptions(entities.FormatJSON)
		opts.ApplyExclusions = false

		// when
		err := cmd.Execute(context.Background(), builders.NewSettingsBuilder().BuildSettings(), opts,
			func(entities.Output) error { return errors.New("closed pipe") },
		)

		// then
		assert.ErrorContains(t, err, "closed pipe")
		assert.Equal(t, []string{"a.txt"}, spy.Requested())
	})
}

func TestQuotaCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should report the provider quota", func(t *testing.T) {
		t.Parallel()

		// given
		cmd := commands.NewQuotaCommand(newFactory(newSpy(nil, nil)))

		// when
		quota, err := cmd.Execute(context.Background(), builders.NewSettingsBuilder().BuildSettings())

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.QuotaSnapshot{Remaining: 4999, Limit: 5000}, quota)
	})
}

func TestRepoFetcherFactoryBuild(t *testing.T) {
	t.Parallel()

	t.Run("should account calls under the configured resource key", func(t *testing.T) {
		t.Parallel()

		// given
		reader := sdkmetric.NewManualReader()
		provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		factory := newFactory(newSpy(nil, nil)).WithSchedulerOptions(scheduler.WithMeterProvider(provider))
		fetcher, cleanup, err := factory.Build(builders.NewSettingsBuilder().BuildSettings())
		require.NoError(t, err)
		defer cleanup()

		// when
		_, err = fetcher.CheckQuota(context.Background())

		// then
		require.NoError(t, err)
		var rm metricdata.ResourceMetrics
		require.NoError(t, reader.Collect(context.Background(), &rm))
		resources := map[string]bool{}
		for _, scope := range rm.ScopeMetrics {
			for _, m := range scope.Metrics {
				if sum, ok := m.Data.(metricdata.Sum[int64]); ok && m.Name == "repofetch.scheduler.starts" {
					for _, point := range sum.DataPoints {
						value, _ := point.Attributes.Value("resource")
						resources[value.AsString()] = true
					}
				}
			}
		}
		assert.Equal(t, map[string]bool{"spy": true}, resources)
	})

	t.Run("should fail for an unknown rate store", func(t *testing.T) {
		t.Parallel()

		// given
		factory := newFactory(newSpy(nil, nil))
		settings := builders.NewSettingsBuilder().WithRateStore("etcd").BuildSettings()

		// when
		_, _, err := factory.Build(settings)

		// then
		assert.ErrorContains(t, err, "unknown rate store type")
	})
}

func TestFetchOptionsRequest(t *testing.T) {
	t.Parallel()

	t.Run("should leave the predicate unset without match patterns", func(t *testing.T) {
		t.Parallel()

		// when
		req := commands.RequestFromOptions(fetchOptions(entities.FormatJSON))

		// then
		assert.Nil(t, req.Predicate)
		assert.Equal(t, "octo", req.Owner)
	})
}
