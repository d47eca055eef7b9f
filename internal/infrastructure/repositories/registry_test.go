//go:build unit

package repositories_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/repofetch/internal/domain/entities"
	domainRepos "github.com/rios0rios0/repofetch/internal/domain/repositories"
	"github.com/rios0rios0/repofetch/internal/infrastructure/repositories"
	doubles "github.com/rios0rios0/repofetch/test/infrastructure/repositorydoubles"
)

func TestProviderRegistry(t *testing.T) {
	t.Parallel()

	t.Run("should register and retrieve a provider by type", func(t *testing.T) {
		t.Parallel()

		// given
		reg := repositories.NewProviderRegistry()
		var received entities.ProviderSettings
		reg.Register("test-provider", func(settings entities.ProviderSettings) (domainRepos.ProviderRepository, error) {
			received = settings
			return &doubles.SpyProviderRepository{ProviderName: "test-provider"}, nil
		})

		// when
		prov, err := reg.Get(entities.ProviderSettings{Type: "test-provider", Token: "fake-token"})

		// then
		require.NoError(t, err)
		assert.Equal(t, "test-provider", prov.Name())
		assert.Equal(t, "fake-token", received.Token)
	})

	t.Run("should return error for unknown provider", func(t *testing.T) {
		t.Parallel()

		// given
		reg := repositories.NewProviderRegistry()

		// when
		prov, err := reg.Get(entities.ProviderSettings{Type: "nonexistent"})

		// then
		require.Error(t, err)
		assert.Nil(t, prov)
		assert.Contains(t, err.Error(), "unknown provider type")
	})

	t.Run("should wrap factory errors with the provider type", func(t *testing.T) {
		t.Parallel()

		// given
		cause := errors.New("bad credentials")
		reg := repositories.NewProviderRegistry()
		reg.Register("broken", func(_ entities.ProviderSettings) (domainRepos.ProviderRepository, error) {
			return nil, cause
		})

		// when
		_, err := reg.Get(entities.ProviderSettings{Type: "broken"})

		// then
		require.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "failed to create broken provider")
	})

	t.Run("should build the github and gitlab providers by default", func(t *testing.T) {
		t.Parallel()

		// given
		reg := repositories.NewDefaultProviderRegistry()

		// when
		github, githubErr := reg.Get(entities.ProviderSettings{Type: entities.ProviderGitHub, Token: "t"})
		gitlab, gitlabErr := reg.Get(entities.ProviderSettings{Type: entities.ProviderGitLab, Token: "t"})

		// then
		require.NoError(t, githubErr)
		require.NoError(t, gitlabErr)
		assert.Equal(t, []string{"github", "gitlab"}, reg.Names())
		assert.Equal(t, "github", github.Name())
		assert.Equal(t, "gitlab", gitlab.Name())
	})

	t.Run("should fail to build a github app provider without its private key", func(t *testing.T) {
		t.Parallel()

		// given
		reg := repositories.NewDefaultProviderRegistry()
		settings := entities.ProviderSettings{
			Type:           entities.ProviderGitHub,
			AppID:          1,
			InstallationID: 2,
			PrivateKeyPath: "/nonexistent/key.pem",
		}

		// when
		_, err := reg.Get(settings)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create github provider")
	})
}

func TestRateStoreRegistry(t *testing.T) {
	t.Parallel()

	t.Run("should return error for unknown store", func(t *testing.T) {
		t.Parallel()

		// given
		reg := repositories.NewDefaultRateStoreRegistry()

		// when
		_, _, err := reg.Get(entities.RateStoreSettings{Type: "etcd"})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown rate store type")
		assert.Equal(t, []string{"memory", "redis"}, reg.Names())
	})

	t.Run("should build a working in-process store", func(t *testing.T) {
		t.Parallel()

		// given
		reg := repositories.NewDefaultRateStoreRegistry()

		// when
		store, closeStore, err := reg.Get(entities.RateStoreSettings{Type: entities.RateStoreMemory})

		// then
		require.NoError(t, err)
		wait, reserveErr := store.Reserve(context.Background(), "github", 1, time.Second)
		require.NoError(t, reserveErr)
		assert.Zero(t, wait)
		assert.NoError(t, closeStore())
	})

	t.Run("should build a redis store sharing the window across instances", func(t *testing.T) {
		t.Parallel()

		// given
		server := miniredis.RunT(t)
		reg := repositories.NewDefaultRateStoreRegistry()
		settings := entities.RateStoreSettings{
			Type:      entities.RateStoreRedis,
			Address:   server.Addr(),
			KeyPrefix: "test:",
		}
		first, closeFirst, err := reg.Get(settings)
		require.NoError(t, err)
		second, closeSecond, err := reg.Get(settings)
		require.NoError(t, err)

		// when
		firstWait, firstErr := first.Reserve(context.Background(), "github", 1, time.Minute)
		secondWait, secondErr := second.Reserve(context.Background(), "github", 1, time.Minute)

		// then
		require.NoError(t, firstErr)
		require.NoError(t, secondErr)
		assert.Zero(t, firstWait)
		assert.Positive(t, secondWait)
		assert.True(t, server.Exists("test:github"))
		assert.NoError(t, closeFirst())
		assert.NoError(t, closeSecond())
	})
}
