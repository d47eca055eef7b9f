//go:build unit

package entities_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/repofetch/internal/domain/entities"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "repofetch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewSettings(t *testing.T) {
	t.Run("should parse every section", func(t *testing.T) {
		// given
		path := writeConfig(t, `
provider:
  type: gitlab
  token: glpat-inline
  base_url: https://gitlab.example.com
scheduler:
  concurrency: 4
  interval_ms: 2000
  requests_per_interval: 20
  retries: 0
exclusions:
  file: .fetchignore
  mode: gitignore
rate_store:
  type: redis
  address: localhost:6379
`)

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "gitlab", settings.Provider.Type)
		assert.Equal(t, "glpat-inline", settings.Provider.Token)
		assert.Equal(t, 4, settings.Scheduler.Concurrency)
		assert.Equal(t, 0, settings.Scheduler.RetriesOr(3))
		assert.Equal(t, "gitlab", settings.Scheduler.ResourceKey)
		assert.Equal(t, ".fetchignore", settings.Exclusions.File)
		assert.Equal(t, entities.ExclusionModeGitignore, settings.Exclusions.Mode)
		assert.Equal(t, "repofetch:rate:", settings.RateStore.KeyPrefix)
	})

	t.Run("should fill defaults for a minimal file", func(t *testing.T) {
		// given
		path := writeConfig(t, "provider:\n  type: github\n  token: ghp_inline\n")

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, 10, settings.Scheduler.Concurrency)
		assert.Equal(t, 1000, settings.Scheduler.IntervalMs)
		assert.Equal(t, 10, settings.Scheduler.RequestsPerInterval)
		assert.Equal(t, 3, settings.Scheduler.RetriesOr(3))
		assert.Equal(t, entities.DefaultIgnoreFile, settings.Exclusions.File)
		assert.Equal(t, entities.RateStoreMemory, settings.RateStore.Type)
	})

	t.Run("should expand environment variables in the token", func(t *testing.T) {
		// given
		t.Setenv("REPOFETCH_TEST_TOKEN", "from-env")
		path := writeConfig(t, "provider:\n  type: github\n  token: ${REPOFETCH_TEST_TOKEN}\n")

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "from-env", settings.Provider.Token)
	})

	t.Run("should read the token from a file", func(t *testing.T) {
		// given
		tokenPath := filepath.Join(t.TempDir(), "token")
		require.NoError(t, os.WriteFile(tokenPath, []byte("from-file\n"), 0o600))
		path := writeConfig(t, "provider:\n  type: github\n  token: "+tokenPath+"\n")

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "from-file", settings.Provider.Token)
	})

	t.Run("should fall back to the conventional token variable", func(t *testing.T) {
		// given
		t.Setenv("GITHUB_TOKEN", "")
		t.Setenv("GH_TOKEN", "gh-cli-token")
		path := writeConfig(t, "provider:\n  type: github\n")

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "gh-cli-token", settings.Provider.Token)
	})

	t.Run("should reject invalid values", func(t *testing.T) {
		cases := map[string]string{
			"negative concurrency": "scheduler:\n  concurrency: -1\n",
			"negative retries":     "scheduler:\n  retries: -1\n",
			"unknown mode":         "exclusions:\n  mode: regex\n",
			"unknown store":        "rate_store:\n  type: etcd\n",
			"redis without addr":   "rate_store:\n  type: redis\n",
			"app without key":      "provider:\n  app_id: 1\n",
		}
		for name, content := range cases {
			// when
			_, err := entities.NewSettings(writeConfig(t, content))

			// then
			assert.Error(t, err, name)
		}
	})

	t.Run("should fail for a missing file", func(t *testing.T) {
		// when
		_, err := entities.NewSettings(filepath.Join(t.TempDir(), "missing.yaml"))

		// then
		assert.ErrorContains(t, err, "failed to read config file")
	})
}

func TestDefaultSettings(t *testing.T) {
	t.Parallel()

	t.Run("should be valid", func(t *testing.T) {
		t.Parallel()

		// when
		settings := entities.DefaultSettings()

		// then
		require.NoError(t, settings.Validate())
		assert.Equal(t, entities.ProviderGitHub, settings.Provider.Type)
		assert.Equal(t, "github", settings.Scheduler.ResourceKey)
	})
}
