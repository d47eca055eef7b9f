package controllers

import (
	"context"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/repofetch/internal/domain/commands"
	"github.com/rios0rios0/repofetch/internal/domain/entities"
)

const defaultBranch = "main"

// loadSettings reads --config (or the first config file found) and applies
// the global flag overrides. Without any config file the defaults are used.
func loadSettings(cmd *cobra.Command) (*entities.Settings, error) {
	configPath, _ := cmd.Flags().GetString("config")
	providerType, _ := cmd.Flags().GetString("provider")
	token, _ := cmd.Flags().GetString("token")
	baseURL, _ := cmd.Flags().GetString("base-url")

	if configPath == "" {
		if found, err := entities.FindConfigFile(); err == nil {
			configPath = found
		}
	}

	var settings *entities.Settings
	if configPath == "" {
		logger.Debug("No config file found, using defaults")
		settings = entities.DefaultSettings()
	} else {
		logger.Debugf("Using config file: %s", configPath)
		loaded, err := entities.NewSettings(configPath)
		if err != nil {
			return nil, err
		}
		settings = loaded
	}

	if providerType = strings.ToLower(providerType); providerType != "" && providerType != settings.Provider.Type {
		if settings.Scheduler.ResourceKey == settings.Provider.Type {
			settings.Scheduler.ResourceKey = providerType
		}
		settings.Provider.Type = providerType
		settings.Provider.Token = entities.ResolveTokenFromEnv(providerType)
	}
	if token != "" {
		settings.Provider.Token = entities.ResolveToken(token)
	}
	if baseURL != "" {
		settings.Provider.BaseURL = baseURL
	}

	return settings, settings.Validate()
}

// addFetchFlags adds the flags shared by fetch and stream.
func addFetchFlags(cmd *cobra.Command, defaultFormat entities.OutputFormat) {
	cmd.Flags().StringP("branch", "b", defaultBranch, "Branch to fetch")
	cmd.Flags().StringP("format", "f", string(defaultFormat), "Output format (json, string, buffer)")
	cmd.Flags().Bool("no-decode", false, "Keep file contents base64 encoded")
	cmd.Flags().Bool("no-exclusions", false, "Do not read the repository ignore file")
	cmd.Flags().StringSliceP("match", "m", nil, "Only fetch paths matching these gitignore-style patterns")
}

// parseFetchOptions reads the owner/repo argument and the fetch flags.
func parseFetchOptions(cmd *cobra.Command, args []string) (commands.FetchOptions, error) {
	if len(args) != 1 {
		return commands.FetchOptions{}, fmt.Errorf("expected exactly one owner/repo argument, got %d", len(args))
	}
	owner, repo, ok := splitRepository(args[0])
	if !ok {
		return commands.FetchOptions{}, fmt.Errorf("invalid repository %q, expected owner/repo", args[0])
	}

	branch, _ := cmd.Flags().GetString("branch")
	rawFormat, _ := cmd.Flags().GetString("format")
	noDecode, _ := cmd.Flags().GetBool("no-decode")
	noExclusions, _ := cmd.Flags().GetBool("no-exclusions")
	match, _ := cmd.Flags().GetStringSlice("match")

	format, err := entities.ParseOutputFormat(rawFormat)
	if err != nil {
		return commands.FetchOptions{}, err
	}

	return commands.FetchOptions{
		Owner:           owner,
		Repo:            repo,
		Branch:          branch,
		Format:          format,
		Decode:          !noDecode,
		ApplyExclusions: !noExclusions,
		Match:           match,
	}, nil
}

// splitRepository splits "owner/repo"; GitLab subgroups keep every segment
// but the last in owner.
func splitRepository(raw string) (string, string, bool) {
	trimmed := strings.Trim(strings.TrimSuffix(strings.TrimSpace(raw), ".git"), "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx <= 0 || idx == len(trimmed)-1 {
		return "", "", false
	}
	return trimmed[:idx], trimmed[idx+1:], true
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
