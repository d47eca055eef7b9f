package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	ProviderGitHub = "github"
	ProviderGitLab = "gitlab"

	RateStoreMemory = "memory"
	RateStoreRedis  = "redis"

	DefaultIgnoreFile = ".gitignore"
)

// Settings is the top-level configuration for repofetch.
type Settings struct {
	Provider   ProviderSettings  `yaml:"provider"`
	Scheduler  SchedulerSettings `yaml:"scheduler"`
	Exclusions ExclusionSettings `yaml:"exclusions"`
	RateStore  RateStoreSettings `yaml:"rate_store"`
}

// ProviderSettings describes the Git hosting provider to fetch from.
type ProviderSettings struct {
	Type           string `yaml:"type"`     // "github", "gitlab"
	Token          string `yaml:"token"`    // Inline, ${ENV_VAR}, or file path
	BaseURL        string `yaml:"base_url"` // Enterprise / self-managed API root
	AppID          int64  `yaml:"app_id"`
	InstallationID int64  `yaml:"installation_id"`
	PrivateKeyPath string `yaml:"private_key_path"`
}

// SchedulerSettings mirrors scheduler.Config in file form. Zero values fall
// back to defaults; Retries is a pointer so that an explicit 0 is kept.
type SchedulerSettings struct {
	Concurrency         int    `yaml:"concurrency"`
	IntervalMs          int    `yaml:"interval_ms"`
	RequestsPerInterval int    `yaml:"requests_per_interval"`
	Retries             *int   `yaml:"retries"`
	InitialBackoffMs    int    `yaml:"initial_backoff_ms"`
	MaxBackoffMs        int    `yaml:"max_backoff_ms"`
	ResourceKey         string `yaml:"resource_key"`
}

// ExclusionSettings selects the ignore file and how its lines are matched.
type ExclusionSettings struct {
	File string        `yaml:"file"`
	Mode ExclusionMode `yaml:"mode"`
}

// RateStoreSettings selects where the sliding start log lives.
type RateStoreSettings struct {
	Type      string `yaml:"type"` // "memory", "redis"
	Address   string `yaml:"address"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// DefaultSettings returns the settings used when no config file exists.
func DefaultSettings() *Settings {
	settings := &Settings{
		Provider:  ProviderSettings{Type: ProviderGitHub},
		RateStore: RateStoreSettings{Type: RateStoreMemory},
	}
	settings.applyDefaults()
	return settings
}

// NewSettings reads and parses a configuration file, expanding environment
// variables and resolving token file paths.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var settings Settings
	if unmarshalErr := yaml.Unmarshal(data, &settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	settings.Provider.Token = ResolveToken(settings.Provider.Token)
	settings.RateStore.Password = ResolveToken(settings.RateStore.Password)
	settings.applyDefaults()

	if validateErr := settings.Validate(); validateErr != nil {
		return nil, validateErr
	}

	return &settings, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".repofetch.yaml",
		".repofetch.yml",
		"repofetch.yaml",
		"repofetch.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// ResolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func ResolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	if info, statErr := os.Stat(resolved); statErr == nil && !info.IsDir() {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Debugf("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

// ResolveTokenFromEnv returns the conventional token variable for a provider.
func ResolveTokenFromEnv(providerType string) string {
	var names []string
	switch providerType {
	case ProviderGitHub:
		names = []string{"GITHUB_TOKEN", "GH_TOKEN"}
	case ProviderGitLab:
		names = []string{"GITLAB_TOKEN"}
	}

	for _, name := range names {
		if val := os.Getenv(name); val != "" {
			return val
		}
	}
	return ""
}

// Validate checks the settings after defaults were applied.
func (s *Settings) Validate() error {
	if s.Provider.Type == "" {
		return errors.New("provider.type is required")
	}
	if s.Provider.AppID != 0 && (s.Provider.InstallationID == 0 || s.Provider.PrivateKeyPath == "") {
		return errors.New("provider.installation_id and provider.private_key_path are required with provider.app_id")
	}

	sched := s.Scheduler
	if sched.Concurrency <= 0 {
		return fmt.Errorf("scheduler.concurrency must be positive, got %d", sched.Concurrency)
	}
	if sched.IntervalMs <= 0 {
		return fmt.Errorf("scheduler.interval_ms must be positive, got %d", sched.IntervalMs)
	}
	if sched.RequestsPerInterval <= 0 {
		return fmt.Errorf(
			"scheduler.requests_per_interval must be positive, got %d",
			sched.RequestsPerInterval,
		)
	}
	if sched.Retries != nil && *sched.Retries < 0 {
		return fmt.Errorf("scheduler.retries must not be negative, got %d", *sched.Retries)
	}

	if _, err := ParseExclusionMode(string(s.Exclusions.Mode)); err != nil {
		return fmt.Errorf("exclusions.mode: %w", err)
	}

	switch s.RateStore.Type {
	case RateStoreMemory:
	case RateStoreRedis:
		if s.RateStore.Address == "" {
			return errors.New("rate_store.address is required for the redis store")
		}
	default:
		return fmt.Errorf("rate_store.type %q is not supported", s.RateStore.Type)
	}

	return nil
}

// RetriesOr returns the configured retry count or fallback when unset.
func (s SchedulerSettings) RetriesOr(fallback int) int {
	if s.Retries == nil {
		return fallback
	}
	return *s.Retries
}

// Interval returns the rate window as a duration.
func (s SchedulerSettings) Interval() time.Duration {
	return time.Duration(s.IntervalMs) * time.Millisecond
}

// InitialBackoff returns the first retry delay, zero when unset.
func (s SchedulerSettings) InitialBackoff() time.Duration {
	return time.Duration(s.InitialBackoffMs) * time.Millisecond
}

// MaxBackoff returns the retry delay cap, zero when unset.
func (s SchedulerSettings) MaxBackoff() time.Duration {
	return time.Duration(s.MaxBackoffMs) * time.Millisecond
}

// applyDefaults fills zero values; an explicit negative value is left for
// Validate to reject.
func (s *Settings) applyDefaults() {
	if s.Provider.Type == "" {
		s.Provider.Type = ProviderGitHub
	}
	s.Provider.Type = strings.ToLower(s.Provider.Type)
	if s.Provider.Token == "" {
		s.Provider.Token = ResolveTokenFromEnv(s.Provider.Type)
	}

	if s.Scheduler.Concurrency == 0 {
		s.Scheduler.Concurrency = 10
	}
	if s.Scheduler.IntervalMs == 0 {
		s.Scheduler.IntervalMs = 1000
	}
	if s.Scheduler.RequestsPerInterval == 0 {
		s.Scheduler.RequestsPerInterval = 10
	}
	if s.Scheduler.ResourceKey == "" {
		s.Scheduler.ResourceKey = s.Provider.Type
	}

	if s.Exclusions.File == "" {
		s.Exclusions.File = DefaultIgnoreFile
	}
	if s.Exclusions.Mode == "" {
		s.Exclusions.Mode = ExclusionModeExact
	}

	if s.RateStore.Type == "" {
		s.RateStore.Type = RateStoreMemory
	}
	if s.RateStore.KeyPrefix == "" {
		s.RateStore.KeyPrefix = "repofetch:rate:"
	}
}
