// Package config handles configuration loading and management for council.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ShayCichocki/council/internal/council"
)

const (
	// EnvPrefix prefixes every environment override, e.g. COUNCIL_AGENT_BINARY.
	EnvPrefix = "COUNCIL"
	// ProjectConfigName is searched for in the working directory and its parents.
	ProjectConfigName = ".council.yaml"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all configuration for council.
type Config struct {
	Council  CouncilSection `mapstructure:"council"`
	Agent    AgentConfig    `mapstructure:"agent"`
	Timeouts TimeoutsConfig `mapstructure:"timeouts"`
	Display  DisplayConfig  `mapstructure:"display"`
	Log      LogConfig      `mapstructure:"log"`
}

// CouncilSection selects the models.
type CouncilSection struct {
	Models   []string `mapstructure:"models"`
	Chairman string   `mapstructure:"chairman"`
}

// AgentConfig describes the external agent CLI.
type AgentConfig struct {
	Binary string `mapstructure:"binary"`
	// ScratchDir is the parent of per-call scratch directories.
	// Empty means the OS temp dir.
	ScratchDir string `mapstructure:"scratch_dir"`
}

// TimeoutsConfig holds per-call time limits.
type TimeoutsConfig struct {
	Model    time.Duration `mapstructure:"model"`
	Chairman time.Duration `mapstructure:"chairman"`
	Status   time.Duration `mapstructure:"status"`
}

// DisplayConfig holds console rendering settings.
type DisplayConfig struct {
	PreviewChars       int  `mapstructure:"preview_chars"`
	ReviewPreviewChars int  `mapstructure:"review_preview_chars"`
	Color              bool `mapstructure:"color"`
}

// LogConfig holds diagnostic logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// File receives log output. Empty means stderr.
	File string `mapstructure:"file"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (COUNCIL_*)
// 2. Project config (.council.yaml in current directory or parent)
// 3. User config (~/.config/council/config.yaml)
// 4. Built-in defaults
// Command-line flags are applied on top by the caller.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading project config %s: %w", projectConfig, err)
		}
		if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	return unmarshal(v)
}

// LoadFromPath loads configuration from one explicit file instead of the
// XDG and project search. Environment variables still apply.
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	return unmarshal(v)
}

// LoadFile reads one config file over the defaults, without environment
// overrides or the project search. A missing file yields Default(). It is
// the starting point for editing a file in place.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

func unmarshal(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.Agent.ScratchDir = os.ExpandEnv(cfg.Agent.ScratchDir)
	cfg.Log.File = os.ExpandEnv(cfg.Log.File)
	return cfg, nil
}

// Save writes the configuration to the user config file.
func Save(cfg *Config) error {
	return SaveTo(cfg, GetUserConfigPath())
}

// SaveTo writes the configuration to path, creating parent directories.
func SaveTo(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)

	v.Set("council.models", cfg.Council.Models)
	v.Set("council.chairman", cfg.Council.Chairman)
	v.Set("agent.binary", cfg.Agent.Binary)
	v.Set("agent.scratch_dir", cfg.Agent.ScratchDir)
	v.Set("timeouts.model", cfg.Timeouts.Model.String())
	v.Set("timeouts.chairman", cfg.Timeouts.Chairman.String())
	v.Set("timeouts.status", cfg.Timeouts.Status.String())
	v.Set("display.preview_chars", cfg.Display.PreviewChars)
	v.Set("display.review_preview_chars", cfg.Display.ReviewPreviewChars)
	v.Set("display.color", cfg.Display.Color)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)
	v.Set("log.file", cfg.Log.File)

	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the nearest .council.yaml in the working
// directory or its parents, or "" if there is none.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// Validate checks the configuration and collapses duplicate council models,
// keeping the first occurrence.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Council.Models))
	models := make([]string, 0, len(c.Council.Models))
	for _, m := range c.Council.Models {
		m = strings.TrimSpace(m)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		models = append(models, m)
	}
	c.Council.Models = models
	c.Council.Chairman = strings.TrimSpace(c.Council.Chairman)

	var problems []string
	if len(models) == 0 {
		problems = append(problems, "council.models must name at least one model")
	}
	if c.Council.Chairman == "" {
		problems = append(problems, "council.chairman must not be empty")
	}
	if strings.TrimSpace(c.Agent.Binary) == "" {
		problems = append(problems, "agent.binary must not be empty")
	}
	for key, d := range map[string]time.Duration{
		"timeouts.model":    c.Timeouts.Model,
		"timeouts.chairman": c.Timeouts.Chairman,
		"timeouts.status":   c.Timeouts.Status,
	} {
		if d <= 0 {
			problems = append(problems, key+" must be positive")
		}
	}
	if c.Display.PreviewChars <= 0 {
		problems = append(problems, "display.preview_chars must be positive")
	}
	if c.Display.ReviewPreviewChars <= 0 {
		problems = append(problems, "display.review_preview_chars must be positive")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("log.format %q is not console or json", c.Log.Format))
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// CouncilConfig derives the orchestrator's configuration.
func (c *Config) CouncilConfig() council.Config {
	return council.Config{
		Models:          append([]string(nil), c.Council.Models...),
		Chairman:        c.Council.Chairman,
		Timeout:         c.Timeouts.Model,
		ChairmanTimeout: c.Timeouts.Chairman,
	}
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("council.models", d.Council.Models)
	v.SetDefault("council.chairman", d.Council.Chairman)

	v.SetDefault("agent.binary", d.Agent.Binary)
	v.SetDefault("agent.scratch_dir", "")

	v.SetDefault("timeouts.model", d.Timeouts.Model.String())
	v.SetDefault("timeouts.chairman", d.Timeouts.Chairman.String())
	v.SetDefault("timeouts.status", d.Timeouts.Status.String())

	v.SetDefault("display.preview_chars", d.Display.PreviewChars)
	v.SetDefault("display.review_preview_chars", d.Display.ReviewPreviewChars)
	v.SetDefault("display.color", d.Display.Color)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", "")
}

// getUserConfigDir returns the XDG config directory for council.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "council")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "council")
	}
	return filepath.Join(home, ".config", "council")
}

// findProjectConfig searches for .council.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ProjectConfigName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Council: CouncilSection{
			Models:   []string{"sonnet-4.5", "gemini-3-pro", "gpt-5.1"},
			Chairman: "sonnet-4.5",
		},
		Agent: AgentConfig{
			Binary: "cursor-agent",
		},
		Timeouts: TimeoutsConfig{
			Model:    council.DefaultTimeout,
			Chairman: council.DefaultChairmanTimeout,
			Status:   10 * time.Second,
		},
		Display: DisplayConfig{
			PreviewChars:       500,
			ReviewPreviewChars: 800,
			Color:              true,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}
