// Package config loads and validates docpulse configuration from the
// .docpulse directory: config.json (settings), feeds.toml (tracked feeds)
// and rules.yaml (optional rule overrides).
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DirName is the dot-directory holding all docpulse state
const DirName = ".docpulse"

// TokenEnvVar is the environment variable consulted before config for the
// GitHub bearer token
const TokenEnvVar = "DOCPULSE_GITHUB_TOKEN"

// Config represents the complete docpulse configuration (v1 schema)
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	GitHub   GitHubConfig   `json:"github" mapstructure:"github"`
	Window   WindowConfig   `json:"window" mapstructure:"window"`
	Caps     CapsConfig     `json:"caps" mapstructure:"caps"`
	Grouping GroupingConfig `json:"grouping" mapstructure:"grouping"`
	Noise    NoiseConfig    `json:"noise" mapstructure:"noise"`
	Enricher EnricherConfig `json:"enricher" mapstructure:"enricher"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// GitHubConfig contains source-control API settings
type GitHubConfig struct {
	BaseURL          string `json:"baseUrl" mapstructure:"baseUrl"`
	Token            string `json:"token" mapstructure:"token"`
	PageSize         int    `json:"pageSize" mapstructure:"pageSize"`
	MaxPages         int    `json:"maxPages" mapstructure:"maxPages"`
	DetailDelayMs    int    `json:"detailDelayMs" mapstructure:"detailDelayMs"`
	RequestTimeoutMs int    `json:"requestTimeoutMs" mapstructure:"requestTimeoutMs"`
}

// WindowConfig controls the rolling retention window
type WindowConfig struct {
	Days           int `json:"days" mapstructure:"days"`
	FreshnessHours int `json:"freshnessHours" mapstructure:"freshnessHours"`
}

// CapsConfig holds per-kind retention caps
type CapsConfig struct {
	DocsUpdates int `json:"docsUpdates" mapstructure:"docsUpdates"`
	Releases    int `json:"releases" mapstructure:"releases"`
}

// GroupingConfig holds the thresholds of the fallback grouping heuristic.
// These are deliberately configurable; the defaults have no measured
// precision/recall backing and are subject to product review.
type GroupingConfig struct {
	MinSharedWords int `json:"minSharedWords" mapstructure:"minSharedWords"`
	MinWordLength  int `json:"minWordLength" mapstructure:"minWordLength"`
}

// NoiseConfig holds noise-filter thresholds
type NoiseConfig struct {
	MinChangedLines int `json:"minChangedLines" mapstructure:"minChangedLines"`
}

// EnricherConfig contains summarization provider settings
type EnricherConfig struct {
	Enabled        bool   `json:"enabled" mapstructure:"enabled"`
	Provider       string `json:"provider" mapstructure:"provider"`
	Model          string `json:"model" mapstructure:"model"`
	MaxTokens      int    `json:"maxTokens" mapstructure:"maxTokens"`
	MaxSampleLines int    `json:"maxSampleLines" mapstructure:"maxSampleLines"`
	TimeoutMs      int    `json:"timeoutMs" mapstructure:"timeoutMs"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		GitHub: GitHubConfig{
			BaseURL:          "https://api.github.com",
			PageSize:         100,
			MaxPages:         5,
			DetailDelayMs:    200,
			RequestTimeoutMs: 30000,
		},
		Window: WindowConfig{
			Days:           7,
			FreshnessHours: 12,
		},
		Caps: CapsConfig{
			DocsUpdates: 100,
			Releases:    5,
		},
		Grouping: GroupingConfig{
			MinSharedWords: 2,
			MinWordLength:  4,
		},
		Noise: NoiseConfig{
			MinChangedLines: 3,
		},
		Enricher: EnricherConfig{
			Enabled:        true,
			Provider:       "anthropic",
			Model:          "claude-sonnet-4-5-20250514",
			MaxTokens:      4096,
			MaxSampleLines: 20,
			TimeoutMs:      60000,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from <root>/.docpulse/config.json.
// A missing file yields the defaults.
func LoadConfig(root string) (*Config, error) {
	v := viper.New()

	v.SetDefault("version", 1)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(root, DirName))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to <root>/.docpulse/config.json
func (c *Config) Save(root string) error {
	configPath := filepath.Join(root, DirName, "config.json")

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Window.Days <= 0 {
		return &ConfigError{Field: "window.days", Message: "must be positive"}
	}
	if c.Window.FreshnessHours < 0 {
		return &ConfigError{Field: "window.freshnessHours", Message: "must not be negative"}
	}
	if c.Caps.DocsUpdates <= 0 || c.Caps.Releases <= 0 {
		return &ConfigError{Field: "caps", Message: "caps must be positive"}
	}
	if c.Grouping.MinSharedWords <= 0 {
		return &ConfigError{Field: "grouping.minSharedWords", Message: "must be positive"}
	}
	if c.GitHub.MaxPages <= 0 {
		return &ConfigError{Field: "github.maxPages", Message: "must be positive"}
	}
	return nil
}

// ResolveToken returns the GitHub token from the environment, falling back
// to the config file. An empty result is allowed (public rate limits).
func (c *Config) ResolveToken() string {
	if tok := os.Getenv(TokenEnvVar); tok != "" {
		return tok
	}
	return c.GitHub.Token
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
