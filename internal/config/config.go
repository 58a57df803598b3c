// Package config handles configuration loading and management for
// Bookwright's validation engine. It supports XDG config paths,
// project-level overrides, environment variables, and explicit
// file-based round-trips in YAML or JSON.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/bookwright/bookwright/internal/validator"
)

// AIConfig holds AI credential and model settings. Presence of a
// credential (API key or Bedrock) selects live mode for the whole
// process.
type AIConfig struct {
	// APIKey is the Anthropic API key.
	APIKey string `mapstructure:"api_key" json:"api_key" yaml:"api_key"`
	// Model is the default model for validation prompts.
	Model string `mapstructure:"model" json:"model" yaml:"model"`
	// UseAWSBedrock selects AWS Bedrock instead of the direct API.
	UseAWSBedrock bool `mapstructure:"use_aws_bedrock" json:"use_aws_bedrock" yaml:"use_aws_bedrock"`
	// AWSRegion is the AWS region for Bedrock.
	AWSRegion string `mapstructure:"aws_region" json:"aws_region" yaml:"aws_region"`
	// AWSProfile is the optional AWS profile for Bedrock.
	AWSProfile string `mapstructure:"aws_profile" json:"aws_profile" yaml:"aws_profile"`
	// RecordingPath is where recorded AI interactions are stored.
	RecordingPath string `mapstructure:"recording_path" json:"recording_path" yaml:"recording_path"`
}

// Config holds all configuration for a validation run.
type Config struct {
	// ProjectID identifies the book project.
	ProjectID string `mapstructure:"project_id" json:"project_id" yaml:"project_id"`
	// ValidationRules holds engine-wide rule settings.
	ValidationRules map[string]any `mapstructure:"validation_rules" json:"validation_rules" yaml:"validation_rules"`
	// QualityThresholds holds named score thresholds, each in [0,100].
	QualityThresholds map[string]float64 `mapstructure:"quality_thresholds" json:"quality_thresholds" yaml:"quality_thresholds"`
	// HumanReviewThreshold is the overall score below which a run is
	// flagged for human review.
	HumanReviewThreshold float64 `mapstructure:"human_review_threshold" json:"human_review_threshold" yaml:"human_review_threshold"`
	// EnabledValidators lists validator IDs to run. Empty enables all
	// registered validators.
	EnabledValidators []string `mapstructure:"enabled_validators" json:"enabled_validators" yaml:"enabled_validators"`
	// ValidatorConfigs maps validator ID to its config block.
	ValidatorConfigs map[string]map[string]any `mapstructure:"validator_configs" json:"validator_configs" yaml:"validator_configs"`
	// ParallelProcessing runs validators concurrently when true.
	ParallelProcessing bool `mapstructure:"parallel_processing" json:"parallel_processing" yaml:"parallel_processing"`
	// MaxParallelRequests bounds concurrent validator executions.
	MaxParallelRequests int `mapstructure:"max_parallel_requests" json:"max_parallel_requests" yaml:"max_parallel_requests"`
	// RequestTimeout is the per-validator timeout in seconds.
	RequestTimeout int `mapstructure:"request_timeout" json:"request_timeout" yaml:"request_timeout"`
	// FailFast aborts remaining validators after the first failure.
	FailFast bool `mapstructure:"fail_fast" json:"fail_fast" yaml:"fail_fast"`
	// OutputFormats lists report formats to produce (terminal, markdown, json).
	OutputFormats []string `mapstructure:"output_formats" json:"output_formats" yaml:"output_formats"`
	// TempDirectory is the workspace for validators needing scratch files.
	TempDirectory string `mapstructure:"temp_directory" json:"temp_directory" yaml:"temp_directory"`
	// CleanupOnCompletion removes the temp directory after a run.
	CleanupOnCompletion bool `mapstructure:"cleanup_on_completion" json:"cleanup_on_completion" yaml:"cleanup_on_completion"`
	// AI holds credential and model settings.
	AI AIConfig `mapstructure:"ai" json:"ai" yaml:"ai"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		ValidationRules:      map[string]any{},
		QualityThresholds:    map[string]float64{},
		HumanReviewThreshold: 70.0,
		EnabledValidators:    []string{},
		ValidatorConfigs:     map[string]map[string]any{},
		ParallelProcessing:   true,
		MaxParallelRequests:  100,
		RequestTimeout:       1200,
		FailFast:             true,
		OutputFormats:        []string{"terminal"},
		CleanupOnCompletion:  true,
		AI: AIConfig{
			Model: "claude-sonnet-4-20250514",
		},
	}
}

// RequestTimeoutDuration converts the configured timeout to a Duration.
func (c *Config) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// Validate checks range constraints. It returns a ConfigurationError
// for the first violation found.
func (c *Config) Validate() error {
	if c.MaxParallelRequests <= 0 {
		return &validator.ConfigurationError{
			Field:  "max_parallel_requests",
			Reason: fmt.Sprintf("must be > 0, got %d", c.MaxParallelRequests),
		}
	}
	if c.RequestTimeout <= 0 {
		return &validator.ConfigurationError{
			Field:  "request_timeout",
			Reason: fmt.Sprintf("must be > 0, got %d", c.RequestTimeout),
		}
	}
	if c.HumanReviewThreshold < 0 || c.HumanReviewThreshold > 100 {
		return &validator.ConfigurationError{
			Field:  "human_review_threshold",
			Reason: fmt.Sprintf("must be in [0,100], got %v", c.HumanReviewThreshold),
		}
	}
	for name, v := range c.QualityThresholds {
		if v < 0 || v > 100 {
			return &validator.ConfigurationError{
				Field:  "quality_thresholds." + name,
				Reason: fmt.Sprintf("must be in [0,100], got %v", v),
			}
		}
	}
	return nil
}

// Load loads configuration from XDG paths, project overrides, and
// environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY)
// 2. Project config (.bookwright.yaml in current directory or parent)
// 3. User config (~/.config/bookwright/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.BindEnv("ai.api_key", "ANTHROPIC_API_KEY")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.AI.APIKey = os.ExpandEnv(cfg.AI.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path via viper,
// applying defaults for unset fields.
func LoadFromPath(path string) (*Config, error) {
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

	cfg.AI.APIKey = os.ExpandEnv(cfg.AI.APIKey)

	return cfg, nil
}

// LoadFile reads a config file as an exact document, with the format
// selected by extension (.json, .yaml, .yml). Unlike Load it applies no
// layering; it is the inverse of SaveFile.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &validator.ResourceError{Path: path, Err: err}
	}

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, &validator.ConfigurationError{Field: path, Reason: "invalid JSON", Err: err}
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, &validator.ConfigurationError{Field: path, Reason: "invalid YAML", Err: err}
		}
	default:
		return nil, &validator.ConfigurationError{
			Field:  path,
			Reason: fmt.Sprintf("unsupported config extension %q (want .json, .yaml, or .yml)", filepath.Ext(path)),
		}
	}

	return cfg, nil
}

// SaveFile writes a config file, with the format selected by extension.
// A SaveFile/LoadFile round-trip is lossless for every documented
// field.
func SaveFile(cfg *Config, path string) error {
	var (
		data []byte
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(cfg, "", "  ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	default:
		return &validator.ConfigurationError{
			Field:  path,
			Reason: fmt.Sprintf("unsupported config extension %q (want .json, .yaml, or .yml)", filepath.Ext(path)),
		}
	}
	if err != nil {
		return &validator.ConfigurationError{Field: path, Reason: "encoding config", Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &validator.ResourceError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &validator.ResourceError{Path: path, Err: err}
	}
	return nil
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	def := Default()

	v.SetDefault("project_id", "")
	v.SetDefault("validation_rules", map[string]any{})
	v.SetDefault("quality_thresholds", map[string]float64{})
	v.SetDefault("human_review_threshold", def.HumanReviewThreshold)
	v.SetDefault("enabled_validators", []string{})
	v.SetDefault("validator_configs", map[string]map[string]any{})
	v.SetDefault("parallel_processing", def.ParallelProcessing)
	v.SetDefault("max_parallel_requests", def.MaxParallelRequests)
	v.SetDefault("request_timeout", def.RequestTimeout)
	v.SetDefault("fail_fast", def.FailFast)
	v.SetDefault("output_formats", def.OutputFormats)
	v.SetDefault("temp_directory", "")
	v.SetDefault("cleanup_on_completion", def.CleanupOnCompletion)
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.model", def.AI.Model)
	v.SetDefault("ai.use_aws_bedrock", false)
	v.SetDefault("ai.aws_region", "")
	v.SetDefault("ai.aws_profile", "")
	v.SetDefault("ai.recording_path", "")
}

// getUserConfigDir returns the XDG config directory for Bookwright.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "bookwright")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "bookwright")
	}
	return filepath.Join(home, ".config", "bookwright")
}

// findProjectConfig searches for .bookwright.yaml in the current
// directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".bookwright.yaml")
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
