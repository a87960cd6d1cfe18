// Package config provides configuration handling for the recipe engine.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the global configuration surface: everything a recipe run can
// inherit from the environment, overridable per-invocation via CLI flags.
// Of a recipe's Recipe.Settings, only continueOnError overrides a value here.
type Config struct {
	MaxConcurrency          int           `yaml:"max_concurrency"`
	DefaultTimeout          time.Duration `yaml:"default_timeout"`
	DefaultRetries          int           `yaml:"default_retries"`
	ContinueOnError         bool          `yaml:"continue_on_error"`
	EnableParallelExecution bool          `yaml:"enable_parallel_execution"`
	CollectMetrics          bool          `yaml:"collect_metrics"`
	EnableProgressTracking  bool          `yaml:"enable_progress_tracking"`
	MemoryWarningThreshold  int64         `yaml:"memory_warning_threshold"`
	TimeoutSafetyFactor     float64       `yaml:"timeout_safety_factor"`
	RetryBackoffFactor      float64       `yaml:"retry_backoff_factor"`
	WorkingDir              string        `yaml:"working_dir"`
	EnableDebugLogging      bool          `yaml:"enable_debug_logging"`

	AI AIConfig `yaml:"ai"`
}

// AIConfig selects and authenticates the two-phase AI transport.
type AIConfig struct {
	Provider  string `yaml:"provider"` // openai, anthropic, ollama
	Model     string `yaml:"model"`
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	MaxTokens int    `yaml:"max_tokens"`
	Timeout   int    `yaml:"timeout"`
}

// DefaultConfig returns the configuration a recipe run uses when nothing
// overrides it, matching executor.Context's own defaults() fallback.
func DefaultConfig() *Config {
	return &Config{
		MaxConcurrency:          4,
		DefaultTimeout:          5 * time.Minute,
		DefaultRetries:          0,
		ContinueOnError:         false,
		EnableParallelExecution: true,
		CollectMetrics:          true,
		EnableProgressTracking:  true,
		MemoryWarningThreshold:  512 * 1024 * 1024,
		TimeoutSafetyFactor:     1.5,
		RetryBackoffFactor:      2.0,
		WorkingDir:              ".",
		AI: AIConfig{
			Provider:  "openai",
			Model:     "gpt-4o",
			MaxTokens: 4096,
			Timeout:   120,
		},
	}
}

// Load reads configuration from the standard search path, falling back to
// DefaultConfig when nothing is found.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	configPaths := []string{
		".reciper.yml",
		".reciper.yaml",
		filepath.Join(os.Getenv("HOME"), ".config", "reciper", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".reciper.yml"),
	}

	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := cfg.loadFromFile(path); err != nil {
				return nil, err
			}
			break
		}
	}

	cfg.loadFromEnv()
	return cfg, nil
}

// LoadFromFile loads configuration from a specific file.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.loadFromFile(path); err != nil {
		return nil, err
	}
	cfg.loadFromEnv()
	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) loadFromEnv() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && c.AI.Provider == "openai" {
		c.AI.APIKey = key
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" && c.AI.Provider == "anthropic" {
		c.AI.APIKey = key
	}
	if provider := os.Getenv("RECIPER_AI_PROVIDER"); provider != "" {
		c.AI.Provider = provider
	}
	if model := os.Getenv("RECIPER_AI_MODEL"); model != "" {
		c.AI.Model = model
	}
}

// Save writes the configuration to a file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
