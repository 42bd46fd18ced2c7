// Package config holds the atg configuration. The configuration is loaded
// once at process start (YAML file over defaults, then environment
// overrides) and treated as immutable afterwards; components receive the
// resolved *Config through their constructors.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all atg configuration.
type Config struct {
	// LLM configuration
	LLM LLMConfig `yaml:"llm"`

	// Keyword resolution settings
	Keywords KeywordsConfig `yaml:"keywords"`

	// Scaffold output settings
	Scaffold ScaffoldConfig `yaml:"scaffold"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the language-model capability.
type LLMConfig struct {
	Provider    string  `yaml:"provider"` // openai, gemini
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float64 `yaml:"temperature"`
	Timeout     string  `yaml:"timeout"`
}

// KeywordsConfig configures the keyword library and resolver policy.
type KeywordsConfig struct {
	// LibraryPath is the JSON keyword library file. Empty means no
	// persistence: resolutions cannot be durably recorded.
	LibraryPath string `yaml:"library_path"`

	// MinConfidence gates which resolved keywords enter generated files.
	MinConfidence float64 `yaml:"min_confidence"`
}

// ScaffoldConfig configures test-case scaffolding output.
type ScaffoldConfig struct {
	Framework string `yaml:"framework"` // robot, pytest
	OutputDir string `yaml:"output_dir"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       "gpt-4o",
			BaseURL:     "https://api.openai.com/v1",
			Temperature: 0.7,
			Timeout:     "120s",
		},
		Keywords: KeywordsConfig{
			LibraryPath:   "",
			MinConfidence: 0.8,
		},
		Scaffold: ScaffoldConfig{
			Framework: "robot",
			OutputDir: "tests/generated",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides. Provider keys
// are checked in priority order; the last one set wins.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Provider = "openai"
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Provider = "gemini"
	}

	if model := os.Getenv("ATG_MODEL"); model != "" {
		c.LLM.Model = model
	}
	if temp := os.Getenv("ATG_TEMPERATURE"); temp != "" {
		if v, err := strconv.ParseFloat(temp, 64); err == nil {
			c.LLM.Temperature = v
		}
	}
	if fw := os.Getenv("ATG_FRAMEWORK"); fw != "" {
		c.Scaffold.Framework = fw
	}
	if dir := os.Getenv("ATG_OUTPUT_DIR"); dir != "" {
		c.Scaffold.OutputDir = dir
	}
	if path := os.Getenv("ATG_LIBRARY"); path != "" {
		c.Keywords.LibraryPath = path
	}
	if min := os.Getenv("ATG_MIN_CONFIDENCE"); min != "" {
		if v, err := strconv.ParseFloat(min, 64); err == nil {
			c.Keywords.MinConfidence = v
		}
	}
}

// GetLLMTimeout returns the LLM timeout as a duration.
func (c *Config) GetLLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil {
		return 120 * time.Second
	}
	return d
}

// ValidProviders lists all supported LLM providers.
var ValidProviders = []string{"openai", "gemini"}

// ValidFrameworks lists all supported scaffold frameworks.
var ValidFrameworks = []string{"robot", "pytest"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("LLM API key not configured (set OPENAI_API_KEY or GEMINI_API_KEY)")
	}

	validProvider := false
	for _, p := range ValidProviders {
		if c.LLM.Provider == p {
			validProvider = true
			break
		}
	}
	if !validProvider {
		return fmt.Errorf("invalid LLM provider: %s (valid: %v)", c.LLM.Provider, ValidProviders)
	}

	validFramework := false
	for _, f := range ValidFrameworks {
		if c.Scaffold.Framework == f {
			validFramework = true
			break
		}
	}
	if !validFramework {
		return fmt.Errorf("invalid framework: %s (valid: %v)", c.Scaffold.Framework, ValidFrameworks)
	}

	if c.Keywords.MinConfidence < 0 || c.Keywords.MinConfidence > 1 {
		return fmt.Errorf("min_confidence must be in [0,1], got %v", c.Keywords.MinConfidence)
	}

	return nil
}

// DefaultConfigPath returns the default path to .atg/config.yaml.
func DefaultConfigPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return filepath.Join(".atg", "config.yaml")
	}
	return filepath.Join(cwd, ".atg", "config.yaml")
}
