// Package config loads RequirementsBot runtime settings from an optional
// YAML file with environment overrides on top.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up when no path is given.
const DefaultFile = "requirementsbot.yaml"

// Config holds the resolved runtime settings.
type Config struct {
	// Provider selects the completion backend ("openai" or "mock").
	Provider string `yaml:"provider"`
	// Model is the default model sent upstream when a request names none.
	Model string `yaml:"model"`
	// BaseURL overrides the completion endpoint, e.g. for proxies.
	BaseURL string `yaml:"base_url,omitempty"`
	// Addr is the listen address of the HTTP server.
	Addr string `yaml:"addr"`
	// PromptFile optionally points at a system prompt override watched at runtime.
	PromptFile string `yaml:"prompt_file,omitempty"`

	// Timeout bounds a single upstream call. Stored as a duration string
	// in YAML ("120s", "2m").
	Timeout time.Duration `yaml:"-"`

	// APIKey is the upstream credential. Environment only, never written
	// to or read from the config file.
	APIKey string `yaml:"-"`
}

// fileConfig mirrors Config for (de)serialization with a string timeout.
type fileConfig struct {
	Provider   string `yaml:"provider"`
	Model      string `yaml:"model"`
	BaseURL    string `yaml:"base_url,omitempty"`
	Addr       string `yaml:"addr"`
	PromptFile string `yaml:"prompt_file,omitempty"`
	Timeout    string `yaml:"timeout,omitempty"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Provider: "openai",
		Model:    "gpt-4o",
		Addr:     ":8787",
		Timeout:  120 * time.Second,
	}
}

// Load resolves the configuration: defaults, then the YAML file if present,
// then environment variables. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
		if err := cfg.applyFile(&fc); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyFile(fc *fileConfig) error {
	if fc.Provider != "" {
		c.Provider = fc.Provider
	}
	if fc.Model != "" {
		c.Model = fc.Model
	}
	if fc.BaseURL != "" {
		c.BaseURL = fc.BaseURL
	}
	if fc.Addr != "" {
		c.Addr = fc.Addr
	}
	if fc.PromptFile != "" {
		c.PromptFile = fc.PromptFile
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", fc.Timeout, err)
		}
		c.Timeout = d
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("REQBOT_AI_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("REQBOT_AI_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("REQBOT_AI_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("REQBOT_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("REQBOT_PROMPT_FILE"); v != "" {
		c.PromptFile = v
	}
	if v := os.Getenv("REQBOT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid REQBOT_TIMEOUT %q: %w", v, err)
		}
		c.Timeout = d
	}

	if v := os.Getenv("REQBOT_API_KEY"); v != "" {
		c.APIKey = v
	} else if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.APIKey = v
	}
	return nil
}

// Validate checks that the configuration can actually serve requests.
func (c *Config) Validate() error {
	switch c.Provider {
	case "openai", "":
		if c.APIKey == "" {
			return fmt.Errorf("no API key configured (set REQBOT_API_KEY or OPENAI_API_KEY)")
		}
	case "mock":
		// No credential needed.
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}

// Save writes the configuration to the given path. The API key is never
// written out.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if path == "" {
		path = DefaultFile
	}

	fc := fileConfig{
		Provider:   cfg.Provider,
		Model:      cfg.Model,
		BaseURL:    cfg.BaseURL,
		Addr:       cfg.Addr,
		PromptFile: cfg.PromptFile,
	}
	if cfg.Timeout > 0 {
		fc.Timeout = cfg.Timeout.String()
	}

	data, err := yaml.Marshal(&fc)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}
