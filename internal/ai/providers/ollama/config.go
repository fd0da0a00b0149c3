package ollama

import (
	"net/url"
	"time"

	"github.com/yildizm/glyphloader/internal/ai"
)

// Config holds Ollama-specific configuration
type Config struct {
	// BaseURL is the Ollama API endpoint
	BaseURL string `json:"base_url"`

	// DefaultModel is loaded when Load is called without a model name
	DefaultModel string `json:"default_model"`

	// Timeout for short requests (tags, generate)
	Timeout time.Duration `json:"timeout"`

	// PullTimeout for model pull operations
	PullTimeout time.Duration `json:"pull_timeout"`

	// AutoPull downloads missing models during Load
	AutoPull bool `json:"auto_pull"`
}

// DefaultConfig returns a default Ollama configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:      "http://localhost:11434",
		DefaultModel: "gpt2",
		Timeout:      30 * time.Second,
		PullTimeout:  10 * time.Minute,
		AutoPull:     true,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ai.NewConfigurationError("ollama", "base_url", "base URL is required")
	}

	if _, err := url.Parse(c.BaseURL); err != nil {
		return ai.NewConfigurationError("ollama", "base_url", "invalid base URL: "+err.Error())
	}

	if c.DefaultModel == "" {
		return ai.NewConfigurationError("ollama", "default_model", "default model is required")
	}

	if c.Timeout <= 0 {
		return ai.NewConfigurationError("ollama", "timeout", "timeout must be positive")
	}

	if c.PullTimeout <= 0 {
		return ai.NewConfigurationError("ollama", "pull_timeout", "pull timeout must be positive")
	}

	return nil
}

// ToProviderConfig converts Ollama config to generic provider config
func (c *Config) ToProviderConfig() *ai.ProviderConfig {
	return &ai.ProviderConfig{
		Name:         "ollama",
		Type:         "ollama",
		BaseURL:      c.BaseURL,
		DefaultModel: c.DefaultModel,
		Timeout:      c.Timeout,
		Options: map[string]interface{}{
			"pull_timeout": c.PullTimeout,
			"auto_pull":    c.AutoPull,
		},
	}
}

// FromProviderConfig creates Ollama config from generic provider config
func FromProviderConfig(pc *ai.ProviderConfig) *Config {
	config := DefaultConfig()

	if pc.BaseURL != "" {
		config.BaseURL = pc.BaseURL
	}

	if pc.DefaultModel != "" {
		config.DefaultModel = pc.DefaultModel
	}

	if pc.Timeout > 0 {
		config.Timeout = pc.Timeout
	}

	if pc.Options != nil {
		if pullTimeout, ok := pc.Options["pull_timeout"].(time.Duration); ok {
			config.PullTimeout = pullTimeout
		}
		if autoPull, ok := pc.Options["auto_pull"].(bool); ok {
			config.AutoPull = autoPull
		}
	}

	return config
}
