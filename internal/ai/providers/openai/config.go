package openai

import (
	"fmt"
	"net/url"
	"time"

	"github.com/yildizm/glyphloader/internal/ai"
)

const (
	// DefaultBaseURL points at a local OpenAI-compatible server (llama.cpp, LM Studio, vLLM)
	DefaultBaseURL = "http://localhost:8080/v1"
	DefaultModel   = "gpt2"
	DefaultTimeout = 30 * time.Second
)

// Config holds settings for OpenAI-compatible endpoints
type Config struct {
	APIKey         string        `json:"api_key"`
	BaseURL        string        `json:"base_url"`
	DefaultModel   string        `json:"default_model"`
	Timeout        time.Duration `json:"timeout"`
	OrganizationID string        `json:"organization_id,omitempty"`
}

// DefaultConfig returns a configuration for a local server
func DefaultConfig() *Config {
	return &Config{
		BaseURL:      DefaultBaseURL,
		DefaultModel: DefaultModel,
		Timeout:      DefaultTimeout,
	}
}

// Validate validates the configuration. Local servers need no API key.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ai.NewConfigurationError("openai", "base_url", "base URL is required")
	}

	if _, err := url.Parse(c.BaseURL); err != nil {
		return ai.NewConfigurationError("openai", "base_url", fmt.Sprintf("invalid base URL: %v", err))
	}

	if c.DefaultModel == "" {
		return ai.NewConfigurationError("openai", "default_model", "default model is required")
	}

	if c.Timeout <= 0 {
		return ai.NewConfigurationError("openai", "timeout", "timeout must be positive")
	}

	return nil
}

// ToProviderConfig converts to the generic provider config
func (c *Config) ToProviderConfig() *ai.ProviderConfig {
	pc := &ai.ProviderConfig{
		Name:         "openai",
		Type:         "openai",
		APIKey:       c.APIKey,
		BaseURL:      c.BaseURL,
		DefaultModel: c.DefaultModel,
		Timeout:      c.Timeout,
	}
	if c.OrganizationID != "" {
		pc.Options = map[string]interface{}{"organization_id": c.OrganizationID}
	}
	return pc
}

// FromProviderConfig creates a config from the generic provider config
func FromProviderConfig(pc *ai.ProviderConfig) *Config {
	config := DefaultConfig()

	if pc.APIKey != "" {
		config.APIKey = pc.APIKey
	}
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
		if org, ok := pc.Options["organization_id"].(string); ok {
			config.OrganizationID = org
		}
	}

	return config
}
