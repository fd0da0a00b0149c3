package ai

import (
	"time"
)

// ProgressStatus names the phase a model load is in
type ProgressStatus string

const (
	// ProgressDownloading is reported while model weights are fetched
	ProgressDownloading ProgressStatus = "downloading"

	// ProgressLoading is reported while weights are loaded into memory
	ProgressLoading ProgressStatus = "loading"
)

// ProgressEvent reports model load progress. Consumers use it for status
// display only.
type ProgressEvent struct {
	Status  ProgressStatus `json:"status"`
	Percent int            `json:"percent"`
}

// ProgressFunc receives load progress events
type ProgressFunc func(ProgressEvent)

// Handle identifies a loaded model
type Handle struct {
	// Provider that loaded the model
	Provider string `json:"provider"`

	// Model is the provider-specific model identifier
	Model string `json:"model"`

	// LoadedAt timestamp
	LoadedAt time.Time `json:"loaded_at"`
}

// SamplingParams bounds a generation request
type SamplingParams struct {
	// MaxNewTokens limits the generated length
	MaxNewTokens int `json:"max_new_tokens"`

	// Temperature controls randomness
	Temperature float64 `json:"temperature"`

	// TopK restricts sampling to the K most likely tokens (0 = provider default)
	TopK int `json:"top_k,omitempty"`
}

// ProviderConfig contains configuration for a provider
type ProviderConfig struct {
	// Name is the provider identifier
	Name string `json:"name"`

	// Type is the provider type (ollama, openai, none)
	Type string `json:"type"`

	// APIKey for authentication
	APIKey string `json:"api_key,omitempty"`

	// BaseURL for the API endpoint
	BaseURL string `json:"base_url,omitempty"`

	// DefaultModel is the model loaded when none is specified
	DefaultModel string `json:"default_model,omitempty"`

	// Timeout for individual requests
	Timeout time.Duration `json:"timeout,omitempty"`

	// Custom headers for requests
	Headers map[string]string `json:"headers,omitempty"`

	// Provider-specific options
	Options map[string]interface{} `json:"options,omitempty"`
}

// Model represents a model a provider can serve
type Model struct {
	// ID is the unique identifier for the model
	ID string `json:"id"`

	// Provider is the name of the provider offering this model
	Provider string `json:"provider"`

	// Size in bytes, when known
	Size int64 `json:"size,omitempty"`

	// OwnedBy indicates who owns or maintains the model
	OwnedBy string `json:"owned_by,omitempty"`
}
