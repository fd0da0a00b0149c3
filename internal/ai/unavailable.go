package ai

import (
	"context"
)

// UnavailableName is the registry name of the always-failing provider
const UnavailableName = "none"

// Unavailable is a Generator that never loads a model. Selecting it runs the
// widget on deterministic extraction only.
type Unavailable struct {
	Reason string
}

// NewUnavailable creates an always-failing provider
func NewUnavailable(reason string) *Unavailable {
	if reason == "" {
		reason = "no model provider configured"
	}
	return &Unavailable{Reason: reason}
}

// Name returns the provider name
func (u *Unavailable) Name() string {
	return UnavailableName
}

// Load always fails
func (u *Unavailable) Load(ctx context.Context, model string, progress ProgressFunc) (Handle, error) {
	return Handle{}, NewProviderError(ErrTypeModelUnavailable, u.Reason, UnavailableName)
}

// Generate always fails
func (u *Unavailable) Generate(ctx context.Context, h Handle, prompt string, params SamplingParams) (string, error) {
	return "", NewProviderError(ErrTypeModelUnavailable, u.Reason, UnavailableName)
}

// HealthCheck always fails
func (u *Unavailable) HealthCheck(ctx context.Context) error {
	return NewProviderError(ErrTypeModelUnavailable, u.Reason, UnavailableName)
}

// IsHealthy returns false
func (u *Unavailable) IsHealthy() bool {
	return false
}

// ValidateConfig accepts any configuration
func (u *Unavailable) ValidateConfig() error {
	return nil
}

// Close is a no-op
func (u *Unavailable) Close() error {
	return nil
}

// UnavailableFactory creates Unavailable providers
type UnavailableFactory struct{}

// Create creates an Unavailable provider
func (UnavailableFactory) Create(config *ProviderConfig) (Provider, error) {
	reason := ""
	if config != nil && config.Options != nil {
		if r, ok := config.Options["reason"].(string); ok {
			reason = r
		}
	}
	return NewUnavailable(reason), nil
}

// Type returns the provider type this factory creates
func (UnavailableFactory) Type() string {
	return UnavailableName
}

// ValidateConfig accepts any configuration
func (UnavailableFactory) ValidateConfig(config *ProviderConfig) error {
	return nil
}

// DefaultConfig returns a default configuration
func (UnavailableFactory) DefaultConfig() *ProviderConfig {
	return &ProviderConfig{Name: UnavailableName, Type: UnavailableName}
}
