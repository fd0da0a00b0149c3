package ai

import (
	"context"
	"io"
)

// Generator is the contract for an external text-generation capability.
// Either call may fail or be slow; callers bound both with contexts.
type Generator interface {
	// Name returns the provider name (e.g., "ollama", "openai", "none")
	Name() string

	// Load makes a model ready for generation, reporting progress as it goes
	Load(ctx context.Context, model string, progress ProgressFunc) (Handle, error)

	// Generate produces text for prompt using a loaded model
	Generate(ctx context.Context, h Handle, prompt string, params SamplingParams) (string, error)
}

// ModelLister is implemented by providers that can enumerate their models
type ModelLister interface {
	ListModels(ctx context.Context) ([]Model, error)
}

// HealthChecker provides health checking capabilities
type HealthChecker interface {
	// HealthCheck verifies provider connectivity and status
	HealthCheck(ctx context.Context) error

	// IsHealthy returns current health status
	IsHealthy() bool
}

// Provider combines all provider capabilities
type Provider interface {
	Generator
	HealthChecker
	io.Closer

	// ValidateConfig validates the provider configuration
	ValidateConfig() error
}

// Report forwards an event to progress when it is set
func Report(progress ProgressFunc, status ProgressStatus, percent int) {
	if progress == nil {
		return
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	progress(ProgressEvent{Status: status, Percent: percent})
}
