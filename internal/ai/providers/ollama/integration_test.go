//go:build integration
// +build integration

package ollama

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/yildizm/glyphloader/internal/ai"
)

// TestOllamaIntegration tests against a real Ollama instance
// Run with: go test -tags=integration
func TestOllamaIntegration(t *testing.T) {
	if os.Getenv("OLLAMA_HOST") == "" && !isOllamaRunning() {
		t.Skip("Ollama not available - skipping integration test")
	}

	config := DefaultConfig()
	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		config.BaseURL = host
	}
	if model := os.Getenv("OLLAMA_MODEL"); model != "" {
		config.DefaultModel = model
	}

	provider, err := New(config)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	defer provider.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	t.Run("HealthCheck", func(t *testing.T) {
		if err := provider.HealthCheck(ctx); err != nil {
			t.Fatalf("Health check failed: %v", err)
		}
		if !provider.IsHealthy() {
			t.Error("Provider should be healthy")
		}
	})

	t.Run("LoadAndGenerate", func(t *testing.T) {
		var events []ai.ProgressEvent
		handle, err := provider.Load(ctx, "", func(e ai.ProgressEvent) { events = append(events, e) })
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		t.Logf("Loaded %s with %d progress events", handle.Model, len(events))

		text, err := provider.Generate(ctx, handle, "Keywords: ocean waves surfing\n\nKey concepts:", ai.SamplingParams{
			MaxNewTokens: 25,
			Temperature:  0.8,
			TopK:         30,
		})
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		t.Logf("Generated: %q", text)
	})
}

// isOllamaRunning checks if Ollama is running on the default port
func isOllamaRunning() bool {
	provider, err := New(DefaultConfig())
	if err != nil {
		return false
	}
	defer provider.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return provider.HealthCheck(ctx) == nil
}
