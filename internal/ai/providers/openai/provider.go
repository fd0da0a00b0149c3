package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/yildizm/glyphloader/internal/ai"
)

// Provider talks to OpenAI-compatible chat completion servers
type Provider struct {
	config  *Config
	client  *goopenai.Client
	healthy bool
	mu      sync.RWMutex
}

// New creates a provider
func New(config *Config) (*Provider, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	clientConfig := goopenai.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = config.BaseURL
	clientConfig.OrgID = config.OrganizationID
	clientConfig.HTTPClient = &http.Client{Timeout: config.Timeout}

	return &Provider{
		config: config,
		client: goopenai.NewClientWithConfig(clientConfig),
	}, nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "openai"
}

// Load confirms the server serves model. OpenAI-compatible servers load
// weights at startup, so there is nothing to download.
func (p *Provider) Load(ctx context.Context, model string, progress ai.ProgressFunc) (ai.Handle, error) {
	if model == "" {
		model = p.config.DefaultModel
	}

	ai.Report(progress, ai.ProgressLoading, 0)

	models, err := p.ListModels(ctx)
	if err != nil {
		return ai.Handle{}, err
	}

	for _, m := range models {
		if m.ID == model {
			ai.Report(progress, ai.ProgressLoading, 100)
			return ai.Handle{Provider: p.Name(), Model: model, LoadedAt: time.Now()}, nil
		}
	}

	return ai.Handle{}, ai.NewProviderError(ai.ErrTypeModelUnavailable, fmt.Sprintf("model %s is not served", model), "openai")
}

// Generate sends prompt as a single user message. TopK is not part of the
// chat completion API and is ignored.
func (p *Provider) Generate(ctx context.Context, h ai.Handle, prompt string, params ai.SamplingParams) (string, error) {
	model := h.Model
	if model == "" {
		model = p.config.DefaultModel
	}

	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   params.MaxNewTokens,
		Temperature: float32(params.Temperature),
	})
	if err != nil {
		return "", p.mapError(ctx, err)
	}

	if len(resp.Choices) == 0 {
		return "", ai.NewProviderError(ai.ErrTypeProvider, "no choices in response", "openai")
	}

	return resp.Choices[0].Message.Content, nil
}

// ListModels returns the models the server reports
func (p *Provider) ListModels(ctx context.Context) ([]ai.Model, error) {
	list, err := p.client.ListModels(ctx)
	if err != nil {
		return nil, p.mapError(ctx, err)
	}

	models := make([]ai.Model, 0, len(list.Models))
	for _, m := range list.Models {
		models = append(models, ai.Model{ID: m.ID, Provider: "openai", OwnedBy: m.OwnedBy})
	}
	return models, nil
}

// ValidateConfig validates the provider configuration
func (p *Provider) ValidateConfig() error {
	return p.config.Validate()
}

// Close releases resources
func (p *Provider) Close() error {
	return nil
}

// HealthCheck verifies the server answers a model listing
func (p *Provider) HealthCheck(ctx context.Context) error {
	_, err := p.ListModels(ctx)
	p.setHealthy(err == nil)
	return err
}

// IsHealthy returns current health status
func (p *Provider) IsHealthy() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.healthy
}

func (p *Provider) setHealthy(healthy bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.healthy = healthy
}

// mapError converts client errors into the provider error taxonomy
func (p *Provider) mapError(ctx context.Context, err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return ai.NewStatusError("openai", apiErr.HTTPStatusCode, apiErr.Message)
	}

	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		pe := ai.NewStatusError("openai", reqErr.HTTPStatusCode, "request failed")
		pe.Cause = reqErr.Err
		return pe
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ai.NewProviderErrorWithCause(ai.ErrTypeTimeout, "request timed out", "openai", err)
	}

	return ai.NewProviderErrorWithCause(ai.ErrTypeNetwork, "request failed", "openai", err)
}
