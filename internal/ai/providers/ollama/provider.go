package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/yildizm/glyphloader/internal/ai"
)

// Provider implements the AI provider interface for Ollama
type Provider struct {
	config     *Config
	client     *http.Client
	baseURL    *url.URL
	healthy    bool
	healthMu   sync.RWMutex
	lastHealth time.Time
}

// New creates a new Ollama provider instance
func New(config *Config) (*Provider, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, ai.NewConfigurationError("ollama", "base_url", "invalid base URL: "+err.Error())
	}

	// request deadlines come from contexts; a client timeout would cut pulls short
	return &Provider{
		config:  config,
		client:  &http.Client{},
		baseURL: baseURL,
	}, nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "ollama"
}

// Load makes model resident: pulls it when missing, then issues an empty
// generate so the server loads the weights.
func (p *Provider) Load(ctx context.Context, model string, progress ai.ProgressFunc) (ai.Handle, error) {
	if model == "" {
		model = p.config.DefaultModel
	}

	available, err := p.IsModelAvailable(ctx, model)
	if err != nil {
		return ai.Handle{}, err
	}

	if !available {
		if !p.config.AutoPull {
			return ai.Handle{}, ai.NewProviderError(ai.ErrTypeModelUnavailable, fmt.Sprintf("model %s is not installed", model), "ollama")
		}
		if err := p.PullModel(ctx, model, progress); err != nil {
			return ai.Handle{}, err
		}
	}

	ai.Report(progress, ai.ProgressLoading, 0)
	if _, err := p.generate(ctx, &GenerateRequest{Model: model, Stream: false}); err != nil {
		return ai.Handle{}, err
	}
	ai.Report(progress, ai.ProgressLoading, 100)

	return ai.Handle{Provider: p.Name(), Model: model, LoadedAt: time.Now()}, nil
}

// Generate runs a single non-streaming completion
func (p *Provider) Generate(ctx context.Context, h ai.Handle, prompt string, params ai.SamplingParams) (string, error) {
	model := h.Model
	if model == "" {
		model = p.config.DefaultModel
	}

	resp, err := p.generate(ctx, &GenerateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: false,
		Options: &Options{
			Temperature: params.Temperature,
			TopK:        params.TopK,
			NumPredict:  params.MaxNewTokens,
		},
	})
	if err != nil {
		return "", err
	}

	return resp.Response, nil
}

// ValidateConfig validates the provider configuration
func (p *Provider) ValidateConfig() error {
	return p.config.Validate()
}

// Close cleans up provider resources
func (p *Provider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}

// healthTTL is how long a successful health check is trusted
const healthTTL = 10 * time.Second

// HealthCheck verifies provider connectivity and status. A success within
// healthTTL is reused without contacting the server.
func (p *Provider) HealthCheck(ctx context.Context) error {
	if p.recentlyHealthy() {
		return nil
	}
	_, err := p.listTags(ctx)
	p.setHealthy(err == nil)
	return err
}

// IsHealthy returns current health status
func (p *Provider) IsHealthy() bool {
	p.healthMu.RLock()
	defer p.healthMu.RUnlock()
	return p.healthy
}

// ListModels returns installed models
func (p *Provider) ListModels(ctx context.Context) ([]ai.Model, error) {
	tags, err := p.listTags(ctx)
	if err != nil {
		return nil, err
	}

	models := make([]ai.Model, 0, len(tags))
	for _, m := range tags {
		models = append(models, ai.Model{ID: m.Name, Provider: "ollama", Size: m.Size})
	}
	return models, nil
}

// IsModelAvailable checks if a model is available locally
func (p *Provider) IsModelAvailable(ctx context.Context, modelName string) (bool, error) {
	models, err := p.listTags(ctx)
	if err != nil {
		return false, err
	}

	for _, model := range models {
		if model.Name == modelName || strings.HasPrefix(model.Name, modelName+":") {
			return true, nil
		}
	}

	return false, nil
}

// PullModel downloads a model, reporting download percentages from the
// streamed status lines.
func (p *Provider) PullModel(ctx context.Context, modelName string, progress ai.ProgressFunc) error {
	ctx, cancel := context.WithTimeout(ctx, p.config.PullTimeout)
	defer cancel()

	resp, err := p.post(ctx, "/api/pull", &PullRequest{Name: modelName, Stream: true})
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	lastPercent := -1
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var status PullResponse
		if err := json.Unmarshal(line, &status); err != nil {
			return ai.NewProviderErrorWithCause(ai.ErrTypeInternal, "failed to decode pull status", "ollama", err)
		}
		if status.Error != "" {
			return ai.NewProviderError(ai.ErrTypeModelUnavailable, status.Error, "ollama")
		}
		if status.Status == "success" {
			return nil
		}
		if status.Total > 0 {
			percent := int(status.Completed * 100 / status.Total)
			if percent != lastPercent {
				lastPercent = percent
				ai.Report(progress, ai.ProgressDownloading, percent)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return p.transportError(ctx, "pull stream interrupted", err)
	}

	return ai.NewProviderError(ai.ErrTypeModelUnavailable, "pull ended without success", "ollama")
}

func (p *Provider) listTags(ctx context.Context) ([]Model, error) {
	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	endpoint := p.baseURL.JoinPath("/api/tags")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), http.NoBody)
	if err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeInternal, "failed to create request", "ollama", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, p.transportError(ctx, "request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, p.statusError(resp)
	}

	var tagsResp TagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tagsResp); err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeInternal, "failed to decode response", "ollama", err)
	}

	return tagsResp.Models, nil
}

// generate performs a single generation request
func (p *Provider) generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	resp, err := p.post(ctx, "/api/generate", req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var result GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeInternal, "failed to decode response", "ollama", err)
	}

	return &result, nil
}

// post sends a JSON body and returns the response when the status is 200
func (p *Provider) post(ctx context.Context, path string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeInternal, "failed to marshal request", "ollama", err)
	}

	endpoint := p.baseURL.JoinPath(path)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(jsonData))
	if err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeInternal, "failed to create request", "ollama", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, p.transportError(ctx, "request failed", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer func() { _ = resp.Body.Close() }()
		return nil, p.statusError(resp)
	}

	return resp, nil
}

func (p *Provider) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	var errorResp ErrorResponse
	if json.Unmarshal(body, &errorResp) == nil && errorResp.Error != "" {
		return ai.NewStatusError("ollama", resp.StatusCode, errorResp.Error)
	}
	return ai.NewStatusError("ollama", resp.StatusCode, fmt.Sprintf("request failed with status %d", resp.StatusCode))
}

func (p *Provider) transportError(ctx context.Context, message string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ai.NewProviderErrorWithCause(ai.ErrTypeTimeout, message, "ollama", err)
	}
	return ai.NewProviderErrorWithCause(ai.ErrTypeNetwork, message, "ollama", err)
}

// setHealthy updates the health status
func (p *Provider) setHealthy(healthy bool) {
	p.healthMu.Lock()
	defer p.healthMu.Unlock()
	p.healthy = healthy
	p.lastHealth = time.Now()
}

func (p *Provider) recentlyHealthy() bool {
	p.healthMu.RLock()
	defer p.healthMu.RUnlock()
	return p.healthy && time.Since(p.lastHealth) < healthTTL
}
