package cli

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/yildizm/glyphloader/internal/ai"
	"github.com/yildizm/glyphloader/internal/ai/providers/ollama"
	"github.com/yildizm/glyphloader/internal/ai/providers/openai"
	"github.com/yildizm/glyphloader/internal/analyzer"
	"github.com/yildizm/glyphloader/internal/config"
	"github.com/yildizm/glyphloader/internal/logger"
	"github.com/yildizm/glyphloader/internal/page"
)

// newRegistry registers every provider the CLI knows about
func newRegistry() (ai.Registry, error) {
	registry := ai.NewRegistry()
	if err := ollama.Register(registry); err != nil {
		return nil, err
	}
	if err := openai.Register(registry); err != nil {
		return nil, err
	}
	if err := registry.Register(ai.UnavailableName, ai.UnavailableFactory{}); err != nil {
		return nil, err
	}
	return registry, nil
}

// createProvider builds the configured text-generation provider. An empty
// provider name means no model.
func createProvider(registry ai.Registry, cfg *config.ModelConfig) (ai.Provider, error) {
	name := cfg.Provider
	if name == "" {
		name = ai.UnavailableName
	}

	providerConfig := &ai.ProviderConfig{
		Name:         name,
		Type:         name,
		APIKey:       cfg.APIKey,
		BaseURL:      cfg.Endpoint,
		DefaultModel: cfg.Model,
		Timeout:      cfg.InferenceTimeout,
	}
	if name == "openai" && cfg.Endpoint == "" {
		providerConfig.BaseURL = openai.DefaultBaseURL
	}
	if name == ai.UnavailableName {
		providerConfig.Options = map[string]interface{}{"reason": "no model configured"}
	}

	provider, err := registry.GetWithConfig(name, providerConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s provider: %w", name, err)
	}
	return provider, nil
}

// newModelAnalyzer wires a provider into a ModelAnalyzer with the
// configured sampling parameters
func newModelAnalyzer(provider ai.Generator, cfg *config.ModelConfig, log *logger.Logger) *analyzer.ModelAnalyzer {
	opts := analyzer.DefaultOptions()
	opts.Model = cfg.Model
	if cfg.LoadTimeout > 0 {
		opts.LoadTimeout = cfg.LoadTimeout
	}
	if cfg.InferenceTimeout > 0 {
		opts.InferenceTimeout = cfg.InferenceTimeout
	}
	if cfg.MaxNewTokens > 0 {
		opts.Sampling.MaxNewTokens = cfg.MaxNewTokens
	}
	if cfg.Temperature > 0 {
		opts.Sampling.Temperature = cfg.Temperature
	}
	if cfg.TopK > 0 {
		opts.Sampling.TopK = cfg.TopK
	}
	return analyzer.NewModelAnalyzer(provider, opts, log)
}

// openedPage is a page plus what the CLI needs to drive it
type openedPage struct {
	page.Page
	Scroller page.Scroller
	Source   string
}

// openPage opens target as a browser page when it looks like a URL or the
// configuration asks for one, otherwise as an HTML file
func openPage(ctx context.Context, target string, cfg *config.PageConfig, log *logger.Logger) (*openedPage, error) {
	source := cfg.Source
	if target == "" {
		target = cfg.File
		if source == "browser" || target == "" {
			target = cfg.URL
		}
	}
	if target == "" {
		return nil, fmt.Errorf("no page given: pass a file or URL, or set page.file / page.url")
	}
	if isURL(target) {
		source = "browser"
	}

	if source == "browser" {
		p, err := page.OpenBrowser(ctx, page.BrowserOptions{
			URL:          target,
			ControlURL:   cfg.ControlURL,
			Headless:     cfg.IsHeadless(),
			Width:        cfg.ViewportWidth,
			Height:       cfg.ViewportHeight,
			PollInterval: cfg.PollInterval,
			MaxNodes:     cfg.MaxNodes,
		}, log)
		if err != nil {
			return nil, err
		}
		return &openedPage{Page: p, Scroller: p, Source: target}, nil
	}

	if err := validateFilePath(target); err != nil {
		return nil, fmt.Errorf("invalid file path: %w", err)
	}
	layout := page.DefaultLayout(float64(cfg.ViewportWidth))
	if cfg.MaxNodes > 0 {
		layout.MaxNodes = cfg.MaxNodes
	}
	p, err := page.OpenFile(target, page.FileOptions{
		Layout:         layout,
		ViewportHeight: float64(cfg.ViewportHeight),
	}, log)
	if err != nil {
		return nil, err
	}
	return &openedPage{Page: p, Scroller: p, Source: target}, nil
}

func isURL(target string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https" || scheme == "file") && u.Host+u.Path != ""
}
