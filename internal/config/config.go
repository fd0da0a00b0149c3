package config

import (
	"fmt"
	"time"
)

// Config holds the complete application configuration
type Config struct {
	Version string       `yaml:"version" json:"version"`
	Loader  LoaderConfig `yaml:"loader" json:"loader"`
	Model   ModelConfig  `yaml:"model" json:"model"`
	Page    PageConfig   `yaml:"page" json:"page"`
	Output  OutputConfig `yaml:"output" json:"output"`
}

// LoaderConfig configures the widget: placement, animation and cycle timing
type LoaderConfig struct {
	Container        string        `yaml:"container" json:"container"`
	CanvasID         string        `yaml:"canvas_id" json:"canvas_id"`
	Position         string        `yaml:"position" json:"position"`             // bottom-right|bottom-left|center
	AnimationMode    string        `yaml:"animation_mode" json:"animation_mode"` // float|pulse|rotate
	UpdateInterval   time.Duration `yaml:"update_interval" json:"update_interval"`
	UseFallback      *bool         `yaml:"use_fallback" json:"use_fallback"`
	FallbackIcons    []string      `yaml:"fallback_icons" json:"fallback_icons"`
	FallbackConcepts []string      `yaml:"fallback_concepts" json:"fallback_concepts"`
	ScrollDebounce   time.Duration `yaml:"scroll_debounce" json:"scroll_debounce"`
	MutationDebounce time.Duration `yaml:"mutation_debounce" json:"mutation_debounce"`
	FallbackRotation time.Duration `yaml:"fallback_rotation" json:"fallback_rotation"`
	MaxConcepts      int           `yaml:"max_concepts" json:"max_concepts"`

	// Extra keeps options this version does not recognize
	Extra map[string]interface{} `yaml:",inline" json:"extra,omitempty"`
}

// ModelConfig configures the optional text-generation backend
type ModelConfig struct {
	Provider         string        `yaml:"provider" json:"provider"` // ollama|openai|none
	Model            string        `yaml:"model" json:"model"`
	Endpoint         string        `yaml:"endpoint" json:"endpoint"`
	APIKey           string        `yaml:"api_key" json:"api_key"`
	LoadTimeout      time.Duration `yaml:"load_timeout" json:"load_timeout"`
	InferenceTimeout time.Duration `yaml:"inference_timeout" json:"inference_timeout"`
	MaxNewTokens     int           `yaml:"max_new_tokens" json:"max_new_tokens"`
	Temperature      float64       `yaml:"temperature" json:"temperature"`
	TopK             int           `yaml:"top_k" json:"top_k"`
}

// PageConfig configures where page content comes from
type PageConfig struct {
	Source         string        `yaml:"source" json:"source"` // file|browser
	URL            string        `yaml:"url" json:"url"`
	File           string        `yaml:"file" json:"file"`
	ViewportWidth  int           `yaml:"viewport_width" json:"viewport_width"`
	ViewportHeight int           `yaml:"viewport_height" json:"viewport_height"`
	Headless       *bool         `yaml:"headless" json:"headless"`
	ControlURL     string        `yaml:"control_url" json:"control_url"` // existing browser DevTools endpoint
	PollInterval   time.Duration `yaml:"poll_interval" json:"poll_interval"`
	MaxNodes       int           `yaml:"max_nodes" json:"max_nodes"`
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // json|text|markdown
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Verbose       bool   `yaml:"verbose" json:"verbose"`
	NoEmoji       bool   `yaml:"no_emoji" json:"no_emoji"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Loader: LoaderConfig{
			Container:        "body",
			CanvasID:         "iconCanvas",
			Position:         "bottom-right",
			AnimationMode:    "float",
			UpdateInterval:   5 * time.Second,
			UseFallback:      boolPtr(true),
			FallbackIcons:    []string{"stars", "circle", "auto_awesome"},
			FallbackConcepts: []string{"idea", "concept", "energy"},
			ScrollDebounce:   500 * time.Millisecond,
			MutationDebounce: 1000 * time.Millisecond,
			FallbackRotation: 3 * time.Second,
			MaxConcepts:      5,
			Extra:            make(map[string]interface{}),
		},
		Model: ModelConfig{
			Provider:         "ollama",
			Model:            "gpt2",
			Endpoint:         "http://localhost:11434",
			LoadTimeout:      90 * time.Second,
			InferenceTimeout: 20 * time.Second,
			MaxNewTokens:     25,
			Temperature:      0.8,
			TopK:             30,
		},
		Page: PageConfig{
			Source:         "file",
			ViewportWidth:  1280,
			ViewportHeight: 800,
			Headless:       boolPtr(true),
			PollInterval:   250 * time.Millisecond,
			MaxNodes:       5000,
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
		},
	}
}

// FallbackEnabled reports whether static fallback icons are shown while the
// model is unavailable. Unset means enabled.
func (l LoaderConfig) FallbackEnabled() bool {
	return l.UseFallback == nil || *l.UseFallback
}

// IsHeadless reports whether the browser page runs without a window. Unset means headless.
func (p PageConfig) IsHeadless() bool {
	return p.Headless == nil || *p.Headless
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateLoaderConfig(); err != nil {
		return err
	}
	if err := c.validateModelConfig(); err != nil {
		return err
	}
	if err := c.validatePageConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	return nil
}

// validateLoaderConfig validates widget-related configuration
func (c *Config) validateLoaderConfig() error {
	if c.Loader.Position != "" {
		validPositions := map[string]bool{
			"bottom-right": true,
			"bottom-left":  true,
			"center":       true,
		}
		if !validPositions[c.Loader.Position] {
			return fmt.Errorf("invalid position: %s (must be one of: bottom-right, bottom-left, center)", c.Loader.Position)
		}
	}
	if c.Loader.AnimationMode != "" {
		validModes := map[string]bool{
			"float":  true,
			"pulse":  true,
			"rotate": true,
		}
		if !validModes[c.Loader.AnimationMode] {
			return fmt.Errorf("invalid animation mode: %s (must be one of: float, pulse, rotate)", c.Loader.AnimationMode)
		}
	}
	if c.Loader.UpdateInterval <= 0 {
		return fmt.Errorf("update_interval must be greater than 0")
	}
	if c.Loader.ScrollDebounce < 0 || c.Loader.MutationDebounce < 0 {
		return fmt.Errorf("debounce windows must be non-negative")
	}
	if c.Loader.MaxConcepts < 1 {
		return fmt.Errorf("max_concepts must be greater than 0")
	}
	return nil
}

// validateModelConfig validates model-related configuration
func (c *Config) validateModelConfig() error {
	if c.Model.Provider != "" {
		validProviders := map[string]bool{
			"ollama": true,
			"openai": true,
			"none":   true,
		}
		if !validProviders[c.Model.Provider] {
			return fmt.Errorf("invalid model provider: %s (must be one of: ollama, openai, none)", c.Model.Provider)
		}
	}
	if c.Model.LoadTimeout < 0 {
		return fmt.Errorf("load_timeout must be non-negative")
	}
	if c.Model.InferenceTimeout < 0 {
		return fmt.Errorf("inference_timeout must be non-negative")
	}
	if c.Model.MaxNewTokens < 0 {
		return fmt.Errorf("max_new_tokens must be non-negative")
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	return nil
}

// validatePageConfig validates page-source configuration
func (c *Config) validatePageConfig() error {
	if c.Page.Source != "" {
		validSources := map[string]bool{
			"file":    true,
			"browser": true,
		}
		if !validSources[c.Page.Source] {
			return fmt.Errorf("invalid page source: %s (must be one of: file, browser)", c.Page.Source)
		}
	}
	if c.Page.ViewportHeight < 0 || c.Page.ViewportWidth < 0 {
		return fmt.Errorf("viewport dimensions must be non-negative")
	}
	if c.Page.MaxNodes < 0 {
		return fmt.Errorf("max_nodes must be non-negative")
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json":     true,
			"text":     true,
			"markdown": true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text, markdown)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	return nil
}

func boolPtr(v bool) *bool {
	return &v
}
