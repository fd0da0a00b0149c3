package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.glyphloader.yaml",               // Project-specific config (highest priority)
	"~/.config/glyphloader/config.yaml", // User config
	"/etc/glyphloader/config.yaml",      // System config (lowest priority)
}

// EnvPrefix prefixes every environment override
const EnvPrefix = "GLYPHLOADER_"

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
	}
}

// NewLoaderWithPaths creates a loader searching the given paths (highest priority first)
func NewLoaderWithPaths(paths []string) *Loader {
	return &Loader{configPaths: paths}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables
// 3. ./.glyphloader.yaml
// 4. ~/.config/glyphloader/config.yaml
// 5. /etc/glyphloader/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// lowest priority first so later files win
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			expandedPath := expandPath(l.configPaths[i])
			if !fileExists(expandedPath) {
				continue
			}
			if err := l.loadFromFile(config, expandedPath); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to load config from %s: %v\n", expandedPath, err)
			}
		}
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile loads configuration from a YAML file and merges it with existing config
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() or comes from ConfigPaths
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var fileConfig Config
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	mergeConfigs(config, &fileConfig)
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		// Loader Config
		"LOADER_CONTAINER":         func(v string) error { config.Loader.Container = v; return nil },
		"LOADER_CANVAS_ID":         func(v string) error { config.Loader.CanvasID = v; return nil },
		"LOADER_POSITION":          func(v string) error { config.Loader.Position = v; return nil },
		"LOADER_ANIMATION_MODE":    func(v string) error { config.Loader.AnimationMode = v; return nil },
		"LOADER_UPDATE_INTERVAL":   func(v string) error { return parseDuration(v, &config.Loader.UpdateInterval) },
		"LOADER_USE_FALLBACK":      func(v string) error { return parseBoolPtr(v, &config.Loader.UseFallback) },
		"LOADER_SCROLL_DEBOUNCE":   func(v string) error { return parseDuration(v, &config.Loader.ScrollDebounce) },
		"LOADER_MUTATION_DEBOUNCE": func(v string) error { return parseDuration(v, &config.Loader.MutationDebounce) },
		"LOADER_MAX_CONCEPTS":      func(v string) error { return parseInt(v, &config.Loader.MaxConcepts) },

		// Model Config
		"MODEL_PROVIDER":          func(v string) error { config.Model.Provider = v; return nil },
		"MODEL_MODEL":             func(v string) error { config.Model.Model = v; return nil },
		"MODEL_ENDPOINT":          func(v string) error { config.Model.Endpoint = v; return nil },
		"MODEL_API_KEY":           func(v string) error { config.Model.APIKey = v; return nil },
		"MODEL_LOAD_TIMEOUT":      func(v string) error { return parseDuration(v, &config.Model.LoadTimeout) },
		"MODEL_INFERENCE_TIMEOUT": func(v string) error { return parseDuration(v, &config.Model.InferenceTimeout) },
		"MODEL_MAX_NEW_TOKENS":    func(v string) error { return parseInt(v, &config.Model.MaxNewTokens) },
		"MODEL_TEMPERATURE":       func(v string) error { return parseFloat(v, &config.Model.Temperature) },
		"MODEL_TOP_K":             func(v string) error { return parseInt(v, &config.Model.TopK) },

		// Page Config
		"PAGE_SOURCE":          func(v string) error { config.Page.Source = v; return nil },
		"PAGE_URL":             func(v string) error { config.Page.URL = v; return nil },
		"PAGE_FILE":            func(v string) error { config.Page.File = v; return nil },
		"PAGE_CONTROL_URL":     func(v string) error { config.Page.ControlURL = v; return nil },
		"PAGE_HEADLESS":        func(v string) error { return parseBoolPtr(v, &config.Page.Headless) },
		"PAGE_VIEWPORT_HEIGHT": func(v string) error { return parseInt(v, &config.Page.ViewportHeight) },
		"PAGE_VIEWPORT_WIDTH":  func(v string) error { return parseInt(v, &config.Page.ViewportWidth) },

		// Output Config
		"OUTPUT_DEFAULT_FORMAT": func(v string) error { config.Output.DefaultFormat = v; return nil },
		"OUTPUT_COLOR_MODE":     func(v string) error { config.Output.ColorMode = v; return nil },
		"OUTPUT_VERBOSE":        func(v string) error { return parseBool(v, &config.Output.Verbose) },
		"OUTPUT_NO_EMOJI":       func(v string) error { return parseBool(v, &config.Output.NoEmoji) },
	}

	for key, setter := range envMappings {
		envVar := EnvPrefix + key
		if value := os.Getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	// comma-separated lists
	if icons := os.Getenv(EnvPrefix + "LOADER_FALLBACK_ICONS"); icons != "" {
		config.Loader.FallbackIcons = splitList(icons)
	}
	if concepts := os.Getenv(EnvPrefix + "LOADER_FALLBACK_CONCEPTS"); concepts != "" {
		config.Loader.FallbackConcepts = splitList(concepts)
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := expandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// Marshal renders the configuration as YAML
func Marshal(config *Config) ([]byte, error) {
	return yaml.Marshal(config)
}

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/proc/") || strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// mergeConfigs merges source config into destination config.
// Only non-zero values from source overwrite destination.
func mergeConfigs(dst, src *Config) {
	if src.Version != "" {
		dst.Version = src.Version
	}

	mergeLoaderConfig(&dst.Loader, &src.Loader)
	mergeModelConfig(&dst.Model, &src.Model)
	mergePageConfig(&dst.Page, &src.Page)
	mergeOutputConfig(&dst.Output, &src.Output)
}

func mergeLoaderConfig(dst, src *LoaderConfig) {
	mergeString(&dst.Container, src.Container)
	mergeString(&dst.CanvasID, src.CanvasID)
	mergeString(&dst.Position, src.Position)
	mergeString(&dst.AnimationMode, src.AnimationMode)
	mergeDuration(&dst.UpdateInterval, src.UpdateInterval)
	mergeDuration(&dst.ScrollDebounce, src.ScrollDebounce)
	mergeDuration(&dst.MutationDebounce, src.MutationDebounce)
	mergeDuration(&dst.FallbackRotation, src.FallbackRotation)
	if src.UseFallback != nil {
		dst.UseFallback = boolPtr(*src.UseFallback)
	}
	if len(src.FallbackIcons) > 0 {
		dst.FallbackIcons = src.FallbackIcons
	}
	if len(src.FallbackConcepts) > 0 {
		dst.FallbackConcepts = src.FallbackConcepts
	}
	if src.MaxConcepts != 0 {
		dst.MaxConcepts = src.MaxConcepts
	}
	if len(src.Extra) > 0 {
		if dst.Extra == nil {
			dst.Extra = make(map[string]interface{})
		}
		for k, v := range src.Extra {
			dst.Extra[k] = v
		}
	}
}

func mergeModelConfig(dst, src *ModelConfig) {
	mergeString(&dst.Provider, src.Provider)
	mergeString(&dst.Model, src.Model)
	mergeString(&dst.Endpoint, src.Endpoint)
	mergeString(&dst.APIKey, src.APIKey)
	mergeDuration(&dst.LoadTimeout, src.LoadTimeout)
	mergeDuration(&dst.InferenceTimeout, src.InferenceTimeout)
	if src.MaxNewTokens != 0 {
		dst.MaxNewTokens = src.MaxNewTokens
	}
	if src.Temperature != 0 {
		dst.Temperature = src.Temperature
	}
	if src.TopK != 0 {
		dst.TopK = src.TopK
	}
}

func mergePageConfig(dst, src *PageConfig) {
	mergeString(&dst.Source, src.Source)
	mergeString(&dst.URL, src.URL)
	mergeString(&dst.File, src.File)
	mergeString(&dst.ControlURL, src.ControlURL)
	mergeDuration(&dst.PollInterval, src.PollInterval)
	if src.ViewportWidth != 0 {
		dst.ViewportWidth = src.ViewportWidth
	}
	if src.ViewportHeight != 0 {
		dst.ViewportHeight = src.ViewportHeight
	}
	if src.MaxNodes != 0 {
		dst.MaxNodes = src.MaxNodes
	}
	if src.Headless != nil {
		dst.Headless = boolPtr(*src.Headless)
	}
}

func mergeOutputConfig(dst, src *OutputConfig) {
	mergeString(&dst.DefaultFormat, src.DefaultFormat)
	mergeString(&dst.ColorMode, src.ColorMode)
	// booleans can only be switched on from a file; env vars switch them off
	if src.Verbose {
		dst.Verbose = true
	}
	if src.NoEmoji {
		dst.NoEmoji = true
	}
}

func mergeString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func mergeDuration(dst *time.Duration, src time.Duration) {
	if src != 0 {
		*dst = src
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Type conversion helpers

func parseInt(s string, dst *int) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseFloat(s string, dst *float64) error {
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBoolPtr(s string, dst **bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = &val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
