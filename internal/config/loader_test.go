package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	if loader == nil {
		t.Fatal("NewLoader returned nil")
	}
	if len(loader.configPaths) != 3 {
		t.Errorf("Expected 3 config paths, got %d", len(loader.configPaths))
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	loader := NewLoaderWithPaths([]string{filepath.Join(t.TempDir(), "missing.yaml")})

	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load default config: %v", err)
	}

	if cfg.Model.Provider != "ollama" {
		t.Errorf("Expected default model provider ollama, got %s", cfg.Model.Provider)
	}
	if cfg.Loader.ScrollDebounce != 500*time.Millisecond {
		t.Errorf("Expected default scroll debounce 500ms, got %v", cfg.Loader.ScrollDebounce)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test-config.yaml")

	configContent := `version: "1.0"
loader:
  position: bottom-left
  animation_mode: rotate
  update_interval: 10s
  use_fallback: false
  fallback_icons: [star, bolt]
  theme: midnight
model:
  provider: openai
  model: llama-3.2-1b
  endpoint: http://localhost:8080/v1
  load_timeout: 30s
output:
  default_format: json
  verbose: true
`

	if err := os.WriteFile(configPath, []byte(configContent), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	cfg, err := NewLoader().LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config from file: %v", err)
	}

	if cfg.Loader.Position != "bottom-left" {
		t.Errorf("Expected position bottom-left, got %s", cfg.Loader.Position)
	}
	if cfg.Loader.AnimationMode != "rotate" {
		t.Errorf("Expected animation mode rotate, got %s", cfg.Loader.AnimationMode)
	}
	if cfg.Loader.UpdateInterval != 10*time.Second {
		t.Errorf("Expected update interval 10s, got %v", cfg.Loader.UpdateInterval)
	}
	if cfg.Loader.FallbackEnabled() {
		t.Error("Expected use_fallback false")
	}
	if strings.Join(cfg.Loader.FallbackIcons, ",") != "star,bolt" {
		t.Errorf("Expected fallback icons star,bolt, got %v", cfg.Loader.FallbackIcons)
	}
	if cfg.Loader.Extra["theme"] != "midnight" {
		t.Errorf("Expected unrecognized option to pass through, got %v", cfg.Loader.Extra)
	}
	if cfg.Model.Provider != "openai" || cfg.Model.Endpoint != "http://localhost:8080/v1" {
		t.Errorf("Unexpected model config %+v", cfg.Model)
	}
	if cfg.Model.LoadTimeout != 30*time.Second {
		t.Errorf("Expected load timeout 30s, got %v", cfg.Model.LoadTimeout)
	}
	if cfg.Model.TopK != 30 {
		t.Errorf("Expected top_k to keep default 30, got %d", cfg.Model.TopK)
	}
	if cfg.Output.DefaultFormat != "json" || !cfg.Output.Verbose {
		t.Errorf("Unexpected output config %+v", cfg.Output)
	}
}

func TestLoadConfigPriority(t *testing.T) {
	tempDir := t.TempDir()
	project := filepath.Join(tempDir, "project.yaml")
	system := filepath.Join(tempDir, "system.yaml")

	if err := os.WriteFile(system, []byte("loader:\n  position: center\n  max_concepts: 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(project, []byte("loader:\n  position: bottom-left\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewLoaderWithPaths([]string{project, system}).LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Loader.Position != "bottom-left" {
		t.Errorf("Expected project file to win, got %s", cfg.Loader.Position)
	}
	if cfg.Loader.MaxConcepts != 3 {
		t.Errorf("Expected max_concepts 3 from system file, got %d", cfg.Loader.MaxConcepts)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid-config.yaml")

	invalidConfigContent := `loader:
  position: "bottom-left
  animation_mode: float
`

	if err := os.WriteFile(configPath, []byte(invalidConfigContent), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	if _, err := NewLoader().LoadConfig(configPath); err == nil {
		t.Error("Expected error loading invalid YAML config, but got none")
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(configPath, []byte("loader:\n  animation_mode: loop\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := NewLoader().LoadConfig(configPath)
	if err == nil || !strings.Contains(err.Error(), "configuration validation failed") {
		t.Errorf("Expected validation failure, got %v", err)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("GLYPHLOADER_MODEL_PROVIDER", "none")
	t.Setenv("GLYPHLOADER_MODEL_TEMPERATURE", "0.5")
	t.Setenv("GLYPHLOADER_LOADER_USE_FALLBACK", "false")
	t.Setenv("GLYPHLOADER_LOADER_UPDATE_INTERVAL", "2s")
	t.Setenv("GLYPHLOADER_OUTPUT_VERBOSE", "true")
	t.Setenv("GLYPHLOADER_LOADER_FALLBACK_ICONS", "star, bolt ,,circle")

	loader := NewLoader()
	cfg := DefaultConfig()

	if err := loader.applyEnvOverrides(cfg); err != nil {
		t.Fatalf("Failed to apply env overrides: %v", err)
	}

	if cfg.Model.Provider != "none" {
		t.Errorf("Expected provider none, got %s", cfg.Model.Provider)
	}
	if cfg.Model.Temperature != 0.5 {
		t.Errorf("Expected temperature 0.5, got %v", cfg.Model.Temperature)
	}
	if cfg.Loader.FallbackEnabled() {
		t.Error("Expected fallback to be disabled")
	}
	if cfg.Loader.UpdateInterval != 2*time.Second {
		t.Errorf("Expected update interval 2s, got %v", cfg.Loader.UpdateInterval)
	}
	if !cfg.Output.Verbose {
		t.Errorf("Expected verbose to be true")
	}
	expected := []string{"star", "bolt", "circle"}
	if strings.Join(cfg.Loader.FallbackIcons, ",") != strings.Join(expected, ",") {
		t.Errorf("Expected fallback icons %v, got %v", expected, cfg.Loader.FallbackIcons)
	}
}

func TestApplyEnvOverridesInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
	}{
		{"invalid int", "GLYPHLOADER_LOADER_MAX_CONCEPTS", "not-a-number"},
		{"invalid bool", "GLYPHLOADER_OUTPUT_VERBOSE", "not-a-bool"},
		{"invalid duration", "GLYPHLOADER_MODEL_LOAD_TIMEOUT", "not-a-duration"},
		{"invalid float", "GLYPHLOADER_MODEL_TEMPERATURE", "warm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.value)

			if err := NewLoader().applyEnvOverrides(DefaultConfig()); err == nil {
				t.Error("Expected error for invalid env var value, but got none")
			}
		})
	}
}

func TestParseHelpers(t *testing.T) {
	var duration time.Duration
	if err := parseDuration("30s", &duration); err != nil || duration != 30*time.Second {
		t.Errorf("Expected 30s, got %v (%v)", duration, err)
	}
	if err := parseDuration("invalid", &duration); err == nil {
		t.Error("Expected error for invalid duration, but got none")
	}

	var value int
	if err := parseInt("42", &value); err != nil || value != 42 {
		t.Errorf("Expected 42, got %d (%v)", value, err)
	}

	var flag *bool
	if err := parseBoolPtr("false", &flag); err != nil || flag == nil || *flag {
		t.Errorf("Expected explicit false, got %v (%v)", flag, err)
	}
}

func TestMarshalRoundTripKeepsExtra(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Loader.Extra["theme"] = "midnight"

	data, err := Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), "theme: midnight") {
		t.Errorf("Expected extra option in YAML, got:\n%s", data)
	}
	if !strings.Contains(string(data), "animation_mode: float") {
		t.Errorf("Expected animation_mode in YAML, got:\n%s", data)
	}
}

func TestFileExists(t *testing.T) {
	if fileExists("/path/that/does/not/exist") {
		t.Error("Expected file to not exist, but fileExists returned true")
	}

	tempFile := filepath.Join(t.TempDir(), "test-file")
	if err := os.WriteFile(tempFile, []byte("test"), 0o600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	if !fileExists(tempFile) {
		t.Error("Expected file to exist, but fileExists returned false")
	}
}

func TestValidateConfigPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
		errMsg  string
	}{
		{name: "valid yaml file", path: "config.yaml"},
		{name: "valid yml file", path: "config.yml"},
		{name: "path traversal attempt", path: "../../../etc/passwd", wantErr: true, errMsg: "path traversal not allowed"},
		{name: "non-yaml file", path: "config.txt", wantErr: true, errMsg: "config file must have .yaml or .yml extension"},
		{name: "proc filesystem access", path: "/proc/version.yaml", wantErr: true, errMsg: "access to system files not allowed"},
		{name: "relative path with valid extension", path: "./configs/app.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfigPath(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got none")
				} else if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Expected error message to contain '%s', got '%s'", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
