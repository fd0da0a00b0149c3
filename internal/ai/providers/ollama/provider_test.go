package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yildizm/glyphloader/internal/ai"
)

type mockOllama struct {
	installed   []string
	pullLines   []string
	pullCalls   atomic.Int32
	tagsCalls   atomic.Int32
	mu          sync.Mutex
	lastOptions *Options
	response    string
	status      int
}

func (m *mockOllama) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, r *http.Request) {
		m.tagsCalls.Add(1)
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET method, got '%s'", r.Method)
		}
		resp := TagsResponse{}
		for _, name := range m.installed {
			resp.Models = append(resp.Models, Model{Name: name, Size: 1024})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})

	mux.HandleFunc("/api/pull", func(w http.ResponseWriter, r *http.Request) {
		m.pullCalls.Add(1)
		var req PullRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode pull request: %v", err)
		}
		if !req.Stream {
			t.Error("Expected streaming pull")
		}
		for _, line := range m.pullLines {
			_, _ = fmt.Fprintln(w, line)
		}
	})

	mux.HandleFunc("/api/generate", func(w http.ResponseWriter, r *http.Request) {
		if m.status != 0 {
			w.WriteHeader(m.status)
			_ = json.NewEncoder(w).Encode(ErrorResponse{Error: "model crashed"})
			return
		}
		var req GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if req.Stream {
			t.Error("Expected non-streaming generate")
		}
		m.mu.Lock()
		m.lastOptions = req.Options
		m.mu.Unlock()
		_ = json.NewEncoder(w).Encode(GenerateResponse{
			Model:     req.Model,
			Response:  m.response,
			Done:      true,
			CreatedAt: time.Now(),
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestProvider(t *testing.T, baseURL string) *Provider {
	t.Helper()
	config := DefaultConfig()
	config.BaseURL = baseURL
	provider, err := New(config)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	return provider
}

func TestProvider_New(t *testing.T) {
	provider, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	if provider.Name() != "ollama" {
		t.Errorf("Expected provider name 'ollama', got '%s'", provider.Name())
	}

	bad := DefaultConfig()
	bad.BaseURL = ""
	if _, err := New(bad); !ai.IsConfigurationError(err) {
		t.Errorf("Expected configuration error, got %v", err)
	}
}

func TestProvider_LoadInstalledModel(t *testing.T) {
	mock := &mockOllama{installed: []string{"gpt2:latest"}}
	provider := newTestProvider(t, mock.server(t).URL)

	var events []ai.ProgressEvent
	handle, err := provider.Load(context.Background(), "gpt2", func(e ai.ProgressEvent) { events = append(events, e) })
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if handle.Model != "gpt2" || handle.Provider != "ollama" {
		t.Errorf("Unexpected handle %+v", handle)
	}
	if mock.pullCalls.Load() != 0 {
		t.Error("Expected no pull for an installed model")
	}
	if len(events) != 2 || events[0].Status != ai.ProgressLoading || events[1].Percent != 100 {
		t.Errorf("Expected loading 0 and 100 events, got %+v", events)
	}
}

func TestProvider_LoadPullsMissingModel(t *testing.T) {
	mock := &mockOllama{
		pullLines: []string{
			`{"status":"pulling manifest"}`,
			`{"status":"downloading","digest":"sha256:abc","total":200,"completed":50}`,
			`{"status":"downloading","digest":"sha256:abc","total":200,"completed":50}`,
			`{"status":"downloading","digest":"sha256:abc","total":200,"completed":200}`,
			`{"status":"success"}`,
		},
	}
	provider := newTestProvider(t, mock.server(t).URL)

	var downloads []int
	_, err := provider.Load(context.Background(), "gpt2", func(e ai.ProgressEvent) {
		if e.Status == ai.ProgressDownloading {
			downloads = append(downloads, e.Percent)
		}
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if mock.pullCalls.Load() != 1 {
		t.Errorf("Expected one pull, got %d", mock.pullCalls.Load())
	}
	if len(downloads) != 2 || downloads[0] != 25 || downloads[1] != 100 {
		t.Errorf("Expected download progress [25 100], got %v", downloads)
	}
}

func TestProvider_LoadPullError(t *testing.T) {
	mock := &mockOllama{pullLines: []string{`{"error":"pull model manifest: file does not exist"}`}}
	provider := newTestProvider(t, mock.server(t).URL)

	_, err := provider.Load(context.Background(), "nope", nil)
	if !ai.IsModelUnavailable(err) {
		t.Errorf("Expected model unavailable error, got %v", err)
	}
}

func TestProvider_LoadWithoutAutoPull(t *testing.T) {
	mock := &mockOllama{}
	config := DefaultConfig()
	config.BaseURL = mock.server(t).URL
	config.AutoPull = false
	provider, err := New(config)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := provider.Load(context.Background(), "gpt2", nil); !ai.IsModelUnavailable(err) {
		t.Errorf("Expected model unavailable error, got %v", err)
	}
	if mock.pullCalls.Load() != 0 {
		t.Error("Expected no pull when auto pull is disabled")
	}
}

func TestProvider_Generate(t *testing.T) {
	mock := &mockOllama{response: "finance, markets - trading"}
	provider := newTestProvider(t, mock.server(t).URL)

	text, err := provider.Generate(context.Background(), ai.Handle{Model: "gpt2"}, "Keywords: x", ai.SamplingParams{
		MaxNewTokens: 25,
		Temperature:  0.8,
		TopK:         30,
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if text != "finance, markets - trading" {
		t.Errorf("Unexpected text %q", text)
	}
	mock.mu.Lock()
	opts := mock.lastOptions
	mock.mu.Unlock()
	if opts == nil || opts.NumPredict != 25 || opts.TopK != 30 || opts.Temperature != 0.8 {
		t.Errorf("Unexpected options %+v", opts)
	}
}

func TestProvider_GenerateServerError(t *testing.T) {
	mock := &mockOllama{status: http.StatusInternalServerError}
	provider := newTestProvider(t, mock.server(t).URL)

	_, err := provider.Generate(context.Background(), ai.Handle{Model: "gpt2"}, "prompt", ai.SamplingParams{})
	if err == nil {
		t.Fatal("Expected error")
	}
	var pe *ai.ProviderError
	if !errors.As(err, &pe) || pe.StatusCode != 500 || pe.Message != "model crashed" {
		t.Errorf("Unexpected error %v", err)
	}
}

func TestProvider_HealthCheckAndListModels(t *testing.T) {
	mock := &mockOllama{installed: []string{"gpt2:latest", "qwen2.5:0.5b"}}
	provider := newTestProvider(t, mock.server(t).URL)

	if err := provider.HealthCheck(context.Background()); err != nil {
		t.Fatalf("Health check failed: %v", err)
	}
	if !provider.IsHealthy() {
		t.Error("Expected provider to be healthy")
	}

	models, err := provider.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels failed: %v", err)
	}
	if len(models) != 2 || models[1].ID != "qwen2.5:0.5b" || models[0].Provider != "ollama" {
		t.Errorf("Unexpected models %+v", models)
	}
}

func TestProvider_HealthCheckCached(t *testing.T) {
	mock := &mockOllama{installed: []string{"gpt2:latest"}}
	provider := newTestProvider(t, mock.server(t).URL)

	for i := 0; i < 3; i++ {
		if err := provider.HealthCheck(context.Background()); err != nil {
			t.Fatalf("Health check failed: %v", err)
		}
	}
	if got := mock.tagsCalls.Load(); got != 1 {
		t.Errorf("Expected 1 tags request within the TTL, got %d", got)
	}

	provider.healthMu.Lock()
	provider.lastHealth = time.Now().Add(-2 * healthTTL)
	provider.healthMu.Unlock()

	if err := provider.HealthCheck(context.Background()); err != nil {
		t.Fatalf("Health check failed: %v", err)
	}
	if got := mock.tagsCalls.Load(); got != 2 {
		t.Errorf("Expected stale result to be re-checked, got %d requests", got)
	}
}

func TestProvider_HealthCheckUnreachable(t *testing.T) {
	provider := newTestProvider(t, "http://127.0.0.1:1")

	err := provider.HealthCheck(context.Background())
	if err == nil {
		t.Fatal("Expected error for unreachable server")
	}
	if provider.IsHealthy() {
		t.Error("Expected provider to be unhealthy")
	}
	if !ai.IsRetryableError(err) {
		t.Errorf("Expected network error to be retryable, got %v", err)
	}
}

func TestFactory(t *testing.T) {
	f := NewFactory()
	if f.Type() != "ollama" {
		t.Errorf("Expected type ollama, got %s", f.Type())
	}

	if err := f.ValidateConfig(&ai.ProviderConfig{Type: "openai"}); err == nil {
		t.Error("Expected error for wrong provider type")
	}

	registry := ai.NewRegistry()
	if err := Register(registry); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	p, err := registry.GetWithConfig("ollama", &ai.ProviderConfig{
		BaseURL:      "http://localhost:11434",
		DefaultModel: "tinyllama",
		Options:      map[string]interface{}{"auto_pull": false},
	})
	if err != nil {
		t.Fatalf("GetWithConfig failed: %v", err)
	}
	if p.(*Provider).config.AutoPull {
		t.Error("Expected auto_pull option to be honored")
	}
}
