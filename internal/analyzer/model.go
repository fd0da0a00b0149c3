package analyzer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/yildizm/glyphloader/internal/ai"
	"github.com/yildizm/glyphloader/internal/logger"
)

// ErrModelUnavailable reports that the model could not be loaded in time.
// It is permanent for the analyzer instance.
var ErrModelUnavailable = errors.New("model unavailable")

// ErrLoadInProgress is returned by Load while another load is running
var ErrLoadInProgress = errors.New("model load already in progress")

const (
	// DefaultLoadTimeout bounds model load, download included
	DefaultLoadTimeout = 90 * time.Second

	// DefaultInferenceTimeout bounds a single generation
	DefaultInferenceTimeout = 20 * time.Second
)

// Status is the analyzer lifecycle phase
type Status int

const (
	StatusUnloaded Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusUnloaded:
		return "unloaded"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// State is the analyzer phase plus load progress while loading
type State struct {
	Status   Status `json:"status"`
	Progress int    `json:"progress,omitempty"`
}

func (s State) String() string {
	if s.Status == StatusLoading {
		return fmt.Sprintf("loading(%d%%)", s.Progress)
	}
	return s.Status.String()
}

// Options configures a ModelAnalyzer
type Options struct {
	Model            string
	LoadTimeout      time.Duration
	InferenceTimeout time.Duration
	Sampling         ai.SamplingParams
	PromptChars      int
}

// DefaultOptions returns the standard sampling setup for short concept lists
func DefaultOptions() Options {
	return Options{
		LoadTimeout:      DefaultLoadTimeout,
		InferenceTimeout: DefaultInferenceTimeout,
		Sampling: ai.SamplingParams{
			MaxNewTokens: 25,
			Temperature:  0.8,
			TopK:         30,
		},
		PromptChars: DefaultPromptChars,
	}
}

// ModelAnalyzer extracts concepts with an external text-generation model.
// State moves Unloaded -> Loading -> Ready|Failed and never goes back.
type ModelAnalyzer struct {
	gen  ai.Generator
	opts Options
	log  *logger.Logger

	mu      sync.RWMutex
	state   State
	handle  ai.Handle
	loadErr error
}

// NewModelAnalyzer creates an analyzer over gen
func NewModelAnalyzer(gen ai.Generator, opts Options, log *logger.Logger) *ModelAnalyzer {
	if gen == nil {
		gen = ai.NewUnavailable("")
	}
	defaults := DefaultOptions()
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = defaults.LoadTimeout
	}
	if opts.InferenceTimeout <= 0 {
		opts.InferenceTimeout = defaults.InferenceTimeout
	}
	if opts.Sampling.MaxNewTokens <= 0 {
		opts.Sampling = defaults.Sampling
	}
	if opts.PromptChars <= 0 {
		opts.PromptChars = defaults.PromptChars
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &ModelAnalyzer{
		gen:  gen,
		opts: opts,
		log:  log.WithComponent("analyzer"),
	}
}

// Load races the model load against the load timeout. A nil return means
// Ready. Any failure, timeout included, wraps ErrModelUnavailable and is
// final; the late result of a timed-out load is discarded.
func (m *ModelAnalyzer) Load(ctx context.Context, onProgress ai.ProgressFunc) error {
	m.mu.Lock()
	switch m.state.Status {
	case StatusReady:
		m.mu.Unlock()
		return nil
	case StatusFailed:
		err := m.loadErr
		m.mu.Unlock()
		return err
	case StatusLoading:
		m.mu.Unlock()
		return ErrLoadInProgress
	}
	m.state = State{Status: StatusLoading}
	m.mu.Unlock()

	start := time.Now()
	m.log.Info("Loading model %q via %s", m.opts.Model, m.gen.Name())

	loadCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type loadResult struct {
		handle ai.Handle
		err    error
	}
	done := make(chan loadResult, 1)

	go func() {
		h, err := m.gen.Load(loadCtx, m.opts.Model, func(e ai.ProgressEvent) {
			m.onProgress(e, onProgress)
		})
		done <- loadResult{handle: h, err: err}
	}()

	timer := time.NewTimer(m.opts.LoadTimeout)
	defer timer.Stop()

	var cause error
	select {
	case r := <-done:
		if r.err == nil {
			m.mu.Lock()
			m.state = State{Status: StatusReady}
			m.handle = r.handle
			m.mu.Unlock()
			m.log.InfoWithFields("Model ready", []logger.Field{
				logger.F("model", r.handle.Model),
				logger.Duration(time.Since(start)),
			})
			return nil
		}
		cause = r.err
	case <-timer.C:
		cause = fmt.Errorf("load timed out after %v", m.opts.LoadTimeout)
	case <-ctx.Done():
		cause = ctx.Err()
	}

	err := fmt.Errorf("%w: %w", ErrModelUnavailable, cause)
	m.mu.Lock()
	m.state = State{Status: StatusFailed}
	m.loadErr = err
	m.mu.Unlock()

	m.log.WarnWithFields("Model unavailable, using fallback", []logger.Field{
		logger.Error(cause),
		logger.Duration(time.Since(start)),
	})
	return err
}

// onProgress records and forwards progress while the load is still pending
func (m *ModelAnalyzer) onProgress(e ai.ProgressEvent, forward ai.ProgressFunc) {
	m.mu.Lock()
	if m.state.Status != StatusLoading {
		m.mu.Unlock()
		return
	}
	m.state.Progress = e.Percent
	m.mu.Unlock()

	m.log.Debug("Model %s: %d%%", e.Status, e.Percent)
	if forward != nil {
		forward(e)
	}
}

// ExtractConcepts asks the model for up to max concepts. It returns nil when
// the model is not ready, inference fails, or nothing usable comes back.
func (m *ModelAnalyzer) ExtractConcepts(ctx context.Context, text string, max int) []string {
	m.mu.RLock()
	ready := m.state.Status == StatusReady
	handle := m.handle
	m.mu.RUnlock()

	if !ready {
		return nil
	}

	prompt := NewConceptPattern().WithText(text).WithLimit(m.opts.PromptChars).Build()

	ictx, cancel := context.WithTimeout(ctx, m.opts.InferenceTimeout)
	defer cancel()

	raw, err := m.gen.Generate(ictx, handle, prompt.String(), m.opts.Sampling)
	if err != nil {
		m.log.Warn("Concept extraction failed: %v", err)
		return nil
	}

	concepts := ParseConcepts(raw, max)
	m.log.DebugWithFields("Model output", []logger.Field{
		logger.F("raw", raw),
		logger.F("concepts", concepts),
	})
	if len(concepts) == 0 {
		return nil
	}
	return concepts
}

// State returns the current analyzer state
func (m *ModelAnalyzer) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Ready reports whether concepts can be requested
func (m *ModelAnalyzer) Ready() bool {
	return m.State().Status == StatusReady
}

// Handle returns the loaded model handle, zero until Ready
func (m *ModelAnalyzer) Handle() ai.Handle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.handle
}
