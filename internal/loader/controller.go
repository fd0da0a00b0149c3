// Package loader drives the widget lifecycle: it samples the page, resolves
// icons and feeds the animator, triggered by a periodic timer, debounced
// page events, visibility changes and manual requests.
package loader

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/yildizm/glyphloader/internal/ai"
	"github.com/yildizm/glyphloader/internal/animator"
	"github.com/yildizm/glyphloader/internal/catalog"
	"github.com/yildizm/glyphloader/internal/config"
	"github.com/yildizm/glyphloader/internal/keywords"
	"github.com/yildizm/glyphloader/internal/logger"
	"github.com/yildizm/glyphloader/internal/page"
	"github.com/yildizm/glyphloader/internal/resolver"
	"github.com/yildizm/glyphloader/internal/sampler"
)

var (
	// ErrInitialization is the only error that leaves the controller
	ErrInitialization = errors.New("initialization failed")

	// ErrAnalysisEmpty marks a cycle skipped for lack of content
	ErrAnalysisEmpty = errors.New("insufficient content")
)

// MinContentLength is the shortest sample worth resolving
const MinContentLength = 50

// Model is the optional generative concept source
type Model interface {
	resolver.ConceptModel
	Load(ctx context.Context, onProgress ai.ProgressFunc) error
}

// Deps are the collaborators a controller drives. Page and Surface are
// required; everything else has a default.
type Deps struct {
	Page     page.Page
	Surface  animator.Surface
	Model    Model
	Keywords resolver.KeywordSource
	Catalog  *catalog.Catalog
	Sampler  *sampler.Sampler
	Status   StatusSink
	Rand     *rand.Rand
	// FrameInterval overrides the animator refresh rate
	FrameInterval time.Duration
}

// Stats counts what the controller did
type Stats struct {
	Cycles        int             `json:"cycles"`
	Coalesced     int             `json:"coalesced"`
	SkippedEmpty  int             `json:"skipped_empty"`
	SkippedHidden int             `json:"skipped_hidden"`
	Failed        int             `json:"failed"`
	Rotations     int             `json:"rotations"`
	LastSource    resolver.Source `json:"last_source,omitempty"`
	LastCycle     time.Time       `json:"last_cycle,omitempty"`
	FallbackMode  bool            `json:"fallback_mode"`
}

type trigger string

const (
	triggerInit       trigger = "init"
	triggerPeriodic   trigger = "periodic"
	triggerScroll     trigger = "scroll"
	triggerMutation   trigger = "mutation"
	triggerVisibility trigger = "visibility"
	triggerModel      trigger = "model_ready"
)

// Controller owns the icon set and the pause state of one widget instance
type Controller struct {
	cfg  config.LoaderConfig
	deps Deps
	log  *logger.Logger

	resolver *resolver.Resolver
	sampler  *sampler.Sampler
	animator *animator.Animator
	status   StatusSink

	scroll   *Debouncer
	mutation *Debouncer
	kick     chan trigger

	// cycleMu serializes cycles so icon updates never interleave
	cycleMu sync.Mutex

	mu          sync.Mutex
	initialized bool
	destroyed   bool
	visible     bool
	position    Position
	rotating    bool
	icons       []catalog.IconDescriptor
	stats       Stats

	cancel context.CancelFunc
	group  *errgroup.Group
}

// New creates a controller. Nothing runs until Init.
func New(cfg config.LoaderConfig, deps Deps, log *logger.Logger) *Controller {
	if log == nil {
		log = logger.NewNop()
	}
	if deps.Keywords == nil {
		deps.Keywords = keywords.NewExtractor()
	}
	if deps.Catalog == nil {
		deps.Catalog = catalog.New()
	}
	if deps.Sampler == nil {
		deps.Sampler = sampler.New()
	}
	if deps.Status == nil {
		deps.Status = nopSink{}
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.MaxConcepts <= 0 {
		cfg.MaxConcepts = resolver.DefaultMaxConcepts
	}

	var model resolver.ConceptModel
	if deps.Model != nil {
		model = deps.Model
	}

	return &Controller{
		cfg:  cfg,
		deps: deps,
		log:  log.WithComponent("loader"),
		resolver: resolver.New(model, deps.Keywords, deps.Catalog, resolver.Options{
			MaxConcepts:      cfg.MaxConcepts,
			FallbackConcepts: cfg.FallbackConcepts,
			FallbackIcons:    cfg.FallbackIcons,
		}, log),
		sampler: deps.Sampler,
		status:  deps.Status,
		kick:    make(chan trigger, 1),
		visible: true,
	}
}

// Init validates the host, starts the render loop and the background
// triggers, and runs a first cycle. ctx bounds the controller's lifetime.
func (c *Controller) Init(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return fmt.Errorf("%w: controller destroyed", ErrInitialization)
	}
	if c.initialized {
		return nil
	}

	if c.deps.Surface == nil || !c.deps.Surface.Attached() {
		return fmt.Errorf("%w: render surface %q not found", ErrInitialization, c.cfg.CanvasID)
	}
	if c.deps.Page == nil {
		return fmt.Errorf("%w: no page to sample", ErrInitialization)
	}
	if c.cfg.UpdateInterval <= 0 {
		return fmt.Errorf("%w: update interval must be greater than 0", ErrInitialization)
	}
	mode, err := animator.ParseMode(c.cfg.AnimationMode)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInitialization, err)
	}
	position, err := ParsePosition(c.cfg.Position)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInitialization, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(runCtx)

	c.animator = animator.New(c.deps.Surface, animator.Options{
		Mode:          mode,
		FrameInterval: c.deps.FrameInterval,
		Rand:          rand.New(rand.NewSource(c.deps.Rand.Int63())),
	}, c.log)
	if err := c.animator.Start(runCtx); err != nil {
		cancel()
		return fmt.Errorf("%w: %w", ErrInitialization, err)
	}
	if !c.visible {
		c.animator.Pause()
	}

	c.position = position
	c.cancel = cancel
	c.group = g
	c.scroll = NewDebouncer(c.cfg.ScrollDebounce, func() { c.request(triggerScroll) })
	c.mutation = NewDebouncer(c.cfg.MutationDebounce, func() { c.request(triggerMutation) })
	c.initialized = true

	g.Go(func() error { return c.worker(gctx) })
	g.Go(func() error { return c.periodic(gctx) })
	g.Go(func() error { return c.watchPage(gctx) })
	g.Go(func() error { return c.loadModel(gctx, g) })

	c.status.SetPosition(position)
	c.log.InfoWithFields("Initialized", []logger.Field{
		logger.F("mode", mode.String()),
		logger.F("position", position.String()),
		logger.F("interval", c.cfg.UpdateInterval.String()),
	})

	c.enqueue(triggerInit)
	return nil
}

// worker runs queued cycles one at a time
func (c *Controller) worker(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case t := <-c.kick:
			if !c.Visible() {
				c.count(func(s *Stats) { s.SkippedHidden++ })
				continue
			}
			c.runCycle(ctx, t)
		}
	}
}

func (c *Controller) periodic(ctx context.Context) error {
	ticker := time.NewTicker(c.cfg.UpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.request(triggerPeriodic)
		}
	}
}

func (c *Controller) watchPage(ctx context.Context) error {
	events := c.deps.Page.Events()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				c.log.Debug("Page event stream closed")
				return nil
			}
			switch ev.Kind {
			case page.EventScroll:
				if c.Visible() {
					c.scroll.Trigger()
				}
			case page.EventMutation:
				if ev.Added > 0 && c.Visible() {
					c.mutation.Trigger()
				}
			case page.EventVisibility:
				c.SetVisible(ev.Visible)
			}
		}
	}
}

// loadModel loads the model in the background. Until it is ready cycles use
// the keyword path.
func (c *Controller) loadModel(ctx context.Context, g *errgroup.Group) error {
	if c.deps.Model == nil {
		c.enterFallback(ctx, g)
		return nil
	}

	err := c.deps.Model.Load(ctx, c.onProgress)
	if ctx.Err() != nil {
		return nil
	}
	if err != nil {
		c.log.Warn("Model unavailable: %v", err)
		c.enterFallback(ctx, g)
		return nil
	}

	c.status.SetStatus(StatusReady, textReady)
	c.request(triggerModel)
	return nil
}

func (c *Controller) onProgress(e ai.ProgressEvent) {
	switch e.Status {
	case ai.ProgressDownloading:
		c.status.SetStatus(StatusLoading, fmt.Sprintf("Downloading AI model: %d%%", e.Percent))
	case ai.ProgressLoading:
		c.status.SetStatus(StatusLoading, fmt.Sprintf("Loading AI model: %d%%", e.Percent))
	}
}

// enterFallback reports fallback mode. With deterministic fallback disabled
// the widget only rotates the configured fallback icons.
func (c *Controller) enterFallback(ctx context.Context, g *errgroup.Group) {
	c.status.SetStatus(StatusFallback, textFallback)

	if c.cfg.FallbackEnabled() || len(catalog.Fallback(c.cfg.FallbackIcons)) == 0 {
		return
	}

	c.mu.Lock()
	c.rotating = true
	c.stats.FallbackMode = true
	c.mu.Unlock()

	c.cycleMu.Lock()
	c.apply(catalog.Fallback(c.cfg.FallbackIcons))
	c.cycleMu.Unlock()

	g.Go(func() error { return c.rotate(ctx) })
}

func (c *Controller) rotate(ctx context.Context) error {
	interval := c.cfg.FallbackRotation
	if interval <= 0 {
		interval = 3 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	icons := catalog.Fallback(c.cfg.FallbackIcons)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !c.Visible() {
				continue
			}
			pick := icons[c.deps.Rand.Intn(len(icons))]
			c.cycleMu.Lock()
			c.apply([]catalog.IconDescriptor{pick})
			c.cycleMu.Unlock()
			c.count(func(s *Stats) { s.Rotations++ })
		}
	}
}

// request asks for a cycle unless the page is hidden
func (c *Controller) request(t trigger) {
	if !c.Visible() {
		c.count(func(s *Stats) { s.SkippedHidden++ })
		return
	}
	c.enqueue(t)
}

// enqueue queues one cycle. While a cycle is queued further requests are
// folded into it.
func (c *Controller) enqueue(t trigger) {
	select {
	case c.kick <- t:
	default:
		c.count(func(s *Stats) { s.Coalesced++ })
	}
}

// TriggerAnalysis runs one cycle now. It is suppressed while hidden and
// waits for an in-flight cycle to finish first.
func (c *Controller) TriggerAnalysis(ctx context.Context) {
	c.mu.Lock()
	ready := c.initialized && !c.destroyed
	c.mu.Unlock()
	if !ready {
		return
	}
	if !c.Visible() {
		c.count(func(s *Stats) { s.SkippedHidden++ })
		return
	}
	c.log.Debug("Manual analysis triggered")
	c.runCycle(ctx, "manual")
}

// runCycle samples, resolves and animates once
func (c *Controller) runCycle(ctx context.Context, t trigger) {
	c.cycleMu.Lock()
	defer c.cycleMu.Unlock()

	c.mu.Lock()
	skip := c.rotating || c.destroyed
	c.mu.Unlock()
	if skip {
		return
	}

	doc, err := c.deps.Page.Snapshot(ctx)
	if err != nil {
		if ctx.Err() == nil {
			c.log.Warn("Page snapshot failed: %v", err)
			c.count(func(s *Stats) { s.Failed++ })
		}
		return
	}

	text := strings.TrimSpace(c.sampler.SampleDocument(doc))
	if utf8.RuneCountInString(text) < MinContentLength {
		c.log.Debug("Skipping %s cycle: %v (%d chars)", t, ErrAnalysisEmpty, utf8.RuneCountInString(text))
		c.count(func(s *Stats) { s.SkippedEmpty++ })
		return
	}

	res := c.resolver.Resolve(ctx, text)
	c.apply(res.Icons)

	c.count(func(s *Stats) {
		s.Cycles++
		s.LastSource = res.Source
		s.LastCycle = time.Now()
	})
	c.log.DebugWithFields("Cycle complete", []logger.Field{
		logger.F("trigger", string(t)),
		logger.F("source", string(res.Source)),
		logger.F("concepts", res.Concepts),
	})
}

// apply hands icons to the animator; callers hold cycleMu
func (c *Controller) apply(icons []catalog.IconDescriptor) {
	if err := c.animator.UpdateIcons(icons); err != nil {
		c.log.Debug("Icon update dropped: %v", err)
		return
	}

	c.mu.Lock()
	c.icons = append([]catalog.IconDescriptor(nil), icons...)
	c.mu.Unlock()

	if len(icons) > 0 {
		c.status.SetLabel(catalog.Humanize(icons[0].Name))
	}
}

// SetVisible pauses everything while hidden. Becoming visible resumes the
// animation and runs one cycle immediately.
func (c *Controller) SetVisible(visible bool) {
	c.mu.Lock()
	if !c.initialized || c.destroyed || c.visible == visible {
		c.visible = visible
		c.mu.Unlock()
		return
	}
	c.visible = visible
	c.mu.Unlock()

	if !visible {
		c.animator.Pause()
		c.scroll.Cancel()
		c.mutation.Cancel()
		c.log.Debug("Hidden: paused")
		return
	}

	c.animator.Resume()
	c.log.Debug("Visible: resumed")
	c.enqueue(triggerVisibility)
}

// ToggleMode switches to the next animation mode
func (c *Controller) ToggleMode() animator.Mode {
	c.mu.Lock()
	anim := c.animator
	c.mu.Unlock()
	if anim == nil {
		return animator.ModeFloat
	}
	return anim.ToggleMode()
}

// TogglePosition moves the widget to the next placement preset
func (c *Controller) TogglePosition() Position {
	c.mu.Lock()
	c.position = c.position.Next()
	p := c.position
	c.mu.Unlock()

	c.status.SetPosition(p)
	return p
}

// Destroy stops every goroutine and the render loop. Safe to call more than
// once.
func (c *Controller) Destroy() {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.destroyed = true
	initialized := c.initialized
	c.mu.Unlock()

	if !initialized {
		return
	}

	c.scroll.Stop()
	c.mutation.Stop()
	c.cancel()
	if err := c.group.Wait(); err != nil {
		c.log.Debug("Background task ended with error: %v", err)
	}
	c.animator.Destroy()
	c.log.Info("Destroyed")
}

// Icons returns the icon set applied last
func (c *Controller) Icons() []catalog.IconDescriptor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]catalog.IconDescriptor(nil), c.icons...)
}

// Stats returns a copy of the cycle counters
func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Visible reports whether the page is visible
func (c *Controller) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}

// Position returns the current placement preset
func (c *Controller) Position() Position {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

// Animator exposes the render loop for hosts that draw frames themselves
func (c *Controller) Animator() *animator.Animator {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.animator
}

func (c *Controller) count(update func(*Stats)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	update(&c.stats)
}
