// Package animator runs the icon render loop. An Animator owns the active
// icon set and a clock that only advances on frames actually drawn.
package animator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/yildizm/glyphloader/internal/catalog"
	"github.com/yildizm/glyphloader/internal/logger"
)

var (
	// ErrDestroyed is returned by operations on a destroyed animator
	ErrDestroyed = errors.New("animator destroyed")

	// ErrNotStarted is returned when icons are pushed before Start
	ErrNotStarted = errors.New("animator not started")

	// ErrRenderTargetLost reports a surface detached while the loop runs.
	// Frames are skipped until it comes back.
	ErrRenderTargetLost = errors.New("render target lost")
)

const (
	// DefaultFrameInterval approximates one display refresh
	DefaultFrameInterval = 16 * time.Millisecond

	// ClockStep is how far the clock advances per drawn frame
	ClockStep = 0.016
)

// State is the animator lifecycle phase
type State int

const (
	StateStopped State = iota
	StateRunning
	StatePaused
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Sprite is one icon as drawn in a frame
type Sprite struct {
	Name  string
	X, Y  float64
	Size  float64
	Alpha float64
}

// Surface is where frames are drawn
type Surface interface {
	// Size returns the drawable area in surface units
	Size() (width, height float64)
	// Attached reports whether the surface can still be drawn on
	Attached() bool
	Clear()
	Draw(s Sprite)
}

// AnimatedIcon is a descriptor with randomized motion parameters. A fresh set
// is created on every update.
type AnimatedIcon struct {
	Descriptor  catalog.IconDescriptor
	X, Y        float64
	Size        float64
	Speed       float64
	BaseOpacity float64
	Phase       float64
}

// Options configures an Animator
type Options struct {
	Mode          Mode
	FrameInterval time.Duration
	// Rand drives icon placement; nil uses a time-seeded source
	Rand *rand.Rand
}

// Animator places and renders icons on a Surface
type Animator struct {
	surface  Surface
	interval time.Duration
	log      *logger.Logger

	mu      sync.Mutex
	state   State
	mode    Mode
	clock   float64
	icons   []AnimatedIcon
	rng     *rand.Rand
	lost    bool
	frames  uint64
	skipped uint64

	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a stopped animator drawing on surface
func New(surface Surface, opts Options, log *logger.Logger) *Animator {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = DefaultFrameInterval
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Animator{
		surface:  surface,
		interval: opts.FrameInterval,
		log:      log.WithComponent("animator"),
		mode:     opts.Mode,
		rng:      opts.Rand,
	}
}

// Start begins the render loop. It stops when ctx ends or on Destroy.
func (a *Animator) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch a.state {
	case StateDestroyed:
		return ErrDestroyed
	case StateRunning, StatePaused:
		return nil
	}

	loopCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.done = make(chan struct{})
	a.state = StateRunning

	go a.run(loopCtx, a.done)
	a.log.Debug("Render loop started in %s mode", a.mode)
	return nil
}

func (a *Animator) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.Tick()
		}
	}
}

// Tick renders one frame and advances the clock. It does nothing unless the
// animator is running, and skips frames while the surface is detached.
func (a *Animator) Tick() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateRunning {
		return
	}

	if a.surface == nil || !a.surface.Attached() {
		a.skipped++
		if !a.lost {
			a.lost = true
			a.log.Warn("Skipping frames: %v", ErrRenderTargetLost)
		}
		return
	}
	if a.lost {
		a.lost = false
		a.log.Info("Render target attached again")
	}

	a.surface.Clear()
	for _, sprite := range a.frameLocked() {
		a.surface.Draw(sprite)
	}
	a.clock += ClockStep
	a.frames++
}

// Frame returns the sprites for the current clock without drawing them
func (a *Animator) Frame() []Sprite {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.frameLocked()
}

func (a *Animator) frameLocked() []Sprite {
	width, height := a.surfaceSize()
	sprites := make([]Sprite, 0, len(a.icons))
	for _, icon := range a.icons {
		sprites = append(sprites, a.mode.transform(icon, a.clock, width, height))
	}
	return sprites
}

func (a *Animator) surfaceSize() (float64, float64) {
	if a.surface == nil {
		return 0, 0
	}
	return a.surface.Size()
}

// UpdateIcons replaces the icon set with freshly placed icons. An empty list
// clears the set and keeps the loop running.
func (a *Animator) UpdateIcons(icons []catalog.IconDescriptor) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch a.state {
	case StateDestroyed:
		return ErrDestroyed
	case StateStopped:
		return ErrNotStarted
	}

	width, height := a.surfaceSize()
	animated := make([]AnimatedIcon, 0, len(icons))
	for _, d := range icons {
		animated = append(animated, AnimatedIcon{
			Descriptor:  d,
			X:           a.rng.Float64() * width,
			Y:           a.rng.Float64() * height,
			Size:        20 + a.rng.Float64()*30,
			Speed:       0.5 + a.rng.Float64(),
			BaseOpacity: 0.3 + a.rng.Float64()*0.5,
			Phase:       a.rng.Float64() * math.Pi * 2,
		})
	}
	a.icons = animated
	return nil
}

// Pause freezes the clock; frames are no-ops until Resume
func (a *Animator) Pause() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == StateRunning {
		a.state = StatePaused
	}
}

// Resume continues from where Pause froze the clock
func (a *Animator) Resume() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == StatePaused {
		a.state = StateRunning
	}
}

// ToggleMode advances to the next animation mode and returns it
func (a *Animator) ToggleMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mode = a.mode.Next()
	return a.mode
}

// SetMode switches to m
func (a *Animator) SetMode(m Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mode = m
}

// Destroy stops the loop for good and waits for it to exit. Safe to call
// more than once.
func (a *Animator) Destroy() {
	a.mu.Lock()
	if a.state == StateDestroyed {
		a.mu.Unlock()
		return
	}
	a.state = StateDestroyed
	a.icons = nil
	cancel, done := a.cancel, a.done
	a.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	a.log.Debug("Render loop stopped")
}

// State returns the lifecycle phase
func (a *Animator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Mode returns the current animation mode
func (a *Animator) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// Clock returns the animation clock
func (a *Animator) Clock() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.clock
}

// Icons returns a copy of the active icon set
func (a *Animator) Icons() []AnimatedIcon {
	a.mu.Lock()
	defer a.mu.Unlock()
	icons := make([]AnimatedIcon, len(a.icons))
	copy(icons, a.icons)
	return icons
}

// Stats reports drawn and skipped frame counts
func (a *Animator) Stats() (frames, skipped uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.frames, a.skipped
}
