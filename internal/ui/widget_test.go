package ui

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/yildizm/glyphloader/internal/animator"
	"github.com/yildizm/glyphloader/internal/config"
	"github.com/yildizm/glyphloader/internal/loader"
	"github.com/yildizm/glyphloader/internal/page"
	"github.com/yildizm/glyphloader/internal/sampler"
)

type recordingScroller struct {
	mu     sync.Mutex
	deltas []float64
}

func (r *recordingScroller) Scroll(delta float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deltas = append(r.deltas, delta)
}

// newWidget returns a running widget and a func that stops it
func newWidget(t *testing.T) (*WidgetModel, *loader.Controller, *recordingScroller, func()) {
	t.Helper()
	asciiGlyphs(t)

	static := page.NewStatic(sampler.Document{
		ViewportHeight: 800,
		Elements: []sampler.Element{{
			Tag: "p", Top: 0, Bottom: 40, Width: 800, Height: 40,
			Text: "Our financial dashboard shows market trends and portfolio analysis",
		}},
	})
	canvas := NewCanvas(20, 5)

	cfg := config.DefaultConfig().Loader
	cfg.UpdateInterval = time.Hour
	ctrl := loader.New(cfg, loader.Deps{
		Page:          static,
		Surface:       canvas,
		Status:        canvas,
		Rand:          rand.New(rand.NewSource(1)),
		FrameInterval: time.Millisecond,
	}, nil)
	require.NoError(t, ctrl.Init(context.Background()))
	stop := func() {
		ctrl.Destroy()
		_ = static.Close()
	}

	scroller := &recordingScroller{}
	w := NewWidgetModel(context.Background(), Options{
		Controller: ctrl,
		Canvas:     canvas,
		Scroller:   scroller,
	})
	w.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return w, ctrl, scroller, stop
}

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestWidget_Keys(t *testing.T) {
	defer goleak.VerifyNone(t)
	w, ctrl, scroller, stop := newWidget(t)
	defer stop()

	w.Update(key('p'))
	assert.Equal(t, loader.PositionBottomLeft, ctrl.Position())
	assert.Equal(t, loader.PositionBottomLeft, w.opts.Canvas.Position())

	w.Update(key('m'))
	assert.Equal(t, animator.ModePulse, ctrl.Animator().Mode())

	w.Update(key('j'))
	w.Update(key('k'))
	scroller.mu.Lock()
	assert.Equal(t, []float64{ScrollStep, -ScrollStep}, scroller.deltas)
	scroller.mu.Unlock()

	w.Update(key('v'))
	assert.False(t, ctrl.Visible())
	assert.Contains(t, w.View(), "paused")
	w.Update(key('v'))
	assert.True(t, ctrl.Visible())
}

func TestWidget_Analyze(t *testing.T) {
	defer goleak.VerifyNone(t)
	w, ctrl, _, stop := newWidget(t)
	defer stop()

	require.Eventually(t, func() bool { return ctrl.Stats().Cycles == 1 }, 2*time.Second, 5*time.Millisecond)

	_, cmd := w.Update(key('a'))
	require.NotNil(t, cmd)
	assert.True(t, w.analyzing)

	_, again := w.Update(key('a'))
	assert.Nil(t, again)

	msg := cmd()
	assert.IsType(t, analysisDoneMsg{}, msg)
	w.Update(msg)
	assert.False(t, w.analyzing)
	assert.Equal(t, 2, ctrl.Stats().Cycles)
}

func TestWidget_View(t *testing.T) {
	defer goleak.VerifyNone(t)
	w, ctrl, _, stop := newWidget(t)
	defer stop()

	require.Eventually(t, func() bool {
		if ctrl.Stats().Cycles != 1 {
			return false
		}
		view := w.View()
		return strings.Contains(view, "Account balance") && strings.Contains(view, "Using fallback mode")
	}, 2*time.Second, 5*time.Millisecond)

	view := w.View()
	assert.Contains(t, view, "glyphloader")
	assert.Contains(t, view, "1 cycles")
	assert.Contains(t, view, helpText)
	assert.Equal(t, 1, ctrl.Stats().Cycles)
}

func TestWidget_Quit(t *testing.T) {
	defer goleak.VerifyNone(t)
	w, _, _, stop := newWidget(t)
	defer stop()

	_, cmd := w.Update(key('q'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, w.View())

	_, next := w.Update(refreshMsg(time.Now()))
	assert.Nil(t, next)
}

func TestPlacement(t *testing.T) {
	h, v := placement(loader.PositionBottomRight)
	assert.Equal(t, 1.0, float64(h))
	assert.Equal(t, 1.0, float64(v))

	h, v = placement(loader.PositionCenter)
	assert.Equal(t, 0.5, float64(h))
	assert.Equal(t, 0.5, float64(v))
}
