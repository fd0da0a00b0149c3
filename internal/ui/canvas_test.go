package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/yildizm/glyphloader/internal/animator"
	"github.com/yildizm/glyphloader/internal/glyph"
	"github.com/yildizm/glyphloader/internal/loader"
)

func asciiGlyphs(t *testing.T) {
	t.Helper()
	glyph.SetEmojiDisabled(true)
	t.Cleanup(func() { glyph.SetEmojiDisabled(false) })
	t.Setenv("NO_COLOR", "1")
}

func TestCanvas_Size(t *testing.T) {
	c := NewCanvas(10, 4)
	w, h := c.Size()
	assert.Equal(t, 80.0, w)
	assert.Equal(t, 64.0, h)

	d := NewCanvas(0, -1)
	w, h = d.Size()
	assert.Equal(t, DefaultCols*CellWidth, w)
	assert.Equal(t, DefaultRows*CellHeight, h)
}

func TestCanvas_DrawAndClear(t *testing.T) {
	asciiGlyphs(t)
	c := NewCanvas(10, 3)

	c.Draw(animator.Sprite{Name: "cloud", X: 17, Y: 20, Size: 30, Alpha: 0.9})
	c.Draw(animator.Sprite{Name: "cloud", X: -5, Y: 0, Alpha: 1})
	c.Draw(animator.Sprite{Name: "cloud", X: 500, Y: 0, Alpha: 1})

	lines := strings.Split(c.Render(GetStyles()), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, strings.Repeat(" ", 10), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "  "+glyph.For("cloud")))
	assert.Equal(t, strings.Repeat(" ", 10), lines[2])

	c.Clear()
	for _, line := range strings.Split(c.Render(GetStyles()), "\n") {
		assert.Equal(t, strings.Repeat(" ", 10), line)
	}
}

func TestCanvas_WideGlyphKeepsRowWidth(t *testing.T) {
	asciiGlyphs(t)
	c := NewCanvas(6, 1)

	c.Draw(animator.Sprite{Name: "cloud", X: 0, Y: 0, Alpha: 1})
	c.Draw(animator.Sprite{Name: "cloud", X: 8, Y: 0, Alpha: 1})
	c.Draw(animator.Sprite{Name: "cloud", X: 47, Y: 0, Alpha: 1})

	out := c.Render(GetStyles())
	assert.Equal(t, " () ()", out)
	assert.Equal(t, 6, lipgloss.Width(out))
}

func TestCanvas_Detach(t *testing.T) {
	c := NewCanvas(4, 4)
	assert.True(t, c.Attached())
	c.Detach()
	assert.False(t, c.Attached())
}

func TestCanvas_Status(t *testing.T) {
	c := NewCanvas(4, 4)

	state, text, percent := c.Status()
	assert.Equal(t, loader.StatusLoading, state)
	assert.Equal(t, "Starting...", text)
	assert.Equal(t, -1, percent)

	c.SetStatus(loader.StatusLoading, "Downloading AI model: 42%")
	_, _, percent = c.Status()
	assert.Equal(t, 42, percent)

	c.SetStatus(loader.StatusFallback, "Using fallback mode")
	state, text, percent = c.Status()
	assert.Equal(t, loader.StatusFallback, state)
	assert.Equal(t, "Using fallback mode", text)
	assert.Equal(t, -1, percent)

	c.SetLabel("Account balance")
	c.SetPosition(loader.PositionCenter)
	assert.Equal(t, "Account balance", c.Label())
	assert.Equal(t, loader.PositionCenter, c.Position())
}

func TestStyles_Alpha(t *testing.T) {
	s := GetStyles()
	assert.Equal(t, s.Opaque.GetForeground(), s.Alpha(0.9).GetForeground())
	assert.Equal(t, s.Translucent.GetForeground(), s.Alpha(0.6).GetForeground())
	assert.Equal(t, s.Dim.GetForeground(), s.Alpha(0.3).GetForeground())
	assert.Equal(t, s.Faint.GetForeground(), s.Alpha(0.1).GetForeground())
}

func TestSetThemeByName(t *testing.T) {
	t.Cleanup(func() { SetTheme(&DefaultTheme) })

	assert.True(t, SetThemeByName("minimal"))
	assert.Equal(t, "minimal", GetTheme().Name)
	assert.False(t, SetThemeByName("neon"))
	assert.Equal(t, "minimal", GetTheme().Name)
	assert.Len(t, GetAvailableThemes(), 3)
}
